package seed_test

import (
	"math"
	"testing"

	"github.com/germanamz/solveparams/pkg/backends/seed"
	"github.com/germanamz/solveparams/pkg/params/optional"
	"github.com/stretchr/testify/assert"
)

func TestClamp_Unset(t *testing.T) {
	got, adjusted := seed.Clamp(optional.None[int64](), math.MaxInt32)

	assert.False(t, got.IsSet())
	assert.False(t, adjusted)
}

func TestClamp_InRangeIsIdentity(t *testing.T) {
	const maxValid = 1000

	for _, s := range []int64{0, 1, 17, 999, maxValid} {
		got, adjusted := seed.Clamp(optional.Some(s), maxValid)

		assert.Equal(t, optional.Some(s), got)
		assert.False(t, adjusted, "seed %d", s)
	}
}

func TestClamp_AboveMax(t *testing.T) {
	got, adjusted := seed.Clamp(optional.Some(int64(3_000_000_000)), math.MaxInt32)

	assert.Equal(t, optional.Some(int64(math.MaxInt32)), got)
	assert.True(t, adjusted)
}

func TestClamp_Negative(t *testing.T) {
	got, adjusted := seed.Clamp(optional.Some(int64(-12)), math.MaxInt32)

	assert.Equal(t, optional.Some(int64(0)), got)
	assert.True(t, adjusted)
}

func TestClamp_Idempotent(t *testing.T) {
	for _, s := range []int64{-5, 0, 42, 2_000_000_001, math.MaxInt64} {
		once, _ := seed.Clamp(optional.Some(s), 2_000_000_000)
		twice, adjusted := seed.Clamp(once, 2_000_000_000)

		assert.Equal(t, once, twice)
		assert.False(t, adjusted)
	}
}
