package highs_test

import (
	"testing"
	"time"

	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/germanamz/solveparams/pkg/backends/highs"
	"github.com/germanamz/solveparams/pkg/params"
	"github.com/germanamz/solveparams/pkg/params/optional"
	"github.com/germanamz/solveparams/pkg/strictness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func normalize(t *testing.T, c params.Common) params.Normalized {
	t.Helper()

	n, err := params.Normalize(c)
	require.NoError(t, err)

	return n
}

func strict() *strictness.Escalator {
	return strictness.NewEscalator(strictness.Policy{BadParameter: true}, nil)
}

func TestTranslate_Entries(t *testing.T) {
	p := normalize(t, params.Common{
		Threads:      optional.Some(2),
		RandomSeed:   optional.Some(int64(7)),
		TimeLimit:    optional.Some(10 * time.Second),
		EnableOutput: optional.Some(false),
		LPAlgorithm:  params.LPAlgorithmPrimalSimplex,
		Presolve:     params.EmphasisHigh,
		Heuristics:   params.EmphasisVeryHigh,
		Scaling:      params.EmphasisLow,
	})

	got, err := highs.Translate(p, nil, strict())
	require.NoError(t, err)

	assert.Equal(t, []backend.Setting{
		{Name: "threads", Value: "2"},
		{Name: "random_seed", Value: "7"},
		{Name: "time_limit", Value: "10"},
		{Name: "output_flag", Value: "false"},
		{Name: "solver", Value: "simplex"},
		{Name: "simplex_strategy", Value: "4"},
		{Name: "presolve", Value: "on"},
		{Name: "mip_heuristic_effort", Value: "0.2"},
		{Name: "simplex_scale_strategy", Value: "2"},
	}, got.Entries())
}

func TestTranslate_Barrier(t *testing.T) {
	got, err := highs.Translate(normalize(t, params.Common{LPAlgorithm: params.LPAlgorithmBarrier}), nil, strict())
	require.NoError(t, err)
	assert.Equal(t, optional.Some(highs.SolverIPM), got.Solver)
	assert.False(t, got.SimplexStrategy.IsSet())
}

func TestTranslate_PresolveOff(t *testing.T) {
	got, err := highs.Translate(normalize(t, params.Common{Presolve: params.EmphasisOff}), nil, strict())
	require.NoError(t, err)
	assert.Equal(t, optional.Some("off"), got.Presolve)
}

func TestTranslate_CutsUnsupported(t *testing.T) {
	_, err := highs.Translate(normalize(t, params.Common{Cuts: params.EmphasisLow}), nil, strict())
	assert.ErrorIs(t, err, strictness.ErrUnsupportedFeature)

	esc := strictness.NewEscalator(strictness.Policy{}, nil)
	got, err := highs.Translate(normalize(t, params.Common{Cuts: params.EmphasisLow}), nil, esc)
	require.NoError(t, err)
	assert.Empty(t, got.Entries())
	require.Len(t, esc.Warnings(), 1)
	assert.Equal(t, params.FieldCuts, esc.Warnings()[0].Field)
}

func TestTranslate_ExtraOverridesDerived(t *testing.T) {
	p := normalize(t, params.Common{Threads: optional.Some(4), RandomSeed: optional.Some(int64(5))})
	extra := []backend.Setting{
		{Name: "threads", Value: "8"},
		{Name: "random_seed", Value: "9"},
		{Name: "mip_rel_gap", Value: "0.001"},
	}

	got, err := highs.Translate(p, extra, strict())
	require.NoError(t, err)

	entries := got.Entries()
	assert.Equal(t, extra, entries[len(entries)-len(extra):])
	assert.Equal(t, map[string]string{
		"threads":     "8",
		"random_seed": "9",
		"mip_rel_gap": "0.001",
	}, got.Effective())

	extra[0].Value = "16"
	assert.Equal(t, "8", got.Extra[0].Value)
}

func TestTranslate_SeedClamped(t *testing.T) {
	esc := strict()
	got, err := highs.Translate(normalize(t, params.Common{RandomSeed: optional.Some(int64(1) << 40)}), nil, esc)
	require.NoError(t, err)
	assert.Equal(t, optional.Some(int64(2147483647)), got.RandomSeed)
	assert.Len(t, esc.Warnings(), 1)
}
