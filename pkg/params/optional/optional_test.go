package optional_test

import (
	"testing"

	"github.com/germanamz/solveparams/pkg/params/optional"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestValue_ZeroIsUnset(t *testing.T) {
	var v optional.Value[int]

	assert.False(t, v.IsSet())
	assert.True(t, v.IsZero())
	assert.Equal(t, 7, v.OrElse(7))
	assert.Nil(t, v.Ptr())
	assert.Equal(t, "<unset>", v.String())
	assert.Equal(t, optional.None[int](), v)
}

func TestValue_ExplicitZeroIsSet(t *testing.T) {
	v := optional.Some(0)

	got, ok := v.Get()
	assert.True(t, ok)
	assert.Equal(t, 0, got)
	assert.Equal(t, 0, v.OrElse(7))
	assert.Equal(t, "0", v.String())
}

func TestValue_Or(t *testing.T) {
	derived := optional.Some(int64(5))
	override := optional.Some(int64(9))

	assert.Equal(t, override, override.Or(derived))
	assert.Equal(t, derived, optional.None[int64]().Or(derived))
	assert.False(t, optional.None[int64]().Or(optional.None[int64]()).IsSet())
}

func TestFromPtr(t *testing.T) {
	b := false

	assert.Equal(t, optional.Some(false), optional.FromPtr(&b))
	assert.False(t, optional.FromPtr[bool](nil).IsSet())

	p := optional.Some(true).Ptr()
	require.NotNil(t, p)
	assert.True(t, *p)
}

type holder struct {
	Flag  optional.Value[bool]   `yaml:"flag,omitempty"`
	Limit optional.Value[string] `yaml:"limit,omitempty"`
}

func TestValue_YAML(t *testing.T) {
	var h holder
	require.NoError(t, yaml.Unmarshal([]byte("flag: false\n"), &h))

	assert.Equal(t, optional.Some(false), h.Flag)
	assert.False(t, h.Limit.IsSet())

	out, err := yaml.Marshal(h)
	require.NoError(t, err)
	assert.Equal(t, "flag: false\n", string(out))
}

func TestValue_YAMLTypeMismatch(t *testing.T) {
	var h holder
	err := yaml.Unmarshal([]byte("flag: [1, 2]\n"), &h)
	assert.Error(t, err)
}
