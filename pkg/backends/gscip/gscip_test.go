package gscip_test

import (
	"testing"
	"time"

	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/germanamz/solveparams/pkg/backends/gscip"
	"github.com/germanamz/solveparams/pkg/params"
	"github.com/germanamz/solveparams/pkg/params/optional"
	"github.com/germanamz/solveparams/pkg/strictness"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func normalize(t *testing.T, c params.Common) params.Normalized {
	t.Helper()

	n, err := params.Normalize(c)
	require.NoError(t, err)

	return n
}

func lenient() *strictness.Escalator {
	return strictness.NewEscalator(strictness.Policy{}, nil)
}

func TestTranslate_Empty(t *testing.T) {
	got, err := gscip.Translate(normalize(t, params.Common{}), nil, lenient())
	require.NoError(t, err)
	assert.Equal(t, &gscip.Parameters{}, got)
	assert.Empty(t, got.Entries())
}

func TestTranslate_Mapping(t *testing.T) {
	p := normalize(t, params.Common{
		EnableOutput: optional.Some(false),
		TimeLimit:    optional.Some(2 * time.Minute),
		Threads:      optional.Some(1),
		RandomSeed:   optional.Some(int64(12)),
		LPAlgorithm:  params.LPAlgorithmDualSimplex,
		Presolve:     params.EmphasisVeryHigh,
		Cuts:         params.EmphasisOff,
		Heuristics:   params.EmphasisLow,
		Scaling:      params.EmphasisLow,
	})

	esc := lenient()
	got, err := gscip.Translate(p, nil, esc)
	require.NoError(t, err)
	assert.Empty(t, esc.Warnings())

	assert.Equal(t, optional.Some(1), got.MaxThreads)
	assert.Equal(t, optional.Some(int64(12)), got.RandomSeed)
	assert.Equal(t, optional.Some(2*time.Minute), got.TimeLimit)
	assert.Equal(t, optional.Some(gscip.VerbosityQuiet), got.Verbosity)
	assert.Equal(t, optional.Some("d"), got.InitAlgorithm)
	assert.Equal(t, optional.Some(gscip.MetaAggressive), got.Presolving)
	assert.Equal(t, optional.Some(gscip.MetaOff), got.Separating)
	assert.Equal(t, optional.Some(gscip.MetaFast), got.Heuristics)
	assert.Equal(t, optional.Some(1), got.Scaling)

	entries := backend.Replay(got.Entries())
	assert.Equal(t, "120", entries[gscip.ParamTimeLimit])
	assert.Equal(t, "0", entries[gscip.ParamVerbosity])
	assert.Equal(t, "AGGRESSIVE", entries[gscip.ParamPresolving])
}

func TestTranslate_ThreadsCapped(t *testing.T) {
	p := normalize(t, params.Common{Threads: optional.Some(4)})

	esc := lenient()
	got, err := gscip.Translate(p, nil, esc)
	require.NoError(t, err)
	assert.Equal(t, optional.Some(1), got.MaxThreads)
	require.Len(t, esc.Warnings(), 1)
	assert.Equal(t, params.FieldThreads, esc.Warnings()[0].Field)

	_, err = gscip.Translate(p, nil, strictness.NewEscalator(strictness.Policy{BadParameter: true}, nil))
	assert.ErrorIs(t, err, strictness.ErrUnsupportedFeature)
}

func TestTranslate_OverrideSeedPrecedence(t *testing.T) {
	p := normalize(t, params.Common{RandomSeed: optional.Some(int64(5))})

	got, err := gscip.Translate(p, &gscip.Parameters{RandomSeed: optional.Some(int64(9))}, lenient())
	require.NoError(t, err)
	assert.Equal(t, optional.Some(int64(9)), got.RandomSeed)
}

func TestTranslate_OverrideExplicitZeroWins(t *testing.T) {
	p := normalize(t, params.Common{EnableOutput: optional.Some(true)})

	got, err := gscip.Translate(p, &gscip.Parameters{Verbosity: optional.Some(0)}, lenient())
	require.NoError(t, err)
	assert.Equal(t, optional.Some(0), got.Verbosity)
}

func TestTranslate_OverrideParamsMerged(t *testing.T) {
	override := &gscip.Parameters{Params: map[string]string{
		"limits/gap":   "0.01",
		"limits/nodes": "1000",
	}}

	got, err := gscip.Translate(normalize(t, params.Common{Cuts: params.EmphasisMedium}), override, lenient())
	require.NoError(t, err)

	assert.Equal(t, []backend.Setting{
		{Name: gscip.ParamSeparating, Value: "DEFAULT"},
		{Name: "limits/gap", Value: "0.01"},
		{Name: "limits/nodes", Value: "1000"},
	}, got.Entries())
}

func TestTranslate_OverrideIsNotMutated(t *testing.T) {
	override := &gscip.Parameters{Params: map[string]string{"limits/gap": "0.01"}}

	got, err := gscip.Translate(normalize(t, params.Common{}), override, lenient())
	require.NoError(t, err)

	got.Params["limits/gap"] = "0.5"
	assert.Equal(t, "0.01", override.Params["limits/gap"])
}

func TestTranslate_SeedClamped(t *testing.T) {
	esc := lenient()
	got, err := gscip.Translate(normalize(t, params.Common{RandomSeed: optional.Some(int64(-3))}), nil, esc)
	require.NoError(t, err)
	assert.Equal(t, optional.Some(int64(0)), got.RandomSeed)
	require.Len(t, esc.Warnings(), 1)
	assert.Equal(t, strictness.SeedOutOfRange, esc.Warnings()[0].Kind)
}

func TestParameters_YAML(t *testing.T) {
	var got gscip.Parameters
	err := yaml.Unmarshal([]byte(`
random_seed: 3
presolving: OFF
time_limit: 10s
params:
  limits/gap: "0.05"
`), &got)
	require.NoError(t, err)

	assert.Equal(t, optional.Some(int64(3)), got.RandomSeed)
	assert.Equal(t, optional.Some(gscip.MetaOff), got.Presolving)
	assert.Equal(t, optional.Some(10*time.Second), got.TimeLimit)
	assert.False(t, got.Verbosity.IsSet())
	assert.Equal(t, map[string]string{"limits/gap": "0.05"}, got.Params)
}
