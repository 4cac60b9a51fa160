package translate_test

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/germanamz/solveparams/pkg/backends/cpsat"
	"github.com/germanamz/solveparams/pkg/backends/glop"
	"github.com/germanamz/solveparams/pkg/backends/gscip"
	"github.com/germanamz/solveparams/pkg/backends/gurobi"
	"github.com/germanamz/solveparams/pkg/backends/highs"
	"github.com/germanamz/solveparams/pkg/metrics"
	"github.com/germanamz/solveparams/pkg/params"
	"github.com/germanamz/solveparams/pkg/params/optional"
	"github.com/germanamz/solveparams/pkg/params/override"
	"github.com/germanamz/solveparams/pkg/strictness"
	"github.com/germanamz/solveparams/pkg/translate"
	"github.com/google/go-cmp/cmp"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
	"golang.org/x/sync/errgroup"
)

const sampleRequest = `
backend: gurobi
parameters:
  strictness: {bad_parameter: false}
  enable_output: true
  time_limit: 30s
  threads: 4
  random_seed: 42
  lp_algorithm: dual_simplex
  presolve: high
  cuts: "off"
  heuristics: low
  scaling: medium
override:
  settings:
    - {name: Threads, value: "8"}
`

func TestParseRequest(t *testing.T) {
	req, err := translate.ParseRequest([]byte(sampleRequest))
	require.NoError(t, err)

	assert.Equal(t, backend.Gurobi, req.Backend)
	assert.Equal(t, optional.Some(30*time.Second), req.Parameters.TimeLimit)
	assert.Equal(t, params.EmphasisOff, req.Parameters.Cuts)
	assert.Equal(t, override.KindSettings, req.Override.Kind())
}

func TestLoadRequest_ExpandsEnv(t *testing.T) {
	t.Setenv("SOLVE_THREADS", "6")

	path := filepath.Join(t.TempDir(), "request.yaml")
	require.NoError(t, os.WriteFile(path, []byte("backend: highs\nparameters:\n  threads: ${SOLVE_THREADS}\n"), 0o600))

	req, err := translate.LoadRequest(path)
	require.NoError(t, err)
	assert.Equal(t, backend.HiGHS, req.Backend)
	assert.Equal(t, optional.Some(6), req.Parameters.Threads)
}

func TestLoadRequest_Errors(t *testing.T) {
	_, err := translate.LoadRequest(filepath.Join(t.TempDir(), "missing.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
	assert.True(t, strings.HasPrefix(err.Error(), "translate: load request:"))

	_, err = translate.ParseRequest([]byte("parameters: [1, 2"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "translate: parse request:")

	_, err = translate.ParseRequest([]byte("override:\n  settings: [{name: a, value: b}]\n  glop: {}\n"))
	assert.ErrorIs(t, err, override.ErrMultipleVariants)
}

func TestTranslate_Gurobi(t *testing.T) {
	req, err := translate.ParseRequest([]byte(sampleRequest))
	require.NoError(t, err)

	res, err := translate.New().Translate(req)
	require.NoError(t, err)
	assert.Empty(t, res.Warnings)

	s, ok := res.Settings.(*gurobi.Settings)
	require.True(t, ok)

	want := []backend.Setting{
		{Name: "Threads", Value: "4"},
		{Name: "Seed", Value: "42"},
		{Name: "TimeLimit", Value: "30"},
		{Name: "Method", Value: "1"},
		{Name: "Presolve", Value: "2"},
		{Name: "Cuts", Value: "0"},
		{Name: "Heuristics", Value: "0.025"},
		{Name: "ScaleFlag", Value: "1"},
		{Name: "Threads", Value: "8"},
	}
	if diff := cmp.Diff(want, s.Parameters); diff != "" {
		t.Errorf("gurobi parameters mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, optional.Some(true), s.Output)
	assert.Equal(t, "8", s.Effective()["Threads"])
}

func TestTranslate_InvalidThreadsAlwaysFatal(t *testing.T) {
	for _, strict := range []bool{false, true} {
		req := translate.Request{
			Backend: backend.Glop,
			Parameters: params.Common{
				Strictness: strictness.Policy{BadParameter: strict},
				Threads:    optional.Some(0),
			},
		}

		res, err := translate.New().Translate(req)
		assert.Nil(t, res)
		require.ErrorIs(t, err, strictness.ErrInvalidParameter)

		var serr *strictness.Error
		require.ErrorAs(t, err, &serr)
		assert.Equal(t, params.FieldThreads, serr.Field)
	}
}

func TestTranslate_UnknownBackend(t *testing.T) {
	_, err := translate.New().Translate(translate.Request{Backend: "cplex"})
	require.ErrorIs(t, err, translate.ErrUnknownBackend)
	assert.Contains(t, err.Error(), `"cplex"`)
}

func TestTranslate_GlopPresolveHigh(t *testing.T) {
	req := translate.Request{
		Backend:    backend.Glop,
		Parameters: params.Common{Presolve: params.EmphasisHigh},
	}

	res, err := translate.New().Translate(req)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 1)
	assert.Equal(t, strictness.UnsupportedFeature, res.Warnings[0].Kind)

	s := res.Settings.(*glop.Parameters)
	assert.Equal(t, optional.Some(false), s.UsePreprocessing)

	req.Parameters.Strictness.BadParameter = true
	res, err = translate.New().Translate(req)
	assert.Nil(t, res)
	assert.ErrorIs(t, err, strictness.ErrUnsupportedFeature)
}

func TestTranslate_OverrideMismatch(t *testing.T) {
	tests := []struct {
		name    string
		backend backend.Kind
		o       override.Override
	}{
		{"settings on gscip", backend.GScip, override.Settings(backend.Setting{Name: "limits/gap", Value: "0.1"})},
		{"glop block on gscip", backend.GScip, override.Glop(glop.Parameters{UseScaling: optional.Some(false)})},
		{"gscip block on gurobi", backend.Gurobi, override.GScip(gscip.Parameters{Verbosity: optional.Some(5)})},
		{"cp_sat block on highs", backend.HiGHS, override.CPSAT(cpsat.Parameters{NumWorkers: optional.Some(2)})},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := translate.Request{Backend: tt.backend, Override: tt.o}

			res, err := translate.New().Translate(req)
			require.NoError(t, err)
			assert.Empty(t, res.Settings.Entries(), "mismatched override must be ignored")
			require.Len(t, res.Warnings, 1)
			assert.Equal(t, translate.FieldOverride, res.Warnings[0].Field)

			req.Parameters.Strictness.BadParameter = true
			_, err = translate.New().Translate(req)
			assert.ErrorIs(t, err, strictness.ErrUnsupportedFeature)
		})
	}
}

func TestTranslate_OverrideCheckedAfterCommonParameters(t *testing.T) {
	req := translate.Request{
		Backend:    backend.Glop,
		Parameters: params.Common{Cuts: params.EmphasisHigh},
		Override:   override.GScip(gscip.Parameters{Verbosity: optional.Some(5)}),
	}

	res, err := translate.New().Translate(req)
	require.NoError(t, err)
	require.Len(t, res.Warnings, 2)
	assert.Equal(t, params.FieldCuts, res.Warnings[0].Field)
	assert.Equal(t, translate.FieldOverride, res.Warnings[1].Field)

	req.Parameters.Strictness.BadParameter = true
	_, err = translate.New().Translate(req)

	var serr *strictness.Error
	require.ErrorAs(t, err, &serr)
	assert.Equal(t, params.FieldCuts, serr.Field)
}

func TestTranslate_NativeOverrideApplied(t *testing.T) {
	req := translate.Request{
		Backend:    backend.GScip,
		Parameters: params.Common{RandomSeed: optional.Some(int64(5))},
		Override:   override.GScip(gscip.Parameters{RandomSeed: optional.Some(int64(9))}),
	}

	res, err := translate.New().Translate(req)
	require.NoError(t, err)
	assert.Equal(t, optional.Some(int64(9)), res.Settings.(*gscip.Parameters).RandomSeed)
}

func TestTranslate_HiGHSSettingsOverride(t *testing.T) {
	req := translate.Request{
		Backend:    backend.HiGHS,
		Parameters: params.Common{Threads: optional.Some(2)},
		Override:   override.Settings(backend.Setting{Name: "threads", Value: "3"}),
	}

	res, err := translate.New().Translate(req)
	require.NoError(t, err)
	assert.Equal(t, "3", res.Settings.(*highs.Options).Effective()["threads"])
}

func TestTranslate_Logging(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	tr := translate.New(translate.WithLogger(zap.New(core)))

	_, err := tr.Translate(translate.Request{Backend: backend.CPSAT, Parameters: params.Common{Scaling: params.EmphasisHigh}})
	require.NoError(t, err)

	adjusted := logs.FilterMessage("parameter adjusted").All()
	require.Len(t, adjusted, 1)
	assert.Equal(t, "cp_sat", adjusted[0].ContextMap()["backend"])
	assert.Equal(t, 1, logs.FilterMessage("request translated").Len())
}

func TestTranslate_Metrics(t *testing.T) {
	reg := prometheus.NewRegistry()
	tr := translate.New(translate.WithMetrics(metrics.New(reg)))

	_, err := tr.Translate(translate.Request{Backend: backend.Gurobi})
	require.NoError(t, err)
	_, err = tr.Translate(translate.Request{Backend: backend.Gurobi, Parameters: params.Common{Threads: optional.Some(-1)}})
	require.Error(t, err)
	_, err = tr.Translate(translate.Request{Backend: "cplex"})
	require.Error(t, err)

	expected := `
# HELP solveparams_translations_total Parameter translations by back-end and outcome
# TYPE solveparams_translations_total counter
solveparams_translations_total{backend="cplex",outcome="error"} 1
solveparams_translations_total{backend="gurobi",outcome="ok"} 1
solveparams_translations_total{backend="gurobi",outcome="rejected"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected), "solveparams_translations_total"))
}

func TestTranslate_Concurrent(t *testing.T) {
	tr := translate.New()

	var g errgroup.Group
	for i := range 64 {
		g.Go(func() error {
			req := translate.Request{
				Backend: backend.Kinds[i%len(backend.Kinds)],
				Parameters: params.Common{
					Strictness: strictness.Policy{BadParameter: i%2 == 0},
					RandomSeed: optional.Some(int64(i) << 33),
					Presolve:   params.EmphasisLow,
				},
			}

			res, err := tr.Translate(req)
			if err != nil {
				if errors.Is(err, strictness.ErrUnsupportedFeature) && req.Parameters.Strictness.BadParameter {
					return nil
				}
				return fmt.Errorf("request %d: %w", i, err)
			}
			for _, w := range res.Warnings {
				if w.Kind == strictness.SeedOutOfRange {
					return nil
				}
			}
			if i == 0 {
				return nil
			}
			return fmt.Errorf("request %d: missing seed warning in %v", i, res.Warnings)
		})
	}

	require.NoError(t, g.Wait())
}

func TestRegisterBackend(t *testing.T) {
	const kind backend.Kind = "fake"

	translate.RegisterBackend(kind, translate.Backend{
		Capabilities: backend.Capabilities{Backend: kind, AcceptsSettings: true, MaxSeed: 10},
		Translate: func(p params.Normalized, o override.Override, esc *strictness.Escalator) (backend.Settings, error) {
			list, _ := o.AsSettings()
			return fakeSettings(list), nil
		},
	})

	assert.Contains(t, translate.Backends(), kind)
	caps, ok := translate.Capabilities(kind)
	require.True(t, ok)
	assert.Equal(t, int64(10), caps.MaxSeed)

	res, err := translate.New().Translate(translate.Request{
		Backend:  kind,
		Override: override.Settings(backend.Setting{Name: "a", Value: "1"}),
	})
	require.NoError(t, err)
	assert.Equal(t, []backend.Setting{{Name: "a", Value: "1"}}, res.Settings.Entries())
}

func TestBackends_Defaults(t *testing.T) {
	kinds := translate.Backends()
	for _, k := range backend.Kinds {
		assert.Contains(t, kinds, k)
	}
}

type fakeSettings []backend.Setting

func (f fakeSettings) Backend() backend.Kind { return "fake" }
func (f fakeSettings) Entries() []backend.Setting { return f }
