// Package gurobi translates normalized parameters into the ordered list of
// string parameters a Gurobi environment is configured with.
//
// Gurobi applies parameters one at a time, so the list is a replay log:
// entries are applied strictly in order and a later entry for the same name
// overwrites an earlier one. Reordering the list changes solver behavior.
package gurobi

import (
	"strconv"
	"time"

	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/germanamz/solveparams/pkg/backends/emphasis"
	"github.com/germanamz/solveparams/pkg/params"
	"github.com/germanamz/solveparams/pkg/params/optional"
	"github.com/germanamz/solveparams/pkg/strictness"
)

// Gurobi parameter names, in the order Sequence emits them.
const (
	ParamThreads    = "Threads"
	ParamSeed       = "Seed"
	ParamTimeLimit  = "TimeLimit"
	ParamMethod     = "Method"
	ParamPresolve   = "Presolve"
	ParamCuts       = "Cuts"
	ParamHeuristics = "Heuristics"
	ParamScaleFlag  = "ScaleFlag"

	// ParamOutputFlag is applied on the environment before the list.
	ParamOutputFlag = "OutputFlag"
)

// MaxSeed is GRB_MAXINT, the upper bound of the Seed parameter.
const MaxSeed = 2_000_000_000

// Capabilities describes Gurobi. Every common parameter is supported.
var Capabilities = backend.Capabilities{
	Backend: backend.Gurobi,
	Graded: map[string]bool{
		params.FieldPresolve:   true,
		params.FieldCuts:       true,
		params.FieldHeuristics: true,
		params.FieldScaling:    true,
	},
	MaxSeed:         MaxSeed,
	AcceptsSettings: true,
	LPAlgorithms: []params.LPAlgorithm{
		params.LPAlgorithmPrimalSimplex,
		params.LPAlgorithmDualSimplex,
		params.LPAlgorithmBarrier,
	},
	HasTimeLimit: true,
	HasOutput:    true,
}

var methods = map[params.LPAlgorithm]string{
	params.LPAlgorithmPrimalSimplex: "0",
	params.LPAlgorithmDualSimplex:   "1",
	params.LPAlgorithmBarrier:       "2",
}

var (
	presolveLadder = emphasis.Ladder[string]{
		Off: optional.Some("0"),
		Levels: map[params.Emphasis]string{
			params.EmphasisLow:    "1",
			params.EmphasisMedium: "2",
		},
	}
	cutsLadder = emphasis.Ladder[string]{
		Off: optional.Some("0"),
		Levels: map[params.Emphasis]string{
			params.EmphasisLow:    "1",
			params.EmphasisMedium: "2",
			params.EmphasisHigh:   "3",
		},
	}
	heuristicsLadder = emphasis.Ladder[string]{
		Off: optional.Some("0"),
		Levels: map[params.Emphasis]string{
			params.EmphasisLow:      "0.025",
			params.EmphasisMedium:   "0.05",
			params.EmphasisHigh:     "0.1",
			params.EmphasisVeryHigh: "0.2",
		},
	}
	scalingLadder = emphasis.Ladder[string]{
		Off: optional.Some("0"),
		Levels: map[params.Emphasis]string{
			params.EmphasisLow:      "1",
			params.EmphasisHigh:     "2",
			params.EmphasisVeryHigh: "3",
		},
	}
)

// Settings is the translated Gurobi configuration.
type Settings struct {
	// Output is the environment-level OutputFlag; unset keeps Gurobi's default.
	Output optional.Value[bool]
	// Parameters is the replay list: common entries, then the override list.
	Parameters []backend.Setting
}

var _ backend.Settings = (*Settings)(nil)

// Backend implements backend.Settings.
func (s *Settings) Backend() backend.Kind { return backend.Gurobi }

// Entries returns OutputFlag (when set) followed by the replay list.
func (s *Settings) Entries() []backend.Setting {
	out := make([]backend.Setting, 0, len(s.Parameters)+1)
	if on, ok := s.Output.Get(); ok {
		out = append(out, backend.Setting{Name: ParamOutputFlag, Value: boolFlag(on)})
	}
	return append(out, s.Parameters...)
}

// Effective returns the value Gurobi ends up with for each parameter after
// replaying the list.
func (s *Settings) Effective() map[string]string {
	return backend.Replay(s.Parameters)
}

// Translate validates p against Gurobi's capabilities and builds its
// settings. overrides is appended verbatim after the common entries.
func Translate(p params.Normalized, overrides []backend.Setting, esc *strictness.Escalator) (*Settings, error) {
	r, err := resolve(p, esc)
	if err != nil {
		return nil, err
	}

	return &Settings{
		Output:     r.output,
		Parameters: r.sequence(overrides),
	}, nil
}

var ladders = map[string]emphasis.Ladder[string]{
	params.FieldPresolve:   presolveLadder,
	params.FieldCuts:       cutsLadder,
	params.FieldHeuristics: heuristicsLadder,
	params.FieldScaling:    scalingLadder,
}

// resolved holds the values Gurobi runs with after the capability checks.
type resolved struct {
	seed    optional.Value[int64]
	efforts map[string]optional.Value[string]
	threads optional.Value[int]
	limit   optional.Value[time.Duration]
	method  params.LPAlgorithm
	output  optional.Value[bool]
}

func resolve(p params.Normalized, esc *strictness.Escalator) (resolved, error) {
	r := resolved{efforts: make(map[string]optional.Value[string], len(params.EmphasisFields))}

	var err error
	if r.seed, err = Capabilities.Seed(p, esc); err != nil {
		return resolved{}, err
	}
	for _, field := range params.EmphasisFields {
		level, err := emphasis.Resolve(backend.Gurobi.String(), field, p.Emphasis(field), ladders[field], Capabilities.Supports(field), esc)
		if err != nil {
			return resolved{}, err
		}
		r.efforts[field] = level.Value
	}
	scalars, err := Capabilities.Scalars(p, esc)
	if err != nil {
		return resolved{}, err
	}
	r.threads = scalars.Threads
	r.limit = scalars.TimeLimit
	r.method = scalars.LPAlgorithm
	r.output = scalars.Output

	return r, nil
}

// Sequence returns the ordered Gurobi parameter list for p followed by
// overrides.
//
// Common entries come first in a fixed order (Threads, Seed, TimeLimit,
// Method, Presolve, Cuts, Heuristics, ScaleFlag); unset fields are omitted,
// so an unset time limit leaves Gurobi's own infinite default in place. The
// overrides are appended in the order given. Duplicate names are kept on
// purpose: Gurobi's last-write-wins replay resolves them.
//
// Sequence applies the same adjustments as Translate but records nothing, so
// out-of-range seeds are clamped silently.
func Sequence(p params.Normalized, overrides []backend.Setting) []backend.Setting {
	r, err := resolve(p, strictness.NewEscalator(strictness.Policy{}, nil))
	if err != nil {
		return append([]backend.Setting(nil), overrides...)
	}
	return r.sequence(overrides)
}

func (r resolved) sequence(overrides []backend.Setting) []backend.Setting {
	var out []backend.Setting
	add := func(name string, v optional.Value[string]) {
		if s, ok := v.Get(); ok {
			out = append(out, backend.Setting{Name: name, Value: s})
		}
	}

	if n, ok := r.threads.Get(); ok {
		add(ParamThreads, optional.Some(strconv.Itoa(n)))
	}
	if s, ok := r.seed.Get(); ok {
		add(ParamSeed, optional.Some(strconv.FormatInt(s, 10)))
	}
	if d, ok := r.limit.Get(); ok {
		add(ParamTimeLimit, optional.Some(strconv.FormatFloat(d.Seconds(), 'g', -1, 64)))
	}
	if m, ok := methods[r.method]; ok {
		add(ParamMethod, optional.Some(m))
	}

	add(ParamPresolve, r.efforts[params.FieldPresolve])
	add(ParamCuts, r.efforts[params.FieldCuts])
	add(ParamHeuristics, r.efforts[params.FieldHeuristics])
	add(ParamScaleFlag, r.efforts[params.FieldScaling])

	return append(out, overrides...)
}

func boolFlag(on bool) string {
	if on {
		return "1"
	}
	return "0"
}
