// Package highs translates normalized parameters into HiGHS options.
//
// HiGHS options are typed (bool, int, double, string) and set one by one by
// name, so besides the typed fields an Options value carries a generic list
// of extra options that is applied afterwards, in order.
package highs

import (
	"strconv"
	"time"

	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/germanamz/solveparams/pkg/backends/emphasis"
	"github.com/germanamz/solveparams/pkg/params"
	"github.com/germanamz/solveparams/pkg/params/optional"
	"github.com/germanamz/solveparams/pkg/strictness"
)

// HiGHS option names.
const (
	OptionThreads         = "threads"
	OptionRandomSeed      = "random_seed"
	OptionTimeLimit       = "time_limit"
	OptionOutputFlag      = "output_flag"
	OptionSolver          = "solver"
	OptionSimplexStrategy = "simplex_strategy"
	OptionPresolve        = "presolve"
	OptionHeuristicEffort = "mip_heuristic_effort"
	OptionScaleStrategy   = "simplex_scale_strategy"
)

// Values of the solver option.
const (
	SolverSimplex = "simplex"
	SolverIPM     = "ipm"
)

// Values of the simplex_strategy option.
const (
	SimplexDual   = 1
	SimplexPrimal = 4
)

// Capabilities describes HiGHS. Cut generation has no user-facing switch.
var Capabilities = backend.Capabilities{
	Backend: backend.HiGHS,
	Graded: map[string]bool{
		params.FieldPresolve:   true,
		params.FieldHeuristics: true,
		params.FieldScaling:    true,
	},
	MaxSeed:         2147483647,
	AcceptsSettings: true,
	LPAlgorithms: []params.LPAlgorithm{
		params.LPAlgorithmPrimalSimplex,
		params.LPAlgorithmDualSimplex,
		params.LPAlgorithmBarrier,
	},
	HasTimeLimit: true,
	HasOutput:    true,
}

var (
	presolveLadder = emphasis.Ladder[string]{
		Off:    optional.Some("off"),
		Levels: map[params.Emphasis]string{params.EmphasisMedium: "on"},
	}

	cutsLadder = emphasis.Ladder[string]{}

	heuristicLadder = emphasis.Ladder[float64]{
		Off: optional.Some(0.0),
		Levels: map[params.Emphasis]float64{
			params.EmphasisLow:      0.025,
			params.EmphasisMedium:   0.05,
			params.EmphasisHigh:     0.1,
			params.EmphasisVeryHigh: 0.2,
		},
	}

	scaleLadder = emphasis.Ladder[int]{
		Off: optional.Some(0),
		Levels: map[params.Emphasis]int{
			params.EmphasisMedium: 2,
			params.EmphasisHigh:   3,
		},
	}
)

// Options is the translated HiGHS configuration.
type Options struct {
	Threads         optional.Value[int]
	RandomSeed      optional.Value[int64]
	TimeLimit       optional.Value[time.Duration]
	OutputFlag      optional.Value[bool]
	Solver          optional.Value[string]
	SimplexStrategy optional.Value[int]
	Presolve        optional.Value[string]
	HeuristicEffort optional.Value[float64]
	ScaleStrategy   optional.Value[int]

	// Extra is applied after the typed options; a later entry for the same
	// name replaces an earlier value.
	Extra []backend.Setting
}

var _ backend.Settings = (*Options)(nil)

// Backend implements backend.Settings.
func (o *Options) Backend() backend.Kind { return backend.HiGHS }

// Entries returns the typed options in a fixed order followed by Extra.
func (o *Options) Entries() []backend.Setting {
	var out []backend.Setting
	add := func(name, value string) {
		out = append(out, backend.Setting{Name: name, Value: value})
	}

	if n, ok := o.Threads.Get(); ok {
		add(OptionThreads, strconv.Itoa(n))
	}
	if s, ok := o.RandomSeed.Get(); ok {
		add(OptionRandomSeed, strconv.FormatInt(s, 10))
	}
	if d, ok := o.TimeLimit.Get(); ok {
		add(OptionTimeLimit, strconv.FormatFloat(d.Seconds(), 'g', -1, 64))
	}
	if b, ok := o.OutputFlag.Get(); ok {
		add(OptionOutputFlag, strconv.FormatBool(b))
	}
	if s, ok := o.Solver.Get(); ok {
		add(OptionSolver, s)
	}
	if n, ok := o.SimplexStrategy.Get(); ok {
		add(OptionSimplexStrategy, strconv.Itoa(n))
	}
	if s, ok := o.Presolve.Get(); ok {
		add(OptionPresolve, s)
	}
	if f, ok := o.HeuristicEffort.Get(); ok {
		add(OptionHeuristicEffort, strconv.FormatFloat(f, 'g', -1, 64))
	}
	if n, ok := o.ScaleStrategy.Get(); ok {
		add(OptionScaleStrategy, strconv.Itoa(n))
	}

	return append(out, o.Extra...)
}

// Effective replays Entries and returns the final value of every option.
func (o *Options) Effective() map[string]string {
	return backend.Replay(o.Entries())
}

// Translate maps p onto HiGHS options. extra is appended verbatim, so it
// overrides any option derived from p.
func Translate(p params.Normalized, extra []backend.Setting, esc *strictness.Escalator) (*Options, error) {
	name := backend.HiGHS.String()

	var out Options
	var err error

	if out.RandomSeed, err = Capabilities.Seed(p, esc); err != nil {
		return nil, err
	}

	presolve, err := emphasis.Resolve(name, params.FieldPresolve, p.Presolve(), presolveLadder, Capabilities.Supports(params.FieldPresolve), esc)
	if err != nil {
		return nil, err
	}
	if _, err := emphasis.Resolve(name, params.FieldCuts, p.Cuts(), cutsLadder, Capabilities.Supports(params.FieldCuts), esc); err != nil {
		return nil, err
	}
	heuristics, err := emphasis.Resolve(name, params.FieldHeuristics, p.Heuristics(), heuristicLadder, Capabilities.Supports(params.FieldHeuristics), esc)
	if err != nil {
		return nil, err
	}
	scaling, err := emphasis.Resolve(name, params.FieldScaling, p.Scaling(), scaleLadder, Capabilities.Supports(params.FieldScaling), esc)
	if err != nil {
		return nil, err
	}
	out.Presolve = presolve.Value
	out.HeuristicEffort = heuristics.Value
	out.ScaleStrategy = scaling.Value

	scalars, err := Capabilities.Scalars(p, esc)
	if err != nil {
		return nil, err
	}
	out.Threads = scalars.Threads
	out.TimeLimit = scalars.TimeLimit
	out.OutputFlag = scalars.Output
	switch scalars.LPAlgorithm {
	case params.LPAlgorithmPrimalSimplex:
		out.Solver = optional.Some(SolverSimplex)
		out.SimplexStrategy = optional.Some(SimplexPrimal)
	case params.LPAlgorithmDualSimplex:
		out.Solver = optional.Some(SolverSimplex)
		out.SimplexStrategy = optional.Some(SimplexDual)
	case params.LPAlgorithmBarrier:
		out.Solver = optional.Some(SolverIPM)
	}

	if len(extra) > 0 {
		out.Extra = append([]backend.Setting(nil), extra...)
	}
	return &out, nil
}
