// Package gscip translates normalized parameters into SCIP parameters.
package gscip

import (
	"maps"
	"slices"
	"strconv"
	"time"

	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/germanamz/solveparams/pkg/backends/emphasis"
	"github.com/germanamz/solveparams/pkg/params"
	"github.com/germanamz/solveparams/pkg/params/optional"
	"github.com/germanamz/solveparams/pkg/strictness"
)

// SCIP parameter names.
const (
	ParamMaxThreads    = "parallel/maxnthreads"
	ParamRandomSeed    = "randomization/randomseedshift"
	ParamTimeLimit     = "limits/time"
	ParamVerbosity     = "display/verblevel"
	ParamInitAlgorithm = "lp/initalgorithm"
	ParamPresolving    = "presolving/emphasis"
	ParamSeparating    = "separating/emphasis"
	ParamHeuristics    = "heuristics/emphasis"
	ParamScaling       = "lp/scaling"
)

// SCIP display verbosity levels used for the output switch.
const (
	VerbosityQuiet  = 0
	VerbosityNormal = 4
)

// MetaParam is a SCIP emphasis setting for a whole plugin family.
type MetaParam string

const (
	MetaDefault    MetaParam = "DEFAULT"
	MetaAggressive MetaParam = "AGGRESSIVE"
	MetaFast       MetaParam = "FAST"
	MetaOff        MetaParam = "OFF"
)

// Capabilities describes SCIP as embedded by the gscip wrapper. It runs
// single-threaded.
var Capabilities = backend.Capabilities{
	Backend: backend.GScip,
	Graded: map[string]bool{
		params.FieldPresolve:   true,
		params.FieldCuts:       true,
		params.FieldHeuristics: true,
		params.FieldScaling:    true,
	},
	MaxSeed:    2147483647,
	MaxThreads: 1,
	LPAlgorithms: []params.LPAlgorithm{
		params.LPAlgorithmPrimalSimplex,
		params.LPAlgorithmDualSimplex,
		params.LPAlgorithmBarrier,
	},
	HasTimeLimit: true,
	HasOutput:    true,
}

var algorithms = map[params.LPAlgorithm]string{
	params.LPAlgorithmPrimalSimplex: "p",
	params.LPAlgorithmDualSimplex:   "d",
	params.LPAlgorithmBarrier:       "b",
}

var metaLadder = emphasis.Ladder[MetaParam]{
	Off: optional.Some(MetaOff),
	Levels: map[params.Emphasis]MetaParam{
		params.EmphasisLow:    MetaFast,
		params.EmphasisMedium: MetaDefault,
		params.EmphasisHigh:   MetaAggressive,
	},
}

var scalingLadder = emphasis.Ladder[int]{
	Off: optional.Some(0),
	Levels: map[params.Emphasis]int{
		params.EmphasisMedium: 1,
		params.EmphasisHigh:   2,
	},
}

// Parameters is the native SCIP parameter block. It is both the translation
// result and the override a request may carry; unset fields leave SCIP's
// defaults in place.
type Parameters struct {
	MaxThreads    optional.Value[int]           `yaml:"max_threads,omitempty"`
	RandomSeed    optional.Value[int64]         `yaml:"random_seed,omitempty"`
	TimeLimit     optional.Value[time.Duration] `yaml:"time_limit,omitempty"`
	Verbosity     optional.Value[int]           `yaml:"verbosity,omitempty"`
	InitAlgorithm optional.Value[string]        `yaml:"init_algorithm,omitempty"`
	Presolving    optional.Value[MetaParam]     `yaml:"presolving,omitempty"`
	Separating    optional.Value[MetaParam]     `yaml:"separating,omitempty"`
	Heuristics    optional.Value[MetaParam]     `yaml:"heuristics,omitempty"`
	Scaling       optional.Value[int]           `yaml:"scaling,omitempty"`

	// Params holds raw SCIP parameters by their full name.
	Params map[string]string `yaml:"params,omitempty"`
}

var _ backend.Settings = (*Parameters)(nil)

// Backend implements backend.Settings.
func (p *Parameters) Backend() backend.Kind { return backend.GScip }

// Entries lists the set fields under their SCIP names, followed by Params
// sorted by name.
func (p *Parameters) Entries() []backend.Setting {
	var out []backend.Setting
	add := func(name string, v string, ok bool) {
		if ok {
			out = append(out, backend.Setting{Name: name, Value: v})
		}
	}

	n, ok := p.MaxThreads.Get()
	add(ParamMaxThreads, strconv.Itoa(n), ok)
	s, ok := p.RandomSeed.Get()
	add(ParamRandomSeed, strconv.FormatInt(s, 10), ok)
	d, ok := p.TimeLimit.Get()
	add(ParamTimeLimit, strconv.FormatFloat(d.Seconds(), 'g', -1, 64), ok)
	v, ok := p.Verbosity.Get()
	add(ParamVerbosity, strconv.Itoa(v), ok)
	a, ok := p.InitAlgorithm.Get()
	add(ParamInitAlgorithm, a, ok)
	m, ok := p.Presolving.Get()
	add(ParamPresolving, string(m), ok)
	m, ok = p.Separating.Get()
	add(ParamSeparating, string(m), ok)
	m, ok = p.Heuristics.Get()
	add(ParamHeuristics, string(m), ok)
	sc, ok := p.Scaling.Get()
	add(ParamScaling, strconv.Itoa(sc), ok)

	for _, name := range slices.Sorted(maps.Keys(p.Params)) {
		out = append(out, backend.Setting{Name: name, Value: p.Params[name]})
	}
	return out
}

// merge returns p with every field set in o taking precedence.
func merge(p, o Parameters) Parameters {
	out := Parameters{
		MaxThreads:    o.MaxThreads.Or(p.MaxThreads),
		RandomSeed:    o.RandomSeed.Or(p.RandomSeed),
		TimeLimit:     o.TimeLimit.Or(p.TimeLimit),
		Verbosity:     o.Verbosity.Or(p.Verbosity),
		InitAlgorithm: o.InitAlgorithm.Or(p.InitAlgorithm),
		Presolving:    o.Presolving.Or(p.Presolving),
		Separating:    o.Separating.Or(p.Separating),
		Heuristics:    o.Heuristics.Or(p.Heuristics),
		Scaling:       o.Scaling.Or(p.Scaling),
	}
	if len(p.Params)+len(o.Params) > 0 {
		out.Params = maps.Clone(p.Params)
		if out.Params == nil {
			out.Params = make(map[string]string, len(o.Params))
		}
		maps.Copy(out.Params, o.Params)
	}
	return out
}

// Translate maps p onto SCIP parameters and merges override on top. A nil
// override is the same as an empty one.
func Translate(p params.Normalized, override *Parameters, esc *strictness.Escalator) (*Parameters, error) {
	name := backend.GScip.String()

	var out Parameters
	var err error

	if out.RandomSeed, err = Capabilities.Seed(p, esc); err != nil {
		return nil, err
	}

	presolve, err := emphasis.Resolve(name, params.FieldPresolve, p.Presolve(), metaLadder, Capabilities.Supports(params.FieldPresolve), esc)
	if err != nil {
		return nil, err
	}
	cuts, err := emphasis.Resolve(name, params.FieldCuts, p.Cuts(), metaLadder, Capabilities.Supports(params.FieldCuts), esc)
	if err != nil {
		return nil, err
	}
	heuristics, err := emphasis.Resolve(name, params.FieldHeuristics, p.Heuristics(), metaLadder, Capabilities.Supports(params.FieldHeuristics), esc)
	if err != nil {
		return nil, err
	}
	scaling, err := emphasis.Resolve(name, params.FieldScaling, p.Scaling(), scalingLadder, Capabilities.Supports(params.FieldScaling), esc)
	if err != nil {
		return nil, err
	}
	out.Presolving = presolve.Value
	out.Separating = cuts.Value
	out.Heuristics = heuristics.Value
	out.Scaling = scaling.Value

	scalars, err := Capabilities.Scalars(p, esc)
	if err != nil {
		return nil, err
	}
	out.MaxThreads = scalars.Threads
	out.TimeLimit = scalars.TimeLimit
	if a, ok := algorithms[scalars.LPAlgorithm]; ok {
		out.InitAlgorithm = optional.Some(a)
	}
	if on, ok := scalars.Output.Get(); ok {
		out.Verbosity = optional.Some(verbosity(on))
	}

	if override != nil {
		out = merge(out, *override)
	}
	return &out, nil
}

func verbosity(on bool) int {
	if on {
		return VerbosityNormal
	}
	return VerbosityQuiet
}
