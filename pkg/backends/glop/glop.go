// Package glop translates normalized parameters into GLOP parameters.
//
// GLOP is a pure LP simplex solver: it has no cuts or primal heuristics and
// its presolve can only be switched off.
package glop

import (
	"strconv"
	"time"

	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/germanamz/solveparams/pkg/backends/emphasis"
	"github.com/germanamz/solveparams/pkg/params"
	"github.com/germanamz/solveparams/pkg/params/optional"
	"github.com/germanamz/solveparams/pkg/strictness"
)

// ScalingMethod is GLOP's scaling algorithm.
type ScalingMethod string

const (
	ScalingDefault       ScalingMethod = "DEFAULT"
	ScalingEquilibration ScalingMethod = "EQUILIBRATION"
	ScalingLinearProgram ScalingMethod = "LINEAR_PROGRAM"
)

// Capabilities describes GLOP.
var Capabilities = backend.Capabilities{
	Backend: backend.Glop,
	Graded: map[string]bool{
		params.FieldScaling: true,
	},
	MaxSeed: 2147483647,
	LPAlgorithms: []params.LPAlgorithm{
		params.LPAlgorithmPrimalSimplex,
		params.LPAlgorithmDualSimplex,
	},
	HasTimeLimit: true,
	HasOutput:    true,
}

type scaling struct {
	enabled bool
	method  optional.Value[ScalingMethod]
}

var (
	presolveLadder = emphasis.Ladder[bool]{Off: optional.Some(false)}

	// Cuts and heuristics do not exist in GLOP: OFF is already in effect.
	noLadder = emphasis.Ladder[bool]{}

	scalingLadder = emphasis.Ladder[scaling]{
		Off: optional.Some(scaling{}),
		Levels: map[params.Emphasis]scaling{
			params.EmphasisLow:      {enabled: true, method: optional.Some(ScalingEquilibration)},
			params.EmphasisMedium:   {enabled: true, method: optional.Some(ScalingEquilibration)},
			params.EmphasisHigh:     {enabled: true, method: optional.Some(ScalingLinearProgram)},
			params.EmphasisVeryHigh: {enabled: true, method: optional.Some(ScalingLinearProgram)},
		},
	}
)

// Parameters is the native GLOP parameter block, used both as translation
// result and as request override.
type Parameters struct {
	UseDualSimplex    optional.Value[bool]          `yaml:"use_dual_simplex,omitempty"`
	UsePreprocessing  optional.Value[bool]          `yaml:"use_preprocessing,omitempty"`
	UseScaling        optional.Value[bool]          `yaml:"use_scaling,omitempty"`
	ScalingMethod     optional.Value[ScalingMethod] `yaml:"scaling_method,omitempty"`
	MaxTimeInSeconds  optional.Value[time.Duration] `yaml:"max_time_in_seconds,omitempty"`
	NumOMPThreads     optional.Value[int]           `yaml:"num_omp_threads,omitempty"`
	RandomSeed        optional.Value[int64]         `yaml:"random_seed,omitempty"`
	LogSearchProgress optional.Value[bool]          `yaml:"log_search_progress,omitempty"`
	MaxIterations     optional.Value[int64]         `yaml:"max_number_of_iterations,omitempty"`
}

var _ backend.Settings = (*Parameters)(nil)

func (p *Parameters) Backend() backend.Kind { return backend.Glop }

func (p *Parameters) Entries() []backend.Setting {
	var out []backend.Setting
	addBool := func(name string, v optional.Value[bool]) {
		if b, ok := v.Get(); ok {
			out = append(out, backend.Setting{Name: name, Value: strconv.FormatBool(b)})
		}
	}
	addInt := func(name string, v optional.Value[int64]) {
		if n, ok := v.Get(); ok {
			out = append(out, backend.Setting{Name: name, Value: strconv.FormatInt(n, 10)})
		}
	}

	addBool("use_dual_simplex", p.UseDualSimplex)
	addBool("use_preprocessing", p.UsePreprocessing)
	addBool("use_scaling", p.UseScaling)
	if m, ok := p.ScalingMethod.Get(); ok {
		out = append(out, backend.Setting{Name: "scaling_method", Value: string(m)})
	}
	if d, ok := p.MaxTimeInSeconds.Get(); ok {
		out = append(out, backend.Setting{Name: "max_time_in_seconds", Value: strconv.FormatFloat(d.Seconds(), 'g', -1, 64)})
	}
	if n, ok := p.NumOMPThreads.Get(); ok {
		addInt("num_omp_threads", optional.Some(int64(n)))
	}
	addInt("random_seed", p.RandomSeed)
	addBool("log_search_progress", p.LogSearchProgress)
	addInt("max_number_of_iterations", p.MaxIterations)

	return out
}

func merge(p, o Parameters) Parameters {
	return Parameters{
		UseDualSimplex:    o.UseDualSimplex.Or(p.UseDualSimplex),
		UsePreprocessing:  o.UsePreprocessing.Or(p.UsePreprocessing),
		UseScaling:        o.UseScaling.Or(p.UseScaling),
		ScalingMethod:     o.ScalingMethod.Or(p.ScalingMethod),
		MaxTimeInSeconds:  o.MaxTimeInSeconds.Or(p.MaxTimeInSeconds),
		NumOMPThreads:     o.NumOMPThreads.Or(p.NumOMPThreads),
		RandomSeed:        o.RandomSeed.Or(p.RandomSeed),
		LogSearchProgress: o.LogSearchProgress.Or(p.LogSearchProgress),
		MaxIterations:     o.MaxIterations.Or(p.MaxIterations),
	}
}

// Translate maps p onto GLOP parameters and merges override on top.
func Translate(p params.Normalized, override *Parameters, esc *strictness.Escalator) (*Parameters, error) {
	name := backend.Glop.String()

	var out Parameters
	var err error

	if out.RandomSeed, err = Capabilities.Seed(p, esc); err != nil {
		return nil, err
	}

	presolve, err := emphasis.Resolve(name, params.FieldPresolve, p.Presolve(), presolveLadder, Capabilities.Supports(params.FieldPresolve), esc)
	if err != nil {
		return nil, err
	}
	out.UsePreprocessing = presolve.Value

	if _, err := emphasis.Resolve(name, params.FieldCuts, p.Cuts(), noLadder, Capabilities.Supports(params.FieldCuts), esc); err != nil {
		return nil, err
	}
	if _, err := emphasis.Resolve(name, params.FieldHeuristics, p.Heuristics(), noLadder, Capabilities.Supports(params.FieldHeuristics), esc); err != nil {
		return nil, err
	}

	sc, err := emphasis.Resolve(name, params.FieldScaling, p.Scaling(), scalingLadder, Capabilities.Supports(params.FieldScaling), esc)
	if err != nil {
		return nil, err
	}
	if v, ok := sc.Value.Get(); ok {
		out.UseScaling = optional.Some(v.enabled)
		out.ScalingMethod = v.method
	}

	scalars, err := Capabilities.Scalars(p, esc)
	if err != nil {
		return nil, err
	}
	out.NumOMPThreads = scalars.Threads
	out.MaxTimeInSeconds = scalars.TimeLimit
	out.LogSearchProgress = scalars.Output
	switch scalars.LPAlgorithm {
	case params.LPAlgorithmPrimalSimplex:
		out.UseDualSimplex = optional.Some(false)
	case params.LPAlgorithmDualSimplex:
		out.UseDualSimplex = optional.Some(true)
	}

	if override != nil {
		out = merge(out, *override)
	}
	return &out, nil
}
