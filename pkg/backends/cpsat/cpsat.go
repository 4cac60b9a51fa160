// Package cpsat translates normalized parameters into CP-SAT parameters.
package cpsat

import (
	"strconv"
	"time"

	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/germanamz/solveparams/pkg/backends/emphasis"
	"github.com/germanamz/solveparams/pkg/params"
	"github.com/germanamz/solveparams/pkg/params/optional"
	"github.com/germanamz/solveparams/pkg/strictness"
)

// Capabilities describes CP-SAT. It solves LPs only as relaxations, so no LP
// algorithm can be chosen, and cuts are driven by the linearization level.
var Capabilities = backend.Capabilities{
	Backend: backend.CPSAT,
	Graded: map[string]bool{
		params.FieldCuts: true,
	},
	MaxSeed:      2147483647,
	HasTimeLimit: true,
	HasOutput:    true,
}

var (
	presolveLadder = emphasis.Ladder[bool]{Off: optional.Some(false)}

	linearizationLadder = emphasis.Ladder[int]{
		Off: optional.Some(0),
		Levels: map[params.Emphasis]int{
			params.EmphasisMedium: 1,
			params.EmphasisHigh:   2,
		},
	}

	noLadder = emphasis.Ladder[bool]{}
)

// Parameters is the native CP-SAT parameter block, used both as translation
// result and as request override.
type Parameters struct {
	NumWorkers         optional.Value[int]           `yaml:"num_workers,omitempty"`
	RandomSeed         optional.Value[int64]         `yaml:"random_seed,omitempty"`
	MaxTimeInSeconds   optional.Value[time.Duration] `yaml:"max_time_in_seconds,omitempty"`
	LogSearchProgress  optional.Value[bool]          `yaml:"log_search_progress,omitempty"`
	CPModelPresolve    optional.Value[bool]          `yaml:"cp_model_presolve,omitempty"`
	LinearizationLevel optional.Value[int]           `yaml:"linearization_level,omitempty"`
	RelativeGapLimit   optional.Value[float64]       `yaml:"relative_gap_limit,omitempty"`
	EnumerateAll       optional.Value[bool]          `yaml:"enumerate_all_solutions,omitempty"`
}

var _ backend.Settings = (*Parameters)(nil)

func (p *Parameters) Backend() backend.Kind { return backend.CPSAT }

func (p *Parameters) Entries() []backend.Setting {
	var out []backend.Setting
	add := func(name, value string) {
		out = append(out, backend.Setting{Name: name, Value: value})
	}

	if n, ok := p.NumWorkers.Get(); ok {
		add("num_workers", strconv.Itoa(n))
	}
	if s, ok := p.RandomSeed.Get(); ok {
		add("random_seed", strconv.FormatInt(s, 10))
	}
	if d, ok := p.MaxTimeInSeconds.Get(); ok {
		add("max_time_in_seconds", strconv.FormatFloat(d.Seconds(), 'g', -1, 64))
	}
	if b, ok := p.LogSearchProgress.Get(); ok {
		add("log_search_progress", strconv.FormatBool(b))
	}
	if b, ok := p.CPModelPresolve.Get(); ok {
		add("cp_model_presolve", strconv.FormatBool(b))
	}
	if n, ok := p.LinearizationLevel.Get(); ok {
		add("linearization_level", strconv.Itoa(n))
	}
	if g, ok := p.RelativeGapLimit.Get(); ok {
		add("relative_gap_limit", strconv.FormatFloat(g, 'g', -1, 64))
	}
	if b, ok := p.EnumerateAll.Get(); ok {
		add("enumerate_all_solutions", strconv.FormatBool(b))
	}

	return out
}

func merge(p, o Parameters) Parameters {
	return Parameters{
		NumWorkers:         o.NumWorkers.Or(p.NumWorkers),
		RandomSeed:         o.RandomSeed.Or(p.RandomSeed),
		MaxTimeInSeconds:   o.MaxTimeInSeconds.Or(p.MaxTimeInSeconds),
		LogSearchProgress:  o.LogSearchProgress.Or(p.LogSearchProgress),
		CPModelPresolve:    o.CPModelPresolve.Or(p.CPModelPresolve),
		LinearizationLevel: o.LinearizationLevel.Or(p.LinearizationLevel),
		RelativeGapLimit:   o.RelativeGapLimit.Or(p.RelativeGapLimit),
		EnumerateAll:       o.EnumerateAll.Or(p.EnumerateAll),
	}
}

// Translate maps p onto CP-SAT parameters and merges override on top.
func Translate(p params.Normalized, override *Parameters, esc *strictness.Escalator) (*Parameters, error) {
	name := backend.CPSAT.String()

	var out Parameters
	var err error

	if out.RandomSeed, err = Capabilities.Seed(p, esc); err != nil {
		return nil, err
	}

	presolve, err := emphasis.Resolve(name, params.FieldPresolve, p.Presolve(), presolveLadder, Capabilities.Supports(params.FieldPresolve), esc)
	if err != nil {
		return nil, err
	}
	cuts, err := emphasis.Resolve(name, params.FieldCuts, p.Cuts(), linearizationLadder, Capabilities.Supports(params.FieldCuts), esc)
	if err != nil {
		return nil, err
	}
	if _, err := emphasis.Resolve(name, params.FieldHeuristics, p.Heuristics(), noLadder, Capabilities.Supports(params.FieldHeuristics), esc); err != nil {
		return nil, err
	}
	if _, err := emphasis.Resolve(name, params.FieldScaling, p.Scaling(), noLadder, Capabilities.Supports(params.FieldScaling), esc); err != nil {
		return nil, err
	}
	out.CPModelPresolve = presolve.Value
	out.LinearizationLevel = cuts.Value

	scalars, err := Capabilities.Scalars(p, esc)
	if err != nil {
		return nil, err
	}
	out.NumWorkers = scalars.Threads
	out.MaxTimeInSeconds = scalars.TimeLimit
	out.LogSearchProgress = scalars.Output

	if override != nil {
		out = merge(out, *override)
	}
	return &out, nil
}
