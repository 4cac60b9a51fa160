package backend

import (
	"fmt"
	"slices"
	"time"

	"github.com/germanamz/solveparams/pkg/backends/seed"
	"github.com/germanamz/solveparams/pkg/params"
	"github.com/germanamz/solveparams/pkg/params/optional"
	"github.com/germanamz/solveparams/pkg/strictness"
)

// Capabilities is the static description of what a back-end family accepts.
type Capabilities struct {
	Backend Kind

	// Graded reports, per effort field, whether the back-end distinguishes
	// levels above OFF. Missing fields are unsupported.
	Graded map[string]bool

	// MaxSeed is the largest valid random seed; the smallest is 0.
	MaxSeed int64

	// AcceptsSettings reports whether a generic string-keyed settings
	// sequence can be passed as an override.
	AcceptsSettings bool

	// MaxThreads bounds the thread count. Zero means unbounded; a negative
	// value means the back-end has no thread setting at all.
	MaxThreads int

	// LPAlgorithms lists the supported LP algorithms.
	LPAlgorithms []params.LPAlgorithm

	HasTimeLimit bool
	HasOutput    bool
}

// Supports reports whether graded levels are accepted for the effort field.
func (c Capabilities) Supports(field string) bool {
	return c.Graded[field]
}

// SupportsLPAlgorithm reports whether a is accepted. Unspecified always is.
func (c Capabilities) SupportsLPAlgorithm(a params.LPAlgorithm) bool {
	return a == params.LPAlgorithmUnspecified || slices.Contains(c.LPAlgorithms, a)
}

// Seed clamps the requested seed into [0, MaxSeed]. An adjustment is recorded
// as SeedOutOfRange, which the escalator never promotes.
func (c Capabilities) Seed(p params.Normalized, esc *strictness.Escalator) (optional.Value[int64], error) {
	requested := p.RandomSeed()
	clamped, adjusted := seed.Clamp(requested, c.MaxSeed)
	if adjusted {
		req, _ := requested.Get()
		got, _ := clamped.Get()
		if err := esc.Escalate(strictness.Warning{
			Kind:    strictness.SeedOutOfRange,
			Field:   params.FieldRandomSeed,
			Message: fmt.Sprintf("%s: clamped %d to %d", c.Backend, req, got),
		}); err != nil {
			return optional.Value[int64]{}, err
		}
	}
	return clamped, nil
}

// Threads returns the thread count to apply. A request above MaxThreads is a
// violation that falls back to MaxThreads; on a back-end without a thread
// setting any explicit request is a violation and nothing is applied.
func (c Capabilities) Threads(p params.Normalized, esc *strictness.Escalator) (optional.Value[int], error) {
	n, ok := p.Threads().Get()
	switch {
	case !ok:
		return optional.Value[int]{}, nil
	case c.MaxThreads < 0:
		if err := esc.Escalate(strictness.Unsupported(c.Backend.String(), params.FieldThreads, "thread count is not configurable, ignoring %d", n)); err != nil {
			return optional.Value[int]{}, err
		}
		return optional.Value[int]{}, nil
	case c.MaxThreads > 0 && n > c.MaxThreads:
		if err := esc.Escalate(strictness.Unsupported(c.Backend.String(), params.FieldThreads, "at most %d threads, got %d", c.MaxThreads, n)); err != nil {
			return optional.Value[int]{}, err
		}
		return optional.Some(c.MaxThreads), nil
	}
	return p.Threads(), nil
}

// TimeLimit returns the time limit to apply, unset for "no limit".
func (c Capabilities) TimeLimit(p params.Normalized, esc *strictness.Escalator) (optional.Value[time.Duration], error) {
	d, ok := p.TimeLimit().Get()
	if !ok || c.HasTimeLimit {
		return p.TimeLimit(), nil
	}
	if err := esc.Escalate(strictness.Unsupported(c.Backend.String(), params.FieldTimeLimit, "time limit is not supported, ignoring %s", d)); err != nil {
		return optional.Value[time.Duration]{}, err
	}
	return optional.Value[time.Duration]{}, nil
}

// LPAlgorithm returns the algorithm to apply. An unsupported algorithm falls
// back to Unspecified (the back-end's choice).
func (c Capabilities) LPAlgorithm(p params.Normalized, esc *strictness.Escalator) (params.LPAlgorithm, error) {
	a := p.LPAlgorithm()
	if c.SupportsLPAlgorithm(a) {
		return a, nil
	}
	if err := esc.Escalate(strictness.Unsupported(c.Backend.String(), params.FieldLPAlgorithm, "%s is not supported", a)); err != nil {
		return params.LPAlgorithmUnspecified, err
	}
	return params.LPAlgorithmUnspecified, nil
}

// Output returns the output switch to apply.
func (c Capabilities) Output(p params.Normalized, esc *strictness.Escalator) (optional.Value[bool], error) {
	on, ok := p.EnableOutput().Get()
	if !ok || c.HasOutput {
		return p.EnableOutput(), nil
	}
	if !on {
		// Asking for silence from a back-end that never prints is not a violation.
		return optional.Value[bool]{}, nil
	}
	if err := esc.Escalate(strictness.Unsupported(c.Backend.String(), params.FieldEnableOutput, "output traces are not supported")); err != nil {
		return optional.Value[bool]{}, err
	}
	return optional.Value[bool]{}, nil
}

// Scalars is the outcome of mapping the non-effort parameters.
type Scalars struct {
	Threads     optional.Value[int]
	TimeLimit   optional.Value[time.Duration]
	LPAlgorithm params.LPAlgorithm
	Output      optional.Value[bool]
}

// Scalars maps threads, time limit, LP algorithm and output, in that order,
// and stops at the first fatal violation.
func (c Capabilities) Scalars(p params.Normalized, esc *strictness.Escalator) (Scalars, error) {
	var (
		s   Scalars
		err error
	)
	if s.Threads, err = c.Threads(p, esc); err != nil {
		return Scalars{}, err
	}
	if s.TimeLimit, err = c.TimeLimit(p, esc); err != nil {
		return Scalars{}, err
	}
	if s.LPAlgorithm, err = c.LPAlgorithm(p, esc); err != nil {
		return Scalars{}, err
	}
	if s.Output, err = c.Output(p, esc); err != nil {
		return Scalars{}, err
	}
	return s, nil
}
