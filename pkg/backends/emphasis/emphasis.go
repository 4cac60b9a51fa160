// Package emphasis maps the abstract effort levels of the vendor-neutral
// parameters onto the levels a specific back-end supports.
package emphasis

import (
	"github.com/germanamz/solveparams/pkg/params"
	"github.com/germanamz/solveparams/pkg/params/optional"
	"github.com/germanamz/solveparams/pkg/strictness"
)

// Ladder describes a back-end's native values for one feature. T is the
// native value type (an integer code, a float effort, a string setting).
type Ladder[T any] struct {
	// Off is the value that disables the feature. Unset means the back-end has
	// no explicit switch and "disabled" emits nothing.
	Off optional.Value[T]
	// Levels holds the graded levels the back-end natively distinguishes.
	// Requests for missing levels resolve to the nearest present one.
	Levels map[params.Emphasis]T
}

// Level is the outcome of resolving one feature.
type Level[T any] struct {
	// Effective is the level the back-end will run with. It differs from the
	// request when a violation was demoted to OFF.
	Effective params.Emphasis
	// Value is the native value to emit; unset means "emit nothing".
	Value optional.Value[T]
}

// Lookup returns the native value for requested without any policy:
// UNSPECIFIED is unset, OFF is ladder.Off and a graded level is the nearest
// level present in the ladder. The bool is false when a graded level was
// requested and the ladder has none.
func Lookup[T any](requested params.Emphasis, ladder Ladder[T]) (optional.Value[T], bool) {
	switch requested {
	case params.EmphasisUnspecified:
		return optional.Value[T]{}, true
	case params.EmphasisOff:
		return ladder.Off, true
	}
	if v, ok := nearest(requested, ladder.Levels); ok {
		return optional.Some(v), true
	}
	return optional.Value[T]{}, false
}

// Resolve maps requested onto ladder.
//
//	UNSPECIFIED          -> back-end default (nothing emitted)
//	OFF                  -> ladder.Off
//	LOW..VERY_HIGH       -> nearest graded level when supported, else a violation
//
// A violation is escalated as UnsupportedFeature(feature). When the escalator
// lets it through, the feature resolves as if OFF had been requested.
func Resolve[T any](backend, feature string, requested params.Emphasis, ladder Ladder[T], supported bool, esc *strictness.Escalator) (Level[T], error) {
	if !requested.Graded() || supported {
		if v, ok := Lookup(requested, ladder); ok {
			return Level[T]{Effective: requested, Value: v}, nil
		}
	}

	if err := esc.Escalate(strictness.Unsupported(backend, feature, "level %s is not supported, using off", requested)); err != nil {
		return Level[T]{}, err
	}

	return Level[T]{Effective: params.EmphasisOff, Value: ladder.Off}, nil
}

// nearest returns the value of the graded level closest to requested. Ties
// go to the lower level, which keeps the mapping monotonic.
func nearest[T any](requested params.Emphasis, levels map[params.Emphasis]T) (T, bool) {
	var (
		best     T
		bestDist = -1
	)

	// Ascending order: the first level at a given distance wins.
	for _, e := range params.GradedEmphasis {
		v, ok := levels[e]
		if !ok {
			continue
		}
		d := e.Rank() - requested.Rank()
		if d < 0 {
			d = -d
		}
		if bestDist < 0 || d < bestDist {
			best, bestDist = v, d
		}
	}

	return best, bestDist >= 0
}
