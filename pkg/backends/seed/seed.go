// Package seed clamps a requested pseudo-random seed into a back-end's valid
// range.
package seed

import "github.com/germanamz/solveparams/pkg/params/optional"

// Clamp returns requested limited to [0, maxValid]. An unset request stays
// unset so that the back-end keeps its own default seed. The bool reports
// whether the value had to change; an out-of-range seed is never an error.
func Clamp(requested optional.Value[int64], maxValid int64) (optional.Value[int64], bool) {
	s, ok := requested.Get()
	if !ok {
		return requested, false
	}

	clamped := max(0, min(maxValid, s))

	return optional.Some(clamped), clamped != s
}
