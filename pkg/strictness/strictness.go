// Package strictness is the single policy point that decides whether an
// unsupported or out-of-range setting is silently adjusted, recorded as a
// warning, or promoted to a fatal rejection of the whole request.
package strictness

import (
	"errors"
	"fmt"

	"go.uber.org/zap"
)

// Policy is the per-request strictness setting.
type Policy struct {
	// BadParameter promotes every warning-level condition to a fatal error.
	BadParameter bool `yaml:"bad_parameter"`
}

// Kind classifies a parameter problem.
type Kind int

const (
	// InvalidParameter is a structural violation (e.g. threads < 1). Always fatal.
	InvalidParameter Kind = iota + 1
	// UnsupportedFeature is a capability the chosen back-end does not have.
	// Fatal only under Policy.BadParameter.
	UnsupportedFeature
	// SeedOutOfRange is a random seed outside the back-end's range. It is
	// clamped and never fatal.
	SeedOutOfRange
)

func (k Kind) String() string {
	switch k {
	case InvalidParameter:
		return "invalid parameter"
	case UnsupportedFeature:
		return "unsupported feature"
	case SeedOutOfRange:
		return "seed out of range"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Sentinels matched by errors.Is against an *Error of the same Kind.
var (
	ErrInvalidParameter   = errors.New("strictness: invalid parameter")
	ErrUnsupportedFeature = errors.New("strictness: unsupported feature")
	ErrSeedOutOfRange     = errors.New("strictness: seed out of range")
)

func (k Kind) sentinel() error {
	switch k {
	case InvalidParameter:
		return ErrInvalidParameter
	case UnsupportedFeature:
		return ErrUnsupportedFeature
	case SeedOutOfRange:
		return ErrSeedOutOfRange
	}
	return nil
}

// Warning describes one parameter problem. Field names the setting in its
// vendor-neutral (YAML) spelling, e.g. "threads" or "presolve".
type Warning struct {
	Kind    Kind
	Field   string
	Message string
}

func (w Warning) String() string {
	if w.Message == "" {
		return fmt.Sprintf("%s: %s", w.Kind, w.Field)
	}
	return fmt.Sprintf("%s: %s: %s", w.Kind, w.Field, w.Message)
}

// Error is a Warning promoted to a fatal rejection.
type Error struct {
	Warning
}

func (e *Error) Error() string {
	return e.Warning.String()
}

// Unwrap returns the sentinel for the error's Kind.
func (e *Error) Unwrap() error {
	return e.Kind.sentinel()
}

// NewInvalidParameter returns the fatal error for a structurally invalid field.
func NewInvalidParameter(field, format string, args ...any) *Error {
	return &Error{Warning{Kind: InvalidParameter, Field: field, Message: fmt.Sprintf(format, args...)}}
}

// Unsupported builds an UnsupportedFeature warning for feature on backend.
func Unsupported(backend, feature, format string, args ...any) Warning {
	msg := fmt.Sprintf(format, args...)
	if backend != "" {
		msg = backend + ": " + msg
	}
	return Warning{Kind: UnsupportedFeature, Field: feature, Message: msg}
}

// Escalator applies a Policy to the warnings raised while translating one
// request and accumulates the ones that were not fatal.
//
// An Escalator belongs to a single request and is not safe for concurrent use.
type Escalator struct {
	policy   Policy
	log      *zap.Logger
	warnings []Warning
}

// NewEscalator returns an Escalator for policy. A nil logger discards output.
func NewEscalator(policy Policy, log *zap.Logger) *Escalator {
	if log == nil {
		log = zap.NewNop()
	}
	return &Escalator{policy: policy, log: log}
}

// Policy returns the policy the escalator applies.
func (e *Escalator) Policy() Policy {
	return e.policy
}

// Escalate either records w and returns nil, or returns w promoted to an
// *Error. Once an error is returned the caller must abort the translation.
func (e *Escalator) Escalate(w Warning) error {
	switch {
	case w.Kind == SeedOutOfRange:
		e.log.Debug("seed adjusted", zap.String("field", w.Field), zap.String("detail", w.Message))
	case w.Kind == InvalidParameter, e.policy.BadParameter:
		e.log.Info("parameter rejected",
			zap.Stringer("kind", w.Kind),
			zap.String("field", w.Field),
			zap.String("detail", w.Message))
		return &Error{Warning: w}
	default:
		e.log.Warn("parameter adjusted",
			zap.Stringer("kind", w.Kind),
			zap.String("field", w.Field),
			zap.String("detail", w.Message))
	}

	e.warnings = append(e.warnings, w)
	return nil
}

// Warnings returns a copy of the recorded warnings, in the order raised.
func (e *Escalator) Warnings() []Warning {
	if len(e.warnings) == 0 {
		return nil
	}
	out := make([]Warning, len(e.warnings))
	copy(out, e.warnings)
	return out
}
