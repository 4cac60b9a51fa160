// Package optional provides a tri-state value wrapper that keeps "unset"
// distinct from an explicit zero value.
//
// Back-ends treat "use my default" differently from "explicitly disable", so
// fields such as thread count, random seed or the output switch cannot use a
// sentinel: Some(0) and Some(false) are explicit values, the zero Value is not.
package optional

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// Value holds either nothing (the zero value) or an explicit T.
type Value[T any] struct {
	v   T
	set bool
}

// Some returns a Value holding v.
func Some[T any](v T) Value[T] {
	return Value[T]{v: v, set: true}
}

// None returns an unset Value. It is equivalent to Value[T]{}.
func None[T any]() Value[T] {
	return Value[T]{}
}

// FromPtr returns Some(*p), or an unset Value when p is nil.
func FromPtr[T any](p *T) Value[T] {
	if p == nil {
		return Value[T]{}
	}
	return Some(*p)
}

// IsSet reports whether an explicit value is present.
func (o Value[T]) IsSet() bool {
	return o.set
}

// Get returns the held value and whether it is set.
func (o Value[T]) Get() (T, bool) {
	return o.v, o.set
}

// OrElse returns the held value, or def when unset.
func (o Value[T]) OrElse(def T) T {
	if !o.set {
		return def
	}
	return o.v
}

// Ptr returns a pointer to a copy of the held value, or nil when unset.
func (o Value[T]) Ptr() *T {
	if !o.set {
		return nil
	}
	v := o.v
	return &v
}

// Or returns o when set, otherwise other. It is the merge rule used when an
// override (o) takes precedence over a derived value (other).
func (o Value[T]) Or(other Value[T]) Value[T] {
	if o.set {
		return o
	}
	return other
}

// String formats the held value, or "<unset>".
func (o Value[T]) String() string {
	if !o.set {
		return "<unset>"
	}
	return fmt.Sprint(o.v)
}

// UnmarshalYAML decodes a scalar (or any node T accepts) into an explicit
// value. Absent keys and null never reach this method and stay unset.
func (o *Value[T]) UnmarshalYAML(node *yaml.Node) error {
	var v T
	if err := node.Decode(&v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}

// MarshalYAML encodes the held value, or null when unset.
func (o Value[T]) MarshalYAML() (any, error) {
	if !o.set {
		return nil, nil
	}
	return o.v, nil
}

// IsZero reports whether the value is unset so that `omitempty` drops it.
func (o Value[T]) IsZero() bool {
	return !o.set
}
