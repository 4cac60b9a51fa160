// Package params defines the vendor-neutral parameter set of a solve request
// and the normalizer that validates it before any back-end translation.
package params

import (
	"errors"
	"fmt"
	"reflect"
	"strings"
	"time"

	"github.com/germanamz/solveparams/pkg/params/optional"
	"github.com/germanamz/solveparams/pkg/strictness"
	"github.com/go-playground/validator/v10"
)

// Common is the raw parameter set of one solve request, as decoded from the
// request. Optional scalars distinguish "unset" from explicit values.
type Common struct {
	Strictness   strictness.Policy             `yaml:"strictness"`
	EnableOutput optional.Value[bool]          `yaml:"enable_output,omitempty"`
	TimeLimit    optional.Value[time.Duration] `yaml:"time_limit,omitempty" validate:"omitnil,gte=0"`
	Threads      optional.Value[int]           `yaml:"threads,omitempty" validate:"omitnil,gte=1"`
	RandomSeed   optional.Value[int64]         `yaml:"random_seed,omitempty"`
	LPAlgorithm  LPAlgorithm                   `yaml:"lp_algorithm,omitempty" validate:"known"`
	Presolve     Emphasis                      `yaml:"presolve,omitempty" validate:"known"`
	Cuts         Emphasis                      `yaml:"cuts,omitempty" validate:"known"`
	Heuristics   Emphasis                      `yaml:"heuristics,omitempty" validate:"known"`
	Scaling      Emphasis                      `yaml:"scaling,omitempty" validate:"known"`
}

// Normalized is a validated, immutable copy of a Common parameter set. Only
// Normalize produces one; back-end translators accept nothing else.
type Normalized struct {
	c Common
}

// Common returns a copy of the validated parameters.
func (n Normalized) Common() Common { return n.c }

func (n Normalized) Strictness() strictness.Policy {
	return n.c.Strictness
}

func (n Normalized) EnableOutput() optional.Value[bool] {
	return n.c.EnableOutput
}

// TimeLimit is unset for "no limit".
func (n Normalized) TimeLimit() optional.Value[time.Duration] {
	return n.c.TimeLimit
}

func (n Normalized) Threads() optional.Value[int] {
	return n.c.Threads
}

// RandomSeed is the requested seed before any back-end clamping.
func (n Normalized) RandomSeed() optional.Value[int64] {
	return n.c.RandomSeed
}

func (n Normalized) LPAlgorithm() LPAlgorithm {
	return n.c.LPAlgorithm
}

func (n Normalized) Presolve() Emphasis {
	return n.c.Presolve
}

func (n Normalized) Cuts() Emphasis {
	return n.c.Cuts
}

func (n Normalized) Heuristics() Emphasis {
	return n.c.Heuristics
}

func (n Normalized) Scaling() Emphasis {
	return n.c.Scaling
}

// Emphasis returns the requested level for one of the four effort fields,
// addressed by its YAML name.
func (n Normalized) Emphasis(field string) Emphasis {
	switch field {
	case FieldPresolve:
		return n.c.Presolve
	case FieldCuts:
		return n.c.Cuts
	case FieldHeuristics:
		return n.c.Heuristics
	case FieldScaling:
		return n.c.Scaling
	}
	return EmphasisUnspecified
}

// Field names as they appear in requests and in warnings.
const (
	FieldEnableOutput = "enable_output"
	FieldTimeLimit    = "time_limit"
	FieldThreads      = "threads"
	FieldRandomSeed   = "random_seed"
	FieldLPAlgorithm  = "lp_algorithm"
	FieldPresolve     = "presolve"
	FieldCuts         = "cuts"
	FieldHeuristics   = "heuristics"
	FieldScaling      = "scaling"
)

// EmphasisFields lists the effort fields in canonical order.
var EmphasisFields = []string{FieldPresolve, FieldCuts, FieldHeuristics, FieldScaling}

// validate is safe for concurrent use once configured.
var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name, _, _ := strings.Cut(fld.Tag.Get("yaml"), ",")
		if name == "" || name == "-" {
			return fld.Name
		}
		return name
	})

	v.RegisterCustomTypeFunc(unwrap[bool], optional.Value[bool]{})
	v.RegisterCustomTypeFunc(unwrap[int], optional.Value[int]{})
	v.RegisterCustomTypeFunc(unwrap[int64], optional.Value[int64]{})
	v.RegisterCustomTypeFunc(unwrap[time.Duration], optional.Value[time.Duration]{})

	_ = v.RegisterValidation("known", func(fl validator.FieldLevel) bool {
		k, ok := fl.Field().Interface().(interface{ Valid() bool })
		return ok && k.Valid()
	})

	return v
}

// unwrap exposes the held value of an optional field to the validator as a
// pointer. An unset field is a nil pointer, so `omitnil` skips it while an
// explicit zero is still checked.
func unwrap[T any](field reflect.Value) any {
	o, ok := field.Interface().(optional.Value[T])
	if !ok {
		return (*T)(nil)
	}
	return o.Ptr()
}

// Normalize validates raw and returns its normalized form. Structural
// violations are always fatal, whatever the strictness policy says:
//   - threads, when set, must be >= 1
//   - time_limit, when set, must not be negative
//   - enum fields must hold a known value
func Normalize(raw Common) (Normalized, error) {
	err := validate.Struct(raw)
	if err == nil {
		return Normalized{c: raw}, nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return Normalized{}, fmt.Errorf("params: validate: %w", err)
	}

	fe := verrs[0]
	switch fe.Tag() {
	case "gte":
		return Normalized{}, strictness.NewInvalidParameter(fe.Field(), "must be >= %s, got %v", fe.Param(), fe.Value())
	case "known":
		return Normalized{}, strictness.NewInvalidParameter(fe.Field(), "unknown value %q", fmt.Sprint(fe.Value()))
	default:
		return Normalized{}, strictness.NewInvalidParameter(fe.Field(), "failed %q check", fe.Tag())
	}
}
