// Package override holds the back-end specific part of a solve request: at
// most one block of settings that takes precedence over whatever the common
// parameters imply.
package override

import (
	"errors"
	"fmt"
	"slices"

	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/germanamz/solveparams/pkg/backends/cpsat"
	"github.com/germanamz/solveparams/pkg/backends/glop"
	"github.com/germanamz/solveparams/pkg/backends/gscip"
	"gopkg.in/yaml.v3"
)

// ErrMultipleVariants is returned when more than one override block is given.
var ErrMultipleVariants = errors.New("override: more than one variant set")

// Kind tags the active variant of an Override.
type Kind int

const (
	KindNone Kind = iota
	KindSettings
	KindGScip
	KindGlop
	KindCPSAT
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindSettings:
		return "settings"
	case KindGScip:
		return "gscip"
	case KindGlop:
		return "glop"
	case KindCPSAT:
		return "cp_sat"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Override is a tagged union; the zero value is KindNone.
type Override struct {
	kind     Kind
	settings []backend.Setting
	gscip    *gscip.Parameters
	glop     *glop.Parameters
	cpsat    *cpsat.Parameters
}

// None returns the empty override.
func None() Override { return Override{} }

// Settings returns a generic override: an ordered list of name/value pairs.
func Settings(list ...backend.Setting) Override {
	return Override{kind: KindSettings, settings: slices.Clone(list)}
}

// GScip returns a native SCIP override.
func GScip(p gscip.Parameters) Override { return Override{kind: KindGScip, gscip: &p} }

// Glop returns a native GLOP override.
func Glop(p glop.Parameters) Override { return Override{kind: KindGlop, glop: &p} }

// CPSAT returns a native CP-SAT override.
func CPSAT(p cpsat.Parameters) Override { return Override{kind: KindCPSAT, cpsat: &p} }

func (o Override) Kind() Kind { return o.kind }

// Target returns the only back-end a native block applies to. Generic
// settings and the empty override have no fixed target.
func (o Override) Target() (backend.Kind, bool) {
	switch o.kind {
	case KindGScip:
		return backend.GScip, true
	case KindGlop:
		return backend.Glop, true
	case KindCPSAT:
		return backend.CPSAT, true
	default:
		return "", false
	}
}

func (o Override) AsSettings() ([]backend.Setting, bool) {
	return slices.Clone(o.settings), o.kind == KindSettings
}

func (o Override) AsGScip() (*gscip.Parameters, bool) { return o.gscip, o.kind == KindGScip }

func (o Override) AsGlop() (*glop.Parameters, bool) { return o.glop, o.kind == KindGlop }

func (o Override) AsCPSAT() (*cpsat.Parameters, bool) { return o.cpsat, o.kind == KindCPSAT }

func (o Override) String() string {
	if o.kind == KindSettings {
		return fmt.Sprintf("settings(%d)", len(o.settings))
	}
	return o.kind.String()
}

type document struct {
	Settings []backend.Setting `yaml:"settings,omitempty"`
	GScip    *gscip.Parameters `yaml:"gscip,omitempty"`
	Glop     *glop.Parameters  `yaml:"glop,omitempty"`
	CPSAT    *cpsat.Parameters `yaml:"cp_sat,omitempty"`
}

// UnmarshalYAML decodes a mapping with at most one of the keys settings,
// gscip, glop or cp_sat.
func (o *Override) UnmarshalYAML(node *yaml.Node) error {
	var doc document
	if err := node.Decode(&doc); err != nil {
		return fmt.Errorf("override: %w", err)
	}

	var set []Kind
	if doc.Settings != nil {
		set = append(set, KindSettings)
	}
	if doc.GScip != nil {
		set = append(set, KindGScip)
	}
	if doc.Glop != nil {
		set = append(set, KindGlop)
	}
	if doc.CPSAT != nil {
		set = append(set, KindCPSAT)
	}

	switch len(set) {
	case 0:
		*o = None()
		return nil
	case 1:
	default:
		return fmt.Errorf("%w: %v (line %d)", ErrMultipleVariants, set, node.Line)
	}

	*o = Override{kind: set[0], settings: doc.Settings, gscip: doc.GScip, glop: doc.Glop, cpsat: doc.CPSAT}
	return nil
}

func (o Override) MarshalYAML() (any, error) {
	return document{Settings: o.settings, GScip: o.gscip, Glop: o.glop, CPSAT: o.cpsat}, nil
}

// IsZero reports whether no override is set, for omitempty.
func (o Override) IsZero() bool { return o.kind == KindNone }
