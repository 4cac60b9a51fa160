// Package backend holds what every back-end translator shares: the
// back-end kinds, their static capabilities, the ordered string settings
// used by sequential back-ends, and the capability-gated mapping of the
// scalar common parameters.
package backend

import (
	"slices"
	"strings"

	"gopkg.in/yaml.v3"
)

// Kind names a back-end family.
type Kind string

const (
	Gurobi Kind = "gurobi"
	GScip  Kind = "gscip"
	Glop   Kind = "glop"
	CPSAT  Kind = "cp_sat"
	HiGHS  Kind = "highs"
)

// Kinds lists the built-in back-ends.
var Kinds = []Kind{Gurobi, GScip, Glop, CPSAT, HiGHS}

// ParseKind accepts a back-end name case-insensitively ("cp-sat" and
// "cpsat" are accepted for CPSAT).
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	if s == "cpsat" {
		s = string(CPSAT)
	}
	k := Kind(s)
	return k, slices.Contains(Kinds, k)
}

func (k Kind) String() string {
	return string(k)
}

// UnmarshalYAML decodes a back-end name. Unknown names are kept as-is and
// rejected when the back-end is looked up.
func (k *Kind) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	if parsed, ok := ParseKind(s); ok {
		*k = parsed
		return nil
	}
	*k = Kind(s)
	return nil
}

// Setting is one named string setting. Sequential back-ends apply a list of
// settings strictly in order.
type Setting struct {
	Name  string `yaml:"name"`
	Value string `yaml:"value"`
}

func (s Setting) String() string {
	return s.Name + "=" + s.Value
}

// Replay applies list in order and returns the final value of every name.
// A later entry overwrites an earlier one with the same name, which is how a
// sequential back-end observes the list.
func Replay(list []Setting) map[string]string {
	out := make(map[string]string, len(list))
	for _, s := range list {
		out[s.Name] = s.Value
	}
	return out
}

// Lookup returns the value a sequential back-end ends up with for name.
func Lookup(list []Setting, name string) (string, bool) {
	for i := len(list) - 1; i >= 0; i-- {
		if list[i].Name == name {
			return list[i].Value, true
		}
	}
	return "", false
}

// Settings is the translated, ready-to-apply configuration of one back-end.
type Settings interface {
	// Backend reports which back-end the settings are for.
	Backend() Kind
	// Entries renders the settings as name/value pairs in application order.
	Entries() []Setting
}
