package params

import (
	"strings"

	"gopkg.in/yaml.v3"
)

// Emphasis is an abstract effort-level dial mapped onto a back-end's own
// tuning levels. The zero value is Unspecified ("use the back-end default").
type Emphasis string

const (
	EmphasisUnspecified Emphasis = ""
	EmphasisOff         Emphasis = "off"
	EmphasisLow         Emphasis = "low"
	EmphasisMedium      Emphasis = "medium"
	EmphasisHigh        Emphasis = "high"
	EmphasisVeryHigh    Emphasis = "very_high"
)

// GradedEmphasis lists the graded levels from lowest to highest.
var GradedEmphasis = []Emphasis{EmphasisLow, EmphasisMedium, EmphasisHigh, EmphasisVeryHigh}

// Valid reports whether e is one of the known levels.
func (e Emphasis) Valid() bool {
	return e == EmphasisUnspecified || e == EmphasisOff || e.Rank() > 0
}

// Graded reports whether e is one of LOW, MEDIUM, HIGH, VERY_HIGH.
func (e Emphasis) Graded() bool {
	return e.Rank() > 0
}

// Rank orders graded levels: LOW is 1 and VERY_HIGH is 4. Unspecified, OFF
// and unknown values rank 0.
func (e Emphasis) Rank() int {
	switch e {
	case EmphasisLow:
		return 1
	case EmphasisMedium:
		return 2
	case EmphasisHigh:
		return 3
	case EmphasisVeryHigh:
		return 4
	}
	return 0
}

func (e Emphasis) String() string {
	if e == EmphasisUnspecified {
		return "unspecified"
	}
	return string(e)
}

// UnmarshalYAML accepts level names case-insensitively. "unspecified" decodes
// to the zero value. Unknown names are kept so that Normalize can report them.
func (e *Emphasis) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*e = Emphasis(canonicalName(s))
	return nil
}

// LPAlgorithm selects the algorithm used for linear programs. The zero value
// is Unspecified.
type LPAlgorithm string

const (
	LPAlgorithmUnspecified   LPAlgorithm = ""
	LPAlgorithmPrimalSimplex LPAlgorithm = "primal_simplex"
	LPAlgorithmDualSimplex   LPAlgorithm = "dual_simplex"
	LPAlgorithmBarrier       LPAlgorithm = "barrier"
)

// Valid reports whether a is one of the known algorithms.
func (a LPAlgorithm) Valid() bool {
	switch a {
	case LPAlgorithmUnspecified, LPAlgorithmPrimalSimplex, LPAlgorithmDualSimplex, LPAlgorithmBarrier:
		return true
	}
	return false
}

func (a LPAlgorithm) String() string {
	if a == LPAlgorithmUnspecified {
		return "unspecified"
	}
	return string(a)
}

// UnmarshalYAML accepts algorithm names case-insensitively.
func (a *LPAlgorithm) UnmarshalYAML(node *yaml.Node) error {
	var s string
	if err := node.Decode(&s); err != nil {
		return err
	}
	*a = LPAlgorithm(canonicalName(s))
	return nil
}

func canonicalName(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	if s == "unspecified" {
		return ""
	}
	return s
}
