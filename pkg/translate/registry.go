package translate

import (
	"slices"
	"sync"

	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/germanamz/solveparams/pkg/backends/cpsat"
	"github.com/germanamz/solveparams/pkg/backends/glop"
	"github.com/germanamz/solveparams/pkg/backends/gscip"
	"github.com/germanamz/solveparams/pkg/backends/gurobi"
	"github.com/germanamz/solveparams/pkg/backends/highs"
	"github.com/germanamz/solveparams/pkg/params"
	"github.com/germanamz/solveparams/pkg/params/override"
	"github.com/germanamz/solveparams/pkg/strictness"
)

// Func translates normalized parameters for one back-end. The override it
// receives has already been checked against the back-end's capabilities.
type Func func(p params.Normalized, o override.Override, esc *strictness.Escalator) (backend.Settings, error)

// Backend is a registered back-end family.
type Backend struct {
	Capabilities backend.Capabilities
	Translate    Func
}

var (
	backendMu   sync.RWMutex
	backends    = map[backend.Kind]Backend{}
	defaultsReg sync.Once
)

func ensureDefaults() {
	defaultsReg.Do(func() {
		backends[backend.Gurobi] = Backend{Capabilities: gurobi.Capabilities, Translate: translateGurobi}
		backends[backend.GScip] = Backend{Capabilities: gscip.Capabilities, Translate: translateGScip}
		backends[backend.Glop] = Backend{Capabilities: glop.Capabilities, Translate: translateGlop}
		backends[backend.CPSAT] = Backend{Capabilities: cpsat.Capabilities, Translate: translateCPSAT}
		backends[backend.HiGHS] = Backend{Capabilities: highs.Capabilities, Translate: translateHiGHS}
	})
}

// RegisterBackend registers or replaces the back-end for kind.
func RegisterBackend(kind backend.Kind, b Backend) {
	ensureDefaults()

	backendMu.Lock()
	defer backendMu.Unlock()

	backends[kind] = b
}

func lookup(kind backend.Kind) (Backend, bool) {
	ensureDefaults()

	backendMu.RLock()
	defer backendMu.RUnlock()

	b, ok := backends[kind]
	return b, ok
}

// Capabilities returns the registered capabilities of kind.
func Capabilities(kind backend.Kind) (backend.Capabilities, bool) {
	b, ok := lookup(kind)
	return b.Capabilities, ok
}

// Backends lists the registered kinds in name order.
func Backends() []backend.Kind {
	ensureDefaults()

	backendMu.RLock()
	defer backendMu.RUnlock()

	kinds := make([]backend.Kind, 0, len(backends))
	for k := range backends {
		kinds = append(kinds, k)
	}
	slices.Sort(kinds)

	return kinds
}

func translateGurobi(p params.Normalized, o override.Override, esc *strictness.Escalator) (backend.Settings, error) {
	list, _ := o.AsSettings()
	s, err := gurobi.Translate(p, list, esc)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func translateGScip(p params.Normalized, o override.Override, esc *strictness.Escalator) (backend.Settings, error) {
	native, _ := o.AsGScip()
	s, err := gscip.Translate(p, native, esc)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func translateGlop(p params.Normalized, o override.Override, esc *strictness.Escalator) (backend.Settings, error) {
	native, _ := o.AsGlop()
	s, err := glop.Translate(p, native, esc)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func translateCPSAT(p params.Normalized, o override.Override, esc *strictness.Escalator) (backend.Settings, error) {
	native, _ := o.AsCPSAT()
	s, err := cpsat.Translate(p, native, esc)
	if err != nil {
		return nil, err
	}
	return s, nil
}

func translateHiGHS(p params.Normalized, o override.Override, esc *strictness.Escalator) (backend.Settings, error) {
	list, _ := o.AsSettings()
	s, err := highs.Translate(p, list, esc)
	if err != nil {
		return nil, err
	}
	return s, nil
}
