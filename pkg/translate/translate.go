// Package translate turns a solve request into the concrete settings of the
// requested back-end.
//
// A Translator normalizes the common parameters, creates a fresh strictness
// escalator for the request and dispatches to the back-end's translator. An
// override that does not fit the back-end is ignored and reported after the
// common parameters have been checked. Any fatal condition is reported
// before a settings value exists. Translators hold no per-request state and
// may be shared across goroutines.
package translate

import (
	"errors"
	"fmt"
	"time"

	"github.com/germanamz/solveparams/pkg/backends/backend"
	"github.com/germanamz/solveparams/pkg/metrics"
	"github.com/germanamz/solveparams/pkg/params"
	"github.com/germanamz/solveparams/pkg/params/override"
	"github.com/germanamz/solveparams/pkg/strictness"
	"go.uber.org/zap"
)

// ErrUnknownBackend is returned for a back-end kind with no registration.
var ErrUnknownBackend = errors.New("translate: unknown backend")

// FieldOverride names the override in warnings and errors.
const FieldOverride = "override"

// Result is a successful translation.
type Result struct {
	Backend  backend.Kind
	Settings backend.Settings
	// Warnings lists every condition that was adjusted instead of rejected.
	Warnings []strictness.Warning
}

// Translator translates requests. The zero value is not usable; use New.
type Translator struct {
	log     *zap.Logger
	metrics *metrics.Metrics
}

// Option configures a Translator.
type Option func(*Translator)

// WithLogger sets the logger. Each request logs through a child logger
// tagged with the back-end.
func WithLogger(log *zap.Logger) Option {
	return func(t *Translator) {
		if log != nil {
			t.log = log
		}
	}
}

// WithMetrics records every translation on m.
func WithMetrics(m *metrics.Metrics) Option {
	return func(t *Translator) { t.metrics = m }
}

// New creates a Translator.
func New(opts ...Option) *Translator {
	t := &Translator{log: zap.NewNop()}
	for _, opt := range opts {
		opt(t)
	}
	return t
}

// Translate translates req. Fatal rejections are *strictness.Error values;
// an unregistered back-end is ErrUnknownBackend.
func (t *Translator) Translate(req Request) (*Result, error) {
	start := time.Now()
	log := t.log.With(zap.Stringer("backend", req.Backend))

	res, err := t.translate(req, log)

	outcome := metrics.OutcomeOK
	var serr *strictness.Error
	switch {
	case errors.As(err, &serr):
		outcome = metrics.OutcomeRejected
		log.Info("request rejected", zap.Stringer("kind", serr.Kind), zap.String("field", serr.Field))
	case err != nil:
		outcome = metrics.OutcomeError
		log.Error("translation failed", zap.Error(err))
	default:
		log.Debug("request translated",
			zap.Int("settings", len(res.Settings.Entries())),
			zap.Int("warnings", len(res.Warnings)),
		)
	}

	var warnings []strictness.Warning
	if res != nil {
		warnings = res.Warnings
	}
	t.metrics.Observe(req.Backend.String(), outcome, warnings, time.Since(start))

	return res, err
}

func (t *Translator) translate(req Request, log *zap.Logger) (*Result, error) {
	b, ok := lookup(req.Backend)
	if !ok {
		return nil, fmt.Errorf("%w %q", ErrUnknownBackend, req.Backend)
	}

	p, err := params.Normalize(req.Parameters)
	if err != nil {
		return nil, err
	}

	esc := strictness.NewEscalator(p.Strictness(), log)

	// A misfit override is dropped before translating and reported afterwards.
	reason, fits := overrideFits(b.Capabilities, req.Override)
	o := req.Override
	if !fits {
		o = override.None()
	}

	s, err := b.Translate(p, o, esc)
	if err != nil {
		return nil, err
	}

	if !fits {
		w := strictness.Unsupported(b.Capabilities.Backend.String(), FieldOverride, "%s, ignoring it", reason)
		if err := esc.Escalate(w); err != nil {
			return nil, err
		}
	}

	return &Result{
		Backend:  req.Backend,
		Settings: s,
		Warnings: esc.Warnings(),
	}, nil
}

// overrideFits reports whether o applies to the back-end, and why not.
func overrideFits(caps backend.Capabilities, o override.Override) (string, bool) {
	switch o.Kind() {
	case override.KindNone:
		return "", true
	case override.KindSettings:
		if caps.AcceptsSettings {
			return "", true
		}
		return "a generic settings list is not accepted", false
	default:
		if target, _ := o.Target(); target == caps.Backend {
			return "", true
		}
		return fmt.Sprintf("%s parameters do not apply", o.Kind()), false
	}
}
