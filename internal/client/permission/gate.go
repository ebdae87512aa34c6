// Package permission tracks whether this process may read the system
// clipboard, and owns the one transition that matters: Granted ↔ Denied.
package permission

import (
	"context"
	"sync"
	"time"

	"github.com/clipflow-app/clipflow/internal/client/clipboard"
	"github.com/clipflow-app/clipflow/internal/logging"
)

// Status is the permission state of the current session.
type Status int

const (
	// Uninitialized means no check has run yet.
	Uninitialized Status = iota
	// Granted means a clipboard read succeeded recently.
	Granted
	// Denied means the platform or user refused access. Cleared only by an
	// explicit, user-initiated re-request.
	Denied
	// Unsupported means the platform exposes no clipboard at all.
	Unsupported
	// ManualOnly means the platform structurally forbids background reads;
	// content arrives only via explicit user paste. Terminal for the session.
	ManualOnly
)

func (s Status) String() string {
	switch s {
	case Granted:
		return "granted"
	case Denied:
		return "denied"
	case Unsupported:
		return "unsupported"
	case ManualOnly:
		return "manual-only"
	default:
		return "uninitialized"
	}
}

// Gate answers "can I read the clipboard right now?" It never uploads; a
// state transition is its only observable side effect.
type Gate struct {
	mu            sync.Mutex
	status        Status
	lastGrantedAt time.Time

	clip          clipboard.Clipboard
	log           logging.Logger
	recheckWindow time.Duration
	now           func() time.Time
	onFallback    func()
	onChange      func(Status)
}

// Option configures a Gate.
type Option func(*Gate)

// WithRecheckWindow sets how long a successful grant suppresses redundant
// silent checks.
func WithRecheckWindow(d time.Duration) Option {
	return func(g *Gate) { g.recheckWindow = d }
}

// WithClock injects a time source.
func WithClock(now func() time.Time) Option {
	return func(g *Gate) { g.now = now }
}

// WithFallback registers the manual-fallback collaborator invoked when an
// explicit request ends in a hard denial.
func WithFallback(fn func()) Option {
	return func(g *Gate) { g.onFallback = fn }
}

// WithChangeHook registers a callback fired after every status transition,
// e.g. to persist a soft grant hint.
func WithChangeHook(fn func(Status)) Option {
	return func(g *Gate) { g.onChange = fn }
}

// NewGate builds a gate for the given clipboard. avail is the platform probe
// result: a write-only platform is forced into ManualOnly and a platform
// with no clipboard at all into Unsupported; both are terminal, so no
// automatic checks ever run for the session.
func NewGate(clip clipboard.Clipboard, avail clipboard.Availability, log logging.Logger, opts ...Option) *Gate {
	g := &Gate{
		clip:          clip,
		log:           log,
		status:        Uninitialized,
		recheckWindow: 30 * time.Second,
		now:           time.Now,
	}

	switch avail {
	case clipboard.AvailWriteOnly:
		g.status = ManualOnly
	case clipboard.AvailNone:
		g.status = Unsupported
	}

	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Status returns the current permission state.
func (g *Gate) Status() Status {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.status
}

// LastGrantedAt returns when the last successful grant check happened, or
// the zero time if none has.
func (g *Gate) LastGrantedAt() time.Time {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.lastGrantedAt
}

func (g *Gate) terminal() bool {
	return g.status == ManualOnly || g.status == Unsupported
}

// CheckSilently attempts a clipboard read with no user feedback and updates
// the state from the outcome. A recent grant short-circuits the read.
func (g *Gate) CheckSilently(ctx context.Context) Status {
	g.mu.Lock()
	if g.terminal() {
		defer g.mu.Unlock()
		return g.status
	}
	if g.status == Granted && g.now().Sub(g.lastGrantedAt) < g.recheckWindow {
		defer g.mu.Unlock()
		return Granted
	}
	g.mu.Unlock()

	_, err := g.clip.ReadText(ctx)
	if err == nil {
		g.transition(ctx, Granted)
		return Granted
	}
	return g.classifyAndTransition(ctx, err, false)
}

// RequestExplicitly must be invoked from a direct user action. It performs
// the same read/classify logic as CheckSilently but may surface platform
// prompts, and on a hard denial additionally triggers the manual-fallback
// collaborator. On success the text that was read is returned so the caller
// can feed it straight into a sync cycle.
func (g *Gate) RequestExplicitly(ctx context.Context) (Status, string) {
	g.mu.Lock()
	if g.status == Unsupported {
		defer g.mu.Unlock()
		return g.status, ""
	}
	g.mu.Unlock()

	text, err := g.clip.ReadText(ctx)
	if err == nil {
		g.transition(ctx, Granted)
		return g.Status(), text
	}

	st := g.classifyAndTransition(ctx, err, true)
	return st, ""
}

// ObserveReadError lets the sync cycle report a read failure it encountered
// itself. Only a hard denial changes state.
func (g *Gate) ObserveReadError(ctx context.Context, err error) {
	g.classifyAndTransition(ctx, err, false)
}

func (g *Gate) classifyAndTransition(ctx context.Context, err error, explicit bool) Status {
	kind := clipboard.KindOf(err)

	switch kind {
	case clipboard.KindDenied:
		g.transition(ctx, Denied)
		if explicit && g.onFallback != nil {
			g.onFallback()
		}
	case clipboard.KindUnavailable:
		// Expected and frequent: the next focus/visibility trigger retries.
		g.log.Debug(ctx, "clipboard temporarily unavailable", "error", err)
	default:
		g.log.Info(ctx, "unclassified clipboard error, keeping state", "error", err)
	}
	return g.Status()
}

func (g *Gate) transition(ctx context.Context, to Status) {
	g.mu.Lock()
	if g.terminal() {
		g.mu.Unlock()
		return
	}
	from := g.status
	g.status = to
	if to == Granted {
		g.lastGrantedAt = g.now()
	}
	hook := g.onChange
	g.mu.Unlock()

	if from != to {
		g.log.Info(ctx, "permission state changed", "from", from.String(), "to", to.String())
		if hook != nil {
			hook(to)
		}
	}
}
