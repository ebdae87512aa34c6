// Package engine implements the clipboard sync scheduler: the state machine
// and timing discipline that ties the permission gate and the content filter
// together safely under bursty, overlapping triggers.
package engine

import (
	"context"
	"sync"
	"time"

	"github.com/clipflow-app/clipflow/internal/client/clipboard"
	"github.com/clipflow-app/clipflow/internal/client/filter"
	"github.com/clipflow-app/clipflow/internal/client/models"
	"github.com/clipflow-app/clipflow/internal/client/permission"
	"github.com/clipflow-app/clipflow/internal/logging"
)

// Identity is the subset of the channel manager the engine depends on. No
// clipboard read or upload may happen while Verified is false.
type Identity interface {
	Verified() bool
	DeviceID() string
	DeviceType() models.DeviceType
}

// Uploader persists a new clipboard entry and returns the stored record.
type Uploader interface {
	SaveClipboard(ctx context.Context, req models.SaveRequest) (*models.Entry, error)
}

// Options holds the engine's timing discipline. Zero values are replaced by
// the defaults from DefaultOptions.
type Options struct {
	// TriggerDebounce is the minimum interval between accepted non-forced
	// triggers. Suppresses near-simultaneous visibility+focus pairs fired
	// by one user action.
	TriggerDebounce time.Duration

	// EditCooldown suspends non-forced cycles after a user delete/edit so
	// the value still sitting in the OS clipboard is not re-uploaded.
	EditCooldown time.Duration

	// PollInterval is the monitoring-mode tick.
	PollInterval time.Duration

	// CallTimeout bounds the clipboard read and the upload so a hung call
	// cannot hold the in-flight lock forever.
	CallTimeout time.Duration

	// ErrorMuteWindow rate-limits surfacing of repeated upload failures.
	ErrorMuteWindow time.Duration
}

func DefaultOptions() Options {
	return Options{
		TriggerDebounce: 3 * time.Second,
		EditCooldown:    10 * time.Second,
		PollInterval:    2 * time.Second,
		CallTimeout:     10 * time.Second,
		ErrorMuteWindow: 10 * time.Second,
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.TriggerDebounce == 0 {
		o.TriggerDebounce = def.TriggerDebounce
	}
	if o.EditCooldown == 0 {
		o.EditCooldown = def.EditCooldown
	}
	if o.PollInterval == 0 {
		o.PollInterval = def.PollInterval
	}
	if o.CallTimeout == 0 {
		o.CallTimeout = def.CallTimeout
	}
	if o.ErrorMuteWindow == 0 {
		o.ErrorMuteWindow = def.ErrorMuteWindow
	}
	return o
}

// Engine serializes read-then-save cycles. At most one cycle is active at a
// time; triggers arriving while the lock is held are dropped, not queued —
// queuing would replay stale reads.
type Engine struct {
	gate   *permission.Gate
	filter *filter.Filter
	clip   clipboard.Clipboard
	api    Uploader
	ids    Identity
	log    logging.Logger
	opts   Options
	now    func() time.Time

	mu          sync.Mutex
	inFlight    bool
	lastTrigger time.Time
	lastEdit    time.Time
	lastSynced  string
	errStreakAt time.Time
	errStreak   int

	subMu sync.Mutex
	subs  []func()

	pollMu     sync.Mutex
	pollCancel context.CancelFunc
}

func New(gate *permission.Gate, flt *filter.Filter, clip clipboard.Clipboard, api Uploader, ids Identity, log logging.Logger, opts Options) *Engine {
	return &Engine{
		gate:   gate,
		filter: flt,
		clip:   clip,
		api:    api,
		ids:    ids,
		log:    log,
		opts:   opts.withDefaults(),
		now:    time.Now,
	}
}

// SetClock injects a time source. Test hook; must be called before use.
func (e *Engine) SetClock(now func() time.Time) { e.now = now }

// OnContentUpdated registers a callback fired exactly once per successfully
// uploaded cycle. It carries no payload: subscribers re-fetch.
func (e *Engine) OnContentUpdated(fn func()) {
	e.subMu.Lock()
	defer e.subMu.Unlock()
	e.subs = append(e.subs, fn)
}

func (e *Engine) notifyUpdated() {
	e.subMu.Lock()
	subs := make([]func(), len(e.subs))
	copy(subs, e.subs)
	e.subMu.Unlock()

	for _, fn := range subs {
		fn()
	}
}

// RecordUserEdit marks that the user deleted or edited an entry, starting
// the cooldown that keeps the scheduler from re-uploading the value still
// in the OS clipboard.
func (e *Engine) RecordUserEdit() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastEdit = e.now()
}

// ResetSession forgets the last synced value and all cooldown state. Called
// when the channel or device identity changes.
func (e *Engine) ResetSession() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.lastSynced = ""
	e.lastTrigger = time.Time{}
	e.lastEdit = time.Time{}
	e.errStreak = 0
	e.errStreakAt = time.Time{}
}

// HandleTrigger runs one sync cycle for t. It returns (true, nil) when new
// content was uploaded, (false, nil) when the cycle was skipped (lock held,
// cooldown, permission, duplicate — all normal outcomes), and (false, err)
// when an upload was attempted and failed. Errors never escape as panics,
// and the in-flight lock is released on every path.
func (e *Engine) HandleTrigger(ctx context.Context, t Trigger) (synced bool, err error) {
	if !e.ids.Verified() {
		e.log.Debug(ctx, "trigger dropped: channel not verified", "source", t.Source.String())
		return false, nil
	}

	if !e.acquire(t) {
		return false, nil
	}
	defer e.release()

	text := t.Content
	if text == "" {
		var ok bool
		text, ok = e.readClipboard(ctx, t)
		if !ok {
			return false, nil
		}
	}

	fp := filter.Normalize(text)
	if fp == "" || fp == e.lastSyncedValue() {
		return false, nil
	}
	if !e.filter.ShouldSync(text) {
		e.log.Debug(ctx, "content filtered, not syncing", "source", t.Source.String())
		return false, nil
	}

	if err := e.upload(ctx, t, text); err != nil {
		// Not marked processed: the next trigger retries the same content.
		return false, err
	}

	e.filter.MarkProcessed(text)
	e.mu.Lock()
	e.lastSynced = fp
	e.errStreak = 0
	e.errStreakAt = time.Time{}
	e.mu.Unlock()

	e.log.Info(ctx, "clipboard synced", "source", t.Source.String(), "chars", len(fp))
	e.notifyUpdated()
	return true, nil
}

// acquire takes the in-flight lock if the trigger passes the cooldown
// policy. The lock check and the cooldown reads happen under one mutex so
// the at-most-one-cycle invariant holds on multi-threaded runtimes too.
func (e *Engine) acquire(t Trigger) bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.inFlight {
		return false
	}

	now := e.now()
	if !t.Forced {
		if !e.lastTrigger.IsZero() && now.Sub(e.lastTrigger) < e.opts.TriggerDebounce {
			return false
		}
		if !e.lastEdit.IsZero() && now.Sub(e.lastEdit) < e.opts.EditCooldown {
			return false
		}
	}

	e.inFlight = true
	e.lastTrigger = now
	return true
}

func (e *Engine) release() {
	e.mu.Lock()
	e.inFlight = false
	e.mu.Unlock()
}

func (e *Engine) lastSyncedValue() string {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.lastSynced
}

// readClipboard performs step 2–4 of the cycle: permission check, bounded
// OS read, error classification. ok is false when the cycle should abort.
func (e *Engine) readClipboard(ctx context.Context, t Trigger) (text string, ok bool) {
	if st := e.gate.Status(); st != permission.Granted {
		e.log.Debug(ctx, "trigger dropped: permission not granted",
			"source", t.Source.String(), "status", st.String())
		return "", false
	}

	readCtx, cancel := context.WithTimeout(ctx, e.opts.CallTimeout)
	defer cancel()

	text, err := e.clip.ReadText(readCtx)
	if err != nil {
		// Only a hard denial changes permission state.
		e.gate.ObserveReadError(ctx, err)
		if clipboard.KindOf(err) == clipboard.KindUnavailable {
			e.log.Debug(ctx, "clipboard read skipped", "source", t.Source.String(), "error", err)
		} else {
			e.log.Warn(ctx, "clipboard read failed", "source", t.Source.String(), "error", err)
		}
		return "", false
	}
	return text, true
}

func (e *Engine) upload(ctx context.Context, t Trigger, text string) error {
	callCtx, cancel := context.WithTimeout(ctx, e.opts.CallTimeout)
	defer cancel()

	req := models.SaveRequest{
		Content:    text,
		Type:       models.DetectType(text),
		DeviceID:   e.ids.DeviceID(),
		DeviceType: e.ids.DeviceType(),
	}

	_, err := e.api.SaveClipboard(callCtx, req)
	if err == nil {
		return nil
	}

	if e.shouldSurfaceError() {
		e.log.Error(ctx, "upload failed", "source", t.Source.String(), "error", err)
	} else {
		e.log.Debug(ctx, "upload failed (muted)", "source", t.Source.String(), "error", err)
	}
	return err
}

// shouldSurfaceError keeps an outage from spamming the user: the first
// failure surfaces, identical follow-ups are muted for ErrorMuteWindow and
// only re-surface after a streak.
func (e *Engine) shouldSurfaceError() bool {
	e.mu.Lock()
	defer e.mu.Unlock()

	now := e.now()
	if e.errStreakAt.IsZero() || now.Sub(e.errStreakAt) > e.opts.ErrorMuteWindow {
		e.errStreakAt = now
		e.errStreak = 1
		return true
	}
	e.errStreak++
	return e.errStreak%5 == 0
}

// StartMonitoring launches the poll ticker. Each tick schedules a non-forced
// POLL trigger, subject to the same gating as visibility/focus. Calling it
// twice is a no-op until StopMonitoring.
func (e *Engine) StartMonitoring(ctx context.Context) bool {
	e.pollMu.Lock()
	defer e.pollMu.Unlock()

	if e.pollCancel != nil {
		return false
	}

	pollCtx, cancel := context.WithCancel(ctx)
	e.pollCancel = cancel

	go func() {
		ticker := time.NewTicker(e.opts.PollInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				_, _ = e.HandleTrigger(pollCtx, TriggerPoll())
			case <-pollCtx.Done():
				return
			}
		}
	}()
	return true
}

// StopMonitoring stops the poll ticker.
func (e *Engine) StopMonitoring() {
	e.pollMu.Lock()
	defer e.pollMu.Unlock()
	if e.pollCancel != nil {
		e.pollCancel()
		e.pollCancel = nil
	}
}

// Monitoring reports whether the poll ticker is running.
func (e *Engine) Monitoring() bool {
	e.pollMu.Lock()
	defer e.pollMu.Unlock()
	return e.pollCancel != nil
}
