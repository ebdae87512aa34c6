package permission

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clipflow-app/clipflow/internal/client/clipboard"
	"github.com/clipflow-app/clipflow/internal/logging"
)

// fakeClipboard returns a scripted sequence of read results.
type fakeClipboard struct {
	mu      sync.Mutex
	text    string
	err     error
	reads   int
	written []string
}

func (f *fakeClipboard) ReadText(ctx context.Context) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.reads++
	return f.text, f.err
}

func (f *fakeClipboard) WriteText(ctx context.Context, text string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.written = append(f.written, text)
	return nil
}

func (f *fakeClipboard) set(text string, err error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.text = text
	f.err = err
}

func deniedErr() error {
	return &clipboard.Error{Kind: clipboard.KindDenied, Op: "read", Err: errors.New("access denied")}
}

func unavailableErr() error {
	return &clipboard.Error{Kind: clipboard.KindUnavailable, Op: "read", Err: errors.New("cannot open display")}
}

func TestGate_CheckSilently_GrantsOnSuccess(t *testing.T) {
	clip := &fakeClipboard{text: "hello"}
	g := NewGate(clip, clipboard.AvailFull, logging.NewDiscard())

	st := g.CheckSilently(context.Background())

	assert.Equal(t, Granted, st)
	assert.False(t, g.LastGrantedAt().IsZero())
}

func TestGate_CheckSilently_HardDenialTransitions(t *testing.T) {
	clip := &fakeClipboard{err: deniedErr()}
	g := NewGate(clip, clipboard.AvailFull, logging.NewDiscard())

	st := g.CheckSilently(context.Background())

	assert.Equal(t, Denied, st)
}

func TestGate_CheckSilently_TransientLeavesStateUnchanged(t *testing.T) {
	clip := &fakeClipboard{text: "hello"}
	g := NewGate(clip, clipboard.AvailFull, logging.NewDiscard(), WithRecheckWindow(0))

	require.Equal(t, Granted, g.CheckSilently(context.Background()))

	clip.set("", unavailableErr())
	st := g.CheckSilently(context.Background())

	assert.Equal(t, Granted, st, "a focus/display hiccup must not revoke the grant")
}

func TestGate_CheckSilently_UnknownErrorLeavesStateUnchanged(t *testing.T) {
	clip := &fakeClipboard{err: errors.New("weird")}
	g := NewGate(clip, clipboard.AvailFull, logging.NewDiscard())

	st := g.CheckSilently(context.Background())

	assert.Equal(t, Uninitialized, st)
}

func TestGate_CheckSilently_RecheckWindowSuppressesReads(t *testing.T) {
	now := time.Now()
	clip := &fakeClipboard{text: "x"}
	g := NewGate(clip, clipboard.AvailFull, logging.NewDiscard(),
		WithRecheckWindow(30*time.Second),
		WithClock(func() time.Time { return now }),
	)

	g.CheckSilently(context.Background())
	require.Equal(t, 1, clip.reads)

	// Within the window: no extra read.
	now = now.Add(10 * time.Second)
	g.CheckSilently(context.Background())
	assert.Equal(t, 1, clip.reads)

	// Past the window: re-verified.
	now = now.Add(40 * time.Second)
	g.CheckSilently(context.Background())
	assert.Equal(t, 2, clip.reads)
}

func TestGate_ManualOnly_IsTerminal(t *testing.T) {
	clip := &fakeClipboard{text: "x"}
	g := NewGate(clip, clipboard.AvailWriteOnly, logging.NewDiscard())

	require.Equal(t, ManualOnly, g.Status())

	assert.Equal(t, ManualOnly, g.CheckSilently(context.Background()))
	assert.Equal(t, 0, clip.reads, "no automatic checks in manual-only mode")

	// An explicit request may read (user gesture), but never leaves
	// manual-only.
	st, text := g.RequestExplicitly(context.Background())
	assert.Equal(t, ManualOnly, st)
	assert.Equal(t, "x", text)
}

func TestGate_Unsupported_NeverReads(t *testing.T) {
	clip := &fakeClipboard{text: "x"}
	g := NewGate(clip, clipboard.AvailNone, logging.NewDiscard())

	assert.Equal(t, Unsupported, g.CheckSilently(context.Background()))
	st, text := g.RequestExplicitly(context.Background())
	assert.Equal(t, Unsupported, st)
	assert.Empty(t, text)
	assert.Equal(t, 0, clip.reads)
}

func TestGate_RequestExplicitly_SuccessReturnsText(t *testing.T) {
	clip := &fakeClipboard{text: "copied value"}
	g := NewGate(clip, clipboard.AvailFull, logging.NewDiscard())

	st, text := g.RequestExplicitly(context.Background())

	assert.Equal(t, Granted, st)
	assert.Equal(t, "copied value", text)
}

func TestGate_RequestExplicitly_DenialTriggersFallback(t *testing.T) {
	fallbacks := 0
	clip := &fakeClipboard{err: deniedErr()}
	g := NewGate(clip, clipboard.AvailFull, logging.NewDiscard(),
		WithFallback(func() { fallbacks++ }),
	)

	st, _ := g.RequestExplicitly(context.Background())

	assert.Equal(t, Denied, st)
	assert.Equal(t, 1, fallbacks)

	// A silent check after denial does not re-trigger the fallback.
	clip.set("", deniedErr())
	g.CheckSilently(context.Background())
	assert.Equal(t, 1, fallbacks)
}

func TestGate_ObserveReadError_OnlyDenialTransitions(t *testing.T) {
	clip := &fakeClipboard{text: "x"}
	g := NewGate(clip, clipboard.AvailFull, logging.NewDiscard(), WithRecheckWindow(0))
	require.Equal(t, Granted, g.CheckSilently(context.Background()))

	g.ObserveReadError(context.Background(), unavailableErr())
	assert.Equal(t, Granted, g.Status())

	g.ObserveReadError(context.Background(), errors.New("mystery"))
	assert.Equal(t, Granted, g.Status())

	g.ObserveReadError(context.Background(), deniedErr())
	assert.Equal(t, Denied, g.Status())
}

func TestGate_ChangeHookFiresOnTransitions(t *testing.T) {
	var seen []Status
	clip := &fakeClipboard{text: "x"}
	g := NewGate(clip, clipboard.AvailFull, logging.NewDiscard(),
		WithRecheckWindow(0),
		WithChangeHook(func(s Status) { seen = append(seen, s) }),
	)

	g.CheckSilently(context.Background())
	clip.set("", deniedErr())
	g.CheckSilently(context.Background())

	assert.Equal(t, []Status{Granted, Denied}, seen)
}
