package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/clipflow-app/clipflow/internal/client/engine"
	"github.com/clipflow-app/clipflow/internal/client/models"
	"github.com/clipflow-app/clipflow/internal/common"
)

const historyPageSize = 10

// CreateChannel creates a new channel and joins it. An optional first
// argument requests a custom channel id.
func (a *App) CreateChannel(ctx context.Context, args []string) error {
	customID := ""
	if len(args) > 0 {
		customID = args[0]
	}

	id, err := a.manager.Create(ctx, customID)
	if err != nil {
		printlnFn("Could not create channel:", err.Error())
		return err
	}

	printlnFn("Joined new channel:", id)
	printlnFn("Share this id with your other devices to sync with them.")
	return nil
}

// JoinChannel verifies an existing channel id and joins it. With no argument
// the id is read interactively. A rejected id never evicts a previously
// working channel.
func (a *App) JoinChannel(ctx context.Context, args []string) error {
	id := ""
	if len(args) > 0 {
		id = args[0]
	} else {
		var err error
		id, err = GetSimpleText(a.reader, "Enter the channel id to join", a.out)
		if err != nil {
			return err
		}
	}
	if id == "" {
		printlnFn("Usage: join <id>")
		return nil
	}

	ok, err := a.manager.Verify(ctx, id, true)
	if err != nil {
		printlnFn("Could not reach the server:", err.Error())
		return err
	}
	if !ok {
		printlnFn("Channel", id, "was rejected by the server.")
		return nil
	}

	printlnFn("Joined channel:", id)
	if _, err := a.engine.HandleTrigger(ctx, engine.TriggerInitial()); err != nil {
		a.log.Warn(ctx, "initial sync failed", "error", err)
	}
	return nil
}

// ShowChannel prints the current channel and device identity.
func (a *App) ShowChannel(ctx context.Context) error {
	ch := a.manager.ChannelID()
	if ch == "" {
		printlnFn("Not joined to a channel. Use 'create' or 'join <id>'.")
		return nil
	}
	state := "verified"
	if !a.manager.Verified() {
		state = "unverified"
	}
	printlnFn("Channel:", ch, "("+state+")")
	printlnFn("Device: ", a.manager.DeviceID(), string(a.manager.DeviceType()))
	return nil
}

// Grant requests clipboard access via an explicit user action and, when a
// value comes back with the grant, syncs it immediately.
func (a *App) Grant(ctx context.Context) error {
	st, text := a.gate.RequestExplicitly(ctx)
	printlnFn("Clipboard permission:", st.String())

	if text != "" && a.isVerified() {
		if _, err := a.engine.HandleTrigger(ctx, engine.TriggerManual(text)); err != nil {
			printlnFn("Sync failed:", err.Error())
			return err
		}
	}
	return nil
}

// Add submits typed content as a forced manual cycle. No clipboard read is
// involved, so this works even on manual-only sessions; the content still
// passes the filter and the in-flight lock like any other cycle.
func (a *App) Add(ctx context.Context, args []string) error {
	if !a.isVerified() {
		printlnFn("Join a channel first ('create' or 'join <id>').")
		return nil
	}

	text := strings.Join(args, " ")
	if text == "" {
		var err error
		text, err = GetSimpleText(a.reader, "Enter the text to sync", a.out)
		if err != nil {
			return err
		}
	}
	if strings.TrimSpace(text) == "" {
		printlnFn("Nothing to add.")
		return nil
	}

	synced, err := a.engine.HandleTrigger(ctx, engine.TriggerManual(text))
	if err != nil {
		printlnFn("Sync failed:", err.Error())
		return err
	}
	if synced {
		printlnFn("Added:", preview(text))
	} else {
		printlnFn("Not added (duplicate or blocked).")
	}
	return nil
}

// Sync forces one sync cycle with the current OS clipboard value.
func (a *App) Sync(ctx context.Context) error {
	if !a.isVerified() {
		printlnFn("Join a channel first ('create' or 'join <id>').")
		return nil
	}

	synced, err := a.engine.HandleTrigger(ctx, engine.TriggerManual(""))
	if err != nil {
		printlnFn("Sync failed:", err.Error())
		return err
	}
	if synced {
		printlnFn("Clipboard synced.")
	} else {
		printlnFn("Nothing new to sync.")
	}
	return nil
}

// Paste writes the newest remote entry into the OS clipboard.
func (a *App) Paste(ctx context.Context) error {
	if !a.isVerified() {
		printlnFn("Join a channel first ('create' or 'join <id>').")
		return nil
	}

	entry, err := a.api.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			printlnFn("The channel has no entries yet.")
			return nil
		}
		printlnFn("Could not fetch the latest entry:", err.Error())
		return err
	}

	if err := a.clip.WriteText(ctx, entry.Content); err != nil {
		printlnFn("Could not write to the clipboard:", err.Error())
		return err
	}

	// Remote content placed in the clipboard must not bounce back up.
	a.filter.MarkProcessed(entry.Content)
	printlnFn("Copied to clipboard:", preview(entry.Content))
	return nil
}

// List prints a page of recent entries. The numbers shown are the arguments
// for copy and delete until the next listing.
func (a *App) List(ctx context.Context, args []string) error {
	if !a.isVerified() {
		printlnFn("Join a channel first ('create' or 'join <id>').")
		return nil
	}

	page := 1
	if len(args) > 0 {
		p, err := strconv.Atoi(args[0])
		if err != nil || p < 1 {
			printlnFn("Usage: list [page]")
			return nil
		}
		page = p
	}

	entries, err := a.api.GetHistory(ctx, page, historyPageSize)
	if err != nil {
		printlnFn("Could not fetch history:", err.Error())
		return err
	}
	if len(entries) == 0 {
		printlnFn("No entries on page", page)
		return nil
	}

	a.lastListing = entries
	for i, e := range entries {
		printlnFn(fmt.Sprintf("%2d. [%s] %s", i+1, e.Type, preview(e.Content)))
	}
	return nil
}

// Latest prints the newest entry in the channel.
func (a *App) Latest(ctx context.Context) error {
	if !a.isVerified() {
		printlnFn("Join a channel first ('create' or 'join <id>').")
		return nil
	}

	entry, err := a.api.GetLatest(ctx)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) {
			printlnFn("The channel has no entries yet.")
			return nil
		}
		printlnFn("Could not fetch the latest entry:", err.Error())
		return err
	}

	printlnFn(fmt.Sprintf("[%s] %s (from %s)", entry.Type, entry.Content, entry.DeviceID))
	return nil
}

// Copy writes entry n from the last listing into the OS clipboard.
func (a *App) Copy(ctx context.Context, args []string) error {
	entry, ok := a.fromListing(args)
	if !ok {
		return nil
	}

	if err := a.clip.WriteText(ctx, entry.Content); err != nil {
		printlnFn("Could not write to the clipboard:", err.Error())
		return err
	}

	a.filter.MarkProcessed(entry.Content)
	printlnFn("Copied to clipboard:", preview(entry.Content))
	return nil
}

// Delete removes entry n from the channel and blocks its content from being
// re-synced by later clipboard reads.
func (a *App) Delete(ctx context.Context, args []string) error {
	entry, ok := a.fromListing(args)
	if !ok {
		return nil
	}

	if err := a.api.DeleteClipboard(ctx, entry.ID); err != nil {
		printlnFn("Could not delete the entry:", err.Error())
		return err
	}

	a.filter.MarkBlocked(entry.Content)
	a.engine.RecordUserEdit()
	printlnFn("Deleted:", preview(entry.Content))
	return nil
}

// Watch starts background clipboard monitoring.
func (a *App) Watch(ctx context.Context) error {
	if !a.isVerified() {
		printlnFn("Join a channel first ('create' or 'join <id>').")
		return nil
	}
	if a.engine.StartMonitoring(ctx) {
		printlnFn("Monitoring the clipboard every", a.config.PollInterval.String())
	} else {
		printlnFn("Already monitoring.")
	}
	return nil
}

// Unwatch stops background clipboard monitoring.
func (a *App) Unwatch(ctx context.Context) error {
	a.engine.StopMonitoring()
	printlnFn("Monitoring stopped.")
	return nil
}

// ShowStatus prints permission, monitoring and filter state.
func (a *App) ShowStatus(ctx context.Context) error {
	printlnFn("Permission:", a.gate.Status().String())
	printlnFn("Monitoring:", strconv.FormatBool(a.engine.Monitoring()))
	processed, blocked := a.filter.Sizes()
	printlnFn(fmt.Sprintf("Filter: %d processed, %d blocked", processed, blocked))
	return a.ShowChannel(ctx)
}

// fromListing resolves a 1-based listing number from args.
func (a *App) fromListing(args []string) (models.Entry, bool) {
	if len(args) == 0 {
		printlnFn("Expected an entry number.")
		return models.Entry{}, false
	}
	if len(a.lastListing) == 0 {
		printlnFn("Run 'list' first.")
		return models.Entry{}, false
	}
	n, err := strconv.Atoi(args[0])
	if err != nil || n < 1 || n > len(a.lastListing) {
		printlnFn(fmt.Sprintf("Expected a number between 1 and %d.", len(a.lastListing)))
		return models.Entry{}, false
	}
	return a.lastListing[n-1], true
}

// preview shortens content for single-line display, truncating on rune
// boundaries so multibyte content stays valid UTF-8.
func preview(content string) string {
	const max = 60
	s := strings.ReplaceAll(content, "\n", " ")
	runes := []rune(s)
	if len(runes) > max {
		return string(runes[:max-3]) + "..."
	}
	return s
}
