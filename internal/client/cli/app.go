package cli

import (
	"bufio"
	"context"
	"io"
	"log"
	"log/slog"
	"os"

	"github.com/clipflow-app/clipflow/internal/client/channel"
	"github.com/clipflow-app/clipflow/internal/client/client"
	"github.com/clipflow-app/clipflow/internal/client/clipboard"
	"github.com/clipflow-app/clipflow/internal/client/config"
	"github.com/clipflow-app/clipflow/internal/client/engine"
	"github.com/clipflow-app/clipflow/internal/client/filter"
	"github.com/clipflow-app/clipflow/internal/client/models"
	"github.com/clipflow-app/clipflow/internal/client/permission"
	"github.com/clipflow-app/clipflow/internal/client/repositories/metadata"
	"github.com/clipflow-app/clipflow/internal/logging"
	"golang.org/x/term"

	_ "modernc.org/sqlite"
)

// App wires configuration, local storage, the backend client, the permission
// gate, the content filter and the sync engine behind an interactive REPL.
type App struct {
	config  *config.Config
	repos   *client.Repositories
	api     client.Client
	clip    clipboard.Clipboard
	gate    *permission.Gate
	filter  *filter.Filter
	manager *channel.Manager
	engine  *engine.Engine
	log     logging.Logger

	reader *bufio.Reader
	out    io.Writer

	// lastListing backs the numeric arguments of copy/delete.
	lastListing []models.Entry
}

func NewApp(c *config.Config) (*App, error) {

	ctx := context.Background()
	logger := logging.NewSlogLogger(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo})))

	repos, err := client.InitDatabase(ctx, c.DatabasePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient := client.NewHTTPClient(c.ServerBaseURL)

	osClip := clipboard.NewOSClipboard(clipboard.DefaultClassifier())
	avail := detectAvailability(osClip)

	flt := filter.New()

	app := &App{
		config: c,
		repos:  repos,
		api:    apiClient,
		clip:   osClip,
		filter: flt,
		log:    logger,
		reader: bufio.NewReader(os.Stdin),
		out:    os.Stdout,
	}

	app.gate = permission.NewGate(osClip, avail, logger,
		permission.WithFallback(app.permissionFallback),
		permission.WithChangeHook(func(st permission.Status) {
			// Hint only; the gate re-probes on startup regardless.
			_ = repos.Metadata.Set(context.Background(), metadata.KeyPermissionHint, []byte(st.String()))
		}),
	)

	app.manager = channel.NewManager(apiClient, repos.Metadata, models.DeviceDesktop, logger)
	app.manager.OnIdentitySwitch(func() {
		flt.Reset()
		if app.engine != nil {
			app.engine.ResetSession()
		}
	})

	app.engine = engine.New(app.gate, flt, osClip, apiClient, app.manager, logger, engine.Options{
		TriggerDebounce: c.TriggerDebounce,
		EditCooldown:    c.EditCooldown,
		PollInterval:    c.PollInterval,
		CallTimeout:     c.CallTimeout,
	})

	// The event carries no payload; subscribers re-fetch what they need.
	app.engine.OnContentUpdated(func() {
		fetchCtx, cancel := context.WithTimeout(context.Background(), c.CallTimeout)
		defer cancel()
		entry, err := apiClient.GetLatest(fetchCtx)
		if err != nil {
			app.log.Debug(fetchCtx, "latest entry re-fetch failed", "error", err)
			return
		}
		app.log.Info(fetchCtx, "channel updated", "type", string(entry.Type), "chars", len(entry.Content))
	})

	return app, nil
}

// detectAvailability downgrades a fully capable clipboard to write-only when
// stdin is not an interactive terminal. Without a terminal there is no user
// action to anchor a read to, so reads stay behind explicit commands.
func detectAvailability(clip *clipboard.OSClipboard) clipboard.Availability {
	avail := clip.Availability()
	if avail == clipboard.AvailFull && !term.IsTerminal(int(os.Stdin.Fd())) {
		return clipboard.AvailWriteOnly
	}
	return avail
}

func (a *App) Run(ctx context.Context) {
	defer func() {
		a.engine.StopMonitoring()
		_ = a.api.Close()
		_ = a.repos.DB.Close()
	}()
	a.Root(ctx)
}

func (a *App) isVerified() bool {
	return a.manager.Verified()
}

// startup restores identity and joins a channel before the first prompt:
// the -ch flag wins over a previously stored channel, and a working stored
// channel survives a bad flag value.
func (a *App) startup(ctx context.Context) {
	if err := a.manager.Init(ctx); err != nil {
		a.log.Error(ctx, "identity init failed", "error", err)
		return
	}

	if a.config.ChannelID != "" {
		if ok, err := a.manager.Verify(ctx, a.config.ChannelID, true); err != nil {
			a.log.Warn(ctx, "channel verification failed", "channel", a.config.ChannelID, "error", err)
		} else if !ok {
			a.log.Warn(ctx, "channel rejected by server", "channel", a.config.ChannelID)
		}
	}

	if !a.manager.Verified() {
		if stored := a.manager.StoredChannelID(); stored != "" {
			if _, err := a.manager.Verify(ctx, stored, false); err != nil {
				a.log.Warn(ctx, "stored channel verification failed", "error", err)
			}
		}
	}

	// The stored hint is advice only; CheckSilently re-verifies regardless.
	if hint, err := a.repos.Metadata.Get(ctx, metadata.KeyPermissionHint); err == nil && deniedLastSession(hint) {
		printlnFn("Clipboard access was denied last session. Run 'grant' to re-enable automatic syncing.")
	}

	a.gate.CheckSilently(ctx)

	if a.manager.Verified() {
		if _, err := a.engine.HandleTrigger(ctx, engine.TriggerInitial()); err != nil {
			a.log.Warn(ctx, "initial sync failed", "error", err)
		}
	}
}

// deniedLastSession reports whether the stored permission hint recorded a
// hard denial in a previous session.
func deniedLastSession(hint []byte) bool {
	return string(hint) == permission.Denied.String()
}

func (a *App) permissionFallback() {
	printlnFn("Clipboard access is blocked. Use 'copy <n>' and 'delete <n>' to manage entries manually,")
	printlnFn("or re-enable clipboard access for this terminal and run 'grant' again.")
}
