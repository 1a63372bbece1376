package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/gofrs/flock"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/andrejsstepanovs/storyboard/client"
	"github.com/andrejsstepanovs/storyboard/config"
	"github.com/andrejsstepanovs/storyboard/db"
	"github.com/andrejsstepanovs/storyboard/logger"
	"github.com/andrejsstepanovs/storyboard/models"
	"github.com/andrejsstepanovs/storyboard/pdf"
	"github.com/andrejsstepanovs/storyboard/persistence"
	"github.com/andrejsstepanovs/storyboard/projection"
	"github.com/andrejsstepanovs/storyboard/store"
)

const lockTimeout = 2 * time.Second

// App holds the dependencies shared by every command. They are opened in the
// root pre-run and released in the post-run.
type App struct {
	configPath string

	cfg     *config.Config
	logger  *zap.Logger
	conn    *sql.DB
	lock    *flock.Flock
	adapter *persistence.Adapter
	store   *store.Store
	// changed is the latest state announced by the store during this run.
	changed *models.Project

	exit        func(code int)
	now         func() time.Time
	interactive func(r io.Reader) bool
}

func newApp() *App {
	return &App{
		exit:        os.Exit,
		now:         time.Now,
		interactive: isTerminal,
	}
}

func newRootCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:               "storyboard",
		Short:             "Plan a video as an ordered list of scenes",
		SilenceUsage:      true,
		PersistentPreRunE: app.open,
		PersistentPostRun: app.close,
	}
	cmd.PersistentFlags().StringVar(&app.configPath, "config", "", "path to config file (default ~/.config/storyboard/config.toml)")
	cmd.AddCommand(
		newProjectCmd(app),
		newSceneCmd(app),
		newTimelineCmd(app),
		newPreviewCmd(app),
		newExportCmd(app),
		newImportCmd(app),
	)
	return cmd
}

func (a *App) open(cmd *cobra.Command, _ []string) error {
	cfg, _, err := config.Load(a.configPath)
	if err != nil {
		return fmt.Errorf("load config: %w", err)
	}
	a.cfg = cfg

	log, err := logger.New(cfg.Logging)
	if err != nil {
		return fmt.Errorf("init logger: %w", err)
	}
	a.logger = log

	conn, err := db.InitDB(cfg.Storage.Path)
	if err != nil {
		log.Error("storage unavailable", zap.String("path", cfg.Storage.Path), zap.Error(err))
		return err
	}

	ctx, cancel := context.WithTimeout(contextOf(cmd), lockTimeout)
	defer cancel()
	lock, err := db.Lock(ctx, cfg.Storage.Path)
	if err != nil {
		_ = conn.Close()
		return err
	}

	a.conn = conn
	a.lock = lock
	a.adapter = persistence.NewAdapter(conn, cfg.Storage.SlotKey, cfg.Storage.QuotaBytes, log)
	a.store = store.New(a.adapter.Load(), a.adapter, log)
	a.store.Subscribe(a.projectChanged)
	log.Debug("storyboard opened", zap.String("path", cfg.Storage.Path), zap.String("command", cmd.CommandPath()))
	return nil
}

func (a *App) projectChanged(p models.Project) {
	a.changed = &p
}

func (a *App) close(cmd *cobra.Command, _ []string) {
	if a.changed != nil {
		p := a.changed
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d scenes, %s total\n", p.Title, len(p.Scenes), projection.TotalDuration(p.Scenes))
		a.changed = nil
	}
	if a.lock != nil {
		if err := a.lock.Unlock(); err != nil {
			a.logger.Warn("failed to release lock", zap.Error(err))
		}
		a.lock = nil
	}
	if a.conn != nil {
		if err := a.conn.Close(); err != nil {
			a.logger.Warn("failed to close storage", zap.Error(err))
		}
		a.conn = nil
	}
	if a.logger != nil {
		_ = a.logger.Sync()
	}
}

func (a *App) exporter() *pdf.Exporter {
	timeout := time.Duration(a.cfg.PDF.TimeoutSeconds) * time.Second
	renderer := client.NewRenderer(a.cfg.PDF.RendererURL, timeout)
	return pdf.NewExporter(renderer, a.cfg.PDF, a.logger)
}

// check reports err and returns true when the command has to stop. A failed
// save is only a warning: the change is already live for this run.
func (a *App) check(cmd *cobra.Command, err error) bool {
	if err == nil {
		return false
	}
	if errors.Is(err, store.ErrNotSaved) {
		fmt.Fprintf(cmd.ErrOrStderr(), "Warning: %v\n", err)
		return false
	}
	a.fail(cmd, err)
	return true
}

func (a *App) fail(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
	a.exit(1)
}

func contextOf(cmd *cobra.Command) context.Context {
	if ctx := cmd.Context(); ctx != nil {
		return ctx
	}
	return context.Background()
}

func isTerminal(r io.Reader) bool {
	f, ok := r.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// Execute initializes and runs the root command. It is the single entry point
// for the command-line interface.
func Execute() {
	app := newApp()
	rootCmd := newRootCmd(app)
	if err := rootCmd.Execute(); err != nil {
		// Cobra prints the error, so we just need to exit.
		os.Exit(1)
	}
}
