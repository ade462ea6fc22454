// Package internal provides the App struct that wires the homework tracker's
// components together and initializes the CLI layer.
package internal

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/valter-silva-au/homework-tracker/internal/cli"
	"github.com/valter-silva-au/homework-tracker/internal/core"
	"github.com/valter-silva-au/homework-tracker/internal/display"
	"github.com/valter-silva-au/homework-tracker/internal/logging"
	"github.com/valter-silva-au/homework-tracker/internal/observability"
	"github.com/valter-silva-au/homework-tracker/internal/storage"
	"github.com/valter-silva-au/homework-tracker/pkg/models"
	"go.uber.org/zap"
)

// HomeEnv names the environment variable that pins the base path.
const HomeEnv = "HWT_HOME"

// App holds all service dependencies for the homework tracker.
type App struct {
	BasePath string

	// Configuration
	ConfigMgr core.ConfigurationManager
	Config    *models.Config

	Logger *zap.Logger

	// Storage layer
	Store storage.TaskStore

	// Card view
	Surface *display.Surface
	Viewer  *display.Viewer

	// Observability
	EventLog    observability.EventLog
	MetricsCalc observability.MetricsCalculator
}

// NewApp creates and wires all components. basePath is the directory holding
// .hwtconfig; relative paths in the config are resolved against it.
func NewApp(basePath string) (*App, error) {
	app := &App{BasePath: basePath}

	// --- Configuration ---
	app.ConfigMgr = core.NewConfigurationManager(basePath)
	cfg, err := app.ConfigMgr.LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}
	if err := app.ConfigMgr.ValidateConfig(cfg); err != nil {
		return nil, err
	}
	app.Config = cfg

	// --- Logging ---
	app.Logger, err = logging.New(cfg.Log.Level, cfg.Log.Format, os.Stderr)
	if err != nil {
		return nil, fmt.Errorf("creating logger: %w", err)
	}

	// --- Storage layer ---
	app.Store = storage.NewTaskStore(resolvePath(basePath, cfg.Storage.File), app.Logger)

	// --- Card view ---
	app.Surface, err = display.NewSurface(cfg.Display, os.Stdout)
	if err != nil {
		return nil, fmt.Errorf("creating display surface: %w", err)
	}
	app.Viewer = display.NewViewer(app.Surface, app.Logger)

	// --- Observability ---
	if cfg.Events.Enabled {
		eventLogPath := resolvePath(basePath, cfg.Events.File)
		app.EventLog, err = observability.NewJSONLEventLog(eventLogPath)
		if err != nil {
			// Non-fatal: run without the event log.
			app.Logger.Warn("event log disabled", zap.String("path", eventLogPath), zap.Error(err))
			app.EventLog = nil
		}
	}
	if app.EventLog != nil {
		app.MetricsCalc = observability.NewMetricsCalculator(app.EventLog)
	}

	// --- Wire CLI package-level variables ---
	cli.BasePath = basePath
	cli.Store = app.Store
	cli.Viewer = app.Viewer
	cli.Logger = app.Logger
	cli.EventLog = app.EventLog
	cli.MetricsCalc = app.MetricsCalc

	return app, nil
}

// Close releases resources held by the App, such as the event log file handle.
// It is safe to call Close on an App whose EventLog is nil.
func (a *App) Close() error {
	if a.Logger != nil {
		_ = a.Logger.Sync()
	}
	if a.EventLog != nil {
		return a.EventLog.Close()
	}
	return nil
}

func resolvePath(basePath, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(basePath, p)
}

// ResolveBasePath determines the base path for the tracker's files. It checks
// the HWT_HOME env var, then walks up from the current directory looking for
// a .hwtconfig file, then falls back to the current directory.
func ResolveBasePath() string {
	if home := os.Getenv(HomeEnv); home != "" {
		return home
	}
	dir, err := os.Getwd()
	if err != nil {
		return "."
	}
	for {
		for _, name := range []string{core.ConfigFileName, core.ConfigFileName + ".yaml", core.ConfigFileName + ".yml"} {
			if _, err := os.Stat(filepath.Join(dir, name)); err == nil {
				return dir
			}
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}
	cwd, _ := os.Getwd()
	return cwd
}
