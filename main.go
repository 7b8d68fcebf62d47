package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"zimage_power/core"
	"zimage_power/core/validation"
	"zimage_power/db"
	"zimage_power/imagesave"
	"zimage_power/logging"
	"zimage_power/nodes"
	"zimage_power/shutdown"
	"zimage_power/styles"
	"zimage_power/styles/presets"
	"zimage_power/webui"

	"github.com/joho/godotenv"
	"go.uber.org/zap"
)

// envFile is loaded from the working directory before the configuration.
const envFile = ".env"

// cleanupInterval is how often stale profiles are purged.
const cleanupInterval = 24 * time.Hour

func main() {
	os.Exit(run(os.Args[1:]))
}

// run dispatches service commands and otherwise serves in the foreground,
// or under the service manager when not started from a terminal.
func run(args []string) int {
	if len(args) > 0 {
		return serviceCommand(args[0])
	}
	if handled, code := runAsService(); handled {
		return code
	}
	return serve(context.Background(), true)
}

// serve runs the node server until parent is cancelled or, when
// handleSignals is set, until SIGINT/SIGTERM. It returns the exit code.
func serve(parent context.Context, handleSignals bool) int {
	if err := godotenv.Load(envFile); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not load %s: %v\n", envFile, err)
	}

	cfg := core.LoadConfig()
	if err := cfg.EnsureDirectories(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		return core.ExitCodeConfig
	}

	logger, err := logging.New(logging.Options{
		Level:       logging.ParseLevel(cfg.EffectiveLogLevel(), logging.InfoLevel),
		Development: cfg.DevMode,
		FilePath:    cfg.LogFile,
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to initialize logger: %v\n", err)
		return core.ExitCodeConfig
	}
	log := logger.Zap()
	defer logger.Sync()

	if code := runStartupValidation(log, cfg); code != core.ExitCodeSuccess {
		return code
	}

	log.Info("Configuration loaded",
		zap.String("addr", cfg.Address()),
		zap.String("styles_file", cfg.StylesFile),
		zap.String("db_path", cfg.DBPath),
		zap.String("output_dir", cfg.OutputDir),
		zap.String("log_level", cfg.EffectiveLogLevel()),
		zap.Int("profile_retention_days", cfg.ProfileRetentionDays),
		zap.Bool("dev_mode", cfg.DevMode),
	)

	catalog, err := loadCatalog(cfg)
	if err != nil {
		log.Error("Failed to load style presets", zap.Error(err))
		return core.ExitCodeConfig
	}
	registry := nodes.NewRegistry(log.Named("nodes"), nodes.DefaultMenu, nodes.DefaultNodes()...)

	manager := shutdown.NewManager(log.Named("shutdown"), shutdown.WithTimeout(cfg.ShutdownTimeout))
	manager.Register("logger", shutdown.PriorityLogger, shutdown.SyncLogger(log))

	database, err := db.NewDatabase(cfg.DBPath)
	if err != nil {
		log.Error("Failed to open profile database", zap.String("path", cfg.DBPath), zap.Error(err))
		return core.ExitCodeError
	}
	manager.Register("database", shutdown.PriorityDatabase, shutdown.Closer(database))

	if cfg.ProfileRetentionDays > 0 {
		cleanupCtx, stopCleanup := context.WithCancel(manager.Context())
		database.StartCleanupScheduler(cleanupCtx, db.CleanupSchedulerConfig{
			RetentionDays: cfg.ProfileRetentionDays,
			Interval:      cleanupInterval,
			OnCleanup:     logCleanup(log.Named("db")),
		})
		manager.Register("profile-cleanup", shutdown.PriorityWorkers, shutdown.CancelFunc(stopCleanup))
	}

	server, err := webui.NewServer(serverConfig(cfg), webui.Dependencies{
		Catalog:  catalog,
		Registry: registry,
		Profiles: db.NewRepository(database),
		Guard:    manager.Tracker(),
		Saver:    imagesave.NewSaver(cfg.OutputDir, log.Named("imagesave")),
		LogLevel: logger.LevelHandler(),
	}, log.Named("webui"))
	if err != nil {
		log.Error("Failed to create WebUI server", zap.Error(err))
		manager.Shutdown()
		return core.ExitCodeError
	}
	manager.Register("http", shutdown.PriorityHTTP, shutdown.HTTPServer(server.HTTPServer()))

	if handleSignals {
		manager.Start()
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- server.Start()
	}()

	var runErr error
	select {
	case <-manager.Context().Done():
	case <-parent.Done():
		log.Info("Stop requested by the service manager")
	case runErr = <-serveErr:
		if runErr != nil {
			log.Error("WebUI server stopped", zap.Error(runErr))
		}
	}

	err = manager.Shutdown()
	if runErr != nil {
		return core.ExitCodeError
	}
	code := manager.ExitCode(err)
	fmt.Fprintf(os.Stderr, "Goodbye! (%s)\n", core.ExitCodeName(code))
	return code
}

// runStartupValidation runs the startup checks and logs every failure.
func runStartupValidation(log *zap.Logger, cfg *core.Config) int {
	log.Info("Starting startup validation...")

	result := validation.NewValidationSuite("Z-Image Power Nodes", validation.StartupChecks(cfg, envFile)...).
		WithShowProgress(true).
		Validate()

	if !result.Success {
		log.Error("Configuration validation failed",
			zap.Int("passed", result.PassedSteps),
			zap.Int("failed", result.FailedSteps),
			zap.Duration("duration", result.Duration),
		)
		for _, step := range result.Steps {
			if step.Status == validation.StepFailed {
				log.Error("Validation step failed",
					zap.String("step", step.Name),
					zap.String("message", step.Message),
					zap.Error(step.Error),
				)
			}
		}
		return core.ExitCodeConfig
	}

	log.Info("Configuration validation passed",
		zap.Int("checks_passed", result.PassedSteps),
		zap.Int("warnings", result.Warnings),
		zap.Duration("duration", result.Duration),
	)
	return core.ExitCodeSuccess
}

// loadCatalog returns the embedded presets unless a styles file is set.
func loadCatalog(cfg *core.Config) (*styles.Catalog, error) {
	if cfg.StylesFile == "" {
		return presets.Default()
	}
	return presets.LoadFile(cfg.StylesFile)
}

func serverConfig(cfg *core.Config) webui.ServerConfig {
	sc := webui.DefaultServerConfig()
	sc.Host = cfg.Host
	sc.Port = cfg.Port
	return sc
}

func logCleanup(log *zap.Logger) func(db.CleanupResult, error) {
	return func(result db.CleanupResult, err error) {
		if err != nil {
			log.Warn("Profile cleanup failed", zap.Error(err))
			return
		}
		if result.TotalDeleted > 0 {
			log.Info("Removed stale profiles",
				zap.Int64("top_styles", result.TopStylesDeleted),
				zap.Int64("customizations", result.CustomStylesDeleted),
				zap.Duration("duration", result.Duration),
			)
		}
	}
}
