package main

import (
	"context"
	"log"
	"log/slog"
	"os"
	"strings"

	"github.com/wailsapp/wails/v3/pkg/application"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"agencyui/internal/app"
	"agencyui/internal/infra/telemetry"
	"agencyui/internal/session"
	"agencyui/internal/ui/events"
)

const eventLog = "log:entry"

func main() {
	logger, logBroadcaster := createLoggerWithBroadcaster()
	defer func() {
		_ = logger.Sync()
	}()
	desktopLogger := logger.Named("desktop").With(zap.String(telemetry.FieldLogSource, telemetry.LogSourceDesktop))

	cfg, err := app.LoadConfig(strings.TrimSpace(os.Getenv("AGENCYUI_CONFIG")))
	if err != nil {
		desktopLogger.Fatal("load config failed", zap.Error(err))
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// The emitter is bound once the Wails app exists; sessions are only
	// created after the window loads the composer page.
	var emitter events.Emitter
	hooks := app.SessionHooks{
		OnCreate: func(ctx context.Context, s *session.Session) {
			desktopLogger.Debug("session opened", telemetry.SessionIDField(s.ID()))
			go events.Mirror(ctx, s, emitter)
		},
	}

	coreApp, err := app.NewApplication(ctx, cfg, app.ModeAll, app.LoggingConfig{
		Logger:      logger,
		Broadcaster: logBroadcaster,
	}, hooks)
	if err != nil {
		desktopLogger.Fatal("initialize application failed", zap.Error(err))
	}

	wailsApp := application.New(application.Options{
		Name:        "agencyui",
		Description: "Drag-and-drop agency composer",
		Assets: application.AssetOptions{
			Handler: coreApp.Composer().Handler(),
		},
		LogLevel: slog.LevelInfo,
		OnShutdown: func() {
			cancel()
		},
	})
	emitter = events.EmitterFunc(func(name string, data any) {
		wailsApp.Event.Emit(name, data)
	})

	go forwardLogs(ctx, logBroadcaster, emitter)
	go func() {
		if err := coreApp.Run(ctx); err != nil {
			desktopLogger.Error("core services stopped", zap.Error(err))
			events.EmitError(emitter, "INTERNAL_ERROR", "Background services stopped", err.Error())
		}
	}()

	wailsApp.Window.NewWithOptions(application.WebviewWindowOptions{
		Title:            "Agency Composer",
		Width:            1100,
		Height:           760,
		BackgroundColour: application.NewRGB(255, 255, 255),
		URL:              "/",
	})

	desktopLogger.Info("starting agencyui desktop shell", zap.String("backend", cfg.Backend.URL))
	if err := wailsApp.Run(); err != nil {
		logger.Error("wails run failed", zap.Error(err))
		return
	}
}

func forwardLogs(ctx context.Context, logs *telemetry.LogBroadcaster, emitter events.Emitter) {
	for entry := range logs.Subscribe(ctx) {
		emitter.Emit(eventLog, entry)
	}
}

func createLoggerWithBroadcaster() (*zap.Logger, *telemetry.LogBroadcaster) {
	config := zap.NewDevelopmentConfig()
	config.EncoderConfig.EncodeLevel = zapcore.CapitalColorLevelEncoder
	config.Level = zap.NewAtomicLevelAt(zapcore.InfoLevel)

	baseLogger, err := config.Build()
	if err != nil {
		log.Fatalf("failed to initialize logger: %v", err)
	}

	broadcaster := telemetry.NewLogBroadcaster(zapcore.InfoLevel)

	logger := baseLogger.WithOptions(zap.WrapCore(func(core zapcore.Core) zapcore.Core {
		return zapcore.NewTee(core, broadcaster.Core())
	}))

	return logger, broadcaster
}
