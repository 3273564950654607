package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"go.uber.org/zap"

	"agencyui/internal/app"
)

type serveOptions struct {
	configPath string
	logLevel   string
	backendURL string
}

func main() {
	root := newRootCmd()
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err.Error())
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	opts := serveOptions{}

	root := &cobra.Command{
		Use:           "agencyd",
		Short:         "Agency composer backend and drag-and-drop UI server",
		Version:       app.Version + " (" + app.Build + ")",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to agencyui config file (defaults apply when empty)")
	root.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level override (debug, info, warn, error)")
	root.PersistentFlags().StringVar(&opts.backendURL, "backend", "", "backend base URL override for the composer UI")

	root.AddCommand(
		newModeCmd(&opts, app.ModeAPI, "serve", "Run the reference backend API"),
		newModeCmd(&opts, app.ModeUI, "ui", "Run the composer UI against a backend"),
		newModeCmd(&opts, app.ModeAll, "all", "Run the backend API and the composer UI together"),
		newValidateCmd(&opts),
	)

	return root
}

func newModeCmd(opts *serveOptions, mode app.Mode, use, short string) *cobra.Command {
	cmd := &cobra.Command{
		Use:   use,
		Short: short,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd, opts)
			if err != nil {
				return err
			}
			logger, err := app.BuildLogger(cfg.Log)
			if err != nil {
				return err
			}
			defer func() { _ = logger.Sync() }()

			ctx, cancel := signalAwareContext(cmd.Context())
			defer cancel()

			application, err := app.NewApplication(ctx, cfg, mode, app.LoggingConfig{Logger: logger}, app.SessionHooks{})
			if err != nil {
				logger.Error("startup failed", zap.Error(err))
				return err
			}
			return application.Run(ctx)
		},
	}
	return cmd
}

func newValidateCmd(opts *serveOptions) *cobra.Command {
	var jsonOutput bool
	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate the config and catalog file without starting servers",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			report, err := app.ValidateConfig(cmd.Context(), opts.configPath, zap.NewNop())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if jsonOutput {
				enc := json.NewEncoder(out)
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			catalogPath := report.CatalogPath
			if catalogPath == "" {
				catalogPath = "(built-in)"
			}
			fmt.Fprintf(out, "config ok: backend=%s catalog=%s agents=%d tools=%d\n",
				report.BackendURL, catalogPath, report.Agents, report.Tools)
			return nil
		},
	}
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output JSON")
	return cmd
}

// loadConfig reads the config file and applies explicitly set flags on top.
func loadConfig(cmd *cobra.Command, opts *serveOptions) (app.Config, error) {
	cfg, err := app.LoadConfig(opts.configPath)
	if err != nil {
		return app.Config{}, err
	}
	cmd.Flags().Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "log-level":
			cfg.Log.Level = opts.logLevel
		case "backend":
			cfg.Backend.URL = opts.backendURL
		}
	})
	if err := cfg.Validate(); err != nil {
		return app.Config{}, err
	}
	return cfg, nil
}

func signalAwareContext(parent context.Context) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(parent)

	signals := make(chan os.Signal, 1)
	signal.Notify(signals, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		defer signal.Stop(signals)
		select {
		case <-signals:
			cancel()
		case <-ctx.Done():
		}
	}()

	return ctx, cancel
}
