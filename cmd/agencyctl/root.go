package main

import (
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"agencyui/internal/domain"
	"agencyui/internal/infra/backend"
)

type cliOptions struct {
	backendURL string
	timeout    time.Duration
	jsonOutput bool
	output     string
}

func newRootCommand() *cobra.Command {
	opts := cliOptions{
		backendURL: domain.DefaultBackendURL,
		timeout:    30 * time.Second,
		output:     outputText,
	}
	if env := strings.TrimSpace(os.Getenv("AGENCYUI_BACKEND_URL")); env != "" {
		opts.backendURL = env
	}

	root := &cobra.Command{
		Use:           "agencyctl",
		Short:         "CLI client for the agency backend",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			applyRootFlagBindings(cmd, &opts)
			return validateOutput(&opts)
		},
	}

	root.PersistentFlags().StringVar(&opts.backendURL, "backend", opts.backendURL, "backend base URL")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", opts.timeout, "request timeout (0 disables)")
	root.PersistentFlags().BoolVar(&opts.jsonOutput, "json", false, "output JSON (same as --output json)")
	root.PersistentFlags().StringVarP(&opts.output, "output", "o", opts.output, "output format: text, json or yaml")

	root.AddCommand(
		newComponentsCmd(&opts),
		newCreateCmd(&opts),
		newAgenciesCmd(&opts),
	)

	return root
}

func applyRootFlagBindings(cmd *cobra.Command, opts *cliOptions) {
	flags := cmd.Flags()
	flags.Visit(func(f *pflag.Flag) {
		switch f.Name {
		case "backend":
			opts.backendURL, _ = flags.GetString("backend")
		case "timeout":
			opts.timeout, _ = flags.GetDuration("timeout")
		case "json":
			opts.jsonOutput, _ = flags.GetBool("json")
		case "output":
			opts.output, _ = flags.GetString("output")
		}
	})
	if opts.jsonOutput {
		opts.output = outputJSON
	}
}

func validateOutput(opts *cliOptions) error {
	opts.output = strings.ToLower(strings.TrimSpace(opts.output))
	switch opts.output {
	case outputText, outputJSON, outputYAML:
		return nil
	default:
		return exitError{code: exitUsage, message: fmt.Sprintf("unknown output format %q", opts.output)}
	}
}

func newClient(opts *cliOptions) (*backend.Client, error) {
	client, err := backend.NewClient(backend.Options{BaseURL: opts.backendURL})
	if err != nil {
		return nil, exitWith(exitUsage, err)
	}
	return client, nil
}

func withTimeout(ctx context.Context, opts *cliOptions) (context.Context, context.CancelFunc) {
	if ctx == nil {
		ctx = context.Background()
	}
	if opts.timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, opts.timeout)
}
