package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"agencyui/internal/domain"
)

func newComponentsCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "components",
		Short: "List the agents and tools offered by the backend",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			client, err := newClient(opts)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context(), opts)
			defer cancel()

			catalog, err := client.FetchCatalog(ctx)
			if err != nil {
				return classify(err)
			}
			return printCatalog(cmd.OutOrStdout(), catalog, opts.output)
		},
	}
}

func newCreateCmd(opts *cliOptions) *cobra.Command {
	return &cobra.Command{
		Use:     "create <kind:name>...",
		Short:   "Create an agency from an ordered list of items",
		Example: "  agencyctl create agent:Agent1 tool:Tool2 agent:Agent1",
		RunE: func(cmd *cobra.Command, args []string) error {
			items, err := parseItems(args)
			if err != nil {
				return exitWith(exitUsage, err)
			}
			client, err := newClient(opts)
			if err != nil {
				return err
			}
			ctx, cancel := withTimeout(cmd.Context(), opts)
			defer cancel()

			resp, err := client.CreateAgency(ctx, items)
			if err != nil {
				return classify(err)
			}
			return printCreated(cmd.OutOrStdout(), resp, opts.output)
		},
	}
}

func newAgenciesCmd(opts *cliOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "agencies",
		Short: "Inspect agencies persisted by the reference backend",
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "list",
			Short: "List agencies in creation order",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				client, err := newClient(opts)
				if err != nil {
					return err
				}
				ctx, cancel := withTimeout(cmd.Context(), opts)
				defer cancel()

				agencies, err := client.ListAgencies(ctx)
				if err != nil {
					return classify(err)
				}
				return printAgencies(cmd.OutOrStdout(), agencies, opts.output)
			},
		},
		&cobra.Command{
			Use:   "get <id>",
			Short: "Show one agency",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				client, err := newClient(opts)
				if err != nil {
					return err
				}
				ctx, cancel := withTimeout(cmd.Context(), opts)
				defer cancel()

				agency, err := client.GetAgency(ctx, args[0])
				if err != nil {
					return classify(err)
				}
				return printAgency(cmd.OutOrStdout(), agency, opts.output)
			},
		},
	)
	return cmd
}

// parseItems reads kind:name arguments. Order and duplicates are kept.
func parseItems(args []string) (domain.Composition, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("at least one kind:name item is required")
	}
	items := make(domain.Composition, 0, len(args))
	for _, arg := range args {
		kind, name, ok := strings.Cut(arg, ":")
		kind = strings.ToLower(strings.TrimSpace(kind))
		name = strings.TrimSpace(name)
		if !ok || kind == "" || name == "" {
			return nil, fmt.Errorf("invalid item %q: expected kind:name", arg)
		}
		items = append(items, domain.CompositionEntry{Name: name, Kind: domain.ItemKind(kind)})
	}
	return items, nil
}
