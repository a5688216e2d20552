// Package main is the iJus API entry point. Without a subcommand it serves
// HTTP; the lookup subcommands run one jurisprudence operation and print the
// JSON response.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"ijus/internal/app/bootstrap"

	"github.com/spf13/cobra"
)

const (
	Version = "0.1.0"
	appName = "ijus"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           appName,
		Short:         "Legal research API with progression tracking",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return serve(cmd.Context())
		},
	}

	cmd.AddCommand(
		&cobra.Command{
			Use:   "serve",
			Short: "Serve the HTTP API",
			Args:  cobra.NoArgs,
			RunE: func(cmd *cobra.Command, _ []string) error {
				return serve(cmd.Context())
			},
		},
		searchCmd(),
		documentCmd(),
		expandCmd(),
		&cobra.Command{
			Use:   "version",
			Short: "Print version information",
			Run: func(cmd *cobra.Command, _ []string) {
				fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", appName, Version)
			},
		},
	)
	return cmd
}

func serve(parent context.Context) error {
	ctx, stop := signal.NotifyContext(contextOrBackground(parent), os.Interrupt, syscall.SIGTERM)
	defer stop()

	app, err := bootstrap.BuildAPI(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap api: %w", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "close failed: %v\n", err)
		}
	}()
	return app.Run(ctx)
}

func searchCmd() *cobra.Command {
	var (
		tribunal string
		size     int
		expand   bool
	)
	cmd := &cobra.Command{
		Use:   "search <query>",
		Short: "Search jurisprudence, falling back to bundled samples",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.APIApp) (any, error) {
				return app.Jurisprudence.Handler.SearchHandler(ctx, searchRequest(args, tribunal, size, expand))
			})
		},
	}
	cmd.Flags().StringVar(&tribunal, "tribunal", "", "Restrict results to a court")
	cmd.Flags().IntVar(&size, "size", 0, "Page size (defaults to SEARCH_PAGE_SIZE)")
	cmd.Flags().BoolVar(&expand, "expand", false, "Expand the query before searching")
	return cmd
}

func documentCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "document <type|_> <id>",
		Short: "Resolve a document, probing document types when needed",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			documentType := args[0]
			if documentType == "_" {
				documentType = ""
			}
			return withApp(cmd, func(ctx context.Context, app *bootstrap.APIApp) (any, error) {
				return app.Jurisprudence.Handler.GetDocumentHandler(ctx, documentType, args[1])
			})
		},
	}
}

func expandCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "expand <text>",
		Short: "Expand a case description into a search query",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return withApp(cmd, func(ctx context.Context, app *bootstrap.APIApp) (any, error) {
				return app.Jurisprudence.Handler.ExpandHandler(ctx, expandRequest(args))
			})
		},
	}
}

func withApp(cmd *cobra.Command, run func(context.Context, *bootstrap.APIApp) (any, error)) error {
	ctx := contextOrBackground(cmd.Context())
	app, err := bootstrap.BuildAPI(ctx)
	if err != nil {
		return fmt.Errorf("bootstrap api: %w", err)
	}
	defer func() {
		_ = app.Close()
	}()

	result, err := run(ctx, app)
	if err != nil {
		return err
	}
	return printJSON(cmd, result)
}

func printJSON(cmd *cobra.Command, value any) error {
	encoder := json.NewEncoder(cmd.OutOrStdout())
	encoder.SetIndent("", "  ")
	return encoder.Encode(value)
}

func contextOrBackground(ctx context.Context) context.Context {
	if ctx == nil {
		return context.Background()
	}
	return ctx
}

func joinArgs(args []string) string {
	return strings.TrimSpace(strings.Join(args, " "))
}
