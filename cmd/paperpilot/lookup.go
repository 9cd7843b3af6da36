package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/at-ishikawa/paperpilot/internal/arxiv"
	"github.com/at-ishikawa/paperpilot/internal/messaging"
	"github.com/at-ishikawa/paperpilot/internal/overlay"
	"github.com/at-ishikawa/paperpilot/internal/selection"
)

type connectionFlags struct {
	embedded bool
	store    PreferencesStore
}

func (f *connectionFlags) register(flags *pflag.FlagSet) {
	flags.BoolVar(&f.embedded, "embedded", false, "run the background in this process instead of calling `paperpilot serve`")
	addStoreFlag(flags, &f.store)
}

func (f *connectionFlags) connect(ctx context.Context) (*uiConnection, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, err
	}
	return connect(ctx, cfg, f.embedded, resolveStore(f.store, cfg))
}

func newDefineCommand() *cobra.Command {
	var flags connectionFlags
	command := &cobra.Command{
		Use:   "define <term>",
		Short: "Show the dictionary overlay for a word",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			conn, err := flags.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeConnection(conn)

			term := strings.Join(args, " ")
			return runLookup(cmd.Context(), cmd.OutOrStdout(), conn, term, messaging.DefineRequest(term))
		},
	}
	flags.register(command.Flags())
	return command
}

func newArxivCommand() *cobra.Command {
	var (
		flags      connectionFlags
		maxResults int
		web        bool
	)
	command := &cobra.Command{
		Use:   "arxiv <query>",
		Short: "Search arXiv for a phrase",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			query := strings.TrimSpace(strings.Join(args, " "))
			if web {
				_, err := fmt.Fprintln(cmd.OutOrStdout(), arxiv.SearchPageURL(query))
				return err
			}

			conn, err := flags.connect(cmd.Context())
			if err != nil {
				return err
			}
			defer closeConnection(conn)

			return runLookup(cmd.Context(), cmd.OutOrStdout(), conn, query, messaging.SearchArxivRequest(query, maxResults))
		},
	}
	flags.register(command.Flags())
	command.Flags().IntVar(&maxResults, "max-results", 0, "number of results to request (default from preferences)")
	command.Flags().BoolVar(&web, "web", false, "print the arxiv.org search page URL instead of searching")
	return command
}

// runLookup sends one request and renders the overlay it resolves to.
func runLookup(ctx context.Context, w io.Writer, conn *uiConnection, text string, request messaging.Request) error {
	prefs := conn.readPreferences(ctx)
	if request.MaxResults > 0 {
		prefs.ArxivMaxResults = request.MaxResults
	}

	controller := overlay.NewController()
	ticket := controller.Begin(selection.Selection{Text: text}, request.Type)
	controller.Resolve(ticket, conn.sender.Send(ctx, request))

	if err := overlay.NewTextRenderer(w).Render(controller.State(), true, prefs); err != nil {
		return fmt.Errorf("overlay.Render > %w", err)
	}
	if _, failed := controller.State().(overlay.Failed); failed {
		return errLookupFailed
	}
	return nil
}

func closeConnection(conn *uiConnection) {
	if err := conn.close(); err != nil {
		slog.Default().Warn("failed to close the connection", "error", err)
	}
}
