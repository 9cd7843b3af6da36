package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/at-ishikawa/paperpilot/internal/preferences"
)

type preferencesAccess interface {
	Get(ctx context.Context) (preferences.Preferences, error)
	Set(ctx context.Context, update preferences.Update) error
}

type preferencesFlags struct {
	remote bool
	store  PreferencesStore
}

// open returns the configured store, or the background's endpoint with --remote.
func (f *preferencesFlags) open(ctx context.Context) (preferencesAccess, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	if f.remote {
		return preferences.NewRemote(cfg.Background.URL), func() {}, nil
	}
	service, closer, err := newPreferencesService(ctx, cfg, resolveStore(f.store, cfg))
	if err != nil {
		return nil, nil, err
	}
	return service, func() { _ = closer.Close() }, nil
}

func newPreferencesCommand() *cobra.Command {
	var flags preferencesFlags
	command := &cobra.Command{
		Use:     "prefs",
		Aliases: []string{"preferences"},
		Short:   "Read or change preferences",
	}
	command.PersistentFlags().BoolVar(&flags.remote, "remote", false, "read and write through the running background process")
	addStoreFlag(command.PersistentFlags(), &flags.store)

	command.AddCommand(&cobra.Command{
		Use:   "get",
		Short: "Print the preferences merged over their defaults",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			access, done, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			prefs, err := access.Get(cmd.Context())
			if err != nil {
				return fmt.Errorf("preferences.Get > %w", err)
			}
			out, err := yaml.Marshal(prefs)
			if err != nil {
				return fmt.Errorf("yaml.Marshal > %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	})

	var (
		maxDefinitions  int
		arxivMaxResults int
		enableOverlay   bool
	)
	setCommand := &cobra.Command{
		Use:   "set",
		Short: "Change only the given preferences; out-of-range numbers are clamped",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			var update preferences.Update
			changed := cmd.Flags().Changed
			if changed("max-definitions") || changed("arxiv-max-results") {
				clamped := preferences.Preferences{
					MaxDefinitions:  maxDefinitions,
					ArxivMaxResults: arxivMaxResults,
				}.Clamp()
				if changed("max-definitions") {
					update.MaxDefinitions = &clamped.MaxDefinitions
				}
				if changed("arxiv-max-results") {
					update.ArxivMaxResults = &clamped.ArxivMaxResults
				}
			}
			if changed("enable-overlay-by-default") {
				update.EnableOverlayByDefault = &enableOverlay
			}
			if update == (preferences.Update{}) {
				return fmt.Errorf("nothing to set; pass at least one of --max-definitions, --arxiv-max-results, --enable-overlay-by-default")
			}

			access, done, err := flags.open(cmd.Context())
			if err != nil {
				return err
			}
			defer done()

			if err := access.Set(cmd.Context(), update); err != nil {
				return fmt.Errorf("preferences.Set > %w", err)
			}
			prefs, err := access.Get(cmd.Context())
			if err != nil {
				return fmt.Errorf("preferences.Get > %w", err)
			}
			out, err := yaml.Marshal(prefs)
			if err != nil {
				return fmt.Errorf("yaml.Marshal > %w", err)
			}
			_, err = cmd.OutOrStdout().Write(out)
			return err
		},
	}
	setCommand.Flags().IntVar(&maxDefinitions, "max-definitions", preferences.Defaults().MaxDefinitions,
		fmt.Sprintf("meanings shown per word [%d-%d]", preferences.MinMaxDefinitions, preferences.MaxMaxDefinitions))
	setCommand.Flags().IntVar(&arxivMaxResults, "arxiv-max-results", preferences.Defaults().ArxivMaxResults,
		fmt.Sprintf("arXiv results requested [%d-%d]", preferences.MinArxivMaxResults, preferences.MaxArxivMaxResults))
	setCommand.Flags().BoolVar(&enableOverlay, "enable-overlay-by-default", preferences.Defaults().EnableOverlayByDefault,
		"show the overlay when a page opens")
	command.AddCommand(setCommand)

	return command
}
