package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/cory-johannsen/creatures/internal/frontend/console"
	"github.com/cory-johannsen/creatures/internal/game/session"
	"github.com/cory-johannsen/creatures/internal/game/trainer"
	"github.com/cory-johannsen/creatures/internal/savegame"
)

// Version is reported by --version.
const Version = "0.1.0"

type rootOptions struct {
	configPath string
	slot       string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:           "creatures",
		Short:         "Catch, train and battle creatures",
		Long:          "creatures is a terminal creature-collection game with a persistent trainer save.",
		Version:       Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	cmd.SetVersionTemplate("{{.Name}} v{{.Version}}\n")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to configuration file")
	cmd.PersistentFlags().StringVar(&opts.slot, "slot", "", "save slot (overrides storage.slot)")

	cmd.AddCommand(
		newPlayCmd(opts),
		newStatusCmd(opts),
		newPokedexCmd(opts),
		newHealCmd(opts),
		newNewGameCmd(opts),
		newResetCmd(opts),
	)
	return cmd
}

// withApp opens the app for the duration of fn.
func withApp(ctx context.Context, opts *rootOptions, fn func(*app) error) error {
	a, err := openApp(ctx, opts.configPath, opts.slot)
	if err != nil {
		return err
	}
	defer a.Close()
	return fn(a)
}

// withSession opens the app and loads the configured slot for fn.
func withSession(ctx context.Context, opts *rootOptions, fn func(*app, *session.Session) error) error {
	return withApp(ctx, opts, func(a *app) error {
		sess, err := a.openSession(ctx)
		if err != nil {
			return err
		}
		return fn(a, sess)
	})
}

func newPlayCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "play",
		Short: "Start the interactive game",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withSession(ctx, opts, func(a *app, sess *session.Session) error {
				ui := console.New(sess, cmd.InOrStdin(), cmd.OutOrStdout(), a.logger)
				return ui.Run(ctx)
			})
		},
	}
}

func newStatusCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Show trainer profile and roster",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(a *app, sess *session.Session) error {
				writeStatus(cmd.OutOrStdout(), sess.Trainer)
				return nil
			})
		},
	}
}

func writeStatus(w io.Writer, t *trainer.Trainer) {
	th := console.NewTheme(w)
	fmt.Fprintln(w, th.Heading("PROFILE"))
	fmt.Fprintln(w, th.LabelValue("Name", t.Name))
	fmt.Fprintln(w, th.LabelValue("Money", fmt.Sprintf("$%d", t.Money)))
	fmt.Fprintln(w, th.LabelValue("Wins", t.Wins))
	fmt.Fprintln(w, th.LabelValue("Pokedex", fmt.Sprintf("%d species", t.Pokedex.Len())))
	fmt.Fprintln(w, th.Heading("ROSTER"))
	if len(t.Roster) == 0 {
		fmt.Fprintln(w, th.Muted.Render("No creatures yet."))
	}
	for i, c := range t.Roster {
		fmt.Fprintf(w, "%d) %s (%s) Lv%d | %s\n", i+1, c.Nickname, c.Species, c.Level, th.HPBar(c))
	}
	fmt.Fprintln(w, th.Heading("BAG"))
	if len(t.Items) == 0 {
		fmt.Fprintln(w, th.Muted.Render("No items."))
	}
	for _, name := range t.Items.Names() {
		fmt.Fprintf(w, "- %s: %d\n", name, t.Items.Count(name))
	}
}

func newPokedexCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "pokedex",
		Short: "List discovered species",
		RunE: func(cmd *cobra.Command, args []string) error {
			return withSession(cmd.Context(), opts, func(a *app, sess *session.Session) error {
				w := cmd.OutOrStdout()
				th := console.NewTheme(w)
				fmt.Fprintln(w, th.Heading("POKEDEX"))
				known := sess.Trainer.Pokedex.Species()
				if len(known) == 0 {
					fmt.Fprintln(w, th.Muted.Render("You have not registered any species yet."))
					return nil
				}
				for _, name := range known {
					if !sess.Catalog.Has(name) {
						fmt.Fprintf(w, "- %s | Type: ? | Base HP: ?\n", name)
						continue
					}
					sp := sess.Catalog.Lookup(name)
					fmt.Fprintf(w, "- %s | Type: %s | Base HP: %d\n", sp.Name, sp.Attribute, sp.BaseHP)
				}
				return nil
			})
		},
	}
}

func newHealCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "heal",
		Short: "Restore every creature's HP and save",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withSession(ctx, opts, func(a *app, sess *session.Session) error {
				sess.Heal()
				if err := sess.Save(ctx); err != nil {
					return err
				}
				fmt.Fprintln(cmd.OutOrStdout(), "All creatures are fully healed.")
				return nil
			})
		},
	}
}

func newNewGameCmd(opts *rootOptions) *cobra.Command {
	var name string
	cmd := &cobra.Command{
		Use:   "new",
		Short: "Start a new game in the slot, replacing any existing save",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, opts, func(a *app) error {
				t := trainer.NewGame(name)
				if err := a.store.Save(ctx, a.slot, t); err != nil {
					return fmt.Errorf("saving new game: %w", err)
				}
				a.logger.Info("new game started", zap.String("slot", a.slot), zap.String("trainer", t.Name))
				fmt.Fprintf(cmd.OutOrStdout(), "New game started for %s with $%d.\n", t.Name, t.Money)
				return nil
			})
		},
	}
	cmd.Flags().StringVar(&name, "name", trainer.DefaultName, "trainer name")
	return cmd
}

func newResetCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "reset",
		Short: "Delete the save in the slot",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			return withApp(ctx, opts, func(a *app) error {
				d, ok := a.store.(savegame.Deleter)
				if !ok {
					return errors.New("storage backend cannot delete saves")
				}
				if err := d.Delete(ctx, a.slot); err != nil {
					return fmt.Errorf("deleting save: %w", err)
				}
				fmt.Fprintf(cmd.OutOrStdout(), "Save %q deleted.\n", a.slot)
				return nil
			})
		},
	}
}
