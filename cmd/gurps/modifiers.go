package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/raianasancho/gcsga/internal/engine"
	"github.com/raianasancho/gcsga/internal/game/modifier"
	"github.com/raianasancho/gcsga/internal/game/roll"
)

var (
	searchLimit int
	catalogPath string
)

var modifiersCmd = &cobra.Command{
	Use:   "modifiers",
	Short: "Search the modifier catalog and manage modifier stacks",
}

var modifiersSearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Fuzzy search the modifier catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		catalog := modifier.StandardCatalog()
		if catalogPath != "" {
			var err error
			if catalog, err = modifier.LoadCatalog(catalogPath); err != nil {
				return err
			}
		}
		for _, m := range catalog.Search(args[0], searchLimit) {
			fmt.Fprintf(cmd.OutOrStdout(), "%+d\t%s\t%.2f\n", m.Modifier.Modifier, m.Modifier.Name, m.Score)
		}
		return nil
	},
}

var modifiersStackCmd = &cobra.Command{
	Use:   "stack",
	Short: "Show the user's pending modifiers",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(cmd, func(e *engine.Engine) error {
			stack, err := e.Store.Snapshot(cmd.Context(), userID)
			if err != nil {
				return err
			}
			sticky, err := e.Store.Sticky(cmd.Context(), userID)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "sticky: %t\n", sticky)
			for _, m := range stack {
				fmt.Fprintf(cmd.OutOrStdout(), "%+d\t%s\n", m.Modifier, m.Name)
			}
			return nil
		})
	},
}

var modifiersPushCmd = &cobra.Command{
	Use:   "push <modifier>",
	Short: `Push a modifier such as "-2 darkness" onto the user's stack`,
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return withStore(cmd, func(e *engine.Engine) error {
			_, err := e.Roll(cmd.Context(), nil, engine.Target{Type: roll.Modifier, Name: args[0], UserID: userID})
			return err
		})
	},
}

var modifiersClearCmd = &cobra.Command{
	Use:   "clear",
	Short: "Empty the user's stack, sticky or not",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		return withStore(cmd, func(e *engine.Engine) error {
			return e.Store.Clear(cmd.Context(), userID)
		})
	},
}

var modifiersStickyCmd = &cobra.Command{
	Use:   "sticky <true|false>",
	Short: "Keep the user's stack across rolls",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		on, err := strconv.ParseBool(args[0])
		if err != nil {
			return fmt.Errorf("sticky: %w", err)
		}
		return withStore(cmd, func(e *engine.Engine) error {
			return e.Store.SetSticky(cmd.Context(), userID, on)
		})
	},
}

func init() {
	modifiersSearchCmd.Flags().IntVar(&searchLimit, "limit", 10, "maximum matches, 0 for all")
	modifiersSearchCmd.Flags().StringVar(&catalogPath, "catalog", "", "catalog YAML file replacing the built-in one")

	modifiersCmd.AddCommand(modifiersSearchCmd)
	modifiersCmd.AddCommand(modifiersStackCmd)
	modifiersCmd.AddCommand(modifiersPushCmd)
	modifiersCmd.AddCommand(modifiersClearCmd)
	modifiersCmd.AddCommand(modifiersStickyCmd)
}

// withStore runs fn against an engine. Stacks only outlive the command when
// redis is enabled.
func withStore(cmd *cobra.Command, fn func(*engine.Engine) error) error {
	e, err := engine.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer e.Close()
	if !cfg.Redis.Enabled {
		logger.Warn("redis disabled; modifier stack is discarded on exit")
	}
	return fn(e)
}
