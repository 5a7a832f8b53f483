package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raianasancho/gcsga/internal/engine"
	"github.com/raianasancho/gcsga/internal/game/tooltip"
	"github.com/raianasancho/gcsga/internal/game/weapon"
)

var blockCmd = &cobra.Command{
	Use:   "block <character.yaml> <owner/usage>",
	Short: "Resolve a weapon's Block value",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDefense(cmd, args, weapon.BlockTrait)
	},
}

var parryCmd = &cobra.Command{
	Use:   "parry <character.yaml> <owner/usage>",
	Short: "Resolve a weapon's Parry value",
	Long: `Resolve a weapon's Parry value from its best default.

  Example: parry knight.yaml Broadsword/Swung`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDefense(cmd, args, weapon.ParryTrait)
	},
}

func runDefense(cmd *cobra.Command, args []string, kind weapon.TraitKind) error {
	e, err := engine.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer e.Close()

	c, err := e.LoadCharacter(args[0])
	if err != nil {
		return err
	}
	owner, usage, _ := strings.Cut(args[1], "/")
	w, ok := c.Weapon(strings.TrimSpace(owner), strings.TrimSpace(usage))
	if !ok {
		return fmt.Errorf("%w: weapon %q", engine.ErrNoTarget, args[1])
	}
	tt := tooltip.New()
	trait := weapon.Resolve(kind, w, c, tt)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s: %s\n", w.FormattedName(), trait)
	if tt.Len() > 0 {
		fmt.Fprintln(out, tt)
	}
	return nil
}
