package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raianasancho/gcsga/internal/engine"
	"github.com/raianasancho/gcsga/internal/game/character"
	"github.com/raianasancho/gcsga/internal/game/dice"
	"github.com/raianasancho/gcsga/internal/game/roll"
)

var (
	rollCharacter string
	rollFormula   string
	rollModifiers []string
	rollHidden    bool
	rollTimes     int
	rollSeed      uint64
)

var rollCmd = &cobra.Command{
	Use:   "roll <type> [name]",
	Short: "Resolve a roll",
	Long: `Resolve a roll of the given type and print the result as JSON.

Types: attribute, skill, skill_rsl, spell, spell_rsl, control_roll, attack,
parry, block, damage, location, generic, modifier.

The name is an attribute id, a skill or spell name, a self-control trait,
"Owner/Usage" for weapon rolls, or modifier text for modifier requests.

  Example: roll --character knight.yaml skill Broadsword --modifier "+2 aim"
  Example: roll generic --formula 2d6+1`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runRoll,
}

func init() {
	rollCmd.Flags().StringVarP(&rollCharacter, "character", "c", "", "character YAML file")
	rollCmd.Flags().StringVar(&rollFormula, "formula", "", "dice formula overriding the configured one")
	rollCmd.Flags().StringArrayVarP(&rollModifiers, "modifier", "m", nil, `modifier to push before rolling, e.g. "-2 darkness" (repeatable)`)
	rollCmd.Flags().BoolVar(&rollHidden, "hidden", false, "mark the result hidden")
	rollCmd.Flags().IntVar(&rollTimes, "times", 0, "roll damage or generic formulas this many times")
	rollCmd.Flags().Uint64Var(&rollSeed, "seed", 0, "seed for reproducible dice")
}

func runRoll(cmd *cobra.Command, args []string) error {
	t, err := roll.ParseType(args[0])
	if err != nil {
		return err
	}
	target := engine.Target{
		Type:    t,
		Formula: rollFormula,
		UserID:  userID,
		Hidden:  rollHidden,
		Times:   rollTimes,
	}
	if len(args) > 1 {
		target.Name = args[1]
	}

	var opts []engine.Option
	if cmd.Flags().Changed("seed") {
		opts = append(opts, engine.WithDiceSource(dice.NewSeededSource(rollSeed)))
	}
	ctx := cmd.Context()
	e, err := engine.New(ctx, cfg, logger, opts...)
	if err != nil {
		return err
	}
	defer e.Close()

	var c *character.Character
	if rollCharacter != "" {
		if c, err = e.LoadCharacter(rollCharacter); err != nil {
			return err
		}
	}

	result, err := e.Roll(ctx, c, target, rollModifiers...)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if result == nil {
		stack, err := e.Store.Snapshot(ctx, userID)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "modifier stack for %s:\n", userID)
		return printJSON(out, stack)
	}
	if err := printJSON(out, result); err != nil {
		return err
	}
	summary, err := e.MetricsSummary(ctx)
	if err != nil {
		return err
	}
	if len(summary) > 0 {
		return printJSON(cmd.ErrOrStderr(), summary)
	}
	return nil
}
