package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/raianasancho/gcsga/internal/engine"
)

var (
	levelPoints int
	levelTarget int
)

var levelCmd = &cobra.Command{
	Use:   "level <character.yaml> <skill>",
	Short: "Show or solve a skill or spell level",
	Long: `Print the level a skill or spell reaches with its invested points.

With --points the level is computed for that many points instead. With
--target the points needed to reach that level are solved for.

  Example: level knight.yaml Broadsword --target 16`,
	Args: cobra.ExactArgs(2),
	RunE: runLevel,
}

func init() {
	levelCmd.Flags().IntVar(&levelPoints, "points", 0, "points to compute the level for")
	levelCmd.Flags().IntVar(&levelTarget, "target", 0, "level to solve points for")
}

func runLevel(cmd *cobra.Command, args []string) error {
	e, err := engine.New(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer e.Close()

	c, err := e.LoadCharacter(args[0])
	if err != nil {
		return err
	}
	s, ok := c.Skill(args[1])
	if !ok {
		return fmt.Errorf("%w: %q", engine.ErrNoTarget, args[1])
	}

	switch {
	case cmd.Flags().Changed("target"):
		s.SetLevel(c, levelTarget)
	case cmd.Flags().Changed("points"):
		s.Points = levelPoints
		s.UpdateLevel(c)
	}

	lvl := s.CalculateLevel(c)
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "%s (%s/%s)\n", s.FormattedName(), c.AttributeName(s.Attribute), s.Difficulty)
	fmt.Fprintf(out, "  points:   %d\n", s.Points)
	fmt.Fprintf(out, "  level:    %s\n", lvl)
	fmt.Fprintf(out, "  relative: %s\n", s.RelativeLevelText(c))
	if cmd.Flags().Changed("target") && !lvl.Is(levelTarget) {
		fmt.Fprintf(out, "  level %d is not reachable\n", levelTarget)
	}
	if lvl.Tooltip != nil && lvl.Tooltip.Len() > 0 {
		fmt.Fprintf(out, "  bonuses:  %s\n", lvl.Tooltip)
	}
	return nil
}
