package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/raianasancho/gcsga/internal/game/equipment"
	"github.com/raianasancho/gcsga/internal/game/fxp"
	"github.com/raianasancho/gcsga/internal/game/measure"
)

var weightForSkills bool

var weightCmd = &cobra.Command{
	Use:   "weight <equipment.yaml>",
	Short: "Total the weight of an equipment list",
	Long: `Print the extended weight of every item in an equipment file, containers
included, after weight modifiers and contained weight reductions.

  Example: weight gear.yaml --for-skills`,
	Args: cobra.ExactArgs(1),
	RunE: runWeight,
}

var valueCmd = &cobra.Command{
	Use:   "value <equipment.yaml>",
	Short: "Total the value of an equipment list",
	Long: `Print the extended value of every item in an equipment file, containers
included, after cost modifiers.`,
	Args: cobra.ExactArgs(1),
	RunE: runValue,
}

func init() {
	weightCmd.Flags().BoolVar(&weightForSkills, "for-skills", false, "skip equipped items whose weight is ignored for skills")
}

func runWeight(cmd *cobra.Command, args []string) error {
	items, err := equipment.LoadItems(args[0])
	if err != nil {
		return err
	}
	units := measure.ParseWeightUnit(cfg.Rules.WeightUnits)
	var total measure.Weight
	printTree(cmd.OutOrStdout(), items, 0, func(it *equipment.Item) string {
		return it.ExtendedWeight(weightForSkills, units).Format(units)
	})
	for _, it := range items {
		total += it.ExtendedWeight(weightForSkills, units)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "total: %s\n", total.Format(units))
	return nil
}

func runValue(cmd *cobra.Command, args []string) error {
	items, err := equipment.LoadItems(args[0])
	if err != nil {
		return err
	}
	var total fxp.Int
	printTree(cmd.OutOrStdout(), items, 0, func(it *equipment.Item) string {
		return it.ExtendedValue().String()
	})
	for _, it := range items {
		total += it.ExtendedValue()
	}
	fmt.Fprintf(cmd.OutOrStdout(), "total: %s\n", total)
	return nil
}

func printTree(w io.Writer, items []*equipment.Item, depth int, amount func(*equipment.Item) string) {
	for _, it := range items {
		fmt.Fprintf(w, "%s%d× %s: %s\n", strings.Repeat("  ", depth), it.Quantity, it.Name, amount(it))
		printTree(w, it.Children, depth+1, amount)
	}
}
