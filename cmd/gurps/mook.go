package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/raianasancho/gcsga/internal/engine"
	"github.com/raianasancho/gcsga/internal/game/mook"
)

var (
	mookName  string
	mookBuild bool
)

var mookCmd = &cobra.Command{
	Use:   "mook <statblock.txt>",
	Short: "Parse a stat block",
	Long: `Parse a plain-text stat block into structured YAML. Lines the parser
could not place are reported on stderr.

With --build the parsed record is turned into a complete character file.

  Example: mook orc.txt --build --name "Orc Warrior" > orc.yaml`,
	Args: cobra.ExactArgs(1),
	RunE: runMook,
}

func init() {
	mookCmd.Flags().StringVar(&mookName, "name", "", "character name, defaulting to the stat block's first line")
	mookCmd.Flags().BoolVar(&mookBuild, "build", false, "emit a character file instead of the parsed record")
}

func runMook(cmd *cobra.Command, args []string) error {
	text, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("reading stat block: %w", err)
	}
	record := mook.NewParser(logger).ParseStatBlock(string(text))
	for _, line := range record.Catchall {
		fmt.Fprintf(cmd.ErrOrStderr(), "unparsed: %s\n", line)
	}

	var out any = record
	if mookBuild {
		e, err := engine.New(cmd.Context(), cfg, logger)
		if err != nil {
			return err
		}
		defer e.Close()
		c, err := record.Character(mookName, e.Rules)
		if err != nil {
			return err
		}
		out = c
	}

	enc := yaml.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent(2)
	if err := enc.Encode(out); err != nil {
		return fmt.Errorf("encoding yaml: %w", err)
	}
	return enc.Close()
}
