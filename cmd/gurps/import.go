package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/raianasancho/gcsga/internal/importer"
)

var importCmd = &cobra.Command{
	Use:   "import <source> <output.yaml>",
	Short: "Convert a GCS library to a YAML library",
	Long: `Convert a GCS library file, or a directory of them, into one YAML library
of traits, skills, spells, equipment and notes.

  Example: import ~/gcs/Library/Basic\ Set out/basic.yaml`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()
		imp := importer.New(importer.NewFileSource(), logger)
		if err := imp.Run(args[0], args[1]); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "import complete in %s\n", time.Since(start).Round(time.Millisecond))
		return nil
	},
}
