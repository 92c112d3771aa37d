package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/sahilchouksey/pandiu-api/app"
)

// seedCmd represents the seed command
var seedCmd = &cobra.Command{
	Use:   "seed",
	Short: "Load reference data",
	Long: `Load reference data: faculties with their programs, user types,
publication types, keywords and research groups.

Rows are matched by name, so seeding twice creates nothing new. Without
--file the bundled reference data is used.

Example:
  pandiuctl seed
  pandiuctl seed --file ./seeds/local.yaml`,
	RunE: func(cmd *cobra.Command, args []string) error {
		path, _ := cmd.Flags().GetString("file")

		env, err := app.LoadEnvironment()
		if err != nil {
			return err
		}
		if err := app.Seed(env, path); err != nil {
			return fmt.Errorf("seeding failed: %w", err)
		}
		fmt.Fprintln(cmd.OutOrStdout(), "Seeding completed")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(seedCmd)
	seedCmd.Flags().StringP("file", "f", "", "YAML seed file (default: bundled reference data)")
}
