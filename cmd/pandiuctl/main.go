package main

import (
	"os"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "pandiuctl",
	Short: "Manage the PanDiU academic records API",
	Long: `Manage the PanDiU academic records API.

Configuration is read from the environment (and .env in development).

Example:
  pandiuctl migrate
  pandiuctl seed --file seeds.yaml
  pandiuctl serve`,
	SilenceUsage: true,
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
