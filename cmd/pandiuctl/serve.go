package main

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/sahilchouksey/pandiu-api/app"
)

// serveCmd represents the serve command
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API.

Migrates the schema, then listens on PORT until SIGINT or SIGTERM.

Example:
  pandiuctl serve
  pandiuctl serve --port 9000`,
	RunE: func(cmd *cobra.Command, args []string) error {
		env, err := app.LoadEnvironment()
		if err != nil {
			return err
		}
		if port, _ := cmd.Flags().GetInt("port"); port > 0 {
			env.PORT = port
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return app.Serve(ctx, env)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
	serveCmd.Flags().IntP("port", "p", 0, "Listen port (overrides PORT)")
}
