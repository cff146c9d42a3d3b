package cli

import (
	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/myquran/internal/app"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the HTTP API",
	Long: `Run the HTTP API until SIGINT or SIGTERM.

The chapter catalogue is loaded at start and refreshed periodically. Idle
player sessions are collected in the background.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log := loadConfig()
		a, err := app.New(cfg, log)
		if err != nil {
			return err
		}
		return a.Run()
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
