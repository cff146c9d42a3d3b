// Package cli holds the myquran command tree.
package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/MrSnakeDoc/myquran/internal/config"
	"github.com/MrSnakeDoc/myquran/internal/logger"
)

var cfgFile string

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "myquran",
	Short: "myquran - Quran reading service with local bookmarks",
	Long: `myquran serves a JSON API to browse the Quran by chapter, juz and page,
search it, play verse recitations in sequence and keep bookmarks.

Content comes from api.quran.com and equran.id. Bookmarks stay on this
machine in sqlite, redis or memory.

Configuration is read from MYQURAN_* environment variables, then from a
.env file (MYQURAN_ENV_FILE), then from the YAML file given by --config or
MYQURAN_CONFIG_FILE.`,
	SilenceErrors: true,
	SilenceUsage:  true,
}

// Execute runs the root command
func Execute() error {
	return rootCmd.ExecuteContext(context.Background())
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "YAML config file (default: $MYQURAN_CONFIG_FILE)")
}

// loadConfig resolves the configuration and the logger of a command.
func loadConfig() (*config.Config, logger.Logger) {
	var cfg *config.Config
	if cfgFile != "" {
		cfg = config.LoadFile(cfgFile)
	} else {
		cfg = config.Load()
	}
	return cfg, logger.New(cfg.LogLevel, cfg.PrettyLog)
}
