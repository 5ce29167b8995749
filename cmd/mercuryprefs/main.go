package main

import (
	"os"

	"github.com/spf13/cobra"
)

var version = "dev"

var (
	noColor      bool
	settingsFlag string
	logLevelFlag string
)

var rootCmd = &cobra.Command{
	Use:   "mercuryprefs",
	Short: "Inspect and edit MercuryTrade overlay preferences",
	Long: `mercuryprefs reads and writes the overlay's settings file: scalar
preferences, quick-reply buttons and window layouts. It can also serve a
local HTTP API, push change events and keep a history of every write.`,
	Version:       version,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if os.Getenv("NO_COLOR") != "" {
			noColor = true
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable colored output")
	rootCmd.PersistentFlags().StringVar(&settingsFlag, "settings", "", "settings file (default from config settings.path)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "log level: debug, info, warn, error (default from config log.level)")

	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(getCmd)
	rootCmd.AddCommand(setCmd)
	rootCmd.AddCommand(keysCmd)
	rootCmd.AddCommand(buttonsCmd)
	rootCmd.AddCommand(framesCmd)
	rootCmd.AddCommand(gamePathCmd)
	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(serveCmd)
	rootCmd.AddCommand(stopCmd)
	rootCmd.AddCommand(statusCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		printError("%v", err)
		os.Exit(1)
	}
}

