package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/GriffinCanCode/trichroma/internal/config"
	"github.com/GriffinCanCode/trichroma/internal/logging"
)

// version is set at build time via -ldflags.
var version = "dev"

// cfg carries the environment defaults; flags override per invocation.
var cfg = config.LoadOrDefault()

var (
	rootChannel   string
	rootLogLevel  string
	rootLogFormat string
)

var rootCmd = &cobra.Command{
	Use:   "trichroma",
	Short: "Randomized distributed search for graph 3-colorings",
	Long: "Trichroma hunts for a 3-coloring of a graph by throwing random\n" +
		"colorings at it from many generator processes. The generators publish\n" +
		"their conflicting edge sets over a shared-memory channel; a supervisor\n" +
		"keeps the smallest set seen. An empty set proves the graph 3-colorable.",
	CompletionOptions: cobra.CompletionOptions{
		HiddenDefaultCmd: true,
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&rootChannel, "channel", cfg.Channel.Name, "Shared memory channel name")
	rootCmd.PersistentFlags().StringVar(&rootLogLevel, "log-level", cfg.Logging.Level, "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&rootLogFormat, "log-format", cfg.Logging.Format, "Log format (console, json)")

	rootCmd.AddCommand(superviseCmd)
	rootCmd.AddCommand(generateCmd)
	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(cleanCmd)
	rootCmd.Version = version
}

// newLogger builds the process logger from the root flags. The console
// format takes the interactive profile; anything else starts from the
// production one, keeping its sampling.
func newLogger() (*logging.Logger, error) {
	lc := logging.ConsoleConfig()
	if rootLogFormat != "console" {
		lc = logging.DefaultConfig()
		lc.Format = rootLogFormat
	}
	lc.Level = rootLogLevel
	return logging.New(lc)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
