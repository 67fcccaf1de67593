// Package main implements the quad CLI.
package main

import (
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:          "quad",
	Short:        "quadrant - todos sorted into the four Eisenhower quadrants",
	SilenceUsage: true,
}

var (
	rootConfigPath string
	rootEphemeral  bool
)

func init() {
	rootCmd.PersistentFlags().StringVar(&rootConfigPath, "config", "", "Config file (default ~/.config/quadrant/config.toml)")
	rootCmd.PersistentFlags().BoolVar(&rootEphemeral, "ephemeral", false, "Keep data in memory for this invocation only")
}
