package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "fsb",
	Short: "TG-FileStreamBot - byte-range streaming gateway",
	Long: `TG-FileStreamBot serves large remote objects as HTTP byte-range
responses over a pool of chunk-fetch backends.

It provides:
  - Direct download and inline video links for stored objects
  - Full Range request support for seeking and resumable downloads
  - Least-loaded balancing across multiple backend clients
  - A status endpoint reporting per-backend load`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "config.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
