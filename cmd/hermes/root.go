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
	Use:   "hermes",
	Short: "Hermes - rate limited AI chat completion proxy",
	Long: `Hermes is an HTTP proxy for AI chat completion requests.

It keeps the upstream API key on the server, applies server-side defaults
for model, max_tokens, and temperature, and enforces a per-client rate
limit so a single caller cannot exhaust the shared quota.

Clients POST to /v1/chat/completions with a messages array and receive
{"content": ..., "remaining": ...} back, with no credentials involved.`,
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
