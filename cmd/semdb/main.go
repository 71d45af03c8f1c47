package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:           "semdb",
	Short:         "Produce and inspect semantic database payloads",
	Long:          "semdb converts dependency classpaths (jars, class directories) into semantic database payloads, caches results by content fingerprint, and prints payloads as condensed summaries or raw schema dumps.",
	SilenceErrors: true,
	SilenceUsage:  true,
	// No Run — prints help by default.
}

func init() {
	rootCmd.AddCommand(convertCmd)
	rootCmd.AddCommand(printCmd)
}
