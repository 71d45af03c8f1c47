package main

import (
	"fmt"
	"os"

	"github.com/jward/semdb"
	"github.com/spf13/cobra"
)

var (
	flagMode    string
	flagInclude []string
	flagExclude []string
)

var printCmd = &cobra.Command{
	Use:   "print [paths...]",
	Short: "Locate payloads and render them as text",
	Long:  "Discovers payloads under the given files, directories and archives, then renders each document. A payload that fails to decode is reported and the batch continues.",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runPrint,
}

func init() {
	printCmd.Flags().StringVar(&flagMode, "mode", "condensed", "output mode: condensed|raw")
	printCmd.Flags().StringSliceVar(&flagInclude, "include", nil, "glob patterns payloads must match (relative to each dir/archive)")
	printCmd.Flags().StringSliceVar(&flagExclude, "exclude", nil, "glob patterns to skip")
}

func runPrint(cmd *cobra.Command, args []string) error {
	mode, err := semdb.ParseRenderMode(flagMode)
	if err != nil {
		return err
	}

	opts := semdb.LocateOptions{Include: flagInclude, Exclude: flagExclude}
	rendered, failed := 0, 0
	found, err := semdb.Locate(args, opts, func(p semdb.Payload) error {
		docs, err := semdb.Unmarshal(p.Data)
		if err != nil {
			// Fatal to this payload only; the batch continues. Version
			// mismatches are surfaced the same way, never skipped.
			fmt.Fprintf(os.Stderr, "semdb: %s: %v\n", p.Source, err)
			failed++
			return nil
		}
		for _, doc := range docs {
			fmt.Fprintf(os.Stdout, "%s:\n", p.Source)
			if err := semdb.Render(os.Stdout, doc, mode); err != nil {
				return err
			}
			fmt.Fprintln(os.Stdout)
		}
		rendered++
		return nil
	})
	if err != nil {
		return err
	}

	if found == 0 {
		fmt.Fprintf(os.Stderr, "No payloads found under %d input(s)\n", len(args))
		return nil
	}
	fmt.Fprintf(os.Stderr, "Rendered %d of %d payloads\n", rendered, found)
	if failed > 0 {
		return fmt.Errorf("%d payloads failed to decode", failed)
	}
	return nil
}
