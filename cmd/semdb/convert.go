package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"

	"github.com/jward/semdb"
	"github.com/spf13/cobra"
)

var (
	flagTarget     string
	flagCacheDir   string
	flagWorkers    int
	flagSerial     bool
	flagNoBuiltins bool
	flagVerbose    bool
)

var convertCmd = &cobra.Command{
	Use:   "convert [entries...]",
	Short: "Convert classpath entries into semantic database payloads",
	Long:  "Converts each jar or class directory into a payload (jars are cached by content fingerprint) and prints the new classpath, one payload path per line.",
	Args:  cobra.ArbitraryArgs,
	RunE:  runConvert,
}

func init() {
	convertCmd.Flags().StringVar(&flagTarget, "target", ".semdb", "directory for non-cacheable payloads")
	convertCmd.Flags().StringVar(&flagCacheDir, "cache-dir", "", "payload cache location (default: per-OS cache dir)")
	convertCmd.Flags().IntVar(&flagWorkers, "workers", 0, "worker count for parallel conversion (default: CPU count)")
	convertCmd.Flags().BoolVar(&flagSerial, "serial", false, "convert entries one at a time")
	convertCmd.Flags().BoolVar(&flagNoBuiltins, "no-builtins", false, "do not append the builtins payload")
	convertCmd.Flags().BoolVar(&flagVerbose, "verbose", false, "report per-entry progress to stderr")
}

func runConvert(cmd *cobra.Command, args []string) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	opts := []semdb.Option{
		semdb.WithTargetDir(flagTarget),
		semdb.WithParallel(!flagSerial),
		semdb.WithBuiltins(!flagNoBuiltins),
		semdb.WithVerbose(flagVerbose),
	}
	if flagCacheDir != "" {
		opts = append(opts, semdb.WithCacheDir(flagCacheDir))
	}
	if flagWorkers > 0 {
		opts = append(opts, semdb.WithWorkers(flagWorkers))
	}

	conv, err := semdb.New(opts...)
	if err != nil {
		return err
	}

	result, err := conv.Convert(ctx, args)
	if result != nil {
		for _, path := range result.Classpath {
			fmt.Fprintln(os.Stdout, path)
		}
	}

	var convErr *semdb.ConversionError
	switch {
	case errors.As(err, &convErr):
		for _, entryErr := range convErr.Entries {
			fmt.Fprintf(os.Stderr, "semdb: %v\n", entryErr)
		}
		fmt.Fprintf(os.Stderr, "Converted %d of %d entries, %d failed\n",
			len(args)-len(convErr.Entries), len(args), len(convErr.Entries))
		return fmt.Errorf("%d entries failed", len(convErr.Entries))
	case err != nil:
		return err
	}

	fmt.Fprintf(os.Stderr, "Converted %d entries\n", len(args))
	return nil
}
