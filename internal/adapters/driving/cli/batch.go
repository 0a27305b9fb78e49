package cli

import (
	"errors"
	"fmt"
	"sort"

	"github.com/fatih/color"
	"github.com/schollz/progressbar/v3"
	"github.com/spf13/cobra"

	"github.com/finwatch/findetect/internal/core/ports/driving"
)

var (
	batchOpts   requestOpts
	batchPrefix string
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Run fin detection on every JPEG in a container",
	Long: `Lists the source container and runs the detection pipeline over every
JPEG blob, optionally restricted to a path prefix. Per-file failures
are reported at the end without aborting the batch.`,
	RunE: runBatch,
}

func init() {
	batchOpts.addFlags(batchCmd)
	batchCmd.Flags().StringVar(&batchPrefix, "prefix", "", "only process blobs under this path prefix")
	rootCmd.AddCommand(batchCmd)
}

func runBatch(cmd *cobra.Command, _ []string) error {
	if processor == nil {
		return errors.New("processor not configured")
	}

	req := batchOpts.request(cmd, "")

	var bar *progressbar.ProgressBar
	result, err := processor.ProcessBatch(cmd.Context(), req, batchPrefix, func(p driving.BatchProgress) {
		if bar == nil {
			bar = progressbar.NewOptions(p.Total,
				progressbar.OptionSetDescription("Processing"),
				progressbar.OptionSetWriter(cmd.ErrOrStderr()),
				progressbar.OptionShowCount(),
				progressbar.OptionClearOnFinish(),
			)
		}
		_ = bar.Add(1)
	})
	if err != nil {
		return fmt.Errorf("batch failed: %w", err)
	}

	printBatchSummary(cmd, result)
	return nil
}

func printBatchSummary(cmd *cobra.Command, result *driving.BatchResult) {
	green := color.New(color.FgGreen).SprintFunc()
	yellow := color.New(color.FgYellow).SprintFunc()
	red := color.New(color.FgRed).SprintFunc()

	cmd.Printf("%s %d processed, %s %d skipped, %s %d failed\n",
		green("✓"), result.Processed,
		yellow("-"), result.Skipped,
		red("✗"), len(result.Failed))

	if len(result.Failed) == 0 {
		return
	}

	paths := make([]string, 0, len(result.Failed))
	for path := range result.Failed {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	cmd.Println("\nFailures:")
	for _, path := range paths {
		cmd.Printf("  %s: %s\n", path, result.Failed[path])
	}
}
