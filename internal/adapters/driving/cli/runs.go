package cli

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/finwatch/findetect/internal/core/domain"
)

var runsLimit int

var runsCmd = &cobra.Command{
	Use:   "runs",
	Short: "Show recent processing runs",
	Long:  `Lists recent processing runs recorded in the local run history.`,
	RunE:  runRuns,
}

func init() {
	runsCmd.Flags().IntVarP(&runsLimit, "limit", "n", 20, "maximum number of runs to show")
	rootCmd.AddCommand(runsCmd)
}

func runRuns(cmd *cobra.Command, _ []string) error {
	if runStore == nil {
		return errors.New("run history not configured")
	}

	runs, err := runStore.List(cmd.Context(), runsLimit)
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		cmd.Println("No runs recorded yet.")
		return nil
	}

	for _, run := range runs {
		cmd.Printf("%s  %s  %s/%s  id=%s  detections=%d outputs=%d%s\n",
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			statusLabel(run.Status),
			run.Container, run.Path,
			orDash(run.Identifier),
			run.DetectionCount, run.OutputCount,
			errorSuffix(run))
	}

	return nil
}

func statusLabel(status domain.RunStatus) string {
	switch status {
	case domain.RunCompleted:
		return color.GreenString("%-9s", string(status))
	case domain.RunSkipped:
		return color.YellowString("%-9s", string(status))
	default:
		return color.RedString("%-9s", string(status))
	}
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func errorSuffix(run domain.Run) string {
	if run.Status != domain.RunFailed || run.Error == "" {
		return ""
	}
	return "  " + run.Error
}
