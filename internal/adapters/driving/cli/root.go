// Package cli implements the findetect command-line interface using cobra.
// Commands drive the core services through the driving ports; the ports
// are injected by the composition root before Execute runs.
package cli

import (
	"github.com/spf13/cobra"

	"github.com/finwatch/findetect/internal/core/ports/driven"
	"github.com/finwatch/findetect/internal/core/ports/driving"
	"github.com/finwatch/findetect/internal/logger"
)

// version is set at build time via ldflags.
var version = "dev"

// Injected driving/driven ports.
var (
	processor   driving.FileProcessor
	runStore    driven.RunStore
	configStore driven.ConfigStore
)

// Services bundles the ports the CLI drives.
type Services struct {
	Processor driving.FileProcessor
	RunStore  driven.RunStore
	Config    driven.ConfigStore
}

// SetServices injects the ports the commands use.
func SetServices(s Services) {
	processor = s.Processor
	runStore = s.RunStore
	configStore = s.Config
}

// SetVersion overrides the reported version.
func SetVersion(v string) {
	version = v
}

var verbose bool

var rootCmd = &cobra.Command{
	Use:   "findetect",
	Short: "Dorsal fin detection for wildlife photo identification",
	Long: `findetect runs survey photographs through a fin detection model and
files the cropped fins per catalogue identifier in blob storage.

The identifier comes either from a folder naming convention or from an
IPTC field embedded in the image.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(_ *cobra.Command, _ []string) {
		logger.SetVerbose(verbose)
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
