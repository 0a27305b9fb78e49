package cli

import (
	"encoding/json"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/finwatch/findetect/internal/core/domain"
	"github.com/finwatch/findetect/internal/core/services"
)

// requestOpts collects the pipeline flags shared by process and batch.
type requestOpts struct {
	container    string
	idField      string
	folderIDIdx  int
	connEnvIn    string
	connEnvOut   string
	containerOut string
	folderOut    string
	onlySingle   bool
}

// addFlags registers the shared pipeline flags on cmd.
func (o *requestOpts) addFlags(cmd *cobra.Command) {
	flags := cmd.Flags()
	flags.StringVarP(&o.container, "container", "c", "", "source blob container (required)")
	flags.StringVar(&o.idField, "id-field", domain.IDFieldFolder, "identifier source: \"folder\" or an IPTC field name")
	flags.IntVar(&o.folderIDIdx, "folder-id-idx", 0, "path segment index for folder identifiers")
	flags.StringVar(&o.connEnvIn, "con-env-in", "", "environment variable with the input connection string")
	flags.StringVar(&o.connEnvOut, "con-env-out", "", "environment variable with the output connection string")
	flags.StringVar(&o.containerOut, "container-out", "", "output container (defaults to the source container)")
	flags.StringVar(&o.folderOut, "folder-out", "", "output folder for cropped detections")
	flags.BoolVar(&o.onlySingle, "only-single", false, "write outputs only when exactly one fin was detected")
	_ = cmd.MarkFlagRequired("container")
}

// request builds a domain request for the given blob path.
func (o *requestOpts) request(cmd *cobra.Command, path string) domain.ProcessRequest {
	req := domain.ProcessRequest{
		Container:    o.container,
		Path:         path,
		IDField:      o.idField,
		ConnEnvIn:    o.connEnvIn,
		ConnEnvOut:   o.connEnvOut,
		ContainerOut: o.containerOut,
		FolderOut:    o.folderOut,
		OnlySingle:   o.onlySingle,
	}
	if cmd.Flags().Changed("folder-id-idx") || o.idField == domain.IDFieldFolder {
		idx := o.folderIDIdx
		req.FolderIDIndex = &idx
	}
	return req
}

var (
	processOpts requestOpts
	processJSON bool
)

var processCmd = &cobra.Command{
	Use:   "process [blob-path]",
	Short: "Run fin detection on a single blob",
	Long: `Downloads one image from blob storage, runs fin detection, resolves
the catalogue identifier and writes the cropped fins to the output
location.`,
	Args: cobra.ExactArgs(1),
	RunE: runProcess,
}

func init() {
	processOpts.addFlags(processCmd)
	processCmd.Flags().BoolVar(&processJSON, "json", false, "output the result as JSON")
	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	if processor == nil {
		return errors.New("processor not configured")
	}

	req := processOpts.request(cmd, args[0])
	result, err := processor.ProcessFile(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("process failed: %w", err)
	}

	if processJSON {
		data, err := json.MarshalIndent(result, "", "  ")
		if err != nil {
			return fmt.Errorf("failed to marshal result: %w", err)
		}
		cmd.Println(string(data))
		return nil
	}

	cmd.Println(services.ResultSummary(result))
	return nil
}
