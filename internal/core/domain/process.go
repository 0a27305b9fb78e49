package domain

import (
	"path"
	"strconv"
	"strings"
)

// ProcessRequest describes a single file to process.
// Field names mirror the query parameters of the process_file endpoint.
type ProcessRequest struct {
	// Container is the source blob container.
	Container string

	// Path is the blob path within the container.
	Path string

	// IDField selects where the catalogue identifier comes from.
	// The special value "folder" takes a path segment; any other value
	// is matched against the IPTC field table.
	IDField string

	// FolderIDIndex is the slash-separated path segment index used when
	// IDField is "folder". Nil when not supplied.
	FolderIDIndex *int

	// ConnEnvIn names the environment variable holding the input
	// storage connection string.
	ConnEnvIn string

	// ConnEnvOut names the environment variable holding the output
	// storage connection string.
	ConnEnvOut string

	// ContainerOut is the target container for cropped detections.
	ContainerOut string

	// FolderOut is the target folder within ContainerOut.
	FolderOut string

	// OnlySingle, when true, writes outputs only if exactly one
	// detection was found in the image.
	OnlySingle bool
}

// Validate checks the request for required fields and consistency.
func (r *ProcessRequest) Validate() error {
	if r.Container == "" || r.Path == "" {
		return ErrInvalidInput
	}

	// A folder id_field without an index is not an error: identifier
	// resolution yields no identifier and the pipeline skips writes.
	if r.IDField == IDFieldFolder && r.FolderIDIndex != nil {
		segments := strings.Split(r.Path, "/")
		idx := *r.FolderIDIndex
		if idx < 0 || idx >= len(segments) {
			return ErrInvalidInput
		}
	}

	return nil
}

// IDFieldFolder selects the folder-name identifier convention.
const IDFieldFolder = "folder"

// Detection is a single cropped fin image returned by the detector.
type Detection struct {
	// Index is the ordinal position within the detector response.
	Index int

	// Data is the decoded JPEG bytes of the crop.
	Data []byte

	// Width and Height are the crop dimensions in pixels, when known.
	Width  int
	Height int
}

// ProcessResult is the outcome of processing one file.
type ProcessResult struct {
	// Container and Path echo the source location.
	Container string `json:"container"`
	Path      string `json:"path"`

	// Identifier is the resolved catalogue identifier, empty when none
	// could be derived.
	Identifier string `json:"identifier,omitempty"`

	// DetectionCount is how many fins the detector found.
	DetectionCount int `json:"detections"`

	// OutputPaths lists the blobs written for the detections.
	OutputPaths []string `json:"output_paths,omitempty"`

	// Skipped indicates outputs were deliberately not written.
	Skipped bool `json:"skipped,omitempty"`

	// SkipReason explains a skip (no identifier, only_single gate).
	SkipReason string `json:"skip_reason,omitempty"`

	// RunID references the persisted run record, when available.
	RunID string `json:"run_id,omitempty"`
}

// OutputPath builds the blob path for one cropped detection.
// Layout: <folder>/<identifier>/<source-basename>_cropped_<idx>.JPG
func OutputPath(folder, identifier, source string, idx int) string {
	base := path.Base(source)
	if dot := strings.Index(base, "."); dot >= 0 {
		base = base[:dot]
	}
	name := base + "_cropped_" + strconv.Itoa(idx) + ".JPG"
	return path.Join(folder, identifier, name)
}
