package driving

import (
	"context"

	"github.com/finwatch/findetect/internal/core/domain"
)

// FileProcessor runs the detection pipeline for files in blob storage.
type FileProcessor interface {
	// ProcessFile runs the full pipeline for one blob: download,
	// metadata extraction, detection, identifier resolution, output
	// writes, and run recording.
	ProcessFile(ctx context.Context, req domain.ProcessRequest) (*domain.ProcessResult, error)

	// ProcessBatch processes every blob in the container under the
	// given prefix, reusing the remaining request fields per file.
	// Per-file failures are reported in the batch result rather than
	// aborting the batch.
	ProcessBatch(ctx context.Context, req domain.ProcessRequest, prefix string, progress func(BatchProgress)) (*BatchResult, error)
}

// BatchProgress reports batch advancement to the caller.
type BatchProgress struct {
	// Path is the blob just processed.
	Path string

	// Done and Total count processed and discovered blobs.
	Done  int
	Total int

	// Err is non-nil when this file failed.
	Err error
}

// BatchResult summarises a batch invocation.
type BatchResult struct {
	// Processed is the number of files that completed the pipeline.
	Processed int

	// Skipped is the number of files whose outputs were gated off.
	Skipped int

	// Failed maps blob paths to their failure messages.
	Failed map[string]string
}
