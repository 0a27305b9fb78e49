package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/finwatch/findetect/internal/core/domain"
	"github.com/finwatch/findetect/internal/core/ports/driven"
	"github.com/finwatch/findetect/internal/core/ports/driving"
	"github.com/finwatch/findetect/internal/logger"
)

// Ensure ProcessService implements the interface.
var _ driving.FileProcessor = (*ProcessService)(nil)

// Skip reasons reported on gated results.
const (
	SkipNoIdentifier = "no identifier"
	SkipOnlySingle   = "only_single gate"
)

// ProcessService runs the fin-detection pipeline for blobs.
type ProcessService struct {
	factory  driven.BlobStoreFactory
	detector driven.Detector
	metadata driven.MetadataReader
	runs     driven.RunStore

	// Default connection environment variable names, used when the
	// request does not name them.
	defaultEnvIn  string
	defaultEnvOut string
}

// NewProcessService creates a new process service.
// The run store is optional - if nil, runs are not recorded.
func NewProcessService(
	factory driven.BlobStoreFactory,
	detector driven.Detector,
	metadata driven.MetadataReader,
	runs driven.RunStore,
	defaultEnvIn, defaultEnvOut string,
) *ProcessService {
	return &ProcessService{
		factory:       factory,
		detector:      detector,
		metadata:      metadata,
		runs:          runs,
		defaultEnvIn:  defaultEnvIn,
		defaultEnvOut: defaultEnvOut,
	}
}

// ProcessFile runs the full pipeline for one blob.
func (s *ProcessService) ProcessFile(ctx context.Context, req domain.ProcessRequest) (*domain.ProcessResult, error) {
	startedAt := time.Now().UTC()

	result, err := s.process(ctx, &req)

	// Record the run regardless of outcome (best effort)
	runID := s.recordRun(ctx, &req, result, err, startedAt)
	if err != nil {
		return nil, err
	}
	result.RunID = runID
	return result, nil
}

// process executes the pipeline steps.
//
//nolint:gocyclo // Orchestration function with necessary sequential steps
func (s *ProcessService) process(ctx context.Context, req *domain.ProcessRequest) (*domain.ProcessResult, error) {
	// 1. Validate request
	if err := req.Validate(); err != nil {
		return nil, err
	}

	// 2. Resolve input store
	envIn := req.ConnEnvIn
	if envIn == "" {
		envIn = s.defaultEnvIn
	}
	input, err := s.factory.Create(ctx, envIn)
	if err != nil {
		return nil, fmt.Errorf("resolve input store: %w", err)
	}
	defer input.Close()

	// 3. Download the source blob
	logger.Debug("Processing %s/%s", req.Container, req.Path)
	image, err := input.Download(ctx, req.Container, req.Path)
	if err != nil {
		return nil, fmt.Errorf("download source: %w", err)
	}

	// 4. Extract metadata; a JPEG without IPTC is still processable
	meta, err := s.metadata.Extract(image)
	if err != nil {
		return nil, fmt.Errorf("extract metadata: %w", err)
	}
	logger.Debug("Image %dx%d, %d IPTC datasets", meta.Width, meta.Height, len(meta.IPTC))

	// 5. Detect fins
	detections, err := s.detector.Detect(ctx, image)
	if err != nil {
		return nil, fmt.Errorf("detect: %w", err)
	}

	// 6. Resolve the catalogue identifier
	identifier := domain.ResolveIdentifier(req, meta)

	result := &domain.ProcessResult{
		Container:      req.Container,
		Path:           req.Path,
		Identifier:     identifier,
		DetectionCount: len(detections),
	}

	// 7. Gates: no identifier means nothing to group outputs under,
	// and only_single rejects ambiguous multi-fin images
	if identifier == "" {
		result.Skipped = true
		result.SkipReason = SkipNoIdentifier
		logger.Info("Skipping writes for %s: %s", req.Path, SkipNoIdentifier)
		return result, nil
	}
	if req.OnlySingle && len(detections) != 1 {
		result.Skipped = true
		result.SkipReason = SkipOnlySingle
		logger.Info("Skipping writes for %s: %s (%d detections)", req.Path, SkipOnlySingle, len(detections))
		return result, nil
	}

	// 8. Write cropped detections to the output store
	if len(detections) > 0 {
		outputPaths, err := s.writeOutputs(ctx, req, identifier, detections)
		if err != nil {
			return nil, err
		}
		result.OutputPaths = outputPaths
	}

	return result, nil
}

// writeOutputs uploads each detection crop to the output location.
func (s *ProcessService) writeOutputs(
	ctx context.Context,
	req *domain.ProcessRequest,
	identifier string,
	detections []domain.Detection,
) ([]string, error) {
	envOut := req.ConnEnvOut
	if envOut == "" {
		envOut = s.defaultEnvOut
	}
	output, err := s.factory.Create(ctx, envOut)
	if err != nil {
		return nil, fmt.Errorf("resolve output store: %w", err)
	}
	defer output.Close()

	// The output container falls back to the source container
	containerOut := req.ContainerOut
	if containerOut == "" {
		containerOut = req.Container
	}

	paths := make([]string, 0, len(detections))
	for _, detection := range detections {
		path := domain.OutputPath(req.FolderOut, identifier, req.Path, detection.Index)
		if err := output.Upload(ctx, containerOut, path, detection.Data); err != nil {
			return nil, fmt.Errorf("write output %s: %w", path, err)
		}
		logger.Debug("Crop persisted at %s/%s", containerOut, path)
		paths = append(paths, path)
	}

	return paths, nil
}

// recordRun persists the run record. Failures are logged, not returned:
// run history must never fail the pipeline.
func (s *ProcessService) recordRun(
	ctx context.Context,
	req *domain.ProcessRequest,
	result *domain.ProcessResult,
	pipelineErr error,
	startedAt time.Time,
) string {
	if s.runs == nil {
		return ""
	}

	run := domain.Run{
		ID:         uuid.NewString(),
		Container:  req.Container,
		Path:       req.Path,
		StartedAt:  startedAt,
		FinishedAt: time.Now().UTC(),
	}

	switch {
	case pipelineErr != nil:
		run.Status = domain.RunFailed
		run.Error = pipelineErr.Error()
	case result.Skipped:
		run.Status = domain.RunSkipped
		run.Error = result.SkipReason
	default:
		run.Status = domain.RunCompleted
	}

	if result != nil {
		run.Identifier = result.Identifier
		run.DetectionCount = result.DetectionCount
		run.OutputCount = len(result.OutputPaths)
	}

	if err := s.runs.Save(ctx, run); err != nil {
		logger.Warn("Failed to record run for %s: %v", req.Path, err)
		return ""
	}
	return run.ID
}

// ProcessBatch processes every JPEG blob in the container under the
// given prefix.
func (s *ProcessService) ProcessBatch(
	ctx context.Context,
	req domain.ProcessRequest,
	prefix string,
	progress func(driving.BatchProgress),
) (*driving.BatchResult, error) {
	envIn := req.ConnEnvIn
	if envIn == "" {
		envIn = s.defaultEnvIn
	}
	input, err := s.factory.Create(ctx, envIn)
	if err != nil {
		return nil, fmt.Errorf("resolve input store: %w", err)
	}

	paths, err := input.List(ctx, req.Container, prefix)
	input.Close()
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}

	var jpegs []string
	for _, path := range paths {
		if isJPEGPath(path) {
			jpegs = append(jpegs, path)
		}
	}
	logger.Info("Batch: %d JPEGs under %s/%s", len(jpegs), req.Container, prefix)

	batch := &driving.BatchResult{Failed: make(map[string]string)}
	for i, path := range jpegs {
		if err := ctx.Err(); err != nil {
			return batch, err
		}

		fileReq := req
		fileReq.Path = path
		result, err := s.ProcessFile(ctx, fileReq)

		switch {
		case err != nil:
			batch.Failed[path] = err.Error()
		case result.Skipped:
			batch.Skipped++
		default:
			batch.Processed++
		}

		if progress != nil {
			progress(driving.BatchProgress{
				Path:  path,
				Done:  i + 1,
				Total: len(jpegs),
				Err:   err,
			})
		}
	}

	return batch, nil
}

// isJPEGPath reports whether the blob path looks like a JPEG file.
func isJPEGPath(path string) bool {
	lower := strings.ToLower(path)
	return strings.HasSuffix(lower, ".jpg") || strings.HasSuffix(lower, ".jpeg")
}

// ResultSummary renders a one-line human summary of a process result.
func ResultSummary(result *domain.ProcessResult) string {
	if result.Skipped {
		return fmt.Sprintf("%s: %d detections, skipped (%s)",
			result.Path, result.DetectionCount, result.SkipReason)
	}
	return fmt.Sprintf("%s: %d detections, %d crops written for %s",
		result.Path, result.DetectionCount, len(result.OutputPaths), identifierOrNone(result.Identifier))
}

func identifierOrNone(id string) string {
	if id == "" {
		return "(none)"
	}
	return id
}

// IsInvalidInput reports whether err is a caller error rather than an
// infrastructure failure. Used by driving adapters for status mapping.
func IsInvalidInput(err error) bool {
	return errors.Is(err, domain.ErrInvalidInput) ||
		errors.Is(err, domain.ErrEnvNotAllowed) ||
		errors.Is(err, domain.ErrNotJPEG)
}
