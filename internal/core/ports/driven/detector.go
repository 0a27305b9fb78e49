package driven

import (
	"context"

	"github.com/finwatch/findetect/internal/core/domain"
)

// Detector extracts fin crops from an image via a remote model endpoint.
type Detector interface {
	// Detect sends the image bytes and returns the cropped detections.
	// A zero-length result is a successful "no fins found"; endpoint
	// failures return domain.ErrDetectionFailed.
	Detect(ctx context.Context, image []byte) ([]domain.Detection, error)
}

// MetadataReader extracts image metadata from raw bytes.
type MetadataReader interface {
	// Extract parses the image and returns its metadata.
	// Images without embedded IPTC yield metadata with an empty IPTC
	// map rather than an error.
	Extract(data []byte) (*domain.ImageMetadata, error)
}
