// Package httpdetect provides a detector adapter that calls the remote
// fin-detection model endpoint over HTTP.
package httpdetect

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"time"

	"golang.org/x/time/rate"

	"github.com/finwatch/findetect/internal/core/domain"
	"github.com/finwatch/findetect/internal/core/ports/driven"
	"github.com/finwatch/findetect/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.Detector = (*Client)(nil)

// Default configuration values.
const (
	DefaultTimeout = 120 * time.Second
	DefaultRate    = 2.0 // requests per second
)

// fileField is the multipart form field carrying the image.
const fileField = "file"

// Config holds configuration for the detection client.
type Config struct {
	// Endpoint is the detection API URL. Required.
	Endpoint string

	// Timeout is the request timeout (default: 120s, model inference
	// can be slow).
	Timeout time.Duration

	// Rate is the client-side request rate limit in requests per
	// second (default: 2).
	Rate float64
}

// Client posts images to the detection endpoint and decodes the
// extracted crops.
type Client struct {
	client   *http.Client
	endpoint string
	limiter  *rate.Limiter
}

// detectResponse is the detection API response format.
type detectResponse struct {
	Response struct {
		ExtractedImages []string `json:"extractedImages"`
	} `json:"response"`
}

// NewClient creates a new detection client.
// Returns domain.ErrDetectorUnavailable when no endpoint is configured.
func NewClient(cfg Config) (*Client, error) {
	if cfg.Endpoint == "" {
		return nil, domain.ErrDetectorUnavailable
	}
	if cfg.Timeout == 0 {
		cfg.Timeout = DefaultTimeout
	}
	if cfg.Rate <= 0 {
		cfg.Rate = DefaultRate
	}

	return &Client{
		client: &http.Client{
			Timeout: cfg.Timeout,
		},
		endpoint: cfg.Endpoint,
		limiter:  rate.NewLimiter(rate.Limit(cfg.Rate), 1),
	}, nil
}

// Unavailable returns a detector that fails every call with
// domain.ErrDetectorUnavailable. It stands in when no endpoint is
// configured so the rest of the application keeps working.
func Unavailable() driven.Detector {
	return unavailableDetector{}
}

type unavailableDetector struct{}

func (unavailableDetector) Detect(context.Context, []byte) ([]domain.Detection, error) {
	return nil, fmt.Errorf("%w: no endpoint configured", domain.ErrDetectorUnavailable)
}

// Detect sends the image bytes and returns the cropped detections.
func (c *Client) Detect(ctx context.Context, image []byte) ([]domain.Detection, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	body, contentType, err := buildForm(image)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.endpoint, body)
	if err != nil {
		return nil, fmt.Errorf("build detect request: %w", err)
	}
	req.Header.Set("Content-Type", contentType)

	resp, err := c.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", domain.ErrDetectionFailed, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// Drain for connection reuse
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4096))
		return nil, fmt.Errorf("%w: endpoint returned HTTP %d", domain.ErrDetectionFailed, resp.StatusCode)
	}

	var parsed detectResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return nil, fmt.Errorf("%w: decode response: %v", domain.ErrDetectionFailed, err)
	}

	detections := make([]domain.Detection, 0, len(parsed.Response.ExtractedImages))
	for i, encoded := range parsed.Response.ExtractedImages {
		data, err := base64.StdEncoding.DecodeString(encoded)
		if err != nil {
			logger.Warn("Skipping detection %d: invalid base64: %v", i, err)
			continue
		}
		detections = append(detections, domain.Detection{
			Index: i,
			Data:  data,
		})
	}

	logger.Debug("Detector returned %d crops", len(detections))
	return detections, nil
}

// buildForm wraps the image in a multipart/form-data body.
func buildForm(image []byte) (*bytes.Buffer, string, error) {
	var buf bytes.Buffer
	writer := multipart.NewWriter(&buf)

	part, err := writer.CreateFormFile(fileField, "image.jpg")
	if err != nil {
		return nil, "", fmt.Errorf("create form file: %w", err)
	}
	if _, err := part.Write(image); err != nil {
		return nil, "", fmt.Errorf("write form file: %w", err)
	}
	if err := writer.Close(); err != nil {
		return nil, "", fmt.Errorf("close form: %w", err)
	}

	return &buf, writer.FormDataContentType(), nil
}
