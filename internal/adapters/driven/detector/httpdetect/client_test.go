package httpdetect

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwatch/findetect/internal/core/domain"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := NewClient(Config{Endpoint: server.URL, Rate: 1000})
	require.NoError(t, err)
	return client
}

func TestNewClientRequiresEndpoint(t *testing.T) {
	_, err := NewClient(Config{})
	assert.ErrorIs(t, err, domain.ErrDetectorUnavailable)
}

func TestUnavailableDetector(t *testing.T) {
	detector := Unavailable()

	crops, err := detector.Detect(context.Background(), []byte("jpeg"))
	assert.Nil(t, crops)
	assert.ErrorIs(t, err, domain.ErrDetectorUnavailable)
}

func TestDetectParsesCrops(t *testing.T) {
	crop1 := []byte{0xFF, 0xD8, 0xFF, 0xD9}
	crop2 := []byte("second-crop")

	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)

		require.NoError(t, r.ParseMultipartForm(1<<20))
		file, header, err := r.FormFile("file")
		require.NoError(t, err)
		defer file.Close()
		assert.Equal(t, "image.jpg", header.Filename)

		resp := map[string]any{
			"response": map[string]any{
				"extractedImages": []string{
					base64.StdEncoding.EncodeToString(crop1),
					base64.StdEncoding.EncodeToString(crop2),
				},
			},
		}
		_ = json.NewEncoder(w).Encode(resp)
	})

	detections, err := client.Detect(context.Background(), []byte("image-bytes"))
	require.NoError(t, err)
	require.Len(t, detections, 2)
	assert.Equal(t, 0, detections[0].Index)
	assert.Equal(t, crop1, detections[0].Data)
	assert.Equal(t, 1, detections[1].Index)
	assert.Equal(t, crop2, detections[1].Data)
}

func TestDetectEmptyResult(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"response": {"extractedImages": []}}`))
	})

	detections, err := client.Detect(context.Background(), []byte("image"))
	require.NoError(t, err)
	assert.Empty(t, detections)
}

func TestDetectUpstreamFailure(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		http.Error(w, "model exploded", http.StatusInternalServerError)
	})

	_, err := client.Detect(context.Background(), []byte("image"))
	assert.ErrorIs(t, err, domain.ErrDetectionFailed)
}

func TestDetectMalformedResponse(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte("not json"))
	})

	_, err := client.Detect(context.Background(), []byte("image"))
	assert.ErrorIs(t, err, domain.ErrDetectionFailed)
}

func TestDetectSkipsInvalidBase64(t *testing.T) {
	valid := base64.StdEncoding.EncodeToString([]byte("good"))

	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"response": {"extractedImages": ["***", "` + valid + `"]}}`))
	})

	detections, err := client.Detect(context.Background(), []byte("image"))
	require.NoError(t, err)
	require.Len(t, detections, 1)
	assert.Equal(t, []byte("good"), detections[0].Data)
	// Index reflects the position in the endpoint response
	assert.Equal(t, 1, detections[0].Index)
}

func TestDetectContextCancelled(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, _ *http.Request) {
		_, _ = w.Write([]byte(`{"response": {"extractedImages": []}}`))
	})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := client.Detect(ctx, []byte("image"))
	assert.Error(t, err)
}
