package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/finwatch/findetect/internal/core/domain"
	"github.com/finwatch/findetect/internal/core/ports/driving"
)

// mockProcessor implements driving.FileProcessor for handler tests.
type mockProcessor struct {
	lastReq domain.ProcessRequest
	result  *domain.ProcessResult
	err     error
}

func (m *mockProcessor) ProcessFile(_ context.Context, req domain.ProcessRequest) (*domain.ProcessResult, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	if m.result != nil {
		return m.result, nil
	}
	return &domain.ProcessResult{Container: req.Container, Path: req.Path}, nil
}

func (m *mockProcessor) ProcessBatch(_ context.Context, _ domain.ProcessRequest, _ string, _ func(driving.BatchProgress)) (*driving.BatchResult, error) {
	return &driving.BatchResult{}, nil
}

func newTestServer(keys []string, processor *mockProcessor) *httptest.Server {
	return httptest.NewServer(NewServer("127.0.0.1:0", keys, processor).Handler())
}

func TestProcessFileEndpoint(t *testing.T) {
	processor := &mockProcessor{result: &domain.ProcessResult{
		Container:      "photos",
		Path:           "J35/IMG_0412.jpg",
		Identifier:     "J35",
		DetectionCount: 1,
		OutputPaths:    []string{"detections/J35/IMG_0412_cropped_0.JPG"},
	}}
	ts := newTestServer(nil, processor)
	defer ts.Close()

	url := ts.URL + "/api/process_file" +
		"?container=photos&path=J35/IMG_0412.jpg&id_field=folder&folder_id_idx=0" +
		"&con_env_in=CONN_IN&con_env_out=CONN_OUT&container_out=crops&folder_out=detections&only_single=true"
	resp, err := http.Get(url)
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "application/json", resp.Header.Get("Content-Type"))

	var result domain.ProcessResult
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&result))
	assert.Equal(t, "J35", result.Identifier)
	assert.Equal(t, 1, result.DetectionCount)

	// Query parameters landed on the request
	assert.Equal(t, "photos", processor.lastReq.Container)
	assert.Equal(t, "J35/IMG_0412.jpg", processor.lastReq.Path)
	assert.Equal(t, domain.IDFieldFolder, processor.lastReq.IDField)
	require.NotNil(t, processor.lastReq.FolderIDIndex)
	assert.Equal(t, 0, *processor.lastReq.FolderIDIndex)
	assert.Equal(t, "CONN_IN", processor.lastReq.ConnEnvIn)
	assert.Equal(t, "CONN_OUT", processor.lastReq.ConnEnvOut)
	assert.Equal(t, "crops", processor.lastReq.ContainerOut)
	assert.Equal(t, "detections", processor.lastReq.FolderOut)
	assert.True(t, processor.lastReq.OnlySingle)
}

func TestProcessFileMissingParams(t *testing.T) {
	ts := newTestServer(nil, &mockProcessor{})
	defer ts.Close()

	for _, url := range []string{
		ts.URL + "/api/process_file",
		ts.URL + "/api/process_file?container=photos",
		ts.URL + "/api/process_file?path=a.jpg",
	} {
		resp, err := http.Get(url)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode, url)
	}
}

func TestProcessFileMalformedParams(t *testing.T) {
	ts := newTestServer(nil, &mockProcessor{})
	defer ts.Close()

	tests := []struct {
		name  string
		query string
	}{
		{name: "non-integer folder_id_idx", query: "&folder_id_idx=first"},
		{name: "non-boolean only_single", query: "&only_single=maybe"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Get(ts.URL + "/api/process_file?container=photos&path=a.jpg" + tt.query)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

			var body errorResponse
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.NotEmpty(t, body.Error)
		})
	}
}

func TestProcessFileErrorMapping(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
	}{
		{name: "invalid input", err: domain.ErrInvalidInput, wantStatus: http.StatusBadRequest},
		{name: "env not allowed", err: domain.ErrEnvNotAllowed, wantStatus: http.StatusBadRequest},
		{name: "blob not found", err: domain.ErrNotFound, wantStatus: http.StatusNotFound},
		{name: "detector failure", err: domain.ErrDetectionFailed, wantStatus: http.StatusBadGateway},
		{name: "detector unavailable", err: domain.ErrDetectorUnavailable, wantStatus: http.StatusBadGateway},
		{name: "unexpected failure", err: errors.New("boom"), wantStatus: http.StatusInternalServerError},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(nil, &mockProcessor{err: tt.err})
			defer ts.Close()

			resp, err := http.Get(ts.URL + "/api/process_file?container=photos&path=a.jpg")
			require.NoError(t, err)
			resp.Body.Close()
			assert.Equal(t, tt.wantStatus, resp.StatusCode)
		})
	}
}

func TestProcessFileMethodNotAllowed(t *testing.T) {
	ts := newTestServer(nil, &mockProcessor{})
	defer ts.Close()

	resp, err := http.Post(ts.URL+"/api/process_file?container=photos&path=a.jpg", "application/json", nil)
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestFunctionKeyAuth(t *testing.T) {
	keys := []string{"primary-key", "secondary-key"}
	ts := newTestServer(keys, &mockProcessor{})
	defer ts.Close()

	base := ts.URL + "/api/process_file?container=photos&path=a.jpg"

	t.Run("missing key rejected", func(t *testing.T) {
		resp, err := http.Get(base)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("wrong key rejected", func(t *testing.T) {
		resp, err := http.Get(base + "&code=guess")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("key via query accepted", func(t *testing.T) {
		resp, err := http.Get(base + "&code=secondary-key")
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})

	t.Run("key via header accepted", func(t *testing.T) {
		req, err := http.NewRequest(http.MethodGet, base, nil)
		require.NoError(t, err)
		req.Header.Set("x-functions-key", "primary-key")

		resp, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusOK, resp.StatusCode)
	})
}

func TestAnonymousWhenNoKeys(t *testing.T) {
	ts := newTestServer(nil, &mockProcessor{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/api/process_file?container=photos&path=a.jpg")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	// Health stays reachable even when keys are configured
	ts := newTestServer([]string{"primary-key"}, &mockProcessor{})
	defer ts.Close()

	resp, err := http.Get(ts.URL + "/healthz")
	require.NoError(t, err)
	defer resp.Body.Close()

	assert.Equal(t, http.StatusOK, resp.StatusCode)

	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	assert.Equal(t, "ok", body["status"])
}

func TestServerStartStop(t *testing.T) {
	server := NewServer("127.0.0.1:0", nil, &mockProcessor{})
	require.NoError(t, server.Start())

	resp, err := http.Get("http://" + server.Addr() + "/healthz")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	require.NoError(t, server.Stop(ctx))
}
