package httpapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/finwatch/findetect/internal/core/domain"
	"github.com/finwatch/findetect/internal/core/services"
	"github.com/finwatch/findetect/internal/logger"
)

// errorResponse is the JSON body for failed requests.
type errorResponse struct {
	Error string `json:"error"`
}

// handleProcessFile drives the pipeline from query parameters.
func (s *Server) handleProcessFile(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	req, err := parseProcessRequest(r)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.processor.ProcessFile(r.Context(), req)
	if err != nil {
		logger.Error("process_file %s/%s: %v", req.Container, req.Path, err)
		status := statusForError(err)
		writeError(w, status, err.Error())
		return
	}

	writeJSON(w, http.StatusOK, result)
}

// parseProcessRequest maps the process_file query string onto a request.
func parseProcessRequest(r *http.Request) (domain.ProcessRequest, error) {
	q := r.URL.Query()

	req := domain.ProcessRequest{
		Container:    q.Get("container"),
		Path:         q.Get("path"),
		IDField:      q.Get("id_field"),
		ConnEnvIn:    q.Get("con_env_in"),
		ConnEnvOut:   q.Get("con_env_out"),
		ContainerOut: q.Get("container_out"),
		FolderOut:    q.Get("folder_out"),
	}

	if req.Container == "" || req.Path == "" {
		return req, errors.New("container and path query parameters are required")
	}

	if raw := q.Get("folder_id_idx"); raw != "" {
		idx, err := strconv.Atoi(raw)
		if err != nil {
			return req, fmt.Errorf("folder_id_idx must be an integer: %q", raw)
		}
		req.FolderIDIndex = &idx
	}

	if raw := q.Get("only_single"); raw != "" {
		only, err := strconv.ParseBool(raw)
		if err != nil {
			return req, fmt.Errorf("only_single must be a boolean: %q", raw)
		}
		req.OnlySingle = only
	}

	return req, nil
}

// statusForError maps pipeline errors onto HTTP statuses.
func statusForError(err error) int {
	switch {
	case services.IsInvalidInput(err):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, domain.ErrDetectorUnavailable),
		errors.Is(err, domain.ErrDetectionFailed):
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}

// handleHealth reports liveness.
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Warn("Failed to encode response: %v", err)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errorResponse{Error: msg})
}
