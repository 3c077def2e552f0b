package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/matzehuels/paneflow/pkg/buildinfo"
	perrors "github.com/matzehuels/paneflow/pkg/errors"
	"github.com/matzehuels/paneflow/pkg/pipeline"
	"github.com/matzehuels/paneflow/pkg/render"
	"github.com/matzehuels/paneflow/pkg/scene"
)

// Request is the body of /v1/resize and /v1/render/{format}.
type Request struct {
	Scene *scene.Scene `json:"scene"`
	pipeline.Options
}

// ResizeResponse is the body returned by /v1/resize.
type ResizeResponse struct {
	Scene       *scene.Scene      `json:"scene"`
	SceneHash   string            `json:"scene_hash"`
	Rows        int               `json:"rows"`
	Constraints int               `json:"constraints"`
	Cached      bool              `json:"cached"`
	Artifacts   map[string][]byte `json:"artifacts,omitempty"`
}

// ErrorBody describes a failed request.
type ErrorBody struct {
	Code      perrors.Code `json:"code"`
	Message   string       `json:"message"`
	RequestID string       `json:"request_id,omitempty"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

func (s *Server) handleDemo(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, scene.Demo())
}

func (s *Server) handleResize(w http.ResponseWriter, r *http.Request) {
	req, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	result, err := s.runner.Execute(r.Context(), req.Scene, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	resp := ResizeResponse{
		Scene:       result.Scene,
		SceneHash:   result.SceneHash,
		Rows:        result.Stats.RowCount,
		Constraints: result.Stats.Constraints,
		Cached:      result.CacheInfo.ResizeHit,
	}
	if len(result.Artifacts) > 0 {
		resp.Artifacts = result.Artifacts
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	format, err := render.ParseFormat(chi.URLParam(r, "format"))
	if err != nil {
		s.writeError(w, r, err)
		return
	}
	req, err := decodeRequest(w, r)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	req.Formats = []string{string(format)}
	result, err := s.runner.Execute(r.Context(), req.Scene, req.Options)
	if err != nil {
		s.writeError(w, r, err)
		return
	}

	cacheStatus := "miss"
	if result.CacheInfo.RenderHit {
		cacheStatus = "hit"
	}
	w.Header().Set("Content-Type", format.ContentType())
	w.Header().Set("X-Cache", cacheStatus)
	w.Header().Set("X-Scene-Hash", result.SceneHash)
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(result.Artifacts[string(format)])
}

func decodeRequest(w http.ResponseWriter, r *http.Request) (*Request, error) {
	if ct := r.Header.Get("Content-Type"); ct != "" && !strings.HasPrefix(ct, "application/json") {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "content type must be application/json, got %q", ct)
	}

	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, MaxBodyBytes))
	dec.DisallowUnknownFields()
	var req Request
	if err := dec.Decode(&req); err != nil {
		return nil, perrors.Wrap(perrors.ErrCodeInvalidInput, err, "decode request")
	}
	if req.Scene == nil {
		return nil, perrors.New(perrors.ErrCodeInvalidInput, "request has no scene")
	}
	if err := req.Scene.Validate(); err != nil {
		return nil, err
	}
	return &req, nil
}

// statusFor maps an error to its HTTP status.
func statusFor(err error) int {
	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		return http.StatusRequestEntityTooLarge
	case perrors.IsValidation(err):
		return http.StatusBadRequest
	case perrors.Is(err, perrors.ErrCodeUnsatisfiableLayout):
		return http.StatusUnprocessableEntity
	case perrors.Is(err, perrors.ErrCodeNotFound):
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

func (s *Server) writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	code := perrors.GetCode(err)
	if code == "" {
		code = perrors.ErrCodeInternal
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", "id", RequestID(r.Context()), "err", err)
	} else {
		s.logger.Debug("request rejected", "id", RequestID(r.Context()), "status", status, "err", err)
	}
	writeJSON(w, status, map[string]ErrorBody{"error": {
		Code:      code,
		Message:   perrors.UserMessage(err),
		RequestID: RequestID(r.Context()),
	}})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	_ = enc.Encode(v)
}
