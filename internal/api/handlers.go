package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"mime"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	apperrors "github.com/ppiankov/factcheck/internal/errors"
	"github.com/ppiankov/factcheck/internal/export"
	"github.com/ppiankov/factcheck/internal/model"
	"github.com/ppiankov/factcheck/internal/present"
)

// HealthResponse reports liveness and whether analysis can be served
type HealthResponse struct {
	Status          string `json:"status"`
	AnalysisEnabled bool   `json:"analysis_enabled"`
	Provider        string `json:"provider,omitempty"`
	Notice          string `json:"notice,omitempty"` // Persistent configuration banner
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	resp := HealthResponse{
		Status:          "ok",
		AnalysisEnabled: s.service.Enabled(),
		Provider:        s.service.ProviderName(),
	}
	if err := s.service.ConfigError(); err != nil {
		resp.Notice = apperrors.Message(err)
	}
	respondJSON(w, http.StatusOK, resp)
}

// analyzeBody is the JSON form of an analysis request
type analyzeBody struct {
	Text           string         `json:"text"`
	Content        string         `json:"content"`
	ContentType    string         `json:"content_type"`
	ExpertiseLevel string         `json:"expertise_level"`
	AnalysisLength string         `json:"analysis_length"`
	Settings       model.Settings `json:"settings"`
}

// handleAnalyze runs one analysis. With an X-Session-ID header the request goes through
// that session's renderer, where a newer request supersedes an older one (409).
// Without the header every request is independent: nothing is superseded and the
// result is returned as soon as it is ready.
func (s *Server) handleAnalyze(w http.ResponseWriter, r *http.Request) {
	if !s.service.Enabled() {
		err := s.service.ConfigError()
		if err == nil || !apperrors.IsConfiguration(err) {
			err = apperrors.Configuration("analysis is not configured")
		}
		s.respondError(w, r, err)
		return
	}

	req, err := parseAnalyzeRequest(w, r)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	ctx := r.Context()
	if s.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.timeout)
		defer cancel()
	}

	sid := r.Header.Get(sessionHeader)
	if sid == "" {
		res, err := s.service.Analyze(ctx, req)
		if err != nil {
			s.respondError(w, r, err)
			return
		}
		respondJSON(w, http.StatusOK, res)
		return
	}

	if !validSessionID(sid) {
		s.respondError(w, r, apperrors.InvalidInput("invalid session id"))
		return
	}

	renderer := s.sessions.open(sid)
	var analyzeErr error
	snap, accepted := renderer.Submit(ctx, func(ctx context.Context) (*model.FactCheckResult, error) {
		res, err := s.service.Analyze(ctx, req)
		analyzeErr = err
		return res, err
	})

	if !accepted {
		respondJSON(w, http.StatusConflict, ErrorResponse{
			Error: "a newer request superseded this analysis",
			Code:  codeSuperseded,
		})
		return
	}
	if analyzeErr != nil {
		s.respondError(w, r, analyzeErr)
		return
	}
	w.Header().Set(sessionHeader, sid)
	w.Header().Set("X-Request-Token", fmt.Sprint(uint64(snap.Token)))
	respondJSON(w, http.StatusOK, snap.Result)
}

// parseAnalyzeRequest reads a multipart form (text, file, settings) or a JSON body
func parseAnalyzeRequest(w http.ResponseWriter, r *http.Request) (model.AnalysisRequest, error) {
	// Room for the form fields next to the largest upload
	r.Body = http.MaxBytesReader(w, r.Body, model.MaxUploadBytes+1<<20)

	mediaType, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if mediaType == "application/json" {
		var body analyzeBody
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			if isTooLarge(err) {
				return model.AnalysisRequest{}, err
			}
			return model.AnalysisRequest{}, apperrors.InvalidInput("invalid JSON body: %v", err)
		}
		req := model.AnalysisRequest{
			Content:     firstNonEmpty(body.Text, body.Content),
			ContentType: model.ContentType(body.ContentType),
			Settings:    body.Settings,
		}
		if body.ExpertiseLevel != "" {
			req.Settings.ExpertiseLevel = model.ExpertiseLevel(body.ExpertiseLevel)
		}
		if body.AnalysisLength != "" {
			req.Settings.AnalysisLength = model.AnalysisLength(body.AnalysisLength)
		}
		return req, req.Validate()
	}

	if err := r.ParseMultipartForm(model.MaxUploadBytes); err != nil {
		if isTooLarge(err) {
			return model.AnalysisRequest{}, err
		}
		return model.AnalysisRequest{}, apperrors.InvalidInput("invalid form: %v", err)
	}

	req := model.AnalysisRequest{
		Content: strings.TrimSpace(r.FormValue("text")),
		Settings: model.Settings{
			ExpertiseLevel: model.ExpertiseLevel(r.FormValue("expertise_level")),
			AnalysisLength: model.AnalysisLength(r.FormValue("analysis_length")),
		},
	}

	file, header, err := r.FormFile("file")
	if err == http.ErrMissingFile {
		file, header, err = r.FormFile("image")
	}
	switch {
	case err == http.ErrMissingFile:
		req.ContentType = model.ContentText
	case err != nil:
		return model.AnalysisRequest{}, apperrors.InvalidInput("invalid upload: %v", err)
	default:
		defer func() { _ = file.Close() }()

		ct, err := model.ContentTypeForFile(header.Filename)
		if err != nil {
			return model.AnalysisRequest{}, err
		}
		data, err := io.ReadAll(io.LimitReader(file, model.MaxUploadBytes+1))
		if err != nil {
			return model.AnalysisRequest{}, fmt.Errorf("read upload: %w", err)
		}

		req.ContentType = ct
		req.Filename = header.Filename
		if ct == model.ContentText {
			if req.Content == "" {
				req.Content = strings.TrimSpace(string(data))
			}
		} else {
			req.Media = data
			req.MediaMIME = header.Header.Get("Content-Type")
			if req.MediaMIME == "" || req.MediaMIME == "application/octet-stream" {
				req.MediaMIME = http.DetectContentType(data)
			}
		}
	}

	return req, req.Validate()
}

func (s *Server) handleGetResult(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetView(w http.ResponseWriter, r *http.Request) {
	res, err := s.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, present.BuildView(res))
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	format, err := export.ParseFormat(r.URL.Query().Get("format"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	res, err := s.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	artifact, err := s.exporter.Export(r.Context(), res, format)
	if err != nil {
		s.respondError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", mime.FormatMediaType("attachment", map[string]string{"filename": artifact.Filename}))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}

func (s *Server) handleGetSession(w http.ResponseWriter, r *http.Request) {
	sid := chi.URLParam(r, "sid")
	renderer, ok := s.sessions.get(sid)
	if !ok {
		s.respondError(w, r, apperrors.NotFound("session %s not found", sid))
		return
	}
	respondJSON(w, http.StatusOK, renderer.Snapshot())
}

func isTooLarge(err error) bool {
	var maxBytes *http.MaxBytesError
	return errors.As(err, &maxBytes)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			return v
		}
	}
	return ""
}
