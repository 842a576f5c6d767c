package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/hyperjump/zodiac/internal/apperr"
	"github.com/hyperjump/zodiac/internal/models"
	"github.com/hyperjump/zodiac/internal/search"
)

type errorBody struct {
	Error string `json:"error"`
	Kind  string `json:"kind"`
}

type successBody struct {
	Success bool `json:"success"`
}

func (s *Server) handleCreateProject(w http.ResponseWriter, r *http.Request) {
	var in models.ProjectInput
	if !s.decode(w, r, &in) {
		return
	}
	p, err := s.svc.CreateProject(r.Context(), &in)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusCreated, struct {
		Success   bool            `json:"success"`
		ProjectID string          `json:"projectId"`
		Project   *models.Project `json:"project"`
	}{true, p.ID, p})
}

func (s *Server) handleListProjects(w http.ResponseWriter, r *http.Request) {
	projects, err := s.svc.ListProjects(r.Context(), r.URL.Query().Get("userId"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, projects)
}

func (s *Server) handleGetProject(w http.ResponseWriter, r *http.Request) {
	detail, err := s.svc.GetProject(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, detail)
}

func (s *Server) handleUpdateProject(w http.ResponseWriter, r *http.Request) {
	var up models.ProjectUpdate
	if !s.decode(w, r, &up) {
		return
	}
	p, err := s.svc.UpdateProject(r.Context(), chi.URLParam(r, "id"), &up)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, p)
}

func (s *Server) handleDeleteProject(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteProject(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *Server) handleScan(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("scan request", zap.String("project_id", id))
	res, err := s.svc.Scan(r.Context(), id)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.svc.Profile(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	var req models.GenerateRequest
	if !s.decode(w, r, &req) {
		return
	}
	id := chi.URLParam(r, "id")
	s.logger.Debug("generate request", zap.String("project_id", id), zap.Strings("types", req.OutputTypes))
	res, err := s.svc.Generate(r.Context(), id, &req)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, res)
}

func (s *Server) handleListOutputs(w http.ResponseWriter, r *http.Request) {
	outputs, err := s.svc.Outputs(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, outputs)
}

func (s *Server) handleSearchOutputs(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	opts := &search.Options{}
	if v := q.Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(w, r, apperr.Validation("limit must be a non-negative integer"))
			return
		}
		opts.Limit = n
	}
	if v := q.Get("fuzziness"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			s.respondError(w, r, apperr.Validation("fuzziness must be a non-negative integer"))
			return
		}
		opts.Fuzziness = n
	}
	results, err := s.svc.Search(r.Context(), chi.URLParam(r, "id"), q.Get("q"), opts)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]any{"results": results})
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	format := q.Get("format")
	if format == "" {
		format = "pdf"
	}
	all := false
	if v := q.Get("all"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			s.respondError(w, r, apperr.Validation("all must be a boolean"))
			return
		}
		all = b
	}
	artifact, err := s.svc.Export(r.Context(), chi.URLParam(r, "id"), format, all)
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", artifact.ContentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+artifact.Filename+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(artifact.Data)))
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(artifact.Data)
}

func (s *Server) handleGetOutput(w http.ResponseWriter, r *http.Request) {
	o, err := s.svc.Output(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, o)
}

func (s *Server) handleDeleteOutput(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteOutput(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, successBody{Success: true})
}

func (s *Server) handleTypes(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]any{"types": s.svc.Types()})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	st, err := s.svc.Status(r.Context())
	if err != nil {
		s.respondError(w, r, err)
		return
	}
	s.respondJSON(w, http.StatusOK, st)
}

// decode reads a JSON body into v. On failure it writes a 400 and returns false.
func (s *Server) decode(w http.ResponseWriter, r *http.Request, v any) bool {
	err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes)).Decode(v)
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	switch {
	case errors.As(err, &tooLarge):
		s.respondError(w, r, apperr.Validation("request body too large"))
	case errors.Is(err, io.EOF):
		s.respondError(w, r, apperr.Validation("request body is required"))
	default:
		s.respondError(w, r, apperr.Validation("invalid request body"))
	}
	return false
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// respondError writes the public message and kind of err. The internal
// cause is only logged.
func (s *Server) respondError(w http.ResponseWriter, r *http.Request, err error) {
	status := apperr.Status(err)
	fields := []zap.Field{
		zap.String("method", r.Method),
		zap.String("path", r.URL.Path),
		zap.String("request_id", middleware.GetReqID(r.Context())),
		zap.String("kind", apperr.KindOf(err).String()),
		zap.Int("status", status),
		zap.Error(err),
	}
	if status >= http.StatusInternalServerError {
		s.logger.Error("request failed", fields...)
	} else {
		s.logger.Debug("request rejected", fields...)
	}
	s.respondJSON(w, status, errorBody{
		Error: apperr.PublicMessage(err),
		Kind:  apperr.KindOf(err).String(),
	})
}
