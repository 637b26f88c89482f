// Package server exposes the assessment engine over HTTP and WebSocket.
package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	httpSwagger "github.com/swaggo/http-swagger/v2"

	"github.com/seclens/seclens/internal/assessor"
	"github.com/seclens/seclens/internal/interfaces"
	"github.com/seclens/seclens/internal/knowledge"
	"github.com/seclens/seclens/internal/model"
	"github.com/seclens/seclens/internal/registry"
	"github.com/seclens/seclens/internal/ws"
)

// Server is the HTTP + WebSocket API surface.
type Server struct {
	cfg      Config
	engine   *assessor.Engine
	index    *knowledge.Index
	registry *registry.Registry
	hub      *ws.Hub
	router   chi.Router
	logger   interfaces.Logger
}

// NewServer wires the API surface around an already-built engine, index,
// registry and hub. Construction of those belongs to the caller (see
// cmd wiring in main).
func NewServer(cfg Config, engine *assessor.Engine, index *knowledge.Index, reg *registry.Registry, hub *ws.Hub, logger interfaces.Logger) (*Server, error) {
	if engine == nil {
		return nil, fmt.Errorf("server: engine is nil")
	}
	if index == nil {
		return nil, fmt.Errorf("server: index is nil")
	}
	if reg == nil {
		return nil, fmt.Errorf("server: registry is nil")
	}
	if hub == nil {
		return nil, fmt.Errorf("server: hub is nil")
	}
	if logger == nil {
		return nil, fmt.Errorf("server: logger is nil")
	}

	s := &Server{
		cfg:      cfg,
		engine:   engine,
		index:    index,
		registry: reg,
		hub:      hub,
		router:   chi.NewRouter(),
		logger:   logger.With(interfaces.Field{Key: "component", Value: "server"}),
	}
	s.routes()
	return s, nil
}

func (s *Server) routes() {
	r := s.router

	r.Use(s.corsMiddleware)

	// CORS preflight
	r.Options("/api/v1/assessment/assess", s.optionsHandler("POST"))
	r.Options("/api/v1/assessment/search/similar", s.optionsHandler("POST"))
	r.Options("/api/v1/assessments", s.optionsHandler("GET"))
	r.Options("/api/v1/assessments/{id}", s.optionsHandler("GET"))

	r.Get("/health", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/assessment/assess", s.handleAssess)
		r.Post("/assessment/search/similar", s.handleSearchSimilar)
		r.Get("/assessments", s.handleListAssessments)
		r.Get("/assessments/{id}", s.handleGetAssessment)
	})

	// Live assessment feed
	r.Get("/ws", s.hub.ServeWS)

	// Interactive API docs
	r.Get("/swagger/*", httpSwagger.Handler())
}

func (s *Server) corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
		w.Header().Set("Access-Control-Max-Age", "86400")

		next.ServeHTTP(w, r)
	})
}

func (s *Server) optionsHandler(methods string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Methods", methods)
		w.WriteHeader(http.StatusNoContent)
	}
}

// ServeHTTP implements http.Handler with request logging.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	fields := []interfaces.Field{
		{Key: "method", Value: r.Method},
		{Key: "path", Value: r.URL.Path},
	}

	if q := r.URL.Query(); len(q) > 0 {
		fields = append(fields, interfaces.Field{Key: "query", Value: q})
	}

	if r.Body != nil && r.Method == http.MethodPost {
		if bodyBytes, err := io.ReadAll(r.Body); err == nil {
			fields = append(fields, interfaces.Field{Key: "body_bytes", Value: len(bodyBytes)})
			r.Body = io.NopCloser(bytes.NewReader(bodyBytes))
		}
	}

	s.logger.Info("http_request", fields...)

	s.router.ServeHTTP(w, r)
}

// HTTPServer creates an *http.Server ready to ListenAndServe.
func (s *Server) HTTPServer() *http.Server {
	return &http.Server{
		Addr:         s.cfg.ListenAddr,
		Handler:      s,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 0, // assessments can be slow; the engine enforces its own timeouts
	}
}

// --- JSON helpers ---

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		_ = json.NewEncoder(w).Encode(v)
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

// --- HTTP handlers ---

// handleHealth godoc
// @Summary Service health
// @Produce json
// @Success 200 {object} map[string]any
// @Router /health [get]
func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":     "ok",
		"techniques": s.index.Len(),
	})
}

// handleAssess godoc
// @Summary Run a security assessment
// @Accept json
// @Produce json
// @Param request body model.AssessmentRequest true "assessment request"
// @Success 200 {object} model.AssessmentResult
// @Failure 400 {object} map[string]string
// @Router /api/v1/assessment/assess [post]
func (s *Server) handleAssess(w http.ResponseWriter, r *http.Request) {
	var req model.AssessmentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if err := req.Validate(); err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	result, err := s.engine.Assess(r.Context(), &req)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			return
		}
		s.logger.Warn("assessment failed", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}

	// Persistence is best-effort: a storage failure must not cost the caller
	// their result.
	if _, err := s.registry.Save(r.Context(), result); err != nil {
		s.logger.Warn("storing assessment", interfaces.Field{Key: "error", Value: err.Error()})
	}

	s.hub.Broadcast("assessment_completed", registry.Summary{
		ID:               result.ID,
		OrganizationName: result.OrganizationName,
		ProjectName:      result.ProjectName,
		Timestamp:        result.Timestamp,
		OverallScore:     result.OverallScore,
		OverallRiskLevel: result.OverallRiskLevel,
	})

	writeJSON(w, http.StatusOK, result)
}

// handleSearchSimilar godoc
// @Summary Search the knowledge base for similar techniques
// @Accept json
// @Produce json
// @Success 200 {array} knowledge.Match
// @Failure 400 {object} map[string]string
// @Router /api/v1/assessment/search/similar [post]
func (s *Server) handleSearchSimilar(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Text  string `json:"text"`
		Limit int    `json:"limit"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON")
		return
	}
	if body.Text == "" {
		writeError(w, http.StatusBadRequest, "text is required")
		return
	}
	if body.Limit <= 0 {
		body.Limit = 5
	}

	matches, err := s.index.Search(r.Context(), body.Text, body.Limit)
	if err != nil {
		s.logger.Warn("similarity search failed", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if matches == nil {
		matches = []knowledge.Match{}
	}
	writeJSON(w, http.StatusOK, matches)
}

// handleListAssessments godoc
// @Summary List stored assessments
// @Produce json
// @Param limit query int false "max results"
// @Success 200 {array} registry.Summary
// @Router /api/v1/assessments [get]
func (s *Server) handleListAssessments(w http.ResponseWriter, r *http.Request) {
	limit := s.cfg.HistoryLimit
	if v := r.URL.Query().Get("limit"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			writeError(w, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = n
	}

	list, err := s.registry.List(r.Context(), limit)
	if err != nil {
		s.logger.Warn("listing assessments", interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// handleGetAssessment godoc
// @Summary Get one stored assessment
// @Produce json
// @Param id path string true "assessment id"
// @Success 200 {object} model.AssessmentResult
// @Failure 404 {object} map[string]string
// @Router /api/v1/assessments/{id} [get]
func (s *Server) handleGetAssessment(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	res, err := s.registry.Get(r.Context(), id)
	if err != nil {
		if errors.Is(err, registry.ErrAssessmentNotFound) {
			writeError(w, http.StatusNotFound, "assessment not found")
			return
		}
		s.logger.Warn("loading assessment", interfaces.Field{Key: "id", Value: id}, interfaces.Field{Key: "error", Value: err.Error()})
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	writeJSON(w, http.StatusOK, res)
}
