package http

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/m-mizutani/goerr/v2"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/usecase"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/utils/errutil"
	"github.com/mshadianto/kitab-mazhab-ai/pkg/utils/logging"
)

type Server struct {
	router        *chi.Mux
	uc            *usecase.UseCases
	wahaHandler   *WahaWebhookHandler
	knowledgePath string
}

type Options func(*Server)

// WithWahaWebhook mounts the WAHA webhook endpoint
func WithWahaWebhook(handler *WahaWebhookHandler) Options {
	return func(s *Server) {
		s.wahaHandler = handler
	}
}

// WithKnowledgePath sets the file reloaded by POST /api/reindex
func WithKnowledgePath(path string) Options {
	return func(s *Server) {
		s.knowledgePath = path
	}
}

func New(uc *usecase.UseCases, opts ...Options) *Server {
	r := chi.NewRouter()

	s := &Server{
		router: r,
		uc:     uc,
	}
	for _, opt := range opts {
		opt(s)
	}

	// Middleware
	r.Use(middleware.RequestID)
	r.Use(accessLogger)
	r.Use(middleware.Recoverer)

	r.Get("/health", s.healthHandler)

	r.Route("/api", func(r chi.Router) {
		r.Post("/chat", s.chatHandler)
		r.Get("/stats", s.statsHandler)
		r.Post("/reindex", s.reindexHandler)
	})

	if s.wahaHandler != nil {
		r.Post("/hooks/waha", s.wahaHandler.ServeHTTP)
	}

	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// accessLogger is a middleware that logs HTTP requests
func accessLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)

		defer func() {
			logging.Default().Info("access",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"remote", r.RemoteAddr,
			)
		}()

		next.ServeHTTP(ww, r)
	})
}

func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	status := s.uc.Status(r.Context())

	resp := map[string]any{
		"retrieval_ready": status.RetrievalReady,
		"agent_ready":     status.AgentReady,
		"transport_ready": s.wahaHandler != nil,
	}
	writeJSON(r.Context(), w, resp)
}

func (s *Server) chatHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req struct {
		UserID  string `json:"user_id"`
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to decode chat request"), http.StatusBadRequest)
		return
	}
	if req.UserID == "" {
		errutil.HandleHTTP(ctx, w, goerr.New("user_id is required"), http.StatusBadRequest)
		return
	}

	answer, err := s.uc.Chat(ctx, req.UserID, req.Message)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to process chat"), http.StatusInternalServerError)
		return
	}

	writeJSON(ctx, w, map[string]any{
		"answer":     answer.Text,
		"tools_used": answer.ToolsUsed,
		"degraded":   answer.Degraded,
	})
}

func (s *Server) statsHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := s.uc.Stats(ctx)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to collect stats"), http.StatusInternalServerError)
		return
	}
	writeJSON(ctx, w, stats)
}

func (s *Server) reindexHandler(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := s.uc.Reindex(ctx, s.knowledgePath); err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to reindex"), http.StatusInternalServerError)
		return
	}

	stats, err := s.uc.Stats(ctx)
	if err != nil {
		errutil.HandleHTTP(ctx, w, goerr.Wrap(err, "failed to collect stats"), http.StatusInternalServerError)
		return
	}
	writeJSON(ctx, w, stats)
}

func writeJSON(ctx context.Context, w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logging.From(ctx).Error("failed to encode response", logging.ErrAttr(err))
	}
}
