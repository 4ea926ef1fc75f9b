// Package server exposes the event logger over HTTP: a JSON API consumed by
// the embedded browser form, and the form itself. The presentation layer has
// no logic beyond rendering; every state change goes through the recorder.
package server

import (
	"context"
	"embed"
	"encoding/json"
	"io/fs"
	"log"
	"net/http"
	"time"

	"github.com/google/uuid"

	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/config"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/domain"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/errors"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/recorder"
	"github.com/BCM-Neurosurgery/trbd-event-logger/internal/validation"
)

//go:embed assets
var assetsFS embed.FS

// Server serves the browser form and the JSON API.
type Server struct {
	httpServer      *http.Server
	recorder        recorder.Recorder
	logger          *log.Logger
	shutdownTimeout time.Duration
}

// New creates a Server bound to the configured address.
func New(cfg *config.Config, rec recorder.Recorder, logger *log.Logger) *Server {
	s := &Server{
		recorder:        rec,
		logger:          logger,
		shutdownTimeout: cfg.Server.ShutdownTimeout,
	}

	s.httpServer = &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      s.requestLogger(s.routes()),
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
	}

	return s
}

// routes builds the handler mux.
func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()

	assets, err := fs.Sub(assetsFS, "assets")
	if err != nil {
		panic(err) // embedded tree is fixed at build time
	}
	mux.Handle("GET /", http.FileServerFS(assets))

	mux.HandleFunc("POST /api/toggle", s.handleToggle)
	mux.HandleFunc("POST /api/abort", s.handleAbort)
	mux.HandleFunc("POST /api/missed", s.handleMissed)
	mux.HandleFunc("GET /api/status", s.handleStatus)
	mux.HandleFunc("GET /api/categories", s.handleCategories)

	return mux
}

// Run serves until the context is canceled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Printf("listening on http://%s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
	defer cancel()
	return s.httpServer.Shutdown(shutdownCtx)
}

// Handler exposes the routed handler for tests.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

type toggleRequest struct {
	Event string `json:"event"`
	Notes string `json:"notes"`
}

type abortRequest struct {
	Notes string `json:"notes"`
}

type missedRequest struct {
	Event     string `json:"event"`
	StartTime string `json:"start_time"` // HH:MM:SS, today, local time
	EndTime   string `json:"end_time"`   // HH:MM:SS, today, local time
	Notes     string `json:"notes"`
}

type statusResponse struct {
	Status      string  `json:"status"`
	ActiveEvent *string `json:"active_event"`
}

type categoriesResponse struct {
	Categories []string `json:"categories"`
}

func (s *Server) handleToggle(w http.ResponseWriter, r *http.Request) {
	var req toggleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.NewInvalidInputError("body", nil, "malformed JSON payload"))
		return
	}

	result, err := s.recorder.Toggle(r.Context(), req.Event, req.Notes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{Status: result.Status, ActiveEvent: result.ActiveEvent})
}

func (s *Server) handleAbort(w http.ResponseWriter, r *http.Request) {
	var req abortRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.NewInvalidInputError("body", nil, "malformed JSON payload"))
		return
	}

	result, err := s.recorder.Abort(r.Context(), req.Notes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{Status: result.Status, ActiveEvent: result.ActiveEvent})
}

func (s *Server) handleMissed(w http.ResponseWriter, r *http.Request) {
	var req missedRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeError(w, errors.NewInvalidInputError("body", nil, "malformed JSON payload"))
		return
	}

	start, err := parseTodayTime(req.StartTime)
	if err != nil {
		s.writeError(w, errors.NewInvalidInputError("start_time", req.StartTime, "expected HH:MM:SS"))
		return
	}
	end, err := parseTodayTime(req.EndTime)
	if err != nil {
		s.writeError(w, errors.NewInvalidInputError("end_time", req.EndTime, "expected HH:MM:SS"))
		return
	}

	result, err := s.recorder.LogMissed(r.Context(), req.Event, start, end, req.Notes)
	if err != nil {
		s.writeError(w, err)
		return
	}
	s.writeJSON(w, http.StatusOK, statusResponse{Status: result.Status, ActiveEvent: result.ActiveEvent})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	resp := statusResponse{Status: "Press a button to start an event"}
	if active := s.recorder.Current(); active != nil {
		resp.Status = active.EventType + " is active"
		resp.ActiveEvent = &active.EventType
	}
	s.writeJSON(w, http.StatusOK, resp)
}

func (s *Server) handleCategories(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, http.StatusOK, categoriesResponse{Categories: s.recorder.Categories()})
}

// parseTodayTime interprets an HH:MM:SS string as a wall-clock time today.
func parseTodayTime(value string) (time.Time, error) {
	parsed, err := time.ParseInLocation(domain.TimeLayout, value, time.Local)
	if err != nil {
		return time.Time{}, err
	}
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(),
		parsed.Hour(), parsed.Minute(), parsed.Second(), 0, time.Local), nil
}

func (s *Server) writeJSON(w http.ResponseWriter, code int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		s.logger.Printf("write response: %v", err)
	}
}

// writeError maps domain errors onto HTTP codes. The body keeps the same
// shape as a success response so the form renders it the same way.
func (s *Server) writeError(w http.ResponseWriter, err error) {
	code := http.StatusInternalServerError
	if validation.IsValidationError(err) {
		code = http.StatusBadRequest
	} else if appErr, ok := errors.AsAppError(err); ok {
		switch appErr.Type {
		case errors.ErrorTypeValidation, errors.ErrorTypeInvalidInput:
			code = http.StatusBadRequest
		case errors.ErrorTypeNoActiveEvent:
			code = http.StatusConflict
		case errors.ErrorTypeNotFound:
			code = http.StatusNotFound
		case errors.ErrorTypeTimeout:
			code = http.StatusGatewayTimeout
		case errors.ErrorTypeWriteFailure:
			code = http.StatusInternalServerError
		}
	}

	if errors.ShouldLogError(err) {
		s.logger.Printf("request failed: %v", err)
	}

	resp := statusResponse{Status: userMessage(err)}
	if active := s.recorder.Current(); active != nil {
		resp.ActiveEvent = &active.EventType
	}
	s.writeJSON(w, code, resp)
}

func userMessage(err error) string {
	if validationErr, ok := err.(*validation.ValidationError); ok {
		return validationErr.GetUserFriendlyMessage()
	}
	return errors.GetUserMessage(err)
}

// requestLogger tags every request with a short ID and logs method, path,
// status, and duration.
func (s *Server) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := uuid.NewString()[:8]
		start := time.Now()
		wrapped := &statusRecorder{ResponseWriter: w, status: http.StatusOK}

		next.ServeHTTP(wrapped, r)

		s.logger.Printf("[%s] %s %s %d %s",
			requestID, r.Method, r.URL.Path, wrapped.status, time.Since(start).Round(time.Millisecond))
	})
}

// statusRecorder captures the response status for logging.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (sr *statusRecorder) WriteHeader(code int) {
	sr.status = code
	sr.ResponseWriter.WriteHeader(code)
}
