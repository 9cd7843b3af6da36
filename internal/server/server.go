// Package server exposes the background message handler over HTTP so that
// page processes and the CLI can reach it.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/at-ishikawa/paperpilot/internal/lookup"
	"github.com/at-ishikawa/paperpilot/internal/messaging"
	"github.com/at-ishikawa/paperpilot/internal/preferences"
)

const (
	HealthPath = "/healthz"

	shutdownTimeout = 5 * time.Second
)

type PreferencesService interface {
	Get(ctx context.Context) (preferences.Preferences, error)
	Set(ctx context.Context, update preferences.Update) error
}

type Server struct {
	receiver    messaging.Receiver
	preferences PreferencesService
	router      *chi.Mux
}

func New(receiver messaging.Receiver, prefs PreferencesService) *Server {
	s := &Server{
		receiver:    receiver,
		preferences: prefs,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(requestLogger)
	r.Use(middleware.Recoverer)
	r.Use(corsMiddleware)

	r.Get(HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	})
	r.Post(messaging.MessagesPath, s.handleMessage)
	r.Get(preferences.Path, s.getPreferences)
	r.Put(preferences.Path, s.putPreferences)
	s.router = r
	return s
}

func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves until ctx is cancelled, then drains in-flight requests.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	listener, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("net.Listen > %w", err)
	}
	return s.Serve(ctx, listener)
}

func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	httpServer := &http.Server{
		Handler:           h2c.NewHandler(s.router, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Default().Info("starting server", "address", listener.Addr().String())
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("httpServer.Serve > %w", err)
	case <-ctx.Done():
	}

	slog.Default().Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("httpServer.Shutdown > %w", err)
	}
	return nil
}

func (s *Server) handleMessage(w http.ResponseWriter, r *http.Request) {
	var request messaging.Request
	if err := json.NewDecoder(r.Body).Decode(&request); err != nil {
		writeJSON(w, http.StatusBadRequest, messaging.ErrorResponse(fmt.Sprintf("invalid message: %v", err)))
		return
	}
	writeJSON(w, http.StatusOK, s.receiver.Handle(r.Context(), request))
}

func (s *Server) getPreferences(w http.ResponseWriter, r *http.Request) {
	prefs, err := s.preferences.Get(r.Context())
	if err != nil {
		slog.Default().Error("failed to read preferences", "error", err)
		writeJSON(w, http.StatusInternalServerError, messaging.ErrorResponse(lookup.Message(err)))
		return
	}
	writeJSON(w, http.StatusOK, prefs)
}

func (s *Server) putPreferences(w http.ResponseWriter, r *http.Request) {
	var update preferences.Update
	if err := json.NewDecoder(r.Body).Decode(&update); err != nil {
		writeJSON(w, http.StatusBadRequest, messaging.ErrorResponse(fmt.Sprintf("invalid preferences: %v", err)))
		return
	}
	if err := s.preferences.Set(r.Context(), update); err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, preferences.ErrInvalid) {
			status = http.StatusBadRequest
		} else {
			slog.Default().Error("failed to save preferences", "error", err)
		}
		writeJSON(w, status, messaging.ErrorResponse(err.Error()))
		return
	}
	s.getPreferences(w, r)
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		slog.Default().Error("failed to write response", "error", err)
	}
}

func requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		slog.Default().Debug("served request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()))
	})
}

// Page processes run on arbitrary origins.
func corsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, "+messaging.RequestIDHeader)
		w.Header().Set("Access-Control-Max-Age", "3600")

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		next.ServeHTTP(w, r)
	})
}
