// Package backend is a local stand-in for the document Q&A service. It speaks
// the same wire contract as the real endpoint and answers with markup built
// from the question, which is enough to exercise the widget end to end.
package backend

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
)

const DefaultAddr = "127.0.0.1:5800"

type askPayload struct {
	Message string `json:"message"`
}

type answerPayload struct {
	Data string `json:"data"`
}

type errorPayload struct {
	Error string `json:"error"`
}

// Answerer produces the markup answer for a question
type Answerer func(ctx context.Context, question string) (string, error)

// EchoAnswer quotes the question back as markup
func EchoAnswer(_ context.Context, question string) (string, error) {
	var b strings.Builder
	b.WriteString("**You asked:**\n\n")
	for _, line := range strings.Split(strings.TrimSpace(question), "\n") {
		b.WriteString("> ")
		b.WriteString(line)
		b.WriteString("\n")
	}
	b.WriteString("\n_This is the local echo backend. Point `backend.endpoint` at a real Q&A service for document answers._")
	return b.String(), nil
}

// NewRouter wires the /api endpoint
func NewRouter(answer Answerer, log zerolog.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Post("/api", handleAsk(answer, log))

	return r
}

func handleAsk(answer Answerer, log zerolog.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload askPayload
		if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
			respondJSON(w, log, http.StatusBadRequest, errorPayload{Error: "invalid request body"})
			return
		}
		if strings.TrimSpace(payload.Message) == "" {
			respondJSON(w, log, http.StatusBadRequest, errorPayload{Error: "message is required"})
			return
		}

		data, err := answer(r.Context(), payload.Message)
		if err != nil {
			log.Error().Err(err).Str("request_id", middleware.GetReqID(r.Context())).Msg("answer failed")
			respondJSON(w, log, http.StatusInternalServerError, errorPayload{Error: "could not answer"})
			return
		}

		respondJSON(w, log, http.StatusOK, answerPayload{Data: data})
	}
}

func respondJSON(w http.ResponseWriter, log zerolog.Logger, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Warn().Err(err).Msg("failed to encode response")
	}
}

func requestLogger(log zerolog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			start := time.Now()
			defer func() {
				log.Info().
					Str("request_id", middleware.GetReqID(r.Context())).
					Str("method", r.Method).
					Str("path", r.URL.Path).
					Int("status", ww.Status()).
					Dur("elapsed", time.Since(start)).
					Msg("request")
			}()
			next.ServeHTTP(ww, r)
		})
	}
}

// Server runs the echo backend on a TCP address
type Server struct {
	server *http.Server
	log    zerolog.Logger
}

func NewServer(addr string, answer Answerer, log zerolog.Logger) *Server {
	if addr == "" {
		addr = DefaultAddr
	}
	return &Server{
		server: &http.Server{
			Addr:              addr,
			Handler:           NewRouter(answer, log),
			ReadHeaderTimeout: 10 * time.Second,
		},
		log: log,
	}
}

// Run serves until ctx is cancelled, then shuts down gracefully
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.server.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.server.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", ln.Addr().String()).Msg("echo backend listening")
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := s.server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		s.log.Info().Msg("echo backend stopped")
		return nil
	}
}
