package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/talentlens/resume-cli/internal/analyzer"
	"github.com/talentlens/resume-cli/internal/taxonomy"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start HTTP API for resume analysis",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initAnalyzer(ctx)
		if err != nil {
			return err
		}
		defer env.Close()

		r := chi.NewRouter()
		r.Use(middleware.RequestID)
		r.Use(middleware.Recoverer)
		r.Use(cors.Handler(cors.Options{
			AllowedOrigins: []string{"*"},
			AllowedMethods: []string{"GET", "POST", "OPTIONS"},
			AllowedHeaders: []string{"Accept", "Content-Type"},
		}))

		r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
		})

		r.Get("/backends", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, env.Registry.Descriptors())
		})

		r.Get("/cache/stats", func(w http.ResponseWriter, r *http.Request) {
			writeJSON(w, http.StatusOK, env.Analyzer.CacheStats())
		})

		r.Post("/analyze", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				Text  string `json:"text"`
				Field string `json:"field"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}

			result, err := env.Analyzer.Analyze(r.Context(), req.Text, req.Field)
			if err != nil {
				writeError(w, statusForError(err), err.Error())
				return
			}
			writeJSON(w, http.StatusOK, result)
		})

		r.Post("/match", func(w http.ResponseWriter, r *http.Request) {
			var req struct {
				ResumeText string `json:"resume_text"`
				JobText    string `json:"job_text"`
				Field      string `json:"field"`
			}
			if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
				writeError(w, http.StatusBadRequest, "invalid request body")
				return
			}

			result, err := env.Analyzer.Analyze(r.Context(), req.ResumeText, req.Field)
			if err != nil {
				writeError(w, statusForError(err), err.Error())
				return
			}

			match, err := env.Analyzer.Match(r.Context(), result, req.JobText)
			if err != nil {
				writeError(w, statusForError(err), err.Error())
				return
			}
			writeJSON(w, http.StatusOK, match)
		})

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:    fmt.Sprintf(":%d", port),
			Handler: r,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			shutdownServer(srv)
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

const shutdownTimeout = 10 * time.Second

// shutdownServer drains in-flight requests under its own deadline. The
// signal context that triggered the shutdown is already canceled, so it
// cannot be used here.
func shutdownServer(srv *http.Server) {
	ctx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		zap.L().Warn("server shutdown", zap.Error(err))
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func statusForError(err error) int {
	switch {
	case errors.Is(err, analyzer.ErrMalformedInput):
		return http.StatusBadRequest
	case errors.Is(err, taxonomy.ErrFieldNotFound):
		return http.StatusNotFound
	case errors.Is(err, analyzer.ErrNoBackendAvailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
