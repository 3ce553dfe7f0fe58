// Command arcana serves the Arcane Archives catalog API: the built-in
// esoteric collection, fuzzy search, and the archive-a-manuscript flow
// (upload, AI metadata inference, local persistence).
package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/joho/godotenv"
	_ "modernc.org/sqlite"

	"github.com/hazyhaar/arcana/archive"
	"github.com/hazyhaar/arcana/dbopen"
	"github.com/hazyhaar/arcana/extract"
	"github.com/hazyhaar/arcana/scribe"
	"github.com/hazyhaar/arcana/seeker"
	"github.com/hazyhaar/arcana/shelf"
	"github.com/hazyhaar/arcana/shield"
)

func main() {
	// Local development convenience; absence of .env is fine.
	_ = godotenv.Load()

	cfg, err := loadConfig(env("CONFIG", "config.yaml"))
	if err != nil {
		slog.Error("config", "error", err)
		os.Exit(1)
	}
	cfg.Port = env("PORT", cfg.Port)
	cfg.DBPath = env("ARCHIVE_DB", cfg.DBPath)
	cfg.LogLevel = env("LOG_LEVEL", cfg.LogLevel)
	cfg.Scribe.BaseURL = env("GEMINI_BASE_URL", cfg.Scribe.BaseURL)
	cfg.Scribe.Model = env("GEMINI_MODEL", cfg.Scribe.Model)
	apiKey := os.Getenv("GEMINI_API_KEY")
	if apiKey == "" {
		apiKey = os.Getenv("API_KEY")
	}

	// Logging.
	var lvl slog.Level
	switch cfg.LogLevel {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: lvl}))
	slog.SetDefault(logger)

	// Signal context.
	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()

	// Archive DB.
	db, err := dbopen.Open(cfg.DBPath, dbopen.WithMkdirAll())
	if err != nil {
		slog.Error("archive db", "error", err)
		os.Exit(1)
	}
	defer db.Close()

	store, err := shelf.New(db)
	if err != nil {
		slog.Error("shelf init", "error", err)
		os.Exit(1)
	}

	maxUpload := cfg.MaxUploadMB << 20

	svc, err := archive.New(archive.Config{
		Store: store,
		Analyzer: scribe.New(scribe.Config{
			APIKey:   apiKey,
			BaseURL:  cfg.Scribe.BaseURL,
			Model:    cfg.Scribe.Model,
			Timeout:  time.Duration(cfg.Scribe.TimeoutSecs) * time.Second,
			MaxChars: cfg.Scribe.MaxChars,
			Logger:   logger,
		}),
		Extractor: extract.New(extract.Config{
			MaxFileSize: maxUpload,
			Logger:      logger,
		}),
		Search: seeker.Options{
			Threshold:      cfg.Search.Threshold,
			MinMatchLength: cfg.Search.MinMatchLength,
		},
		Logger: logger,
	})
	if err != nil {
		slog.Error("archive service", "error", err)
		os.Exit(1)
	}
	if err := svc.Load(ctx); err != nil {
		slog.Error("catalog load", "error", err)
		os.Exit(1)
	}
	if !svc.Configured() {
		slog.Warn("no API key set, manuscript inference disabled")
	}

	// Router. Body cap leaves headroom for multipart framing around
	// the maximum accepted file.
	r := chi.NewRouter()
	for _, mw := range shield.DefaultStack(maxUpload + 1<<20) {
		r.Use(mw)
	}

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		writeJSON(w, 200, map[string]string{"status": "ok"})
	})

	r.Route("/api", func(r chi.Router) {
		r.Get("/config", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, 200, map[string]bool{"aiConfigured": svc.Configured()})
		})

		r.Get("/books", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, 200, svc.List())
		})

		r.Get("/books/{id}", func(w http.ResponseWriter, r *http.Request) {
			entry, err := svc.Get(chi.URLParam(r, "id"))
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, 200, entry)
		})

		r.Delete("/books/{id}", func(w http.ResponseWriter, r *http.Request) {
			if err := svc.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, 200, map[string]string{"status": "deleted"})
		})

		r.Get("/categories", func(w http.ResponseWriter, _ *http.Request) {
			writeJSON(w, 200, svc.Categories())
		})

		r.Get("/search", func(w http.ResponseWriter, r *http.Request) {
			q := r.URL.Query().Get("q")
			category := r.URL.Query().Get("category")
			writeJSON(w, 200, svc.Search(q, category))
		})

		r.Post("/archive", func(w http.ResponseWriter, r *http.Request) {
			sub, err := readSubmission(r)
			if err != nil {
				writeError(w, r, err)
				return
			}
			entry, err := svc.Archive(r.Context(), sub)
			if err != nil {
				writeError(w, r, err)
				return
			}
			writeJSON(w, 201, entry)
		})
	})

	// HTTP server.
	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      3 * time.Minute, // inference can be slow
		IdleTimeout:       60 * time.Second,
	}

	go func() {
		slog.Info("server starting", "port", cfg.Port, "db", cfg.DBPath)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	<-ctx.Done()
	slog.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		slog.Error("shutdown", "error", err)
	}
	slog.Info("server stopped")
}

// readSubmission accepts either a multipart upload (field "file") or a
// JSON body with a textContent field.
func readSubmission(r *http.Request) (archive.Submission, error) {
	ct, _, _ := mime.ParseMediaType(r.Header.Get("Content-Type"))
	if ct == "multipart/form-data" {
		file, hdr, err := r.FormFile("file")
		if err != nil {
			return archive.Submission{}, fmt.Errorf("%w: missing file field: %v", errBadRequest, err)
		}
		defer file.Close()
		data, err := io.ReadAll(file)
		if err != nil {
			return archive.Submission{}, fmt.Errorf("read upload: %w", err)
		}
		return archive.Submission{
			FileName: hdr.Filename,
			FileMIME: uploadMIME(hdr.Filename, hdr.Header.Get("Content-Type")),
			FileData: data,
		}, nil
	}

	var body struct {
		TextContent string `json:"textContent"`
	}
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		return archive.Submission{}, fmt.Errorf("%w: invalid JSON body: %v", errBadRequest, err)
	}
	return archive.Submission{Text: body.TextContent}, nil
}

// uploadMIME prefers the declared part content type and falls back to
// the file extension. Browsers occasionally omit the type for .txt.
func uploadMIME(name, declared string) string {
	if declared != "" && declared != "application/octet-stream" {
		return declared
	}
	if byExt := mime.TypeByExtension(strings.ToLower(filepath.Ext(name))); byExt != "" {
		return byExt
	}
	return declared
}

var errBadRequest = errors.New("bad request")

// writeError maps domain errors onto HTTP statuses and the user-facing
// wording the UI shows verbatim.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := 500
	msg := "An unexpected error occurred."

	var maxBytes *http.MaxBytesError
	switch {
	case errors.As(err, &maxBytes):
		status, msg = 413, "The manuscript is too large to archive."
	case errors.Is(err, errBadRequest):
		status, msg = 400, "The request could not be understood."
	case errors.Is(err, extract.ErrUnsupportedFormat):
		status, msg = 415, "Unsupported file format. Only plain text and PDF manuscripts are accepted."
	case errors.Is(err, extract.ErrRead):
		status, msg = 400, "The manuscript file could not be read. It may be corrupted or empty."
	case errors.Is(err, archive.ErrEmptyManuscript):
		status, msg = 400, "The manuscript is empty. Provide text or a readable file."
	case errors.Is(err, scribe.ErrNotConfigured):
		status, msg = 503, "Configuration Error: The AI Scribe is not properly configured. Please contact the administrator."
	case errors.Is(err, scribe.ErrRefused):
		status, msg = 422, "The AI Scribe refused to process the manuscript. It may contain sensitive content or violate safety policies."
	case errors.Is(err, scribe.ErrMalformed):
		status, msg = 502, "The AI Scribe provided a malformed response. Please try again."
	case errors.Is(err, scribe.ErrFailed):
		status, msg = 502, "The AI Scribe failed to interpret the manuscript. An unexpected error occurred."
	case errors.Is(err, shelf.ErrUnavailable):
		status, msg = 503, "The archive vault is temporarily unavailable. Please try again."
	case errors.Is(err, archive.ErrBuiltin):
		status, msg = 403, "Entries from the permanent collection cannot be removed."
	case errors.Is(err, archive.ErrNotFound):
		status, msg = 404, "No such entry in the archives."
	}

	shield.GetLogger(r.Context()).Warn("request failed", "status", status, "error", err)
	writeJSON(w, status, map[string]string{"error": msg})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func env(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}
