package server

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/MeKo-Tech/noisefield/internal/archive"
)

// ArchiveHandler serves tiles out of a pre-generated archive file.
type ArchiveHandler struct {
	reader       *archive.Reader
	logger       *slog.Logger
	cacheControl string
}

// ArchiveConfig configures the archive handler.
type ArchiveConfig struct {
	ArchivePath  string
	CacheControl string
}

// NewArchiveHandler opens the archive for serving.
func NewArchiveHandler(cfg ArchiveConfig, logger *slog.Logger) (*ArchiveHandler, error) {
	reader, err := archive.OpenReader(cfg.ArchivePath)
	if err != nil {
		return nil, fmt.Errorf("failed to open archive: %w", err)
	}

	cacheControl := cfg.CacheControl
	if cacheControl == "" {
		cacheControl = "public, max-age=86400"
	}

	return &ArchiveHandler{
		reader:       reader,
		logger:       logger,
		cacheControl: cacheControl,
	}, nil
}

// Handler serves tile requests under /tiles/. The @2x suffix is
// ignored; archives hold a single resolution.
func (h *ArchiveHandler) Handler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		coords, _, ok := parseTilePath(r.URL.Path)
		if !ok {
			http.NotFound(w, r)
			return
		}

		data, err := h.reader.ReadTile(int(coords.Z), int(coords.X), int(coords.Y))
		if err != nil {
			if errors.Is(err, sql.ErrNoRows) {
				http.Error(w, "tile not found", http.StatusNotFound)
				return
			}
			h.log().Error("failed to read tile", "coords", coords.String(), "error", err)
			http.Error(w, "failed to read tile", http.StatusInternalServerError)
			return
		}

		w.Header().Set("Cache-Control", h.cacheControl)
		w.Header().Set("Content-Type", "image/png")
		if _, err := w.Write(data); err != nil {
			h.log().Error("failed to write response", "error", err)
		}
	})
}

// MetadataHandler serves the archive metadata as JSON.
func (h *ArchiveHandler) MetadataHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		meta, err := h.reader.Metadata()
		if err != nil {
			h.log().Error("failed to read metadata", "error", err)
			http.Error(w, "failed to read metadata", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		if err := json.NewEncoder(w).Encode(meta); err != nil {
			h.log().Error("failed to encode metadata", "error", err)
		}
	})
}

// Close closes the underlying archive.
func (h *ArchiveHandler) Close() error {
	return h.reader.Close()
}

func (h *ArchiveHandler) log() *slog.Logger {
	if h.logger != nil {
		return h.logger
	}
	return slog.Default()
}
