package handlers

import (
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/exercise-tracker/apiserver/internal/storage"
	"github.com/go-chi/chi/v5"
)

// AssetHandler serves the landing page and public files from storage.
type AssetHandler struct {
	index    *storage.Storage
	indexKey string
	files    *storage.Storage
	prefix   string
	logger   *slog.Logger
}

// AssetConfig tells the handler where the landing page and public files live.
type AssetConfig struct {
	Index    *storage.Storage
	IndexKey string
	Files    *storage.Storage
	Prefix   string
}

func NewAssetHandler(cfg AssetConfig, logger *slog.Logger) *AssetHandler {
	if logger == nil {
		logger = slog.Default()
	}
	return &AssetHandler{
		index:    cfg.Index,
		indexKey: cfg.IndexKey,
		files:    cfg.Files,
		prefix:   cfg.Prefix,
		logger:   logger,
	}
}

// AssetRouter registers GET / and GET /public/* on r.
func AssetRouter(r chi.Router, cfg AssetConfig, logger *slog.Logger) {
	handler := NewAssetHandler(cfg, logger)
	r.Get("/", handler.Index)
	r.Get("/public/*", handler.Public)
}

func (h *AssetHandler) Index(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, h.index, h.indexKey)
}

func (h *AssetHandler) Public(w http.ResponseWriter, r *http.Request) {
	key := strings.TrimPrefix(chi.URLParam(r, "*"), "/")
	if key == "" || strings.Contains(key, "..") {
		http.NotFound(w, r)
		return
	}
	h.serve(w, r, h.files, h.prefix+key)
}

func (h *AssetHandler) serve(w http.ResponseWriter, r *http.Request, st *storage.Storage, key string) {
	info, err := st.Stat(r.Context(), key)
	if err != nil {
		h.fail(w, r, key, err)
		return
	}

	body, err := st.Get(r.Context(), key)
	if err != nil {
		h.fail(w, r, key, err)
		return
	}
	defer body.Close()

	if info.ContentType != "" {
		w.Header().Set("Content-Type", info.ContentType)
	}
	if info.CacheControl != "" {
		w.Header().Set("Cache-Control", info.CacheControl)
	}
	if info.Size > 0 {
		w.Header().Set("Content-Length", strconv.FormatInt(info.Size, 10))
	}
	if !info.ModTime.IsZero() {
		w.Header().Set("Last-Modified", info.ModTime.UTC().Format(http.TimeFormat))
	}
	w.WriteHeader(http.StatusOK)
	if r.Method == http.MethodHead {
		return
	}
	if _, err := io.Copy(w, body); err != nil {
		h.logger.Warn("stream asset", "key", key, "error", err)
	}
}

func (h *AssetHandler) fail(w http.ResponseWriter, r *http.Request, key string, err error) {
	if errors.Is(err, storage.ErrObjectNotFound) {
		http.NotFound(w, r)
		return
	}
	h.logger.Error("load asset", "key", key, "error", err)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
