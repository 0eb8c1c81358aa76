package server

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/hyperjump/odtreader/internal/config"
	"github.com/hyperjump/odtreader/internal/extract"
	"github.com/hyperjump/odtreader/internal/fileid"
	"github.com/hyperjump/odtreader/internal/models"
	"github.com/hyperjump/odtreader/internal/odt"
	"github.com/hyperjump/odtreader/internal/storage"
)

const (
	defaultListLimit = 50
	maxListLimit     = 500
)

// extractResponse is the JSON body of a successful extraction.
type extractResponse struct {
	ID       string            `json:"id,omitempty"`
	Text     string            `json:"text"`
	Controls map[string]string `json:"controls,omitempty"`
}

func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	opts, err := s.requestOptions(r)
	if err != nil {
		s.respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, s.config.Server.MaxUploadBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			s.respondError(w, http.StatusRequestEntityTooLarge, "document too large")
			return
		}
		s.respondError(w, http.StatusBadRequest, "failed to read request body")
		return
	}
	if len(body) == 0 {
		s.respondError(w, http.StatusBadRequest, "empty request body")
		return
	}
	s.logger.Debug("extract request", zap.Int("bytes", len(body)), zap.Bool("normalize", opts.Normalize))

	res, err := s.extractor.WithOptions(opts).ParseBytes(body)
	if err != nil {
		s.respondExtractError(w, err)
		return
	}
	resp := extractResponse{Text: res.Text, Controls: res.Controls}

	if store, _ := strconv.ParseBool(r.URL.Query().Get("store")); store {
		ex := &models.Extraction{
			ID:       fileid.NewUploadID(),
			Path:     r.URL.Query().Get("name"),
			Text:     res.Text,
			Controls: res.Controls,
		}
		if err := s.storage.SaveExtraction(r.Context(), ex); err != nil {
			s.logger.Error("storing extraction failed", zap.Error(err))
			s.respondError(w, http.StatusInternalServerError, err.Error())
			return
		}
		resp.ID = ex.ID
	}

	if wantsText(r) {
		s.respondText(w, http.StatusOK, resp.Text)
		return
	}
	status := http.StatusOK
	if resp.ID != "" {
		status = http.StatusCreated
	}
	s.respondJSON(w, status, resp)
}

// requestOptions applies the normalize, paragraph and line_break query
// parameters on top of the configured options.
func (s *Server) requestOptions(r *http.Request) (odt.Options, error) {
	opts := s.extractor.Options()
	q := r.URL.Query()
	if v := q.Get("normalize"); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return opts, errors.New("invalid normalize value")
		}
		opts.Normalize = b
	}
	if q.Has("paragraph") {
		opts.ParagraphTerminator = config.DecodeTerminator(q.Get("paragraph"))
	}
	if q.Has("line_break") {
		opts.LineBreakTerminator = config.DecodeTerminator(q.Get("line_break"))
	}
	return opts.Resolved(), nil
}

func (s *Server) respondExtractError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, extract.ErrNotArchive), errors.Is(err, extract.ErrContentMissing):
		s.respondError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, extract.ErrContentTooLarge):
		s.respondError(w, http.StatusRequestEntityTooLarge, err.Error())
	default:
		s.logger.Error("extraction failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
	}
}

func (s *Server) handleListExtractions(w http.ResponseWriter, r *http.Request) {
	offset, err := queryInt(r, "offset", 0)
	if err != nil || offset < 0 {
		s.respondError(w, http.StatusBadRequest, "invalid offset")
		return
	}
	limit, err := queryInt(r, "limit", defaultListLimit)
	if err != nil || limit <= 0 {
		s.respondError(w, http.StatusBadRequest, "invalid limit")
		return
	}
	if limit > maxListLimit {
		limit = maxListLimit
	}
	ctx := r.Context()
	items, err := s.storage.ListExtractions(ctx, offset, limit)
	if err != nil {
		s.logger.Error("list extractions failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	total, err := s.storage.CountExtractions(ctx)
	if err != nil {
		s.logger.Error("count extractions failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if items == nil {
		items = []*models.ExtractionSummary{}
	}
	s.respondJSON(w, http.StatusOK, map[string]interface{}{
		"extractions": items,
		"total":       total,
		"offset":      offset,
		"limit":       limit,
	})
}

func (s *Server) handleGetExtraction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	ex, err := s.storage.GetExtraction(r.Context(), id)
	if err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "extraction not found")
			return
		}
		s.logger.Error("get extraction failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if wantsText(r) {
		s.respondText(w, http.StatusOK, ex.Text)
		return
	}
	s.respondJSON(w, http.StatusOK, ex)
}

func (s *Server) handleDeleteExtraction(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	s.logger.Debug("delete extraction request", zap.String("id", id))
	ctx := r.Context()
	if _, err := s.storage.GetExtraction(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			s.respondError(w, http.StatusNotFound, "extraction not found")
			return
		}
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.storage.DeleteExtraction(ctx, id); err != nil {
		s.logger.Error("deletion failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	s.respondJSON(w, http.StatusOK, map[string]string{"id": id, "status": "deleted"})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleStatus(w http.ResponseWriter, r *http.Request) {
	count, err := s.storage.CountExtractions(r.Context())
	if err != nil {
		s.logger.Error("status: count extractions failed", zap.Error(err))
		s.respondError(w, http.StatusInternalServerError, err.Error())
		return
	}
	opts := s.extractor.Options().Resolved()
	resp := map[string]interface{}{
		"extractions": count,
		"config": map[string]interface{}{
			"normalize":             opts.Normalize,
			"paragraph_terminator":  opts.ParagraphTerminator,
			"line_break_terminator": opts.LineBreakTerminator,
			"database_path":         s.config.Storage.DatabasePath,
			"output_dir":            s.config.Storage.OutputDir,
			"max_upload_bytes":      s.config.Server.MaxUploadBytes,
		},
	}
	if s.watch != nil {
		resp["watch_directories"] = s.watch.Directories()
	}
	paths := storage.DatabaseFiles(s.config.Storage.DatabasePath)
	if s.config.Storage.OutputDir != "" {
		paths = append(paths, s.config.Storage.OutputDir)
	}
	if diskBytes, err := storage.DiskUsageBytes(paths...); err == nil {
		resp["disk_usage_bytes"] = diskBytes
	}
	s.respondJSON(w, http.StatusOK, resp)
}

// wantsText reports whether the client asked for plain text instead of JSON.
func wantsText(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Accept"), "text/plain")
}

func queryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	return strconv.Atoi(v)
}

func (s *Server) respondText(w http.ResponseWriter, status int, text string) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(status)
	_, _ = io.WriteString(w, text)
}

func (s *Server) respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}
