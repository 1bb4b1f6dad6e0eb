package api

import (
	"errors"
	"fmt"
	"mime/multipart"
	"net/http"
	"path/filepath"

	"github.com/dustin/go-humanize"

	"github.com/okian/rugbylens/internal/domain/ingest"
	"github.com/okian/rugbylens/pkg/logger"
)

// filesField is the multipart field carrying the uploaded CSV files.
const filesField = "files"

// multipartMemory is held in memory before spilling to temp files.
const multipartMemory = 8 << 20

// SessionsHandler handles upload session requests.
type SessionsHandler struct {
	deps     Dependencies
	maxBytes int64
	maxFiles int
	logger   logger.Logger
}

// NewSessionsHandler creates a new sessions handler.
func NewSessionsHandler(deps Dependencies, maxBytes int64, maxFiles int, l logger.Logger) *SessionsHandler {
	return &SessionsHandler{deps: deps, maxBytes: maxBytes, maxFiles: maxFiles, logger: l}
}

// HandleCreate handles POST /sessions requests.
func (h *SessionsHandler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	const op = "api.create_session"
	uploads, cleanup, err := h.readUploads(w, r, op)
	if err != nil {
		fail(r.Context(), w, h.logger, err)
		return
	}
	defer cleanup()

	info, err := h.deps.Upload(r.Context(), uploads)
	if err != nil {
		fail(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusCreated, info)
}

// HandleReplace handles PUT /sessions/{id}/files requests.
func (h *SessionsHandler) HandleReplace(w http.ResponseWriter, r *http.Request) {
	const op = "api.replace_session"
	uploads, cleanup, err := h.readUploads(w, r, op)
	if err != nil {
		fail(r.Context(), w, h.logger, err)
		return
	}
	defer cleanup()

	info, err := h.deps.Replace(r.Context(), r.PathValue("id"), uploads)
	if err != nil {
		fail(r.Context(), w, h.logger, Wrap(op, err))
		return
	}
	writeJSON(w, http.StatusOK, info)
}

// HandleDelete handles DELETE /sessions/{id} requests.
func (h *SessionsHandler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	if err := h.deps.Close(r.Context(), r.PathValue("id")); err != nil {
		fail(r.Context(), w, h.logger, Wrap("api.delete_session", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// HandleOverview handles GET /sessions/{id}/overview requests.
func (h *SessionsHandler) HandleOverview(w http.ResponseWriter, r *http.Request) {
	ov, err := h.deps.Overview(r.Context(), r.PathValue("id"))
	if err != nil {
		fail(r.Context(), w, h.logger, Wrap("api.overview", err))
		return
	}
	writeJSON(w, http.StatusOK, ov)
}

// readUploads parses the multipart body and opens every uploaded file.
// The returned cleanup closes the files and removes spilled temp files.
func (h *SessionsHandler) readUploads(w http.ResponseWriter, r *http.Request, op string) ([]ingest.Upload, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(multipartMemory); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || r.ContentLength > h.maxBytes {
			return nil, nil, WrapKind(op, ErrPayloadTooLarge,
				fmt.Errorf("upload exceeds %s", humanize.IBytes(uint64(h.maxBytes))))
		}
		return nil, nil, WrapKind(op, ErrBadRequest, err)
	}
	form := r.MultipartForm
	headers := form.File[filesField]
	switch {
	case len(headers) == 0:
		_ = form.RemoveAll()
		return nil, nil, WrapKind(op, ErrBadRequest, fmt.Errorf("no %q parts in upload", filesField))
	case len(headers) > h.maxFiles:
		_ = form.RemoveAll()
		return nil, nil, WrapKind(op, ErrBadRequest, fmt.Errorf("%d files exceed the limit of %d", len(headers), h.maxFiles))
	}

	files := make([]multipart.File, 0, len(headers))
	cleanup := func() {
		for _, f := range files {
			_ = f.Close()
		}
		_ = form.RemoveAll()
	}
	uploads := make([]ingest.Upload, 0, len(headers))
	for _, fh := range headers {
		f, err := fh.Open()
		if err != nil {
			cleanup()
			return nil, nil, WrapKind(op, ErrBadRequest, fmt.Errorf("open %s: %w", fh.Filename, err))
		}
		files = append(files, f)
		uploads = append(uploads, ingest.Upload{Name: filepath.Base(fh.Filename), Reader: f})
	}
	h.logger.Debug(r.Context(), "upload received",
		logger.Int("files", len(uploads)),
		logger.String("size", humanize.IBytes(uint64(max(r.ContentLength, 0)))),
	)
	return uploads, cleanup, nil
}
