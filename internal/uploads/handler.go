// Package uploads provides evidence file upload and retrieval on top of
// blob storage. Uploaded files are addressed by generated keys so
// client-supplied filenames never become storage paths.
package uploads

import (
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/vigiapix/vigia/pkg/handlers"
	"github.com/vigiapix/vigia/pkg/identity"
	"github.com/vigiapix/vigia/pkg/routes"
	"github.com/vigiapix/vigia/pkg/storage"
)

// Handler provides HTTP endpoints for evidence file uploads.
type Handler struct {
	store         storage.System
	logger        *slog.Logger
	maxUploadSize int64
}

// UploadResponse describes a stored evidence file.
type UploadResponse struct {
	Key         string `json:"key"`
	Filename    string `json:"filename"`
	ContentType string `json:"content_type"`
	Size        int64  `json:"size"`
}

// NewHandler creates a Handler with the given storage system, logger,
// and upload size limit.
func NewHandler(store storage.System, logger *slog.Logger, maxUploadSize int64) *Handler {
	return &Handler{
		store:         store,
		logger:        logger.With("handler", "uploads"),
		maxUploadSize: maxUploadSize,
	}
}

// Routes returns the route group definition for upload endpoints.
func (h *Handler) Routes() routes.Group {
	return routes.Group{
		Prefix: "/uploads",
		Routes: []routes.Route{
			{Method: "POST", Pattern: "", Handler: h.Upload},
			{Method: "GET", Pattern: "/{key...}", Handler: h.Download},
		},
	}
}

// Upload processes a multipart form upload containing an evidence file.
// The stored key is namespaced by the caller subject and a generated
// UUID. Responds 201 with the storage key.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrMissingToken)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, h.maxUploadSize)
	if err := r.ParseMultipartForm(h.maxUploadSize); err != nil {
		handlers.RespondError(w, h.logger, http.StatusRequestEntityTooLarge, ErrFileTooLarge)
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		handlers.RespondError(w, h.logger, http.StatusBadRequest, ErrInvalidFile)
		return
	}
	defer file.Close()

	contentType := detectContentType(header.Header.Get("Content-Type"), file)

	key := fmt.Sprintf("%s/%s%s", caller.Subject, uuid.New(), path.Ext(header.Filename))

	if err := h.store.Upload(r.Context(), key, file, contentType); err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}

	h.logger.Info("evidence file uploaded",
		"key", key,
		"content_type", contentType,
		"size", header.Size,
	)

	handlers.RespondJSON(w, http.StatusCreated, UploadResponse{
		Key:         key,
		Filename:    header.Filename,
		ContentType: contentType,
		Size:        header.Size,
	})
}

// Download streams a stored evidence file back to its owner. Keys are
// owner-prefixed, so callers can only read their own files.
func (h *Handler) Download(w http.ResponseWriter, r *http.Request) {
	caller, ok := identity.FromContext(r.Context())
	if !ok {
		handlers.RespondError(w, h.logger, http.StatusUnauthorized, identity.ErrMissingToken)
		return
	}

	key := r.PathValue("key")
	if !strings.HasPrefix(key, caller.Subject+"/") {
		handlers.RespondError(w, h.logger, http.StatusNotFound, storage.ErrNotFound)
		return
	}

	body, err := h.store.Download(r.Context(), key)
	if err != nil {
		handlers.RespondError(w, h.logger, MapHTTPStatus(err), err)
		return
	}
	defer body.Close()

	w.Header().Set(
		"Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", path.Base(key)),
	)
	w.WriteHeader(http.StatusOK)
	io.Copy(w, body)
}

// detectContentType trusts a specific client content type and sniffs
// the stream otherwise. The reader is rewound after sniffing.
func detectContentType(header string, file io.ReadSeeker) string {
	header = strings.TrimSpace(header)
	if header != "" && header != "application/octet-stream" {
		return header
	}

	buf := make([]byte, 512)
	n, _ := file.Read(buf)
	file.Seek(0, io.SeekStart)

	return http.DetectContentType(buf[:n])
}
