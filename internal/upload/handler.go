package upload

import (
	"errors"
	"log/slog"
	"mime/multipart"
	"net/http"

	"github.com/go-chi/chi"
	"github.com/treyfatech/sitecms/internal/transport"
	"github.com/treyfatech/sitecms/pkg/logger"
)

const maxMultipleFiles = 10

type Handler struct {
	*transport.BaseHandler
	store *Store
}

func NewHandler(store *Store) *Handler {
	lg := logger.LoggerWrapper()
	if lg == nil {
		lg = slog.Default()
	}
	return &Handler{
		BaseHandler: transport.NewBaseHandler(lg),
		store:       store,
	}
}

// UploadSingle accepts one multipart file under the "image" field with
// an optional "category" form value.
func (h *Handler) UploadSingle(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.store.MaxSize()); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		h.WriteError(w, http.StatusBadRequest, "No file uploaded")
		return
	}
	defer file.Close()

	stored, err := h.store.Save(file, header.Filename, r.FormValue("category"), header.Size)
	if err != nil {
		h.storeError(w, err)
		return
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "File uploaded successfully",
		"file":    stored,
	})
}

// UploadMultiple accepts up to ten files under the "images" field.
func (h *Handler) UploadMultiple(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseMultipartForm(h.store.MaxSize() * maxMultipleFiles); err != nil {
		h.WriteError(w, http.StatusBadRequest, "invalid multipart request")
		return
	}

	var headers []*multipart.FileHeader
	if r.MultipartForm != nil {
		headers = r.MultipartForm.File["images"]
	}
	if len(headers) == 0 {
		h.WriteError(w, http.StatusBadRequest, "No files uploaded")
		return
	}
	if len(headers) > maxMultipleFiles {
		headers = headers[:maxMultipleFiles]
	}

	category := r.FormValue("category")
	files := make([]*File, 0, len(headers))
	for _, header := range headers {
		f, err := header.Open()
		if err != nil {
			h.WriteError(w, http.StatusBadRequest, "invalid multipart request")
			return
		}
		stored, err := h.store.Save(f, header.Filename, category, header.Size)
		f.Close()
		if err != nil {
			h.storeError(w, err)
			return
		}
		files = append(files, stored)
	}

	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "Files uploaded successfully",
		"files":   files,
	})
}

func (h *Handler) ListFiles(w http.ResponseWriter, r *http.Request) {
	files, err := h.store.List(chi.URLParam(r, "category"))
	if err != nil {
		h.storeError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, files)
}

func (h *Handler) DeleteFile(w http.ResponseWriter, r *http.Request) {
	err := h.store.Delete(chi.URLParam(r, "category"), chi.URLParam(r, "filename"))
	if err != nil {
		h.storeError(w, err)
		return
	}
	h.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"message": "File deleted successfully",
	})
}

func (h *Handler) storeError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrNotImage):
		h.WriteError(w, http.StatusBadRequest, "Only image files are allowed!")
	case errors.Is(err, ErrFileTooLarge):
		h.WriteError(w, http.StatusBadRequest, "File is too large")
	case errors.Is(err, ErrBadCategory), errors.Is(err, ErrInvalidName):
		h.WriteError(w, http.StatusBadRequest, "invalid upload path")
	case errors.Is(err, ErrFileNotFound):
		h.WriteError(w, http.StatusNotFound, "File not found")
	default:
		h.Logger.Error("upload failed", "error", err)
		h.WriteError(w, http.StatusInternalServerError, "Upload failed")
	}
}
