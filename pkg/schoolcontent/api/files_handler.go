package api

import (
	"fmt"
	"io"
	"log/slog"
	"mime"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/render"
	"github.com/google/uuid"

	"github.com/sekolahkita/school-content/pkg/schoolcontent"
)

const maxUploadSize = 32 << 20 // 32 MiB

// FilesHandler handles media uploads to the configured blob store.
type FilesHandler struct {
	store schoolcontent.BlobStore
}

func NewFilesHandler(store schoolcontent.BlobStore) *FilesHandler {
	return &FilesHandler{store: store}
}

// Routes returns the router for upload endpoints
func (h *FilesHandler) Routes() chi.Router {
	r := chi.NewRouter()
	r.Post("/", h.UploadFile)
	return r
}

// UploadResponse describes a stored upload in the shape media items expect.
type UploadResponse struct {
	MediaURL     string `json:"mediaUrl"`
	MediaType    string `json:"mediaType"`
	ThumbnailURL string `json:"thumbnailUrl,omitempty"`
	FileName     string `json:"fileName"`
	FileSizeKB   int64  `json:"fileSizeKb"`
}

// UploadFile accepts a multipart upload and stores it under a random key in
// the optional folder form field. The returned URL is ready to be used as a
// media item's mediaUrl.
func (h *FilesHandler) UploadFile(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, maxUploadSize)
	if err := r.ParseMultipartForm(maxUploadSize); err != nil {
		respondError(w, r, http.StatusBadRequest, "invalid multipart form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		respondError(w, r, http.StatusBadRequest, "file field is required")
		return
	}
	defer file.Close()

	folder := sanitizeFolder(r.FormValue("folder"))
	ext := strings.ToLower(filepath.Ext(header.Filename))
	objectKey := fmt.Sprintf("%s/%s%s", folder, uuid.New(), ext)

	if err := h.store.Upload(r.Context(), objectKey, file); err != nil {
		slog.Error("upload failed", "key", objectKey, "error", err)
		respondError(w, r, http.StatusInternalServerError, "upload failed")
		return
	}

	url, err := h.store.GetDownloadURL(r.Context(), objectKey)
	if err != nil {
		slog.Error("failed to resolve upload URL", "key", objectKey, "error", err)
		respondError(w, r, http.StatusInternalServerError, "upload failed")
		return
	}

	resp := UploadResponse{
		MediaURL:   url,
		MediaType:  mediaTypeForExt(ext),
		FileName:   header.Filename,
		FileSizeKB: header.Size / 1024,
	}
	if resp.MediaType == string(schoolcontent.MediaTypeImage) {
		resp.ThumbnailURL = url
	}

	render.Status(r, http.StatusCreated)
	render.JSON(w, r, resp)
}

// DownloadFile streams a stored object back to the client. Used when the
// blob store has no public URL prefix (memory and bare filesystem setups).
func (h *FilesHandler) DownloadFile(w http.ResponseWriter, r *http.Request) {
	objectKey := chi.URLParam(r, "*")
	if objectKey == "" {
		respondError(w, r, http.StatusBadRequest, "object key is required")
		return
	}

	body, err := h.store.Download(r.Context(), objectKey)
	if err != nil {
		respondError(w, r, http.StatusNotFound, "object not found")
		return
	}
	defer body.Close()

	if meta, err := h.store.GetObjectMeta(r.Context(), objectKey); err == nil {
		w.Header().Set("Content-Type", meta.ContentType)
	}
	if _, err := io.Copy(w, body); err != nil {
		slog.Error("failed to stream object", "key", objectKey, "error", err)
	}
}

// sanitizeFolder keeps object keys flat and predictable: one lowercase path
// segment, defaulting to "uploads".
func sanitizeFolder(folder string) string {
	folder = strings.ToLower(strings.Trim(folder, "/"))
	if folder == "" || strings.ContainsAny(folder, "./\\") {
		return "uploads"
	}
	return folder
}

func mediaTypeForExt(ext string) string {
	contentType := mime.TypeByExtension(ext)
	switch {
	case strings.HasPrefix(contentType, "image/"):
		return string(schoolcontent.MediaTypeImage)
	case strings.HasPrefix(contentType, "video/"):
		return string(schoolcontent.MediaTypeVideo)
	default:
		return string(schoolcontent.MediaTypeImage)
	}
}
