package upload

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"slices"
	"strconv"
	"strings"

	"3tcapital/sriats/internal/application/parser"
	appupload "3tcapital/sriats/internal/application/upload"
	"3tcapital/sriats/internal/core/upload"
	httperrors "3tcapital/sriats/internal/infrastructure/http"
	"3tcapital/sriats/internal/infrastructure/logger"
)

// multipartOverhead is the slack allowed on top of the file limit for
// boundaries and part headers.
const multipartOverhead = 1 << 20

// Handler bridges multipart uploads with the upload application service.
type Handler struct {
	service       *appupload.Service
	maxFileSize   int64
	strictDefault bool
	log           *slog.Logger
}

// NewHandler creates an upload handler. maxFileSize <= 0 means upload.MaxFileSize.
func NewHandler(service *appupload.Service, maxFileSize int64, strictDefault bool, log *slog.Logger) *Handler {
	if maxFileSize <= 0 {
		maxFileSize = upload.MaxFileSize
	}
	return &Handler{
		service:       service,
		maxFileSize:   maxFileSize,
		strictDefault: strictDefault,
		log:           log,
	}
}

// Upload handles POST /api/v1/upload requests.
func (h *Handler) Upload(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.log)

	r.Body = http.MaxBytesReader(w, r.Body, h.maxFileSize+multipartOverhead)
	if err := r.ParseMultipartForm(32 << 20); err != nil {
		var maxErr *http.MaxBytesError
		if errors.As(err, &maxErr) {
			h.writeTooLarge(w, log)
			return
		}
		httperrors.WriteError(w, http.StatusBadRequest, upload.CodeNoFile, "No se proporcionó ningún archivo", nil, log)
		return
	}
	defer r.MultipartForm.RemoveAll()

	file, header, err := r.FormFile(upload.FieldName)
	if err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, upload.CodeNoFile, "No se proporcionó ningún archivo", nil, log)
		return
	}
	defer file.Close()

	if header.Size > h.maxFileSize {
		h.writeTooLarge(w, log)
		return
	}

	if !isZip(header.Header.Get("Content-Type"), header.Filename) {
		httperrors.WriteError(w, http.StatusBadRequest, upload.CodeInvalidFileType, "El archivo debe ser un ZIP válido", nil, log)
		return
	}

	data, err := io.ReadAll(file)
	if err != nil {
		log.Error("Failed to read uploaded file", "error", err, "filename", header.Filename)
		httperrors.WriteError(w, http.StatusInternalServerError, upload.CodeInternalError, "Error interno del servidor", nil, log)
		return
	}

	opts := parser.DefaultOptions()
	opts.Strict = queryBool(r, "strict", h.strictDefault)
	opts.IncludeWarnings = queryBool(r, "includeWarnings", opts.IncludeWarnings)

	log.Info("Processing upload", "filename", header.Filename, "size", header.Size, "strict", opts.Strict)

	result, err := h.service.ProcessZip(r.Context(), appupload.Request{
		Data:     data,
		Filename: header.Filename,
		Options:  opts,
	})
	if err != nil {
		log.Error("Upload processing failed", "error", err, "filename", header.Filename)
		httperrors.WriteError(w, http.StatusInternalServerError, upload.CodeInternalError, "Error interno del servidor", nil, log)
		return
	}

	// Nothing could be read from the archive.
	if result.XMLFiles == 0 && len(result.Errors) > 0 {
		first := result.Errors[0]
		httperrors.WriteErrorWithData(w, http.StatusUnprocessableEntity, first.Code, first.Message, nil, result, log)
		return
	}

	if result.AllFailed() {
		message := "Error al procesar el archivo ZIP"
		if len(result.Errors) > 0 {
			message = result.Errors[0].Message
		}
		httperrors.WriteErrorWithData(w, http.StatusUnprocessableEntity, upload.CodeProcessingFailed, message, nil, result, log)
		return
	}

	httperrors.WriteJSON(w, http.StatusOK, result, log)
}

func (h *Handler) writeTooLarge(w http.ResponseWriter, log *slog.Logger) {
	httperrors.WriteError(w, http.StatusBadRequest, upload.CodeFileTooLarge,
		fmt.Sprintf("El archivo excede el tamaño máximo de %dMB", h.maxFileSize/1024/1024), nil, log)
}

// isZip accepts a known archive MIME type or a .zip file name.
func isZip(contentType, filename string) bool {
	mime := strings.ToLower(strings.TrimSpace(strings.Split(contentType, ";")[0]))
	return slices.Contains(upload.AllowedMimeTypes, mime) ||
		strings.HasSuffix(strings.ToLower(filename), ".zip")
}

func queryBool(r *http.Request, key string, fallback bool) bool {
	raw := r.URL.Query().Get(key)
	if raw == "" {
		return fallback
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		return fallback
	}
	return v
}
