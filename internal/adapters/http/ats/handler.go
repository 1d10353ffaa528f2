package ats

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"regexp"
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"

	appats "3tcapital/sriats/internal/application/ats"
	"3tcapital/sriats/internal/core/ats"
	"3tcapital/sriats/internal/core/batch"
	"3tcapital/sriats/internal/core/comprobante"
	httperrors "3tcapital/sriats/internal/infrastructure/http"
	"3tcapital/sriats/internal/infrastructure/logger"
)

const maxBodySize = 64 << 20

var (
	periodoPattern = regexp.MustCompile(`^\d{4}-(0[1-9]|1[0-2])$`)
	rucPattern     = regexp.MustCompile(`^\d{13}$`)
)

// Handler bridges report generation requests with the ATS application service.
type Handler struct {
	service      *appats.Service
	validate     *validator.Validate
	maxDocuments int
	log          *slog.Logger
}

// NewHandler creates an ATS handler. maxDocuments <= 0 means ats.MaxDocumentsPerRequest.
func NewHandler(service *appats.Service, maxDocuments int, log *slog.Logger) *Handler {
	if maxDocuments <= 0 {
		maxDocuments = ats.MaxDocumentsPerRequest
	}
	return &Handler{
		service:      service,
		validate:     newValidator(),
		maxDocuments: maxDocuments,
		log:          log,
	}
}

func newValidator() *validator.Validate {
	v := validator.New()
	_ = v.RegisterValidation("periodo", func(fl validator.FieldLevel) bool {
		return periodoPattern.MatchString(fl.Field().String())
	})
	_ = v.RegisterValidation("ruc", func(fl validator.FieldLevel) bool {
		return rucPattern.MatchString(fl.Field().String())
	})
	return v
}

// GenerateOptions are the optional report settings.
type GenerateOptions struct {
	Formato          string `json:"formato" validate:"omitempty,oneof=xlsx csv pdf"`
	Periodo          string `json:"periodo" validate:"omitempty,periodo"`
	ContribuyenteRUC string `json:"contribuyenteRuc" validate:"omitempty,ruc"`
	CSVSection       string `json:"csvSection" validate:"omitempty,oneof=compras ventas"`
}

// GenerateRequest is the body of POST /api/v1/ats/generate. Either
// Documents or BatchID must be set.
type GenerateRequest struct {
	Documents []comprobante.Document `json:"documents"`
	BatchID   string                 `json:"batchId" validate:"omitempty,uuid"`
	Options   *GenerateOptions       `json:"options"`
}

// fieldErrors maps a failing field to its error code and message.
var fieldErrors = map[string][2]string{
	"Formato":          {ats.CodeInvalidFormat, "Formato inválido. Debe ser 'xlsx', 'csv' o 'pdf'"},
	"Periodo":          {ats.CodeInvalidPeriodo, "Período inválido. Debe estar en formato YYYY-MM"},
	"ContribuyenteRUC": {ats.CodeInvalidRUC, "RUC inválido. Debe tener 13 dígitos"},
	"CSVSection":       {ats.CodeInvalidCSVSection, "Sección CSV inválida. Debe ser 'compras' o 'ventas'"},
	"BatchID":          {ats.CodeInvalidRequest, "batchId debe ser un UUID válido"},
}

// Generate handles POST /api/v1/ats/generate requests. The response is the
// rendered file.
func (h *Handler) Generate(w http.ResponseWriter, r *http.Request) {
	log := logger.FromContext(r.Context(), h.log)

	r.Body = http.MaxBytesReader(w, r.Body, maxBodySize)
	var body GenerateRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		httperrors.WriteError(w, http.StatusBadRequest, ats.CodeInvalidRequest, "El cuerpo de la petición no es válido", []string{err.Error()}, log)
		return
	}

	req, code, message := h.toServiceRequest(body)
	if code != "" {
		httperrors.WriteError(w, http.StatusBadRequest, code, message, nil, log)
		return
	}

	log.Info("Generating ATS report",
		"documents", len(req.Documents),
		"batch_id", req.BatchID,
		"formato", req.Format,
		"periodo", req.Periodo,
		"contribuyente_ruc", req.ContribuyenteRUC,
	)

	file, err := h.service.Generate(r.Context(), req)
	if err != nil {
		h.handleError(w, err, log)
		return
	}

	log.Info("ATS file generated", "filename", file.Filename, "size", len(file.Content))

	w.Header().Set("Content-Type", file.MimeType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", file.Filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(file.Content)))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(file.Content); err != nil {
		log.Error("Failed to write ATS file", "error", err, "filename", file.Filename)
	}
}

// toServiceRequest validates body. A non-empty code means the request is
// rejected with that code and message.
func (h *Handler) toServiceRequest(body GenerateRequest) (appats.GenerateRequest, string, string) {
	if body.BatchID == "" && len(body.Documents) == 0 {
		return appats.GenerateRequest{}, ats.CodeInvalidDocuments, "El array de documentos está vacío"
	}
	if len(body.Documents) > h.maxDocuments {
		return appats.GenerateRequest{}, ats.CodeInvalidDocuments,
			fmt.Sprintf("El número de documentos excede el máximo permitido (%d)", h.maxDocuments)
	}

	if err := h.validate.Struct(body); err != nil {
		var verrs validator.ValidationErrors
		if errors.As(err, &verrs) && len(verrs) > 0 {
			if fe, ok := fieldErrors[verrs[0].StructField()]; ok {
				return appats.GenerateRequest{}, fe[0], fe[1]
			}
		}
		return appats.GenerateRequest{}, ats.CodeInvalidRequest, "La petición no es válida"
	}

	req := appats.GenerateRequest{
		Documents: body.Documents,
		Format:    ats.FormatXLSX,
	}
	if body.BatchID != "" && len(body.Documents) == 0 {
		req.BatchID = uuid.MustParse(body.BatchID)
	}
	if o := body.Options; o != nil {
		if o.Formato != "" {
			req.Format = ats.Format(o.Formato)
		}
		req.Periodo = o.Periodo
		req.ContribuyenteRUC = o.ContribuyenteRUC
		req.CSVSection = ats.Section(o.CSVSection)
	}
	return req, "", ""
}

func (h *Handler) handleError(w http.ResponseWriter, err error, log *slog.Logger) {
	switch {
	case errors.Is(err, ats.ErrNoData):
		httperrors.WriteError(w, http.StatusUnprocessableEntity, ats.CodeNoData, "No hay datos para exportar", nil, log)
	case errors.Is(err, batch.ErrBatchNotFound):
		httperrors.WriteError(w, http.StatusNotFound, batch.CodeBatchNotFound, "Lote no encontrado", nil, log)
	case errors.Is(err, batch.ErrPersistenceDisabled):
		httperrors.WriteError(w, http.StatusServiceUnavailable, batch.CodePersistenceDisabled, "La persistencia de lotes no está habilitada", nil, log)
	default:
		log.Error("ATS generation error", "error", err)
		httperrors.WriteError(w, http.StatusInternalServerError, ats.CodeGenerationFailed, "Error al generar el reporte ATS", nil, log)
	}
}
