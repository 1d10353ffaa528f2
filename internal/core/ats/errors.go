package ats

// Report generation error codes exposed to API clients.
const (
	CodeInvalidDocuments  = "ATS_INVALID_DOCUMENTS"
	CodeInvalidFormat     = "ATS_INVALID_FORMAT"
	CodeInvalidPeriodo    = "ATS_INVALID_PERIODO"
	CodeInvalidRUC        = "ATS_INVALID_RUC"
	CodeInvalidCSVSection = "ATS_INVALID_CSV_SECTION"
	CodeInvalidRequest    = "ATS_INVALID_REQUEST"
	CodeNoData            = "ATS_NO_DATA"
	CodeGenerationFailed  = "ATS_GENERATION_FAILED"
)

// MaxDocumentsPerRequest is the default cap on inline documents.
const MaxDocumentsPerRequest = 10000
