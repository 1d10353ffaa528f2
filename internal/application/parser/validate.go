package parser

import (
	"bytes"
	"crypto/sha256"
	"encoding/hex"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"
	"time"

	"3tcapital/sriats/internal/core/comprobante"
)

var (
	clavePattern        = regexp.MustCompile(`^\d{49}$`)
	autorizacionPattern = regexp.MustCompile(`^(\d{37}|\d{49})$`)
)

// ValidateXML checks that xmlString is a non-empty, well-formed XML document.
// Syntax errors carry the line and column where the scanner stopped.
func ValidateXML(xmlString string) []comprobante.ValidationError {
	if strings.TrimSpace(xmlString) == "" {
		return []comprobante.ValidationError{{
			Code:    comprobante.CodeEmptyXML,
			Message: "El XML está vacío o no es válido",
		}}
	}

	decoder := xml.NewDecoder(strings.NewReader(xmlString))
	decoder.Strict = true
	decoder.CharsetReader = charsetReader

	syntaxError := func(message string) []comprobante.ValidationError {
		line, col := decoder.InputPos()
		return []comprobante.ValidationError{{
			Code:    comprobante.CodeXMLSyntaxError,
			Message: message,
			Line:    line,
			Col:     col,
		}}
	}

	sawElement := false
	depth := 0
	for {
		token, err := decoder.Token()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return syntaxError(err.Error())
		}

		switch tok := token.(type) {
		case xml.StartElement:
			if depth == 0 && sawElement {
				return syntaxError(errMultipleRoots.Error())
			}
			sawElement = true
			depth++
		case xml.EndElement:
			depth--
		case xml.CharData:
			if depth == 0 && len(bytes.TrimSpace(tok)) > 0 {
				return syntaxError(errTextOutsideRoot.Error())
			}
		}
	}

	if !sawElement {
		return []comprobante.ValidationError{{
			Code:    comprobante.CodeXMLSyntaxError,
			Message: errNoRootElement.Error(),
		}}
	}

	return nil
}

// ComputeXMLHash returns the hex SHA-256 digest of xmlString.
func ComputeXMLHash(xmlString string) string {
	sum := sha256.Sum256([]byte(xmlString))
	return hex.EncodeToString(sum[:])
}

// ValidateClaveAcceso checks that clave is 49 digits with a matching check digit.
func ValidateClaveAcceso(clave string) []comprobante.ValidationError {
	if clave == "" {
		return []comprobante.ValidationError{{
			Code:    comprobante.CodeMissingClave,
			Message: "Clave de acceso no proporcionada",
			Field:   "claveAcceso",
		}}
	}

	if !clavePattern.MatchString(clave) {
		return []comprobante.ValidationError{{
			Code:    comprobante.CodeInvalidClaveFormat,
			Message: "La clave de acceso debe tener 49 dígitos numéricos",
			Field:   "claveAcceso",
		}}
	}

	parsed, _ := comprobante.ParseClaveAcceso(clave)
	if !parsed.HasValidCheckDigit() {
		return []comprobante.ValidationError{{
			Code:    comprobante.CodeInvalidClaveCheckDigit,
			Message: fmt.Sprintf("Dígito verificador inválido, se esperaba %d", parsed.ComputeCheckDigit()),
			Field:   "claveAcceso",
		}}
	}

	return nil
}

// ValidateNumeroAutorizacion accepts the legacy 37-digit and the current 49-digit formats.
func ValidateNumeroAutorizacion(numero string) []comprobante.ValidationError {
	if numero == "" {
		return []comprobante.ValidationError{{
			Code:    comprobante.CodeMissingAutorizacion,
			Message: "Número de autorización no proporcionado",
			Field:   "numeroAutorizacion",
		}}
	}

	if !autorizacionPattern.MatchString(numero) {
		return []comprobante.ValidationError{{
			Code:    comprobante.CodeInvalidAutorizacion,
			Message: "El número de autorización debe tener 37 o 49 dígitos",
			Field:   "numeroAutorizacion",
		}}
	}

	return nil
}

// ValidateRUC checks the format, province code (01-24 or 30) and the 001 suffix.
func ValidateRUC(ruc string) []comprobante.ValidationError {
	if ruc == "" {
		return []comprobante.ValidationError{{
			Code:    comprobante.CodeMissingRUC,
			Message: "RUC no proporcionado",
			Field:   "ruc",
		}}
	}

	if !IsValidRUCFormat(ruc) {
		return []comprobante.ValidationError{{
			Code:    comprobante.CodeInvalidRUCFormat,
			Message: "El RUC debe tener 13 dígitos numéricos",
			Field:   "ruc",
		}}
	}

	var errs []comprobante.ValidationError

	province, _ := strconv.Atoi(ruc[:2])
	if (province < 1 || province > 24) && province != 30 {
		errs = append(errs, comprobante.ValidationError{
			Code:    comprobante.CodeInvalidProvinceCode,
			Message: "Código de provincia inválido en el RUC",
			Field:   "ruc",
		})
	}

	if !strings.HasSuffix(ruc, "001") {
		errs = append(errs, comprobante.ValidationError{
			Code:    comprobante.CodeInvalidRUCSuffix,
			Message: "El RUC debe terminar en 001",
			Field:   "ruc",
		})
	}

	return errs
}

// ValidateDocumentDate rejects missing, malformed and future dates. A date
// is future when it falls after the end of now's day.
func ValidateDocumentDate(isoDate, field string, now time.Time) []comprobante.ValidationError {
	if isoDate == "" {
		return []comprobante.ValidationError{{
			Code:    comprobante.CodeMissingDate,
			Message: "Fecha no proporcionada",
			Field:   field,
		}}
	}

	date, err := time.ParseInLocation("2006-01-02", isoDate, now.Location())
	if err != nil {
		return []comprobante.ValidationError{{
			Code:    comprobante.CodeInvalidDateFormat,
			Message: "La fecha debe tener formato YYYY-MM-DD",
			Field:   field,
		}}
	}

	endOfDay := time.Date(now.Year(), now.Month(), now.Day(), 23, 59, 59, 0, now.Location())
	if date.After(endOfDay) {
		return []comprobante.ValidationError{{
			Code:    comprobante.CodeFutureDate,
			Message: "La fecha del documento no puede ser futura",
			Field:   field,
		}}
	}

	return nil
}

// ValidateMonetaryValue rejects negative amounts.
func ValidateMonetaryValue(cents int64, field string) []comprobante.ValidationError {
	if cents < 0 {
		return []comprobante.ValidationError{{
			Code:    comprobante.CodeNegativeMonetaryValue,
			Message: fmt.Sprintf("El valor de %s no puede ser negativo", field),
			Field:   field,
		}}
	}
	return nil
}

// AuditDocument runs the optional field validators over a parsed document.
// The findings are informational: they never change whether the document parsed.
func AuditDocument(doc comprobante.Document, now time.Time) []comprobante.ValidationError {
	var findings []comprobante.ValidationError

	findings = append(findings, ValidateClaveAcceso(doc.ClaveAcceso)...)
	if doc.NumeroAutorizacion != "" {
		findings = append(findings, ValidateNumeroAutorizacion(doc.NumeroAutorizacion)...)
	}
	findings = append(findings, ValidateRUC(doc.Emisor.RUC)...)
	findings = append(findings, ValidateDocumentDate(doc.Fecha, "fecha", now)...)

	amounts := []struct {
		field string
		cents int64
	}{
		{"valores.subtotal", doc.Valores.Subtotal},
		{"valores.iva", doc.Valores.Iva},
		{"valores.total", doc.Valores.Total},
	}
	for _, amount := range amounts {
		findings = append(findings, ValidateMonetaryValue(amount.cents, amount.field)...)
	}

	return findings
}
