// Package security sanitizes text that leaves the service, either in
// logs or in generated spreadsheets.
package security

import (
	"net/http"
	"strings"
	"unicode"

	"github.com/microcosm-cc/bluemonday"
)

// Header names whose values never reach the logs.
var sensitiveHeaders = map[string]bool{
	"authorization":       true,
	"cookie":              true,
	"set-cookie":          true,
	"x-api-key":           true,
	"x-auth-token":        true,
	"proxy-authorization": true,
}

const redactedValue = "[REDACTED]"

// strictPolicy removes every HTML tag and attribute. Policies are safe for
// concurrent use once built.
var strictPolicy = bluemonday.StrictPolicy()

// SanitizeHeaders returns a copy of headers suitable for logging, with
// credentials redacted and multiple values joined.
func SanitizeHeaders(headers http.Header) map[string]string {
	sanitized := make(map[string]string, len(headers))

	for key, values := range headers {
		if sensitiveHeaders[strings.ToLower(key)] {
			sanitized[key] = redactedValue
			continue
		}
		sanitized[key] = strings.Join(values, ", ")
	}

	return sanitized
}

// SanitizeText strips markup from s. bluemonday escapes what it keeps, so
// entities are turned back into plain characters for non-HTML output.
func SanitizeText(s string) string {
	if !strings.ContainsAny(s, "<>&\"'") {
		return s
	}
	return unescapeEntities(strictPolicy.Sanitize(s))
}

var entityReplacer = strings.NewReplacer(
	"&amp;", "&",
	"&lt;", "<",
	"&gt;", ">",
	"&#34;", `"`,
	"&#39;", "'",
	"&quot;", `"`,
)

func unescapeEntities(s string) string {
	return entityReplacer.Replace(s)
}

// SanitizeForFormulaInjection prefixes a single quote when s would be read
// as a formula by a spreadsheet application.
func SanitizeForFormulaInjection(s string) string {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return s
	}

	switch trimmed[0] {
	case '=', '+', '-', '@', '\t', '\r':
		return "'" + s
	}
	return s
}

// StripUnprintable drops control characters other than tab, newline and
// carriage return.
func StripUnprintable(s string) string {
	return strings.Map(func(r rune) rune {
		if unicode.IsPrint(r) || r == '\t' || r == '\n' || r == '\r' {
			return r
		}
		return -1
	}, s)
}

// CellText prepares free text taken from an XML document for a CSV or XLSX
// cell.
func CellText(s string) string {
	return SanitizeForFormulaInjection(SanitizeText(StripUnprintable(s)))
}
