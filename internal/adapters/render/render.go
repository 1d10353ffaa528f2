// Package render holds the formatting shared by the report encoders.
package render

import (
	"fmt"
	"time"

	"3tcapital/sriats/internal/core/ats"
)

// MIME types of the rendered files.
const (
	MimeCSV  = "text/csv;charset=utf-8"
	MimeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MimePDF  = "application/pdf"
)

// Ecuador has a single time zone without daylight saving.
var ecuador = time.FixedZone("ECT", -5*60*60)

// Currency renders cents as "$1,234.50".
func Currency(cents int64) string {
	sign := ""
	if cents < 0 {
		sign = "-"
		cents = -cents
	}
	digits := fmt.Sprintf("%d", cents/100)
	grouped := make([]byte, 0, len(digits)+len(digits)/3)
	for i := range digits {
		if i > 0 && (len(digits)-i)%3 == 0 {
			grouped = append(grouped, ',')
		}
		grouped = append(grouped, digits[i])
	}
	return fmt.Sprintf("%s$%s.%02d", sign, grouped, cents%100)
}

// Date converts an ISO date (or datetime) to DD/MM/YYYY. Anything else is
// returned unchanged.
func Date(iso string) string {
	if len(iso) < 10 {
		return iso
	}
	t, err := time.Parse("2006-01-02", iso[:10])
	if err != nil {
		return iso
	}
	return t.Format("02/01/2006")
}

// Timestamp renders t in Ecuador local time.
func Timestamp(t time.Time) string {
	return t.In(ecuador).Format("02/01/2006 15:04:05")
}

// Filename builds ATS_<periodo>[_<suffix>].<ext>.
func Filename(periodo, suffix, ext string) string {
	if suffix != "" {
		return fmt.Sprintf("ATS_%s_%s.%s", periodo, suffix, ext)
	}
	return fmt.Sprintf("ATS_%s.%s", periodo, ext)
}

// DocumentLabel is the display name of the row's document type.
func DocumentLabel(row ats.RowBase) string {
	return row.TipoComprobante.Label()
}
