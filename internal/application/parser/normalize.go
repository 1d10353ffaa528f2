package parser

import (
	"math"
	"regexp"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	sriDatePattern     = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})$`)
	isoDatePattern     = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	sriDateTimePattern = regexp.MustCompile(`^(\d{2})/(\d{2})/(\d{4})\s+(\d{2}):(\d{2}):(\d{2})$`)
	isoDateTimePattern = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}T`)
	sriPeriodPattern   = regexp.MustCompile(`^(\d{2})/(\d{4})$`)
	isoDatePrefix      = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})`)
	rucPattern         = regexp.MustCompile(`^\d{13}$`)
	cedulaPattern      = regexp.MustCompile(`^\d{10}$`)
)

// Money strings longer than maxMoneyLength or with an exponent outside
// [minMoneyExponent, maxMoneyExponent] are out of range. The upper exponent
// bound already exceeds int64 cents; below the lower bound the amount rounds
// to zero cents.
const (
	maxMoneyLength   = 40
	maxMoneyExponent = 18
	minMoneyExponent = -(maxMoneyLength + 3)
)

var (
	hundred  = decimal.NewFromInt(100)
	maxCents = decimal.NewFromInt(math.MaxInt64)
)

// ParseSRIDate converts DD/MM/YYYY to YYYY-MM-DD.
// ISO dates and unrecognized values are returned unchanged.
func ParseSRIDate(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	if m := sriDatePattern.FindStringSubmatch(value); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1]
	}

	return value
}

// ParseSRIDateTime converts "DD/MM/YYYY HH:mm:ss" to "YYYY-MM-DDTHH:mm:ss".
// ISO datetimes and unrecognized values are returned unchanged.
func ParseSRIDateTime(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	if m := sriDateTimePattern.FindStringSubmatch(value); m != nil {
		return m[3] + "-" + m[2] + "-" + m[1] + "T" + m[4] + ":" + m[5] + ":" + m[6]
	}

	return value
}

// ParseSRIPeriod converts MM/YYYY to YYYY-MM.
func ParseSRIPeriod(value string) string {
	value = strings.TrimSpace(value)
	if value == "" {
		return ""
	}

	if m := sriPeriodPattern.FindStringSubmatch(value); m != nil {
		return m[2] + "-" + m[1]
	}

	return value
}

// FormatToSRIDate converts a YYYY-MM-DD (or ISO datetime) value to DD/MM/YYYY.
func FormatToSRIDate(value string) string {
	if m := isoDatePrefix.FindStringSubmatch(value); m != nil {
		return m[3] + "/" + m[2] + "/" + m[1]
	}
	return value
}

// IsISODate reports whether value is formatted as YYYY-MM-DD.
func IsISODate(value string) bool {
	return isoDatePattern.MatchString(value)
}

// IsISODateTime reports whether value starts like an ISO datetime.
func IsISODateTime(value string) bool {
	return isoDateTimePattern.MatchString(value)
}

// ParseMoneyToCents converts a decimal amount such as "123.45" to 12345.
// Empty, unparseable or out-of-range input yields 0: an amount whose cents do
// not fit in an int64 is treated like garbage instead of being wrapped.
// Values are rounded half away from zero to the nearest cent, which matches
// round-half-up for the non-negative amounts SRI documents carry.
func ParseMoneyToCents(value string) int64 {
	value = strings.TrimSpace(value)
	if value == "" || len(value) > maxMoneyLength {
		return 0
	}

	amount, err := decimal.NewFromString(value)
	if err != nil {
		return 0
	}
	if exp := amount.Exponent(); exp > maxMoneyExponent || exp < minMoneyExponent {
		return 0
	}

	cents := amount.Mul(hundred).Round(0)
	if cents.Abs().GreaterThan(maxCents) {
		return 0
	}
	return cents.IntPart()
}

// CentsToDollars converts an amount in cents to its exact decimal value.
func CentsToDollars(cents int64) decimal.Decimal {
	return decimal.New(cents, -2)
}

// FormatCents renders cents as a plain two-decimal amount ("1234.50").
func FormatCents(cents int64) string {
	return CentsToDollars(cents).StringFixed(2)
}

// NormalizeString trims surrounding whitespace.
func NormalizeString(value string) string {
	return strings.TrimSpace(value)
}

// IsValidRUCFormat reports whether ruc is exactly 13 digits.
func IsValidRUCFormat(ruc string) bool {
	return rucPattern.MatchString(ruc)
}

// IsValidCedulaFormat reports whether cedula is exactly 10 digits.
func IsValidCedulaFormat(cedula string) bool {
	return cedulaPattern.MatchString(cedula)
}

// FormatDocumentNumber joins the document number parts as EEE-PPP-SSSSSSSSS.
func FormatDocumentNumber(establecimiento, puntoEmision, secuencial string) string {
	return establecimiento + "-" + puntoEmision + "-" + secuencial
}
