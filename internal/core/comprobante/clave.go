package comprobante

import "strconv"

// ClaveAccesoLength is the fixed length of an SRI access key.
const ClaveAccesoLength = 49

// Default document-number parts used when an access key cannot be sliced.
const (
	DefaultEstablecimiento = "000"
	DefaultPuntoEmision    = "000"
	DefaultSecuencial      = "000000000"
)

// ClaveAcceso is the positional decomposition of a 49-digit access key.
type ClaveAcceso struct {
	FechaEmision      string `json:"fechaEmision"`
	TipoComprobante   string `json:"tipoComprobante"`
	RUCEmisor         string `json:"rucEmisor"`
	Ambiente          string `json:"ambiente"`
	Establecimiento   string `json:"establecimiento"`
	PuntoEmision      string `json:"puntoEmision"`
	Secuencial        string `json:"secuencial"`
	CodigoNumerico    string `json:"codigoNumerico"`
	TipoEmision       string `json:"tipoEmision"`
	DigitoVerificador string `json:"digitoVerificador"`
}

// ParseClaveAcceso slices key into its fields. It only checks the length;
// digit validation is left to ValidateClaveAcceso in the parser package.
func ParseClaveAcceso(key string) (ClaveAcceso, bool) {
	if len(key) != ClaveAccesoLength {
		return ClaveAcceso{}, false
	}

	return ClaveAcceso{
		FechaEmision:      key[0:8],
		TipoComprobante:   key[8:10],
		RUCEmisor:         key[10:23],
		Ambiente:          key[23:24],
		Establecimiento:   key[24:27],
		PuntoEmision:      key[27:30],
		Secuencial:        key[30:39],
		CodigoNumerico:    key[39:47],
		TipoEmision:       key[47:48],
		DigitoVerificador: key[48:49],
	}, true
}

// DocumentParts returns establecimiento, puntoEmision and secuencial for key,
// falling back to zero-valued parts when the key cannot be sliced.
func DocumentParts(key string) (establecimiento, puntoEmision, secuencial string) {
	parsed, ok := ParseClaveAcceso(key)
	if !ok {
		return DefaultEstablecimiento, DefaultPuntoEmision, DefaultSecuencial
	}
	return parsed.Establecimiento, parsed.PuntoEmision, parsed.Secuencial
}

// String reassembles the key from its fields.
func (c ClaveAcceso) String() string {
	return c.FechaEmision + c.TipoComprobante + c.RUCEmisor + c.Ambiente +
		c.Establecimiento + c.PuntoEmision + c.Secuencial + c.CodigoNumerico +
		c.TipoEmision + c.DigitoVerificador
}

// ComputeCheckDigit returns the modulo-11 check digit for the first 48
// characters of the key. Weights cycle 2..7 from the rightmost digit.
// It returns -1 when a non-digit is found.
func (c ClaveAcceso) ComputeCheckDigit() int {
	body := c.String()
	if len(body) < ClaveAccesoLength-1 {
		return -1
	}
	body = body[:ClaveAccesoLength-1]

	sum := 0
	weight := 2
	for i := len(body) - 1; i >= 0; i-- {
		ch := body[i]
		if ch < '0' || ch > '9' {
			return -1
		}
		sum += int(ch-'0') * weight
		weight++
		if weight > 7 {
			weight = 2
		}
	}

	digit := 11 - sum%11
	switch digit {
	case 11:
		return 0
	case 10:
		return 1
	default:
		return digit
	}
}

// HasValidCheckDigit reports whether the last digit matches ComputeCheckDigit.
func (c ClaveAcceso) HasValidCheckDigit() bool {
	expected := c.ComputeCheckDigit()
	if expected < 0 {
		return false
	}
	return c.DigitoVerificador == strconv.Itoa(expected)
}
