package parser

import "3tcapital/sriats/internal/core/comprobante"

// TaxTotals holds the bucketed IVA bases and the tax amounts of a document, in cents.
type TaxTotals struct {
	Iva0        int64
	Iva12       int64
	Iva15       int64
	IvaTotal    int64
	IceTotal    int64
	IrbpnrTotal int64
}

// ExtractTaxTotals routes every entry by tax code. IVA amounts always reach
// IvaTotal; their bases land in exactly one bucket, and IVA lines with an
// unknown rate code are left out of the buckets while still counting toward
// IvaTotal so the total reconciles with the document.
func ExtractTaxTotals(entries []comprobante.TaxEntry) TaxTotals {
	var totals TaxTotals

	for _, entry := range entries {
		base := ParseMoneyToCents(entry.BaseImponible)
		valor := ParseMoneyToCents(entry.Valor)

		switch NormalizeString(entry.Codigo) {
		case comprobante.TaxIVA:
			totals.IvaTotal += valor

			switch NormalizeString(entry.CodigoPorcentaje) {
			case comprobante.IvaRateZero, comprobante.IvaRateNoObjeto, comprobante.IvaRateExento:
				totals.Iva0 += base
			case comprobante.IvaRateTwelve:
				totals.Iva12 += base
			case comprobante.IvaRateFourteen, comprobante.IvaRateFifteen:
				totals.Iva15 += base
			}
		case comprobante.TaxICE:
			totals.IceTotal += valor
		case comprobante.TaxIRBPNR:
			totals.IrbpnrTotal += valor
		}
	}

	return totals
}
