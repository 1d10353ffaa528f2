package testutil

import (
	"time"

	"3tcapital/sriats/internal/core/ats"
	"3tcapital/sriats/internal/core/comprobante"
)

// SampleReport returns a completo report for 2024-01 with two purchases
// and one sale. The second supplier name needs CSV quoting and the first
// needs a formula guard.
func SampleReport() ats.Report {
	factura := ats.ComprasRow{
		RowBase: ats.RowBase{
			TipoIdentificacion: "04",
			Identificacion:     RUCEmisor,
			RazonSocial:        "=DISTRIBUIDORA ANDINA S.A.",
			TipoComprobante:    comprobante.TypeFactura,
			CodigoComprobante:  "01",
			FechaEmision:       "2024-01-15",
			Establecimiento:    "001",
			PuntoEmision:       "001",
			Secuencial:         "000000123",
			Autorizacion:       ClaveFactura,
			ClaveAcceso:        ClaveFactura,
		},
		BaseIvaGravada: 10000,
		MontoIva:       1200,
		Total:          11200,
		FormaPago:      "20",
	}
	retencion := ats.ComprasRow{
		RowBase: ats.RowBase{
			TipoIdentificacion: "04",
			Identificacion:     "1791234567001",
			RazonSocial:        `PEREZ, HIJOS & "CIA"`,
			TipoComprobante:    comprobante.TypeRetencion,
			CodigoComprobante:  "07",
			FechaEmision:       "2024-01-20",
			Establecimiento:    "001",
			PuntoEmision:       "001",
			Secuencial:         "000000045",
			Autorizacion:       ClaveRetencion,
			ClaveAcceso:        ClaveRetencion,
		},
		Total:          800,
		RetencionIva:   300,
		RetencionRenta: 500,
	}
	venta := ats.VentasRow{
		RowBase: ats.RowBase{
			TipoIdentificacion: "05",
			Identificacion:     "1712345678",
			RazonSocial:        "JUAN PÉREZ",
			TipoComprobante:    comprobante.TypeFactura,
			CodigoComprobante:  "01",
			FechaEmision:       "2024-01-25",
			Establecimiento:    "002",
			PuntoEmision:       "003",
			Secuencial:         "000000777",
			Autorizacion:       ClaveFacturaB,
			ClaveAcceso:        ClaveFacturaB,
		},
		BaseIvaGravada:  20000,
		BaseIva0:        5000,
		BaseNoObjetoIva: 1000,
		MontoIva:        3000,
		Total:           29000,
	}

	compras := &ats.ComprasSection{
		Resumen: ats.Resumen{
			TotalComprobantes: 2,
			PorTipo:           map[comprobante.DocumentType]int{comprobante.TypeFactura: 1, comprobante.TypeRetencion: 1},
		},
		Filas: []ats.ComprasRow{factura, retencion},
	}
	for _, row := range compras.Filas {
		compras.Resumen.Totales.AddRow(row)
		group := ats.ProveedorAgregado{
			Proveedor: ats.Counterparty{
				TipoIdentificacion: row.TipoIdentificacion,
				Identificacion:     row.Identificacion,
				RazonSocial:        row.RazonSocial,
			},
			NumeroComprobantes: 1,
			Comprobantes:       []ats.ComprasRow{row},
		}
		group.Totales.AddRow(row)
		compras.PorProveedor = append(compras.PorProveedor, group)
	}

	ventas := &ats.VentasSection{
		Resumen: ats.VentasResumen{
			TotalComprobantes: 1,
			PorTipo:           map[comprobante.DocumentType]int{comprobante.TypeFactura: 1},
		},
		Filas: []ats.VentasRow{venta},
	}
	ventas.Resumen.Totales.AddRow(venta)
	cliente := ats.ClienteAgregado{
		Cliente: ats.Counterparty{
			TipoIdentificacion: venta.TipoIdentificacion,
			Identificacion:     venta.Identificacion,
			RazonSocial:        venta.RazonSocial,
		},
		NumeroComprobantes: 1,
		Comprobantes:       []ats.VentasRow{venta},
	}
	cliente.Totales.AddRow(venta)
	ventas.PorCliente = []ats.ClienteAgregado{cliente}

	return ats.Report{
		Periodo:    "2024-01",
		GeneradoEn: time.Date(2024, 2, 1, 15, 0, 0, 0, time.UTC),
		Tipo:       ats.ReportCompleto,
		Compras:    compras,
		Ventas:     ventas,
	}
}
