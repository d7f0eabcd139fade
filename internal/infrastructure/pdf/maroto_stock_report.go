// Package pdf implementa la representación PDF del estado de stock de una
// sucursal usando Maroto v2.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Reporte de stock │ Sucursal + Fecha de generación  │
//	│  ─────────────────────────────────────────────────────────  │
//	│  ANTIGÜEDAD: bucket | lotes | unidades                      │
//	│  ─────────────────────────────────────────────────────────  │
//	│  STOCK BAJO: medicamento | lote | vence | stock | mínimo    │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"strconv"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	appreports "github.com/jhoicas/farmacia-api/internal/application/reports"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 102, Blue: 84}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorAlert   = &props.Color{Red: 180, Green: 40, Blue: 40}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoStockReportGenerator implementa reports.StockReportPDFGenerator usando Maroto v2.
type MarotoStockReportGenerator struct{}

// NewMarotoStockReportGenerator construye el generador.
func NewMarotoStockReportGenerator() *MarotoStockReportGenerator { return &MarotoStockReportGenerator{} }

// GenerateStockReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoStockReportGenerator) GenerateStockReportPDF(
	_ context.Context,
	data appreports.StockReportData,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de Stock", true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(data))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	// Antigüedad de vencimientos
	m.AddRows(sectionTitleRow("ANTIGÜEDAD DE VENCIMIENTOS"))
	m.AddRows(agingHeaderRow())
	for _, b := range data.Aging.Buckets {
		m.AddRows(agingBucketRow(b.Bucket, b.BatchCount, b.Units))
	}

	// Lotes bajo umbral
	m.AddRows(line.NewRow(3))
	m.AddRows(sectionTitleRow(fmt.Sprintf("LOTES BAJO UMBRAL (%d)", len(data.LowStock))))
	if len(data.LowStock) == 0 {
		m.AddRows(row.New(6).Add(col.New(12).Add(
			text.New("Sin lotes bajo el umbral mínimo.", props.Text{Size: 8, Color: colorGray, Top: 1}),
		)))
	} else {
		m.AddRows(lowStockHeaderRow())
		for _, b := range data.LowStock {
			m.AddRows(lowStockRow(b))
		}
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título (izq) y sucursal + fecha (der).
func headerRow(data appreports.StockReportData) core.Row {
	return row.New(16).Add(
		col.New(7).Add(
			text.New("REPORTE DE STOCK", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
		),
		col.New(5).Add(
			text.New("Sucursal: "+data.BranchID, props.Text{
				Size: 8, Align: align.Right, Top: 2, Color: colorGray,
			}),
			text.New("Generado: "+data.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 8, Color: colorGray,
			}),
		),
	)
}

func sectionTitleRow(title string) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(title, props.Text{
			Style: fontstyle.Bold, Size: 9, Color: colorPrimary, Top: 2,
		}),
	))
}

func agingHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Bucket", 6, align.Left),
		h("Lotes", 3, align.Right),
		h("Unidades", 3, align.Right),
	)
}

// agingBucketRow traduce la clave del bucket a una etiqueta legible.
func agingBucketRow(bucket string, batchCount int, units int64) core.Row {
	labels := map[string]string{
		"expired":   "Vencidos",
		"under_30d": "Vencen en menos de 30 días",
		"under_90d": "Vencen en menos de 90 días",
		"fresh":     "Frescos",
	}
	label, ok := labels[bucket]
	if !ok {
		label = bucket
	}
	textColor := colorGray
	if bucket == "expired" && batchCount > 0 {
		textColor = colorAlert
	}
	return row.New(5).Add(
		col.New(6).Add(text.New(label, props.Text{Size: 8, Top: 1, Color: textColor})),
		col.New(3).Add(text.New(strconv.Itoa(batchCount), props.Text{Size: 8, Align: align.Right, Top: 1, Color: textColor})),
		col.New(3).Add(text.New(strconv.FormatInt(units, 10), props.Text{Size: 8, Align: align.Right, Top: 1, Color: textColor})),
	)
}

func lowStockHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Top: 1,
		}))
	}
	return row.New(6).Add(
		h("Medicamento", 4, align.Left),
		h("Lote", 3, align.Left),
		h("Vence", 2, align.Center),
		h("Stock", 1, align.Right),
		h("Mínimo", 2, align.Right),
	)
}

func lowStockRow(b *entity.Batch) core.Row {
	return row.New(5).Add(
		col.New(4).Add(text.New(b.MedicineID, props.Text{Size: 7.5, Top: 1})),
		col.New(3).Add(text.New(b.BatchNumber, props.Text{Size: 7.5, Top: 1})),
		col.New(2).Add(text.New(b.ExpiryDate.Format("02/01/2006"), props.Text{Size: 7.5, Align: align.Center, Top: 1})),
		col.New(1).Add(text.New(strconv.FormatInt(b.QuantityInStock, 10), props.Text{Size: 7.5, Align: align.Right, Top: 1, Color: colorAlert})),
		col.New(2).Add(text.New(strconv.FormatInt(b.MinStockLevel, 10), props.Text{Size: 7.5, Align: align.Right, Top: 1, Color: colorGray})),
	)
}
