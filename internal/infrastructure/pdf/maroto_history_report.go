// Package pdf genera el kardex (historial de cantidad) de un producto en PDF.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Nombre + Categoría  │  Cantidad actual + Mínimo    │
//	│  ─────────────────────────────────────────────────────────  │
//	│  PRECIOS: Precio / Costo / Utilidad                          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Fecha | Usuario | Tipo | Anterior | Cambio | Cantidad│
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: total de registros                                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

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
	"github.com/shopspring/decimal"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

var _ inventory.HistoryReportGenerator = (*MarotoHistoryReport)(nil)

// MarotoHistoryReport implementa inventory.HistoryReportGenerator usando Maroto v2.
type MarotoHistoryReport struct {
	printer  *message.Printer
	location *time.Location
	now      func() time.Time
}

// NewMarotoHistoryReport construye el generador. Números con separadores en español; fechas en loc (nil = UTC).
func NewMarotoHistoryReport(loc *time.Location) *MarotoHistoryReport {
	if loc == nil {
		loc = time.UTC
	}
	return &MarotoHistoryReport{
		printer:  message.NewPrinter(language.Spanish),
		location: loc,
		now:      time.Now,
	}
}

// GenerateHistoryPDF genera el PDF y devuelve sus bytes.
func (g *MarotoHistoryReport) GenerateHistoryPDF(
	_ context.Context,
	product *entity.Product,
	history []dto.QuantityHistoryResponse,
) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Kardex "+product.Name, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.pricesRow(product))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	m.AddRows(tableHeaderRow())
	for _, r := range g.tableRows(history) {
		m.AddRows(r)
	}

	m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.3}))
	m.AddRows(g.footerRow(len(history)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar kardex: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func (g *MarotoHistoryReport) headerRow(p *entity.Product) core.Row {
	status := "ACTIVO"
	statusColor := colorPrimary
	if !p.Active {
		status = "INACTIVO"
		statusColor = colorDanger
	}
	return row.New(22).Add(
		col.New(7).Add(
			text.New(p.Name, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New(nonEmpty(p.Category, "Sin categoría"), props.Text{Size: 8, Top: 8, Color: colorGray}),
			text.New(p.Description, props.Text{Size: 8, Top: 13, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("KARDEX DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right,
			}),
			text.New("Cantidad: "+g.printer.Sprintf("%d", p.Quantity), props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Mínimo: "+g.printer.Sprintf("%d", p.MinimumStock), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
			text.New(status, props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Top: 17, Color: statusColor,
			}),
		),
	)
}

func (g *MarotoHistoryReport) pricesRow(p *entity.Product) core.Row {
	cell := func(label string, v decimal.Decimal) core.Col {
		return col.New(4).Add(
			text.New(label, props.Text{Style: fontstyle.Bold, Size: 7, Color: colorPrimary, Top: 1}),
			text.New("$ "+g.money(v), props.Text{Size: 9, Top: 5}),
		)
	}
	return row.New(12).Add(
		cell("PRECIO", p.Price),
		cell("COSTO", p.Cost),
		cell("UTILIDAD", p.Profit),
	)
}

func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a, Color: colorPrimary,
		}))
	}
	return row.New(7).Add(
		h("Fecha", 3, align.Left),
		h("Usuario", 3, align.Left),
		h("Tipo", 1, align.Center),
		h("Anterior", 2, align.Right),
		h("Cambio", 1, align.Right),
		h("Cantidad", 2, align.Right),
	)
}

func (g *MarotoHistoryReport) tableRows(history []dto.QuantityHistoryResponse) []core.Row {
	rows := make([]core.Row, 0, len(history))
	for _, h := range history {
		cell := func(s string, size int, a align.Type) core.Col {
			return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1}))
		}
		rows = append(rows, row.New(6).Add(
			cell(h.RevisionDate.In(g.location).Format("2006-01-02 15:04:05"), 3, align.Left),
			cell(h.Username, 3, align.Left),
			cell(nonEmpty(h.Kind, "-"), 1, align.Center),
			cell(g.optional(h.PreviousQuantity, false), 2, align.Right),
			cell(g.optional(h.QuantityChange, h.Kind == entity.MovementKindDelta), 1, align.Right),
			cell(g.printer.Sprintf("%d", h.Quantity), 2, align.Right),
		))
	}
	return rows
}

func (g *MarotoHistoryReport) footerRow(n int) core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New(
			g.printer.Sprintf("%d registros · generado %s", n, g.now().In(g.location).Format("2006-01-02 15:04")),
			props.Text{Size: 7, Color: colorGray, Top: 2, Align: align.Right},
		),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// optional formatea un valor que puede no existir; signed antepone "+" a los positivos.
func (g *MarotoHistoryReport) optional(v *int64, signed bool) string {
	if v == nil {
		return "-"
	}
	if signed && *v > 0 {
		return g.printer.Sprintf("+%d", *v)
	}
	return g.printer.Sprintf("%d", *v)
}

// money formatea con separador de miles y dos decimales.
func (g *MarotoHistoryReport) money(v decimal.Decimal) string {
	f, _ := v.Round(2).Float64()
	return g.printer.Sprintf("%.2f", f)
}

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}
