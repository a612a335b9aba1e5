// Package pdf genera la representación PDF del reporte de valoración de inventario.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Título + empresa   │  Método + fecha                │
//	│  ─────────────────────────────────────────────────────────  │
//	│  RESUMEN: ítems | unidades | valor | ingreso | margen       │
//	│  ─────────────────────────────────────────────────────────  │
//	│  CATEGORÍAS: Categoría | Ítems | Unidades | Valor            │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Ítem | Stock | V.Unit | Valor | Ingreso | Utilidad   │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"

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
	"golang.org/x/text/currency"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/jhoicas/inventario-ledger/internal/application/dto"
	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
)

var _ inventory.ValuationReportRenderer = (*ValuationReportPDF)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorDanger  = &props.Color{Red: 170, Green: 30, Blue: 30}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// ValuationReportPDF implementa inventory.ValuationReportRenderer usando Maroto v2.
// Los montos se formatean según el idioma configurado (separadores de miles y decimales).
type ValuationReportPDF struct {
	printer  *message.Printer
	currency string
}

// NewValuationReportPDF construye el generador. locale es una etiqueta BCP 47 (es-CO) y
// currencyCode un código ISO 4217; valores inválidos caen a es-CO / COP.
func NewValuationReportPDF(locale, currencyCode string) *ValuationReportPDF {
	tag, err := language.Parse(locale)
	if err != nil {
		tag = language.MustParse("es-CO")
	}
	unit, err := currency.ParseISO(currencyCode)
	if err != nil {
		unit = currency.MustParseISO("COP")
	}
	return &ValuationReportPDF{printer: message.NewPrinter(tag), currency: unit.String()}
}

// RenderValuationReport genera el PDF y devuelve sus bytes.
func (g *ValuationReportPDF) RenderValuationReport(_ context.Context, report *dto.ValuationReportDTO) ([]byte, error) {
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Reporte de valoración de inventario", true).
		WithAuthor(report.CompanyID, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(g.headerRow(report))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))
	m.AddRows(g.summaryRow(report.Summary))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))

	if len(report.Categories) > 0 {
		m.AddRows(sectionTitle("DESGLOSE POR CATEGORÍA"))
		m.AddRows(tableHeaderRow([]column{
			{"Categoría", 5, align.Left}, {"Ítems", 2, align.Center},
			{"Unidades", 2, align.Right}, {"Valor", 3, align.Right},
		}))
		m.AddRows(g.categoryRows(report.Categories)...)
		m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	}

	m.AddRows(sectionTitle("DETALLE POR ÍTEM"))
	m.AddRows(tableHeaderRow([]column{
		{"Ítem", 4, align.Left}, {"Stock", 1, align.Center}, {"V. unit.", 2, align.Right},
		{"Valor", 2, align.Right}, {"Ingreso pot.", 2, align.Right}, {"Método", 1, align.Center},
	}))
	m.AddRows(g.itemRows(report.Items)...)

	m.AddRows(line.NewRow(3))
	m.AddRows(row.New(8).Add(col.New(12).Add(
		text.New(report.MethodDescription+". Los ítems sin entradas registradas se valoran al costo actual.",
			props.Text{Size: 6.5, Color: colorGray, Top: 2}),
	)))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: título y empresa (izq), método y fecha (der).
func (g *ValuationReportPDF) headerRow(report *dto.ValuationReportDTO) core.Row {
	scope := "Todas las categorías"
	if report.Category != "" {
		scope = "Categoría: " + report.Category
	}
	return row.New(18).Add(
		col.New(7).Add(
			text.New("VALORACIÓN DE INVENTARIO", props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Empresa: "+report.CompanyID, props.Text{Size: 8, Top: 9, Color: colorGray}),
			text.New(scope, props.Text{Size: 8, Top: 13, Color: colorGray}),
		),
		col.New(5).Add(
			text.New("MÉTODO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(report.Method, props.Text{
				Style: fontstyle.Bold, Size: 12, Align: align.Right, Top: 6,
			}),
			text.New("Generado: "+report.GeneratedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

func (g *ValuationReportPDF) summaryRow(s dto.ValuationSummaryDTO) core.Row {
	cell := func(label, value string) core.Col {
		return col.New(2).Add(
			text.New(label, props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(value, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Center, Top: 6}),
		)
	}
	return row.New(14).Add(
		cell("Ítems", g.printer.Sprintf("%d", s.TotalItems)),
		cell("Unidades", g.printer.Sprintf("%d", s.TotalQuantity)),
		col.New(3).Add(
			text.New("Valor total", props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(g.money(s.TotalValue), props.Text{Style: fontstyle.Bold, Size: 10, Align: align.Center, Color: colorPrimary, Top: 6}),
		),
		cell("Ingreso potencial", g.money(s.TotalPotentialRevenue)),
		cell("Utilidad potencial", g.money(s.TotalPotentialProfit)),
		col.New(1).Add(
			text.New("Margen", props.Text{Size: 7, Align: align.Center, Color: colorGray, Top: 1}),
			text.New(g.number(s.ProfitMarginPct)+"%", props.Text{Size: 9, Align: align.Center, Top: 6}),
		),
	)
}

func (g *ValuationReportPDF) categoryRows(cats []dto.CategoryValuationDTO) []core.Row {
	rows := make([]core.Row, 0, len(cats))
	for _, c := range cats {
		name := c.Category
		if name == "" {
			name = "Sin categoría"
		}
		rows = append(rows, row.New(6).Add(
			cellText(name, 5, align.Left, nil),
			cellText(g.printer.Sprintf("%d", c.Items), 2, align.Center, nil),
			cellText(g.printer.Sprintf("%d", c.Quantity), 2, align.Right, nil),
			cellText(g.money(c.TotalValue), 3, align.Right, nil),
		))
	}
	return rows
}

// itemRows: una fila por ítem; el método efectivo se resalta cuando difiere del pedido.
func (g *ValuationReportPDF) itemRows(items []dto.ItemValuationDTO) []core.Row {
	rows := make([]core.Row, 0, len(items))
	for _, it := range items {
		var methodColor *props.Color
		if it.EffectiveMethod != it.Method {
			methodColor = colorDanger
		}
		rows = append(rows, row.New(7).Add(
			cellText(it.ItemName, 4, align.Left, nil),
			cellText(g.printer.Sprintf("%d", it.CurrentStock), 1, align.Center, nil),
			cellText(g.money(it.UnitValue), 2, align.Right, nil),
			cellText(g.money(it.TotalValue), 2, align.Right, nil),
			cellText(g.money(it.PotentialRevenue), 2, align.Right, nil),
			cellText(it.EffectiveMethod, 1, align.Center, methodColor),
		))
	}
	return rows
}

// ── helpers ───────────────────────────────────────────────────────────────────

type column struct {
	label string
	size  int
	align align.Type
}

func sectionTitle(s string) core.Row {
	return row.New(7).Add(col.New(12).Add(
		text.New(s, props.Text{Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2}),
	))
}

func tableHeaderRow(cols []column) core.Row {
	r := row.New(7)
	for _, c := range cols {
		r.Add(col.New(c.size).Add(text.New(c.label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: c.align, Color: colorPrimary, Top: 1.5, Left: 1, Right: 1,
		})))
	}
	return r
}

func cellText(s string, size int, a align.Type, color *props.Color) core.Col {
	return col.New(size).Add(text.New(s, props.Text{Size: 8, Align: a, Top: 1, Left: 1, Right: 1, Color: color}))
}

// money formatea un monto con separadores del idioma y el código de moneda: "COP 1.234,50".
func (g *ValuationReportPDF) money(d decimal.Decimal) string {
	return g.currency + " " + g.number(d)
}

func (g *ValuationReportPDF) number(d decimal.Decimal) string {
	return g.printer.Sprintf("%.2f", d.Round(2).InexactFloat64())
}
