// Package pdf genera el comprobante impreso de una venta (A4, una tabla de líneas
// y el bloque de totales).
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Tienda               │  N° Recibo + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TABLA: Cant | Producto | P.Unit | Subtotal                 │
//	│  ─────────────────────────────────────────────────────────  │
//	│  TOTALES: Ítems / Valor medio / TOTAL                       │
//	│  FOOTER: leyenda                                            │
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

	"github.com/jhoicas/vitrine-api/internal/application/sales"
	"github.com/jhoicas/vitrine-api/internal/domain/entity"
	"github.com/jhoicas/vitrine-api/pkg/money"
)

var _ sales.ReceiptPDFGenerator = (*MarotoPDFGenerator)(nil)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 34, Green: 84, Blue: 61}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
	colorWhite   = &props.Color{Red: 255, Green: 255, Blue: 255}
)

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa sales.ReceiptPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	storeName string
}

// NewMarotoPDFGenerator construye el generador con el nombre impreso en el encabezado.
func NewMarotoPDFGenerator(storeName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{storeName: storeName}
}

// GenerateReceiptPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateReceiptPDF(_ context.Context, receipt *entity.Receipt) ([]byte, error) {
	if receipt == nil {
		return nil, fmt.Errorf("pdf: recibo nil")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Recibo "+receipt.ID, true).
		WithAuthor(g.storeName, true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(g.storeName, receipt))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	m.AddRows(tableHeaderRow())
	m.AddRows(tableLineRows(receipt.Lines)...)

	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.3}))
	m.AddRows(totalsRow(receipt.Totals))

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow())

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

func headerRow(storeName string, r *entity.Receipt) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(storeName, props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Comprovante de venda (não fiscal)", props.Text{
				Size: 8, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("RECIBO", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New(shortID(r.ID), props.Text{
				Style: fontstyle.Bold, Size: 11, Align: align.Right, Top: 6,
			}),
			text.New(r.FinalizedAt.Format("02/01/2006 15:04"), props.Text{
				Size: 8, Align: align.Right, Top: 13, Color: colorGray,
			}),
		),
	)
}

// tableHeaderRow cabecera de la tabla con texto blanco sobre fondo primario.
func tableHeaderRow() core.Row {
	h := func(label string, size int, a align.Type) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Align: a,
			Color: colorWhite, Top: 2, Left: 1, Right: 1,
		}))
	}
	return row.New(8).Add(
		h("Qtd.", 1, align.Center),
		h("Produto", 6, align.Left),
		h("Preço unit.", 2, align.Right),
		h("Subtotal", 3, align.Right),
	).WithStyle(&props.Cell{BackgroundColor: colorPrimary})
}

func tableLineRows(lines []entity.ReceiptLine) []core.Row {
	rows := make([]core.Row, 0, len(lines))
	for _, l := range lines {
		rows = append(rows, row.New(7).Add(
			col.New(1).Add(text.New(strconv.Itoa(l.Quantity), props.Text{Size: 8, Align: align.Center, Top: 1})),
			col.New(6).Add(text.New(l.Name, props.Text{Size: 8, Align: align.Left, Top: 1, Left: 1})),
			col.New(2).Add(text.New(money.Format(l.UnitPrice), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
			col.New(3).Add(text.New(money.Format(l.LineTotal), props.Text{Size: 8, Align: align.Right, Top: 1, Right: 1})),
		))
	}
	return rows
}

func totalsRow(t entity.Totals) core.Row {
	label := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Style: fontstyle.Bold, Size: 9, Align: align.Right, Right: 2, Top: top})
	}
	value := func(s string, top float64) core.Component {
		return text.New(s, props.Text{Size: 9, Align: align.Right, Right: 1, Top: top})
	}
	return row.New(22).Add(
		col.New(6),
		col.New(3).Add(
			label("Itens:", 0),
			label("Valor médio:", 6),
			text.New("TOTAL:", props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 2, Top: 12,
			}),
		),
		col.New(3).Add(
			value(strconv.Itoa(t.TotalItems), 0),
			value(money.Format(t.AverageUnitValue), 6),
			text.New(money.Format(t.TotalValue), props.Text{
				Style: fontstyle.Bold, Size: 10, Align: align.Right, Color: colorPrimary, Right: 1, Top: 12,
			}),
		),
	)
}

func footerRow() core.Row {
	return row.New(8).Add(col.New(12).Add(
		text.New("Obrigado pela preferência! Trocas em até 30 dias com este comprovante.", props.Text{
			Size: 7, Color: colorGray, Align: align.Center, Top: 2,
		}),
	))
}

// ── helpers ───────────────────────────────────────────────────────────────────

// shortID primeros 8 caracteres del UUID, en mayúsculas.
func shortID(id string) string {
	if len(id) > 8 {
		id = id[:8]
	}
	b := []byte(id)
	for i, c := range b {
		if c >= 'a' && c <= 'z' {
			b[i] = c - 'a' + 'A'
		}
	}
	return "#" + string(b)
}
