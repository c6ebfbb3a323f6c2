// Package receipt renders finalized visits as PDF receipts.
package receipt

import (
	"fmt"

	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
)

var (
	bold  = props.Text{Style: fontstyle.Bold}
	right = props.Text{Align: align.Right}
	total = props.Text{Style: fontstyle.Bold, Align: align.Right}
)

// Filename is the download name of a visit's receipt.
func Filename(v *models.Visit) string {
	return fmt.Sprintf("receipt-%s.pdf", v.Number)
}

// Render builds the receipt of a finalized visit. The visit must carry its
// client and lines; line products are optional.
func Render(v *models.Visit, company *models.CompanySettings) ([]byte, error) {
	cfg := config.NewBuilder().
		WithLeftMargin(15).
		WithTopMargin(15).
		WithRightMargin(15).
		Build()
	m := maroto.New(cfg)

	for i, h := range company.Header() {
		p := props.Text{Size: 9}
		if i == 0 {
			p = props.Text{Size: 14, Style: fontstyle.Bold}
		}
		m.AddRows(text.NewRow(6, h, p))
	}
	m.AddRows(line.NewRow(4))

	client := "-"
	if v.Client != nil {
		client = v.Client.Name
	}
	m.AddRow(7, text.NewCol(6, "Receipt "+v.Number, bold), text.NewCol(6, v.VisitedAt.Format("2006-01-02 15:04"), right))
	m.AddRow(7, text.NewCol(12, "Client: "+client))
	if v.Client != nil && v.Client.Address != "" {
		m.AddRows(text.NewRow(6, v.Client.Address, props.Text{Size: 9}))
	}
	m.AddRows(line.NewRow(4))

	m.AddRow(7,
		text.NewCol(6, "Product", bold),
		text.NewCol(2, "Qty", props.Text{Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Price", props.Text{Style: fontstyle.Bold, Align: align.Right}),
		text.NewCol(2, "Total", total),
	)
	m.AddRows(section("Delivered", v.Lines, models.LineDelivery, company.Currency)...)
	m.AddRows(section("Returned", v.Lines, models.LineReturn, company.Currency)...)
	m.AddRows(line.NewRow(4))

	cur := company.Currency
	m.AddRows(
		amountRow("Previous balance", v.PreviousBalance, cur, false),
		amountRow("Delivered", v.DeliveryTotal, cur, false),
		amountRow("Returned", v.ReturnsTotal.Neg(), cur, false),
		amountRow("Grand total", v.GrandTotal, cur, true),
		amountRow("Paid ("+string(v.PaymentMethod)+")", v.PaymentAmount.Neg(), cur, false),
		amountRow("Remaining balance", v.RemainingBalance, cur, true),
	)

	doc, err := m.Generate()
	if err != nil {
		return nil, errors.Wrapf(err, "render receipt %s", v.Number)
	}
	return doc.GetBytes(), nil
}

func section(title string, lines []models.VisitLine, kind models.LineKind, cur string) []core.Row {
	var rows []core.Row
	for _, l := range lines {
		if l.Kind != kind {
			continue
		}
		if rows == nil {
			rows = append(rows, text.NewRow(6, title, props.Text{Size: 9, Style: fontstyle.Italic}))
		}
		name := fmt.Sprintf("Product #%d", l.ProductID)
		if l.Product != nil {
			name = l.Product.Name
		}
		rows = append(rows, rowOf(6,
			text.NewCol(6, name),
			text.NewCol(2, fmt.Sprint(l.Quantity), right),
			text.NewCol(2, money(l.UnitPrice, cur), right),
			text.NewCol(2, money(l.Total, cur), right),
		))
	}
	return rows
}

func amountRow(label string, amount decimal.Decimal, cur string, strong bool) core.Row {
	if strong {
		return rowOf(7, text.NewCol(8, label, bold), text.NewCol(4, money(amount, cur), total))
	}
	return rowOf(6, text.NewCol(8, label), text.NewCol(4, money(amount, cur), right))
}

func money(d decimal.Decimal, cur string) string {
	return d.StringFixed(2) + " " + cur
}

func rowOf(height float64, cols ...core.Col) core.Row {
	return row.New(height).Add(cols...)
}
