package resource

import (
	"fmt"
	"strconv"

	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/shopspring/decimal"
)

const dateLayout = "2006-01-02"

func money(d decimal.Decimal) string { return d.StringFixed(2) }

func clientRow(c *models.Client) Row {
	return Row{
		ID:      c.ID,
		Cells:   []string{c.Name, c.Address, c.Phone, money(c.Balance)},
		Flagged: c.Owes(),
		Record:  c,
	}
}

func productRow(p *models.Product) Row {
	return Row{
		ID:      p.ID,
		Cells:   []string{p.Name, p.SKU, p.Category, money(p.Price), strconv.Itoa(p.Stock)},
		Flagged: p.LowStock(ProductsLowStock),
		Record:  p,
	}
}

// StockItem is an inventory record: the product and its valuation.
type StockItem struct {
	*models.Product
	Value decimal.Decimal `json:"value"`
}

func inventoryRow(p *models.Product) Row {
	item := StockItem{Product: p, Value: p.Value()}
	return Row{
		ID:      p.ID,
		Cells:   []string{p.Name, p.SKU, strconv.Itoa(p.Stock), p.Unit, money(item.Value)},
		Flagged: p.LowStock(InventoryLowStock),
		Record:  item,
	}
}

func orderRow(o *models.Order) Row {
	client := "-"
	if o.Client != nil {
		client = o.Client.Name
	}
	return Row{
		ID:      o.ID,
		Cells:   []string{fmt.Sprintf("#%d", o.ID), client, o.Date.Format(dateLayout), string(o.Status), money(o.Total)},
		Flagged: o.Status == models.OrderPending,
		Record:  o,
	}
}

// Account is a user record with its role.
type Account struct {
	*models.User
	Role models.Role `json:"role"`
}

func userRow(u *models.User) Row {
	return Row{
		ID:     u.ID,
		Cells:  []string{u.Name, u.Email, string(u.Role())},
		Record: Account{User: u, Role: u.Role()},
	}
}

func purchaseRow(p *models.Purchase) Row {
	return Row{
		ID:      p.ID,
		Cells:   []string{p.Supplier, p.Date.Format(dateLayout), p.Items, money(p.Total), string(p.Status)},
		Flagged: p.Status == models.PurchasePending,
		Record:  p,
	}
}

func invoiceRow(v *models.Visit) Row {
	client := "-"
	if v.Client != nil {
		client = v.Client.Name
	}
	return Row{
		ID: v.ID,
		Cells: []string{
			v.Number, client, v.VisitedAt.Format(dateLayout),
			money(v.DeliveryTotal), money(v.ReturnsTotal), money(v.PaymentAmount), money(v.RemainingBalance),
		},
		Flagged: v.RemainingBalance.IsPositive(),
		Record:  v,
	}
}
