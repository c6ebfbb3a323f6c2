package resource_test

import (
	"context"
	"testing"

	"github.com/diewo77/slatko-ops/internal/db/dbtest"
	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/diewo77/slatko-ops/internal/resource"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestLookup(t *testing.T) {
	d, err := resource.Lookup("invoices")
	require.NoError(t, err)
	assert.Equal(t, "visits", d.Table)
	assert.Equal(t, "visit", d.Permission)

	d, err = resource.Lookup("inventory")
	require.NoError(t, err)
	assert.Equal(t, "products", d.Table)

	_, err = resource.Lookup("secrets")
	assert.ErrorIs(t, err, resource.ErrUnknownKind)
}

func TestDefinitionTablesMatchModels(t *testing.T) {
	conn := dbtest.Open(t)
	want := map[resource.Kind]any{
		resource.Clients:   &models.Client{},
		resource.Products:  &models.Product{},
		resource.Inventory: &models.Product{},
		resource.Orders:    &models.Order{},
		resource.Users:     &models.User{},
		resource.Purchases: &models.Purchase{},
		resource.Invoices:  &models.Visit{},
	}
	require.Len(t, resource.Kinds(), len(want))
	for kind, model := range want {
		d, err := resource.Lookup(string(kind))
		require.NoError(t, err)
		stmt := &gorm.Statement{DB: conn}
		require.NoError(t, stmt.Parse(model))
		assert.Equal(t, stmt.Schema.Table, d.Table, kind)
	}
}

func TestProductsExcludeRawMaterial(t *testing.T) {
	conn := dbtest.Seeded(t)
	table, err := resource.Fetch(context.Background(), conn, resource.Products, "")
	require.NoError(t, err)

	require.Len(t, table.Rows, 3)
	flagged := map[string]bool{}
	for _, r := range table.Rows {
		p := r.Record.(*models.Product)
		assert.NotEqual(t, models.CategoryRawMaterial, p.Category)
		flagged[p.SKU] = r.Flagged
	}
	assert.Equal(t, map[string]bool{"PC-12": false, "SY-CAR": true, "SY-VAN": true}, flagged)
}

func TestInventoryValuesStock(t *testing.T) {
	conn := dbtest.Seeded(t)
	table, err := resource.Fetch(context.Background(), conn, resource.Inventory, "")
	require.NoError(t, err)
	require.Len(t, table.Rows, 7)

	var low []string
	for _, r := range table.Rows {
		item := r.Record.(resource.StockItem)
		if r.Flagged {
			low = append(low, item.SKU)
		}
		if item.SKU == "SY-CAR" {
			assert.Equal(t, "360.00", item.Value.StringFixed(2))
			assert.Equal(t, "360.00", r.Cells[4])
		}
	}
	assert.ElementsMatch(t, []string{"PO-CHOC", "RM-SU"}, low)
}

func TestClientsFlagDebt(t *testing.T) {
	conn := dbtest.Seeded(t)
	table, err := resource.Fetch(context.Background(), conn, resource.Clients, "")
	require.NoError(t, err)
	require.Len(t, table.Rows, 5)
	assert.Equal(t, []string{"Name", "Address", "Phone", "Balance"}, table.Columns)

	owing := 0
	for _, r := range table.Rows {
		if r.Flagged {
			owing++
		}
	}
	assert.Equal(t, 3, owing)
}

func TestUsersCarryRole(t *testing.T) {
	conn := dbtest.Seeded(t)
	table, err := resource.Fetch(context.Background(), conn, resource.Users, "mike")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "DELIVERY", table.Rows[0].Cells[2])
	assert.Equal(t, 3, table.Total)
}

func TestSearchIsCaseInsensitiveSubstring(t *testing.T) {
	conn := dbtest.Seeded(t)
	ctx := context.Background()

	table, err := resource.Fetch(ctx, conn, resource.Purchases, "cash & CARRY")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Metro Cash & Carry", table.Rows[0].Cells[0])

	table, err = resource.Fetch(ctx, conn, resource.Orders, "prepared")
	require.NoError(t, err)
	require.Len(t, table.Rows, 1)
	assert.Equal(t, "Bean There Done That", table.Rows[0].Cells[1])

	table, err = resource.Fetch(ctx, conn, resource.Clients, "no such client")
	require.NoError(t, err)
	assert.Empty(t, table.Rows)
	assert.Equal(t, 5, table.Total)
}

func TestFilterEmptyTermKeepsAll(t *testing.T) {
	rows := []resource.Row{{ID: 1, Record: map[string]string{"a": "x"}}, {ID: 2, Record: nil}}
	assert.Len(t, resource.Filter(rows, ""), 2)
	assert.Len(t, resource.Filter(rows, "X"), 1)
}

func TestInvoicesEmptyUntilVisitsFinalized(t *testing.T) {
	conn := dbtest.Seeded(t)
	table, err := resource.Fetch(context.Background(), conn, resource.Invoices, "")
	require.NoError(t, err)
	assert.Equal(t, "Invoices", table.Title)
	assert.Empty(t, table.Rows)
}
