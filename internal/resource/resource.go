// Package resource maps management resource kinds to their backing tables
// and typed row decoders.
package resource

import (
	"context"
	"sort"

	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Kind names a management resource.
type Kind string

const (
	Clients   Kind = "clients"
	Products  Kind = "products"
	Inventory Kind = "inventory"
	Orders    Kind = "orders"
	Users     Kind = "users"
	Purchases Kind = "purchases"
	Invoices  Kind = "invoices"
)

// Stock thresholds under which rows are flagged.
const (
	ProductsLowStock  = 50
	InventoryLowStock = 20
)

var ErrUnknownKind = errors.New("unknown resource kind")

// Row is one decoded record with its display cells. Record is the typed
// value the cells were rendered from.
type Row struct {
	ID      uint     `json:"id"`
	Cells   []string `json:"cells"`
	Flagged bool     `json:"flagged,omitempty"`
	Record  any      `json:"record"`
}

// Table is a loaded resource.
type Table struct {
	Kind    Kind     `json:"kind"`
	Title   string   `json:"title"`
	Columns []string `json:"columns"`
	Rows    []Row    `json:"rows"`
	Total   int      `json:"total"`
}

type loader func(ctx context.Context, tx *gorm.DB) ([]Row, error)

// Definition binds a kind to its table, the permission resource guarding it
// and its column contract.
type Definition struct {
	Kind       Kind
	Table      string
	Title      string
	Permission string
	Columns    []string
	load       loader
}

var definitions = map[Kind]Definition{
	Clients: {
		Kind: Clients, Table: "clients", Title: "Clients", Permission: "client",
		Columns: []string{"Name", "Address", "Phone", "Balance"},
		load:    decode(byName, clientRow),
	},
	Products: {
		Kind: Products, Table: "products", Title: "Products", Permission: "product",
		Columns: []string{"Name", "SKU", "Category", "Price", "Stock"},
		load:    decode(sellable, productRow),
	},
	Inventory: {
		Kind: Inventory, Table: "products", Title: "Inventory", Permission: "inventory",
		Columns: []string{"Item", "SKU", "Stock", "Unit", "Value"},
		load:    decode(byName, inventoryRow),
	},
	Orders: {
		Kind: Orders, Table: "orders", Title: "Orders", Permission: "order",
		Columns: []string{"Order", "Client", "Date", "Status", "Total"},
		load:    decode(latestOrders, orderRow),
	},
	Users: {
		Kind: Users, Table: "users", Title: "Users", Permission: "user",
		Columns: []string{"Name", "Email", "Role"},
		load:    decode(withProfile, userRow),
	},
	Purchases: {
		Kind: Purchases, Table: "purchases", Title: "Purchases", Permission: "purchase",
		Columns: []string{"Supplier", "Date", "Items", "Total", "Status"},
		load:    decode(latestByDate, purchaseRow),
	},
	Invoices: {
		Kind: Invoices, Table: "visits", Title: "Invoices", Permission: "visit",
		Columns: []string{"Number", "Client", "Date", "Delivered", "Returns", "Paid", "Balance"},
		load:    decode(latestVisits, invoiceRow),
	},
}

// Kinds lists every kind, sorted.
func Kinds() []Kind {
	kinds := make([]Kind, 0, len(definitions))
	for k := range definitions {
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })
	return kinds
}

// Lookup resolves a kind name.
func Lookup(name string) (Definition, error) {
	d, ok := definitions[Kind(name)]
	if !ok {
		return Definition{}, errors.Wrapf(ErrUnknownKind, "%q", name)
	}
	return d, nil
}

// Load reads every row of the kind's table.
func (d Definition) Load(ctx context.Context, conn *gorm.DB) (*Table, error) {
	rows, err := d.load(ctx, conn.WithContext(ctx).Table(d.Table))
	if err != nil {
		return nil, errors.Wrapf(err, "load %s", d.Kind)
	}
	return &Table{Kind: d.Kind, Title: d.Title, Columns: d.Columns, Rows: rows, Total: len(rows)}, nil
}

// Fetch loads a kind and keeps the rows matching term.
func Fetch(ctx context.Context, conn *gorm.DB, kind Kind, term string) (*Table, error) {
	d, err := Lookup(string(kind))
	if err != nil {
		return nil, err
	}
	t, err := d.Load(ctx, conn)
	if err != nil {
		return nil, err
	}
	t.Rows = Filter(t.Rows, term)
	return t, nil
}

func decode[M any](scope func(*gorm.DB) *gorm.DB, row func(*M) Row) loader {
	return func(_ context.Context, tx *gorm.DB) ([]Row, error) {
		var records []M
		if err := scope(tx).Find(&records).Error; err != nil {
			return nil, err
		}
		rows := make([]Row, 0, len(records))
		for i := range records {
			rows = append(rows, row(&records[i]))
		}
		return rows, nil
	}
}

func byName(tx *gorm.DB) *gorm.DB { return tx.Order("name") }

func sellable(tx *gorm.DB) *gorm.DB {
	return tx.Where("category <> ?", models.CategoryRawMaterial).Order("name")
}

func latestOrders(tx *gorm.DB) *gorm.DB { return tx.Preload("Client").Order("date DESC, id DESC") }

func withProfile(tx *gorm.DB) *gorm.DB { return tx.Preload("Profile").Order("name") }

func latestByDate(tx *gorm.DB) *gorm.DB { return tx.Order("date DESC, id DESC") }

func latestVisits(tx *gorm.DB) *gorm.DB { return tx.Preload("Client").Order("visited_at DESC, id DESC") }
