package policy

import "github.com/diewo77/slatko-ops/internal/models"

// MenuItem is one navigation entry of a role's shell.
type MenuItem struct {
	Label string `json:"label"`
	Path  string `json:"path"`
}

var menus = map[models.Role][]MenuItem{
	models.RoleAdmin: {
		{"Dashboard", "/admin"},
		{"Clients", "/admin/resources/clients"},
		{"Products", "/admin/resources/products"},
		{"Inventory", "/admin/resources/inventory"},
		{"Users", "/admin/resources/users"},
		{"Orders", "/admin/resources/orders"},
		{"Production", "/worker/production"},
		{"Invoices", "/admin/resources/invoices"},
		{"Purchases", "/admin/resources/purchases"},
	},
	models.RoleWorker: {
		{"Production", "/worker/production"},
		{"Orders", "/worker/orders"},
		{"Inventory", "/worker/inventory"},
	},
	models.RoleDelivery: {
		{"My Route", "/delivery"},
		{"History", "/delivery/history"},
	},
}

var homes = map[models.Role]string{
	models.RoleAdmin:    "/admin",
	models.RoleWorker:   "/worker/production",
	models.RoleDelivery: "/delivery",
}

// MenuFor returns a copy of the role's menu. Unknown roles get none.
func MenuFor(role models.Role) []MenuItem {
	return append([]MenuItem(nil), menus[role]...)
}

// HomePath is where a role lands after signing in; "/login" for unknown roles.
func HomePath(role models.Role) string {
	if p, ok := homes[role]; ok {
		return p
	}
	return "/login"
}
