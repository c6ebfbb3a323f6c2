package db

import (
	"github.com/diewo77/slatko-ops/gate"
	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type permissionSeed struct {
	ResourceType string
	Action       string
	Description  string
}

// permissionCatalogue is every resource:action pair the API checks.
var permissionCatalogue = []permissionSeed{
	// Superadmin wildcard
	{"*", "*", "Full system access"},
	// Role areas (path prefixes)
	{"area", "admin", "Admin area"},
	{"area", "worker", "Warehouse area"},
	{"area", "delivery", "Delivery area"},
	{"dashboard", "view", "View dashboard"},
	{"client", "*", "All client actions"},
	{"client", "list", "List clients"},
	{"client", "view", "View client details"},
	{"client", "create", "Create clients"},
	{"client", "update", "Edit clients"},
	{"client", "delete", "Delete clients"},
	{"product", "*", "All product actions"},
	{"product", "list", "List products"},
	{"product", "view", "View product details"},
	{"product", "create", "Create products"},
	{"product", "update", "Edit products"},
	{"product", "delete", "Delete products"},
	{"inventory", "list", "List stock levels"},
	{"order", "*", "All order actions"},
	{"order", "list", "List orders"},
	{"order", "view", "View order details"},
	{"order", "create", "Create orders"},
	{"order", "prepare", "Mark orders prepared"},
	{"order", "update", "Cancel orders"},
	{"batch", "*", "All production batch actions"},
	{"batch", "list", "List production batches"},
	{"batch", "create", "Record production batches"},
	{"purchase", "*", "All purchase actions"},
	{"purchase", "list", "List purchases"},
	{"purchase", "create", "Create purchases"},
	{"purchase", "update", "Receive purchases"},
	{"payment", "create", "Record payments"},
	{"user", "list", "List users"},
	{"user", "create", "Create staff accounts"},
	{"user", "update", "Change user roles"},
	{"company", "view", "View company settings"},
	{"company", "update", "Edit company settings"},
	{"route", "view", "View the delivery route"},
	{"visit", "*", "All visit actions"},
	{"visit", "list", "List finalized visits"},
	{"visit", "view", "Open visits and receipts"},
	{"visit", "finalize", "Finalize visits"},
}

type profileSeed struct {
	Role        models.Role
	Description string
	Permissions []string
}

// roleProfiles are the system profiles backing the three roles.
var roleProfiles = []profileSeed{
	{
		Role:        models.RoleAdmin,
		Description: "Office administrator with every permission",
		Permissions: []string{"*:*"},
	},
	{
		Role:        models.RoleWorker,
		Description: "Warehouse worker: order preparation and production",
		Permissions: []string{"area:worker", "order:list", "order:prepare", "batch:*", "inventory:list", "product:list"},
	},
	{
		Role:        models.RoleDelivery,
		Description: "Delivery driver: route, visits and settlements",
		Permissions: []string{"area:delivery", "route:view", "visit:*", "client:list", "product:list"},
	},
}

// SeedPermissions creates the permission catalogue.
func SeedPermissions(conn *gorm.DB) error {
	for _, p := range permissionCatalogue {
		perm := models.Permission{ResourceType: p.ResourceType, Action: p.Action, Description: p.Description}
		err := conn.Where("resource_type = ? AND action = ?", p.ResourceType, p.Action).FirstOrCreate(&perm).Error
		if err != nil {
			return errors.Wrapf(err, "seed permission %s:%s", p.ResourceType, p.Action)
		}
	}
	return nil
}

// SeedProfiles creates the role profiles and (re)assigns their permissions.
// It returns the profile id of each role.
func SeedProfiles(conn *gorm.DB) (map[models.Role]uint, error) {
	if err := SeedPermissions(conn); err != nil {
		return nil, err
	}

	ids := make(map[models.Role]uint, len(roleProfiles))
	for _, p := range roleProfiles {
		profile := models.Profile{Name: p.Role.ProfileName()}
		err := conn.Where(models.Profile{Name: profile.Name}).
			Attrs(models.Profile{Description: p.Description, IsSystem: true}).
			FirstOrCreate(&profile).Error
		if err != nil {
			return nil, errors.Wrapf(err, "seed profile %s", profile.Name)
		}

		perms := make([]models.Permission, 0, len(p.Permissions))
		for _, code := range p.Permissions {
			parsed, err := gate.ParsePermission(code)
			if err != nil {
				return nil, errors.Wrapf(err, "profile %s", profile.Name)
			}
			res, act := parsed.Parse()
			var perm models.Permission
			if err := conn.Where("resource_type = ? AND action = ?", res, string(act)).First(&perm).Error; err != nil {
				return nil, errors.Wrapf(err, "permission %s not in catalogue", code)
			}
			perms = append(perms, perm)
		}
		if err := conn.Model(&profile).Association("Permissions").Replace(perms); err != nil {
			return nil, errors.Wrapf(err, "assign permissions to %s", profile.Name)
		}
		ids[p.Role] = profile.ID
	}
	return ids, nil
}
