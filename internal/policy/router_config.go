package policy

import (
	"time"

	"gorm.io/gorm"
)

// VisitResource is the permission resource of delivery visits and receipts.
const VisitResource = "visit"

// NewAppGate builds the gate the router uses: profile permissions from the
// database, with visits restricted to the driver who made them unless the
// user is an admin.
func NewAppGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	ag := NewAuthGate(db, cacheTTL)
	ag.RegisterPolicy(VisitResource, NewAdminBypassPolicy(DriverPolicy{}, ag.IsAdmin))
	return ag
}
