package policy

import (
	"context"

	"github.com/diewo77/slatko-ops/gate"
)

// DriverOwned is implemented by records that belong to the driver who made them.
type DriverOwned interface {
	GetDriverID() uint
}

// DriverPolicy lets drivers reach only their own records. Subjects that do
// not implement DriverOwned are denied.
type DriverPolicy struct{}

func (DriverPolicy) Can(_ context.Context, userID uint, _ gate.Action, subject any) bool {
	owned, ok := subject.(DriverOwned)
	return ok && owned.GetDriverID() == userID
}

// AdminBypassPolicy allows admins everything and defers to inner otherwise.
type AdminBypassPolicy struct {
	inner   gate.Policy[uint]
	isAdmin func(ctx context.Context, userID uint) bool
}

func NewAdminBypassPolicy(inner gate.Policy[uint], isAdmin func(ctx context.Context, userID uint) bool) *AdminBypassPolicy {
	return &AdminBypassPolicy{inner: inner, isAdmin: isAdmin}
}

func (p *AdminBypassPolicy) Can(ctx context.Context, userID uint, action gate.Action, subject any) bool {
	if p.isAdmin(ctx, userID) {
		return true
	}
	return p.inner.Can(ctx, userID, action, subject)
}
