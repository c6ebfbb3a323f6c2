package policy

import (
	"context"
	"net/http"
	"time"

	"github.com/diewo77/slatko-ops/auth"
	"github.com/diewo77/slatko-ops/gate"
	"github.com/diewo77/slatko-ops/httpx"
	"gorm.io/gorm"
)

// AuthGate is the application's authorization checkpoint: a gate over a
// cached database profile resolver.
type AuthGate struct {
	Gate     *gate.Gate[uint]
	Profiles *gate.CachedResolver[uint]
}

// NewAuthGate creates a gate caching resolved profiles for cacheTTL.
func NewAuthGate(db *gorm.DB, cacheTTL time.Duration) *AuthGate {
	cached := gate.NewCachedResolver[uint](NewDBProfileResolver(db), cacheTTL)
	return &AuthGate{Gate: gate.New[uint](cached), Profiles: cached}
}

// RegisterPolicy adds a subject policy for a resource type.
func (ag *AuthGate) RegisterPolicy(resourceType string, p gate.Policy[uint]) {
	ag.Gate.Register(resourceType, p)
}

// Authorize checks the current user against action on resourceType and,
// when subject is not nil, the registered subject policy.
func (ag *AuthGate) Authorize(ctx context.Context, action gate.Action, resourceType string, subject any) error {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return gate.ErrUnauthorized
	}
	return ag.Gate.Authorize(ctx, userID, action, resourceType, subject)
}

// CanProfile checks only profile permissions.
func (ag *AuthGate) CanProfile(ctx context.Context, action gate.Action, resourceType string) bool {
	userID, ok := auth.UserIDFromContext(ctx)
	if !ok {
		return false
	}
	return ag.Gate.CanProfile(ctx, userID, action, resourceType)
}

// IsAdmin reports whether the user holds the superadmin permission.
func (ag *AuthGate) IsAdmin(ctx context.Context, userID uint) bool {
	p, err := ag.Gate.Profile(ctx, userID)
	return err == nil && p.HasPermission(gate.PermissionSuperAdmin)
}

// InvalidateUser clears the cached profile of a user whose assignment changed.
func (ag *AuthGate) InvalidateUser(userID uint) {
	ag.Profiles.Invalidate(userID)
}

// InvalidateAll clears every cached profile.
func (ag *AuthGate) InvalidateAll() {
	ag.Profiles.InvalidateAll()
}

// Deny writes the response for an authorization error.
func Deny(w http.ResponseWriter, err error) {
	if err == gate.ErrUnauthorized {
		httpx.JSONError(w, http.StatusUnauthorized, "unauthorized", nil)
		return
	}
	httpx.JSONError(w, http.StatusForbidden, "forbidden", nil)
}

// RequirePermission returns middleware checking a profile permission.
func (ag *AuthGate) RequirePermission(resourceType string, action gate.Action) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if err := ag.Authorize(r.Context(), action, resourceType, nil); err != nil {
				Deny(w, err)
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}

// RequireArea guards a role area such as "admin" or "delivery".
func (ag *AuthGate) RequireArea(area string) func(http.Handler) http.Handler {
	return ag.RequirePermission(AreaResource, gate.Action(area))
}

// AreaResource is the permission resource of role areas ("area:admin").
const AreaResource = "area"
