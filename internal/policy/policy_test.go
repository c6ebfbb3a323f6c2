package policy_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/diewo77/slatko-ops/auth"
	"github.com/diewo77/slatko-ops/gate"
	"github.com/diewo77/slatko-ops/internal/db/dbtest"
	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/diewo77/slatko-ops/internal/policy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func userID(t *testing.T, conn *gorm.DB, email string) uint {
	t.Helper()
	var u models.User
	require.NoError(t, conn.Where("email = ?", email).First(&u).Error)
	return u.ID
}

func asUser(id uint) context.Context {
	return auth.WithUserID(context.Background(), id)
}

func TestRoleAreas(t *testing.T) {
	conn := dbtest.Seeded(t)
	ag := policy.NewAppGate(conn, time.Minute)
	admin := userID(t, conn, "admin@slatko.com")
	worker := userID(t, conn, "john@slatko.com")
	driver := userID(t, conn, "mike@slatko.com")

	tests := []struct {
		user uint
		area string
		want bool
	}{
		{admin, "admin", true},
		{admin, "worker", true},
		{admin, "delivery", true},
		{worker, "worker", true},
		{worker, "admin", false},
		{worker, "delivery", false},
		{driver, "delivery", true},
		{driver, "admin", false},
		{driver, "worker", false},
	}
	for _, tt := range tests {
		got := ag.CanProfile(asUser(tt.user), gate.Action(tt.area), policy.AreaResource)
		assert.Equal(t, tt.want, got, "user %d area %s", tt.user, tt.area)
	}

	assert.True(t, ag.CanProfile(asUser(worker), gate.ActionPrepare, "order"))
	assert.False(t, ag.CanProfile(asUser(worker), gate.ActionCreate, "order"))
	assert.True(t, ag.CanProfile(asUser(driver), gate.ActionFinalize, "visit"))
	assert.False(t, ag.CanProfile(context.Background(), gate.ActionList, "client"))
}

func TestRequireArea(t *testing.T) {
	conn := dbtest.Seeded(t)
	ag := policy.NewAppGate(conn, time.Minute)
	h := ag.RequireArea("admin")(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	tests := []struct {
		name string
		ctx  context.Context
		want int
		body string
	}{
		{"anonymous", context.Background(), http.StatusUnauthorized, `{"error":"unauthorized"}`},
		{"driver", asUser(userID(t, conn, "mike@slatko.com")), http.StatusForbidden, `{"error":"forbidden"}`},
		{"admin", asUser(userID(t, conn, "admin@slatko.com")), http.StatusOK, ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/admin", nil).WithContext(tt.ctx))
			assert.Equal(t, tt.want, rec.Code)
			if tt.body != "" {
				assert.JSONEq(t, tt.body, rec.Body.String())
			}
		})
	}
}

func TestVisitOwnership(t *testing.T) {
	conn := dbtest.Seeded(t)
	ag := policy.NewAppGate(conn, time.Minute)
	admin := userID(t, conn, "admin@slatko.com")
	driver := userID(t, conn, "mike@slatko.com")
	other := &models.Visit{DriverID: driver + 100}
	own := &models.Visit{DriverID: driver}

	assert.NoError(t, ag.Authorize(asUser(driver), gate.ActionView, policy.VisitResource, own))
	assert.ErrorIs(t, ag.Authorize(asUser(driver), gate.ActionView, policy.VisitResource, other), gate.ErrForbidden)
	assert.NoError(t, ag.Authorize(asUser(admin), gate.ActionView, policy.VisitResource, other))
	assert.ErrorIs(t, ag.Authorize(context.Background(), gate.ActionView, policy.VisitResource, own), gate.ErrUnauthorized)
}

func TestDriverPolicyDeniesUnownedSubjects(t *testing.T) {
	assert.False(t, policy.DriverPolicy{}.Can(context.Background(), 1, gate.ActionView, struct{}{}))
}

func TestInvalidateUserPicksUpNewRole(t *testing.T) {
	conn := dbtest.Seeded(t)
	ag := policy.NewAppGate(conn, time.Hour)
	worker := userID(t, conn, "john@slatko.com")
	require.False(t, ag.CanProfile(asUser(worker), "delivery", policy.AreaResource))

	var delivery models.Profile
	require.NoError(t, conn.Where("name = ?", "delivery").First(&delivery).Error)
	require.NoError(t, conn.Model(&models.User{}).Where("id = ?", worker).Update("profile_id", delivery.ID).Error)

	assert.False(t, ag.CanProfile(asUser(worker), "delivery", policy.AreaResource), "cached profile")
	ag.InvalidateUser(worker)
	assert.True(t, ag.CanProfile(asUser(worker), "delivery", policy.AreaResource))
}

func TestMenus(t *testing.T) {
	assert.Len(t, policy.MenuFor(models.RoleAdmin), 9)
	assert.Equal(t, []policy.MenuItem{{Label: "My Route", Path: "/delivery"}, {Label: "History", Path: "/delivery/history"}}, policy.MenuFor(models.RoleDelivery))
	assert.Empty(t, policy.MenuFor("GUEST"))

	assert.Equal(t, "/admin", policy.HomePath(models.RoleAdmin))
	assert.Equal(t, "/worker/production", policy.HomePath(models.RoleWorker))
	assert.Equal(t, "/delivery", policy.HomePath(models.RoleDelivery))
	assert.Equal(t, "/login", policy.HomePath(""))
}
