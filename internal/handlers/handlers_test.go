package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/diewo77/slatko-ops/auth"
	"github.com/diewo77/slatko-ops/gate"
	"github.com/diewo77/slatko-ops/internal/db/dbtest"
	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/diewo77/slatko-ops/internal/policy"
	"github.com/diewo77/slatko-ops/internal/resource"
	"github.com/diewo77/slatko-ops/internal/services"
	"github.com/diewo77/slatko-ops/validation"
	"github.com/pkg/errors"
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

// serve mounts h on pattern and sends one request as uid.
func serve(pattern string, h http.HandlerFunc, method, target, body string, uid uint) *httptest.ResponseRecorder {
	mux := http.NewServeMux()
	mux.HandleFunc(pattern, h)
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	if uid != 0 {
		req = req.WithContext(auth.WithUserID(req.Context(), uid))
	}
	rr := httptest.NewRecorder()
	mux.ServeHTTP(rr, req)
	return rr
}

func TestWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code int
		body string
	}{
		{"validation", validation.Violations{"name": "required"}.Err(), http.StatusBadRequest, `"validation_failed"`},
		{"not found", errors.Wrap(services.ErrClientNotFound, "load"), http.StatusNotFound, `"not found"`},
		{"unknown kind", resource.ErrUnknownKind, http.StatusNotFound, `"not found"`},
		{"transition", errors.Wrap(services.ErrInvalidTransition, "prepare"), http.StatusConflict, `"invalid_transition"`},
		{"balance", services.ErrBalanceChanged, http.StatusConflict, `"balance_changed"`},
		{"sku", services.ErrDuplicateSKU, http.StatusConflict, `"duplicate_sku"`},
		{"product", errors.Wrap(services.ErrUnknownProduct, "product 9"), http.StatusBadRequest, `"unknown_product"`},
		{"credentials", services.ErrInvalidCredentials, http.StatusUnauthorized, `"invalid_credentials"`},
		{"forbidden", gate.ErrForbidden, http.StatusForbidden, `"forbidden"`},
		{"storage", errors.Wrap(errors.New("disk full"), "save"), http.StatusInternalServerError, `"disk full"`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			rr := httptest.NewRecorder()
			writeError(rr, httptest.NewRequest(http.MethodGet, "/", nil), tc.err)
			assert.Equal(t, tc.code, rr.Code)
			assert.Contains(t, rr.Body.String(), tc.body)
		})
	}
}

func TestPathIDRejectsMalformed(t *testing.T) {
	h := func(w http.ResponseWriter, r *http.Request) {
		if _, ok := pathID(w, r, "id"); ok {
			w.WriteHeader(http.StatusOK)
		}
	}
	for _, id := range []string{"abc", "0", "-1"} {
		rr := serve("GET /x/{id}", h, http.MethodGet, "/x/"+id, "", 0)
		assert.Equal(t, http.StatusNotFound, rr.Code, id)
	}
	assert.Equal(t, http.StatusOK, serve("GET /x/{id}", h, http.MethodGet, "/x/7", "", 0).Code)
}

func TestResourceListAndSearch(t *testing.T) {
	conn := dbtest.Seeded(t)
	h := NewResourceHandler(conn, policy.NewAppGate(conn, time.Minute))
	admin := userID(t, conn, "admin@slatko.com")

	rr := serve("GET /r/{kind}", h.List, http.MethodGet, "/r/clients", "", admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var table resource.Table
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &table))
	assert.Equal(t, resource.Clients, table.Kind)
	assert.Len(t, table.Rows, 5)

	rr = serve("GET /r/{kind}", h.List, http.MethodGet, "/r/clients?q=GRIND", "", admin)
	require.Equal(t, http.StatusOK, rr.Code)
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &table))
	assert.Len(t, table.Rows, 1)
	assert.Equal(t, 5, table.Total)

	rr = serve("GET /r/{kind}", h.List, http.MethodGet, "/r/widgets", "", admin)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestResourceFixedChecksPermission(t *testing.T) {
	conn := dbtest.Seeded(t)
	h := NewResourceHandler(conn, policy.NewAppGate(conn, time.Minute))

	rr := serve("GET /inv", h.Fixed(resource.Inventory), http.MethodGet, "/inv", "", userID(t, conn, "john@slatko.com"))
	assert.Equal(t, http.StatusOK, rr.Code)

	rr = serve("GET /inv", h.Fixed(resource.Inventory), http.MethodGet, "/inv", "", userID(t, conn, "mike@slatko.com"))
	assert.Equal(t, http.StatusForbidden, rr.Code)

	rr = serve("GET /inv", h.Fixed(resource.Inventory), http.MethodGet, "/inv", "", 0)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestClientCreateRejectsBadInput(t *testing.T) {
	conn := dbtest.Seeded(t)
	h := NewClientHandler(services.NewClientService(conn), services.NewAuditService(conn))
	admin := userID(t, conn, "admin@slatko.com")

	rr := serve("POST /c", h.Create, http.MethodPost, "/c", `{"name":""}`, admin)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), `"name":"required"`)

	rr = serve("POST /c", h.Create, http.MethodPost, "/c", `{"name":`, admin)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "invalid_json")

	rr = serve("POST /c", h.Create, http.MethodPost, "/c", `{"name":"Corner Beans","address":"1 Elm St"}`, admin)
	assert.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
}

func TestClientViewIncludesAuditTrail(t *testing.T) {
	conn := dbtest.Seeded(t)
	clients := services.NewClientService(conn)
	h := NewClientHandler(clients, services.NewAuditService(conn))
	admin := userID(t, conn, "admin@slatko.com")

	rr := serve("POST /c", h.Create, http.MethodPost, "/c", `{"name":"Corner Beans"}`, admin)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())
	var created models.Client
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &created))

	rr = serve("GET /c/{id}", h.View, http.MethodGet, "/c/"+jsonID(created.ID), "", admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	var view struct {
		Client models.Client     `json:"client"`
		Audit  []models.AuditLog `json:"audit"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &view))
	assert.Equal(t, "Corner Beans", view.Client.Name)
	assert.NotEmpty(t, view.Audit)

	rr = serve("GET /c/{id}", h.View, http.MethodGet, "/c/9999", "", admin)
	assert.Equal(t, http.StatusNotFound, rr.Code)
}

func TestProductCreateDuplicateSKU(t *testing.T) {
	conn := dbtest.Seeded(t)
	h := NewProductHandler(services.NewProductService(conn))
	admin := userID(t, conn, "admin@slatko.com")

	rr := serve("POST /p", h.Create, http.MethodPost, "/p", `{"name":"Beans","sku":"cb-001","price":"10"}`, admin)
	assert.Equal(t, http.StatusConflict, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), "duplicate_sku")
}

func TestCompanyUpdateValidatesCurrency(t *testing.T) {
	conn := dbtest.Seeded(t)
	h := NewCompanyHandler(services.NewCompanyService(conn))
	admin := userID(t, conn, "admin@slatko.com")

	rr := serve("POST /co", h.Update, http.MethodPost, "/co", `{"name":"Slatko","currency":"dollars"}`, admin)
	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Contains(t, rr.Body.String(), "currency")

	rr = serve("POST /co", h.Update, http.MethodPost, "/co", `{"name":"Slatko","currency":"eur"}`, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.Contains(t, rr.Body.String(), `"EUR"`)
}

func TestAssignRoleTakesEffect(t *testing.T) {
	conn := dbtest.Seeded(t)
	ag := policy.NewAppGate(conn, time.Hour)
	h := NewAdminUserProfileHandler(services.NewUserService(conn, 4), ag)
	admin := userID(t, conn, "admin@slatko.com")
	john := userID(t, conn, "john@slatko.com")

	require.False(t, ag.CanProfile(auth.WithUserID(t.Context(), john), gate.ActionView, "route"))

	rr := serve("POST /u/{id}/role", h.AssignRole, http.MethodPost, "/u/"+jsonID(john)+"/role", `{"role":"delivery"}`, admin)
	require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())
	assert.True(t, ag.CanProfile(auth.WithUserID(t.Context(), john), gate.ActionView, "route"))
}

func jsonID(id uint) string {
	b, _ := json.Marshal(id)
	return string(b)
}
