package handlers

import (
	"net/http"

	"github.com/diewo77/slatko-ops/gate"
	"github.com/diewo77/slatko-ops/httpx"
	"github.com/diewo77/slatko-ops/internal/policy"
	"github.com/diewo77/slatko-ops/internal/resource"
	"gorm.io/gorm"
)

// ResourceHandler serves the management tables.
type ResourceHandler struct {
	db   *gorm.DB
	gate *policy.AuthGate
}

func NewResourceHandler(db *gorm.DB, ag *policy.AuthGate) *ResourceHandler {
	return &ResourceHandler{db: db, gate: ag}
}

// List serves the kind named in the path, filtered by ?q=.
func (h *ResourceHandler) List(w http.ResponseWriter, r *http.Request) {
	h.serve(w, r, r.PathValue("kind"))
}

// Fixed serves one kind regardless of the path.
func (h *ResourceHandler) Fixed(kind resource.Kind) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		h.serve(w, r, string(kind))
	}
}

func (h *ResourceHandler) serve(w http.ResponseWriter, r *http.Request, kind string) {
	def, err := resource.Lookup(kind)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.gate.Authorize(r.Context(), gate.ActionList, def.Permission, nil); err != nil {
		policy.Deny(w, err)
		return
	}
	table, err := resource.Fetch(r.Context(), h.db, def.Kind, r.URL.Query().Get("q"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, table)
}
