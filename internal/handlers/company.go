package handlers

import (
	"net/http"

	"github.com/diewo77/slatko-ops/httpx"
	"github.com/diewo77/slatko-ops/internal/services"
)

// CompanyHandler edits the business printed on receipts.
type CompanyHandler struct {
	company *services.CompanyService
}

func NewCompanyHandler(company *services.CompanyService) *CompanyHandler {
	return &CompanyHandler{company: company}
}

func (h *CompanyHandler) Show(w http.ResponseWriter, r *http.Request) {
	c, err := h.company.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}

func (h *CompanyHandler) Update(w http.ResponseWriter, r *http.Request) {
	var in services.CompanyInput
	if !decode(w, r, &in) {
		return
	}
	c, err := h.company.Update(r.Context(), actor(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, c)
}
