package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/slatko-ops/gate"
	"github.com/diewo77/slatko-ops/httpx"
	"github.com/diewo77/slatko-ops/internal/policy"
	"github.com/diewo77/slatko-ops/internal/receipt"
	"github.com/diewo77/slatko-ops/internal/services"
	"github.com/sirupsen/logrus"
)

// DeliveryHandler serves the driver's route, visits and receipts.
type DeliveryHandler struct {
	orders  *services.OrderService
	visits  *services.VisitService
	company *services.CompanyService
	gate    *policy.AuthGate
}

func NewDeliveryHandler(orders *services.OrderService, visits *services.VisitService, company *services.CompanyService, ag *policy.AuthGate) *DeliveryHandler {
	return &DeliveryHandler{orders: orders, visits: visits, company: company, gate: ag}
}

func (h *DeliveryHandler) Route(w http.ResponseWriter, r *http.Request) {
	view, err := h.orders.Route(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, view)
}

func (h *DeliveryHandler) Open(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}
	draft, err := h.visits.Open(r.Context(), clientID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, draft)
}

func (h *DeliveryHandler) Preview(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}
	var in services.VisitInput
	if !decode(w, r, &in) {
		return
	}
	draft, err := h.visits.Preview(r.Context(), clientID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, draft)
}

func (h *DeliveryHandler) Finalize(w http.ResponseWriter, r *http.Request) {
	clientID, ok := pathID(w, r, "clientID")
	if !ok {
		return
	}
	var in services.VisitInput
	if !decode(w, r, &in) {
		return
	}
	visit, err := h.visits.Finalize(r.Context(), actor(r), clientID, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, visit)
}

// Receipt streams the PDF of a finalized visit to its driver or an admin.
func (h *DeliveryHandler) Receipt(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "visitID")
	if !ok {
		return
	}
	visit, err := h.visits.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.gate.Authorize(r.Context(), gate.ActionView, policy.VisitResource, visit); err != nil {
		policy.Deny(w, err)
		return
	}
	company, err := h.company.Get(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	pdf, err := receipt.Render(visit, company)
	if err != nil {
		writeError(w, r, err)
		return
	}

	w.Header().Set("Content-Type", "application/pdf")
	w.Header().Set("Content-Disposition", `attachment; filename="`+receipt.Filename(visit)+`"`)
	w.Header().Set("Content-Length", strconv.Itoa(len(pdf)))
	if _, err := w.Write(pdf); err != nil {
		logrus.WithError(err).WithField("visit", visit.Number).Warn("write receipt")
	}
}
