package handlers

import (
	"net/http"

	"github.com/diewo77/slatko-ops/httpx"
	"github.com/diewo77/slatko-ops/internal/services"
)

// OrderHandler serves order preparation and production batches.
type OrderHandler struct {
	orders     *services.OrderService
	production *services.ProductionService
}

func NewOrderHandler(orders *services.OrderService, production *services.ProductionService) *OrderHandler {
	return &OrderHandler{orders: orders, production: production}
}

func (h *OrderHandler) Queue(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.Queue(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, orders)
}

func (h *OrderHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.orders.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.OrderInput
	if !decode(w, r, &in) {
		return
	}
	order, err := h.orders.Create(r.Context(), actor(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, order)
}

func (h *OrderHandler) Prepare(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.orders.MarkPrepared(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

func (h *OrderHandler) Cancel(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	order, err := h.orders.Cancel(r.Context(), actor(r), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, order)
}

// Batches lists the most recent production batches.
func (h *OrderHandler) Batches(w http.ResponseWriter, r *http.Request) {
	batches, err := h.production.Recent(r.Context(), 10)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, batches)
}

func (h *OrderHandler) RecordBatch(w http.ResponseWriter, r *http.Request) {
	var in services.BatchInput
	if !decode(w, r, &in) {
		return
	}
	batch, err := h.production.Record(r.Context(), actor(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, batch)
}
