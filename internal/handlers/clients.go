package handlers

import (
	"net/http"

	"github.com/diewo77/slatko-ops/httpx"
	"github.com/diewo77/slatko-ops/internal/services"
)

type ClientHandler struct {
	clients *services.ClientService
	audit   *services.AuditService
}

func NewClientHandler(clients *services.ClientService, audit *services.AuditService) *ClientHandler {
	return &ClientHandler{clients: clients, audit: audit}
}

func (h *ClientHandler) View(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	detail, err := h.clients.Get(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	trail, err := h.audit.Trail(r.Context(), "client", id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, map[string]any{"client": detail.Client, "visits": detail.Visits, "payments": detail.Payments, "audit": trail})
}

func (h *ClientHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.ClientInput
	if !decode(w, r, &in) {
		return
	}
	client, err := h.clients.Create(r.Context(), actor(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, client)
}

func (h *ClientHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in services.ClientInput
	if !decode(w, r, &in) {
		return
	}
	client, err := h.clients.Update(r.Context(), actor(r), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, client)
}

func (h *ClientHandler) Delete(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	if err := h.clients.Delete(r.Context(), actor(r), id); err != nil {
		writeError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ClientHandler) RecordPayment(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var in services.PaymentInput
	if !decode(w, r, &in) {
		return
	}
	payment, err := h.clients.RecordPayment(r.Context(), actor(r), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, payment)
}
