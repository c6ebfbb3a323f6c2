package handlers

import (
	"net/http"

	"github.com/diewo77/slatko-ops/httpx"
	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/diewo77/slatko-ops/internal/policy"
	"github.com/diewo77/slatko-ops/internal/services"
)

// AdminUserProfileHandler manages staff accounts and their roles.
type AdminUserProfileHandler struct {
	users *services.UserService
	gate  *policy.AuthGate
}

func NewAdminUserProfileHandler(users *services.UserService, ag *policy.AuthGate) *AdminUserProfileHandler {
	return &AdminUserProfileHandler{users: users, gate: ag}
}

// Profiles lists the role profiles and their permission codes.
func (h *AdminUserProfileHandler) Profiles(w http.ResponseWriter, r *http.Request) {
	profiles, err := h.users.Profiles(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	type profileView struct {
		ID          uint     `json:"id"`
		Name        string   `json:"name"`
		Description string   `json:"description,omitempty"`
		Permissions []string `json:"permissions"`
	}
	out := make([]profileView, 0, len(profiles))
	for _, p := range profiles {
		out = append(out, profileView{ID: p.ID, Name: p.Name, Description: p.Description, Permissions: p.Codes()})
	}
	httpx.JSON(w, http.StatusOK, out)
}

func (h *AdminUserProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	var in services.UserInput
	if !decode(w, r, &in) {
		return
	}
	user, err := h.users.Create(r.Context(), actor(r), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusCreated, identity(user))
}

type assignRoleRequest struct {
	Role models.Role `json:"role"`
}

// AssignRole moves a user to another role and drops their cached profile.
func (h *AdminUserProfileHandler) AssignRole(w http.ResponseWriter, r *http.Request) {
	id, ok := pathID(w, r, "id")
	if !ok {
		return
	}
	var req assignRoleRequest
	if !decode(w, r, &req) {
		return
	}
	user, err := h.users.AssignRole(r.Context(), actor(r), id, req.Role)
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.gate.InvalidateUser(id)
	httpx.JSON(w, http.StatusOK, identity(user))
}
