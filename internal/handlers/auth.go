package handlers

import (
	"net/http"

	"github.com/diewo77/slatko-ops/auth"
	"github.com/diewo77/slatko-ops/httpx"
	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/diewo77/slatko-ops/internal/policy"
	"github.com/diewo77/slatko-ops/internal/services"
	"github.com/sirupsen/logrus"
)

type AuthHandler struct {
	sessions *services.SessionService
	manager  *auth.Manager
}

func NewAuthHandler(sessions *services.SessionService, manager *auth.Manager) *AuthHandler {
	return &AuthHandler{sessions: sessions, manager: manager}
}

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// Identity is what the client shell needs to render a signed-in user.
type Identity struct {
	User  *models.User      `json:"user"`
	Role  models.Role       `json:"role"`
	Home  string            `json:"home"`
	Menu  []policy.MenuItem `json:"menu"`
	Token string            `json:"token,omitempty"`
}

func identity(u *models.User) Identity {
	role := u.Role()
	return Identity{User: u, Role: role, Home: policy.HomePath(role), Menu: policy.MenuFor(role)}
}

func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !decode(w, r, &req) {
		return
	}
	user, sess, err := h.sessions.Login(r.Context(), req.Email, req.Password, r.UserAgent())
	if err != nil {
		writeError(w, r, err)
		return
	}
	h.manager.SetCookie(w, sess.Token, sess.ExpiresAt)

	id := identity(user)
	id.Token = h.manager.Sign(sess.Token)
	httpx.JSON(w, http.StatusOK, id)
}

func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if token, ok := auth.TokenFromContext(r.Context()); ok {
		if err := h.sessions.Revoke(r.Context(), token); err != nil {
			logrus.WithError(err).Warn("revoke session")
		}
	}
	h.manager.ClearCookie(w)
	w.WriteHeader(http.StatusNoContent)
}

func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user, err := h.sessions.User(r.Context(), actor(r))
	if err != nil {
		writeError(w, r, err)
		return
	}
	httpx.JSON(w, http.StatusOK, identity(user))
}

type account struct {
	ID    uint        `json:"id"`
	Name  string      `json:"name"`
	Email string      `json:"email"`
	Role  models.Role `json:"role"`
}

// Accounts lists the users offered on the sign-in screen.
func (h *AuthHandler) Accounts(w http.ResponseWriter, r *http.Request) {
	users, err := h.sessions.Accounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	out := make([]account, 0, len(users))
	for _, u := range users {
		out = append(out, account{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role()})
	}
	httpx.JSON(w, http.StatusOK, out)
}
