package handlers

import (
	"net/http"
	"strconv"

	"github.com/diewo77/slatko-ops/auth"
	"github.com/diewo77/slatko-ops/gate"
	"github.com/diewo77/slatko-ops/httpx"
	"github.com/diewo77/slatko-ops/internal/policy"
	"github.com/diewo77/slatko-ops/internal/resource"
	"github.com/diewo77/slatko-ops/internal/services"
	"github.com/diewo77/slatko-ops/validation"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

var notFoundErrors = []error{
	services.ErrClientNotFound,
	services.ErrOrderNotFound,
	services.ErrProductNotFound,
	services.ErrVisitNotFound,
	services.ErrPurchaseNotFound,
	services.ErrUserNotFound,
	resource.ErrUnknownKind,
}

var conflictErrors = map[error]string{
	services.ErrInvalidTransition: "invalid_transition",
	services.ErrBalanceChanged:    "balance_changed",
	services.ErrDuplicateSKU:      "duplicate_sku",
}

// writeError maps service errors onto the API's error bodies. Anything
// unrecognised is a storage failure and answers 500 with its message.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	var verr *validation.Error
	if errors.As(err, &verr) {
		httpx.JSONError(w, http.StatusBadRequest, "validation_failed", verr.Violations)
		return
	}
	for _, nf := range notFoundErrors {
		if errors.Is(err, nf) {
			httpx.NotFound(w)
			return
		}
	}
	for sentinel, code := range conflictErrors {
		if errors.Is(err, sentinel) {
			httpx.JSONError(w, http.StatusConflict, code, err.Error())
			return
		}
	}
	switch {
	case errors.Is(err, services.ErrUnknownProduct):
		httpx.JSONError(w, http.StatusBadRequest, "unknown_product", err.Error())
	case errors.Is(err, services.ErrInvalidCredentials):
		httpx.JSONError(w, http.StatusUnauthorized, "invalid_credentials", nil)
	case errors.Is(err, gate.ErrUnauthorized), errors.Is(err, gate.ErrForbidden):
		policy.Deny(w, errors.Cause(err))
	default:
		logrus.WithError(err).WithFields(logrus.Fields{"method": r.Method, "path": r.URL.Path}).Error("request failed")
		httpx.JSONError(w, http.StatusInternalServerError, errors.Cause(err).Error(), nil)
	}
}

// decode reads a JSON body, answering 400 itself on failure.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := httpx.DecodeJSON(r, dst); err != nil {
		httpx.JSONError(w, http.StatusBadRequest, "invalid_json", err.Error())
		return false
	}
	return true
}

// pathID parses a numeric path value. Malformed ids are answered as not found.
func pathID(w http.ResponseWriter, r *http.Request, name string) (uint, bool) {
	id, err := strconv.ParseUint(r.PathValue(name), 10, 32)
	if err != nil || id == 0 {
		httpx.NotFound(w)
		return 0, false
	}
	return uint(id), true
}

// actor is the signed-in user. Routes are mounted behind auth.RequireAuth.
func actor(r *http.Request) uint {
	id, _ := auth.UserIDFromContext(r.Context())
	return id
}
