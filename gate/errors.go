package gate

import "errors"

// Sentinel errors returned by Gate.Authorize and ParsePermission.
var (
	ErrUnauthorized        = errors.New("unauthorized")
	ErrForbidden           = errors.New("forbidden")
	ErrMalformedPermission = errors.New("permission must look like resource:action")
)
