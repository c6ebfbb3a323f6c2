package services

import (
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

var (
	ErrClientNotFound     = errors.New("client not found")
	ErrOrderNotFound      = errors.New("order not found")
	ErrProductNotFound    = errors.New("product not found")
	ErrVisitNotFound      = errors.New("visit not found")
	ErrPurchaseNotFound   = errors.New("purchase not found")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidTransition  = errors.New("invalid status transition")
	ErrBalanceChanged     = errors.New("client balance changed since the visit was opened")
	ErrUnknownProduct     = errors.New("product does not exist")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrDuplicateSKU       = errors.New("sku already exists")
)

// notFound maps gorm's missing-row error onto a domain sentinel.
func notFound(err, sentinel error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return sentinel
	}
	return err
}
