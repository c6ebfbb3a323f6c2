package services

import (
	"context"
	"testing"
	"time"

	"github.com/diewo77/slatko-ops/internal/db/dbtest"
	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

var fixedNow = time.Date(2023, time.October, 27, 9, 30, 0, 0, time.UTC)

func clock() time.Time { return fixedNow }

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func productID(t *testing.T, conn *gorm.DB, sku string) uint {
	t.Helper()
	var p models.Product
	require.NoError(t, conn.Where("sku = ?", sku).First(&p).Error)
	return p.ID
}

func clientNamed(t *testing.T, conn *gorm.DB, name string) models.Client {
	t.Helper()
	var c models.Client
	require.NoError(t, conn.Where("name = ?", name).First(&c).Error)
	return c
}

func userByEmail(t *testing.T, conn *gorm.DB, email string) models.User {
	t.Helper()
	var u models.User
	require.NoError(t, conn.Preload("Profile").Where("email = ?", email).First(&u).Error)
	return u
}

func orderOf(t *testing.T, conn *gorm.DB, clientID uint) models.Order {
	t.Helper()
	var o models.Order
	require.NoError(t, conn.Where("client_id = ?", clientID).First(&o).Error)
	return o
}

var bg = context.Background()

func seeded(t *testing.T) *gorm.DB {
	t.Helper()
	return dbtest.Seeded(t)
}
