package services

import (
	"testing"

	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/diewo77/slatko-ops/internal/settlement"
	"github.com/diewo77/slatko-ops/validation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVisitOpenSeedsPreparedOrder(t *testing.T) {
	conn := seeded(t)
	svc := NewVisitService(conn)
	client := clientNamed(t, conn, "Bean There Done That")
	caramel := productID(t, conn, "SY-CAR")

	draft, err := svc.Open(bg, client.ID)
	require.NoError(t, err)

	assert.Equal(t, []settlement.Line{{ProductID: caramel, Quantity: 5}}, draft.Deliveries)
	assert.Empty(t, draft.Returns)
	assert.Equal(t, settlement.MethodCash, draft.Method)
	require.NotNil(t, draft.OrderID)
	assert.Len(t, draft.Catalogue, 3)
	for _, p := range draft.Catalogue {
		assert.False(t, p.IsRawMaterial(), p.SKU)
	}
	assert.Equal(t, "40.00", draft.Settlement.DeliveryTotal.StringFixed(2))
	assert.Equal(t, "40.00", draft.Settlement.GrandTotal.StringFixed(2))
	assert.Equal(t, "40.00", draft.Settlement.RemainingBalance.StringFixed(2))
}

func TestVisitOpenWithoutPreparedOrder(t *testing.T) {
	conn := seeded(t)
	client := clientNamed(t, conn, "Espresso Yourself")

	draft, err := NewVisitService(conn).Open(bg, client.ID)
	require.NoError(t, err)
	assert.Nil(t, draft.OrderID)
	assert.Empty(t, draft.Deliveries)
	assert.Equal(t, "320.00", draft.Settlement.GrandTotal.StringFixed(2))
}

func TestVisitOpenUnknownClient(t *testing.T) {
	conn := seeded(t)
	_, err := NewVisitService(conn).Open(bg, 9999)
	assert.ErrorIs(t, err, ErrClientNotFound)
}

func TestVisitPreviewRebuildsWorkingSet(t *testing.T) {
	conn := seeded(t)
	client := clientNamed(t, conn, "Sunrise Café")
	caramel := productID(t, conn, "SY-CAR")
	vanilla := productID(t, conn, "SY-VAN")

	draft, err := NewVisitService(conn).Preview(bg, client.ID, VisitInput{
		Deliveries: []settlement.Line{{ProductID: caramel, Quantity: 2}, {ProductID: caramel, Quantity: 3}, {ProductID: vanilla, Quantity: 0}},
		Returns:    []settlement.Line{{ProductID: vanilla, Quantity: 1}},
		Payment:    "50 paid in cash",
		Method:     "check",
	})
	require.NoError(t, err)

	assert.Equal(t, []settlement.Line{{ProductID: caramel, Quantity: 3}}, draft.Deliveries)
	assert.Equal(t, settlement.MethodCheck, draft.Method)
	s := draft.Settlement
	assert.Equal(t, "150.00", s.PreviousBalance.StringFixed(2))
	assert.Equal(t, "24.00", s.DeliveryTotal.StringFixed(2))
	assert.Equal(t, "8.00", s.ReturnsTotal.StringFixed(2))
	assert.Equal(t, "166.00", s.GrandTotal.StringFixed(2))
	assert.Equal(t, "116.00", s.RemainingBalance.StringFixed(2))
}

func TestVisitPreviewRejectsUnknownMethod(t *testing.T) {
	conn := seeded(t)
	client := clientNamed(t, conn, "Sunrise Café")

	_, err := NewVisitService(conn).Preview(bg, client.ID, VisitInput{Method: "CARD"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, validation.Violations{"method": "invalid_choice"}, verr.Violations)
}

func TestVisitPreviewSettlesNegativePayment(t *testing.T) {
	conn := seeded(t)
	client := clientNamed(t, conn, "Sunrise Café")

	draft, err := NewVisitService(conn).Preview(bg, client.ID, VisitInput{Payment: "-5"})
	require.NoError(t, err)
	assert.Equal(t, "-5.00", draft.Settlement.Payment.StringFixed(2))
	assert.Equal(t, "155.00", draft.Settlement.RemainingBalance.StringFixed(2))
}

func TestVisitFinalizeRejectsNegativePayment(t *testing.T) {
	conn := seeded(t)
	client := clientNamed(t, conn, "Sunrise Café")

	_, err := NewVisitService(conn).Finalize(bg, 1, client.ID, VisitInput{Payment: "-5"})
	var verr *validation.Error
	require.ErrorAs(t, err, &verr)
	assert.Equal(t, validation.Violations{"payment": "must_not_be_negative"}, verr.Violations)
	assert.True(t, clientNamed(t, conn, "Sunrise Café").Balance.Equal(dec("150")))
}

func TestVisitFinalizeWritesBack(t *testing.T) {
	conn := seeded(t)
	svc := NewVisitService(conn)
	svc.now = clock
	client := clientNamed(t, conn, "Bean There Done That")
	driver := userByEmail(t, conn, "mike@slatko.com")
	caramel := productID(t, conn, "SY-CAR")
	vanilla := productID(t, conn, "SY-VAN")
	prev := client.Balance

	visit, err := svc.Finalize(bg, driver.ID, client.ID, VisitInput{
		Deliveries:      []settlement.Line{{ProductID: caramel, Quantity: 5}},
		Returns:         []settlement.Line{{ProductID: vanilla, Quantity: 1}},
		Payment:         "30",
		PreviousBalance: &prev,
	})
	require.NoError(t, err)

	assert.Regexp(t, `^V-20231027-[0-9A-F]{8}$`, visit.Number)
	assert.Equal(t, "32.00", visit.GrandTotal.StringFixed(2))
	assert.Equal(t, "2.00", visit.RemainingBalance.StringFixed(2))
	assert.Equal(t, models.PaymentCash, visit.PaymentMethod)
	require.NotNil(t, visit.OrderID)

	stored, err := svc.Get(bg, visit.ID)
	require.NoError(t, err)
	require.Len(t, stored.Lines, 2)
	assert.Equal(t, models.LineReturn, stored.Lines[0].Kind)
	assert.Equal(t, "8.00", stored.Lines[0].Total.StringFixed(2))
	assert.Equal(t, models.LineDelivery, stored.Lines[1].Kind)
	assert.Equal(t, "40.00", stored.Lines[1].Total.StringFixed(2))
	assert.Equal(t, driver.ID, stored.GetDriverID())

	updated := clientNamed(t, conn, "Bean There Done That")
	assert.True(t, updated.Balance.Equal(dec("2")), updated.Balance.String())
	require.NotNil(t, updated.LastVisit)
	assert.True(t, updated.LastVisit.Equal(fixedNow))

	var payment models.Payment
	require.NoError(t, conn.Where("visit_id = ?", visit.ID).First(&payment).Error)
	assert.True(t, payment.Amount.Equal(dec("30")))

	var product models.Product
	require.NoError(t, conn.First(&product, caramel).Error)
	assert.Equal(t, 40, product.Stock)

	order := orderOf(t, conn, client.ID)
	assert.Equal(t, models.OrderDelivered, order.Status)

	var audits int64
	require.NoError(t, conn.Model(&models.AuditLog{}).Where("entity_type = ? AND entity_id = ?", "visit", visit.ID).Count(&audits).Error)
	assert.Equal(t, int64(1), audits)
}

func TestVisitFinalizeWithoutPaymentStoresNone(t *testing.T) {
	conn := seeded(t)
	client := clientNamed(t, conn, "Steamy Mugs")

	visit, err := NewVisitService(conn).Finalize(bg, 1, client.ID, VisitInput{Payment: "abc"})
	require.NoError(t, err)
	assert.True(t, visit.PaymentAmount.IsZero())
	assert.Equal(t, "45.50", visit.RemainingBalance.StringFixed(2))

	var n int64
	require.NoError(t, conn.Model(&models.Payment{}).Count(&n).Error)
	assert.Zero(t, n)
}

func TestVisitFinalizeRejectsUnknownProduct(t *testing.T) {
	conn := seeded(t)
	client := clientNamed(t, conn, "Sunrise Café")

	_, err := NewVisitService(conn).Finalize(bg, 1, client.ID, VisitInput{
		Deliveries: []settlement.Line{{ProductID: 9999, Quantity: 2}},
	})
	assert.ErrorIs(t, err, ErrUnknownProduct)

	var n int64
	require.NoError(t, conn.Model(&models.Visit{}).Count(&n).Error)
	assert.Zero(t, n)
	assert.True(t, clientNamed(t, conn, "Sunrise Café").Balance.Equal(dec("150")))
}

func TestVisitSettlesRawMaterialFromPreparedOrder(t *testing.T) {
	conn := seeded(t)
	client := clientNamed(t, conn, "Espresso Yourself")
	beans := productID(t, conn, "CB-001")
	driver := userByEmail(t, conn, "mike@slatko.com")

	orders := NewOrderService(conn)
	order, err := orders.Create(bg, 1, OrderInput{ClientID: client.ID, Items: []OrderLine{{ProductID: beans, Quantity: 2}}})
	require.NoError(t, err)
	_, err = orders.MarkPrepared(bg, 1, order.ID)
	require.NoError(t, err)

	svc := NewVisitService(conn)
	draft, err := svc.Open(bg, client.ID)
	require.NoError(t, err)
	assert.Equal(t, []settlement.Line{{ProductID: beans, Quantity: 2}}, draft.Deliveries)
	assert.Equal(t, "31.00", draft.Settlement.DeliveryTotal.StringFixed(2))
	assert.Equal(t, "351.00", draft.Settlement.GrandTotal.StringFixed(2))
	for _, p := range draft.Catalogue {
		assert.NotEqual(t, beans, p.ID, "raw materials stay out of the picker")
	}

	visit, err := svc.Finalize(bg, driver.ID, client.ID, VisitInput{Deliveries: draft.Deliveries})
	require.NoError(t, err)
	assert.Equal(t, "351.00", visit.RemainingBalance.StringFixed(2))

	var stored models.Order
	require.NoError(t, conn.First(&stored, order.ID).Error)
	assert.Equal(t, models.OrderDelivered, stored.Status)
}

func TestVisitFinalizeDetectsBalanceChange(t *testing.T) {
	conn := seeded(t)
	client := clientNamed(t, conn, "Sunrise Café")
	stale := dec("100")

	_, err := NewVisitService(conn).Finalize(bg, 1, client.ID, VisitInput{Payment: "10", PreviousBalance: &stale})
	assert.ErrorIs(t, err, ErrBalanceChanged)
	assert.True(t, clientNamed(t, conn, "Sunrise Café").Balance.Equal(dec("150")))
}
