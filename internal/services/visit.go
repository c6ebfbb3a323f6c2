package services

import (
	"context"
	"strings"
	"time"

	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/diewo77/slatko-ops/internal/settlement"
	"github.com/diewo77/slatko-ops/validation"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// VisitInput is the working set a driver submits for preview or finalization.
type VisitInput struct {
	Returns    []settlement.Line `json:"returns"`
	Deliveries []settlement.Line `json:"deliveries"`
	Payment    string            `json:"payment"`
	Method     settlement.Method `json:"method"`
	// PreviousBalance is the balance the driver saw when opening the visit.
	// When set, finalizing fails if the client's balance has moved since.
	PreviousBalance *decimal.Decimal `json:"previous_balance,omitempty"`
}

// VisitDraft is an open visit: the client, what can be sold and the current
// settlement.
type VisitDraft struct {
	Client     models.Client         `json:"client"`
	OrderID    *uint                 `json:"order_id,omitempty"`
	Returns    []settlement.Line     `json:"returns"`
	Deliveries []settlement.Line     `json:"deliveries"`
	Method     settlement.Method     `json:"method"`
	Catalogue  []models.Product      `json:"catalogue"`
	Settlement settlement.Settlement `json:"settlement"`
}

// VisitService opens, settles and finalizes delivery visits.
type VisitService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewVisitService(db *gorm.DB) *VisitService {
	return &VisitService{db: db, now: time.Now}
}

// visitContext is everything a settlement needs from storage.
type visitContext struct {
	client    models.Client
	order     *models.Order
	catalogue []models.Product
	prices    settlement.PriceBook
}

func (s *VisitService) load(tx *gorm.DB, clientID uint) (*visitContext, error) {
	vc := &visitContext{}
	if err := tx.First(&vc.client, clientID).Error; err != nil {
		return nil, errors.Wrapf(notFound(err, ErrClientNotFound), "client %d", clientID)
	}
	var products []models.Product
	if err := tx.Order("name").Find(&products).Error; err != nil {
		return nil, errors.Wrap(err, "load products")
	}
	// Every product has a price so prepared orders settle in full; raw
	// materials are only kept out of the picker.
	vc.prices = make(settlement.PriceBook, len(products))
	vc.catalogue = make([]models.Product, 0, len(products))
	for _, p := range products {
		vc.prices[p.ID] = p.Price
		if !p.IsRawMaterial() {
			vc.catalogue = append(vc.catalogue, p)
		}
	}

	var order models.Order
	err := tx.Preload("Items").
		Where("client_id = ? AND status = ?", clientID, models.OrderPrepared).
		Order("date, id").
		First(&order).Error
	switch {
	case err == nil:
		vc.order = &order
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, errors.Wrap(err, "load prepared order")
	}
	return vc, nil
}

// seed turns the prepared order into delivery lines, one per product.
func (vc *visitContext) seed() []settlement.Line {
	if vc.order == nil {
		return nil
	}
	qty := make(map[uint]int, len(vc.order.Items))
	seed := make([]settlement.Line, 0, len(vc.order.Items))
	for _, it := range vc.order.Items {
		if _, seen := qty[it.ProductID]; !seen {
			seed = append(seed, settlement.Line{ProductID: it.ProductID})
		}
		qty[it.ProductID] += it.Quantity
	}
	for i := range seed {
		seed[i].Quantity = qty[seed[i].ProductID]
	}
	return settlement.NewLines(seed...).Items()
}

func (vc *visitContext) draft(sess *settlement.Session) *VisitDraft {
	d := &VisitDraft{
		Client:     vc.client,
		Returns:    sess.Returns.Items(),
		Deliveries: sess.Deliveries.Items(),
		Method:     sess.Method,
		Catalogue:  vc.catalogue,
		Settlement: sess.Compute(vc.prices),
	}
	if vc.order != nil {
		d.OrderID = &vc.order.ID
	}
	return d
}

// session rebuilds the working set from input. Duplicate products collapse
// and non-positive quantities drop out.
func (vc *visitContext) session(in VisitInput) (*settlement.Session, error) {
	sess := settlement.NewSession(vc.client.ID, vc.client.Balance, in.Deliveries...)
	sess.Returns = settlement.NewLines(in.Returns...)
	sess.PaymentInput = in.Payment
	if in.Method != "" {
		sess.Method = settlement.Method(strings.ToUpper(string(in.Method)))
	}

	v := validation.Violations{}
	validation.OneOf("method", sess.Method, settlement.Methods, v)
	if err := v.Err(); err != nil {
		return nil, err
	}
	return sess, nil
}

// Open starts a visit: deliveries come from the client's earliest prepared
// order and returns start empty.
func (s *VisitService) Open(ctx context.Context, clientID uint) (*VisitDraft, error) {
	vc, err := s.load(s.db.WithContext(ctx), clientID)
	if err != nil {
		return nil, err
	}
	return vc.draft(settlement.NewSession(vc.client.ID, vc.client.Balance, vc.seed()...)), nil
}

// Preview settles a submitted working set without storing anything.
// Unknown products contribute nothing.
func (s *VisitService) Preview(ctx context.Context, clientID uint, in VisitInput) (*VisitDraft, error) {
	vc, err := s.load(s.db.WithContext(ctx), clientID)
	if err != nil {
		return nil, err
	}
	sess, err := vc.session(in)
	if err != nil {
		return nil, err
	}
	return vc.draft(sess), nil
}

// Finalize stores the visit in one transaction: the visit and its lines, the
// payment, the client's new balance, stock, the prepared order and an audit
// entry.
func (s *VisitService) Finalize(ctx context.Context, driverID, clientID uint, in VisitInput) (*models.Visit, error) {
	var visit models.Visit
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		vc, err := s.load(tx, clientID)
		if err != nil {
			return err
		}
		sess, err := vc.session(in)
		if err != nil {
			return err
		}
		// A preview settles any number; a stored payment cannot be negative.
		v := validation.Violations{}
		validation.NonNegativeDecimal("payment", sess.Payment(), v)
		if err := v.Err(); err != nil {
			return err
		}
		for _, l := range append(sess.Returns.Items(), sess.Deliveries.Items()...) {
			if _, ok := vc.prices[l.ProductID]; !ok {
				return errors.Wrapf(ErrUnknownProduct, "product %d", l.ProductID)
			}
		}
		if in.PreviousBalance != nil && !in.PreviousBalance.Equal(vc.client.Balance) {
			return ErrBalanceChanged
		}

		now := s.now()
		result := sess.Compute(vc.prices)
		visit = models.Visit{
			Number:           visitNumber(now),
			ClientID:         vc.client.ID,
			DriverID:         driverID,
			VisitedAt:        now,
			PreviousBalance:  result.PreviousBalance,
			DeliveryTotal:    result.DeliveryTotal,
			ReturnsTotal:     result.ReturnsTotal,
			GrandTotal:       result.GrandTotal,
			PaymentAmount:    result.Payment,
			PaymentMethod:    models.PaymentMethod(sess.Method),
			RemainingBalance: result.RemainingBalance,
			Lines:            visitLines(sess, vc.prices),
		}
		if vc.order != nil {
			visit.OrderID = &vc.order.ID
		}
		if err := tx.Create(&visit).Error; err != nil {
			return errors.Wrap(err, "create visit")
		}

		if result.Payment.IsPositive() {
			payment := models.Payment{
				ClientID: vc.client.ID,
				VisitID:  &visit.ID,
				Amount:   result.Payment,
				Method:   models.PaymentMethod(sess.Method),
				Date:     now,
			}
			if err := tx.Create(&payment).Error; err != nil {
				return errors.Wrap(err, "create payment")
			}
		}

		res := tx.Model(&models.Client{}).
			Where("id = ? AND balance = ?", vc.client.ID, vc.client.Balance).
			Updates(map[string]any{"balance": result.RemainingBalance, "last_visit": now})
		if res.Error != nil {
			return errors.Wrap(res.Error, "update client balance")
		}
		if res.RowsAffected == 0 {
			return ErrBalanceChanged
		}

		for _, l := range sess.Deliveries.Items() {
			err := tx.Model(&models.Product{}).Where("id = ?", l.ProductID).
				UpdateColumn("stock", gorm.Expr("stock - ?", l.Quantity)).Error
			if err != nil {
				return errors.Wrapf(err, "decrement stock of product %d", l.ProductID)
			}
		}

		if vc.order != nil {
			if err := setOrderStatus(tx, vc.order, models.OrderDelivered); err != nil {
				return err
			}
		}

		vc.client.Balance = result.RemainingBalance
		vc.client.LastVisit = &now
		visit.Client = &vc.client
		return record(tx, driverID, "visit", visit.ID, "finalize", map[string]any{
			"number":            visit.Number,
			"client_id":         vc.client.ID,
			"previous_balance":  result.PreviousBalance,
			"remaining_balance": result.RemainingBalance,
			"payment":           result.Payment,
		})
	})
	if err != nil {
		return nil, err
	}

	logrus.WithFields(logrus.Fields{
		"visit":     visit.Number,
		"client_id": clientID,
		"driver_id": driverID,
		"remaining": visit.RemainingBalance.StringFixed(2),
	}).Info("visit finalized")
	return &visit, nil
}

// Get loads a finalized visit with its client, driver and priced lines.
func (s *VisitService) Get(ctx context.Context, id uint) (*models.Visit, error) {
	var visit models.Visit
	err := s.db.WithContext(ctx).
		Preload("Client").Preload("Driver").Preload("Lines.Product").
		First(&visit, id).Error
	if err != nil {
		return nil, errors.Wrapf(notFound(err, ErrVisitNotFound), "visit %d", id)
	}
	return &visit, nil
}

func visitNumber(now time.Time) string {
	return "V-" + now.Format("20060102") + "-" + strings.ToUpper(uuid.NewString()[:8])
}

func visitLines(sess *settlement.Session, prices settlement.PriceBook) []models.VisitLine {
	var lines []models.VisitLine
	add := func(kind models.LineKind, items []settlement.Line) {
		for _, l := range items {
			price := prices[l.ProductID]
			lines = append(lines, models.VisitLine{
				ProductID: l.ProductID,
				Kind:      kind,
				Quantity:  l.Quantity,
				UnitPrice: price,
				Total:     price.Mul(decimal.NewFromInt(int64(l.Quantity))),
			})
		}
	}
	add(models.LineReturn, sess.Returns.Items())
	add(models.LineDelivery, sess.Deliveries.Items())
	return lines
}
