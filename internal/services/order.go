package services

import (
	"context"
	"time"

	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/diewo77/slatko-ops/internal/route"
	"github.com/diewo77/slatko-ops/validation"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// OrderLine is a requested product and quantity.
type OrderLine struct {
	ProductID uint `json:"product_id"`
	Quantity  int  `json:"quantity"`
}

// OrderInput creates an order.
type OrderInput struct {
	ClientID uint        `json:"client_id"`
	Items    []OrderLine `json:"items"`
}

type OrderService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewOrderService(db *gorm.DB) *OrderService {
	return &OrderService{db: db, now: time.Now}
}

// Queue lists pending orders, oldest first, for preparation.
func (s *OrderService) Queue(ctx context.Context) ([]models.Order, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Preload("Client").Preload("Items.Product").
		Where("status = ?", models.OrderPending).
		Order("date, id").
		Find(&orders).Error
	return orders, errors.Wrap(err, "load order queue")
}

// Get loads an order with its client and items.
func (s *OrderService) Get(ctx context.Context, id uint) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Preload("Client").Preload("Items.Product").First(&order, id).Error
	if err != nil {
		return nil, errors.Wrapf(notFound(err, ErrOrderNotFound), "order %d", id)
	}
	return &order, nil
}

// Create records a pending order priced at the current product prices.
func (s *OrderService) Create(ctx context.Context, actor uint, in OrderInput) (*models.Order, error) {
	v := validation.Violations{}
	validation.RequiredID("client_id", in.ClientID, v)
	if len(in.Items) == 0 {
		v.Add("items", "required")
	}
	for _, it := range in.Items {
		validation.RequiredID("items.product_id", it.ProductID, v)
		validation.PositiveInt("items.quantity", it.Quantity, v)
	}
	if err := v.Err(); err != nil {
		return nil, err
	}

	order := models.Order{ClientID: in.ClientID, Date: s.now(), Status: models.OrderPending}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, in.ClientID).Error; err != nil {
			return errors.Wrapf(notFound(err, ErrClientNotFound), "client %d", in.ClientID)
		}
		for _, it := range in.Items {
			var p models.Product
			if err := tx.First(&p, it.ProductID).Error; err != nil {
				return errors.Wrapf(notFound(err, ErrProductNotFound), "product %d", it.ProductID)
			}
			order.Items = append(order.Items, models.OrderItem{ProductID: p.ID, Quantity: it.Quantity, Price: p.Price})
		}
		order.Total = order.ComputeTotal()
		if err := tx.Create(&order).Error; err != nil {
			return errors.Wrap(err, "create order")
		}
		order.Client = &client
		return record(tx, actor, "order", order.ID, "create", map[string]any{"total": order.Total, "items": len(order.Items)})
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"order_id": order.ID, "client_id": order.ClientID}).Info("order created")
	return &order, nil
}

// MarkPrepared moves a pending order to PREPARED.
func (s *OrderService) MarkPrepared(ctx context.Context, actor, id uint) (*models.Order, error) {
	return s.transition(ctx, actor, id, models.OrderPrepared, "prepare")
}

// Cancel cancels an order that has not been delivered.
func (s *OrderService) Cancel(ctx context.Context, actor, id uint) (*models.Order, error) {
	return s.transition(ctx, actor, id, models.OrderCancelled, "cancel")
}

func (s *OrderService) transition(ctx context.Context, actor, id uint, next models.OrderStatus, action string) (*models.Order, error) {
	var order models.Order
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&order, id).Error; err != nil {
			return errors.Wrapf(notFound(err, ErrOrderNotFound), "order %d", id)
		}
		from := order.Status
		if err := setOrderStatus(tx, &order, next); err != nil {
			return err
		}
		return record(tx, actor, "order", order.ID, action, map[string]any{"from": from, "to": next})
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"order_id": id, "status": next}).Info("order status changed")
	return &order, nil
}

// setOrderStatus applies a lifecycle transition, guarded on the current status.
func setOrderStatus(tx *gorm.DB, order *models.Order, next models.OrderStatus) error {
	if !order.Status.CanTransition(next) {
		return errors.Wrapf(ErrInvalidTransition, "order %d %s to %s", order.ID, order.Status, next)
	}
	res := tx.Model(&models.Order{}).
		Where("id = ? AND status = ?", order.ID, order.Status).
		Update("status", next)
	if res.Error != nil {
		return errors.Wrapf(res.Error, "update order %d", order.ID)
	}
	if res.RowsAffected == 0 {
		return errors.Wrapf(ErrInvalidTransition, "order %d changed concurrently", order.ID)
	}
	order.Status = next
	return nil
}

// RouteView is the driver's route with its counts.
type RouteView struct {
	Stops   []route.Stop  `json:"stops"`
	Summary route.Summary `json:"summary"`
}

// Route derives today's stops from the active orders.
func (s *OrderService) Route(ctx context.Context) (*RouteView, error) {
	var orders []models.Order
	err := s.db.WithContext(ctx).
		Where("status IN ?", []models.OrderStatus{models.OrderPending, models.OrderPrepared}).
		Order("date, id").
		Find(&orders).Error
	if err != nil {
		return nil, errors.Wrap(err, "load route orders")
	}
	var clients []models.Client
	if err := s.db.WithContext(ctx).Find(&clients).Error; err != nil {
		return nil, errors.Wrap(err, "load route clients")
	}
	stops := route.Derive(orders, clients)
	return &RouteView{Stops: stops, Summary: route.Summarize(stops)}, nil
}
