package services

import (
	"context"
	"strings"
	"time"

	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/diewo77/slatko-ops/validation"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// ClientInput creates or edits a client. Balance is only read on creation:
// afterwards it moves through visits and payments.
type ClientInput struct {
	Name    string          `json:"name"`
	Address string          `json:"address"`
	Phone   string          `json:"phone"`
	Balance decimal.Decimal `json:"balance"`
}

func (in ClientInput) validate() error {
	v := validation.Violations{}
	validation.Required("name", in.Name, v)
	return v.Err()
}

// PaymentInput records money received outside a visit.
type PaymentInput struct {
	Amount decimal.Decimal      `json:"amount"`
	Method models.PaymentMethod `json:"method"`
}

// ClientDetail is a client with its recent account activity.
type ClientDetail struct {
	Client   models.Client    `json:"client"`
	Visits   []models.Visit   `json:"visits"`
	Payments []models.Payment `json:"payments"`
}

type ClientService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewClientService(db *gorm.DB) *ClientService {
	return &ClientService{db: db, now: time.Now}
}

func (s *ClientService) Get(ctx context.Context, id uint) (*ClientDetail, error) {
	tx := s.db.WithContext(ctx)
	d := &ClientDetail{}
	if err := tx.First(&d.Client, id).Error; err != nil {
		return nil, errors.Wrapf(notFound(err, ErrClientNotFound), "client %d", id)
	}
	if err := tx.Where("client_id = ?", id).Order("visited_at DESC, id DESC").Limit(10).Find(&d.Visits).Error; err != nil {
		return nil, errors.Wrap(err, "load client visits")
	}
	if err := tx.Where("client_id = ?", id).Order("date DESC, id DESC").Limit(10).Find(&d.Payments).Error; err != nil {
		return nil, errors.Wrap(err, "load client payments")
	}
	return d, nil
}

func (s *ClientService) Create(ctx context.Context, actor uint, in ClientInput) (*models.Client, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	client := models.Client{
		Name:    strings.TrimSpace(in.Name),
		Address: strings.TrimSpace(in.Address),
		Phone:   strings.TrimSpace(in.Phone),
		Balance: in.Balance,
	}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&client).Error; err != nil {
			return errors.Wrap(err, "create client")
		}
		return record(tx, actor, "client", client.ID, "create", map[string]any{"name": client.Name})
	})
	if err != nil {
		return nil, err
	}
	return &client, nil
}

func (s *ClientService) Update(ctx context.Context, actor, id uint, in ClientInput) (*models.Client, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	var client models.Client
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&client, id).Error; err != nil {
			return errors.Wrapf(notFound(err, ErrClientNotFound), "client %d", id)
		}
		client.Name = strings.TrimSpace(in.Name)
		client.Address = strings.TrimSpace(in.Address)
		client.Phone = strings.TrimSpace(in.Phone)
		err := tx.Model(&client).Select("name", "address", "phone").Updates(&client).Error
		if err != nil {
			return errors.Wrap(err, "update client")
		}
		return record(tx, actor, "client", id, "update", nil)
	})
	if err != nil {
		return nil, err
	}
	return &client, nil
}

// Delete soft-deletes a client. Its visits and payments are kept.
func (s *ClientService) Delete(ctx context.Context, actor, id uint) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Delete(&models.Client{}, id)
		if res.Error != nil {
			return errors.Wrap(res.Error, "delete client")
		}
		if res.RowsAffected == 0 {
			return errors.Wrapf(ErrClientNotFound, "client %d", id)
		}
		return record(tx, actor, "client", id, "delete", nil)
	})
}

// RecordPayment stores a payment and lowers the client's balance by it.
func (s *ClientService) RecordPayment(ctx context.Context, actor, clientID uint, in PaymentInput) (*models.Payment, error) {
	if in.Method == "" {
		in.Method = models.PaymentCash
	}
	v := validation.Violations{}
	validation.PositiveDecimal("amount", in.Amount, v)
	validation.OneOf("method", in.Method, models.PaymentMethods, v)
	if err := v.Err(); err != nil {
		return nil, err
	}

	payment := models.Payment{ClientID: clientID, Amount: in.Amount, Method: in.Method, Date: s.now()}
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var client models.Client
		if err := tx.First(&client, clientID).Error; err != nil {
			return errors.Wrapf(notFound(err, ErrClientNotFound), "client %d", clientID)
		}
		if err := tx.Create(&payment).Error; err != nil {
			return errors.Wrap(err, "create payment")
		}
		err := tx.Model(&models.Client{}).Where("id = ?", clientID).
			UpdateColumn("balance", gorm.Expr("balance - ?", in.Amount)).Error
		if err != nil {
			return errors.Wrap(err, "lower client balance")
		}
		return record(tx, actor, "payment", payment.ID, "create", map[string]any{
			"client_id": clientID, "amount": in.Amount, "method": in.Method,
		})
	})
	if err != nil {
		return nil, err
	}
	logrus.WithFields(logrus.Fields{"client_id": clientID, "amount": in.Amount.StringFixed(2)}).Info("payment recorded")
	return &payment, nil
}
