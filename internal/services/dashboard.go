package services

import (
	"context"
	"time"

	"github.com/diewo77/slatko-ops/internal/models"
	"github.com/pkg/errors"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Alerts are raised for products with less stock than this.
const DashboardLowStock = 20

// MonthlySales is the order volume of one calendar month.
type MonthlySales struct {
	Month string          `json:"month"`
	Sales decimal.Decimal `json:"sales"`
}

// Dashboard is the admin overview.
type Dashboard struct {
	TotalSales       decimal.Decimal  `json:"total_sales"`
	PaymentsReceived decimal.Decimal  `json:"payments_received"`
	ReturnedUnits    int64            `json:"returned_units"`
	LowStock         []models.Product `json:"low_stock"`
	RecentOrders     []models.Order   `json:"recent_orders"`
	Monthly          []MonthlySales   `json:"monthly"`
	Year             int              `json:"year"`
}

type DashboardService struct {
	db  *gorm.DB
	now func() time.Time
}

func NewDashboardService(db *gorm.DB) *DashboardService {
	return &DashboardService{db: db, now: time.Now}
}

func (s *DashboardService) Summary(ctx context.Context) (*Dashboard, error) {
	tx := s.db.WithContext(ctx)
	d := &Dashboard{Year: s.now().Year()}

	var orders []models.Order
	if err := tx.Select("id", "date", "total").Where("status <> ?", models.OrderCancelled).Find(&orders).Error; err != nil {
		return nil, errors.Wrap(err, "load sales")
	}
	d.TotalSales = decimal.Zero
	monthly := make([]decimal.Decimal, 12)
	for _, o := range orders {
		d.TotalSales = d.TotalSales.Add(o.Total)
		if o.Date.Year() == d.Year {
			m := o.Date.Month() - 1
			monthly[m] = monthly[m].Add(o.Total)
		}
	}
	for i, sales := range monthly {
		d.Monthly = append(d.Monthly, MonthlySales{Month: time.Month(i + 1).String()[:3], Sales: sales})
	}

	var payments []models.Payment
	if err := tx.Select("id", "amount").Find(&payments).Error; err != nil {
		return nil, errors.Wrap(err, "load payments")
	}
	d.PaymentsReceived = decimal.Zero
	for _, p := range payments {
		d.PaymentsReceived = d.PaymentsReceived.Add(p.Amount)
	}

	err := tx.Model(&models.VisitLine{}).
		Where("kind = ?", models.LineReturn).
		Select("COALESCE(SUM(quantity), 0)").
		Scan(&d.ReturnedUnits).Error
	if err != nil {
		return nil, errors.Wrap(err, "count returned units")
	}

	if err := tx.Where("stock < ?", DashboardLowStock).Order("stock, name").Find(&d.LowStock).Error; err != nil {
		return nil, errors.Wrap(err, "load low stock")
	}
	if err := tx.Preload("Client").Order("date DESC, id DESC").Limit(3).Find(&d.RecentOrders).Error; err != nil {
		return nil, errors.Wrap(err, "load recent orders")
	}
	return d, nil
}
