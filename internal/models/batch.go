package models

import "time"

// ProductionBatch records goods produced in the warehouse. Recording a batch
// adds its quantity to the product's stock.
type ProductionBatch struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	CreatedAt  time.Time `json:"created_at"`
	Number     string    `gorm:"size:30;uniqueIndex;not null" json:"number"`
	ProductID  uint      `gorm:"index;not null" json:"product_id"`
	Product    *Product  `gorm:"foreignKey:ProductID" json:"product,omitempty"`
	Quantity   int       `gorm:"not null" json:"quantity"`
	ProducedAt time.Time `gorm:"index;not null" json:"produced_at"`
	WorkerID   uint      `gorm:"index" json:"worker_id"`
}
