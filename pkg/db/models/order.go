package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nuthub-il/nuthub-backend/pkg/enums"
)

// OrderWarning records a cart line that could not be honored at
// checkout, kept on the order so the drop is visible to callers.
type OrderWarning struct {
	ProductID string `json:"product_id"`
	Reason    string `json:"reason"`
}

// Order is the persisted result of a checkout submission. Total is
// authoritative and always equals the sum of item totals plus shipping.
type Order struct {
	ID            uuid.UUID         `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	OrderNumber   int64             `gorm:"column:order_number;not null;uniqueIndex" json:"order_number"`
	CustomerName  string            `gorm:"column:customer_name;not null" json:"customerName"`
	CustomerEmail string            `gorm:"column:customer_email;not null" json:"customerEmail"`
	Address       string            `gorm:"column:address;not null" json:"address"`
	Phone         *string           `gorm:"column:phone" json:"phone,omitempty"`
	Status        enums.OrderStatus `gorm:"column:status;not null;default:'pending'" json:"status"`
	Total         decimal.Decimal   `gorm:"column:total;type:numeric(12,2);not null" json:"total"`
	Shipping      decimal.Decimal   `gorm:"column:shipping;type:numeric(12,2);not null" json:"shipping"`
	Warnings      []OrderWarning    `gorm:"column:warnings;type:jsonb;serializer:json" json:"warnings,omitempty"`
	Items         []OrderItem       `gorm:"foreignKey:OrderID;constraint:OnDelete:CASCADE" json:"-"`
	CreatedAt     time.Time         `gorm:"column:created_at;autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time         `gorm:"column:updated_at;autoUpdateTime" json:"updatedAt"`
}

func (o *Order) BeforeCreate(*gorm.DB) error {
	if o.ID == uuid.Nil {
		o.ID = uuid.New()
	}
	return nil
}
