package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// Product is a catalog listing priced by weight tier: BasePrice buys
// BaseWeight grams, and customers step the weight up in WeightStep
// increments from that floor.
type Product struct {
	ID            uuid.UUID        `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name          string           `gorm:"column:name;not null" json:"name"`
	Description   *string          `gorm:"column:description" json:"description,omitempty"`
	CategoryID    *uuid.UUID       `gorm:"column:category_id;type:uuid" json:"category_id,omitempty"`
	Image         *string          `gorm:"column:image" json:"image,omitempty"`
	Price         decimal.Decimal  `gorm:"column:price;type:numeric(12,2);not null" json:"price"`
	DiscountPrice *decimal.Decimal `gorm:"column:discount_price;type:numeric(12,2)" json:"discountPrice,omitempty"`
	BaseWeight    int              `gorm:"column:base_weight;not null" json:"base_weight"`
	BasePrice     decimal.Decimal  `gorm:"column:base_price;type:numeric(12,2);not null" json:"base_price"`
	WeightStep    int              `gorm:"column:weight_step;not null" json:"weight_step"`
	StockQuantity int              `gorm:"column:stock_quantity;not null;default:0" json:"stock_quantity"`
	InStock       bool             `gorm:"column:in_stock;not null;default:true" json:"inStock"`
	IsActive      bool             `gorm:"column:is_active;not null;default:true" json:"is_active"`
	SortOrder     int              `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	CreatedAt     time.Time        `gorm:"column:created_at;autoCreateTime" json:"created_date"`
	UpdatedAt     time.Time        `gorm:"column:updated_at;autoUpdateTime" json:"updated_date"`
}

func (p *Product) BeforeCreate(*gorm.DB) error {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return nil
}

// EffectiveBasePrice returns the discount price when one is set, the
// regular base price otherwise.
func (p *Product) EffectiveBasePrice() decimal.Decimal {
	if p.DiscountPrice != nil {
		return *p.DiscountPrice
	}
	return p.BasePrice
}

// OnSale reports whether the discount price currently substitutes for
// the base price.
func (p *Product) OnSale() bool {
	return p.DiscountPrice != nil
}
