package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Category groups products for the storefront navigation.
type Category struct {
	ID          uuid.UUID `gorm:"column:id;type:uuid;primaryKey" json:"id"`
	Name        string    `gorm:"column:name;not null" json:"name"`
	Description *string   `gorm:"column:description" json:"description,omitempty"`
	ImageURL    *string   `gorm:"column:image_url" json:"image_url,omitempty"`
	Slug        string    `gorm:"column:slug;not null;uniqueIndex" json:"slug"`
	SortOrder   int       `gorm:"column:sort_order;not null;default:0" json:"sort_order"`
	IsActive    bool      `gorm:"column:is_active;not null;default:true" json:"is_active"`
	CreatedAt   time.Time `gorm:"column:created_at;autoCreateTime" json:"created_date"`
	UpdatedAt   time.Time `gorm:"column:updated_at;autoUpdateTime" json:"updated_date"`
}

func (c *Category) BeforeCreate(*gorm.DB) error {
	if c.ID == uuid.Nil {
		c.ID = uuid.New()
	}
	return nil
}
