package catalog

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nuthub-il/nuthub-backend/pkg/db/models"
)

// CreateCategoryInput holds the validated payload to create a category.
// Slug is generated from Name when absent.
type CreateCategoryInput struct {
	Name        string
	Description *string
	ImageURL    *string
	Slug        string
	SortOrder   int
	IsActive    *bool
}

// UpdateCategoryInput holds optional mutation values for a category.
type UpdateCategoryInput struct {
	Name        *string
	Description *string
	ImageURL    *string
	Slug        *string
	SortOrder   *int
	IsActive    *bool
}

// CreateProductInput holds the validated payload to create a product.
type CreateProductInput struct {
	Name          string
	Description   *string
	CategoryID    *uuid.UUID
	Image         *string
	Price         decimal.Decimal
	DiscountPrice *decimal.Decimal
	BaseWeight    int
	BasePrice     decimal.Decimal
	WeightStep    int
	StockQuantity int
	InStock       *bool
	IsActive      *bool
	SortOrder     int
}

// UpdateProductInput holds optional mutation values for a product.
// ClearDiscountPrice removes an existing discount.
type UpdateProductInput struct {
	Name               *string
	Description        *string
	CategoryID         *uuid.UUID
	Image              *string
	Price              *decimal.Decimal
	DiscountPrice      *decimal.Decimal
	ClearDiscountPrice bool
	BaseWeight         *int
	BasePrice          *decimal.Decimal
	WeightStep         *int
	StockQuantity      *int
	InStock            *bool
	IsActive           *bool
	SortOrder          *int
}

// CategoryListFilters narrows category listings.
type CategoryListFilters struct {
	ActiveOnly bool
}

// ProductListFilters narrows product listings.
type ProductListFilters struct {
	CategoryID *uuid.UUID
	ActiveOnly bool
}

// CategoryList is an offset-paginated page of categories.
type CategoryList struct {
	Data  []models.Category `json:"data"`
	Total int64             `json:"total"`
	Page  int               `json:"page"`
	Pages int               `json:"pages"`
}

// ProductList is an offset-paginated page of products.
type ProductList struct {
	Data  []models.Product `json:"data"`
	Total int64            `json:"total"`
	Page  int              `json:"page"`
	Pages int              `json:"pages"`
}
