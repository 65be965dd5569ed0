package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nuthub-il/nuthub-backend/pkg/db/models"
)

// CreateOrderInput carries a checkout submission. Total and per-line
// Price come from the client cart and are advisory only; the service
// recomputes every price from the catalog before persisting.
type CreateOrderInput struct {
	CustomerName  string
	CustomerEmail string
	Address       string
	Phone         *string
	Total         decimal.Decimal
	Lines         []OrderLineInput
}

// OrderLineInput is a single cart line. SelectedWeight is the grams
// the shopper picked; zero means the product's base weight scaled by
// quantity.
type OrderLineInput struct {
	ProductID      uuid.UUID
	Quantity       int
	SelectedWeight int
	Price          decimal.Decimal
}

// CreateOrderResult is the persisted outcome of a checkout, including
// warnings for any cart lines that were dropped.
type CreateOrderResult struct {
	Order    *models.Order         `json:"order"`
	Items    []models.OrderItem    `json:"items"`
	Warnings []models.OrderWarning `json:"warnings"`
}

// OrderListFilters narrows the admin order listing by creation date.
type OrderListFilters struct {
	From *time.Time
	To   *time.Time
}

// OrderList is an offset-paginated page of orders.
type OrderList struct {
	Data  []models.Order `json:"data"`
	Total int64          `json:"total"`
	Page  int            `json:"page"`
	Pages int            `json:"pages"`
}

// OrderItemDetail pairs a persisted line with its product (when it
// still exists) for display.
type OrderItemDetail struct {
	models.OrderItem
	Product *models.Product `json:"product,omitempty"`
}

// CreateOrderItemInput holds the admin payload to add a line to an
// existing order.
type CreateOrderItemInput struct {
	OrderID     uuid.UUID
	ProductID   *uuid.UUID
	ProductName string
	Quantity    int
	Weight      int
	UnitPrice   decimal.Decimal
}

// UpdateOrderItemInput holds optional admin mutation values for a line.
type UpdateOrderItemInput struct {
	ProductName *string
	Quantity    *int
	Weight      *int
	UnitPrice   *decimal.Decimal
}
