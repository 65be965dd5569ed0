package orders

import (
	"context"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nuthub-il/nuthub-backend/pkg/db/models"
	"github.com/nuthub-il/nuthub-backend/pkg/enums"
	"github.com/nuthub-il/nuthub-backend/pkg/pagination"
)

// Repository defines persistence operations for order tables.
type Repository interface {
	WithTx(tx *gorm.DB) Repository

	NextOrderNumber(ctx context.Context) (int64, error)
	CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error)
	CreateOrderItems(ctx context.Context, items []models.OrderItem) error
	FinalizeOrder(ctx context.Context, orderID uuid.UUID, total decimal.Decimal, warnings []models.OrderWarning) error

	FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error)
	ListOrders(ctx context.Context, params pagination.Params, filters OrderListFilters) (*OrderList, error)
	UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error
	DeleteOrder(ctx context.Context, id uuid.UUID) error

	ListOrderItems(ctx context.Context) ([]models.OrderItem, error)
	ListItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItemDetail, error)
	FindOrderItemByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	CreateOrderItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error)
	UpdateOrderItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error)
	DeleteOrderItem(ctx context.Context, id uuid.UUID) error
}
