package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/nuthub-il/nuthub-backend/pkg/db/models"
	"github.com/nuthub-il/nuthub-backend/pkg/enums"
	"github.com/nuthub-il/nuthub-backend/pkg/pagination"
)

// Single-row counter key for order numbers.
const orderCounterID = 1

// Atomic upsert-and-increment; the RETURNING value is unique per call
// even under concurrent checkouts.
const nextOrderNumberQuery = `
INSERT INTO order_counters (id, value) VALUES (?, 1)
ON CONFLICT (id) DO UPDATE SET value = order_counters.value + 1
RETURNING value
`

// gormRepository wires order persistence to GORM.
type gormRepository struct {
	db *gorm.DB
}

// NewRepository builds a repository tied to the provided GORM DB.
func NewRepository(db *gorm.DB) Repository {
	return &gormRepository{db: db}
}

// WithTx returns a repository bound to the provided transaction.
func (r *gormRepository) WithTx(tx *gorm.DB) Repository {
	return &gormRepository{db: tx}
}

// NextOrderNumber atomically allocates the next customer-facing order
// number. Numbers are monotonic and never reused, even after deletes.
func (r *gormRepository) NextOrderNumber(ctx context.Context) (int64, error) {
	var value int64
	err := r.db.WithContext(ctx).Raw(nextOrderNumberQuery, orderCounterID).Scan(&value).Error
	if err != nil {
		return 0, fmt.Errorf("allocate order number: %w", err)
	}
	if value <= 0 {
		return 0, fmt.Errorf("order counter returned %d", value)
	}
	return value, nil
}

// CreateOrder inserts the order shell.
func (r *gormRepository) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if err := r.db.WithContext(ctx).Omit("Items").Create(order).Error; err != nil {
		return nil, err
	}
	return order, nil
}

// CreateOrderItems inserts the surviving lines in one batch.
func (r *gormRepository) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if len(items) == 0 {
		return nil
	}
	return r.db.WithContext(ctx).Create(&items).Error
}

// FinalizeOrder overwrites the provisional total and records warnings
// after reconciliation.
func (r *gormRepository) FinalizeOrder(ctx context.Context, orderID uuid.UUID, total decimal.Decimal, warnings []models.OrderWarning) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", orderID).
		Select("total", "warnings").
		Updates(models.Order{Total: total, Warnings: warnings}).
		Error
}

// FindOrderByID loads the order without items.
func (r *gormRepository) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	var order models.Order
	if err := r.db.WithContext(ctx).First(&order, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &order, nil
}

// ListOrders returns an offset-paginated page, newest first, optionally
// filtered by creation date range.
func (r *gormRepository) ListOrders(ctx context.Context, params pagination.Params, filters OrderListFilters) (*OrderList, error) {
	params = params.Normalize()

	qb := r.db.WithContext(ctx).Model(&models.Order{})
	if filters.From != nil {
		qb = qb.Where("created_at >= ?", *filters.From)
	}
	if filters.To != nil {
		qb = qb.Where("created_at <= ?", *filters.To)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Order
	err := qb.
		Order("created_at DESC").
		Order("order_number DESC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	return &OrderList{
		Data:  rows,
		Total: total,
		Page:  params.Page,
		Pages: pagination.Pages(total, params.Limit),
	}, nil
}

// UpdateOrderStatus sets the status column only.
func (r *gormRepository) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	return r.db.WithContext(ctx).
		Model(&models.Order{}).
		Where("id = ?", id).
		Update("status", status).
		Error
}

// DeleteOrder hard-deletes the order; items cascade at the database
// level, with an explicit sweep for engines without FK enforcement.
func (r *gormRepository) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	if err := r.db.WithContext(ctx).Where("order_id = ?", id).Delete(&models.OrderItem{}).Error; err != nil {
		return err
	}
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Order{}).Error
}

// ListItemsByOrder returns the order's lines with their products
// attached when the product still exists.
func (r *gormRepository) ListItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItemDetail, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Where("order_id = ?", orderID).
		Order("created_at ASC").
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}

	productIDs := make([]uuid.UUID, 0, len(items))
	for _, item := range items {
		if item.ProductID != nil {
			productIDs = append(productIDs, *item.ProductID)
		}
	}

	productsByID := map[uuid.UUID]*models.Product{}
	if len(productIDs) > 0 {
		var products []models.Product
		if err := r.db.WithContext(ctx).Where("id IN ?", productIDs).Find(&products).Error; err != nil {
			return nil, err
		}
		for i := range products {
			productsByID[products[i].ID] = &products[i]
		}
	}

	details := make([]OrderItemDetail, 0, len(items))
	for _, item := range items {
		detail := OrderItemDetail{OrderItem: item}
		if item.ProductID != nil {
			detail.Product = productsByID[*item.ProductID]
		}
		details = append(details, detail)
	}
	return details, nil
}

// ListOrderItems returns every persisted line, newest first.
func (r *gormRepository) ListOrderItems(ctx context.Context) ([]models.OrderItem, error) {
	var items []models.OrderItem
	err := r.db.WithContext(ctx).
		Order("created_at DESC").
		Find(&items).
		Error
	if err != nil {
		return nil, err
	}
	return items, nil
}

// FindOrderItemByID loads a single line.
func (r *gormRepository) FindOrderItemByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	var item models.OrderItem
	if err := r.db.WithContext(ctx).First(&item, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

// CreateOrderItem inserts a single admin-created line.
func (r *gormRepository) CreateOrderItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	if err := r.db.WithContext(ctx).Create(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// UpdateOrderItem updates an existing line.
func (r *gormRepository) UpdateOrderItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	if err := r.db.WithContext(ctx).Save(item).Error; err != nil {
		return nil, err
	}
	return item, nil
}

// DeleteOrderItem removes a line by ID.
func (r *gormRepository) DeleteOrderItem(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.OrderItem{}).Error
}
