package orders

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"go.uber.org/multierr"
	"gorm.io/gorm"

	"github.com/nuthub-il/nuthub-backend/internal/pricing"
	"github.com/nuthub-il/nuthub-backend/pkg/db/models"
	"github.com/nuthub-il/nuthub-backend/pkg/enums"
	pkgerrors "github.com/nuthub-il/nuthub-backend/pkg/errors"
	"github.com/nuthub-il/nuthub-backend/pkg/logger"
	"github.com/nuthub-il/nuthub-backend/pkg/pagination"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type productReader interface {
	FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
}

// Service defines checkout and back-office order operations.
type Service interface {
	Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error)
	Get(ctx context.Context, id uuid.UUID) (*models.Order, error)
	List(ctx context.Context, params pagination.Params, filters OrderListFilters) (*OrderList, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error)
	Delete(ctx context.Context, id uuid.UUID) error

	ListItems(ctx context.Context) ([]models.OrderItem, error)
	ItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItemDetail, error)
	GetItem(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
	CreateItem(ctx context.Context, input CreateOrderItemInput) (*models.OrderItem, error)
	UpdateItem(ctx context.Context, id uuid.UUID, input UpdateOrderItemInput) (*models.OrderItem, error)
	DeleteItem(ctx context.Context, id uuid.UUID) error
}

type service struct {
	repo        Repository
	products    productReader
	tx          txRunner
	logg        *logger.Logger
	shippingFee decimal.Decimal
}

// NewService constructs an order service instance.
func NewService(repo Repository, products productReader, tx txRunner, logg *logger.Logger, shippingFee decimal.Decimal) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if products == nil {
		return nil, fmt.Errorf("product reader required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	if shippingFee.IsNegative() {
		return nil, fmt.Errorf("shipping fee cannot be negative")
	}
	return &service{
		repo:        repo,
		products:    products,
		tx:          tx,
		logg:        logg,
		shippingFee: shippingFee,
	}, nil
}

// Create persists a checkout submission. The whole flow runs in one
// transaction: allocate an order number, write the shell with the
// client's provisional total, re-price every line against the current
// catalog, then overwrite the total with the authoritative sum.
// Cart lines whose product no longer exists are dropped with a recorded
// warning instead of failing the order.
func (s *service) Create(ctx context.Context, input CreateOrderInput) (*CreateOrderResult, error) {
	if err := validateCreateOrderInput(input); err != nil {
		return nil, err
	}

	var result *CreateOrderResult
	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)

		number, err := repo.NextOrderNumber(ctx)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "allocate order number")
		}
		ctx := s.logg.WithOrderNumber(ctx, number)

		order := &models.Order{
			OrderNumber:   number,
			CustomerName:  strings.TrimSpace(input.CustomerName),
			CustomerEmail: strings.TrimSpace(input.CustomerEmail),
			Address:       strings.TrimSpace(input.Address),
			Phone:         input.Phone,
			Status:        enums.OrderStatusPending,
			Shipping:      s.shippingFee,
			Total:         pricing.Round2(input.Total.Add(s.shippingFee)),
		}
		if _, err := repo.CreateOrder(ctx, order); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order")
		}

		var (
			items    []models.OrderItem
			warnings []models.OrderWarning
			dropped  error
		)
		for _, line := range input.Lines {
			product, err := s.products.FindProductByID(ctx, line.ProductID)
			if err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					warnings = append(warnings, models.OrderWarning{
						ProductID: line.ProductID.String(),
						Reason:    "product no longer exists",
					})
					dropped = multierr.Append(dropped, fmt.Errorf("line for product %s dropped: %w", line.ProductID, err))
					continue
				}
				return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load product for order line")
			}

			weight := line.SelectedWeight
			if weight <= 0 {
				weight = line.Quantity * product.BaseWeight
			}

			productID := product.ID
			unit := pricing.UnitPrice(product.EffectiveBasePrice(), product.BaseWeight, weight)
			items = append(items, models.OrderItem{
				OrderID:     order.ID,
				ProductID:   &productID,
				ProductName: product.Name,
				Quantity:    line.Quantity,
				Weight:      weight,
				UnitPrice:   pricing.Round2(unit),
				TotalPrice:  pricing.Round2(pricing.LineTotal(unit, line.Quantity)),
			})
		}

		if dropped != nil {
			s.logg.Warn(ctx, fmt.Sprintf("dropped %d of %d order line(s): %v", len(warnings), len(input.Lines), dropped))
		}

		if err := repo.CreateOrderItems(ctx, items); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order items")
		}

		total := s.shippingFee
		for _, item := range items {
			total = total.Add(item.TotalPrice)
		}
		total = pricing.Round2(total)

		if err := repo.FinalizeOrder(ctx, order.ID, total, warnings); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "finalize order total")
		}
		order.Total = total
		order.Warnings = warnings

		result = &CreateOrderResult{Order: order, Items: items, Warnings: warnings}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logg.Info(s.logg.WithOrderNumber(ctx, result.Order.OrderNumber), "order created")
	return result, nil
}

func (s *service) Get(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, err := s.repo.FindOrderByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "order")
	}
	return order, nil
}

func (s *service) List(ctx context.Context, params pagination.Params, filters OrderListFilters) (*OrderList, error) {
	list, err := s.repo.ListOrders(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list orders")
	}
	return list, nil
}

func (s *service) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	parsed, err := enums.ParseOrderStatus(status)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeValidation, err, "invalid order status").
			WithDetails(map[string]string{"status": status})
	}

	order, err := s.repo.FindOrderByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "order")
	}

	if err := s.repo.UpdateOrderStatus(ctx, id, parsed); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order status")
	}
	order.Status = parsed
	return order, nil
}

func (s *service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindOrderByID(ctx, id); err != nil {
		return mapLookupErr(err, "order")
	}
	if err := s.repo.DeleteOrder(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order")
	}
	return nil
}

func (s *service) ListItems(ctx context.Context) ([]models.OrderItem, error) {
	items, err := s.repo.ListOrderItems(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order items")
	}
	return items, nil
}

func (s *service) GetItem(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	item, err := s.repo.FindOrderItemByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "order item")
	}
	return item, nil
}

func (s *service) ItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItemDetail, error) {
	if _, err := s.repo.FindOrderByID(ctx, orderID); err != nil {
		return nil, mapLookupErr(err, "order")
	}
	details, err := s.repo.ListItemsByOrder(ctx, orderID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list order items")
	}
	return details, nil
}

func (s *service) CreateItem(ctx context.Context, input CreateOrderItemInput) (*models.OrderItem, error) {
	if err := validateItemInput(input); err != nil {
		return nil, err
	}
	if _, err := s.repo.FindOrderByID(ctx, input.OrderID); err != nil {
		return nil, mapLookupErr(err, "order")
	}

	item := &models.OrderItem{
		OrderID:     input.OrderID,
		ProductID:   input.ProductID,
		ProductName: strings.TrimSpace(input.ProductName),
		Quantity:    input.Quantity,
		Weight:      input.Weight,
		UnitPrice:   pricing.Round2(input.UnitPrice),
		TotalPrice:  pricing.Round2(pricing.LineTotal(input.UnitPrice, input.Quantity)),
	}
	created, err := s.repo.CreateOrderItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert order item")
	}
	return created, nil
}

func (s *service) UpdateItem(ctx context.Context, id uuid.UUID, input UpdateOrderItemInput) (*models.OrderItem, error) {
	item, err := s.repo.FindOrderItemByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "order item")
	}

	if input.ProductName != nil {
		name := strings.TrimSpace(*input.ProductName)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		item.ProductName = name
	}
	if input.Quantity != nil {
		if *input.Quantity <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be positive")
		}
		item.Quantity = *input.Quantity
	}
	if input.Weight != nil {
		if *input.Weight <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight must be positive")
		}
		item.Weight = *input.Weight
	}
	if input.UnitPrice != nil {
		if input.UnitPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "unit price cannot be negative")
		}
		item.UnitPrice = pricing.Round2(*input.UnitPrice)
	}
	item.TotalPrice = pricing.Round2(pricing.LineTotal(item.UnitPrice, item.Quantity))

	updated, err := s.repo.UpdateOrderItem(ctx, item)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update order item")
	}
	return updated, nil
}

func (s *service) DeleteItem(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindOrderItemByID(ctx, id); err != nil {
		return mapLookupErr(err, "order item")
	}
	if err := s.repo.DeleteOrderItem(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete order item")
	}
	return nil
}

func validateCreateOrderInput(input CreateOrderInput) error {
	details := map[string]string{}
	if strings.TrimSpace(input.CustomerName) == "" {
		details["customerName"] = "required"
	}
	email := strings.TrimSpace(input.CustomerEmail)
	if email == "" {
		details["customerEmail"] = "required"
	} else if !strings.Contains(email, "@") {
		details["customerEmail"] = "must be a valid email address"
	}
	if strings.TrimSpace(input.Address) == "" {
		details["address"] = "required"
	}
	if len(input.Lines) == 0 {
		details["items"] = "at least one item is required"
	}
	for i, line := range input.Lines {
		if line.ProductID == uuid.Nil {
			details[fmt.Sprintf("items[%d].product_id", i)] = "required"
		}
		if line.Quantity <= 0 {
			details[fmt.Sprintf("items[%d].quantity", i)] = "must be positive"
		}
		if line.SelectedWeight < 0 {
			details[fmt.Sprintf("items[%d].selectedWeight", i)] = "cannot be negative"
		}
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order payload").WithDetails(details)
	}
	return nil
}

func validateItemInput(input CreateOrderItemInput) error {
	details := map[string]string{}
	if input.OrderID == uuid.Nil {
		details["order_id"] = "required"
	}
	if strings.TrimSpace(input.ProductName) == "" {
		details["product_name"] = "required"
	}
	if input.Quantity <= 0 {
		details["quantity"] = "must be positive"
	}
	if input.Weight <= 0 {
		details["weight"] = "must be positive"
	}
	if input.UnitPrice.IsNegative() {
		details["unit_price"] = "cannot be negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid order item payload").WithDetails(details)
	}
	return nil
}

func mapLookupErr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, resource+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+resource)
}
