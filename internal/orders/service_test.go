package orders

import (
	"context"
	"io"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/nuthub-il/nuthub-backend/pkg/db/models"
	"github.com/nuthub-il/nuthub-backend/pkg/enums"
	pkgerrors "github.com/nuthub-il/nuthub-backend/pkg/errors"
	"github.com/nuthub-il/nuthub-backend/pkg/logger"
	"github.com/nuthub-il/nuthub-backend/pkg/pagination"
)

type stubOrdersRepo struct {
	nextNumber int64
	orders     map[uuid.UUID]*models.Order
	items      map[uuid.UUID]*models.OrderItem

	nextOrderNumber  func(ctx context.Context) (int64, error)
	createOrderItems func(ctx context.Context, items []models.OrderItem) error
}

func newStubOrdersRepo() *stubOrdersRepo {
	return &stubOrdersRepo{
		orders: map[uuid.UUID]*models.Order{},
		items:  map[uuid.UUID]*models.OrderItem{},
	}
}

func (s *stubOrdersRepo) WithTx(tx *gorm.DB) Repository {
	return s
}

func (s *stubOrdersRepo) NextOrderNumber(ctx context.Context) (int64, error) {
	if s.nextOrderNumber != nil {
		return s.nextOrderNumber(ctx)
	}
	s.nextNumber++
	return s.nextNumber, nil
}

func (s *stubOrdersRepo) CreateOrder(ctx context.Context, order *models.Order) (*models.Order, error) {
	if order.ID == uuid.Nil {
		order.ID = uuid.New()
	}
	stored := *order
	s.orders[order.ID] = &stored
	return order, nil
}

func (s *stubOrdersRepo) CreateOrderItems(ctx context.Context, items []models.OrderItem) error {
	if s.createOrderItems != nil {
		return s.createOrderItems(ctx, items)
	}
	for i := range items {
		item := items[i]
		if item.ID == uuid.Nil {
			item.ID = uuid.New()
		}
		s.items[item.ID] = &item
	}
	return nil
}

func (s *stubOrdersRepo) FinalizeOrder(ctx context.Context, orderID uuid.UUID, total decimal.Decimal, warnings []models.OrderWarning) error {
	order, ok := s.orders[orderID]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Total = total
	order.Warnings = warnings
	return nil
}

func (s *stubOrdersRepo) FindOrderByID(ctx context.Context, id uuid.UUID) (*models.Order, error) {
	order, ok := s.orders[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return order, nil
}

func (s *stubOrdersRepo) ListOrders(ctx context.Context, params pagination.Params, filters OrderListFilters) (*OrderList, error) {
	rows := make([]models.Order, 0, len(s.orders))
	for _, o := range s.orders {
		rows = append(rows, *o)
	}
	return &OrderList{Data: rows, Total: int64(len(rows)), Page: 1, Pages: 1}, nil
}

func (s *stubOrdersRepo) UpdateOrderStatus(ctx context.Context, id uuid.UUID, status enums.OrderStatus) error {
	order, ok := s.orders[id]
	if !ok {
		return gorm.ErrRecordNotFound
	}
	order.Status = status
	return nil
}

func (s *stubOrdersRepo) DeleteOrder(ctx context.Context, id uuid.UUID) error {
	delete(s.orders, id)
	return nil
}

func (s *stubOrdersRepo) ListOrderItems(ctx context.Context) ([]models.OrderItem, error) {
	items := make([]models.OrderItem, 0, len(s.items))
	for _, item := range s.items {
		items = append(items, *item)
	}
	return items, nil
}

func (s *stubOrdersRepo) ListItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]OrderItemDetail, error) {
	details := []OrderItemDetail{}
	for _, item := range s.items {
		if item.OrderID == orderID {
			details = append(details, OrderItemDetail{OrderItem: *item})
		}
	}
	return details, nil
}

func (s *stubOrdersRepo) FindOrderItemByID(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	item, ok := s.items[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return item, nil
}

func (s *stubOrdersRepo) CreateOrderItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	if item.ID == uuid.Nil {
		item.ID = uuid.New()
	}
	s.items[item.ID] = item
	return item, nil
}

func (s *stubOrdersRepo) UpdateOrderItem(ctx context.Context, item *models.OrderItem) (*models.OrderItem, error) {
	s.items[item.ID] = item
	return item, nil
}

func (s *stubOrdersRepo) DeleteOrderItem(ctx context.Context, id uuid.UUID) error {
	delete(s.items, id)
	return nil
}

type stubProducts struct {
	products map[uuid.UUID]*models.Product
}

func (s *stubProducts) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, ok := s.products[id]
	if !ok {
		return nil, gorm.ErrRecordNotFound
	}
	return product, nil
}

type stubTxRunner struct {
	calls int
}

func (s *stubTxRunner) WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	s.calls++
	return fn(nil)
}

func testLogger() *logger.Logger {
	return logger.New(logger.Options{ServiceName: "orders-test", Output: io.Discard})
}

func newTestProduct(name, basePrice string, baseWeight, step int) *models.Product {
	return &models.Product{
		ID:         uuid.New(),
		Name:       name,
		Price:      decimal.RequireFromString(basePrice),
		BaseWeight: baseWeight,
		BasePrice:  decimal.RequireFromString(basePrice),
		WeightStep: step,
		InStock:    true,
		IsActive:   true,
	}
}

func newOrderService(t *testing.T, repo Repository, products productReader) Service {
	t.Helper()
	svc, err := NewService(repo, products, &stubTxRunner{}, testLogger(), decimal.RequireFromString("5.99"))
	require.NoError(t, err)
	return svc
}

func validInput(lines ...OrderLineInput) CreateOrderInput {
	return CreateOrderInput{
		CustomerName:  "Dana Levi",
		CustomerEmail: "dana@example.com",
		Address:       "1 Herzl St, Tel Aviv",
		Total:         decimal.RequireFromString("999"), // advisory, deliberately wrong
		Lines:         lines,
	}
}

func TestServiceCreateWorkedPricingExample(t *testing.T) {
	product := newTestProduct("Almonds", "20", 100, 50)
	repo := newStubOrdersRepo()
	svc := newOrderService(t, repo, &stubProducts{products: map[uuid.UUID]*models.Product{product.ID: product}})

	result, err := svc.Create(context.Background(), validInput(OrderLineInput{
		ProductID:      product.ID,
		Quantity:       1,
		SelectedWeight: 250,
	}))
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "50.00", result.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "50.00", result.Items[0].TotalPrice.StringFixed(2))
	assert.Equal(t, 250, result.Items[0].Weight)
	assert.Equal(t, "55.99", result.Order.Total.StringFixed(2))
	assert.Empty(t, result.Warnings)
}

func TestServiceCreateReconcilesTotalFromPersistedItems(t *testing.T) {
	almonds := newTestProduct("Almonds", "20", 100, 50)
	cashews := newTestProduct("Cashews", "30", 100, 50)
	repo := newStubOrdersRepo()
	svc := newOrderService(t, repo, &stubProducts{products: map[uuid.UUID]*models.Product{
		almonds.ID: almonds,
		cashews.ID: cashews,
	}})

	result, err := svc.Create(context.Background(), validInput(
		OrderLineInput{ProductID: almonds.ID, Quantity: 2, SelectedWeight: 100},
		OrderLineInput{ProductID: cashews.ID, Quantity: 1, SelectedWeight: 200},
	))
	require.NoError(t, err)

	// 2x100g almonds at 20 + 1x200g cashews at 60 + 5.99 shipping.
	assert.Equal(t, "105.99", result.Order.Total.StringFixed(2))

	sum := result.Order.Shipping
	for _, item := range result.Items {
		sum = sum.Add(item.TotalPrice)
	}
	assert.True(t, result.Order.Total.Equal(sum), "total %s != items+shipping %s", result.Order.Total, sum)

	// The stored order, not just the returned one, carries the reconciled total.
	stored := repo.orders[result.Order.ID]
	assert.True(t, stored.Total.Equal(result.Order.Total))
}

func TestServiceCreateUsesDiscountPriceWhenSet(t *testing.T) {
	product := newTestProduct("Walnuts", "40", 100, 50)
	discount := decimal.RequireFromString("20")
	product.DiscountPrice = &discount

	repo := newStubOrdersRepo()
	svc := newOrderService(t, repo, &stubProducts{products: map[uuid.UUID]*models.Product{product.ID: product}})

	result, err := svc.Create(context.Background(), validInput(OrderLineInput{
		ProductID:      product.ID,
		Quantity:       1,
		SelectedWeight: 250,
	}))
	require.NoError(t, err)
	assert.Equal(t, "50.00", result.Items[0].UnitPrice.StringFixed(2))
}

func TestServiceCreateFallsBackToQuantityTimesBaseWeight(t *testing.T) {
	product := newTestProduct("Almonds", "20", 100, 50)
	repo := newStubOrdersRepo()
	svc := newOrderService(t, repo, &stubProducts{products: map[uuid.UUID]*models.Product{product.ID: product}})

	result, err := svc.Create(context.Background(), validInput(OrderLineInput{
		ProductID: product.ID,
		Quantity:  2,
	}))
	require.NoError(t, err)
	require.Len(t, result.Items, 1)
	assert.Equal(t, 200, result.Items[0].Weight)
	assert.Equal(t, "40.00", result.Items[0].UnitPrice.StringFixed(2))
	assert.Equal(t, "80.00", result.Items[0].TotalPrice.StringFixed(2))
}

func TestServiceCreateDropsMissingProductWithWarning(t *testing.T) {
	product := newTestProduct("Almonds", "20", 100, 50)
	missingID := uuid.New()
	repo := newStubOrdersRepo()
	svc := newOrderService(t, repo, &stubProducts{products: map[uuid.UUID]*models.Product{product.ID: product}})

	result, err := svc.Create(context.Background(), validInput(
		OrderLineInput{ProductID: product.ID, Quantity: 1, SelectedWeight: 100},
		OrderLineInput{ProductID: missingID, Quantity: 3, SelectedWeight: 100},
	))
	require.NoError(t, err)

	require.Len(t, result.Items, 1)
	assert.Equal(t, "Almonds", result.Items[0].ProductName)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, missingID.String(), result.Warnings[0].ProductID)

	// Total reflects only the surviving line.
	assert.Equal(t, "25.99", result.Order.Total.StringFixed(2))
}

func TestServiceCreateAllLinesDroppedStillCreatesOrder(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newOrderService(t, repo, &stubProducts{products: map[uuid.UUID]*models.Product{}})

	result, err := svc.Create(context.Background(), validInput(
		OrderLineInput{ProductID: uuid.New(), Quantity: 1, SelectedWeight: 100},
	))
	require.NoError(t, err)
	assert.Empty(t, result.Items)
	require.Len(t, result.Warnings, 1)
	assert.Equal(t, "5.99", result.Order.Total.StringFixed(2))
}

func TestServiceCreateRunsInsideTransaction(t *testing.T) {
	product := newTestProduct("Almonds", "20", 100, 50)
	repo := newStubOrdersRepo()
	tx := &stubTxRunner{}
	svc, err := NewService(repo, &stubProducts{products: map[uuid.UUID]*models.Product{product.ID: product}}, tx, testLogger(), decimal.RequireFromString("5.99"))
	require.NoError(t, err)

	_, err = svc.Create(context.Background(), validInput(OrderLineInput{ProductID: product.ID, Quantity: 1, SelectedWeight: 100}))
	require.NoError(t, err)
	assert.Equal(t, 1, tx.calls)
}

func TestServiceCreateValidation(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newOrderService(t, repo, &stubProducts{products: map[uuid.UUID]*models.Product{}})

	tests := []struct {
		name   string
		mutate func(*CreateOrderInput)
		field  string
	}{
		{
			name:   "missing customer name",
			mutate: func(in *CreateOrderInput) { in.CustomerName = " " },
			field:  "customerName",
		},
		{
			name:   "email without at sign",
			mutate: func(in *CreateOrderInput) { in.CustomerEmail = "not-an-email" },
			field:  "customerEmail",
		},
		{
			name:   "missing address",
			mutate: func(in *CreateOrderInput) { in.Address = "" },
			field:  "address",
		},
		{
			name:   "no lines",
			mutate: func(in *CreateOrderInput) { in.Lines = nil },
			field:  "items",
		},
		{
			name:   "zero quantity line",
			mutate: func(in *CreateOrderInput) { in.Lines[0].Quantity = 0 },
			field:  "items[0].quantity",
		},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			input := validInput(OrderLineInput{ProductID: uuid.New(), Quantity: 1})
			tc.mutate(&input)

			_, err := svc.Create(context.Background(), input)
			appErr := pkgerrors.As(err)
			require.NotNil(t, appErr)
			assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
			details, ok := appErr.Details().(map[string]string)
			require.True(t, ok)
			assert.Contains(t, details, tc.field)
		})
	}
}

func TestServiceUpdateStatus(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newOrderService(t, repo, &stubProducts{products: map[uuid.UUID]*models.Product{}})

	order := &models.Order{OrderNumber: 1, Status: enums.OrderStatusPending}
	_, err := repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)

	updated, err := svc.UpdateStatus(context.Background(), order.ID, "shipped")
	require.NoError(t, err)
	assert.Equal(t, enums.OrderStatusShipped, updated.Status)

	_, err = svc.UpdateStatus(context.Background(), order.ID, "canceled") // US spelling is invalid
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeValidation, appErr.Code())
}

func TestServiceItemCRUDComputesTotals(t *testing.T) {
	repo := newStubOrdersRepo()
	svc := newOrderService(t, repo, &stubProducts{products: map[uuid.UUID]*models.Product{}})

	order := &models.Order{OrderNumber: 1}
	_, err := repo.CreateOrder(context.Background(), order)
	require.NoError(t, err)

	item, err := svc.CreateItem(context.Background(), CreateOrderItemInput{
		OrderID:     order.ID,
		ProductName: "Almonds",
		Quantity:    3,
		Weight:      100,
		UnitPrice:   decimal.RequireFromString("20"),
	})
	require.NoError(t, err)
	assert.Equal(t, "60.00", item.TotalPrice.StringFixed(2))

	newQty := 2
	updated, err := svc.UpdateItem(context.Background(), item.ID, UpdateOrderItemInput{Quantity: &newQty})
	require.NoError(t, err)
	assert.Equal(t, "40.00", updated.TotalPrice.StringFixed(2))

	require.NoError(t, svc.DeleteItem(context.Background(), item.ID))
	_, err = svc.UpdateItem(context.Background(), item.ID, UpdateOrderItemInput{})
	appErr := pkgerrors.As(err)
	require.NotNil(t, appErr)
	assert.Equal(t, pkgerrors.CodeNotFound, appErr.Code())
}
