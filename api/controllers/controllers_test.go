package controllers

import (
	"context"
	"errors"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/nuthub-il/nuthub-backend/internal/catalog"
	ordersvc "github.com/nuthub-il/nuthub-backend/internal/orders"
	"github.com/nuthub-il/nuthub-backend/pkg/db/models"
	"github.com/nuthub-il/nuthub-backend/pkg/hypay"
	"github.com/nuthub-il/nuthub-backend/pkg/pagination"
)

var errStubNotWired = errors.New("stub method not wired")

// newRouteContext seeds a chi route context with a single URL param so
// handlers can be exercised without the router.
func newRouteContext(t *testing.T, key, value string) context.Context {
	t.Helper()
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return context.WithValue(context.Background(), chi.RouteCtxKey, rctx)
}

type stubCatalogService struct {
	createCategory func(ctx context.Context, input catalog.CreateCategoryInput) (*models.Category, error)
	listCategories func(ctx context.Context, params pagination.Params, filters catalog.CategoryListFilters) (*catalog.CategoryList, error)
	getProduct     func(ctx context.Context, id uuid.UUID) (*models.Product, error)
	listProducts   func(ctx context.Context, params pagination.Params, filters catalog.ProductListFilters) (*catalog.ProductList, error)
	createProduct  func(ctx context.Context, input catalog.CreateProductInput) (*models.Product, error)
}

func (s *stubCatalogService) CreateCategory(ctx context.Context, input catalog.CreateCategoryInput) (*models.Category, error) {
	if s.createCategory == nil {
		return nil, errStubNotWired
	}
	return s.createCategory(ctx, input)
}

func (s *stubCatalogService) UpdateCategory(context.Context, uuid.UUID, catalog.UpdateCategoryInput) (*models.Category, error) {
	return nil, errStubNotWired
}

func (s *stubCatalogService) DeleteCategory(context.Context, uuid.UUID) error {
	return errStubNotWired
}

func (s *stubCatalogService) GetCategory(context.Context, uuid.UUID) (*models.Category, error) {
	return nil, errStubNotWired
}

func (s *stubCatalogService) ListCategories(ctx context.Context, params pagination.Params, filters catalog.CategoryListFilters) (*catalog.CategoryList, error) {
	if s.listCategories == nil {
		return nil, errStubNotWired
	}
	return s.listCategories(ctx, params, filters)
}

func (s *stubCatalogService) CreateProduct(ctx context.Context, input catalog.CreateProductInput) (*models.Product, error) {
	if s.createProduct == nil {
		return nil, errStubNotWired
	}
	return s.createProduct(ctx, input)
}

func (s *stubCatalogService) UpdateProduct(context.Context, uuid.UUID, catalog.UpdateProductInput) (*models.Product, error) {
	return nil, errStubNotWired
}

func (s *stubCatalogService) DeleteProduct(context.Context, uuid.UUID) error {
	return errStubNotWired
}

func (s *stubCatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	if s.getProduct == nil {
		return nil, errStubNotWired
	}
	return s.getProduct(ctx, id)
}

func (s *stubCatalogService) ListProducts(ctx context.Context, params pagination.Params, filters catalog.ProductListFilters) (*catalog.ProductList, error) {
	if s.listProducts == nil {
		return nil, errStubNotWired
	}
	return s.listProducts(ctx, params, filters)
}

type stubOrderService struct {
	create       func(ctx context.Context, input ordersvc.CreateOrderInput) (*ordersvc.CreateOrderResult, error)
	list         func(ctx context.Context, params pagination.Params, filters ordersvc.OrderListFilters) (*ordersvc.OrderList, error)
	updateStatus func(ctx context.Context, id uuid.UUID, status string) (*models.Order, error)
	itemsByOrder func(ctx context.Context, orderID uuid.UUID) ([]ordersvc.OrderItemDetail, error)
	listItems    func(ctx context.Context) ([]models.OrderItem, error)
	getItem      func(ctx context.Context, id uuid.UUID) (*models.OrderItem, error)
}

func (s *stubOrderService) Create(ctx context.Context, input ordersvc.CreateOrderInput) (*ordersvc.CreateOrderResult, error) {
	if s.create == nil {
		return nil, errStubNotWired
	}
	return s.create(ctx, input)
}

func (s *stubOrderService) Get(context.Context, uuid.UUID) (*models.Order, error) {
	return nil, errStubNotWired
}

func (s *stubOrderService) List(ctx context.Context, params pagination.Params, filters ordersvc.OrderListFilters) (*ordersvc.OrderList, error) {
	if s.list == nil {
		return nil, errStubNotWired
	}
	return s.list(ctx, params, filters)
}

func (s *stubOrderService) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (*models.Order, error) {
	if s.updateStatus == nil {
		return nil, errStubNotWired
	}
	return s.updateStatus(ctx, id, status)
}

func (s *stubOrderService) Delete(context.Context, uuid.UUID) error {
	return errStubNotWired
}

func (s *stubOrderService) ItemsByOrder(ctx context.Context, orderID uuid.UUID) ([]ordersvc.OrderItemDetail, error) {
	if s.itemsByOrder == nil {
		return nil, errStubNotWired
	}
	return s.itemsByOrder(ctx, orderID)
}

func (s *stubOrderService) ListItems(ctx context.Context) ([]models.OrderItem, error) {
	if s.listItems == nil {
		return nil, errStubNotWired
	}
	return s.listItems(ctx)
}

func (s *stubOrderService) GetItem(ctx context.Context, id uuid.UUID) (*models.OrderItem, error) {
	if s.getItem == nil {
		return nil, errStubNotWired
	}
	return s.getItem(ctx, id)
}

func (s *stubOrderService) CreateItem(context.Context, ordersvc.CreateOrderItemInput) (*models.OrderItem, error) {
	return nil, errStubNotWired
}

func (s *stubOrderService) UpdateItem(context.Context, uuid.UUID, ordersvc.UpdateOrderItemInput) (*models.OrderItem, error) {
	return nil, errStubNotWired
}

func (s *stubOrderService) DeleteItem(context.Context, uuid.UUID) error {
	return errStubNotWired
}

type stubSigner struct {
	signed   string
	err      error
	captured hypay.SignRequest
}

func (s *stubSigner) Sign(_ context.Context, req hypay.SignRequest) (string, error) {
	s.captured = req
	if s.err != nil {
		return "", s.err
	}
	return s.signed, nil
}
