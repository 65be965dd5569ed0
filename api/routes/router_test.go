package routes

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/nuthub-il/nuthub-backend/internal/catalog"
	ordersvc "github.com/nuthub-il/nuthub-backend/internal/orders"
	pkgauth "github.com/nuthub-il/nuthub-backend/pkg/auth"
	"github.com/nuthub-il/nuthub-backend/pkg/config"
	"github.com/nuthub-il/nuthub-backend/pkg/db/models"
	"github.com/nuthub-il/nuthub-backend/pkg/hypay"
	"github.com/nuthub-il/nuthub-backend/pkg/pagination"
)

type stubPinger struct{}

func (stubPinger) Ping(context.Context) error {
	return nil
}

type stubCatalogService struct{}

func (stubCatalogService) CreateCategory(context.Context, catalog.CreateCategoryInput) (*models.Category, error) {
	panic("unimplemented")
}

func (stubCatalogService) UpdateCategory(context.Context, uuid.UUID, catalog.UpdateCategoryInput) (*models.Category, error) {
	panic("unimplemented")
}

func (stubCatalogService) DeleteCategory(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

func (stubCatalogService) GetCategory(context.Context, uuid.UUID) (*models.Category, error) {
	panic("unimplemented")
}

func (stubCatalogService) ListCategories(context.Context, pagination.Params, catalog.CategoryListFilters) (*catalog.CategoryList, error) {
	return &catalog.CategoryList{Data: []models.Category{}, Page: 1}, nil
}

func (stubCatalogService) CreateProduct(context.Context, catalog.CreateProductInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubCatalogService) UpdateProduct(context.Context, uuid.UUID, catalog.UpdateProductInput) (*models.Product, error) {
	panic("unimplemented")
}

func (stubCatalogService) DeleteProduct(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

func (stubCatalogService) GetProduct(context.Context, uuid.UUID) (*models.Product, error) {
	panic("unimplemented")
}

func (stubCatalogService) ListProducts(context.Context, pagination.Params, catalog.ProductListFilters) (*catalog.ProductList, error) {
	return &catalog.ProductList{Data: []models.Product{}, Page: 1}, nil
}

type stubOrderService struct{}

func (stubOrderService) Create(context.Context, ordersvc.CreateOrderInput) (*ordersvc.CreateOrderResult, error) {
	panic("unimplemented")
}

func (stubOrderService) Get(context.Context, uuid.UUID) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrderService) List(context.Context, pagination.Params, ordersvc.OrderListFilters) (*ordersvc.OrderList, error) {
	return &ordersvc.OrderList{Data: []models.Order{}, Page: 1}, nil
}

func (stubOrderService) UpdateStatus(context.Context, uuid.UUID, string) (*models.Order, error) {
	panic("unimplemented")
}

func (stubOrderService) Delete(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

func (stubOrderService) ItemsByOrder(context.Context, uuid.UUID) ([]ordersvc.OrderItemDetail, error) {
	return []ordersvc.OrderItemDetail{}, nil
}

func (stubOrderService) ListItems(context.Context) ([]models.OrderItem, error) {
	return []models.OrderItem{}, nil
}

func (stubOrderService) GetItem(context.Context, uuid.UUID) (*models.OrderItem, error) {
	panic("unimplemented")
}

func (stubOrderService) CreateItem(context.Context, ordersvc.CreateOrderItemInput) (*models.OrderItem, error) {
	panic("unimplemented")
}

func (stubOrderService) UpdateItem(context.Context, uuid.UUID, ordersvc.UpdateOrderItemInput) (*models.OrderItem, error) {
	panic("unimplemented")
}

func (stubOrderService) DeleteItem(context.Context, uuid.UUID) error {
	panic("unimplemented")
}

type stubSigner struct{}

func (stubSigner) Sign(context.Context, hypay.SignRequest) (string, error) {
	return "signed", nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{Secret: "router-test-secret", Issuer: "nuthub-test", ExpirationMinutes: 10},
		Uploads: config.UploadsConfig{
			Dir:         t.TempDir(),
			MaxUploadMB: 2,
		},
	}
}

func newTestRouter(t *testing.T, cfg *config.Config) http.Handler {
	t.Helper()
	return NewRouter(Deps{
		Config:  cfg,
		DB:      stubPinger{},
		Catalog: stubCatalogService{},
		Orders:  stubOrderService{},
		Hypay:   stubSigner{},
	})
}

func get(t *testing.T, handler http.Handler, path string, token string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path, nil)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, req)
	return resp
}

func TestRouterPublicSurface(t *testing.T) {
	handler := newTestRouter(t, testConfig(t))

	for _, path := range []string{
		"/health/live",
		"/health/ready",
		"/api/categories",
		"/api/products",
	} {
		if resp := get(t, handler, path, ""); resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d", path, resp.Code)
		}
	}
}

func TestRouterAdminSurfaceRequiresToken(t *testing.T) {
	handler := newTestRouter(t, testConfig(t))

	if resp := get(t, handler, "/api/orders", ""); resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 got %d", resp.Code)
	}
}

func TestRouterAdminSurfaceRejectsNonAdmin(t *testing.T) {
	cfg := testConfig(t)
	handler := newTestRouter(t, cfg)

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID: uuid.New(),
		Email:  "shopper@nuthub.test",
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	if resp := get(t, handler, "/api/orders", token); resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 got %d", resp.Code)
	}
}

func TestRouterAdminSurfaceAllowsAdmin(t *testing.T) {
	cfg := testConfig(t)
	handler := newTestRouter(t, cfg)

	token, err := pkgauth.MintAccessToken(cfg.JWT, time.Now(), pkgauth.AccessTokenPayload{
		UserID:  uuid.New(),
		Email:   "admin@nuthub.test",
		IsAdmin: true,
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}

	for _, path := range []string{"/api/orders", "/api/order-items"} {
		if resp := get(t, handler, path, token); resp.Code != http.StatusOK {
			t.Fatalf("%s: expected 200 got %d: %s", path, resp.Code, resp.Body.String())
		}
	}
}

func TestRouterServesOnlyImageUploads(t *testing.T) {
	cfg := testConfig(t)
	if err := os.WriteFile(filepath.Join(cfg.Uploads.Dir, "walnut.jpg"), []byte("jpeg"), 0o644); err != nil {
		t.Fatalf("seed upload: %v", err)
	}
	if err := os.WriteFile(filepath.Join(cfg.Uploads.Dir, "shell.php"), []byte("<?php"), 0o644); err != nil {
		t.Fatalf("seed upload: %v", err)
	}
	handler := newTestRouter(t, cfg)

	if resp := get(t, handler, "/uploads/walnut.jpg", ""); resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if resp := get(t, handler, "/uploads/shell.php", ""); resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 for disallowed extension, got %d", resp.Code)
	}
}
