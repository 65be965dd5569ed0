package catalog

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/nuthub-il/nuthub-backend/pkg/db/models"
	pkgerrors "github.com/nuthub-il/nuthub-backend/pkg/errors"
	"github.com/nuthub-il/nuthub-backend/pkg/pagination"
)

// Service exposes catalog management operations.
type Service interface {
	CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error)
	UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error)
	DeleteCategory(ctx context.Context, id uuid.UUID) error
	GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error)
	ListCategories(ctx context.Context, params pagination.Params, filters CategoryListFilters) (*CategoryList, error)

	CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error)
	UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error)
	DeleteProduct(ctx context.Context, id uuid.UUID) error
	GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error)
	ListProducts(ctx context.Context, params pagination.Params, filters ProductListFilters) (*ProductList, error)
}

type service struct {
	repo Repository
}

// NewService constructs a catalog service instance.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("catalog repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) CreateCategory(ctx context.Context, input CreateCategoryInput) (*models.Category, error) {
	name := strings.TrimSpace(input.Name)
	if name == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name is required").
			WithDetails(map[string]string{"name": "required"})
	}

	slug := strings.TrimSpace(input.Slug)
	if slug == "" {
		generated, err := GenerateSlug(name)
		if err != nil {
			return nil, err
		}
		slug = generated
	}

	category := &models.Category{
		Name:        name,
		Description: input.Description,
		ImageURL:    input.ImageURL,
		Slug:        slug,
		SortOrder:   input.SortOrder,
		IsActive:    true,
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	created, err := s.repo.CreateCategory(ctx, category)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "category slug already exists").
				WithDetails(map[string]string{"slug": slug})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert category")
	}
	return created, nil
}

func (s *service) UpdateCategory(ctx context.Context, id uuid.UUID, input UpdateCategoryInput) (*models.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "category")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "category name cannot be empty")
		}
		category.Name = name
	}
	if input.Slug != nil {
		slug := strings.TrimSpace(*input.Slug)
		if slug == "" {
			generated, err := GenerateSlug(category.Name)
			if err != nil {
				return nil, err
			}
			slug = generated
		}
		category.Slug = slug
	}
	if input.Description != nil {
		category.Description = input.Description
	}
	if input.ImageURL != nil {
		category.ImageURL = input.ImageURL
	}
	if input.SortOrder != nil {
		category.SortOrder = *input.SortOrder
	}
	if input.IsActive != nil {
		category.IsActive = *input.IsActive
	}

	updated, err := s.repo.UpdateCategory(ctx, category)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, pkgerrors.Wrap(pkgerrors.CodeConflict, err, "category slug already exists").
				WithDetails(map[string]string{"slug": category.Slug})
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update category")
	}
	return updated, nil
}

func (s *service) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindCategoryByID(ctx, id); err != nil {
		return mapLookupErr(err, "category")
	}
	if err := s.repo.DeleteCategory(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete category")
	}
	return nil
}

func (s *service) GetCategory(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	category, err := s.repo.FindCategoryByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "category")
	}
	return category, nil
}

func (s *service) ListCategories(ctx context.Context, params pagination.Params, filters CategoryListFilters) (*CategoryList, error) {
	list, err := s.repo.ListCategories(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list categories")
	}
	return list, nil
}

func (s *service) CreateProduct(ctx context.Context, input CreateProductInput) (*models.Product, error) {
	if err := validateProductInput(input); err != nil {
		return nil, err
	}

	product := &models.Product{
		Name:          strings.TrimSpace(input.Name),
		Description:   input.Description,
		CategoryID:    input.CategoryID,
		Image:         input.Image,
		Price:         input.Price,
		DiscountPrice: input.DiscountPrice,
		BaseWeight:    input.BaseWeight,
		BasePrice:     input.BasePrice,
		WeightStep:    input.WeightStep,
		StockQuantity: input.StockQuantity,
		InStock:       true,
		IsActive:      true,
		SortOrder:     input.SortOrder,
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}

	created, err := s.repo.CreateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "insert product")
	}
	return created, nil
}

func (s *service) UpdateProduct(ctx context.Context, id uuid.UUID, input UpdateProductInput) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "product")
	}

	if input.Name != nil {
		name := strings.TrimSpace(*input.Name)
		if name == "" {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "product name cannot be empty")
		}
		product.Name = name
	}
	if input.Description != nil {
		product.Description = input.Description
	}
	if input.CategoryID != nil {
		product.CategoryID = input.CategoryID
	}
	if input.Image != nil {
		product.Image = input.Image
	}
	if input.Price != nil {
		if input.Price.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "price cannot be negative")
		}
		product.Price = *input.Price
	}
	if input.ClearDiscountPrice {
		product.DiscountPrice = nil
	} else if input.DiscountPrice != nil {
		if input.DiscountPrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "discount price cannot be negative")
		}
		product.DiscountPrice = input.DiscountPrice
	}
	if input.BaseWeight != nil {
		if *input.BaseWeight <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "base weight must be positive")
		}
		product.BaseWeight = *input.BaseWeight
	}
	if input.BasePrice != nil {
		if input.BasePrice.IsNegative() {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "base price cannot be negative")
		}
		product.BasePrice = *input.BasePrice
	}
	if input.WeightStep != nil {
		if *input.WeightStep <= 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "weight step must be positive")
		}
		product.WeightStep = *input.WeightStep
	}
	if input.StockQuantity != nil {
		if *input.StockQuantity < 0 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "stock quantity cannot be negative")
		}
		product.StockQuantity = *input.StockQuantity
	}
	if input.InStock != nil {
		product.InStock = *input.InStock
	}
	if input.IsActive != nil {
		product.IsActive = *input.IsActive
	}
	if input.SortOrder != nil {
		product.SortOrder = *input.SortOrder
	}

	updated, err := s.repo.UpdateProduct(ctx, product)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "update product")
	}
	return updated, nil
}

func (s *service) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	if _, err := s.repo.FindProductByID(ctx, id); err != nil {
		return mapLookupErr(err, "product")
	}
	if err := s.repo.DeleteProduct(ctx, id); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete product")
	}
	return nil
}

func (s *service) GetProduct(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	product, err := s.repo.FindProductByID(ctx, id)
	if err != nil {
		return nil, mapLookupErr(err, "product")
	}
	return product, nil
}

func (s *service) ListProducts(ctx context.Context, params pagination.Params, filters ProductListFilters) (*ProductList, error) {
	list, err := s.repo.ListProducts(ctx, params, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "list products")
	}
	return list, nil
}

func validateProductInput(input CreateProductInput) error {
	details := map[string]string{}
	if strings.TrimSpace(input.Name) == "" {
		details["name"] = "required"
	}
	if input.Price.IsNegative() {
		details["price"] = "cannot be negative"
	}
	if input.DiscountPrice != nil && input.DiscountPrice.IsNegative() {
		details["discountPrice"] = "cannot be negative"
	}
	if input.BaseWeight <= 0 {
		details["base_weight"] = "must be positive"
	}
	if input.BasePrice.IsNegative() {
		details["base_price"] = "cannot be negative"
	}
	if input.WeightStep <= 0 {
		details["weight_step"] = "must be positive"
	}
	if input.StockQuantity < 0 {
		details["stock_quantity"] = "cannot be negative"
	}
	if len(details) > 0 {
		return pkgerrors.New(pkgerrors.CodeValidation, "invalid product payload").WithDetails(details)
	}
	return nil
}

func mapLookupErr(err error, resource string) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return pkgerrors.Wrap(pkgerrors.CodeNotFound, err, resource+" not found")
	}
	return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "load "+resource)
}
