package catalog

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/nuthub-il/nuthub-backend/pkg/db/models"
	"github.com/nuthub-il/nuthub-backend/pkg/pagination"
)

// gormRepository wires catalog persistence to GORM.
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

// CreateCategory inserts a new category row.
func (r *gormRepository) CreateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Create(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// UpdateCategory updates an existing category row.
func (r *gormRepository) UpdateCategory(ctx context.Context, category *models.Category) (*models.Category, error) {
	if err := r.db.WithContext(ctx).Save(category).Error; err != nil {
		return nil, err
	}
	return category, nil
}

// DeleteCategory removes a category by ID.
func (r *gormRepository) DeleteCategory(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Category{}).Error
}

// FindCategoryByID loads the category without associations.
func (r *gormRepository) FindCategoryByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	var category models.Category
	if err := r.db.WithContext(ctx).First(&category, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &category, nil
}

// ListCategories returns an offset-paginated page ordered by sort order.
func (r *gormRepository) ListCategories(ctx context.Context, params pagination.Params, filters CategoryListFilters) (*CategoryList, error) {
	params = params.Normalize()

	qb := r.db.WithContext(ctx).Model(&models.Category{})
	if filters.ActiveOnly {
		qb = qb.Where("is_active = ?", true)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Category
	err := qb.
		Order("sort_order ASC").
		Order("created_at ASC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	return &CategoryList{
		Data:  rows,
		Total: total,
		Page:  params.Page,
		Pages: pagination.Pages(total, params.Limit),
	}, nil
}

// CreateProduct inserts a new product row.
func (r *gormRepository) CreateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Create(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// UpdateProduct updates an existing product row.
func (r *gormRepository) UpdateProduct(ctx context.Context, product *models.Product) (*models.Product, error) {
	if err := r.db.WithContext(ctx).Save(product).Error; err != nil {
		return nil, err
	}
	return product, nil
}

// DeleteProduct removes a product by ID.
func (r *gormRepository) DeleteProduct(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Where("id = ?", id).Delete(&models.Product{}).Error
}

// FindProductByID loads the product without associations.
func (r *gormRepository) FindProductByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &product, nil
}

// ListProducts returns an offset-paginated page ordered by sort order.
func (r *gormRepository) ListProducts(ctx context.Context, params pagination.Params, filters ProductListFilters) (*ProductList, error) {
	params = params.Normalize()

	qb := r.db.WithContext(ctx).Model(&models.Product{})
	if filters.ActiveOnly {
		qb = qb.Where("is_active = ?", true)
	}
	if filters.CategoryID != nil {
		qb = qb.Where("category_id = ?", *filters.CategoryID)
	}

	var total int64
	if err := qb.Count(&total).Error; err != nil {
		return nil, err
	}

	var rows []models.Product
	err := qb.
		Order("sort_order ASC").
		Order("created_at ASC").
		Offset(params.Offset()).
		Limit(params.Limit).
		Find(&rows).
		Error
	if err != nil {
		return nil, err
	}

	return &ProductList{
		Data:  rows,
		Total: total,
		Page:  params.Page,
		Pages: pagination.Pages(total, params.Limit),
	}, nil
}

// isUniqueViolation matches duplicate-key failures from Postgres and
// the sqlite driver used in tests.
func isUniqueViolation(err error) bool {
	if err == nil {
		return false
	}
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == "23505" {
		return true
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}
