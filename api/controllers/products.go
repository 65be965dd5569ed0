package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nuthub-il/nuthub-backend/api/responses"
	"github.com/nuthub-il/nuthub-backend/api/validators"
	"github.com/nuthub-il/nuthub-backend/internal/catalog"
	pkgerrors "github.com/nuthub-il/nuthub-backend/pkg/errors"
	"github.com/nuthub-il/nuthub-backend/pkg/logger"
)

type createProductRequest struct {
	Name          string           `json:"name" validate:"required"`
	Description   *string          `json:"description,omitempty"`
	CategoryID    *uuid.UUID       `json:"categoryId,omitempty"`
	Image         *string          `json:"image,omitempty"`
	Price         decimal.Decimal  `json:"price"`
	DiscountPrice *decimal.Decimal `json:"discountPrice,omitempty"`
	BaseWeight    int              `json:"baseWeight" validate:"required,gt=0"`
	BasePrice     decimal.Decimal  `json:"basePrice"`
	WeightStep    int              `json:"weightStep" validate:"required,gt=0"`
	StockQuantity int              `json:"stockQuantity" validate:"gte=0"`
	InStock       *bool            `json:"inStock,omitempty"`
	IsActive      *bool            `json:"isActive,omitempty"`
	SortOrder     int              `json:"sortOrder,omitempty"`
}

func (r createProductRequest) toInput() catalog.CreateProductInput {
	return catalog.CreateProductInput{
		Name:          r.Name,
		Description:   r.Description,
		CategoryID:    r.CategoryID,
		Image:         r.Image,
		Price:         r.Price,
		DiscountPrice: r.DiscountPrice,
		BaseWeight:    r.BaseWeight,
		BasePrice:     r.BasePrice,
		WeightStep:    r.WeightStep,
		StockQuantity: r.StockQuantity,
		InStock:       r.InStock,
		IsActive:      r.IsActive,
		SortOrder:     r.SortOrder,
	}
}

type updateProductRequest struct {
	Name               *string          `json:"name,omitempty"`
	Description        *string          `json:"description,omitempty"`
	CategoryID         *uuid.UUID       `json:"categoryId,omitempty"`
	Image              *string          `json:"image,omitempty"`
	Price              *decimal.Decimal `json:"price,omitempty"`
	DiscountPrice      *decimal.Decimal `json:"discountPrice,omitempty"`
	ClearDiscountPrice bool             `json:"clearDiscountPrice,omitempty"`
	BaseWeight         *int             `json:"baseWeight,omitempty"`
	BasePrice          *decimal.Decimal `json:"basePrice,omitempty"`
	WeightStep         *int             `json:"weightStep,omitempty"`
	StockQuantity      *int             `json:"stockQuantity,omitempty"`
	InStock            *bool            `json:"inStock,omitempty"`
	IsActive           *bool            `json:"isActive,omitempty"`
	SortOrder          *int             `json:"sortOrder,omitempty"`
}

func (r updateProductRequest) toInput() catalog.UpdateProductInput {
	return catalog.UpdateProductInput{
		Name:               r.Name,
		Description:        r.Description,
		CategoryID:         r.CategoryID,
		Image:              r.Image,
		Price:              r.Price,
		DiscountPrice:      r.DiscountPrice,
		ClearDiscountPrice: r.ClearDiscountPrice,
		BaseWeight:         r.BaseWeight,
		BasePrice:          r.BasePrice,
		WeightStep:         r.WeightStep,
		StockQuantity:      r.StockQuantity,
		InStock:            r.InStock,
		IsActive:           r.IsActive,
		SortOrder:          r.SortOrder,
	}
}

// ListProducts serves the public product listing with optional
// category and active filters.
func ListProducts(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		categoryID, err := validators.ParseQueryUUID(r, "categoryId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		activeOnly, err := validators.ParseQueryBool(r, "activeOnly")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.ListProducts(r.Context(), params, catalog.ProductListFilters{
			CategoryID: categoryID,
			ActiveOnly: activeOnly,
		})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, list)
	}
}

func GetProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.GetProduct(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, product)
	}
}

func CreateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "catalog service unavailable"))
			return
		}

		var payload createProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.CreateProduct(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, product)
	}
}

func UpdateProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateProductRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		product, err := svc.UpdateProduct(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, product)
	}
}

func DeleteProduct(svc catalog.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteProduct(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusNoContent, nil)
	}
}
