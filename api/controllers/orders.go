package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nuthub-il/nuthub-backend/api/responses"
	"github.com/nuthub-il/nuthub-backend/api/validators"
	ordersvc "github.com/nuthub-il/nuthub-backend/internal/orders"
	pkgerrors "github.com/nuthub-il/nuthub-backend/pkg/errors"
	"github.com/nuthub-il/nuthub-backend/pkg/logger"
)

// createOrderItemLine accepts both the storefront's snake_case cart
// shape and the camelCase admin shape. Only the product reference,
// quantity and weight feed the order; name, price and subtotal fields
// are advisory and re-derived from the catalog.
type createOrderItemLine struct {
	ProductID      uuid.UUID       `json:"product_id" validate:"required_without=ProductIDAlt"`
	ProductIDAlt   uuid.UUID       `json:"productId,omitempty"`
	ProductName    string          `json:"product_name,omitempty"`
	Quantity       int             `json:"quantity" validate:"required,gt=0"`
	Weight         int             `json:"weight,omitempty" validate:"gte=0"`
	SelectedWeight int             `json:"selectedWeight,omitempty" validate:"gte=0"`
	Price          decimal.Decimal `json:"price"`
	BaseWeight     int             `json:"base_weight,omitempty"`
	BasePrice      decimal.Decimal `json:"base_price,omitempty"`
	Subtotal       decimal.Decimal `json:"subtotal,omitempty"`
}

func (l createOrderItemLine) productID() uuid.UUID {
	if l.ProductID != uuid.Nil {
		return l.ProductID
	}
	return l.ProductIDAlt
}

func (l createOrderItemLine) selectedWeight() int {
	if l.SelectedWeight > 0 {
		return l.SelectedWeight
	}
	return l.Weight
}

// createOrderRequest carries a checkout submission. Status is accepted
// from the storefront but not trusted; new orders always open as
// pending.
type createOrderRequest struct {
	CustomerName  string                `json:"customerName" validate:"required"`
	CustomerEmail string                `json:"customerEmail" validate:"required,email"`
	Address       string                `json:"address" validate:"required"`
	Phone         *string               `json:"phone,omitempty"`
	Total         decimal.Decimal       `json:"total"`
	Status        string                `json:"status,omitempty"`
	Items         []createOrderItemLine `json:"items" validate:"required,min=1,dive"`
}

func (r createOrderRequest) toInput() ordersvc.CreateOrderInput {
	lines := make([]ordersvc.OrderLineInput, 0, len(r.Items))
	for _, item := range r.Items {
		lines = append(lines, ordersvc.OrderLineInput{
			ProductID:      item.productID(),
			Quantity:       item.Quantity,
			SelectedWeight: item.selectedWeight(),
			Price:          item.Price,
		})
	}
	return ordersvc.CreateOrderInput{
		CustomerName:  r.CustomerName,
		CustomerEmail: r.CustomerEmail,
		Address:       r.Address,
		Phone:         r.Phone,
		Total:         r.Total,
		Lines:         lines,
	}
}

type updateOrderRequest struct {
	Status string `json:"status" validate:"required"`
}

// CreateOrder accepts a storefront checkout and returns the persisted
// order with any dropped-line warnings.
func CreateOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "order service unavailable"))
			return
		}

		var payload createOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Create(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, result)
	}
}

// ListOrders serves the admin order listing with an optional createdAt
// date range.
func ListOrders(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		params, err := validators.ParsePagination(r)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		from, err := validators.ParseQueryDate(r, "from")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		to, err := validators.ParseQueryDate(r, "to")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		list, err := svc.List(r.Context(), params, ordersvc.OrderListFilters{From: from, To: to})
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, list)
	}
}

func GetOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.Get(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, order)
	}
}

func UpdateOrderStatus(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		order, err := svc.UpdateStatus(r.Context(), id, payload.Status)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, order)
	}
}

func DeleteOrder(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.Delete(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusNoContent, nil)
	}
}
