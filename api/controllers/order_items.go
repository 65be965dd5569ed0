package controllers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/nuthub-il/nuthub-backend/api/responses"
	"github.com/nuthub-il/nuthub-backend/api/validators"
	ordersvc "github.com/nuthub-il/nuthub-backend/internal/orders"
	"github.com/nuthub-il/nuthub-backend/pkg/logger"
)

type createOrderItemRequest struct {
	OrderID     uuid.UUID       `json:"orderId" validate:"required"`
	ProductID   *uuid.UUID      `json:"productId,omitempty"`
	ProductName string          `json:"productName" validate:"required"`
	Quantity    int             `json:"quantity" validate:"required,gt=0"`
	Weight      int             `json:"weight" validate:"required,gt=0"`
	UnitPrice   decimal.Decimal `json:"unitPrice"`
}

func (r createOrderItemRequest) toInput() ordersvc.CreateOrderItemInput {
	return ordersvc.CreateOrderItemInput{
		OrderID:     r.OrderID,
		ProductID:   r.ProductID,
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		Weight:      r.Weight,
		UnitPrice:   r.UnitPrice,
	}
}

type updateOrderItemRequest struct {
	ProductName *string          `json:"productName,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	Weight      *int             `json:"weight,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unitPrice,omitempty"`
}

func (r updateOrderItemRequest) toInput() ordersvc.UpdateOrderItemInput {
	return ordersvc.UpdateOrderItemInput{
		ProductName: r.ProductName,
		Quantity:    r.Quantity,
		Weight:      r.Weight,
		UnitPrice:   r.UnitPrice,
	}
}

// ListAllOrderItems returns every persisted line for the back office.
func ListAllOrderItems(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		items, err := svc.ListItems(r.Context())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, items)
	}
}

// GetOrderItem returns a single line by id.
func GetOrderItem(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.GetItem(r.Context(), id)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, item)
	}
}

// ListOrderItems returns an order's lines with product data populated
// for display. Public so the confirmation page can render the order.
func ListOrderItems(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		orderID, err := validators.ParsePathUUID(chi.URLParam(r, "orderId"), "orderId")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		items, err := svc.ItemsByOrder(r.Context(), orderID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, items)
	}
}

func CreateOrderItem(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var payload createOrderItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.CreateItem(r.Context(), payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusCreated, item)
	}
}

func UpdateOrderItem(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		var payload updateOrderItemRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		item, err := svc.UpdateItem(r.Context(), id, payload.toInput())
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusOK, item)
	}
}

func DeleteOrderItem(svc ordersvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := validators.ParsePathUUID(chi.URLParam(r, "id"), "id")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		if err := svc.DeleteItem(r.Context(), id); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}
		responses.WriteJSON(w, http.StatusNoContent, nil)
	}
}
