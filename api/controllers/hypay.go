package controllers

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/nuthub-il/nuthub-backend/api/responses"
	"github.com/nuthub-il/nuthub-backend/api/validators"
	pkgerrors "github.com/nuthub-il/nuthub-backend/pkg/errors"
	"github.com/nuthub-il/nuthub-backend/pkg/hypay"
	"github.com/nuthub-il/nuthub-backend/pkg/logger"
)

// HypaySigner is the payment-page signing surface needed by the
// controller.
type HypaySigner interface {
	Sign(ctx context.Context, req hypay.SignRequest) (string, error)
}

// hypaySignRequest mirrors the storefront's signing payload. The
// redirect URLs are accepted but not forwarded; the hosted page uses
// the URLs configured on the merchant terminal.
type hypaySignRequest struct {
	Amount       decimal.Decimal `json:"amount"`
	OrderID      string          `json:"orderId" validate:"required"`
	CustomerName string          `json:"customerName,omitempty"`
	CustomerID   string          `json:"customerId,omitempty"`
	Info         string          `json:"info,omitempty"`
	SuccessURL   string          `json:"successUrl,omitempty"`
	ErrorURL     string          `json:"errorUrl,omitempty"`
}

func (r hypaySignRequest) toSignRequest() hypay.SignRequest {
	params := map[string]string{
		"Order": strings.TrimSpace(r.OrderID),
		"UTF8":  "True",
	}
	if name := strings.TrimSpace(r.CustomerName); name != "" {
		params["ClientName"] = name
	}
	if id := strings.TrimSpace(r.CustomerID); id != "" {
		params["UserId"] = id
	}
	if info := strings.TrimSpace(r.Info); info != "" {
		params["Info"] = info
	}
	return hypay.SignRequest{Amount: r.Amount, Params: params}
}

// HypaySign signs the hosted-payment-page parameters server-side so
// merchant credentials never reach the browser. The processor's raw
// k=v&k=v string is returned as text/plain.
func HypaySign(client HypaySigner, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if client == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeDependency, "payment signing unavailable"))
			return
		}

		var payload hypaySignRequest
		if err := validators.DecodeJSONBody(r, &payload); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		signed, err := client.Sign(r.Context(), payload.toSignRequest())
		if err != nil {
			// Gateway rejections come back as an Error= pair in the
			// response body; pass the raw text through so the
			// storefront can show the processor's reason.
			var gwErr *hypay.GatewayError
			if errors.As(err, &gwErr) {
				responses.WriteText(w, http.StatusBadRequest, gwErr.Body)
				return
			}
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteText(w, http.StatusOK, signed)
	}
}
