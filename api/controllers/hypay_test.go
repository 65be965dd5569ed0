package controllers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	pkgerrors "github.com/nuthub-il/nuthub-backend/pkg/errors"
	"github.com/nuthub-il/nuthub-backend/pkg/hypay"
)

func TestHypaySignReturnsRawString(t *testing.T) {
	signer := &stubSigner{signed: "Masof=0010131918&Amount=55.99&signature=abc123"}

	req := httptest.NewRequest(http.MethodPost, "/api/hypay-sign", bytes.NewReader([]byte(
		`{"amount":"55.99","orderId":"1001","customerName":"Dana","customerId":"123456789","info":"NutHub order 1001"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	HypaySign(signer, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Fatalf("expected text/plain got %s", got)
	}
	if resp.Body.String() != signer.signed {
		t.Fatalf("expected raw signed string, got %q", resp.Body.String())
	}

	if signer.captured.Params["Order"] != "1001" {
		t.Fatalf("expected order param, got %+v", signer.captured.Params)
	}
	if signer.captured.Params["ClientName"] != "Dana" {
		t.Fatalf("expected client name param, got %+v", signer.captured.Params)
	}
	if got := signer.captured.Amount.StringFixed(2); got != "55.99" {
		t.Fatalf("unexpected amount %s", got)
	}
}

func TestHypaySignNeverForwardsCredentialParams(t *testing.T) {
	signer := &stubSigner{signed: "ok"}

	req := httptest.NewRequest(http.MethodPost, "/api/hypay-sign", bytes.NewReader([]byte(
		`{"amount":"10.00","orderId":"7"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	HypaySign(signer, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	// The controller builds passthrough params only; credentials are
	// attached inside the client from config.
	for _, banned := range []string{"Masof", "KEY", "PassP"} {
		if _, ok := signer.captured.Params[banned]; ok {
			t.Fatalf("credential param %s must not originate from the request", banned)
		}
	}
}

func TestHypaySignAcceptsRedirectURLs(t *testing.T) {
	signer := &stubSigner{signed: "Amount=55.99&signature=abc123"}

	// The storefront sends redirect URLs with the signing payload; they
	// are tolerated but never forwarded to the gateway.
	req := httptest.NewRequest(http.MethodPost, "/api/hypay-sign", bytes.NewReader([]byte(
		`{"amount":"55.99","orderId":"1001","customerName":"Dana","customerId":"123456789",`+
			`"info":"NutHub order 1001","successUrl":"https://nuthub.test/thanks","errorUrl":"https://nuthub.test/failed"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	HypaySign(signer, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d: %s", resp.Code, resp.Body.String())
	}
	if resp.Body.String() != signer.signed {
		t.Fatalf("expected raw signed string, got %q", resp.Body.String())
	}
	for key := range signer.captured.Params {
		if strings.Contains(strings.ToLower(key), "url") {
			t.Fatalf("redirect URL forwarded to gateway: %s", key)
		}
	}
}

func TestHypaySignPassesGatewayRejectionThrough(t *testing.T) {
	raw := "Error=901&ErrorText=bad terminal"
	signer := &stubSigner{err: &hypay.GatewayError{Body: raw}}

	req := httptest.NewRequest(http.MethodPost, "/api/hypay-sign", bytes.NewReader([]byte(
		`{"amount":"55.99","orderId":"1001"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	HypaySign(signer, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
	if got := resp.Header().Get("Content-Type"); !strings.HasPrefix(got, "text/plain") {
		t.Fatalf("expected text/plain got %s", got)
	}
	if resp.Body.String() != raw {
		t.Fatalf("expected gateway body passthrough, got %q", resp.Body.String())
	}
}

func TestHypaySignMapsGatewayFailure(t *testing.T) {
	signer := &stubSigner{err: pkgerrors.New(pkgerrors.CodeDependency, "signing request rejected")}

	req := httptest.NewRequest(http.MethodPost, "/api/hypay-sign", bytes.NewReader([]byte(
		`{"amount":"55.99","orderId":"1001"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	HypaySign(signer, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503 got %d", resp.Code)
	}

	var payload struct {
		Error struct {
			Code string `json:"code"`
		} `json:"error"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode error envelope: %v", err)
	}
	if payload.Error.Code != string(pkgerrors.CodeDependency) {
		t.Fatalf("unexpected code %s", payload.Error.Code)
	}
}

func TestHypaySignRequiresOrderID(t *testing.T) {
	signer := &stubSigner{signed: "ok"}

	req := httptest.NewRequest(http.MethodPost, "/api/hypay-sign", bytes.NewReader([]byte(`{"amount":"55.99"}`)))
	req.Header.Set("Content-Type", "application/json")
	resp := httptest.NewRecorder()
	HypaySign(signer, nil).ServeHTTP(resp, req)

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
