package tests

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"zomatify/api-gateway/internal/gateway"
	"zomatify/api-gateway/internal/mocks"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestGateway_HealthCheck(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()

	gw.HealthCheck(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	var body map[string]string
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, "api-gateway", body["service"])
}

func TestGateway_RouteHandler_Upstreams(t *testing.T) {
	config := gateway.Config{
		StorefrontSvcURL: "http://storefront-svc",
		PaymentSvcURL:    "http://payment-svc",
	}

	tests := []struct {
		name       string
		method     string
		path       string
		wantTarget string
	}{
		{name: "payment_order", method: http.MethodPost, path: "/api/payments/order", wantTarget: "http://payment-svc/api/payments/order"},
		{name: "payment_verify", method: http.MethodPost, path: "/api/payments/verify", wantTarget: "http://payment-svc/api/payments/verify"},
		{name: "cart", method: http.MethodGet, path: "/api/cart", wantTarget: "http://storefront-svc/api/cart"},
		{name: "cart_item", method: http.MethodPatch, path: "/api/cart/items/abc", wantTarget: "http://storefront-svc/api/cart/items/abc"},
		{name: "auth", method: http.MethodPost, path: "/api/auth/signin", wantTarget: "http://storefront-svc/api/auth/signin"},
		{name: "orders_query", method: http.MethodGet, path: "/api/orders?limit=5", wantTarget: "http://storefront-svc/api/orders?limit=5"},
		{name: "qrcode", method: http.MethodGet, path: "/api/orders/42/qrcode", wantTarget: "http://storefront-svc/api/orders/42/qrcode"},
		{name: "menu", method: http.MethodGet, path: "/api/restaurants/7/menu", wantTarget: "http://storefront-svc/api/restaurants/7/menu"},
		{name: "group_order", method: http.MethodGet, path: "/api/group-orders/grp-1", wantTarget: "http://storefront-svc/api/group-orders/grp-1"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			mockClient := mocks.NewHTTPClient(t)
			gw := gateway.NewGateway(config, mockClient, nil)

			mockResp := &http.Response{
				StatusCode: http.StatusOK,
				Body:       io.NopCloser(strings.NewReader(`{"ok":true}`)),
				Header:     http.Header{"X-Session-Id": []string{"sess-1"}},
			}
			mockClient.On("Do", mock.MatchedBy(func(req *http.Request) bool {
				return req.Method == testCase.method &&
					req.URL.String() == testCase.wantTarget &&
					req.Header.Get("X-Session-ID") == "sess-1"
			})).Return(mockResp, nil).Once()

			req := httptest.NewRequest(testCase.method, testCase.path, nil)
			req.Header.Set("X-Session-ID", "sess-1")
			rr := httptest.NewRecorder()

			gw.RouteHandler(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.JSONEq(t, `{"ok":true}`, rr.Body.String())
			assert.Equal(t, "sess-1", rr.Header().Get("X-Session-ID"))
		})
	}
}

func TestGateway_RouteHandler_UnknownAPI(t *testing.T) {
	gw := gateway.NewGateway(gateway.Config{}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/api/unknown", nil)
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusNotFound, rr.Code)
	assert.JSONEq(t, `{"error":"API route not found"}`, rr.Body.String())
}

func TestGateway_RouteHandler_ProxyError(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(gateway.Config{
		StorefrontSvcURL: "http://invalid",
	}, mockClient, nil)

	mockClient.On("Do", mock.Anything).Return(nil, errors.New("connection failed")).Once()

	req := httptest.NewRequest(http.MethodGet, "/api/restaurants/7/menu", nil)
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusBadGateway, rr.Code)
}

func TestGateway_RouteHandler_UpstreamStatusIsPreserved(t *testing.T) {
	mockClient := mocks.NewHTTPClient(t)
	gw := gateway.NewGateway(gateway.Config{PaymentSvcURL: "http://payment-svc"}, mockClient, nil)

	mockResp := &http.Response{
		StatusCode: http.StatusInternalServerError,
		Body:       io.NopCloser(strings.NewReader(`{"error":"Failed to create order"}`)),
		Header:     make(http.Header),
	}
	mockClient.On("Do", mock.Anything).Return(mockResp, nil).Once()

	req := httptest.NewRequest(http.MethodPost, "/api/payments/order", strings.NewReader(`{"amount":"500"}`))
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
	assert.Contains(t, rr.Body.String(), "Failed to create order")
}

func TestGateway_ServesSPA(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>zomatify</html>"), 0o644))
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "assets"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "assets", "app.js"), []byte("console.log(1)"), 0o644))

	handler := gateway.NewGateway(gateway.Config{StaticDir: dir}, nil, nil).SetupRoutes()

	tests := []struct {
		name     string
		path     string
		wantBody string
	}{
		{name: "asset", path: "/assets/app.js", wantBody: "console.log(1)"},
		{name: "client_route_falls_back_to_index", path: "/orders/42", wantBody: "zomatify"},
	}

	for _, testCase := range tests {
		t.Run(testCase.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, testCase.path, nil)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Contains(t, rr.Body.String(), testCase.wantBody)
		})
	}
}

func TestGateway_RejectsTraversal(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, "index.html"), []byte("<html>zomatify</html>"), 0o644))
	gw := gateway.NewGateway(gateway.Config{StaticDir: dir}, nil, nil)

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.URL.Path = "/../../etc/passwd"
	rr := httptest.NewRecorder()

	gw.RouteHandler(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestGateway_SetupRoutes_Health(t *testing.T) {
	handler := gateway.NewGateway(gateway.Config{}, nil, nil).SetupRoutes()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	rr := httptest.NewRecorder()
	handler.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), "api-gateway")
}

func TestGateway_Handler_PreflightAnsweredWithOK(t *testing.T) {
	handler := gateway.NewGateway(gateway.Config{PaymentSvcURL: "http://payment-svc"}, nil, nil).Handler()

	for _, path := range []string{"/api/payments/order", "/api/payments/verify", "/api/cart/items"} {
		t.Run(path, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodOptions, path, nil)
			req.Header.Set("Origin", "http://localhost:5173")
			req.Header.Set("Access-Control-Request-Method", http.MethodPost)
			rr := httptest.NewRecorder()

			handler.ServeHTTP(rr, req)

			assert.Equal(t, http.StatusOK, rr.Code)
			assert.Equal(t, "*", rr.Header().Get("Access-Control-Allow-Origin"))
		})
	}
}
