package handler

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/taprate/backend/internal/repository"
	"github.com/taprate/backend/internal/service"
)

func TestCouponErrorStatus(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"unknown company", repository.ErrCompanyNotFound, http.StatusNotFound},
		{"company not in coupon mode", service.ErrNotCouponMode, http.StatusBadRequest},
		{"exhausted pool", repository.ErrNoAvailableCoupons, http.StatusConflict},
		{"wrapped exhausted pool", fmt.Errorf("failed to issue: %w", repository.ErrNoAvailableCoupons), http.StatusConflict},
		{"anything else", errors.New("connection reset"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run("Test "+tc.name, func(t *testing.T) {
			if got := couponErrorStatus(tc.err); got != tc.want {
				t.Errorf("Expected status %d for %v, but got %d", tc.want, tc.err, got)
			}
		})
	}
}

func TestGenerateCoupons_InvalidCount(t *testing.T) {
	router := newTestRouter()

	cases := []struct {
		name string
		body string
	}{
		{"zero count", `{"count":0}`},
		{"negative count", `{"count":-5}`},
		{"count above cap", `{"count":100000}`},
		{"missing body", ``},
	}

	for _, tc := range cases {
		t.Run("Test "+tc.name, func(t *testing.T) {
			w := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/api/v1/companies/acme/coupons", strings.NewReader(tc.body))
			req.Header.Set("Content-Type", "application/json")
			router.ServeHTTP(w, req)

			if w.Code != http.StatusBadRequest {
				t.Fatalf("Expected status 400, but got %d", w.Code)
			}
			if !strings.Contains(w.Body.String(), "count must be between") {
				t.Errorf("Expected a count validation error, but got %s", w.Body.String())
			}
		})
	}
}

func TestCouponRead_PreflightAllowsGet(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/api/v1/companies/acme/coupons", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", "GET")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, but got %d", w.Code)
	}
	if methods := w.Header().Get("Access-Control-Allow-Methods"); !strings.Contains(methods, "GET") {
		t.Errorf("Expected GET in Access-Control-Allow-Methods, but got %q", methods)
	}
}
