package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/taprate/backend/internal/config"
	"github.com/taprate/backend/internal/model"
	"github.com/taprate/backend/internal/repository"
	"github.com/taprate/backend/internal/service"
	"github.com/taprate/backend/pkg/mailer"
)

type emptyCompanyStore struct{}

func (emptyCompanyStore) FindDueLottery(context.Context, time.Time) ([]model.Company, error) {
	return nil, nil
}

func (emptyCompanyStore) FindLotteryByID(context.Context, string) (*model.Company, error) {
	return nil, repository.ErrCompanyNotFound
}

func (emptyCompanyStore) UpdateSchedule(context.Context, string, time.Time, *time.Time) error {
	return nil
}

type emptyEntryStore struct{}

func (emptyEntryStore) ListEligible(context.Context, string) ([]model.Entry, error) {
	return nil, nil
}

func (emptyEntryStore) MarkWinner(context.Context, string, time.Time) error {
	return nil
}

func newTestRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	drawings := service.NewDrawingService(emptyCompanyStore{}, emptyEntryStore{}, &mailer.MockMailer{})
	// The coupon handler carries no service here; tests only reach the
	// paths that reject before touching it.
	return NewRouter(&config.Config{}, nil, NewDrawingHandler(drawings), NewCouponHandler(nil))
}

func TestRunDrawings_EmptyBatch(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, but got %d", w.Code)
	}

	var body struct {
		Success bool                  `json:"success"`
		Results []model.DrawingResult `json:"results"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Expected a JSON body, but got %v", err)
	}
	if !body.Success {
		t.Error("Expected success to be true")
	}
	if len(body.Results) != 0 {
		t.Errorf("Expected no results, but got %d", len(body.Results))
	}
}

func TestRunDrawings_MalformedBodyFallsBackToBatchMode(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("{not json"))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected a malformed body to be treated as batch mode (200), but got %d", w.Code)
	}
}

func TestRunDrawings_UnknownForcedCompanyReturnsEmptyResults(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(`{"company_id":"nope"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected status 200, but got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), `"results":[]`) {
		t.Errorf("Expected empty results, but got %s", w.Body.String())
	}
}

func TestRunDrawings_MethodNotAllowed(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusMethodNotAllowed {
		t.Fatalf("Expected status 405, but got %d", w.Code)
	}
	if !strings.Contains(w.Body.String(), "Method not allowed") {
		t.Errorf("Expected a method-not-allowed error body, but got %s", w.Body.String())
	}
}

func TestRunDrawings_OptionsPreflight(t *testing.T) {
	router := newTestRouter()

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodOptions, "/", nil)
	req.Header.Set("Origin", "https://dashboard.example.com")
	req.Header.Set("Access-Control-Request-Method", "POST")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNoContent {
		t.Fatalf("Expected status 204, but got %d", w.Code)
	}
	if got := w.Header().Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("Expected permissive CORS, but got Access-Control-Allow-Origin %q", got)
	}
}
