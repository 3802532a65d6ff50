package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"

	"fairshare/internal/middleware"
	"fairshare/internal/services"
)

// --- mock recurring service ---

type mockRecurringService struct {
	generateForPeriodFn func(ctx context.Context, month, year int) (*services.GenerationResult, error)
}

func (m *mockRecurringService) GenerateForPeriod(ctx context.Context, month, year int) (*services.GenerationResult, error) {
	if m.generateForPeriodFn != nil {
		return m.generateForPeriodFn(ctx, month, year)
	}
	return &services.GenerationResult{}, nil
}

var _ services.RecurringServicer = (*mockRecurringService)(nil)

func setupRecurringRouter(handler *RecurringHandler, role string) *gin.Engine {
	r := gin.New()
	auth := r.Group("", injectMember(testAccountID, testMemberID, role), middleware.RequireAdmin())
	auth.POST("/recurring/run", handler.RunGeneration)
	return r
}

// --- tests ---

func TestRecurringHandler_RunGeneration(t *testing.T) {
	t.Run("returns 200 with summary", func(t *testing.T) {
		var gotMonth, gotYear int
		svc := &mockRecurringService{
			generateForPeriodFn: func(_ context.Context, month, year int) (*services.GenerationResult, error) {
				gotMonth, gotYear = month, year
				return &services.GenerationResult{Generated: 2, Skipped: 1}, nil
			},
		}
		handler := NewRecurringHandler(svc)
		r := setupRecurringRouter(handler, "admin")

		rec := doRequest(r, "POST", "/recurring/run", `{"month":4,"year":2024}`)

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotMonth != 4 || gotYear != 2024 {
			t.Errorf("expected period 4/2024, got %d/%d", gotMonth, gotYear)
		}
		result := parseJSON(t, rec)
		summary := result["result"].(map[string]interface{})
		if summary["generated"].(float64) != 2 || summary["skipped"].(float64) != 1 {
			t.Errorf("unexpected summary: %v", summary)
		}
	})

	t.Run("defaults to current period on empty body", func(t *testing.T) {
		var gotMonth, gotYear int
		svc := &mockRecurringService{
			generateForPeriodFn: func(_ context.Context, month, year int) (*services.GenerationResult, error) {
				gotMonth, gotYear = month, year
				return &services.GenerationResult{}, nil
			},
		}
		handler := NewRecurringHandler(svc)
		r := setupRecurringRouter(handler, "admin")

		rec := doRequest(r, "POST", "/recurring/run", "")

		if rec.Code != http.StatusOK {
			t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
		}
		if gotMonth < 1 || gotMonth > 12 || gotYear < 2024 {
			t.Errorf("expected a sane default period, got %d/%d", gotMonth, gotYear)
		}
	})

	t.Run("returns 400 on invalid month", func(t *testing.T) {
		handler := NewRecurringHandler(&mockRecurringService{})
		r := setupRecurringRouter(handler, "admin")

		rec := doRequest(r, "POST", "/recurring/run", `{"month":13,"year":2024}`)

		if rec.Code != http.StatusBadRequest {
			t.Fatalf("expected 400, got %d", rec.Code)
		}
	})

	t.Run("returns 403 for non-admin", func(t *testing.T) {
		handler := NewRecurringHandler(&mockRecurringService{})
		r := setupRecurringRouter(handler, "member")

		rec := doRequest(r, "POST", "/recurring/run", `{"month":4,"year":2024}`)

		if rec.Code != http.StatusForbidden {
			t.Fatalf("expected 403, got %d", rec.Code)
		}
	})
}
