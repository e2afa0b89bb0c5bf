package research

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/arcscan/arcscan-api/internal/search"
	"github.com/gin-gonic/gin"
)

func newTestRouter(svc *Service) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	NewHandler(svc).RegisterRoutes(router.Group("/api"))
	return router
}

func newTestService() *Service {
	return NewService(testLogger(), NewMemorySessionStore(), &fakeGeneration{}, &fakeSearch{}, ServiceConfig{})
}

func TestCreateSessionEndpoint(t *testing.T) {
	router := newTestRouter(newTestService())

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", "/api/research/sessions", nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusCreated {
		t.Fatalf("Expected 201, got %d", w.Code)
	}

	var body struct {
		SessionID int `json:"session_id"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if body.SessionID != 1 {
		t.Errorf("Expected session_id 1, got %d", body.SessionID)
	}
}

func TestStartResearchEndpoint(t *testing.T) {
	svc := NewService(testLogger(), NewMemorySessionStore(),
		&fakeGeneration{responses: []string{requirementsJSON("q1"), reportJSON}},
		&fakeSearch{results: map[string][]search.Result{
			"q1": {{Title: "a", Link: "https://example.com/a", Source: "example.com"}},
		}}, ServiceConfig{})
	router := newTestRouter(svc)
	id := svc.CreateSession()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", fmt.Sprintf("/api/research/sessions/%d/start", id),
		strings.NewReader(`{"companyName": "Gher Foods", "industry": "food", "region": "south asia", "generationApiKey": "g", "searchApiKey": "s"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusAccepted {
		t.Fatalf("Expected 202, got %d: %s", w.Code, w.Body.String())
	}

	sess := waitForTerminal(t, svc, id)
	if sess.Status != StatusCompleted {
		t.Errorf("Expected completed, got %q (%s)", sess.Status, sess.ErrorMessage)
	}
}

func TestStartResearchEndpointValidation(t *testing.T) {
	svc := newTestService()
	router := newTestRouter(svc)
	id := svc.CreateSession()

	// Missing required fields.
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", fmt.Sprintf("/api/research/sessions/%d/start", id),
		strings.NewReader(`{"companyName": "Gher Foods"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for incomplete profile, got %d", w.Code)
	}

	// Unknown session.
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/research/sessions/999/start",
		strings.NewReader(`{"companyName": "Gher Foods", "industry": "food", "region": "south asia"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for unknown session, got %d", w.Code)
	}

	// Non-numeric id.
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", "/api/research/sessions/abc/start",
		strings.NewReader(`{"companyName": "Gher Foods", "industry": "food", "region": "south asia"}`))
	req.Header.Set("Content-Type", "application/json")
	router.ServeHTTP(w, req)

	if w.Code != http.StatusBadRequest {
		t.Errorf("Expected 400 for non-numeric id, got %d", w.Code)
	}
}

func TestGetStatusEndpoint(t *testing.T) {
	svc := newTestService()
	router := newTestRouter(svc)
	id := svc.CreateSession()

	w := httptest.NewRecorder()
	req := httptest.NewRequest("GET", fmt.Sprintf("/api/research/sessions/%d", id), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d", w.Code)
	}

	var body struct {
		Session     Session `json:"session"`
		CurrentStep int     `json:"currentStep"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Invalid response body: %v", err)
	}
	if body.Session.Status != StatusCreated {
		t.Errorf("Expected status created, got %q", body.Session.Status)
	}
	if body.CurrentStep != StepDerivingRequirements {
		t.Errorf("Expected step 1, got %d", body.CurrentStep)
	}

	w = httptest.NewRecorder()
	req = httptest.NewRequest("GET", "/api/research/sessions/999", nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusNotFound {
		t.Errorf("Expected 404, got %d", w.Code)
	}
}

func TestGenerateReportPDFEndpoint(t *testing.T) {
	svc := newTestService()
	router := newTestRouter(svc)
	id := svc.CreateSession()

	// Not completed yet.
	w := httptest.NewRecorder()
	req := httptest.NewRequest("POST", fmt.Sprintf("/api/research/sessions/%d/report/pdf", id), nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 before completion, got %d", w.Code)
	}

	// Completed but empty report means no significant data.
	svc.store.Update(id, func(sess *Session) {
		sess.Status = StatusCompleted
		sess.Results = &Report{}
	})
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", fmt.Sprintf("/api/research/sessions/%d/report/pdf", id), nil)
	router.ServeHTTP(w, req)
	if w.Code != http.StatusConflict {
		t.Errorf("Expected 409 for empty report, got %d", w.Code)
	}

	// A valid report renders.
	svc.store.Update(id, func(sess *Session) {
		sess.Profile = BusinessProfile{CompanyName: "Gher Foods", Industry: "food", Region: "south asia"}
		sess.Sources = []string{"example.com"}
		sess.Results = &Report{
			OverallRiskScore: 67,
			RiskLevel:        "High",
			TopRisks: []RiskFactor{
				{Factor: "Monsoon flooding", Score: 82, Source: "example.com"},
			},
			KeyInsights: []Insight{
				{Title: "Port concentration", Description: "Two ports handle most volume.", Source: "example.com"},
			},
			RiskCategories: []RiskCategory{
				{Name: "Shipping & Logistics Bottlenecks", BusinessScore: 8.1, IndustryAverage: 6.2},
			},
		}
	})
	w = httptest.NewRecorder()
	req = httptest.NewRequest("POST", fmt.Sprintf("/api/research/sessions/%d/report/pdf", id), nil)
	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Fatalf("Expected 200, got %d: %s", w.Code, w.Body.String())
	}
	if ct := w.Header().Get("Content-Type"); ct != "application/pdf" {
		t.Errorf("Expected application/pdf, got %q", ct)
	}
	if !strings.HasPrefix(w.Body.String(), "%PDF") {
		t.Error("Response body is not a PDF document")
	}
}
