package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"catalog-svc/services"
	"catalog-svc/store"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest"
)

func TestHealthCheck(t *testing.T) {
	logger := zaptest.NewLogger(t, zaptest.Level(zap.InfoLevel))
	insights := services.NewInsightService(store.NewMemoryProducts(), nil, nil, logger)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/health", HealthCheck(insights))

	req := httptest.NewRequest("GET", "/health", nil)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	if w.Code != http.StatusOK {
		t.Errorf("Expected status %d, got %d", http.StatusOK, w.Code)
	}

	var body struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
		Version   string `json:"version"`
		AIEnabled bool   `json:"aiEnabled"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("Failed to decode response: %v", err)
	}
	if body.Status != "healthy" {
		t.Errorf("Status = %q, want healthy", body.Status)
	}
	if body.Version != "1.0.0" {
		t.Errorf("Version = %q, want 1.0.0", body.Version)
	}
	if body.Timestamp == "" {
		t.Error("Expected a timestamp")
	}
	if body.AIEnabled {
		t.Error("Expected aiEnabled false without a generator")
	}
}
