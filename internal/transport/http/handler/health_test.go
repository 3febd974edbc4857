package handler_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/ErlanBelekov/todo-api/internal/health"
	"github.com/ErlanBelekov/todo-api/internal/transport/http/handler"
	"github.com/gin-gonic/gin"
)

type fakeChecker struct {
	result health.HealthResult
}

func (f *fakeChecker) Readiness(context.Context) health.HealthResult { return f.result }

func newHealthEngine(c *fakeChecker) *gin.Engine {
	h := handler.NewHealthHandler(c)
	r := gin.New()
	r.GET("/health", h.Live)
	r.GET("/health/ready", h.Ready)
	return r
}

func TestHealth_Live(t *testing.T) {
	w := httptest.NewRecorder()
	newHealthEngine(&fakeChecker{}).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health", nil))

	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", w.Code)
	}
	var body struct {
		Status    string `json:"status"`
		Timestamp string `json:"timestamp"`
	}
	if err := json.Unmarshal(w.Body.Bytes(), &body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body.Status != "ok" {
		t.Errorf("status = %q, want ok", body.Status)
	}
	if _, err := time.Parse(time.RFC3339, body.Timestamp); err != nil {
		t.Errorf("timestamp %q is not ISO-8601: %v", body.Timestamp, err)
	}
}

func TestHealth_Ready(t *testing.T) {
	tests := []struct {
		status string
		code   int
	}{
		{"up", http.StatusOK},
		{"down", http.StatusServiceUnavailable},
	}
	for _, tt := range tests {
		w := httptest.NewRecorder()
		c := &fakeChecker{result: health.HealthResult{Status: tt.status}}
		newHealthEngine(c).ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/health/ready", nil))
		if w.Code != tt.code {
			t.Errorf("readiness %s: status = %d, want %d", tt.status, w.Code, tt.code)
		}
	}
}
