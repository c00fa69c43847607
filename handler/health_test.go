package handler

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

type fakePinger struct{ err error }

func (f fakePinger) Ping(context.Context) error { return f.err }

func TestHealthHandler(t *testing.T) {
	tests := []struct {
		name     string
		database Pinger
		status   string
		dbStatus string
	}{
		{"memory store", nil, "ok", "memory"},
		{"database reachable", fakePinger{}, "ok", "ok"},
		{"database down", fakePinger{err: errors.New("connection refused")}, "degraded", "unreachable"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.GET("/api/health", NewHealthHandler("aaraa-erp-assets", "production", tt.database).Health)

			w := doJSON(router, http.MethodGet, "/api/health", nil)
			if w.Code != http.StatusOK {
				t.Fatalf("Expected status 200, got %d", w.Code)
			}
			resp := decode(t, w)
			if resp["status"] != tt.status {
				t.Errorf("Expected status %s, got %v", tt.status, resp["status"])
			}
			if resp["database"] != tt.dbStatus {
				t.Errorf("Expected database %s, got %v", tt.dbStatus, resp["database"])
			}
			if resp["bucket"] != "aaraa-erp-assets" || resp["environment"] != "production" {
				t.Errorf("Unexpected body: %v", resp)
			}
		})
	}
}
