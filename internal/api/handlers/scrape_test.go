package handlers

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
)

func validationRouter() *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	// Validation rejects these requests before any service is consulted.
	handler := NewScrapeHandler(nil, nil, nil)
	router.POST("/api/scrape", handler.ScrapeLists)
	return router
}

func TestScrapeListsValidation(t *testing.T) {
	router := validationRouter()

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{"invalid json", `{`, http.StatusBadRequest},
		{"no sources", `{}`, http.StatusBadRequest},
		{"empty source url", `{"sources":[{"url":"","name":"A"}]}`, http.StatusBadRequest},
		{"wrong host", `{"sources":[{"url":"https://example.com/list/1","name":"A"}]}`, http.StatusBadRequest},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodPost, "/api/scrape", strings.NewReader(tt.body))
			req.Header.Set("Content-Type", "application/json")
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			if w.Code != tt.wantStatus {
				t.Errorf("status = %d, want %d (body: %s)", w.Code, tt.wantStatus, w.Body.String())
			}
		})
	}
}
