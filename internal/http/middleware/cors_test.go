package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestCORSAllowsConfiguredOrigins(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		configured []string
		origin     string
		allowed    bool
	}{
		{nil, "http://localhost:5173", true},
		{nil, "https://evil.example", false},
		{[]string{"https://quran.example"}, "https://quran.example", true},
		{[]string{"https://quran.example"}, "http://localhost:5173", false},
	}
	for _, tc := range cases {
		r := gin.New()
		r.Use(CORS(tc.configured...))
		r.OPTIONS("/api/recitation", func(c *gin.Context) { c.Status(http.StatusNoContent) })

		req := httptest.NewRequest(http.MethodOptions, "/api/recitation", nil)
		req.Header.Set("Origin", tc.origin)
		req.Header.Set("Access-Control-Request-Method", http.MethodPost)
		rec := httptest.NewRecorder()
		r.ServeHTTP(rec, req)

		got := rec.Header().Get("Access-Control-Allow-Origin")
		if tc.allowed {
			assert.Equal(t, tc.origin, got, "origin %s", tc.origin)
		} else {
			assert.Empty(t, got, "origin %s", tc.origin)
		}
	}
}
