package server

import (
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"sublease-marketplace/internal/auth"
	"sublease-marketplace/internal/config"
	"sublease-marketplace/services/helpers"
	"sublease-marketplace/utils"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

func writeFile(path string, data []byte) error {
	return os.WriteFile(path, data, 0o644)
}

func TestRequestIDMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RequestIDMiddleware)
	router.GET("/", func(c *gin.Context) {
		require.Equal(t, c.GetString(requestIDKey), utils.RequestIDFrom(c.Request.Context()))
		c.String(http.StatusOK, c.GetString(requestIDKey))
	})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))
	generated := w.Header().Get(requestIDHeader)
	require.Len(t, generated, 36)
	require.Equal(t, generated, w.Body.String())

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set(requestIDHeader, "client-supplied")
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, "client-supplied", w.Header().Get(requestIDHeader))
}

func TestCORSMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)

	tests := []struct {
		name          string
		allow         []string
		method        string
		origin        string
		expectedCode  int
		expectedAllow string
		credentials   bool
	}{
		{"allowed_origin", []string{"http://app.test"}, http.MethodGet, "http://app.test", http.StatusOK, "http://app.test", true},
		{"unknown_origin", []string{"http://app.test"}, http.MethodGet, "http://evil.test", http.StatusOK, "", false},
		{"wildcard", []string{"*"}, http.MethodGet, "http://any.test", http.StatusOK, "*", false},
		{"preflight", []string{"http://app.test"}, http.MethodOptions, "http://app.test", http.StatusNoContent, "http://app.test", true},
		{"preflight_unknown_origin", []string{"http://app.test"}, http.MethodOptions, "http://evil.test", http.StatusNoContent, "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := gin.New()
			router.Use(CORSMiddleware(tt.allow))
			router.GET("/", func(c *gin.Context) { c.Status(http.StatusOK) })
			router.OPTIONS("/", func(c *gin.Context) { c.Status(http.StatusOK) })

			req := httptest.NewRequest(tt.method, "/", nil)
			req.Header.Set("Origin", tt.origin)
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.expectedCode, w.Code)
			require.Equal(t, tt.expectedAllow, w.Header().Get("Access-Control-Allow-Origin"))
			require.Equal(t, tt.credentials, w.Header().Get("Access-Control-Allow-Credentials") == "true")
		})
	}
}

func TestAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	issuer, err := auth.NewTokenIssuer(config.JWTConfig{Secret: "middleware-secret", Expiration: time.Minute, Issuer: "test"})
	require.NoError(t, err)
	token, _, err := issuer.Issue("user-1", "user-1@example.com", "admin")
	require.NoError(t, err)

	router := gin.New()
	router.GET("/", AuthMiddleware(issuer), func(c *gin.Context) {
		c.String(http.StatusOK, c.GetString(helpers.ContextUserIDKey)+"/"+c.GetString(helpers.ContextUserRoleKey))
	})

	tests := []struct {
		name         string
		header       string
		expectedCode int
		expectedBody string
	}{
		{"valid_token", "Bearer " + token, http.StatusOK, "user-1/admin"},
		{"missing_header", "", http.StatusUnauthorized, ""},
		{"wrong_scheme", "Basic " + token, http.StatusUnauthorized, ""},
		{"empty_token", "Bearer ", http.StatusUnauthorized, ""},
		{"tampered_token", "Bearer " + token + "x", http.StatusUnauthorized, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			w := httptest.NewRecorder()
			router.ServeHTTP(w, req)

			require.Equal(t, tt.expectedCode, w.Code)
			if tt.expectedBody != "" {
				require.Equal(t, tt.expectedBody, w.Body.String())
			}
		})
	}
}
