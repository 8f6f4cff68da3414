package server

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"sublease-marketplace/internal/auth"
	"sublease-marketplace/services/helpers"
	"sublease-marketplace/utils"

	"github.com/gin-gonic/gin"
)

const (
	requestIDHeader = "X-Request-ID"
	requestIDKey    = "request_id"
	bearerPrefix    = "Bearer "
)

// TokenVerifier validates bearer tokens
type TokenVerifier interface {
	Verify(token string) (*auth.Claims, error)
}

// HTTPObserver records served requests
type HTTPObserver interface {
	ObserveHTTP(method, route string, status int, elapsed time.Duration)
}

// RequestIDMiddleware propagates X-Request-ID, generating one when the client sent none
func RequestIDMiddleware(c *gin.Context) {
	id := c.GetHeader(requestIDHeader)
	if id == "" {
		id = utils.GenerateID()
	}
	c.Set(requestIDKey, id)
	c.Request = c.Request.WithContext(utils.WithRequestID(c.Request.Context(), id))
	c.Writer.Header().Set(requestIDHeader, id)
	c.Next()
}

// RequestLoggerMiddleware logs incoming requests with timing
func RequestLoggerMiddleware(c *gin.Context) {
	start := time.Now()

	c.Next() // process request

	fields := map[string]any{
		"request_id": c.GetString(requestIDKey),
		"method":     c.Request.Method,
		"path":       c.Request.URL.Path,
		"status":     c.Writer.Status(),
		"latency":    time.Since(start).String(),
	}
	if userID := helpers.CallerID(c); userID != "" {
		fields["user_id"] = userID
	}
	if len(c.Errors) > 0 {
		fields["errors"] = c.Errors.String()
	}
	utils.Info("HTTP Request", fields)
}

// MetricsMiddleware reports every request against its route template, not the raw path
func MetricsMiddleware(obs HTTPObserver) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		c.Next()
		obs.ObserveHTTP(c.Request.Method, c.FullPath(), c.Writer.Status(), time.Since(start))
	}
}

// BodyLimitMiddleware caps request bodies at limit bytes
func BodyLimitMiddleware(limit int64) gin.HandlerFunc {
	return func(c *gin.Context) {
		if limit > 0 && c.Request.Body != nil {
			c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, limit)
		}
		c.Next()
	}
}

// CORSMiddleware allows the configured origins; "*" allows any origin without credentials
func CORSMiddleware(allowOrigins []string) gin.HandlerFunc {
	allowed := make(map[string]bool, len(allowOrigins))
	for _, o := range allowOrigins {
		allowed[o] = true
	}

	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")
		h := c.Writer.Header()

		switch {
		case origin == "":
		case allowed["*"]:
			h.Set("Access-Control-Allow-Origin", "*")
		case allowed[origin]:
			h.Set("Access-Control-Allow-Origin", origin)
			h.Set("Access-Control-Allow-Credentials", "true")
			h.Add("Vary", "Origin")
		}
		if h.Get("Access-Control-Allow-Origin") != "" {
			h.Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS")
			h.Set("Access-Control-Allow-Headers", "Authorization, Content-Type, X-Request-ID")
			h.Set("Access-Control-Expose-Headers", requestIDHeader)
			h.Set("Access-Control-Max-Age", "43200")
		}

		if c.Request.Method == http.MethodOptions {
			c.AbortWithStatus(http.StatusNoContent)
			return
		}
		c.Next()
	}
}

// AuthMiddleware rejects requests without a valid bearer token and
// stores the caller's id and role on the context
func AuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := bearerClaims(c, verifier)
		if err != nil {
			utils.AbortJSONError(c, http.StatusUnauthorized, err, "authentication required")
			utils.Warn("Rejected unauthenticated request", map[string]any{
				"path":  c.Request.URL.Path,
				"error": err.Error(),
			})
			return
		}
		setCaller(c, claims)
		c.Next()
	}
}

// OptionalAuthMiddleware identifies the caller when a valid token is present and
// lets anonymous requests through
func OptionalAuthMiddleware(verifier TokenVerifier) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetHeader("Authorization") != "" {
			if claims, err := bearerClaims(c, verifier); err == nil {
				setCaller(c, claims)
			}
		}
		c.Next()
	}
}

func bearerClaims(c *gin.Context, verifier TokenVerifier) (*auth.Claims, error) {
	header := c.GetHeader("Authorization")
	if header == "" {
		return nil, errors.New("missing authorization header")
	}
	if !strings.HasPrefix(header, bearerPrefix) {
		return nil, errors.New("authorization header must use the Bearer scheme")
	}
	token := strings.TrimSpace(strings.TrimPrefix(header, bearerPrefix))
	if token == "" {
		return nil, errors.New("missing token")
	}
	return verifier.Verify(token)
}

func setCaller(c *gin.Context, claims *auth.Claims) {
	c.Set(helpers.ContextUserIDKey, claims.UserID)
	c.Set(helpers.ContextUserRoleKey, claims.Role)
}
