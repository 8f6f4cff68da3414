package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"sublease-marketplace/internal/biddingerrors"
	"sublease-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// ContextUserIDKey is where the auth middleware stores the authenticated user id
const ContextUserIDKey = "user_id"

// ContextUserRoleKey is where the auth middleware stores the authenticated user's role
const ContextUserRoleKey = "user_role"

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		utils.JSONError(c, http.StatusRequestEntityTooLarge, fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit), "request body too large")
		utils.Warn(handlerName+": body too large", map[string]any{"limit": tooLarge.Limit})
		return
	}

	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	if details := ValidationMessages(err); len(details) > 0 {
		wrappedErr = fmt.Errorf("invalid request payload: %s", joinDetails(details))
	}
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

type errorMapping struct {
	err     error
	status  int
	message string
}

// errorMappings is checked in order; the first sentinel in the chain wins
var errorMappings = []errorMapping{
	{biddingerrors.ErrNotFound, http.StatusNotFound, "resource not found"},
	{biddingerrors.ErrAuctionNotAvailable, http.StatusBadRequest, "invalid property or auction ended"},
	{biddingerrors.ErrInvalidDateFormat, http.StatusBadRequest, "invalid date format"},
	{biddingerrors.ErrStartDateNotFuture, http.StatusBadRequest, "start date must be in the future"},
	{biddingerrors.ErrEndDateBeforeStart, http.StatusBadRequest, "end date must be after start date"},
	{biddingerrors.ErrAmountBelowMinimum, http.StatusBadRequest, "bid amount below minimum"},
	{biddingerrors.ErrOverlappingBid, http.StatusConflict, "bid overlaps an existing bid"},
	{biddingerrors.ErrInvalidBid, http.StatusBadRequest, "invalid bid details"},
	{biddingerrors.ErrInvalidStateTransition, http.StatusConflict, "invalid state transition"},
	{biddingerrors.ErrForbidden, http.StatusForbidden, "not authorized to perform this action"},
	{biddingerrors.ErrUnauthenticated, http.StatusUnauthorized, "authentication required"},
	{biddingerrors.ErrInvalidCredential, http.StatusUnauthorized, "invalid email or password"},
	{biddingerrors.ErrEmailTaken, http.StatusConflict, "email already registered"},
	{biddingerrors.ErrValidation, http.StatusBadRequest, "validation failed"},
	{biddingerrors.ErrUnsupportedMedia, http.StatusUnsupportedMediaType, "unsupported media type"},
}

func lookupError(err error) (errorMapping, bool) {
	for _, m := range errorMappings {
		if errors.Is(err, m.err) {
			return m, true
		}
	}
	return errorMapping{}, false
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	if m, ok := lookupError(err); ok {
		return m.status, m.message
	}
	return http.StatusInternalServerError, "internal server error"
}

// HandleServiceError writes the mapped error response and logs the failure.
// Server errors get a generic body; the cause is only logged.
func HandleServiceError(c *gin.Context, handlerName string, err error, fields map[string]any) {
	status, message := MapErrorToHTTP(err)

	logFields := map[string]any{"handler": handlerName, "status": status, "error": err.Error()}
	for k, v := range fields {
		logFields[k] = v
	}

	if status >= http.StatusInternalServerError {
		utils.JSONError(c, status, errors.New(message), message)
		utils.Error(handlerName+": request failed", logFields)
		return
	}

	utils.JSONError(c, status, clientError(err), message)
	utils.Warn(handlerName+": request rejected", logFields)
}

// clientError reduces err to its domain sentinel and the detail attached to it,
// e.g. "bid amount below minimum - bid must be at least 100.00".
// Wrapping context from inner layers is dropped.
func clientError(err error) error {
	m, ok := lookupError(err)
	if !ok {
		return errors.New("internal server error")
	}
	msg, sentinel := err.Error(), m.err.Error()
	if i := strings.Index(msg, sentinel+" - "); i >= 0 {
		return errors.New(msg[i:])
	}
	return m.err
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// CallerID returns the authenticated user id, or "" on public routes
func CallerID(c *gin.Context) string {
	return c.GetString(ContextUserIDKey)
}
