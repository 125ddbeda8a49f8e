package response

import (
	"net/http"

	"linkedout/internal/services"
)

// ===============================
// STATUS CODE MAPPING
// ===============================

// errorTypeForStatus is the inverse of ServiceError.GetStatusCode
func errorTypeForStatus(code int) string {
	switch code {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return services.ErrTypeValidation
	case http.StatusUnauthorized:
		return services.ErrTypeUnauthorized
	case http.StatusForbidden:
		return services.ErrTypeForbidden
	case http.StatusNotFound:
		return services.ErrTypeNotFound
	case http.StatusMethodNotAllowed:
		return "METHOD_NOT_ALLOWED"
	case http.StatusConflict:
		return services.ErrTypeConflict
	case http.StatusTooManyRequests:
		return "RATE_LIMIT_EXCEEDED"
	case http.StatusServiceUnavailable:
		return "SERVICE_UNAVAILABLE"
	default:
		return services.ErrTypeInternal
	}
}

// IsSuccessStatus reports whether code is 2xx
func IsSuccessStatus(code int) bool {
	return code >= 200 && code < 300
}

// ===============================
// ROUTER FALLBACKS
// ===============================

// NotFoundHandler answers unknown routes with the JSON envelope
func NotFoundHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		QuickStatusResponse(w, r, http.StatusNotFound, "route not found")
	})
}

// MethodNotAllowedHandler answers known routes hit with the wrong method
func MethodNotAllowedHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		QuickStatusResponse(w, r, http.StatusMethodNotAllowed, "method not allowed")
	})
}
