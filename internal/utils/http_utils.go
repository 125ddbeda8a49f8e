package utils

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"linkedout/internal/services"

	"github.com/gorilla/mux"
)

// MaxJSONBodyBytes bounds request bodies decoded by DecodeJSON
const MaxJSONBodyBytes = 1 << 20

// DecodeJSON decodes the request body into dst. Malformed or oversized
// bodies are reported as validation errors.
func DecodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, MaxJSONBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			return services.NewValidationError("request body is required", err)
		}
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return services.NewValidationError("request body too large", err)
		}
		return services.NewValidationError("invalid request body", err)
	}
	return nil
}

// PathVar returns a route variable, trimmed
func PathVar(r *http.Request, name string) string {
	return strings.TrimSpace(mux.Vars(r)[name])
}

// RequirePathVar returns a route variable or a validation error when empty
func RequirePathVar(r *http.Request, name string) (string, error) {
	v := PathVar(r, name)
	if v == "" {
		return "", services.NewValidationError("missing "+name, nil)
	}
	return v, nil
}
