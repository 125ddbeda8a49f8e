// Package responseutil lets middleware reach the response builder without
// importing the response package.
package responseutil

import (
	"context"
	"net/http"
)

// ResponseBuilder is the part of the response builder middleware needs
type ResponseBuilder interface {
	// WriteError writes an error response with the matching status code
	WriteError(w http.ResponseWriter, r *http.Request, err error)
}

type contextKey string

// ResponseBuilderKey is the key used to store the response builder in the context.
const ResponseBuilderKey contextKey = "response_builder"

// GetBuilder extracts the response builder from the context, or nil
func GetBuilder(ctx context.Context) ResponseBuilder {
	if builder, ok := ctx.Value(ResponseBuilderKey).(ResponseBuilder); ok {
		return builder
	}
	return nil
}

// SetBuilder stores a response builder in the context.
func SetBuilder(ctx context.Context, builder ResponseBuilder) context.Context {
	return context.WithValue(ctx, ResponseBuilderKey, builder)
}
