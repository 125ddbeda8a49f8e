package response

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"linkedout/internal/models"
	"linkedout/internal/services"
)

// ===============================
// PAGINATION CONFIGURATION
// ===============================

// PaginationConfig names the query parameters and bounds
type PaginationConfig struct {
	DefaultPageSize int
	MaxPageSize     int
	PageParam       string
	SizeParam       string
	LimitParam      string
	OffsetParam     string
}

// DefaultPaginationConfig returns the defaults used by every list endpoint
func DefaultPaginationConfig() *PaginationConfig {
	return &PaginationConfig{
		DefaultPageSize: 20,
		MaxPageSize:     100,
		PageParam:       "page",
		SizeParam:       "page_size",
		LimitParam:      "limit",
		OffsetParam:     "offset",
	}
}

// PaginationParser turns query strings into models.PaginationParams
type PaginationParser struct {
	config *PaginationConfig
}

// NewPaginationParser creates a parser; a nil config uses the defaults
func NewPaginationParser(config *PaginationConfig) *PaginationParser {
	if config == nil {
		config = DefaultPaginationConfig()
	}
	return &PaginationParser{config: config}
}

// ParseFromQuery accepts either limit/offset or page/page_size. Explicit
// limit/offset win when both are present.
func (p *PaginationParser) ParseFromQuery(query url.Values) (models.PaginationParams, error) {
	params := models.PaginationParams{Limit: p.config.DefaultPageSize}

	page := 1
	if v := query.Get(p.config.PageParam); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 {
			return params, fmt.Errorf("invalid page parameter: %s", v)
		}
		page = n
	}
	if v := query.Get(p.config.SizeParam); v != "" {
		n, err := p.size(v)
		if err != nil {
			return params, err
		}
		params.Limit = n
	}
	params.Offset = (page - 1) * params.Limit

	if v := query.Get(p.config.LimitParam); v != "" {
		n, err := p.size(v)
		if err != nil {
			return params, err
		}
		params.Limit = n
	}
	if v := query.Get(p.config.OffsetParam); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 0 {
			return params, fmt.Errorf("invalid offset parameter: %s", v)
		}
		params.Offset = n
	}

	return params, nil
}

// ParseFromRequest parses pagination parameters, reporting failures as
// validation errors
func (p *PaginationParser) ParseFromRequest(r *http.Request) (models.PaginationParams, error) {
	params, err := p.ParseFromQuery(r.URL.Query())
	if err != nil {
		return params, services.NewValidationError(err.Error(), err)
	}
	return params, nil
}

func (p *PaginationParser) size(v string) (int, error) {
	n, err := strconv.Atoi(v)
	if err != nil || n < 1 {
		return 0, fmt.Errorf("invalid page size: %s", v)
	}
	if n > p.config.MaxPageSize {
		return 0, fmt.Errorf("page size cannot exceed %d", p.config.MaxPageSize)
	}
	return n, nil
}

// ===============================
// QUERY HELPERS
// ===============================

// QueryInt reads a non-negative integer query parameter, def when absent
func QueryInt(r *http.Request, key string, def int) (int, error) {
	v := r.URL.Query().Get(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil || n < 0 {
		return 0, services.NewValidationError(fmt.Sprintf("invalid %s parameter: %s", key, v), err)
	}
	return n, nil
}
