package response

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"
	"time"

	"linkedout/internal/contextutils"
	"linkedout/internal/models"
	"linkedout/internal/services"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func decode(t *testing.T, rec *httptest.ResponseRecorder) APIResponse {
	t.Helper()
	var resp APIResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestWriteSuccessEnvelope(t *testing.T) {
	b := NewBuilder(nil, zap.NewNop())
	b.now = func() time.Time { return time.Unix(1700000000, 0) }

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(contextutils.WithRequestID(req.Context(), "req-1"))
	rec := httptest.NewRecorder()

	b.WriteSuccess(rec, req, map[string]string{"hello": "world"})

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "application/json; charset=utf-8", rec.Header().Get("Content-Type"))
	resp := decode(t, rec)
	assert.True(t, resp.Success)
	assert.Equal(t, "req-1", resp.RequestID)
	assert.Equal(t, int64(1700000000), resp.Timestamp)
	assert.Equal(t, "v1", resp.Version)
	assert.Equal(t, map[string]interface{}{"hello": "world"}, resp.Data)
}

func TestWriteErrorStatusCodes(t *testing.T) {
	b := NewBuilder(nil, zap.NewNop())

	tests := []struct {
		name     string
		err      error
		status   int
		wantType string
		wantMsg  string
	}{
		{"validation", services.NewValidationError("bad input", nil), http.StatusBadRequest, services.ErrTypeValidation, "bad input"},
		{"not found", services.EntityNotFoundError("user", "ghost"), http.StatusNotFound, services.ErrTypeNotFound, "user not found"},
		{"conflict", services.NewConflictError("already endorsed", "ALREADY_ENDORSED"), http.StatusConflict, services.ErrTypeConflict, "already endorsed"},
		{"plain error is masked", errors.New("disk on fire"), http.StatusInternalServerError, services.ErrTypeInternal, "An internal error occurred"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			b.WriteError(rec, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.status, rec.Code)
			resp := decode(t, rec)
			assert.False(t, resp.Success)
			require.NotNil(t, resp.Error)
			assert.Equal(t, tt.wantType, resp.Error.Type)
			assert.Equal(t, tt.wantMsg, resp.Error.Message)
		})
	}
}

func TestQuickPaginated(t *testing.T) {
	page := models.Paginate([]int{1, 2, 3}, models.PaginationParams{Limit: 2})
	page.Filters = map[string]any{"q": "nap"}

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(SetBuilder(context.Background(), NewBuilder(nil, zap.NewNop())))
	rec := httptest.NewRecorder()
	QuickPaginated(rec, req, page)

	resp := decode(t, rec)
	require.NotNil(t, resp.Meta)
	assert.EqualValues(t, 3, resp.Meta.Pagination.TotalItems)
	assert.True(t, resp.Meta.Pagination.HasNext)
	assert.Equal(t, "nap", resp.Meta.Filters["q"])
	assert.Len(t, resp.Data, 2)
}

func TestQuickStatusResponseWithoutBuilder(t *testing.T) {
	rec := httptest.NewRecorder()
	QuickStatusResponse(rec, httptest.NewRequest(http.MethodGet, "/", nil), http.StatusTooManyRequests, "")

	assert.Equal(t, http.StatusTooManyRequests, rec.Code)
	resp := decode(t, rec)
	assert.Equal(t, "RATE_LIMIT_EXCEEDED", resp.Error.Type)
	assert.Equal(t, "Too Many Requests", resp.Error.Message)
}

func TestPaginationParser(t *testing.T) {
	p := NewPaginationParser(nil)

	tests := []struct {
		query   string
		want    models.PaginationParams
		wantErr bool
	}{
		{"", models.PaginationParams{Limit: 20}, false},
		{"page=3&page_size=10", models.PaginationParams{Limit: 10, Offset: 20}, false},
		{"limit=5&offset=7", models.PaginationParams{Limit: 5, Offset: 7}, false},
		{"page=2&limit=5", models.PaginationParams{Limit: 5, Offset: 20}, false},
		{"page=0", models.PaginationParams{}, true},
		{"limit=500", models.PaginationParams{}, true},
		{"offset=-1", models.PaginationParams{}, true},
	}
	for _, tt := range tests {
		t.Run(tt.query, func(t *testing.T) {
			q, err := url.ParseQuery(tt.query)
			require.NoError(t, err)
			got, err := p.ParseFromQuery(q)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
