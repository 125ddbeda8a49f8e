package validation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type signup struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=6"`
	Filter   string `json:"filter" validate:"omitempty,oneof=all failures"`
}

func TestValidateStruct(t *testing.T) {
	tests := []struct {
		name   string
		input  interface{}
		fields []string
	}{
		{"valid", &signup{Email: "a@b.io", Password: "secret"}, nil},
		{"missing email", signup{Password: "secret"}, []string{"email"}},
		{"short password and bad filter", &signup{Email: "a@b.io", Password: "123", Filter: "x"}, []string{"password", "filter"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateStruct(tt.input)
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			var ve Errors
			require.True(t, errors.As(err, &ve))
			got := make([]string, 0, len(ve))
			for _, fe := range ve {
				got = append(got, fe.Field)
			}
			assert.Equal(t, tt.fields, got)
		})
	}
}

func TestValidateStructRejectsNonStruct(t *testing.T) {
	assert.Error(t, ValidateStruct(42))
	assert.NoError(t, ValidateStruct(nil))
}

func TestMessages(t *testing.T) {
	err := ValidateStruct(&signup{Email: "nope", Password: "1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "email must be a valid email address")
	assert.Contains(t, err.Error(), "password must be at least 6 characters")
}
