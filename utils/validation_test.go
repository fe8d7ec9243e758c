package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testListing struct {
	Title    string `validate:"required"`
	Email    string `validate:"required,email"`
	Postcode string `validate:"required,postcode"`
	Bedrooms int    `validate:"gte=0"`
}

func TestValidateStruct(t *testing.T) {
	t.Run("valid struct", func(t *testing.T) {
		s := testListing{
			Title:    "Two-bed flat",
			Email:    "landlord@example.com",
			Postcode: "SW1A 1AA",
			Bedrooms: 2,
		}

		err := ValidateStruct(&s)
		assert.NoError(t, err)
	})

	t.Run("missing required field", func(t *testing.T) {
		s := testListing{
			Email:    "landlord@example.com",
			Postcode: "SW1A 1AA",
		}

		err := ValidateStruct(&s)
		assert.Error(t, err)
		assert.True(t, IsValidationError(err))

		fields := GetValidationFields(err)
		assert.Contains(t, fields, "Title")
	})

	t.Run("invalid email", func(t *testing.T) {
		s := testListing{
			Title:    "Two-bed flat",
			Email:    "invalid-email",
			Postcode: "SW1A 1AA",
		}

		err := ValidateStruct(&s)
		assert.Error(t, err)
		assert.True(t, IsValidationError(err))

		fields := GetValidationFields(err)
		assert.Contains(t, fields, "Email")
	})

	t.Run("negative bedrooms", func(t *testing.T) {
		s := testListing{
			Title:    "Two-bed flat",
			Email:    "landlord@example.com",
			Postcode: "SW1A 1AA",
			Bedrooms: -1,
		}

		err := ValidateStruct(&s)
		assert.Error(t, err)
		assert.True(t, IsValidationError(err))

		fields := GetValidationFields(err)
		assert.Contains(t, fields, "Bedrooms")
	})
}

func TestValidateStruct_Postcode(t *testing.T) {
	tests := []struct {
		name      string
		postcode  string
		wantError bool
	}{
		{name: "standard format", postcode: "SW1A 1AA", wantError: false},
		{name: "short outward code", postcode: "M1 1AE", wantError: false},
		{name: "no space", postcode: "EC1A1BB", wantError: false},
		{name: "lowercase", postcode: "sw1a 1aa", wantError: false},
		{name: "not a postcode", postcode: "12345", wantError: true},
		{name: "too long", postcode: "SW1A 1AAA", wantError: true},
		{name: "empty", postcode: "", wantError: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := testListing{
				Title:    "Two-bed flat",
				Email:    "landlord@example.com",
				Postcode: tt.postcode,
			}

			err := ValidateStruct(&s)
			if tt.wantError {
				require.Error(t, err)
				fields := GetValidationFields(err)
				assert.Contains(t, fields, "Postcode")
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateUUID(t *testing.T) {
	tests := []struct {
		name      string
		uuid      string
		wantError bool
	}{
		{
			name:      "valid UUID",
			uuid:      "550e8400-e29b-41d4-a716-446655440000",
			wantError: false,
		},
		{
			name:      "invalid UUID - wrong format",
			uuid:      "not-a-uuid",
			wantError: true,
		},
		{
			name:      "empty string",
			uuid:      "",
			wantError: true,
		},
		{
			name:      "invalid UUID - missing parts",
			uuid:      "550e8400-e29b-41d4",
			wantError: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateUUID(tt.uuid)
			if tt.wantError {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestNormalizePostcode(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected string
	}{
		{name: "already normalized", input: "SW1A 1AA", expected: "SW1A 1AA"},
		{name: "lowercase no space", input: "sw1a1aa", expected: "SW1A 1AA"},
		{name: "extra whitespace", input: "  m1  1ae ", expected: "M1 1AE"},
		{name: "short outward code", input: "M11AE", expected: "M1 1AE"},
		{name: "too short to split", input: "M1", expected: "M1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, NormalizePostcode(tt.input))
		})
	}
}

func TestNewValidationError(t *testing.T) {
	t.Run("creates validation error with field details", func(t *testing.T) {
		s := testListing{
			Email:    "invalid-email",
			Postcode: "nope",
			Bedrooms: -2,
		}

		err := ValidateStruct(&s)
		require.Error(t, err)

		validationErr, ok := err.(*ValidationError)
		require.True(t, ok)

		assert.Equal(t, "Validation failed", validationErr.Message)
		assert.NotEmpty(t, validationErr.Fields)
		assert.Contains(t, validationErr.Fields, "Title")
		assert.Contains(t, validationErr.Fields, "Email")
		assert.Contains(t, validationErr.Fields, "Postcode")
		assert.Contains(t, validationErr.Fields, "Bedrooms")
	})
}

func TestValidationError_Error(t *testing.T) {
	err := &ValidationError{
		Message: "Test validation error",
		Fields: map[string]string{
			"field1": "error1",
		},
	}

	assert.Equal(t, "Test validation error", err.Error())
}

func TestIsValidationError(t *testing.T) {
	t.Run("is validation error", func(t *testing.T) {
		err := &ValidationError{
			Message: "test",
			Fields:  map[string]string{},
		}

		assert.True(t, IsValidationError(err))
	})

	t.Run("is not validation error", func(t *testing.T) {
		err := assert.AnError

		assert.False(t, IsValidationError(err))
	})
}

func TestGetValidationFields(t *testing.T) {
	t.Run("gets fields from validation error", func(t *testing.T) {
		fields := map[string]string{
			"field1": "error1",
			"field2": "error2",
		}
		err := &ValidationError{
			Message: "test",
			Fields:  fields,
		}

		extracted := GetValidationFields(err)
		assert.Equal(t, fields, extracted)
	})

	t.Run("returns nil for non-validation error", func(t *testing.T) {
		err := assert.AnError

		extracted := GetValidationFields(err)
		assert.Nil(t, extracted)
	})
}
