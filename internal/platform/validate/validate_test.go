// Copyright (c) 2026 Sakan. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sakan/internal/platform/apperr"
	"github.com/taibuivan/sakan/internal/platform/validate"
	"github.com/taibuivan/sakan/pkg/locale"
)

/*
TestValidator_Required tests the mandatory field validation logic.
*/
func TestValidator_Required(t *testing.T) {
	tests := []struct {
		name     string
		field    string
		value    string
		hasError bool
	}{
		{"valid_string", "name", "Sakan", false},
		{"empty_string", "name", "", true},
		{"whitespace_only", "name", "   ", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Required(tt.field, tt.value)

			if tt.hasError {
				assert.True(t, v.HasErrors())
				err := v.Err()
				require.NotNil(t, err)

				ae := apperr.As(err)
				require.NotNil(t, ae)
				assert.Equal(t, apperr.CodeValidation, ae.Code)
				assert.Equal(t, tt.field, ae.Details[0].Field)
			} else {
				assert.False(t, v.HasErrors())
				assert.Nil(t, v.Err())
			}
		})
	}
}

/*
TestValidator_Phone checks the Egyptian mobile number rule.
*/
func TestValidator_Phone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		isValid bool
	}{
		{"local", "01012345678", true},
		{"international", "+201012345678", true},
		{"too_short", "0101234567", false},
		{"too_long", "010123456789", false},
		{"landline_prefix", "02012345678", false},
		{"letters", "01012345abc", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Phone("phone", tt.phone)
			assert.Equal(t, !tt.isValid, v.HasErrors())
		})
	}
}

/*
TestValidator_OTP checks the six-digit code rule.
*/
func TestValidator_OTP(t *testing.T) {
	assert.False(t, (&validate.Validator{}).OTP("code", "123456").HasErrors())
	assert.True(t, (&validate.Validator{}).OTP("code", "12345").HasErrors())
	assert.True(t, (&validate.Validator{}).OTP("code", "12a456").HasErrors())
}

/*
TestValidator_Email checks the email format validation rule.
*/
func TestValidator_Email(t *testing.T) {
	tests := []struct {
		name    string
		email   string
		isValid bool
	}{
		{"valid_email", "test@example.com", true},
		{"invalid_format", "invalid-email", false},
		{"missing_domain", "test@", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			v.Email("email", tt.email)

			if tt.isValid {
				assert.False(t, v.HasErrors())
			} else {
				assert.True(t, v.HasErrors())
			}
		})
	}
}

/*
TestValidator_Text checks that a multi-language value needs its Arabic translation.
*/
func TestValidator_Text(t *testing.T) {
	english := "Studio"

	v := &validate.Validator{}
	v.Text("apartmentType", locale.Text{Ar: "استوديو"})
	assert.False(t, v.HasErrors())

	v = &validate.Validator{}
	v.Text("apartmentType", locale.Text{En: &english})
	require.True(t, v.HasErrors())
	assert.Equal(t, "apartmentType.ar", apperr.As(v.Err()).Details[0].Field)
}

/*
TestValidator_Chain tests the fluent API (chaining multiple rules).
*/
func TestValidator_Chain(t *testing.T) {
	v := &validate.Validator{}

	// Multi-rule validation
	err := v.
		Required("name", "Sakan").
		MinLen("name", "Sakan", 3).
		MaxLen("name", "Sakan", 10).
		NonNegative("rate", 1500).
		MinItems("images", 2, 1).
		Email("email", "owner@sakan.app").
		Err()

	assert.NoError(t, err)
	assert.False(t, v.HasErrors())
}

/*
TestValidator_Chain_Failure tests error accumulation in the chain.
*/
func TestValidator_Chain_Failure(t *testing.T) {
	v := &validate.Validator{}

	err := v.
		Required("name", "").           // Fails
		NonNegative("insurance", -1).   // Fails
		MinItems("adBedrooms", 0, 1).   // Fails
		Email("email", "not-an-email"). // Fails
		Err()

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)

	// Should accumulate all 4 errors
	assert.Len(t, ae.Details, 4)
}
