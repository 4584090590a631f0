package validation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

type testAddress struct {
	City string `json:"city" validate:"required"`
}

type testForm struct {
	Name    string      `json:"name" validate:"required"`
	Email   string      `json:"email" validate:"required,email"`
	Phone   string      `json:"phone" validate:"omitempty,phone"`
	Status  string      `json:"status" validate:"omitempty,oneof=ACTIVE INACTIVE"`
	Address testAddress `json:"address"`
}

func TestStruct_Valid(t *testing.T) {
	errs := Struct(testForm{
		Name:    "Giulia",
		Email:   "giulia@example.com",
		Phone:   "+39 055 123 4567",
		Status:  "ACTIVE",
		Address: testAddress{City: "Firenze"},
	})
	assert.Nil(t, errs)
}

func TestStruct_FieldErrors(t *testing.T) {
	errs := Struct(testForm{
		Email:  "not-an-email",
		Phone:  "abc",
		Status: "GONE",
	})

	assert.Equal(t, FieldErrors{
		"name":         "this field is required",
		"email":        "must be a valid email address",
		"phone":        "must be a valid phone number",
		"status":       "must be one of: ACTIVE INACTIVE",
		"address.city": "this field is required",
	}, errs)
}

func TestIsPhone(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"+39 055 123 4567", true},
		{"(555) 010-9999", false},
		{"5550109999", true},
		{"12345", false},
		{"phone", false},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, IsPhone(tt.in))
		})
	}
}

func TestIsEmail(t *testing.T) {
	assert.True(t, IsEmail("a@b.co"))
	assert.False(t, IsEmail("a@"))
	assert.False(t, IsEmail(""))
}

func TestFieldErrors_Error(t *testing.T) {
	err := error(FieldErrors{"email": "must be a valid email address", "city": "this field is required"})
	assert.Equal(t, "validation failed: city: this field is required; email: must be a valid email address", err.Error())
}
