package middleware

import (
	"errors"
	"testing"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type testLine struct {
	ProductID string          `json:"product_id" validate:"required,uuid"`
	Quantity  decimal.Decimal `json:"quantity" validate:"decimal_gt0"`
}

type testOrder struct {
	Week  string     `json:"delivery_week" validate:"iso_week"`
	Lines []testLine `json:"lines" validate:"required,min=1,dive"`
	Note  *string    `json:"note" validate:"omitempty,max=5"`
}

func newTestValidator() *validator.Validate {
	v := validator.New()
	RegisterValidations(v)
	return v
}

func TestValidation_Valid(t *testing.T) {
	v := newTestValidator()
	err := v.Struct(testOrder{
		Week:  "2026-W07",
		Lines: []testLine{{ProductID: "7d0c8d4e-5b11-4f57-9d52-0b9b0f3b5a11", Quantity: decimal.NewFromInt(3)}},
	})
	assert.NoError(t, err)
}

func TestValidationDetails(t *testing.T) {
	v := newTestValidator()
	note := "too long"
	err := v.Struct(testOrder{
		Week:  "2026-07",
		Lines: []testLine{{ProductID: "x", Quantity: decimal.Zero}},
		Note:  &note,
	})
	require.Error(t, err)

	got := map[string]string{}
	for _, d := range ValidationDetails(err) {
		got[d.Field] = d.Message
	}
	assert.Equal(t, map[string]string{
		"delivery_week":        "Must be an ISO week such as 2026-W07",
		"lines[0].product_id": "Invalid UUID format",
		"lines[0].quantity":   "Must be greater than zero",
		"note":                "Must be at most 5 characters",
	}, got)
}

func TestValidationDetails_EmptyLines(t *testing.T) {
	v := newTestValidator()
	err := v.Struct(testOrder{Week: "2026-W07", Lines: []testLine{}})
	require.Error(t, err)

	details := ValidationDetails(err)
	require.Len(t, details, 1)
	assert.Equal(t, "lines", details[0].Field)
	assert.Equal(t, "Must contain at least 1 items", details[0].Message)
}

func TestValidationDetails_NotValidationError(t *testing.T) {
	assert.Nil(t, ValidationDetails(errors.New("boom")))
	assert.Nil(t, ValidationDetails(nil))
}

func TestValidation_ISOWeekIsAnchored(t *testing.T) {
	v := newTestValidator()
	line := []testLine{{ProductID: "7d0c8d4e-5b11-4f57-9d52-0b9b0f3b5a11", Quantity: decimal.NewFromInt(1)}}
	for _, week := range []string{"2026-W421", "2026-W42junk", "2026-W4"} {
		err := v.Struct(testOrder{Week: week, Lines: line})
		assert.Error(t, err, week)
	}
}
