package validation

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestValidators(t *testing.T) {
	v := Violations{}
	Required("name", "  ", v)
	RequiredID("client_id", 0, v)
	PositiveInt("quantity", 0, v)
	NonNegativeInt("stock", -1, v)
	PositiveDecimal("price", decimal.Zero, v)
	NonNegativeDecimal("amount", decimal.RequireFromString("-0.01"), v)
	OneOf("method", "CARD", []string{"CASH", "CHECK"}, v)

	assert.Equal(t, Violations{
		"name":      "required",
		"client_id": "required",
		"quantity":  "must_be_positive",
		"stock":     "must_not_be_negative",
		"price":     "must_be_positive",
		"amount":    "must_not_be_negative",
		"method":    "invalid_choice",
	}, v)
}

func TestValidators_Pass(t *testing.T) {
	v := Violations{}
	Required("name", "Sunrise Café", v)
	RequiredID("client_id", 1, v)
	PositiveInt("quantity", 5, v)
	NonNegativeInt("stock", 0, v)
	PositiveDecimal("price", decimal.RequireFromString("8.00"), v)
	NonNegativeDecimal("amount", decimal.Zero, v)
	OneOf("method", "", []string{"CASH"}, v)
	OneOf("method", "CASH", []string{"CASH"}, v)
	assert.True(t, v.Empty())
}

func TestAddKeepsFirst(t *testing.T) {
	v := Violations{}
	Required("name", "", v)
	v.Add("name", "too_long")
	assert.Equal(t, "required", v["name"])
}

func TestViolationsErr(t *testing.T) {
	assert.NoError(t, Violations{}.Err())

	v := Violations{"quantity": "must_be_positive", "client_id": "required"}
	err := v.Err()
	var verr *Error
	assert.ErrorAs(t, err, &verr)
	assert.Equal(t, v, verr.Violations)
	assert.Equal(t, "validation failed: client_id=required, quantity=must_be_positive", err.Error())
}
