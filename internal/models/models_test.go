package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestNormalizePhone(t *testing.T) {
	cases := map[string]string{
		"+254 712-345678": "+254712345678",
		"0712 345 678":    "0712345678",
		"(0712)345678":    "0712345678",
		"+254712345678":   "+254712345678",
		"0712+345678":     "0712345678", // plus only allowed as prefix
		"":                "",
	}
	for input, want := range cases {
		assert.Equal(t, want, NormalizePhone(input), input)
	}
}

func TestAccountStatusFor(t *testing.T) {
	assert.Equal(t, AccountStatusCredit, AccountStatusFor(decimal.NewFromInt(500)))
	assert.Equal(t, AccountStatusArrears, AccountStatusFor(decimal.NewFromInt(-500)))
	assert.Equal(t, AccountStatusCleared, AccountStatusFor(decimal.Zero))
}

func TestLeaseRentDueDay(t *testing.T) {
	assert.Equal(t, 10, (&Lease{DueDay: 10}).RentDueDay(5))
	assert.Equal(t, 5, (&Lease{DueDay: 0}).RentDueDay(5))
	// Out-of-range overrides fall back to the default
	assert.Equal(t, 5, (&Lease{DueDay: 31}).RentDueDay(5))
}

func TestValidPaymentMethod(t *testing.T) {
	assert.True(t, ValidPaymentMethod(PaymentMethodMpesa))
	assert.True(t, ValidPaymentMethod(PaymentMethodCash))
	assert.False(t, ValidPaymentMethod("barter"))
	assert.False(t, ValidPaymentMethod(""))
}
