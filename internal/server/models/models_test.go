package models

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestParseVehicleType(t *testing.T) {
	v, ok := ParseVehicleType("  Truck ")
	assert.True(t, ok)
	assert.Equal(t, Truck, v)

	_, ok = ParseVehicleType("spaceship")
	assert.False(t, ok)

	assert.False(t, Bicycle.HasPlate())
	assert.True(t, Motorcycle.HasPlate())
}

func TestParsePaymentMethod(t *testing.T) {
	assert.Equal(t, Card, ParsePaymentMethod("CARD"))
	assert.Equal(t, Transfer, ParsePaymentMethod(" transfer "))
	assert.Equal(t, Cash, ParsePaymentMethod("bitcoin"))
	assert.Equal(t, Cash, ParsePaymentMethod(""))
}

func TestBreakdown(t *testing.T) {
	var b Breakdown
	b.Add(Cash, decimal.NewFromInt(10))
	b.Add(Card, decimal.NewFromInt(5))
	b.Add(Transfer, decimal.RequireFromString("2.5"))
	b.Add(PaymentMethod("other"), decimal.NewFromInt(1))
	assert.True(t, b.Cash.Equal(decimal.NewFromInt(11)))
	assert.True(t, b.Total().Equal(decimal.RequireFromString("18.5")))
}

func TestValidBarcode(t *testing.T) {
	assert.True(t, ValidBarcode("12345678"))
	assert.True(t, ValidBarcode("TK1767225600000"))
	assert.False(t, ValidBarcode(""))
	assert.False(t, ValidBarcode("has space"))
	assert.False(t, ValidBarcode("1234567890123456789012345"))
}

func TestFallbackRate(t *testing.T) {
	assert.True(t, FallbackRate(Truck).Equal(decimal.NewFromInt(80)))
	assert.True(t, FallbackRate(VehicleType("x")).Equal(decimal.NewFromInt(50)))
	assert.Equal(t, "default_bicycle", DefaultTariffID(Bicycle))
	assert.Equal(t, "ABC123", NormalizePlate(" abc123 "))
}
