package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type RateUnit string

const (
	PerHour   RateUnit = "hour"
	PerMinute RateUnit = "minute"
)

// Tariff is a custom rate. An empty PlateOrRef makes it the default rate of
// its vehicle type.
type Tariff struct {
	ID                  string          `json:"id"`
	VehicleType         VehicleType     `json:"vehicleType"`
	PlateOrRef          string          `json:"plateOrRef"`
	Name                string          `json:"name,omitempty"`
	Description         string          `json:"description,omitempty"`
	Amount              decimal.Decimal `json:"amount"`
	RateUnit            RateUnit        `json:"rateUnit"`
	RateDurationHours   int             `json:"rateDurationHours"`
	RateDurationMinutes int             `json:"rateDurationMinutes"`
	CreatedAt           time.Time       `json:"createdAt"`
}

// FallbackRates are the built-in hourly rates used when no default tariff
// row exists for a type.
var FallbackRates = map[VehicleType]decimal.Decimal{
	Car:        decimal.NewFromInt(50),
	Motorcycle: decimal.NewFromInt(30),
	Truck:      decimal.NewFromInt(80),
	Bicycle:    decimal.NewFromInt(15),
}

// FallbackRate returns the built-in rate for t, or the car rate for an
// unknown type.
func FallbackRate(t VehicleType) decimal.Decimal {
	if r, ok := FallbackRates[t]; ok {
		return r
	}
	return FallbackRates[Car]
}

// DefaultTariffID is the id of the seeded default tariff row of a type.
func DefaultTariffID(t VehicleType) string {
	return "default_" + string(t)
}
