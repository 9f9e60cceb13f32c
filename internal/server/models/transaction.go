package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type PaymentMethod string

const (
	Cash     PaymentMethod = "cash"
	Card     PaymentMethod = "card"
	Transfer PaymentMethod = "transfer"
)

// ParsePaymentMethod lowercases s; anything unrecognised is cash.
func ParsePaymentMethod(s string) PaymentMethod {
	switch m := PaymentMethod(strings.ToLower(strings.TrimSpace(s))); m {
	case Cash, Card, Transfer:
		return m
	default:
		return Cash
	}
}

// Transaction is the payment recorded by one exit.
type Transaction struct {
	ID        string          `json:"id"`
	VehicleID string          `json:"vehicleId"`
	Amount    decimal.Decimal `json:"amount"`
	Method    PaymentMethod   `json:"method"`
	CreatedAt time.Time       `json:"createdAt"`
}
