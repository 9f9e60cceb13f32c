package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Breakdown is a per-method sum of transactions.
type Breakdown struct {
	Cash     decimal.Decimal `json:"cash"`
	Card     decimal.Decimal `json:"card"`
	Transfer decimal.Decimal `json:"transfer"`
}

func (b Breakdown) Total() decimal.Decimal {
	return b.Cash.Add(b.Card).Add(b.Transfer)
}

// Add accumulates amount into the method's bucket.
func (b *Breakdown) Add(m PaymentMethod, amount decimal.Decimal) {
	switch m {
	case Card:
		b.Card = b.Card.Add(amount)
	case Transfer:
		b.Transfer = b.Transfer.Add(amount)
	default:
		b.Cash = b.Cash.Add(amount)
	}
}

// Treasury is the till state for the current UTC day.
type Treasury struct {
	ExpectedCash      decimal.Decimal `json:"expectedCash"`
	ActualCash        decimal.Decimal `json:"actualCash"`
	Discrepancy       decimal.Decimal `json:"discrepancy"`
	TotalTransactions int             `json:"totalTransactions"`
	Breakdown         Breakdown       `json:"breakdown"`
}

// ShiftClosure is an immutable snapshot of one closed shift.
type ShiftClosure struct {
	ID                string           `json:"id"`
	ClosedAt          time.Time        `json:"closedAt"`
	ExpectedTotal     decimal.Decimal  `json:"expectedTotal"`
	CashTotal         decimal.Decimal  `json:"cashTotal"`
	CardTotal         decimal.Decimal  `json:"cardTotal"`
	TransferTotal     decimal.Decimal  `json:"transferTotal"`
	ArqueoCash        *decimal.Decimal `json:"arqueoCash,omitempty"`
	Discrepancy       decimal.Decimal  `json:"discrepancy"`
	TotalTransactions int              `json:"totalTransactions"`
	Notes             *string          `json:"notes,omitempty"`
}

// DailyMetrics feeds the dashboard.
type DailyMetrics struct {
	TotalVehicles      int             `json:"totalVehicles"`
	ActiveVehicles     int             `json:"activeVehicles"`
	CompletedToday     int             `json:"completedToday"`
	OccupancyRate      float64         `json:"occupancyRate"`
	TotalRevenue       decimal.Decimal `json:"totalRevenue"`
	AverageTicket      decimal.Decimal `json:"averageTicket"`
	AverageStayMinutes float64         `json:"averageStayMinutes"`
	TurnoverRate       float64         `json:"turnoverRate"`
}
