package models

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type VehicleType string

const (
	Car        VehicleType = "car"
	Motorcycle VehicleType = "motorcycle"
	Truck      VehicleType = "truck"
	Bicycle    VehicleType = "bicycle"
)

var VehicleTypes = []VehicleType{Car, Motorcycle, Truck, Bicycle}

// ParseVehicleType normalises s and reports whether it names a known type.
func ParseVehicleType(s string) (VehicleType, bool) {
	t := VehicleType(strings.ToLower(strings.TrimSpace(s)))
	for _, v := range VehicleTypes {
		if v == t {
			return t, true
		}
	}
	return "", false
}

// HasPlate reports whether vehicles of this type must carry a plate.
func (t VehicleType) HasPlate() bool {
	return t != Bicycle
}

type SessionStatus string

const (
	StatusActive    SessionStatus = "active"
	StatusCompleted SessionStatus = "completed"
	StatusRemoved   SessionStatus = "removed"
)

// Vehicle is one parking session.
type Vehicle struct {
	ID           string           `json:"id"`
	TicketCode   string           `json:"ticketCode"`
	Plate        string           `json:"plate"`
	VehicleType  VehicleType      `json:"vehicleType"`
	Observations string           `json:"observations,omitempty"`
	EntryTime    time.Time        `json:"entryTime"`
	ExitTime     *time.Time       `json:"exitTime,omitempty"`
	Status       SessionStatus    `json:"status"`
	TotalAmount  *decimal.Decimal `json:"totalAmount,omitempty"`
	Debt         *decimal.Decimal `json:"debt,omitempty"`
	SpecialRate  *decimal.Decimal `json:"specialRate,omitempty"`
}

// NormalizePlate trims and uppercases a plate.
func NormalizePlate(p string) string {
	return strings.ToUpper(strings.TrimSpace(p))
}

// Debtor aggregates the outstanding debt of one plate.
type Debtor struct {
	Plate            string          `json:"plate"`
	TotalDebt        decimal.Decimal `json:"totalDebt"`
	OldestExitTime   *time.Time      `json:"oldestExitTime,omitempty"`
	SessionsWithDebt int             `json:"sessionsWithDebt"`
}

// PlateConflict is a plate seen under more than one vehicle type.
type PlateConflict struct {
	Plate        string        `json:"plate"`
	VehicleTypes []VehicleType `json:"vehicleTypes"`
	Sessions     []Vehicle     `json:"sessions"`
}

// VehicleList is one page of sessions plus the total matching count.
type VehicleList struct {
	Items []Vehicle `json:"items"`
	Total int       `json:"total"`
}

// DebtDetail is one session still carrying debt.
type DebtDetail struct {
	VehicleID string          `json:"vehicleId"`
	Plate     string          `json:"plate"`
	Debt      decimal.Decimal `json:"debt"`
	EntryTime time.Time       `json:"entryTime"`
	ExitTime  *time.Time      `json:"exitTime,omitempty"`
}
