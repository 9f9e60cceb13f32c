package models

import "time"

type ReportType string

const (
	ReportTransactions            ReportType = "transactions"
	ReportCompletedVehicles       ReportType = "completed_vehicles"
	ReportVehicleExits            ReportType = "vehicle_exits"
	ReportShiftClosures           ReportType = "shift_closures"
	ReportTransactionsWithVehicle ReportType = "transactions_with_vehicle"
	ReportDebtors                 ReportType = "debtors"
)

var ReportTypes = []ReportType{
	ReportTransactions, ReportCompletedVehicles, ReportVehicleExits,
	ReportShiftClosures, ReportTransactionsWithVehicle, ReportDebtors,
}

type ReportColumn struct {
	Key   string `json:"key"`
	Label string `json:"label"`
}

// ReportFilter bounds a report by day. DateFrom and DateTo are inclusive
// UTC days; the query runs up to midnight after DateTo.
type ReportFilter struct {
	DateFrom      time.Time     `json:"dateFrom"`
	DateTo        time.Time     `json:"dateTo"`
	PaymentMethod PaymentMethod `json:"paymentMethod,omitempty"`
	VehicleType   VehicleType   `json:"vehicleType,omitempty"`
}

// ReportData is a projection ready for rendering. Row values are strings,
// numbers or nil, keyed by column key.
type ReportData struct {
	Columns []ReportColumn   `json:"columns"`
	Rows    []map[string]any `json:"rows"`
}
