package models

// DBSnapshot is the developer view of the store: row counts and the newest
// sessions and payments.
type DBSnapshot struct {
	VehiclesCount     int           `json:"vehiclesCount"`
	TransactionsCount int           `json:"transactionsCount"`
	LastVehicles      []Vehicle     `json:"lastVehicles"`
	LastTransactions  []Transaction `json:"lastTransactions"`
}
