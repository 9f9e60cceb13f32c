package models

import "time"

type Barcode struct {
	ID        string    `json:"id"`
	Code      string    `json:"code"`
	Label     *string   `json:"label,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

// ValidBarcode reports whether code is 1..24 ASCII letters or digits.
func ValidBarcode(code string) bool {
	if len(code) == 0 || len(code) > 24 {
		return false
	}
	for i := 0; i < len(code); i++ {
		c := code[i]
		if !(c >= '0' && c <= '9' || c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z') {
			return false
		}
	}
	return true
}
