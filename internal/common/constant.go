// Package common contains shared constants, sentinel errors and small helpers
// used across ParkDesk server and client components.
package common

// AccessTokenHeaderName is the gRPC metadata key used to carry the
// access token on outbound requests.
const AccessTokenHeaderName = "access_token"

// TimestampLayout is the fixed-width UTC layout used for every stored
// timestamp. Lexicographic order of formatted values equals time order.
const TimestampLayout = "2006-01-02T15:04:05.000000Z"

// ID prefixes for generated identifiers.
const (
	PrefixVehicle     = "VH"
	PrefixTransaction = "TX"
	PrefixClosure     = "SC"
	PrefixTariff      = "CT"
	PrefixUser        = "US"
	PrefixBarcode     = "BC"
)

// IDLength is the total length of a generated identifier including its prefix.
const IDLength = 25
