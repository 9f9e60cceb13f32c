// Package client is the gRPC client of the ParkDesk server.
//
// GRPCClient dials the server with the JSON content subtype, attaches the
// access token obtained by Login to every call and maps status codes back
// to the sentinel errors of package common, so callers match them with
// errors.Is exactly as the server-side services do. ErrUnavailable reports
// an unreachable server.
package client
