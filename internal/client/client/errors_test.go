package client

import (
	"errors"
	"testing"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"github.com/stretchr/testify/assert"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

func TestMapError(t *testing.T) {
	tests := []struct {
		name string
		in   error
		is   error
		msg  string
	}{
		{"not found", status.Error(codes.NotFound, "ticket T1"), common.ErrorNotFound, "not found: ticket T1"},
		{"validation", status.Error(codes.InvalidArgument, "bad plate"), common.ErrorValidation, "validation error: bad plate"},
		{"exists", status.Error(codes.AlreadyExists, "plate already parked: X"), common.ErrorConflict, "conflict: plate already parked: X"},
		{"precondition", status.Error(codes.FailedPrecondition, "busy"), common.ErrorConflict, "conflict: busy"},
		{"denied", status.Error(codes.PermissionDenied, "permission denied"), common.ErrorPermissionDenied, "permission denied"},
		{"unauthenticated", status.Error(codes.Unauthenticated, "missing token"), common.ErrorUnauthorized, "unauthorized: missing token"},
		{"throttled", status.Error(codes.ResourceExhausted, "too many login attempts"), common.ErrTooManyAttempts, "too many login attempts"},
		{"unavailable", status.Error(codes.Unavailable, "connection refused"), ErrUnavailable, "server unavailable"},
		{"deadline", status.Error(codes.DeadlineExceeded, "slow"), ErrUnavailable, "server unavailable"},
		{"internal", status.Error(codes.Internal, "internal error"), common.ErrorInternal, "internal error: internal error"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := mapError(tt.in)
			assert.ErrorIs(t, err, tt.is)
			assert.Equal(t, tt.msg, err.Error())
		})
	}

	assert.NoError(t, mapError(nil))
	plain := errors.New("plain")
	assert.Same(t, plain, mapError(plain))
}
