package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// toStatus maps a domain error onto a gRPC status carrying its human message.
// Errors without a known sentinel are logged and reported as Internal.
func (s *GRPCServer) toStatus(ctx context.Context, err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	var code codes.Code
	switch {
	case errors.Is(err, common.ErrorNotFound):
		code = codes.NotFound
	case errors.Is(err, common.ErrorValidation):
		code = codes.InvalidArgument
	case errors.Is(err, common.ErrorConflict):
		code = codes.AlreadyExists
	case errors.Is(err, common.ErrorPermissionDenied):
		code = codes.PermissionDenied
	case errors.Is(err, common.ErrorUnauthorized),
		errors.Is(err, common.ErrInvalidToken),
		errors.Is(err, common.ErrTokenExpired):
		code = codes.Unauthenticated
	case errors.Is(err, common.ErrTooManyAttempts):
		code = codes.ResourceExhausted
	case errors.Is(err, context.Canceled):
		code = codes.Canceled
	case errors.Is(err, context.DeadlineExceeded):
		code = codes.DeadlineExceeded
	default:
		s.logger.Error(ctx, "request failed", "error", err.Error())
		return status.Error(codes.Internal, "internal error")
	}

	return status.Error(code, common.Message(err))
}
