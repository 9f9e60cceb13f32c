package client

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/parkdesk/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var (
	ErrUnavailable = errors.New("server unavailable")
	ErrNotLoggedIn = errors.New("not logged in")
)

// mapError turns a status error back into the sentinel the server started
// from, keeping the server's message.
func mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return err
	}

	var sentinel error
	switch st.Code() {
	case codes.NotFound:
		sentinel = common.ErrorNotFound
	case codes.InvalidArgument:
		sentinel = common.ErrorValidation
	case codes.AlreadyExists, codes.FailedPrecondition:
		sentinel = common.ErrorConflict
	case codes.PermissionDenied:
		sentinel = common.ErrorPermissionDenied
	case codes.Unauthenticated:
		sentinel = common.ErrorUnauthorized
	case codes.ResourceExhausted:
		return common.ErrTooManyAttempts
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	default:
		return fmt.Errorf("%w: %s", common.ErrorInternal, st.Message())
	}

	if st.Message() == "" || st.Message() == sentinel.Error() {
		return sentinel
	}
	return fmt.Errorf("%w: %s", sentinel, st.Message())
}
