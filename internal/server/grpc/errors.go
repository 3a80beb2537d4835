package grpc

import (
	"errors"

	"github.com/dmitrijs2005/timevault/internal/common"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

var errorCodes = []struct {
	err  error
	code codes.Code
}{
	{common.ErrorNotFound, codes.NotFound},
	{common.ErrorAlreadyExists, codes.AlreadyExists},
	{common.ErrorUnauthorized, codes.PermissionDenied},
	{common.ErrInvalidAccountBinding, codes.InvalidArgument},
	{common.ErrMintMismatch, codes.InvalidArgument},
	{common.ErrInvalidAmount, codes.InvalidArgument},
	{common.ErrOverflow, codes.InvalidArgument},
	{common.ErrLockNotExpired, codes.FailedPrecondition},
	{common.ErrTransferFailed, codes.FailedPrecondition},
	{common.ErrInvalidSignature, codes.Unauthenticated},
	{common.ErrLoginExpired, codes.Unauthenticated},
	{common.ErrLoginReplayed, codes.Unauthenticated},
	{common.ErrRefreshTokenExpired, codes.Unauthenticated},
	{common.ErrInvalidToken, codes.Unauthenticated},
}

// toStatus maps a service error to a gRPC status. Known errors keep their
// text so clients can map them back; anything else becomes Internal.
func toStatus(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}
	for _, e := range errorCodes {
		if errors.Is(err, e.err) {
			return status.Error(e.code, err.Error())
		}
	}
	return status.Error(codes.Internal, common.ErrorInternal.Error())
}
