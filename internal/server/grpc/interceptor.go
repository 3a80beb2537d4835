package grpc

import (
	"context"
	"errors"
	"time"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/common"
	"github.com/dmitrijs2005/timevault/internal/logging"
	pb "github.com/dmitrijs2005/timevault/internal/proto"
	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type ctxKey string

const identityKey ctxKey = "identity"

// publicMethods can be called without an access token.
var publicMethods = map[string]bool{
	pb.MethodPing:         true,
	pb.MethodLogin:        true,
	pb.MethodRefreshToken: true,
}

// IdentityFromContext returns the identity put in ctx by the access token
// interceptor.
func IdentityFromContext(ctx context.Context) (address.Address, bool) {
	id, ok := ctx.Value(identityKey).(address.Address)
	return id, ok
}

// newRequestID is a seam for tests.
var newRequestID = uuid.NewString

// requestLogInterceptor tags every log line of a call with a request id and
// the method name, and logs how the call ended.
func (s *GRPCServer) requestLogInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	ctx = logging.ContextWith(ctx, "request_id", newRequestID(), "method", info.FullMethod)
	started := time.Now()

	resp, err := handler(ctx, req)

	code := status.Code(err)
	if code == codes.Internal || code == codes.Unknown {
		s.logger.Error(ctx, "request failed", "code", code.String(), "elapsed", time.Since(started))
	} else {
		s.logger.Debug(ctx, "request served", "code", code.String(), "elapsed", time.Since(started))
	}
	return resp, err
}

func (s *GRPCServer) accessTokenInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {

	if publicMethods[info.FullMethod] {
		return handler(ctx, req)
	}

	var accessToken string
	if md, ok := metadata.FromIncomingContext(ctx); ok {
		values := md.Get(common.AccessTokenHeaderName)
		if len(values) > 0 {
			accessToken = values[0]
		}
	}
	if len(accessToken) == 0 {
		return nil, status.Error(codes.Unauthenticated, "missing token")
	}

	identity, err := s.auth.Identity(accessToken)
	if err != nil {
		if errors.Is(err, common.ErrTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrTokenExpired.Error())
		}
		return nil, status.Error(codes.Unauthenticated, common.ErrInvalidToken.Error())
	}

	ctx = context.WithValue(ctx, identityKey, identity)

	return handler(ctx, req)
}

// caller returns the authenticated identity or Unauthenticated.
func caller(ctx context.Context) (address.Address, error) {
	id, ok := IdentityFromContext(ctx)
	if !ok {
		return address.Zero, status.Error(codes.Unauthenticated, "missing token")
	}
	return id, nil
}
