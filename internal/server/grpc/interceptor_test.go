package grpc

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/common"
	"github.com/dmitrijs2005/timevault/internal/logging"
	pb "github.com/dmitrijs2005/timevault/internal/proto"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

func tokenCtx(token string) context.Context {
	md := metadata.New(map[string]string{common.AccessTokenHeaderName: token})
	return metadata.NewIncomingContext(context.Background(), md)
}

func TestInterceptor_PublicMethodsAllowWithoutToken(t *testing.T) {
	s := newServer(&fakeAuth{}, &fakeLedger{}, &fakeVaults{})

	for _, m := range []string{pb.MethodPing, pb.MethodLogin, pb.MethodRefreshToken} {
		handlerCalled := false
		h := func(ctx context.Context, req interface{}) (interface{}, error) {
			handlerCalled = true
			return "ok", nil
		}

		resp, err := s.accessTokenInterceptor(context.Background(), nil, &grpc.UnaryServerInfo{FullMethod: m}, h)
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", m, err)
		}
		if !handlerCalled || resp != "ok" {
			t.Fatalf("%s: handler not called", m)
		}
	}
}

func TestInterceptor_MissingToken(t *testing.T) {
	s := newServer(&fakeAuth{}, &fakeLedger{}, &fakeVaults{})
	info := &grpc.UnaryServerInfo{FullMethod: pb.MethodDeposit}

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called when token missing")
		return nil, nil
	}

	_, err := s.accessTokenInterceptor(context.Background(), nil, info, h)
	if status.Code(err) != codes.Unauthenticated {
		t.Fatalf("expected Unauthenticated, got %v", status.Code(err))
	}
	if status.Convert(err).Message() != "missing token" {
		t.Fatalf("expected 'missing token', got %q", status.Convert(err).Message())
	}
}

func TestInterceptor_InvalidAndExpiredToken(t *testing.T) {
	s := newServer(&fakeAuth{expired: map[string]bool{"old": true}}, &fakeLedger{}, &fakeVaults{})
	info := &grpc.UnaryServerInfo{FullMethod: pb.MethodWithdraw}

	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		t.Fatal("handler should not be called")
		return nil, nil
	}

	tests := []struct {
		token string
		msg   string
	}{
		{"not-a-valid-jwt", common.ErrInvalidToken.Error()},
		{"old", common.ErrTokenExpired.Error()},
	}

	for _, tt := range tests {
		_, err := s.accessTokenInterceptor(tokenCtx(tt.token), nil, info, h)
		if status.Code(err) != codes.Unauthenticated {
			t.Fatalf("%s: expected Unauthenticated, got %v", tt.token, status.Code(err))
		}
		if got := status.Convert(err).Message(); got != tt.msg {
			t.Fatalf("%s: expected %q, got %q", tt.token, tt.msg, got)
		}
	}
}

func TestInterceptor_ValidToken_SetsIdentity(t *testing.T) {
	id := addr(7)
	s := newServer(&fakeAuth{tokens: map[string]address.Address{"good": id}}, &fakeLedger{}, &fakeVaults{})
	info := &grpc.UnaryServerInfo{FullMethod: pb.MethodGetVault}

	var got any
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		got, _ = IdentityFromContext(ctx)
		return "ok", nil
	}

	resp, err := s.accessTokenInterceptor(tokenCtx("good"), nil, info, h)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp != "ok" {
		t.Fatalf("unexpected handler resp: %v", resp)
	}
	if got != id {
		t.Fatalf("identity not propagated in context: got %v want %v", got, id)
	}
}

func TestRequestLogInterceptor_TagsContext(t *testing.T) {
	var buf bytes.Buffer
	s := NewGRPCServer("127.0.0.1:0", logging.NewJSONLogger(&buf, "debug"), &fakeAuth{}, &fakeLedger{}, &fakeVaults{}, nil, nil)

	orig := newRequestID
	newRequestID = func() string { return "req-1" }
	t.Cleanup(func() { newRequestID = orig })

	info := &grpc.UnaryServerInfo{FullMethod: pb.MethodDeposit}
	h := func(ctx context.Context, req interface{}) (interface{}, error) {
		s.logger.Info(ctx, "inside handler")
		return "ok", nil
	}

	resp, err := s.requestLogInterceptor(context.Background(), nil, info, h)
	require.NoError(t, err)
	assert.Equal(t, "ok", resp)

	out := buf.String()
	assert.Equal(t, 2, strings.Count(out, `"request_id":"req-1"`), out)
	assert.Contains(t, out, `"method":"`+pb.MethodDeposit+`"`)
	assert.Contains(t, out, `"msg":"request served"`)
	assert.Contains(t, out, `"code":"OK"`)
}

func TestRequestLogInterceptor_InternalErrorsLoggedAsError(t *testing.T) {
	var buf bytes.Buffer
	s := NewGRPCServer("127.0.0.1:0", logging.NewJSONLogger(&buf, "info"), &fakeAuth{}, &fakeLedger{}, &fakeVaults{}, nil, nil)
	info := &grpc.UnaryServerInfo{FullMethod: pb.MethodWithdraw}

	tests := []struct {
		name    string
		err     error
		logged  bool
		message string
	}{
		{"internal", status.Error(codes.Internal, "boom"), true, "request failed"},
		{"rejected", status.Error(codes.FailedPrecondition, "lock not expired"), false, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			buf.Reset()
			h := func(ctx context.Context, req interface{}) (interface{}, error) { return nil, tt.err }

			_, err := s.requestLogInterceptor(context.Background(), nil, info, h)
			assert.Equal(t, status.Code(tt.err), status.Code(err))
			if tt.logged {
				assert.Contains(t, buf.String(), `"msg":"`+tt.message+`"`)
				assert.Contains(t, buf.String(), `"level":"ERROR"`)
			} else {
				assert.Empty(t, buf.String())
			}
		})
	}
}
