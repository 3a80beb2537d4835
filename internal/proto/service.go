package proto

import (
	"context"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// ServiceName is the fully qualified gRPC service name.
const ServiceName = "timevault.VaultService"

// Full method names, used by interceptors.
const (
	MethodPing         = "/" + ServiceName + "/Ping"
	MethodLogin        = "/" + ServiceName + "/Login"
	MethodRefreshToken = "/" + ServiceName + "/RefreshToken"
	MethodCreateMint   = "/" + ServiceName + "/CreateMint"
	MethodOpenAccount  = "/" + ServiceName + "/OpenAccount"
	MethodMintTo       = "/" + ServiceName + "/MintTo"
	MethodGetAccount   = "/" + ServiceName + "/GetAccount"
	MethodInitialize   = "/" + ServiceName + "/Initialize"
	MethodDeposit      = "/" + ServiceName + "/Deposit"
	MethodWithdraw     = "/" + ServiceName + "/Withdraw"
	MethodGetVault     = "/" + ServiceName + "/GetVault"
	MethodListReceipts = "/" + ServiceName + "/ListReceipts"
)

// VaultServiceServer is the server API of timevault.VaultService.
type VaultServiceServer interface {
	Ping(context.Context, *Empty) (*PingResponse, error)
	Login(context.Context, *LoginRequest) (*TokenResponse, error)
	RefreshToken(context.Context, *RefreshTokenRequest) (*TokenResponse, error)
	CreateMint(context.Context, *Empty) (*Mint, error)
	OpenAccount(context.Context, *MintRef) (*Account, error)
	MintTo(context.Context, *MintToRequest) (*Account, error)
	GetAccount(context.Context, *AccountRef) (*Account, error)
	Initialize(context.Context, *MintRef) (*Vault, error)
	Deposit(context.Context, *DepositRequest) (*Vault, error)
	Withdraw(context.Context, *WithdrawRequest) (*Vault, error)
	GetVault(context.Context, *Empty) (*Vault, error)
	ListReceipts(context.Context, *ListReceiptsRequest) (*ListReceiptsResponse, error)
}

// UnimplementedVaultServiceServer returns Unimplemented for every method.
// Embed it to stay forward compatible.
type UnimplementedVaultServiceServer struct{}

func (UnimplementedVaultServiceServer) Ping(context.Context, *Empty) (*PingResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Ping not implemented")
}
func (UnimplementedVaultServiceServer) Login(context.Context, *LoginRequest) (*TokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method Login not implemented")
}
func (UnimplementedVaultServiceServer) RefreshToken(context.Context, *RefreshTokenRequest) (*TokenResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method RefreshToken not implemented")
}
func (UnimplementedVaultServiceServer) CreateMint(context.Context, *Empty) (*Mint, error) {
	return nil, status.Error(codes.Unimplemented, "method CreateMint not implemented")
}
func (UnimplementedVaultServiceServer) OpenAccount(context.Context, *MintRef) (*Account, error) {
	return nil, status.Error(codes.Unimplemented, "method OpenAccount not implemented")
}
func (UnimplementedVaultServiceServer) MintTo(context.Context, *MintToRequest) (*Account, error) {
	return nil, status.Error(codes.Unimplemented, "method MintTo not implemented")
}
func (UnimplementedVaultServiceServer) GetAccount(context.Context, *AccountRef) (*Account, error) {
	return nil, status.Error(codes.Unimplemented, "method GetAccount not implemented")
}
func (UnimplementedVaultServiceServer) Initialize(context.Context, *MintRef) (*Vault, error) {
	return nil, status.Error(codes.Unimplemented, "method Initialize not implemented")
}
func (UnimplementedVaultServiceServer) Deposit(context.Context, *DepositRequest) (*Vault, error) {
	return nil, status.Error(codes.Unimplemented, "method Deposit not implemented")
}
func (UnimplementedVaultServiceServer) Withdraw(context.Context, *WithdrawRequest) (*Vault, error) {
	return nil, status.Error(codes.Unimplemented, "method Withdraw not implemented")
}
func (UnimplementedVaultServiceServer) GetVault(context.Context, *Empty) (*Vault, error) {
	return nil, status.Error(codes.Unimplemented, "method GetVault not implemented")
}
func (UnimplementedVaultServiceServer) ListReceipts(context.Context, *ListReceiptsRequest) (*ListReceiptsResponse, error) {
	return nil, status.Error(codes.Unimplemented, "method ListReceipts not implemented")
}

// RegisterVaultServiceServer registers srv on s.
func RegisterVaultServiceServer(s grpc.ServiceRegistrar, srv VaultServiceServer) {
	s.RegisterService(&VaultService_ServiceDesc, srv)
}

// unary builds a method handler for a request type Req.
func unary[Req any, PReq interface {
	*Req
	Message
}, Resp Message](fullMethod string, call func(VaultServiceServer, context.Context, PReq) (Resp, error)) func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
	return func(srv any, ctx context.Context, dec func(any) error, interceptor grpc.UnaryServerInterceptor) (any, error) {
		in := PReq(new(Req))
		if err := dec(in); err != nil {
			return nil, err
		}
		if interceptor == nil {
			return call(srv.(VaultServiceServer), ctx, in)
		}
		info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fullMethod}
		handler := func(ctx context.Context, req any) (any, error) {
			return call(srv.(VaultServiceServer), ctx, req.(PReq))
		}
		return interceptor(ctx, in, info, handler)
	}
}

// VaultService_ServiceDesc describes timevault.VaultService for grpc.Server.
var VaultService_ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*VaultServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Ping", Handler: unary(MethodPing, VaultServiceServer.Ping)},
		{MethodName: "Login", Handler: unary(MethodLogin, VaultServiceServer.Login)},
		{MethodName: "RefreshToken", Handler: unary(MethodRefreshToken, VaultServiceServer.RefreshToken)},
		{MethodName: "CreateMint", Handler: unary(MethodCreateMint, VaultServiceServer.CreateMint)},
		{MethodName: "OpenAccount", Handler: unary(MethodOpenAccount, VaultServiceServer.OpenAccount)},
		{MethodName: "MintTo", Handler: unary(MethodMintTo, VaultServiceServer.MintTo)},
		{MethodName: "GetAccount", Handler: unary(MethodGetAccount, VaultServiceServer.GetAccount)},
		{MethodName: "Initialize", Handler: unary(MethodInitialize, VaultServiceServer.Initialize)},
		{MethodName: "Deposit", Handler: unary(MethodDeposit, VaultServiceServer.Deposit)},
		{MethodName: "Withdraw", Handler: unary(MethodWithdraw, VaultServiceServer.Withdraw)},
		{MethodName: "GetVault", Handler: unary(MethodGetVault, VaultServiceServer.GetVault)},
		{MethodName: "ListReceipts", Handler: unary(MethodListReceipts, VaultServiceServer.ListReceipts)},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "timevault/vault.proto",
}

// VaultServiceClient is the client API of timevault.VaultService.
type VaultServiceClient interface {
	Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingResponse, error)
	Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenResponse, error)
	CreateMint(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Mint, error)
	OpenAccount(ctx context.Context, in *MintRef, opts ...grpc.CallOption) (*Account, error)
	MintTo(ctx context.Context, in *MintToRequest, opts ...grpc.CallOption) (*Account, error)
	GetAccount(ctx context.Context, in *AccountRef, opts ...grpc.CallOption) (*Account, error)
	Initialize(ctx context.Context, in *MintRef, opts ...grpc.CallOption) (*Vault, error)
	Deposit(ctx context.Context, in *DepositRequest, opts ...grpc.CallOption) (*Vault, error)
	Withdraw(ctx context.Context, in *WithdrawRequest, opts ...grpc.CallOption) (*Vault, error)
	GetVault(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Vault, error)
	ListReceipts(ctx context.Context, in *ListReceiptsRequest, opts ...grpc.CallOption) (*ListReceiptsResponse, error)
}

type vaultServiceClient struct {
	cc grpc.ClientConnInterface
}

// NewVaultServiceClient returns a client stub over cc. Calls always use
// Codec, whatever the connection defaults are.
func NewVaultServiceClient(cc grpc.ClientConnInterface) VaultServiceClient {
	return &vaultServiceClient{cc: cc}
}

func invoke[Resp any](ctx context.Context, cc grpc.ClientConnInterface, method string, in Message, opts []grpc.CallOption) (*Resp, error) {
	out := new(Resp)
	opts = append([]grpc.CallOption{grpc.ForceCodec(Codec{})}, opts...)
	if err := cc.Invoke(ctx, method, in, out, opts...); err != nil {
		return nil, err
	}
	return out, nil
}

func (c *vaultServiceClient) Ping(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*PingResponse, error) {
	return invoke[PingResponse](ctx, c.cc, MethodPing, in, opts)
}

func (c *vaultServiceClient) Login(ctx context.Context, in *LoginRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, MethodLogin, in, opts)
}

func (c *vaultServiceClient) RefreshToken(ctx context.Context, in *RefreshTokenRequest, opts ...grpc.CallOption) (*TokenResponse, error) {
	return invoke[TokenResponse](ctx, c.cc, MethodRefreshToken, in, opts)
}

func (c *vaultServiceClient) CreateMint(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Mint, error) {
	return invoke[Mint](ctx, c.cc, MethodCreateMint, in, opts)
}

func (c *vaultServiceClient) OpenAccount(ctx context.Context, in *MintRef, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, MethodOpenAccount, in, opts)
}

func (c *vaultServiceClient) MintTo(ctx context.Context, in *MintToRequest, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, MethodMintTo, in, opts)
}

func (c *vaultServiceClient) GetAccount(ctx context.Context, in *AccountRef, opts ...grpc.CallOption) (*Account, error) {
	return invoke[Account](ctx, c.cc, MethodGetAccount, in, opts)
}

func (c *vaultServiceClient) Initialize(ctx context.Context, in *MintRef, opts ...grpc.CallOption) (*Vault, error) {
	return invoke[Vault](ctx, c.cc, MethodInitialize, in, opts)
}

func (c *vaultServiceClient) Deposit(ctx context.Context, in *DepositRequest, opts ...grpc.CallOption) (*Vault, error) {
	return invoke[Vault](ctx, c.cc, MethodDeposit, in, opts)
}

func (c *vaultServiceClient) Withdraw(ctx context.Context, in *WithdrawRequest, opts ...grpc.CallOption) (*Vault, error) {
	return invoke[Vault](ctx, c.cc, MethodWithdraw, in, opts)
}

func (c *vaultServiceClient) GetVault(ctx context.Context, in *Empty, opts ...grpc.CallOption) (*Vault, error) {
	return invoke[Vault](ctx, c.cc, MethodGetVault, in, opts)
}

func (c *vaultServiceClient) ListReceipts(ctx context.Context, in *ListReceiptsRequest, opts ...grpc.CallOption) (*ListReceiptsResponse, error) {
	return invoke[ListReceiptsResponse](ctx, c.cc, MethodListReceipts, in, opts)
}
