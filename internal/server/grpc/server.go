// Package grpc exposes the vault, ledger and auth services over gRPC.
package grpc

import (
	"context"
	"net"
	"time"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/logging"
	pb "github.com/dmitrijs2005/timevault/internal/proto"
	"github.com/dmitrijs2005/timevault/internal/server/models"
	"github.com/dmitrijs2005/timevault/internal/server/services"
	"google.golang.org/grpc"
)

type authSvc interface {
	Login(ctx context.Context, identity address.Address, ts int64, signature []byte) (*services.TokenPair, error)
	RefreshToken(ctx context.Context, refreshToken string) (*services.TokenPair, error)
	Identity(accessToken string) (address.Address, error)
}

type ledgerSvc interface {
	CreateMint(ctx context.Context, authority address.Address) (*models.Mint, error)
	OpenAccount(ctx context.Context, owner, mint address.Address) (*models.Account, error)
	MintTo(ctx context.Context, authority, mint, account address.Address, amount uint64) (*models.Account, error)
	GetAccount(ctx context.Context, addr address.Address) (*models.Account, error)
}

type vaultSvc interface {
	Initialize(ctx context.Context, owner, mint address.Address) (*models.Vault, error)
	Deposit(ctx context.Context, caller address.Address, req services.DepositRequest) (*models.Vault, error)
	Withdraw(ctx context.Context, caller address.Address, req services.WithdrawRequest) (*models.Vault, error)
	GetVault(ctx context.Context, caller address.Address) (*models.Vault, error)
	ListReceipts(ctx context.Context, caller address.Address, limit int) ([]models.Receipt, error)
}

// RateLimitRecorder counts rejected calls.
type RateLimitRecorder interface {
	RecordRateLimited()
}

type GRPCServer struct {
	pb.UnimplementedVaultServiceServer
	address  string
	auth     authSvc
	ledger   ledgerSvc
	vaults   vaultSvc
	limiter  *RateLimiter
	recorder RateLimitRecorder
	logger   logging.Logger
}

func NewGRPCServer(a string, l logging.Logger, as authSvc, ls ledgerSvc, vs vaultSvc, limiter *RateLimiter, recorder RateLimitRecorder) *GRPCServer {
	return &GRPCServer{
		address:  a,
		logger:   logging.Named(l, "grpc_server"),
		auth:     as,
		ledger:   ls,
		vaults:   vs,
		limiter:  limiter,
		recorder: recorder,
	}
}

func (s *GRPCServer) Run(ctx context.Context) error {

	// announces address
	listen, err := net.Listen("tcp", s.address)
	if err != nil {
		return err
	}

	return s.Serve(ctx, listen)
}

// Serve accepts connections on lis until ctx is cancelled.
func (s *GRPCServer) Serve(ctx context.Context, lis net.Listener) error {

	srv := grpc.NewServer(
		pb.ServerOption(),
		grpc.ChainUnaryInterceptor(s.requestLogInterceptor, s.accessTokenInterceptor, s.rateLimitInterceptor),
	)

	pb.RegisterVaultServiceServer(srv, s)

	if s.limiter != nil {
		go s.limiter.cleanupLoop(ctx, time.Minute)
	}

	go func() {
		<-ctx.Done()
		s.logger.Info(ctx, "Stopping gPRC server...")
		srv.GracefulStop()
	}()

	s.logger.Info(ctx, "Starting gRPC server", "address", lis.Addr().String())

	// starts accepting incoming connections
	if err := srv.Serve(lis); err != nil {
		return err
	}

	return nil
}
