package grpc

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/common"
	pb "github.com/dmitrijs2005/timevault/internal/proto"
	"github.com/dmitrijs2005/timevault/internal/server/models"
	"github.com/dmitrijs2005/timevault/internal/server/services"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

// requiredAddress decodes a mandatory address field.
func requiredAddress(name string, b []byte) (address.Address, error) {
	a, err := address.FromBytes(b)
	if err != nil {
		return address.Zero, status.Errorf(codes.InvalidArgument, "%s: %v", name, err)
	}
	return a, nil
}

// optionalAddress decodes a field that may be left empty.
func optionalAddress(name string, b []byte) (address.Address, error) {
	if len(b) == 0 {
		return address.Zero, nil
	}
	return requiredAddress(name, b)
}

func mintToPb(m *models.Mint) *pb.Mint {
	return &pb.Mint{Address: m.Address.Bytes(), Authority: m.Authority.Bytes(), Supply: m.Supply}
}

func accountToPb(a *models.Account) *pb.Account {
	return &pb.Account{
		Address:   a.Address.Bytes(),
		Mint:      a.Mint.Bytes(),
		Authority: a.Authority.Bytes(),
		Balance:   a.Balance,
	}
}

func vaultToPb(v *models.Vault) *pb.Vault {
	return &pb.Vault{
		Address:   v.Address.Bytes(),
		Authority: v.Authority.Bytes(),
		Mint:      v.Mint.Bytes(),
		Amount:    v.Amount,
		StartTime: v.StartTime,
		EndTime:   v.EndTime,
	}
}

func receiptToPb(r *models.Receipt) *pb.Receipt {
	return &pb.Receipt{
		ID:        r.ID,
		Kind:      r.Kind,
		Identity:  r.Identity.Bytes(),
		Vault:     r.Vault.Bytes(),
		Amount:    r.Amount,
		StartTime: r.StartTime,
		EndTime:   r.EndTime,
		CreatedAt: r.CreatedAt.UnixNano(),
	}
}

func (s *GRPCServer) Ping(ctx context.Context, req *pb.Empty) (*pb.PingResponse, error) {

	return &pb.PingResponse{Status: "OK"}, nil

}

func (s *GRPCServer) Login(ctx context.Context, req *pb.LoginRequest) (*pb.TokenResponse, error) {

	identity, err := requiredAddress("identity", req.Identity)
	if err != nil {
		return nil, err
	}

	tokens, err := s.auth.Login(ctx, identity, req.Timestamp, req.Signature)
	if err != nil {
		s.logger.Warn(ctx, "login rejected", "identity", identity.String(), "error", err.Error())
		return nil, toStatus(err)
	}

	s.logger.Info(ctx, "Logged in", "identity", identity.String())
	return &pb.TokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil

}

func (s *GRPCServer) RefreshToken(ctx context.Context, req *pb.RefreshTokenRequest) (*pb.TokenResponse, error) {

	tokens, err := s.auth.RefreshToken(ctx, req.RefreshToken)
	if err != nil {
		if errors.Is(err, common.ErrorNotFound) || errors.Is(err, common.ErrRefreshTokenExpired) {
			return nil, status.Error(codes.Unauthenticated, common.ErrRefreshTokenExpired.Error())
		}
		s.logger.Error(ctx, "refresh token failed", "error", err.Error())
		return nil, toStatus(err)
	}

	return &pb.TokenResponse{AccessToken: tokens.AccessToken, RefreshToken: tokens.RefreshToken}, nil

}

func (s *GRPCServer) CreateMint(ctx context.Context, req *pb.Empty) (*pb.Mint, error) {

	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	m, err := s.ledger.CreateMint(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}

	return mintToPb(m), nil

}

func (s *GRPCServer) OpenAccount(ctx context.Context, req *pb.MintRef) (*pb.Account, error) {

	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	mint, err := requiredAddress("mint", req.Mint)
	if err != nil {
		return nil, err
	}

	a, err := s.ledger.OpenAccount(ctx, id, mint)
	if err != nil {
		return nil, toStatus(err)
	}

	return accountToPb(a), nil

}

func (s *GRPCServer) MintTo(ctx context.Context, req *pb.MintToRequest) (*pb.Account, error) {

	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	mint, err := requiredAddress("mint", req.Mint)
	if err != nil {
		return nil, err
	}
	account, err := requiredAddress("account", req.Account)
	if err != nil {
		return nil, err
	}

	a, err := s.ledger.MintTo(ctx, id, mint, account, req.Amount)
	if err != nil {
		return nil, toStatus(err)
	}

	return accountToPb(a), nil

}

func (s *GRPCServer) GetAccount(ctx context.Context, req *pb.AccountRef) (*pb.Account, error) {

	addr, err := requiredAddress("address", req.Address)
	if err != nil {
		return nil, err
	}

	a, err := s.ledger.GetAccount(ctx, addr)
	if err != nil {
		return nil, toStatus(err)
	}

	return accountToPb(a), nil

}

func (s *GRPCServer) Initialize(ctx context.Context, req *pb.MintRef) (*pb.Vault, error) {

	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}
	mint, err := requiredAddress("mint", req.Mint)
	if err != nil {
		return nil, err
	}

	v, err := s.vaults.Initialize(ctx, id, mint)
	if err != nil {
		return nil, toStatus(err)
	}

	return vaultToPb(v), nil

}

func (s *GRPCServer) Deposit(ctx context.Context, req *pb.DepositRequest) (*pb.Vault, error) {

	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	var r services.DepositRequest
	if r.Account, err = requiredAddress("account", req.Account); err != nil {
		return nil, err
	}
	if r.Vault, err = optionalAddress("vault", req.Vault); err != nil {
		return nil, err
	}
	if r.Mint, err = optionalAddress("mint", req.Mint); err != nil {
		return nil, err
	}
	r.Amount = req.Amount
	r.Period = req.Period

	v, err := s.vaults.Deposit(ctx, id, r)
	if err != nil {
		return nil, toStatus(err)
	}

	return vaultToPb(v), nil

}

func (s *GRPCServer) Withdraw(ctx context.Context, req *pb.WithdrawRequest) (*pb.Vault, error) {

	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	var r services.WithdrawRequest
	if r.Account, err = requiredAddress("account", req.Account); err != nil {
		return nil, err
	}
	if r.Vault, err = optionalAddress("vault", req.Vault); err != nil {
		return nil, err
	}
	if r.Mint, err = optionalAddress("mint", req.Mint); err != nil {
		return nil, err
	}

	v, err := s.vaults.Withdraw(ctx, id, r)
	if err != nil {
		return nil, toStatus(err)
	}

	return vaultToPb(v), nil

}

func (s *GRPCServer) GetVault(ctx context.Context, req *pb.Empty) (*pb.Vault, error) {

	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	v, err := s.vaults.GetVault(ctx, id)
	if err != nil {
		return nil, toStatus(err)
	}

	return vaultToPb(v), nil

}

func (s *GRPCServer) ListReceipts(ctx context.Context, req *pb.ListReceiptsRequest) (*pb.ListReceiptsResponse, error) {

	id, err := caller(ctx)
	if err != nil {
		return nil, err
	}

	list, err := s.vaults.ListReceipts(ctx, id, int(req.Limit))
	if err != nil {
		return nil, toStatus(err)
	}

	resp := &pb.ListReceiptsResponse{Receipts: make([]*pb.Receipt, 0, len(list))}
	for i := range list {
		resp.Receipts = append(resp.Receipts, receiptToPb(&list[i]))
	}

	return resp, nil

}
