package client

import (
	"context"
	"crypto/ed25519"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/client/models"
	"github.com/dmitrijs2005/timevault/internal/common"
	pb "github.com/dmitrijs2005/timevault/internal/proto"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
)

type GRPCClient struct {
	endpointURL string
	conn        *grpc.ClientConn
	client      pb.VaultServiceClient
	now         func() time.Time

	mu           sync.Mutex
	accessToken  string
	refreshToken string
}

func withAccessToken(ctx context.Context, token string) context.Context {
	md, _ := metadata.FromOutgoingContext(ctx)
	md = md.Copy()
	if md == nil {
		md = metadata.MD{}
	}
	md.Delete(common.AccessTokenHeaderName)
	md.Set(common.AccessTokenHeaderName, token)

	return metadata.NewOutgoingContext(ctx, md)
}

func (s *GRPCClient) tokens() (string, string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.accessToken, s.refreshToken
}

func (s *GRPCClient) setTokens(access, refresh string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.accessToken, s.refreshToken = access, refresh
}

func (s *GRPCClient) accessTokenInterceptor(
	ctx context.Context,
	method string,
	req, reply interface{},
	cc *grpc.ClientConn,
	invoker grpc.UnaryInvoker,
	opts ...grpc.CallOption,
) error {

	accessToken, refreshToken := s.tokens()
	if accessToken == "" || method == pb.MethodRefreshToken {
		return invoker(ctx, method, req, reply, cc, opts...)
	}

	err := invoker(withAccessToken(ctx, accessToken), method, req, reply, cc, opts...)

	if err != nil {

		st, ok := status.FromError(err)
		if !ok {
			return err
		}

		if st.Code() != codes.Unauthenticated {
			return err
		}
		if st.Message() != common.ErrTokenExpired.Error() {
			return err
		}

		if refreshToken == "" {
			return err
		}

		refreshTokenResponse, err := s.client.RefreshToken(ctx, &pb.RefreshTokenRequest{RefreshToken: refreshToken})
		if err != nil {
			return err
		}

		s.setTokens(refreshTokenResponse.AccessToken, refreshTokenResponse.RefreshToken)

		// tokens refreshed, retrying with the new access token
		return invoker(withAccessToken(ctx, refreshTokenResponse.AccessToken), method, req, reply, cc, opts...)

	}

	return nil
}

func NewVaultClient(endpointURL string) (*GRPCClient, error) {
	c := &GRPCClient{endpointURL: endpointURL, now: time.Now}
	err := c.InitGRPCClient()
	if err != nil {
		return nil, err
	}
	return c, nil
}

func (s *GRPCClient) InitGRPCClient() error {

	conn, err := grpc.NewClient(s.endpointURL,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(s.accessTokenInterceptor),
		pb.DialOption(),
	)
	if err != nil {
		return err
	}
	s.conn = conn
	s.client = pb.NewVaultServiceClient(conn)
	return nil
}

func (s *GRPCClient) Close() error {
	if s.conn == nil {
		return nil
	}
	return s.conn.Close()
}

func (s *GRPCClient) Ping(ctx context.Context) error {

	resp, err := s.client.Ping(ctx, &pb.Empty{})
	if err != nil {
		return s.mapError(err)
	}

	if resp.Status != "OK" {
		return ErrUnavailable
	}

	return nil

}

// Login signs a fresh login proof with key and keeps the returned tokens.
func (s *GRPCClient) Login(ctx context.Context, key ed25519.PrivateKey) error {

	identity, err := address.FromBytes(key.Public().(ed25519.PublicKey))
	if err != nil {
		return err
	}

	ts := s.now().Unix()
	sig := ed25519.Sign(key, common.LoginMessage(identity.String(), ts))

	resp, err := s.client.Login(ctx, &pb.LoginRequest{Identity: identity.Bytes(), Timestamp: ts, Signature: sig})
	if err != nil {
		return s.mapError(err)
	}

	s.setTokens(resp.AccessToken, resp.RefreshToken)

	return nil

}

func (s *GRPCClient) CreateMint(ctx context.Context) (*models.Mint, error) {
	resp, err := s.client.CreateMint(ctx, &pb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return mintFromPb(resp)
}

func (s *GRPCClient) OpenAccount(ctx context.Context, mint address.Address) (*models.Account, error) {
	resp, err := s.client.OpenAccount(ctx, &pb.MintRef{Mint: mint.Bytes()})
	if err != nil {
		return nil, s.mapError(err)
	}
	return accountFromPb(resp)
}

func (s *GRPCClient) MintTo(ctx context.Context, mint, account address.Address, amount uint64) (*models.Account, error) {
	resp, err := s.client.MintTo(ctx, &pb.MintToRequest{Mint: mint.Bytes(), Account: account.Bytes(), Amount: amount})
	if err != nil {
		return nil, s.mapError(err)
	}
	return accountFromPb(resp)
}

func (s *GRPCClient) GetAccount(ctx context.Context, account address.Address) (*models.Account, error) {
	resp, err := s.client.GetAccount(ctx, &pb.AccountRef{Address: account.Bytes()})
	if err != nil {
		return nil, s.mapError(err)
	}
	return accountFromPb(resp)
}

func (s *GRPCClient) Initialize(ctx context.Context, mint address.Address) (*models.Vault, error) {
	resp, err := s.client.Initialize(ctx, &pb.MintRef{Mint: mint.Bytes()})
	if err != nil {
		return nil, s.mapError(err)
	}
	return vaultFromPb(resp)
}

// optionalBytes leaves unset references off the wire.
func optionalBytes(a address.Address) []byte {
	if a.IsZero() {
		return nil
	}
	return a.Bytes()
}

func (s *GRPCClient) Deposit(ctx context.Context, p DepositParams) (*models.Vault, error) {
	req := &pb.DepositRequest{
		Account: p.Account.Bytes(),
		Amount:  p.Amount,
		Period:  p.Period,
		Vault:   optionalBytes(p.Vault),
		Mint:    optionalBytes(p.Mint),
	}
	resp, err := s.client.Deposit(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return vaultFromPb(resp)
}

func (s *GRPCClient) Withdraw(ctx context.Context, p WithdrawParams) (*models.Vault, error) {
	req := &pb.WithdrawRequest{
		Account: p.Account.Bytes(),
		Vault:   optionalBytes(p.Vault),
		Mint:    optionalBytes(p.Mint),
	}
	resp, err := s.client.Withdraw(ctx, req)
	if err != nil {
		return nil, s.mapError(err)
	}
	return vaultFromPb(resp)
}

func (s *GRPCClient) GetVault(ctx context.Context) (*models.Vault, error) {
	resp, err := s.client.GetVault(ctx, &pb.Empty{})
	if err != nil {
		return nil, s.mapError(err)
	}
	return vaultFromPb(resp)
}

func (s *GRPCClient) ListReceipts(ctx context.Context, limit int) ([]models.Receipt, error) {
	if limit < 0 {
		limit = 0
	}
	resp, err := s.client.ListReceipts(ctx, &pb.ListReceiptsRequest{Limit: uint32(limit)})
	if err != nil {
		return nil, s.mapError(err)
	}

	out := make([]models.Receipt, 0, len(resp.Receipts))
	for _, r := range resp.Receipts {
		rc, err := receiptFromPb(r)
		if err != nil {
			return nil, err
		}
		out = append(out, *rc)
	}
	return out, nil
}

// mapError turns a gRPC status back into the error the server raised.
func (s *GRPCClient) mapError(err error) error {
	if err == nil {
		return nil
	}
	st, ok := status.FromError(err)
	if !ok {
		return fmt.Errorf("rpc error: %w", err)
	}
	switch st.Code() {
	case codes.Unavailable, codes.DeadlineExceeded:
		return ErrUnavailable
	case codes.ResourceExhausted:
		return ErrRateLimited
	case codes.Unauthenticated:
		return fmt.Errorf("%w: %s", ErrUnauthenticated, st.Message())
	}

	msg := st.Message()
	for _, e := range common.InstructionErrors {
		text := e.Error()
		if msg == text {
			return e
		}
		if rest, found := strings.CutPrefix(msg, text+": "); found {
			return fmt.Errorf("%w: %s", e, rest)
		}
	}
	return fmt.Errorf("rpc error: %w", err)
}

var errBadResponse = errors.New("malformed server response")

func decodeAddrs(fields ...[]byte) ([]address.Address, error) {
	out := make([]address.Address, len(fields))
	for i, f := range fields {
		a, err := address.FromBytes(f)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", errBadResponse, err)
		}
		out[i] = a
	}
	return out, nil
}

func mintFromPb(m *pb.Mint) (*models.Mint, error) {
	a, err := decodeAddrs(m.Address, m.Authority)
	if err != nil {
		return nil, err
	}
	return &models.Mint{Address: a[0], Authority: a[1], Supply: m.Supply}, nil
}

func accountFromPb(m *pb.Account) (*models.Account, error) {
	a, err := decodeAddrs(m.Address, m.Mint, m.Authority)
	if err != nil {
		return nil, err
	}
	return &models.Account{Address: a[0], Mint: a[1], Authority: a[2], Balance: m.Balance}, nil
}

func vaultFromPb(m *pb.Vault) (*models.Vault, error) {
	a, err := decodeAddrs(m.Address, m.Authority, m.Mint)
	if err != nil {
		return nil, err
	}
	return &models.Vault{
		Address:   a[0],
		Authority: a[1],
		Mint:      a[2],
		Amount:    m.Amount,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
	}, nil
}

func receiptFromPb(m *pb.Receipt) (*models.Receipt, error) {
	a, err := decodeAddrs(m.Identity, m.Vault)
	if err != nil {
		return nil, err
	}
	return &models.Receipt{
		ID:        m.ID,
		Kind:      m.Kind,
		Identity:  a[0],
		Vault:     a[1],
		Amount:    m.Amount,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		CreatedAt: time.Unix(0, m.CreatedAt).UTC(),
	}, nil
}
