// Package services contains server-side business logic: authentication, the
// asset ledger and the vault instruction engine.
package services

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/common"
	"github.com/dmitrijs2005/timevault/internal/dbx"
	"github.com/dmitrijs2005/timevault/internal/server/auth"
	"github.com/dmitrijs2005/timevault/internal/server/config"
	"github.com/dmitrijs2005/timevault/internal/server/repositories/repomanager"
	lru "github.com/hashicorp/golang-lru"
)

// TokenPair bundles a short-lived access token and a long-lived refresh token.
type TokenPair struct {
	AccessToken  string
	RefreshToken string
}

// AuthService turns a signed login proof into a session and rotates
// refresh tokens.
type AuthService struct {
	db                           *sql.DB
	repomanager                  repomanager.RepositoryManager
	jwtSecret                    []byte
	accessTokenValidityDuration  time.Duration
	refreshTokenValidityDuration time.Duration
	loginSkew                    time.Duration
	seen                         *lru.Cache
	now                          func() time.Time
}

// NewAuthService constructs an AuthService using repositories and server config.
func NewAuthService(db *sql.DB, m repomanager.RepositoryManager, cfg *config.Config) (*AuthService, error) {
	size := cfg.ReplayCacheSize
	if size <= 0 {
		size = 1024
	}
	seen, err := lru.New(size)
	if err != nil {
		return nil, fmt.Errorf("error creating replay cache: %w", err)
	}
	return &AuthService{
		db:                           db,
		repomanager:                  m,
		jwtSecret:                    []byte(cfg.SecretKey),
		accessTokenValidityDuration:  cfg.AccessTokenValidityDuration,
		refreshTokenValidityDuration: cfg.RefreshTokenValidityDuration,
		loginSkew:                    cfg.LoginSkew,
		seen:                         seen,
		now:                          time.Now,
	}, nil
}

// Login verifies that identity signed the login message for ts and, on
// success, returns a new TokenPair. A proof is accepted at most once.
func (s *AuthService) Login(ctx context.Context, identity address.Address, ts int64, signature []byte) (*TokenPair, error) {
	if err := auth.VerifyLogin(identity, ts, signature, s.now(), s.loginSkew); err != nil {
		return nil, err
	}
	if found, _ := s.seen.ContainsOrAdd(string(signature), ts); found {
		return nil, common.ErrLoginReplayed
	}
	return s.generateTokenPair(ctx, identity, s.db)
}

// RefreshToken redeems a refresh token for a new TokenPair. The old token
// is consumed in the same transaction that issues its replacement, so a
// token works once. Unknown tokens yield common.ErrorNotFound and expired
// ones ErrRefreshTokenExpired.
func (s *AuthService) RefreshToken(ctx context.Context, refreshToken string) (*TokenPair, error) {
	return dbx.WithTxValue(ctx, s.db, nil, func(ctx context.Context, tx dbx.DBTX) (*TokenPair, error) {
		token, err := s.repomanager.RefreshTokens(tx).Consume(ctx, refreshToken)
		if err != nil {
			return nil, fmt.Errorf("error redeeming refresh token: %w", err)
		}
		if !token.ExpiresAt.After(s.now()) {
			return nil, common.ErrRefreshTokenExpired
		}
		return s.generateTokenPair(ctx, token.Identity, tx)
	})
}

// PurgeExpiredTokens deletes refresh tokens that can no longer be redeemed.
func (s *AuthService) PurgeExpiredTokens(ctx context.Context) (int64, error) {
	return s.repomanager.RefreshTokens(s.db).DeleteExpired(ctx, s.now())
}

// Identity validates an access token and returns the identity it was
// issued to.
func (s *AuthService) Identity(accessToken string) (address.Address, error) {
	subject, err := auth.GetIdentityFromToken(accessToken, s.jwtSecret)
	if err != nil {
		return address.Zero, err
	}
	id, err := address.Parse(subject)
	if err != nil {
		return address.Zero, common.ErrInvalidToken
	}
	return id, nil
}

// --- helpers below ---

func (s *AuthService) generateTokenPair(ctx context.Context, identity address.Address, tx dbx.DBTX) (*TokenPair, error) {
	access, err := auth.GenerateToken(identity.String(), s.jwtSecret, s.accessTokenValidityDuration)
	if err != nil {
		return nil, common.ErrorInternal
	}
	refresh, err := common.MakeRandHexString(32)
	if err != nil {
		return nil, common.ErrorInternal
	}
	if err := s.repomanager.RefreshTokens(tx).Create(ctx, identity, refresh, s.now().Add(s.refreshTokenValidityDuration)); err != nil {
		return nil, common.ErrorInternal
	}
	return &TokenPair{AccessToken: access, RefreshToken: refresh}, nil
}
