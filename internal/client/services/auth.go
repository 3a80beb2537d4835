// Package services contains application services for the timevault CLI:
// the local signing key and session, and the remembered default mint and
// account.
package services

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/client/client"
	"github.com/dmitrijs2005/timevault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/timevault/internal/common"
	"github.com/dmitrijs2005/timevault/internal/cryptox"
	"github.com/dmitrijs2005/timevault/internal/dbx"
)

const keystoreKey = "keystore"

var (
	ErrNoKey     = errors.New("no signing key, run keygen first")
	ErrKeyExists = errors.New("a signing key already exists")
)

// AuthService manages the local signing key and logs in with it.
//
// Contract:
//   - Keygen: create and store a sealed key; refuses to replace one unless
//     overwrite is set, and an overwrite also forgets remembered defaults.
//   - Login: unseal the key with the passphrase and open a server session.
//   - Identity: the stored identity, readable without the passphrase.
//   - Ping / Close: pass through to the client.
type AuthService interface {
	Keygen(ctx context.Context, passphrase []byte, overwrite bool) (address.Address, error)
	Login(ctx context.Context, passphrase []byte) (address.Address, error)
	Identity(ctx context.Context) (address.Address, error)
	Ping(ctx context.Context) error
	Close(ctx context.Context) error
}

type authService struct {
	client client.Client
	db     *sql.DB
}

// NewAuthService constructs an AuthService bound to the given API client and DB.
func NewAuthService(client client.Client, db *sql.DB) AuthService {
	return &authService{client: client, db: db}
}

func (a *authService) getMetadataRepo() metadata.Repository {
	return metadata.NewSQLiteRepository(a.db)
}

func (a *authService) loadKey(ctx context.Context) (*cryptox.EncryptedKey, error) {
	raw, err := a.getMetadataRepo().Get(ctx, keystoreKey)
	if errors.Is(err, common.ErrorNotFound) {
		return nil, ErrNoKey
	}
	if err != nil {
		return nil, err
	}

	var ek cryptox.EncryptedKey
	if err := json.Unmarshal(raw, &ek); err != nil {
		return nil, fmt.Errorf("corrupted keystore: %w", err)
	}
	return &ek, nil
}

func (a *authService) Keygen(ctx context.Context, passphrase []byte, overwrite bool) (address.Address, error) {
	if !overwrite {
		if _, err := a.loadKey(ctx); err == nil {
			return address.Zero, ErrKeyExists
		} else if !errors.Is(err, ErrNoKey) {
			return address.Zero, err
		}
	}

	priv, id, err := cryptox.GenerateKey()
	if err != nil {
		return address.Zero, err
	}
	defer common.WipeByteArray(priv)

	ek, err := cryptox.SealKey(priv, passphrase)
	if err != nil {
		return address.Zero, err
	}

	raw, err := json.Marshal(ek)
	if err != nil {
		return address.Zero, err
	}
	// A replaced key takes the remembered defaults with it: they name the
	// old identity's accounts.
	err = dbx.WithTx(ctx, a.db, nil, func(ctx context.Context, tx dbx.DBTX) error {
		repo := metadata.NewSQLiteRepository(tx)
		if overwrite {
			if err := repo.Clear(ctx); err != nil {
				return err
			}
		}
		return repo.Set(ctx, keystoreKey, raw)
	})
	if err != nil {
		return address.Zero, err
	}
	return id, nil
}

func (a *authService) Login(ctx context.Context, passphrase []byte) (address.Address, error) {
	ek, err := a.loadKey(ctx)
	if err != nil {
		return address.Zero, err
	}

	priv, err := cryptox.OpenKey(ek, passphrase)
	if err != nil {
		return address.Zero, err
	}
	defer common.WipeByteArray(priv)

	if err := a.client.Login(ctx, priv); err != nil {
		return address.Zero, err
	}
	return ek.Identity, nil
}

func (a *authService) Identity(ctx context.Context) (address.Address, error) {
	ek, err := a.loadKey(ctx)
	if err != nil {
		return address.Zero, err
	}
	return ek.Identity, nil
}

func (a *authService) Ping(ctx context.Context) error {
	return a.client.Ping(ctx)
}

func (a *authService) Close(ctx context.Context) error {
	return a.client.Close()
}
