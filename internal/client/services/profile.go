package services

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/timevault/internal/common"
)

// Profile keys for remembered addresses.
const (
	DefaultMint    = "mint"
	DefaultAccount = "account"
)

// Defaults lists every name an address can be remembered under.
var Defaults = []string{DefaultMint, DefaultAccount}

func isDefault(name string) bool {
	for _, d := range Defaults {
		if d == name {
			return true
		}
	}
	return false
}

// ProfileService remembers addresses so commands can omit them.
type ProfileService struct {
	db *sql.DB
}

func NewProfileService(db *sql.DB) *ProfileService {
	return &ProfileService{db: db}
}

func (p *ProfileService) repo() metadata.Repository {
	return metadata.NewSQLiteRepository(p.db)
}

// Remember stores a under name.
func (p *ProfileService) Remember(ctx context.Context, name string, a address.Address) error {
	return p.repo().Set(ctx, name, a.Bytes())
}

// Recall returns the address stored under name, or common.ErrorNotFound.
func (p *ProfileService) Recall(ctx context.Context, name string) (address.Address, error) {
	raw, err := p.repo().Get(ctx, name)
	if err != nil {
		return address.Zero, err
	}
	return address.FromBytes(raw)
}

// Resolve parses s as an address; an empty s falls back to the remembered
// value for name.
func (p *ProfileService) Resolve(ctx context.Context, name, s string) (address.Address, error) {
	if s != "" {
		return address.Parse(s)
	}
	a, err := p.Recall(ctx, name)
	if errors.Is(err, common.ErrorNotFound) {
		return address.Zero, errors.New("no " + name + " given and none remembered")
	}
	return a, err
}

// Remembered returns the stored defaults keyed by name.
func (p *ProfileService) Remembered(ctx context.Context) (map[string]address.Address, error) {
	entries, err := p.repo().List(ctx)
	if err != nil {
		return nil, err
	}
	out := make(map[string]address.Address, len(Defaults))
	for _, e := range entries {
		if !isDefault(e.Key) {
			continue
		}
		a, err := address.FromBytes(e.Value)
		if err != nil {
			return nil, fmt.Errorf("remembered %s: %w", e.Key, err)
		}
		out[e.Key] = a
	}
	return out, nil
}

// Forget drops the default stored under name and reports whether there was
// one.
func (p *ProfileService) Forget(ctx context.Context, name string) (bool, error) {
	if !isDefault(name) {
		return false, fmt.Errorf("unknown default %q, expected one of %v", name, Defaults)
	}
	return p.repo().Delete(ctx, name)
}
