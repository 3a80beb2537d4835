package cli

import (
	"context"
	"log"
	"os"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/client/services"
)

// CreateMint creates a mint owned by the session identity and remembers it
// as the default mint.
func (a *App) CreateMint(ctx context.Context) error {
	cctx, cancel := a.withTimeout(ctx)
	defer cancel()

	m, err := a.api.CreateMint(cctx)
	if err != nil {
		return a.fail("createmint", err)
	}
	a.remember(ctx, services.DefaultMint, m.Address)
	printlnFn(formatMint(m))
	return nil
}

// OpenAccount opens the caller's account for a mint and remembers it as the
// default account.
func (a *App) OpenAccount(ctx context.Context) error {
	mint, err := a.promptAddress(ctx, "Mint address", services.DefaultMint)
	if err != nil {
		return a.fail("openaccount", err)
	}

	cctx, cancel := a.withTimeout(ctx)
	defer cancel()

	acc, err := a.api.OpenAccount(cctx, mint)
	if err != nil {
		return a.fail("openaccount", err)
	}
	a.remember(ctx, services.DefaultAccount, acc.Address)
	printlnFn(formatAccount(acc))
	return nil
}

// MintTo issues new units of a mint the caller owns into an account.
func (a *App) MintTo(ctx context.Context) error {
	mint, err := a.promptAddress(ctx, "Mint address", services.DefaultMint)
	if err != nil {
		return a.fail("mintto", err)
	}
	account, err := a.promptAddress(ctx, "Destination account", services.DefaultAccount)
	if err != nil {
		return a.fail("mintto", err)
	}
	amount, err := a.promptAmount("Amount")
	if err != nil {
		return a.fail("mintto", err)
	}

	cctx, cancel := a.withTimeout(ctx)
	defer cancel()

	acc, err := a.api.MintTo(cctx, mint, account, amount)
	if err != nil {
		return a.fail("mintto", err)
	}
	printlnFn(formatAccount(acc))
	return nil
}

func (a *App) Balance(ctx context.Context) error {
	account, err := a.promptAddress(ctx, "Account address", services.DefaultAccount)
	if err != nil {
		return a.fail("balance", err)
	}

	cctx, cancel := a.withTimeout(ctx)
	defer cancel()

	acc, err := a.api.GetAccount(cctx, account)
	if err != nil {
		return a.fail("balance", err)
	}
	printlnFn(formatAccount(acc))
	return nil
}

// promptAddress reads an address; a blank answer uses the one remembered
// under name.
func (a *App) promptAddress(ctx context.Context, label, name string) (address.Address, error) {
	s, err := getSimpleText(a.reader, label+" (empty for remembered "+name+")", os.Stdout)
	if err != nil {
		return address.Zero, err
	}
	return a.profile.Resolve(ctx, name, s)
}

func (a *App) promptAmount(label string) (uint64, error) {
	s, err := getSimpleText(a.reader, label, os.Stdout)
	if err != nil {
		return 0, err
	}
	return ParseAmount(s)
}

// remember stores a default; failing to do so only costs convenience.
func (a *App) remember(ctx context.Context, name string, addr address.Address) {
	if err := a.profile.Remember(ctx, name, addr); err != nil {
		log.Printf("could not remember %s: %v", name, err)
	}
}
