package cli

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"

	"github.com/dmitrijs2005/timevault/internal/client/client"
	"github.com/dmitrijs2005/timevault/internal/client/services"
	"github.com/dmitrijs2005/timevault/internal/common"
)

const receiptsShown = 20

// Init creates the caller's vault for a mint.
func (a *App) Init(ctx context.Context) error {
	mint, err := a.promptAddress(ctx, "Mint address", services.DefaultMint)
	if err != nil {
		return a.fail("init", err)
	}

	cctx, cancel := a.withTimeout(ctx)
	defer cancel()

	v, err := a.api.Initialize(cctx, mint)
	if err != nil {
		return a.fail("init", err)
	}
	printlnFn(formatVault(v, a.now()))
	return nil
}

// Deposit locks units from the caller's account for a period.
//
// A deposit replaces the recorded amount and lock of the vault. When the
// vault already holds units the user must confirm.
func (a *App) Deposit(ctx context.Context) error {
	account, err := a.promptAddress(ctx, "Source account", services.DefaultAccount)
	if err != nil {
		return a.fail("deposit", err)
	}
	amount, err := a.promptAmount("Amount to lock")
	if err != nil {
		return a.fail("deposit", err)
	}
	s, err := getSimpleText(a.reader, "Lock period (seconds or duration, e.g. 3600 or 1h)", os.Stdout)
	if err != nil {
		return err
	}
	period, err := ParsePeriod(s)
	if err != nil {
		return a.fail("deposit", err)
	}

	lctx, cancel := a.withTimeout(ctx)
	current, err := a.api.GetVault(lctx)
	cancel()
	if err == nil && current.Amount > 0 {
		prompt := fmt.Sprintf("The vault already records %d units locked until %s. A deposit replaces that record. Continue? (yes/no)",
			current.Amount, formatUnix(current.EndTime))
		answer, err := getSimpleText(a.reader, prompt, os.Stdout)
		if err != nil {
			return err
		}
		if answer != "yes" {
			printlnFn("Deposit cancelled")
			return nil
		}
	}

	// The confirmation may take longer than a request timeout.
	cctx, cancel := a.withTimeout(ctx)
	defer cancel()

	v, err := a.api.Deposit(cctx, client.DepositParams{Account: account, Amount: amount, Period: period})
	if err != nil {
		return a.fail("deposit", err)
	}
	printlnFn(fmt.Sprintf("Locked %d units until %s", v.Amount, formatUnix(v.EndTime)))
	return nil
}

// Withdraw releases the whole locked amount to the caller's account.
func (a *App) Withdraw(ctx context.Context) error {
	account, err := a.promptAddress(ctx, "Destination account", services.DefaultAccount)
	if err != nil {
		return a.fail("withdraw", err)
	}

	cctx, cancel := a.withTimeout(ctx)
	defer cancel()

	before, lookupErr := a.api.GetVault(cctx)

	if _, err := a.api.Withdraw(cctx, client.WithdrawParams{Account: account}); err != nil {
		if errors.Is(err, common.ErrLockNotExpired) && lookupErr == nil {
			log.Printf("vault unlocks at %s (%s)", formatUnix(before.EndTime), remaining(before.EndTime, a.now()))
		}
		return a.fail("withdraw", err)
	}

	if lookupErr == nil {
		printlnFn(fmt.Sprintf("Released %d units to %s", before.Amount, account))
	} else {
		printlnFn("Withdrawal complete")
	}
	return nil
}

// Show prints the caller's vault and whether it can be withdrawn now.
func (a *App) Show(ctx context.Context) error {
	cctx, cancel := a.withTimeout(ctx)
	defer cancel()

	v, err := a.api.GetVault(cctx)
	if err != nil {
		return a.fail("show", err)
	}
	printlnFn(formatVault(v, a.now()))
	return nil
}

// Receipts prints the most recent instructions recorded for the vault.
func (a *App) Receipts(ctx context.Context) error {
	cctx, cancel := a.withTimeout(ctx)
	defer cancel()

	rs, err := a.api.ListReceipts(cctx, receiptsShown)
	if err != nil {
		return a.fail("receipts", err)
	}
	if len(rs) == 0 {
		printlnFn("No receipts")
		return nil
	}
	for i := range rs {
		printlnFn(formatReceipt(&rs[i]))
	}
	return nil
}
