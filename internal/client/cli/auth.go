package cli

import (
	"bytes"
	"context"
	"errors"
	"log"
	"os"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/client/client"
	"github.com/dmitrijs2005/timevault/internal/client/services"
	"github.com/dmitrijs2005/timevault/internal/common"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Keygen asks for a passphrase twice, creates a new signing key sealed with
// it and prints the resulting identity. Replacing an existing key needs an
// explicit "yes" and ends the current session.
func (a *App) Keygen(ctx context.Context) error {
	passphrase, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	printlnFn("Repeat the passphrase")
	confirm, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(confirm)

	if !bytes.Equal(passphrase, confirm) {
		return a.fail("keygen", errors.New("passphrases do not match"))
	}

	id, err := a.authService.Keygen(ctx, passphrase, false)
	if errors.Is(err, services.ErrKeyExists) {
		answer, err := getSimpleText(a.reader, "A signing key already exists. Replace it? (yes/no)", os.Stdout)
		if err != nil {
			return err
		}
		if answer != "yes" {
			printlnFn("Keeping the existing key")
			return nil
		}
		id, err = a.authService.Keygen(ctx, passphrase, true)
		if err != nil {
			return a.fail("keygen", err)
		}
		a.loggedIn = false
		a.identity = address.Zero
	} else if err != nil {
		return a.fail("keygen", err)
	}

	printlnFn("New identity:", id.String())
	return nil
}

// Login unlocks the signing key and opens a server session with it.
//
// An unreachable server switches the CLI to offline mode; the user can
// retry later without restarting.
func (a *App) Login(ctx context.Context) error {
	passphrase, err := getPassword(os.Stdout)
	if err != nil {
		return err
	}
	defer common.WipeByteArray(passphrase)

	cctx, cancel := a.withTimeout(ctx)
	defer cancel()

	id, err := a.authService.Login(cctx, passphrase)
	if err != nil {
		if errors.Is(err, client.ErrUnavailable) {
			a.setMode(ModeOffline)
		}
		return a.fail("login", err)
	}

	a.identity = id
	a.loggedIn = true
	a.setMode(ModeOnline)
	log.Printf("Login successful")
	printlnFn("Logged in as", id.String())
	return nil
}
