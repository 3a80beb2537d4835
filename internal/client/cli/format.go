package cli

import (
	"errors"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/client/client"
	"github.com/dmitrijs2005/timevault/internal/client/models"
	"github.com/dmitrijs2005/timevault/internal/client/services"
	"github.com/dmitrijs2005/timevault/internal/common"
	"github.com/dmitrijs2005/timevault/internal/cryptox"
)

// maxUnix is the last second of year 9999; later lock ends are shown raw.
const maxUnix = 253402300799

// hints turns common failures into something a user can act on.
var hints = []struct {
	err  error
	text string
}{
	{client.ErrUnavailable, "server unavailable"},
	{client.ErrUnauthenticated, "session expired, please login again"},
	{client.ErrRateLimited, "too many requests, slow down"},
	{cryptox.ErrWrongPassphrase, "wrong passphrase"},
	{services.ErrNoKey, "no signing key, run keygen first"},
	{common.ErrLockNotExpired, "the vault is still locked"},
	{common.ErrInvalidAccountBinding, "that account is not your account for the vault's mint"},
	{common.ErrorUnauthorized, "you are not allowed to do that"},
	{common.ErrorNotFound, "not found"},
	{common.ErrorAlreadyExists, "already exists"},
}

func describe(err error) string {
	for _, h := range hints {
		if errors.Is(err, h.err) {
			return h.text
		}
	}
	return err.Error()
}

// fail logs err for the user and returns it unchanged.
func (a *App) fail(op string, err error) error {
	log.Printf("%s failed: %s", op, describe(err))
	return err
}

func shortAddress(a address.Address) string {
	s := a.String()
	if len(s) <= 10 {
		return s
	}
	return s[:4] + ".." + s[len(s)-4:]
}

func formatUnix(sec uint64) string {
	if sec == 0 {
		return "-"
	}
	if sec > maxUnix {
		return fmt.Sprintf("%d (unix)", sec)
	}
	return time.Unix(int64(sec), 0).UTC().Format(time.RFC3339)
}

func remaining(end uint64, now time.Time) string {
	if end > maxUnix {
		return "far future"
	}
	d := time.Unix(int64(end), 0).Sub(now).Truncate(time.Second)
	if d <= 0 {
		return "unlocked"
	}
	return d.String() + " left"
}

func formatMint(m *models.Mint) string {
	return fmt.Sprintf("Mint %s\n  authority: %s\n  supply:    %d", m.Address, m.Authority, m.Supply)
}

func formatAccount(acc *models.Account) string {
	return fmt.Sprintf("Account %s\n  mint:    %s\n  owner:   %s\n  balance: %d", acc.Address, acc.Mint, acc.Authority, acc.Balance)
}

func formatVault(v *models.Vault, now time.Time) string {
	var status string
	switch {
	case v.Amount == 0:
		status = "empty"
	case v.Unlocked(now):
		status = "unlocked"
	default:
		status = "locked, " + remaining(v.EndTime, now)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Vault %s (%s)\n", v.Address, status)
	fmt.Fprintf(&b, "  mint:   %s\n", v.Mint)
	fmt.Fprintf(&b, "  amount: %d\n", v.Amount)
	fmt.Fprintf(&b, "  start:  %s\n", formatUnix(v.StartTime))
	fmt.Fprintf(&b, "  end:    %s", formatUnix(v.EndTime))
	return b.String()
}

func formatReceipt(r *models.Receipt) string {
	return fmt.Sprintf("%s  %-10s amount=%d start=%s end=%s id=%s",
		r.CreatedAt.UTC().Format(time.RFC3339), r.Kind, r.Amount, formatUnix(r.StartTime), formatUnix(r.EndTime), r.ID)
}
