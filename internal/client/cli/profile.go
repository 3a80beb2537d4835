package cli

import (
	"context"
	"fmt"
	"os"
	"strings"

	"github.com/dmitrijs2005/timevault/internal/client/services"
)

// Profile prints the remembered default mint and account. It reads only the
// local profile, so it works offline and before login.
func (a *App) Profile(ctx context.Context) error {
	remembered, err := a.profile.Remembered(ctx)
	if err != nil {
		return a.fail("profile", err)
	}
	for _, name := range services.Defaults {
		value := "-"
		if addr, ok := remembered[name]; ok {
			value = addr.String()
		}
		printlnFn(fmt.Sprintf("%-8s %s", name, value))
	}
	return nil
}

// Forget drops one remembered default.
func (a *App) Forget(ctx context.Context) error {
	prompt := fmt.Sprintf("Forget which default (%s)?", strings.Join(services.Defaults, "/"))
	name, err := getSimpleText(a.reader, prompt, os.Stdout)
	if err != nil {
		return err
	}

	removed, err := a.profile.Forget(ctx, strings.TrimSpace(name))
	if err != nil {
		return a.fail("forget", err)
	}
	if removed {
		printlnFn("Forgot the default", name)
	} else {
		printlnFn("Nothing remembered as", name)
	}
	return nil
}
