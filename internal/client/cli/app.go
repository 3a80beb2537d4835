package cli

import (
	"bufio"
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/dmitrijs2005/timevault/internal/address"
	"github.com/dmitrijs2005/timevault/internal/client/client"
	"github.com/dmitrijs2005/timevault/internal/client/config"
	"github.com/dmitrijs2005/timevault/internal/client/services"
	"github.com/dmitrijs2005/timevault/internal/filex"

	_ "modernc.org/sqlite"
)

type Mode string

const (
	ModeOffline Mode = "offline"
	ModeOnline  Mode = "online"
)

// profileStore is the part of services.ProfileService the commands use.
type profileStore interface {
	Remember(ctx context.Context, name string, a address.Address) error
	Resolve(ctx context.Context, name, s string) (address.Address, error)
	Remembered(ctx context.Context) (map[string]address.Address, error)
	Forget(ctx context.Context, name string) (bool, error)
}

type App struct {
	config      *config.Config
	authService services.AuthService
	profile     profileStore
	api         client.Client
	identity    address.Address
	loggedIn    bool
	Mode        Mode
	reader      *bufio.Reader
	now         func() time.Time
}

func NewApp(c *config.Config) (*App, error) {

	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	ctx := context.Background()

	profilePath, err := filex.EnsureParentDir(c.ProfilePath)
	if err != nil {
		return nil, err
	}

	db, err := client.InitDatabase(ctx, profilePath)
	if err != nil {
		log.Printf("error initializing database: %s", err.Error())
		return nil, err
	}

	apiClient, err := client.NewVaultClient(c.ServerEndpointAddr)
	if err != nil {
		return nil, err
	}

	return &App{
		config:      c,
		authService: services.NewAuthService(apiClient, db),
		profile:     services.NewProfileService(db),
		api:         apiClient,
		reader:      bufio.NewReader(os.Stdin),
		now:         time.Now,
	}, nil
}

func (app *App) setMode(mode Mode) {
	if app.Mode != mode {
		app.Mode = mode
		log.Printf("Switched to %s mode\n", mode)
	}
}

func (a *App) Run(ctx context.Context) {
	defer a.authService.Close(ctx)
	a.Root(ctx)
}

func (a *App) isLoggedIn() bool {
	return a.loggedIn
}

// withTimeout bounds a single server call by the configured request timeout.
func (a *App) withTimeout(ctx context.Context) (context.Context, context.CancelFunc) {
	if a.config == nil || a.config.RequestTimeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, a.config.RequestTimeout)
}

func (a *App) getStatus() string {
	s := ""
	if !a.identity.IsZero() {
		s = shortAddress(a.identity) + " "
	}
	if a.Mode != "" {
		s = s + string(a.Mode)
	}
	if s != "" {
		s = fmt.Sprintf("(%s)", s)
	}
	return s
}

func (a *App) StartOnlineStatusWatcher(ctx context.Context, interval time.Duration) {

	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
			err := a.authService.Ping(ctx)
			cancel()

			if err != nil {
				a.setMode(ModeOffline)
			} else {
				a.setMode(ModeOnline)
			}

		case <-ctx.Done():
			return
		}
	}
}
