package app

import (
	"context"
	"net/http"

	"github.com/joho/godotenv"

	"clinichat/internal/retention"
	"clinichat/pkg/config"
	"clinichat/pkg/store"
	"clinichat/pkg/validation"
)

// App encapsulates the server components and lifecycle.
type App struct {
	eff       config.EffectiveConfigResult
	version   string
	commit    string
	buildDate string

	store   *store.Store
	sweeper *retention.Sweeper

	srv *http.Server
}

// New validates the effective config and builds the chat store. It does
// not start the sweeper or the HTTP server; call Run for that.
func New(eff config.EffectiveConfigResult, version, commit, buildDate string) (*App, error) {
	_ = godotenv.Load(".env")

	// validate effective config early and fail fast
	if err := validateConfig(eff); err != nil {
		return nil, err
	}

	// runtime signing keys: backend API keys plus any explicit list
	runtimeCfg := &config.RuntimeConfig{BackendKeys: map[string]struct{}{}, SigningKeys: map[string]struct{}{}}
	for _, k := range eff.Config.Security.APIKeys.Backend {
		runtimeCfg.BackendKeys[k] = struct{}{}
		runtimeCfg.SigningKeys[k] = struct{}{}
	}
	for _, k := range eff.Config.Security.SigningKeys {
		runtimeCfg.SigningKeys[k] = struct{}{}
	}
	config.SetRuntime(runtimeCfg)

	initValidation(eff)

	st := store.New(store.Options{
		ArchiveAfter:     eff.Config.Retention.ArchiveAfter.Duration(),
		PurgeAfter:       eff.Config.Retention.PurgeAfter.Duration(),
		SubscriberBuffer: eff.Config.Chat.SubscriberBuffer,
	})

	a := &App{eff: eff, version: version, commit: commit, buildDate: buildDate, store: st}

	if eff.Config.Retention.Enabled {
		sw, err := retention.NewSweeper(st, eff.Config.Retention.Cron)
		if err != nil {
			return nil, err
		}
		a.sweeper = sw
	}

	return a, nil
}

// Run starts the sweeper (if enabled) and the HTTP server, and blocks
// until ctx is canceled or a fatal server error occurs.
func (a *App) Run(ctx context.Context) error {
	if a.sweeper != nil {
		stop := a.sweeper.Start(ctx)
		defer stop()
	}

	a.printBanner()

	errCh := a.startHTTP(ctx)

	select {
	case <-ctx.Done():
		a.shutdownHTTP()
		return nil
	case err := <-errCh:
		return err
	}
}

// initValidation builds message validation rules from config and sets
// them globally.
func initValidation(eff config.EffectiveConfigResult) {
	vr := validation.Rules{}
	if n := eff.Config.Chat.MaxMessageBytes.Int(); n > 0 {
		vr.MaxTextLen = n
	}
	validation.SetRules(vr)
}
