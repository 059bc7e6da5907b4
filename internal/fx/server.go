package fx

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/newsly/newsly/internal/config"
	"github.com/newsly/newsly/internal/core"
	"github.com/newsly/newsly/internal/gateway"
	"github.com/newsly/newsly/internal/personalize"
	"github.com/newsly/newsly/internal/server"
	"github.com/newsly/newsly/internal/store"
	"github.com/newsly/newsly/internal/token"
	"github.com/newsly/newsly/internal/worker"
	"go.uber.org/fx"
)

// ServerModule starts the HTTP server and the cache sweep job
var ServerModule = fx.Module("server",
	fx.Invoke(
		StartServer,
		StartSweeper,
	),
)

// ServerParams groups dependencies for starting the server
type ServerParams struct {
	fx.In
	Lifecycle    fx.Lifecycle
	Gateway      *gateway.Gateway
	Resolver     *personalize.Resolver
	AuthCore     *core.AuthCore
	Store        store.Store
	TokenManager *token.Manager
	Config       config.Config
}

// StartServer starts the HTTP server with lifecycle management
func StartServer(p ServerParams) {
	router := server.NewRouter(server.Services{
		Gateway:      p.Gateway,
		Resolver:     p.Resolver,
		AuthCore:     p.AuthCore,
		Store:        p.Store,
		TokenManager: p.TokenManager,
	})

	srv := &http.Server{
		Addr:    ":" + p.Config.Port,
		Handler: router,
	}

	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			go func() {
				log.Printf("[FX] HTTP Server listening on :%s", p.Config.Port)
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Printf("[FX] HTTP Server error: %v", err)
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			log.Printf("[FX] Shutting down HTTP server...")
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}

// SweeperParams for the cache sweep job
type SweeperParams struct {
	fx.In
	Lifecycle fx.Lifecycle
	Sweeper   *worker.Sweeper
}

// StartSweeper starts the cache sweep scheduler
func StartSweeper(p SweeperParams) {
	p.Lifecycle.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			return p.Sweeper.Start()
		},
		OnStop: func(ctx context.Context) error {
			p.Sweeper.Stop()
			return nil
		},
	})
}
