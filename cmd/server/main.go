package main

import (
	"log"

	"github.com/joho/godotenv"
	appfx "github.com/newsly/newsly/internal/fx"
	"go.uber.org/fx"
	"go.uber.org/fx/fxevent"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	app := fx.New(
		appfx.ConfigModule,      // Provides: config.Config
		appfx.StoreModule,       // Provides: *store.PostgresStore, store.Store
		appfx.TokenModule,       // Provides: *token.Manager
		appfx.GatewayModule,     // Provides: news.Provider, *cache.Cache, *budget.Tracker, *gateway.Gateway
		appfx.PersonalizeModule, // Provides: *personalize.Resolver
		appfx.CoreModule,        // Provides: *core.AuthCore
		appfx.WorkerModule,      // Provides: *worker.Sweeper
		appfx.ServerModule,      // Starts HTTP server + cache sweeper

		// Use simple console logger for cleaner output
		fx.WithLogger(func() fxevent.Logger {
			return &fxevent.ConsoleLogger{W: log.Writer()}
		}),
	)

	// Run blocks until the app receives a shutdown signal
	app.Run()
}
