package api

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/AlexZinkM/auto-respawn/autonomys"
	_ "github.com/AlexZinkM/auto-respawn/docs"
	"github.com/AlexZinkM/auto-respawn/internal/handler"

	httpSwagger "github.com/swaggo/http-swagger"
)

// SetupRouter sets up router with handlers.
// timeout bounds each chain call made while serving a request.
func SetupRouter(service *autonomys.Service, timeout time.Duration) http.Handler {
	walletHandler := handler.NewWalletHandler(service, timeout)

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)

	r.Get("/health/live", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})

	// Swagger UI
	r.Get("/swagger/*", httpSwagger.WrapHandler)

	// Wallet endpoints
	r.Get("/wallets", walletHandler.ListWallets)
	r.Get("/address", walletHandler.NormalizeAddress)

	// Chain endpoints
	r.Get("/balance", walletHandler.GetBalance)
	r.Get("/evm/balance", walletHandler.GetEvmBalance)
	r.Get("/anchor/head", walletHandler.GetHead)

	return r
}
