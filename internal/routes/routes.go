package routes

import (
	"github.com/gofiber/fiber/v2"

	"github.com/example/spontan/internal/config"
	"github.com/example/spontan/internal/handlers"
	"github.com/example/spontan/internal/ledger"
	"github.com/example/spontan/internal/middleware"
	"github.com/example/spontan/internal/services"
	"github.com/example/spontan/internal/store"
)

// Register wires up all HTTP routes.
func Register(app *fiber.App, s store.Store, cfg *config.Config) {
	telegramService := services.NewTelegramService(cfg.TelegramBotToken, cfg.TelegramBarmanChat)

	tokenLedger := ledger.NewTokens(s)
	orderLedger := ledger.NewOrders(s, tokenLedger)

	authHandler := handlers.NewAuthHandler(s, cfg)
	tokensHandler := handlers.NewTokensHandler(tokenLedger)
	chatHandler := handlers.NewChatHandler(tokenLedger)
	ordersHandler := handlers.NewOrdersHandler(s, orderLedger, telegramService)
	eventsHandler := handlers.NewEventsHandler(s, tokenLedger)

	api := app.Group("/api")

	// Auth routes
	auth := api.Group("/auth")
	auth.Post("/start", authHandler.Start)
	auth.Post("/otp", authHandler.SendOtp)
	auth.Post("/verify", authHandler.VerifyOtp)

	// Protected routes
	protected := api.Group("", middleware.AuthMiddleware(cfg))

	protected.Get("/auth/session", authHandler.Session)

	protected.Get("/tokens", tokensHandler.GetBalance)
	protected.Get("/tokens/packages", tokensHandler.ListPackages)
	protected.Post("/tokens/purchase", tokensHandler.Purchase)
	protected.Get("/tokens/purchases", tokensHandler.ListPurchases)

	protected.Post("/chat/parse", chatHandler.ParseMessage)

	protected.Post("/orders", ordersHandler.CreateOrder)
	protected.Get("/orders", ordersHandler.ListOrders)

	protected.Post("/events/checkin", eventsHandler.CheckIn)

	// Barman routes
	barman := protected.Group("", middleware.RequireBarman(s))
	barman.Patch("/orders/:id/status", ordersHandler.UpdateStatus)
	barman.Post("/orders/verify-pickup", ordersHandler.VerifyPickup)
}
