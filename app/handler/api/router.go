package handler

import (
	"stock-alert-service/app/middleware"
	"stock-alert-service/config"

	"github.com/gofiber/fiber/v2"
)

func SetupInventoryRouter(app *fiber.App, stockHandler *StockHandler, reservationHandler *ReservationHandler, cfg *config.Config) {

	api := app.Group("/inventory-service").Use(middleware.Auth(cfg.Jwt.SecretKey))

	api.Get("/stocks", stockHandler.GetListStock)
	api.Get("/stocks/:product_id", stockHandler.GetByProductID)
	api.Put("/stocks/:id/quantity", stockHandler.UpdateQuantity)
	api.Put("/stocks/:id/threshold", stockHandler.UpdateThreshold)

	internal := app.Group("/internal/inventory-service").Use(middleware.AuthInternal(cfg))
	internal.Post("/stocks", stockHandler.Create)
	internal.Post("/reservations", reservationHandler.CreateReservation)
	internal.Put("/reservations/:order_id", reservationHandler.UpdateReservationStatus)
}

func SetupNotifierRouter(app *fiber.App, notificationHandler *NotificationHandler, cfg *config.Config) {

	api := app.Group("/notification-service").Use(middleware.Auth(cfg.Jwt.SecretKey))

	// Registered before the :id route so "summary" never parses as an id.
	api.Get("/notifications/summary", notificationHandler.GetSummary)
	api.Get("/notifications", notificationHandler.GetListNotification)
	api.Get("/notifications/:id", notificationHandler.GetByID)

	internal := app.Group("/internal/notification-service").Use(middleware.AuthInternal(cfg))
	internal.Post("/test", notificationHandler.PublishTest)
}
