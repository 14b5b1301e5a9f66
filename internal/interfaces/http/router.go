package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/inventario-ledger/internal/application/inventory"
	"github.com/jhoicas/inventario-ledger/pkg/logger"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Ledger    *inventory.Ledger
	History   inventory.HistoryView
	Report    *inventory.HistoryReportUseCase
	Logger    *logger.Logger
	JWTSecret string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.Ledger, deps.History, deps.Report, deps.Logger)
	products.Post("/", productHandler.Create)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", productHandler.Replace)
	products.Delete("/:id", productHandler.Deactivate)

	// Cantidades e historial
	products.Put("/:id/quantity", productHandler.ApplyDelta)
	products.Get("/:id/history", productHandler.History)
	products.Get("/:id/history/report", productHandler.HistoryReport)
}
