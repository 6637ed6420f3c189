package http

import (
	"github.com/gofiber/fiber/v2"

	appledger "github.com/jhoicas/vitrine-api/internal/application/ledger"
	"github.com/jhoicas/vitrine-api/internal/application/sales"
	"github.com/jhoicas/vitrine-api/internal/application/usecase"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	ProductUC *usecase.ProductUseCase
	SalesUC   *sales.SalesUseCase
	LedgerUC  *appledger.LedgerUseCase
	JWTSecret string
	JWTIssuer string
}

// Router registra las rutas de la API. Todo /api exige Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret, deps.JWTIssuer))

	// Products
	products := api.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)

	// Carts
	carts := api.Group("/carts")
	cartHandler := NewCartHandler(deps.SalesUC)
	carts.Post("/", cartHandler.Open)
	carts.Get("/:id", cartHandler.Get)
	carts.Delete("/:id", cartHandler.Cancel)
	carts.Post("/:id/items", cartHandler.AddItem)
	carts.Put("/:id/items/:productID", cartHandler.SetQuantity)
	carts.Delete("/:id/items/:productID", cartHandler.RemoveItem)
	carts.Post("/:id/checkout", cartHandler.Checkout)

	// Sales
	api.Get("/sales/:id/receipt.pdf", cartHandler.ReceiptPDF)

	// Ledger
	ledgerGroup := api.Group("/ledger")
	ledgerHandler := NewLedgerHandler(deps.LedgerUC)
	ledgerGroup.Get("/summary", ledgerHandler.Summary)
	ledgerGroup.Post("/entries", ledgerHandler.Create)
	ledgerGroup.Get("/entries", ledgerHandler.List)
	ledgerGroup.Get("/entries/:id", ledgerHandler.GetByID)

	managers := RequireRole(RoleAdmin, RoleGerente)
	ledgerGroup.Post("/entries/:id/settle", managers, ledgerHandler.Settle)
	ledgerGroup.Post("/entries/:id/reopen", managers, ledgerHandler.Reopen)
}
