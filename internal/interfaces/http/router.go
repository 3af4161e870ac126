package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/Almacen-api/internal/application/auth"
	"github.com/jhoicas/Almacen-api/internal/application/stock"
	"github.com/jhoicas/Almacen-api/internal/application/usecase"
	"github.com/jhoicas/Almacen-api/internal/domain/entity"
	"github.com/jhoicas/Almacen-api/internal/domain/repository"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC     *auth.AuthUseCase
	ProductUC  *usecase.ProductUseCase
	Engine     *stock.MutationEngine
	Batch      *stock.BatchOrchestrator
	LedgerRepo repository.LedgerRepository
	AuditRepo  repository.AuditRepository
	JWTSecret  string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")

	// Auth (público)
	authGroup := api.Group("/auth")
	authHandler := NewAuthHandler(deps.AuthUC)
	authGroup.Post("/register", authHandler.Register)
	authGroup.Post("/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret))

	// Products (protegido)
	products := protected.Group("/products")
	productHandler := NewProductHandler(deps.ProductUC)
	products.Post("/", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Create)
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Put("/:id", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), productHandler.Update)
	products.Post("/:id/discontinue", RequireRole(entity.RoleAdmin), productHandler.Discontinue)
	products.Post("/:id/reactivate", RequireRole(entity.RoleAdmin), productHandler.Reactivate)

	// Stock: mutaciones, ledger y auditoría (protegido)
	stockGroup := protected.Group("/stock")
	stockHandler := NewStockHandler(deps.Engine, deps.Batch, deps.LedgerRepo, deps.AuditRepo)
	stockGroup.Post("/mutations", RequireRole(entity.RoleAdmin, entity.RoleBodeguero, entity.RoleVendedor), stockHandler.Mutate)
	stockGroup.Post("/mutations/batch", RequireRole(entity.RoleAdmin, entity.RoleBodeguero), stockHandler.BatchMutate)
	stockGroup.Get("/:productID/ledger", stockHandler.ListLedger)

	protected.Get("/audit", RequireRole(entity.RoleAdmin), stockHandler.ListAudit)
}
