package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/suplementos-api/internal/application/auth"
	"github.com/jhoicas/suplementos-api/internal/application/inventory"
	"github.com/jhoicas/suplementos-api/internal/application/receiving"
	"github.com/jhoicas/suplementos-api/internal/application/reports"
	"github.com/jhoicas/suplementos-api/internal/application/sales"
	"github.com/jhoicas/suplementos-api/internal/application/transfers"
	"github.com/jhoicas/suplementos-api/internal/application/usecase"
	"github.com/jhoicas/suplementos-api/internal/domain/entity"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	AuthUC        *auth.AuthUseCase
	UserUC        *usecase.UserUseCase
	ProductUC     *usecase.ProductUseCase
	FlavorUC      *usecase.FlavorUseCase
	StoreUC       *usecase.StoreUseCase
	SupplierUC    *usecase.SupplierUseCase
	BatchUC       *inventory.BatchUseCase
	Engine        *inventory.Engine
	Replenishment *inventory.ReplenishmentUseCase
	GRNUC         *receiving.GRNUseCase
	SaleUC        *sales.SaleUseCase
	ReceiptUC     *sales.ReceiptUseCase
	TransferUC    *transfers.TransferUseCase
	ReportUC      *reports.ReportUseCase
	ExportUC      *reports.ExportUseCase
	JWTSecret     string
}

// Router registra las rutas de la API.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api")
	adminOnly := RequireRole(entity.RoleAdmin)
	anyRole := RequireRole(entity.RoleAdmin, entity.RoleStaff)

	// Auth (login público)
	authHandler := NewAuthHandler(deps.AuthUC, deps.UserUC)
	api.Post("/auth/login", authHandler.Login)

	// Rutas protegidas (requieren Bearer Token)
	protected := api.Group("/", AuthMiddleware(deps.JWTSecret), anyRole)
	protected.Get("/auth/me", authHandler.Me)
	protected.Post("/auth/register", adminOnly, authHandler.Register)

	users := protected.Group("/users", adminOnly)
	users.Get("/", authHandler.ListUsers)
	users.Get("/:id", authHandler.GetUser)
	users.Put("/:id/active", authHandler.SetUserActive)

	// Catálogo: lectura para todos, escritura solo admin
	productHandler := NewProductHandler(deps.ProductUC, deps.FlavorUC)
	products := protected.Group("/products")
	products.Get("/", productHandler.List)
	products.Get("/:id", productHandler.GetByID)
	products.Post("/", adminOnly, productHandler.Create)
	products.Put("/:id", adminOnly, productHandler.Update)
	products.Delete("/:id", adminOnly, productHandler.Delete)
	products.Get("/:id/flavors", productHandler.ListProductFlavors)
	products.Post("/:id/flavors", adminOnly, productHandler.AddFlavor)
	products.Delete("/:id/flavors/:product_flavor_id", adminOnly, productHandler.RemoveFlavor)

	flavors := protected.Group("/flavors")
	flavors.Get("/", productHandler.ListFlavors)
	flavors.Post("/", adminOnly, productHandler.CreateFlavor)
	flavors.Put("/:id", adminOnly, productHandler.UpdateFlavor)
	flavors.Delete("/:id", adminOnly, productHandler.DeleteFlavor)

	storeHandler := NewStoreHandler(deps.StoreUC, deps.SupplierUC)
	stores := protected.Group("/stores")
	stores.Get("/", storeHandler.List)
	stores.Get("/:id", storeHandler.GetByID)
	stores.Post("/", adminOnly, storeHandler.Create)
	stores.Put("/:id", adminOnly, storeHandler.Update)
	stores.Delete("/:id", adminOnly, storeHandler.Delete)

	suppliers := protected.Group("/suppliers")
	suppliers.Get("/", storeHandler.ListSuppliers)
	suppliers.Get("/:id", storeHandler.GetSupplier)
	suppliers.Post("/", adminOnly, storeHandler.CreateSupplier)
	suppliers.Put("/:id", adminOnly, storeHandler.UpdateSupplier)

	// Inventario
	inventoryHandler := NewInventoryHandler(deps.BatchUC, deps.Engine, deps.Replenishment, deps.ExportUC, deps.ReportUC)
	batches := protected.Group("/batches")
	batches.Get("/", inventoryHandler.ListBatches)
	batches.Get("/:id", inventoryHandler.GetBatch)
	batches.Post("/", adminOnly, inventoryHandler.CreateBatch)
	batches.Put("/:id", adminOnly, inventoryHandler.UpdateBatch)
	batches.Post("/:id/adjust", adminOnly, inventoryHandler.AdjustBatch)

	invGroup := protected.Group("/inventory")
	invGroup.Post("/deduct", adminOnly, inventoryHandler.Deduct)
	invGroup.Post("/credit", adminOnly, inventoryHandler.Credit)
	invGroup.Get("/average-cost", inventoryHandler.AverageCost)
	invGroup.Get("/ledger", inventoryHandler.Ledger)
	invGroup.Get("/expired", inventoryHandler.Expired)
	invGroup.Get("/expiring", inventoryHandler.ExpiringSoon)
	invGroup.Get("/replenishment-list", inventoryHandler.GetReplenishmentList)
	invGroup.Get("/export", inventoryHandler.Export)

	// Documentos
	grnHandler := NewGRNHandler(deps.GRNUC, deps.ReportUC)
	grns := protected.Group("/grns")
	grns.Post("/", grnHandler.Create)
	grns.Get("/", grnHandler.List)
	grns.Get("/:id", grnHandler.Get)
	grns.Put("/:id", grnHandler.Update)
	grns.Delete("/:id", grnHandler.Delete)
	grns.Post("/:id/verify", grnHandler.Verify)
	grns.Post("/:id/complete", grnHandler.Complete)

	saleHandler := NewSaleHandler(deps.SaleUC, deps.ReceiptUC, deps.ReportUC)
	salesGroup := protected.Group("/sales")
	salesGroup.Post("/", saleHandler.Create)
	salesGroup.Get("/", saleHandler.List)
	salesGroup.Get("/:id", saleHandler.Get)
	salesGroup.Put("/:id", saleHandler.Update)
	salesGroup.Post("/:id/void", adminOnly, saleHandler.Void)
	salesGroup.Get("/:id/receipt", saleHandler.Receipt)

	transferHandler := NewTransferHandler(deps.TransferUC, deps.ReportUC)
	transfersGroup := protected.Group("/transfers")
	transfersGroup.Post("/", transferHandler.Create)
	transfersGroup.Get("/", transferHandler.List)
	transfersGroup.Get("/:id", transferHandler.Get)
	transfersGroup.Put("/:id", transferHandler.Update)
	transfersGroup.Post("/:id/approve", adminOnly, transferHandler.Approve)
	transfersGroup.Post("/:id/cancel", transferHandler.Cancel)

	// Reportes
	reportHandler := NewReportHandler(deps.ReportUC)
	reportsGroup := protected.Group("/reports")
	reportsGroup.Get("/inventory-summary", reportHandler.InventorySummary)
	reportsGroup.Get("/sales-summary", reportHandler.SalesSummary)
	reportsGroup.Get("/grn-summary", reportHandler.GRNSummary)
}
