package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fulfillment-ledger/internal/application/fulfillment"
	"github.com/jhoicas/fulfillment-ledger/internal/application/inventory"
)

// RouterDeps dependencias para el router.
type RouterDeps struct {
	Convert   *inventory.ConversionUseCase
	Ledger    *inventory.LedgerUseCase
	Balances  *inventory.BalanceQueryUseCase
	Orders    *fulfillment.OrderUseCase
	Allocate  *fulfillment.AllocateUseCase
	PickTasks *fulfillment.PickTaskUseCase
	JWTSecret string
}

// Router registra las rutas de la API. Todas requieren Bearer Token.
func Router(app *fiber.App, deps RouterDeps) {
	api := app.Group("/api", AuthMiddleware(deps.JWTSecret))

	anyRole := RequireRole(RoleAdmin, RoleBodeguero, RoleVendedor)
	warehouse := RequireRole(RoleAdmin, RoleBodeguero)
	sales := RequireRole(RoleAdmin, RoleVendedor)

	invHandler := NewInventoryHandler(deps.Convert, deps.Ledger, deps.Balances)
	api.Post("/uom/convert", anyRole, invHandler.Convert)

	inv := api.Group("/inventory")
	inv.Post("/events", warehouse, invHandler.ApplyEvent)
	inv.Get("/events", anyRole, invHandler.ListEvents)
	inv.Get("/balances", anyRole, invHandler.GetBalances)
	inv.Get("/available", anyRole, invHandler.GetAvailable)
	inv.Get("/reconcile", RequireRole(RoleAdmin), invHandler.Reconcile)

	flHandler := NewFulfillmentHandler(deps.Orders, deps.Allocate, deps.PickTasks)
	orders := api.Group("/orders")
	orders.Get("/:id", anyRole, flHandler.GetOrder)
	orders.Post("/:id/confirm", sales, flHandler.Confirm)
	orders.Post("/:id/allocate", anyRole, flHandler.Allocate)
	orders.Post("/:id/pick-tasks", warehouse, flHandler.CreatePickTask)
	orders.Get("/:id/pick-tasks", anyRole, flHandler.ListPickTasks)
	orders.Post("/:id/cancel", sales, flHandler.Cancel)
	orders.Post("/:id/advance", warehouse, flHandler.Advance)

	tasks := api.Group("/pick-tasks")
	tasks.Post("/:id/start", warehouse, flHandler.StartPickTask)
	tasks.Post("/:id/complete", warehouse, flHandler.CompletePickTask)
}
