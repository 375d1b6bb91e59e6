package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fulfillment-ledger/internal/application/dto"
	"github.com/jhoicas/fulfillment-ledger/internal/application/fulfillment"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
)

// FulfillmentHandler órdenes, asignación y tareas de picking (protegido).
type FulfillmentHandler struct {
	orders   *fulfillment.OrderUseCase
	allocate *fulfillment.AllocateUseCase
	picks    *fulfillment.PickTaskUseCase
}

// NewFulfillmentHandler construye el handler.
func NewFulfillmentHandler(orders *fulfillment.OrderUseCase, allocate *fulfillment.AllocateUseCase, picks *fulfillment.PickTaskUseCase) *FulfillmentHandler {
	return &FulfillmentHandler{orders: orders, allocate: allocate, picks: picks}
}

// GetOrder godoc
// @Summary      Obtener orden con sus líneas
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id} [get]
func (h *FulfillmentHandler) GetOrder(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	order, err := h.orders.Get(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	if !canAccessSite(c, order.SiteID) {
		return forbiddenSite(c)
	}
	return c.JSON(dto.FromOrder(order))
}

// Confirm godoc
// @Summary      Confirmar orden (DRAFT -> CONFIRMED)
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/confirm [post]
func (h *FulfillmentHandler) Confirm(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	if ok, err := h.orderInSite(c, tenantID); !ok {
		return err
	}
	order, err := h.orders.Confirm(c.UserContext(), tenantID, c.Params("id"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromOrder(order))
}

// Allocate godoc
// @Summary      Asignar disponibilidad a las líneas de una orden confirmada
// @Description  Asignación parcial permitida; la orden pasa a ALLOCATED solo si todas las líneas
//
//	quedan cubiertas. Repetir sobre una orden ALLOCATED no cambia nada.
//
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  dto.AllocationResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/allocate [post]
func (h *FulfillmentHandler) Allocate(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	if ok, err := h.orderInSite(c, tenantID); !ok {
		return err
	}
	res, err := h.allocate.Allocate(c.UserContext(), tenantID, c.Params("id"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromAllocation(res))
}

// CreatePickTask godoc
// @Summary      Generar tarea de picking (ALLOCATED -> PICKING)
// @Tags         pick-tasks
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      201  {object}  dto.PickTaskResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/pick-tasks [post]
func (h *FulfillmentHandler) CreatePickTask(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	if ok, err := h.orderInSite(c, tenantID); !ok {
		return err
	}
	task, err := h.picks.CreatePickTask(c.UserContext(), tenantID, c.Params("id"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.FromPickTask(task))
}

// ListPickTasks godoc
// @Summary      Tareas de picking de una orden
// @Tags         pick-tasks
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {array}   dto.PickTaskResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/pick-tasks [get]
func (h *FulfillmentHandler) ListPickTasks(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	if ok, err := h.orderInSite(c, tenantID); !ok {
		return err
	}
	tasks, err := h.picks.ListByOrder(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.PickTaskResponse, 0, len(tasks))
	for i := range tasks {
		out = append(out, dto.FromPickTask(&tasks[i]))
	}
	return c.JSON(out)
}

// Cancel godoc
// @Summary      Cancelar orden
// @Description  Válido desde cualquier estado no terminal; libera reservas y cancela la tarea activa.
// @Tags         orders
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Order ID"
// @Success      200  {object}  dto.SalesOrderResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/cancel [post]
func (h *FulfillmentHandler) Cancel(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	if ok, err := h.orderInSite(c, tenantID); !ok {
		return err
	}
	order, err := h.orders.Cancel(c.UserContext(), tenantID, c.Params("id"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromOrder(order))
}

// Advance godoc
// @Summary      Avanzar orden a PACKED, SHIPPED o DELIVERED
// @Tags         orders
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                   true  "Order ID"
// @Param        body  body      dto.AdvanceOrderRequest  true  "status destino"
// @Success      200   {object}  dto.SalesOrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/orders/{id}/advance [post]
func (h *FulfillmentHandler) Advance(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.AdvanceOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if ok, err := h.orderInSite(c, tenantID); !ok {
		return err
	}
	order, err := h.orders.Advance(c.UserContext(), tenantID, c.Params("id"), entity.OrderStatus(in.Status), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromOrder(order))
}

// StartPickTask godoc
// @Summary      Iniciar tarea de picking (OPEN -> IN_PROGRESS)
// @Tags         pick-tasks
// @Security     Bearer
// @Produce      json
// @Param        id   path      string  true  "Task ID"
// @Success      200  {object}  dto.PickTaskResponse
// @Failure      403  {object}  dto.ErrorResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      409  {object}  dto.ErrorResponse
// @Router       /api/pick-tasks/{id}/start [post]
func (h *FulfillmentHandler) StartPickTask(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	if ok, err := h.taskInSite(c, tenantID); !ok {
		return err
	}
	task, err := h.picks.StartPickTask(c.UserContext(), tenantID, c.Params("id"), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPickTask(task))
}

// CompletePickTask godoc
// @Summary      Completar tarea de picking
// @Description  Mueve lo pickeado a la ubicación de despacho (MOVE por línea) y marca las líneas PICKED.
// @Tags         pick-tasks
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path      string                       true  "Task ID"
// @Param        body  body      dto.CompletePickTaskRequest  true  "staging_location_id (SHIPPING)"
// @Success      200   {object}  dto.PickTaskResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/pick-tasks/{id}/complete [post]
func (h *FulfillmentHandler) CompletePickTask(c *fiber.Ctx) error {
	tenantID, userID := GetTenantID(c), GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.CompletePickTaskRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if ok, err := h.taskInSite(c, tenantID); !ok {
		return err
	}
	task, err := h.picks.CompletePickTask(c.UserContext(), tenantID, c.Params("id"), in.StagingLocationID, userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromPickTask(task))
}

// orderInSite carga la orden de la ruta y verifica que el token alcance su sitio.
// Si devuelve false la respuesta (404 o 403) ya quedó escrita.
func (h *FulfillmentHandler) orderInSite(c *fiber.Ctx, tenantID string) (bool, error) {
	order, err := h.orders.Get(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return false, writeError(c, err)
	}
	if !canAccessSite(c, order.SiteID) {
		return false, forbiddenSite(c)
	}
	return true, nil
}

// taskInSite igual que orderInSite a partir de la tarea de picking.
func (h *FulfillmentHandler) taskInSite(c *fiber.Ctx, tenantID string) (bool, error) {
	task, err := h.picks.Get(c.UserContext(), tenantID, c.Params("id"))
	if err != nil {
		return false, writeError(c, err)
	}
	if !canAccessSite(c, task.SiteID) {
		return false, forbiddenSite(c)
	}
	return true, nil
}
