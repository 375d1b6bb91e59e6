package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/fulfillment-ledger/internal/application/dto"
	"github.com/jhoicas/fulfillment-ledger/internal/application/inventory"
	"github.com/jhoicas/fulfillment-ledger/internal/domain/entity"
	domaininv "github.com/jhoicas/fulfillment-ledger/internal/domain/inventory"
)

// InventoryHandler conversión de unidades, ledger y consultas de saldo (protegido).
type InventoryHandler struct {
	convert  *inventory.ConversionUseCase
	ledger   *inventory.LedgerUseCase
	balances *inventory.BalanceQueryUseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(convert *inventory.ConversionUseCase, ledger *inventory.LedgerUseCase, balances *inventory.BalanceQueryUseCase) *InventoryHandler {
	return &InventoryHandler{convert: convert, ledger: ledger, balances: balances}
}

// Convert godoc
// @Summary      Convertir cantidad a la unidad base del ítem
// @Tags         uom
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ConvertRequest  true  "item_id, qty, uom"
// @Success      200   {object}  dto.ConvertResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/uom/convert [post]
func (h *InventoryHandler) Convert(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	var in dto.ConvertRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	qtyBase, err := h.convert.ConvertToBase(c.UserContext(), tenantID, in.ItemID, in.Qty, in.Uom)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.ConvertResponse{ItemID: in.ItemID, Qty: in.Qty, Uom: domaininv.NormalizeCode(in.Uom), QtyBase: qtyBase})
}

// ApplyEvent godoc
// @Summary      Registrar evento de inventario
// @Description  RECEIVE, MOVE, CONSUME, ISSUE, ADJUST o COUNT. Inserta el evento y actualiza
//
//	los saldos en la misma transacción.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body      dto.ApplyEventRequest  true  "evento"
// @Success      201   {object}  dto.ApplyEventResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      403   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Failure      422   {object}  dto.ErrorResponse
// @Router       /api/inventory/events [post]
func (h *InventoryHandler) ApplyEvent(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return unauthorized(c)
	}
	var in dto.ApplyEventRequest
	if err := c.BodyParser(&in); err != nil {
		return badRequest(c, "INVALID_BODY", "cuerpo inválido")
	}
	if !canAccessSite(c, in.SiteID) {
		return forbiddenSite(c)
	}
	res, err := h.ledger.ApplyEvent(c.UserContext(), inventory.EventInput{
		TenantID:       tenantID,
		SiteID:         in.SiteID,
		UserID:         userID,
		Type:           entity.EventType(in.Type),
		ItemID:         in.ItemID,
		Qty:            in.Qty,
		Uom:            in.Uom,
		FromLocationID: in.FromLocationID,
		ToLocationID:   in.ToLocationID,
		LocationID:     in.LocationID,
		Direction:      entity.AdjustDirection(in.Direction),
		ReferenceID:    in.ReferenceID,
		UnitCost:       in.UnitCost,
	})
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.ApplyEventResponse{
		Event:    dto.FromEvent(res.Event),
		Balances: dto.FromBalances(res.Balances),
	})
}

// ListEvents godoc
// @Summary      Historial de eventos de un ítem
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        site_id  query  string  true   "sitio"
// @Param        item_id  query  string  true   "ítem"
// @Param        limit    query  int     false  "últimos N eventos (0 = todos)"
// @Success      200  {array}   dto.InventoryEventResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/events [get]
func (h *InventoryHandler) ListEvents(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	siteID := c.Query("site_id")
	if !canAccessSite(c, siteID) {
		return forbiddenSite(c)
	}
	events, err := h.ledger.ListEvents(c.UserContext(), tenantID, siteID, c.Query("item_id"), c.QueryInt("limit", 0))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(fiber.Map{
		"total":  len(events),
		"events": dto.FromEvents(events),
	})
}

// GetBalances godoc
// @Summary      Saldos de un ítem
// @Description  Con location_id devuelve el saldo de esa ubicación (cero si nunca se tocó);
//
//	sin él, los saldos de todas las ubicaciones del sitio en orden FIFO.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        site_id      query  string  true   "sitio"
// @Param        item_id      query  string  true   "ítem"
// @Param        location_id  query  string  false  "ubicación"
// @Success      200  {array}   dto.BalanceResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/balances [get]
func (h *InventoryHandler) GetBalances(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	siteID, itemID := c.Query("site_id"), c.Query("item_id")
	if !canAccessSite(c, siteID) {
		return forbiddenSite(c)
	}
	if locationID := c.Query("location_id"); locationID != "" {
		qty, err := h.balances.GetBalance(c.UserContext(), entity.BalanceKey{
			TenantID: tenantID, SiteID: siteID, ItemID: itemID, LocationID: locationID,
		})
		if err != nil {
			return writeError(c, err)
		}
		return c.JSON([]dto.BalanceResponse{{LocationID: locationID, QtyBase: qty}})
	}
	list, err := h.balances.ListBalances(c.UserContext(), tenantID, siteID, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromLocationBalances(list))
}

// GetAvailable godoc
// @Summary      Disponibilidad del ítem en ubicaciones asignables
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        site_id  query  string  true  "sitio"
// @Param        item_id  query  string  true  "ítem"
// @Success      200  {object}  dto.AvailableResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/available [get]
func (h *InventoryHandler) GetAvailable(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	siteID, itemID := c.Query("site_id"), c.Query("item_id")
	if !canAccessSite(c, siteID) {
		return forbiddenSite(c)
	}
	qty, err := h.balances.GetAvailableBalance(c.UserContext(), tenantID, siteID, itemID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.AvailableResponse{SiteID: siteID, ItemID: itemID, Available: qty})
}

// Reconcile godoc
// @Summary      Conciliar saldos contra el ledger
// @Description  Reconstruye los saldos del ítem desde sus eventos; lista vacía = sin diferencias.
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        site_id  query  string  true  "sitio"
// @Param        item_id  query  string  true  "ítem"
// @Success      200  {array}   dto.DiscrepancyResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/reconcile [get]
func (h *InventoryHandler) Reconcile(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return unauthorized(c)
	}
	ds, err := h.balances.Reconcile(c.UserContext(), tenantID, c.Query("site_id"), c.Query("item_id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.FromDiscrepancies(ds))
}
