package http

import (
	"bytes"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/application/ledger"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// InventoryHandler maneja las peticiones HTTP del libro de stock (protegido).
type InventoryHandler struct {
	apply    *ledger.ApplyStockUseCase
	transfer *ledger.TransferStockUseCase
	bulk     *ledger.BulkStockUseCase
	queries  *ledger.BatchQueryUseCase
	lowStock *ledger.LowStockCache
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(
	apply *ledger.ApplyStockUseCase,
	transfer *ledger.TransferStockUseCase,
	bulk *ledger.BulkStockUseCase,
	queries *ledger.BatchQueryUseCase,
	lowStock *ledger.LowStockCache,
) *InventoryHandler {
	return &InventoryHandler{apply: apply, transfer: transfer, bulk: bulk, queries: queries, lowStock: lowStock}
}

// RegisterMovement godoc
// @Summary      Aplicar una operación sobre un lote
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.RegisterMovementRequest  true  "batch_id, kind (RECEIVE|SALE|OUT|RETURN|ADJUSTMENT), quantity, reference"
// @Success      200   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/movements [post]
func (h *InventoryHandler) RegisterMovement(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.RegisterMovementRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.apply.Apply(c.Context(), ledger.ApplyInput{
		TenantID:  tenantID,
		UserID:    userID,
		BatchID:   in.BatchID,
		Kind:      in.Kind,
		Quantity:  in.Quantity,
		Reference: in.Reference,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(dto.MovementResponse{
		BatchID:             res.BatchID,
		BranchID:            res.BranchID,
		NewQuantity:         res.NewQuantity,
		CrossedLowThreshold: res.CrossedLowThreshold,
	})
}

// ReceiveStock godoc
// @Summary      Recepción de compra (crea el lote si no existe)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveStockRequest  true  "medicine_id, branch_id, batch_number, expiry_date, quantity, precios"
// @Success      201   {object}  dto.MovementResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Router       /api/inventory/receipts [post]
func (h *InventoryHandler) ReceiveStock(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.ReceiveStockRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	res, err := h.apply.Receive(c.Context(), ledger.ReceiveInput{
		TenantID:      tenantID,
		UserID:        userID,
		MedicineID:    in.MedicineID,
		BranchID:      in.BranchID,
		BatchNumber:   in.BatchNumber,
		ExpiryDate:    in.ExpiryDate,
		Quantity:      in.Quantity,
		PurchasePrice: in.PurchasePrice,
		RetailPrice:   in.RetailPrice,
		MinStockLevel: in.MinStockLevel,
		Reference:     in.Reference,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MovementResponse{
		BatchID:             res.BatchID,
		BranchID:            res.BranchID,
		NewQuantity:         res.NewQuantity,
		CrossedLowThreshold: res.CrossedLowThreshold,
	})
}

// Transfer godoc
// @Summary      Traslado de stock entre sucursales (preserva el lote)
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.TransferRequest  true  "batch_id, from_branch_id, to_branch_id, quantity"
// @Success      201   {object}  dto.TransferResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [post]
func (h *InventoryHandler) Transfer(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	var in dto.TransferRequest
	if err := c.BodyParser(&in); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_BODY", Message: "cuerpo inválido"})
	}
	t, err := h.transfer.Transfer(c.Context(), ledger.TransferInput{
		TenantID:     tenantID,
		UserID:       userID,
		BatchID:      in.BatchID,
		FromBranchID: in.FromBranchID,
		ToBranchID:   in.ToBranchID,
		Quantity:     in.Quantity,
	})
	if err != nil {
		return mapError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toTransferDTO(t))
}

// ListTransfers godoc
// @Summary      Traslados que tocan una sucursal
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (por defecto la del token)"
// @Param        from       query  string  false  "Desde (RFC3339)"
// @Param        to         query  string  false  "Hasta exclusivo (RFC3339)"
// @Success      200  {array}   dto.TransferResponse
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/transfers [get]
func (h *InventoryHandler) ListTransfers(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	branchID := c.Query("branch_id", GetBranchID(c))

	var from, to *time.Time
	if s := c.Query("from"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (RFC3339)"})
		}
		from = &t
	}
	if s := c.Query("to"); s != "" {
		t, err := time.Parse(time.RFC3339, s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (RFC3339)"})
		}
		to = &t
	}

	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)
	transfers, err := h.queries.ListTransfers(c.Context(), tenantID, branchID, from, to, limit, offset)
	if err != nil {
		return mapError(c, err)
	}
	out := make([]dto.TransferResponse, 0, len(transfers))
	for _, t := range transfers {
		out = append(out, toTransferDTO(t))
	}
	return c.JSON(fiber.Map{"total": len(out), "transfers": out})
}

// GetLowStock godoc
// @Summary      Lotes bajo el umbral mínimo de una sucursal
// @Description  Sirve una vista cacheada con frescura acotada; cualquier
//
//	mutación sobre la sucursal la invalida antes de la siguiente lectura.
//
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (por defecto la del token)"
// @Success      200  {array}   dto.BatchDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/inventory/low-stock [get]
func (h *InventoryHandler) GetLowStock(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	branchID := c.Query("branch_id", GetBranchID(c))

	batches, err := h.lowStock.GetLowStock(c.Context(), tenantID, branchID)
	if err != nil {
		return mapError(c, err)
	}
	out := make([]dto.BatchDTO, 0, len(batches))
	now := time.Now()
	for _, b := range batches {
		out = append(out, toBatchDTO(b, now))
	}
	return c.JSON(fiber.Map{"total": len(out), "batches": out})
}

// GetBatch godoc
// @Summary      Detalle de un lote
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del lote"
// @Success      200  {object}  dto.BatchDTO
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/inventory/batches/{id} [get]
func (h *InventoryHandler) GetBatch(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	b, err := h.queries.GetBatch(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(toBatchDTO(b, time.Now()))
}

// ListBatches godoc
// @Summary      Lotes de una sucursal (paginado)
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (por defecto la del token)"
// @Param        limit      query  int     false  "Tamaño de página (default 100)"
// @Param        offset     query  int     false  "Desplazamiento"
// @Success      200  {array}   dto.BatchDTO
// @Router       /api/inventory/batches [get]
func (h *InventoryHandler) ListBatches(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	branchID := c.Query("branch_id", GetBranchID(c))
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)

	batches, err := h.queries.ListBatches(c.Context(), tenantID, branchID, limit, offset)
	if err != nil {
		return mapError(c, err)
	}
	out := make([]dto.BatchDTO, 0, len(batches))
	now := time.Now()
	for _, b := range batches {
		out = append(out, toBatchDTO(b, now))
	}
	return c.JSON(fiber.Map{"total": len(out), "batches": out})
}

// GetBatchLedger godoc
// @Summary      Asientos del libro de un lote
// @Tags         inventory
// @Security     Bearer
// @Produce      json
// @Param        id      path   string  true   "ID del lote"
// @Param        limit   query  int     false  "Tamaño de página (default 100)"
// @Param        offset  query  int     false  "Desplazamiento"
// @Success      200  {array}  dto.LedgerEntryDTO
// @Router       /api/inventory/batches/{id}/ledger [get]
func (h *InventoryHandler) GetBatchLedger(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	limit := c.QueryInt("limit", 100)
	offset := c.QueryInt("offset", 0)

	entries, err := h.queries.ListLedger(c.Context(), tenantID, c.Params("id"), limit, offset)
	if err != nil {
		return mapError(c, err)
	}
	out := make([]dto.LedgerEntryDTO, 0, len(entries))
	for _, e := range entries {
		out = append(out, dto.LedgerEntryDTO{
			ID:         e.ID,
			BatchID:    e.BatchID,
			MedicineID: e.MedicineID,
			BranchID:   e.BranchID,
			Kind:       e.Kind,
			Quantity:   e.Quantity,
			UnitPrice:  e.UnitPrice,
			Total:      e.Total,
			Reference:  e.Reference,
			OccurredAt: e.OccurredAt,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "entries": out})
}

// ImportStockCSV godoc
// @Summary      Importación masiva de stock (CSV)
// @Description  Cada fila es una recepción independiente; el resultado se
//
//	informa fila a fila y el archivo no es atómico.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       text/csv
// @Produce      json
// @Success      200  {array}   dto.ImportOutcomeDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/inventory/import [post]
func (h *InventoryHandler) ImportStockCSV(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	userID := GetUserID(c)
	if tenantID == "" || userID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	rows, err := ledger.ParseImportCSV(bytes.NewReader(c.Body()))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_CSV", Message: err.Error()})
	}
	outcomes := h.bulk.Import(c.Context(), tenantID, userID, rows)
	out := make([]dto.ImportOutcomeDTO, 0, len(outcomes))
	for _, o := range outcomes {
		out = append(out, dto.ImportOutcomeDTO{Line: o.Line, BatchID: o.BatchID, OK: o.OK, Error: o.Error})
	}
	return c.JSON(fiber.Map{"total": len(out), "outcomes": out})
}

// ExportStockCSV godoc
// @Summary      Exportar el stock vigente de una sucursal como CSV
// @Tags         inventory
// @Security     Bearer
// @Produce      text/csv
// @Param        branch_id  query  string  false  "Sucursal (por defecto la del token)"
// @Success      200  {string}  string
// @Router       /api/inventory/export [get]
func (h *InventoryHandler) ExportStockCSV(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	branchID := c.Query("branch_id", GetBranchID(c))

	c.Set(fiber.HeaderContentType, "text/csv; charset=utf-8")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock.csv"`)
	if err := h.bulk.ExportCSV(c.Context(), tenantID, branchID, c.Response().BodyWriter()); err != nil {
		return mapError(c, err)
	}
	return nil
}

// toBatchDTO proyecta el lote para la API.
func toBatchDTO(b *entity.Batch, now time.Time) dto.BatchDTO {
	return dto.BatchDTO{
		ID:              b.ID,
		MedicineID:      b.MedicineID,
		BranchID:        b.BranchID,
		BatchNumber:     b.BatchNumber,
		ExpiryDate:      b.ExpiryDate,
		QuantityInStock: b.QuantityInStock,
		QuantitySold:    b.QuantitySold,
		QuantityOut:     b.QuantityOut,
		PurchasePrice:   b.PurchasePrice,
		RetailPrice:     b.RetailPrice,
		MinStockLevel:   b.MinStockLevel,
		IsExpired:       b.IsExpired(now),
	}
}

func toTransferDTO(t *entity.StockTransfer) dto.TransferResponse {
	return dto.TransferResponse{
		ID:            t.ID,
		BatchID:       t.BatchID,
		MedicineID:    t.MedicineID,
		BatchNumber:   t.BatchNumber,
		FromBranchID:  t.FromBranchID,
		ToBranchID:    t.ToBranchID,
		Quantity:      t.Quantity,
		TransferredAt: t.TransferredAt,
	}
}
