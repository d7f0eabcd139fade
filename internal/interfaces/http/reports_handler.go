package http

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/application/reports"
)

// ReportsHandler maneja las peticiones HTTP del feed de reportes (protegido).
type ReportsHandler struct {
	reporting   *reports.ReportingUseCase
	stockReport *reports.StockReportUseCase
}

// NewReportsHandler construye el handler. stockReport puede ser nil si no hay
// generador de PDF configurado.
func NewReportsHandler(reporting *reports.ReportingUseCase, stockReport *reports.StockReportUseCase) *ReportsHandler {
	return &ReportsHandler{reporting: reporting, stockReport: stockReport}
}

// StockAging godoc
// @Summary      Antigüedad de stock por buckets de vencimiento
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (por defecto la del token)"
// @Success      200  {object}  dto.AgingReportDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-aging [get]
func (h *ReportsHandler) StockAging(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	branchID := c.Query("branch_id", GetBranchID(c))
	report, err := h.reporting.StockAging(c.Context(), tenantID, branchID)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(report)
}

// DailySales godoc
// @Summary      Resumen de ventas de un día calendario (UTC)
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (por defecto la del token)"
// @Param        date       query  string  false  "Día (YYYY-MM-DD, por defecto hoy)"
// @Success      200  {object}  dto.DailySalesDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/daily-sales [get]
func (h *ReportsHandler) DailySales(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	branchID := c.Query("branch_id", GetBranchID(c))

	date := time.Now().UTC()
	if s := c.Query("date"); s != "" {
		d, err := time.Parse("2006-01-02", s)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "date inválido (YYYY-MM-DD)"})
		}
		date = d
	}

	report, err := h.reporting.DailySales(c.Context(), tenantID, branchID, date)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(report)
}

// ProfitLoss godoc
// @Summary      Ingresos, costo y utilidad de un rango de fechas
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        branch_id  query  string  false  "Sucursal (por defecto la del token)"
// @Param        from       query  string  true   "Desde (YYYY-MM-DD, inclusivo)"
// @Param        to         query  string  true   "Hasta (YYYY-MM-DD, exclusivo)"
// @Success      200  {object}  dto.ProfitLossDTO
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/reports/profit-loss [get]
func (h *ReportsHandler) ProfitLoss(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	branchID := c.Query("branch_id", GetBranchID(c))

	from, err := time.Parse("2006-01-02", c.Query("from"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "from inválido (YYYY-MM-DD)"})
	}
	to, err := time.Parse("2006-01-02", c.Query("to"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "to inválido (YYYY-MM-DD)"})
	}

	report, err := h.reporting.ProfitLoss(c.Context(), tenantID, branchID, from, to)
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(report)
}

// MedicinePerformance godoc
// @Summary      Desempeño acumulado de venta de un medicamento
// @Tags         reports
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del medicamento"
// @Success      200  {object}  dto.MedicinePerformanceDTO
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/reports/medicines/{id}/performance [get]
func (h *ReportsHandler) MedicinePerformance(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	report, err := h.reporting.MedicinePerformance(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(report)
}

// StockReportPDF godoc
// @Summary      Reporte PDF del estado de stock de una sucursal
// @Tags         reports
// @Security     Bearer
// @Produce      application/pdf
// @Param        branch_id  query  string  false  "Sucursal (por defecto la del token)"
// @Success      200  {string}  string
// @Failure      503  {object}  dto.ErrorResponse
// @Router       /api/reports/stock-pdf [get]
func (h *ReportsHandler) StockReportPDF(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	if h.stockReport == nil {
		return c.Status(fiber.StatusServiceUnavailable).JSON(dto.ErrorResponse{Code: "PDF_UNAVAILABLE", Message: "generador de PDF no configurado"})
	}
	branchID := c.Query("branch_id", GetBranchID(c))

	pdfBytes, err := h.stockReport.BuildStockReportPDF(c.Context(), tenantID, branchID)
	if err != nil {
		return mapError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="stock-report.pdf"`)
	return c.Send(pdfBytes)
}
