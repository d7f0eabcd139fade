package http

import (
	"github.com/gofiber/fiber/v2"
	"github.com/jhoicas/farmacia-api/internal/application/catalog"
	"github.com/jhoicas/farmacia-api/internal/application/dto"
)

// CatalogHandler lecturas del catálogo (protegido).
type CatalogHandler struct {
	uc *catalog.CatalogUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.CatalogUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// ListBranches godoc
// @Summary      Sucursales del tenant
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Success      200  {array}   map[string]string
// @Failure      401  {object}  dto.ErrorResponse
// @Router       /api/branches [get]
func (h *CatalogHandler) ListBranches(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	branches, err := h.uc.ListBranches(c.Context(), tenantID)
	if err != nil {
		return mapError(c, err)
	}
	out := make([]fiber.Map, 0, len(branches))
	for _, b := range branches {
		out = append(out, fiber.Map{"id": b.ID, "name": b.Name})
	}
	return c.JSON(fiber.Map{"total": len(out), "branches": out})
}

// GetMedicine godoc
// @Summary      Ficha de un medicamento
// @Tags         catalog
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID del medicamento"
// @Success      200  {object}  map[string]string
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/medicines/{id} [get]
func (h *CatalogHandler) GetMedicine(c *fiber.Ctx) error {
	tenantID := GetTenantID(c)
	if tenantID == "" {
		return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{Code: "UNAUTHORIZED", Message: "token inválido"})
	}
	m, err := h.uc.GetMedicine(c.Context(), tenantID, c.Params("id"))
	if err != nil {
		return mapError(c, err)
	}
	return c.JSON(fiber.Map{
		"id":          m.ID,
		"name":        m.Name,
		"composition": m.Composition,
		"barcode":     m.Barcode,
	})
}
