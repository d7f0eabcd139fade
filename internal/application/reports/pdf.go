package reports

import (
	"context"
	"time"

	"github.com/jhoicas/farmacia-api/internal/application/dto"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

// StockReportData datos consolidados para la representación PDF del estado de
// stock de una sucursal.
type StockReportData struct {
	TenantID    string
	BranchID    string
	GeneratedAt time.Time
	LowStock    []*entity.Batch
	Aging       dto.AgingReportDTO
}

// StockReportPDFGenerator puerto de generación del reporte PDF.
type StockReportPDFGenerator interface {
	GenerateStockReportPDF(ctx context.Context, data StockReportData) ([]byte, error)
}

// StockReportUseCase arma el reporte PDF de stock de una sucursal: lotes bajo
// umbral más la distribución de antigüedad de vencimientos.
type StockReportUseCase struct {
	batchRepo repository.BatchRepository
	reporting *ReportingUseCase
	pdf       StockReportPDFGenerator
}

// NewStockReportUseCase construye el caso de uso.
func NewStockReportUseCase(batchRepo repository.BatchRepository, reporting *ReportingUseCase, pdf StockReportPDFGenerator) *StockReportUseCase {
	return &StockReportUseCase{batchRepo: batchRepo, reporting: reporting, pdf: pdf}
}

// BuildStockReportPDF genera el PDF y devuelve sus bytes.
func (uc *StockReportUseCase) BuildStockReportPDF(ctx context.Context, tenantID, branchID string) ([]byte, error) {
	lowStock, err := uc.batchRepo.ListBelowMinimum(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}
	aging, err := uc.reporting.StockAging(ctx, tenantID, branchID)
	if err != nil {
		return nil, err
	}
	return uc.pdf.GenerateStockReportPDF(ctx, StockReportData{
		TenantID:    tenantID,
		BranchID:    branchID,
		GeneratedAt: time.Now(),
		LowStock:    lowStock,
		Aging:       aging,
	})
}
