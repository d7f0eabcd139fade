package ledger

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/jhoicas/farmacia-api/internal/domain/repository"
)

// ImportRow una fila de importación masiva de stock (una recepción).
type ImportRow struct {
	MedicineID    string
	BranchID      string
	BatchNumber   string
	ExpiryDate    time.Time
	Quantity      int64
	PurchasePrice decimal.Decimal
	RetailPrice   decimal.Decimal
	MinStockLevel int64
}

// RowOutcome resultado individual de una fila importada. La importación no es
// atómica a nivel de archivo: cada fila entra o falla por sí sola.
type RowOutcome struct {
	Line    int
	BatchID string
	OK      bool
	Error   string
}

// BulkStockUseCase importación y exportación masiva de stock por sucursal.
type BulkStockUseCase struct {
	apply     *ApplyStockUseCase
	batchRepo repository.BatchRepository
}

// NewBulkStockUseCase construye el caso de uso.
func NewBulkStockUseCase(apply *ApplyStockUseCase, batchRepo repository.BatchRepository) *BulkStockUseCase {
	return &BulkStockUseCase{apply: apply, batchRepo: batchRepo}
}

// Import aplica cada fila como una recepción independiente y devuelve el
// resultado fila a fila, en el orden de entrada.
func (uc *BulkStockUseCase) Import(ctx context.Context, tenantID, userID string, rows []ImportRow) []RowOutcome {
	outcomes := make([]RowOutcome, 0, len(rows))
	for i, row := range rows {
		outcome := RowOutcome{Line: i + 1}
		res, err := uc.apply.Receive(ctx, ReceiveInput{
			TenantID:      tenantID,
			UserID:        userID,
			MedicineID:    row.MedicineID,
			BranchID:      row.BranchID,
			BatchNumber:   row.BatchNumber,
			ExpiryDate:    row.ExpiryDate,
			Quantity:      row.Quantity,
			PurchasePrice: row.PurchasePrice,
			RetailPrice:   row.RetailPrice,
			MinStockLevel: row.MinStockLevel,
			Reference:     "import",
		})
		if err != nil {
			outcome.Error = err.Error()
		} else {
			outcome.OK = true
			outcome.BatchID = res.BatchID
		}
		outcomes = append(outcomes, outcome)
	}
	return outcomes
}

// csvDateLayout formato de fecha de los archivos de importación/exportación.
const csvDateLayout = "2006-01-02"

// ParseImportCSV lee un CSV con encabezado
// medicine_id,branch_id,batch_number,expiry_date,quantity,purchase_price,retail_price,min_stock_level
// y devuelve las filas. Errores de formato cortan el parseo (el archivo
// malformado se rechaza entero; las fallas por fila ocurren recién al aplicar).
func ParseImportCSV(r io.Reader) ([]ImportRow, error) {
	reader := csv.NewReader(r)
	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("leer csv: %w", err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("csv sin filas de datos")
	}

	rows := make([]ImportRow, 0, len(records)-1)
	for i, rec := range records[1:] {
		if len(rec) < 8 {
			return nil, fmt.Errorf("fila %d: se esperaban 8 columnas, hay %d", i+2, len(rec))
		}
		expiry, err := time.Parse(csvDateLayout, rec[3])
		if err != nil {
			return nil, fmt.Errorf("fila %d: fecha de vencimiento inválida: %w", i+2, err)
		}
		qty, err := strconv.ParseInt(rec[4], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("fila %d: cantidad inválida: %w", i+2, err)
		}
		purchase, err := decimal.NewFromString(rec[5])
		if err != nil {
			return nil, fmt.Errorf("fila %d: precio de compra inválido: %w", i+2, err)
		}
		retail, err := decimal.NewFromString(rec[6])
		if err != nil {
			return nil, fmt.Errorf("fila %d: precio de venta inválido: %w", i+2, err)
		}
		minLevel, err := strconv.ParseInt(rec[7], 10, 64)
		if err != nil {
			return nil, fmt.Errorf("fila %d: stock mínimo inválido: %w", i+2, err)
		}
		rows = append(rows, ImportRow{
			MedicineID:    rec[0],
			BranchID:      rec[1],
			BatchNumber:   rec[2],
			ExpiryDate:    expiry,
			Quantity:      qty,
			PurchasePrice: purchase,
			RetailPrice:   retail,
			MinStockLevel: minLevel,
		})
	}
	return rows, nil
}

// exportPageSize tamaño de página al paginar lotes para exportación.
const exportPageSize = 500

// ExportCSV escribe el stock vigente de la sucursal como CSV en w.
func (uc *BulkStockUseCase) ExportCSV(ctx context.Context, tenantID, branchID string, w io.Writer) error {
	writer := csv.NewWriter(w)
	if err := writer.Write([]string{
		"medicine_id", "batch_number", "expiry_date",
		"quantity_in_stock", "quantity_sold", "quantity_out",
		"purchase_price", "retail_price", "min_stock_level",
	}); err != nil {
		return fmt.Errorf("escribir encabezado csv: %w", err)
	}

	for offset := 0; ; offset += exportPageSize {
		batches, err := uc.batchRepo.ListByBranch(ctx, tenantID, branchID, exportPageSize, offset)
		if err != nil {
			return err
		}
		for _, b := range batches {
			if err := writer.Write([]string{
				b.MedicineID,
				b.BatchNumber,
				b.ExpiryDate.Format(csvDateLayout),
				strconv.FormatInt(b.QuantityInStock, 10),
				strconv.FormatInt(b.QuantitySold, 10),
				strconv.FormatInt(b.QuantityOut, 10),
				b.PurchasePrice.String(),
				b.RetailPrice.String(),
				strconv.FormatInt(b.MinStockLevel, 10),
			}); err != nil {
				return fmt.Errorf("escribir fila csv: %w", err)
			}
		}
		if len(batches) < exportPageSize {
			break
		}
	}

	writer.Flush()
	return writer.Error()
}
