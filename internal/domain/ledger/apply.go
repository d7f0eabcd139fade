package ledger

import (
	"github.com/jhoicas/farmacia-api/internal/domain"
	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// Result resume el efecto de una operación aplicada sobre un lote.
type Result struct {
	NewQuantity         int64
	StockDelta          int64 // delta efectivo sobre QuantityInStock (con signo)
	CrossedLowThreshold bool  // transición de >= mínimo a < mínimo en esta llamada
}

// Apply aplica una operación del libro sobre el lote en memoria (servicio de
// dominio puro, sin persistencia). Convención de signos:
//
//	RECEIVE / RETURN            -> suma a QuantityInStock
//	SALE / OUT                  -> resta de QuantityInStock y acumula en
//	                               QuantitySold / QuantityOut
//	ADJUSTMENT                  -> quantity con signo sobre QuantityInStock
//
// quantity debe ser > 0 salvo para ADJUSTMENT, que admite signo. RETURN revierte
// una venta: decrementa QuantitySold simétricamente y no puede exceder lo vendido.
// Si el resultado dejara el stock negativo retorna ErrInsufficientStock y el
// lote queda intacto (no hay aplicación parcial).
func Apply(b *entity.Batch, kind string, quantity int64) (Result, error) {
	if kind != entity.KindAdjustment && quantity <= 0 {
		return Result{}, domain.ErrInvalidInput
	}

	var delta int64
	switch kind {
	case entity.KindReceive:
		delta = quantity
	case entity.KindReturn:
		if quantity > b.QuantitySold {
			return Result{}, domain.ErrInvalidInput
		}
		delta = quantity
	case entity.KindSale, entity.KindOut:
		delta = -quantity
	case entity.KindAdjustment:
		if quantity == 0 {
			return Result{}, domain.ErrInvalidInput
		}
		delta = quantity
	default:
		return Result{}, domain.ErrInvalidInput
	}

	newQty := b.QuantityInStock + delta
	if newQty < 0 {
		return Result{}, domain.ErrInsufficientStock
	}

	crossed := b.QuantityInStock >= b.MinStockLevel && newQty < b.MinStockLevel

	switch kind {
	case entity.KindSale:
		b.QuantitySold += quantity
	case entity.KindOut:
		b.QuantityOut += quantity
	case entity.KindReturn:
		b.QuantitySold -= quantity
	}
	b.QuantityInStock = newQty

	return Result{NewQuantity: newQty, StockDelta: delta, CrossedLowThreshold: crossed}, nil
}

// ConservationSum calcula el invariante de conservación del lote:
// stock + vendido + salidas. Con devoluciones descontadas de QuantitySold,
// la suma debe igualar el total de entradas (RECEIVE más ajustes netos)
// aplicadas en la historia del lote.
func ConservationSum(b *entity.Batch) int64 {
	return b.QuantityInStock + b.QuantitySold + b.QuantityOut
}
