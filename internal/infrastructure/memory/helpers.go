package memory

import (
	"sort"

	"github.com/jhoicas/farmacia-api/internal/domain/entity"
)

// sortBatches ordena por vencimiento ascendente (FEFO) y desempata por ID para
// que los listados sean deterministas.
func sortBatches(batches []*entity.Batch) {
	sort.Slice(batches, func(i, j int) bool {
		if !batches[i].ExpiryDate.Equal(batches[j].ExpiryDate) {
			return batches[i].ExpiryDate.Before(batches[j].ExpiryDate)
		}
		return batches[i].ID < batches[j].ID
	})
}

func paginate[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return nil
	}
	items = items[offset:]
	if limit > 0 && limit < len(items) {
		items = items[:limit]
	}
	return items
}
