package inventory

import (
	"context"
	"sort"

	"github.com/google/uuid"
)

// StockLocker serializes check-and-reserve per product. Unlock must be
// called with the same ids once the surrounding transaction has finished.
type StockLocker interface {
	Lock(ctx context.Context, productIDs []uuid.UUID) (unlock func(), err error)
}

// SortedUnique returns ids deduplicated and in a stable order so that every
// caller acquires product locks in the same sequence.
func SortedUnique(ids []uuid.UUID) []uuid.UUID {
	seen := make(map[uuid.UUID]struct{}, len(ids))
	out := make([]uuid.UUID, 0, len(ids))
	for _, id := range ids {
		if _, ok := seen[id]; ok {
			continue
		}
		seen[id] = struct{}{}
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].String() < out[j].String() })
	return out
}
