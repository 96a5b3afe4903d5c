package workorder

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Demand is one order line waiting for stock
type Demand struct {
	OrderID   uuid.UUID
	StoreID   uuid.UUID
	ProductID uuid.UUID
	Requested decimal.Decimal
	OrderedAt time.Time
}

// Allocated is a demand with the quantity it was given
type Allocated struct {
	Demand
	Quantity decimal.Decimal
}

var one = decimal.NewFromInt(1)

// Allocate decides how much of each demand can be filled from on-hand stock.
//
// A product with enough stock fills every demand in full. Otherwise each
// demand gets floor(onHand × requested / totalRequested) whole units and
// the leftover whole units go one at a time by largest fractional share,
// ties broken by earliest order. The total allocated for a product never
// exceeds its on-hand.
func Allocate(demands []Demand, onHand map[uuid.UUID]decimal.Decimal) []Allocated {
	byProduct := make(map[uuid.UUID][]int)
	order := make([]uuid.UUID, 0)
	for i, d := range demands {
		if _, ok := byProduct[d.ProductID]; !ok {
			order = append(order, d.ProductID)
		}
		byProduct[d.ProductID] = append(byProduct[d.ProductID], i)
	}

	out := make([]Allocated, len(demands))
	for i, d := range demands {
		out[i] = Allocated{Demand: d, Quantity: decimal.Zero}
	}

	for _, productID := range order {
		idx := byProduct[productID]
		stock := onHand[productID]
		if stock.IsNegative() {
			stock = decimal.Zero
		}
		total := decimal.Zero
		for _, i := range idx {
			total = total.Add(demands[i].Requested)
		}
		if total.LessThanOrEqual(stock) {
			for _, i := range idx {
				out[i].Quantity = demands[i].Requested
			}
			continue
		}
		allocateShort(out, idx, stock, total)
	}
	return out
}

func allocateShort(out []Allocated, idx []int, stock, total decimal.Decimal) {
	if total.IsZero() {
		return
	}
	type share struct {
		i         int
		remainder decimal.Decimal
	}
	shares := make([]share, 0, len(idx))
	left := stock.Floor()
	for _, i := range idx {
		exact := stock.Mul(out[i].Requested).Div(total)
		whole := exact.Floor()
		out[i].Quantity = whole
		left = left.Sub(whole)
		shares = append(shares, share{i: i, remainder: exact.Sub(whole)})
	}

	sort.SliceStable(shares, func(a, b int) bool {
		ra, rb := shares[a].remainder, shares[b].remainder
		if !ra.Equal(rb) {
			return ra.GreaterThan(rb)
		}
		return out[shares[a].i].OrderedAt.Before(out[shares[b].i].OrderedAt)
	})
	for left.GreaterThanOrEqual(one) {
		gave := false
		for _, s := range shares {
			if left.LessThan(one) {
				break
			}
			room := out[s.i].Requested.Sub(out[s.i].Quantity)
			if !room.IsPositive() {
				continue
			}
			inc := decimal.Min(one, room)
			out[s.i].Quantity = out[s.i].Quantity.Add(inc)
			left = left.Sub(inc)
			gave = true
		}
		if !gave {
			return
		}
	}
}
