package entities

import (
	"fmt"
	"time"
)

// PolicyKind represents the lot-sizing policy family
type PolicyKind int

const (
	LotForLot PolicyKind = iota
	PeriodOrderQuantity
	EconomicOrderQuantity
)

// String method for PolicyKind enum
func (k PolicyKind) String() string {
	switch k {
	case LotForLot:
		return "LFL"
	case PeriodOrderQuantity:
		return "POQ"
	case EconomicOrderQuantity:
		return "EOQ"
	default:
		return "Unknown"
	}
}

// Policy is a closed lot-sizing variant. PeriodDays is only meaningful for
// POQ and OrderQty only for EOQ.
type Policy struct {
	Kind       PolicyKind
	PeriodDays int
	OrderQty   float64
}

// LotForLotPolicy orders exactly the net requirement
func LotForLotPolicy() Policy {
	return Policy{Kind: LotForLot}
}

// PeriodOrderQuantityPolicy batches all requirements falling within a fixed
// period of days starting today.
func PeriodOrderQuantityPolicy(periodDays int) Policy {
	return Policy{Kind: PeriodOrderQuantity, PeriodDays: periodDays}
}

// EconomicOrderQuantityPolicy orders a fixed precomputed quantity. A zero
// quantity marks a degenerate EOQ that falls back to the net requirement.
func EconomicOrderQuantityPolicy(orderQty float64) Policy {
	return Policy{Kind: EconomicOrderQuantity, OrderQty: orderQty}
}

// Decide returns the quantity to order today given the net requirement and
// the full requirement map. It is a pure function of its inputs.
func (p Policy) Decide(today time.Time, netRequirement float64, reqs RequirementMap) float64 {
	switch p.Kind {
	case PeriodOrderQuantity:
		period := p.PeriodDays
		if period < 1 {
			period = 1
		}
		end := Day(today).AddDate(0, 0, period-1)
		return reqs.SumWindow(Day(today), end)
	case EconomicOrderQuantity:
		if p.OrderQty > 0 {
			return p.OrderQty
		}
		return netRequirement
	default:
		return netRequirement
	}
}

// Label returns the human-facing name used in cost comparison reports
func (p Policy) Label() string {
	switch p.Kind {
	case PeriodOrderQuantity:
		return fmt.Sprintf("POQ (P=%d days)", p.PeriodDays)
	case EconomicOrderQuantity:
		return fmt.Sprintf("EOQ (Order Qty=%.0f)", p.OrderQty)
	default:
		return "LFL"
	}
}
