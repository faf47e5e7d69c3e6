package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// MaterialID represents a unique raw material identifier
type MaterialID string

// Material represents a raw material master record with its cost and
// replenishment attributes
type Material struct {
	ID                         MaterialID
	OrderingCost               decimal.Decimal
	HoldingCostPerDay          decimal.Decimal
	BackorderCostPerUnitPerDay decimal.Decimal
	LeadTimeDays               int
	SafetyStock                float64
	OnHand                     float64

	// Optional single scheduled receipt already committed with a supplier.
	ScheduledReceiptDate *time.Time
	ScheduledReceiptQty  float64

	// Optional annual demand used by the EOQ policy. Zero means "estimate
	// from the planning horizon".
	AnnualDemand float64
}

// Validate checks the material master invariants
func (m *Material) Validate() error {
	if m.ID == "" {
		return fmt.Errorf("material id cannot be empty")
	}
	if m.LeadTimeDays < 0 {
		return fmt.Errorf("material %s: lead time must be >= 0 days, got %d", m.ID, m.LeadTimeDays)
	}
	if m.OrderingCost.IsNegative() || m.HoldingCostPerDay.IsNegative() || m.BackorderCostPerUnitPerDay.IsNegative() {
		return fmt.Errorf("material %s: cost rates must be >= 0", m.ID)
	}
	if m.SafetyStock < 0 || m.OnHand < 0 {
		return fmt.Errorf("material %s: stock levels must be >= 0", m.ID)
	}
	return nil
}

// Day truncates a timestamp to its calendar day in UTC. All requirement
// map keys and simulated dates are day-truncated.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// RequirementMap maps calendar dates to gross requirement quantities for one
// material. Dates need not be contiguous; the simulator fills gaps with zero.
type RequirementMap map[time.Time]float64

// Add accumulates a gross requirement on a calendar day
func (r RequirementMap) Add(date time.Time, qty float64) {
	r[Day(date)] += qty
}

// Horizon returns the earliest and latest requirement dates. ok is false
// when the map is empty.
func (r RequirementMap) Horizon() (start, end time.Time, ok bool) {
	for d := range r {
		if !ok {
			start, end, ok = d, d, true
			continue
		}
		if d.Before(start) {
			start = d
		}
		if d.After(end) {
			end = d
		}
	}
	return start, end, ok
}

// SumWindow sums gross requirements with dates in [from, to], both inclusive
func (r RequirementMap) SumWindow(from, to time.Time) float64 {
	var total float64
	for d, q := range r {
		if !d.Before(from) && !d.After(to) {
			total += q
		}
	}
	return total
}

// Total sums all gross requirements over the full horizon
func (r RequirementMap) Total() float64 {
	var total float64
	for _, q := range r {
		total += q
	}
	return total
}
