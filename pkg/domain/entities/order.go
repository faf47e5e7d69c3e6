package entities

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// PlannedOrder represents a planned procurement order for one raw material.
// Orders are immutable once the simulator creates them.
type PlannedOrder struct {
	RequirementDate time.Time
	NetRequirement  float64
	OrderQty        float64
	ReleaseDate     time.Time
	ReceiptDate     time.Time
}

// NewPlannedOrder creates a validated PlannedOrder. The release date equals
// the requirement date; the receipt date is release plus lead time.
func NewPlannedOrder(requirementDate time.Time, netRequirement, orderQty float64, leadTimeDays int) (*PlannedOrder, error) {
	if orderQty <= 0 {
		return nil, fmt.Errorf("order quantity must be positive, got %f", orderQty)
	}
	if netRequirement < 0 {
		return nil, fmt.Errorf("net requirement cannot be negative, got %f", netRequirement)
	}
	if leadTimeDays < 0 {
		return nil, fmt.Errorf("lead time cannot be negative, got %d days", leadTimeDays)
	}

	day := Day(requirementDate)
	return &PlannedOrder{
		RequirementDate: day,
		NetRequirement:  netRequirement,
		OrderQty:        orderQty,
		ReleaseDate:     day,
		ReceiptDate:     day.AddDate(0, 0, leadTimeDays),
	}, nil
}

// CostBreakdown represents the cost of one simulated replenishment plan
type CostBreakdown struct {
	OrderingCost  decimal.Decimal
	HoldingCost   decimal.Decimal
	BackorderCost decimal.Decimal
	TotalCost     decimal.Decimal
}

// ZeroCostBreakdown returns an all-zero cost breakdown
func ZeroCostBreakdown() CostBreakdown {
	return CostBreakdown{
		OrderingCost:  decimal.Zero,
		HoldingCost:   decimal.Zero,
		BackorderCost: decimal.Zero,
		TotalCost:     decimal.Zero,
	}
}

// NewCostBreakdown builds a breakdown whose total is the sum of the three
// cost components.
func NewCostBreakdown(ordering, holding, backorder decimal.Decimal) CostBreakdown {
	return CostBreakdown{
		OrderingCost:  ordering,
		HoldingCost:   holding,
		BackorderCost: backorder,
		TotalCost:     ordering.Add(holding).Add(backorder),
	}
}
