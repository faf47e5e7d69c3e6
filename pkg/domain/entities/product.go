package entities

import (
	"time"

	"github.com/shopspring/decimal"
)

// ProductID represents a unique finished product identifier
type ProductID string

// Product represents a customer-facing product order line
type Product struct {
	ID             ProductID
	UnitsToDeliver float64
	OnHand         float64
	DueDate        time.Time

	// ReleaseOffsetDays is how many days before the due date the raw
	// materials for this product must be on hand.
	ReleaseOffsetDays int

	PenaltyPerDay decimal.Decimal
}

// NetRequirement returns the units that still have to be produced after
// netting finished-goods stock, floored at zero.
func (p *Product) NetRequirement() float64 {
	net := p.UnitsToDeliver - p.OnHand
	if net < 0 {
		return 0
	}
	return net
}

// BOMLine represents a single bill-of-materials line: one component material
// needed to build one parent product
type BOMLine struct {
	ParentID   ProductID
	MaterialID MaterialID
	QtyPerUnit float64
}
