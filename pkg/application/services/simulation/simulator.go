package simulation

import (
	"fmt"
	"math"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prodplan/prodplan/pkg/domain/entities"
)

// simState is the running inventory state of one simulation. It is private
// to a single Simulate call and discarded afterwards.
type simState struct {
	onHand    float64
	backorder float64
	onOrder   float64
	// receipts holds at most one pending bucket per date; orders landing on
	// the same day accumulate into that bucket.
	receipts map[time.Time]float64
}

func newSimState(material *entities.Material, start time.Time) *simState {
	state := &simState{
		onHand:   material.OnHand,
		receipts: make(map[time.Time]float64),
	}
	if material.ScheduledReceiptDate != nil && material.ScheduledReceiptQty > 0 {
		// A receipt dated at or before the walk start lands on the first
		// simulated day; otherwise it would sit in the pipeline forever.
		receiptDay := entities.Day(*material.ScheduledReceiptDate)
		if receiptDay.Before(start) {
			receiptDay = start
		}
		state.receipts[receiptDay] += material.ScheduledReceiptQty
		state.onOrder += material.ScheduledReceiptQty
	}
	return state
}

// schedule books a planned receipt into the pipeline
func (s *simState) schedule(date time.Time, qty float64) {
	s.receipts[date] += qty
	s.onOrder += qty
}

// applyReceipts drains the receipt bucket due on the given day. Arriving
// units first offset the backorder balance; the remainder goes on hand.
func (s *simState) applyReceipts(day time.Time) {
	arriving := s.receipts[day]
	if arriving <= 0 {
		return
	}
	s.onOrder -= arriving
	if s.backorder > 0 {
		fulfilled := math.Min(arriving, s.backorder)
		s.backorder -= fulfilled
		arriving -= fulfilled
	}
	s.onHand += arriving
	delete(s.receipts, day)
}

// position is the projected stock used for the ordering decision: physical
// stock plus everything already in the replenishment pipeline, net of the
// backorder liability.
func (s *simState) position() float64 {
	return s.onHand + s.onOrder - s.backorder
}

// consume applies the day's gross requirement: on-hand stock covers what it
// can, any shortage increases the backorder balance. Backorders never clear
// on their own, only future receipts cover them.
func (s *simState) consume(grossReq float64) {
	if s.onHand >= grossReq {
		s.onHand -= grossReq
		return
	}
	s.backorder += grossReq - s.onHand
	s.onHand = 0
}

// Simulator runs the deterministic day-by-day inventory simulation for one
// material under one lot-sizing policy.
type Simulator struct{}

// NewSimulator creates an inventory simulator
func NewSimulator() *Simulator {
	return &Simulator{}
}

// Simulate walks every calendar day from the planning date to the latest
// requirement date and emits the planned orders the policy generates along
// with the ordering/holding/backorder cost breakdown. Starting at the
// planning date rather than the first requirement lets the lead-time
// lookahead release orders early enough to arrive on time. Given identical
// inputs the output is bit-identical. An empty requirement map yields an
// empty plan and all-zero costs.
func (s *Simulator) Simulate(
	asOf time.Time,
	material *entities.Material,
	reqs entities.RequirementMap,
	policy entities.Policy,
) ([]entities.PlannedOrder, entities.CostBreakdown, error) {
	if err := material.Validate(); err != nil {
		return nil, entities.ZeroCostBreakdown(), err
	}

	reqStart, end, ok := reqs.Horizon()
	if !ok {
		return nil, entities.ZeroCostBreakdown(), nil
	}
	start := entities.Day(asOf)
	if reqStart.Before(start) {
		start = reqStart
	}

	state := newSimState(material, start)
	leadTime := material.LeadTimeDays

	holdingCost := decimal.Zero
	backorderCost := decimal.Zero
	ordersPlaced := 0
	backorderRate := material.BackorderCostPerUnitPerDay

	var plan []entities.PlannedOrder
	for day := start; !day.After(end); day = day.AddDate(0, 0, 1) {
		state.applyReceipts(day)

		// Lookahead window of width = lead time, strictly after today.
		var demandDuringLeadTime float64
		if leadTime > 0 {
			demandDuringLeadTime = reqs.SumWindow(day.AddDate(0, 0, 1), day.AddDate(0, 0, leadTime))
		}
		targetOnHand := material.SafetyStock + demandDuringLeadTime

		// Order against projected stock, not bare on-hand, so quantities
		// already in the pipeline are not ordered twice.
		if state.position() < targetOnHand {
			netReq := targetOnHand - state.position()
			if netReq < 0 {
				netReq = 0
			}
			orderQty := policy.Decide(day, netReq, reqs)
			if orderQty > 0 {
				order, err := entities.NewPlannedOrder(day, netReq, orderQty, leadTime)
				if err != nil {
					return nil, entities.ZeroCostBreakdown(), fmt.Errorf("material %s: %w", material.ID, err)
				}
				state.schedule(order.ReceiptDate, orderQty)
				// Zero lead time means immediate delivery: today's receipt
				// bucket was already drained, so apply the order now.
				if !order.ReceiptDate.After(day) {
					state.applyReceipts(day)
				}
				ordersPlaced++
				plan = append(plan, *order)
			}
		}

		state.consume(reqs[day])

		if state.onHand < 0 || state.backorder < 0 {
			return nil, entities.ZeroCostBreakdown(), fmt.Errorf(
				"material %s: inventory balance went negative on %s", material.ID, day.Format("2006-01-02"))
		}

		if state.onHand > 0 {
			holdingCost = holdingCost.Add(decimal.NewFromFloat(state.onHand).Mul(material.HoldingCostPerDay))
		}
		if state.backorder > 0 && backorderRate.IsPositive() {
			backorderCost = backorderCost.Add(decimal.NewFromFloat(state.backorder).Mul(backorderRate))
		}
	}

	orderingCost := material.OrderingCost.Mul(decimal.NewFromInt(int64(ordersPlaced)))
	return plan, entities.NewCostBreakdown(orderingCost, holdingCost, backorderCost), nil
}
