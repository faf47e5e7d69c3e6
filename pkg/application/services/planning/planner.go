package planning

import (
	"context"
	"fmt"
	"math"
	"runtime"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/prodplan/prodplan/pkg/application/dto"
	"github.com/prodplan/prodplan/pkg/application/services/simulation"
	"github.com/prodplan/prodplan/pkg/domain/entities"
	"github.com/prodplan/prodplan/pkg/domain/repositories"
)

// POQ period search window, inclusive. The bounds and the first-minimum
// tie-break are part of the planning contract.
const (
	poqSearchMinDays = 3
	poqSearchMaxDays = 21
)

// How far past the horizon end an unplannable material is pushed.
const unavailableSentinelDays = 365

// Planner runs the inventory simulation for each material under every
// lot-sizing policy and selects the cheapest plan.
type Planner struct {
	simulator   *simulation.Simulator
	logger      *zap.Logger
	maxParallel int
}

// NewPlanner creates a material planner with a no-op logger
func NewPlanner() *Planner {
	return NewPlannerWithLogger(zap.NewNop())
}

// NewPlannerWithLogger creates a material planner that logs policy selection
func NewPlannerWithLogger(logger *zap.Logger) *Planner {
	return &Planner{
		simulator:   simulation.NewSimulator(),
		logger:      logger,
		maxParallel: runtime.NumCPU(),
	}
}

// candidate is one simulated policy outcome for a material
type candidate struct {
	policy entities.Policy
	orders []entities.PlannedOrder
	costs  entities.CostBreakdown
}

// PlanMaterials plans every material with time-phased demand. Materials are
// independent, so they run on a bounded worker pool; results are sorted by
// material id afterwards so output does not depend on scheduling order.
// Materials missing from the master produce an UNKNOWN_MATERIAL diagnostic
// instead of being silently dropped.
func (p *Planner) PlanMaterials(
	ctx context.Context,
	asOf time.Time,
	demand map[entities.MaterialID]entities.RequirementMap,
	materials repositories.MaterialRepository,
) (*dto.PlanningResult, error) {
	ids := make([]entities.MaterialID, 0, len(demand))
	for id := range demand {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	result := &dto.PlanningResult{
		AsOf:         entities.Day(asOf),
		Availability: make(map[entities.MaterialID]time.Time, len(ids)),
	}

	var mu sync.Mutex
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(p.maxParallel)

	for _, id := range ids {
		id := id
		reqs := demand[id]
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			material, err := materials.GetMaterial(id)
			if err != nil {
				mu.Lock()
				result.Diagnostics = append(result.Diagnostics, dto.Diagnostic{
					Code:       dto.CodeUnknownMaterial,
					MaterialID: id,
					Message:    fmt.Sprintf("material %s required by BOM is missing from the material master", id),
				})
				mu.Unlock()
				return nil
			}

			plan, comparison, err := p.planMaterial(material, reqs, entities.Day(asOf))
			if err != nil {
				return fmt.Errorf("failed to plan material %s: %w", id, err)
			}

			p.logger.Debug("selected lot-sizing policy",
				zap.String("material", string(id)),
				zap.String("policy", plan.PolicyLabel),
				zap.String("total_cost", plan.Costs.TotalCost.String()),
				zap.Int("orders", len(plan.Orders)))

			mu.Lock()
			result.MaterialPlans = append(result.MaterialPlans, *plan)
			result.Comparisons = append(result.Comparisons, *comparison)
			result.Availability[id] = plan.AvailableFrom
			mu.Unlock()
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	sort.Slice(result.MaterialPlans, func(i, j int) bool {
		return result.MaterialPlans[i].MaterialID < result.MaterialPlans[j].MaterialID
	})
	sort.Slice(result.Comparisons, func(i, j int) bool {
		return result.Comparisons[i].MaterialID < result.Comparisons[j].MaterialID
	})
	sort.Slice(result.Diagnostics, func(i, j int) bool {
		return result.Diagnostics[i].MaterialID < result.Diagnostics[j].MaterialID
	})

	p.logger.Info("material planning complete",
		zap.Int("materials", len(result.MaterialPlans)),
		zap.Int("diagnostics", len(result.Diagnostics)))

	return result, nil
}

// planMaterial runs LFL, the POQ period sweep, and EOQ for one material and
// picks the cheapest policy.
func (p *Planner) planMaterial(
	material *entities.Material,
	reqs entities.RequirementMap,
	asOf time.Time,
) (*dto.MaterialPlan, *dto.CostComparison, error) {
	lflOrders, lflCosts, err := p.simulator.Simulate(asOf, material, reqs, entities.LotForLotPolicy())
	if err != nil {
		return nil, nil, err
	}
	lfl := candidate{policy: entities.LotForLotPolicy(), orders: lflOrders, costs: lflCosts}

	poq, err := p.searchPOQ(asOf, material, reqs)
	if err != nil {
		return nil, nil, err
	}

	eoqPolicy := entities.EconomicOrderQuantityPolicy(eoqQuantity(material, reqs))
	eoqOrders, eoqCosts, err := p.simulator.Simulate(asOf, material, reqs, eoqPolicy)
	if err != nil {
		return nil, nil, err
	}
	eoq := candidate{policy: eoqPolicy, orders: eoqOrders, costs: eoqCosts}

	winner := selectWinner(lfl, poq, eoq)

	plan := &dto.MaterialPlan{
		MaterialID:    material.ID,
		Policy:        winner.policy,
		PolicyLabel:   winner.policy.Label(),
		Orders:        winner.orders,
		Costs:         winner.costs,
		AvailableFrom: availableFrom(material, reqs, winner.orders, asOf),
	}
	comparison := &dto.CostComparison{
		MaterialID:        material.ID,
		LFLTotalCost:      lfl.costs.TotalCost,
		POQTotalCost:      poq.costs.TotalCost,
		EOQTotalCost:      eoq.costs.TotalCost,
		BestPOQPeriodDays: poq.policy.PeriodDays,
		EOQOrderQty:       eoqPolicy.OrderQty,
		RecommendedPolicy: winner.policy.Label(),
		WinnerTotalCost:   winner.costs.TotalCost,
	}
	return plan, comparison, nil
}

// searchPOQ sweeps the period over [3, 21], one full simulation per
// candidate, and keeps the first period reaching the minimum total cost.
func (p *Planner) searchPOQ(asOf time.Time, material *entities.Material, reqs entities.RequirementMap) (candidate, error) {
	var best candidate
	found := false
	for period := poqSearchMinDays; period <= poqSearchMaxDays; period++ {
		policy := entities.PeriodOrderQuantityPolicy(period)
		orders, costs, err := p.simulator.Simulate(asOf, material, reqs, policy)
		if err != nil {
			return candidate{}, err
		}
		if !found || costs.TotalCost.LessThan(best.costs.TotalCost) {
			best = candidate{policy: policy, orders: orders, costs: costs}
			found = true
		}
	}
	return best, nil
}

// selectWinner picks the minimum-cost candidate. Strict-less-than comparison
// in LFL, POQ, EOQ order means ties keep the earlier policy.
func selectWinner(lfl, poq, eoq candidate) candidate {
	winner := lfl
	if poq.costs.TotalCost.LessThan(winner.costs.TotalCost) {
		winner = poq
	}
	if eoq.costs.TotalCost.LessThan(winner.costs.TotalCost) {
		winner = eoq
	}
	return winner
}

// eoqQuantity computes the classical economic order quantity, rounded to the
// nearest integer and floored at 1. Annual demand comes from the material
// master when positive; otherwise the horizon demand is extrapolated to a
// 365-day year, or scaled by 12 when the horizon collapses to a single day
// span of zero. Degenerate cost parameters yield 0, which makes the policy
// fall back to ordering the net requirement.
func eoqQuantity(material *entities.Material, reqs entities.RequirementMap) float64 {
	annualDemand := material.AnnualDemand
	if annualDemand <= 0 {
		totalDemand := reqs.Total()
		start, end, ok := reqs.Horizon()
		if !ok {
			return 0
		}
		horizonDays := int(end.Sub(start).Hours()/24) + 1
		if horizonDays > 0 {
			annualDemand = totalDemand / float64(horizonDays) * 365
		} else {
			annualDemand = totalDemand * 12
		}
	}

	orderingCost := material.OrderingCost.InexactFloat64()
	annualHoldingCost := material.HoldingCostPerDay.InexactFloat64() * 365
	if orderingCost <= 0 || annualHoldingCost <= 0 || annualDemand <= 0 {
		return 0
	}

	qty := math.Round(math.Sqrt(2 * annualDemand * orderingCost / annualHoldingCost))
	return math.Max(1, qty)
}

// availableFrom derives the committed-availability date of a material from
// its winning plan: the earliest planned receipt, today when existing stock
// already covers the demand, or a far-future sentinel when the material is
// effectively unavailable.
func availableFrom(
	material *entities.Material,
	reqs entities.RequirementMap,
	orders []entities.PlannedOrder,
	asOf time.Time,
) time.Time {
	var earliest time.Time
	for _, order := range orders {
		if earliest.IsZero() || order.ReceiptDate.Before(earliest) {
			earliest = order.ReceiptDate
		}
	}
	if !earliest.IsZero() {
		return earliest
	}
	if material.OnHand > 0 {
		return asOf
	}
	_, end, ok := reqs.Horizon()
	if !ok {
		return asOf
	}
	return end.AddDate(0, 0, unavailableSentinelDays)
}
