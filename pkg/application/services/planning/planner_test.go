package planning

import (
	"context"
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prodplan/prodplan/pkg/application/dto"
	"github.com/prodplan/prodplan/pkg/domain/entities"
	"github.com/prodplan/prodplan/pkg/infrastructure/repositories/memory"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func TestEOQQuantityFormula(t *testing.T) {
	material := &entities.Material{
		ID:                "STEEL_ROD",
		OrderingCost:      decimal.NewFromInt(100),
		HoldingCostPerDay: decimal.NewFromInt(1),
		AnnualDemand:      3650,
	}

	// sqrt(2 * 3650 * 100 / 365) = sqrt(2000) = 44.7 -> 45
	qty := eoqQuantity(material, make(entities.RequirementMap))
	if qty != 45 {
		t.Errorf("Expected EOQ of 45, got %f", qty)
	}
}

func TestEOQQuantityExtrapolatesHorizonDemand(t *testing.T) {
	material := &entities.Material{
		ID:                "STEEL_ROD",
		OrderingCost:      decimal.NewFromInt(100),
		HoldingCostPerDay: decimal.NewFromInt(1),
	}
	// 20 units over a 10-day horizon extrapolates to 730 a year:
	// sqrt(2 * 730 * 100 / 365) = sqrt(400) = 20.
	reqs := make(entities.RequirementMap)
	reqs.Add(day(2025, 7, 1), 10)
	reqs.Add(day(2025, 7, 10), 10)

	qty := eoqQuantity(material, reqs)
	if qty != 20 {
		t.Errorf("Expected extrapolated EOQ of 20, got %f", qty)
	}
}

func TestEOQQuantityDegenerateParameters(t *testing.T) {
	material := &entities.Material{ID: "STEEL_ROD", AnnualDemand: 3650}
	reqs := make(entities.RequirementMap)
	reqs.Add(day(2025, 7, 1), 10)

	// Zero ordering and holding costs make the formula incomputable.
	if qty := eoqQuantity(material, reqs); qty != 0 {
		t.Errorf("Expected degenerate EOQ of 0, got %f", qty)
	}
}

func TestSelectWinnerFirstMinimumWins(t *testing.T) {
	lfl := candidate{
		policy: entities.LotForLotPolicy(),
		costs:  entities.CostBreakdown{TotalCost: decimal.NewFromInt(500)},
	}
	poq := candidate{
		policy: entities.PeriodOrderQuantityPolicy(7),
		costs:  entities.CostBreakdown{TotalCost: decimal.NewFromInt(420)},
	}
	eoq := candidate{
		policy: entities.EconomicOrderQuantityPolicy(45),
		costs:  entities.CostBreakdown{TotalCost: decimal.NewFromInt(420)},
	}

	winner := selectWinner(lfl, poq, eoq)
	if winner.policy.Kind != entities.PeriodOrderQuantity {
		t.Errorf("Expected POQ to win the 500/420/420 tie, got %s", winner.policy.Kind)
	}
}

func TestSelectWinnerAllEqualKeepsLFL(t *testing.T) {
	equal := entities.CostBreakdown{TotalCost: decimal.NewFromInt(100)}
	winner := selectWinner(
		candidate{policy: entities.LotForLotPolicy(), costs: equal},
		candidate{policy: entities.PeriodOrderQuantityPolicy(3), costs: equal},
		candidate{policy: entities.EconomicOrderQuantityPolicy(10), costs: equal},
	)
	if winner.policy.Kind != entities.LotForLot {
		t.Errorf("Expected LFL to win a three-way tie, got %s", winner.policy.Kind)
	}
}

func TestPlanMaterialsUnknownMaterialDiagnostic(t *testing.T) {
	repo := memory.NewMaterialRepository(0)
	reqs := make(entities.RequirementMap)
	reqs.Add(day(2025, 7, 10), 50)
	demand := map[entities.MaterialID]entities.RequirementMap{"GHOST": reqs}

	planner := NewPlanner()
	result, err := planner.PlanMaterials(context.Background(), day(2025, 7, 1), demand, repo)
	if err != nil {
		t.Fatalf("Expected unknown materials to surface as diagnostics, got error: %v", err)
	}

	if len(result.MaterialPlans) != 0 {
		t.Errorf("Expected no plans for an unknown material, got %d", len(result.MaterialPlans))
	}
	if len(result.Diagnostics) != 1 {
		t.Fatalf("Expected one diagnostic, got %d", len(result.Diagnostics))
	}
	diag := result.Diagnostics[0]
	if diag.Code != dto.CodeUnknownMaterial {
		t.Errorf("Expected code %s, got %s", dto.CodeUnknownMaterial, diag.Code)
	}
	if diag.MaterialID != "GHOST" {
		t.Errorf("Expected diagnostic for GHOST, got %s", diag.MaterialID)
	}
}

func TestPlanMaterialsProducesSortedPlans(t *testing.T) {
	repo := memory.NewMaterialRepository(2)
	err := repo.LoadMaterials([]*entities.Material{
		{ID: "ZINC", OrderingCost: decimal.NewFromInt(10), LeadTimeDays: 1},
		{ID: "ALUMINUM", OrderingCost: decimal.NewFromInt(10), LeadTimeDays: 1},
	})
	if err != nil {
		t.Fatalf("Failed to load materials: %v", err)
	}

	demand := make(map[entities.MaterialID]entities.RequirementMap)
	for _, id := range []entities.MaterialID{"ZINC", "ALUMINUM"} {
		reqs := make(entities.RequirementMap)
		reqs.Add(day(2025, 7, 10), 40)
		demand[id] = reqs
	}

	planner := NewPlanner()
	result, err := planner.PlanMaterials(context.Background(), day(2025, 7, 1), demand, repo)
	if err != nil {
		t.Fatalf("Planning failed: %v", err)
	}

	if len(result.MaterialPlans) != 2 {
		t.Fatalf("Expected plans for both materials, got %d", len(result.MaterialPlans))
	}
	if result.MaterialPlans[0].MaterialID != "ALUMINUM" || result.MaterialPlans[1].MaterialID != "ZINC" {
		t.Errorf("Expected plans sorted by material id, got %s then %s",
			result.MaterialPlans[0].MaterialID, result.MaterialPlans[1].MaterialID)
	}
	for _, id := range []entities.MaterialID{"ALUMINUM", "ZINC"} {
		if _, ok := result.Availability[id]; !ok {
			t.Errorf("Expected an availability date for %s", id)
		}
	}
}

func TestAvailableFromEarliestReceipt(t *testing.T) {
	material := &entities.Material{ID: "STEEL_ROD"}
	orders := []entities.PlannedOrder{
		{ReceiptDate: day(2025, 7, 12)},
		{ReceiptDate: day(2025, 7, 8)},
		{ReceiptDate: day(2025, 7, 20)},
	}

	got := availableFrom(material, make(entities.RequirementMap), orders, day(2025, 7, 1))
	if got != day(2025, 7, 8) {
		t.Errorf("Expected earliest receipt Jul 8, got %v", got)
	}
}

func TestAvailableFromOnHandFallsBackToToday(t *testing.T) {
	material := &entities.Material{ID: "STEEL_ROD", OnHand: 10}
	reqs := make(entities.RequirementMap)
	reqs.Add(day(2025, 7, 10), 5)

	got := availableFrom(material, reqs, nil, day(2025, 7, 1))
	if got != day(2025, 7, 1) {
		t.Errorf("Expected availability today when stock covers demand, got %v", got)
	}
}

func TestAvailableFromNoStockUsesSentinel(t *testing.T) {
	material := &entities.Material{ID: "STEEL_ROD"}
	reqs := make(entities.RequirementMap)
	reqs.Add(day(2025, 7, 10), 5)

	got := availableFrom(material, reqs, nil, day(2025, 7, 1))
	if got != day(2025, 7, 10).AddDate(0, 0, 365) {
		t.Errorf("Expected sentinel one year past the horizon end, got %v", got)
	}
}
