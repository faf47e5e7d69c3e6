package scheduling

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/prodplan/prodplan/pkg/domain/entities"
	"github.com/prodplan/prodplan/pkg/infrastructure/repositories/memory"
)

func day(year int, month time.Month, d int) time.Time {
	return time.Date(year, month, d, 0, 0, 0, 0, time.UTC)
}

func findConstraint(t *testing.T, model *entities.ScheduleModel, name string) entities.Constraint {
	t.Helper()
	for _, c := range model.Constraints {
		if c.Name == name {
			return c
		}
	}
	t.Fatalf("constraint %s not found", name)
	return entities.Constraint{}
}

func hasConstraint(model *entities.ScheduleModel, name string) bool {
	for _, c := range model.Constraints {
		if c.Name == name {
			return true
		}
	}
	return false
}

func testProduct(id entities.ProductID, demand float64, due time.Time) *entities.Product {
	return &entities.Product{
		ID:             id,
		UnitsToDeliver: demand,
		DueDate:        due,
		PenaltyPerDay:  decimal.NewFromInt(240),
	}
}

func testMachine(id entities.MachineID, capacity float64) *entities.Machine {
	return &entities.Machine{
		ID:                    id,
		OpCostPerHour:         decimal.NewFromInt(80),
		CycleTimeHours:        2,
		CapacityUnitsPerBatch: capacity,
		PreMaintenanceHours:   0.5,
		PostMaintenanceHours:  0.5,
	}
}

func TestMaxFeasibleCycles(t *testing.T) {
	products := []*entities.Product{testProduct("P1", 100, day(2025, 7, 10))}
	machines := []*entities.Machine{
		testMachine("M1", 20),
		testMachine("M2", 0),
	}

	cycles := maxFeasibleCycles(products, machines)
	assert.Equal(t, 5, cycles[pairKey{Product: "P1", Machine: "M1"}])
	assert.Equal(t, 0, cycles[pairKey{Product: "P1", Machine: "M2"}], "zero capacity allows no cycles")
}

func TestMachineTimeBigM(t *testing.T) {
	products := []*entities.Product{testProduct("P1", 100, day(2025, 7, 10))}
	machines := []*entities.Machine{testMachine("M1", 20)}

	cycles := maxFeasibleCycles(products, machines)
	bigM := machineTimeBigM(products, machines, cycles)

	// 5 cycles * 2h + 1 product * 1h maintenance + 1h margin.
	assert.InDelta(t, 12.0, bigM["M1"], 1e-9)
}

func TestBuildModelShape(t *testing.T) {
	asOf := day(2025, 7, 1)
	products := []*entities.Product{testProduct("P1", 100, day(2025, 7, 10))}
	machines := []*entities.Machine{testMachine("M1", 20)}
	materials := memory.NewMaterialRepository(0)

	built, err := NewModelBuilder().Build(asOf, products, machines, nil, nil, nil, materials)
	require.NoError(t, err)

	// 3 pair variables plus CT and L per product.
	assert.Len(t, built.Model.Variables, 5)
	assert.True(t, built.Model.Objective.Minimize)

	coverage := findConstraint(t, built.Model, "demand[P1]")
	assert.Equal(t, entities.GreaterOrEqual, coverage.Sense)
	assert.Equal(t, 100.0, coverage.RHS, "demand coverage uses gross units to deliver")

	capacity := findConstraint(t, built.Model, "capacity[P1,M1]")
	require.Len(t, capacity.Terms, 2)
	assert.Equal(t, -20.0, capacity.Terms[1].Coefficient)

	activation := findConstraint(t, built.Model, "activation[P1,M1]")
	require.Len(t, activation.Terms, 2)
	assert.Equal(t, -5.0, activation.Terms[1].Coefficient, "activation bound is ceil(100/20)")

	lateness := findConstraint(t, built.Model, "lateness[P1]")
	assert.Equal(t, -216.0, lateness.RHS, "9 days to the due date is 216 hours")
}

func TestBuildEligibilityForcesZeroAssignment(t *testing.T) {
	asOf := day(2025, 7, 1)
	products := []*entities.Product{testProduct("P1", 40, day(2025, 7, 10))}
	machines := []*entities.Machine{testMachine("M1", 20), testMachine("M2", 20)}
	materials := memory.NewMaterialRepository(0)

	eligibility := entities.NewEligibilityMatrix()
	eligibility.Set("P1", "M2", false)

	built, err := NewModelBuilder().Build(asOf, products, machines, nil, eligibility, nil, materials)
	require.NoError(t, err)

	assert.False(t, hasConstraint(built.Model, "eligibility[P1,M1]"), "allowed pairs get no eligibility constraint")

	forbidden := findConstraint(t, built.Model, "eligibility[P1,M2]")
	assert.Equal(t, entities.LessOrEqual, forbidden.Sense)
	assert.Equal(t, 0.0, forbidden.RHS)
	require.Len(t, forbidden.Terms, 1)
	assert.Equal(t, 1.0, forbidden.Terms[0].Coefficient)
}

func TestBuildMaterialReadinessBound(t *testing.T) {
	asOf := day(2025, 7, 1)
	products := []*entities.Product{testProduct("P1", 40, day(2025, 7, 10))}
	machines := []*entities.Machine{testMachine("M1", 20)}
	bomLines := []*entities.BOMLine{
		{ParentID: "P1", MaterialID: "STEEL_ROD", QtyPerUnit: 1},
	}
	availability := map[entities.MaterialID]time.Time{
		"STEEL_ROD": day(2025, 7, 5),
	}
	materials := memory.NewMaterialRepository(0)

	built, err := NewModelBuilder().Build(asOf, products, machines, bomLines, nil, availability, materials)
	require.NoError(t, err)

	ready := findConstraint(t, built.Model, "material_ready[P1]")
	assert.Equal(t, entities.GreaterOrEqual, ready.Sense)
	assert.Equal(t, 96.0, ready.RHS, "material available 4 days out means 96 hours")
}

func TestBuildUnplannedMaterialUsesSentinel(t *testing.T) {
	asOf := day(2025, 7, 1)
	products := []*entities.Product{testProduct("P1", 40, day(2025, 7, 10))}
	machines := []*entities.Machine{testMachine("M1", 20)}
	bomLines := []*entities.BOMLine{
		{ParentID: "P1", MaterialID: "STEEL_ROD", QtyPerUnit: 1},
	}

	// Material exists but has no availability entry and no stock.
	materials := memory.NewMaterialRepository(1)
	require.NoError(t, materials.LoadMaterials([]*entities.Material{{ID: "STEEL_ROD"}}))

	built, err := NewModelBuilder().Build(asOf, products, machines, bomLines, nil, nil, materials)
	require.NoError(t, err)

	ready := findConstraint(t, built.Model, "material_ready[P1]")
	assert.Equal(t, 365*24.0, ready.RHS, "unplanned materials push readiness a year out")

	// With stock on hand the same material is ready immediately.
	stocked := memory.NewMaterialRepository(1)
	require.NoError(t, stocked.LoadMaterials([]*entities.Material{{ID: "STEEL_ROD", OnHand: 10}}))

	built, err = NewModelBuilder().Build(asOf, products, machines, bomLines, nil, nil, stocked)
	require.NoError(t, err)
	ready = findConstraint(t, built.Model, "material_ready[P1]")
	assert.Equal(t, 0.0, ready.RHS)
}

func TestAssignmentsFilterNumericNoise(t *testing.T) {
	asOf := day(2025, 7, 1)
	products := []*entities.Product{
		testProduct("P1", 40, day(2025, 7, 10)),
	}
	machines := []*entities.Machine{testMachine("M1", 20), testMachine("M2", 20)}
	materials := memory.NewMaterialRepository(0)

	built, err := NewModelBuilder().Build(asOf, products, machines, nil, nil, nil, materials)
	require.NoError(t, err)

	// All work on M1, numeric dust on M2.
	values := make([]float64, len(built.Model.Variables))
	values[built.x[pairKey{Product: "P1", Machine: "M1"}]] = 40
	values[built.u[pairKey{Product: "P1", Machine: "M1"}]] = 2
	values[built.x[pairKey{Product: "P1", Machine: "M2"}]] = 1e-9
	solution := &entities.ScheduleSolution{Status: entities.SolveOptimal, Values: values}

	assignments := built.Assignments(solution)
	require.Len(t, assignments, 1)
	assert.Equal(t, entities.MachineID("M1"), assignments[0].Machine)
	assert.Equal(t, 40.0, assignments[0].UnitsProduced)
	assert.Equal(t, 2, assignments[0].Cycles)
}

func TestAssignmentsEmptyForUnsolvedModel(t *testing.T) {
	asOf := day(2025, 7, 1)
	products := []*entities.Product{testProduct("P1", 40, day(2025, 7, 10))}
	machines := []*entities.Machine{testMachine("M1", 20)}
	materials := memory.NewMaterialRepository(0)

	built, err := NewModelBuilder().Build(asOf, products, machines, nil, nil, nil, materials)
	require.NoError(t, err)

	solution := &entities.ScheduleSolution{Status: entities.SolveInfeasible}
	assert.Empty(t, built.Assignments(solution))
}
