package scheduling

import (
	"fmt"
	"math"
	"time"

	"go.uber.org/zap"

	"github.com/prodplan/prodplan/pkg/domain/entities"
	"github.com/prodplan/prodplan/pkg/domain/repositories"
)

// pairKey indexes decision variables by product and machine
type pairKey struct {
	Product entities.ProductID
	Machine entities.MachineID
}

// BuiltModel is a schedule model together with the variable index maps
// needed to read a solution back out.
type BuiltModel struct {
	Model    *entities.ScheduleModel
	Products []*entities.Product
	Machines []*entities.Machine

	x  map[pairKey]int // units produced, continuous >= 0
	z  map[pairKey]int // assignment indicator, binary
	u  map[pairKey]int // production cycles, integer >= 0
	ct map[entities.ProductID]int
	l  map[entities.ProductID]int
}

// ModelBuilder converts product, machine, eligibility, and
// material-readiness data into a mixed-integer schedule model.
type ModelBuilder struct {
	logger *zap.Logger
}

// NewModelBuilder creates a model builder with a no-op logger
func NewModelBuilder() *ModelBuilder {
	return NewModelBuilderWithLogger(zap.NewNop())
}

// NewModelBuilderWithLogger creates a model builder that logs model shape
func NewModelBuilderWithLogger(logger *zap.Logger) *ModelBuilder {
	return &ModelBuilder{logger: logger}
}

// Build formulates the scheduling MILP. Demand uses the full units to
// deliver; completion times and due dates are measured in hours from asOf.
// Materials without a committed-availability date fall back to asOf when
// stock exists, or to a far-future sentinel that effectively forbids
// completion.
func (b *ModelBuilder) Build(
	asOf time.Time,
	products []*entities.Product,
	machines []*entities.Machine,
	bomLines []*entities.BOMLine,
	eligibility *entities.EligibilityMatrix,
	availability map[entities.MaterialID]time.Time,
	materials repositories.MaterialRepository,
) (*BuiltModel, error) {
	if eligibility == nil {
		eligibility = entities.NewEligibilityMatrix()
	}

	day := entities.Day(asOf)
	model := entities.NewScheduleModel()
	built := &BuiltModel{
		Model:    model,
		Products: products,
		Machines: machines,
		x:        make(map[pairKey]int, len(products)*len(machines)),
		z:        make(map[pairKey]int, len(products)*len(machines)),
		u:        make(map[pairKey]int, len(products)*len(machines)),
		ct:       make(map[entities.ProductID]int, len(products)),
		l:        make(map[entities.ProductID]int, len(products)),
	}

	readyHours, err := materialReadyHours(day, products, bomLines, availability, materials)
	if err != nil {
		return nil, err
	}

	// Decision variables.
	for _, product := range products {
		for _, machine := range machines {
			key := pairKey{Product: product.ID, Machine: machine.ID}
			built.x[key] = model.AddVariable(entities.Variable{
				Name: fmt.Sprintf("x[%s,%s]", product.ID, machine.ID),
				Type: entities.Continuous, Lower: 0, Upper: entities.Unbounded,
			})
			built.z[key] = model.AddVariable(entities.Variable{
				Name: fmt.Sprintf("z[%s,%s]", product.ID, machine.ID),
				Type: entities.Binary, Lower: 0, Upper: 1,
			})
			built.u[key] = model.AddVariable(entities.Variable{
				Name: fmt.Sprintf("u[%s,%s]", product.ID, machine.ID),
				Type: entities.Integer, Lower: 0, Upper: entities.Unbounded,
			})
		}
		built.ct[product.ID] = model.AddVariable(entities.Variable{
			Name: fmt.Sprintf("CT[%s]", product.ID),
			Type: entities.Continuous, Lower: 0, Upper: entities.Unbounded,
		})
		built.l[product.ID] = model.AddVariable(entities.Variable{
			Name: fmt.Sprintf("L[%s]", product.ID),
			Type: entities.Continuous, Lower: 0, Upper: entities.Unbounded,
		})
	}

	maxCycles := maxFeasibleCycles(products, machines)
	bigM := machineTimeBigM(products, machines, maxCycles)

	for _, product := range products {
		demand := product.UnitsToDeliver
		dueHours := hoursFromAsOf(day, product.DueDate)

		// Demand coverage across all machines.
		coverage := entities.Constraint{
			Name:  fmt.Sprintf("demand[%s]", product.ID),
			Sense: entities.GreaterOrEqual,
			RHS:   demand,
		}
		for _, machine := range machines {
			key := pairKey{Product: product.ID, Machine: machine.ID}
			coverage.Terms = append(coverage.Terms, entities.Term{Coefficient: 1, Var: built.x[key]})
		}
		model.AddConstraint(coverage)

		// Lateness: L >= CT - due.
		model.AddConstraint(entities.Constraint{
			Name:  fmt.Sprintf("lateness[%s]", product.ID),
			Sense: entities.GreaterOrEqual,
			RHS:   -dueHours,
			Terms: []entities.Term{
				{Coefficient: 1, Var: built.l[product.ID]},
				{Coefficient: -1, Var: built.ct[product.ID]},
			},
		})

		// Material readiness: completion cannot precede component availability.
		model.AddConstraint(entities.Constraint{
			Name:  fmt.Sprintf("material_ready[%s]", product.ID),
			Sense: entities.GreaterOrEqual,
			RHS:   readyHours[product.ID],
			Terms: []entities.Term{{Coefficient: 1, Var: built.ct[product.ID]}},
		})

		for _, machine := range machines {
			key := pairKey{Product: product.ID, Machine: machine.ID}

			// Capacity link: x <= capacity * u.
			model.AddConstraint(entities.Constraint{
				Name:  fmt.Sprintf("capacity[%s,%s]", product.ID, machine.ID),
				Sense: entities.LessOrEqual,
				RHS:   0,
				Terms: []entities.Term{
					{Coefficient: 1, Var: built.x[key]},
					{Coefficient: -machine.CapacityUnitsPerBatch, Var: built.u[key]},
				},
			})

			// Cycle activation: u <= maxCycles * z.
			model.AddConstraint(entities.Constraint{
				Name:  fmt.Sprintf("activation[%s,%s]", product.ID, machine.ID),
				Sense: entities.LessOrEqual,
				RHS:   0,
				Terms: []entities.Term{
					{Coefficient: 1, Var: built.u[key]},
					{Coefficient: -float64(maxCycles[key]), Var: built.z[key]},
				},
			})

			// Ineligible pairs get no work.
			if !eligibility.Allowed(product.ID, machine.ID) {
				model.AddConstraint(entities.Constraint{
					Name:  fmt.Sprintf("eligibility[%s,%s]", product.ID, machine.ID),
					Sense: entities.LessOrEqual,
					RHS:   0,
					Terms: []entities.Term{{Coefficient: 1, Var: built.z[key]}},
				})
			}

			// Completion-time lower bound, big-M relaxed so it only binds on
			// the machine actually chosen for the product:
			//   CT >= sum_j(cycle_time*u[j,m] + maint*z[j,m]) - M*(1 - z[i,m])
			bound := entities.Constraint{
				Name:  fmt.Sprintf("completion[%s,%s]", product.ID, machine.ID),
				Sense: entities.GreaterOrEqual,
				RHS:   -bigM[machine.ID],
				Terms: []entities.Term{{Coefficient: 1, Var: built.ct[product.ID]}},
			}
			maint := machine.TotalMaintenanceHours()
			for _, other := range products {
				otherKey := pairKey{Product: other.ID, Machine: machine.ID}
				bound.Terms = append(bound.Terms, entities.Term{
					Coefficient: -machine.CycleTimeHours, Var: built.u[otherKey],
				})
				zCoef := -maint
				if other.ID == product.ID {
					zCoef -= bigM[machine.ID]
				}
				bound.Terms = append(bound.Terms, entities.Term{Coefficient: zCoef, Var: built.z[otherKey]})
			}
			model.AddConstraint(bound)

			// Objective: operating cost per cycle.
			opCost := machine.OpCostPerHour.InexactFloat64() * machine.CycleTimeHours
			model.AddObjectiveTerm(opCost, built.u[key])
		}

		// Objective: lateness penalty per hour.
		penaltyPerHour := product.PenaltyPerDay.InexactFloat64() / 24
		model.AddObjectiveTerm(penaltyPerHour, built.l[product.ID])
	}

	b.logger.Debug("built schedule model",
		zap.Int("variables", len(model.Variables)),
		zap.Int("constraints", len(model.Constraints)),
		zap.Int("products", len(products)),
		zap.Int("machines", len(machines)))

	return built, nil
}

// maxFeasibleCycles returns ceil(demand / capacity) per product-machine
// pair, zero when the machine has no batch capacity.
func maxFeasibleCycles(products []*entities.Product, machines []*entities.Machine) map[pairKey]int {
	cycles := make(map[pairKey]int, len(products)*len(machines))
	for _, product := range products {
		demand := math.Max(0, product.UnitsToDeliver)
		for _, machine := range machines {
			key := pairKey{Product: product.ID, Machine: machine.ID}
			if machine.CapacityUnitsPerBatch > 0 {
				cycles[key] = int(math.Ceil(demand / machine.CapacityUnitsPerBatch))
			} else {
				cycles[key] = 0
			}
		}
	}
	return cycles
}

// machineTimeBigM derives the per-machine big-M: the machine's total
// possible cycle time across all products plus total possible maintenance
// time plus a unit margin. The derivation is part of the model contract.
func machineTimeBigM(products []*entities.Product, machines []*entities.Machine, maxCycles map[pairKey]int) map[entities.MachineID]float64 {
	bigM := make(map[entities.MachineID]float64, len(machines))
	for _, machine := range machines {
		var cycleSum float64
		for _, product := range products {
			key := pairKey{Product: product.ID, Machine: machine.ID}
			cycleSum += float64(maxCycles[key]) * machine.CycleTimeHours
		}
		maintSum := float64(len(products)) * machine.TotalMaintenanceHours()
		bigM[machine.ID] = cycleSum + maintSum + 1.0
	}
	return bigM
}

// materialReadyHours computes, per product, the hours from asOf until every
// BOM component is committed available. Components with no availability date
// use asOf when stock exists, otherwise a sentinel one year out.
func materialReadyHours(
	asOf time.Time,
	products []*entities.Product,
	bomLines []*entities.BOMLine,
	availability map[entities.MaterialID]time.Time,
	materials repositories.MaterialRepository,
) (map[entities.ProductID]float64, error) {
	sentinel := asOf.AddDate(0, 0, 365)
	componentsByParent := make(map[entities.ProductID][]*entities.BOMLine)
	for _, line := range bomLines {
		componentsByParent[line.ParentID] = append(componentsByParent[line.ParentID], line)
	}

	ready := make(map[entities.ProductID]float64, len(products))
	for _, product := range products {
		latest := asOf
		for _, line := range componentsByParent[product.ID] {
			date, planned := availability[line.MaterialID]
			if !planned {
				date = sentinel
				if material, err := materials.GetMaterial(line.MaterialID); err == nil && material.OnHand > 0 {
					date = asOf
				}
			}
			if date.After(latest) {
				latest = date
			}
		}
		ready[product.ID] = hoursFromAsOf(asOf, latest)
	}
	return ready, nil
}

// hoursFromAsOf converts a calendar date to whole-day hours from the
// planning start, floored at zero.
func hoursFromAsOf(asOf, date time.Time) float64 {
	days := entities.Day(date).Sub(entities.Day(asOf)).Hours() / 24
	return math.Max(0, days*24)
}
