package scheduling

import (
	"math"

	"github.com/prodplan/prodplan/pkg/domain/entities"
)

// assignmentEpsilon filters out numerically-zero production amounts
const assignmentEpsilon = 1e-6

// Assignments reads the nonzero product-machine assignments out of a
// solution, in the model's product-then-machine order.
func (b *BuiltModel) Assignments(solution *entities.ScheduleSolution) []entities.ScheduleAssignment {
	if !solution.Solved() {
		return nil
	}

	var assignments []entities.ScheduleAssignment
	for _, product := range b.Products {
		for _, machine := range b.Machines {
			key := pairKey{Product: product.ID, Machine: machine.ID}
			units := solution.Value(b.x[key])
			if units <= assignmentEpsilon {
				continue
			}
			assignments = append(assignments, entities.ScheduleAssignment{
				Product:       product.ID,
				Machine:       machine.ID,
				UnitsProduced: math.Round(units),
				Cycles:        int(math.Round(solution.Value(b.u[key]))),
			})
		}
	}
	return assignments
}

// CompletionHours returns the solved completion time per product
func (b *BuiltModel) CompletionHours(solution *entities.ScheduleSolution) map[entities.ProductID]float64 {
	hours := make(map[entities.ProductID]float64, len(b.Products))
	for _, product := range b.Products {
		hours[product.ID] = solution.Value(b.ct[product.ID])
	}
	return hours
}

// LatenessHours returns the solved lateness per product
func (b *BuiltModel) LatenessHours(solution *entities.ScheduleSolution) map[entities.ProductID]float64 {
	hours := make(map[entities.ProductID]float64, len(b.Products))
	for _, product := range b.Products {
		hours[product.ID] = solution.Value(b.l[product.ID])
	}
	return hours
}
