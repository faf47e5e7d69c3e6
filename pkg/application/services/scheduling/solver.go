package scheduling

import (
	"context"

	"github.com/prodplan/prodplan/pkg/domain/entities"
)

// Solver is the external capability that solves a schedule model. The model
// is solver-independent; any linear/mixed-integer backend can implement this.
// Infeasibility is reported through the solution status, not an error; errors
// are reserved for backend failures.
type Solver interface {
	Solve(ctx context.Context, model *entities.ScheduleModel) (*entities.ScheduleSolution, error)
}
