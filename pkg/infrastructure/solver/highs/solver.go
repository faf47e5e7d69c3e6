// Package highs solves schedule models with the HiGHS provider from the
// nextmv MIP SDK.
package highs

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/nextmv-io/sdk/mip"

	"github.com/prodplan/prodplan/pkg/application/services/scheduling"
	"github.com/prodplan/prodplan/pkg/domain/entities"
)

// Bounds handed to the backend in place of infinity
const (
	floatUpperBound = 1e30
	intUpperBound   = int64(1) << 30
)

// Solver translates the solver-independent schedule model into a HiGHS run
type Solver struct {
	maxDuration time.Duration
	verbose     bool
}

// New creates a HiGHS-backed solver with a 30 second duration limit
func New() *Solver {
	return &Solver{maxDuration: 30 * time.Second}
}

// NewWithOptions creates a HiGHS-backed solver with an explicit duration
// limit and verbosity.
func NewWithOptions(maxDuration time.Duration, verbose bool) *Solver {
	return &Solver{maxDuration: maxDuration, verbose: verbose}
}

// Verify interface compliance
var _ scheduling.Solver = (*Solver)(nil)

// Solve builds the backend model, runs HiGHS, and maps the outcome back to
// a ScheduleSolution. An infeasible model returns SolveInfeasible with no
// values rather than an error.
func (s *Solver) Solve(ctx context.Context, model *entities.ScheduleModel) (*entities.ScheduleSolution, error) {
	m := mip.NewModel()

	vars := make([]mip.Var, len(model.Variables))
	for i, v := range model.Variables {
		switch v.Type {
		case entities.Binary:
			vars[i] = m.NewBool()
		case entities.Integer:
			upper := intUpperBound
			if !math.IsInf(v.Upper, 1) {
				upper = int64(v.Upper)
			}
			vars[i] = m.NewInt(int64(v.Lower), upper)
		default:
			upper := v.Upper
			if math.IsInf(upper, 1) {
				upper = floatUpperBound
			}
			vars[i] = m.NewFloat(v.Lower, upper)
		}
	}

	for _, c := range model.Constraints {
		constraint := m.NewConstraint(sense(c.Sense), c.RHS)
		for _, term := range c.Terms {
			constraint.NewTerm(term.Coefficient, vars[term.Var])
		}
	}

	if model.Objective.Minimize {
		m.Objective().SetMinimize()
	} else {
		m.Objective().SetMaximize()
	}
	for _, term := range model.Objective.Terms {
		m.Objective().NewTerm(term.Coefficient, vars[term.Var])
	}

	solver, err := mip.NewSolver("highs", m)
	if err != nil {
		return nil, fmt.Errorf("failed to create highs solver: %w", err)
	}

	options := mip.NewSolveOptions()
	maxDuration := s.maxDuration
	if deadline, ok := ctx.Deadline(); ok {
		if remaining := time.Until(deadline); remaining < maxDuration {
			maxDuration = remaining
		}
	}
	if err := options.SetMaximumDuration(maxDuration); err != nil {
		return nil, fmt.Errorf("failed to set solve duration: %w", err)
	}
	if err := options.SetMIPGapRelative(0); err != nil {
		return nil, fmt.Errorf("failed to set MIP gap: %w", err)
	}
	if s.verbose {
		options.SetVerbosity(mip.Low)
	} else {
		options.SetVerbosity(mip.Off)
	}

	solution, err := solver.Solve(options)
	if err != nil {
		return nil, fmt.Errorf("highs solve failed: %w", err)
	}

	out := &entities.ScheduleSolution{Status: entities.SolveInfeasible}
	if solution != nil && solution.HasValues() {
		if solution.IsOptimal() {
			out.Status = entities.SolveOptimal
		} else {
			out.Status = entities.SolveFeasible
		}
		out.ObjectiveValue = solution.ObjectiveValue()
		out.Values = make([]float64, len(vars))
		for i := range vars {
			out.Values[i] = solution.Value(vars[i])
		}
	}
	return out, nil
}

func sense(s entities.Sense) mip.Sense {
	switch s {
	case entities.GreaterOrEqual:
		return mip.GreaterThanOrEqual
	case entities.Equal:
		return mip.Equal
	default:
		return mip.LessThanOrEqual
	}
}
