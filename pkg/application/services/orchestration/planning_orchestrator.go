package orchestration

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/prodplan/prodplan/pkg/application/dto"
	"github.com/prodplan/prodplan/pkg/application/services/planning"
	"github.com/prodplan/prodplan/pkg/application/services/requirements"
	"github.com/prodplan/prodplan/pkg/application/services/scheduling"
	"github.com/prodplan/prodplan/pkg/domain/entities"
	"github.com/prodplan/prodplan/pkg/domain/repositories"
)

// PlanningOrchestrator coordinates the full planning run: requirement
// explosion, material planning, schedule model build, solve, and sequencing.
type PlanningOrchestrator struct {
	exploder  *requirements.Exploder
	planner   *planning.Planner
	builder   *scheduling.ModelBuilder
	sequencer *scheduling.Sequencer
	solver    scheduling.Solver
	logger    *zap.Logger

	materialRepo repositories.MaterialRepository
	productRepo  repositories.ProductRepository
	bomRepo      repositories.BOMRepository
	machineRepo  repositories.MachineRepository
	eligRepo     repositories.EligibilityRepository
}

// NewPlanningOrchestrator creates an orchestrator over the given
// repositories and solver backend, with a no-op logger.
func NewPlanningOrchestrator(
	solver scheduling.Solver,
	materialRepo repositories.MaterialRepository,
	productRepo repositories.ProductRepository,
	bomRepo repositories.BOMRepository,
	machineRepo repositories.MachineRepository,
	eligRepo repositories.EligibilityRepository,
) *PlanningOrchestrator {
	return NewPlanningOrchestratorWithLogger(
		solver, materialRepo, productRepo, bomRepo, machineRepo, eligRepo, zap.NewNop())
}

// NewPlanningOrchestratorWithLogger creates an orchestrator that logs run
// progress.
func NewPlanningOrchestratorWithLogger(
	solver scheduling.Solver,
	materialRepo repositories.MaterialRepository,
	productRepo repositories.ProductRepository,
	bomRepo repositories.BOMRepository,
	machineRepo repositories.MachineRepository,
	eligRepo repositories.EligibilityRepository,
	logger *zap.Logger,
) *PlanningOrchestrator {
	return &PlanningOrchestrator{
		exploder:     requirements.NewExploder(),
		planner:      planning.NewPlannerWithLogger(logger),
		builder:      scheduling.NewModelBuilderWithLogger(logger),
		sequencer:    scheduling.NewSequencer(),
		solver:       solver,
		logger:       logger,
		materialRepo: materialRepo,
		productRepo:  productRepo,
		bomRepo:      bomRepo,
		machineRepo:  machineRepo,
		eligRepo:     eligRepo,
	}
}

// Run executes one end-to-end planning invocation as of the given date. A
// solver failure or an infeasible model does not discard the material
// planning output; it surfaces in the schedule status and diagnostics.
func (po *PlanningOrchestrator) Run(ctx context.Context, asOf time.Time) (*dto.PlanningReport, error) {
	runID := uuid.NewString()
	po.logger.Info("starting planning run",
		zap.String("run_id", runID),
		zap.Time("as_of", asOf))

	products, err := po.productRepo.GetAllProducts()
	if err != nil {
		return nil, fmt.Errorf("failed to load products: %w", err)
	}
	bomLines, err := po.bomRepo.GetAllLines()
	if err != nil {
		return nil, fmt.Errorf("failed to load BOM lines: %w", err)
	}
	machines, err := po.machineRepo.GetAllMachines()
	if err != nil {
		return nil, fmt.Errorf("failed to load machines: %w", err)
	}
	eligibility, err := po.eligRepo.Eligibility()
	if err != nil {
		return nil, fmt.Errorf("failed to load eligibility matrix: %w", err)
	}

	demand := po.exploder.Explode(products, bomLines)

	planningResult, err := po.planner.PlanMaterials(ctx, asOf, demand, po.materialRepo)
	if err != nil {
		return nil, fmt.Errorf("material planning failed: %w", err)
	}

	report := &dto.PlanningReport{RunID: runID, Planning: planningResult}

	built, err := po.builder.Build(asOf, products, machines, bomLines,
		eligibility, planningResult.Availability, po.materialRepo)
	if err != nil {
		return nil, fmt.Errorf("failed to build schedule model: %w", err)
	}

	report.Schedule = po.solveAndSequence(ctx, asOf, built, planningResult)

	po.logger.Info("planning run complete",
		zap.String("run_id", runID),
		zap.Stringer("solve_status", report.Schedule.Status),
		zap.Int("assignments", len(report.Schedule.Assignments)))

	return report, nil
}

func (po *PlanningOrchestrator) solveAndSequence(
	ctx context.Context,
	asOf time.Time,
	built *scheduling.BuiltModel,
	planningResult *dto.PlanningResult,
) *dto.ScheduleResult {
	solution, err := po.solver.Solve(ctx, built.Model)
	if err != nil {
		po.logger.Error("schedule solve failed", zap.Error(err))
		planningResult.Diagnostics = append(planningResult.Diagnostics, dto.Diagnostic{
			Code:    dto.CodeSolverFailed,
			Message: err.Error(),
		})
		return &dto.ScheduleResult{Status: entities.SolveError}
	}

	if !solution.Solved() {
		planningResult.Diagnostics = append(planningResult.Diagnostics, dto.Diagnostic{
			Code:    dto.CodeInfeasibleSchedule,
			Message: "schedule model has no feasible solution",
		})
		return &dto.ScheduleResult{Status: solution.Status}
	}

	assignments := built.Assignments(solution)
	return &dto.ScheduleResult{
		Status:          solution.Status,
		ObjectiveValue:  solution.ObjectiveValue,
		Assignments:     assignments,
		CompletionHours: built.CompletionHours(solution),
		LatenessHours:   built.LatenessHours(solution),
		Tasks:           po.sequencer.Sequence(asOf, assignments, built.Products, built.Machines),
	}
}
