package dto

import (
	"time"

	"github.com/shopspring/decimal"

	"github.com/prodplan/prodplan/pkg/domain/entities"
)

// DiagnosticCode classifies planning diagnostics
type DiagnosticCode string

const (
	// CodeUnknownMaterial flags a BOM component missing from the material
	// master. The material is reported instead of silently dropped.
	CodeUnknownMaterial DiagnosticCode = "UNKNOWN_MATERIAL"
	// CodeSolverFailed flags a scheduling solve that errored out
	CodeSolverFailed DiagnosticCode = "SOLVER_FAILED"
	// CodeInfeasibleSchedule flags a model the solver proved infeasible
	CodeInfeasibleSchedule DiagnosticCode = "INFEASIBLE_SCHEDULE"
)

// Diagnostic is a non-fatal finding surfaced by a planning run
type Diagnostic struct {
	Code       DiagnosticCode      `json:"code"`
	MaterialID entities.MaterialID `json:"material_id,omitempty"`
	Message    string              `json:"message"`
}

// MaterialPlan is the winning replenishment plan for one material
type MaterialPlan struct {
	MaterialID  entities.MaterialID     `json:"material_id"`
	Policy      entities.Policy         `json:"policy"`
	PolicyLabel string                  `json:"policy_label"`
	Orders      []entities.PlannedOrder `json:"orders"`
	Costs       entities.CostBreakdown  `json:"costs"`

	// AvailableFrom is the committed-availability date fed into scheduling:
	// earliest receipt of the winning plan, today when existing stock covers
	// the demand, or a far-future sentinel when the material is effectively
	// unavailable.
	AvailableFrom time.Time `json:"available_from"`
}

// CostComparison is one row of the per-material policy comparison
type CostComparison struct {
	MaterialID        entities.MaterialID `json:"material_id"`
	LFLTotalCost      decimal.Decimal     `json:"lfl_total_cost"`
	POQTotalCost      decimal.Decimal     `json:"poq_total_cost"`
	EOQTotalCost      decimal.Decimal     `json:"eoq_total_cost"`
	BestPOQPeriodDays int                 `json:"best_poq_period_days"`
	EOQOrderQty       float64             `json:"eoq_order_qty"`
	RecommendedPolicy string              `json:"recommended_policy"`
	WinnerTotalCost   decimal.Decimal     `json:"winner_total_cost"`
}

// PlanningResult contains the complete output of the material planning stage
type PlanningResult struct {
	AsOf          time.Time                         `json:"as_of"`
	MaterialPlans []MaterialPlan                    `json:"material_plans"`
	Comparisons   []CostComparison                  `json:"comparisons"`
	Availability  map[entities.MaterialID]time.Time `json:"availability"`
	Diagnostics   []Diagnostic                      `json:"diagnostics,omitempty"`
}

// ScheduleResult contains the solved machine schedule
type ScheduleResult struct {
	Status          entities.SolveStatus           `json:"status"`
	ObjectiveValue  float64                        `json:"objective_value"`
	Assignments     []entities.ScheduleAssignment  `json:"assignments"`
	CompletionHours map[entities.ProductID]float64 `json:"completion_hours"`
	LatenessHours   map[entities.ProductID]float64 `json:"lateness_hours"`
	Tasks           []entities.MachineTask         `json:"tasks"`
}

// PlanningReport is the end-to-end output of one planning run
type PlanningReport struct {
	RunID    string          `json:"run_id"`
	Planning *PlanningResult `json:"planning"`
	Schedule *ScheduleResult `json:"schedule,omitempty"`
}
