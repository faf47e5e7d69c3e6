package entities

import "math"

// VarType represents the domain of a decision variable
type VarType int

const (
	Continuous VarType = iota
	Integer
	Binary
)

// String method for VarType enum
func (v VarType) String() string {
	switch v {
	case Continuous:
		return "Continuous"
	case Integer:
		return "Integer"
	case Binary:
		return "Binary"
	default:
		return "Unknown"
	}
}

// Sense represents the comparison direction of a linear constraint
type Sense int

const (
	LessOrEqual Sense = iota
	GreaterOrEqual
	Equal
)

// String method for Sense enum
func (s Sense) String() string {
	switch s {
	case LessOrEqual:
		return "<="
	case GreaterOrEqual:
		return ">="
	case Equal:
		return "="
	default:
		return "Unknown"
	}
}

// Unbounded marks a variable with no upper bound
var Unbounded = math.Inf(1)

// Variable is one decision variable with its domain and bounds
type Variable struct {
	Name  string
	Type  VarType
	Lower float64
	Upper float64
}

// Term is one linear term: Coefficient * variable at index Var
type Term struct {
	Coefficient float64
	Var         int
}

// Constraint is a linear constraint over model variables
type Constraint struct {
	Name  string
	Sense Sense
	RHS   float64
	Terms []Term
}

// Objective is a linear objective with a direction
type Objective struct {
	Minimize bool
	Terms    []Term
}

// ScheduleModel is a solver-independent mixed-integer program: variables
// with bounds and domains, linear constraints, and a linear objective. Any
// MILP backend can consume it.
type ScheduleModel struct {
	Variables   []Variable
	Constraints []Constraint
	Objective   Objective
}

// NewScheduleModel creates an empty minimization model
func NewScheduleModel() *ScheduleModel {
	return &ScheduleModel{Objective: Objective{Minimize: true}}
}

// AddVariable appends a variable and returns its index
func (m *ScheduleModel) AddVariable(v Variable) int {
	m.Variables = append(m.Variables, v)
	return len(m.Variables) - 1
}

// AddConstraint appends a constraint to the model
func (m *ScheduleModel) AddConstraint(c Constraint) {
	m.Constraints = append(m.Constraints, c)
}

// AddObjectiveTerm appends a linear term to the objective
func (m *ScheduleModel) AddObjectiveTerm(coefficient float64, varIndex int) {
	if coefficient == 0 {
		return
	}
	m.Objective.Terms = append(m.Objective.Terms, Term{Coefficient: coefficient, Var: varIndex})
}

// SolveStatus represents the outcome reported by a solver backend
type SolveStatus int

const (
	SolveOptimal SolveStatus = iota
	SolveFeasible
	SolveInfeasible
	SolveError
)

// String method for SolveStatus enum
func (s SolveStatus) String() string {
	switch s {
	case SolveOptimal:
		return "Optimal"
	case SolveFeasible:
		return "Feasible"
	case SolveInfeasible:
		return "Infeasible"
	case SolveError:
		return "Error"
	default:
		return "Unknown"
	}
}

// ScheduleSolution is the solver output: a status and, when solvable, one
// value per model variable in declaration order.
type ScheduleSolution struct {
	Status         SolveStatus
	ObjectiveValue float64
	Values         []float64
}

// Solved reports whether the solution carries usable variable values
func (s *ScheduleSolution) Solved() bool {
	return s != nil && (s.Status == SolveOptimal || s.Status == SolveFeasible)
}

// Value returns the solved value of the variable at the given index, or zero
// when the solution carries no values.
func (s *ScheduleSolution) Value(varIndex int) float64 {
	if !s.Solved() || varIndex < 0 || varIndex >= len(s.Values) {
		return 0
	}
	return s.Values[varIndex]
}

// ScheduleAssignment represents production of one product on one machine in
// the solved schedule. Only materially nonzero assignments are retained.
type ScheduleAssignment struct {
	Product       ProductID
	Machine       MachineID
	UnitsProduced float64
	Cycles        int
}

// MachineTask is one sequenced slot on a machine timeline, with hours
// measured from the planning start.
type MachineTask struct {
	Machine       MachineID
	Product       ProductID
	StartHours    float64
	FinishHours   float64
	DurationHours float64
}
