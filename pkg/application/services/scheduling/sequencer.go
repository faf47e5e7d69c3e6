package scheduling

import (
	"sort"
	"time"

	"github.com/prodplan/prodplan/pkg/domain/entities"
)

// Sequencer turns solved assignments into per-machine ordered timelines
// using an earliest-due-date heuristic. It deliberately ignores the solver's
// completion times: within each machine, tasks run back to back starting at
// hour zero, with no cross-machine synchronization.
type Sequencer struct{}

// NewSequencer creates a Gantt sequencer
func NewSequencer() *Sequencer {
	return &Sequencer{}
}

// Sequence orders each machine's assignments by ascending product due date
// and accumulates a running clock. Task duration is cycles * cycle time plus
// the machine's total maintenance time. Machines are emitted in the given
// machine order, tasks concatenated.
func (s *Sequencer) Sequence(
	asOf time.Time,
	assignments []entities.ScheduleAssignment,
	products []*entities.Product,
	machines []*entities.Machine,
) []entities.MachineTask {
	dueHours := make(map[entities.ProductID]float64, len(products))
	for _, product := range products {
		dueHours[product.ID] = hoursFromAsOf(entities.Day(asOf), product.DueDate)
	}

	byMachine := make(map[entities.MachineID][]entities.ScheduleAssignment)
	for _, assignment := range assignments {
		byMachine[assignment.Machine] = append(byMachine[assignment.Machine], assignment)
	}

	var tasks []entities.MachineTask
	for _, machine := range machines {
		assigned := byMachine[machine.ID]
		sort.SliceStable(assigned, func(i, j int) bool {
			return dueHours[assigned[i].Product] < dueHours[assigned[j].Product]
		})

		clock := 0.0
		maint := machine.TotalMaintenanceHours()
		for _, assignment := range assigned {
			duration := float64(assignment.Cycles)*machine.CycleTimeHours + maint
			tasks = append(tasks, entities.MachineTask{
				Machine:       machine.ID,
				Product:       assignment.Product,
				StartHours:    clock,
				FinishHours:   clock + duration,
				DurationHours: duration,
			})
			clock += duration
		}
	}
	return tasks
}
