package memory

import (
	"fmt"

	"github.com/prodplan/prodplan/pkg/domain/entities"
	"github.com/prodplan/prodplan/pkg/domain/repositories"
)

// MachineRepository provides in-memory machine master storage
type MachineRepository struct {
	machines    []entities.Machine
	machinesMap map[entities.MachineID]int
}

// NewMachineRepository creates a new in-memory machine repository
func NewMachineRepository(expectedMachines int) *MachineRepository {
	return &MachineRepository{
		machines:    make([]entities.Machine, 0, expectedMachines),
		machinesMap: make(map[entities.MachineID]int, expectedMachines),
	}
}

// Verify interface compliance
var _ repositories.MachineRepository = (*MachineRepository)(nil)

// LoadMachines loads machines into the repository
func (r *MachineRepository) LoadMachines(machines []*entities.Machine) error {
	for _, machine := range machines {
		if machine.CycleTimeHours < 0 || machine.CapacityUnitsPerBatch < 0 ||
			machine.PreMaintenanceHours < 0 || machine.PostMaintenanceHours < 0 {
			return fmt.Errorf("machine %s: time and capacity attributes must be >= 0", machine.ID)
		}
		r.AddMachine(*machine)
	}
	return nil
}

// AddMachine adds a machine to the repository
func (r *MachineRepository) AddMachine(machine entities.Machine) {
	r.machinesMap[machine.ID] = len(r.machines)
	r.machines = append(r.machines, machine)
}

// GetMachine returns master data for a machine id
func (r *MachineRepository) GetMachine(id entities.MachineID) (*entities.Machine, error) {
	index, exists := r.machinesMap[id]
	if !exists {
		return nil, fmt.Errorf("machine not found: %s", id)
	}
	return &r.machines[index], nil
}

// GetAllMachines returns all machines
func (r *MachineRepository) GetAllMachines() ([]*entities.Machine, error) {
	var machines []*entities.Machine
	for i := range r.machines {
		machines = append(machines, &r.machines[i])
	}
	return machines, nil
}

// EligibilityRepository provides in-memory eligibility matrix storage
type EligibilityRepository struct {
	matrix *entities.EligibilityMatrix
}

// NewEligibilityRepository creates a repository with an open (all allowed)
// matrix.
func NewEligibilityRepository() *EligibilityRepository {
	return &EligibilityRepository{matrix: entities.NewEligibilityMatrix()}
}

// Verify interface compliance
var _ repositories.EligibilityRepository = (*EligibilityRepository)(nil)

// LoadEligibility replaces the stored matrix
func (r *EligibilityRepository) LoadEligibility(matrix *entities.EligibilityMatrix) error {
	if matrix == nil {
		return fmt.Errorf("eligibility matrix cannot be nil")
	}
	r.matrix = matrix
	return nil
}

// Eligibility returns the stored matrix
func (r *EligibilityRepository) Eligibility() (*entities.EligibilityMatrix, error) {
	return r.matrix, nil
}
