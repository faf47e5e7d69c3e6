package repositories

import "github.com/prodplan/prodplan/pkg/domain/entities"

// MachineRepository provides access to machine master data
type MachineRepository interface {
	GetMachine(id entities.MachineID) (*entities.Machine, error)
	GetAllMachines() ([]*entities.Machine, error)
	LoadMachines(machines []*entities.Machine) error
}

// EligibilityRepository provides access to the product/machine eligibility
// matrix. Pairs that were never recorded are allowed.
type EligibilityRepository interface {
	Eligibility() (*entities.EligibilityMatrix, error)
	LoadEligibility(matrix *entities.EligibilityMatrix) error
}
