package entities

import "github.com/shopspring/decimal"

// MachineID represents a unique production machine or vessel identifier
type MachineID string

// Machine represents a production machine with its capacity and cost profile
type Machine struct {
	ID                    MachineID
	OpCostPerHour         decimal.Decimal
	CycleTimeHours        float64
	CapacityUnitsPerBatch float64
	PreMaintenanceHours   float64
	PostMaintenanceHours  float64
}

// TotalMaintenanceHours returns the fixed maintenance time charged once per
// product assigned to the machine.
func (m *Machine) TotalMaintenanceHours() float64 {
	return m.PreMaintenanceHours + m.PostMaintenanceHours
}

// EligibilityMatrix records which products may run on which machines. It is
// sparse: a pair that was never set is allowed (open policy).
type EligibilityMatrix struct {
	entries map[ProductID]map[MachineID]bool
}

// NewEligibilityMatrix creates an empty eligibility matrix
func NewEligibilityMatrix() *EligibilityMatrix {
	return &EligibilityMatrix{entries: make(map[ProductID]map[MachineID]bool)}
}

// Set records whether a product may run on a machine
func (e *EligibilityMatrix) Set(product ProductID, machine MachineID, allowed bool) {
	row, exists := e.entries[product]
	if !exists {
		row = make(map[MachineID]bool)
		e.entries[product] = row
	}
	row[machine] = allowed
}

// Allowed reports whether a product may run on a machine. Unknown pairs
// default to allowed.
func (e *EligibilityMatrix) Allowed(product ProductID, machine MachineID) bool {
	row, exists := e.entries[product]
	if !exists {
		return true
	}
	allowed, exists := row[machine]
	if !exists {
		return true
	}
	return allowed
}
