package csv

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prodplan/prodplan/pkg/domain/entities"
)

// Loader handles loading planning data from normalized CSV files. Headers
// and identifiers are expected pre-trimmed; the loader validates shape and
// types, not content conventions.
type Loader struct{}

// NewLoader creates a new CSV loader
func NewLoader() *Loader {
	return &Loader{}
}

const dateLayout = "2006-01-02"

// LoadProducts loads product order lines from a CSV file
func (l *Loader) LoadProducts(filename string) ([]*entities.Product, error) {
	records, err := readAll(filename, "products")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"product_id", "units_to_deliver", "on_hand", "due_date", "release_offset_days", "penalty_per_day"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("products CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var products []*entities.Product
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("products CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		product, err := parseProduct(record)
		if err != nil {
			return nil, fmt.Errorf("products CSV row %d: %w", i+2, err)
		}
		products = append(products, &product)
	}
	return products, nil
}

// LoadBOM loads bill-of-materials lines from a CSV file
func (l *Loader) LoadBOM(filename string) ([]*entities.BOMLine, error) {
	records, err := readAll(filename, "BOM")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"parent_id", "material_id", "qty_per_unit"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("BOM CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var lines []*entities.BOMLine
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("BOM CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		qty, err := strconv.ParseFloat(record[2], 64)
		if err != nil {
			return nil, fmt.Errorf("BOM CSV row %d: invalid qty_per_unit: %s", i+2, record[2])
		}
		lines = append(lines, &entities.BOMLine{
			ParentID:   entities.ProductID(record[0]),
			MaterialID: entities.MaterialID(record[1]),
			QtyPerUnit: qty,
		})
	}
	return lines, nil
}

// LoadMaterials loads material master records from a CSV file
func (l *Loader) LoadMaterials(filename string) ([]*entities.Material, error) {
	records, err := readAll(filename, "materials")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{
		"material_id", "ordering_cost", "holding_cost_per_day", "backorder_cost_per_unit_per_day",
		"lead_time_days", "safety_stock", "on_hand", "scheduled_receipt_date", "scheduled_receipt_qty", "annual_demand",
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("materials CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var materials []*entities.Material
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("materials CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		material, err := parseMaterial(record)
		if err != nil {
			return nil, fmt.Errorf("materials CSV row %d: %w", i+2, err)
		}
		materials = append(materials, &material)
	}
	return materials, nil
}

// LoadMachines loads machine master records from a CSV file
func (l *Loader) LoadMachines(filename string) ([]*entities.Machine, error) {
	records, err := readAll(filename, "machines")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{
		"machine_id", "op_cost_per_hour", "cycle_time_hours", "capacity_units_per_batch",
		"pre_maintenance_hours", "post_maintenance_hours",
	}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("machines CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	var machines []*entities.Machine
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("machines CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		machine, err := parseMachine(record)
		if err != nil {
			return nil, fmt.Errorf("machines CSV row %d: %w", i+2, err)
		}
		machines = append(machines, &machine)
	}
	return machines, nil
}

// LoadEligibility loads the product/machine eligibility matrix from a CSV
// file. Pairs absent from the file stay allowed. The file is optional at the
// command level; callers pass an empty matrix when there is none.
func (l *Loader) LoadEligibility(filename string) (*entities.EligibilityMatrix, error) {
	records, err := readAll(filename, "eligibility")
	if err != nil {
		return nil, err
	}

	expectedHeader := []string{"product_id", "machine_id", "allowed"}
	if !validateHeader(records[0], expectedHeader) {
		return nil, fmt.Errorf("eligibility CSV header mismatch. Expected: %v, Got: %v", expectedHeader, records[0])
	}

	matrix := entities.NewEligibilityMatrix()
	for i, record := range records[1:] {
		if len(record) != len(expectedHeader) {
			return nil, fmt.Errorf("eligibility CSV row %d: expected %d columns, got %d", i+2, len(expectedHeader), len(record))
		}
		allowed, err := strconv.ParseBool(record[2])
		if err != nil {
			return nil, fmt.Errorf("eligibility CSV row %d: invalid allowed flag: %s", i+2, record[2])
		}
		matrix.Set(entities.ProductID(record[0]), entities.MachineID(record[1]), allowed)
	}
	return matrix, nil
}

// Helper functions for reading and parsing CSV records

func readAll(filename, label string) ([][]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s file %s: %w", label, filename, err)
	}
	defer file.Close()

	records, err := csv.NewReader(file).ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read %s CSV: %w", label, err)
	}
	if len(records) < 2 {
		return nil, fmt.Errorf("%s CSV must have header and at least one data row", label)
	}
	return records, nil
}

func validateHeader(actual, expected []string) bool {
	if len(actual) != len(expected) {
		return false
	}
	for i, col := range expected {
		if strings.ToLower(strings.TrimSpace(actual[i])) != col {
			return false
		}
	}
	return true
}

func parseProduct(record []string) (entities.Product, error) {
	units, err := strconv.ParseFloat(record[1], 64)
	if err != nil {
		return entities.Product{}, fmt.Errorf("invalid units_to_deliver: %s", record[1])
	}
	onHand, err := strconv.ParseFloat(record[2], 64)
	if err != nil {
		return entities.Product{}, fmt.Errorf("invalid on_hand: %s", record[2])
	}
	dueDate, err := time.Parse(dateLayout, record[3])
	if err != nil {
		return entities.Product{}, fmt.Errorf("invalid due_date: %s (expected YYYY-MM-DD)", record[3])
	}
	releaseOffset, err := strconv.Atoi(record[4])
	if err != nil {
		return entities.Product{}, fmt.Errorf("invalid release_offset_days: %s", record[4])
	}
	penalty, err := parseOptionalDecimal(record[5])
	if err != nil {
		return entities.Product{}, fmt.Errorf("invalid penalty_per_day: %s", record[5])
	}

	return entities.Product{
		ID:                entities.ProductID(record[0]),
		UnitsToDeliver:    units,
		OnHand:            onHand,
		DueDate:           dueDate,
		ReleaseOffsetDays: releaseOffset,
		PenaltyPerDay:     penalty,
	}, nil
}

func parseMaterial(record []string) (entities.Material, error) {
	orderingCost, err := parseOptionalDecimal(record[1])
	if err != nil {
		return entities.Material{}, fmt.Errorf("invalid ordering_cost: %s", record[1])
	}
	holdingCost, err := parseOptionalDecimal(record[2])
	if err != nil {
		return entities.Material{}, fmt.Errorf("invalid holding_cost_per_day: %s", record[2])
	}
	backorderCost, err := parseOptionalDecimal(record[3])
	if err != nil {
		return entities.Material{}, fmt.Errorf("invalid backorder_cost_per_unit_per_day: %s", record[3])
	}
	leadTime, err := strconv.Atoi(record[4])
	if err != nil {
		return entities.Material{}, fmt.Errorf("invalid lead_time_days: %s", record[4])
	}
	safetyStock, err := parseOptionalFloat(record[5])
	if err != nil {
		return entities.Material{}, fmt.Errorf("invalid safety_stock: %s", record[5])
	}
	onHand, err := parseOptionalFloat(record[6])
	if err != nil {
		return entities.Material{}, fmt.Errorf("invalid on_hand: %s", record[6])
	}

	material := entities.Material{
		ID:                         entities.MaterialID(record[0]),
		OrderingCost:               orderingCost,
		HoldingCostPerDay:          holdingCost,
		BackorderCostPerUnitPerDay: backorderCost,
		LeadTimeDays:               leadTime,
		SafetyStock:                safetyStock,
		OnHand:                     onHand,
	}

	if record[7] != "" {
		receiptDate, err := time.Parse(dateLayout, record[7])
		if err != nil {
			return entities.Material{}, fmt.Errorf("invalid scheduled_receipt_date: %s (expected YYYY-MM-DD)", record[7])
		}
		receiptQty, err := parseOptionalFloat(record[8])
		if err != nil {
			return entities.Material{}, fmt.Errorf("invalid scheduled_receipt_qty: %s", record[8])
		}
		material.ScheduledReceiptDate = &receiptDate
		material.ScheduledReceiptQty = receiptQty
	}

	annualDemand, err := parseOptionalFloat(record[9])
	if err != nil {
		return entities.Material{}, fmt.Errorf("invalid annual_demand: %s", record[9])
	}
	material.AnnualDemand = annualDemand

	return material, nil
}

func parseMachine(record []string) (entities.Machine, error) {
	opCost, err := parseOptionalDecimal(record[1])
	if err != nil {
		return entities.Machine{}, fmt.Errorf("invalid op_cost_per_hour: %s", record[1])
	}
	cycleTime, err := parseOptionalFloat(record[2])
	if err != nil {
		return entities.Machine{}, fmt.Errorf("invalid cycle_time_hours: %s", record[2])
	}
	capacity, err := parseOptionalFloat(record[3])
	if err != nil {
		return entities.Machine{}, fmt.Errorf("invalid capacity_units_per_batch: %s", record[3])
	}
	preMaint, err := parseOptionalFloat(record[4])
	if err != nil {
		return entities.Machine{}, fmt.Errorf("invalid pre_maintenance_hours: %s", record[4])
	}
	postMaint, err := parseOptionalFloat(record[5])
	if err != nil {
		return entities.Machine{}, fmt.Errorf("invalid post_maintenance_hours: %s", record[5])
	}

	return entities.Machine{
		ID:                    entities.MachineID(record[0]),
		OpCostPerHour:         opCost,
		CycleTimeHours:        cycleTime,
		CapacityUnitsPerBatch: capacity,
		PreMaintenanceHours:   preMaint,
		PostMaintenanceHours:  postMaint,
	}, nil
}

func parseOptionalDecimal(value string) (decimal.Decimal, error) {
	if strings.TrimSpace(value) == "" {
		return decimal.Zero, nil
	}
	return decimal.NewFromString(value)
}

func parseOptionalFloat(value string) (float64, error) {
	if strings.TrimSpace(value) == "" {
		return 0, nil
	}
	return strconv.ParseFloat(value, 64)
}
