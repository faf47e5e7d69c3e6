package csv

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func writeTempCSV(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("Failed to write temp CSV: %v", err)
	}
	return path
}

func TestLoadProducts(t *testing.T) {
	path := writeTempCSV(t, "products.csv",
		"product_id,units_to_deliver,on_hand,due_date,release_offset_days,penalty_per_day\n"+
			"WIDGET_A,100,10,2025-07-15,2,250.00\n")

	products, err := NewLoader().LoadProducts(path)
	if err != nil {
		t.Fatalf("Failed to load products: %v", err)
	}
	if len(products) != 1 {
		t.Fatalf("Expected 1 product, got %d", len(products))
	}

	product := products[0]
	if product.ID != "WIDGET_A" {
		t.Errorf("Expected WIDGET_A, got %s", product.ID)
	}
	if product.UnitsToDeliver != 100 || product.OnHand != 10 {
		t.Errorf("Expected 100/10 units, got %f/%f", product.UnitsToDeliver, product.OnHand)
	}
	if product.DueDate != time.Date(2025, 7, 15, 0, 0, 0, 0, time.UTC) {
		t.Errorf("Unexpected due date %v", product.DueDate)
	}
	if product.ReleaseOffsetDays != 2 {
		t.Errorf("Expected release offset 2, got %d", product.ReleaseOffsetDays)
	}
	if !product.PenaltyPerDay.Equal(decimal.NewFromInt(250)) {
		t.Errorf("Expected penalty 250, got %s", product.PenaltyPerDay)
	}
}

func TestLoadProductsHeaderMismatch(t *testing.T) {
	path := writeTempCSV(t, "products.csv",
		"id,qty,due\nWIDGET_A,100,2025-07-15\n")

	if _, err := NewLoader().LoadProducts(path); err == nil {
		t.Error("Expected header mismatch error")
	}
}

func TestLoadBOM(t *testing.T) {
	path := writeTempCSV(t, "bom.csv",
		"parent_id,material_id,qty_per_unit\nWIDGET_A,STEEL_ROD,2.5\n")

	lines, err := NewLoader().LoadBOM(path)
	if err != nil {
		t.Fatalf("Failed to load BOM: %v", err)
	}
	if len(lines) != 1 {
		t.Fatalf("Expected 1 BOM line, got %d", len(lines))
	}
	if lines[0].QtyPerUnit != 2.5 {
		t.Errorf("Expected qty per unit 2.5, got %f", lines[0].QtyPerUnit)
	}
}

func TestLoadMaterials(t *testing.T) {
	path := writeTempCSV(t, "materials.csv",
		"material_id,ordering_cost,holding_cost_per_day,backorder_cost_per_unit_per_day,lead_time_days,safety_stock,on_hand,scheduled_receipt_date,scheduled_receipt_qty,annual_demand\n"+
			"STEEL_ROD,100.00,0.50,2.00,3,20,50,2025-07-05,100,9000\n"+
			"PAINT,25,0.05,,1,,5,,,\n")

	materials, err := NewLoader().LoadMaterials(path)
	if err != nil {
		t.Fatalf("Failed to load materials: %v", err)
	}
	if len(materials) != 2 {
		t.Fatalf("Expected 2 materials, got %d", len(materials))
	}

	steel := materials[0]
	if steel.LeadTimeDays != 3 || steel.SafetyStock != 20 {
		t.Errorf("Unexpected steel attributes: lead %d, safety %f", steel.LeadTimeDays, steel.SafetyStock)
	}
	if steel.ScheduledReceiptDate == nil || steel.ScheduledReceiptQty != 100 {
		t.Error("Expected a scheduled receipt of 100 for STEEL_ROD")
	}
	if steel.AnnualDemand != 9000 {
		t.Errorf("Expected annual demand 9000, got %f", steel.AnnualDemand)
	}

	paint := materials[1]
	if paint.ScheduledReceiptDate != nil {
		t.Error("Expected no scheduled receipt for PAINT")
	}
	if !paint.BackorderCostPerUnitPerDay.IsZero() {
		t.Errorf("Expected empty backorder cost to default to zero, got %s", paint.BackorderCostPerUnitPerDay)
	}
}

func TestLoadMaterialsInvalidDate(t *testing.T) {
	path := writeTempCSV(t, "materials.csv",
		"material_id,ordering_cost,holding_cost_per_day,backorder_cost_per_unit_per_day,lead_time_days,safety_stock,on_hand,scheduled_receipt_date,scheduled_receipt_qty,annual_demand\n"+
			"STEEL_ROD,100,0.5,2,3,20,50,07/05/2025,100,9000\n")

	if _, err := NewLoader().LoadMaterials(path); err == nil {
		t.Error("Expected error for non-ISO receipt date")
	}
}

func TestLoadMachines(t *testing.T) {
	path := writeTempCSV(t, "machines.csv",
		"machine_id,op_cost_per_hour,cycle_time_hours,capacity_units_per_batch,pre_maintenance_hours,post_maintenance_hours\n"+
			"CNC_01,85.00,1.5,20,0.5,0.5\n")

	machines, err := NewLoader().LoadMachines(path)
	if err != nil {
		t.Fatalf("Failed to load machines: %v", err)
	}
	if len(machines) != 1 {
		t.Fatalf("Expected 1 machine, got %d", len(machines))
	}
	machine := machines[0]
	if machine.CycleTimeHours != 1.5 || machine.CapacityUnitsPerBatch != 20 {
		t.Errorf("Unexpected machine attributes: cycle %f, capacity %f",
			machine.CycleTimeHours, machine.CapacityUnitsPerBatch)
	}
	if machine.TotalMaintenanceHours() != 1 {
		t.Errorf("Expected 1h total maintenance, got %f", machine.TotalMaintenanceHours())
	}
}

func TestLoadEligibility(t *testing.T) {
	path := writeTempCSV(t, "eligibility.csv",
		"product_id,machine_id,allowed\nWIDGET_A,CNC_01,false\nWIDGET_A,LATHE_02,true\n")

	matrix, err := NewLoader().LoadEligibility(path)
	if err != nil {
		t.Fatalf("Failed to load eligibility: %v", err)
	}
	if matrix.Allowed("WIDGET_A", "CNC_01") {
		t.Error("Expected WIDGET_A on CNC_01 to be forbidden")
	}
	if !matrix.Allowed("WIDGET_A", "LATHE_02") {
		t.Error("Expected WIDGET_A on LATHE_02 to be allowed")
	}
	if !matrix.Allowed("WIDGET_B", "CNC_01") {
		t.Error("Expected unlisted pairs to default to allowed")
	}
}

func TestLoadRowErrorsIncludeRowNumber(t *testing.T) {
	path := writeTempCSV(t, "bom.csv",
		"parent_id,material_id,qty_per_unit\nWIDGET_A,STEEL_ROD,not-a-number\n")

	_, err := NewLoader().LoadBOM(path)
	if err == nil {
		t.Fatal("Expected parse error")
	}
	if !strings.Contains(err.Error(), "row 2") {
		t.Errorf("Expected error to reference row 2, got: %s", err)
	}
}
