// Example program running a full planning pass on a small in-memory factory:
// two products, three raw materials, two machines.
package main

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/shopspring/decimal"

	"github.com/prodplan/prodplan/pkg/application/services/orchestration"
	"github.com/prodplan/prodplan/pkg/domain/entities"
	"github.com/prodplan/prodplan/pkg/infrastructure/repositories/memory"
	"github.com/prodplan/prodplan/pkg/infrastructure/solver/highs"
	"github.com/prodplan/prodplan/pkg/interfaces/cli/output"
)

func main() {
	asOf := entities.Day(time.Date(2025, 7, 1, 0, 0, 0, 0, time.UTC))

	productRepo := memory.NewProductRepository(2)
	if err := productRepo.LoadProducts([]*entities.Product{
		{
			ID:                "WIDGET_A",
			UnitsToDeliver:    100,
			OnHand:            10,
			DueDate:           asOf.AddDate(0, 0, 14),
			ReleaseOffsetDays: 2,
			PenaltyPerDay:     decimal.NewFromInt(250),
		},
		{
			ID:                "WIDGET_B",
			UnitsToDeliver:    60,
			OnHand:            0,
			DueDate:           asOf.AddDate(0, 0, 10),
			ReleaseOffsetDays: 1,
			PenaltyPerDay:     decimal.NewFromInt(400),
		},
	}); err != nil {
		log.Fatalf("failed to load products: %v", err)
	}

	bomRepo := memory.NewBOMRepository(4)
	if err := bomRepo.LoadLines([]*entities.BOMLine{
		{ParentID: "WIDGET_A", MaterialID: "STEEL_ROD", QtyPerUnit: 2.5},
		{ParentID: "WIDGET_A", MaterialID: "PAINT", QtyPerUnit: 0.2},
		{ParentID: "WIDGET_B", MaterialID: "STEEL_ROD", QtyPerUnit: 1.0},
		{ParentID: "WIDGET_B", MaterialID: "COPPER_WIRE", QtyPerUnit: 3.0},
	}); err != nil {
		log.Fatalf("failed to load BOM lines: %v", err)
	}

	receiptDate := asOf.AddDate(0, 0, 4)
	materialRepo := memory.NewMaterialRepository(3)
	if err := materialRepo.LoadMaterials([]*entities.Material{
		{
			ID:                         "STEEL_ROD",
			OrderingCost:               decimal.NewFromInt(100),
			HoldingCostPerDay:          decimal.NewFromFloat(0.5),
			BackorderCostPerUnitPerDay: decimal.NewFromInt(2),
			LeadTimeDays:               3,
			SafetyStock:                20,
			OnHand:                     50,
			ScheduledReceiptDate:       &receiptDate,
			ScheduledReceiptQty:        100,
			AnnualDemand:               9000,
		},
		{
			ID:                         "COPPER_WIRE",
			OrderingCost:               decimal.NewFromInt(60),
			HoldingCostPerDay:          decimal.NewFromFloat(0.1),
			BackorderCostPerUnitPerDay: decimal.NewFromInt(1),
			LeadTimeDays:               5,
			SafetyStock:                0,
			OnHand:                     0,
		},
		{
			ID:                "PAINT",
			OrderingCost:      decimal.NewFromInt(25),
			HoldingCostPerDay: decimal.NewFromFloat(0.05),
			LeadTimeDays:      1,
			OnHand:            5,
		},
	}); err != nil {
		log.Fatalf("failed to load materials: %v", err)
	}

	machineRepo := memory.NewMachineRepository(2)
	if err := machineRepo.LoadMachines([]*entities.Machine{
		{
			ID:                    "CNC_01",
			OpCostPerHour:         decimal.NewFromInt(85),
			CycleTimeHours:        1.5,
			CapacityUnitsPerBatch: 20,
			PreMaintenanceHours:   0.5,
			PostMaintenanceHours:  0.5,
		},
		{
			ID:                    "LATHE_02",
			OpCostPerHour:         decimal.NewFromInt(60),
			CycleTimeHours:        2.0,
			CapacityUnitsPerBatch: 15,
			PreMaintenanceHours:   1.0,
			PostMaintenanceHours:  0.5,
		},
	}); err != nil {
		log.Fatalf("failed to load machines: %v", err)
	}

	// WIDGET_B needs the CNC; everything else stays open.
	eligibility := entities.NewEligibilityMatrix()
	eligibility.Set("WIDGET_B", "LATHE_02", false)
	eligRepo := memory.NewEligibilityRepository()
	if err := eligRepo.LoadEligibility(eligibility); err != nil {
		log.Fatalf("failed to load eligibility: %v", err)
	}

	orchestrator := orchestration.NewPlanningOrchestrator(
		highs.New(), materialRepo, productRepo, bomRepo, machineRepo, eligRepo)

	report, err := orchestrator.Run(context.Background(), asOf)
	if err != nil {
		log.Fatalf("planning run failed: %v", err)
	}

	if err := output.Generate(report, output.Config{Format: "text"}); err != nil {
		log.Fatalf("failed to generate output: %v", err)
	}

	for materialID, availableFrom := range report.Planning.Availability {
		fmt.Printf("Material %s available from %s\n",
			materialID, availableFrom.Format("2006-01-02"))
	}
}
