package output

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/prodplan/prodplan/pkg/application/dto"
)

// Config holds configuration for output generation
type Config struct {
	Format    string
	OutputDir string
	Verbose   bool
}

// Generate creates output in the specified format
func Generate(report *dto.PlanningReport, config Config) error {
	switch config.Format {
	case "text":
		return generateTextOutput(report, config)
	case "json":
		return generateJSONOutput(report, config)
	default:
		return fmt.Errorf("unsupported output format: %s", config.Format)
	}
}

// generateTextOutput creates human-readable text output
func generateTextOutput(report *dto.PlanningReport, config Config) error {
	fmt.Printf("📊 Planning Run %s\n", report.RunID)
	fmt.Printf("======================\n\n")

	planning := report.Planning
	fmt.Printf("As Of: %s\n", planning.AsOf.Format("2006-01-02"))
	fmt.Printf("Materials Planned: %d\n", len(planning.MaterialPlans))
	fmt.Printf("Diagnostics: %d\n\n", len(planning.Diagnostics))

	if len(planning.Comparisons) > 0 {
		fmt.Printf("💰 Lot-Sizing Cost Comparison:\n")
		fmt.Printf("%-15s %-12s %-12s %-12s %-22s %-12s\n",
			"Material", "LFL Total", "POQ Total", "EOQ Total", "Recommended", "Winner")
		fmt.Printf("%-15s %-12s %-12s %-12s %-22s %-12s\n",
			"---------------", "------------", "------------", "------------",
			"----------------------", "------------")
		for _, cmp := range planning.Comparisons {
			fmt.Printf("%-15s %-12s %-12s %-12s %-22s %-12s\n",
				cmp.MaterialID,
				cmp.LFLTotalCost.StringFixed(2),
				cmp.POQTotalCost.StringFixed(2),
				cmp.EOQTotalCost.StringFixed(2),
				cmp.RecommendedPolicy,
				cmp.WinnerTotalCost.StringFixed(2))
		}
		fmt.Println()
	}

	totalOrders := 0
	for _, plan := range planning.MaterialPlans {
		totalOrders += len(plan.Orders)
	}
	if totalOrders > 0 {
		fmt.Printf("📋 Planned Orders:\n")
		fmt.Printf("%-15s %-22s %-12s %-10s %-12s %-12s\n",
			"Material", "Policy", "Req Date", "Qty", "Release", "Receipt")
		fmt.Printf("%-15s %-22s %-12s %-10s %-12s %-12s\n",
			"---------------", "----------------------", "------------", "----------",
			"------------", "------------")
		for _, plan := range planning.MaterialPlans {
			for _, order := range plan.Orders {
				fmt.Printf("%-15s %-22s %-12s %-10.1f %-12s %-12s\n",
					plan.MaterialID,
					plan.PolicyLabel,
					order.RequirementDate.Format("2006-01-02"),
					order.OrderQty,
					order.ReleaseDate.Format("2006-01-02"),
					order.ReceiptDate.Format("2006-01-02"))
			}
		}
		fmt.Println()
	}

	if len(planning.Diagnostics) > 0 {
		fmt.Printf("⚠️  Diagnostics:\n")
		for _, diag := range planning.Diagnostics {
			fmt.Printf("  [%s] %s\n", diag.Code, diag.Message)
		}
		fmt.Println()
	}

	if schedule := report.Schedule; schedule != nil {
		fmt.Printf("🏭 Machine Schedule (%s)\n", schedule.Status)
		if len(schedule.Assignments) > 0 {
			fmt.Printf("%-15s %-15s %-12s %-8s\n", "Product", "Machine", "Units", "Cycles")
			fmt.Printf("%-15s %-15s %-12s %-8s\n",
				"---------------", "---------------", "------------", "--------")
			for _, assignment := range schedule.Assignments {
				fmt.Printf("%-15s %-15s %-12.1f %-8d\n",
					assignment.Product, assignment.Machine,
					assignment.UnitsProduced, assignment.Cycles)
			}
			fmt.Println()
		}
		if len(schedule.Tasks) > 0 {
			fmt.Printf("🗓  Machine Timeline (EDD):\n")
			fmt.Printf("%-15s %-15s %-10s %-10s %-10s\n",
				"Machine", "Product", "Start", "Finish", "Hours")
			fmt.Printf("%-15s %-15s %-10s %-10s %-10s\n",
				"---------------", "---------------", "----------", "----------", "----------")
			for _, task := range schedule.Tasks {
				fmt.Printf("%-15s %-15s %-10.1f %-10.1f %-10.1f\n",
					task.Machine, task.Product,
					task.StartHours, task.FinishHours, task.DurationHours)
			}
			fmt.Println()
		}
	}

	return nil
}

// generateJSONOutput creates JSON output
func generateJSONOutput(report *dto.PlanningReport, config Config) error {
	jsonData, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal JSON: %w", err)
	}

	if config.OutputDir == "" {
		fmt.Println(string(jsonData))
		return nil
	}

	if err := os.MkdirAll(config.OutputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	filename := filepath.Join(config.OutputDir, "planning_report.json")
	if err := os.WriteFile(filename, jsonData, 0644); err != nil {
		return fmt.Errorf("failed to write JSON file: %w", err)
	}
	if config.Verbose {
		fmt.Printf("💾 JSON report saved to: %s\n", filename)
	}
	return nil
}
