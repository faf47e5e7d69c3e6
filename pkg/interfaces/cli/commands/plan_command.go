package commands

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/prodplan/prodplan/pkg/application/dto"
	"github.com/prodplan/prodplan/pkg/application/services/orchestration"
	"github.com/prodplan/prodplan/pkg/domain/entities"
	"github.com/prodplan/prodplan/pkg/infrastructure/reporting/excel"
	"github.com/prodplan/prodplan/pkg/infrastructure/repositories/csv"
	"github.com/prodplan/prodplan/pkg/infrastructure/repositories/memory"
	"github.com/prodplan/prodplan/pkg/infrastructure/solver/highs"
	"github.com/prodplan/prodplan/pkg/interfaces/cli/output"
)

// Config holds configuration for the plan command
type Config struct {
	ScenarioDir     string
	ProductsFile    string
	BOMFile         string
	MaterialsFile   string
	MachinesFile    string
	EligibilityFile string
	AsOf            string
	OutputDir       string
	Format          string
	Excel           bool
	Gantt           bool
	Verbose         bool
	SolveTimeout    time.Duration
	Help            bool
}

// PlanCommand runs one end-to-end procurement and scheduling pass
type PlanCommand struct {
	config Config
	logger *zap.Logger
}

// NewPlanCommand creates a new plan command with the given configuration
func NewPlanCommand(config Config, logger *zap.Logger) *PlanCommand {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &PlanCommand{config: config, logger: logger}
}

// Execute runs the plan command
func (c *PlanCommand) Execute(ctx context.Context) error {
	if c.config.Help {
		c.showHelp()
		return nil
	}

	if err := c.validateInputs(); err != nil {
		return fmt.Errorf("validation error: %w", err)
	}

	asOf, err := c.resolveAsOf()
	if err != nil {
		return err
	}

	files, err := c.resolveInputFiles()
	if err != nil {
		return fmt.Errorf("failed to resolve input files: %w", err)
	}

	if c.config.Verbose {
		c.printHeader(files, asOf)
	}

	if c.config.Verbose {
		fmt.Println("📂 Loading data from CSV files...")
	}

	csvLoader := csv.NewLoader()

	products, err := csvLoader.LoadProducts(files["Products"])
	if err != nil {
		return fmt.Errorf("error loading products: %w", err)
	}
	bomLines, err := csvLoader.LoadBOM(files["BOM"])
	if err != nil {
		return fmt.Errorf("error loading BOM: %w", err)
	}
	materials, err := csvLoader.LoadMaterials(files["Materials"])
	if err != nil {
		return fmt.Errorf("error loading materials: %w", err)
	}
	machines, err := csvLoader.LoadMachines(files["Machines"])
	if err != nil {
		return fmt.Errorf("error loading machines: %w", err)
	}

	eligibility := entities.NewEligibilityMatrix()
	if path, ok := files["Eligibility"]; ok {
		eligibility, err = csvLoader.LoadEligibility(path)
		if err != nil {
			return fmt.Errorf("error loading eligibility: %w", err)
		}
	}

	if c.config.Verbose {
		fmt.Printf("✅ Data loaded successfully:\n")
		fmt.Printf("  Products: %d\n", len(products))
		fmt.Printf("  BOM Lines: %d\n", len(bomLines))
		fmt.Printf("  Materials: %d\n", len(materials))
		fmt.Printf("  Machines: %d\n", len(machines))
		fmt.Println()
	}

	productRepo := memory.NewProductRepository(len(products))
	if err := productRepo.LoadProducts(products); err != nil {
		return fmt.Errorf("failed to load products into repository: %w", err)
	}
	bomRepo := memory.NewBOMRepository(len(bomLines))
	if err := bomRepo.LoadLines(bomLines); err != nil {
		return fmt.Errorf("failed to load BOM lines into repository: %w", err)
	}
	materialRepo := memory.NewMaterialRepository(len(materials))
	if err := materialRepo.LoadMaterials(materials); err != nil {
		return fmt.Errorf("failed to load materials into repository: %w", err)
	}
	machineRepo := memory.NewMachineRepository(len(machines))
	if err := machineRepo.LoadMachines(machines); err != nil {
		return fmt.Errorf("failed to load machines into repository: %w", err)
	}
	eligRepo := memory.NewEligibilityRepository()
	if err := eligRepo.LoadEligibility(eligibility); err != nil {
		return fmt.Errorf("failed to load eligibility into repository: %w", err)
	}

	solver := highs.NewWithOptions(c.config.SolveTimeout, c.config.Verbose)
	orchestrator := orchestration.NewPlanningOrchestratorWithLogger(
		solver, materialRepo, productRepo, bomRepo, machineRepo, eligRepo, c.logger)

	if c.config.Verbose {
		fmt.Println("🔄 Running procurement planning and machine scheduling...")
	}

	startTime := time.Now()
	report, err := orchestrator.Run(ctx, asOf)
	if err != nil {
		return fmt.Errorf("planning run failed: %w", err)
	}

	if c.config.Verbose {
		fmt.Printf("✅ Planning run completed in %v\n\n", time.Since(startTime))
	}

	outputConfig := output.Config{
		Format:    c.config.Format,
		OutputDir: c.config.OutputDir,
		Verbose:   c.config.Verbose,
	}
	if err := output.Generate(report, outputConfig); err != nil {
		return fmt.Errorf("error generating output: %w", err)
	}

	if err := c.writeArtifacts(report); err != nil {
		return err
	}

	if c.config.Verbose {
		fmt.Println("🏁 Planning complete!")
	}
	return nil
}

// writeArtifacts saves the optional Excel workbook and Gantt SVG
func (c *PlanCommand) writeArtifacts(report *dto.PlanningReport) error {
	if !c.config.Excel && !c.config.Gantt {
		return nil
	}
	outputDir := c.config.OutputDir
	if outputDir == "" {
		outputDir = "."
	}
	if err := os.MkdirAll(outputDir, 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	if c.config.Excel {
		path := filepath.Join(outputDir, "planning_report.xlsx")
		if err := excel.NewWriter().Write(report, path); err != nil {
			return fmt.Errorf("error writing Excel report: %w", err)
		}
		if c.config.Verbose {
			fmt.Printf("💾 Excel report saved to: %s\n", path)
		}
	}

	if c.config.Gantt {
		chart := output.NewGanttChart(report.Schedule)
		svg := chart.GenerateSVG(report.Schedule)
		path := filepath.Join(outputDir, "machine_schedule.svg")
		if err := os.WriteFile(path, []byte(svg), 0644); err != nil {
			return fmt.Errorf("error writing Gantt chart: %w", err)
		}
		if c.config.Verbose {
			fmt.Printf("💾 Gantt chart saved to: %s\n", path)
		}
	}
	return nil
}

// validateInputs validates the command configuration
func (c *PlanCommand) validateInputs() error {
	if c.config.ScenarioDir == "" &&
		(c.config.ProductsFile == "" || c.config.BOMFile == "" ||
			c.config.MaterialsFile == "" || c.config.MachinesFile == "") {
		return fmt.Errorf("must specify either -scenario directory or individual CSV files")
	}
	return nil
}

// resolveAsOf parses the planning start date, defaulting to today
func (c *PlanCommand) resolveAsOf() (time.Time, error) {
	if c.config.AsOf == "" {
		return entities.Day(time.Now().UTC()), nil
	}
	asOf, err := time.Parse("2006-01-02", c.config.AsOf)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid -as-of date: %s (expected YYYY-MM-DD)", c.config.AsOf)
	}
	return entities.Day(asOf), nil
}

// resolveInputFiles determines the actual file paths to use. The eligibility
// file is optional; when absent every product runs on every machine.
func (c *PlanCommand) resolveInputFiles() (map[string]string, error) {
	var productsPath, bomPath, materialsPath, machinesPath, eligibilityPath string

	if c.config.ScenarioDir != "" {
		productsPath = filepath.Join(c.config.ScenarioDir, "products.csv")
		bomPath = filepath.Join(c.config.ScenarioDir, "bom.csv")
		materialsPath = filepath.Join(c.config.ScenarioDir, "materials.csv")
		machinesPath = filepath.Join(c.config.ScenarioDir, "machines.csv")
		eligibilityPath = filepath.Join(c.config.ScenarioDir, "eligibility.csv")
	} else {
		productsPath = c.config.ProductsFile
		bomPath = c.config.BOMFile
		materialsPath = c.config.MaterialsFile
		machinesPath = c.config.MachinesFile
		eligibilityPath = c.config.EligibilityFile
	}

	files := map[string]string{
		"Products":  productsPath,
		"BOM":       bomPath,
		"Materials": materialsPath,
		"Machines":  machinesPath,
	}

	for name, path := range files {
		if _, err := os.Stat(path); os.IsNotExist(err) {
			return nil, fmt.Errorf("%s file not found: %s", name, path)
		}
	}

	if eligibilityPath != "" {
		if _, err := os.Stat(eligibilityPath); err == nil {
			files["Eligibility"] = eligibilityPath
		} else if c.config.EligibilityFile != "" {
			return nil, fmt.Errorf("Eligibility file not found: %s", eligibilityPath)
		}
	}

	return files, nil
}

// printHeader prints the command header information
func (c *PlanCommand) printHeader(files map[string]string, asOf time.Time) {
	fmt.Printf("🚀 Production Planning CLI\n")
	fmt.Printf("As of: %s\n", asOf.Format("2006-01-02"))
	fmt.Printf("Input files:\n")
	fmt.Printf("  Products: %s\n", files["Products"])
	fmt.Printf("  BOM: %s\n", files["BOM"])
	fmt.Printf("  Materials: %s\n", files["Materials"])
	fmt.Printf("  Machines: %s\n", files["Machines"])
	if path, ok := files["Eligibility"]; ok {
		fmt.Printf("  Eligibility: %s\n", path)
	}
	fmt.Printf("Output format: %s\n", c.config.Format)
	if c.config.OutputDir != "" {
		fmt.Printf("Output directory: %s\n", c.config.OutputDir)
	}
	fmt.Println()
}

// showHelp displays the help message
func (c *PlanCommand) showHelp() {
	fmt.Printf(`Production Planning CLI - Raw Material Procurement and Machine Scheduling

USAGE:
    prodplan -scenario <directory>             # Use scenario directory with CSV files
    prodplan -products <file> -bom <file> ...  # Use individual CSV files

OPTIONS:
    -scenario <dir>      Path to scenario directory containing CSV files
    -products <file>     Path to product orders CSV file
    -bom <file>          Path to BOM CSV file
    -materials <file>    Path to material master CSV file
    -machines <file>     Path to machine master CSV file
    -eligibility <file>  Path to eligibility CSV file (optional)
    -as-of <date>        Planning start date YYYY-MM-DD (default: today)
    -output <dir>        Output directory for results (optional)
    -format <fmt>        Output format: text, json (default: text)
    -excel               Write planning_report.xlsx to the output directory
    -gantt               Write machine_schedule.svg to the output directory
    -solve-timeout <d>   Maximum solve duration (default: 30s)
    -verbose             Enable verbose output
    -help                Show this help message

SCENARIO DIRECTORY STRUCTURE:
    scenario_name/
    ├── products.csv     # Product orders with due dates
    ├── bom.csv          # Product to raw material usage
    ├── materials.csv    # Material master with costs and lead times
    ├── machines.csv     # Machine master with rates and capacities
    └── eligibility.csv  # Product/machine eligibility (optional)

CSV FILE FORMATS:

products.csv:
    product_id,units_to_deliver,on_hand,due_date,release_offset_days,penalty_per_day
    WIDGET_A,100,10,2025-07-15,2,250.00

bom.csv:
    parent_id,material_id,qty_per_unit
    WIDGET_A,STEEL_ROD,2.5

materials.csv:
    material_id,ordering_cost,holding_cost_per_day,backorder_cost_per_unit_per_day,lead_time_days,safety_stock,on_hand,scheduled_receipt_date,scheduled_receipt_qty,annual_demand
    STEEL_ROD,100.00,0.50,2.00,3,20,50,2025-07-05,100,9000

machines.csv:
    machine_id,op_cost_per_hour,cycle_time_hours,capacity_units_per_batch,pre_maintenance_hours,post_maintenance_hours
    CNC_01,85.00,1.5,20,0.5,0.5

eligibility.csv:
    product_id,machine_id,allowed
    WIDGET_A,CNC_01,true

EXAMPLES:
    # Run a scenario with text output
    prodplan -scenario examples/factory_basic -verbose

    # Generate JSON plus Excel and Gantt artifacts
    prodplan -scenario examples/factory_basic -format json -output results/ -excel -gantt

    # Fixed planning date with a longer solve budget
    prodplan -scenario examples/factory_basic -as-of 2025-07-01 -solve-timeout 2m
`)
}
