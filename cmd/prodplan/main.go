package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"
	"go.uber.org/zap"

	"github.com/prodplan/prodplan/pkg/interfaces/cli/commands"
)

const defaultSolveTimeout = 30 * time.Second

func main() {
	// Optional .env for local overrides; missing file is fine.
	_ = godotenv.Load()

	var (
		scenarioDir = flag.String(
			"scenario",
			"",
			"Path to scenario directory containing CSV files",
		)
		productsFile    = flag.String("products", "", "Path to product orders CSV file")
		bomFile         = flag.String("bom", "", "Path to BOM CSV file")
		materialsFile   = flag.String("materials", "", "Path to material master CSV file")
		machinesFile    = flag.String("machines", "", "Path to machine master CSV file")
		eligibilityFile = flag.String("eligibility", "", "Path to eligibility CSV file (optional)")
		asOf            = flag.String("as-of", "", "Planning start date YYYY-MM-DD (default: today)")
		outputDir       = flag.String("output", "", "Output directory for results (optional)")
		format          = flag.String("format", "text", "Output format: text, json")
		excelOut        = flag.Bool("excel", false, "Write an Excel workbook report")
		ganttOut        = flag.Bool("gantt", false, "Write a machine schedule Gantt SVG")
		solveTimeout    = flag.Duration("solve-timeout", solveTimeoutDefault(), "Maximum solve duration")
		verbose         = flag.Bool("verbose", false, "Enable verbose output")
		help            = flag.Bool("help", false, "Show help message")
	)

	flag.Parse()

	logger := newLogger(*verbose)
	defer logger.Sync()

	config := commands.Config{
		ScenarioDir:     *scenarioDir,
		ProductsFile:    *productsFile,
		BOMFile:         *bomFile,
		MaterialsFile:   *materialsFile,
		MachinesFile:    *machinesFile,
		EligibilityFile: *eligibilityFile,
		AsOf:            *asOf,
		OutputDir:       *outputDir,
		Format:          *format,
		Excel:           *excelOut,
		Gantt:           *ganttOut,
		Verbose:         *verbose,
		SolveTimeout:    *solveTimeout,
		Help:            *help,
	}

	cmd := commands.NewPlanCommand(config, logger)

	if err := cmd.Execute(context.Background()); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// solveTimeoutDefault reads PRODPLAN_SOLVE_TIMEOUT, falling back to 30s
func solveTimeoutDefault() time.Duration {
	if value := os.Getenv("PRODPLAN_SOLVE_TIMEOUT"); value != "" {
		if d, err := time.ParseDuration(value); err == nil && d > 0 {
			return d
		}
	}
	return defaultSolveTimeout
}

func newLogger(verbose bool) *zap.Logger {
	build := zap.NewProduction
	if verbose {
		build = zap.NewDevelopment
	}
	logger, err := build()
	if err != nil {
		return zap.NewNop()
	}
	return logger
}
