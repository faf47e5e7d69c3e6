// Package excel serializes planning reports to an Excel workbook.
package excel

import (
	"fmt"

	"github.com/xuri/excelize/v2"

	"github.com/prodplan/prodplan/pkg/application/dto"
)

const dateLayout = "2006-01-02"

// Writer exports a planning report as an .xlsx workbook with one sheet per
// output table.
type Writer struct{}

// NewWriter creates an Excel report writer
func NewWriter() *Writer {
	return &Writer{}
}

// Write saves the report to the given path
func (w *Writer) Write(report *dto.PlanningReport, path string) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", "Procurement Plan"); err != nil {
		return fmt.Errorf("failed to rename default sheet: %w", err)
	}

	if err := w.writeProcurement(f, report); err != nil {
		return err
	}
	if err := w.writeComparison(f, report); err != nil {
		return err
	}
	if err := w.writeSchedule(f, report); err != nil {
		return err
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save report to %s: %w", path, err)
	}
	return nil
}

func (w *Writer) writeProcurement(f *excelize.File, report *dto.PlanningReport) error {
	sheet := "Procurement Plan"
	headers := []any{"Material", "Policy", "Requirement Date", "Net Requirement", "Order Qty", "Release Date", "Receipt Date"}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}

	row := 2
	for _, plan := range report.Planning.MaterialPlans {
		for _, order := range plan.Orders {
			values := []any{
				string(plan.MaterialID),
				plan.PolicyLabel,
				order.RequirementDate.Format(dateLayout),
				order.NetRequirement,
				order.OrderQty,
				order.ReleaseDate.Format(dateLayout),
				order.ReceiptDate.Format(dateLayout),
			}
			if err := writeRow(f, sheet, row, values); err != nil {
				return err
			}
			row++
		}
	}
	return nil
}

func (w *Writer) writeComparison(f *excelize.File, report *dto.PlanningReport) error {
	sheet := "Cost Comparison"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	headers := []any{"Material", "LFL Total", "POQ Total", "EOQ Total", "Best POQ Period", "EOQ Qty", "Recommended", "Winner Total"}
	if err := writeRow(f, sheet, 1, headers); err != nil {
		return err
	}

	for i, cmp := range report.Planning.Comparisons {
		values := []any{
			string(cmp.MaterialID),
			cmp.LFLTotalCost.InexactFloat64(),
			cmp.POQTotalCost.InexactFloat64(),
			cmp.EOQTotalCost.InexactFloat64(),
			cmp.BestPOQPeriodDays,
			cmp.EOQOrderQty,
			cmp.RecommendedPolicy,
			cmp.WinnerTotalCost.InexactFloat64(),
		}
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) writeSchedule(f *excelize.File, report *dto.PlanningReport) error {
	if report.Schedule == nil {
		return nil
	}

	sheet := "Machine Assignments"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	if err := writeRow(f, sheet, 1, []any{"Product", "Machine", "Units Produced", "Cycles"}); err != nil {
		return err
	}
	for i, assignment := range report.Schedule.Assignments {
		values := []any{
			string(assignment.Product),
			string(assignment.Machine),
			assignment.UnitsProduced,
			assignment.Cycles,
		}
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}

	sheet = "Machine Tasks"
	if _, err := f.NewSheet(sheet); err != nil {
		return fmt.Errorf("failed to create sheet %s: %w", sheet, err)
	}
	if err := writeRow(f, sheet, 1, []any{"Machine", "Product", "Start Hours", "Finish Hours", "Duration Hours"}); err != nil {
		return err
	}
	for i, task := range report.Schedule.Tasks {
		values := []any{
			string(task.Machine),
			string(task.Product),
			task.StartHours,
			task.FinishHours,
			task.DurationHours,
		}
		if err := writeRow(f, sheet, i+2, values); err != nil {
			return err
		}
	}
	return nil
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, value := range values {
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("failed to compute cell name: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write %s!%s: %w", sheet, cell, err)
		}
	}
	return nil
}
