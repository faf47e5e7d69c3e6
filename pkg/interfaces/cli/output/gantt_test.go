package output

import (
	"strings"
	"testing"

	"github.com/prodplan/prodplan/pkg/application/dto"
	"github.com/prodplan/prodplan/pkg/domain/entities"
)

func TestGenerateSVGEmptySchedule(t *testing.T) {
	chart := NewGanttChart(nil)
	svg := chart.GenerateSVG(nil)
	if !strings.Contains(svg, "No Scheduled Tasks") {
		t.Error("Expected empty chart message for a nil schedule")
	}
}

func TestGenerateSVGContainsMachineRows(t *testing.T) {
	schedule := &dto.ScheduleResult{
		Status: entities.SolveOptimal,
		Tasks: []entities.MachineTask{
			{Machine: "CNC_01", Product: "WIDGET_A", StartHours: 0, FinishHours: 5, DurationHours: 5},
			{Machine: "LATHE_02", Product: "WIDGET_B", StartHours: 0, FinishHours: 3, DurationHours: 3},
		},
	}

	chart := NewGanttChart(schedule)
	svg := chart.GenerateSVG(schedule)

	if !strings.HasPrefix(svg, "<svg") || !strings.HasSuffix(svg, "</svg>") {
		t.Error("Expected a complete SVG document")
	}
	for _, expected := range []string{"CNC_01", "LATHE_02", "task-bar"} {
		if !strings.Contains(svg, expected) {
			t.Errorf("Expected SVG to contain %q", expected)
		}
	}
}

func TestNewGanttChartSizesToMachineCount(t *testing.T) {
	schedule := &dto.ScheduleResult{
		Tasks: []entities.MachineTask{
			{Machine: "M1", Product: "P1", FinishHours: 10, DurationHours: 10},
			{Machine: "M2", Product: "P2", FinishHours: 8, DurationHours: 8},
			{Machine: "M3", Product: "P3", FinishHours: 6, DurationHours: 6},
		},
	}

	chart := NewGanttChart(schedule)
	expected := 3*chart.RowHeight + chart.MarginTop + chart.MarginBottom
	if chart.Height != expected {
		t.Errorf("Expected height %d for 3 machines, got %d", expected, chart.Height)
	}
	if chart.EndHours <= 10 {
		t.Errorf("Expected padded end beyond the latest finish, got %f", chart.EndHours)
	}
}
