package output

import (
	"fmt"
	"math"
	"sort"
	"strings"

	"github.com/prodplan/prodplan/pkg/application/dto"
	"github.com/prodplan/prodplan/pkg/domain/entities"
)

// GanttChart renders the per-machine task timeline as SVG. One row per
// machine, the horizontal axis in hours from the planning start.
type GanttChart struct {
	Width        int
	Height       int
	MarginLeft   int
	MarginTop    int
	MarginRight  int
	MarginBottom int
	RowHeight    int
	EndHours     float64
}

// NewGanttChart sizes a chart for the given schedule
func NewGanttChart(schedule *dto.ScheduleResult) *GanttChart {
	chart := &GanttChart{
		Width:        1200,
		Height:       200,
		MarginLeft:   150,
		MarginTop:    60,
		MarginRight:  60,
		MarginBottom: 60,
		RowHeight:    30,
	}
	if schedule == nil || len(schedule.Tasks) == 0 {
		return chart
	}

	machines := make(map[entities.MachineID]bool)
	for _, task := range schedule.Tasks {
		machines[task.Machine] = true
		if task.FinishHours > chart.EndHours {
			chart.EndHours = task.FinishHours
		}
	}
	// 10% padding on the time axis keeps the last bar off the border.
	chart.EndHours *= 1.1
	chart.Height = len(machines)*chart.RowHeight + chart.MarginTop + chart.MarginBottom
	return chart
}

// GenerateSVG creates an SVG representation of the machine timeline
func (gc *GanttChart) GenerateSVG(schedule *dto.ScheduleResult) string {
	if schedule == nil || len(schedule.Tasks) == 0 || gc.EndHours <= 0 {
		return gc.generateEmptyChart()
	}

	var svg strings.Builder
	svg.WriteString(fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">`, gc.Width, gc.Height))
	svg.WriteString(`<defs><style>`)
	svg.WriteString(`.machine-label { font-family: Arial, sans-serif; font-size: 12px; fill: #333; }`)
	svg.WriteString(`.time-label { font-family: Arial, sans-serif; font-size: 10px; fill: #666; }`)
	svg.WriteString(`.title { font-family: Arial, sans-serif; font-size: 16px; font-weight: bold; fill: #333; }`)
	svg.WriteString(`.grid-line { stroke: #e0e0e0; stroke-width: 1; }`)
	svg.WriteString(`.task-bar { stroke: #333; stroke-width: 1; }`)
	svg.WriteString(`.task-text { font-family: Arial, sans-serif; font-size: 9px; fill: white; }`)
	svg.WriteString(`</style></defs>`)

	svg.WriteString(fmt.Sprintf(`<rect width="%d" height="%d" fill="white"/>`, gc.Width, gc.Height))
	svg.WriteString(fmt.Sprintf(`<text x="%d" y="30" class="title">Machine Schedule - Earliest Due Date Sequence</text>`, gc.MarginLeft))

	machines := gc.machineOrder(schedule.Tasks)
	gc.drawTimeAxis(&svg, len(machines))
	gc.drawMachineRows(&svg, machines, schedule.Tasks)

	svg.WriteString(`</svg>`)
	return svg.String()
}

// machineOrder returns machines sorted by id for a stable row layout
func (gc *GanttChart) machineOrder(tasks []entities.MachineTask) []entities.MachineID {
	seen := make(map[entities.MachineID]bool)
	var machines []entities.MachineID
	for _, task := range tasks {
		if !seen[task.Machine] {
			seen[task.Machine] = true
			machines = append(machines, task.Machine)
		}
	}
	sort.Slice(machines, func(i, j int) bool { return machines[i] < machines[j] })
	return machines
}

// drawTimeAxis draws hour gridlines and labels at a readable interval
func (gc *GanttChart) drawTimeAxis(svg *strings.Builder, numRows int) {
	chartWidth := gc.Width - gc.MarginLeft - gc.MarginRight
	gridBottom := gc.MarginTop + numRows*gc.RowHeight

	interval := niceHourInterval(gc.EndHours)
	for h := 0.0; h <= gc.EndHours; h += interval {
		x := gc.MarginLeft + int(h/gc.EndHours*float64(chartWidth))
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			x, gc.MarginTop, x, gridBottom))
		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="time-label" text-anchor="middle">%.0fh</text>`,
			x, gridBottom+15, h))
	}

	svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
		gc.MarginLeft, gridBottom, gc.Width-gc.MarginRight, gridBottom))
}

// drawMachineRows draws one row of task bars per machine
func (gc *GanttChart) drawMachineRows(svg *strings.Builder, machines []entities.MachineID, tasks []entities.MachineTask) {
	chartWidth := gc.Width - gc.MarginLeft - gc.MarginRight

	rowIndex := make(map[entities.MachineID]int, len(machines))
	for i, machine := range machines {
		rowIndex[machine] = i
		y := gc.MarginTop + i*gc.RowHeight

		svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="machine-label" text-anchor="end">%s</text>`,
			gc.MarginLeft-10, y+gc.RowHeight/2+4, machine))
		svg.WriteString(fmt.Sprintf(`<line x1="%d" y1="%d" x2="%d" y2="%d" class="grid-line"/>`,
			gc.MarginLeft, y+gc.RowHeight, gc.Width-gc.MarginRight, y+gc.RowHeight))
	}

	for _, task := range tasks {
		y := gc.MarginTop + rowIndex[task.Machine]*gc.RowHeight
		x := gc.MarginLeft + int(task.StartHours/gc.EndHours*float64(chartWidth))
		width := int(task.DurationHours / gc.EndHours * float64(chartWidth))
		if width < 2 {
			width = 2
		}

		svg.WriteString(fmt.Sprintf(`<rect x="%d" y="%d" width="%d" height="%d" fill="%s" class="task-bar">`,
			x, y+3, width, gc.RowHeight-6, barColor(task.Product)))
		svg.WriteString(fmt.Sprintf(`<title>Product: %s, Start: %.1fh, Finish: %.1fh</title>`,
			task.Product, task.StartHours, task.FinishHours))
		svg.WriteString(`</rect>`)

		if width > 50 {
			svg.WriteString(fmt.Sprintf(`<text x="%d" y="%d" class="task-text" text-anchor="middle">%s</text>`,
				x+width/2, y+gc.RowHeight/2+3, task.Product))
		}
	}
}

// niceHourInterval picks a gridline spacing that yields 8-16 labels
func niceHourInterval(endHours float64) float64 {
	raw := endHours / 12
	magnitude := math.Pow(10, math.Floor(math.Log10(math.Max(raw, 1))))
	for _, step := range []float64{1, 2, 5, 10} {
		if raw <= step*magnitude {
			return step * magnitude
		}
	}
	return 10 * magnitude
}

var barPalette = []string{"#4CAF50", "#2196F3", "#FF9800", "#9C27B0", "#009688", "#E91E63"}

// barColor assigns a stable color per product
func barColor(product entities.ProductID) string {
	var hash uint32
	for _, c := range product {
		hash = hash*31 + uint32(c)
	}
	return barPalette[hash%uint32(len(barPalette))]
}

// generateEmptyChart creates an empty chart when no tasks exist
func (gc *GanttChart) generateEmptyChart() string {
	return fmt.Sprintf(`<svg width="%d" height="%d" xmlns="http://www.w3.org/2000/svg">
		<rect width="%d" height="%d" fill="white"/>
		<text x="%d" y="%d" class="title" text-anchor="middle">No Scheduled Tasks</text>
		<style>
			.title { font-family: Arial, sans-serif; font-size: 16px; fill: #666; }
		</style>
	</svg>`, gc.Width, gc.Height, gc.Width, gc.Height, gc.Width/2, gc.Height/2)
}
