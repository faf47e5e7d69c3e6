package entities

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestMaterialValidate(t *testing.T) {
	valid := Material{
		ID:           "STEEL_ROD",
		OrderingCost: decimal.NewFromInt(100),
		LeadTimeDays: 3,
	}
	if err := valid.Validate(); err != nil {
		t.Errorf("Expected valid material to pass validation, got %v", err)
	}

	tests := []struct {
		name     string
		material Material
	}{
		{"empty id", Material{}},
		{"negative lead time", Material{ID: "M", LeadTimeDays: -1}},
		{"negative ordering cost", Material{ID: "M", OrderingCost: decimal.NewFromInt(-1)}},
		{"negative on hand", Material{ID: "M", OnHand: -5}},
	}
	for _, test := range tests {
		if err := test.material.Validate(); err == nil {
			t.Errorf("Expected validation error for %s", test.name)
		}
	}
}

func TestDayTruncatesToUTCMidnight(t *testing.T) {
	stamp := time.Date(2025, 7, 10, 16, 45, 30, 12, time.UTC)
	truncated := Day(stamp)
	if truncated != day(2025, 7, 10) {
		t.Errorf("Expected 2025-07-10T00:00:00Z, got %v", truncated)
	}
}

func TestRequirementMapAccumulatesSameDay(t *testing.T) {
	reqs := make(RequirementMap)
	reqs.Add(time.Date(2025, 7, 10, 9, 0, 0, 0, time.UTC), 10)
	reqs.Add(time.Date(2025, 7, 10, 17, 0, 0, 0, time.UTC), 15)

	if got := reqs[day(2025, 7, 10)]; got != 25 {
		t.Errorf("Expected same-day requirements to accumulate to 25, got %f", got)
	}
}

func TestRequirementMapHorizon(t *testing.T) {
	reqs := make(RequirementMap)
	if _, _, ok := reqs.Horizon(); ok {
		t.Error("Expected empty map to report no horizon")
	}

	reqs.Add(day(2025, 7, 20), 5)
	reqs.Add(day(2025, 7, 3), 5)
	reqs.Add(day(2025, 7, 12), 5)

	start, end, ok := reqs.Horizon()
	if !ok {
		t.Fatal("Expected a horizon for a populated map")
	}
	if start != day(2025, 7, 3) || end != day(2025, 7, 20) {
		t.Errorf("Expected horizon [Jul 3, Jul 20], got [%v, %v]", start, end)
	}
}

func TestRequirementMapSumWindowInclusive(t *testing.T) {
	reqs := make(RequirementMap)
	reqs.Add(day(2025, 7, 1), 10)
	reqs.Add(day(2025, 7, 5), 20)
	reqs.Add(day(2025, 7, 10), 40)

	if got := reqs.SumWindow(day(2025, 7, 1), day(2025, 7, 5)); got != 30 {
		t.Errorf("Expected both window endpoints included, got %f", got)
	}
	if got := reqs.SumWindow(day(2025, 7, 2), day(2025, 7, 4)); got != 0 {
		t.Errorf("Expected empty interior window to sum to 0, got %f", got)
	}
}
