package requirements

import (
	"github.com/prodplan/prodplan/pkg/domain/entities"
)

// Exploder turns product net demand and BOM lines into time-phased gross
// requirements per raw material.
type Exploder struct{}

// NewExploder creates a requirement exploder
func NewExploder() *Exploder {
	return &Exploder{}
}

// Explode builds one requirement map per material. A product contributes only
// when its net requirement (units to deliver minus finished-goods stock) is
// positive; each of its BOM components then receives net * qty-per-unit on the
// product's need-by date (due date minus release offset). Requirements on the
// same day accumulate.
func (e *Exploder) Explode(products []*entities.Product, bomLines []*entities.BOMLine) map[entities.MaterialID]entities.RequirementMap {
	componentsByParent := make(map[entities.ProductID][]*entities.BOMLine, len(products))
	for _, line := range bomLines {
		componentsByParent[line.ParentID] = append(componentsByParent[line.ParentID], line)
	}

	grossReqs := make(map[entities.MaterialID]entities.RequirementMap)
	for _, product := range products {
		net := product.NetRequirement()
		if net <= 0 {
			continue
		}

		needBy := entities.Day(product.DueDate).AddDate(0, 0, -product.ReleaseOffsetDays)
		for _, line := range componentsByParent[product.ID] {
			reqs, exists := grossReqs[line.MaterialID]
			if !exists {
				reqs = make(entities.RequirementMap)
				grossReqs[line.MaterialID] = reqs
			}
			reqs.Add(needBy, net*line.QtyPerUnit)
		}
	}

	return grossReqs
}
