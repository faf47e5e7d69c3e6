package memory

import (
	"fmt"

	"github.com/prodplan/prodplan/pkg/domain/entities"
	"github.com/prodplan/prodplan/pkg/domain/repositories"
)

// MaterialRepository provides in-memory material master storage
type MaterialRepository struct {
	materials    []entities.Material
	materialsMap map[entities.MaterialID]int
}

// NewMaterialRepository creates a new in-memory material repository
func NewMaterialRepository(expectedMaterials int) *MaterialRepository {
	return &MaterialRepository{
		materials:    make([]entities.Material, 0, expectedMaterials),
		materialsMap: make(map[entities.MaterialID]int, expectedMaterials),
	}
}

// Verify interface compliance
var _ repositories.MaterialRepository = (*MaterialRepository)(nil)

// LoadMaterials loads materials into the repository
func (r *MaterialRepository) LoadMaterials(materials []*entities.Material) error {
	for _, material := range materials {
		if err := material.Validate(); err != nil {
			return err
		}
		r.AddMaterial(*material)
	}
	return nil
}

// AddMaterial adds a material to the repository
func (r *MaterialRepository) AddMaterial(material entities.Material) {
	r.materialsMap[material.ID] = len(r.materials)
	r.materials = append(r.materials, material)
}

// GetMaterial returns master data for a material id
func (r *MaterialRepository) GetMaterial(id entities.MaterialID) (*entities.Material, error) {
	index, exists := r.materialsMap[id]
	if !exists {
		return nil, fmt.Errorf("material not found: %s", id)
	}
	return &r.materials[index], nil
}

// GetAllMaterials returns all materials
func (r *MaterialRepository) GetAllMaterials() ([]*entities.Material, error) {
	var materials []*entities.Material
	for i := range r.materials {
		materials = append(materials, &r.materials[i])
	}
	return materials, nil
}
