package repositories

import "github.com/prodplan/prodplan/pkg/domain/entities"

// MaterialRepository provides access to raw material master data
type MaterialRepository interface {
	GetMaterial(id entities.MaterialID) (*entities.Material, error)
	GetAllMaterials() ([]*entities.Material, error)
	LoadMaterials(materials []*entities.Material) error
}
