package repositories

import "github.com/prodplan/prodplan/pkg/domain/entities"

// ProductRepository provides access to product order data
type ProductRepository interface {
	GetProduct(id entities.ProductID) (*entities.Product, error)
	GetAllProducts() ([]*entities.Product, error)
	LoadProducts(products []*entities.Product) error
}

// BOMRepository provides access to bill-of-materials data
type BOMRepository interface {
	GetComponents(parent entities.ProductID) ([]*entities.BOMLine, error)
	GetAllLines() ([]*entities.BOMLine, error)
	LoadLines(lines []*entities.BOMLine) error
}
