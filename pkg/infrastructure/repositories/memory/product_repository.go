package memory

import (
	"fmt"

	"github.com/prodplan/prodplan/pkg/domain/entities"
	"github.com/prodplan/prodplan/pkg/domain/repositories"
)

// ProductRepository provides in-memory product order storage
type ProductRepository struct {
	products    []entities.Product
	productsMap map[entities.ProductID]int
}

// NewProductRepository creates a new in-memory product repository
func NewProductRepository(expectedProducts int) *ProductRepository {
	return &ProductRepository{
		products:    make([]entities.Product, 0, expectedProducts),
		productsMap: make(map[entities.ProductID]int, expectedProducts),
	}
}

// Verify interface compliance
var _ repositories.ProductRepository = (*ProductRepository)(nil)

// LoadProducts loads products into the repository
func (r *ProductRepository) LoadProducts(products []*entities.Product) error {
	for _, product := range products {
		r.AddProduct(*product)
	}
	return nil
}

// AddProduct adds a product to the repository
func (r *ProductRepository) AddProduct(product entities.Product) {
	r.productsMap[product.ID] = len(r.products)
	r.products = append(r.products, product)
}

// GetProduct returns a product by id
func (r *ProductRepository) GetProduct(id entities.ProductID) (*entities.Product, error) {
	index, exists := r.productsMap[id]
	if !exists {
		return nil, fmt.Errorf("product not found: %s", id)
	}
	return &r.products[index], nil
}

// GetAllProducts returns all products
func (r *ProductRepository) GetAllProducts() ([]*entities.Product, error) {
	var products []*entities.Product
	for i := range r.products {
		products = append(products, &r.products[i])
	}
	return products, nil
}

// BOMRepository provides in-memory bill-of-materials storage
type BOMRepository struct {
	lines    []entities.BOMLine
	byParent map[entities.ProductID][]int
}

// NewBOMRepository creates a new in-memory BOM repository
func NewBOMRepository(expectedLines int) *BOMRepository {
	return &BOMRepository{
		lines:    make([]entities.BOMLine, 0, expectedLines),
		byParent: make(map[entities.ProductID][]int),
	}
}

// Verify interface compliance
var _ repositories.BOMRepository = (*BOMRepository)(nil)

// LoadLines loads BOM lines into the repository
func (r *BOMRepository) LoadLines(lines []*entities.BOMLine) error {
	for _, line := range lines {
		if line.QtyPerUnit < 0 {
			return fmt.Errorf("BOM line %s -> %s: quantity per unit must be >= 0", line.ParentID, line.MaterialID)
		}
		r.AddLine(*line)
	}
	return nil
}

// AddLine adds a BOM line to the repository
func (r *BOMRepository) AddLine(line entities.BOMLine) {
	r.byParent[line.ParentID] = append(r.byParent[line.ParentID], len(r.lines))
	r.lines = append(r.lines, line)
}

// GetComponents returns the component lines of a parent product
func (r *BOMRepository) GetComponents(parent entities.ProductID) ([]*entities.BOMLine, error) {
	var lines []*entities.BOMLine
	for _, index := range r.byParent[parent] {
		lines = append(lines, &r.lines[index])
	}
	return lines, nil
}

// GetAllLines returns all BOM lines
func (r *BOMRepository) GetAllLines() ([]*entities.BOMLine, error) {
	var lines []*entities.BOMLine
	for i := range r.lines {
		lines = append(lines, &r.lines[i])
	}
	return lines, nil
}
