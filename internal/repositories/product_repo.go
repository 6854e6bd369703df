package repositories

import (
	"errors"

	"katalog/internal/models"
)

// ErrProductNotFound is returned when an ID does not resolve to a stored product.
// Callers should test for it with errors.Is.
var ErrProductNotFound = errors.New("product not found")

// ProductRepository defines the interface for product data access.
type ProductRepository interface {
	GetAll() ([]models.Product, error)
	GetByID(id uint) (*models.Product, error)
	Create(product *models.Product) error
	Update(product *models.Product) error
	Delete(id uint) error
}
