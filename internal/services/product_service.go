package services

import (
	"log"

	"katalog/internal/models"
	"katalog/internal/repositories"
)

// EventPublisher publishes product lifecycle events to a message broker.
// A nil publisher disables event publication.
type EventPublisher interface {
	PublishProductEvent(event string, payload map[string]interface{}) error
}

// ProductService handles business logic related to products.
type ProductService struct {
	repo   repositories.ProductRepository
	events EventPublisher
}

// NewProductService creates a new ProductService. The events publisher may be
// nil, in which case lifecycle events are skipped.
func NewProductService(repo repositories.ProductRepository, events EventPublisher) *ProductService {
	return &ProductService{
		repo:   repo,
		events: events,
	}
}

// GetAllProducts retrieves all products.
func (s *ProductService) GetAllProducts() ([]models.Product, error) {
	return s.repo.GetAll()
}

// GetProductByID retrieves a single product by its ID.
func (s *ProductService) GetProductByID(id uint) (*models.Product, error) {
	return s.repo.GetByID(id)
}

// CreateProduct creates a new product. The store assigns the ID.
func (s *ProductService) CreateProduct(product *models.Product) error {
	if err := s.repo.Create(product); err != nil {
		return err
	}
	s.publish("product.created", product)
	return nil
}

// UpdateProduct updates an existing product.
func (s *ProductService) UpdateProduct(product *models.Product) error {
	if err := s.repo.Update(product); err != nil {
		return err
	}
	s.publish("product.updated", product)
	return nil
}

// DeleteProduct deletes a product by its ID.
func (s *ProductService) DeleteProduct(id uint) error {
	if err := s.repo.Delete(id); err != nil {
		return err
	}
	s.publish("product.deleted", &models.Product{ID: id})
	return nil
}

// publish sends a product lifecycle event. Publish failures are logged and
// never fail the request that triggered them.
func (s *ProductService) publish(event string, product *models.Product) {
	if s.events == nil {
		log.Printf("Event publisher is not configured. Skipping %s event.", event)
		return
	}
	payload := map[string]interface{}{
		"productID": product.ID,
		"name":      product.Name,
		"price":     product.Price,
	}
	if err := s.events.PublishProductEvent(event, payload); err != nil {
		log.Printf("Warning: Failed to publish %s event for product %d: %v", event, product.ID, err)
	}
}
