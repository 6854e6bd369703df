package models

import "time"

// Product represents a single entry in the catalog.
// The ID is assigned by the store on creation and never changes afterwards.
type Product struct {
	ID        uint      `json:"id" form:"id" gorm:"primaryKey"`
	Name      string    `json:"name" form:"name" validate:"required"`
	Price     float64   `json:"price" form:"price"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
