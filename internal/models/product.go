package models

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// Product represents a published listing. Products are immutable once created.
type Product struct {
	ID            int64     `json:"id" db:"id"`
	SellerID      int64     `json:"seller_id" db:"seller_id"`
	Category      string    `json:"category" db:"category" validate:"required,max=50"`
	Description   string    `json:"description" db:"description" validate:"required"`
	Price         float64   `json:"price" db:"price" validate:"required,gt=0"`
	ImageFilename string    `json:"image_filename" db:"image_filename" validate:"required,max=200"`
	AIGenerated   bool      `json:"ai_generated" db:"ai_generated"`
	CreatedAt     time.Time `json:"created_at" db:"created_at"`

	// Seller is populated by list queries that join the owning seller.
	Seller *Seller `json:"seller,omitempty" db:"-"`
}

// NewProduct creates a new product for the given seller stamped with the current time
func NewProduct(sellerID int64, category, description string, price float64, imageFilename string, aiGenerated bool) *Product {
	return &Product{
		SellerID:      sellerID,
		Category:      strings.TrimSpace(category),
		Description:   strings.TrimSpace(description),
		Price:         price,
		ImageFilename: strings.TrimSpace(imageFilename),
		AIGenerated:   aiGenerated,
		CreatedAt:     time.Now().UTC(),
	}
}

// Validate validates the product data
func (p *Product) Validate() error {
	if p.SellerID <= 0 {
		return fmt.Errorf("product seller ID is required")
	}

	if strings.TrimSpace(p.Category) == "" {
		return fmt.Errorf("product category is required")
	}

	if len(p.Category) > 50 {
		return fmt.Errorf("product category cannot exceed 50 characters")
	}

	if strings.TrimSpace(p.Description) == "" {
		return fmt.Errorf("product description is required")
	}

	if math.IsNaN(p.Price) || math.IsInf(p.Price, 0) || p.Price <= 0 {
		return fmt.Errorf("product price must be a positive number")
	}

	if strings.TrimSpace(p.ImageFilename) == "" {
		return fmt.Errorf("product image filename is required")
	}

	if len(p.ImageFilename) > 200 {
		return fmt.Errorf("product image filename cannot exceed 200 characters")
	}

	return nil
}

// ImageURL builds the public path of an uploaded image
func ImageURL(prefix, filename string) string {
	return strings.TrimSuffix(prefix, "/") + "/" + filename
}

// ProductResponse is the public JSON shape of a listing
type ProductResponse struct {
	ID          int64     `json:"id"`
	SellerID    int64     `json:"seller_id"`
	Category    string    `json:"category"`
	Description string    `json:"description"`
	Price       float64   `json:"price"`
	ImageURL    string    `json:"image_url"`
	AIGenerated bool      `json:"ai_generated"`
	CreatedAt   time.Time `json:"created_at"`
	Seller      *Seller   `json:"seller"`
}

// ToResponse converts the product into its public representation
func (p *Product) ToResponse(imageURLPrefix string) ProductResponse {
	return ProductResponse{
		ID:          p.ID,
		SellerID:    p.SellerID,
		Category:    p.Category,
		Description: p.Description,
		Price:       p.Price,
		ImageURL:    ImageURL(imageURLPrefix, p.ImageFilename),
		AIGenerated: p.AIGenerated,
		CreatedAt:   p.CreatedAt,
		Seller:      p.Seller,
	}
}

// ToResponses converts a product slice, always returning a non-nil slice
func ToResponses(products []*Product, imageURLPrefix string) []ProductResponse {
	responses := make([]ProductResponse, 0, len(products))
	for _, p := range products {
		responses = append(responses, p.ToResponse(imageURLPrefix))
	}
	return responses
}
