package models

import (
	"fmt"
	"strings"
	"time"
)

// Seller represents an artisan who publishes listings. Sellers are keyed by mobile number.
type Seller struct {
	ID        int64     `json:"id" db:"id"`
	Name      string    `json:"name" db:"name" validate:"required,max=100"`
	Mobile    string    `json:"mobile" db:"mobile" validate:"required,max=20"`
	Location  string    `json:"location" db:"location" validate:"required,max=200"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// NewSeller creates a new seller stamped with the current time. The ID is assigned by the store.
func NewSeller(name, mobile, location string) *Seller {
	return &Seller{
		Name:      strings.TrimSpace(name),
		Mobile:    strings.TrimSpace(mobile),
		Location:  strings.TrimSpace(location),
		CreatedAt: time.Now().UTC(),
	}
}

// Validate validates the seller data
func (s *Seller) Validate() error {
	if strings.TrimSpace(s.Name) == "" {
		return fmt.Errorf("seller name is required")
	}

	if len(s.Name) > 100 {
		return fmt.Errorf("seller name cannot exceed 100 characters")
	}

	if strings.TrimSpace(s.Mobile) == "" {
		return fmt.Errorf("seller mobile is required")
	}

	if len(s.Mobile) > 20 {
		return fmt.Errorf("seller mobile cannot exceed 20 characters")
	}

	if strings.TrimSpace(s.Location) == "" {
		return fmt.Errorf("seller location is required")
	}

	if len(s.Location) > 200 {
		return fmt.Errorf("seller location cannot exceed 200 characters")
	}

	return nil
}

// Matches reports whether the submitted name and location equal the stored ones.
func (s *Seller) Matches(name, location string) bool {
	return s.Name == strings.TrimSpace(name) && s.Location == strings.TrimSpace(location)
}
