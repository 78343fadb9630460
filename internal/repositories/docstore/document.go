// Package docstore implements the repositories over a single in-memory
// document of sellers and products. A Backend decides where the document
// lives between transactions: process memory or a JSON file.
package docstore

import (
	"sort"

	"artisans-hub-api/internal/models"
)

// Document is the whole dataset: {"sellers": [...], "products": [...]}.
type Document struct {
	Sellers  []*models.Seller  `json:"sellers"`
	Products []*models.Product `json:"products"`
}

// NewDocument returns an empty document with non-nil slices.
func NewDocument() *Document {
	return &Document{
		Sellers:  make([]*models.Seller, 0),
		Products: make([]*models.Product, 0),
	}
}

// Clone deep-copies the document so a failed transaction can be discarded.
func (d *Document) Clone() *Document {
	out := &Document{
		Sellers:  make([]*models.Seller, 0, len(d.Sellers)),
		Products: make([]*models.Product, 0, len(d.Products)),
	}
	for _, s := range d.Sellers {
		out.Sellers = append(out.Sellers, copySeller(s))
	}
	for _, p := range d.Products {
		out.Products = append(out.Products, copyProduct(p))
	}
	return out
}

// Normalize fixes nil slices left by decoding "null" or a missing key.
func (d *Document) Normalize() {
	if d.Sellers == nil {
		d.Sellers = make([]*models.Seller, 0)
	}
	if d.Products == nil {
		d.Products = make([]*models.Product, 0)
	}
	for _, p := range d.Products {
		p.Seller = nil
	}
}

func (d *Document) nextSellerID() int64 {
	var max int64
	for _, s := range d.Sellers {
		if s.ID > max {
			max = s.ID
		}
	}
	return max + 1
}

func (d *Document) nextProductID() int64 {
	var max int64
	for _, p := range d.Products {
		if p.ID > max {
			max = p.ID
		}
	}
	return max + 1
}

func (d *Document) sellerByID(id int64) *models.Seller {
	for _, s := range d.Sellers {
		if s.ID == id {
			return s
		}
	}
	return nil
}

func (d *Document) sortedProducts() []*models.Product {
	out := make([]*models.Product, 0, len(d.Products))
	for _, p := range d.Products {
		cp := copyProduct(p)
		if s := d.sellerByID(p.SellerID); s != nil {
			cp.Seller = copySeller(s)
		}
		out = append(out, cp)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if !out[i].CreatedAt.Equal(out[j].CreatedAt) {
			return out[i].CreatedAt.After(out[j].CreatedAt)
		}
		return out[i].ID > out[j].ID
	})
	return out
}

func copySeller(s *models.Seller) *models.Seller {
	cp := *s
	return &cp
}

func copyProduct(p *models.Product) *models.Product {
	cp := *p
	cp.Seller = nil
	return &cp
}
