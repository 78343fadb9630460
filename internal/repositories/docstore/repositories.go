package docstore

import (
	"context"
	"strconv"

	"artisans-hub-api/internal/models"
	"artisans-hub-api/internal/repositories"
)

// docRepositories operate directly on a document the caller has locked.
type docRepositories struct {
	doc *Document
}

func (r *docRepositories) Sellers() repositories.SellerRepository   { return docSellers{r.doc} }
func (r *docRepositories) Products() repositories.ProductRepository { return docProducts{r.doc} }

type docSellers struct{ doc *Document }

func (s docSellers) GetByMobile(ctx context.Context, mobile string) (*models.Seller, error) {
	for _, seller := range s.doc.Sellers {
		if seller.Mobile == mobile {
			return copySeller(seller), nil
		}
	}
	return nil, repositories.NotFoundError("seller", mobile)
}

func (s docSellers) GetByID(ctx context.Context, id int64) (*models.Seller, error) {
	if seller := s.doc.sellerByID(id); seller != nil {
		return copySeller(seller), nil
	}
	return nil, repositories.NotFoundError("seller", strconv.FormatInt(id, 10))
}

func (s docSellers) Create(ctx context.Context, seller *models.Seller) error {
	if err := seller.Validate(); err != nil {
		return repositories.ValidationError("seller", err)
	}
	for _, existing := range s.doc.Sellers {
		if existing.Mobile == seller.Mobile {
			return repositories.DuplicateError("seller", "mobile", seller.Mobile)
		}
	}

	seller.ID = s.doc.nextSellerID()
	s.doc.Sellers = append(s.doc.Sellers, copySeller(seller))
	return nil
}

func (s docSellers) List(ctx context.Context) ([]*models.Seller, error) {
	out := make([]*models.Seller, 0, len(s.doc.Sellers))
	for _, seller := range s.doc.Sellers {
		out = append(out, copySeller(seller))
	}
	sortSellers(out)
	return out, nil
}

func (s docSellers) Count(ctx context.Context) (int64, error) {
	return int64(len(s.doc.Sellers)), nil
}

type docProducts struct{ doc *Document }

func (p docProducts) Create(ctx context.Context, product *models.Product) error {
	if err := product.Validate(); err != nil {
		return repositories.ValidationError("product", err)
	}
	if p.doc.sellerByID(product.SellerID) == nil {
		return repositories.NotFoundError("seller", strconv.FormatInt(product.SellerID, 10))
	}

	product.ID = p.doc.nextProductID()
	p.doc.Products = append(p.doc.Products, copyProduct(product))
	return nil
}

func (p docProducts) List(ctx context.Context) ([]*models.Product, error) {
	return p.doc.sortedProducts(), nil
}

func (p docProducts) Count(ctx context.Context) (int64, error) {
	return int64(len(p.doc.Products)), nil
}

func (p docProducts) NextID(ctx context.Context) (int64, error) {
	return p.doc.nextProductID(), nil
}
