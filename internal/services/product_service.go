package services

import (
	"database/sql"
	"errors"

	"silkmarket/internal/domain"
	"silkmarket/internal/repos"
	"silkmarket/internal/status"
	"silkmarket/internal/validate"
)

type ProductService struct {
	Products *repos.ProductRepo
}

func NewProductService(products *repos.ProductRepo) *ProductService {
	return &ProductService{Products: products}
}

// Create validates the input, fills defaults (currency BRL, quantity 1) and
// persists the listing as ACTIVE.
func (s *ProductService) Create(in domain.ProductInput) (domain.Product, error) {
	if in.Title == "" || in.Description == "" || in.Price == 0 {
		return domain.Product{}, domain.Invalid("title, description, and price are required")
	}
	if in.SellerID == "" {
		return domain.Product{}, domain.Invalid("seller ID is required")
	}
	if !validate.UUID(in.SellerID) {
		return domain.Product{}, domain.Invalid("seller ID must be a valid UUID")
	}
	if in.Price <= 0 {
		return domain.Product{}, domain.Invalid("price must be greater than 0")
	}
	if in.Currency == "" {
		in.Currency = "BRL"
	} else if !status.Known(status.Currency, in.Currency) {
		return domain.Product{}, domain.Invalid("unknown currency " + in.Currency)
	}
	if in.DeliveryMethod != nil && !status.Known(status.DeliveryMethod, *in.DeliveryMethod) {
		return domain.Product{}, domain.Invalid("unknown delivery method " + *in.DeliveryMethod)
	}
	if in.Quantity <= 0 {
		in.Quantity = 1
	}
	return s.Products.Create(in)
}

// FindAll lists ACTIVE products newest first, AND-combining the filters.
// Zero matches is an empty slice, not an error.
func (s *ProductService) FindAll(f domain.ProductFilter) ([]domain.Product, error) {
	currencyCode := 0
	if f.Currency != "" {
		code, err := status.Code(status.Currency, f.Currency)
		if err != nil {
			return nil, domain.Invalid("unknown currency " + f.Currency)
		}
		currencyCode = code
	}
	return s.Products.FindAll(f, currencyCode)
}

func (s *ProductService) FindByID(id string) (domain.Product, error) {
	p, err := s.Products.Get(id)
	if errors.Is(err, sql.ErrNoRows) {
		return domain.Product{}, domain.NotFound("product")
	}
	return p, err
}

// IncrementViewCount bumps the view counter atomically at the storage layer
// and returns the new count.
func (s *ProductService) IncrementViewCount(id string) (int, error) {
	n, err := s.Products.IncrementViews(id)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, domain.NotFound("product")
	}
	return n, err
}
