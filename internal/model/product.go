package model

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// Price is the selling price of a product. DiscountedFrom is set only while the
// product is on sale and always holds the higher, pre-sale price.
type Price struct {
	Current        decimal.Decimal     `json:"current"`
	DiscountedFrom decimal.NullDecimal `json:"discountedFrom"`
}

// NewPrice returns a regular (not on sale) price.
func NewPrice(current decimal.Decimal) Price {
	return Price{Current: current}
}

// NewSalePrice returns a price marked down from original.
func NewSalePrice(current, original decimal.Decimal) Price {
	return Price{
		Current:        current,
		DiscountedFrom: decimal.NewNullDecimal(original),
	}
}

// OnSale reports whether the product is discounted.
func (p Price) OnSale() bool {
	return p.DiscountedFrom.Valid && p.DiscountedFrom.Decimal.GreaterThan(p.Current)
}

// Validate enforces a positive current price that never exceeds the original.
func (p Price) Validate() error {
	if !p.Current.IsPositive() {
		return ErrInvalidPrice
	}
	if p.DiscountedFrom.Valid && p.DiscountedFrom.Decimal.LessThan(p.Current) {
		return ErrInvalidPrice
	}
	return nil
}

// Product represents an apparel product in the catalogue.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Price     Price     `json:"price"`
	Stock     int       `json:"stock"`
	Category  string    `json:"category"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// ProductRequest is the admin payload for creating or updating a product.
type ProductRequest struct {
	ID            string           `json:"id"`
	Name          string           `json:"name"`
	Price         decimal.Decimal  `json:"price"`
	OriginalPrice *decimal.Decimal `json:"originalPrice,omitempty"`
	Stock         int              `json:"stock"`
	Category      string           `json:"category"`
}

// ToPrice converts the flat request fields into a Price.
func (r *ProductRequest) ToPrice() Price {
	if r.OriginalPrice == nil {
		return NewPrice(r.Price)
	}
	return NewSalePrice(r.Price, *r.OriginalPrice)
}

// Validate checks the fields every stored product must have.
func (r *ProductRequest) Validate() error {
	if strings.TrimSpace(r.ID) == "" || strings.TrimSpace(r.Name) == "" || strings.TrimSpace(r.Category) == "" {
		return ErrInvalidProduct
	}
	if r.Stock < 0 {
		return ErrInvalidProduct
	}
	return r.ToPrice().Validate()
}

// ToProduct builds a Product stamped with now.
func (r *ProductRequest) ToProduct(now time.Time) Product {
	return Product{
		ID:        strings.TrimSpace(r.ID),
		Name:      strings.TrimSpace(r.Name),
		Price:     r.ToPrice(),
		Stock:     r.Stock,
		Category:  strings.TrimSpace(r.Category),
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// CatalogIndex maps product id to product.
type CatalogIndex map[string]Product

// IndexProducts builds a CatalogIndex from a product slice.
func IndexProducts(products []Product) CatalogIndex {
	idx := make(CatalogIndex, len(products))
	for _, p := range products {
		idx[p.ID] = p
	}
	return idx
}
