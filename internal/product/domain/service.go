package domain

import (
	"context"
	"errors"
)

type CreateProductRequest struct {
	Model        string  `json:"model"`
	Description  string  `json:"description"`
	ImageURL     string  `json:"image_url"`
	Units        string  `json:"units"`
	Category     string  `json:"category"`
	HSNCode      string  `json:"hsn_code"`
	OurPrice     float64 `json:"our_price"`
	SellingPrice float64 `json:"selling_price"`
}

// UpdateProductRequest changes only the fields that are set.
type UpdateProductRequest struct {
	Model        *string  `json:"model"`
	Description  *string  `json:"description"`
	ImageURL     *string  `json:"image_url"`
	Units        *string  `json:"units"`
	Category     *string  `json:"category"`
	HSNCode      *string  `json:"hsn_code"`
	OurPrice     *float64 `json:"our_price"`
	SellingPrice *float64 `json:"selling_price"`
}

type ListProductRequest struct {
	Category        string
	IncludeInactive bool
}

type ListProductFilter struct {
	Category        string
	IncludeInactive bool
}

type Service interface {
	Create(context.Context, CreateProductRequest) (ProductView, error)
	GetByID(ctx context.Context, id string) (ProductView, error)
	List(context.Context, ListProductRequest) ([]ProductView, error)
	Update(ctx context.Context, id string, req UpdateProductRequest) (ProductView, error)
	Deactivate(ctx context.Context, id string) error
}

var (
	ErrInvalidID      = errors.New("invalid_product_id")
	ErrInvalidModel   = errors.New("invalid_product_model")
	ErrInvalidUnits   = errors.New("invalid_product_units")
	ErrInvalidPrice   = errors.New("invalid_product_price")
	ErrPriceBelowCost = errors.New("selling_price_below_cost")
	ErrNotFound       = errors.New("product_not_found")
)
