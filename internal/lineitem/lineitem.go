// Package lineitem holds the priced rows shared by quotations and invoices.
package lineitem

import (
	"errors"
	"strings"

	"github.com/bwmarrin/snowflake"
	docdomain "github.com/smallbiznis/officecrm/internal/document/domain"
	"github.com/smallbiznis/officecrm/internal/finance"
)

var (
	ErrInvalidName     = errors.New("invalid_item_name")
	ErrInvalidQuantity = errors.New("invalid_item_quantity")
	ErrInvalidPrice    = errors.New("invalid_item_unit_price")
	ErrInvalidAmount   = errors.New("invalid_item_amount")
	ErrInvalidProduct  = errors.New("invalid_item_product_id")
)

// Input is a line as submitted by a form. Amount defaults to
// quantity * unit price; a submitted amount is kept even if it differs.
type Input struct {
	ProductID   string   `json:"product_id"`
	Name        string   `json:"item_name"`
	Description string   `json:"description"`
	Category    string   `json:"category"`
	ImageURL    string   `json:"image_url"`
	Units       string   `json:"units"`
	Quantity    float64  `json:"quantity"`
	UnitPrice   float64  `json:"unit_price"`
	Amount      *float64 `json:"amount"`
}

// Line is the persisted form of an item. Owners embed it in their item rows.
type Line struct {
	ProductID   *snowflake.ID `json:"product_id,omitempty"`
	ItemName    string        `gorm:"not null" json:"item_name"`
	Description string        `json:"description"`
	Category    string        `json:"category"`
	ImageURL    string        `json:"image_url"`
	Units       string        `json:"units"`
	Quantity    float64       `gorm:"not null" json:"quantity"`
	UnitPrice   float64       `gorm:"not null" json:"unit_price"`
	Amount      float64       `gorm:"not null" json:"amount"`
	BasePrice   float64       `json:"base_price"`
	GSTAmount   float64       `gorm:"column:gst_amount" json:"gst_amount"`
	SortOrder   int           `gorm:"not null" json:"sort_order"`
}

func (l Line) LineTotal() float64 { return l.Amount }

// Document converts the line into the renderer's item shape.
func (l Line) Document() docdomain.LineItem {
	return docdomain.LineItem{
		Name:        l.ItemName,
		Description: l.Description,
		Category:    l.Category,
		ImageURL:    l.ImageURL,
		Units:       l.Units,
		Quantity:    l.Quantity,
		UnitPrice:   l.UnitPrice,
		Amount:      l.Amount,
	}
}

// Build validates inputs and derives the stored fields, keeping input order
// as the sort order.
func Build(inputs []Input) ([]Line, error) {
	lines := make([]Line, 0, len(inputs))
	for i, in := range inputs {
		name := strings.TrimSpace(in.Name)
		if name == "" {
			return nil, ErrInvalidName
		}
		if in.Quantity <= 0 {
			return nil, ErrInvalidQuantity
		}
		if in.UnitPrice < 0 {
			return nil, ErrInvalidPrice
		}

		amount := finance.LineAmount(in.Quantity, in.UnitPrice)
		if in.Amount != nil {
			if *in.Amount < 0 {
				return nil, ErrInvalidAmount
			}
			amount = *in.Amount
		}

		productID, err := ParseProductID(in.ProductID)
		if err != nil {
			return nil, err
		}

		lines = append(lines, Line{
			ProductID:   productID,
			ItemName:    name,
			Description: strings.TrimSpace(in.Description),
			Category:    strings.ToUpper(strings.TrimSpace(in.Category)),
			ImageURL:    strings.TrimSpace(in.ImageURL),
			Units:       strings.TrimSpace(in.Units),
			Quantity:    in.Quantity,
			UnitPrice:   in.UnitPrice,
			Amount:      amount,
			BasePrice:   finance.BasePrice(in.UnitPrice),
			GSTAmount:   finance.ItemGST(amount),
			SortOrder:   i,
		})
	}
	return lines, nil
}

// ParseProductID returns nil for a blank id.
func ParseProductID(raw string) (*snowflake.ID, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	id, err := snowflake.ParseString(raw)
	if err != nil || id <= 0 {
		return nil, ErrInvalidProduct
	}
	return &id, nil
}

// Documents converts lines for rendering.
func Documents(lines []Line) []docdomain.LineItem {
	out := make([]docdomain.LineItem, len(lines))
	for i, l := range lines {
		out[i] = l.Document()
	}
	return out
}
