package domain

import (
	"strings"
	"time"

	"github.com/bwmarrin/snowflake"
	"github.com/smallbiznis/officecrm/internal/finance"
	"github.com/smallbiznis/officecrm/internal/lineitem"
)

const DefaultUnits = "pcs"

// Units lists the accepted units of sale.
var Units = []string{"pcs", "kg", "m", "sqft", "box", "set", "unit"}

type Product struct {
	ID           snowflake.ID `gorm:"primaryKey" json:"id"`
	Model        string       `gorm:"not null" json:"model"`
	Description  string       `json:"description,omitempty"`
	ImageURL     string       `json:"image_url,omitempty"`
	Units        string       `gorm:"not null;default:'pcs'" json:"units"`
	Category     string       `json:"category,omitempty"`
	HSNCode      string       `gorm:"column:hsn_code" json:"hsn_code,omitempty"`
	OurPrice     float64      `gorm:"not null" json:"our_price"`
	SellingPrice float64      `gorm:"not null" json:"selling_price"`
	IsActive     bool         `gorm:"not null;default:true" json:"is_active"`
	CreatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"created_at"`
	UpdatedAt    time.Time    `gorm:"not null;default:CURRENT_TIMESTAMP" json:"updated_at"`
}

// Pricing is the selling price split into its GST parts plus the margin over
// the purchase price.
type Pricing struct {
	BasePrice     float64 `json:"base_price"`
	GSTAmount     float64 `json:"gst_amount"`
	Margin        float64 `json:"margin"`
	MarginPercent float64 `json:"margin_percent"`
}

func (p Product) Pricing() Pricing {
	base := finance.BasePrice(p.SellingPrice)
	margin := p.SellingPrice - p.OurPrice
	var pct float64
	if p.OurPrice > 0 {
		pct = margin / p.OurPrice * 100
	}
	return Pricing{
		BasePrice:     base,
		GSTAmount:     p.SellingPrice - base,
		Margin:        margin,
		MarginPercent: pct,
	}
}

// Fill copies the catalog fields into a line the form left blank. A zero unit
// price takes the selling price.
func (p Product) Fill(in lineitem.Input) lineitem.Input {
	if strings.TrimSpace(in.Name) == "" {
		in.Name = p.Model
	}
	if strings.TrimSpace(in.Description) == "" {
		in.Description = p.Description
	}
	if strings.TrimSpace(in.Category) == "" {
		in.Category = p.Category
	}
	if strings.TrimSpace(in.ImageURL) == "" {
		in.ImageURL = p.ImageURL
	}
	if strings.TrimSpace(in.Units) == "" {
		in.Units = p.Units
	}
	if in.UnitPrice == 0 {
		in.UnitPrice = p.SellingPrice
	}
	return in
}

// ProductView is a product with its derived pricing.
type ProductView struct {
	Product
	Pricing Pricing `json:"pricing"`
}

func (p Product) View() ProductView {
	return ProductView{Product: p, Pricing: p.Pricing()}
}
