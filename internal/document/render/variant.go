package render

import (
	"github.com/smallbiznis/officecrm/internal/document/domain"
	"github.com/smallbiznis/officecrm/internal/document/layout"
)

const (
	tableX       = 14.0
	imageColumn  = 2
	imageSize    = 18.0
	imageRowMin  = 22.0
	labelOffset  = 65.0
	rightOffset  = 14.0
	pairStep     = 4.5
	detailsLeft  = 15.0
	detailsValue = 32.0

	categoryBarHeight = 8.0
)

// variant holds what differs between quotation and invoice layouts.
type variant struct {
	numberLabel string
	customerY   float64
	tableY      float64
	columns     []layout.Column
	taxCheck    float64
	totalLabel  string
	disclaimer  string
	serials     bool
	images      bool
	title       string
}

var quotationVariant = variant{
	numberLabel: "QUOTE NO.",
	customerY:   52,
	tableY:      65,
	columns: []layout.Column{
		{Title: "MODEL", Width: 32, Align: layout.AlignLeft},
		{Title: "DESCRIPTION", Width: 62, Align: layout.AlignLeft},
		{Title: "IMAGE", Width: 22, Align: layout.AlignCenter},
		{Title: "REQ. UNITS", Width: 20, Align: layout.AlignCenter},
		{Title: "UNIT PRICE", Width: 28, Align: layout.AlignRight},
		{Title: "AMOUNT", Width: 28, Align: layout.AlignRight},
	},
	taxCheck:   40,
	totalLabel: "TOTAL",
	disclaimer: "This is a computer-generated quotation and does not require a signature.",
	images:     true,
}

var invoiceVariant = variant{
	numberLabel: "INVOICE NO.",
	customerY:   55,
	tableY:      72,
	columns: []layout.Column{
		{Title: "Sr", Width: 10, Align: layout.AlignCenter},
		{Title: "MODEL", Width: 35, Align: layout.AlignLeft},
		{Title: "DESCRIPTION", Width: 70, Align: layout.AlignLeft},
		{Title: "REQ. UNITS", Width: 22, Align: layout.AlignCenter},
		{Title: "RATE", Width: 28, Align: layout.AlignRight},
		{Title: "AMOUNT", Width: 28, Align: layout.AlignRight},
	},
	taxCheck:   50,
	totalLabel: "TOTAL AMOUNT",
	disclaimer: "This is a computer-generated invoice and is valid without signature.",
	serials:    true,
	title:      "TAX INVOICE",
}

func variantFor(kind domain.Kind) (variant, error) {
	switch kind {
	case domain.KindQuotation:
		return quotationVariant, nil
	case domain.KindInvoice:
		return invoiceVariant, nil
	default:
		return variant{}, domain.ErrUnknownKind
	}
}

func (v variant) tableWidth() float64 {
	var w float64
	for _, c := range v.columns {
		w += c.Width
	}
	return w
}
