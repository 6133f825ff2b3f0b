package finance

// GSTRate is the fixed GST percentage applied to every document.
const GSTRate = 18.0

// gstDivisor converts a GST-inclusive amount into its taxable base.
const gstDivisor = 1 + GSTRate/100

// GSTBreakdown splits a GST-inclusive total into its taxable base and the
// central/state halves of the tax. Values are unrounded; rounding happens
// only when formatting for display.
type GSTBreakdown struct {
	Total   float64
	Taxable float64
	GST     float64
	CGST    float64
	SGST    float64
}

// DecomposeGST derives the breakdown of a GST-inclusive total.
//
// The function is pure and may be applied at any aggregation level
// (single line, category subtotal, whole document).
func DecomposeGST(total float64) GSTBreakdown {
	taxable := total / gstDivisor
	gst := total - taxable
	return GSTBreakdown{
		Total:   total,
		Taxable: taxable,
		GST:     gst,
		CGST:    gst / 2,
		SGST:    gst / 2,
	}
}

// BasePrice is the pre-tax unit price stored alongside a line item.
func BasePrice(unitPrice float64) float64 {
	return unitPrice / gstDivisor
}

// ItemGST is the GST portion contained in a line amount.
func ItemGST(amount float64) float64 {
	return amount - amount/gstDivisor
}

// LineAmount is the amount of a line at the time it is added or edited.
func LineAmount(quantity, unitPrice float64) float64 {
	return quantity * unitPrice
}
