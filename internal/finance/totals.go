package finance

// Amounted is implemented by anything carrying an authoritative line amount.
type Amounted interface {
	LineTotal() float64
}

// Sum adds the stored amounts of items. Amounts are never recomputed from
// quantity and unit price here; a persisted amount may have been edited by hand.
func Sum[T Amounted](items []T) float64 {
	var total float64
	for _, item := range items {
		total += item.LineTotal()
	}
	return total
}

// CategorySubtotal is the sum of the amounts of the items of one category.
func CategorySubtotal[T Amounted](items []T) float64 {
	return Sum(items)
}

// GrandTotal adds category subtotals.
func GrandTotal(subtotals []float64) float64 {
	var total float64
	for _, s := range subtotals {
		total += s
	}
	return total
}

// DocumentTotals holds the header figures a quotation or invoice persists.
// Subtotal is GST-inclusive and TotalAmount equals Subtotal; TaxAmount is the
// GST portion inside the subtotal, not added on top.
type DocumentTotals struct {
	Subtotal    float64
	TaxRate     float64
	TaxAmount   float64
	TotalAmount float64
}

// ComputeDocumentTotals derives the header totals from line items.
func ComputeDocumentTotals[T Amounted](items []T) DocumentTotals {
	total := Sum(items)
	breakdown := DecomposeGST(total)
	return DocumentTotals{
		Subtotal:    total,
		TaxRate:     GSTRate,
		TaxAmount:   breakdown.GST,
		TotalAmount: total,
	}
}
