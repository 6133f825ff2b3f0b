package finance

// Rollup is the derived financial position of a project.
type Rollup struct {
	TotalReceived float64
	TotalSpent    float64
	Profit        float64
	// Margin is the profit as a percentage of the amount received.
	Margin float64
	// Completion is the amount received as a percentage of the quoted amount.
	Completion float64
}

// Margin returns profit/received*100, defined as exactly 0 when nothing has
// been received.
func Margin(received, profit float64) float64 {
	if received <= 0 {
		return 0
	}
	return profit / received * 100
}

// Completion returns received/quoted*100, or 0 without a quoted amount.
func Completion(received, quoted float64) float64 {
	if quoted <= 0 {
		return 0
	}
	return received / quoted * 100
}

// ProjectFinancials aggregates payment and expense amounts. The sign of the
// profit is preserved.
func ProjectFinancials(payments, expenses []float64, quoted float64) Rollup {
	received := GrandTotal(payments)
	spent := GrandTotal(expenses)
	profit := received - spent
	return Rollup{
		TotalReceived: received,
		TotalSpent:    spent,
		Profit:        profit,
		Margin:        Margin(received, profit),
		Completion:    Completion(received, quoted),
	}
}
