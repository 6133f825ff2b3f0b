package finance

// InvoiceStatus mirrors the lifecycle values stored on invoices.
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusSent      InvoiceStatus = "sent"
	InvoiceStatusPartial   InvoiceStatus = "partial"
	InvoiceStatusPaid      InvoiceStatus = "paid"
	InvoiceStatusOverdue   InvoiceStatus = "overdue"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Balance is the paid/outstanding state of an invoice.
type Balance struct {
	TotalAmount   float64
	PaidAmount    float64
	BalanceAmount float64
	Status        InvoiceStatus
}

// ApplyPayment records a payment of amount against the invoice state.
// Status becomes paid once nothing is outstanding, partial while something
// has been paid, and is otherwise left as it was.
func ApplyPayment(b Balance, amount float64) Balance {
	paid := b.PaidAmount + amount
	out := Balance{
		TotalAmount:   b.TotalAmount,
		PaidAmount:    paid,
		BalanceAmount: b.TotalAmount - paid,
		Status:        b.Status,
	}
	out.Status = deriveStatus(out, b.Status)
	return out
}

// RevertPayment undoes a payment of amount. The same rule applies but an
// invoice with nothing paid falls back to sent, whatever its status was
// before the first payment.
func RevertPayment(b Balance, amount float64) Balance {
	paid := b.PaidAmount - amount
	out := Balance{
		TotalAmount:   b.TotalAmount,
		PaidAmount:    paid,
		BalanceAmount: b.TotalAmount - paid,
	}
	out.Status = deriveStatus(out, InvoiceStatusSent)
	return out
}

func deriveStatus(b Balance, fallback InvoiceStatus) InvoiceStatus {
	switch {
	case b.BalanceAmount <= 0:
		return InvoiceStatusPaid
	case b.PaidAmount > 0:
		return InvoiceStatusPartial
	default:
		return fallback
	}
}
