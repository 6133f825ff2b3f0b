package finance

// PaymentMode is how money moved, for payments and expenses alike.
type PaymentMode string

const (
	PaymentModeCash         PaymentMode = "cash"
	PaymentModeUPI          PaymentMode = "upi"
	PaymentModeBankTransfer PaymentMode = "bank_transfer"
	PaymentModeCheque       PaymentMode = "cheque"
	PaymentModeCard         PaymentMode = "card"
)

func (m PaymentMode) Valid() bool {
	switch m {
	case PaymentModeCash, PaymentModeUPI, PaymentModeBankTransfer, PaymentModeCheque, PaymentModeCard:
		return true
	}
	return false
}

// Label is the printed form of the mode.
func (m PaymentMode) Label() string {
	switch m {
	case PaymentModeCash:
		return "Cash"
	case PaymentModeUPI:
		return "UPI"
	case PaymentModeBankTransfer:
		return "Bank Transfer"
	case PaymentModeCheque:
		return "Cheque"
	case PaymentModeCard:
		return "Card"
	}
	return string(m)
}
