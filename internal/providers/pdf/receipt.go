package pdf

import (
	"context"
	"errors"

	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/props"
)

var ErrInvalidReceipt = errors.New("invalid_receipt_data")

// ReceiptData is a payment acknowledgement with amounts already formatted.
type ReceiptData struct {
	ReceiptNumber   string
	InvoiceNumber   string
	DatePaid        string
	PaymentMode     string
	ReferenceNumber string

	BillToName    string
	BillToAddress string

	AmountPaid   string
	InvoiceTotal string
	TotalPaid    string
	BalanceDue   string
	Notes        string
}

func (p *PDFProvider) GenerateReceipt(ctx context.Context, receipt ReceiptData) ([]byte, error) {
	if receipt.InvoiceNumber == "" || receipt.AmountPaid == "" {
		return nil, ErrInvalidReceipt
	}

	m := newDocument()
	p.addLetterhead(m, "Payment Receipt")

	m.AddRow(24,
		col.New(6).Add(
			text.New("Received from", props.Text{Style: fontstyle.Bold, Size: 9}),
			text.New(receipt.BillToName, props.Text{Top: 5, Size: 9}),
			text.New(receipt.BillToAddress, props.Text{Top: 9, Size: 9}),
		),
		col.New(6).Add(
			text.New("Receipt no: "+receipt.ReceiptNumber, props.Text{Size: 9, Align: align.Right}),
			text.New("Date paid: "+receipt.DatePaid, props.Text{Top: 4, Size: 9, Align: align.Right}),
			text.New("Invoice: "+receipt.InvoiceNumber, props.Text{Top: 8, Size: 9, Align: align.Right}),
		),
	)

	m.AddRow(15,
		text.NewCol(12, receipt.AmountPaid+" received on "+receipt.DatePaid, props.Text{
			Size:  14,
			Style: fontstyle.Bold,
			Top:   5,
		}),
	)

	labelRow(m, "Payment mode", receipt.PaymentMode)
	if receipt.ReferenceNumber != "" {
		labelRow(m, "Reference", receipt.ReferenceNumber)
	}
	labelRow(m, "Invoice total", receipt.InvoiceTotal)
	labelRow(m, "Total paid", receipt.TotalPaid)
	labelRow(m, "Balance due", receipt.BalanceDue)
	if receipt.Notes != "" {
		m.AddRow(12, text.NewCol(12, receipt.Notes, props.Text{Size: 9, Top: 4}))
	}

	doc, err := m.Generate()
	if err != nil {
		return nil, err
	}
	return doc.GetBytes(), nil
}
