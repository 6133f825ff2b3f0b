package pdf

import (
	"bytes"
	"context"
	"testing"

	"github.com/smallbiznis/officecrm/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGenerateReceipt(t *testing.T) {
	p := New(config.DefaultCompany())

	out, err := p.GenerateReceipt(context.Background(), ReceiptData{
		ReceiptNumber: "RCPT-1",
		InvoiceNumber: "INV-25-0001",
		DatePaid:      "5/6/2025",
		PaymentMode:   "UPI",
		BillToName:    "Acme",
		AmountPaid:    "Rs. 400.00",
		InvoiceTotal:  "Rs. 1,000.00",
		TotalPaid:     "Rs. 400.00",
		BalanceDue:    "Rs. 600.00",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = p.GenerateReceipt(context.Background(), ReceiptData{})
	assert.ErrorIs(t, err, ErrInvalidReceipt)
}

func TestGenerateStatement(t *testing.T) {
	p := New(config.DefaultCompany())

	out, err := p.GenerateStatement(context.Background(), StatementData{
		ProjectName:   "Conference hall audio",
		Status:        "in_progress",
		StartDate:     "1/6/2025",
		QuoteAmount:   "Rs. 11,800.00",
		Payments:      []StatementLine{{Date: "5/6/2025", Description: "INV-25-0001", Mode: "UPI", Amount: "Rs. 5,000.00"}},
		TotalReceived: "Rs. 5,000.00",
		TotalSpent:    "Rs. 0.00",
		Profit:        "Rs. 5,000.00",
		Margin:        "100.00%",
		Completion:    "42.37%",
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))

	_, err = p.GenerateStatement(context.Background(), StatementData{})
	assert.ErrorIs(t, err, ErrInvalidStatement)
}
