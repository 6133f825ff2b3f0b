package finance

import (
	"math"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type amount float64

func (a amount) LineTotal() float64 { return float64(a) }

func TestDecomposeGSTPartsSumToTotal(t *testing.T) {
	for _, total := range []float64{0, 0.01, 1, 99.99, 1180, 11800, 123456.78, 9999999.99} {
		b := DecomposeGST(total)
		assert.InDelta(t, total, b.Taxable+b.CGST+b.SGST, 0.01, "total %v", total)
		assert.Equal(t, b.CGST, b.SGST)
		assert.InDelta(t, b.GST, b.CGST+b.SGST, 1e-9)
	}
}

func TestDecomposeGSTKnownValues(t *testing.T) {
	b := DecomposeGST(11800)
	assert.InDelta(t, 10000, b.Taxable, 0.001)
	assert.InDelta(t, 1800, b.GST, 0.001)
	assert.InDelta(t, 900, b.CGST, 0.001)
	assert.InDelta(t, 900, b.SGST, 0.001)
}

func TestDecomposeGSTAggregatesConsistently(t *testing.T) {
	parts := []float64{1180, 2360, 8260}
	var taxable, gst float64
	for _, p := range parts {
		b := DecomposeGST(p)
		taxable += b.Taxable
		gst += b.GST
	}
	whole := DecomposeGST(GrandTotal(parts))
	assert.InDelta(t, whole.Taxable, taxable, 0.01)
	assert.InDelta(t, whole.GST, gst, 0.01)
}

func TestSumUsesStoredAmounts(t *testing.T) {
	items := []amount{100, 250.5, 0.25}
	assert.InDelta(t, 350.75, Sum(items), 1e-9)
	assert.InDelta(t, 350.75, CategorySubtotal(items), 1e-9)
	assert.Zero(t, Sum([]amount(nil)))
}

func TestComputeDocumentTotals(t *testing.T) {
	totals := ComputeDocumentTotals([]amount{5900, 5900})
	assert.Equal(t, 11800.0, totals.Subtotal)
	assert.Equal(t, totals.Subtotal, totals.TotalAmount)
	assert.Equal(t, GSTRate, totals.TaxRate)
	assert.InDelta(t, 1800, totals.TaxAmount, 0.001)
}

func TestItemPricing(t *testing.T) {
	assert.InDelta(t, 100, BasePrice(118), 1e-9)
	assert.InDelta(t, 36, ItemGST(236), 1e-9)
	assert.Equal(t, 7.5, LineAmount(3, 2.5))
}

func TestMarginZeroWhenNothingReceived(t *testing.T) {
	for _, spent := range []float64{0, 1, 5000, -3} {
		r := ProjectFinancials(nil, []float64{spent}, 0)
		assert.Equal(t, 0.0, r.Margin)
		assert.False(t, math.IsNaN(r.Margin))
		assert.False(t, math.IsInf(r.Margin, 0))
	}
}

func TestProjectFinancialsKeepsNegativeProfit(t *testing.T) {
	r := ProjectFinancials([]float64{1000}, []float64{700, 800}, 4000)
	assert.Equal(t, 1000.0, r.TotalReceived)
	assert.Equal(t, 1500.0, r.TotalSpent)
	assert.Equal(t, -500.0, r.Profit)
	assert.Equal(t, -50.0, r.Margin)
	assert.Equal(t, 25.0, r.Completion)
}

func TestApplyAndRevertPayment(t *testing.T) {
	start := Balance{TotalAmount: 1000, BalanceAmount: 1000, Status: InvoiceStatusSent}

	first := ApplyPayment(start, 400)
	assert.Equal(t, 400.0, first.PaidAmount)
	assert.Equal(t, 600.0, first.BalanceAmount)
	assert.Equal(t, InvoiceStatusPartial, first.Status)

	second := ApplyPayment(first, 600)
	assert.Equal(t, 1000.0, second.PaidAmount)
	assert.Equal(t, 0.0, second.BalanceAmount)
	assert.Equal(t, InvoiceStatusPaid, second.Status)

	reverted := RevertPayment(second, 600)
	assert.Equal(t, 400.0, reverted.PaidAmount)
	assert.Equal(t, 600.0, reverted.BalanceAmount)
	assert.Equal(t, InvoiceStatusPartial, reverted.Status)
}

func TestApplyPaymentKeepsStatusWhenNothingPaid(t *testing.T) {
	out := ApplyPayment(Balance{TotalAmount: 500, BalanceAmount: 500, Status: InvoiceStatusDraft}, 0)
	assert.Equal(t, InvoiceStatusDraft, out.Status)
}

func TestRevertLastPaymentFallsBackToSent(t *testing.T) {
	paid := ApplyPayment(Balance{TotalAmount: 500, BalanceAmount: 500, Status: InvoiceStatusDraft}, 200)
	out := RevertPayment(paid, 200)
	assert.Equal(t, 0.0, out.PaidAmount)
	assert.Equal(t, 500.0, out.BalanceAmount)
	assert.Equal(t, InvoiceStatusSent, out.Status)
}

func TestFormatAmount(t *testing.T) {
	cases := map[float64]string{
		0:          "0.00",
		5:          "5.00",
		999.999:    "1,000.00",
		11800:      "11,800.00",
		123456:     "1,23,456.00",
		1234567.5:  "12,34,567.50",
		-2500.05:   "-2,500.05",
		10000.0001: "10,000.00",
		-0.001:     "0.00",
		98765432.1: "9,87,65,432.10",
	}
	for in, want := range cases {
		assert.Equal(t, want, FormatAmount(in), "input %v", in)
	}
	assert.Equal(t, "Rs. 900.00", FormatRupees(900))
}

func TestFormatDateAndQuantity(t *testing.T) {
	require.Equal(t, "5/3/2026", FormatDate(time.Date(2026, 3, 5, 0, 0, 0, 0, time.UTC)))
	assert.Empty(t, FormatDate(time.Time{}))
	assert.Equal(t, "2", FormatQuantity(2))
	assert.Equal(t, "2.5", FormatQuantity(2.5))
}

func TestPaymentMode(t *testing.T) {
	assert.True(t, PaymentModeBankTransfer.Valid())
	assert.False(t, PaymentMode("crypto").Valid())
	assert.Equal(t, "UPI", PaymentModeUPI.Label())
	assert.Equal(t, "Bank Transfer", PaymentModeBankTransfer.Label())
}
