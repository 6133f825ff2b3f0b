// Package render lays out quotations and invoices section by section on a
// layout.Builder. Every section reserves its own height before drawing.
package render

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/smallbiznis/officecrm/internal/category"
	"github.com/smallbiznis/officecrm/internal/config"
	"github.com/smallbiznis/officecrm/internal/document/domain"
	"github.com/smallbiznis/officecrm/internal/document/layout"
	"github.com/smallbiznis/officecrm/internal/finance"
)

// Input is everything a single render needs. Groups are already ordered.
type Input struct {
	Kind     domain.Kind
	Header   domain.Header
	Customer domain.Customer
	Groups   []category.Group[domain.LineItem]
	Logo     *layout.Image
	// Images maps an item image URL to its fetched image.
	Images map[string]*layout.Image
}

type CategoryTotal struct {
	Name   string
	Amount float64
}

// Result is the rendered document and the figures printed on it.
type Result struct {
	Data           []byte
	Pages          int
	CategoryTotals []CategoryTotal
	GrandTotal     float64
	Breakdown      finance.GSTBreakdown
	// ImageFailures counts fetched images the canvas could not draw.
	ImageFailures int
}

// Renderer draws documents for one issuing company.
type Renderer struct {
	company config.Company
}

func New(company config.Company) *Renderer {
	return &Renderer{company: company}
}

// Render draws in onto a new PDF canvas.
func (r *Renderer) Render(in Input) (*Result, error) {
	return r.RenderTo(layout.NewPDFCanvas(in.Header.Number), in)
}

// RenderTo draws in onto c and returns the canvas output.
func (r *Renderer) RenderTo(c layout.Canvas, in Input) (*Result, error) {
	v, err := variantFor(in.Kind)
	if err != nil {
		return nil, err
	}

	b := layout.NewBuilder(c)
	r.drawHeader(b, v, in)
	r.drawCustomer(b, v, in.Customer)

	b.SetY(v.tableY)
	totals := r.drawCategories(b, v, in)

	subtotals := make([]float64, len(totals))
	for i, t := range totals {
		subtotals[i] = t.Amount
	}
	grand := finance.GrandTotal(subtotals)
	breakdown := finance.DecomposeGST(grand)

	r.drawGrandTotal(b, v, grand)
	r.drawTax(b, v, in.Header, breakdown)
	r.drawBank(b)
	if v.serials {
		r.drawPaymentTerms(b, in.Header)
	}
	r.drawTerms(b, in.Header)
	r.drawFooter(b, v)

	var buf bytes.Buffer
	if err := c.Output(&buf); err != nil {
		return nil, fmt.Errorf("write document: %w", err)
	}

	return &Result{
		Data:           buf.Bytes(),
		Pages:          b.Pages(),
		CategoryTotals: totals,
		GrandTotal:     grand,
		Breakdown:      breakdown,
		ImageFailures:  b.ImageFailures(),
	}, nil
}

func (r *Renderer) drawHeader(b *layout.Builder, v variant, in Input) {
	c := b.Canvas()
	w := b.PageWidth()
	gray := layout.Color{R: 60, G: 60, B: 60}

	b.DrawBand(0, 8, layout.Accent)

	y := 20.0
	c.SetFont(layout.Bold, 8)
	c.SetTextColor(gray)
	c.Text(detailsLeft, y, "Address:", layout.AlignLeft)
	c.SetFont(layout.Regular, 8)
	y += 4
	for _, line := range r.company.Address {
		c.Text(detailsLeft, y, line, layout.AlignLeft)
		y += 4
	}
	y += 2
	c.SetFont(layout.Bold, 8)
	c.Text(detailsLeft, y, "Contact:", layout.AlignLeft)
	c.SetFont(layout.Regular, 8)
	c.Text(detailsValue, y, r.company.Phone, layout.AlignLeft)
	y += 4
	c.SetFont(layout.Bold, 8)
	c.Text(detailsLeft, y, "GST:", layout.AlignLeft)
	c.SetFont(layout.Regular, 8)
	c.Text(detailsValue, y, r.company.GSTIN, layout.AlignLeft)

	if in.Logo == nil || !b.DrawImage(in.Logo, (w-65)/2, 20, 65, 26) {
		c.SetFont(layout.Bold, 24)
		c.SetTextColor(layout.Accent)
		c.Text(w/2, 30, r.company.Wordmark.Title, layout.AlignCenter)
		c.SetFont(layout.Bold, 11)
		c.SetTextColor(gray)
		c.Text(w/2, 37, r.company.Wordmark.Subtitle, layout.AlignCenter)
	}

	if v.title != "" {
		c.SetFont(layout.Bold, 10)
		c.SetTextColor(layout.Due)
		c.Text(w/2, 48, v.title, layout.AlignCenter)
	}

	c.SetFont(layout.Bold, 9)
	c.SetTextColor(gray)
	c.Text(w-50, 25, "DATE:", layout.AlignLeft)
	c.SetFont(layout.Regular, 9)
	c.Text(w-15, 25, finance.FormatDate(in.Header.Date), layout.AlignRight)

	c.SetFont(layout.Bold, 9)
	c.Text(w-50, 33, v.numberLabel, layout.AlignLeft)
	c.SetFont(layout.Regular, 10)
	c.Text(w-15, 33, in.Header.Number, layout.AlignRight)

	if in.Header.Version > 1 {
		c.SetFont(layout.Regular, 8)
		c.Text(w-15, 38, fmt.Sprintf("Revision %d", in.Header.Version), layout.AlignRight)
	}
	c.SetTextColor(layout.Black)
}

func (r *Renderer) drawCustomer(b *layout.Builder, v variant, cust domain.Customer) {
	c := b.Canvas()
	y := v.customerY

	c.SetFont(layout.Bold, 9)
	c.SetTextColor(layout.Color{R: 60, G: 60, B: 60})
	c.Text(detailsLeft, y, "TO", layout.AlignLeft)

	y += 5
	c.SetFont(layout.Bold, 11)
	c.SetTextColor(layout.Color{R: 30, G: 30, B: 30})
	c.Text(detailsLeft, y, CustomerName(cust), layout.AlignLeft)

	y += 5
	c.SetFont(layout.Regular, 9)
	if city := strings.TrimSpace(cust.City); city != "" {
		c.Text(detailsLeft, y, strings.ToUpper(city), layout.AlignLeft)
	}
	if v.serials && strings.TrimSpace(cust.GSTIN) != "" {
		y += 5
		c.SetFont(layout.Bold, 9)
		c.Text(detailsLeft, y, "GSTIN: "+strings.TrimSpace(cust.GSTIN), layout.AlignLeft)
	}
	c.SetTextColor(layout.Black)
}

func (r *Renderer) drawCategories(b *layout.Builder, v variant, in Input) []CategoryTotal {
	width := v.tableWidth()
	totals := make([]CategoryTotal, 0, len(in.Groups))
	serial := 1

	for _, g := range in.Groups {
		rows := make([]layout.Row, 0, len(g.Items))
		for _, item := range g.Items {
			rows = append(rows, r.row(v, in, item, serial))
			serial++
		}
		table := layout.Table{
			X:           tableX,
			Columns:     v.columns,
			Rows:        rows,
			FontSize:    8,
			Padding:     3,
			HeadPadding: 2.5,
			LineHeight:  3.5,
			ImageSize:   imageSize,
		}

		// The bar stays on the page that holds its table header and first row.
		b.DrawBar(layout.Bar{
			X:         tableX,
			Width:     width,
			Height:    categoryBarHeight,
			Check:     max(15, categoryBarHeight+b.LeadHeight(table)),
			Fill:      layout.Accent,
			TextColor: layout.White,
			FontSize:  10,
			Label:     g.Name,
		})
		b.DrawTable(table)

		subtotal := finance.CategorySubtotal(g.Items)
		totals = append(totals, CategoryTotal{Name: g.Name, Amount: subtotal})

		stroke := layout.Border
		b.DrawBar(layout.Bar{
			X:         tableX,
			Width:     width,
			Height:    8,
			Fill:      layout.ShadeFill,
			Stroke:    &stroke,
			TextColor: layout.Color{R: 30, G: 30, B: 30},
			FontSize:  9,
			Label:     g.Name + " SUBTOTAL",
			Amount:    finance.FormatRupees(subtotal),
			Gap:       4,
		})
	}
	return totals
}

func (r *Renderer) row(v variant, in Input, item domain.LineItem, serial int) layout.Row {
	price := finance.FormatRupees(item.UnitPrice)
	amount := finance.FormatRupees(item.Amount)

	if v.serials {
		return layout.Row{Cells: []string{
			fmt.Sprint(serial), item.Name, item.Description, unitsLabel(item), price, amount,
		}}
	}

	row := layout.Row{
		Cells:       []string{item.Name, item.Description, "", unitsLabel(item), price, amount},
		ImageColumn: imageColumn,
	}
	if v.images && item.ImageURL != "" {
		if img := in.Images[strings.TrimSpace(item.ImageURL)]; img != nil {
			row.Image = img
			row.MinHeight = imageRowMin
		}
	}
	return row
}

func (r *Renderer) drawGrandTotal(b *layout.Builder, v variant, grand float64) {
	b.DrawBar(layout.Bar{
		X:         tableX,
		Width:     v.tableWidth(),
		Height:    9,
		Fill:      layout.Accent,
		TextColor: layout.White,
		FontSize:  10,
		Label:     "GRAND TOTAL",
		Amount:    finance.FormatRupees(grand),
	})
}

func (r *Renderer) drawTax(b *layout.Builder, v variant, h domain.Header, bd finance.GSTBreakdown) {
	b.Advance(5)
	b.EnsureSpace(v.taxCheck)

	w := b.PageWidth()
	muted := layout.Color{R: 80, G: 80, B: 80}
	dark := layout.Color{R: 30, G: 30, B: 30}
	pairs := []layout.Line{
		{Text: "Taxable Amount:", Value: finance.FormatRupees(bd.Taxable), Size: 8, Color: &muted},
		{Text: "CGST (9%):", Value: finance.FormatRupees(bd.CGST), Size: 8, Color: &muted},
		{Text: "SGST (9%):", Value: finance.FormatRupees(bd.SGST), Size: 8, Color: &muted},
		{Text: "Total GST (18%):", Value: finance.FormatRupees(bd.GST), Style: layout.Bold, Size: 8, Color: &muted},
		{Text: v.totalLabel, Value: finance.FormatRupees(bd.Total), Style: layout.Bold, Size: 11, Color: &dark, Before: 8 - pairStep},
	}

	if v.serials && h.PaidAmount > 0 {
		paid := layout.Paid
		due := layout.Due
		balance := h.BalanceAmount
		if balance == 0 && h.PaidAmount < bd.Total {
			balance = bd.Total - h.PaidAmount
		}
		pairs = append(pairs,
			layout.Line{Text: "Paid:", Value: finance.FormatRupees(h.PaidAmount), Size: 9, Color: &paid, Before: 6 - pairStep},
			layout.Line{Text: "BALANCE DUE:", Value: finance.FormatRupees(balance), Style: layout.Bold, Size: 9, Color: &due, Before: 5 - pairStep},
		)
	}

	b.DrawPairs(w-labelOffset, w-rightOffset, pairStep, pairs)
}

func (r *Renderer) drawBank(b *layout.Builder) {
	b.Advance(12 - pairStep)
	b.EnsureSpace(30)

	dark := layout.Color{R: 30, G: 30, B: 30}
	gray := layout.Color{R: 60, G: 60, B: 60}
	bank := r.company.Bank
	b.DrawLines(detailsLeft, layout.AlignLeft, 0, 0, []layout.Line{
		{Text: "Bank Details:", Style: layout.Bold, Size: 9, Color: &dark},
		{Text: "Account Name: " + bank.AccountName, Size: 8, Color: &gray, Before: 5},
		{Text: "A/C No: " + bank.AccountNumber, Size: 8, Color: &gray, Before: 4},
		{Text: "Branch: " + bank.Branch, Size: 8, Color: &gray, Before: 4},
		{Text: "IFSC Code: " + bank.IFSC, Size: 8, Color: &gray, Before: 4},
	})
}

func (r *Renderer) drawPaymentTerms(b *layout.Builder, h domain.Header) {
	text := strings.TrimSpace(h.PaymentTerms)
	if text == "" {
		return
	}
	b.Advance(8)
	b.EnsureSpace(20)

	dark := layout.Color{R: 30, G: 30, B: 30}
	gray := layout.Color{R: 60, G: 60, B: 60}
	b.DrawLines(detailsLeft, layout.AlignLeft, 5, 0, []layout.Line{
		{Text: "Payment Terms:", Style: layout.Bold, Size: 9, Color: &dark},
	})
	lines := make([]layout.Line, 0)
	b.Canvas().SetFont(layout.Regular, 8)
	for _, l := range layout.Wrap(b.Canvas(), text, b.PageWidth()-2*detailsLeft) {
		lines = append(lines, layout.Line{Text: l, Size: 8, Color: &gray})
	}
	b.DrawLines(detailsLeft, layout.AlignLeft, pairStep, 5, lines)
	b.Advance(-pairStep)
}

func (r *Renderer) drawTerms(b *layout.Builder, h domain.Header) {
	b.Advance(8)
	b.EnsureSpace(40)

	dark := layout.Color{R: 30, G: 30, B: 30}
	gray := layout.Color{R: 60, G: 60, B: 60}
	b.DrawLines(detailsLeft, layout.AlignLeft, 5, 0, []layout.Line{
		{Text: "Terms and Conditions:", Style: layout.Bold, Size: 9, Color: &dark},
	})

	lines := make([]layout.Line, 0)
	width := b.PageWidth() - 2*detailsLeft
	b.Canvas().SetFont(layout.Regular, 8)
	for _, term := range Terms(h) {
		for _, l := range layout.Wrap(b.Canvas(), term, width) {
			lines = append(lines, layout.Line{Text: l, Size: 8, Color: &gray})
		}
	}
	b.DrawLines(detailsLeft, layout.AlignLeft, pairStep, 5, lines)
}

func (r *Renderer) drawFooter(b *layout.Builder, v variant) {
	b.EnsureSpace(25)

	center := b.PageWidth() / 2
	dark := layout.Color{R: 30, G: 30, B: 30}
	gray := layout.Color{R: 60, G: 60, B: 60}
	light := layout.Color{R: 120, G: 120, B: 120}
	b.DrawLines(center, layout.AlignCenter, 0, 0, []layout.Line{
		{Text: "THANK YOU AND ASSURING BEST SERVICE", Style: layout.Bold, Size: 9, Color: &dark},
		{Text: "From M/S " + r.company.Name, Size: 8, Color: &gray, Before: 4.5},
		{Text: r.company.Phone + " | " + r.company.Email, Size: 7, Color: &gray, Before: 5},
		{Text: v.disclaimer, Style: layout.Italic, Size: 7, Color: &light, Before: 5},
	})
}
