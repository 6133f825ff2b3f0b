package layout

import (
	"bytes"
	"fmt"
	"io"

	"github.com/phpdave11/gofpdf"
)

const fontFamily = "Helvetica"

// PDFCanvas draws on an A4 portrait gofpdf document using the core
// Helvetica font. Text is translated to cp1252 before drawing.
type PDFCanvas struct {
	pdf    *gofpdf.Fpdf
	tr     func(string) string
	pages  int
	images map[string]bool
}

func NewPDFCanvas(title string) *PDFCanvas {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)
	pdf.SetTitle(title, true)
	pdf.SetCreator("officecrm", true)
	return &PDFCanvas{
		pdf:    pdf,
		tr:     pdf.UnicodeTranslatorFromDescriptor(""),
		images: make(map[string]bool),
	}
}

func (p *PDFCanvas) PageSize() (float64, float64) { return p.pdf.GetPageSize() }

func (p *PDFCanvas) AddPage() {
	p.pdf.AddPage()
	p.pages++
}

func (p *PDFCanvas) PageCount() int { return p.pages }

func (p *PDFCanvas) SetFont(style string, size float64) {
	p.pdf.SetFont(fontFamily, style, size)
}

func (p *PDFCanvas) SetTextColor(c Color) { p.pdf.SetTextColor(c.R, c.G, c.B) }
func (p *PDFCanvas) SetFillColor(c Color) { p.pdf.SetFillColor(c.R, c.G, c.B) }
func (p *PDFCanvas) SetDrawColor(c Color) { p.pdf.SetDrawColor(c.R, c.G, c.B) }
func (p *PDFCanvas) SetLineWidth(w float64) { p.pdf.SetLineWidth(w) }

func (p *PDFCanvas) Rect(x, y, w, h float64, style string) {
	p.pdf.Rect(x, y, w, h, style)
}

func (p *PDFCanvas) Text(x, y float64, s string, align Align) {
	s = p.tr(s)
	switch align {
	case AlignCenter:
		x -= p.pdf.GetStringWidth(s) / 2
	case AlignRight:
		x -= p.pdf.GetStringWidth(s)
	}
	p.pdf.Text(x, y, s)
}

func (p *PDFCanvas) TextWidth(s string) float64 {
	return p.pdf.GetStringWidth(p.tr(s))
}

// Image registers img once by name and places it. A decode failure clears
// the document error so the rest of the page still renders.
func (p *PDFCanvas) Image(img *Image, x, y, w, h float64) error {
	if img == nil || len(img.Data) == 0 {
		return nil
	}
	opts := gofpdf.ImageOptions{ImageType: img.Type}
	if !p.images[img.Name] {
		p.pdf.RegisterImageOptionsReader(img.Name, opts, bytes.NewReader(img.Data))
		if err := p.pdf.Error(); err != nil {
			p.pdf.ClearError()
			return fmt.Errorf("register image %s: %w", img.Name, err)
		}
		p.images[img.Name] = true
	}
	p.pdf.ImageOptions(img.Name, x, y, w, h, false, opts, 0, "")
	if err := p.pdf.Error(); err != nil {
		p.pdf.ClearError()
		return fmt.Errorf("place image %s: %w", img.Name, err)
	}
	return nil
}

func (p *PDFCanvas) Output(w io.Writer) error {
	return p.pdf.Output(w)
}
