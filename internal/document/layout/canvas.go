// Package layout draws documents top to bottom on fixed-size pages. A Builder
// owns the vertical cursor and applies the page-break rule before every block.
package layout

import "io"

type Color struct {
	R, G, B int
}

var (
	Black     = Color{0, 0, 0}
	White     = Color{255, 255, 255}
	Accent    = Color{255, 102, 0}
	HeadFill  = Color{240, 240, 240}
	ShadeFill = Color{230, 230, 230}
	AltFill   = Color{250, 250, 250}
	Border    = Color{180, 180, 180}
	Muted     = Color{100, 100, 100}
	Paid      = Color{34, 197, 94}
	Due       = Color{220, 38, 38}
)

type Align int

const (
	AlignLeft Align = iota
	AlignCenter
	AlignRight
)

// Font styles accepted by Canvas.SetFont.
const (
	Regular    = ""
	Bold       = "B"
	Italic     = "I"
	BoldItalic = "BI"
)

// Rect styles.
const (
	Fill       = "F"
	Stroke     = "D"
	FillStroke = "FD"
)

// Image is an embeddable raster. Type is one of JPG, PNG or GIF.
type Image struct {
	Name string
	Type string
	Data []byte
}

// Canvas is the drawing surface. Coordinates are millimetres from the top
// left corner; Text draws on the baseline at y.
type Canvas interface {
	PageSize() (w, h float64)
	AddPage()
	PageCount() int
	SetFont(style string, size float64)
	SetTextColor(c Color)
	SetFillColor(c Color)
	SetDrawColor(c Color)
	SetLineWidth(w float64)
	Rect(x, y, w, h float64, style string)
	Text(x, y float64, s string, align Align)
	TextWidth(s string) float64
	Image(img *Image, x, y, w, h float64) error
	Output(w io.Writer) error
}
