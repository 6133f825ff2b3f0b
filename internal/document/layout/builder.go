package layout

const (
	TopMargin    = 20.0
	BottomMargin = 20.0
)

// Builder tracks the cursor and page state on top of a Canvas.
type Builder struct {
	c     Canvas
	y     float64
	pageW float64
	pageH float64

	imageFailures int
}

// NewBuilder starts the first page with the cursor at the top margin.
func NewBuilder(c Canvas) *Builder {
	c.AddPage()
	w, h := c.PageSize()
	return &Builder{c: c, y: TopMargin, pageW: w, pageH: h}
}

func (b *Builder) Canvas() Canvas { return b.c }
func (b *Builder) Y() float64 { return b.y }
func (b *Builder) SetY(y float64) { b.y = y }
func (b *Builder) Advance(dy float64) { b.y += dy }
func (b *Builder) PageWidth() float64 { return b.pageW }
func (b *Builder) PageHeight() float64 { return b.pageH }
func (b *Builder) Pages() int { return b.c.PageCount() }
func (b *Builder) Limit() float64 { return b.pageH - BottomMargin }
func (b *Builder) Fits(h float64) bool { return b.y+h <= b.Limit() }

// EnsureSpace starts a new page when a block of height h would cross the
// bottom margin. It reports whether a page was added.
func (b *Builder) EnsureSpace(h float64) bool {
	if b.Fits(h) {
		return false
	}
	b.c.AddPage()
	b.y = TopMargin
	return true
}

// DrawImage draws img and reports whether it succeeded. A failed image
// leaves its area blank and is counted in ImageFailures.
func (b *Builder) DrawImage(img *Image, x, y, w, h float64) bool {
	if err := b.c.Image(img, x, y, w, h); err != nil {
		b.imageFailures++
		return false
	}
	return true
}

// ImageFailures is the number of images that could not be drawn.
func (b *Builder) ImageFailures() int { return b.imageFailures }

// DrawBand fills a full-width rectangle at y without moving the cursor.
func (b *Builder) DrawBand(y, h float64, fill Color) {
	b.c.SetFillColor(fill)
	b.c.Rect(0, y, b.pageW, h, Fill)
}

// Bar is a filled strip with a centered label and an optional right-aligned
// amount.
type Bar struct {
	X, Width, Height float64
	Fill             Color
	Stroke           *Color
	TextColor        Color
	FontSize         float64
	Label            string
	Amount           string
	// Check is the height reserved before drawing; Height when zero.
	Check float64
	// Gap is added to the cursor after the bar.
	Gap float64
}

// DrawBar draws a bar at the cursor and returns the new cursor.
func (b *Builder) DrawBar(bar Bar) float64 {
	check := bar.Check
	if check == 0 {
		check = bar.Height
	}
	b.EnsureSpace(check)

	style := Fill
	if bar.Stroke != nil {
		b.c.SetDrawColor(*bar.Stroke)
		style = FillStroke
	}
	b.c.SetFillColor(bar.Fill)
	b.c.Rect(bar.X, b.y, bar.Width, bar.Height, style)

	b.c.SetFont(Bold, bar.FontSize)
	b.c.SetTextColor(bar.TextColor)
	baseline := b.y + bar.Height/2 + bar.FontSize*0.13
	b.c.Text(bar.X+bar.Width/2, baseline, bar.Label, AlignCenter)
	if bar.Amount != "" {
		b.c.Text(bar.X+bar.Width-3, baseline, bar.Amount, AlignRight)
	}
	b.c.SetTextColor(Black)

	b.y += bar.Height + bar.Gap
	return b.y
}

// Line is one row of text for DrawLines and DrawPairs.
type Line struct {
	Text  string
	Value string
	Style string
	Size  float64
	Color *Color
	// Before is extra space added above this line.
	Before float64
}

// DrawLines writes lines at x, advancing step after each. When check is
// positive every line reserves that much space first.
func (b *Builder) DrawLines(x float64, align Align, step, check float64, lines []Line) float64 {
	for _, l := range lines {
		b.y += l.Before
		if check > 0 {
			b.EnsureSpace(check)
		}
		b.applyLine(l)
		b.c.Text(x, b.y, l.Text, align)
		b.y += step
	}
	b.c.SetTextColor(Black)
	return b.y
}

// DrawPairs writes label/value rows: labels left-aligned at labelX, values
// right-aligned at rightX. The caller reserves space for the whole block.
func (b *Builder) DrawPairs(labelX, rightX, step float64, pairs []Line) float64 {
	for _, p := range pairs {
		b.y += p.Before
		b.applyLine(p)
		b.c.Text(labelX, b.y, p.Text, AlignLeft)
		b.c.Text(rightX, b.y, p.Value, AlignRight)
		b.y += step
	}
	b.c.SetTextColor(Black)
	return b.y
}

func (b *Builder) applyLine(l Line) {
	size := l.Size
	if size == 0 {
		size = 9
	}
	b.c.SetFont(l.Style, size)
	if l.Color != nil {
		b.c.SetTextColor(*l.Color)
	} else {
		b.c.SetTextColor(Black)
	}
}
