package layout

import "math"

type Column struct {
	Title string
	Width float64
	Align Align
}

// Row is one table row. Image, when set, is drawn centered in ImageColumn.
type Row struct {
	Cells       []string
	Image       *Image
	ImageColumn int
	MinHeight   float64
}

type Table struct {
	X           float64
	Columns     []Column
	Rows        []Row
	FontSize    float64
	Padding     float64
	HeadPadding float64
	LineHeight  float64
	ImageSize   float64
}

// Width is the sum of the column widths.
func (t Table) Width() float64 {
	var w float64
	for _, c := range t.Columns {
		w += c.Width
	}
	return w
}

func (t Table) headerHeight() float64 {
	return t.LineHeight + 2*t.HeadPadding
}

func (t Table) rowHeight(c Canvas, r Row) (float64, [][]string) {
	c.SetFont(Regular, t.FontSize)
	cells := make([][]string, len(t.Columns))
	maxLines := 1
	for i, col := range t.Columns {
		text := ""
		if i < len(r.Cells) {
			text = r.Cells[i]
		}
		cells[i] = Wrap(c, text, col.Width-2*t.Padding)
		if len(cells[i]) > maxLines {
			maxLines = len(cells[i])
		}
	}
	h := float64(maxLines)*t.LineHeight + 2*t.Padding
	return math.Max(h, r.MinHeight), cells
}

// pageRoom is the tallest row an empty page can hold below the header.
func (t Table) pageRoom(b *Builder) float64 {
	return b.Limit() - TopMargin - t.headerHeight()
}

// minChunk is the least room a split row needs to start on the current page.
func (t Table) minChunk(r Row) float64 {
	return math.Max(t.LineHeight+2*t.Padding, r.MinHeight)
}

// LeadHeight is the space the header and the first row need together. A
// first row taller than a page only needs room for its first chunk.
func (b *Builder) LeadHeight(t Table) float64 {
	if len(t.Rows) == 0 {
		return t.headerHeight()
	}
	h, _ := t.rowHeight(b.c, t.Rows[0])
	if h > t.pageRoom(b) {
		h = t.minChunk(t.Rows[0])
	}
	return t.headerHeight() + h
}

// DrawTable draws the header and every row. Each row reserves its own height
// first; a row that starts a new page repeats the header above it. Rows
// taller than a page are split across pages by wrapped line.
func (b *Builder) DrawTable(t Table) float64 {
	b.EnsureSpace(b.LeadHeight(t))
	b.drawTableHeader(t)
	if len(t.Rows) == 0 {
		return b.y
	}

	b.c.SetLineWidth(0.1)
	for i, row := range t.Rows {
		fill := White
		if i%2 == 1 {
			fill = AltFill
		}
		h, cells := t.rowHeight(b.c, row)
		if h > t.pageRoom(b) {
			b.drawSplitRow(t, row, cells, fill)
			continue
		}
		if b.EnsureSpace(h) {
			b.drawTableHeader(t)
		}
		b.drawRow(t, row, cells, h, fill, true)
	}
	return b.y
}

func (b *Builder) drawSplitRow(t Table, row Row, cells [][]string, fill Color) {
	total := 0
	for _, lines := range cells {
		total = max(total, len(lines))
	}

	first := true
	for start := 0; start < total; {
		need := t.LineHeight + 2*t.Padding
		if first {
			need = t.minChunk(row)
		}
		if !b.Fits(need) && b.y > TopMargin+t.headerHeight() {
			b.newTablePage(t)
			continue
		}

		n := max(int((b.Limit()-b.y-2*t.Padding)/t.LineHeight), 1)
		end := min(start+n, total)
		chunk := make([][]string, len(cells))
		for ci, lines := range cells {
			if start < len(lines) {
				chunk[ci] = lines[start:min(end, len(lines))]
			}
		}
		h := float64(end-start)*t.LineHeight + 2*t.Padding
		if first {
			h = math.Max(h, row.MinHeight)
		}
		b.drawRow(t, row, chunk, h, fill, first)

		first = false
		start = end
		if start < total {
			b.newTablePage(t)
		}
	}
}

func (b *Builder) newTablePage(t Table) {
	b.c.AddPage()
	b.y = TopMargin
	b.drawTableHeader(t)
	b.c.SetLineWidth(0.1)
}

func (b *Builder) drawRow(t Table, row Row, cells [][]string, h float64, fill Color, withImage bool) {
	b.c.SetDrawColor(Border)
	b.c.SetFillColor(fill)
	b.c.SetFont(Regular, t.FontSize)
	b.c.SetTextColor(Black)

	x := t.X
	for ci, col := range t.Columns {
		b.c.Rect(x, b.y, col.Width, h, FillStroke)
		b.drawCellText(x, col, cells[ci], t)
		if withImage && row.Image != nil && row.ImageColumn == ci {
			size := t.ImageSize
			b.DrawImage(row.Image, x+(col.Width-size)/2, b.y+(h-size)/2, size, size)
		}
		x += col.Width
	}
	b.y += h
}

func (b *Builder) drawTableHeader(t Table) {
	h := t.headerHeight()
	b.c.SetLineWidth(0.1)
	b.c.SetDrawColor(Border)
	b.c.SetFillColor(HeadFill)
	b.c.SetFont(Bold, t.FontSize)
	b.c.SetTextColor(Black)

	x := t.X
	for _, col := range t.Columns {
		b.c.Rect(x, b.y, col.Width, h, FillStroke)
		b.c.Text(x+col.Width/2, b.y+t.HeadPadding+t.LineHeight-1, col.Title, AlignCenter)
		x += col.Width
	}
	b.y += h
}

func (b *Builder) drawCellText(x float64, col Column, lines []string, t Table) {
	var tx float64
	switch col.Align {
	case AlignCenter:
		tx = x + col.Width/2
	case AlignRight:
		tx = x + col.Width - t.Padding
	default:
		tx = x + t.Padding
	}
	for i, line := range lines {
		if line == "" {
			continue
		}
		b.c.Text(tx, b.y+t.Padding+float64(i+1)*t.LineHeight-1, line, col.Align)
	}
}
