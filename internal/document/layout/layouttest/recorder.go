// Package layouttest provides a recording Canvas for layout tests.
package layouttest

import (
	"io"

	"github.com/smallbiznis/officecrm/internal/document/layout"
)

// Op is one recorded drawing call.
type Op struct {
	Page int
	Kind string
	X, Y float64
	W, H float64
	Text string
}

// Recorder is an A4 Canvas that keeps every drawing call. Text is 2mm wide
// per rune so wrapping is predictable.
type Recorder struct {
	Width, Height float64
	Pages         int
	Ops           []Op
	// ImageErr, when set, fails every Image call.
	ImageErr error
}

func New() *Recorder { return &Recorder{Width: 210, Height: 297} }

func (r *Recorder) PageSize() (float64, float64) { return r.Width, r.Height }
func (r *Recorder) AddPage() { r.Pages++ }
func (r *Recorder) PageCount() int { return r.Pages }
func (r *Recorder) SetFont(string, float64) {}
func (r *Recorder) SetTextColor(layout.Color) {}
func (r *Recorder) SetFillColor(layout.Color) {}
func (r *Recorder) SetDrawColor(layout.Color) {}
func (r *Recorder) SetLineWidth(float64) {}
func (r *Recorder) TextWidth(s string) float64 { return 2 * float64(len([]rune(s))) }

func (r *Recorder) Output(w io.Writer) error {
	_, err := w.Write([]byte("%PDF-recorded"))
	return err
}

func (r *Recorder) Rect(x, y, w, h float64, style string) {
	r.Ops = append(r.Ops, Op{Page: r.Pages, Kind: "rect", X: x, Y: y, W: w, H: h})
}

func (r *Recorder) Text(x, y float64, s string, align layout.Align) {
	r.Ops = append(r.Ops, Op{Page: r.Pages, Kind: "text", X: x, Y: y, Text: s})
}

func (r *Recorder) Image(img *layout.Image, x, y, w, h float64) error {
	if r.ImageErr != nil {
		return r.ImageErr
	}
	r.Ops = append(r.Ops, Op{Page: r.Pages, Kind: "image", X: x, Y: y, W: w, H: h, Text: img.Name})
	return nil
}

// Count returns how many text ops equal s.
func (r *Recorder) Count(s string) int {
	n := 0
	for _, op := range r.Ops {
		if op.Kind == "text" && op.Text == s {
			n++
		}
	}
	return n
}

// Texts returns the recorded text strings in drawing order.
func (r *Recorder) Texts() []string {
	var out []string
	for _, op := range r.Ops {
		if op.Kind == "text" {
			out = append(out, op.Text)
		}
	}
	return out
}

// Find returns the first text op equal to s.
func (r *Recorder) Find(s string) (Op, bool) {
	for _, op := range r.Ops {
		if op.Kind == "text" && op.Text == s {
			return op, true
		}
	}
	return Op{}, false
}

// After returns the first text op drawn after the op equal to s.
func (r *Recorder) After(s string) (Op, bool) {
	for i, op := range r.Ops {
		if op.Kind == "text" && op.Text == s {
			for _, next := range r.Ops[i+1:] {
				if next.Kind == "text" {
					return next, true
				}
			}
		}
	}
	return Op{}, false
}

var _ layout.Canvas = (*Recorder)(nil)
