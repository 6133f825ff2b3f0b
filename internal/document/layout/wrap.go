package layout

import "strings"

// Wrap breaks s into lines no wider than width as measured by c. Explicit
// newlines are kept; a single word wider than width stays on its own line.
func Wrap(c Canvas, s string, width float64) []string {
	var out []string
	for _, para := range strings.Split(s, "\n") {
		words := strings.Fields(para)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := words[0]
		for _, w := range words[1:] {
			candidate := line + " " + w
			if c.TextWidth(candidate) <= width {
				line = candidate
				continue
			}
			out = append(out, line)
			line = w
		}
		out = append(out, line)
	}
	return out
}
