package overlay

import (
	"bufio"
	"fmt"
	"html"
	"io"
	"strconv"
)

// WriteSVG draws the scene as a standalone SVG sized to the page. Markers are
// emitted before the active highlight so the highlight paints on top.
func (s Scene) WriteSVG(w io.Writer) error {
	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%s" height="%s" viewBox="0 0 %s %s" data-page="%d">`+"\n",
		num(s.Width), num(s.Height), num(s.Width), num(s.Height), s.PageNumber)
	fmt.Fprintf(bw, `<g transform="%s">`+"\n", html.EscapeString(s.Transform))

	for _, m := range s.Markers {
		fmt.Fprintf(bw, `<rect class="marker %s" x="%s" y="%s" width="%s" height="%s" rx="2" fill="%s" fill-opacity="0.6"><title>%s</title></rect>`+"\n",
			m.Class.Tier, num(m.Rect.Left), num(m.Rect.Top), num(m.Rect.Width), num(m.Rect.Height),
			m.Class.Color, html.EscapeString(m.Title))
	}

	if a := s.Active; a != nil {
		class := "highlight " + string(a.Class.Tier)
		if a.Animate {
			class += " animate"
		}
		fmt.Fprintf(bw, `<rect class="%s" x="%s" y="%s" width="%s" height="%s" fill="%s" fill-opacity="0.15" stroke="%s" stroke-width="2"/>`+"\n",
			class, num(a.Rect.Left), num(a.Rect.Top), num(a.Rect.Width), num(a.Rect.Height),
			a.Class.Color, a.Class.Color)
		fmt.Fprintf(bw, `<text class="label" x="%s" y="%s" fill="%s" font-size="11">%s</text>`+"\n",
			num(a.Rect.Left), num(a.Rect.Top-3), a.Class.Color, html.EscapeString(a.Label))
	}

	if t := s.Tooltip; t != nil {
		fmt.Fprintf(bw, `<g class="tooltip" transform="translate(%s %s)">`+"\n", num(t.Position.Left), num(t.Position.Top))
		fmt.Fprintf(bw, `<rect width="%s" height="%s" rx="4" fill="#111827" fill-opacity="0.92"/>`+"\n", num(t.Width), num(t.Height))
		y := 14.0
		for _, line := range t.Lines {
			fmt.Fprintf(bw, `<text x="8" y="%s" fill="#f9fafb" font-size="11">%s</text>`+"\n", num(y), html.EscapeString(line))
			y += 13
		}
		if t.Advisory != "" {
			fmt.Fprintf(bw, `<text class="advisory" x="8" y="%s" fill="#fca5a5" font-size="10">%s</text>`+"\n", num(y), html.EscapeString(t.Advisory))
		}
		bw.WriteString("</g>\n")
	}

	if s.Notice != "" {
		fmt.Fprintf(bw, `<text class="notice" x="8" y="16" fill="#6b7280" font-size="12">%s</text>`+"\n", html.EscapeString(s.Notice))
	}

	bw.WriteString("</g>\n</svg>\n")
	return bw.Flush()
}

func num(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
