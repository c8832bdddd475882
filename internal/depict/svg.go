package depict

import (
	"bytes"
	"fmt"
	"html"
)

type svgCanvas struct {
	buf      *bytes.Buffer
	fontSize float64
}

func newSVGCanvas(sc *scene, background bool) *svgCanvas {
	c := &svgCanvas{buf: &bytes.Buffer{}, fontSize: sc.fontSize}
	c.writeHeader(sc.width, sc.height, background)
	return c
}

// writeHeader writes the root element without namespace prefixes on the
// drawing elements.
func (c *svgCanvas) writeHeader(width, height int, background bool) {
	fmt.Fprintf(c.buf, `<?xml version='1.0' encoding='iso-8859-1'?>
<svg version='1.1' baseProfile='full'
              xmlns='http://www.w3.org/2000/svg'
                      xmlns:rdkit='http://www.rdkit.org/xml'
                      xmlns:xlink='http://www.w3.org/1999/xlink'
                  xml:space='preserve'
width='%dpx' height='%dpx' viewBox='0 0 %d %d'>
<!-- END OF HEADER -->
`, width, height, width, height)
	if background {
		fmt.Fprintf(c.buf, "<rect style='opacity:1.0;fill:#FFFFFF;stroke:none' width='%d.0' height='%d.0' x='0.0' y='0.0'> </rect>\n", width, height)
	}
}

func (c *svgCanvas) disc(d disc) {
	fmt.Fprintf(c.buf, "<ellipse cx='%.1f' cy='%.1f' rx='%.1f' ry='%.1f' class='%s' style='fill:%s;fill-rule:evenodd;stroke:%s;stroke-width:1.0px;stroke-linecap:butt;stroke-linejoin:miter;stroke-opacity:1' />\n",
		d.center.X, d.center.Y, d.radius, d.radius, d.class, d.color.Hex(), d.color.Hex())
}

func (c *svgCanvas) segment(s segment) {
	lineCap := "butt"
	if s.round {
		lineCap = "round"
	}
	fmt.Fprintf(c.buf, "<path class='%s' d='M %.1f,%.1f L %.1f,%.1f' style='fill:none;fill-rule:evenodd;stroke:%s;stroke-width:%.1fpx;stroke-linecap:%s;stroke-linejoin:miter;stroke-opacity:1' />\n",
		s.class, s.from.X, s.from.Y, s.to.X, s.to.Y, s.color.Hex(), s.width, lineCap)
}

func (c *svgCanvas) text(l label) {
	fmt.Fprintf(c.buf, "<text x='%.1f' y='%.1f' class='%s' style='font-size:%.0fpx;font-style:normal;font-weight:normal;fill-opacity:1;stroke:none;font-family:sans-serif;text-anchor:middle;fill:%s' dominant-baseline='central'>%s</text>\n",
		l.at.X, l.at.Y, l.class, c.fontSize, l.color.Hex(), html.EscapeString(l.text))
}

func (c *svgCanvas) encode() ([]byte, error) {
	c.buf.WriteString("</svg>\n")
	return c.buf.Bytes(), nil
}
