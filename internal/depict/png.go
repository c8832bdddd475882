package depict

import (
	"bytes"
	"image"
	"image/draw"
	"image/png"

	"github.com/fogleman/gg"
)

type pngCanvas struct {
	dc *gg.Context
}

// newPNGCanvas starts a white canvas; white is cleared to transparent on encode.
func newPNGCanvas(sc *scene) *pngCanvas {
	dc := gg.NewContext(sc.width, sc.height)
	dc.SetRGB(1, 1, 1)
	dc.Clear()
	dc.SetFontFace(sc.face)
	return &pngCanvas{dc: dc}
}

func (c *pngCanvas) disc(d disc) {
	c.dc.SetRGB(d.color.R, d.color.G, d.color.B)
	c.dc.DrawCircle(d.center.X, d.center.Y, d.radius)
	c.dc.Fill()
}

func (c *pngCanvas) segment(s segment) {
	c.dc.SetRGB(s.color.R, s.color.G, s.color.B)
	c.dc.SetLineWidth(s.width)
	if s.round {
		c.dc.SetLineCapRound()
	} else {
		c.dc.SetLineCapButt()
	}
	c.dc.DrawLine(s.from.X, s.from.Y, s.to.X, s.to.Y)
	c.dc.Stroke()
}

func (c *pngCanvas) text(l label) {
	c.dc.SetRGB(l.color.R, l.color.G, l.color.B)
	c.dc.DrawStringAnchored(l.text, l.at.X, l.at.Y, 0.5, 0.5)
}

func (c *pngCanvas) encode() ([]byte, error) {
	var buf bytes.Buffer
	if err := png.Encode(&buf, WhiteToTransparent(c.dc.Image())); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// WhiteToTransparent copies src and sets alpha to 0 on every pure white
// (255,255,255) pixel. Other pixels keep their values.
func WhiteToTransparent(src image.Image) *image.NRGBA {
	b := src.Bounds()
	dst := image.NewNRGBA(b)
	draw.Draw(dst, b, src, b.Min, draw.Src)
	for i := 0; i+3 < len(dst.Pix); i += 4 {
		if dst.Pix[i] == 255 && dst.Pix[i+1] == 255 && dst.Pix[i+2] == 255 {
			dst.Pix[i+3] = 0
		}
	}
	return dst
}
