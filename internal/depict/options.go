// Package depict draws a molecule as an SVG document or a PNG image.
package depict

import (
	"fmt"
	"image/color"
	"math"
	"strings"
)

const (
	DefaultWidth  = 200
	DefaultHeight = 200
)

// Format selects the output encoding.
type Format string

const (
	FormatSVG Format = "svg"
	FormatPNG Format = "png"
)

// ParseFormat maps an img_type value to a Format. Only "png" selects the
// raster output; anything else, including "", is SVG.
func ParseFormat(s string) Format {
	if strings.EqualFold(strings.TrimSpace(s), string(FormatPNG)) {
		return FormatPNG
	}
	return FormatSVG
}

// ContentType is the HTTP media type of the encoded output.
func (f Format) ContentType() string {
	if f == FormatPNG {
		return "image/png"
	}
	return "image/svg+xml"
}

// Color is an RGB triple with components in [0,1].
type Color struct {
	R, G, B float64
}

var (
	Black = Color{0, 0, 0}
	White = Color{1, 1, 1}
	// DefaultHighlight is used for highlighted atoms or bonds without a color of their own.
	DefaultHighlight = Color{1, 0.5, 0.5}
)

func channel(v float64) uint8 {
	return uint8(math.Round(math.Max(0, math.Min(1, v)) * 255))
}

// Hex formats the color as #RRGGBB.
func (c Color) Hex() string {
	return fmt.Sprintf("#%02X%02X%02X", channel(c.R), channel(c.G), channel(c.B))
}

// NRGBA converts to an opaque image/color value.
func (c Color) NRGBA() color.NRGBA {
	return color.NRGBA{R: channel(c.R), G: channel(c.G), B: channel(c.B), A: 255}
}

// DrawOptions controls one drawing.
type DrawOptions struct {
	Width, Height int
	Format        Format

	// ClearBackground paints a white rectangle behind an SVG drawing.
	// PNG output is always drawn on white and made transparent afterwards.
	ClearBackground bool
	BondLineWidth   float64
	// Padding is the margin on each side, as a fraction of the smaller side.
	Padding float64
	// KeepCoords skips layout when the molecule already carries coordinates.
	KeepCoords bool

	HighlightAtoms      []int
	HighlightAtomColors map[int]Color
	HighlightBonds      []int
	HighlightBondColors map[int]Color
}

// DefaultDrawOptions returns the options for a width x height drawing;
// zero sizes fall back to 200.
func DefaultDrawOptions(width, height int) DrawOptions {
	opts := DrawOptions{
		Width:         width,
		Height:        height,
		Format:        FormatSVG,
		BondLineWidth: 2,
		Padding:       0.05,
	}
	opts.normalize()
	return opts
}

func (o *DrawOptions) normalize() {
	if o.Width <= 0 {
		o.Width = DefaultWidth
	}
	if o.Height <= 0 {
		o.Height = DefaultHeight
	}
	if o.Format == "" {
		o.Format = FormatSVG
	}
	if o.BondLineWidth <= 0 {
		o.BondLineWidth = 2
	}
	if o.Padding < 0 || o.Padding >= 0.5 {
		o.Padding = 0.05
	}
}
