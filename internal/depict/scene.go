package depict

import (
	"fmt"
	"math"
	"strconv"

	"github.com/fogleman/gg"
	"golang.org/x/image/font"

	"github.com/H1W0XXX/molview/internal/chem"
	"github.com/H1W0XXX/molview/internal/layout"
)

const (
	// spacing between the lines of a multiple bond, in bond lengths
	multipleBondOffset = 0.15
	// inner ring lines are shortened by this fraction at each end
	innerLineTrim = 0.12
	// highlight disc radius, in bond lengths
	atomHighlightRadius = 0.3
	// highlight stroke width, in bond lengths
	bondHighlightWidth = 0.2
)

type segment struct {
	from, to gg.Point
	width    float64
	color    Color
	class    string
	round    bool
}

type disc struct {
	center gg.Point
	radius float64
	color  Color
	class  string
}

type label struct {
	text  string
	at    gg.Point
	color Color
	class string
}

// scene is a drawing in pixel space, shared by the SVG and PNG canvases.
type scene struct {
	width, height int
	fontSize      float64
	face          font.Face
	discs         []disc
	highlights    []segment
	bonds         []segment
	labels        []label
}

// labelBox is the extent of an atom label on each side of the atom position.
type labelBox struct {
	left, right, top, bottom float64
}

func buildScene(m *chem.Molecule, opts DrawOptions) (*scene, error) {
	w, h := float64(opts.Width), float64(opts.Height)
	minDim := math.Min(w, h)
	s := &scene{width: opts.Width, height: opts.Height}

	fontCap := minDim / 16
	face, err := newFace(math.Max(6, fontCap))
	if err != nil {
		return nil, fmt.Errorf("loading font: %w", err)
	}
	s.fontSize, s.face = math.Max(6, fontCap), face
	if len(m.Atoms) == 0 {
		return s, nil
	}

	pad := opts.Padding*minDim + fontCap
	availW, availH := math.Max(w-2*pad, 1), math.Max(h-2*pad, 1)
	avg := m.AverageBondLength()
	if avg == 0 {
		avg = layout.BondLength
	}
	scale := minDim / (2.5 * avg)
	if rx := m.RangeX(); rx > 1e-6 {
		scale = math.Min(scale, availW/rx)
	}
	if ry := m.RangeY(); ry > 1e-6 {
		scale = math.Min(scale, availH/ry)
	}
	bondPx := avg * scale

	// label size follows the bond length, capped at 1/16 of the canvas
	if fs := math.Max(6, math.Min(bondPx/1.8, fontCap)); fs != s.fontSize {
		if s.face, err = newFace(fs); err != nil {
			return nil, fmt.Errorf("loading font: %w", err)
		}
		s.fontSize = fs
	}

	cx, cy := (m.MinX()+m.MaxX())/2, (m.MinY()+m.MaxY())/2
	pos := make([]gg.Point, len(m.Atoms))
	for i, a := range m.Atoms {
		pos[i] = gg.Point{X: w/2 + scale*(a.X-cx), Y: h/2 - scale*(a.Y-cy)}
	}

	for _, ai := range opts.HighlightAtoms {
		c, ok := opts.HighlightAtomColors[ai]
		if !ok {
			c = DefaultHighlight
		}
		s.discs = append(s.discs, disc{
			center: pos[ai],
			radius: atomHighlightRadius * bondPx,
			color:  c,
			class:  fmt.Sprintf("atom-%d", ai),
		})
	}
	for _, bi := range opts.HighlightBonds {
		b := m.Bonds[bi]
		c, ok := opts.HighlightBondColors[bi]
		if !ok {
			c = DefaultHighlight
		}
		s.highlights = append(s.highlights, segment{
			from:  pos[b.From],
			to:    pos[b.To],
			width: math.Max(3*opts.BondLineWidth, bondHighlightWidth*bondPx),
			color: c,
			class: fmt.Sprintf("bond-%d", bi),
			round: true,
		})
	}

	boxes := make([]labelBox, len(m.Atoms))
	margin := s.fontSize * 0.1
	for i := range m.Atoms {
		text, ok := atomLabel(m, i, pos)
		if !ok {
			continue
		}
		tw := textWidth(s.face, text)
		boxes[i] = labelBox{
			left:   tw/2 + margin,
			right:  tw/2 + margin,
			top:    s.fontSize/2 + margin,
			bottom: s.fontSize/2 + margin,
		}
		s.labels = append(s.labels, label{
			text:  text,
			at:    pos[i],
			color: atomColor(m.Atoms[i].Num),
			class: fmt.Sprintf("atom-%d", i),
		})
	}

	info := m.Rings()
	delta := multipleBondOffset * bondPx
	for bi, b := range m.Bonds {
		p1, p2 := pos[b.From], pos[b.To]
		q1 := calcLinePointConfined(p1, p2, boxes[b.From])
		q2 := calcLinePointConfined(p2, p1, boxes[b.To])
		if (q2.X-q1.X)*(p2.X-p1.X)+(q2.Y-q1.Y)*(p2.Y-p1.Y) <= 0 {
			// labels overlap, nothing left to draw
			continue
		}
		c1, c2 := atomColor(m.Atoms[b.From].Num), atomColor(m.Atoms[b.To].Num)
		class := fmt.Sprintf("bond-%d atom-%d atom-%d", bi, b.From, b.To)
		line := func(from, to gg.Point) { s.addBondLine(from, to, c1, c2, opts.BondLineWidth, class) }

		nx, ny := normal(q1, q2)
		switch b.Order {
		case 2:
			if center, ok := ringCenter(info, bi, pos); ok {
				mid := gg.Point{X: (q1.X + q2.X) / 2, Y: (q1.Y + q2.Y) / 2}
				if (center.X-mid.X)*nx+(center.Y-mid.Y)*ny < 0 {
					nx, ny = -nx, -ny
				}
				line(q1, q2)
				dx, dy := q2.X-q1.X, q2.Y-q1.Y
				line(
					gg.Point{X: q1.X + dx*innerLineTrim + nx*delta, Y: q1.Y + dy*innerLineTrim + ny*delta},
					gg.Point{X: q2.X - dx*innerLineTrim + nx*delta, Y: q2.Y - dy*innerLineTrim + ny*delta},
				)
				continue
			}
			line(shift(q1, nx, ny, delta/2), shift(q2, nx, ny, delta/2))
			line(shift(q1, nx, ny, -delta/2), shift(q2, nx, ny, -delta/2))
		case 3:
			line(q1, q2)
			line(shift(q1, nx, ny, delta), shift(q2, nx, ny, delta))
			line(shift(q1, nx, ny, -delta), shift(q2, nx, ny, -delta))
		default:
			line(q1, q2)
		}
	}
	return s, nil
}

// addBondLine draws a bond line in two halves when its atoms differ in color.
func (s *scene) addBondLine(from, to gg.Point, c1, c2 Color, width float64, class string) {
	if c1 == c2 {
		s.bonds = append(s.bonds, segment{from: from, to: to, width: width, color: c1, class: class})
		return
	}
	mid := gg.Point{X: (from.X + to.X) / 2, Y: (from.Y + to.Y) / 2}
	s.bonds = append(s.bonds,
		segment{from: from, to: mid, width: width, color: c1, class: class},
		segment{from: mid, to: to, width: width, color: c2, class: class},
	)
}

func normal(a, b gg.Point) (float64, float64) {
	d := a.Distance(b)
	if d == 0 {
		return 0, 0
	}
	return -(b.Y - a.Y) / d, (b.X - a.X) / d
}

func shift(p gg.Point, nx, ny, by float64) gg.Point {
	return gg.Point{X: p.X + nx*by, Y: p.Y + ny*by}
}

// ringCenter returns the centre of the smallest ring holding the bond.
func ringCenter(info *chem.RingInfo, bi int, pos []gg.Point) (gg.Point, bool) {
	if !info.BondInRing(bi) {
		return gg.Point{}, false
	}
	best := -1
	for k, bonds := range info.RingBonds {
		for _, b := range bonds {
			if b == bi && (best < 0 || len(info.Rings[k]) < len(info.Rings[best])) {
				best = k
			}
		}
	}
	if best < 0 {
		return gg.Point{}, false
	}
	var c gg.Point
	for _, a := range info.Rings[best] {
		c.X += pos[a].X
		c.Y += pos[a].Y
	}
	n := float64(len(info.Rings[best]))
	return gg.Point{X: c.X / n, Y: c.Y / n}, true
}

// calcLinePointConfined moves the end p of the line p->other to the border
// of the label box around p.
func calcLinePointConfined(p, other gg.Point, box labelBox) gg.Point {
	w := box.right
	if other.X <= p.X {
		w = box.left
	}
	h := box.bottom
	if other.Y < p.Y {
		h = box.top
	}
	k := math.Atan2(h, w)
	sigx := math.Copysign(1, other.X-p.X)
	sigy := math.Copysign(1, other.Y-p.Y)
	absRad := math.Atan2(math.Abs(other.Y-p.Y), math.Abs(other.X-p.X))
	if absRad > k {
		return gg.Point{X: p.X + sigx*h/math.Tan(absRad), Y: p.Y + sigy*h}
	}
	return gg.Point{X: p.X + sigx*w, Y: p.Y + sigy*w*math.Tan(absRad)}
}

// atomLabel is the text drawn at an atom. Carbons are drawn bare unless
// isolated, charged or isotope-labelled.
func atomLabel(m *chem.Molecule, idx int, pos []gg.Point) (string, bool) {
	a := m.Atoms[idx]
	if a.Num == chem.Carbon && m.Degree(idx) > 0 && a.Isotope == 0 && a.Charge == 0 {
		return "", false
	}
	sym := a.Symbol()
	if a.Isotope > 0 {
		sym = strconv.Itoa(a.Isotope) + sym
	}
	hs := ""
	if a.Num != chem.Wildcard {
		switch n := m.TotalHCount(idx); {
		case n == 1:
			hs = "H"
		case n > 1:
			hs = "H" + strconv.Itoa(n)
		}
	}
	charge := chargeText(a.Charge)
	if hs != "" && hydrogenOnLeft(m, idx, pos) {
		return hs + sym + charge, true
	}
	return sym + hs + charge, true
}

// hydrogenOnLeft puts the H count on the side away from the bonds.
func hydrogenOnLeft(m *chem.Molecule, idx int, pos []gg.Point) bool {
	dx := 0.0
	for _, nb := range m.Neighbors(idx) {
		dx += pos[nb].X - pos[idx].X
	}
	return dx > 1e-6
}

func chargeText(charge int) string {
	switch {
	case charge == 1:
		return "+"
	case charge == -1:
		return "-"
	case charge > 1:
		return strconv.Itoa(charge) + "+"
	case charge < -1:
		return strconv.Itoa(-charge) + "-"
	}
	return ""
}
