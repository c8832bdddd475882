package layout

import (
	"math"
	"sort"

	"github.com/fogleman/gg"
)

// systemTemplate lays out ring system s in its own frame. The most fused ring
// is a regular polygon around the origin; every other ring is added onto the
// atoms already placed, fused on a shared edge, spiro on a shared atom, or
// bridged across the placed part.
func (l *layouter) systemTemplate(s int) map[int]gg.Point {
	rings := l.systems[s]
	pos := make(map[int]gg.Point)

	first := 0
	bestShared := -1
	for k, r := range rings {
		shared := 0
		for _, a := range l.info.Rings[r] {
			shared += l.info.NumAtomRings(a) - 1
		}
		if shared > bestShared || (shared == bestShared && len(l.info.Rings[r]) > len(l.info.Rings[rings[first]])) {
			first, bestShared = k, shared
		}
	}
	placeRegular(l.info.Rings[rings[first]], pos)

	done := make([]bool, len(rings))
	done[first] = true
	for {
		next, nextPlaced := -1, 0
		for k, r := range rings {
			if done[k] {
				continue
			}
			n := 0
			for _, a := range l.info.Rings[r] {
				if _, ok := pos[a]; ok {
					n++
				}
			}
			if n > nextPlaced {
				next, nextPlaced = k, n
			}
		}
		if next < 0 {
			return pos
		}
		done[next] = true
		addRing(l.info.Rings[rings[next]], pos)
	}
}

func placeRegular(ring []int, pos map[int]gg.Point) {
	n := len(ring)
	r := circumradius(n)
	for k, a := range ring {
		t := 2*math.Pi*float64(k)/float64(n) + math.Pi/2
		pos[a] = gg.Point{X: r * math.Cos(t), Y: r * math.Sin(t)}
	}
}

func circumradius(n int) float64 {
	return BondLength / (2 * math.Sin(math.Pi/float64(n)))
}

func addRing(ring []int, pos map[int]gg.Point) {
	n := len(ring)
	var idx []int
	for i, a := range ring {
		if _, ok := pos[a]; ok {
			idx = append(idx, i)
		}
	}
	centroid := centroidOf(pos)
	switch {
	case len(idx) == n:
		return
	case len(idx) == 1:
		spiroRing(ring, idx[0], pos, centroid)
	case len(idx) == 2 && (idx[1]-idx[0] == 1 || idx[1]-idx[0] == n-1):
		i, j := idx[0], idx[1]
		if idx[1]-idx[0] == n-1 {
			i, j = idx[1], idx[0]
		}
		fuseRing(ring, i, j, pos, centroid)
	default:
		bridgeRing(ring, pos, centroid)
	}
}

// fuseRing builds a regular polygon on the placed edge ring[i]-ring[j], where
// j follows i in ring order, on the side away from the placed atoms.
func fuseRing(ring []int, i, j int, pos map[int]gg.Point, centroid gg.Point) {
	n := len(ring)
	a, b := pos[ring[i]], pos[ring[j]]
	mid := gg.Point{X: (a.X + b.X) / 2, Y: (a.Y + b.Y) / 2}
	d := a.Distance(b)
	if d == 0 {
		d = BondLength
	}
	nx, ny := -(b.Y-a.Y)/d, (b.X-a.X)/d
	apothem := d / (2 * math.Tan(math.Pi/float64(n)))
	c1 := gg.Point{X: mid.X + nx*apothem, Y: mid.Y + ny*apothem}
	c2 := gg.Point{X: mid.X - nx*apothem, Y: mid.Y - ny*apothem}
	center := c1
	if c2.Distance(centroid) > c1.Distance(centroid) {
		center = c2
	}

	r := center.Distance(a)
	ta := angle(center, b) - angle(center, a)
	step := 2 * math.Pi / float64(n)
	sign := 1.0
	if math.Sin(ta) < 0 {
		sign = -1
	}
	base := angle(center, a)
	for k := 2; k < n; k++ {
		at := ring[(i+k)%n]
		if _, ok := pos[at]; ok {
			continue
		}
		t := base + sign*float64(k)*step
		pos[at] = gg.Point{X: center.X + r*math.Cos(t), Y: center.Y + r*math.Sin(t)}
	}
}

// spiroRing hangs a regular polygon off a single placed atom.
func spiroRing(ring []int, i int, pos map[int]gg.Point, centroid gg.Point) {
	n := len(ring)
	p := pos[ring[i]]
	dir := angle(centroid, p)
	if p.Distance(centroid) < 1e-9 {
		dir = 0
	}
	r := circumradius(n)
	center := gg.Point{X: p.X + r*math.Cos(dir), Y: p.Y + r*math.Sin(dir)}
	base := dir + math.Pi
	step := 2 * math.Pi / float64(n)
	for k := 1; k < n; k++ {
		at := ring[(i+k)%n]
		if _, ok := pos[at]; ok {
			continue
		}
		t := base + float64(k)*step
		pos[at] = gg.Point{X: center.X + r*math.Cos(t), Y: center.Y + r*math.Sin(t)}
	}
}

// bridgeRing places each run of unplaced ring atoms on a bulge between the
// placed atoms at either end of the run.
func bridgeRing(ring []int, pos map[int]gg.Point, centroid gg.Point) {
	n := len(ring)
	start := -1
	for i, a := range ring {
		if _, ok := pos[a]; ok {
			start = i
			break
		}
	}
	if start < 0 {
		return
	}
	for k := 1; k <= n; k++ {
		i := (start + k) % n
		if _, ok := pos[ring[i]]; ok {
			continue
		}
		prev := (i - 1 + n) % n
		var run []int
		for {
			if _, ok := pos[ring[i]]; ok {
				break
			}
			run = append(run, ring[i])
			i = (i + 1) % n
		}
		placeRun(run, pos[ring[prev]], pos[ring[i]], pos, centroid)
		k += len(run)
	}
}

func placeRun(run []int, p, q gg.Point, pos map[int]gg.Point, centroid gg.Point) {
	d := p.Distance(q)
	mid := gg.Point{X: (p.X + q.X) / 2, Y: (p.Y + q.Y) / 2}
	nx, ny := 1.0, 0.0
	if d > 1e-9 {
		nx, ny = -(q.Y-p.Y)/d, (q.X-p.X)/d
	}
	if (gg.Point{X: mid.X + nx, Y: mid.Y + ny}).Distance(centroid) < (gg.Point{X: mid.X - nx, Y: mid.Y - ny}).Distance(centroid) {
		nx, ny = -nx, -ny
	}
	span := float64(len(run)+1) * BondLength
	h := 0.0
	if span > d {
		h = math.Sqrt(span*span-d*d) / 2
	}
	for m, a := range run {
		t := float64(m+1) / float64(len(run)+1)
		bulge := h * math.Sin(math.Pi*t)
		pos[a] = gg.Point{
			X: p.X + (q.X-p.X)*t + nx*bulge,
			Y: p.Y + (q.Y-p.Y)*t + ny*bulge,
		}
	}
}

// centroidOf sums in atom order so repeated layouts agree to the last bit.
func centroidOf(pos map[int]gg.Point) gg.Point {
	var c gg.Point
	if len(pos) == 0 {
		return c
	}
	for _, a := range sortedAtoms(pos) {
		c.X += pos[a].X
		c.Y += pos[a].Y
	}
	c.X /= float64(len(pos))
	c.Y /= float64(len(pos))
	return c
}

func sortedAtoms(pos map[int]gg.Point) []int {
	atoms := make([]int, 0, len(pos))
	for a := range pos {
		atoms = append(atoms, a)
	}
	sort.Ints(atoms)
	return atoms
}
