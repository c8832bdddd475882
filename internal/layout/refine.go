package layout

import (
	"math"

	"github.com/fogleman/gg"
)

const (
	// atoms closer than this, and not bonded, count as a clash
	clashDistance = 0.8 * BondLength
	maxClashAtoms = 400
	clashPasses   = 3
)

// fixClashes flips substituents across acyclic bonds while that lowers the
// overlap score of the fragment.
func (l *layouter) fixClashes(frag []int) {
	if len(frag) < 4 || len(frag) > maxClashAtoms {
		return
	}
	inFrag := make(map[int]bool, len(frag))
	for _, a := range frag {
		inFrag[a] = true
	}
	score := l.clashScore(frag)
	for pass := 0; pass < clashPasses && score > 0; pass++ {
		improved := false
		for bi, b := range l.mol.Bonds {
			if !inFrag[b.From] || l.info.BondInRing(bi) {
				continue
			}
			if len(l.adj[b.From]) < 2 || len(l.adj[b.To]) < 2 {
				continue
			}
			side := l.subtree(b.To, bi)
			if 2*len(side) > len(frag) {
				side = l.subtree(b.From, bi)
			}
			l.reflect(side, l.pos[b.From], l.pos[b.To])
			if s := l.clashScore(frag); s < score-1e-9 {
				score = s
				improved = true
				continue
			}
			l.reflect(side, l.pos[b.From], l.pos[b.To])
		}
		if !improved {
			return
		}
	}
}

func (l *layouter) clashScore(frag []int) float64 {
	score := 0.0
	for i, a := range frag {
		for _, b := range frag[i+1:] {
			d := l.pos[a].Distance(l.pos[b])
			if d >= clashDistance || l.bonded(a, b) {
				continue
			}
			score += (clashDistance - d) * (clashDistance - d)
		}
	}
	return score
}

func (l *layouter) bonded(a, b int) bool {
	for _, bi := range l.adj[a] {
		if l.mol.Bonds[bi].Other(a) == b {
			return true
		}
	}
	return false
}

// subtree collects the atoms reachable from start without crossing bond cut.
func (l *layouter) subtree(start, cut int) []int {
	seen := map[int]bool{start: true}
	out := []int{start}
	for k := 0; k < len(out); k++ {
		for _, bi := range l.adj[out[k]] {
			if bi == cut {
				continue
			}
			nb := l.mol.Bonds[bi].Other(out[k])
			if !seen[nb] {
				seen[nb] = true
				out = append(out, nb)
			}
		}
	}
	return out
}

// reflect mirrors atoms across the line through p and q.
func (l *layouter) reflect(atoms []int, p, q gg.Point) {
	dx, dy := q.X-p.X, q.Y-p.Y
	n := dx*dx + dy*dy
	if n == 0 {
		return
	}
	for _, a := range atoms {
		vx, vy := l.pos[a].X-p.X, l.pos[a].Y-p.Y
		t := (vx*dx + vy*dy) / n
		fx, fy := p.X+t*dx, p.Y+t*dy
		l.pos[a] = gg.Point{X: 2*fx - l.pos[a].X, Y: 2*fy - l.pos[a].Y}
	}
}

// orient rotates the fragment so that its principal axis lies along x.
func (l *layouter) orient(frag []int) {
	if len(frag) < 2 {
		return
	}
	var cx, cy float64
	for _, a := range frag {
		cx += l.pos[a].X
		cy += l.pos[a].Y
	}
	cx /= float64(len(frag))
	cy /= float64(len(frag))
	var sxx, syy, sxy float64
	for _, a := range frag {
		dx, dy := l.pos[a].X-cx, l.pos[a].Y-cy
		sxx += dx * dx
		syy += dy * dy
		sxy += dx * dy
	}
	theta := 0.5 * math.Atan2(2*sxy, sxx-syy)
	rot := gg.Rotate(-theta)
	for _, a := range frag {
		x, y := rot.TransformPoint(l.pos[a].X-cx, l.pos[a].Y-cy)
		l.pos[a] = gg.Point{X: x, Y: y}
	}
}
