// Package layout generates 2D depiction coordinates for a molecule graph.
//
// Ring systems are built from regular-polygon templates and placed as rigid
// units; chains grow from placed atoms in a zigzag. Each fragment is rotated
// onto its principal axis, then fragments are set side by side.
package layout

import (
	"math"
	"sort"

	"github.com/fogleman/gg"

	"github.com/H1W0XXX/molview/internal/chem"
)

// BondLength is the target length of every bond, in coordinate units.
const BondLength = 1.5

// fragmentGap separates fragments horizontally, in bond lengths.
const fragmentGap = 1.0

// Compute2DCoords overwrites the X/Y of every atom.
func Compute2DCoords(m *chem.Molecule) {
	if len(m.Atoms) == 0 {
		return
	}
	l := newLayouter(m)
	offset := 0.0
	for _, frag := range m.Fragments() {
		l.placeFragment(frag)
		l.fixClashes(frag)
		l.orient(frag)

		minX, maxX, minY, maxY := bounds(l.pos, frag)
		dx := offset - minX
		dy := -(minY + maxY) / 2
		for _, a := range frag {
			l.pos[a].X += dx
			l.pos[a].Y += dy
		}
		offset += maxX - minX + fragmentGap*BondLength
	}
	for i := range m.Atoms {
		m.Atoms[i].X = l.pos[i].X
		m.Atoms[i].Y = l.pos[i].Y
	}
}

type layouter struct {
	mol     *chem.Molecule
	info    *chem.RingInfo
	adj     [][]int // bond indices per atom
	pos     []gg.Point
	placed  []bool
	side    []float64
	systems [][]int // ring indices per ring system
	sysOf   []int   // ring system of each atom, -1 for chain atoms
}

func newLayouter(m *chem.Molecule) *layouter {
	l := &layouter{
		mol:    m,
		info:   m.Rings(),
		adj:    make([][]int, len(m.Atoms)),
		pos:    make([]gg.Point, len(m.Atoms)),
		placed: make([]bool, len(m.Atoms)),
		side:   make([]float64, len(m.Atoms)),
		sysOf:  make([]int, len(m.Atoms)),
	}
	for i, b := range m.Bonds {
		l.adj[b.From] = append(l.adj[b.From], i)
		l.adj[b.To] = append(l.adj[b.To], i)
	}
	for i := range l.side {
		l.side[i] = 1
		l.sysOf[i] = -1
	}
	l.groupRingSystems()
	return l
}

// groupRingSystems merges rings that share at least one atom.
func (l *layouter) groupRingSystems() {
	n := len(l.info.Rings)
	parent := make([]int, n)
	for i := range parent {
		parent[i] = i
	}
	var find func(int) int
	find = func(x int) int {
		for parent[x] != x {
			parent[x] = parent[parent[x]]
			x = parent[x]
		}
		return x
	}
	for a := range l.mol.Atoms {
		rings := l.info.AtomRings(a)
		for _, r := range rings[min(1, len(rings)):] {
			parent[find(r)] = find(rings[0])
		}
	}
	index := make(map[int]int)
	for r := 0; r < n; r++ {
		root := find(r)
		k, ok := index[root]
		if !ok {
			k = len(l.systems)
			index[root] = k
			l.systems = append(l.systems, nil)
		}
		l.systems[k] = append(l.systems[k], r)
	}
	for k, rings := range l.systems {
		for _, r := range rings {
			for _, a := range l.info.Rings[r] {
				l.sysOf[a] = k
			}
		}
	}
}

func (l *layouter) placeFragment(frag []int) {
	var queue []int
	seedSys := -1
	for _, a := range frag {
		s := l.sysOf[a]
		if s >= 0 && (seedSys < 0 || l.systemSize(s) > l.systemSize(seedSys)) {
			seedSys = s
		}
	}
	if seedSys >= 0 {
		tpl := l.systemTemplate(seedSys)
		for _, a := range sortedAtoms(tpl) {
			l.pos[a] = tpl[a]
			l.placed[a] = true
			queue = append(queue, a)
		}
	} else {
		seed := frag[0]
		for _, a := range frag {
			if len(l.adj[a]) == 1 {
				seed = a
				break
			}
		}
		l.pos[seed] = gg.Point{}
		l.placed[seed] = true
		queue = append(queue, seed)
	}

	for len(queue) > 0 {
		a := queue[0]
		queue = queue[1:]
		queue = append(queue, l.growFrom(a)...)
	}
}

func (l *layouter) systemSize(s int) int {
	atoms := make(map[int]bool)
	for _, r := range l.systems[s] {
		for _, a := range l.info.Rings[r] {
			atoms[a] = true
		}
	}
	return len(atoms)
}

// growFrom places the unplaced neighbours of a and returns every atom it placed.
func (l *layouter) growFrom(a int) []int {
	var placedDirs []float64
	var todo []int
	for _, bi := range l.adj[a] {
		nb := l.mol.Bonds[bi].Other(a)
		if l.placed[nb] {
			placedDirs = append(placedDirs, angle(l.pos[a], l.pos[nb]))
		} else {
			todo = append(todo, nb)
		}
	}
	if len(todo) == 0 {
		return nil
	}
	sort.SliceStable(todo, func(i, j int) bool { return l.branchWeight(todo[i]) > l.branchWeight(todo[j]) })

	dirs := l.childAngles(a, placedDirs, len(todo))
	var out []int
	for k, nb := range todo {
		if l.placed[nb] {
			// reached through a ring system placed earlier in this loop
			continue
		}
		target := gg.Point{
			X: l.pos[a].X + BondLength*math.Cos(dirs[k]),
			Y: l.pos[a].Y + BondLength*math.Sin(dirs[k]),
		}
		if s := l.sysOf[nb]; s >= 0 {
			out = append(out, l.attachSystem(s, nb, target, dirs[k])...)
			continue
		}
		l.pos[nb] = target
		l.placed[nb] = true
		l.side[nb] = -l.side[a]
		out = append(out, nb)
	}
	return out
}

// branchWeight orders substituents so that the heavier branch continues the chain.
func (l *layouter) branchWeight(a int) int {
	if l.sysOf[a] >= 0 {
		return 1 << 20
	}
	return len(l.adj[a])
}

// childAngles picks bond directions for n new neighbours of atom a.
func (l *layouter) childAngles(a int, placedDirs []float64, n int) []float64 {
	dirs := make([]float64, n)
	switch {
	case len(placedDirs) == 0:
		for k := range dirs {
			dirs[k] = -math.Pi/6 + 2*math.Pi*float64(k)/float64(n)
		}
	case len(placedDirs) == 1 && n == 1:
		if l.isLinear(a) {
			dirs[0] = placedDirs[0] + math.Pi
		} else {
			dirs[0] = placedDirs[0] + l.side[a]*2*math.Pi/3
		}
	default:
		start, gap := largestGap(placedDirs)
		for k := range dirs {
			dirs[k] = start + gap*float64(k+1)/float64(n+1)
		}
	}
	return dirs
}

// isLinear reports sp atoms: a triple bond or two double bonds.
func (l *layouter) isLinear(a int) bool {
	doubles := 0
	for _, bi := range l.adj[a] {
		switch l.mol.Bonds[bi].Order {
		case 3:
			return true
		case 2:
			doubles++
		}
	}
	return doubles >= 2
}

// attachSystem places a whole ring system so that atom at sits on target and
// the system extends along dir.
func (l *layouter) attachSystem(s, at int, target gg.Point, dir float64) []int {
	tpl := l.systemTemplate(s)
	c := centroidOf(tpl)
	anchor := tpl[at]
	rot := gg.Rotate(dir - angle(anchor, c))

	atoms := sortedAtoms(tpl)
	for _, a := range atoms {
		x, y := rot.TransformPoint(tpl[a].X-anchor.X, tpl[a].Y-anchor.Y)
		l.pos[a] = gg.Point{X: target.X + x, Y: target.Y + y}
		l.placed[a] = true
	}
	return atoms
}

func angle(from, to gg.Point) float64 {
	return math.Atan2(to.Y-from.Y, to.X-from.X)
}

// largestGap returns the start angle and width of the widest empty sector
// between the given directions.
func largestGap(dirs []float64) (float64, float64) {
	if len(dirs) == 1 {
		return dirs[0], 2 * math.Pi
	}
	norm := make([]float64, len(dirs))
	for i, d := range dirs {
		norm[i] = math.Mod(d+4*math.Pi, 2*math.Pi)
	}
	sort.Float64s(norm)
	bestStart, bestGap := 0.0, -1.0
	for i, d := range norm {
		next := norm[(i+1)%len(norm)]
		gap := next - d
		if i == len(norm)-1 {
			gap = next + 2*math.Pi - d
		}
		if gap > bestGap {
			bestStart, bestGap = d, gap
		}
	}
	return bestStart, bestGap
}

func bounds(pos []gg.Point, atoms []int) (minX, maxX, minY, maxY float64) {
	minX, minY = math.MaxFloat64, math.MaxFloat64
	maxX, maxY = -math.MaxFloat64, -math.MaxFloat64
	for _, a := range atoms {
		p := pos[a]
		minX = math.Min(minX, p.X)
		maxX = math.Max(maxX, p.X)
		minY = math.Min(minY, p.Y)
		maxY = math.Max(maxY, p.Y)
	}
	return
}
