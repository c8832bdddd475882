// Package chem holds the molecule graph used by the depiction service and
// the SMILES / MDL readers and writers that build it.
package chem

import (
	"fmt"
	"math"
	"sort"
)

type Atom struct {
	X, Y       float64
	Num        int // atomic number, 0 for the wildcard
	Isotope    int
	Charge     int
	HCount     int // explicit hydrogens, e.g. the 1 in [nH]
	NoImplicit bool
	Aromatic   bool
	MapNum     int
}

// Symbol returns the element symbol of the atom.
func (a Atom) Symbol() string { return Symbol(a.Num) }

// Bond connects two atom indices. Order is always the Kekulé order (1, 2 or 3);
// Aromatic marks bonds that belong to an aromatic ring.
type Bond struct {
	From, To, Order int
	Aromatic        bool
}

// Other returns the atom on the far side of the bond from idx.
func (b Bond) Other(idx int) int {
	if b.From == idx {
		return b.To
	}
	return b.From
}

// Has reports whether the bond touches atom idx.
func (b Bond) Has(idx int) bool { return b.From == idx || b.To == idx }

// Molecule is an atom/bond graph. Atom and bond identifiers are their slice indices.
type Molecule struct {
	Atoms []Atom
	Bonds []Bond
}

// AddAtom appends an atom and returns its index.
func (m *Molecule) AddAtom(a Atom) int {
	m.Atoms = append(m.Atoms, a)
	return len(m.Atoms) - 1
}

// AddBond appends a bond between two existing atoms and returns its index.
func (m *Molecule) AddBond(from, to, order int, aromatic bool) int {
	m.Bonds = append(m.Bonds, Bond{From: from, To: to, Order: order, Aromatic: aromatic})
	return len(m.Bonds) - 1
}

// Clone returns a deep copy.
func (m *Molecule) Clone() *Molecule {
	c := &Molecule{
		Atoms: make([]Atom, len(m.Atoms)),
		Bonds: make([]Bond, len(m.Bonds)),
	}
	copy(c.Atoms, m.Atoms)
	copy(c.Bonds, m.Bonds)
	return c
}

// AtomBonds returns the indices of the bonds that touch atom idx, in bond order.
func (m *Molecule) AtomBonds(idx int) []int {
	var ret []int
	for i, b := range m.Bonds {
		if b.Has(idx) {
			ret = append(ret, i)
		}
	}
	return ret
}

// Neighbors returns the atoms bonded to idx.
func (m *Molecule) Neighbors(idx int) []int {
	var ret []int
	for _, b := range m.Bonds {
		if b.Has(idx) {
			ret = append(ret, b.Other(idx))
		}
	}
	return ret
}

// Degree is the number of explicit bonds on an atom.
func (m *Molecule) Degree(idx int) int {
	n := 0
	for _, b := range m.Bonds {
		if b.Has(idx) {
			n++
		}
	}
	return n
}

// BondBetween returns the index of the bond joining a and b.
func (m *Molecule) BondBetween(a, b int) (int, bool) {
	for i, bd := range m.Bonds {
		if (bd.From == a && bd.To == b) || (bd.From == b && bd.To == a) {
			return i, true
		}
	}
	return -1, false
}

// adjacency lists bond indices per atom.
func (m *Molecule) adjacency() [][]int {
	adj := make([][]int, len(m.Atoms))
	for i, b := range m.Bonds {
		adj[b.From] = append(adj[b.From], i)
		adj[b.To] = append(adj[b.To], i)
	}
	return adj
}

// ExplicitValence sums bond orders and explicit hydrogens.
func (m *Molecule) ExplicitValence(idx int) int {
	v := m.Atoms[idx].HCount
	for _, b := range m.Bonds {
		if b.Has(idx) {
			v += b.Order
		}
	}
	return v
}

// ImplicitHCount fills an organic-subset atom up to its smallest default
// valence that is not below the explicit valence.
func (m *Molecule) ImplicitHCount(idx int) int {
	a := m.Atoms[idx]
	if a.NoImplicit || a.Charge != 0 {
		return 0
	}
	vals, ok := defaultValences[a.Num]
	if !ok {
		return 0
	}
	v := m.ExplicitValence(idx)
	for _, allowed := range vals {
		if allowed >= v {
			return allowed - v
		}
	}
	return 0
}

// TotalHCount counts explicit plus implicit hydrogens (not hydrogen atoms).
func (m *Molecule) TotalHCount(idx int) int {
	return m.Atoms[idx].HCount + m.ImplicitHCount(idx)
}

// checkValence rejects atoms whose bonds exceed what the element allows.
func (m *Molecule) checkValence(idx int) error {
	a := m.Atoms[idx]
	v := m.ExplicitValence(idx)
	var limit int
	if vals, ok := defaultValences[a.Num]; ok && a.Charge == 0 {
		limit = vals[len(vals)-1]
	} else if max, ok := bracketValence[a.Num]; ok {
		limit = max + abs(a.Charge)
	} else {
		return nil
	}
	if v > limit {
		return fmt.Errorf("explicit valence %d for atom #%d %s is greater than permitted", v, idx, a.Symbol())
	}
	return nil
}

// ReplaceAtom swaps the atom at idx for a, keeping its coordinates and bonds.
func (m *Molecule) ReplaceAtom(idx int, a Atom) {
	a.X, a.Y = m.Atoms[idx].X, m.Atoms[idx].Y
	m.Atoms[idx] = a
}

// Fragments groups atom indices by connected component, each sorted ascending.
func (m *Molecule) Fragments() [][]int {
	adj := m.adjacency()
	seen := make([]bool, len(m.Atoms))
	var frags [][]int
	for start := range m.Atoms {
		if seen[start] {
			continue
		}
		var frag []int
		stack := []int{start}
		seen[start] = true
		for len(stack) > 0 {
			cur := stack[len(stack)-1]
			stack = stack[:len(stack)-1]
			frag = append(frag, cur)
			for _, bi := range adj[cur] {
				nb := m.Bonds[bi].Other(cur)
				if !seen[nb] {
					seen[nb] = true
					stack = append(stack, nb)
				}
			}
		}
		sort.Ints(frag)
		frags = append(frags, frag)
	}
	return frags
}

func (m *Molecule) MinX() float64 {
	min := math.MaxFloat64
	for _, a := range m.Atoms {
		if a.X < min {
			min = a.X
		}
	}
	return min
}

func (m *Molecule) MinY() float64 {
	min := math.MaxFloat64
	for _, a := range m.Atoms {
		if a.Y < min {
			min = a.Y
		}
	}
	return min
}

func (m *Molecule) MaxX() float64 {
	max := -math.MaxFloat64
	for _, a := range m.Atoms {
		if a.X > max {
			max = a.X
		}
	}
	return max
}

func (m *Molecule) MaxY() float64 {
	max := -math.MaxFloat64
	for _, a := range m.Atoms {
		if a.Y > max {
			max = a.Y
		}
	}
	return max
}

func (m *Molecule) RangeX() float64 { return m.MaxX() - m.MinX() }
func (m *Molecule) RangeY() float64 { return m.MaxY() - m.MinY() }

// AverageBondLength in coordinate units, 0 for a molecule without bonds.
func (m *Molecule) AverageBondLength() float64 {
	if len(m.Bonds) == 0 {
		return 0
	}
	total := 0.0
	for _, b := range m.Bonds {
		a1 := m.Atoms[b.From]
		a2 := m.Atoms[b.To]
		total += math.Hypot(a1.X-a2.X, a1.Y-a2.Y)
	}
	return total / float64(len(m.Bonds))
}
