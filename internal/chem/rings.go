package chem

import (
	"sort"
	"strconv"
	"strings"
)

// RingInfo is a smallest set of smallest rings plus per-atom/per-bond membership.
type RingInfo struct {
	// Rings lists each ring's atoms in walk order.
	Rings [][]int
	// RingBonds lists each ring's bonds, parallel to Rings.
	RingBonds [][]int

	atomRings  [][]int
	bondInRing []bool
}

// AtomInRing reports whether the atom belongs to any ring.
func (r *RingInfo) AtomInRing(idx int) bool { return len(r.atomRings[idx]) > 0 }

// NumAtomRings counts the rings that contain the atom.
func (r *RingInfo) NumAtomRings(idx int) int { return len(r.atomRings[idx]) }

// AtomRings returns the indices (into Rings) of the rings that contain the atom.
func (r *RingInfo) AtomRings(idx int) []int { return r.atomRings[idx] }

// BondInRing reports whether the bond is cyclic.
func (r *RingInfo) BondInRing(idx int) bool { return r.bondInRing[idx] }

type ringCandidate struct {
	atoms []int
	bonds []int
}

// Rings perceives the SSSR. Candidate cycles are the shortest cycle through
// every bond; an independent subset of the smallest ones is kept until the
// cycle rank of the graph is reached.
func (m *Molecule) Rings() *RingInfo {
	info := &RingInfo{
		atomRings:  make([][]int, len(m.Atoms)),
		bondInRing: make([]bool, len(m.Bonds)),
	}
	want := len(m.Bonds) - len(m.Atoms) + len(m.Fragments())
	if want <= 0 {
		return info
	}

	adj := m.adjacency()
	seen := make(map[string]bool)
	var cands []ringCandidate
	for e, b := range m.Bonds {
		atoms, bonds := m.shortestPath(adj, b.From, b.To, e)
		if atoms == nil {
			continue
		}
		bonds = append(bonds, e)
		key := bondSetKey(bonds)
		if seen[key] {
			continue
		}
		seen[key] = true
		cands = append(cands, ringCandidate{atoms: atoms, bonds: bonds})
	}
	sort.SliceStable(cands, func(i, j int) bool { return len(cands[i].atoms) < len(cands[j].atoms) })

	var basis [][]bool
	var pivots []int
	for _, c := range cands {
		v := make([]bool, len(m.Bonds))
		for _, bi := range c.bonds {
			v[bi] = true
		}
		for i, row := range basis {
			if v[pivots[i]] {
				for k := range v {
					v[k] = v[k] != row[k]
				}
			}
		}
		pivot := -1
		for k, set := range v {
			if set {
				pivot = k
				break
			}
		}
		if pivot < 0 {
			continue
		}
		basis = append(basis, v)
		pivots = append(pivots, pivot)

		ringIdx := len(info.Rings)
		info.Rings = append(info.Rings, c.atoms)
		info.RingBonds = append(info.RingBonds, c.bonds)
		for _, a := range c.atoms {
			info.atomRings[a] = append(info.atomRings[a], ringIdx)
		}
		for _, bi := range c.bonds {
			info.bondInRing[bi] = true
		}
		if len(info.Rings) == want {
			break
		}
	}
	return info
}

// shortestPath runs a BFS from src to dst that never crosses bond skip.
// It returns the atom path (src first) and the bonds along it.
func (m *Molecule) shortestPath(adj [][]int, src, dst, skip int) ([]int, []int) {
	prevAtom := make([]int, len(m.Atoms))
	prevBond := make([]int, len(m.Atoms))
	for i := range prevAtom {
		prevAtom[i] = -2
	}
	prevAtom[src] = -1
	queue := []int{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == dst {
			break
		}
		for _, bi := range adj[cur] {
			if bi == skip {
				continue
			}
			nb := m.Bonds[bi].Other(cur)
			if prevAtom[nb] != -2 {
				continue
			}
			prevAtom[nb] = cur
			prevBond[nb] = bi
			queue = append(queue, nb)
		}
	}
	if prevAtom[dst] == -2 {
		return nil, nil
	}
	var atoms, bonds []int
	for cur := dst; cur != src; cur = prevAtom[cur] {
		atoms = append(atoms, cur)
		bonds = append(bonds, prevBond[cur])
	}
	atoms = append(atoms, src)
	for i, j := 0, len(atoms)-1; i < j; i, j = i+1, j-1 {
		atoms[i], atoms[j] = atoms[j], atoms[i]
	}
	for i, j := 0, len(bonds)-1; i < j; i, j = i+1, j-1 {
		bonds[i], bonds[j] = bonds[j], bonds[i]
	}
	return atoms, bonds
}

func bondSetKey(bonds []int) string {
	s := append([]int(nil), bonds...)
	sort.Ints(s)
	parts := make([]string, len(s))
	for i, b := range s {
		parts[i] = strconv.Itoa(b)
	}
	return strings.Join(parts, ",")
}
