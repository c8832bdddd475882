package chem

import (
	"errors"
	"fmt"
)

// ErrKekulize is returned when aromatic atoms cannot be given alternating bonds.
var ErrKekulize = errors.New("can't kekulize mol")

// kekulizeBudget caps the matching search on pathological inputs.
const kekulizeBudget = 200000

// Kekulize drops the aromatic flags so that every bond is drawn with its
// Kekulé order. Orders are assigned when the molecule is read, so this never fails.
func (m *Molecule) Kekulize() {
	for i := range m.Atoms {
		m.Atoms[i].Aromatic = false
	}
	for i := range m.Bonds {
		m.Bonds[i].Aromatic = false
	}
}

// assignKekule gives aromatic bonds read from SMILES single/double orders
// through a perfect matching over the atoms that still need a double bond.
func (m *Molecule) assignKekule() error {
	adj := m.adjacency()
	needs := make([]bool, len(m.Atoms))
	var cands []int
	for i, a := range m.Atoms {
		if !a.Aromatic {
			continue
		}
		v := a.HCount
		hasDouble := false
		for _, bi := range adj[i] {
			b := m.Bonds[bi]
			if b.Aromatic {
				v++
				continue
			}
			v += b.Order
			if b.Order >= 2 {
				hasDouble = true
			}
		}
		if hasDouble {
			continue
		}
		if v+1 <= lowValence(a.Num, a.Charge) {
			needs[i] = true
			cands = append(cands, i)
		}
	}
	for i := range m.Bonds {
		if m.Bonds[i].Aromatic {
			m.Bonds[i].Order = 1
		}
	}
	if len(cands) == 0 {
		return nil
	}

	mate := make(map[int]int, len(cands))
	budget := kekulizeBudget
	var solve func() bool
	solve = func() bool {
		budget--
		if budget < 0 {
			return false
		}
		// pick the unmatched atom with the fewest free partners
		best, bestOpts := -1, []int(nil)
		for _, c := range cands {
			if _, done := mate[c]; done {
				continue
			}
			var opts []int
			for _, bi := range adj[c] {
				b := m.Bonds[bi]
				if !b.Aromatic {
					continue
				}
				nb := b.Other(c)
				if !needs[nb] {
					continue
				}
				if _, done := mate[nb]; done {
					continue
				}
				opts = append(opts, bi)
			}
			if best < 0 || len(opts) < len(bestOpts) {
				best, bestOpts = c, opts
			}
			if len(opts) == 0 {
				return false
			}
		}
		if best < 0 {
			return true
		}
		for _, bi := range bestOpts {
			nb := m.Bonds[bi].Other(best)
			mate[best], mate[nb] = bi, bi
			if solve() {
				return true
			}
			delete(mate, best)
			delete(mate, nb)
		}
		return false
	}
	if !solve() {
		return ErrKekulize
	}
	for _, bi := range mate {
		m.Bonds[bi].Order = 2
	}
	return nil
}

// perceiveAromaticity flags rings whose pi electron count satisfies 4n+2.
// Rings fused to other rings count a double bond to any ring neighbour.
func (m *Molecule) perceiveAromaticity(info *RingInfo) {
	adj := m.adjacency()
	for k, ring := range info.Rings {
		if len(ring) > 24 {
			continue
		}
		all := true
		for _, bi := range info.RingBonds[k] {
			if !m.Bonds[bi].Aromatic {
				all = false
				break
			}
		}
		if all {
			continue
		}
		total := 0
		ok := true
		for _, ai := range ring {
			e := m.piElectrons(adj, info, ai)
			if e < 0 {
				ok = false
				break
			}
			total += e
		}
		if !ok || total < 2 || (total-2)%4 != 0 {
			continue
		}
		for _, ai := range ring {
			m.Atoms[ai].Aromatic = true
		}
		for _, bi := range info.RingBonds[k] {
			m.Bonds[bi].Aromatic = true
		}
	}
}

// piElectrons returns the electrons an atom donates to a ring, -1 when the
// atom cannot be part of an aromatic ring.
func (m *Molecule) piElectrons(adj [][]int, info *RingInfo, idx int) int {
	a := m.Atoms[idx]
	conn := m.TotalHCount(idx)
	double := -1
	for _, bi := range adj[idx] {
		b := m.Bonds[bi]
		conn++
		switch {
		case b.Order == 3:
			return -1
		case b.Order == 2:
			if double >= 0 {
				return -1
			}
			double = bi
		}
	}
	if conn > 3 {
		return -1
	}
	if double >= 0 {
		if info.BondInRing(double) {
			return 1
		}
		switch m.Atoms[m.Bonds[double].Other(idx)].Num {
		case Oxygen, Nitrogen, 16:
			return 0
		}
		return -1
	}
	switch a.Num {
	case Nitrogen, 15:
		if a.Charge == 0 {
			return 2
		}
	case Oxygen, 16, 34, 52:
		if a.Charge == 0 {
			return 2
		}
	case Carbon:
		switch a.Charge {
		case -1:
			return 2
		case 1:
			return 0
		}
	case 5:
		if a.Charge == 0 {
			return 0
		}
	}
	return -1
}

// sanitize mirrors what a toolkit does after reading: demote acyclic aromatic
// bonds, assign Kekulé orders, check valences and perceive aromaticity.
func (m *Molecule) sanitize() error {
	info := m.Rings()
	for i, b := range m.Bonds {
		if b.Aromatic && !info.BondInRing(i) {
			m.Bonds[i].Aromatic = false
			m.Bonds[i].Order = 1
		}
	}
	for i, a := range m.Atoms {
		if a.Aromatic && !info.AtomInRing(i) {
			return fmt.Errorf("non-ring atom %d marked aromatic", i)
		}
	}
	if err := m.assignKekule(); err != nil {
		return err
	}
	for i := range m.Atoms {
		if err := m.checkValence(i); err != nil {
			return err
		}
	}
	m.perceiveAromaticity(info)
	return nil
}
