package chem

// AddHs returns a copy with every implicit and explicit hydrogen turned into
// an H atom. The new atoms follow the existing ones, grouped by parent, so
// heavy-atom indices are unchanged.
func AddHs(m *Molecule) *Molecule {
	out := m.Clone()
	n := len(out.Atoms)
	for i := 0; i < n; i++ {
		hs := out.TotalHCount(i)
		out.Atoms[i].HCount = 0
		out.Atoms[i].NoImplicit = true
		a := out.Atoms[i]
		for k := 0; k < hs; k++ {
			h := out.AddAtom(Atom{Num: Hydrogen, NoImplicit: true, X: a.X, Y: a.Y})
			out.AddBond(i, h, 1, false)
		}
	}
	return out
}

// removeHs folds plain hydrogen atoms back into their neighbour's H count.
// It also returns the old-to-new atom index map; removed atoms map to -1.
func removeHs(m *Molecule) (*Molecule, []int) {
	drop := make([]bool, len(m.Atoms))
	adj := m.adjacency()
	for i, a := range m.Atoms {
		if a.Num != Hydrogen || a.Isotope != 0 || a.Charge != 0 || a.MapNum != 0 || a.HCount != 0 {
			continue
		}
		if len(adj[i]) != 1 {
			continue
		}
		b := m.Bonds[adj[i][0]]
		nb := b.Other(i)
		if b.Order != 1 || m.Atoms[nb].Num == Hydrogen {
			continue
		}
		drop[i] = true
	}

	out := &Molecule{}
	remap := make([]int, len(m.Atoms))
	for i, a := range m.Atoms {
		if drop[i] {
			remap[i] = -1
			continue
		}
		remap[i] = out.AddAtom(a)
	}
	for _, b := range m.Bonds {
		switch {
		case drop[b.From]:
			out.Atoms[remap[b.To]].HCount++
		case drop[b.To]:
			out.Atoms[remap[b.From]].HCount++
		default:
			out.AddBond(remap[b.From], remap[b.To], b.Order, b.Aromatic)
		}
	}
	return out, remap
}
