package chem

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// SMILES writes the canonical SMILES of the molecule.
func (m *Molecule) SMILES() string {
	s, _ := m.canonicalSMILES()
	return s
}

// Canonicalize reads a SMILES string and writes it back in canonical form.
func Canonicalize(smiles string) (string, error) {
	m, err := ParseSMILES(smiles)
	if err != nil {
		return "", err
	}
	return m.SMILES(), nil
}

// RoundTrip rebuilds the molecule from its canonical SMILES, which renumbers
// atoms and folds hydrogen atoms back into H counts. The returned slice maps
// each old atom index to its new index, or -1 when the atom was folded away.
func RoundTrip(m *Molecule) (*Molecule, []int, error) {
	s, order := m.canonicalSMILES()
	out, parsed, err := parseSMILES(s)
	if err != nil {
		return nil, nil, fmt.Errorf("re-reading %q: %w", s, err)
	}
	remap := make([]int, len(m.Atoms))
	for i := range remap {
		remap[i] = -1
	}
	for k, old := range order {
		remap[old] = parsed[k]
	}
	return out, remap, nil
}

// canonicalSMILES returns the string and the atom indices in the order written.
func (m *Molecule) canonicalSMILES() (string, []int) {
	if len(m.Atoms) == 0 {
		return "", nil
	}
	ranks := m.canonicalRanks()
	adj := m.adjacency()

	// each fragment is written on its own, then fragments are ordered by text
	frags := m.Fragments()
	pieces := make([]fragmentSMILES, 0, len(frags))
	for _, frag := range frags {
		start := frag[0]
		for _, a := range frag {
			if ranks[a] < ranks[start] {
				start = a
			}
		}
		w := &smilesWriter{
			mol:      m,
			ranks:    ranks,
			adj:      adj,
			visited:  make([]bool, len(m.Atoms)),
			closure:  make([]bool, len(m.Bonds)),
			children: make([][]int, len(m.Atoms)),
			digits:   make(map[int]int),
		}
		w.plan(start, -1)
		w.emit(start)
		pieces = append(pieces, fragmentSMILES{text: w.sb.String(), order: w.order})
	}
	sort.SliceStable(pieces, func(i, j int) bool { return pieces[i].text < pieces[j].text })

	var sb strings.Builder
	order := make([]int, 0, len(m.Atoms))
	for k, p := range pieces {
		if k > 0 {
			sb.WriteByte('.')
		}
		sb.WriteString(p.text)
		order = append(order, p.order...)
	}
	return sb.String(), order
}

type fragmentSMILES struct {
	text  string
	order []int
}

type smilesWriter struct {
	mol      *Molecule
	ranks    []int
	adj      [][]int
	visited  []bool
	closure  []bool  // bond written as a ring closure
	children [][]int // tree bonds leaving each atom, in write order
	digits   map[int]int
	used     [100]bool
	sb       strings.Builder
	order    []int
}

// sortedBonds lists an atom's bonds by the rank of the far atom.
func (w *smilesWriter) sortedBonds(a int) []int {
	bonds := append([]int(nil), w.adj[a]...)
	sort.Slice(bonds, func(i, j int) bool {
		return w.ranks[w.mol.Bonds[bonds[i]].Other(a)] < w.ranks[w.mol.Bonds[bonds[j]].Other(a)]
	})
	return bonds
}

// plan walks the fragment depth first and marks back edges as ring closures.
func (w *smilesWriter) plan(a, from int) {
	w.visited[a] = true
	for _, bi := range w.sortedBonds(a) {
		if bi == from || w.closure[bi] {
			continue
		}
		nb := w.mol.Bonds[bi].Other(a)
		if w.visited[nb] {
			w.closure[bi] = true
			continue
		}
		w.children[a] = append(w.children[a], bi)
		w.plan(nb, bi)
	}
}

func (w *smilesWriter) emit(a int) {
	w.order = append(w.order, a)
	w.sb.WriteString(w.mol.atomSMILES(a))

	for _, bi := range w.sortedBonds(a) {
		if !w.closure[bi] {
			continue
		}
		if d, open := w.digits[bi]; open {
			w.sb.WriteString(ringLabel(d))
			w.used[d] = false
			delete(w.digits, bi)
			continue
		}
		d := 1
		for w.used[d] {
			d++
		}
		w.used[d] = true
		w.digits[bi] = d
		w.sb.WriteString(w.mol.bondSMILES(bi))
		w.sb.WriteString(ringLabel(d))
	}

	kids := w.children[a]
	for k, bi := range kids {
		nb := w.mol.Bonds[bi].Other(a)
		if k < len(kids)-1 {
			w.sb.WriteByte('(')
			w.sb.WriteString(w.mol.bondSMILES(bi))
			w.emit(nb)
			w.sb.WriteByte(')')
			continue
		}
		w.sb.WriteString(w.mol.bondSMILES(bi))
		w.emit(nb)
	}
}

func ringLabel(d int) string {
	if d < 10 {
		return strconv.Itoa(d)
	}
	return "%" + strconv.Itoa(d)
}

func (m *Molecule) bondSMILES(bi int) string {
	b := m.Bonds[bi]
	bothAromatic := m.Atoms[b.From].Aromatic && m.Atoms[b.To].Aromatic
	switch {
	case b.Aromatic && bothAromatic:
		return ""
	case b.Order == 2:
		return "="
	case b.Order == 3:
		return "#"
	case bothAromatic:
		return "-"
	}
	return ""
}

// bareHCount is what a reader would assign to the atom written without brackets.
func (m *Molecule) bareHCount(idx int) int {
	vals, ok := defaultValences[m.Atoms[idx].Num]
	if !ok {
		return 0
	}
	v := 0
	for _, b := range m.Bonds {
		if b.Has(idx) {
			v += b.Order
		}
	}
	for _, allowed := range vals {
		if allowed >= v {
			return allowed - v
		}
	}
	return 0
}

func (m *Molecule) atomSMILES(idx int) string {
	a := m.Atoms[idx]
	sym := a.Symbol()
	if a.Aromatic {
		sym = strings.ToLower(sym)
	}
	hs := m.TotalHCount(idx)

	bare := a.Isotope == 0 && a.Charge == 0 && a.MapNum == 0 && isOrganic(a.Num) && hs == m.bareHCount(idx)
	if a.Aromatic {
		_, ok := aromaticBare[sym]
		bare = bare && ok && (a.Num == Carbon || hs == 0)
	}
	if bare {
		return sym
	}

	var sb strings.Builder
	sb.WriteByte('[')
	if a.Isotope > 0 {
		sb.WriteString(strconv.Itoa(a.Isotope))
	}
	sb.WriteString(sym)
	if hs > 0 {
		sb.WriteByte('H')
		if hs > 1 {
			sb.WriteString(strconv.Itoa(hs))
		}
	}
	switch {
	case a.Charge == 1:
		sb.WriteByte('+')
	case a.Charge == -1:
		sb.WriteByte('-')
	case a.Charge > 1:
		sb.WriteString("+" + strconv.Itoa(a.Charge))
	case a.Charge < -1:
		sb.WriteString("-" + strconv.Itoa(-a.Charge))
	}
	if a.MapNum > 0 {
		sb.WriteString(":" + strconv.Itoa(a.MapNum))
	}
	sb.WriteByte(']')
	return sb.String()
}
