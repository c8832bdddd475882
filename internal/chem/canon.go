package chem

import (
	"sort"
)

// canonicalRanks assigns every atom a distinct rank that depends only on the
// graph, not on input order. Atom invariants are refined by neighbour ranks
// until stable; remaining ties are broken one atom at a time.
func (m *Molecule) canonicalRanks() []int {
	n := len(m.Atoms)
	if n == 0 {
		return nil
	}
	adj := m.adjacency()
	info := m.Rings()

	inv := make([][]int, n)
	for i, a := range m.Atoms {
		ring := 0
		for _, r := range info.AtomRings(i) {
			if size := len(info.Rings[r]); ring == 0 || size < ring {
				ring = size
			}
		}
		arom := 0
		if a.Aromatic {
			arom = 1
		}
		inv[i] = []int{len(adj[i]), a.Num, a.Isotope, a.Charge, m.TotalHCount(i), arom, ring, a.MapNum}
	}
	ranks := denseRanks(inv)
	ranks = m.refineRanks(adj, ranks)

	for {
		classes := countDistinct(ranks)
		if classes == n {
			return ranks
		}
		// smallest tied rank, lowest index atom in it
		counts := make(map[int]int, n)
		for _, r := range ranks {
			counts[r]++
		}
		tied := -1
		for _, r := range ranks {
			if counts[r] > 1 && (tied < 0 || r < tied) {
				tied = r
			}
		}
		chosen := -1
		for i, r := range ranks {
			if r == tied {
				chosen = i
				break
			}
		}
		keys := make([][]int, n)
		for i, r := range ranks {
			k := 2*r + 1
			if i == chosen {
				k = 2 * r
			}
			keys[i] = []int{k}
		}
		ranks = m.refineRanks(adj, denseRanks(keys))
	}
}

// refineRanks repeats neighbourhood refinement until the partition stops splitting.
func (m *Molecule) refineRanks(adj [][]int, ranks []int) []int {
	n := len(ranks)
	classes := countDistinct(ranks)
	for {
		keys := make([][]int, n)
		for i := range ranks {
			nbr := make([]int, 0, len(adj[i]))
			for _, bi := range adj[i] {
				b := m.Bonds[bi]
				code := b.Order
				if b.Aromatic {
					code = 4
				}
				nbr = append(nbr, ranks[b.Other(i)]*8+code)
			}
			sort.Ints(nbr)
			keys[i] = append([]int{ranks[i]}, nbr...)
		}
		next := denseRanks(keys)
		c := countDistinct(next)
		if c == classes {
			return next
		}
		ranks, classes = next, c
	}
}

// denseRanks maps each key to its position among the sorted distinct keys.
func denseRanks(keys [][]int) []int {
	idx := make([]int, len(keys))
	for i := range idx {
		idx[i] = i
	}
	sort.SliceStable(idx, func(a, b int) bool { return lessInts(keys[idx[a]], keys[idx[b]]) })
	ranks := make([]int, len(keys))
	r := 0
	for k, i := range idx {
		if k > 0 && lessInts(keys[idx[k-1]], keys[i]) {
			r++
		}
		ranks[i] = r
	}
	return ranks
}

func lessInts(a, b []int) bool {
	for i := 0; i < len(a) && i < len(b); i++ {
		if a[i] != b[i] {
			return a[i] < b[i]
		}
	}
	return len(a) < len(b)
}

func countDistinct(ranks []int) int {
	seen := make(map[int]struct{}, len(ranks))
	for _, r := range ranks {
		seen[r] = struct{}{}
	}
	return len(seen)
}
