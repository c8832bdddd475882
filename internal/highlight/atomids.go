package highlight

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/H1W0XXX/molview/internal/chem"
	"github.com/H1W0XXX/molview/internal/depict"
)

const tupleLen = 4

// pair is two atom ids in the id space of the current molecule.
type pair struct {
	a, b    int
	isotope int
}

// ParseAtomIDs reads "id,id,isotope,addHs" tuples. When addHs is true the
// ids index the molecule with explicit hydrogens; the hydrogen among them
// becomes a wildcard and the molecule is rebuilt from its canonical SMILES,
// which renumbers every atom. Pairs read before a rebuild are carried into
// the new numbering, so the returned bond ids always refer to Highlight.Mol.
// mol is not modified.
func ParseAtomIDs(input string, mol *chem.Molecule) (*Highlight, error) {
	if mol == nil {
		return nil, ErrNoMolecule
	}
	tokens := strings.Split(input, ",")
	if len(tokens)%tupleLen != 0 {
		return nil, fmt.Errorf("%w: got %d values", ErrTupleLength, len(tokens))
	}

	cur := mol.Clone()
	var pairs []pair
	for i := 0; i < len(tokens); i += tupleLen {
		var ids [3]int
		for k := range ids {
			v, err := strconv.Atoi(strings.TrimSpace(tokens[i+k]))
			if err != nil {
				return nil, fmt.Errorf("%w: %q", ErrInvalidToken, tokens[i+k])
			}
			ids[k] = v
		}
		if _, err := ColorFor(ids[2]); err != nil {
			return nil, err
		}
		addHs, err := ParseBool(tokens[i+3])
		if err != nil {
			return nil, err
		}

		p := pair{a: ids[0], b: ids[1], isotope: ids[2]}
		if addHs {
			var next *chem.Molecule
			next, p, pairs, err = rebuildWithWildcard(cur, p, pairs)
			if err != nil {
				return nil, err
			}
			cur = next
		} else if err := checkRange(cur, p.a, p.b); err != nil {
			return nil, err
		}
		if _, ok := cur.BondBetween(p.a, p.b); !ok {
			return nil, fmt.Errorf("%w %d and %d", ErrNoBond, p.a, p.b)
		}
		pairs = append(pairs, p)
	}

	h := &Highlight{Colors: make(map[int]depict.Color, len(pairs)), Mol: cur}
	for _, p := range pairs {
		bi, ok := cur.BondBetween(p.a, p.b)
		if !ok {
			return nil, fmt.Errorf("%w %d and %d", ErrNoBond, p.a, p.b)
		}
		h.BondIDs = append(h.BondIDs, bi)
		h.Colors[bi] = ColorTable[p.isotope]
	}
	return h, nil
}

// rebuildWithWildcard adds explicit hydrogens, turns the hydrogen named by p
// into a wildcard and rebuilds the molecule. It returns the new molecule, the
// wildcard's bond as the new pair, and the earlier pairs renumbered.
func rebuildWithWildcard(cur *chem.Molecule, p pair, earlier []pair) (*chem.Molecule, pair, []pair, error) {
	withHs := chem.AddHs(cur)
	if err := checkRange(withHs, p.a, p.b); err != nil {
		return nil, p, nil, err
	}
	h := -1
	for _, id := range []int{min(p.a, p.b), max(p.a, p.b)} {
		if withHs.Atoms[id].Num == chem.Hydrogen {
			h = id
			break
		}
	}
	if h < 0 {
		return nil, p, nil, fmt.Errorf("%w %d and %d", ErrNoHydrogen, p.a, p.b)
	}
	withHs.ReplaceAtom(h, wildcard())

	next, remap, err := chem.RoundTrip(withHs)
	if err != nil {
		return nil, p, nil, fmt.Errorf("rebuilding molecule: %w", err)
	}

	// heavy atom ids survive AddHs, so earlier pairs map straight through
	moved := make([]pair, len(earlier))
	for k, e := range earlier {
		a, b := remap[e.a], remap[e.b]
		if a < 0 || b < 0 {
			return nil, p, nil, fmt.Errorf("%w %d and %d after rebuild", ErrNoBond, e.a, e.b)
		}
		moved[k] = pair{a: a, b: b, isotope: e.isotope}
	}

	w := remap[h]
	if w < 0 || next.Degree(w) == 0 {
		return nil, p, nil, fmt.Errorf("%w: wildcard at %d has no bond", ErrNoBond, h)
	}
	return next, pair{a: w, b: next.Neighbors(w)[0], isotope: p.isotope}, moved, nil
}

func checkRange(m *chem.Molecule, ids ...int) error {
	for _, id := range ids {
		if id < 0 || id >= len(m.Atoms) {
			return fmt.Errorf("%w: %d of %d", ErrAtomOutOfRange, id, len(m.Atoms))
		}
	}
	return nil
}
