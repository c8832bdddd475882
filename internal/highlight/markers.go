package highlight

import (
	"fmt"

	"github.com/H1W0XXX/molview/internal/chem"
	"github.com/H1W0XXX/molview/internal/depict"
)

// ParseMarkers highlights the bond of every marker atom and turns the
// markers into wildcards. Atom and bond ids are unchanged. With more than one
// marker each bond takes the color of its marker's isotope; a lone marker
// always gets the SingleMarkerIsotope color. mol is not modified.
func ParseMarkers(mol *chem.Molecule) (*Highlight, error) {
	if mol == nil {
		return nil, ErrNoMolecule
	}
	out := mol.Clone()
	var markers []int
	for i, a := range out.Atoms {
		if a.Num == MarkerAtomicNum {
			markers = append(markers, i)
		}
	}

	h := &Highlight{Colors: make(map[int]depict.Color, len(markers)), Mol: out}
	for _, idx := range markers {
		bonds := out.AtomBonds(idx)
		if len(bonds) == 0 {
			return nil, fmt.Errorf("%w: marker atom %d is not bonded", ErrNoBond, idx)
		}
		iso := SingleMarkerIsotope
		if len(markers) > 1 {
			iso = out.Atoms[idx].Isotope
		}
		c, err := ColorFor(iso)
		if err != nil {
			return nil, fmt.Errorf("marker atom %d: %w", idx, err)
		}
		h.BondIDs = append(h.BondIDs, bonds[0])
		h.Colors[bonds[0]] = c
	}
	for _, idx := range markers {
		out.ReplaceAtom(idx, wildcard())
	}
	return h, nil
}
