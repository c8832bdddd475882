// Package highlight works out which bonds to highlight, and in which color,
// from an atom_indices request parameter or from Xe marker atoms.
package highlight

import (
	"errors"
	"fmt"
	"strings"

	"github.com/H1W0XXX/molview/internal/chem"
	"github.com/H1W0XXX/molview/internal/depict"
)

// MarkerAtomicNum is the element used as an attachment point marker (Xe).
const MarkerAtomicNum = chem.Xenon

// SingleMarkerIsotope picks the color used when a molecule has only one marker.
const SingleMarkerIsotope = 101

// ColorTable maps an isotope label to its highlight color.
var ColorTable = map[int]depict.Color{
	100: {R: 1, G: 0, B: 0},
	101: {R: 0, G: 1, B: 0},
	102: {R: 0, G: 0, B: 1},
	103: {R: 1, G: 0, B: 1},
	104: {R: 1, G: 1, B: 0},
	105: {R: 0, G: 1, B: 1},
	106: {R: 0.5, G: 0.5, B: 0.5},
	107: {R: 1, G: 0.5, B: 1},
}

var (
	ErrInvalidBool    = errors.New("value not parsable")
	ErrTupleLength    = errors.New("atom indices must come in groups of 4")
	ErrInvalidToken   = errors.New("not an integer")
	ErrUnknownIsotope = errors.New("no color for isotope")
	ErrAtomOutOfRange = errors.New("atom id out of range")
	ErrNoHydrogen     = errors.New("no hydrogen among atoms")
	ErrNoBond         = errors.New("no bond between atoms")
	ErrNoMolecule     = errors.New("no molecule")
)

// Highlight is the set of bonds to draw highlighted, in request order, with
// the molecule the bond ids refer to.
type Highlight struct {
	BondIDs []int
	Colors  map[int]depict.Color
	Mol     *chem.Molecule
}

// ParseBool accepts yes/true/t/y/1 and no/false/f/n/0 in any case.
func ParseBool(s string) (bool, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "true", "t", "y", "1":
		return true, nil
	case "no", "false", "f", "n", "0":
		return false, nil
	}
	return false, fmt.Errorf("%w: %q", ErrInvalidBool, s)
}

// ColorFor returns the table color of an isotope label.
func ColorFor(isotope int) (depict.Color, error) {
	c, ok := ColorTable[isotope]
	if !ok {
		return depict.Color{}, fmt.Errorf("%w %d", ErrUnknownIsotope, isotope)
	}
	return c, nil
}

func wildcard() chem.Atom {
	return chem.Atom{Num: chem.Wildcard, NoImplicit: true}
}
