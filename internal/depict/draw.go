package depict

import (
	"errors"
	"fmt"

	"github.com/H1W0XXX/molview/internal/chem"
	"github.com/H1W0XXX/molview/internal/layout"
)

// NoneMol is returned in place of an image when the SMILES cannot be read.
const NoneMol = "None Mol"

// TextContentType is the media type of the NoneMol payload.
const TextContentType = "text/plain; charset=utf-8"

// ErrHighlightOutOfRange means a highlight names an atom or bond the molecule does not have.
var ErrHighlightOutOfRange = errors.New("highlight id out of range")

// Image is an encoded drawing, or the NoneMol text.
type Image struct {
	Data        []byte
	ContentType string
}

// IsNoneMol reports whether the SMILES could not be read.
func (i *Image) IsNoneMol() bool {
	return i.ContentType == TextContentType && string(i.Data) == NoneMol
}

// Draw lays out and renders a molecule. When mol is nil the SMILES is parsed
// instead; a SMILES that does not parse yields the NoneMol text and no error.
// A supplied molecule is copied, never modified.
func Draw(smiles string, mol *chem.Molecule, opts DrawOptions) (*Image, error) {
	opts.normalize()
	if mol == nil {
		m, err := chem.ParseSMILES(smiles)
		if err != nil {
			return &Image{Data: []byte(NoneMol), ContentType: TextContentType}, nil
		}
		mol = m
	} else {
		mol = mol.Clone()
	}
	if err := checkHighlights(mol, opts); err != nil {
		return nil, err
	}

	if !opts.KeepCoords || !hasCoords(mol) {
		layout.Compute2DCoords(mol)
	}
	mol.Kekulize()

	sc, err := buildScene(mol, opts)
	if err != nil {
		return nil, err
	}
	var c canvas
	if opts.Format == FormatPNG {
		c = newPNGCanvas(sc)
	} else {
		c = newSVGCanvas(sc, opts.ClearBackground)
	}
	data, err := sc.render(c)
	if err != nil {
		return nil, fmt.Errorf("encoding %s: %w", opts.Format, err)
	}
	return &Image{Data: data, ContentType: opts.Format.ContentType()}, nil
}

func checkHighlights(m *chem.Molecule, opts DrawOptions) error {
	for _, a := range opts.HighlightAtoms {
		if a < 0 || a >= len(m.Atoms) {
			return fmt.Errorf("%w: atom %d of %d", ErrHighlightOutOfRange, a, len(m.Atoms))
		}
	}
	for _, b := range opts.HighlightBonds {
		if b < 0 || b >= len(m.Bonds) {
			return fmt.Errorf("%w: bond %d of %d", ErrHighlightOutOfRange, b, len(m.Bonds))
		}
	}
	return nil
}

func hasCoords(m *chem.Molecule) bool {
	for _, a := range m.Atoms {
		if a.X != 0 || a.Y != 0 {
			return true
		}
	}
	return false
}

// canvas receives the scene in paint order.
type canvas interface {
	disc(d disc)
	segment(s segment)
	text(l label)
	encode() ([]byte, error)
}

func (s *scene) render(c canvas) ([]byte, error) {
	for _, d := range s.discs {
		c.disc(d)
	}
	for _, h := range s.highlights {
		c.segment(h)
	}
	for _, b := range s.bonds {
		c.segment(b)
	}
	for _, l := range s.labels {
		c.text(l)
	}
	return c.encode()
}
