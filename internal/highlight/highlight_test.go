package highlight

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H1W0XXX/molview/internal/chem"
	"github.com/H1W0XXX/molview/internal/depict"
)

func mustParse(t *testing.T, s string) *chem.Molecule {
	t.Helper()
	m, err := chem.ParseSMILES(s)
	require.NoError(t, err, s)
	return m
}

// bondElements returns the atomic numbers at both ends of a bond, smaller first.
func bondElements(m *chem.Molecule, bi int) [2]int {
	b := m.Bonds[bi]
	x, y := m.Atoms[b.From].Num, m.Atoms[b.To].Num
	return [2]int{min(x, y), max(x, y)}
}

func TestParseBool(t *testing.T) {
	for _, s := range []string{"yes", "TRUE", "t", "Y", "1", "True"} {
		v, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.True(t, v, s)
	}
	for _, s := range []string{"no", "False", "F", "n", "0"} {
		v, err := ParseBool(s)
		require.NoError(t, err, s)
		assert.False(t, v, s)
	}
	for _, s := range []string{"", "maybe", "2", "ok"} {
		_, err := ParseBool(s)
		assert.ErrorIs(t, err, ErrInvalidBool, s)
	}
}

func TestColorTable(t *testing.T) {
	assert.Equal(t, 54, MarkerAtomicNum)
	assert.Len(t, ColorTable, 8)
	assert.Equal(t, depict.Color{R: 1, G: 1, B: 0}, ColorTable[104])
	assert.Equal(t, depict.Color{R: 0, G: 1, B: 0}, ColorTable[SingleMarkerIsotope])

	_, err := ColorFor(108)
	assert.ErrorIs(t, err, ErrUnknownIsotope)
}

func TestParseAtomIDs_Plain(t *testing.T) {
	mol := mustParse(t, "CCO")
	h, err := ParseAtomIDs("1,2,104,False", mol)
	require.NoError(t, err)
	assert.Equal(t, []int{1}, h.BondIDs)
	assert.Equal(t, map[int]depict.Color{1: {R: 1, G: 1, B: 0}}, h.Colors)
	assert.Len(t, h.Mol.Atoms, 3)
}

func TestParseAtomIDs_AddHydrogens(t *testing.T) {
	mol := mustParse(t, "CCO")
	// with explicit hydrogens atoms 6 and 7 sit on carbon 1
	for _, in := range []string{"1,6,101,true", "6,1,101,yes"} {
		h, err := ParseAtomIDs(in, mol)
		require.NoError(t, err, in)
		require.Len(t, h.BondIDs, 1)
		assert.Len(t, h.Mol.Atoms, 4)
		assert.Equal(t, [2]int{chem.Wildcard, chem.Carbon}, bondElements(h.Mol, h.BondIDs[0]))
		assert.Equal(t, depict.Color{R: 0, G: 1, B: 0}, h.Colors[h.BondIDs[0]])

		b := h.Mol.Bonds[h.BondIDs[0]]
		c := b.From
		if h.Mol.Atoms[c].Num != chem.Carbon {
			c = b.To
		}
		var nbs []int
		for _, nb := range h.Mol.Neighbors(c) {
			nbs = append(nbs, h.Mol.Atoms[nb].Num)
		}
		assert.ElementsMatch(t, []int{chem.Wildcard, chem.Carbon, chem.Oxygen}, nbs)
	}
	assert.Len(t, mol.Atoms, 3, "input molecule must not change")
}

func TestParseAtomIDs_CarriesEarlierPairs(t *testing.T) {
	mol := mustParse(t, "CCO")
	h, err := ParseAtomIDs("1,2,104,no,0,3,100,yes", mol)
	require.NoError(t, err)
	require.Len(t, h.BondIDs, 2)
	assert.Len(t, h.Colors, 2)

	assert.Equal(t, [2]int{chem.Carbon, chem.Oxygen}, bondElements(h.Mol, h.BondIDs[0]))
	assert.Equal(t, depict.Color{R: 1, G: 1, B: 0}, h.Colors[h.BondIDs[0]])

	assert.Equal(t, [2]int{chem.Wildcard, chem.Carbon}, bondElements(h.Mol, h.BondIDs[1]))
	assert.Equal(t, depict.Color{R: 1, G: 0, B: 0}, h.Colors[h.BondIDs[1]])
}

func TestParseAtomIDs_Errors(t *testing.T) {
	mol := mustParse(t, "CCO")
	tests := []struct {
		input string
		want  error
	}{
		{"1,2,104", ErrTupleLength},
		{"", ErrTupleLength},
		{"1,2,104,maybe", ErrInvalidBool},
		{"1,2,99,no", ErrUnknownIsotope},
		{"x,2,104,no", ErrInvalidToken},
		{"1,9,104,no", ErrAtomOutOfRange},
		{"1,20,104,yes", ErrAtomOutOfRange},
		{"0,2,104,no", ErrNoBond},
		{"0,1,104,yes", ErrNoHydrogen},
		{"1,2,104,no,0,2,104,no", ErrNoBond},
	}
	for _, tt := range tests {
		_, err := ParseAtomIDs(tt.input, mol)
		assert.ErrorIs(t, err, tt.want, tt.input)
	}

	_, err := ParseAtomIDs("1,2,104,no", nil)
	assert.ErrorIs(t, err, ErrNoMolecule)
}

func TestParseMarkers_Single(t *testing.T) {
	mol := mustParse(t, "[100Xe]CCO")
	h, err := ParseMarkers(mol)
	require.NoError(t, err)
	assert.Equal(t, []int{0}, h.BondIDs)
	assert.Equal(t, ColorTable[SingleMarkerIsotope], h.Colors[0])
	assert.Equal(t, chem.Wildcard, h.Mol.Atoms[0].Num)
	assert.Zero(t, h.Mol.Atoms[0].Charge)
	assert.Len(t, h.Mol.Atoms, 4)

	assert.Equal(t, MarkerAtomicNum, mol.Atoms[0].Num, "input molecule must not change")
}

func TestParseMarkers_Two(t *testing.T) {
	h, err := ParseMarkers(mustParse(t, "[100Xe]CC[102Xe]"))
	require.NoError(t, err)
	assert.Equal(t, []int{0, 2}, h.BondIDs)
	assert.Equal(t, depict.Color{R: 1, G: 0, B: 0}, h.Colors[0])
	assert.Equal(t, depict.Color{R: 0, G: 0, B: 1}, h.Colors[2])
	assert.NotEqual(t, h.Colors[0], h.Colors[2])
	for _, a := range h.Mol.Atoms {
		assert.NotEqual(t, MarkerAtomicNum, a.Num)
	}
}

func TestParseMarkers_Errors(t *testing.T) {
	_, err := ParseMarkers(mustParse(t, "[Xe]CC[Xe]"))
	assert.ErrorIs(t, err, ErrUnknownIsotope)

	_, err = ParseMarkers(mustParse(t, "[Xe]"))
	assert.ErrorIs(t, err, ErrNoBond)

	_, err = ParseMarkers(nil)
	assert.ErrorIs(t, err, ErrNoMolecule)
}

func TestParseMarkers_None(t *testing.T) {
	h, err := ParseMarkers(mustParse(t, "CCO"))
	require.NoError(t, err)
	assert.Empty(t, h.BondIDs)
	assert.Empty(t, h.Colors)
}
