package chem

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCanonicalize_Simple(t *testing.T) {
	s, err := Canonicalize("OCC")
	require.NoError(t, err)
	assert.Equal(t, "CCO", s)

	s, err = Canonicalize("C1=CC=CC=C1")
	require.NoError(t, err)
	assert.Equal(t, "c1ccccc1", s)
}

func TestCanonicalize_OrderIndependent(t *testing.T) {
	groups := [][]string{
		{"CCO", "OCC", "C(O)C"},
		{"OC(=O)c1ccccc1", "c1ccc(cc1)C(O)=O", "O=C(O)C1=CC=CC=C1"},
		{"CC(C)N", "NC(C)C", "C(N)(C)C"},
		{"c1ccncc1", "n1ccccc1", "C1=CN=CC=C1"},
		{"CC.O", "O.CC"},
		{"C[100Xe]", "[100Xe]C"},
		{"C1CCCCC1.C1CC1.C1CC1", "C1CC1.C1CCCCC1.C1CC1", "C1CC1.C1CC1.C1CCCCC1"},
		{"C1CCC1.C1CC1", "C1CC1.C1CCC1"},
		{"C1CCCCC1.C1CCC1", "C1CCC1.C1CCCCC1"},
		{"[NH4+].[Cl-]", "[Cl-].[NH4+]"},
		{"c1ccccc1.C1CCCCC1.O", "O.C1CCCCC1.c1ccccc1"},
	}
	for _, g := range groups {
		want, err := Canonicalize(g[0])
		require.NoError(t, err, g[0])
		for _, s := range g[1:] {
			got, err := Canonicalize(s)
			require.NoError(t, err, s)
			assert.Equal(t, want, got, "%s vs %s", g[0], s)
		}
	}
}

func TestCanonicalize_FragmentsSortedByText(t *testing.T) {
	s, err := Canonicalize("C1CCCCC1.C1CC1.C1CCC1")
	require.NoError(t, err)
	assert.Equal(t, "C1CC1.C1CCC1.C1CCCCC1", s)
}

func TestRoundTrip_FragmentOrderIndependent(t *testing.T) {
	// atom ids of the rebuilt molecule follow the canonical text, so both
	// spellings must give the same ring size at every id
	sizes := func(s string) []int {
		m, err := ParseSMILES(s)
		require.NoError(t, err, s)
		out, _, err := RoundTrip(m)
		require.NoError(t, err, s)
		info := out.Rings()
		got := make([]int, len(out.Atoms))
		for i := range out.Atoms {
			got[i] = len(info.Rings[info.AtomRings(i)[0]])
		}
		return got
	}
	assert.Equal(t, sizes("C1CCCCC1.C1CC1"), sizes("C1CC1.C1CCCCC1"))
	assert.Equal(t, []int{3, 3, 3, 6, 6, 6, 6, 6, 6}, sizes("C1CCCCC1.C1CC1"))
}

func TestCanonicalize_Idempotent(t *testing.T) {
	for _, s := range []string{
		"CC(=O)Oc1ccccc1C(=O)O",
		"c1ccc2ccccc2c1",
		"[nH]1cccc1",
		"C[N+](C)(C)C",
		"[NH4+].[Cl-]",
		"C1CC2CCC1C2",
		"*C(=O)O",
		"CC#N",
		"O=S(=O)(O)O",
		"[13CH3]O",
		"C[100Xe].C[101Xe]",
	} {
		first, err := Canonicalize(s)
		require.NoError(t, err, s)
		second, err := Canonicalize(first)
		require.NoError(t, err, first)
		assert.Equal(t, first, second, s)
	}
}

func TestCanonicalize_BracketsWhereNeeded(t *testing.T) {
	s, err := Canonicalize("[nH]1cccc1")
	require.NoError(t, err)
	assert.Contains(t, s, "[nH]")

	s, err = Canonicalize("[NH4+]")
	require.NoError(t, err)
	assert.Equal(t, "[NH4+]", s)

	s, err = Canonicalize("C[100Xe]")
	require.NoError(t, err)
	assert.Contains(t, s, "Xe")
}

func TestCanonicalize_Invalid(t *testing.T) {
	_, err := Canonicalize("not a smiles")
	assert.ErrorIs(t, err, ErrInvalidSMILES)
}

func TestRoundTrip_MapsHeavyAtoms(t *testing.T) {
	m, err := ParseSMILES("OCC")
	require.NoError(t, err)
	withH := AddHs(m)
	require.Len(t, withH.Atoms, 9)

	out, remap, err := RoundTrip(withH)
	require.NoError(t, err)
	require.Len(t, out.Atoms, 3)
	require.Len(t, remap, 9)
	for old := 0; old < 3; old++ {
		require.GreaterOrEqual(t, remap[old], 0)
		assert.Equal(t, withH.Atoms[old].Num, out.Atoms[remap[old]].Num)
	}
	for old := 3; old < 9; old++ {
		assert.Equal(t, -1, remap[old])
	}
}

func TestRoundTrip_KeepsWildcardAndBond(t *testing.T) {
	m, err := ParseSMILES("CO")
	require.NoError(t, err)
	withH := AddHs(m)
	// last hydrogen belongs to the oxygen
	h := len(withH.Atoms) - 1
	require.Equal(t, Hydrogen, withH.Atoms[h].Num)
	withH.ReplaceAtom(h, Atom{Num: Wildcard})

	out, remap, err := RoundTrip(withH)
	require.NoError(t, err)
	require.Len(t, out.Atoms, 3)
	w := remap[h]
	require.GreaterOrEqual(t, w, 0)
	assert.Equal(t, Wildcard, out.Atoms[w].Num)
	_, ok := out.BondBetween(w, remap[1])
	assert.True(t, ok)
}
