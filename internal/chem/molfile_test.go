package chem

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const ethanolMol = `ethanol
     RDKit          2D

  3  2  0  0  0  0  0  0  0  0999 V2000
    0.0000    0.0000    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    1.2990    0.7500    0.0000 C   0  0  0  0  0  0  0  0  0  0  0  0
    2.5981   -0.0000    0.0000 O   0  0  0  0  0  0  0  0  0  0  0  0
  1  2  1  0
  2  3  1  0
M  END
`

func TestParseMolBlock(t *testing.T) {
	m, err := ParseMolBlock(ethanolMol)
	require.NoError(t, err)
	require.Len(t, m.Atoms, 3)
	require.Len(t, m.Bonds, 2)
	assert.Equal(t, Oxygen, m.Atoms[2].Num)
	assert.InDelta(t, 1.299, m.Atoms[1].X, 1e-9)
	assert.InDelta(t, 0.75, m.Atoms[1].Y, 1e-9)
	assert.Equal(t, 3, m.TotalHCount(0))
}

func TestParseMolBlock_Errors(t *testing.T) {
	_, err := ParseMolBlock("x\n")
	assert.ErrorIs(t, err, ErrInvalidMolBlock)

	_, err = ParseMolBlock("a\nb\nc\nno counts here\n")
	assert.ErrorIs(t, err, ErrInvalidMolBlock)

	truncated := strings.Join(strings.Split(ethanolMol, "\n")[:6], "\n")
	_, err = ParseMolBlock(truncated)
	assert.ErrorIs(t, err, ErrInvalidMolBlock)
}

func TestMolBlockRoundTrip(t *testing.T) {
	src, err := ParseSMILES("c1ccccc1C(=O)[O-].[Na+]")
	require.NoError(t, err)
	src.Atoms[0].Isotope = 13
	for i := range src.Atoms {
		src.Atoms[i].X = float64(i)
		src.Atoms[i].Y = float64(i % 2)
	}

	block := WriteMolBlock(src, "benzoate")
	assert.True(t, strings.HasPrefix(block, "benzoate\n"))
	assert.Contains(t, block, "M  CHG  2")
	assert.Contains(t, block, "M  ISO  1")

	m, err := ParseMolBlock(block)
	require.NoError(t, err)
	require.Len(t, m.Atoms, len(src.Atoms))
	require.Len(t, m.Bonds, len(src.Bonds))
	for i := range src.Atoms {
		assert.Equal(t, src.Atoms[i].Num, m.Atoms[i].Num)
		assert.Equal(t, src.Atoms[i].Charge, m.Atoms[i].Charge)
		assert.Equal(t, src.Atoms[i].Isotope, m.Atoms[i].Isotope)
		assert.InDelta(t, src.Atoms[i].X, m.Atoms[i].X, 1e-4)
	}
	for i := 0; i < 6; i++ {
		assert.True(t, m.Atoms[i].Aromatic, "atom %d", i)
	}
	assert.Equal(t, src.SMILES(), m.SMILES())
}

func TestReadSDF(t *testing.T) {
	sdf := ethanolMol + "$$$$\n" + ethanolMol + "> <NAME>\nethanol\n\n$$$$\n"
	mols, err := ReadSDF(strings.NewReader(sdf))
	require.NoError(t, err)
	require.Len(t, mols, 2)
	assert.Len(t, mols[1].Atoms, 3)
}

func TestIndexSDFAndReadAt(t *testing.T) {
	benzene, err := ParseSMILES("c1ccccc1")
	require.NoError(t, err)
	sdf := ethanolMol + "$$$$\n" + WriteMolBlock(benzene, "benzene") + "$$$$\n"

	offsets, err := IndexSDF(strings.NewReader(sdf))
	require.NoError(t, err)
	require.Len(t, offsets, 2)
	assert.Equal(t, int64(0), offsets[0])
	assert.Equal(t, int64(len(ethanolMol)+len("$$$$\n")), offsets[1])

	m, err := ReadSDFAt(bytes.NewReader([]byte(sdf)), offsets[1])
	require.NoError(t, err)
	assert.Len(t, m.Atoms, 6)
	assert.Equal(t, "c1ccccc1", m.SMILES())
}
