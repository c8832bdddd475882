package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/H1W0XXX/molview/internal/chem"
	"github.com/H1W0XXX/molview/internal/layout"
)

func run(t *testing.T, stdin string, args ...string) (string, error) {
	t.Helper()
	t.Setenv("MOLVIEW_LOG_LEVEL", "error")
	cmd := NewRootCommand()
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetIn(strings.NewReader(stdin))
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func writeSDF(t *testing.T, smiles ...string) string {
	t.Helper()
	var sb strings.Builder
	for _, s := range smiles {
		m, err := chem.ParseSMILES(s)
		require.NoError(t, err, s)
		layout.Compute2DCoords(m)
		sb.WriteString(chem.WriteMolBlock(m, s))
		sb.WriteString("$$$$\n")
	}
	path := filepath.Join(t.TempDir(), "mols.sdf")
	require.NoError(t, os.WriteFile(path, []byte(sb.String()), 0o600))
	return path
}

func TestCanon(t *testing.T) {
	out, err := run(t, "", "canon", "OCC", "C1=CC=CC=C1")
	require.NoError(t, err)
	assert.Equal(t, "CCO\nc1ccccc1\n", out)

	_, err = run(t, "", "canon", "C1CC")
	assert.ErrorIs(t, err, chem.ErrInvalidSMILES)

	_, err = run(t, "", "canon")
	assert.Error(t, err)
}

func TestCanon_Molblock(t *testing.T) {
	out, err := run(t, "", "canon", "--molblock", "OCC")
	require.NoError(t, err)
	assert.Contains(t, out, "V2000")

	mols, err := chem.ReadSDF(strings.NewReader(out))
	require.NoError(t, err)
	require.Len(t, mols, 1)
	assert.Len(t, mols[0].Atoms, 3)
	assert.NotZero(t, mols[0].RangeX())
}

func TestRender_SMILES(t *testing.T) {
	out, err := run(t, "", "render", "CCO", "--width", "250")
	require.NoError(t, err)
	assert.Contains(t, out, "<svg")
	assert.Contains(t, out, "width='250px' height='200px'")
}

func TestRender_PNGFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "benzene.png")
	_, err := run(t, "", "render", "c1ccccc1", "--out", path)
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(data, []byte("\x89PNG\r\n\x1a\n")))
}

func TestRender_SDFRecord(t *testing.T) {
	sdf := writeSDF(t, "CCO", "CN")
	out, err := run(t, "", "render", "--in", sdf, "--record", "1", "--keep-coords")
	require.NoError(t, err)
	assert.Regexp(t, `>(NH2|H2N)<`, out)

	_, err = run(t, "", "render", "--in", sdf, "--record", "5")
	assert.ErrorContains(t, err, "out of range")
}

func TestRender_Highlights(t *testing.T) {
	out, err := run(t, "", "render", "[100Xe]CC")
	require.NoError(t, err)
	assert.Contains(t, out, "stroke:#00FF00")

	out, err = run(t, "", "render", "CC", "--atom-indices", "0,1,104,no")
	require.NoError(t, err)
	assert.Contains(t, out, "stroke:#FFFF00")

	_, err = run(t, "", "render", "CC", "--atom-indices", "0,1,104")
	assert.Error(t, err)
}

func TestRender_Errors(t *testing.T) {
	_, err := run(t, "", "render")
	assert.Error(t, err)

	_, err = run(t, "", "render", "CC", "--in", "x.mol")
	assert.Error(t, err)

	_, err = run(t, "", "render", "C1CC")
	assert.ErrorIs(t, err, chem.ErrInvalidSMILES)
}

func TestTransparent(t *testing.T) {
	svg, err := run(t, "", "render", "CC", "--background")
	require.NoError(t, err)
	require.Contains(t, svg, "fill:#FFFFFF")

	out, err := run(t, svg, "transparent")
	require.NoError(t, err)
	assert.Contains(t, out, "fill:none;stroke:none")
	assert.NotContains(t, out, "#FFFFFF")

	_, err = run(t, "no svg here", "transparent")
	assert.Error(t, err)
}

func TestConfigFlag(t *testing.T) {
	_, err := run(t, "", "--config", filepath.Join(t.TempDir(), "missing.yaml"), "canon", "C")
	assert.Error(t, err)
}
