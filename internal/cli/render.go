package cli

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/H1W0XXX/molview/internal/chem"
	"github.com/H1W0XXX/molview/internal/depict"
	"github.com/H1W0XXX/molview/internal/highlight"
)

type renderOptions struct {
	in          string
	record      int
	out         string
	format      string
	width       int
	height      int
	atomIndices string
	background  bool
	keepCoords  bool
}

func newRenderCmd(a *app) *cobra.Command {
	opts := &renderOptions{}
	cmd := &cobra.Command{
		Use:   "render [SMILES]",
		Short: "Draw one molecule to an SVG or PNG file",
		Long: "render draws a SMILES argument, or a record of an MDL mol/SD file given with --in.\n" +
			"Xe marker atoms are highlighted unless --atom-indices is given.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRender(cmd, a, opts, args)
		},
	}
	f := cmd.Flags()
	f.StringVar(&opts.in, "in", "", "read an MDL .mol or .sdf file instead of a SMILES argument")
	f.IntVar(&opts.record, "record", 0, "record number (from 0) when --in is an SD file")
	f.StringVarP(&opts.out, "out", "o", "-", "output file; - writes to stdout")
	f.StringVar(&opts.format, "format", "", "svg or png; default from the --out extension, else svg")
	f.IntVar(&opts.width, "width", 0, "image width in px (default from render.width)")
	f.IntVar(&opts.height, "height", 0, "image height in px (default from render.height)")
	f.StringVar(&opts.atomIndices, "atom-indices", "", "highlight tuples id,id,isotope,addHs")
	f.BoolVar(&opts.background, "background", false, "paint a white background behind SVG output")
	f.BoolVar(&opts.keepCoords, "keep-coords", false, "use the coordinates of the mol file instead of a new layout")
	return cmd
}

func runRender(cmd *cobra.Command, a *app, opts *renderOptions, args []string) error {
	mol, err := loadMolecule(opts, args)
	if err != nil {
		return err
	}

	format := depict.ParseFormat(opts.format)
	if opts.format == "" && strings.EqualFold(filepath.Ext(opts.out), ".png") {
		format = depict.FormatPNG
	}
	width, height := opts.width, opts.height
	if width == 0 {
		width = a.cfg.Render.Width
	}
	if height == 0 {
		height = a.cfg.Render.Height
	}
	drawOpts := depict.DefaultDrawOptions(width, height)
	drawOpts.Format = format
	drawOpts.BondLineWidth = a.cfg.Render.BondLineWidth
	drawOpts.Padding = a.cfg.Render.Padding
	drawOpts.ClearBackground = opts.background || a.cfg.Render.ClearBackground
	drawOpts.KeepCoords = opts.keepCoords

	hl, err := pickHighlight(opts.atomIndices, mol)
	if err != nil {
		return err
	}
	if hl != nil {
		mol = hl.Mol
		drawOpts.HighlightBonds = hl.BondIDs
		drawOpts.HighlightBondColors = hl.Colors
		if opts.atomIndices != "" {
			// a rebuilt molecule has lost its file coordinates
			drawOpts.KeepCoords = false
		}
	}

	img, err := depict.Draw("", mol, drawOpts)
	if err != nil {
		return fmt.Errorf("drawing: %w", err)
	}
	a.logger.Debug("rendered",
		zap.Int("atoms", len(mol.Atoms)),
		zap.Int("highlighted_bonds", len(drawOpts.HighlightBonds)),
		zap.String("format", string(format)),
		zap.Int("bytes", len(img.Data)))
	return writeOutput(cmd.OutOrStdout(), opts.out, img.Data)
}

// loadMolecule reads the SMILES argument or the --in file.
func loadMolecule(opts *renderOptions, args []string) (*chem.Molecule, error) {
	switch {
	case opts.in != "" && len(args) > 0:
		return nil, errors.New("give either a SMILES argument or --in, not both")
	case opts.in != "":
		return readMolFile(opts.in, opts.record)
	case len(args) == 1:
		return chem.ParseSMILES(args[0])
	}
	return nil, errors.New("a SMILES argument or --in is required")
}

func readMolFile(path string, record int) (*chem.Molecule, error) {
	if !strings.EqualFold(filepath.Ext(path), ".sdf") {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, err
		}
		return chem.ParseMolBlock(string(data))
	}

	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	offsets, err := chem.IndexSDF(f)
	if err != nil {
		return nil, fmt.Errorf("indexing %s: %w", path, err)
	}
	if record < 0 || record >= len(offsets) {
		return nil, fmt.Errorf("record %d out of range: %s has %d records", record, path, len(offsets))
	}
	mol, err := chem.ReadSDFAt(f, offsets[record])
	if err != nil {
		return nil, fmt.Errorf("%s record %d: %w", path, record, err)
	}
	return mol, nil
}

// pickHighlight mirrors the service: atom indices first, else marker atoms.
func pickHighlight(atomIndices string, mol *chem.Molecule) (*highlight.Highlight, error) {
	if atomIndices != "" {
		return highlight.ParseAtomIDs(atomIndices, mol)
	}
	for _, at := range mol.Atoms {
		if at.Num == highlight.MarkerAtomicNum {
			return highlight.ParseMarkers(mol)
		}
	}
	return nil, nil
}

func writeOutput(stdout io.Writer, path string, data []byte) error {
	if path == "" || path == "-" {
		_, err := stdout.Write(data)
		return err
	}
	return os.WriteFile(path, data, 0o644)
}
