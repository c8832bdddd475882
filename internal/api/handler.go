package api

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/H1W0XXX/molview/internal/chem"
	"github.com/H1W0XXX/molview/internal/config"
	"github.com/H1W0XXX/molview/internal/depict"
	"github.com/H1W0XXX/molview/internal/highlight"
	"github.com/H1W0XXX/molview/internal/metrics"
)

// PromptText answers a request without a smiles parameter.
const PromptText = "Please insert SMILES"

// maxDimension bounds the requested canvas size in pixels.
const maxDimension = 4096

// markerSymbol in a canonical SMILES means there are marker atoms to resolve.
const markerSymbol = "Xe"

var errBadDimension = errors.New("invalid image dimension")

type handler struct {
	render  config.RenderConfig
	logger  *zap.Logger
	metrics *metrics.Metrics
}

// molView handles GET ?smiles=...&height=&width=&atom_indices=&img_type=.
func (h *handler) molView(c *gin.Context) {
	raw, ok := c.GetQuery("smiles")
	if !ok {
		c.Data(http.StatusOK, depict.TextContentType, []byte(PromptText))
		return
	}
	height, err := dimension(c, "height")
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	width, err := dimension(c, "width")
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}

	smiles, err := chem.Canonicalize(strings.TrimSuffix(raw, ".svg"))
	if err != nil {
		h.logger.Debug("canonicalize failed", zap.String("smiles", raw), zap.Error(err))
		smiles = ""
	}

	opts := h.drawOptions(width, height, depict.ParseFormat(c.Query("img_type")))
	mol, hl, source, err := resolveHighlight(c, smiles)
	if err != nil {
		h.fail(c, http.StatusBadRequest, err)
		return
	}
	if h.metrics != nil {
		h.metrics.ObserveHighlight(source)
	}
	if hl != nil {
		opts.HighlightBonds = hl.BondIDs
		opts.HighlightBondColors = hl.Colors
	}

	start := time.Now()
	img, err := depict.Draw(smiles, mol, opts)
	if err != nil {
		h.observeRender(opts.Format, metrics.OutcomeError, time.Since(start))
		h.fail(c, http.StatusInternalServerError, err)
		return
	}
	outcome := metrics.OutcomeImage
	if img.IsNoneMol() {
		outcome = metrics.OutcomeNoneMol
	}
	h.observeRender(opts.Format, outcome, time.Since(start))
	c.Data(http.StatusOK, img.ContentType, img.Data)
}

// resolveHighlight picks the highlight source: atom_indices first, then
// marker atoms. A SMILES that does not parse gets no highlights and is left
// for the renderer to report.
func resolveHighlight(c *gin.Context, smiles string) (*chem.Molecule, *highlight.Highlight, string, error) {
	ids, hasIDs := c.GetQuery("atom_indices")
	if !hasIDs && !strings.Contains(smiles, markerSymbol) {
		return nil, nil, metrics.SourceNone, nil
	}
	mol, err := chem.ParseSMILES(smiles)
	if err != nil {
		return nil, nil, metrics.SourceNone, nil
	}

	if hasIDs {
		hl, err := highlight.ParseAtomIDs(ids, mol)
		if err != nil {
			return nil, nil, metrics.SourceAtomIDs, fmt.Errorf("atom_indices: %w", err)
		}
		return hl.Mol, hl, metrics.SourceAtomIDs, nil
	}
	hl, err := highlight.ParseMarkers(mol)
	if err != nil {
		return nil, nil, metrics.SourceMarkers, fmt.Errorf("marker atoms: %w", err)
	}
	return hl.Mol, hl, metrics.SourceMarkers, nil
}

func (h *handler) drawOptions(width, height int, format depict.Format) depict.DrawOptions {
	if width == 0 {
		width = h.render.Width
	}
	if height == 0 {
		height = h.render.Height
	}
	opts := depict.DefaultDrawOptions(width, height)
	opts.Format = format
	if h.render.BondLineWidth > 0 {
		opts.BondLineWidth = h.render.BondLineWidth
	}
	if h.render.Padding > 0 {
		opts.Padding = h.render.Padding
	}
	opts.ClearBackground = h.render.ClearBackground
	return opts
}

func (h *handler) observeRender(format depict.Format, outcome string, d time.Duration) {
	if h.metrics != nil {
		h.metrics.ObserveRender(string(format), outcome, d)
	}
}

// fail answers with the error text as plain text.
func (h *handler) fail(c *gin.Context, status int, err error) {
	_ = c.Error(err)
	c.Data(status, depict.TextContentType, []byte(err.Error()))
}

// dimension reads a size parameter. Absent, empty or 0 means the default.
func dimension(c *gin.Context, name string) (int, error) {
	v := strings.TrimSpace(c.Query(name))
	if v == "" {
		return 0, nil
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("%w: %s=%q", errBadDimension, name, v)
	}
	if n < 0 || n > maxDimension {
		return 0, fmt.Errorf("%w: %s=%d not in [0, %d]", errBadDimension, name, n, maxDimension)
	}
	return n, nil
}
