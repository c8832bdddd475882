package depict

import "github.com/H1W0XXX/molview/internal/chem"

// elementColors follows the usual depiction palette; unlisted elements are black.
var elementColors = map[int]Color{
	chem.Wildcard: {0.5, 0.5, 0.5},
	5:             {1, 0.5, 0.5},
	chem.Nitrogen: {0, 0, 1},
	chem.Oxygen:   {1, 0, 0},
	9:             {0.2, 0.8, 0.8},
	15:            {1, 0.5, 0},
	16:            {0.8, 0.8, 0},
	17:            {0, 0.8, 0},
	35:            {0.5, 0.3, 0.1},
	53:            {0.63, 0.12, 0.94},
	chem.Xenon:    {0.26, 0.62, 0.69},
}

func atomColor(num int) Color {
	if c, ok := elementColors[num]; ok {
		return c
	}
	return Black
}
