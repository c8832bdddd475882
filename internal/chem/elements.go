package chem

// symbols is indexed by atomic number; 0 is the wildcard atom.
var symbols = [...]string{
	"*",
	"H", "He",
	"Li", "Be", "B", "C", "N", "O", "F", "Ne",
	"Na", "Mg", "Al", "Si", "P", "S", "Cl", "Ar",
	"K", "Ca", "Sc", "Ti", "V", "Cr", "Mn", "Fe", "Co", "Ni", "Cu", "Zn",
	"Ga", "Ge", "As", "Se", "Br", "Kr",
	"Rb", "Sr", "Y", "Zr", "Nb", "Mo", "Tc", "Ru", "Rh", "Pd", "Ag", "Cd",
	"In", "Sn", "Sb", "Te", "I", "Xe",
	"Cs", "Ba",
	"La", "Ce", "Pr", "Nd", "Pm", "Sm", "Eu", "Gd", "Tb", "Dy", "Ho", "Er", "Tm", "Yb", "Lu",
	"Hf", "Ta", "W", "Re", "Os", "Ir", "Pt", "Au", "Hg",
	"Tl", "Pb", "Bi", "Po", "At", "Rn",
	"Fr", "Ra",
	"Ac", "Th", "Pa", "U", "Np", "Pu", "Am", "Cm", "Bk", "Cf", "Es", "Fm", "Md", "No", "Lr",
	"Rf", "Db", "Sg", "Bh", "Hs", "Mt", "Ds", "Rg", "Cn",
	"Nh", "Fl", "Mc", "Lv", "Ts", "Og",
}

var atomicNumbers = func() map[string]int {
	m := make(map[string]int, len(symbols))
	for n, s := range symbols {
		m[s] = n
	}
	return m
}()

// Well-known atomic numbers.
const (
	Wildcard = 0
	Hydrogen = 1
	Carbon   = 6
	Nitrogen = 7
	Oxygen   = 8
	Xenon    = 54
)

// Symbol returns the element symbol for an atomic number, "?" when out of range.
func Symbol(num int) string {
	if num < 0 || num >= len(symbols) {
		return "?"
	}
	return symbols[num]
}

// AtomicNumber looks up an element symbol (case sensitive).
func AtomicNumber(sym string) (int, bool) {
	n, ok := atomicNumbers[sym]
	return n, ok
}

// organic subset valences, smallest first
var defaultValences = map[int][]int{
	5:  {3},       // B
	6:  {4},       // C
	7:  {3},       // N
	8:  {2},       // O
	9:  {1},       // F
	15: {3, 5},    // P
	16: {2, 4, 6}, // S
	17: {1},       // Cl
	35: {1},       // Br
	53: {1, 3, 5}, // I
}

// maximum valence used for bracket atoms and aromatic candidacy
var bracketValence = map[int]int{
	1:  1,
	5:  3,
	6:  4,
	7:  3,
	8:  2,
	9:  1,
	14: 4,
	15: 5,
	16: 6,
	17: 1,
	33: 3,
	34: 2,
	35: 1,
	52: 2,
	53: 1,
}

// isOrganic reports whether a bare (unbracketed) SMILES token may name the element.
func isOrganic(num int) bool {
	if num == Wildcard {
		return true
	}
	_, ok := defaultValences[num]
	return ok
}

// aromatic symbols allowed in SMILES (lowercase), bare or bracketed
var aromaticBare = map[string]int{"b": 5, "c": 6, "n": 7, "o": 8, "p": 15, "s": 16}

var aromaticBracket = map[string]int{
	"b": 5, "c": 6, "n": 7, "o": 8, "p": 15, "s": 16,
	"se": 34, "as": 33, "te": 52, "si": 14,
}

// lowValence is the valence an aromatic atom has before it takes a double bond,
// adjusted for charge the way isoelectronic species behave (N+ acts like C, C- like N).
func lowValence(num, charge int) int {
	v, ok := bracketValence[num]
	if !ok {
		return 0
	}
	switch num {
	case 16, 34, 52:
		v = 2
	case 15:
		v = 3
	}
	switch num {
	case 5:
		v -= charge
	case 6:
		v -= abs(charge)
	default:
		v += charge
	}
	return v
}

func abs(x int) int {
	if x < 0 {
		return -x
	}
	return x
}
