package chem

import (
	"errors"
	"fmt"
	"strings"
	"unicode"
)

var (
	// ErrInvalidSMILES wraps every failure to read a SMILES string.
	ErrInvalidSMILES = errors.New("invalid SMILES")
	// ErrEmptySMILES is returned for blank input.
	ErrEmptySMILES = errors.New("empty SMILES")
)

// ParseSMILES reads a SMILES string. Plain hydrogen atoms are folded into
// H counts, aromatic bonds get Kekulé orders and rings are checked for
// aromaticity. Stereo marks are accepted and discarded.
func ParseSMILES(s string) (*Molecule, error) {
	m, _, err := parseSMILES(s)
	return m, err
}

// parseSMILES also returns the map from the order atoms appear in the string
// to their final index (-1 for hydrogens that were folded away).
func parseSMILES(s string) (*Molecule, []int, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
		s = s[:i]
	}
	if s == "" {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidSMILES, ErrEmptySMILES)
	}
	p := &smilesParser{s: s, mol: &Molecule{}, prev: -1, rings: make(map[int]ringOpening)}
	if err := p.parse(); err != nil {
		return nil, nil, fmt.Errorf("%w: %s", ErrInvalidSMILES, err)
	}
	m, remap := removeHs(p.mol)
	if err := m.sanitize(); err != nil {
		return nil, nil, fmt.Errorf("%w: %w", ErrInvalidSMILES, err)
	}
	return m, remap, nil
}

// bond symbol waiting for the next atom or ring digit
type pendingBond struct {
	set      bool
	order    int
	aromatic bool
}

type ringOpening struct {
	atom int
	bond pendingBond
}

type smilesParser struct {
	s        string
	pos      int
	mol      *Molecule
	prev     int
	branches []int
	bond     pendingBond
	rings    map[int]ringOpening
}

func (p *smilesParser) errorf(format string, args ...any) error {
	return fmt.Errorf("%s at position %d", fmt.Sprintf(format, args...), p.pos)
}

func (p *smilesParser) parse() error {
	for p.pos < len(p.s) {
		ch := p.s[p.pos]
		switch {
		case ch == '(':
			if p.prev < 0 {
				return p.errorf("branch without a preceding atom")
			}
			p.branches = append(p.branches, p.prev)
			p.pos++
		case ch == ')':
			if len(p.branches) == 0 {
				return p.errorf("unmatched ')'")
			}
			if p.bond.set {
				return p.errorf("bond symbol before ')'")
			}
			p.prev = p.branches[len(p.branches)-1]
			p.branches = p.branches[:len(p.branches)-1]
			p.pos++
		case ch == '.':
			if p.bond.set {
				return p.errorf("bond symbol before '.'")
			}
			p.prev = -1
			p.pos++
		case ch == '-' || ch == '/' || ch == '\\':
			p.setBond(pendingBond{set: true, order: 1})
		case ch == '=':
			p.setBond(pendingBond{set: true, order: 2})
		case ch == '#':
			p.setBond(pendingBond{set: true, order: 3})
		case ch == ':':
			p.setBond(pendingBond{set: true, order: 1, aromatic: true})
		case ch == '$':
			return p.errorf("quadruple bonds are not supported")
		case ch >= '0' && ch <= '9':
			if err := p.ringClosure(int(ch - '0')); err != nil {
				return err
			}
			p.pos++
		case ch == '%':
			if p.pos+2 >= len(p.s) || !isDigit(p.s[p.pos+1]) || !isDigit(p.s[p.pos+2]) {
				return p.errorf("malformed ring number")
			}
			n := int(p.s[p.pos+1]-'0')*10 + int(p.s[p.pos+2]-'0')
			if err := p.ringClosure(n); err != nil {
				return err
			}
			p.pos += 3
		case ch == '[':
			a, err := p.bracketAtom()
			if err != nil {
				return err
			}
			p.addAtom(a)
		default:
			a, err := p.organicAtom()
			if err != nil {
				return err
			}
			p.addAtom(a)
		}
	}
	if len(p.branches) > 0 {
		return p.errorf("unclosed branch")
	}
	for n := range p.rings {
		return p.errorf("unclosed ring %d", n)
	}
	if p.bond.set {
		return p.errorf("dangling bond")
	}
	return nil
}

func (p *smilesParser) setBond(b pendingBond) {
	p.bond = b
	p.pos++
}

func (p *smilesParser) addAtom(a Atom) {
	idx := p.mol.AddAtom(a)
	if p.prev >= 0 {
		p.link(p.prev, idx, p.bond)
	}
	p.bond = pendingBond{}
	p.prev = idx
}

// link adds the bond between two atoms, implicit bonds between aromatic atoms being aromatic.
func (p *smilesParser) link(a, b int, pb pendingBond) {
	switch {
	case pb.set:
		p.mol.AddBond(a, b, pb.order, pb.aromatic)
	case p.mol.Atoms[a].Aromatic && p.mol.Atoms[b].Aromatic:
		p.mol.AddBond(a, b, 1, true)
	default:
		p.mol.AddBond(a, b, 1, false)
	}
}

func (p *smilesParser) ringClosure(n int) error {
	if p.prev < 0 {
		return p.errorf("ring number %d without an atom", n)
	}
	open, ok := p.rings[n]
	if !ok {
		p.rings[n] = ringOpening{atom: p.prev, bond: p.bond}
		p.bond = pendingBond{}
		return nil
	}
	delete(p.rings, n)
	if open.atom == p.prev {
		return p.errorf("ring %d closes on itself", n)
	}
	if _, dup := p.mol.BondBetween(open.atom, p.prev); dup {
		return p.errorf("ring %d duplicates an existing bond", n)
	}
	pb := open.bond
	if p.bond.set {
		if pb.set && pb != p.bond {
			return p.errorf("conflicting bond orders on ring %d", n)
		}
		pb = p.bond
	}
	p.link(open.atom, p.prev, pb)
	p.bond = pendingBond{}
	return nil
}

func (p *smilesParser) organicAtom() (Atom, error) {
	ch := p.s[p.pos]
	if ch == '*' {
		p.pos++
		return Atom{Num: Wildcard}, nil
	}
	if n, ok := aromaticBare[string(ch)]; ok {
		p.pos++
		return Atom{Num: n, Aromatic: true}, nil
	}
	if p.pos+1 < len(p.s) {
		two := p.s[p.pos : p.pos+2]
		if two == "Cl" || two == "Br" {
			n, _ := AtomicNumber(two)
			p.pos += 2
			return Atom{Num: n}, nil
		}
	}
	if n, ok := AtomicNumber(string(ch)); ok && isOrganic(n) && n != Wildcard {
		p.pos++
		return Atom{Num: n}, nil
	}
	return Atom{}, p.errorf("unexpected character %q", ch)
}

func (p *smilesParser) bracketAtom() (Atom, error) {
	end := strings.IndexByte(p.s[p.pos:], ']')
	if end < 0 {
		return Atom{}, p.errorf("unclosed bracket atom")
	}
	body := p.s[p.pos+1 : p.pos+end]
	a, err := parseBracketBody(body)
	if err != nil {
		return Atom{}, p.errorf("bad atom [%s]: %v", body, err)
	}
	p.pos += end + 1
	return a, nil
}

// parseBracketBody reads isotope, symbol, chirality, H count, charge and atom class.
func parseBracketBody(body string) (Atom, error) {
	a := Atom{NoImplicit: true}
	i := 0
	for i < len(body) && isDigit(body[i]) {
		a.Isotope = a.Isotope*10 + int(body[i]-'0')
		i++
	}
	if i >= len(body) {
		return a, errors.New("missing element")
	}

	switch {
	case body[i] == '*':
		a.Num = Wildcard
		i++
	case unicode.IsLower(rune(body[i])):
		if i+1 < len(body) {
			if n, ok := aromaticBracket[body[i:i+2]]; ok {
				a.Num, a.Aromatic = n, true
				i += 2
				break
			}
		}
		n, ok := aromaticBracket[body[i:i+1]]
		if !ok {
			return a, fmt.Errorf("unknown aromatic symbol %q", body[i:i+1])
		}
		a.Num, a.Aromatic = n, true
		i++
	default:
		if i+1 < len(body) && unicode.IsLower(rune(body[i+1])) {
			if n, ok := AtomicNumber(body[i : i+2]); ok {
				a.Num = n
				i += 2
				break
			}
		}
		n, ok := AtomicNumber(body[i : i+1])
		if !ok || n == Wildcard {
			return a, fmt.Errorf("unknown element %q", body[i:i+1])
		}
		a.Num = n
		i++
	}

	// chirality is read and dropped
	if i < len(body) && body[i] == '@' {
		i++
		if i < len(body) && body[i] == '@' {
			i++
		} else if i+2 < len(body) && chiralClasses[body[i:i+2]] && isDigit(body[i+2]) {
			i += 2
			for i < len(body) && isDigit(body[i]) {
				i++
			}
		}
	}

	if i < len(body) && body[i] == 'H' {
		i++
		a.HCount = 1
		if i < len(body) && isDigit(body[i]) {
			a.HCount = 0
			for i < len(body) && isDigit(body[i]) {
				a.HCount = a.HCount*10 + int(body[i]-'0')
				i++
			}
		}
	}

	if i < len(body) && (body[i] == '+' || body[i] == '-') {
		sign := 1
		if body[i] == '-' {
			sign = -1
		}
		sym := body[i]
		i++
		switch {
		case i < len(body) && isDigit(body[i]):
			n := 0
			for i < len(body) && isDigit(body[i]) {
				n = n*10 + int(body[i]-'0')
				i++
			}
			a.Charge = sign * n
		default:
			n := 1
			for i < len(body) && body[i] == sym {
				n++
				i++
			}
			a.Charge = sign * n
		}
	}

	if i < len(body) && body[i] == ':' {
		i++
		if i >= len(body) {
			return a, errors.New("empty atom class")
		}
		for i < len(body) && isDigit(body[i]) {
			a.MapNum = a.MapNum*10 + int(body[i]-'0')
			i++
		}
	}
	if i != len(body) {
		return a, fmt.Errorf("unexpected %q", body[i:])
	}
	return a, nil
}

var chiralClasses = map[string]bool{"TH": true, "AL": true, "SP": true, "TB": true, "OH": true}

func isDigit(b byte) bool { return b >= '0' && b <= '9' }
