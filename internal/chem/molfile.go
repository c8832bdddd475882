package chem

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// ErrInvalidMolBlock wraps every failure to read an MDL mol block.
var ErrInvalidMolBlock = errors.New("invalid mol block")

const sdfTerminator = "$$$$"

// ParseMolBlock reads a V2000 mol block. Coordinates are kept; explicit
// hydrogens are folded into H counts and bond type 4 is treated as aromatic.
func ParseMolBlock(str string) (*Molecule, error) {
	lines := strings.Split(strings.ReplaceAll(str, "\r\n", "\n"), "\n")
	if len(lines) < 4 {
		return nil, fmt.Errorf("%w: too few lines", ErrInvalidMolBlock)
	}

	countsAt := -1
	for i, line := range lines {
		if len(line) >= 39 && strings.Contains(line[30:39], "V2000") {
			countsAt = i
			break
		}
		if strings.Contains(line, "V3000") {
			return nil, fmt.Errorf("%w: V3000 is not supported", ErrInvalidMolBlock)
		}
	}
	if countsAt < 0 {
		return nil, fmt.Errorf("%w: V2000 counts line not found", ErrInvalidMolBlock)
	}
	counts := lines[countsAt]
	numAtoms := parseIntSafe(counts[0:3])
	numBonds := parseIntSafe(counts[3:6])
	body := lines[countsAt+1:]
	if len(body) < numAtoms+numBonds {
		return nil, fmt.Errorf("%w: lines too short for %d atoms and %d bonds", ErrInvalidMolBlock, numAtoms, numBonds)
	}

	mol := &Molecule{}
	for i := 0; i < numAtoms; i++ {
		l := body[i]
		if len(l) < 34 {
			return nil, fmt.Errorf("%w: atom line %d too short", ErrInvalidMolBlock, i+1)
		}
		sym := strings.TrimSpace(l[31:34])
		num, ok := AtomicNumber(sym)
		if !ok {
			switch sym {
			case "R", "R#", "A", "Q", "L":
				num = Wildcard
			default:
				return nil, fmt.Errorf("%w: unknown element %q on atom %d", ErrInvalidMolBlock, sym, i+1)
			}
		}
		a := Atom{
			X:   parseFloatSafe(l[0:10]),
			Y:   parseFloatSafe(l[10:20]),
			Num: num,
		}
		if len(l) >= 39 {
			a.Charge = chargeFromCode(parseIntSafe(l[36:39]))
		}
		mol.AddAtom(a)
	}

	for i := 0; i < numBonds; i++ {
		l := body[numAtoms+i]
		if len(l) < 9 {
			return nil, fmt.Errorf("%w: bond line %d too short", ErrInvalidMolBlock, i+1)
		}
		from := parseIntSafe(l[0:3]) - 1
		to := parseIntSafe(l[3:6]) - 1
		if from < 0 || to < 0 || from >= numAtoms || to >= numAtoms || from == to {
			return nil, fmt.Errorf("%w: bond %d has bad atoms %d-%d", ErrInvalidMolBlock, i+1, from+1, to+1)
		}
		switch order := parseIntSafe(l[6:9]); order {
		case 1, 2, 3:
			mol.AddBond(from, to, order, false)
		case 4:
			mol.AddBond(from, to, 1, true)
			mol.Atoms[from].Aromatic = true
			mol.Atoms[to].Aromatic = true
		default:
			return nil, fmt.Errorf("%w: bond %d has unsupported type %d", ErrInvalidMolBlock, i+1, order)
		}
	}

	// properties block overrides the atom block charges
	chgSeen := false
	for _, l := range body[numAtoms+numBonds:] {
		if strings.HasPrefix(l, "M  END") || strings.TrimSpace(l) == sdfTerminator {
			break
		}
		switch {
		case strings.HasPrefix(l, "M  CHG"):
			if !chgSeen {
				for i := range mol.Atoms {
					mol.Atoms[i].Charge = 0
				}
				chgSeen = true
			}
			if err := applyPropertyPairs(mol, l, func(a *Atom, v int) { a.Charge = v }); err != nil {
				return nil, err
			}
		case strings.HasPrefix(l, "M  ISO"):
			if err := applyPropertyPairs(mol, l, func(a *Atom, v int) { a.Isotope = v }); err != nil {
				return nil, err
			}
		}
	}

	out, _ := removeHs(mol)
	if err := out.sanitize(); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidMolBlock, err)
	}
	return out, nil
}

// applyPropertyPairs reads "M  XXXnn8 aaa vvv aaa vvv ..." lines.
func applyPropertyPairs(mol *Molecule, line string, set func(*Atom, int)) error {
	fields := strings.Fields(line)
	if len(fields) < 3 {
		return fmt.Errorf("%w: short property line %q", ErrInvalidMolBlock, line)
	}
	n := parseIntSafe(fields[2])
	vals := fields[3:]
	if len(vals) < 2*n {
		return fmt.Errorf("%w: property line %q lists %d entries", ErrInvalidMolBlock, line, n)
	}
	for k := 0; k < n; k++ {
		idx := parseIntSafe(vals[2*k]) - 1
		if idx < 0 || idx >= len(mol.Atoms) {
			return fmt.Errorf("%w: property line %q names atom %d", ErrInvalidMolBlock, line, idx+1)
		}
		set(&mol.Atoms[idx], parseIntSafe(vals[2*k+1]))
	}
	return nil
}

func chargeFromCode(code int) int {
	switch code {
	case 1:
		return 3
	case 2:
		return 2
	case 3:
		return 1
	case 5:
		return -1
	case 6:
		return -2
	case 7:
		return -3
	}
	return 0
}

func parseIntSafe(s string) int {
	n, _ := strconv.Atoi(strings.TrimSpace(s))
	return n
}

func parseFloatSafe(s string) float64 {
	f, _ := strconv.ParseFloat(strings.TrimSpace(s), 64)
	return f
}

// WriteMolBlock writes the molecule as a V2000 mol block with Kekulé bond
// orders. Hydrogen counts stay implicit.
func WriteMolBlock(m *Molecule, name string) string {
	var sb strings.Builder
	sb.WriteString(name + "\n")
	sb.WriteString("     molview          2D\n")
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "%3d%3d  0  0  0  0  0  0  0  0999 V2000\n", len(m.Atoms), len(m.Bonds))

	var charged, labelled []int
	for i, a := range m.Atoms {
		sym := a.Symbol()
		if a.Num == Wildcard {
			sym = "R"
		}
		fmt.Fprintf(&sb, "%10.4f%10.4f%10.4f %-3s 0%3d  0  0  0  0  0  0  0  0  0  0\n",
			a.X, a.Y, 0.0, sym, chargeCode(a.Charge))
		if a.Charge != 0 {
			charged = append(charged, i)
		}
		if a.Isotope != 0 {
			labelled = append(labelled, i)
		}
	}
	for _, b := range m.Bonds {
		fmt.Fprintf(&sb, "%3d%3d%3d  0\n", b.From+1, b.To+1, b.Order)
	}
	writeProperty(&sb, "CHG", charged, func(i int) int { return m.Atoms[i].Charge })
	writeProperty(&sb, "ISO", labelled, func(i int) int { return m.Atoms[i].Isotope })
	sb.WriteString("M  END\n")
	return sb.String()
}

func writeProperty(sb *strings.Builder, tag string, atoms []int, value func(int) int) {
	for start := 0; start < len(atoms); start += 8 {
		end := min(start+8, len(atoms))
		fmt.Fprintf(sb, "M  %s%3d", tag, end-start)
		for _, i := range atoms[start:end] {
			fmt.Fprintf(sb, " %3d %3d", i+1, value(i))
		}
		sb.WriteString("\n")
	}
}

func chargeCode(charge int) int {
	if charge < -3 || charge > 3 || charge == 0 {
		return 0
	}
	return 4 - charge
}

// ReadSDF reads every record of an SD file.
func ReadSDF(r io.Reader) ([]*Molecule, error) {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 16*1024*1024)
	var (
		mols []*Molecule
		sb   strings.Builder
	)
	flush := func() error {
		if strings.TrimSpace(sb.String()) == "" {
			sb.Reset()
			return nil
		}
		m, err := ParseMolBlock(sb.String())
		if err != nil {
			return fmt.Errorf("record %d: %w", len(mols)+1, err)
		}
		mols = append(mols, m)
		sb.Reset()
		return nil
	}
	for sc.Scan() {
		line := sc.Text()
		if strings.TrimSpace(line) == sdfTerminator {
			if err := flush(); err != nil {
				return nil, err
			}
			continue
		}
		sb.WriteString(line)
		sb.WriteByte('\n')
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return mols, nil
}

// IndexSDF returns the byte offset at which each record of an SD file starts.
func IndexSDF(r io.Reader) ([]int64, error) {
	br := bufio.NewReader(r)
	var (
		offsets []int64
		pos     int64
		start   = true
	)
	for {
		line, err := br.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if len(line) > 0 {
			if start && strings.TrimSpace(line) != "" {
				offsets = append(offsets, pos)
				start = false
			}
			if strings.TrimSpace(line) == sdfTerminator {
				start = true
			}
			pos += int64(len(line))
		}
		if err == io.EOF {
			return offsets, nil
		}
	}
}

// ReadSDFAt reads the record that starts at offset, up to the next "$$$$".
func ReadSDFAt(rs io.ReadSeeker, offset int64) (*Molecule, error) {
	if _, err := rs.Seek(offset, io.SeekStart); err != nil {
		return nil, err
	}
	reader := bufio.NewReader(rs)
	var sb strings.Builder
	for {
		line, err := reader.ReadString('\n')
		if err != nil && err != io.EOF {
			return nil, err
		}
		if strings.TrimSpace(line) == sdfTerminator {
			break
		}
		sb.WriteString(line)
		if !strings.HasSuffix(line, "\n") {
			sb.WriteString("\n")
		}
		if err == io.EOF {
			break
		}
	}
	return ParseMolBlock(sb.String())
}
