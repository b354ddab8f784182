// Reader for ATOM / HETATM records in old style pdb files.

package pdb

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/andrew-torda/resdepth/pdb/cmmn"
)

const minAtomLen = 54 // Up to the end of the z coordinate

// newLineScanner gives us a scanner with a buffer big enough for
// silly long REMARK lines.
func newLineScanner(rdr io.Reader) *bufio.Scanner {
	scnnr := bufio.NewScanner(rdr)
	scnnr.Buffer(make([]byte, 0, 4096), 1024*1024)
	return scnnr
}

// field cuts out columns [i:j) and trims them. Short lines give
// an empty string.
func field(line string, i, j int) string {
	if i >= len(line) {
		return ""
	}
	if j > len(line) {
		j = len(line)
	}
	return strings.TrimSpace(line[i:j])
}

// column returns the byte at position i or a blank.
func column(line string, i int) byte {
	if i >= len(line) {
		return ' '
	}
	return line[i]
}

// modelBuilder collects atoms for one model. Chains and residues are
// kept in the order they are first seen.
type modelBuilder struct {
	mdl    *cmmn.Model
	chains map[string]*cmmn.Chain
	res    map[cmmn.ResKey]*cmmn.Residue
}

func newModelBuilder(num int) *modelBuilder {
	return &modelBuilder{
		mdl:    &cmmn.Model{MdlNum: num},
		chains: make(map[string]*cmmn.Chain),
		res:    make(map[cmmn.ResKey]*cmmn.Residue),
	}
}

func (mb *modelBuilder) add(key cmmn.ResKey, resName string, atom cmmn.Atom) {
	r, ok := mb.res[key]
	if !ok {
		c, ok := mb.chains[key.ChainID]
		if !ok {
			c = &cmmn.Chain{ChainID: key.ChainID}
			mb.chains[key.ChainID] = c
			mb.mdl.Chains = append(mb.mdl.Chains, c)
		}
		r = &cmmn.Residue{Key: key, Name: resName}
		mb.res[key] = r
		c.Residues = append(c.Residues, r)
	}
	r.Atoms = append(r.Atoms, atom)
}

// parseAtom reads one ATOM or HETATM line. The columns are
//   7-11 serial, 13-16 atom name, 17 altloc, 18-20 residue name,
//   22 chain, 23-26 residue number, 27 insertion code,
//   31-38 x, 39-46 y, 47-54 z, 77-78 element.
// Unlike the coordinates, a broken serial number is not worth an error.
func parseAtom(line string, het bool) (cmmn.ResKey, string, cmmn.Atom, error) {
	var key cmmn.ResKey
	var atom cmmn.Atom
	if len(line) < minAtomLen {
		return key, "", atom, fmt.Errorf("atom record too short (%d chars)", len(line))
	}
	num, err := strconv.Atoi(field(line, 22, 26))
	if err != nil {
		return key, "", atom, fmt.Errorf("residue number: %w", err)
	}
	key = cmmn.ResKey{
		ChainID: field(line, 21, 22),
		Het:     het,
		Num:     num,
		InsCode: column(line, 26),
	}
	atom = cmmn.Atom{
		Name:    field(line, 12, 16),
		AltLoc:  column(line, 16),
		Element: field(line, 76, 78),
		Het:     het,
	}
	if serial, err := strconv.Atoi(field(line, 6, 11)); err == nil {
		atom.Serial = serial
	}
	xyz := [3]*float32{&atom.X, &atom.Y, &atom.Z}
	for i, x := range xyz {
		s := field(line, 30+8*i, 38+8*i)
		f, err := strconv.ParseFloat(s, 32)
		if err != nil {
			return key, "", atom, fmt.Errorf("coordinate %q: %w", s, err)
		}
		*x = float32(f)
	}
	return key, field(line, 17, 20), atom, nil
}

// ReadModelsRdr reads pdb records from a reader. Without MODEL records
// we get a single model numbered 1.
func ReadModelsRdr(rdr io.Reader) ([]*cmmn.Model, error) {
	var mdls []*cmmn.Model
	var mb *modelBuilder
	finish := func() {
		if mb != nil && len(mb.mdl.Chains) > 0 {
			mdls = append(mdls, mb.mdl)
		}
		mb = nil
	}
	scnnr := newLineScanner(rdr)
	for n := 1; scnnr.Scan(); n++ {
		line := scnnr.Text()
		rec := field(line, 0, 6)
		switch rec {
		case "MODEL":
			finish()
			num, err := strconv.Atoi(field(line, 10, 14))
			if err != nil {
				num = len(mdls) + 1
			}
			mb = newModelBuilder(num)
		case "ENDMDL":
			finish()
		case "ATOM", "HETATM":
			if mb == nil {
				mb = newModelBuilder(len(mdls) + 1)
			}
			key, resName, atom, err := parseAtom(line, rec == "HETATM")
			if err != nil {
				return nil, fmt.Errorf("line %d: %w", n, err)
			}
			mb.add(key, resName, atom)
		case "END":
			finish()
		}
	}
	if err := scnnr.Err(); err != nil {
		return nil, err
	}
	finish()
	if len(mdls) == 0 {
		return nil, ErrNoAtoms
	}
	return mdls, nil
}
