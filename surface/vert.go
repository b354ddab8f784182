// Package surface gets a molecular surface from msms and keeps the
// vertices. Reading the vertex file is here, running the programs is
// in build.go.
package surface

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/andrew-torda/matrix"
	"github.com/edsrzf/mmap-go"

	"github.com/andrew-torda/resdepth/pdb/cmmn"
)

// msms writes x y z, then the normal, then face number, sphere number
// and vertex type. Anything else is a header.
const nVertFields = 9

// Surface is a set of vertices, one per row of an n x 3 matrix.
type Surface struct {
	vtx *matrix.FMatrix2d
}

// New copies a slice of coordinates into a surface.
func New(xyz cmmn.XyzSl) *Surface {
	s := &Surface{vtx: matrix.NewFMatrix2d(len(xyz), 3)}
	for i, x := range xyz {
		row := s.vtx.Mat[i]
		row[0], row[1], row[2] = x.X, x.Y, x.Z
	}
	return s
}

// Len is the number of vertices.
func (s *Surface) Len() int { return len(s.vtx.Mat) }

// At returns vertex i.
func (s *Surface) At(i int) cmmn.Xyz {
	row := s.vtx.Mat[i]
	return cmmn.Xyz{X: row[0], Y: row[1], Z: row[2]}
}

// Xyz gives back a copy of the vertices.
func (s *Surface) Xyz() cmmn.XyzSl {
	ret := make(cmmn.XyzSl, s.Len())
	for i := range ret {
		ret[i] = s.At(i)
	}
	return ret
}

// ParseError says which line of a vertex file we could not read.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("vertex line %d %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error { return e.Err }

// ReadVertRdr reads msms vertex lines from a reader. Lines that do not
// have exactly nine fields are skipped. A broken number is an error.
func ReadVertRdr(rdr io.Reader) (*Surface, error) {
	var xyz cmmn.XyzSl
	scnnr := bufio.NewScanner(rdr)
	for n := 1; scnnr.Scan(); n++ {
		flds := bytes.Fields(scnnr.Bytes())
		if len(flds) != nVertFields {
			continue // header
		}
		var v [3]float32
		for i := range v {
			f, err := strconv.ParseFloat(string(flds[i]), 32)
			if err != nil {
				return nil, &ParseError{Line: n, Text: scnnr.Text(), Err: err}
			}
			v[i] = float32(f)
		}
		xyz = append(xyz, cmmn.Xyz{X: v[0], Y: v[1], Z: v[2]})
	}
	if err := scnnr.Err(); err != nil {
		return nil, err
	}
	return New(xyz), nil
}

// ReadVert maps a vertex file into memory and reads it. An empty file
// cannot be mapped, but is not an error. It gives an empty surface.
func ReadVert(fname string) (*Surface, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	info, err := fp.Stat()
	if err != nil {
		return nil, err
	}
	if info.Size() == 0 {
		return New(nil), nil
	}
	m, err := mmap.Map(fp, mmap.RDONLY, 0)
	if err != nil {
		return nil, fmt.Errorf("mapping %s: %w", fname, err)
	}
	defer m.Unmap()
	s, err := ReadVertRdr(bytes.NewReader(m))
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	return s, nil
}
