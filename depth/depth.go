// Package depth calculates how far residues are buried below a
// molecular surface.
//
// Residue depth is the mean distance of a residue's atoms from the
// nearest surface vertex. Alpha carbon depth is the same distance for
// the CA atom alone, or NoCA if the residue does not have one.
package depth

import (
	"fmt"

	"github.com/andrew-torda/resdepth/pdb/cmmn"
	"github.com/andrew-torda/resdepth/pdb/geom"
)

// NoCA is the alpha carbon depth of a residue without an alpha carbon.
const NoCA float32 = -1

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrNoAtoms  = Error("residue has no atoms")
	ErrNotFound = Error("residue not in depth index")
)

// Depth is the pair of numbers we keep for each residue.
type Depth struct {
	Res float32 // mean over all atoms
	CA  float32 // alpha carbon, or NoCA
}

// HasCA is false when CA is the NoCA marker.
func (d Depth) HasCA() bool { return d.CA != NoCA }

func (d Depth) String() string { return fmt.Sprintf("(%.4f, %.4f)", d.Res, d.CA) }

// ResidueDepth averages the distance to the surface over every atom in
// the residue, alternate locations included.
func ResidueDepth(r *cmmn.Residue, s geom.Points) (float32, error) {
	if len(r.Atoms) == 0 {
		return 0, fmt.Errorf("%s: %w", r, ErrNoAtoms)
	}
	var sum float64
	for i := range r.Atoms {
		sum += float64(geom.MinDist(r.Atoms[i].Xyz, s))
	}
	return float32(sum / float64(len(r.Atoms))), nil
}

// CADepth is the distance from the alpha carbon to the surface. If
// there is no CA, we return NoCA and do not look at the surface.
func CADepth(r *cmmn.Residue, s geom.Points) float32 {
	ca, ok := r.AtomByName(cmmn.CAName)
	if !ok {
		return NoCA
	}
	return geom.MinDist(ca.Xyz, s)
}

// Calc returns both numbers for a residue.
func Calc(r *cmmn.Residue, s geom.Points) (Depth, error) {
	rd, err := ResidueDepth(r, s)
	if err != nil {
		return Depth{}, err
	}
	return Depth{Res: rd, CA: CADepth(r, s)}, nil
}
