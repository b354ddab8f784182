// The index runs the whole calculation for one model and keeps the
// answers, both in order and by residue.

package depth

import (
	"fmt"
	"iter"

	"github.com/andrew-torda/resdepth/pdb/cmmn"
	"github.com/andrew-torda/resdepth/pdb/geom"
	"github.com/andrew-torda/resdepth/surface"
)

// SurfaceSource makes a surface from a structure file.
// *surface.Builder is one.
type SurfaceSource interface {
	Build(structure string) (*surface.Surface, error)
}

// Entry is one residue with its depths.
type Entry struct {
	Residue *cmmn.Residue
	Depth
}

// Index holds depths for every residue of one model. It cannot be
// changed once built.
type Index struct {
	entries []Entry
	byKey   map[cmmn.ResKey]int // position in entries
}

// NewIndex builds the surface for fname once, then calculates depths
// for every residue in model in chain then residue order. Any failure
// means no index at all.
func NewIndex(model *cmmn.Model, fname string, src SurfaceSource) (*Index, error) {
	s, err := src.Build(fname)
	if err != nil {
		return nil, err
	}
	return NewIndexFromSurface(model, s)
}

// NewIndexFromSurface is NewIndex for when the surface is already there.
func NewIndexFromSurface(model *cmmn.Model, s geom.Points) (*Index, error) {
	if s.Len() == 0 {
		return nil, surface.ErrEmptySurface
	}
	res := model.Residues()
	idx := &Index{
		entries: make([]Entry, 0, len(res)),
		byKey:   make(map[cmmn.ResKey]int, len(res)),
	}
	for _, r := range res {
		d, err := Calc(r, s)
		if err != nil {
			return nil, err
		}
		if _, dup := idx.byKey[r.Key]; dup {
			return nil, fmt.Errorf("residue %s appears twice in model %d", r, model.MdlNum)
		}
		idx.byKey[r.Key] = len(idx.entries)
		idx.entries = append(idx.entries, Entry{Residue: r, Depth: d})
	}
	return idx, nil
}

// Get returns the depths for a residue.
func (idx *Index) Get(key cmmn.ResKey) (Depth, error) {
	i, ok := idx.byKey[key]
	if !ok {
		return Depth{}, fmt.Errorf("%s: %w", key, ErrNotFound)
	}
	return idx.entries[i].Depth, nil
}

// Has says if a residue is in the index.
func (idx *Index) Has(key cmmn.ResKey) bool {
	_, ok := idx.byKey[key]
	return ok
}

// Len is the number of residues.
func (idx *Index) Len() int { return len(idx.entries) }

// All goes over residues in the order they were calculated. Each call
// starts again from the beginning.
func (idx *Index) All() iter.Seq2[*cmmn.Residue, Depth] {
	return func(yield func(*cmmn.Residue, Depth) bool) {
		for _, e := range idx.entries {
			if !yield(e.Residue, e.Depth) {
				return
			}
		}
	}
}

// Entries returns a copy of the ordered list.
func (idx *Index) Entries() []Entry {
	return append([]Entry(nil), idx.entries...)
}
