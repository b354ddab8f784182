// Package pdb/cmmn has common definitions for coordinates, atoms,
// residues and the chain / model hierarchy read from pdb files.
package cmmn

import "fmt"

// CAName is the name of the alpha carbon in a pdb file.
const CAName = "CA"

type Xyz struct{ X, Y, Z float32 }
type XyzSl []Xyz // xyz's are coordinates

// Len and At let a slice of coordinates be used wherever
// geom wants a set of points.
func (xs XyzSl) Len() int      { return len(xs) }
func (xs XyzSl) At(i int) Xyz { return xs[i] }

// Atom is one ATOM or HETATM record.
type Atom struct {
	Name    string // "CA", "N", ...
	AltLoc  byte   // alternate location indicator, ' ' if there is none
	Element string
	Serial  int
	Het     bool
	Xyz
}

// ResKey identifies a residue within a model. It is comparable, so it
// can be used as a map key.
type ResKey struct {
	ChainID string
	Het     bool // hetero residue (ligand, water)
	Num     int  // residue sequence number from the file
	InsCode byte // Insertion code, ' ' if there is none
}

func (k ResKey) String() string {
	h := ""
	if k.Het {
		h = "H_"
	}
	ins := ""
	if k.InsCode != ' ' && k.InsCode != 0 {
		ins = string(k.InsCode)
	}
	return fmt.Sprintf("%s %s%d%s", k.ChainID, h, k.Num, ins)
}

// Residue holds every atom read for one residue, including all
// alternate locations. Nothing is thrown away.
type Residue struct {
	Key   ResKey
	Name  string // three letter name, "ALA"
	Atoms []Atom
}

// AtomByName returns the first atom with the given name. If there are
// alternate locations, this is the first one in the file.
func (r *Residue) AtomByName(name string) (*Atom, bool) {
	for i := range r.Atoms {
		if r.Atoms[i].Name == name {
			return &r.Atoms[i], true
		}
	}
	return nil, false
}

func (r *Residue) String() string {
	return r.Name + " " + r.Key.String()
}

// Chain is a set of residues in the order they appeared in the file.
type Chain struct {
	ChainID  string // Name, like "A" or "B"
	Residues []*Residue
}

// Model is one MODEL from a file. Files without MODEL records have
// one model, numbered 1.
type Model struct {
	MdlNum int
	Chains []*Chain
}

// Residues flattens a model. Chains come in file order and residues
// within each chain in file order.
func (m *Model) Residues() []*Residue {
	var n int
	for _, c := range m.Chains {
		n += len(c.Residues)
	}
	ret := make([]*Residue, 0, n)
	for _, c := range m.Chains {
		ret = append(ret, c.Residues...)
	}
	return ret
}

// NAtom counts atoms over all chains in a model.
func (m *Model) NAtom() (n int) {
	for _, c := range m.Chains {
		for _, r := range c.Residues {
			n += len(r.Atoms)
		}
	}
	return n
}

// This is obviously just a slice of chains, but we have to define a type
// if we want to define a method on it
type ChnSl []*Chain

// ChainNames returns a slice with the names of the chains.
func (chns ChnSl) ChainNames() (ret []string) {
	ret = make([]string, len(chns))
	for i, k := range chns {
		ret[i] = k.ChainID
	}
	return
}
