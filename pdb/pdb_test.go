package pdb_test

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	. "github.com/andrew-torda/resdepth/pdb"
	"github.com/andrew-torda/resdepth/pdb/cmmn"
)

var testdir = "testdata"

// TestBrokenFile checks if we get sensible error messages when we open
// something that is not a pdb file.
func TestBrokenFile(t *testing.T) {
	testfiles := []string{
		"/does/not/exist",
		filepath.Join(testdir, "ememcif"),
		os.Args[0],
	}
	for _, s := range testfiles {
		mdls, err := ReadModels(s)
		if mdls != nil {
			t.Error("models should be nil")
		}
		if err == nil {
			t.Error("Did not get expected error on", s)
		}
	}
	if _, err := ReadModels(filepath.Join(testdir, "ememcif")); !errors.Is(err, ErrMmcif) {
		t.Errorf("wanted ErrMmcif, got %v", err)
	}
}

var fnameTypes = []struct {
	fname string
	ftype byte
}{
	{"boo.mmcif", Mmcif_fmt},
	{"boo.cif.gz", Mmcif_fmt},
	{"a/b/c.ent", Old_fmt},
	{"a.ent.gz", Old_fmt},
	{"a.pdb", Old_fmt},
	{"a.pdb.gz", Old_fmt},
	{"testdata/ememcif", Mmcif_fmt},
	{"testdata/peedeebee", Old_fmt},
}

func TestOldOrMmcif(t *testing.T) {
	for _, f := range fnameTypes {
		r, err := OldOrMmcif(f.fname)
		if err != nil {
			t.Error("unexpected problem in ", t.Name(), err)
		}
		if r != f.ftype {
			t.Error("in", t.Name(), "working on ", f.fname)
		}
	}
}

func checkSmall(t *testing.T, m *cmmn.Model) {
	t.Helper()
	if m.MdlNum != 1 {
		t.Errorf("model number %d", m.MdlNum)
	}
	if names := cmmn.ChnSl(m.Chains).ChainNames(); strings.Join(names, "") != "AB" {
		t.Errorf("chains %v", names)
	}
	res := m.Residues()
	want := []struct {
		name  string
		key   string
		natom int
	}{
		{"GLY", "A 1", 3},
		{"SER", "A 2", 3},
		{"ALA", "A 2A", 2},
		{"LYS", "B 10", 2},
		{"HOH", "B H_101", 1},
	}
	if len(res) != len(want) {
		t.Fatalf("got %d residues wanted %d", len(res), len(want))
	}
	for i, w := range want {
		r := res[i]
		if r.Name != w.name || r.Key.String() != w.key || len(r.Atoms) != w.natom {
			t.Errorf("residue %d got %s %s %d atoms, wanted %s %s %d",
				i, r.Name, r.Key, len(r.Atoms), w.name, w.key, w.natom)
		}
	}
	ca, ok := res[1].AtomByName(cmmn.CAName)
	if !ok || ca.AltLoc != 'A' || ca.Y != 0 {
		t.Errorf("SER CA should be altloc A, got %+v", ca)
	}
	if n := res[3].Atoms[1]; n.Name != "CB" || n.X != -1.5 || n.Z != -3.5 || n.Element != "C" {
		t.Errorf("LYS CB read as %+v", n)
	}
	if !res[4].Atoms[0].Het || res[4].Atoms[0].Serial != 11 {
		t.Errorf("water %+v", res[4].Atoms[0])
	}
}

func TestReadModel(t *testing.T) {
	for _, f := range []string{"small.pdb", "small.pdb.gz"} {
		m, err := ReadModel(filepath.Join(testdir, f))
		if err != nil {
			t.Fatal(f, err)
		}
		checkSmall(t, m)
	}
}

func TestTwoModels(t *testing.T) {
	mdls, err := ReadModels(filepath.Join(testdir, "twomodel.pdb"))
	if err != nil {
		t.Fatal(err)
	}
	if len(mdls) != 2 {
		t.Fatalf("got %d models", len(mdls))
	}
	if mdls[0].MdlNum != 1 || mdls[1].MdlNum != 2 {
		t.Errorf("model numbers %d %d", mdls[0].MdlNum, mdls[1].MdlNum)
	}
	if n := len(mdls[1].Residues()); n != 2 {
		t.Errorf("second model has %d residues", n)
	}
}

func TestBadRecords(t *testing.T) {
	bad := []string{
		"ATOM      1  CA  GLY A   1       1.000   0.000",
		"ATOM      1  CA  GLY A   1       1.000   x.000   0.000",
		"ATOM      1  CA  GLY A   Q       1.000   0.000   0.000",
		"REMARK nothing here\n",
	}
	for _, s := range bad {
		if _, err := ReadModelsRdr(strings.NewReader(s)); err == nil {
			t.Errorf("no error on %q", s)
		}
	}
}

func TestUncompressed(t *testing.T) {
	dir := t.TempDir()
	for _, fname := range []string{"testdata/small.pdb", "testdata/small.pdb.gz"} {
		got, err := Uncompressed(fname, dir)
		if err != nil {
			t.Fatal(fname, err)
		}
		if fname == "testdata/small.pdb" && got != fname {
			t.Errorf("plain file %s came back as %s", fname, got)
		}
		if fname == "testdata/small.pdb.gz" && filepath.Base(got) != "small.pdb" {
			t.Errorf("gzipped file %s came back as %s", fname, got)
		}
		m, err := ReadModel(got)
		if err != nil {
			t.Fatal(err)
		}
		checkSmall(t, m)
	}
	if _, err := Uncompressed("testdata/notexist", dir); err == nil {
		t.Error("missing file should be an error")
	}
}
