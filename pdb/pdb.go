// This is the upper level for reading PDB files.
// Decide if a file is compressed or not, and what format
// we are going to read. Only the old PDB format is read, since that is
// all pdb_to_xyzr understands. mmcif files are recognised and refused.

package pdb

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/andrew-torda/resdepth/pdb/cmmn"
	"github.com/andrew-torda/resdepth/pdb/zwrap"
)

const (
	oldFmt byte = iota
	mmcifFmt
	unkFmt
)

var (
	ErrMmcif   = errors.New("mmcif format is not supported, convert to pdb format")
	ErrNoAtoms = errors.New("no ATOM or HETATM records found")
)

var log = logrus.New()

func init() { log.SetLevel(logrus.WarnLevel) }

// SetLogger replaces the package logger. nil is ignored.
func SetLogger(l *logrus.Logger) {
	if l != nil {
		log = l
	}
}

// comparefirst says if two words are the same, looking at
// the length of the shorter
func comparefirst(s, t string) bool {
	l := len(s)
	if len(t) < l {
		l = len(t)
	}
	return l > 0 && s[:l] == t[:l]
}

// lookInReader guesses from the first lines if we have old PDB format
// or mmcif.
func lookInReader(rdr io.Reader) byte {
	pdbWords := []string{"HEADER", "COMPND", "SOURCE", "REMARK", "SEQRES", "HETATM", "ATOM  ", "MODEL "}
	mmcifWords := []string{"data_", "loop_", "_entry.id"}
	const maxTestLines = 5000
	scnnr := newLineScanner(rdr)
	for i := 0; scnnr.Scan() && i < maxTestLines; i++ {
		s := scnnr.Text()
		if len(s) < 4 {
			continue
		}
		for _, w := range mmcifWords {
			if comparefirst(s, w) {
				return mmcifFmt
			}
		}
		for _, w := range pdbWords {
			if comparefirst(s, w) {
				return oldFmt
			}
		}
	}
	return unkFmt
}

// oldOrMmcif decides what format we have. First look at the name.
// We cannot use the function from filepath to get the file type,
// since it will return .gz if we feed it a.pdb.gz. If the name
// says nothing, look in the file.
func oldOrMmcif(fname string) (byte, error) {
	s := filepath.Base(fname)
	if i := strings.IndexByte(s, '.'); i != -1 {
		s = strings.ToLower(s[i+1:]) // change .ent to ent
		if strings.Contains(s, "cif") {
			return mmcifFmt, nil
		} else if strings.Contains(s, "pdb") || strings.Contains(s, "ent") {
			return oldFmt, nil
		}
	}
	rdr, err := openMaybeGz(fname)
	if err != nil {
		return unkFmt, err
	}
	defer rdr.Close()
	if t := lookInReader(rdr); t != unkFmt {
		return t, nil
	}
	return unkFmt, errors.New(fname + ": cannot recognise format")
}

// openMaybeGz opens a file and puts a decompressor in front if
// the contents are gzipped.
func openMaybeGz(fname string) (io.ReadCloser, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return nil, err
	}
	rdr, err := zwrap.WrapMaybe(fp)
	if err != nil {
		fp.Close()
		return nil, fmt.Errorf("reading %s: %w", fname, err)
	}
	return rdr, nil
}

// ReadModels reads every model from a pdb file, which may be gzipped.
func ReadModels(fname string) ([]*cmmn.Model, error) {
	typ, err := oldOrMmcif(fname)
	if err != nil {
		return nil, err
	}
	if typ == mmcifFmt {
		return nil, fmt.Errorf("%s: %w", fname, ErrMmcif)
	}
	rdr, err := openMaybeGz(fname)
	if err != nil {
		return nil, err
	}
	defer rdr.Close()
	mdls, err := ReadModelsRdr(rdr)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", fname, err)
	}
	for _, m := range mdls {
		log.WithFields(logrus.Fields{
			"file":   fname,
			"model":  m.MdlNum,
			"chains": cmmn.ChnSl(m.Chains).ChainNames(),
			"atoms":  m.NAtom(),
		}).Debug("read model")
	}
	return mdls, nil
}

// ReadModel returns the first model in a file. This is the one
// residue depth is calculated for.
func ReadModel(fname string) (*cmmn.Model, error) {
	mdls, err := ReadModels(fname)
	if err != nil {
		return nil, err
	}
	return mdls[0], nil
}

// Uncompressed returns the name of an uncompressed version of fname.
// If fname is not gzipped, that is fname itself. Otherwise it is
// decompressed into dir. External programs cannot read gzipped files.
func Uncompressed(fname, dir string) (string, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return "", err
	}
	rdr, err := zwrap.WrapMaybe(fp)
	if err != nil {
		fp.Close()
		return "", fmt.Errorf("reading %s: %w", fname, err)
	}
	defer rdr.Close()
	if !rdr.Gzipped() {
		return fname, nil
	}
	outname := filepath.Join(dir, strings.TrimSuffix(filepath.Base(fname), ".gz"))
	if outname == filepath.Join(dir, filepath.Base(fname)) {
		outname += ".pdb"
	}
	if err := writeFile(outname, rdr); err != nil {
		return "", err
	}
	log.WithFields(logrus.Fields{"file": fname, "to": outname}).Debug("uncompressed")
	return outname, nil
}
