// 12 Oct 2026

package resdepth

import (
	"bufio"
	"fmt"
	"io"
	"os"

	"github.com/sirupsen/logrus"

	"github.com/andrew-torda/resdepth/depth"
	"github.com/andrew-torda/resdepth/pdb"
	"github.com/andrew-torda/resdepth/plot"
	"github.com/andrew-torda/resdepth/surface"
	"github.com/andrew-torda/resdepth/surface/cache"
)

// CmdFlag is literally command line flags after parsing
type CmdFlag struct {
	Config   string // yaml file
	Xyzr     string // pdb_to_xyzr program
	Msms     string // msms program
	Cleanup  string // what to do with scratch files
	CacheDir string // keep surfaces here
	Plot     string // write a png depth profile here
	NReader  int    // structures worked on at once in batch mode
	Fetch    bool   // the arguments are pdb codes, not files
	Verbose  bool
}

// newLogger is quiet unless asked not to be.
func newLogger(verbose bool, w io.Writer) *logrus.Logger {
	log := logrus.New()
	log.SetOutput(w)
	log.SetLevel(logrus.WarnLevel)
	if verbose {
		log.SetLevel(logrus.DebugLevel)
	}
	return log
}

// runner has what is shared by every structure in one run.
type runner struct {
	flags *CmdFlag
	log   *logrus.Logger
	bldr  *surface.Builder
	cache *cache.Cache
}

func newRunner(flags *CmdFlag) (*runner, error) {
	r := &runner{flags: flags, log: newLogger(flags.Verbose, os.Stderr)}
	pdb.SetLogger(r.log)

	var cfg Config
	if flags.Config != "" {
		var err error
		if cfg, err = ReadConfig(flags.Config); err != nil {
			return nil, err
		}
	}
	cfg.merge(flags)
	opts, err := cfg.surfOpts()
	if err != nil {
		return nil, err
	}
	opts.Logger = r.log
	if cfg.CacheDir != "" {
		if r.cache, err = cache.Open(cfg.CacheDir, r.log); err != nil {
			return nil, err
		}
		opts.Cache = r.cache
	}
	r.bldr = surface.NewBuilder(&opts)
	return r, nil
}

func (r *runner) close() {
	if r.cache != nil {
		if err := r.cache.Close(); err != nil {
			r.log.Warnf("closing cache: %v", err)
		}
	}
}

// getFile returns the name of a plain pdb file the external programs
// can read. If the argument is a code, we download it. If the file is
// gzipped, it is decompressed. Anything made goes in a temporary
// directory which goes away when done is called.
func getFile(flags *CmdFlag, arg string) (fname string, done func(), err error) {
	dir, err := os.MkdirTemp("", "resdepth-pdb-")
	if err != nil {
		return "", nil, err
	}
	done = func() { os.RemoveAll(dir) }
	fname = arg
	if flags.Fetch {
		if fname, err = pdb.Fetch(arg, dir); err != nil {
			done()
			return "", nil, err
		}
	}
	if fname, err = pdb.Uncompressed(fname, dir); err != nil {
		done()
		return "", nil, err
	}
	return fname, done, nil
}

// index reads a structure and calculates depths for its first model.
func (r *runner) index(arg string) (*depth.Index, error) {
	fname, done, err := getFile(r.flags, arg)
	if err != nil {
		return nil, err
	}
	defer done()

	model, err := pdb.ReadModel(fname)
	if err != nil {
		return nil, err
	}
	idx, err := depth.NewIndex(model, fname, r.bldr)
	if err != nil {
		return nil, err
	}
	r.log.WithFields(logrus.Fields{"file": arg, "residues": idx.Len()}).Debug("depths done")
	return idx, nil
}

// wrtIndex writes one line per residue.
func wrtIndex(w io.Writer, idx *depth.Index) {
	for res, d := range idx.All() {
		fmt.Fprintln(w, res, d)
	}
}

// Mymain reads a structure, calculates depths for the first model and
// writes one line per residue to out.
func Mymain(flags *CmdFlag, infile string, out io.Writer) error {
	r, err := newRunner(flags)
	if err != nil {
		return err
	}
	defer r.close()

	idx, err := r.index(infile)
	if err != nil {
		return err
	}
	w := bufio.NewWriter(out)
	wrtIndex(w, idx)
	if err := w.Flush(); err != nil {
		return err
	}
	if flags.Plot != "" {
		return writePlot(flags.Plot, idx, infile)
	}
	return nil
}

func writePlot(fname string, idx *depth.Index, title string) error {
	fp, err := os.Create(fname)
	if err != nil {
		return err
	}
	if err := plot.Profile(fp, idx.Entries(), plot.Options{Title: title}); err != nil {
		fp.Close()
		return err
	}
	return fp.Close()
}
