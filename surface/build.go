// Run pdb_to_xyzr and msms on a structure and collect the vertices.
// Each build works in its own scratch directory, so two builds cannot
// tread on each other's files and cleaning up never needs wildcards.

package surface

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/shirou/gopsutil/disk"
	"github.com/sirupsen/logrus"
)

// ProbeRadius is the solvent probe radius given to msms, in Angstrom.
const ProbeRadius = 1.5

const (
	XyzrDflt = "pdb_to_xyzr"
	MsmsDflt = "msms"
)

// file names inside the scratch directory
const (
	xyzrName = "xyzr"
	surfBase = "surface"
	msmsLog  = "msms.log"
)

const maxToolOutput = 512 // bytes of tool output kept in an error

var (
	ErrEmptySurface = errors.New("surface has no vertices")
	ErrNoSpace      = errors.New("not enough free space for surface files")
)

// Cleanup says what happens to the scratch directory after a build.
type Cleanup byte

const (
	CleanAlways Cleanup = iota // remove it, whatever happened
	KeepOnError                // keep it if the build failed, for looking at
	KeepAlways                 // never remove it
)

var cleanupNames = []string{"always", "onerror", "keep"}

func (c Cleanup) String() string {
	if int(c) < len(cleanupNames) {
		return cleanupNames[c]
	}
	return fmt.Sprintf("Cleanup(%d)", c)
}

// ParseCleanup turns "always", "onerror" or "keep" into a Cleanup.
func ParseCleanup(s string) (Cleanup, error) {
	for i, n := range cleanupNames {
		if strings.EqualFold(s, n) {
			return Cleanup(i), nil
		}
	}
	return CleanAlways, fmt.Errorf("cleanup policy %q, should be one of %s",
		s, strings.Join(cleanupNames, ", "))
}

// Cache can keep surfaces between runs. tag says how the surface was
// made, so a change of program gives a different entry.
type Cache interface {
	Get(structure, tag string) (*Surface, bool, error)
	Put(structure, tag string, s *Surface) error
}

// Options are the choices for building a surface. The zero value
// gives the defaults.
type Options struct {
	XyzrExe   string // coordinate and radius extractor, may carry arguments
	MsmsExe   string // surface triangulator, may carry arguments
	TmpDir    string // where scratch directories go, default os.TempDir()
	Cleanup   Cleanup
	MinFreeMB uint64 // refuse to start with less free space. 0 means no check
	Cache     Cache
	Logger    *logrus.Logger
}

// ToolError is returned when one of the external programs fails.
// Output is the end of what it wrote.
type ToolError struct {
	Tool   string
	Err    error
	Output string
}

func (e *ToolError) Error() string {
	s := e.Tool + ": " + e.Err.Error()
	if e.Output != "" {
		s += "\n" + e.Output
	}
	return s
}

func (e *ToolError) Unwrap() error { return e.Err }

// Builder makes surfaces. It holds no state between builds.
type Builder struct {
	opts Options
	log  *logrus.Logger
}

// NewBuilder fills in defaults for anything not set in opts. opts may
// be nil.
func NewBuilder(opts *Options) *Builder {
	b := &Builder{}
	if opts != nil {
		b.opts = *opts
	}
	if b.opts.XyzrExe == "" {
		b.opts.XyzrExe = XyzrDflt
	}
	if b.opts.MsmsExe == "" {
		b.opts.MsmsExe = MsmsDflt
	}
	if b.opts.TmpDir == "" {
		b.opts.TmpDir = os.TempDir()
	}
	if b.log = b.opts.Logger; b.log == nil {
		b.log = logrus.New()
		b.log.SetLevel(logrus.WarnLevel)
	}
	return b
}

// GetSurface builds a surface with the default programs and options.
func GetSurface(structure string) (*Surface, error) {
	return NewBuilder(nil).Build(structure)
}

// tag describes how surfaces are made, for the cache.
func (b *Builder) tag() string {
	return fmt.Sprintf("%s|%s|%.2f", b.opts.XyzrExe, b.opts.MsmsExe, ProbeRadius)
}

// checkSpace looks at the free space where scratch files will go.
func (b *Builder) checkSpace() error {
	if b.opts.MinFreeMB == 0 {
		return nil
	}
	u, err := disk.Usage(b.opts.TmpDir)
	if err != nil {
		return fmt.Errorf("checking space in %s: %w", b.opts.TmpDir, err)
	}
	const mb = 1024 * 1024
	if free := u.Free / mb; free < b.opts.MinFreeMB {
		return fmt.Errorf("%w: %d MB in %s, want %d MB",
			ErrNoSpace, free, b.opts.TmpDir, b.opts.MinFreeMB)
	}
	return nil
}

// Build runs the two programs on the structure file and reads the
// vertex file msms leaves behind.
func (b *Builder) Build(structure string) (s *Surface, err error) {
	fields := logrus.Fields{"structure": structure}
	if b.opts.Cache != nil {
		s, ok, err := b.opts.Cache.Get(structure, b.tag())
		if err != nil {
			b.log.WithFields(fields).Warnf("surface cache: %v", err)
		} else if ok {
			b.log.WithFields(fields).Debug("surface from cache")
			return s, nil
		}
	}
	if err = b.checkSpace(); err != nil {
		return nil, err
	}
	scratch, err := os.MkdirTemp(b.opts.TmpDir, "resdepth-")
	if err != nil {
		return nil, err
	}
	defer func() { b.cleanup(scratch, err) }()

	xyzr := filepath.Join(scratch, xyzrName)
	if err = b.runXyzr(structure, xyzr); err != nil {
		return nil, err
	}
	base := filepath.Join(scratch, surfBase)
	if err = b.runMsms(xyzr, base, filepath.Join(scratch, msmsLog)); err != nil {
		return nil, err
	}
	if s, err = ReadVert(base + ".vert"); err != nil {
		return nil, err
	}
	if s.Len() == 0 {
		err = fmt.Errorf("%s: %w", structure, ErrEmptySurface)
		return nil, err
	}
	b.log.WithFields(fields).WithField("vertices", s.Len()).Debug("surface built")

	if b.opts.Cache != nil {
		if e := b.opts.Cache.Put(structure, b.tag(), s); e != nil {
			b.log.WithFields(fields).Warnf("surface cache: %v", e)
		}
	}
	return s, nil
}

// cleanup removes the scratch directory, or not, depending on policy.
func (b *Builder) cleanup(scratch string, buildErr error) {
	keep := b.opts.Cleanup == KeepAlways ||
		(b.opts.Cleanup == KeepOnError && buildErr != nil)
	if keep {
		b.log.WithField("dir", scratch).Info("keeping surface scratch files")
		return
	}
	if err := os.RemoveAll(scratch); err != nil {
		b.log.WithField("dir", scratch).Warnf("removing scratch files: %v", err)
	}
}

// command splits an executable string, which may carry its own
// arguments, and adds ours.
func command(exe string, args ...string) *exec.Cmd {
	words := strings.Fields(exe)
	if len(words) == 0 {
		words = []string{exe}
	}
	return exec.Command(words[0], append(words[1:], args...)...)
}

// runXyzr runs the extractor with stdout going to outname.
func (b *Builder) runXyzr(structure, outname string) error {
	fp, err := os.Create(outname)
	if err != nil {
		return err
	}
	var stderr bytes.Buffer
	cmd := command(b.opts.XyzrExe, structure)
	cmd.Stdout = fp
	cmd.Stderr = &stderr
	b.log.WithField("cmd", cmd.String()).Debug("running")
	err = cmd.Run()
	if e := fp.Close(); err == nil && e != nil {
		return e
	}
	if err != nil {
		return &ToolError{Tool: b.opts.XyzrExe, Err: err, Output: tail(stderr.Bytes())}
	}
	return nil
}

// runMsms runs the triangulator. Everything it says goes to logname.
func (b *Builder) runMsms(xyzr, base, logname string) error {
	fp, err := os.Create(logname)
	if err != nil {
		return err
	}
	pr := fmt.Sprintf("%g", ProbeRadius)
	cmd := command(b.opts.MsmsExe, "-probe_radius", pr, "-if", xyzr, "-of", base)
	cmd.Stdout = fp
	cmd.Stderr = fp
	b.log.WithField("cmd", cmd.String()).Debug("running")
	err = cmd.Run()
	if e := fp.Close(); err == nil && e != nil {
		return e
	}
	if err != nil {
		out, _ := readTail(logname)
		return &ToolError{Tool: b.opts.MsmsExe, Err: err, Output: out}
	}
	return nil
}

// tail returns the last few hundred bytes of b.
func tail(b []byte) string {
	if len(b) > maxToolOutput {
		b = b[len(b)-maxToolOutput:]
	}
	return strings.TrimSpace(string(b))
}

func readTail(fname string) (string, error) {
	fp, err := os.Open(fname)
	if err != nil {
		return "", err
	}
	defer fp.Close()
	if info, err := fp.Stat(); err == nil && info.Size() > maxToolOutput {
		fp.Seek(-maxToolOutput, io.SeekEnd)
	}
	b, err := io.ReadAll(fp)
	return tail(b), err
}
