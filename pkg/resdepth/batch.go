// Work through many structures at once. Names go down a channel to a
// few reader goroutines. Results are written in the order the names
// were given, whatever order they finish in.

package resdepth

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strconv"
	"strings"
	"sync"

	"github.com/sirupsen/logrus"
)

const nReaderDflt = 3 // Default number of structures worked on at once

type job struct {
	i    int
	name string
}

// result is the output for one structure.
type result struct {
	out bytes.Buffer
	err error
}

// readStructs takes jobs from a channel until it is closed.
func (r *runner) readStructs(jobs <-chan job, res []result, wg *sync.WaitGroup) {
	defer wg.Done()
	for j := range jobs {
		idx, err := r.index(j.name)
		if err != nil {
			res[j.i].err = fmt.Errorf("%s: %w", j.name, err)
			r.log.WithField("file", j.name).Warn(err)
			continue
		}
		if r.flags.Plot != "" {
			if err := writePlot(plotName(r.flags.Plot, j.i), idx, j.name); err != nil {
				res[j.i].err = fmt.Errorf("%s: %w", j.name, err)
				continue
			}
		}
		fmt.Fprintln(&res[j.i].out, "#", j.name)
		wrtIndex(&res[j.i].out, idx)
	}
}

// plotName numbers the plot files in batch mode, so depth.png becomes
// depth_1.png, depth_2.png and so on, following the order of names.
func plotName(fname string, i int) string {
	ext := filepath.Ext(fname)
	return strings.TrimSuffix(fname, ext) + "_" + strconv.Itoa(i+1) + ext
}

// Batch is Mymain for a list of structures. Each block of output starts
// with a line "# name". With a plot file name, each structure gets its
// own numbered plot. A structure that fails does not stop the
// others. The errors are returned together at the end.
func Batch(flags *CmdFlag, names []string, out io.Writer) error {
	r, err := newRunner(flags)
	if err != nil {
		return err
	}
	defer r.close()

	nReader := flags.NReader
	if nReader <= 0 {
		nReader = nReaderDflt
	}
	nReader = min(nReader, len(names))
	r.log.WithFields(logrus.Fields{"structures": len(names), "readers": nReader}).Debug("batch")

	res := make([]result, len(names))
	jobs := make(chan job)
	var wg sync.WaitGroup
	for i := 0; i < nReader; i++ {
		wg.Add(1)
		go r.readStructs(jobs, res, &wg)
	}
	for i, name := range names {
		jobs <- job{i, name}
	}
	close(jobs)
	wg.Wait()

	var errs []error
	for i := range res {
		if res[i].err != nil {
			errs = append(errs, res[i].err)
			continue
		}
		if _, err := res[i].out.WriteTo(out); err != nil {
			return err
		}
	}
	return errors.Join(errs...)
}
