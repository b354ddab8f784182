// Go to a pdb website and download coordinates in old pdb format.
// The main point is to get a local file which can be given to
// pdb_to_xyzr, since it will not read from the web.
package pdb

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/andrew-torda/resdepth/pdb/zwrap"
)

// Site says where to find a structure. The url is
// base + code + suffix.
type Site struct {
	URLBase   string
	URLSuffix string
	Lower     bool // wants the code in lower case
}

// Sites are the places we know about. Compressed or not does not
// matter, since zwrap looks at the data.
var Sites = []Site{
	{"https://files.rcsb.org/download/", ".pdb.gz", false},
	{"https://www.ebi.ac.uk/pdbe/entry-files/download/pdb", ".ent", true},
}

// getHTTP is given a four letter pdb code. It goes to the protein data
// bank and should return a reader.
// If siteNum is too big, we use a modulo to wrap it around, rather than
// generate an error. This makes it easier to cycle through them.
func getHTTP(acqCode string, siteNum int) (io.ReadCloser, error) {
	if len(acqCode) != 4 {
		return nil, errors.New("acq code should be four char, not " + acqCode)
	}
	site := Sites[siteNum%len(Sites)]
	code := strings.ToUpper(acqCode)
	if site.Lower {
		code = strings.ToLower(acqCode)
	}
	url := site.URLBase + code + site.URLSuffix

	resp, err := http.Get(url)
	if err != nil {
		return nil, err
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("wanted %s using %s, got %s", acqCode, url, resp.Status)
	}
	log.WithFields(logrus.Fields{"code": acqCode, "url": url}).Debug("downloading")

	rdr, err := zwrap.WrapMaybe(resp.Body)
	if err != nil {
		resp.Body.Close()
		return nil, err
	}
	return rdr, nil
}

// Fetch downloads a structure and writes it, uncompressed, to
// dir/code.pdb. It returns the file name. Sites are tried in order
// until one works.
func Fetch(acqCode, dir string) (string, error) {
	var errs []error
	for i := range Sites {
		rdr, err := getHTTP(acqCode, i)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		fname := filepath.Join(dir, strings.ToLower(acqCode)+".pdb")
		err = writeFile(fname, rdr)
		rdr.Close()
		if err != nil {
			return "", err
		}
		return fname, nil
	}
	return "", errors.Join(errs...)
}

func writeFile(fname string, rdr io.Reader) error {
	fp, err := os.Create(fname)
	if err != nil {
		return err
	}
	if _, err = io.Copy(fp, rdr); err != nil {
		fp.Close()
		return fmt.Errorf("writing %s: %w", fname, err)
	}
	return fp.Close()
}
