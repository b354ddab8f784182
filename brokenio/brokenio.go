// brokenio is a wrapper around an io.ReadCloser. It lets tests see what
// happens when reading a file goes wrong part of the way through.
// Typical use: You get a file pointer or an http body. You write
// reader = brokenio.NewReader(reader) to wrap the old reader. Everything
// then functions as before, until the failure point.
// A reader can also pretend the source is empty, which is what one
// sees when an external program died before writing anything.

package brokenio

import (
	"errors"
	"io"
	"math/rand"
)

// ErrBroken is the error returned once a reader has been broken.
var ErrBroken = errors.New("brokenio: artificial read failure")

// BrknRdrClsr is modelled on the various Readers in the standard library,
// but with settings controlling when it fails.
type BrknRdrClsr struct {
	rdr_orig     io.ReadCloser // Wrapped reader
	probZeroFile float32       // Probability of returning a zero length file
	failAfter    int           // fail once this many bytes have gone through, -1 never
	nCalled      int
	nByte        int
}

// SetFailAfter says how many bytes are passed through before we
// return ErrBroken. A negative value means never fail.
func (r *BrknRdrClsr) SetFailAfter(n int) { r.failAfter = n }

// SetProbZeroFile sets the rate at which we simply return 0 bytes on the
// first read. It must be a value from 0 to 1. We do not check if the
// argument is valid.
func (r *BrknRdrClsr) SetProbZeroFile(prob float32) { r.probZeroFile = prob }

// NewReader returns a new Reader - a wrapper around the old one.
// Until told otherwise, it never fails.
func NewReader(rIn io.ReadCloser) *BrknRdrClsr {
	return &BrknRdrClsr{rdr_orig: rIn, failAfter: -1}
}

// Read passes data through until failAfter bytes have been read, then
// returns what is left of the allowance and ErrBroken.
func (r *BrknRdrClsr) Read(p []byte) (n int, err error) {
	if len(p) == 0 {
		return 0, nil
	}
	if r.nCalled == 0 && r.probZeroFile > 0 {
		if rand.Float32() < r.probZeroFile {
			r.nCalled++
			return 0, io.EOF
		}
	}
	r.nCalled++
	if r.failAfter >= 0 {
		left := r.failAfter - r.nByte
		if left <= 0 {
			return 0, ErrBroken
		}
		if len(p) > left {
			p = p[:left]
		}
	}
	n, err = r.rdr_orig.Read(p)
	r.nByte += n
	return n, err
}

// Close wraps the original Close method.
func (r *BrknRdrClsr) Close() error {
	return r.rdr_orig.Close()
}
