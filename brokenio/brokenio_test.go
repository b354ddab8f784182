package brokenio_test

import (
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/andrew-torda/resdepth/brokenio"
)

var longstring = "0123456789012345678901234567890123456789"

func newRdr(s string) *brokenio.BrknRdrClsr {
	return brokenio.NewReader(io.NopCloser(strings.NewReader(s)))
}

func TestNeverFail(t *testing.T) {
	b, err := io.ReadAll(newRdr(longstring))
	if err != nil {
		t.Fatal(err)
	}
	if string(b) != longstring {
		t.Errorf("got %s", b)
	}
}

// TestFailAfter reads with different buffer sizes and checks we get
// exactly n bytes before the error.
func TestFailAfter(t *testing.T) {
	for _, n := range []int{0, 1, 7, 39} {
		for _, bufsize := range []int{1, 5, 64} {
			rdr := newRdr(longstring)
			rdr.SetFailAfter(n)
			buf := make([]byte, bufsize)
			var got []byte
			var err error
			for err == nil {
				var m int
				m, err = rdr.Read(buf)
				got = append(got, buf[:m]...)
			}
			if !errors.Is(err, brokenio.ErrBroken) {
				t.Errorf("n %d bufsize %d: got error %v", n, bufsize, err)
			}
			if string(got) != longstring[:n] {
				t.Errorf("n %d bufsize %d: got %q", n, bufsize, got)
			}
		}
	}
}

func TestZeroFile(t *testing.T) {
	rdr := newRdr(longstring)
	rdr.SetProbZeroFile(1)
	b, err := io.ReadAll(rdr)
	if err != nil || len(b) != 0 {
		t.Errorf("wanted empty file, got %d bytes err %v", len(b), err)
	}
	if err := rdr.Close(); err != nil {
		t.Error(err)
	}
}
