// Package zwrap takes a reader, like a file pointer or an http body,
// and wraps it so reads are decompressed if the data is gzipped.
// Close closes the decompressor, followed by the underlying source.
package zwrap

import (
	"bufio"
	"compress/gzip"
	"errors"
	"io"
)

var gzMagic = []byte{0x1f, 0x8b}

type FpGzip struct { // This is what we return.
	fp   io.ReadCloser
	brdr *bufio.Reader
	zrdr *gzip.Reader
}

// Close closes the decompressor, then the underlying backing readCloser.
func (fc *FpGzip) Close() error {
	var err error
	if fc.zrdr != nil {
		err = fc.zrdr.Close()
	}
	return errors.Join(err, fc.fp.Close())
}

// Read makes sure we read from the compressed stream if there is one.
func (fc *FpGzip) Read(p []byte) (int, error) {
	if fc.zrdr != nil {
		return fc.zrdr.Read(p)
	}
	return fc.brdr.Read(p)
}

// Gzipped says whether the source turned out to be compressed.
func (fc *FpGzip) Gzipped() bool { return fc.zrdr != nil }

// WrapMaybe peeks at the first two bytes. If they are the gzip magic
// number, reads go through a decompressor, otherwise straight through.
// The source does not have to be able to seek.
func WrapMaybe(fp io.ReadCloser) (*FpGzip, error) {
	fpz := &FpGzip{fp: fp, brdr: bufio.NewReader(fp)}
	b, err := fpz.brdr.Peek(len(gzMagic))
	if err != nil && err != io.EOF {
		return nil, err
	}
	if len(b) == len(gzMagic) && b[0] == gzMagic[0] && b[1] == gzMagic[1] {
		if fpz.zrdr, err = gzip.NewReader(fpz.brdr); err != nil {
			return nil, err
		}
	}
	return fpz, nil
}
