// Package cache keeps msms surfaces in a badger database, so a
// structure only goes through the external programs once.
//
// The key is an xxhash of the structure file contents and the tag
// describing how the surface was made. The value is the list of
// vertices as a packed protobuf field of fixed32, lzma compressed.
package cache

import (
	"bytes"
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"math"
	"os"

	"github.com/cespare/xxhash/v2"
	"github.com/dgraph-io/badger/v4"
	"github.com/sirupsen/logrus"
	"github.com/ulikunitz/xz/lzma"
	"google.golang.org/protobuf/encoding/protowire"

	"github.com/andrew-torda/resdepth/pdb/cmmn"
	"github.com/andrew-torda/resdepth/surface"
)

const (
	keyPrefix  = "surf/"
	fieldCoord = protowire.Number(1) // x y z x y z ...
)

var ErrCorrupt = errors.New("corrupt cache entry")

var _ surface.Cache = (*Cache)(nil)

// Cache is a surface.Cache on disk. It is safe for concurrent use.
type Cache struct {
	db  *badger.DB
	log *logrus.Logger
}

// Open opens or creates a cache in dir. logger may be nil.
func Open(dir string, logger *logrus.Logger) (*Cache, error) {
	if logger == nil {
		logger = logrus.New()
		logger.SetLevel(logrus.WarnLevel)
	}
	opts := badger.DefaultOptions(dir).WithLogger(logger)
	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("opening surface cache %s: %w", dir, err)
	}
	return &Cache{db: db, log: logger}, nil
}

// Close closes the database.
func (c *Cache) Close() error { return c.db.Close() }

// key hashes the contents of the structure file with the tag.
func key(structure, tag string) ([]byte, error) {
	fp, err := os.Open(structure)
	if err != nil {
		return nil, err
	}
	defer fp.Close()
	h := xxhash.New()
	if _, err := io.Copy(h, fp); err != nil {
		return nil, err
	}
	h.WriteString("\x00" + tag)
	return binary.BigEndian.AppendUint64([]byte(keyPrefix), h.Sum64()), nil
}

// Get looks for a surface. A miss is not an error.
func (c *Cache) Get(structure, tag string) (*surface.Surface, bool, error) {
	k, err := key(structure, tag)
	if err != nil {
		return nil, false, err
	}
	var val []byte
	err = c.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(k)
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		c.log.WithField("structure", structure).Debug("surface cache miss")
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	s, err := decode(val)
	if err != nil {
		return nil, false, err
	}
	c.log.WithFields(logrus.Fields{"structure": structure, "vertices": s.Len()}).Debug("surface cache hit")
	return s, true, nil
}

// Put stores a surface.
func (c *Cache) Put(structure, tag string, s *surface.Surface) error {
	k, err := key(structure, tag)
	if err != nil {
		return err
	}
	val, err := encode(s)
	if err != nil {
		return err
	}
	return c.db.Update(func(txn *badger.Txn) error {
		return txn.Set(k, val)
	})
}

// encode writes the coordinates as one packed repeated fixed32 field
// and compresses the result.
func encode(s *surface.Surface) ([]byte, error) {
	packed := make([]byte, 0, 12*s.Len())
	for i := 0; i < s.Len(); i++ {
		v := s.At(i)
		packed = protowire.AppendFixed32(packed, math.Float32bits(v.X))
		packed = protowire.AppendFixed32(packed, math.Float32bits(v.Y))
		packed = protowire.AppendFixed32(packed, math.Float32bits(v.Z))
	}
	msg := protowire.AppendTag(nil, fieldCoord, protowire.BytesType)
	msg = protowire.AppendBytes(msg, packed)

	var buf bytes.Buffer
	w, err := lzma.NewWriter(&buf)
	if err != nil {
		return nil, err
	}
	if _, err = w.Write(msg); err != nil {
		return nil, err
	}
	if err = w.Close(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func decode(val []byte) (*surface.Surface, error) {
	r, err := lzma.NewReader(bytes.NewReader(val))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	msg, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	var xyz cmmn.XyzSl
	for len(msg) > 0 {
		num, typ, n := protowire.ConsumeTag(msg)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, protowire.ParseError(n))
		}
		msg = msg[n:]
		if num != fieldCoord || typ != protowire.BytesType {
			n = protowire.ConsumeFieldValue(num, typ, msg)
			if n < 0 {
				return nil, fmt.Errorf("%w: %v", ErrCorrupt, protowire.ParseError(n))
			}
			msg = msg[n:]
			continue
		}
		packed, n := protowire.ConsumeBytes(msg)
		if n < 0 {
			return nil, fmt.Errorf("%w: %v", ErrCorrupt, protowire.ParseError(n))
		}
		msg = msg[n:]
		if len(packed)%12 != 0 {
			return nil, fmt.Errorf("%w: %d bytes of coordinates", ErrCorrupt, len(packed))
		}
		for len(packed) > 0 {
			var v [3]float32
			for i := range v {
				u, m := protowire.ConsumeFixed32(packed)
				if m < 0 {
					return nil, fmt.Errorf("%w: %v", ErrCorrupt, protowire.ParseError(m))
				}
				v[i] = math.Float32frombits(u)
				packed = packed[m:]
			}
			xyz = append(xyz, cmmn.Xyz{X: v[0], Y: v[1], Z: v[2]})
		}
	}
	return surface.New(xyz), nil
}
