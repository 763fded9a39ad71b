// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package zlib reads the zlib file format, RFC 1950, as a façade over the
// raw DEFLATE decoder in github.com/Jpn666/deflate/inflate. Framing and
// checksum handling here follow zstrm.c's parsezlibhead/checkzlibtail.
package zlib

import (
	"bufio"
	"errors"
	"fmt"
	"hash"
	"hash/adler32"
	"io"

	"github.com/Jpn666/deflate/capnslog"
	"github.com/Jpn666/deflate/inflate"
)

var plog = capnslog.NewPackageLogger("github.com/Jpn666/deflate", "zlib")

const (
	zlibDeflate = 8
	zlibMaxCM   = 7 // CINFO above 7 is not a valid DEFLATE window size per RFC 1950
)

var (
	// ErrHeader is returned when the 2-byte CMF/FLG header is malformed,
	// or fails its check-bits (CMF*256+FLG) mod 31 == 0.
	ErrHeader = errors.New("zlib: invalid header")
	// ErrChecksum is returned when the trailing Adler-32 does not match.
	ErrChecksum = errors.New("zlib: invalid checksum")
	// ErrDictionary is returned by Reset/NewReaderDict when the supplied
	// dictionary's Adler-32 does not match the id embedded in the stream.
	ErrDictionary = errors.New("zlib: dictionary mismatch")
)

// A Resetter can be reinitialized to read a new zlib stream, optionally
// reusing internal buffers.
type Resetter interface {
	Reset(r io.Reader, dict []byte) error
}

// Reader decompresses a zlib stream as it is read.
type Reader struct {
	r       *bufio.Reader
	dec     *flateReader
	digest  hash.Hash32
	dictID  uint32
	needID  bool
	err     error
	buf     [4]byte
	pending []byte // bytes already pulled from r by dec but not consumed by it
}

// fill reads exactly len(buf) bytes, first from any carry-over pending
// bytes dec's read-ahead left behind, then from the underlying reader.
func (z *Reader) fill(buf []byte) error {
	n := copy(buf, z.pending)
	z.pending = z.pending[n:]
	if n < len(buf) {
		if _, err := io.ReadFull(z.r, buf[n:]); err != nil {
			return err
		}
	}
	return nil
}

// NewReader opens a Reader over r, with no preset dictionary. If the
// stream's header sets FDICT, Read returns ErrDictionary; use
// NewReaderDict instead.
func NewReader(r io.Reader) (*Reader, error) {
	return NewReaderDict(r, nil)
}

// NewReaderDict is like NewReader but uses a preset dictionary. The
// dictionary's Adler-32 checksum must match the id embedded in the
// stream's header, or ErrDictionary is returned.
func NewReaderDict(r io.Reader, dict []byte) (*Reader, error) {
	z := &Reader{r: bufio.NewReader(r), digest: adler32.New()}
	if err := z.readHeader(dict); err != nil {
		return nil, err
	}
	return z, nil
}

func (z *Reader) readHeader(dict []byte) error {
	if _, err := io.ReadFull(z.r, z.buf[:2]); err != nil {
		return err
	}
	cmf, flg := z.buf[0], z.buf[1]
	if cmf&0x0f != zlibDeflate || cmf>>4 > zlibMaxCM {
		plog.Warningf("zlib: unsupported CMF byte %#x", cmf)
		return ErrHeader
	}
	if (uint16(cmf)<<8+uint16(flg))%31 != 0 {
		return ErrHeader
	}
	if flg&0x20 != 0 { // FDICT
		if _, err := io.ReadFull(z.r, z.buf[:4]); err != nil {
			return err
		}
		z.dictID = uint32(z.buf[0])<<24 | uint32(z.buf[1])<<16 | uint32(z.buf[2])<<8 | uint32(z.buf[3])
		if dict == nil {
			z.needID = true
		} else {
			sum := adler32.Checksum(dict)
			if sum != z.dictID {
				return ErrDictionary
			}
		}
	}
	z.dec = newFlateReader(z.r, z.pending)
	z.pending = nil
	if dict != nil {
		if err := z.dec.z.SetDictionary(dict); err != nil {
			return fmt.Errorf("zlib: %w", err)
		}
	}
	return nil
}

// Reset discards z's state and reinitializes it to read a new zlib stream
// from r. A non-nil dict is installed as the preset dictionary, and is
// checked against the stream's dictionary id when the stream sets FDICT.
func (z *Reader) Reset(r io.Reader, dict []byte) error {
	z.r = bufio.NewReader(r)
	if z.digest == nil {
		z.digest = adler32.New()
	} else {
		z.digest.Reset()
	}
	z.err = nil
	z.needID = false
	z.pending = nil
	z.dec = nil
	return z.readHeader(dict)
}

// Read implements io.Reader, decompressing into p.
func (z *Reader) Read(p []byte) (n int, err error) {
	if z.err != nil {
		return 0, z.err
	}
	if z.needID {
		z.err = ErrDictionary
		return 0, z.err
	}
	if len(p) == 0 {
		return 0, nil
	}

	for n == 0 {
		var derr error
		n, derr = z.dec.Read(p)
		z.digest.Write(p[:n])
		if derr != io.EOF {
			if derr != nil {
				derr = fmt.Errorf("zlib: %w", derr)
			}
			z.err = derr
			return n, derr
		}

		// dec may have read ahead past the end of the compressed payload;
		// whatever it didn't consume belongs to the Adler-32 trailer.
		if lo := z.dec.leftover(); len(lo) > 0 {
			z.pending = append(lo, z.pending...)
		}

		if err := z.fill(z.buf[:4]); err != nil {
			z.err = err
			return n, err
		}
		// RFC 1950 Adler-32 is stored big-endian, unlike gzip's little-endian CRC.
		want := uint32(z.buf[0])<<24 | uint32(z.buf[1])<<16 | uint32(z.buf[2])<<8 | uint32(z.buf[3])
		if z.digest.Sum32() != want {
			plog.Warningf("zlib: adler32 mismatch (got %x want %x)", z.digest.Sum32(), want)
			z.err = ErrChecksum
			return n, z.err
		}
		z.err = io.EOF
		return n, io.EOF
	}
	return n, nil
}

// flateReader adapts the pull-based inflate.Inflator to io.Reader. chunk and
// leftover let the caller recover whatever dec didn't consume out of the
// last chunk pulled from src, instead of it being silently dropped — it may
// run past the end of the compressed payload into the Adler-32 trailer.
type flateReader struct {
	z     *inflate.Inflator
	src   io.Reader
	inbuf []byte
	chunk []byte // last slice handed to z.SetSource
	final bool
	done  bool
}

// newFlateReader builds a flateReader pulling from r, first decoding seed
// (bytes already read from r by a previous consumer) before pulling more.
func newFlateReader(r io.Reader, seed []byte) *flateReader {
	f := &flateReader{
		z:     inflate.New(),
		src:   r,
		inbuf: make([]byte, 8192),
	}
	if len(seed) > 0 {
		f.chunk = seed
		f.z.SetSource(seed)
	}
	return f
}

// leftover returns whatever part of the last chunk handed to z it did not
// consume. Only meaningful once z has reported OK.
func (f *flateReader) leftover() []byte {
	if f.chunk == nil {
		return nil
	}
	return f.chunk[f.z.SourceEnd():]
}

func (f *flateReader) Read(p []byte) (int, error) {
	if f.done {
		return 0, io.EOF
	}
	f.z.SetTarget(p)
	for {
		res, err := f.z.Inflate(f.final)
		if err != nil {
			return f.z.TargetEnd(), err
		}
		switch res {
		case inflate.OK:
			f.done = true
			return f.z.TargetEnd(), io.EOF
		case inflate.TgtExhausted:
			return f.z.TargetEnd(), nil
		case inflate.SrcExhausted:
			n, rerr := f.src.Read(f.inbuf)
			if n > 0 {
				f.chunk = f.inbuf[:n]
				f.z.SetSource(f.chunk)
				continue
			}
			if rerr == io.EOF {
				f.final = true
				f.chunk = nil
				f.z.SetSource(nil)
				continue
			}
			return f.z.TargetEnd(), rerr
		}
	}
}
