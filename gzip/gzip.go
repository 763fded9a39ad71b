// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package gzip reads the gzip file format, RFC 1952, as a façade over the
// raw DEFLATE decoder in github.com/Jpn666/deflate/inflate.
package gzip

import (
	"bufio"
	"errors"
	"fmt"
	"hash"
	"hash/crc32"
	"io"
	"time"

	"github.com/Jpn666/deflate/capnslog"
	"github.com/Jpn666/deflate/inflate"
)

var plog = capnslog.NewPackageLogger("github.com/Jpn666/deflate", "gzip")

const (
	gzipID1     = 0x1f
	gzipID2     = 0x8b
	gzipDeflate = 8
	flagText    = 1 << 0
	flagHdrCrc  = 1 << 1
	flagExtra   = 1 << 2
	flagName    = 1 << 3
	flagComment = 1 << 4
)

var (
	// ErrChecksum is returned when reading gzip data whose trailing CRC32
	// or size field does not match what was actually decoded.
	ErrChecksum = errors.New("gzip: invalid checksum")
	// ErrHeader is returned when reading gzip data with a malformed header.
	ErrHeader = errors.New("gzip: invalid header")
)

// Header holds the per-member metadata a gzip stream carries ahead of its
// compressed payload.
type Header struct {
	Comment string
	Extra   []byte
	ModTime time.Time
	Name    string
	OS      byte
}

// Reader is an io.Reader that decompresses a gzip stream as it is read.
//
// A gzip file may be the concatenation of several independently compressed
// members; by default Reader reads through all of them as if they were one
// stream. Only the first member's header is recorded in the Header fields.
type Reader struct {
	Header
	r           *bufio.Reader
	dec         *flateReader
	digest      hash.Hash32
	size        uint32
	flg         byte
	buf         [512]byte
	pending     []byte // bytes already pulled from r by dec but not consumed by it
	err         error
	multistream bool
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

func (z *Reader) readByte() (byte, error) {
	if len(z.pending) > 0 {
		b := z.pending[0]
		z.pending = z.pending[1:]
		return b, nil
	}
	return z.r.ReadByte()
}

// NewReader opens a new Reader reading the given stream. It reads and
// validates the first member's header immediately; the caller should call
// Close when done.
func NewReader(r io.Reader) (*Reader, error) {
	z := &Reader{
		r:           bufio.NewReader(r),
		digest:      crc32.NewIEEE(),
		multistream: true,
	}
	if err := z.readHeader(true); err != nil {
		return nil, err
	}
	return z, nil
}

// Reset discards z's state and reinitializes it to read from r, as if
// newly returned by NewReader, so the Reader can be reused.
func (z *Reader) Reset(r io.Reader) error {
	z.r = bufio.NewReader(r)
	if z.digest == nil {
		z.digest = crc32.NewIEEE()
	} else {
		z.digest.Reset()
	}
	z.Header = Header{}
	z.size = 0
	z.err = nil
	z.multistream = true
	z.pending = nil
	z.dec = nil
	return z.readHeader(true)
}

// Multistream controls whether Read continues past the end of one member
// into a concatenated next one. It defaults to true.
func (z *Reader) Multistream(ok bool) {
	z.multistream = ok
}

func get4(p []byte) uint32 {
	return uint32(p[0]) | uint32(p[1])<<8 | uint32(p[2])<<16 | uint32(p[3])<<24
}

func (z *Reader) readString() (string, error) {
	var needconv bool
	for i := 0; ; i++ {
		if i >= len(z.buf) {
			return "", ErrHeader
		}
		b, err := z.readByte()
		if err != nil {
			return "", err
		}
		z.buf[i] = b
		if b > 0x7f {
			needconv = true
		}
		if b == 0 {
			// RFC 1952 strings are NUL-terminated ISO 8859-1.
			if needconv {
				s := make([]rune, 0, i)
				for _, v := range z.buf[:i] {
					s = append(s, rune(v))
				}
				return string(s), nil
			}
			return string(z.buf[:i]), nil
		}
	}
}

func (z *Reader) read2() (uint32, error) {
	if err := z.fill(z.buf[:2]); err != nil {
		return 0, err
	}
	return uint32(z.buf[0]) | uint32(z.buf[1])<<8, nil
}

func (z *Reader) readHeader(save bool) error {
	if err := z.fill(z.buf[:10]); err != nil {
		return err
	}
	if z.buf[0] != gzipID1 || z.buf[1] != gzipID2 || z.buf[2] != gzipDeflate {
		plog.Warningf("gzip: bad member header magic %#x %#x %#x", z.buf[0], z.buf[1], z.buf[2])
		return ErrHeader
	}
	z.flg = z.buf[3]
	if save {
		z.ModTime = time.Unix(int64(get4(z.buf[4:8])), 0)
		z.OS = z.buf[9]
	}
	z.digest.Reset()
	z.digest.Write(z.buf[:10])

	if z.flg&flagExtra != 0 {
		n, err := z.read2()
		if err != nil {
			return err
		}
		data := make([]byte, n)
		if err := z.fill(data); err != nil {
			return err
		}
		if save {
			z.Extra = data
		}
	}
	if z.flg&flagName != 0 {
		s, err := z.readString()
		if err != nil {
			return err
		}
		if save {
			z.Name = s
		}
	}
	if z.flg&flagComment != 0 {
		s, err := z.readString()
		if err != nil {
			return err
		}
		if save {
			z.Comment = s
		}
	}
	if z.flg&flagHdrCrc != 0 {
		n, err := z.read2()
		if err != nil {
			return err
		}
		if n != z.digest.Sum32()&0xFFFF {
			return ErrHeader
		}
	}

	z.digest.Reset()
	z.dec = newFlateReader(z.r, z.pending)
	z.pending = nil
	return nil
}

// Read implements io.Reader, decompressing into p. It loops internally,
// without returning, across a member boundary that produces no bytes of
// its own (an empty member, or the gap between validating one trailer and
// decoding into the next member's payload).
func (z *Reader) Read(p []byte) (n int, err error) {
	if z.err != nil {
		return 0, z.err
	}
	if len(p) == 0 {
		return 0, nil
	}

	for n == 0 {
		var derr error
		n, derr = z.dec.Read(p)
		z.digest.Write(p[:n])
		z.size += uint32(n)
		if derr != io.EOF {
			if derr != nil {
				derr = fmt.Errorf("gzip: %w", derr)
			}
			z.err = derr
			return n, derr
		}

		// dec may have read ahead past the end of the compressed payload;
		// whatever it didn't consume belongs to the trailer (or, in a
		// multistream file, possibly the next member's header).
		if lo := z.dec.leftover(); len(lo) > 0 {
			z.pending = append(lo, z.pending...)
		}

		if err := z.fill(z.buf[:8]); err != nil {
			z.err = err
			return n, err
		}
		crc, isize := get4(z.buf[:4]), get4(z.buf[4:8])
		if z.digest.Sum32() != crc || isize != z.size {
			plog.Warningf("gzip: trailer mismatch (crc %x want %x, size %d want %d)", z.digest.Sum32(), crc, z.size, isize)
			z.err = ErrChecksum
			return n, z.err
		}

		if !z.multistream {
			z.err = io.EOF
			return n, io.EOF
		}
		if err := z.readHeader(false); err != nil {
			z.err = err
			return n, err
		}
		z.digest.Reset()
		z.size = 0
	}
	return n, nil
}

// Close releases the Reader's resources. It does not close the underlying
// io.Reader.
func (z *Reader) Close() error {
	return nil
}

// flateReader adapts the pull-based inflate.Inflator to io.Reader, pumping
// source chunks from an underlying reader as the decoder asks for them.
// Because each chunk pulled from src may run past the end of the
// compressed payload (into the trailer, or the next member's header),
// chunk and leftover let the caller recover whatever dec didn't consume
// instead of it being silently dropped.
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
		inbuf: make([]byte, 8192), // matches zstrm's ZIOBFFRSZ I/O buffer size
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
