// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package inflate

// Inflator decodes a raw DEFLATE stream. See the package doc for the
// pull-based SetSource/SetTarget/Inflate protocol.
type Inflator struct {
	bitreader

	source []byte
	srcPos int
	target []byte
	tgtPos int

	window     window
	windowMark int // tgtPos already folded into window by a previous call

	err Error

	blockState int
	final      bool

	storedSub    int
	storedRemain int

	dynSub         int
	dynNLit        int
	dynNDist       int
	dynNCLen       int
	dynIndex       int
	dynLastLen     uint8
	dynPendingRep  int
	dynPendingVal  uint8
	dynPendingBits uint

	codeLenLens  [maxCodeLenAlpha]uint8
	codeLenTable [enoughC]tableEntry
	lengths      [maxLitLenSymbol + maxDistSymbol]uint8

	dynLitStorage  [enoughL]tableEntry
	dynDistStorage [enoughD]tableEntry

	litTable  []tableEntry
	distTable []tableEntry

	symState int

	pendingLiteral  byte
	pendingLength   int
	pendingLenBase  uint16
	pendingLenExtra uint8

	pendingDistBase  uint16
	pendingDistExtra uint8

	copyRemain   int
	copyDistance int

	dictInstalled bool
	started       bool
}

// New returns a ready-to-use Inflator.
func New() *Inflator {
	z := &Inflator{}
	z.Reset()
	return z
}

// Reset returns an Inflator to its initial state, as if just created by
// New, discarding any source, target, dictionary, or decoded state.
func (z *Inflator) Reset() {
	*z = Inflator{}
	z.blockState = blkAwaitHeader
	z.symState = symDecodeSymbol
	z.window.reset()
}

// SetDictionary installs a preset dictionary, most recently produced bytes
// last, to serve as history for back-references before any real output
// exists. It must be called before the first call to Inflate; calling it
// afterward is a misuse of the API and reports ErrIncorrectUse.
func (z *Inflator) SetDictionary(dict []byte) error {
	if z.started {
		return ErrIncorrectUse
	}
	z.window.preset(dict)
	z.dictInstalled = true
	return nil
}

// SetSource hands the decoder a new input buffer, replacing whatever was
// left of the previous one. Bytes the decoder had not yet consumed from
// the prior buffer are lost; callers that need every byte accounted for
// should check SourceEnd before calling SetSource again.
func (z *Inflator) SetSource(src []byte) {
	z.source = src
	z.srcPos = 0
}

// SetTarget hands the decoder a new output buffer. Any bytes produced into
// the previous buffer since the last SetTarget are folded into the window
// first, so back-references can still reach across the boundary.
func (z *Inflator) SetTarget(dst []byte) {
	z.flushWindow()
	z.target = dst
	z.tgtPos = 0
	z.windowMark = 0
}

// SourceEnd returns how many bytes of the current source buffer have been
// consumed.
func (z *Inflator) SourceEnd() int {
	return z.srcPos
}

// TargetEnd returns how many bytes of the current target buffer have been
// produced.
func (z *Inflator) TargetEnd() int {
	return z.tgtPos
}

// flushWindow folds whatever output has been produced into the current
// target buffer, but not yet recorded, into the history window. It must
// run before every return to the caller, suspended or not, so a
// back-reference can always reach across a SetSource/SetTarget boundary.
func (z *Inflator) flushWindow() {
	if z.tgtPos > z.windowMark {
		z.window.append(z.target[z.windowMark:z.tgtPos])
		z.windowMark = z.tgtPos
	}
}

// Inflate resumes decoding with whatever source and target are currently
// installed, and runs until the stream is fully decoded (OK), one of the
// two buffers is exhausted, or a fatal error is reported.
//
// If final is true, the caller is declaring that no more input will ever
// be supplied beyond the current source buffer; if the decoder then still
// needs more input to make progress, Inflate reports ErrInputEnd instead
// of SrcExhausted.
func (z *Inflator) Inflate(final bool) (Result, error) {
	if z.err != errNone {
		return 0, z.err
	}
	z.started = true

	res, err := z.runBlock()
	z.flushWindow()
	if err != nil {
		return 0, err
	}
	if res == SrcExhausted && final {
		z.fail(ErrInputEnd)
		return 0, ErrInputEnd
	}
	return res, nil
}
