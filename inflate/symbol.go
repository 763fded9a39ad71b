package inflate

// Symbol-decoder substates. The bit buffer itself survives suspension
// (bb/bc are just left as they are), so the only state that must be
// explicitly persisted across a NEED_INPUT/NEED_OUTPUT return is whatever
// has already been decided but not yet applied: a literal waiting for
// output room, a length waiting for its distance, or a copy in progress.
const (
	symDecodeSymbol = iota // about to decode a literal/length/end-of-block code
	symLenExtraWait        // length code decoded, waiting on its extra bits
	symHaveLiteral         // pendingLiteral is waiting for output room
	symHaveLength          // pendingLength is known, decode a distance code next
	symDistExtra           // distance code decoded, waiting on its extra bits
	symCopying             // copyRemain bytes left to copy from copyDistance back
)

// decodeSym resolves one canonical code from table, reading at most a
// root lookup plus one subtable hop, per the two-level table layout. It
// reports ok=false, consuming nothing, if not enough bits are currently
// available and the source is exhausted.
func (z *Inflator) decodeSym(table []tableEntry, rootBits uint) (tableEntry, bool) {
	if !z.tryFill(rootBits) {
		// Near the end of the input fewer than rootBits bits may remain;
		// the unfilled high bits read as zero, so a code no longer than
		// what is buffered still resolves from the root table.
		e := table[z.peek(rootBits)]
		if e.etag == etagSubtable || uint(e.length) > z.bc {
			return tableEntry{}, false
		}
		z.drop(uint(e.length))
		return e, true
	}
	e := table[z.peek(rootBits)]
	if e.etag == etagSubtable {
		need := uint(e.length)
		if !z.tryFill(need) {
			return tableEntry{}, false
		}
		idx := int(z.peek(need) >> rootBits)
		e = table[int(e.info)+idx]
	}
	z.drop(uint(e.length))
	return e, true
}

// runSlowSymbols runs the per-symbol decode loop for the current block
// until it hits end-of-block, a suspension, or an error. blockDone is
// true only on a clean end-of-block.
func (z *Inflator) runSlowSymbols() (res Result, blockDone bool, err error) {
	for {
		switch z.symState {
		case symDecodeSymbol:
			e, ok := z.decodeSym(z.litTable, lrootBits)
			if !ok {
				return SrcExhausted, false, nil
			}
			switch e.etag {
			case etagLiteral:
				z.pendingLiteral = byte(e.info)
				z.symState = symHaveLiteral
			case etagEndOfBlock:
				return OK, true, nil
			case etagInvalid:
				return 0, false, ErrBadCode
			default:
				// Length code: e.etag extra bits follow, added to e.info.
				if !z.tryFill(uint(e.etag)) {
					z.pendingLenBase = e.info
					z.pendingLenExtra = e.etag
					z.symState = symLenExtraWait
					return SrcExhausted, false, nil
				}
				extra := uint32(0)
				if e.etag > 0 {
					extra = z.peek(uint(e.etag))
					z.drop(uint(e.etag))
				}
				z.pendingLength = int(e.info) + int(extra)
				z.symState = symHaveLength
			}

		case symLenExtraWait:
			if !z.tryFill(uint(z.pendingLenExtra)) {
				return SrcExhausted, false, nil
			}
			extra := uint32(0)
			if z.pendingLenExtra > 0 {
				extra = z.peek(uint(z.pendingLenExtra))
				z.drop(uint(z.pendingLenExtra))
			}
			z.pendingLength = int(z.pendingLenBase) + int(extra)
			z.symState = symHaveLength

		case symHaveLiteral:
			if z.tgtPos >= len(z.target) {
				return TgtExhausted, false, nil
			}
			z.target[z.tgtPos] = z.pendingLiteral
			z.tgtPos++
			z.symState = symDecodeSymbol

		case symHaveLength:
			e, ok := z.decodeSym(z.distTable, drootBits)
			if !ok {
				return SrcExhausted, false, nil
			}
			if e.etag == etagInvalid {
				return 0, false, ErrBadCode
			}
			if !z.tryFill(uint(e.etag)) {
				z.pendingDistBase = e.info
				z.pendingDistExtra = e.etag
				z.symState = symDistExtra
				return SrcExhausted, false, nil
			}
			extra := uint32(0)
			if e.etag > 0 {
				extra = z.peek(uint(e.etag))
				z.drop(uint(e.etag))
			}
			if err := z.beginCopy(int(e.info) + int(extra)); err != nil {
				return 0, false, err
			}

		case symDistExtra:
			if !z.tryFill(uint(z.pendingDistExtra)) {
				return SrcExhausted, false, nil
			}
			extra := uint32(0)
			if z.pendingDistExtra > 0 {
				extra = z.peek(uint(z.pendingDistExtra))
				z.drop(uint(z.pendingDistExtra))
			}
			if err := z.beginCopy(int(z.pendingDistBase) + int(extra)); err != nil {
				return 0, false, err
			}

		case symCopying:
			if !z.continueCopy() {
				return TgtExhausted, false, nil
			}
			z.symState = symDecodeSymbol
		}
	}
}

// beginCopy validates a decoded distance against the bytes produced so
// far plus any window history, then starts (or immediately finishes, if
// output has room) the back-reference copy.
func (z *Inflator) beginCopy(distance int) error {
	available := z.tgtPos - z.windowMark + z.window.count
	if distance > available {
		return ErrFarOffset
	}
	z.copyRemain = z.pendingLength
	z.copyDistance = distance
	z.symState = symCopying
	if !z.continueCopy() {
		return nil // caller loop will observe symCopying and return TgtExhausted
	}
	z.symState = symDecodeSymbol
	return nil
}

// continueCopy copies as many of the remaining copyRemain bytes as the
// current target buffer has room for. It returns false if it ran out of
// output space before finishing.
func (z *Inflator) continueCopy() bool {
	for z.copyRemain > 0 {
		if z.tgtPos >= len(z.target) {
			return false
		}
		var b byte
		if z.copyDistance <= z.tgtPos {
			b = z.target[z.tgtPos-z.copyDistance]
		} else {
			// The window's newest windowMark bytes are the start of the
			// current target, folded in by an earlier call; history from
			// before the target lies behind them.
			back := z.copyDistance - z.tgtPos
			idx := z.window.end - z.windowMark - back
			for idx < 0 {
				idx += windowSize
			}
			b = z.window.buf[idx]
		}
		z.target[z.tgtPos] = b
		z.tgtPos++
		z.copyRemain--
	}
	return true
}
