package inflate

import "sync"

// Fixed Huffman tables (BTYPE=1) are the same for every stream, so they
// are built once, lazily, the first time a fixed block is decoded, rather
// than carrying a few hundred precomputed literal entries in source.
var (
	fixedOnce    sync.Once
	fixedLitLen  [enoughL]tableEntry
	fixedDist    [enoughD]tableEntry
	fixedLitUsed int
	fixedDstUsed int
)

func buildFixedTables() {
	var lengths [maxLitLenSymbol]uint8
	for i := 0; i < 144; i++ {
		lengths[i] = 8
	}
	for i := 144; i < 256; i++ {
		lengths[i] = 9
	}
	for i := 256; i < 280; i++ {
		lengths[i] = 7
	}
	for i := 280; i < 288; i++ {
		lengths[i] = 8
	}
	n, err := buildTable(lengths[:], modeLitLen, fixedLitLen[:])
	if err != nil {
		// The fixed lengths are a constant of the format; this can only
		// fail if the table construction logic itself is broken.
		panic("inflate: fixed literal/length table rejected: " + err.Error())
	}
	fixedLitUsed = n

	// RFC 1951 3.2.6: all 32 possible 5-bit distance codes are assigned a
	// length, but only 0..29 name a real distance; 30 and 31 are reserved
	// and, left at length 0 here, simply never get a table entry. The
	// resulting tree is intentionally incomplete, so it is built relaxed.
	var dlengths [maxDistSymbol]uint8
	for i := 0; i < 30; i++ {
		dlengths[i] = 5
	}
	n, err = buildTableRelaxed(dlengths[:], modeDist, fixedDist[:], true)
	if err != nil {
		panic("inflate: fixed distance table rejected: " + err.Error())
	}
	fixedDstUsed = n
}

func fixedTables() (litlen, dist []tableEntry) {
	fixedOnce.Do(buildFixedTables)
	return fixedLitLen[:fixedLitUsed], fixedDist[:fixedDstUsed]
}
