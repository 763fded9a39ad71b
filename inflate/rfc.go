package inflate

// Constants fixed by RFC 1951.
const (
	maxCodeLen = 15 // longest DEFLATE Huffman code, in bits

	maxLitLenSymbol = 288 // size of the literal/length alphabet; the fixed Huffman tree (3.2.6) assigns codes to all 288, including the two, 286/287, that a compliant stream never emits
	maxDynLitLen    = 286 // dynamic-block header bound (3.2.7): HLIT > 286 is a hard reject, not merely "unused"
	maxDistSymbol   = 32  // 0..29 used, 30/31 reserved
	maxCodeLenAlpha = 19  // code-length alphabet size

	// enoughC bounds the code-length alphabet's own table: RFC 1951
	// 3.2.7 transmits each of its lengths in exactly 3 bits, so its
	// canonical codes never exceed crootBits and no subtable is needed.
	enoughC = 1 << crootBits

	windowSize = 32768 // sliding history window, bytes

	lrootBits = 9 // literal/length root table width
	drootBits = 7 // distance root table width
	crootBits = 7 // code-length root table width

	// enoughL and enoughD bound the total entries (root + every
	// subtable) a table of the given root width and maxCodeLen needs in
	// the worst case, per zlib's inflate.h "ENOUGH" tables.
	enoughL = 854
	enoughD = 402
)

// Table entry tags (etag). Values 0..13 double as "this many extra bits"
// for a length/distance symbol; the rest are sentinels.
const (
	etagLiteral    = 0x10 // info is a literal byte value
	etagEndOfBlock = 0x11 // end of block
	etagSubtable   = 0x12 // info is the offset of a second-level table
	etagInvalid    = 0x13 // unused code; decoding it is an error
)

// tableEntry is the table builder's uniform 4-byte record.
type tableEntry struct {
	info   uint16
	etag   uint8
	length uint8 // total code length in bits (root slot: subtable's longest code)
}

// symInfo pairs a base value with the number of extra bits that follow a
// length or distance code in the bitstream.
type symInfo struct {
	base  uint16
	extra uint8
}

// lengthInfo maps length symbols 257..285 (index = symbol-257) to a base
// length and extra-bit count. RFC 1951 section 3.2.5.
var lengthInfo = [29]symInfo{
	{3, 0}, {4, 0}, {5, 0}, {6, 0}, {7, 0}, {8, 0}, {9, 0}, {10, 0},
	{11, 1}, {13, 1}, {15, 1}, {17, 1},
	{19, 2}, {23, 2}, {27, 2}, {31, 2},
	{35, 3}, {43, 3}, {51, 3}, {59, 3},
	{67, 4}, {83, 4}, {99, 4}, {115, 4},
	{131, 5}, {163, 5}, {195, 5}, {227, 5},
	{258, 0},
}

// distInfo maps distance symbols 0..29 to a base distance and extra-bit
// count. RFC 1951 section 3.2.5.
var distInfo = [30]symInfo{
	{1, 0}, {2, 0}, {3, 0}, {4, 0},
	{5, 1}, {7, 1},
	{9, 2}, {13, 2},
	{17, 3}, {25, 3},
	{33, 4}, {49, 4},
	{65, 5}, {97, 5},
	{129, 6}, {193, 6},
	{257, 7}, {385, 7},
	{513, 8}, {769, 8},
	{1025, 9}, {1537, 9},
	{2049, 10}, {3073, 10},
	{4097, 11}, {6145, 11},
	{8193, 12}, {12289, 12},
	{16385, 13}, {24577, 13},
}

// codeOrder is the order in which code-length-code lengths are transmitted
// in a dynamic block header. RFC 1951 section 3.2.7.
var codeOrder = [maxCodeLenAlpha]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

// reverse16 reverses the low n bits of code (n in 1..15), turning an
// MSB-first canonical Huffman code into the bit-reversed form this
// decoder uses to index its LSB-first bit buffer.
func reverse16(code uint16, n uint) uint16 {
	var r uint16
	for i := uint(0); i < n; i++ {
		r <<= 1
		r |= code & 1
		code >>= 1
	}
	return r
}
