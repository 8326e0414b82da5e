// Package deflate implements RFC 1951 DEFLATE compression and
// decompression: stored, fixed-Huffman, and dynamic-Huffman blocks, with
// an LZ77 match finder driving the dynamic/fixed encoder.
package deflate

// lengthBase and lengthExtraBits give, for length codes 257..285 (index
// 0..28), the smallest length that code represents and how many extra
// bits follow it (RFC 1951 §3.2.5).
var lengthBase = [29]int{
	3, 4, 5, 6, 7, 8, 9, 10, 11, 13,
	15, 17, 19, 23, 27, 31, 35, 43, 51, 59,
	67, 83, 99, 115, 131, 163, 195, 227, 258,
}

var lengthExtraBits = [29]uint{
	0, 0, 0, 0, 0, 0, 0, 0, 1, 1,
	1, 1, 2, 2, 2, 2, 3, 3, 3, 3,
	4, 4, 4, 4, 5, 5, 5, 5, 0,
}

// distBase and distExtraBits give, for distance codes 0..29, the smallest
// distance that code represents and how many extra bits follow.
var distBase = [30]int{
	1, 2, 3, 4, 5, 7, 9, 13, 17, 25,
	33, 49, 65, 97, 129, 193, 257, 385, 513, 769,
	1025, 1537, 2049, 3073, 4097, 6145, 8193, 12289, 16385, 24577,
}

var distExtraBits = [30]uint{
	0, 0, 0, 0, 1, 1, 2, 2, 3, 3,
	4, 4, 5, 5, 6, 6, 7, 7, 8, 8,
	9, 9, 10, 10, 11, 11, 12, 12, 13, 13,
}

// codeLengthOrder is the order code-length alphabet lengths (HCLEN) are
// transmitted in for dynamic blocks (RFC 1951 §3.2.7).
var codeLengthOrder = [19]int{
	16, 17, 18, 0, 8, 7, 9, 6, 10, 5, 11, 4, 12, 3, 13, 2, 14, 1, 15,
}

const (
	endOfBlock    = 256
	minMatchLen   = 3
	maxMatchLen   = 258
	numLitLenSyms = 286 // 256 literals + end-of-block + 29 length codes
	numDistSyms   = 30
	numCLSyms     = 19
)

// lengthCodeFor returns the length-alphabet symbol (257..285) and extra
// bits for a match of the given length (3..258).
func lengthCodeFor(length int) (sym int, extra uint32, extraBits uint) {
	for i := len(lengthBase) - 1; i >= 0; i-- {
		if length >= lengthBase[i] {
			return 257 + i, uint32(length - lengthBase[i]), lengthExtraBits[i]
		}
	}
	return 257, 0, 0
}

// distCodeFor returns the distance-alphabet symbol and extra bits for a
// match distance (1..32768).
func distCodeFor(dist int) (sym int, extra uint32, extraBits uint) {
	for i := len(distBase) - 1; i >= 0; i-- {
		if dist >= distBase[i] {
			return i, uint32(dist - distBase[i]), distExtraBits[i]
		}
	}
	return 0, 0, 0
}
