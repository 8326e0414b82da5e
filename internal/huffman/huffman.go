// Package huffman builds canonical Huffman encode/decode tables from code
// lengths, and assigns length-limited code lengths from symbol
// frequencies via boundary package-merge. It backs both DEFLATE's
// lit/len, distance, and code-length alphabets.
package huffman

import "errors"

// ErrOverfull is returned when the length-limited code-length assignment
// cannot represent numSymbols distinct codes within maxLen bits.
var ErrOverfull = errors.New("huffman: too many symbols for the code length limit")

// Tree is a canonical Huffman code: parallel per-symbol code + length
// arrays for encoding, plus a flattened table for decoding.
type Tree struct {
	maxLen  int
	lengths []int    // per-symbol bit length, 0 = unused
	codes   []uint16 // per-symbol canonical code, valid iff lengths[i] != 0

	// decode table: index by the next maxLen input bits (LSB-first, as
	// consumed from the DEFLATE bitstream); each entry gives the symbol
	// and the number of bits it actually consumes.
	decodeSym []uint16
	decodeLen []uint8
}

// MaxLen returns the longest code length in the tree, which is how many
// buffered bits Decode indexes its table with.
func (t *Tree) MaxLen() int { return t.maxLen }

// Encode returns the canonical code and bit length for symbol sym. The
// caller must only call this for symbols with non-zero length (Len(sym) > 0).
func (t *Tree) Encode(sym int) (code uint16, length int) {
	return t.codes[sym], t.lengths[sym]
}

// Len returns the code length assigned to sym, or 0 if sym is unused.
func (t *Tree) Len(sym int) int { return t.lengths[sym] }

// NumSymbols returns the size of the symbol alphabet this tree was built
// over (including unused symbols).
func (t *Tree) NumSymbols() int { return len(t.lengths) }

// Decode consumes bits (LSB-first) from peek, a window of at least MaxLen
// buffered bits, and returns the decoded symbol and how many bits of peek
// it consumed. ok is false if peek's low bits don't form a valid code,
// which can only happen with corrupt input or too few buffered bits at
// end of stream.
func (t *Tree) Decode(peek uint32) (sym int, length int, ok bool) {
	idx := peek & ((1 << uint(t.maxLen)) - 1)
	l := t.decodeLen[idx]
	if l == 0 {
		return 0, 0, false
	}
	return int(t.decodeSym[idx]), int(l), true
}

// BuildFromLengths constructs a canonical Tree from an explicit per-symbol
// length array (RFC 1951 §3.2.2): codes of a given length are assigned in
// order of increasing symbol index, and shorter codes sort before longer
// ones numerically.
func BuildFromLengths(lengths []int) (*Tree, error) {
	maxLen := 0
	for _, l := range lengths {
		if l > maxLen {
			maxLen = l
		}
	}
	t := &Tree{
		maxLen:  maxLen,
		lengths: append([]int(nil), lengths...),
		codes:   make([]uint16, len(lengths)),
	}
	if maxLen == 0 {
		t.decodeSym = make([]uint16, 1)
		t.decodeLen = make([]uint8, 1)
		return t, nil
	}

	blCount := make([]int, maxLen+1)
	for _, l := range lengths {
		if l > 0 {
			blCount[l]++
		}
	}
	// Kraft-McMillan: a valid prefix code has sum(2^-length) <= 1 over all
	// used symbols; lengths that exceed it are over-subscribed (too many
	// short codes) and rejected. Incomplete codes (sum < 1) are accepted;
	// their unassigned decode-table slots make Decode report !ok.
	var kraft int64
	const one = int64(1) << 15
	for l, cnt := range blCount {
		if l == 0 || cnt == 0 {
			continue
		}
		kraft += int64(cnt) * (one >> uint(l))
	}
	if kraft > one {
		return nil, ErrOverfull
	}

	nextCode := make([]int, maxLen+1)
	code := 0
	for bits := 1; bits <= maxLen; bits++ {
		code = (code + blCount[bits-1]) << 1
		nextCode[bits] = code
	}
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		t.codes[sym] = uint16(nextCode[l])
		nextCode[l]++
	}

	size := 1 << uint(maxLen)
	t.decodeSym = make([]uint16, size)
	t.decodeLen = make([]uint8, size)
	for sym, l := range lengths {
		if l == 0 {
			continue
		}
		// DEFLATE codes are stored MSB-first within the code word but
		// consumed LSB-first from the bitstream, so the code bits must be
		// bit-reversed before indexing the LSB-first decode table.
		rev := reverseBits(t.codes[sym], l)
		// Every table slot whose low l bits equal rev maps to this symbol,
		// regardless of the unconstrained high bits.
		for hi := 0; hi < size; hi += 1 << uint(l) {
			idx := hi | int(rev)
			t.decodeSym[idx] = uint16(sym)
			t.decodeLen[idx] = uint8(l)
		}
	}
	return t, nil
}

func reverseBits(v uint16, n int) uint16 {
	var r uint16
	for i := 0; i < n; i++ {
		r = r<<1 | (v & 1)
		v >>= 1
	}
	return r
}

// FixedLitLenLengths returns the fixed literal/length code lengths defined
// by RFC 1951 §3.2.6 for fixed Huffman blocks.
func FixedLitLenLengths() []int {
	l := make([]int, 288)
	for i := 0; i < 144; i++ {
		l[i] = 8
	}
	for i := 144; i < 256; i++ {
		l[i] = 9
	}
	for i := 256; i < 280; i++ {
		l[i] = 7
	}
	for i := 280; i < 288; i++ {
		l[i] = 8
	}
	return l
}

// FixedDistLengths returns the fixed distance code lengths (all 5 bits)
// defined by RFC 1951 §3.2.6.
func FixedDistLengths() []int {
	l := make([]int, 30)
	for i := range l {
		l[i] = 5
	}
	return l
}
