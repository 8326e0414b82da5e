package deflate

import (
	"github.com/rmamba/pnglib/internal/bitio"
	"github.com/rmamba/pnglib/internal/huffman"
)

const (
	maxStoredBlock = 65535
	// blockSize bounds how much input is tokenized into a single dynamic
	// or fixed block before a fresh Huffman table is built, trading
	// table-rebuild overhead against adapting to local statistics.
	blockSize = 1 << 16
)

// Deflate compresses src at the given level (0 = stored blocks only, 1-9
// increasing match-finder effort per LevelForCompression).
func Deflate(src []byte, level int) []byte {
	w := bitio.NewLSBWriter(nil)

	if level <= 0 {
		deflateStored(w, src)
		w.AlignToByte()
		return w.Bytes()
	}

	lv := LevelForCompression(level)
	for off := 0; off < len(src) || (off == 0 && len(src) == 0); {
		end := off + blockSize
		final := false
		if end >= len(src) {
			end = len(src)
			final = true
		}
		deflateBlock(w, src[off:end], lv, final)
		off = end
		if len(src) == 0 {
			break
		}
	}
	w.AlignToByte()
	return w.Bytes()
}

func deflateStored(w *bitio.LSBWriter, src []byte) {
	if len(src) == 0 {
		w.WriteBits(1, 1) // final
		w.WriteBits(0, 2) // stored
		w.AlignToByte()
		w.WriteRawByte(0)
		w.WriteRawByte(0)
		w.WriteRawByte(0xFF)
		w.WriteRawByte(0xFF)
		return
	}
	for off := 0; off < len(src); {
		end := off + maxStoredBlock
		final := false
		if end >= len(src) {
			end = len(src)
			final = true
		}
		bit := uint32(0)
		if final {
			bit = 1
		}
		w.WriteBits(bit, 1)
		w.WriteBits(0, 2)
		w.AlignToByte()
		n := end - off
		w.WriteRawByte(byte(n))
		w.WriteRawByte(byte(n >> 8))
		w.WriteRawByte(byte(^uint16(n)))
		w.WriteRawByte(byte(^uint16(n) >> 8))
		for _, b := range src[off:end] {
			w.WriteRawByte(b)
		}
		off = end
	}
}

// deflateBlock tokenizes block via LZ77 and writes it as either a fixed or
// dynamic Huffman block, whichever a fresh frequency count predicts is
// smaller (measured in raw bit counts, without fully serializing both).
func deflateBlock(w *bitio.LSBWriter, block []byte, lv Level, final bool) {
	tokens := lz77Encode(block, lv)

	var litFreq [numLitLenSyms]int64
	var distFreq [numDistSyms]int64
	litFreq[endOfBlock] = 1
	for _, t := range tokens {
		if t.length == 0 {
			litFreq[t.literal]++
			continue
		}
		sym, _, _ := lengthCodeFor(t.length)
		litFreq[sym]++
		dsym, _, _ := distCodeFor(t.distance)
		distFreq[dsym]++
	}

	dynLitLen, _ := huffman.CodeLengths(litFreq[:], 15)
	dynDist, _ := huffman.CodeLengths(distFreq[:], 15)
	dynBits := estimateDynamicBits(litFreq[:], distFreq[:], dynLitLen, dynDist)
	fixedBits := estimateFixedBits(litFreq[:], distFreq[:])

	finalBit := uint32(0)
	if final {
		finalBit = 1
	}

	if fixedBits <= dynBits {
		w.WriteBits(finalBit, 1)
		w.WriteBits(1, 2)
		litTree, _ := huffman.BuildFromLengths(huffman.FixedLitLenLengths())
		distTree, _ := huffman.BuildFromLengths(huffman.FixedDistLengths())
		writeTokens(w, tokens, litTree, distTree)
		return
	}

	w.WriteBits(finalBit, 1)
	w.WriteBits(2, 2)
	litTree, _ := huffman.BuildFromLengths(dynLitLen)
	distTree, _ := huffman.BuildFromLengths(dynDist)
	writeDynamicHeader(w, dynLitLen, dynDist)
	writeTokens(w, tokens, litTree, distTree)
}

func estimateFixedBits(litFreq, distFreq []int64) int64 {
	var bits int64
	for sym, f := range litFreq {
		if f == 0 {
			continue
		}
		l := 8
		if sym >= 144 && sym < 256 {
			l = 9
		} else if sym >= 256 && sym < 280 {
			l = 7
		}
		bits += f * int64(l)
		if sym >= 257 {
			li := sym - 257
			bits += f * int64(lengthExtraBits[li])
		}
	}
	for sym, f := range distFreq {
		if f == 0 {
			continue
		}
		bits += f * 5
		bits += f * int64(distExtraBits[sym])
	}
	return bits
}

func estimateDynamicBits(litFreq, distFreq []int64, litLen, distLen []int) int64 {
	var bits int64
	for sym, f := range litFreq {
		if f == 0 {
			continue
		}
		bits += f * int64(litLen[sym])
		if sym >= 257 {
			li := sym - 257
			bits += f * int64(lengthExtraBits[li])
		}
	}
	for sym, f := range distFreq {
		if f == 0 {
			continue
		}
		bits += f * int64(distLen[sym])
		bits += f * int64(distExtraBits[sym])
	}
	// Add a rough estimate of the dynamic header overhead so very small
	// blocks don't spuriously prefer dynamic over fixed.
	bits += int64((numCLSyms)*3 + len(litLen)*7 + len(distLen)*7)
	return bits
}

func writeTokens(w *bitio.LSBWriter, tokens []lz77Token, litTree, distTree *huffman.Tree) {
	for _, t := range tokens {
		if t.length == 0 {
			code, n := litTree.Encode(int(t.literal))
			writeReversed(w, code, n)
			continue
		}
		sym, extra, extraBits := lengthCodeFor(t.length)
		code, n := litTree.Encode(sym)
		writeReversed(w, code, n)
		if extraBits > 0 {
			w.WriteBits(extra, extraBits)
		}
		dsym, dextra, dextraBits := distCodeFor(t.distance)
		dcode, dn := distTree.Encode(dsym)
		writeReversed(w, dcode, dn)
		if dextraBits > 0 {
			w.WriteBits(dextra, dextraBits)
		}
	}
	code, n := litTree.Encode(endOfBlock)
	writeReversed(w, code, n)
}

// writeReversed emits a Huffman code, which RFC 1951 packs MSB-first, into
// the LSB-first bitstream by reversing its bits before writing.
func writeReversed(w *bitio.LSBWriter, code uint16, n int) {
	var rev uint32
	for i := 0; i < n; i++ {
		rev = rev<<1 | uint32(code&1)
		code >>= 1
	}
	w.WriteBits(rev, uint(n))
}

// writeDynamicHeader emits HLIT/HDIST/HCLEN, the code-length-alphabet
// table, and the run-length-encoded lit/len + distance code lengths.
func writeDynamicHeader(w *bitio.LSBWriter, litLen, distLen []int) {
	hlit := len(litLen) - 257
	hdist := len(distLen) - 1

	all := make([]int, 0, len(litLen)+len(distLen))
	all = append(all, litLen...)
	all = append(all, distLen...)
	tokens, clFreq := rleCodeLengths(all)

	clLengths, _ := huffman.CodeLengths(clFreq[:], 7)
	clTree, _ := huffman.BuildFromLengths(clLengths)

	hclen := numCLSyms
	for hclen > 4 && clLengths[codeLengthOrder[hclen-1]] == 0 {
		hclen--
	}

	w.WriteBits(uint32(hlit), 5)
	w.WriteBits(uint32(hdist), 5)
	w.WriteBits(uint32(hclen-4), 4)
	for i := 0; i < hclen; i++ {
		w.WriteBits(uint32(clLengths[codeLengthOrder[i]]), 3)
	}

	for _, tok := range tokens {
		code, n := clTree.Encode(tok.sym)
		writeReversed(w, code, n)
		if tok.extraBits > 0 {
			w.WriteBits(tok.extra, tok.extraBits)
		}
	}
}

type clToken struct {
	sym       int
	extra     uint32
	extraBits uint
}

// rleCodeLengths run-length-encodes a concatenated lit/len + distance code
// length array using code-length symbols 16 (repeat previous 3-6x), 17
// (zeros 3-10x), and 18 (zeros 11-138x), per RFC 1951 §3.2.7.
func rleCodeLengths(lengths []int) ([]clToken, [numCLSyms]int64) {
	var tokens []clToken
	var freq [numCLSyms]int64

	emit := func(sym int, extra uint32, bits uint) {
		tokens = append(tokens, clToken{sym, extra, bits})
		freq[sym]++
	}

	i := 0
	for i < len(lengths) {
		l := lengths[i]
		run := 1
		for i+run < len(lengths) && lengths[i+run] == l {
			run++
		}
		i += run

		if l == 0 {
			for run > 0 {
				switch {
				case run >= 11:
					n := run
					if n > 138 {
						n = 138
					}
					emit(18, uint32(n-11), 7)
					run -= n
				case run >= 3:
					n := run
					if n > 10 {
						n = 10
					}
					emit(17, uint32(n-3), 3)
					run -= n
				default:
					emit(0, 0, 0)
					run--
				}
			}
		} else {
			emit(l, 0, 0)
			run--
			for run > 0 {
				n := run
				if n > 6 {
					n = 6
				}
				if n < 3 {
					for n > 0 {
						emit(l, 0, 0)
						n--
						run--
					}
					continue
				}
				emit(16, uint32(n-3), 2)
				run -= n
			}
		}
	}
	return tokens, freq
}
