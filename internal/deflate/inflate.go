package deflate

import (
	"github.com/rmamba/pnglib/internal/bitio"
	"github.com/rmamba/pnglib/internal/huffman"
	"github.com/rmamba/pnglib/internal/pngerr"
)

// Inflate decompresses a raw DEFLATE stream (no zlib wrapper). sizeHint, if
// > 0, preallocates the output buffer to avoid reallocation during decode.
func Inflate(src []byte, sizeHint int) ([]byte, error) {
	r := bitio.NewLSBReader(src)
	out := make([]byte, 0, sizeHint)

	for {
		if r.BytePos() > r.Len() {
			return nil, pngerr.Wrap(pngerr.ReadPastInput, "deflate: truncated stream")
		}
		final := r.ReadBits(1)
		btype := r.ReadBits(2)

		var err error
		switch btype {
		case 0:
			out, err = inflateStored(r, out)
		case 1:
			out, err = inflateHuffman(r, out, fixedLitLenTree(), fixedDistTree())
		case 2:
			out, err = inflateDynamic(r, out)
		default:
			return nil, pngerr.Wrap(pngerr.InvalidBlockType, "deflate: reserved block type 3")
		}
		if err != nil {
			return nil, err
		}
		if final != 0 {
			break
		}
	}
	return out, nil
}

var fixedLitLen, fixedDist *huffman.Tree

func fixedLitLenTree() *huffman.Tree {
	if fixedLitLen == nil {
		fixedLitLen, _ = huffman.BuildFromLengths(huffman.FixedLitLenLengths())
	}
	return fixedLitLen
}

func fixedDistTree() *huffman.Tree {
	if fixedDist == nil {
		fixedDist, _ = huffman.BuildFromLengths(huffman.FixedDistLengths())
	}
	return fixedDist
}

func inflateStored(r *bitio.LSBReader, out []byte) ([]byte, error) {
	r.AlignToByte()
	hdr := r.ReadAlignedBytes(4)
	if r.BytePos() > r.Len() {
		return nil, pngerr.Wrap(pngerr.InputTooShort, "deflate: truncated stored-block header")
	}
	length := int(hdr[0]) | int(hdr[1])<<8
	nlength := int(hdr[2]) | int(hdr[3])<<8
	if length != (^nlength & 0xFFFF) {
		return nil, pngerr.Wrap(pngerr.StoredLengthMismatch, "deflate: LEN/NLEN mismatch")
	}
	data := r.ReadAlignedBytes(length)
	if r.BytePos() > r.Len() {
		return nil, pngerr.Wrap(pngerr.InputTooShort, "deflate: truncated stored block")
	}
	return append(out, data...), nil
}

// inflateHuffman decodes symbols using the given literal/length and
// distance trees until an end-of-block symbol, appending literal bytes
// and resolved back-references to out.
func inflateHuffman(r *bitio.LSBReader, out []byte, litlen, dist *huffman.Tree) ([]byte, error) {
	for {
		peek := r.PeekBits(uint(litlen.MaxLen()))
		sym, n, ok := litlen.Decode(peek)
		if !ok {
			return nil, pngerr.Wrap(pngerr.HuffmanBadCodeLength1, "deflate: invalid lit/len code")
		}
		r.SkipBits(uint(n))

		switch {
		case sym < 256:
			out = append(out, byte(sym))
		case sym == endOfBlock:
			return out, nil
		default:
			li := sym - 257
			if li >= len(lengthBase) {
				return nil, pngerr.Wrap(pngerr.HuffmanBadCodeLength2, "deflate: invalid length code")
			}
			length := lengthBase[li] + int(r.ReadBits(lengthExtraBits[li]))

			dpeek := r.PeekBits(uint(dist.MaxLen()))
			dsym, dn, ok := dist.Decode(dpeek)
			if !ok || dsym >= len(distBase) {
				return nil, pngerr.Wrap(pngerr.BadDistanceCode, "deflate: invalid distance code")
			}
			r.SkipBits(uint(dn))
			distance := distBase[dsym] + int(r.ReadBits(distExtraBits[dsym]))

			if distance > len(out) {
				return nil, pngerr.Wrap(pngerr.DistancePastBuffer, "deflate: distance exceeds output so far")
			}
			// Overlapping back-references (distance < length) are legal
			// and must be copied byte-by-byte, since the source region
			// includes bytes this very copy is producing.
			start := len(out) - distance
			for i := 0; i < length; i++ {
				out = append(out, out[start+i])
			}
		}
	}
}

func inflateDynamic(r *bitio.LSBReader, out []byte) ([]byte, error) {
	hlit := int(r.ReadBits(5)) + 257
	hdist := int(r.ReadBits(5)) + 1
	hclen := int(r.ReadBits(4)) + 4

	var clLengths [numCLSyms]int
	for i := 0; i < hclen; i++ {
		clLengths[codeLengthOrder[i]] = int(r.ReadBits(3))
	}
	clTree, err := huffman.BuildFromLengths(clLengths[:])
	if err != nil {
		return nil, pngerr.Wrap(pngerr.HuffmanBadCodeLength1, "deflate: code-length tree")
	}

	allLengths := make([]int, hlit+hdist)
	for i := 0; i < len(allLengths); {
		peek := r.PeekBits(uint(clTree.MaxLen()))
		sym, n, ok := clTree.Decode(peek)
		if !ok {
			return nil, pngerr.Wrap(pngerr.HuffmanBadCodeLength1, "deflate: invalid code-length symbol")
		}
		r.SkipBits(uint(n))

		switch {
		case sym < 16:
			allLengths[i] = sym
			i++
		case sym == 16:
			if i == 0 {
				return nil, pngerr.Wrap(pngerr.HuffmanBadCodeLength2, "deflate: repeat code with no previous length")
			}
			rep := 3 + int(r.ReadBits(2))
			prev := allLengths[i-1]
			for k := 0; k < rep && i < len(allLengths); k++ {
				allLengths[i] = prev
				i++
			}
		case sym == 17:
			rep := 3 + int(r.ReadBits(3))
			for k := 0; k < rep && i < len(allLengths); k++ {
				allLengths[i] = 0
				i++
			}
		case sym == 18:
			rep := 11 + int(r.ReadBits(7))
			for k := 0; k < rep && i < len(allLengths); k++ {
				allLengths[i] = 0
				i++
			}
		default:
			return nil, pngerr.Wrap(pngerr.HuffmanBadCodeLength1, "deflate: invalid code-length symbol")
		}
	}

	litlen, err := huffman.BuildFromLengths(allLengths[:hlit])
	if err != nil {
		return nil, pngerr.Wrap(pngerr.HuffmanBadCodeLength1, "deflate: lit/len tree")
	}
	dist, err := huffman.BuildFromLengths(allLengths[hlit:])
	if err != nil {
		return nil, pngerr.Wrap(pngerr.HuffmanBadCodeLength1, "deflate: distance tree")
	}
	return inflateHuffman(r, out, litlen, dist)
}
