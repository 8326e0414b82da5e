package png

import (
	"encoding/binary"

	"github.com/rmamba/pnglib/internal/crc32"
)

var pngSignature = [8]byte{0x89, 'P', 'N', 'G', '\r', '\n', 0x1a, '\n'}

// chunkType is a 4-byte chunk tag, e.g. "IHDR" or "tEXt".
type chunkType [4]byte

func (t chunkType) String() string { return string(t[:]) }

// ancillary reports the chunk's critical/ancillary bit (lowercase first
// letter means ancillary, decoders may skip it if unrecognized).
func (t chunkType) ancillary() bool { return t[0]&0x20 != 0 }

// private reports the chunk's public/private bit.
func (t chunkType) private() bool { return t[1]&0x20 != 0 }

// reservedBitSet reports the reserved bit, which must be 0 in any chunk
// conforming to the current PNG spec.
func (t chunkType) reservedBitSet() bool { return t[2]&0x20 != 0 }

// safeToCopy reports the chunk's safe-to-copy bit: whether an editor that
// does not understand this chunk may still copy it unmodified into a
// derived file.
func (t chunkType) safeToCopy() bool { return t[3]&0x20 != 0 }

func makeChunkType(s string) chunkType {
	var t chunkType
	copy(t[:], s)
	return t
}

var (
	ctIHDR = makeChunkType("IHDR")
	ctPLTE = makeChunkType("PLTE")
	ctIDAT = makeChunkType("IDAT")
	ctIEND = makeChunkType("IEND")
	ctTRNS = makeChunkType("tRNS")
	ctBKGD = makeChunkType("bKGD")
	ctTEXT = makeChunkType("tEXt")
	ctZTXT = makeChunkType("zTXt")
	ctITXT = makeChunkType("iTXt")
	ctTIME = makeChunkType("tIME")
	ctPHYS = makeChunkType("pHYs")
)

// rawChunk is one length-prefixed, CRC-trailed chunk as it appears on the
// wire, with the length and CRC already stripped off.
type rawChunk struct {
	typ  chunkType
	data []byte
}

// chunkReader walks the chunk sequence of a PNG byte stream following the
// 8-byte signature.
type chunkReader struct {
	buf       []byte
	pos       int
	ignoreCRC bool
}

func newChunkReader(buf []byte, ignoreCRC bool) (*chunkReader, error) {
	if len(buf) < 8 {
		return nil, ErrInputTooShort
	}
	if [8]byte(buf[:8]) != pngSignature {
		return nil, ErrBadSignature
	}
	return &chunkReader{buf: buf, pos: 8, ignoreCRC: ignoreCRC}, nil
}

// next returns the next chunk, or done == true once IEND has been
// consumed or the buffer is exhausted.
func (r *chunkReader) next() (c rawChunk, done bool, err error) {
	if r.pos >= len(r.buf) {
		return rawChunk{}, true, nil
	}
	if r.pos+8 > len(r.buf) {
		return rawChunk{}, false, ErrChunkLengthMalformed1
	}
	length := binary.BigEndian.Uint32(r.buf[r.pos:])
	if length > 0x7FFFFFFF {
		return rawChunk{}, false, ErrChunkLengthMalformed1
	}
	var typ chunkType
	copy(typ[:], r.buf[r.pos+4:r.pos+8])

	start := r.pos + 8
	end := start + int(length)
	if end < start || end+4 > len(r.buf) {
		return rawChunk{}, false, ErrChunkLengthMalformed2
	}
	data := r.buf[start:end]

	if !r.ignoreCRC {
		want := binary.BigEndian.Uint32(r.buf[end:])
		got := crc32.Checksum(r.buf[r.pos+4 : end])
		if want != got {
			return rawChunk{}, false, ErrCRCMismatch
		}
	}

	r.pos = end + 4
	if typ == ctIEND {
		return rawChunk{typ: typ, data: data}, true, nil
	}
	return rawChunk{typ: typ, data: data}, false, nil
}

// chunkWriter accumulates a PNG byte stream, starting with the signature.
type chunkWriter struct {
	buf []byte
}

func newChunkWriter() *chunkWriter {
	w := &chunkWriter{buf: make([]byte, 0, 4096)}
	w.buf = append(w.buf, pngSignature[:]...)
	return w
}

// writeChunk appends a length-prefixed, CRC-trailed chunk, mirroring the
// length/type/payload/CRC framing of every PNG chunk.
func (w *chunkWriter) writeChunk(typ chunkType, data []byte) {
	var lenBuf [4]byte
	binary.BigEndian.PutUint32(lenBuf[:], uint32(len(data)))
	w.buf = append(w.buf, lenBuf[:]...)

	start := len(w.buf)
	w.buf = append(w.buf, typ[:]...)
	w.buf = append(w.buf, data...)

	crc := crc32.Checksum(w.buf[start:])
	var crcBuf [4]byte
	binary.BigEndian.PutUint32(crcBuf[:], crc)
	w.buf = append(w.buf, crcBuf[:]...)
}

func (w *chunkWriter) bytes() []byte { return w.buf }
