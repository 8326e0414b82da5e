// Package zlib implements the RFC 1950 zlib stream wrapper (2-byte
// header, DEFLATE payload, 4-byte big-endian Adler-32 trailer) around this
// module's own DEFLATE codec.
package zlib

import (
	"encoding/binary"

	"github.com/rmamba/pnglib/internal/adler32"
	"github.com/rmamba/pnglib/internal/deflate"
	"github.com/rmamba/pnglib/internal/pngerr"
)

// Hook lets a caller substitute the compressor/decompressor step entirely,
// per the custom_zlib / custom_deflate escape hatch. It is not exercised
// by the core codec itself.
type Hook func(input []byte) ([]byte, error)

// CompressSettings controls zlib compression. Level 0 means stored blocks
// only (no match finding). CustomZlib, if set, replaces Compress entirely;
// CustomDeflate, if set (and CustomZlib is not), replaces only the
// DEFLATE payload step while this package still frames the zlib header
// and Adler-32 trailer.
type CompressSettings struct {
	Level         int
	CustomZlib    Hook
	CustomDeflate Hook
	IgnoreAdler32 bool
}

// DecompressSettings controls zlib decompression.
type DecompressSettings struct {
	IgnoreAdler32 bool
}

// Compress wraps src in a zlib stream.
func Compress(src []byte, s CompressSettings) ([]byte, error) {
	if s.CustomZlib != nil {
		return s.CustomZlib(src)
	}

	var payload []byte
	if s.CustomDeflate != nil {
		p, err := s.CustomDeflate(src)
		if err != nil {
			return nil, err
		}
		payload = p
	} else {
		payload = deflate.Deflate(src, s.Level)
	}

	out := make([]byte, 0, len(payload)+6)
	cmf, flg := header(s.Level)
	out = append(out, cmf, flg)
	out = append(out, payload...)

	var trailer [4]byte
	binary.BigEndian.PutUint32(trailer[:], adler32.Checksum(src))
	out = append(out, trailer[:]...)
	return out, nil
}

// header picks CMF/FLG bytes for a CM=8 (deflate), CINFO=7 (32K window)
// zlib stream with the FLEVEL bits set from the compression level, such
// that (CMF*256+FLG) % 31 == 0.
func header(level int) (cmf, flg byte) {
	cmf = 0x78 // CM=8, CINFO=7
	flevel := byte(2)
	switch {
	case level == 0:
		flevel = 0
	case level < 6:
		flevel = 1
	case level > 6:
		flevel = 3
	}
	flg = flevel << 6
	check := (uint16(cmf)<<8 | uint16(flg)) % 31
	if check != 0 {
		flg += byte(31 - check)
	}
	return cmf, flg
}

// Decompress unwraps a zlib stream, validating the header and (unless
// IgnoreAdler32) the trailer checksum. sizeHint preallocates the output
// buffer.
func Decompress(src []byte, sizeHint int, s DecompressSettings) ([]byte, error) {
	if len(src) < 2 {
		return nil, pngerr.InputTooShort
	}
	cmf, flg := src[0], src[1]
	if (uint16(cmf)<<8|uint16(flg))%31 != 0 {
		return nil, pngerr.ZlibHeaderCheck
	}
	if cmf&0x0F != 8 {
		return nil, pngerr.ZlibHeaderDeflate64
	}
	if cmf>>4 > 7 {
		return nil, pngerr.ZlibHeaderDeflate64
	}
	if flg&0x20 != 0 {
		return nil, pngerr.ZlibHeaderDict
	}
	if len(src) < 6 {
		return nil, pngerr.InputTooShort
	}

	payload := src[2 : len(src)-4]
	out, err := deflate.Inflate(payload, sizeHint)
	if err != nil {
		return nil, err
	}

	if !s.IgnoreAdler32 {
		want := binary.BigEndian.Uint32(src[len(src)-4:])
		got := adler32.Checksum(out)
		if want != got {
			return nil, pngerr.AdlerMismatch
		}
	}
	return out, nil
}
