package png

import (
	"bytes"
	"time"

	"github.com/rmamba/pnglib/internal/zlib"
)

// TextChunk is one tEXt/zTXt/iTXt ancillary text entry.
type TextChunk struct {
	Keyword  string
	Text     string
	LangTag  string // iTXt only
	Translated string // iTXt only, the translated keyword
	Compressed bool  // zTXt, or iTXt with the compression flag set
}

// PhysicalDimensions is the pHYs chunk: pixel density and its unit.
type PhysicalDimensions struct {
	X, Y     uint32
	UnitMeter bool
}

// UnknownChunk is an unrecognized chunk preserved verbatim. Which of the
// three standard insertion points it was found at is given by the
// Metadata.Unknown bucket that holds it.
type UnknownChunk struct {
	Type [4]byte
	Data []byte
}

// ChunkPosition names the three legal insertion points for unknown
// ancillary chunks: before PLTE, between PLTE and IDAT, or after IDAT.
type ChunkPosition int

const (
	BeforePLTE ChunkPosition = iota
	BetweenPLTEAndIDAT
	AfterIDAT
)

// Metadata carries every ancillary chunk this codec understands, plus
// buckets of verbatim unknown chunks at each of the three legal
// positions.
type Metadata struct {
	Text []TextChunk

	HasBackground bool
	Background    RGBA16

	HasTime bool
	Time    time.Time

	HasPhys bool
	Phys    PhysicalDimensions

	Unknown [3][]UnknownChunk
}

// encodeTextChunk renders one TextChunk to its wire chunk type and
// payload, compressing with zlib when requested.
func encodeTextChunk(t TextChunk, level int) (chunkType, []byte, error) {
	if len(t.Keyword) == 0 || len(t.Keyword) > 79 {
		return chunkType{}, nil, ErrBadTextKeywordLength
	}

	if t.LangTag != "" || t.Translated != "" {
		return encodeITXt(t, level)
	}
	if t.Compressed {
		return encodeZTXt(t, level)
	}
	var buf bytes.Buffer
	buf.WriteString(t.Keyword)
	buf.WriteByte(0)
	buf.WriteString(t.Text)
	return ctTEXT, buf.Bytes(), nil
}

func encodeZTXt(t TextChunk, level int) (chunkType, []byte, error) {
	compressed, err := zlib.Compress([]byte(t.Text), zlib.CompressSettings{Level: level})
	if err != nil {
		return chunkType{}, nil, err
	}
	var buf bytes.Buffer
	buf.WriteString(t.Keyword)
	buf.WriteByte(0)
	buf.WriteByte(0) // compression method: 0 (zlib/DEFLATE)
	buf.Write(compressed)
	return ctZTXT, buf.Bytes(), nil
}

func encodeITXt(t TextChunk, level int) (chunkType, []byte, error) {
	var buf bytes.Buffer
	buf.WriteString(t.Keyword)
	buf.WriteByte(0)
	if t.Compressed {
		buf.WriteByte(1)
	} else {
		buf.WriteByte(0)
	}
	buf.WriteByte(0) // compression method
	buf.WriteString(t.LangTag)
	buf.WriteByte(0)
	buf.WriteString(t.Translated)
	buf.WriteByte(0)
	if t.Compressed {
		compressed, err := zlib.Compress([]byte(t.Text), zlib.CompressSettings{Level: level})
		if err != nil {
			return chunkType{}, nil, err
		}
		buf.Write(compressed)
	} else {
		buf.WriteString(t.Text)
	}
	return ctITXT, buf.Bytes(), nil
}

func decodeTEXt(data []byte) (TextChunk, error) {
	sep := bytes.IndexByte(data, 0)
	if sep < 0 {
		return TextChunk{}, ErrBadTextKeywordLength
	}
	return TextChunk{Keyword: string(data[:sep]), Text: string(data[sep+1:])}, nil
}

func decodeZTXt(data []byte) (TextChunk, error) {
	sep := bytes.IndexByte(data, 0)
	if sep < 0 || sep+1 >= len(data) {
		return TextChunk{}, ErrBadTextKeywordLength
	}
	keyword := string(data[:sep])
	// data[sep+1] is the compression method, always 0.
	decompressed, err := zlib.Decompress(data[sep+2:], len(data)*4, zlib.DecompressSettings{})
	if err != nil {
		return TextChunk{}, err
	}
	return TextChunk{Keyword: keyword, Text: string(decompressed), Compressed: true}, nil
}

func decodeITXt(data []byte) (TextChunk, error) {
	rest := data
	sep := bytes.IndexByte(rest, 0)
	if sep < 0 {
		return TextChunk{}, ErrBadTextKeywordLength
	}
	keyword := string(rest[:sep])
	rest = rest[sep+1:]
	if len(rest) < 2 {
		return TextChunk{}, ErrBadTextKeywordLength
	}
	compressed := rest[0] != 0
	// rest[1] is the compression method, always 0.
	rest = rest[2:]

	sep = bytes.IndexByte(rest, 0)
	if sep < 0 {
		return TextChunk{}, ErrBadTextKeywordLength
	}
	lang := string(rest[:sep])
	rest = rest[sep+1:]

	sep = bytes.IndexByte(rest, 0)
	if sep < 0 {
		return TextChunk{}, ErrBadTextKeywordLength
	}
	translated := string(rest[:sep])
	rest = rest[sep+1:]

	var text string
	if compressed {
		decompressed, err := zlib.Decompress(rest, len(rest)*4, zlib.DecompressSettings{})
		if err != nil {
			return TextChunk{}, err
		}
		text = string(decompressed)
	} else {
		text = string(rest)
	}
	return TextChunk{Keyword: keyword, LangTag: lang, Translated: translated, Text: text, Compressed: compressed}, nil
}

func encodeTIME(t time.Time) []byte {
	u := t.UTC()
	return []byte{
		byte(u.Year() >> 8), byte(u.Year()),
		byte(u.Month()),
		byte(u.Day()),
		byte(u.Hour()),
		byte(u.Minute()),
		byte(u.Second()),
	}
}

func decodeTIME(data []byte) (time.Time, error) {
	if len(data) != 7 {
		return time.Time{}, ErrBadIHDR
	}
	year := int(data[0])<<8 | int(data[1])
	return time.Date(year, time.Month(data[2]), int(data[3]),
		int(data[4]), int(data[5]), int(data[6]), 0, time.UTC), nil
}

func encodePHYs(p PhysicalDimensions) []byte {
	out := make([]byte, 9)
	put32(out[0:], p.X)
	put32(out[4:], p.Y)
	if p.UnitMeter {
		out[8] = 1
	}
	return out
}

func decodePHYs(data []byte) (PhysicalDimensions, error) {
	if len(data) != 9 {
		return PhysicalDimensions{}, ErrBadIHDR
	}
	return PhysicalDimensions{
		X:         get32(data[0:]),
		Y:         get32(data[4:]),
		UnitMeter: data[8] == 1,
	}, nil
}

// encodeBKGD renders the bKGD chunk payload, whose shape depends on the
// image's color type: a palette index, a single gray sample, or an RGB
// triple.
func encodeBKGD(bg RGBA16, mode ColorMode) []byte {
	switch mode.ColorType {
	case Palette:
		// bg is the background color itself, as decodeBKGD returns it; the
		// payload is the index of the first palette entry with that RGB,
		// or 0 if no entry has it.
		for i, e := range mode.Palette {
			if e.R == byte(bg.R>>8) && e.G == byte(bg.G>>8) && e.B == byte(bg.B>>8) {
				return []byte{byte(i)}
			}
		}
		return []byte{0}
	case Grey, GreyAlpha:
		v := bg.R >> uint(16-int(mode.BitDepth))
		return []byte{byte(v >> 8), byte(v)}
	default:
		shift := uint(16 - int(mode.BitDepth))
		r, g, b := bg.R>>shift, bg.G>>shift, bg.B>>shift
		return []byte{byte(r >> 8), byte(r), byte(g >> 8), byte(g), byte(b >> 8), byte(b)}
	}
}

func decodeBKGD(data []byte, mode ColorMode) (RGBA16, error) {
	switch mode.ColorType {
	case Palette:
		if len(data) != 1 {
			return RGBA16{}, ErrBadIHDR
		}
		idx := int(data[0])
		if idx >= len(mode.Palette) {
			return RGBA16{}, ErrInvalidColorType
		}
		e := mode.Palette[idx]
		return RGBA16{uint16(e.R) * 0x101, uint16(e.G) * 0x101, uint16(e.B) * 0x101, 0xFFFF}, nil
	case Grey, GreyAlpha:
		if len(data) != 2 {
			return RGBA16{}, ErrBadIHDR
		}
		v := (uint16(data[0])<<8 | uint16(data[1])) * sampleScale(mode.BitDepth)
		return RGBA16{v, v, v, 0xFFFF}, nil
	default:
		if len(data) != 6 {
			return RGBA16{}, ErrBadIHDR
		}
		scale := sampleScale(mode.BitDepth)
		r := (uint16(data[0])<<8 | uint16(data[1])) * scale
		g := (uint16(data[2])<<8 | uint16(data[3])) * scale
		b := (uint16(data[4])<<8 | uint16(data[5])) * scale
		return RGBA16{r, g, b, 0xFFFF}, nil
	}
}

func put32(b []byte, v uint32) {
	b[0] = byte(v >> 24)
	b[1] = byte(v >> 16)
	b[2] = byte(v >> 8)
	b[3] = byte(v)
}

func get32(b []byte) uint32 {
	return uint32(b[0])<<24 | uint32(b[1])<<16 | uint32(b[2])<<8 | uint32(b[3])
}
