package png

import (
	"bytes"

	"github.com/rmamba/pnglib/internal/zlib"
)

// Image is the result of decoding a PNG file.
type Image struct {
	Width, Height int
	Mode          ColorMode
	Interlace     InterlaceMethod

	// Samples holds one value per channel per pixel in row-major order,
	// in Mode's native sample range (e.g. 0..15 for a 4-bit channel).
	// Always populated.
	Samples []uint16

	// Pixels holds the same image converted to canonical RGBA16, but
	// only when DecoderSettings.ColorConvert was set.
	Pixels []RGBA16

	Info Metadata
}

// Decode parses a complete PNG byte stream into an Image.
func Decode(data []byte, settings DecoderSettings) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmptyInput
	}
	cr, err := newChunkReader(data, settings.IgnoreCRC)
	if err != nil {
		return nil, err
	}

	first, done, err := cr.next()
	if err != nil {
		return nil, err
	}
	if done || first.typ != ctIHDR {
		return nil, ErrBadIHDR
	}
	mode, width, height, interlace, err := parseIHDR(first.data)
	if err != nil {
		return nil, err
	}

	var idat bytes.Buffer
	var info Metadata
	position := BeforePLTE

	for {
		c, done, err := cr.next()
		if err != nil {
			return nil, err
		}
		if done {
			break
		}
		switch c.typ {
		case ctPLTE:
			mode.Palette, err = parsePLTE(c.data)
			if err != nil {
				return nil, err
			}
			position = BetweenPLTEAndIDAT
		case ctIDAT:
			idat.Write(c.data)
			position = AfterIDAT
		case ctTRNS:
			if err := applyTRNS(&mode, c.data); err != nil {
				return nil, err
			}
		case ctBKGD:
			bg, err := decodeBKGD(c.data, mode)
			if err != nil {
				return nil, err
			}
			info.HasBackground = true
			info.Background = bg
		case ctTEXT:
			if settings.ReadTextChunks {
				t, err := decodeTEXt(c.data)
				if err != nil {
					return nil, err
				}
				info.Text = append(info.Text, t)
			}
		case ctZTXT:
			if settings.ReadTextChunks {
				t, err := decodeZTXt(c.data)
				if err != nil {
					return nil, err
				}
				info.Text = append(info.Text, t)
			}
		case ctITXT:
			if settings.ReadTextChunks {
				t, err := decodeITXt(c.data)
				if err != nil {
					return nil, err
				}
				info.Text = append(info.Text, t)
			}
		case ctTIME:
			t, err := decodeTIME(c.data)
			if err != nil {
				return nil, err
			}
			info.HasTime = true
			info.Time = t
		case ctPHYS:
			p, err := decodePHYs(c.data)
			if err != nil {
				return nil, err
			}
			info.HasPhys = true
			info.Phys = p
		default:
			if settings.RememberUnknownChunks {
				if c.typ.ancillary() {
					buf := make([]byte, len(c.data))
					copy(buf, c.data)
					info.Unknown[position] = append(info.Unknown[position], UnknownChunk{Type: c.typ, Data: buf})
				} else {
					return nil, ErrUnknownCriticalChunk
				}
			} else if !c.typ.ancillary() {
				return nil, ErrUnknownCriticalChunk
			}
		}
	}

	if mode.ColorType == Palette && len(mode.Palette) == 0 {
		return nil, ErrInvalidColorType
	}

	decompressed, err := zlib.Decompress(idat.Bytes(), RawSize(width, height, mode)+height, zlib.DecompressSettings{
		IgnoreAdler32: settings.Zlib.IgnoreAdler32,
	})
	if err != nil {
		return nil, err
	}

	samples, err := unfilterAndUnpack(decompressed, width, height, mode, interlace)
	if err != nil {
		return nil, err
	}

	img := &Image{
		Width:     width,
		Height:    height,
		Mode:      mode,
		Interlace: interlace,
		Samples:   samples,
		Info:      info,
	}

	if settings.ColorConvert {
		pixels, err := expandToRGBA16(samples, mode)
		if err != nil {
			return nil, err
		}
		img.Pixels = pixels
	}
	return img, nil
}

func parseIHDR(data []byte) (mode ColorMode, width, height int, interlace InterlaceMethod, err error) {
	if len(data) != 13 {
		return ColorMode{}, 0, 0, 0, ErrBadIHDR
	}
	w := int(get32(data[0:]))
	h := int(get32(data[4:]))
	if w <= 0 || h <= 0 || w > 0x7FFFFFFF || h > 0x7FFFFFFF {
		return ColorMode{}, 0, 0, 0, ErrDimensionOverflow
	}
	depth := BitDepth(data[8])
	ct, ok := colorTypeFromWireCode(data[9])
	if !ok {
		return ColorMode{}, 0, 0, 0, ErrInvalidColorType
	}
	if data[10] != 0 { // compression method
		return ColorMode{}, 0, 0, 0, ErrBadIHDR
	}
	if data[11] != 0 { // filter method
		return ColorMode{}, 0, 0, 0, ErrBadIHDR
	}
	if data[12] > 1 {
		return ColorMode{}, 0, 0, 0, ErrBadIHDR
	}
	mode = ColorMode{ColorType: ct, BitDepth: depth}
	if !ValidBitDepth(ct, depth) {
		return ColorMode{}, 0, 0, 0, ErrInvalidColorBitDepth
	}
	il := InterlaceNone
	if data[12] == 1 {
		il = InterlaceAdam7
	}
	return mode, w, h, il, nil
}

func parsePLTE(data []byte) (Palette, error) {
	if len(data)%3 != 0 || len(data) == 0 {
		return nil, ErrInvalidColorType
	}
	n := len(data) / 3
	pal := make(Palette, n)
	for i := 0; i < n; i++ {
		pal[i] = RGBA8{data[3*i], data[3*i+1], data[3*i+2], 0xFF}
	}
	return pal, nil
}

// applyTRNS folds a tRNS chunk's payload into mode, either as per-palette-
// entry alpha values or as a Grey/Rgb transparency key.
func applyTRNS(mode *ColorMode, data []byte) error {
	switch mode.ColorType {
	case Palette:
		if len(data) > len(mode.Palette) {
			return ErrInvalidColorType
		}
		for i, a := range data {
			mode.Palette[i].A = a
		}
		return nil
	case Grey:
		if len(data) != 2 {
			return ErrInvalidColorType
		}
		v := uint16(data[0])<<8 | uint16(data[1])
		mode.HasKey = true
		mode.Key = TransparencyKey{R: v, G: v, B: v}
		return nil
	case Rgb:
		if len(data) != 6 {
			return ErrInvalidColorType
		}
		mode.HasKey = true
		mode.Key = TransparencyKey{
			R: uint16(data[0])<<8 | uint16(data[1]),
			G: uint16(data[2])<<8 | uint16(data[3]),
			B: uint16(data[4])<<8 | uint16(data[5]),
		}
		return nil
	default:
		return ErrInvalidColorType
	}
}

// unfilterAndUnpack reverses scanline filtering and bit-packing, handling
// Adam-7 deinterlacing when present, and returns one uint16 sample per
// channel per pixel in row-major (Width x Height) order.
func unfilterAndUnpack(raw []byte, width, height int, mode ColorMode, interlace InterlaceMethod) ([]uint16, error) {
	bpp := (mode.BitsPerPixel() + 7) / 8
	if bpp == 0 {
		bpp = 1
	}
	ch := mode.ColorType.channels()

	if interlace == InterlaceNone {
		rowBytes := (width*mode.BitsPerPixel() + 7) / 8
		out := make([]uint16, width*height*ch)
		var prev []byte
		offset := 0
		for y := 0; y < height; y++ {
			if offset+1+rowBytes > len(raw) {
				return nil, ErrDecompressedSizeMismatch
			}
			filterType := raw[offset]
			cur := raw[offset+1 : offset+1+rowBytes]
			if err := unfilterLine(filterType, cur, prev, bpp); err != nil {
				return nil, err
			}
			samples := unpackScanline(cur, mode, width)
			copy(out[y*width*ch:], samples)
			prev = cur
			offset += 1 + rowBytes
		}
		return out, nil
	}

	var passSamples [7][]uint16
	offset := 0
	for p := 0; p < 7; p++ {
		pw, ph := passDimensions(p, width, height)
		if pw == 0 || ph == 0 {
			continue
		}
		rowBytes := (pw*mode.BitsPerPixel() + 7) / 8
		passOut := make([]uint16, pw*ph*ch)
		var prev []byte
		for y := 0; y < ph; y++ {
			if offset+1+rowBytes > len(raw) {
				return nil, ErrDecompressedSizeMismatch
			}
			filterType := raw[offset]
			cur := raw[offset+1 : offset+1+rowBytes]
			if err := unfilterLine(filterType, cur, prev, bpp); err != nil {
				return nil, err
			}
			samples := unpackScanline(cur, mode, pw)
			copy(passOut[y*pw*ch:], samples)
			prev = cur
			offset += 1 + rowBytes
		}
		passSamples[p] = passOut
	}
	return deinterlaceAdam7(passSamples, width, height, ch), nil
}
