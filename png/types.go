package png

// ColorType identifies the channel layout of a pixel. The five values
// with an explicit wire code (Grey, Rgb, Palette, GreyAlpha, Rgba) are the
// ones PNG itself can serialize; Bgr, Bgra, and Bgrx exist only to let
// callers hand in or ask for raw buffers in that common in-memory layout
// (e.g. frame buffers copied straight from a window system) — they are
// rejected by anything that touches the wire format.
type ColorType int

const (
	Grey ColorType = iota
	Rgb
	Palette
	GreyAlpha
	Rgba

	Bgr
	Bgra
	Bgrx
)

// wireCode is the IHDR color-type byte for the five serializable types.
func (c ColorType) wireCode() (byte, bool) {
	switch c {
	case Grey:
		return 0, true
	case Rgb:
		return 2, true
	case Palette:
		return 3, true
	case GreyAlpha:
		return 4, true
	case Rgba:
		return 6, true
	default:
		return 0, false
	}
}

func colorTypeFromWireCode(code byte) (ColorType, bool) {
	switch code {
	case 0:
		return Grey, true
	case 2:
		return Rgb, true
	case 3:
		return Palette, true
	case 4:
		return GreyAlpha, true
	case 6:
		return Rgba, true
	default:
		return 0, false
	}
}

// channels reports how many samples (not counting palette expansion) each
// pixel of this color type carries on the wire.
func (c ColorType) channels() int {
	switch c {
	case Grey, Palette:
		return 1
	case GreyAlpha:
		return 2
	case Rgb, Bgr:
		return 3
	case Rgba, Bgra, Bgrx:
		return 4
	}
	return 0
}

// CanHaveAlpha reports whether this color type's pixels can be partially
// or fully transparent, either via an alpha channel or (for Grey/Rgb) a
// transparency key.
func (c ColorType) CanHaveAlpha() bool {
	switch c {
	case GreyAlpha, Rgba, Bgra, Bgrx, Grey, Rgb, Bgr:
		return true
	default:
		return false
	}
}

// BitDepth is the number of bits per sample (not per pixel).
type BitDepth int

const (
	Depth1  BitDepth = 1
	Depth2  BitDepth = 2
	Depth4  BitDepth = 4
	Depth8  BitDepth = 8
	Depth16 BitDepth = 16
)

// ValidBitDepth reports whether depth is legal for colortype, per the PNG
// IHDR bit-depth/color-type matrix.
func ValidBitDepth(colortype ColorType, depth BitDepth) bool {
	switch colortype {
	case Grey:
		switch depth {
		case Depth1, Depth2, Depth4, Depth8, Depth16:
			return true
		}
	case Palette:
		switch depth {
		case Depth1, Depth2, Depth4, Depth8:
			return true
		}
	case Rgb, GreyAlpha, Rgba, Bgr, Bgra, Bgrx:
		switch depth {
		case Depth8, Depth16:
			return true
		}
	}
	return false
}

// RGBA8 is an 8-bit-per-channel color, the unit palette entries are
// stored in.
type RGBA8 struct {
	R, G, B, A uint8
}

// Palette is an ordered sequence of up to 256 color entries; the slice
// index is the wire value a Palette-mode pixel encodes.
type Palette []RGBA8

// TransparencyKey is a single fully-transparent sample value (or RGB
// triple), defined only for Grey and Rgb color modes. For Grey, R, G, and
// B are always set equal.
type TransparencyKey struct {
	R, G, B uint16
}

// ColorMode fully describes a pixel's on-wire representation.
type ColorMode struct {
	ColorType ColorType
	BitDepth  BitDepth

	// Palette is populated iff ColorType == Palette.
	Palette Palette

	// Key is the transparency key, if any; valid only for Grey and Rgb.
	Key     TransparencyKey
	HasKey  bool
}

// BitsPerPixel returns bpp for this mode, e.g. 32 for 8-bit Rgba, 1 for
// 1-bit Palette.
func (m ColorMode) BitsPerPixel() int {
	return m.ColorType.channels() * int(m.BitDepth)
}

// Validate checks the bit-depth/color-type matrix and palette size
// invariants, per the API-boundary rejection rule.
func (m ColorMode) Validate() error {
	if !ValidBitDepth(m.ColorType, m.BitDepth) {
		return ErrInvalidColorBitDepth
	}
	if m.ColorType == Palette {
		if len(m.Palette) == 0 || len(m.Palette) > 1<<uint(m.BitDepth) {
			return ErrInvalidColorType
		}
	} else if len(m.Palette) != 0 {
		return ErrInvalidColorType
	}
	if m.HasKey && m.ColorType != Grey && m.ColorType != Rgb {
		return ErrInvalidColorType
	}
	return nil
}

// RawSize returns the exact byte length of a packed w x h raw image in
// mode: ceil(w*bpp/8) rounded up per scanline, times h.
func RawSize(w, h int, mode ColorMode) int {
	bpp := mode.BitsPerPixel()
	return ((w*bpp + 7) / 8) * h
}

// FilterStrategyKind selects how the encoder picks a PNG filter type per
// scanline.
type FilterStrategyKind int

const (
	FilterZero FilterStrategyKind = iota
	FilterMinSum
	FilterEntropy
	FilterBruteForce
	FilterPredefined
)

// FilterStrategy configures scanline filter selection. Predefined is only
// consulted when Kind == FilterPredefined; it must have exactly Height
// entries, each in 0..4.
type FilterStrategy struct {
	Kind       FilterStrategyKind
	Predefined []byte
}

// InterlaceMethod selects Adam-7 interlacing.
type InterlaceMethod int

const (
	InterlaceNone InterlaceMethod = iota
	InterlaceAdam7
)

// CompressSettings controls the zlib/DEFLATE layer on encode.
type CompressSettings struct {
	// Level is 0..9; 0 emits stored (uncompressed) DEFLATE blocks only.
	Level int

	// CustomZlib and CustomDeflate are escape hatches that replace the
	// corresponding compression step entirely. If CustomZlib is set,
	// CustomDeflate is ignored. Neither is part of the core codec.
	CustomZlib    func([]byte) ([]byte, error)
	CustomDeflate func([]byte) ([]byte, error)
}

// DecompressSettings controls the zlib/DEFLATE layer on decode.
type DecompressSettings struct {
	IgnoreAdler32 bool
}

// EncoderSettings controls PNG encoding.
type EncoderSettings struct {
	AutoConvert bool
	// FilterPaletteZero forces filter type None regardless of
	// FilterStrategy whenever the heuristic strategies don't help: for
	// palette images and for any bit depth below 8, per-row filtering
	// predicts worse than it performs.
	FilterPaletteZero bool
	FilterStrategy    FilterStrategy
	ForcePalette      bool
	// AddID is not read by Encode; no identifying text chunk is written.
	AddID             bool
	TextCompression   bool
	Interlace         InterlaceMethod
	// IDATChunkSize splits the compressed stream into multiple IDAT
	// chunks of at most this many bytes; 0 emits a single IDAT chunk.
	IDATChunkSize int
	Zlib          CompressSettings
}

// DecoderSettings controls PNG decoding.
type DecoderSettings struct {
	IgnoreCRC             bool
	ColorConvert          bool
	ReadTextChunks        bool
	RememberUnknownChunks bool
	Zlib                  DecompressSettings
}
