package png

import (
	"github.com/rmamba/pnglib/internal/deflate"
	"github.com/rmamba/pnglib/internal/zlib"
)

// EncodeInput is the source image handed to Encode: canonical RGBA16
// pixels in row-major order, plus the ancillary metadata to carry along.
type EncodeInput struct {
	Width, Height int
	Mode          ColorMode
	Pixels        []RGBA16
	Info          Metadata
}

// Encode renders an image to a complete PNG byte stream.
func Encode(in EncodeInput, settings EncoderSettings) ([]byte, error) {
	if in.Width <= 0 || in.Height <= 0 {
		return nil, ErrDimensionOverflow
	}
	if len(in.Pixels) != in.Width*in.Height {
		return nil, ErrInvalidColorType
	}

	mode := in.Mode
	if settings.AutoConvert {
		prof := scanColorProfile(in.Pixels)
		mode = autoChooseColor(prof)
	} else if settings.ForcePalette && mode.ColorType != Palette {
		prof := scanColorProfile(in.Pixels)
		chosen := autoChooseColor(prof)
		if chosen.ColorType == Palette {
			mode = chosen
		}
	}
	if err := mode.Validate(); err != nil {
		return nil, err
	}
	if settings.FilterStrategy.Kind == FilterPredefined && len(settings.FilterStrategy.Predefined) != in.Height {
		return nil, ErrInvalidFilterStrategy
	}

	samples := quantizeSamples(in.Pixels, mode)

	raw, err := filterAndPack(samples, in.Width, in.Height, mode, settings)
	if err != nil {
		return nil, err
	}

	compressed, err := zlib.Compress(raw, zlib.CompressSettings{
		Level:         settings.Zlib.Level,
		CustomZlib:    zlib.Hook(settings.Zlib.CustomZlib),
		CustomDeflate: zlib.Hook(settings.Zlib.CustomDeflate),
	})
	if err != nil {
		return nil, err
	}

	w := newChunkWriter()

	var ihdr [13]byte
	put32(ihdr[0:], uint32(in.Width))
	put32(ihdr[4:], uint32(in.Height))
	ihdr[8] = byte(mode.BitDepth)
	code, _ := mode.ColorType.wireCode()
	ihdr[9] = code
	ihdr[10] = 0
	ihdr[11] = 0
	if settings.Interlace == InterlaceAdam7 {
		ihdr[12] = 1
	}
	w.writeChunk(ctIHDR, ihdr[:])

	for _, u := range in.Info.Unknown[BeforePLTE] {
		w.writeChunk(u.Type, u.Data)
	}

	if mode.ColorType == Palette {
		w.writeChunk(ctPLTE, encodePLTE(mode.Palette))
		if trns := encodePaletteTRNS(mode.Palette); trns != nil {
			w.writeChunk(ctTRNS, trns)
		}
	} else if mode.HasKey {
		w.writeChunk(ctTRNS, encodeKeyTRNS(mode))
	}

	if in.Info.HasBackground {
		w.writeChunk(ctBKGD, encodeBKGD(in.Info.Background, mode))
	}
	if in.Info.HasPhys {
		w.writeChunk(ctPHYS, encodePHYs(in.Info.Phys))
	}

	for _, u := range in.Info.Unknown[BetweenPLTEAndIDAT] {
		w.writeChunk(u.Type, u.Data)
	}

	writeIDAT(w, compressed, settings.IDATChunkSize)

	textLevel := 0
	if settings.TextCompression {
		textLevel = settings.Zlib.Level
	}
	for _, t := range in.Info.Text {
		typ, data, err := encodeTextChunk(t, textLevel)
		if err != nil {
			return nil, err
		}
		w.writeChunk(typ, data)
	}
	if in.Info.HasTime {
		w.writeChunk(ctTIME, encodeTIME(in.Info.Time))
	}

	for _, u := range in.Info.Unknown[AfterIDAT] {
		w.writeChunk(u.Type, u.Data)
	}

	w.writeChunk(ctIEND, nil)
	return w.bytes(), nil
}

// quantizeSamples converts canonical pixels to raw per-channel samples
// for mode, building a palette index lookup when mode.ColorType is
// Palette.
func quantizeSamples(pixels []RGBA16, mode ColorMode) []uint16 {
	if mode.ColorType == Palette {
		return quantizePaletteFromRGBA16(pixels, mode.Palette)
	}
	return quantizeFromRGBA16(pixels, mode)
}

func encodePLTE(pal Palette) []byte {
	out := make([]byte, len(pal)*3)
	for i, c := range pal {
		out[3*i] = c.R
		out[3*i+1] = c.G
		out[3*i+2] = c.B
	}
	return out
}

// encodePaletteTRNS returns the tRNS payload for a palette's per-entry
// alpha values, trimmed to the last non-opaque entry, or nil if every
// entry is fully opaque.
func encodePaletteTRNS(pal Palette) []byte {
	last := -1
	for i, c := range pal {
		if c.A != 0xFF {
			last = i
		}
	}
	if last < 0 {
		return nil
	}
	out := make([]byte, last+1)
	for i := 0; i <= last; i++ {
		out[i] = pal[i].A
	}
	return out
}

func encodeKeyTRNS(mode ColorMode) []byte {
	if mode.ColorType == Grey {
		return []byte{byte(mode.Key.R >> 8), byte(mode.Key.R)}
	}
	return []byte{
		byte(mode.Key.R >> 8), byte(mode.Key.R),
		byte(mode.Key.G >> 8), byte(mode.Key.G),
		byte(mode.Key.B >> 8), byte(mode.Key.B),
	}
}

// writeIDAT splits compressed into one or more IDAT chunks of at most
// chunkSize bytes each (0 meaning a single chunk).
func writeIDAT(w *chunkWriter, compressed []byte, chunkSize int) {
	if chunkSize <= 0 || chunkSize >= len(compressed) {
		w.writeChunk(ctIDAT, compressed)
		return
	}
	for off := 0; off < len(compressed); off += chunkSize {
		end := off + chunkSize
		if end > len(compressed) {
			end = len(compressed)
		}
		w.writeChunk(ctIDAT, compressed[off:end])
	}
}

// filterAndPack packs samples into scanlines and applies PNG filtering,
// handling Adam-7 interlacing when requested, returning the
// concatenated filter-type-prefixed raw stream DEFLATE compresses.
func filterAndPack(samples []uint16, width, height int, mode ColorMode, settings EncoderSettings) ([]byte, error) {
	ch := mode.ColorType.channels()
	bpp := (mode.BitsPerPixel() + 7) / 8
	if bpp == 0 {
		bpp = 1
	}

	tryDeflate := func(line []byte) int {
		return len(deflate.Deflate(line, 1))
	}

	if settings.Interlace != InterlaceAdam7 {
		return filterPass(samples, width, height, ch, bpp, mode, settings, tryDeflate)
	}

	passes := interlaceAdam7(samples, width, height, ch)
	var out []byte
	for p := 0; p < 7; p++ {
		pw, ph := passDimensions(p, width, height)
		if pw == 0 || ph == 0 {
			continue
		}
		chunk, err := filterPass(passes[p], pw, ph, ch, bpp, mode, settings, tryDeflate)
		if err != nil {
			return nil, err
		}
		out = append(out, chunk...)
	}
	return out, nil
}

func filterPass(samples []uint16, width, height, ch, bpp int, mode ColorMode, settings EncoderSettings, tryDeflate func([]byte) int) ([]byte, error) {
	rowBytes := (width*mode.BitsPerPixel() + 7) / 8
	out := make([]byte, 0, (rowBytes+1)*height)

	candidates := make([][]byte, numFilters)
	for i := range candidates {
		candidates[i] = make([]byte, rowBytes)
	}

	strategy := settings.FilterStrategy
	if settings.FilterPaletteZero && (mode.ColorType == Palette || mode.BitDepth < Depth8) {
		strategy = FilterStrategy{Kind: FilterZero}
	}

	var prev []byte
	filtered := make([]byte, rowBytes)
	for y := 0; y < height; y++ {
		cur := packScanline(samples[y*width*ch:(y+1)*width*ch], mode, width)
		ft := chooseFilter(strategy, y, cur, prev, bpp, candidates, tryDeflate)
		filterLine(ft, filtered, cur, prev, bpp)
		out = append(out, ft)
		out = append(out, filtered...)
		prev = cur
	}
	return out, nil
}
