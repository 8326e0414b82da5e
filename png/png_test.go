package png

import (
	"testing"
	"time"

	"github.com/rmamba/pnglib/internal/zlib"
)

func checkerboardRGBA(w, h int) []RGBA16 {
	pixels := make([]RGBA16, w*h)
	for y := 0; y < h; y++ {
		for x := 0; x < w; x++ {
			if (x+y)%2 == 0 {
				pixels[y*w+x] = RGBA16{0xFFFF, 0, 0, 0xFFFF}
			} else {
				pixels[y*w+x] = RGBA16{0, 0xFFFF, 0xFFFF, 0x8080}
			}
		}
	}
	return pixels
}

func TestEncodeDecodeRoundTripRGBA8(t *testing.T) {
	w, h := 13, 9
	pixels := checkerboardRGBA(w, h)
	in := EncodeInput{
		Width:  w,
		Height: h,
		Mode:   ColorMode{ColorType: Rgba, BitDepth: Depth8},
		Pixels: pixels,
	}
	data, err := Encode(in, EncoderSettings{Zlib: CompressSettings{Level: 6}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	img, err := Decode(data, DecoderSettings{ColorConvert: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Width != w || img.Height != h {
		t.Fatalf("dimensions = %dx%d, want %dx%d", img.Width, img.Height, w, h)
	}
	for i, p := range pixels {
		if img.Pixels[i] != p {
			t.Fatalf("pixel %d = %+v, want %+v", i, img.Pixels[i], p)
		}
	}
}

func TestEncodeDecodeRoundTripGreyAndInterlace(t *testing.T) {
	w, h := 17, 11
	pixels := make([]RGBA16, w*h)
	for i := range pixels {
		v := uint16((i * 4099) % 0x10000)
		pixels[i] = RGBA16{v, v, v, 0xFFFF}
	}
	in := EncodeInput{
		Width:  w,
		Height: h,
		Mode:   ColorMode{ColorType: Grey, BitDepth: Depth16},
		Pixels: pixels,
	}
	data, err := Encode(in, EncoderSettings{Interlace: InterlaceAdam7, Zlib: CompressSettings{Level: 1}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := Decode(data, DecoderSettings{ColorConvert: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, p := range pixels {
		if img.Pixels[i] != p {
			t.Fatalf("pixel %d = %+v, want %+v", i, img.Pixels[i], p)
		}
	}
}

func TestEncodeDecodeRoundTripPaletteAndMetadata(t *testing.T) {
	w, h := 6, 4
	pal := Palette{
		{0, 0, 0, 0xFF},
		{0xFF, 0, 0, 0xFF},
		{0, 0xFF, 0, 0},
	}
	pixels := make([]RGBA16, w*h)
	for i := range pixels {
		e := pal[i%len(pal)]
		pixels[i] = RGBA16{uint16(e.R) * 0x101, uint16(e.G) * 0x101, uint16(e.B) * 0x101, uint16(e.A) * 0x101}
	}
	info := Metadata{
		Text: []TextChunk{
			{Keyword: "Comment", Text: "generated for a round trip test"},
			{Keyword: "Description", Text: "compressed text entry", Compressed: true},
		},
		HasTime: true,
		Time:    time.Date(2020, time.March, 4, 12, 30, 0, 0, time.UTC),
		HasPhys: true,
		Phys:    PhysicalDimensions{X: 2835, Y: 2835, UnitMeter: true},
	}
	in := EncodeInput{
		Width:  w,
		Height: h,
		Mode:   ColorMode{ColorType: Palette, BitDepth: Depth4, Palette: pal},
		Pixels: pixels,
		Info:   info,
	}
	data, err := Encode(in, EncoderSettings{Zlib: CompressSettings{Level: 6}, FilterPaletteZero: true})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	img, err := Decode(data, DecoderSettings{ColorConvert: true, ReadTextChunks: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if len(img.Info.Text) != 2 {
		t.Fatalf("got %d text chunks, want 2", len(img.Info.Text))
	}
	if !img.Info.HasTime || !img.Info.Time.Equal(info.Time) {
		t.Fatalf("tIME round trip mismatch: %+v", img.Info.Time)
	}
	if !img.Info.HasPhys || img.Info.Phys != info.Phys {
		t.Fatalf("pHYs round trip mismatch: %+v", img.Info.Phys)
	}
	if img.Mode.ColorType != Palette || len(img.Mode.Palette) != len(pal) {
		t.Fatalf("palette not preserved: %+v", img.Mode.Palette)
	}
	for i, p := range pixels {
		if img.Pixels[i] != p {
			t.Fatalf("pixel %d = %+v, want %+v", i, img.Pixels[i], p)
		}
	}
}

func TestDecodeRejectsBadSignature(t *testing.T) {
	if _, err := Decode([]byte("not a png file at all"), DecoderSettings{}); err == nil {
		t.Fatal("expected error for bad signature")
	}
}

func TestDecodeRejectsTruncatedInput(t *testing.T) {
	if _, err := Decode(pngSignature[:4], DecoderSettings{}); err == nil {
		t.Fatal("expected error for truncated input")
	}
}

func TestDecodeRejectsEmptyInput(t *testing.T) {
	if _, err := Decode(nil, DecoderSettings{}); err != ErrEmptyInput {
		t.Fatalf("err = %v, want ErrEmptyInput", err)
	}
}

func TestAutoConvertPicksPaletteForLowColorCount(t *testing.T) {
	w, h := 4, 4
	pixels := make([]RGBA16, w*h)
	for i := range pixels {
		if i%2 == 0 {
			pixels[i] = RGBA16{0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF}
		} else {
			pixels[i] = RGBA16{0, 0, 0, 0xFFFF}
		}
	}
	in := EncodeInput{Width: w, Height: h, Pixels: pixels}
	data, err := Encode(in, EncoderSettings{AutoConvert: true, Zlib: CompressSettings{Level: 6}})
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := Decode(data, DecoderSettings{ColorConvert: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Mode.ColorType != Palette {
		t.Fatalf("auto-convert chose %v, want Palette", img.Mode.ColorType)
	}
	for i, p := range pixels {
		if img.Pixels[i] != p {
			t.Fatalf("pixel %d = %+v, want %+v", i, img.Pixels[i], p)
		}
	}
}

func TestEncodeRejectsMismatchedPredefinedFilterLength(t *testing.T) {
	w, h := 4, 5
	pixels := make([]RGBA16, w*h)
	in := EncodeInput{Width: w, Height: h, Mode: ColorMode{ColorType: Grey, BitDepth: Depth8}, Pixels: pixels}
	settings := EncoderSettings{
		FilterStrategy: FilterStrategy{Kind: FilterPredefined, Predefined: []byte{0, 1, 2}},
	}
	if _, err := Encode(in, settings); err != ErrInvalidFilterStrategy {
		t.Fatalf("err = %v, want ErrInvalidFilterStrategy", err)
	}
}

func TestEncodeAcceptsMatchingPredefinedFilterLength(t *testing.T) {
	w, h := 4, 3
	pixels := checkerboardRGBA(w, h)
	in := EncodeInput{Width: w, Height: h, Mode: ColorMode{ColorType: Rgba, BitDepth: Depth8}, Pixels: pixels}
	settings := EncoderSettings{
		FilterStrategy: FilterStrategy{Kind: FilterPredefined, Predefined: []byte{0, 1, 2}},
	}
	data, err := Encode(in, settings)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}
	img, err := Decode(data, DecoderSettings{ColorConvert: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, p := range pixels {
		if img.Pixels[i] != p {
			t.Fatalf("pixel %d = %+v, want %+v", i, img.Pixels[i], p)
		}
	}
}

func TestFilterPaletteZeroCoversLowBitDepthNonPalette(t *testing.T) {
	w, h := 8, 3
	pixels := make([]RGBA16, w*h)
	for i := range pixels {
		if i%3 == 0 {
			pixels[i] = RGBA16{0xFFFF, 0xFFFF, 0xFFFF, 0xFFFF}
		} else {
			pixels[i] = RGBA16{0, 0, 0, 0xFFFF}
		}
	}
	in := EncodeInput{Width: w, Height: h, Mode: ColorMode{ColorType: Grey, BitDepth: Depth1}, Pixels: pixels}
	settings := EncoderSettings{
		FilterPaletteZero: true,
		FilterStrategy:    FilterStrategy{Kind: FilterMinSum},
	}
	data, err := Encode(in, settings)
	if err != nil {
		t.Fatalf("Encode: %v", err)
	}

	cr, err := newChunkReader(data, false)
	if err != nil {
		t.Fatalf("newChunkReader: %v", err)
	}
	var idat []byte
	for {
		c, done, err := cr.next()
		if err != nil {
			t.Fatalf("reading chunks: %v", err)
		}
		if c.typ == ctIDAT {
			idat = append(idat, c.data...)
		}
		if done {
			break
		}
	}
	raw, err := zlib.Decompress(idat, 0, zlib.DecompressSettings{})
	if err != nil {
		t.Fatalf("Decompress: %v", err)
	}
	rowBytes := (w + 7) / 8
	for y := 0; y < h; y++ {
		if ft := raw[y*(rowBytes+1)]; ft != filterNone {
			t.Fatalf("row %d filter type = %d, want %d", y, ft, filterNone)
		}
	}

	img, err := Decode(data, DecoderSettings{ColorConvert: true})
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	for i, p := range pixels {
		if img.Pixels[i] != p {
			t.Fatalf("pixel %d = %+v, want %+v", i, img.Pixels[i], p)
		}
	}
}
