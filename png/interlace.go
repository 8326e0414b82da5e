package png

// adam7Pass describes one of the seven interlacing passes: the offset
// and stride (in pixels) of the pixels it covers along each axis.
type adam7Pass struct {
	xStart, yStart, xStep, yStep int
}

var adam7Passes = [7]adam7Pass{
	{0, 0, 8, 8},
	{4, 0, 8, 8},
	{0, 4, 4, 8},
	{2, 0, 4, 4},
	{0, 2, 2, 4},
	{1, 0, 2, 2},
	{0, 1, 1, 2},
}

// passDimensions returns the width and height, in pixels, that pass p
// covers for a full image of size w x h.
func passDimensions(p int, w, h int) (pw, ph int) {
	a := adam7Passes[p]
	if w <= a.xStart {
		pw = 0
	} else {
		pw = (w - a.xStart + a.xStep - 1) / a.xStep
	}
	if h <= a.yStart {
		ph = 0
	} else {
		ph = (h - a.yStart + a.yStep - 1) / a.yStep
	}
	return pw, ph
}

// adam7PassSizes returns the raw (packed) byte size of each of the 7
// passes for an image of size w x h in mode.
func adam7PassSizes(w, h int, mode ColorMode) [7]int {
	var sizes [7]int
	for p := 0; p < 7; p++ {
		pw, ph := passDimensions(p, w, h)
		if pw == 0 || ph == 0 {
			sizes[p] = 0
			continue
		}
		sizes[p] = RawSize(pw, ph, mode)
	}
	return sizes
}

// deinterlaceAdam7 scatters the 7 already-unfiltered, already-decoded
// (one sample per array element, not bit-packed) pass buffers into a
// single w x h x channels image buffer.
func deinterlaceAdam7(passes [7][]uint16, w, h, channels int) []uint16 {
	out := make([]uint16, w*h*channels)
	for p := 0; p < 7; p++ {
		a := adam7Passes[p]
		pw, ph := passDimensions(p, w, h)
		src := passes[p]
		for y := 0; y < ph; y++ {
			oy := a.yStart + y*a.yStep
			if oy >= h {
				continue
			}
			for x := 0; x < pw; x++ {
				ox := a.xStart + x*a.xStep
				if ox >= w {
					continue
				}
				srcIdx := (y*pw + x) * channels
				dstIdx := (oy*w + ox) * channels
				copy(out[dstIdx:dstIdx+channels], src[srcIdx:srcIdx+channels])
			}
		}
	}
	return out
}

// interlaceAdam7 gathers a single w x h x channels image buffer into the
// 7 Adam-7 pass buffers, each one sample per array element.
func interlaceAdam7(img []uint16, w, h, channels int) [7][]uint16 {
	var passes [7][]uint16
	for p := 0; p < 7; p++ {
		pw, ph := passDimensions(p, w, h)
		if pw == 0 || ph == 0 {
			continue
		}
		a := adam7Passes[p]
		dst := make([]uint16, pw*ph*channels)
		for y := 0; y < ph; y++ {
			sy := a.yStart + y*a.yStep
			for x := 0; x < pw; x++ {
				sx := a.xStart + x*a.xStep
				srcIdx := (sy*w + sx) * channels
				dstIdx := (y*pw + x) * channels
				copy(dst[dstIdx:dstIdx+channels], img[srcIdx:srcIdx+channels])
			}
		}
		passes[p] = dst
	}
	return passes
}
