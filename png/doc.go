// Copyright 2009 The Go Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package png implements a self-contained PNG codec: it encodes raw pixel
// buffers to the PNG file format and decodes PNG files back into raw
// pixel buffers, including its own DEFLATE/zlib implementation rather
// than relying on compress/flate or compress/zlib.
//
// The package does not depend on image.Image; callers hand Encode
// canonical RGBA16 pixels, a width and height, and a ColorMode, and Decode
// returns one uint16 sample per channel per pixel (plus RGBA16 pixels when
// DecoderSettings.ColorConvert is set). Packed raw pixel byte buffers are
// neither accepted nor returned. File I/O, a C ABI, and CLI tooling are
// left to callers.
package png
