// Package pngerr defines the stable numeric error catalogue shared by
// every layer of the codec (bitstream, zlib, chunk, color, top-level PNG),
// so a caller can switch on a code regardless of which layer raised it.
package pngerr

import "github.com/pkg/errors"

// Code is one of the stable, externally-visible error codes. The numbers
// are part of the wire contract and must never be renumbered.
type Code int

// Descriptive strings, one per documented code. Codes without a published
// string still satisfy the error interface via their default message.
const (
	HuffmanBadCodeLength1 Code = 10
	HuffmanBadCodeLength2 Code = 11
	BadDistanceCode       Code = 18
	InvalidBlockType      Code = 20
	StoredLengthMismatch  Code = 21
	ReadPastInput         Code = 23
	ZlibHeaderDeflate64    Code = 24
	ZlibHeaderCheck       Code = 25
	ZlibHeaderDict        Code = 26
	BadSignature          Code = 27
	BadIHDR               Code = 28
	InvalidColorType      Code = 31
	UnknownFilterType     Code = 36
	InvalidColorBitDepth  Code = 37
	EmptyInput            Code = 48
	DistancePastBuffer    Code = 52
	InputTooShort         Code = 53
	UnsupportedConversion Code = 56
	CRCMismatch           Code = 57
	AdlerMismatch         Code = 58
	ChunkLengthMalformed1 Code = 63
	ChunkLengthMalformed2 Code = 64
	UnknownCriticalChunk  Code = 69
	FileOpenFailure       Code = 78
	FileWriteFailure      Code = 79
	AllocationFailure     Code = 83
	BadTextKeywordLength  Code = 89
	DecompressedSizeMismatch Code = 91
	DimensionOverflow     Code = 92
	InvalidFilterStrategy Code = 93
)

var text = map[Code]string{
	HuffmanBadCodeLength1:    "invalid Huffman code length (over-subscribed tree)",
	HuffmanBadCodeLength2:    "invalid Huffman code length (incomplete tree)",
	BadDistanceCode:          "invalid distance code",
	InvalidBlockType:         "invalid DEFLATE block type",
	StoredLengthMismatch:     "stored block LEN/NLEN mismatch",
	ReadPastInput:            "read past end of input",
	ZlibHeaderDeflate64:      "invalid zlib compression method",
	ZlibHeaderCheck:          "zlib header check failed",
	ZlibHeaderDict:           "zlib preset dictionary not supported",
	BadSignature:             "not a PNG file: bad signature",
	BadIHDR:                  "malformed IHDR chunk",
	InvalidColorType:         "invalid color type",
	UnknownFilterType:        "unknown scanline filter type",
	InvalidColorBitDepth:     "invalid bit depth for this color type",
	EmptyInput:               "input buffer is empty",
	DistancePastBuffer:       "back-reference distance exceeds decoded buffer",
	InputTooShort:            "input buffer is too short",
	UnsupportedConversion:    "unsupported color conversion",
	CRCMismatch:              "chunk CRC-32 mismatch",
	AdlerMismatch:            "zlib Adler-32 mismatch",
	ChunkLengthMalformed1:    "chunk length malformed",
	ChunkLengthMalformed2:    "chunk declared length exceeds remaining input",
	UnknownCriticalChunk:     "unknown critical chunk",
	FileOpenFailure:          "could not open file",
	FileWriteFailure:         "could not write file",
	AllocationFailure:        "allocation failed",
	BadTextKeywordLength:     "text keyword length out of range (1..79)",
	DecompressedSizeMismatch: "decompressed IDAT size does not match image dimensions",
	DimensionOverflow:        "image dimensions overflow",
	InvalidFilterStrategy:    "predefined filter array length does not match image height",
}

// Error implements the error interface, returning the published
// descriptive string for known codes and a generic message otherwise.
func (c Code) Error() string {
	if s, ok := text[c]; ok {
		return s
	}
	return "png codec error"
}

// Wrap attaches a context message (no stack trace) to a Code at an
// internal call boundary while keeping the code itself recoverable via
// errors.As.
func Wrap(c Code, context string) error {
	return errors.WithMessage(c, context)
}
