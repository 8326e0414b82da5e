package png

import "github.com/rmamba/pnglib/internal/pngerr"

// Error is a stable, numeric PNG codec error. Callers can switch on the
// code itself (errors.As into *Error, or comparison after errors.Unwrap)
// without depending on wording, matching the documented error catalogue.
type Error = pngerr.Code

// Stable error codes, re-exported from the internal catalogue so callers
// depend only on this package.
const (
	ErrHuffmanBadCodeLength1 = pngerr.HuffmanBadCodeLength1
	ErrHuffmanBadCodeLength2 = pngerr.HuffmanBadCodeLength2
	ErrBadDistanceCode       = pngerr.BadDistanceCode
	ErrInvalidBlockType      = pngerr.InvalidBlockType
	ErrStoredLengthMismatch  = pngerr.StoredLengthMismatch
	ErrReadPastInput         = pngerr.ReadPastInput
	ErrZlibHeaderDeflate64   = pngerr.ZlibHeaderDeflate64
	ErrZlibHeaderCheck       = pngerr.ZlibHeaderCheck
	ErrZlibHeaderDict        = pngerr.ZlibHeaderDict
	ErrBadSignature          = pngerr.BadSignature
	ErrBadIHDR               = pngerr.BadIHDR
	ErrInvalidColorType      = pngerr.InvalidColorType
	ErrUnknownFilterType     = pngerr.UnknownFilterType
	ErrInvalidColorBitDepth  = pngerr.InvalidColorBitDepth
	ErrEmptyInput            = pngerr.EmptyInput
	ErrDistancePastBuffer    = pngerr.DistancePastBuffer
	ErrInputTooShort         = pngerr.InputTooShort
	ErrUnsupportedConversion = pngerr.UnsupportedConversion
	ErrCRCMismatch           = pngerr.CRCMismatch
	ErrAdlerMismatch         = pngerr.AdlerMismatch
	ErrChunkLengthMalformed1 = pngerr.ChunkLengthMalformed1
	ErrChunkLengthMalformed2 = pngerr.ChunkLengthMalformed2
	ErrUnknownCriticalChunk  = pngerr.UnknownCriticalChunk
	ErrAllocationFailure     = pngerr.AllocationFailure
	ErrBadTextKeywordLength  = pngerr.BadTextKeywordLength
	ErrDecompressedSizeMismatch = pngerr.DecompressedSizeMismatch
	ErrDimensionOverflow     = pngerr.DimensionOverflow
	ErrInvalidFilterStrategy = pngerr.InvalidFilterStrategy
)

// ErrorText returns the descriptive string for a numeric error code,
// matching the catalogue's published wording even if err has been
// wrapped with additional context.
func ErrorText(code Error) string {
	return code.Error()
}

// FormatError reports malformed PNG structure: bad signature, chunk
// framing, header fields, or filter types.
type FormatError string

func (e FormatError) Error() string { return "png: invalid format: " + string(e) }

// UnsupportedError reports a color mode, bit depth, or chunk the codec
// does not implement.
type UnsupportedError string

func (e UnsupportedError) Error() string { return "png: unsupported: " + string(e) }
