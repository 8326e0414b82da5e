package deflate

import (
	"bytes"
	"math/rand"
	"testing"
)

func roundTrip(t *testing.T, src []byte, level int) {
	t.Helper()
	compressed := Deflate(src, level)
	got, err := Inflate(compressed, len(src))
	if err != nil {
		t.Fatalf("Inflate: %v", err)
	}
	if !bytes.Equal(got, src) {
		t.Fatalf("round trip mismatch at level %d: got %d bytes, want %d bytes", level, len(got), len(src))
	}
}

func TestRoundTripEmpty(t *testing.T) {
	for level := 0; level <= 9; level++ {
		roundTrip(t, nil, level)
	}
}

func TestRoundTripStoredLevel(t *testing.T) {
	src := []byte("a stored block should pass straight through the DEFLATE framing")
	roundTrip(t, src, 0)
}

func TestRoundTripRepetitiveData(t *testing.T) {
	src := bytes.Repeat([]byte("abcabcabcabc123"), 5000)
	for _, lvl := range []int{1, 6, 9} {
		roundTrip(t, src, lvl)
	}
}

func TestRoundTripRandomData(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	src := make([]byte, 70000)
	rng.Read(src)
	roundTrip(t, src, 6)
}

func TestRoundTripPNGLikeFilteredScanlines(t *testing.T) {
	// Simulate filtered scanlines: a filter-type byte followed by mostly
	// small residuals and long zero runs, which is what real PNG rows
	// compress to after filtering.
	rng := rand.New(rand.NewSource(7))
	var buf bytes.Buffer
	for row := 0; row < 200; row++ {
		buf.WriteByte(byte(row % 5))
		for i := 0; i < 64; i++ {
			if rng.Intn(4) == 0 {
				buf.WriteByte(byte(rng.Intn(8)))
			} else {
				buf.WriteByte(0)
			}
		}
	}
	roundTrip(t, buf.Bytes(), 6)
}

func TestDeflateCompressesRepetitiveDataSubstantially(t *testing.T) {
	src := bytes.Repeat([]byte{0}, 100000)
	compressed := Deflate(src, 6)
	if len(compressed) >= len(src)/10 {
		t.Fatalf("compressed size %d not substantially smaller than input %d", len(compressed), len(src))
	}
}
