package bitio

import (
	"math/rand"
	"testing"
)

func TestMSBRoundTrip(t *testing.T) {
	w := NewMSBWriter(nil)
	values := []struct {
		v uint32
		n int
	}{
		{0x1, 1}, {0x0, 1}, {0x5, 3}, {0xA, 4}, {0xFF, 8}, {0x3, 2},
	}
	for _, e := range values {
		w.WriteBits(e.v, e.n)
	}
	r := NewMSBReader(w.Bytes())
	for _, e := range values {
		if got := r.ReadBits(e.n); got != e.v {
			t.Fatalf("ReadBits(%d) = %#x, want %#x", e.n, got, e.v)
		}
	}
}

func TestLSBRoundTrip(t *testing.T) {
	rng := rand.New(rand.NewSource(1))
	var written []struct {
		v uint32
		n uint
	}
	w := NewLSBWriter(nil)
	for i := 0; i < 200; i++ {
		n := uint(1 + rng.Intn(16))
		v := uint32(rng.Intn(1<<n))
		w.WriteBits(v, n)
		written = append(written, struct {
			v uint32
			n uint
		}{v, n})
	}
	w.AlignToByte()

	r := NewLSBReader(w.buf)
	for _, e := range written {
		if got := r.ReadBits(e.n); got != e.v {
			t.Fatalf("ReadBits(%d) = %#x, want %#x", e.n, got, e.v)
		}
	}
}

func TestLSBAlignToByteDropsPartialBits(t *testing.T) {
	w := NewLSBWriter(nil)
	w.WriteBits(0x1, 3)
	w.AlignToByte()
	w.WriteRawByte(0xAB)

	r := NewLSBReader(w.buf)
	r.ReadBits(3)
	r.AlignToByte()
	got := r.ReadAlignedBytes(1)
	if got[0] != 0xAB {
		t.Fatalf("ReadAlignedBytes after align = %#x, want 0xAB", got[0])
	}
}
