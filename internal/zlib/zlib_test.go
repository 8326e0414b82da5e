package zlib

import (
	"bytes"
	"testing"
)

func TestCompressDecompressRoundTrip(t *testing.T) {
	src := bytes.Repeat([]byte("zlib wrapper round trip test data "), 1000)
	for _, level := range []int{0, 1, 6, 9} {
		compressed, err := Compress(src, CompressSettings{Level: level})
		if err != nil {
			t.Fatalf("Compress level %d: %v", level, err)
		}
		got, err := Decompress(compressed, len(src), DecompressSettings{})
		if err != nil {
			t.Fatalf("Decompress level %d: %v", level, err)
		}
		if !bytes.Equal(got, src) {
			t.Fatalf("level %d: round trip mismatch", level)
		}
	}
}

func TestDecompressRejectsBadHeaderCheck(t *testing.T) {
	compressed, err := Compress([]byte("hello"), CompressSettings{Level: 6})
	if err != nil {
		t.Fatal(err)
	}
	corrupted := append([]byte(nil), compressed...)
	corrupted[1] ^= 0xFF
	if _, err := Decompress(corrupted, 5, DecompressSettings{}); err == nil {
		t.Fatal("expected header check failure")
	}
}

func TestDecompressRejectsAdlerMismatch(t *testing.T) {
	compressed, err := Compress([]byte("hello, world"), CompressSettings{Level: 6})
	if err != nil {
		t.Fatal(err)
	}
	corrupted := append([]byte(nil), compressed...)
	corrupted[len(corrupted)-1] ^= 0xFF
	if _, err := Decompress(corrupted, 12, DecompressSettings{}); err == nil {
		t.Fatal("expected Adler-32 mismatch")
	}
}

func TestDecompressIgnoreAdlerMismatch(t *testing.T) {
	compressed, err := Compress([]byte("hello, world"), CompressSettings{Level: 6})
	if err != nil {
		t.Fatal(err)
	}
	corrupted := append([]byte(nil), compressed...)
	corrupted[len(corrupted)-1] ^= 0xFF
	if _, err := Decompress(corrupted, 12, DecompressSettings{IgnoreAdler32: true}); err != nil {
		t.Fatalf("Decompress with IgnoreAdler32: %v", err)
	}
}

func TestCustomHooks(t *testing.T) {
	called := false
	settings := CompressSettings{
		CustomZlib: func(src []byte) ([]byte, error) {
			called = true
			return append([]byte{0x78, 0x9c}, src...), nil
		},
	}
	out, err := Compress([]byte("x"), settings)
	if err != nil {
		t.Fatal(err)
	}
	if !called {
		t.Fatal("CustomZlib hook was not invoked")
	}
	if !bytes.HasPrefix(out, []byte{0x78, 0x9c}) {
		t.Fatalf("unexpected custom zlib output: %x", out)
	}
}
