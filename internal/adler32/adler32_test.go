package adler32

import "testing"

func TestChecksumEmpty(t *testing.T) {
	if got := Checksum(nil); got != 1 {
		t.Errorf("Checksum(nil) = %#x, want 1", got)
	}
}

func TestChecksumKnownVector(t *testing.T) {
	if got, want := Checksum([]byte("abc")), uint32(0x024D0127); got != want {
		t.Errorf("Checksum(%q) = %#x, want %#x", "abc", got, want)
	}
}

func TestWriterIncrementalMatchesChecksum(t *testing.T) {
	data := []byte("the quick brown fox jumps over the lazy dog, 0123456789, times many")
	w := NewWriter()
	for i := 0; i < len(data); i += 5 {
		end := i + 5
		if end > len(data) {
			end = len(data)
		}
		w.Write(data[i:end])
	}
	if got, want := w.Sum32(), Checksum(data); got != want {
		t.Fatalf("incremental Sum32 = %#x, want %#x", got, want)
	}
}

func TestUpdateChunkingAcrossNMAXBoundary(t *testing.T) {
	data := make([]byte, 20000)
	for i := range data {
		data[i] = byte(i * 37)
	}
	oneShot := Checksum(data)
	chunked := Update(1, data[:5552])
	chunked = Update(chunked, data[5552:])
	if oneShot != chunked {
		t.Fatalf("chunked update = %#x, want %#x", chunked, oneShot)
	}
}
