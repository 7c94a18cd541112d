package fingerprint

import (
	"bytes"
	"testing"
)

func TestGenerateDeterministic(t *testing.T) {
	t.Parallel()

	data := []byte("age,gender\n34,male\n29,female\n")

	first, err := Generate(bytes.NewReader(data), 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	second, err := Generate(bytes.NewReader(data), 2, 2)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if first.FileHash != second.FileHash {
		t.Fatalf("hashes differ: %q vs %q", first.FileHash, second.FileHash)
	}
	if len(first.FileHash) != 64 {
		t.Fatalf("hash length = %d, want 64 hex chars", len(first.FileHash))
	}
}

func TestGenerateSensitiveToSingleBit(t *testing.T) {
	t.Parallel()

	data := []byte("age,gender\n34,male\n29,female\n")
	flipped := make([]byte, len(data))
	copy(flipped, data)
	flipped[0] ^= 0x01

	first := FromBytes(data, 2, 2)
	second := FromBytes(flipped, 2, 2)
	if first.FileHash == second.FileHash {
		t.Fatal("expected different hashes for different content")
	}
}

func TestFileSizeMBRounding(t *testing.T) {
	t.Parallel()

	// 1.5 MiB exactly
	fp := FromBytes(make([]byte, 1572864), 10, 3)
	if fp.FileSizeMB != 1.5 {
		t.Fatalf("file size = %v, want 1.5", fp.FileSizeMB)
	}
	if fp.Rows != 10 || fp.Columns != 3 {
		t.Fatalf("dimensions = %d/%d, want 10/3", fp.Rows, fp.Columns)
	}

	// Small files round to two decimals, not to zero digits.
	small := FromBytes(make([]byte, 10486), 1, 1)
	if small.FileSizeMB != 0.01 {
		t.Fatalf("file size = %v, want 0.01", small.FileSizeMB)
	}
}
