package service

import (
	"bytes"
	"strings"
	"testing"
)

func TestEncodeDocument_RoundTrip(t *testing.T) {
	original := []byte("%PDF-1.4\nbinary\x00\x01\x02content\xff")

	encoded, size, err := EncodeDocument(bytes.NewReader(original), 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size != int64(len(original)) {
		t.Errorf("expected size %d, got %d", len(original), size)
	}

	decoded, err := DecodeDocument(encoded)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// Декодирование обязано вернуть исходные байты в точности.
	if !bytes.Equal(decoded, original) {
		t.Errorf("round trip mismatch: got %q, want %q", decoded, original)
	}
}

func TestEncodeDocument_EmptyFile(t *testing.T) {
	encoded, size, err := EncodeDocument(bytes.NewReader(nil), 1024)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if size != 0 || encoded != "" {
		t.Errorf("expected empty encoding, got size=%d encoded=%q", size, encoded)
	}
}

func TestEncodeDocument_OverLimit(t *testing.T) {
	data := strings.Repeat("a", 101)
	_, _, err := EncodeDocument(strings.NewReader(data), 100)
	if err == nil {
		t.Fatal("expected error for oversized file")
	}
}

func TestDecodeDocument_InvalidBase64(t *testing.T) {
	if _, err := DecodeDocument("not-valid-base64!!!"); err == nil {
		t.Fatal("expected error")
	}
}
