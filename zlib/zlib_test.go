package zlib

import (
	"bytes"
	stdzlib "compress/zlib"
	"io"
	"testing"
)

func zlibBytes(t *testing.T, data []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := stdzlib.NewWriterLevel(&buf, stdzlib.BestCompression)
	if err != nil {
		t.Fatalf("zlib.NewWriterLevel: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return buf.Bytes()
}

func zlibBytesDict(t *testing.T, data, dict []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := stdzlib.NewWriterLevelDict(&buf, stdzlib.BestCompression, dict)
	if err != nil {
		t.Fatalf("zlib.NewWriterLevelDict: %v", err)
	}
	if _, err := w.Write(data); err != nil {
		t.Fatalf("zlib write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("zlib close: %v", err)
	}
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	data := []byte("the zlib façade reads whatever compress/zlib actually writes")
	stream := zlibBytes(t, data)

	r, err := NewReader(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %q want %q", got, data)
	}
}

func TestDictionaryRoundTrip(t *testing.T) {
	dict := []byte("shared boilerplate prefix")
	data := []byte("shared boilerplate prefix plus a unique tail for this message")
	stream := zlibBytesDict(t, data, dict)

	r, err := NewReaderDict(bytes.NewReader(stream), dict)
	if err != nil {
		t.Fatalf("NewReaderDict: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("dictionary round trip mismatch: got %q want %q", got, data)
	}
}

func TestDictionaryMismatchRejected(t *testing.T) {
	dict := []byte("shared boilerplate prefix")
	data := []byte("shared boilerplate prefix plus a unique tail for this message")
	stream := zlibBytesDict(t, data, dict)

	_, err := NewReaderDict(bytes.NewReader(stream), []byte("the wrong dictionary entirely"))
	if err != ErrDictionary {
		t.Fatalf("got %v, want ErrDictionary", err)
	}
}

func TestMissingDictionaryReportedOnRead(t *testing.T) {
	dict := []byte("shared boilerplate prefix")
	data := []byte("shared boilerplate prefix plus a unique tail for this message")
	stream := zlibBytesDict(t, data, dict)

	r, err := NewReader(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, err := io.ReadAll(r); err != ErrDictionary {
		t.Fatalf("got %v, want ErrDictionary", err)
	}
}

func TestBadHeader(t *testing.T) {
	stream := zlibBytes(t, []byte("data"))
	stream[0] = 0xff

	if _, err := NewReader(bytes.NewReader(stream)); err != ErrHeader {
		t.Fatalf("got %v, want ErrHeader", err)
	}
}

func TestCorruptChecksumRejected(t *testing.T) {
	stream := zlibBytes(t, []byte("some data worth checksumming"))
	stream[len(stream)-1] ^= 0xff

	r, err := NewReader(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, err := io.ReadAll(r); err != ErrChecksum {
		t.Fatalf("got %v, want ErrChecksum", err)
	}
}
