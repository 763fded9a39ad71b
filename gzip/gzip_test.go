package gzip

import (
	"bytes"
	stdgzip "compress/gzip"
	"io"
	"testing"
)

func gzipBytes(t *testing.T, data []byte, name string) []byte {
	t.Helper()
	var buf bytes.Buffer
	w, err := stdgzip.NewWriterLevel(&buf, stdgzip.BestCompression)
	if err != nil {
		t.Fatalf("gzip.NewWriterLevel: %v", err)
	}
	w.Name = name
	if _, err := w.Write(data); err != nil {
		t.Fatalf("gzip write: %v", err)
	}
	if err := w.Close(); err != nil {
		t.Fatalf("gzip close: %v", err)
	}
	return buf.Bytes()
}

func TestRoundTrip(t *testing.T) {
	data := []byte("the gzip façade reads whatever compress/gzip actually writes")
	stream := gzipBytes(t, data, "greeting.txt")

	r, err := NewReader(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if r.Name != "greeting.txt" {
		t.Fatalf("Name: got %q", r.Name)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if !bytes.Equal(got, data) {
		t.Fatalf("round trip mismatch: got %q want %q", got, data)
	}
}

func TestMultistream(t *testing.T) {
	a := gzipBytes(t, []byte("first member "), "")
	b := gzipBytes(t, []byte("second member"), "")

	r, err := NewReader(bytes.NewReader(append(a, b...)))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "first member second member" {
		t.Fatalf("multistream mismatch: got %q", got)
	}
}

func TestMultistreamDisabled(t *testing.T) {
	a := gzipBytes(t, []byte("first member "), "")
	b := gzipBytes(t, []byte("second member"), "")

	r, err := NewReader(bytes.NewReader(append(a, b...)))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	r.Multistream(false)
	got, err := io.ReadAll(r)
	if err != nil {
		t.Fatalf("ReadAll: %v", err)
	}
	if string(got) != "first member " {
		t.Fatalf("disabled-multistream mismatch: got %q", got)
	}
}

func TestCorruptTrailerReportsChecksum(t *testing.T) {
	stream := gzipBytes(t, []byte("some data worth checksumming"), "")
	stream[len(stream)-1] ^= 0xff // flip every bit of the trailing ISIZE's last byte

	r, err := NewReader(bytes.NewReader(stream))
	if err != nil {
		t.Fatalf("NewReader: %v", err)
	}
	if _, err := io.ReadAll(r); err != ErrChecksum {
		t.Fatalf("got %v, want ErrChecksum", err)
	}
}

func TestBadHeaderMagic(t *testing.T) {
	stream := gzipBytes(t, []byte("data"), "")
	stream[0] = 0x00

	if _, err := NewReader(bytes.NewReader(stream)); err != ErrHeader {
		t.Fatalf("got %v, want ErrHeader", err)
	}
}
