package catalog

import (
	"archive/tar"
	"bytes"
	"compress/gzip"
	"errors"
	"math"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

func TestRoundTripAllCompressions(t *testing.T) {
	doc := sampleDocument()
	doc.Entries[0].PartitionFunction = PartitionFunction{}
	doc.Entries[0].PartitionFunction.Set(300, 3.1)
	doc.Entries[0].PartitionFunction.Set(37.5, 1.2)

	kinds := map[string]Compression{
		"plain": CompressionNone,
		"gzip":  CompressionGzip,
		"bzip2": CompressionBzip2,
		"xz":    CompressionXZ,
	}
	for name, kind := range kinds {
		t.Run(name, func(t *testing.T) {
			var buf bytes.Buffer
			if err := Encode(&buf, doc, kind); err != nil {
				t.Fatalf("Encode: %v", err)
			}
			got, err := Decode(&buf)
			if err != nil {
				t.Fatalf("Decode: %v", err)
			}
			if !reflect.DeepEqual(got.Entries, doc.Entries) {
				t.Fatalf("entries changed in round trip:\n got %+v\nwant %+v", got.Entries, doc.Entries)
			}
			if !got.BuildTime.Equal(doc.BuildTime) {
				t.Fatalf("build time = %v, want %v", got.BuildTime, doc.BuildTime)
			}
		})
	}
}

func TestEncodeDeterministic(t *testing.T) {
	doc := sampleDocument()
	var a, b bytes.Buffer
	if err := Encode(&a, doc, CompressionNone); err != nil {
		t.Fatal(err)
	}
	if err := Encode(&b, doc, CompressionNone); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(a.Bytes(), b.Bytes()) {
		t.Fatal("two encodings of the same document differ")
	}
}

func TestDecodeIgnoresExtension(t *testing.T) {
	// A gzip stream inside a file named .json must still decode.
	dir := t.TempDir()
	var buf bytes.Buffer
	if err := Encode(&buf, sampleDocument(), CompressionGzip); err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(dir, "mislabeled.json")
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	doc, err := DecodeFile(path)
	if err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}
	if len(doc.Entries) != 2 {
		t.Fatalf("entries = %d", len(doc.Entries))
	}
}

func TestDecodeTarWrapped(t *testing.T) {
	var payload bytes.Buffer
	if err := Encode(&payload, sampleDocument(), CompressionNone); err != nil {
		t.Fatal(err)
	}

	var archive bytes.Buffer
	tw := tar.NewWriter(&archive)
	if err := tw.WriteHeader(&tar.Header{Name: "notes.txt", Mode: 0o644, Size: 5}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write([]byte("hello")); err != nil {
		t.Fatal(err)
	}
	if err := tw.WriteHeader(&tar.Header{Name: "catalog.json", Mode: 0o644, Size: int64(payload.Len())}); err != nil {
		t.Fatal(err)
	}
	if _, err := tw.Write(payload.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := tw.Close(); err != nil {
		t.Fatal(err)
	}

	// Plain tar.
	doc, err := Decode(bytes.NewReader(archive.Bytes()))
	if err != nil {
		t.Fatalf("Decode tar: %v", err)
	}
	if len(doc.Entries) != 2 {
		t.Fatalf("entries = %d", len(doc.Entries))
	}

	// The usual .tar.gz nesting.
	var zipped bytes.Buffer
	zw := gzip.NewWriter(&zipped)
	if _, err := zw.Write(archive.Bytes()); err != nil {
		t.Fatal(err)
	}
	if err := zw.Close(); err != nil {
		t.Fatal(err)
	}
	doc, err = Decode(&zipped)
	if err != nil {
		t.Fatalf("Decode tar.gz: %v", err)
	}
	if len(doc.Entries) != 2 {
		t.Fatalf("entries = %d", len(doc.Entries))
	}
}

func TestDecodeCorruptInput(t *testing.T) {
	cases := map[string]string{
		"not json":        "certainly not a catalog",
		"wrong shape":     `{"something": 1}`,
		"catalog missing": `{"frequency": [0, 100]}`,
	}
	for name, content := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := Decode(strings.NewReader(content))
			if !errors.Is(err, ErrCatalogCorrupt) {
				t.Fatalf("expected ErrCatalogCorrupt, got %v", err)
			}
		})
	}
}

func TestDecodeNullFrequencyBound(t *testing.T) {
	doc, err := Decode(strings.NewReader(`{"catalog": [], "frequency": [100.0, null]}`))
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if doc.MinFrequency != 100 || !math.IsInf(doc.MaxFrequency, 1) {
		t.Fatalf("limits = (%v, %v)", doc.MinFrequency, doc.MaxFrequency)
	}
}

func TestSaveAppendsSuffix(t *testing.T) {
	dir := t.TempDir()
	path, err := Save(filepath.Join(dir, "catalog"), sampleDocument(), CompressionGzip)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if !strings.HasSuffix(path, "catalog.json.gz") {
		t.Fatalf("path = %q", path)
	}
	if _, err := DecodeFile(path); err != nil {
		t.Fatalf("DecodeFile: %v", err)
	}

	// A recognized suffix is kept as-is.
	path, err = Save(filepath.Join(dir, "explicit.json.xz"), sampleDocument(), CompressionXZ)
	if err != nil {
		t.Fatalf("Save: %v", err)
	}
	if filepath.Base(path) != "explicit.json.xz" {
		t.Fatalf("path = %q", path)
	}
}

func TestCompressionForName(t *testing.T) {
	cases := map[string]Compression{
		"a.json":      CompressionNone,
		"a.json.gz":   CompressionGzip,
		"a.JSON.BZ2":  CompressionBzip2,
		"a.json.xz":   CompressionXZ,
		"a.json.lzma": CompressionXZ,
	}
	for name, want := range cases {
		got, ok := CompressionForName(name)
		if !ok || got != want {
			t.Fatalf("CompressionForName(%q) = %v, %v", name, got, ok)
		}
	}
	if _, ok := CompressionForName("catalog.dat"); ok {
		t.Fatal("unrecognized suffix should report false")
	}
}
