package catalog

import (
	"archive/tar"
	"bufio"
	"bytes"
	"compress/gzip"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"time"

	"github.com/dsnet/compress/bzip2"
	"github.com/gofrs/flock"
	"github.com/ulikunitz/xz"
)

// Compression selects the container a catalog document is written in.
type Compression int

const (
	CompressionNone Compression = iota
	CompressionGzip
	CompressionBzip2
	CompressionXZ
)

// Suffix returns the file suffix conventionally used for the compression.
func (c Compression) Suffix() string {
	switch c {
	case CompressionGzip:
		return ".json.gz"
	case CompressionBzip2:
		return ".json.bz2"
	case CompressionXZ:
		return ".json.xz"
	default:
		return ".json"
	}
}

var suffixCompression = map[string]Compression{
	".json":      CompressionNone,
	".json.gz":   CompressionGzip,
	".json.bz2":  CompressionBzip2,
	".json.xz":   CompressionXZ,
	".json.lzma": CompressionXZ,
}

// CompressionForName reports the compression implied by a file name suffix.
func CompressionForName(name string) (Compression, bool) {
	lower := strings.ToLower(name)
	for suffix, kind := range suffixCompression {
		if strings.HasSuffix(lower, suffix) {
			return kind, true
		}
	}
	return CompressionNone, false
}

// Document is the persisted catalog payload: the entries, the frequency
// window the catalog was built for, and the build time. The frequency window
// is informational; line-derived limits in the Store are authoritative.
type Document struct {
	Entries      []Entry
	MinFrequency float64
	MaxFrequency float64
	BuildTime    time.Time
}

type documentJSON struct {
	Catalog   []Entry    `json:"catalog"`
	Frequency []*float64 `json:"frequency,omitempty"`
	BuildTime string     `json:"build_time,omitempty"`
}

func (d Document) toJSON() documentJSON {
	out := documentJSON{Catalog: d.Entries}
	if d.Entries == nil {
		out.Catalog = []Entry{}
	}
	bound := func(v float64) *float64 {
		if math.IsInf(v, 0) || math.IsNaN(v) {
			return nil
		}
		return &v
	}
	out.Frequency = []*float64{bound(d.MinFrequency), bound(d.MaxFrequency)}
	if !d.BuildTime.IsZero() {
		out.BuildTime = d.BuildTime.UTC().Format(time.RFC3339)
	}
	return out
}

func documentFromJSON(raw documentJSON) (Document, error) {
	if raw.Catalog == nil {
		return Document{}, fmt.Errorf("%w: missing catalog array", ErrCatalogCorrupt)
	}
	doc := Document{
		Entries:      raw.Catalog,
		MinFrequency: 0,
		MaxFrequency: math.Inf(1),
	}
	if len(raw.Frequency) > 0 && raw.Frequency[0] != nil {
		doc.MinFrequency = *raw.Frequency[0]
	}
	if len(raw.Frequency) > 1 && raw.Frequency[1] != nil {
		doc.MaxFrequency = *raw.Frequency[1]
	}
	if raw.BuildTime != "" {
		t, err := time.Parse(time.RFC3339, raw.BuildTime)
		if err != nil {
			return Document{}, fmt.Errorf("%w: bad build_time %q", ErrCatalogCorrupt, raw.BuildTime)
		}
		doc.BuildTime = t
	}
	return doc, nil
}

// Magic signatures, longest first where prefixes overlap.
var (
	magicGzip  = []byte{0x1f, 0x8b}
	magicBzip2 = []byte("BZh")
	magicXZ    = []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}
	magicTar   = []byte("ustar")
)

const tarMagicOffset = 257

// Decode reads a catalog document from r, detecting gzip, bzip2, xz, and tar
// containers by signature. Containers may nest (a tar inside gzip is the
// usual `.tar.gz` case). Unrecognized or malformed content yields
// ErrCatalogCorrupt; read failures yield ErrFileUnreadable.
func Decode(r io.Reader) (Document, error) {
	br := bufio.NewReaderSize(r, 4096)
	head, err := br.Peek(tarMagicOffset + len(magicTar))
	if err != nil && !errors.Is(err, io.EOF) {
		return Document{}, fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	switch {
	case bytes.HasPrefix(head, magicGzip):
		zr, err := gzip.NewReader(br)
		if err != nil {
			return Document{}, fmt.Errorf("%w: gzip: %w", ErrFileUnreadable, err)
		}
		defer zr.Close()
		return Decode(zr)
	case bytes.HasPrefix(head, magicBzip2):
		zr, err := bzip2.NewReader(br, nil)
		if err != nil {
			return Document{}, fmt.Errorf("%w: bzip2: %w", ErrFileUnreadable, err)
		}
		defer zr.Close()
		return Decode(zr)
	case bytes.HasPrefix(head, magicXZ):
		zr, err := xz.NewReader(br)
		if err != nil {
			return Document{}, fmt.Errorf("%w: xz: %w", ErrFileUnreadable, err)
		}
		return Decode(zr)
	case len(head) > tarMagicOffset && bytes.Equal(head[tarMagicOffset:tarMagicOffset+len(magicTar)], magicTar):
		return decodeTar(br)
	default:
		return decodeJSON(br)
	}
}

func decodeJSON(r io.Reader) (Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	var raw documentJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrCatalogCorrupt, err)
	}
	return documentFromJSON(raw)
}

// decodeTar scans archive members and returns the first one that decodes as
// a catalog document.
func decodeTar(r io.Reader) (Document, error) {
	tr := tar.NewReader(r)
	for {
		hdr, err := tr.Next()
		if errors.Is(err, io.EOF) {
			return Document{}, fmt.Errorf("%w: no catalog member in archive", ErrCatalogCorrupt)
		}
		if err != nil {
			return Document{}, fmt.Errorf("%w: tar: %w", ErrFileUnreadable, err)
		}
		if hdr.Typeflag != tar.TypeReg {
			continue
		}
		doc, err := Decode(tr)
		if err == nil {
			return doc, nil
		}
	}
}

// DecodeFile opens and decodes one catalog file.
func DecodeFile(path string) (Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return Document{}, fmt.Errorf("%w: %w", ErrFileUnreadable, err)
	}
	defer f.Close()
	return Decode(f)
}

// Encode writes the document as indented JSON wrapped in the requested
// compression. Given the same entry order the output is deterministic:
// struct fields keep declaration order and map keys are sorted by
// encoding/json.
func Encode(w io.Writer, doc Document, kind Compression) error {
	var (
		target = w
		closer io.Closer
	)
	switch kind {
	case CompressionNone:
	case CompressionGzip:
		zw := gzip.NewWriter(w)
		target, closer = zw, zw
	case CompressionBzip2:
		zw, err := bzip2.NewWriter(w, nil)
		if err != nil {
			return fmt.Errorf("bzip2 writer: %w", err)
		}
		target, closer = zw, zw
	case CompressionXZ:
		zw, err := xz.NewWriter(w)
		if err != nil {
			return fmt.Errorf("xz writer: %w", err)
		}
		target, closer = zw, zw
	default:
		return fmt.Errorf("unsupported compression kind %d", kind)
	}

	enc := json.NewEncoder(target)
	enc.SetIndent("", "    ")
	if err := enc.Encode(doc.toJSON()); err != nil {
		if closer != nil {
			closer.Close()
		}
		return fmt.Errorf("encode catalog: %w", err)
	}
	if closer != nil {
		if err := closer.Close(); err != nil {
			return fmt.Errorf("finish %s stream: %w", strings.TrimPrefix(kind.Suffix(), ".json."), err)
		}
	}
	return nil
}

// Save writes the document to path with the requested compression, appending
// the kind's suffix when the name does not already carry a recognized one.
// The write goes to a temporary file that replaces the target on success,
// under an advisory lock so concurrent writers do not interleave. The final
// path is returned.
func Save(path string, doc Document, kind Compression) (string, error) {
	if _, ok := CompressionForName(path); !ok {
		path += kind.Suffix()
	}

	lock := flock.New(path + ".lock")
	if err := lock.Lock(); err != nil {
		return "", fmt.Errorf("lock %s: %w", path, err)
	}
	defer func() {
		lock.Unlock()
		os.Remove(path + ".lock")
	}()

	tmp := path + ".part"
	f, err := os.Create(tmp)
	if err != nil {
		return "", fmt.Errorf("create %s: %w", tmp, err)
	}
	if err := Encode(f, doc, kind); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", err
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return "", fmt.Errorf("sync %s: %w", tmp, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("close %s: %w", tmp, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		os.Remove(tmp)
		return "", fmt.Errorf("replace %s: %w", path, err)
	}
	return path, nil
}
