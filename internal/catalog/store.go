package catalog

import (
	"math"
	"sort"
	"time"
)

// DownloadedSource is the synthetic provenance filename recorded for entries
// appended by the downloader rather than loaded from a file.
const DownloadedSource = "downloaded"

// SourceInfo records where a batch of entries came from.
type SourceInfo struct {
	Filename  string
	BuildTime time.Time
}

// Store is the in-memory union of one or more catalog sources. It owns its
// entries: callers borrow them read-only and must not mutate them. Loading is
// single-writer; concurrent read-only use (filtering) is safe once loading
// has finished.
type Store struct {
	entries []Entry
	sources []SourceInfo

	limitsValid      bool
	minFreq, maxFreq float64
}

// NewStore returns an empty store.
func NewStore() *Store {
	return &Store{}
}

// Load reads every path in order and appends its entries and provenance.
// A file that cannot be read or decoded is skipped and recorded; the error
// returned is a *LoadReport aggregating all such failures, or nil when every
// file loaded. A fully failed or empty load set is not an error by itself:
// callers check IsEmpty.
func (s *Store) Load(paths ...string) error {
	report := &LoadReport{}
	for _, path := range paths {
		doc, err := DecodeFile(path)
		if err != nil {
			report.Errors = append(report.Errors, &FileError{Filename: path, Err: err})
			continue
		}
		s.appendSource(doc.Entries, SourceInfo{Filename: path, BuildTime: doc.BuildTime})
	}
	if len(report.Errors) > 0 {
		return report
	}
	return nil
}

// Replace discards all entries and sources, then loads the given paths into
// the emptied store.
func (s *Store) Replace(paths ...string) error {
	s.entries = nil
	s.sources = nil
	s.limitsValid = false
	return s.Load(paths...)
}

// AppendEntries adds freshly downloaded entries with synthetic provenance.
func (s *Store) AppendEntries(entries []Entry) {
	s.appendSource(entries, SourceInfo{Filename: DownloadedSource, BuildTime: time.Now().UTC()})
}

func (s *Store) appendSource(entries []Entry, info SourceInfo) {
	ordered := make([]Entry, len(entries))
	copy(ordered, entries)
	sort.SliceStable(ordered, func(i, j int) bool {
		return ordered[i].SpeciesTag < ordered[j].SpeciesTag
	})
	s.entries = append(s.entries, ordered...)
	s.sources = append(s.sources, info)
	s.limitsValid = false
}

// Entries exposes the merged entries for read-only use.
func (s *Store) Entries() []Entry {
	return s.entries
}

// Sources lists the provenance of every loaded batch, in load order.
func (s *Store) Sources() []SourceInfo {
	out := make([]SourceInfo, len(s.sources))
	copy(out, s.sources)
	return out
}

// IsEmpty reports whether the store holds no entries.
func (s *Store) IsEmpty() bool {
	return len(s.entries) == 0
}

// Len returns the number of entries.
func (s *Store) Len() int {
	return len(s.entries)
}

// LineCount returns the total number of lines across all entries.
func (s *Store) LineCount() int {
	n := 0
	for i := range s.entries {
		n += len(s.entries[i].Lines)
	}
	return n
}

// FrequencyLimits returns the lowest and highest line frequency across all
// entries, recomputed lazily after mutation. An empty store reports the
// infinite-open interval (+Inf, -Inf).
func (s *Store) FrequencyLimits() (min, max float64) {
	if !s.limitsValid {
		s.minFreq, s.maxFreq = math.Inf(1), math.Inf(-1)
		for i := range s.entries {
			lo, hi := s.entries[i].FrequencyRange()
			if lo < s.minFreq {
				s.minFreq = lo
			}
			if hi > s.maxFreq {
				s.maxFreq = hi
			}
		}
		s.limitsValid = true
	}
	return s.minFreq, s.maxFreq
}
