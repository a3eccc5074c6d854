package search

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"

	"catsearch/internal/catalog"
)

// Match is one selected spectral line together with the entry it belongs to
// and its effective intensity: the cataloged value, or the value rescaled to
// Criteria.Temperature when that was set.
type Match struct {
	Entry     *catalog.Entry
	Line      catalog.Line
	Intensity float64
}

// Filter selects every line of every store entry matching the criteria.
// Results are ordered by ascending frequency; ties keep entry order. Entries
// with no passing line do not appear at all. The store is only read.
func Filter(store *catalog.Store, c Criteria) []Match {
	if store.IsEmpty() || c.MinFrequency > c.MaxFrequency {
		return nil
	}
	lo, hi := store.FrequencyLimits()
	if c.MinFrequency > hi || c.MaxFrequency < lo {
		return nil
	}

	m := newMatcher(c)
	var matches []Match
	entries := store.Entries()
	for i := range entries {
		entry := &entries[i]
		if !m.matchesEntry(entry) {
			continue
		}
		appendEntryLines(&matches, entry, c)
	}
	sort.SliceStable(matches, func(i, j int) bool {
		return matches[i].Line.Frequency < matches[j].Line.Frequency
	})
	return matches
}

// appendEntryLines walks the entry's frequency-sorted lines within the
// requested window and applies the intensity gate.
func appendEntryLines(matches *[]Match, entry *catalog.Entry, c Criteria) {
	lines := entry.Lines
	start := sort.Search(len(lines), func(i int) bool {
		return lines[i].Frequency >= c.MinFrequency
	})
	for _, line := range lines[start:] {
		if line.Frequency > c.MaxFrequency {
			break
		}
		intensity := line.Intensity
		if c.temperatureSet() {
			intensity = entry.EffectiveIntensity(line, c.Temperature)
		}
		if intensity < c.MinIntensity || intensity > c.MaxIntensity {
			continue
		}
		*matches = append(*matches, Match{Entry: entry, Line: line, Intensity: intensity})
	}
}

// matcher holds the case-folded substance criteria for one Filter call.
type matcher struct {
	c      Criteria
	folder cases.Caser

	anyName          string
	anyFormula       string
	anyNameOrFormula string
	inchi            string
	trivialName      string
	structural       string
	name             string
	stoichiometric   string
	isotopolog       string
	state            string
}

func newMatcher(c Criteria) *matcher {
	m := &matcher{c: c, folder: cases.Fold()}
	m.anyName = m.fold(c.AnyName)
	m.anyFormula = m.fold(c.AnyFormula)
	m.anyNameOrFormula = m.fold(c.AnyNameOrFormula)
	m.inchi = m.fold(c.InChI)
	m.trivialName = m.fold(c.TrivialName)
	m.structural = m.fold(c.StructuralFormula)
	m.name = m.fold(c.Name)
	m.stoichiometric = m.fold(c.StoichiometricFormula)
	m.isotopolog = m.fold(c.Isotopolog)
	m.state = m.fold(c.State)
	return m
}

func (m *matcher) fold(s string) string {
	if s == "" {
		return ""
	}
	return m.folder.String(s)
}

// contains reports whether the already-folded needle occurs in field.
func (m *matcher) contains(field, needle string) bool {
	return strings.Contains(m.folder.String(field), needle)
}

func (m *matcher) matchesEntry(e *catalog.Entry) bool {
	if !m.c.hasSubstanceConstraints() {
		return true
	}
	if m.c.SpeciesTag != 0 && e.SpeciesTag != m.c.SpeciesTag {
		return false
	}
	if m.inchi != "" && !m.contains(e.InChIKey, m.inchi) {
		return false
	}
	if m.trivialName != "" && !m.contains(e.TrivialName, m.trivialName) {
		return false
	}
	if m.structural != "" && !m.contains(e.StructuralFormula, m.structural) {
		return false
	}
	if m.name != "" && !m.contains(e.Name, m.name) {
		return false
	}
	if m.stoichiometric != "" && !m.contains(e.StoichiometricFormula, m.stoichiometric) {
		return false
	}
	if m.isotopolog != "" && !m.contains(e.Isotopolog, m.isotopolog) {
		return false
	}
	if m.state != "" && !m.contains(e.Isotopolog, m.state) && !m.contains(e.StateHTML, m.state) {
		return false
	}
	if m.c.DegreesOfFreedom != nil {
		if e.DegreesOfFreedom == nil || *e.DegreesOfFreedom != *m.c.DegreesOfFreedom {
			return false
		}
	}
	if m.anyName != "" &&
		!m.contains(e.TrivialName, m.anyName) && !m.contains(e.Name, m.anyName) {
		return false
	}
	if m.anyFormula != "" && !m.matchesFormula(e, m.anyFormula) {
		return false
	}
	if m.anyNameOrFormula != "" &&
		!m.contains(e.TrivialName, m.anyNameOrFormula) &&
		!m.contains(e.Name, m.anyNameOrFormula) &&
		!m.matchesFormula(e, m.anyNameOrFormula) {
		return false
	}
	return true
}

func (m *matcher) matchesFormula(e *catalog.Entry, needle string) bool {
	return m.contains(e.StructuralFormula, needle) ||
		m.contains(e.MoleculeSymbol, needle) ||
		m.contains(e.StoichiometricFormula, needle) ||
		m.contains(e.Isotopolog, needle)
}
