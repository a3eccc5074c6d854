package catalog

import (
	"html"
	"strconv"
	"strings"
)

// DisplayName picks the most informative label for an entry, preferring the
// isotopolog (with its vibrational/electronic state when known) over the
// systematic name, formulas, and trivial name. Markup from the upstream HTML
// fields is stripped for terminal output.
func DisplayName(e *Entry) string {
	if e.Isotopolog != "" {
		if state := StripHTML(e.StateHTML); state != "" {
			return e.Isotopolog + ", " + state
		}
		if state := strings.Trim(e.StateTex, "$"); state != "" {
			return e.Isotopolog + ", " + state
		}
		return e.Isotopolog
	}
	for _, name := range []string{e.Name, e.StructuralFormula, e.StoichiometricFormula, e.TrivialName} {
		if name != "" {
			return name
		}
	}
	if e.SpeciesTag != 0 {
		return strconv.Itoa(e.SpeciesTag)
	}
	return "no name"
}

// StripHTML removes tags and decodes entities from a fragment of upstream
// HTML markup.
func StripHTML(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	depth := 0
	for _, r := range s {
		switch {
		case r == '<':
			depth++
		case r == '>':
			if depth > 0 {
				depth--
			}
		case depth == 0:
			b.WriteRune(r)
		}
	}
	return strings.TrimSpace(html.UnescapeString(b.String()))
}
