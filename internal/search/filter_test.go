package search_test

import (
	"math"
	"sort"
	"testing"

	"catsearch/internal/catalog"
	"catsearch/internal/search"
)

func intPtr(v int) *int { return &v }

func testStore(t *testing.T) *catalog.Store {
	t.Helper()
	store := catalog.NewStore()
	store.AppendEntries([]catalog.Entry{
		{
			SpeciesTag:        32003,
			Name:              "Methanol",
			TrivialName:       "methyl alcohol",
			StructuralFormula: "CH3OH",
			MoleculeSymbol:    "CH<sub>3</sub>OH",
			Isotopolog:        "CH3OH",
			InChIKey:          "OKKJLVBELUTLKV-UHFFFAOYSA-N",
			DegreesOfFreedom:  intPtr(3),
			Lines: []catalog.Line{
				{Frequency: 96739.36, Intensity: -4.5, LowerStateEnergy: 4.64},
				{Frequency: 96741.37, Intensity: -4.2, LowerStateEnergy: 6.97},
				{Frequency: 157270.83, Intensity: -4.7, LowerStateEnergy: 11.05},
			},
		},
		{
			SpeciesTag:            18003,
			Name:                  "H2O",
			TrivialName:           "Water",
			StoichiometricFormula: "H2O",
			Isotopolog:            "H2O",
			StateHTML:             "v=0",
			DegreesOfFreedom:      intPtr(3),
			Lines: []catalog.Line{
				{Frequency: 22235.08, Intensity: -6.2, LowerStateEnergy: 446.51},
				{Frequency: 183310.09, Intensity: -3.2, LowerStateEnergy: 136.16},
			},
		},
		{
			SpeciesTag:       28503,
			Name:             "CO, v=0",
			Isotopolog:       "CO",
			DegreesOfFreedom: intPtr(2),
			Lines: []catalog.Line{
				{Frequency: 115271.2, Intensity: -5.0, LowerStateEnergy: 0.0},
			},
		},
	})
	return store
}

func TestFilterDefaultCriteriaReturnsEverythingOrdered(t *testing.T) {
	store := testStore(t)
	matches := search.Filter(store, search.DefaultCriteria())
	if len(matches) != store.LineCount() {
		t.Fatalf("got %d matches, want %d", len(matches), store.LineCount())
	}
	if !sort.SliceIsSorted(matches, func(i, j int) bool {
		return matches[i].Line.Frequency < matches[j].Line.Frequency
	}) {
		t.Fatal("matches not ordered by ascending frequency")
	}
	for _, m := range matches {
		if m.Intensity != m.Line.Intensity {
			t.Fatalf("temperature unset: effective %v != cataloged %v", m.Intensity, m.Line.Intensity)
		}
	}
}

func TestFilterFrequencyWindow(t *testing.T) {
	// The two-entry example: only tag 2's 150 MHz line falls inside 120-180.
	store := catalog.NewStore()
	store.AppendEntries([]catalog.Entry{
		{SpeciesTag: 1, Lines: []catalog.Line{
			{Frequency: 100, Intensity: -5},
			{Frequency: 200, Intensity: -6},
		}},
		{SpeciesTag: 2, Lines: []catalog.Line{
			{Frequency: 150, Intensity: -4},
		}},
	})
	c := search.DefaultCriteria()
	c.MinFrequency = 120
	c.MaxFrequency = 180
	matches := search.Filter(store, c)
	if len(matches) != 1 {
		t.Fatalf("got %d matches, want 1", len(matches))
	}
	if matches[0].Entry.SpeciesTag != 2 || matches[0].Line.Frequency != 150 {
		t.Fatalf("unexpected match: %+v", matches[0])
	}
}

func TestFilterWindowsPartitionTheLineSet(t *testing.T) {
	store := testStore(t)
	edges := []float64{0, 50000, 100000, 150000, math.Inf(1)}
	total := 0
	for i := 0; i+1 < len(edges); i++ {
		c := search.DefaultCriteria()
		c.MinFrequency = edges[i]
		c.MaxFrequency = math.Nextafter(edges[i+1], 0) // half-open windows
		total += len(search.Filter(store, c))
	}
	if total != store.LineCount() {
		t.Fatalf("windows cover %d lines, want %d", total, store.LineCount())
	}
}

func TestFilterIntensityWindow(t *testing.T) {
	store := testStore(t)
	c := search.DefaultCriteria()
	c.MinIntensity = -5.0
	c.MaxIntensity = -4.0
	matches := search.Filter(store, c)
	for _, m := range matches {
		if m.Intensity < -5.0 || m.Intensity > -4.0 {
			t.Fatalf("intensity %v outside window", m.Intensity)
		}
	}
	if len(matches) != 4 {
		t.Fatalf("got %d matches, want 4", len(matches))
	}
}

func TestFilterTemperatureRescalesIntensity(t *testing.T) {
	store := testStore(t)
	c := search.DefaultCriteria()
	c.Temperature = 150
	matches := search.Filter(store, c)
	if len(matches) == 0 {
		t.Fatal("expected matches")
	}
	changed := false
	for _, m := range matches {
		want := m.Entry.EffectiveIntensity(m.Line, 150)
		if m.Intensity != want {
			t.Fatalf("effective intensity %v, want %v", m.Intensity, want)
		}
		if m.Intensity != m.Line.Intensity {
			changed = true
		}
	}
	if !changed {
		t.Fatal("rescaling changed no intensity at all")
	}
}

func TestFilterSubstanceMatchers(t *testing.T) {
	store := testStore(t)

	run := func(t *testing.T, c search.Criteria, wantTags ...int) {
		t.Helper()
		matches := search.Filter(store, c)
		seen := map[int]bool{}
		for _, m := range matches {
			seen[m.Entry.SpeciesTag] = true
		}
		if len(seen) != len(wantTags) {
			t.Fatalf("matched tags %v, want %v", seen, wantTags)
		}
		for _, tag := range wantTags {
			if !seen[tag] {
				t.Fatalf("matched tags %v, want %v", seen, wantTags)
			}
		}
	}

	t.Run("any name is case-insensitive substring", func(t *testing.T) {
		c := search.DefaultCriteria()
		c.AnyName = "WATER"
		run(t, c, 18003)
	})
	t.Run("any formula covers molecule symbol", func(t *testing.T) {
		c := search.DefaultCriteria()
		c.AnyFormula = "ch<sub>3</sub>oh"
		run(t, c, 32003)
	})
	t.Run("any name or formula is the union", func(t *testing.T) {
		c := search.DefaultCriteria()
		c.AnyNameOrFormula = "co"
		// "co" occurs in CO and in "methyl alCOhol".
		run(t, c, 28503, 32003)
	})
	t.Run("species tag is exact", func(t *testing.T) {
		c := search.DefaultCriteria()
		c.SpeciesTag = 18003
		run(t, c, 18003)
	})
	t.Run("inchi", func(t *testing.T) {
		c := search.DefaultCriteria()
		c.InChI = "okkjlvbelutlkv"
		run(t, c, 32003)
	})
	t.Run("state matches state html", func(t *testing.T) {
		c := search.DefaultCriteria()
		c.State = "v=0"
		run(t, c, 18003)
	})
	t.Run("state matches isotopolog", func(t *testing.T) {
		c := search.DefaultCriteria()
		c.State = "ch3oh"
		run(t, c, 32003)
	})
	t.Run("degrees of freedom", func(t *testing.T) {
		c := search.DefaultCriteria()
		c.DegreesOfFreedom = intPtr(2)
		run(t, c, 28503)
	})
	t.Run("constraints are conjunctive", func(t *testing.T) {
		c := search.DefaultCriteria()
		c.AnyNameOrFormula = "co"
		c.DegreesOfFreedom = intPtr(3)
		run(t, c, 32003)
	})
	t.Run("no match", func(t *testing.T) {
		c := search.DefaultCriteria()
		c.Name = "benzene"
		run(t, c)
	})
}

func TestFilterInvertedWindowIsEmpty(t *testing.T) {
	store := testStore(t)
	c := search.DefaultCriteria()
	c.MinFrequency = 200
	c.MaxFrequency = 100
	if got := search.Filter(store, c); got != nil {
		t.Fatalf("expected nil, got %d matches", len(got))
	}
}

func TestFilterEmptyStore(t *testing.T) {
	if got := search.Filter(catalog.NewStore(), search.DefaultCriteria()); got != nil {
		t.Fatalf("expected nil, got %v", got)
	}
}
