package jpl_test

import (
	"context"
	"errors"
	"fmt"
	"math"
	"net/http"
	"net/http/httptest"
	"testing"

	"catsearch/internal/fetch"
	"catsearch/internal/fetch/jpl"
)

const catdir = ` 18003 H2O                    821 2.2507 2.1215 1.9447 1.5985 1.3290 1.0934 0.8967  6
 28503 CO                      91 1.0369 0.9123 0.7384 0.4438 0.1697 0.0118 0.0002  5
 44009 CS                      45 1.2000 1.1000 1.0000 0.9000 0.8000 0.7000 0.6000  1
`

const waterLines = `     262.0870  0.0011-19.2529 2 5174.7303  4  180011335 1-132 2 2   1 132 2 3
  115271.2018  0.0005 -5.0105 2    3.8450  3  180011335 1-132 2 2   1 132 2 3
`

func newServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/catdir.cat", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, catdir)
	})
	mux.HandleFunc("/c018003.cat", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, waterLines)
	})
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return server
}

func TestDirectory(t *testing.T) {
	server := newServer(t)
	client := jpl.New(server.URL, jpl.WithHTTPClient(server.Client()))

	species, err := client.Directory(context.Background())
	if err != nil {
		t.Fatalf("Directory: %v", err)
	}
	if len(species) != 2 {
		t.Fatalf("got %d species, want 2 (tag 44009 is merged upstream)", len(species))
	}
	if species[0].Tag != 18003 || species[0].Name != "H2O" {
		t.Fatalf("first species = %+v", species[0])
	}
	if species[1].Tag != 28503 || species[1].Name != "CO" {
		t.Fatalf("second species = %+v", species[1])
	}
}

func TestDirectoryBadRow(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, "<html>not a directory</html>\n")
	}))
	defer server.Close()

	client := jpl.New(server.URL, jpl.WithHTTPClient(server.Client()))
	if _, err := client.Directory(context.Background()); !errors.Is(err, fetch.ErrUpstreamFormat) {
		t.Fatalf("got %v, want ErrUpstreamFormat", err)
	}
}

func TestFetch(t *testing.T) {
	server := newServer(t)
	client := jpl.New(server.URL, jpl.WithHTTPClient(server.Client()))

	species, err := client.Directory(context.Background())
	if err != nil {
		t.Fatalf("Directory: %v", err)
	}
	entry, err := client.Fetch(context.Background(), species[0], fetch.Unbounded())
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if entry.SpeciesTag != 18003 || entry.Name != "H2O" || entry.Version != "6" {
		t.Fatalf("entry metadata = %+v", entry)
	}
	if entry.DegreesOfFreedom == nil || *entry.DegreesOfFreedom != 2 {
		t.Fatalf("degrees of freedom = %v", entry.DegreesOfFreedom)
	}
	if len(entry.Lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(entry.Lines))
	}
	if entry.Lines[0].Frequency > entry.Lines[1].Frequency {
		t.Fatal("lines not sorted by frequency")
	}

	lgQ, ok := entry.PartitionFunction.LgQ(300)
	if !ok || math.Abs(lgQ-2.2507) > 1e-9 {
		t.Fatalf("lg(Q) at 300 K = %v, %v", lgQ, ok)
	}
	if temps := entry.PartitionFunction.Temperatures(); len(temps) != 7 {
		t.Fatalf("got %d partition temperatures, want 7", len(temps))
	}
}

func TestFetchWindow(t *testing.T) {
	server := newServer(t)
	client := jpl.New(server.URL, jpl.WithHTTPClient(server.Client()))

	species, err := client.Directory(context.Background())
	if err != nil {
		t.Fatalf("Directory: %v", err)
	}
	entry, err := client.Fetch(context.Background(), species[0], fetch.FrequencyLimits{Min: 100000, Max: 200000})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if len(entry.Lines) != 1 {
		t.Fatalf("got %d lines, want 1", len(entry.Lines))
	}
	if math.Abs(entry.Lines[0].Frequency-115271.2018) > 1e-9 {
		t.Fatalf("frequency = %v", entry.Lines[0].Frequency)
	}
}

func TestFetchWithoutDirectory(t *testing.T) {
	server := newServer(t)
	client := jpl.New(server.URL, jpl.WithHTTPClient(server.Client()))

	_, err := client.Fetch(context.Background(), fetch.Species{Tag: 18003}, fetch.Unbounded())
	if !errors.Is(err, fetch.ErrUpstreamFormat) {
		t.Fatalf("got %v, want ErrUpstreamFormat", err)
	}
}

func TestFetchServerError(t *testing.T) {
	var failing bool
	mux := http.NewServeMux()
	mux.HandleFunc("/catdir.cat", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, catdir)
	})
	mux.HandleFunc("/c018003.cat", func(w http.ResponseWriter, r *http.Request) {
		if failing {
			http.Error(w, "unavailable", http.StatusServiceUnavailable)
			return
		}
		fmt.Fprint(w, waterLines)
	})
	server := httptest.NewServer(mux)
	defer server.Close()

	client := jpl.New(server.URL, jpl.WithHTTPClient(server.Client()))
	species, err := client.Directory(context.Background())
	if err != nil {
		t.Fatalf("Directory: %v", err)
	}

	failing = true
	if _, err := client.Fetch(context.Background(), species[0], fetch.Unbounded()); !errors.Is(err, fetch.ErrNetwork) {
		t.Fatalf("got %v, want ErrNetwork", err)
	}
}

