// Package cdms fetches the Cologne Database for Molecular Spectroscopy
// (https://cdms.astro.uni-koeln.de): the species listing from the portal's
// JSON endpoint, partition functions from the classic predictions page, and
// the per-species SPCAT line files.
package cdms

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"catsearch/internal/catalog"
	"catsearch/internal/fetch"
	"catsearch/internal/fetch/spcat"
)

// DefaultBaseURL is the public CDMS site root.
const DefaultBaseURL = "https://cdms.astro.uni-koeln.de"

// partition_function.html tabulates lg(Q) at these temperatures, in kelvins.
var partitionTemperatures = []float64{1000, 500, 300, 225, 150, 75, 37.5, 18.75, 9.375, 5, 2.725}

// Species tags merged into c044004.cat upstream; listed but not served.
var mergedTags = map[int]bool{44009: true, 44012: true}

// Client downloads from the CDMS site.
type Client struct {
	baseURL    string
	httpClient *http.Client

	mu   sync.Mutex
	meta map[int]catalog.Entry
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient overrides the default HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(c *Client) {
		if client != nil {
			c.httpClient = client
		}
	}
}

// New creates a CDMS client for the given base URL; empty means the public
// site.
func New(baseURL string, opts ...Option) *Client {
	baseURL = strings.TrimSpace(baseURL)
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	c := &Client{
		baseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: 30 * time.Second},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Name implements fetch.Source.
func (c *Client) Name() string { return "cdms" }

// speciesRecord mirrors one element of the portal's species listing. The
// endpoint serves numbers and the literal strings "" and "None"
// interchangeably for absent values, so everything textual is scrubbed after
// decoding.
type speciesRecord struct {
	SpeciesTag            int         `json:"speciestag"`
	Name                  string      `json:"name"`
	TrivialName           string      `json:"trivialname"`
	Isotopolog            string      `json:"isotopolog"`
	MoleculeSymbol        string      `json:"moleculesymbol"`
	StructuralFormula     string      `json:"structuralformula"`
	StoichiometricFormula string      `json:"stoichiometricformula"`
	InChIKey              string      `json:"inchikey"`
	StateHTML             string      `json:"state_html"`
	StateTex              string      `json:"state"`
	DegreesOfFreedom      *int        `json:"degreesoffreedom"`
	LowestFrequency       json.Number `json:"lowestfrequency"`
	HighestFrequency      json.Number `json:"highestfrequency"`
	Version               json.Number `json:"version"`
	Contributor           string      `json:"contributor"`
	DateOfEntry           string      `json:"dateofentry"`
}

type speciesListing struct {
	Species []speciesRecord `json:"species"`
}

// Directory posts the species query, scrubs and deduplicates the listing,
// and annotates each retained species with its partition function from the
// classic predictions page. Only entry tags (tag % 1000 > 500) are kept; the
// lower tags are document stubs without line files.
func (c *Client) Directory(ctx context.Context) ([]fetch.Species, error) {
	body, err := fetch.PostForm(ctx, c.httpClient, c.baseURL+"/cdms/portal/json_list/species/",
		url.Values{"database": {"-1"}})
	if err != nil {
		return nil, err
	}

	var listing speciesListing
	if err := json.Unmarshal([]byte(body), &listing); err != nil {
		return nil, fmt.Errorf("%w: species listing: %w", fetch.ErrUpstreamFormat, err)
	}
	if listing.Species == nil {
		return nil, fmt.Errorf("%w: species listing has no species array", fetch.ErrUpstreamFormat)
	}

	// The listing repeats a tag once per published version; keep the newest.
	byTag := make(map[int]speciesRecord)
	for _, rec := range listing.Species {
		if rec.SpeciesTag%1000 <= 500 || mergedTags[rec.SpeciesTag] {
			continue
		}
		prev, seen := byTag[rec.SpeciesTag]
		if !seen || versionOf(rec) > versionOf(prev) {
			byTag[rec.SpeciesTag] = rec
		}
	}

	partition, err := c.partitionFunctions(ctx)
	if err != nil {
		return nil, err
	}

	meta := make(map[int]catalog.Entry, len(byTag))
	species := make([]fetch.Species, 0, len(byTag))
	for tag, rec := range byTag {
		entry := rec.entry()
		entry.PartitionFunction = partition[tag]
		meta[tag] = entry

		sp := fetch.Species{Tag: tag, Name: entry.Name}
		if f, err := rec.LowestFrequency.Float64(); err == nil {
			sp.MinFrequency = f
		}
		if f, err := rec.HighestFrequency.Float64(); err == nil {
			sp.MaxFrequency = f
		}
		species = append(species, sp)
	}
	sort.Slice(species, func(i, j int) bool { return species[i].Tag < species[j].Tag })

	c.mu.Lock()
	c.meta = meta
	c.mu.Unlock()
	return species, nil
}

// entry converts a scrubbed record into catalog metadata.
func (r speciesRecord) entry() catalog.Entry {
	return catalog.Entry{
		SpeciesTag:            r.SpeciesTag,
		Name:                  scrub(r.Name),
		TrivialName:           scrub(r.TrivialName),
		Isotopolog:            scrub(r.Isotopolog),
		MoleculeSymbol:        scrub(r.MoleculeSymbol),
		StructuralFormula:     scrub(r.StructuralFormula),
		StoichiometricFormula: scrub(r.StoichiometricFormula),
		InChIKey:              scrub(r.InChIKey),
		StateHTML:             scrub(r.StateHTML),
		StateTex:              scrub(r.StateTex),
		DegreesOfFreedom:      r.DegreesOfFreedom,
		Version:               scrub(r.Version.String()),
		Contributor:           scrub(r.Contributor),
		DateOfEntry:           scrub(r.DateOfEntry),
	}
}

// scrub trims whitespace and maps the endpoint's "None" placeholder to the
// empty string.
func scrub(s string) string {
	s = strings.TrimSpace(s)
	if s == "None" {
		return ""
	}
	return s
}

func versionOf(r speciesRecord) float64 {
	v, err := r.Version.Float64()
	if err != nil {
		return 0
	}
	return v
}

// partitionFunctions downloads and parses the classic predictions table. The
// page is plain preformatted text: one row per species, the tag first and the
// eleven lg(Q) values last, with "---" for temperatures a species has no
// value at.
func (c *Client) partitionFunctions(ctx context.Context) (map[int]catalog.PartitionFunction, error) {
	body, err := fetch.Get(ctx, c.httpClient, c.baseURL+"/classic/predictions/catalog/partition_function.html")
	if err != nil {
		return nil, err
	}

	tables := make(map[int]catalog.PartitionFunction)
	for _, raw := range strings.Split(body, "\n") {
		fields := strings.Fields(raw)
		if len(fields) < 1+len(partitionTemperatures) {
			continue
		}
		tag, err := strconv.Atoi(fields[0])
		if err != nil {
			continue
		}
		values := fields[len(fields)-len(partitionTemperatures):]
		pf := catalog.PartitionFunction{}
		for i, temp := range partitionTemperatures {
			if values[i] == "---" {
				continue
			}
			lgQ, err := strconv.ParseFloat(values[i], 64)
			if err != nil {
				continue
			}
			pf.Set(temp, lgQ)
		}
		if len(pf) > 0 {
			tables[tag] = pf
		}
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("%w: partition function table has no rows", fetch.ErrUpstreamFormat)
	}
	return tables, nil
}

// Fetch downloads and parses one species' line file, keeping only lines
// inside the window. Directory must have run first.
func (c *Client) Fetch(ctx context.Context, sp fetch.Species, limits fetch.FrequencyLimits) (catalog.Entry, error) {
	c.mu.Lock()
	entry, ok := c.meta[sp.Tag]
	c.mu.Unlock()
	if !ok {
		return catalog.Entry{}, fmt.Errorf("%w: species tag %d not in directory", fetch.ErrUpstreamFormat, sp.Tag)
	}

	body, err := fetch.Get(ctx, c.httpClient, fmt.Sprintf("%s/classic/entries/c%06d.cat", c.baseURL, sp.Tag))
	if err != nil {
		return catalog.Entry{}, err
	}
	lines, err := spcat.Parse(body)
	if err != nil {
		if !errors.Is(err, fetch.ErrUpstreamFormat) {
			err = fmt.Errorf("%w: %w", fetch.ErrUpstreamFormat, err)
		}
		return catalog.Entry{}, err
	}

	if entry.DegreesOfFreedom == nil && len(lines) > 0 {
		dof := lines[0].DegreesOfFreedom
		entry.DegreesOfFreedom = &dof
	}
	for _, line := range lines {
		if !limits.Contains(line.Frequency) {
			continue
		}
		entry.Lines = append(entry.Lines, catalog.Line{
			Frequency:        line.Frequency,
			Intensity:        line.Intensity,
			LowerStateEnergy: line.LowerStateEnergy,
		})
	}
	entry.SortLines()
	return entry, nil
}
