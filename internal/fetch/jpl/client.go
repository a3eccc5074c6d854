// Package jpl fetches the JPL Molecular Spectroscopy catalog
// (https://spec.jpl.nasa.gov): the catdir.cat species directory, which also
// carries each species' partition function, and the per-species SPCAT line
// files.
package jpl

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"catsearch/internal/catalog"
	"catsearch/internal/fetch"
	"catsearch/internal/fetch/spcat"
)

// DefaultBaseURL is the public JPL catalog root.
const DefaultBaseURL = "https://spec.jpl.nasa.gov/ftp/pub/catalog"

// catdir.cat lists lg(Q) at these temperatures, in kelvins.
var partitionTemperatures = []float64{300, 225, 150, 75, 37.5, 18.75, 9.375}

// Species tags whose line files were merged into c044004.cat upstream; the
// directory still lists them, but the files are gone.
var mergedTags = map[int]bool{44009: true, 44012: true}

// Client downloads from the JPL archive.
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

// New creates a JPL client for the given base URL; empty means the public
// archive.
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
func (c *Client) Name() string { return "jpl" }

// Directory downloads and parses catdir.cat. Each row yields the species
// tag, name, and partition function table used later by Fetch.
func (c *Client) Directory(ctx context.Context) ([]fetch.Species, error) {
	body, err := fetch.Get(ctx, c.httpClient, c.baseURL+"/catdir.cat")
	if err != nil {
		return nil, err
	}

	meta := make(map[int]catalog.Entry)
	var species []fetch.Species
	for i, raw := range strings.Split(body, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		entry, err := parseDirectoryLine(raw)
		if err != nil {
			return nil, fmt.Errorf("%w: catdir.cat line %d: %w", fetch.ErrUpstreamFormat, i+1, err)
		}
		if mergedTags[entry.SpeciesTag] {
			continue
		}
		meta[entry.SpeciesTag] = entry
		species = append(species, fetch.Species{Tag: entry.SpeciesTag, Name: entry.Name})
	}

	c.mu.Lock()
	c.meta = meta
	c.mu.Unlock()
	return species, nil
}

// parseDirectoryLine decodes one catdir.cat row: tag, name (may contain
// blanks), line count, lg(Q) at the seven standard temperatures, version.
func parseDirectoryLine(raw string) (catalog.Entry, error) {
	fields := strings.Fields(raw)
	// tag + name + nline + 7 qlog + version
	if len(fields) < 3+len(partitionTemperatures)+1 {
		return catalog.Entry{}, fmt.Errorf("short row %q", raw)
	}
	tag, err := strconv.Atoi(fields[0])
	if err != nil {
		return catalog.Entry{}, fmt.Errorf("species tag: %w", err)
	}
	numeric := len(fields) - 2 - len(partitionTemperatures) // index of the line count
	if numeric < 1 {
		return catalog.Entry{}, fmt.Errorf("short row %q", raw)
	}
	name := strings.Join(fields[1:numeric], " ")

	version := fields[len(fields)-1]
	pf := catalog.PartitionFunction{}
	for i, temp := range partitionTemperatures {
		lgQ, err := strconv.ParseFloat(fields[numeric+1+i], 64)
		if err != nil {
			return catalog.Entry{}, fmt.Errorf("lg(Q) at %g K: %w", temp, err)
		}
		pf.Set(temp, lgQ)
	}
	return catalog.Entry{
		SpeciesTag:        tag,
		Name:              name,
		Version:           version,
		PartitionFunction: pf,
	}, nil
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

	body, err := fetch.Get(ctx, c.httpClient, fmt.Sprintf("%s/c%06d.cat", c.baseURL, sp.Tag))
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

	if len(lines) > 0 {
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
