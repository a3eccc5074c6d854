// Package spcat decodes the fixed-column SPCAT catalog line format served
// by both the JPL and CDMS archives (the c%06d.cat files).
//
// Each line is laid out as
//
//	FREQ         ERR     LGINT   DR ELO      GUP TAG   QNFMT QN'    QN"
//	F13.4        F8.4    F8.4    I2 F10.4    I3  I7    I4    6I2    6I2
//
// of which the frequency (MHz), base-10 log intensity (nm²·MHz at 300 K),
// degrees of freedom, and lower state energy (cm⁻¹) are extracted.
package spcat

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Column boundaries of the fields this package reads.
const (
	freqEnd  = 13
	lgintOff = 21
	lgintEnd = 29
	drEnd    = 31
	eloEnd   = 41
)

var errShortLine = errors.New("line shorter than the ELO column")

// Line is one decoded catalog line.
type Line struct {
	Frequency        float64
	Intensity        float64
	DegreesOfFreedom int
	LowerStateEnergy float64
}

// ParseLine decodes a single SPCAT line.
func ParseLine(raw string) (Line, error) {
	if len(raw) < eloEnd {
		return Line{}, fmt.Errorf("%w: %d columns", errShortLine, len(raw))
	}
	freq, err := field(raw[:freqEnd])
	if err != nil {
		return Line{}, fmt.Errorf("frequency: %w", err)
	}
	lgint, err := field(raw[lgintOff:lgintEnd])
	if err != nil {
		return Line{}, fmt.Errorf("intensity: %w", err)
	}
	dr, err := strconv.Atoi(strings.TrimSpace(raw[lgintEnd:drEnd]))
	if err != nil {
		return Line{}, fmt.Errorf("degrees of freedom: %w", err)
	}
	elo, err := field(raw[drEnd:eloEnd])
	if err != nil {
		return Line{}, fmt.Errorf("lower state energy: %w", err)
	}
	return Line{Frequency: freq, Intensity: lgint, DegreesOfFreedom: dr, LowerStateEnergy: elo}, nil
}

// Parse decodes a whole catalog file. Blank lines are skipped; any other
// undecodable line fails the whole parse, since a truncated response must
// not silently shrink the catalog.
func Parse(body string) ([]Line, error) {
	var lines []Line
	for i, raw := range strings.Split(body, "\n") {
		raw = strings.TrimRight(raw, "\r")
		if strings.TrimSpace(raw) == "" {
			continue
		}
		line, err := ParseLine(raw)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		lines = append(lines, line)
	}
	return lines, nil
}

func field(s string) (float64, error) {
	return strconv.ParseFloat(strings.TrimSpace(s), 64)
}
