package spcat_test

import (
	"math"
	"strings"
	"testing"

	"catsearch/internal/fetch/spcat"
)

// A genuine line from the JPL H2O entry plus the format reference row.
const sampleLine = "     262.0870  0.0011-19.2529 2 5174.7303  4  180011335 1-132 2 2   1 132 2 3"

func TestParseLine(t *testing.T) {
	line, err := spcat.ParseLine(sampleLine)
	if err != nil {
		t.Fatalf("ParseLine: %v", err)
	}
	if math.Abs(line.Frequency-262.0870) > 1e-9 {
		t.Fatalf("frequency = %v", line.Frequency)
	}
	if math.Abs(line.Intensity-(-19.2529)) > 1e-9 {
		t.Fatalf("intensity = %v", line.Intensity)
	}
	if line.DegreesOfFreedom != 2 {
		t.Fatalf("degrees of freedom = %d", line.DegreesOfFreedom)
	}
	if math.Abs(line.LowerStateEnergy-5174.7303) > 1e-9 {
		t.Fatalf("lower state energy = %v", line.LowerStateEnergy)
	}
}

func TestParseLineTooShort(t *testing.T) {
	if _, err := spcat.ParseLine("262.0870"); err == nil {
		t.Fatal("expected error for truncated line")
	}
}

func TestParseLineGarbage(t *testing.T) {
	garbage := "<html><head><title>404 Not Found</title></head><body>nope</body></html>"
	if _, err := spcat.ParseLine(garbage); err == nil {
		t.Fatal("expected error for non-catalog content")
	}
}

func TestParseSkipsBlankLines(t *testing.T) {
	body := sampleLine + "\r\n\r\n" + sampleLine + "\n"
	lines, err := spcat.Parse(body)
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(lines) != 2 {
		t.Fatalf("got %d lines, want 2", len(lines))
	}
}

func TestParseFailsOnBadLine(t *testing.T) {
	body := sampleLine + "\nnot a catalog line at all, but long enough to parse\n"
	if _, err := spcat.Parse(body); err == nil {
		t.Fatal("expected error")
	}
	if _, err := spcat.Parse(strings.Repeat(" ", 50)); err != nil {
		t.Fatalf("all-blank body should parse to nothing: %v", err)
	}
}
