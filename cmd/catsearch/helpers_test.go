package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"catsearch/internal/catalog"
)

func runCLI(t *testing.T, configPath string, args ...string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	flags := []string{}
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func writeTestCatalog(t *testing.T, dir string) string {
	t.Helper()
	dof := 2
	doc := catalog.Document{
		Entries: []catalog.Entry{
			{
				SpeciesTag:       18003,
				Name:             "Water",
				TrivialName:      "Water",
				Isotopolog:       "H2O",
				DegreesOfFreedom: &dof,
				Lines: []catalog.Line{
					{Frequency: 115000, Intensity: -5.0, LowerStateEnergy: 10},
					{Frequency: 230000, Intensity: -4.0, LowerStateEnergy: 20},
				},
			},
			{
				SpeciesTag:       28503,
				Name:             "Carbon monoxide",
				Isotopolog:       "CO",
				DegreesOfFreedom: &dof,
				Lines: []catalog.Line{
					{Frequency: 115271.2018, Intensity: -5.01, LowerStateEnergy: 3.845},
				},
			},
		},
		BuildTime: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
	}
	path, err := catalog.Save(filepath.Join(dir, "catalog.json"), doc, catalog.CompressionNone)
	if err != nil {
		t.Fatalf("save test catalog: %v", err)
	}
	return path
}

func writeTestConfig(t *testing.T, dir, catalogPath string) string {
	t.Helper()
	path := filepath.Join(dir, "config.toml")
	content := fmt.Sprintf("[catalog]\nfiles = [%q]\ndownload_path = %q\n",
		catalogPath, filepath.Join(dir, "downloaded.json.gz"))
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func requireContains(t *testing.T, output, substr string) {
	t.Helper()
	if !strings.Contains(output, substr) {
		t.Fatalf("expected %q to contain %q", output, substr)
	}
}
