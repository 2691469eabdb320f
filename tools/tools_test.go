package tools

import (
	"os"
	"path/filepath"
	"testing"
)

func fakeTool(t *testing.T, dir, name string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte("#!/bin/sh\n"), 0755); err != nil {
		t.Fatal(err)
	}
}

func TestProbeMissingRequired(t *testing.T) {
	dir := t.TempDir()
	fakeTool(t, dir, Bowtie2)
	fakeTool(t, dir, Samtools)
	t.Setenv("PATH", dir)

	if _, err := Probe(); err == nil {
		t.Error("expected error with bowtie2-build and bcftools missing")
	}
}

func TestProbeCapabilities(t *testing.T) {
	dir := t.TempDir()
	for _, tool := range []string{Bowtie2, Bowtie2Build, Samtools, Bcftools, Bedtools} {
		fakeTool(t, dir, tool)
	}
	t.Setenv("PATH", dir)

	caps, err := Probe()
	if err != nil {
		t.Fatalf("all required tools present, got error: %v", err)
	}
	if !caps.Masking {
		t.Error("bedtools present, expected Masking capability")
	}
	if caps.EnhancedStats || caps.ContamScreen {
		t.Errorf("seqkit and kraken2 absent, expected capabilities off, got %s", caps)
	}
}
