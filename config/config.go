// Package config holds the tunable thresholds for a consensus assembly run.
// A Config is built once from parsed flags and passed by value into every
// stage; no stage mutates it.
package config

import (
	"fmt"
)

// Sensitivity presets accepted by the aligner.
var validPresets = []string{"very-fast", "fast", "sensitive", "very-sensitive"}

// Config is the full set of tunable thresholds for one run. Zero values are
// not meaningful; construct with Default and override fields before Validate.
type Config struct {
	Sensitivity  string  // bowtie2 preset, passed through as --<preset>
	Threads      int     // thread hint for aligner and sort
	MinMapQ      int     // minimum mapping quality for pileup
	MinBaseQ     int     // minimum base quality for pileup
	MinDepth     int     // minimum depth for variant retention and masking
	MinAF        float64 // minimum alternate allele fraction for retention
	IupacCodes   bool    // render ambiguous sites as IUPAC codes in consensus
	MaskLowDepth bool    // mask positions below MinDepth with N
	MinCoverage  float64 // QC gate: minimum average depth
	MinBreadth   float64 // QC gate: minimum fraction of positions >= MinDepth
	MaxNPercent  float64 // QC gate: maximum percent of Ns in consensus
	SizeMin      int     // QC gate: minimum expected assembly length in bp
	SizeMax      int     // QC gate: maximum expected assembly length in bp
	Plot         bool    // write a coverage plot PNG alongside the report
}

// Default returns the standard configuration for a vertebrate mitochondrial
// genome (~16.5 kb circular, haploid).
func Default() Config {
	return Config{
		Sensitivity:  "very-sensitive",
		Threads:      4,
		MinMapQ:      30,
		MinBaseQ:     20,
		MinDepth:     10,
		MinAF:        0.9,
		IupacCodes:   false,
		MaskLowDepth: true,
		MinCoverage:  20,
		MinBreadth:   0.95,
		MaxNPercent:  5,
		SizeMin:      15000,
		SizeMax:      18000,
		Plot:         false,
	}
}

// Validate rejects malformed threshold combinations before any work starts.
func (c Config) Validate() error {
	if !validPreset(c.Sensitivity) {
		return fmt.Errorf("unrecognized sensitivity preset %q (valid: %v)", c.Sensitivity, validPresets)
	}
	if c.Threads < 1 {
		return fmt.Errorf("threads must be >= 1, got %d", c.Threads)
	}
	if c.MinMapQ < 0 || c.MinBaseQ < 0 {
		return fmt.Errorf("quality minimums must be >= 0, got mapQ %d baseQ %d", c.MinMapQ, c.MinBaseQ)
	}
	if c.MinDepth < 0 {
		return fmt.Errorf("min depth must be >= 0, got %d", c.MinDepth)
	}
	if c.MinAF < 0 || c.MinAF > 1 {
		return fmt.Errorf("allele frequency cutoff must be in [0,1], got %g", c.MinAF)
	}
	if c.MinBreadth < 0 || c.MinBreadth > 1 {
		return fmt.Errorf("breadth minimum must be in [0,1], got %g", c.MinBreadth)
	}
	if c.MinCoverage < 0 {
		return fmt.Errorf("coverage minimum must be >= 0, got %g", c.MinCoverage)
	}
	if c.MaxNPercent < 0 || c.MaxNPercent > 100 {
		return fmt.Errorf("max N percent must be in [0,100], got %g", c.MaxNPercent)
	}
	if c.SizeMin < 0 || c.SizeMax < 0 {
		return fmt.Errorf("size bounds must be >= 0, got [%d,%d]", c.SizeMin, c.SizeMax)
	}
	if c.SizeMin > c.SizeMax {
		return fmt.Errorf("size minimum %d exceeds size maximum %d", c.SizeMin, c.SizeMax)
	}
	return nil
}

func validPreset(s string) bool {
	for i := range validPresets {
		if validPresets[i] == s {
			return true
		}
	}
	return false
}
