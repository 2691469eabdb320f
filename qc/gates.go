package qc

import (
	"fmt"
)

// Gate is one independently evaluated quality check. A failed gate is a
// warning in the report, never an operational error.
type Gate struct {
	Name   string
	Pass   bool
	Detail string
}

// Status renders the gate outcome for the report.
func (g Gate) Status() string {
	if g.Pass {
		return "PASS"
	}
	return "WARN"
}

// CoverageGate passes when average depth meets the configured minimum.
func CoverageGate(mean, minCoverage float64) Gate {
	return Gate{
		Name:   "coverage",
		Pass:   mean >= minCoverage,
		Detail: fmt.Sprintf("average depth %.2fx (minimum %.2fx)", mean, minCoverage),
	}
}

// BreadthGate passes when the covered fraction meets the configured minimum.
func BreadthGate(breadth, minBreadth float64, minDepth int) Gate {
	return Gate{
		Name:   "breadth",
		Pass:   breadth >= minBreadth,
		Detail: fmt.Sprintf("%.2f%% of positions at >=%dx (minimum %.2f%%)", breadth*100, minDepth, minBreadth*100),
	}
}

// SizeGate passes when length falls inside the expected range, inclusive of
// both bounds.
func SizeGate(length, sizeMin, sizeMax int) Gate {
	return Gate{
		Name:   "size",
		Pass:   length >= sizeMin && length <= sizeMax,
		Detail: fmt.Sprintf("assembly length %d bp (expected %d-%d bp)", length, sizeMin, sizeMax),
	}
}

// NContentGate passes when N content does not exceed the configured maximum.
// Exactly at the maximum passes.
func NContentGate(nPercent, maxNPercent float64) Gate {
	return Gate{
		Name:   "n-content",
		Pass:   nPercent <= maxNPercent,
		Detail: fmt.Sprintf("%.2f%% N (maximum %.2f%%)", nPercent, maxNPercent),
	}
}

// AllPass reports whether every gate passed. Overall run status is the
// conjunction of the four gates.
func AllPass(gates []Gate) bool {
	for i := range gates {
		if !gates[i].Pass {
			return false
		}
	}
	return true
}
