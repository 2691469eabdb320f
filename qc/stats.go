// Package qc evaluates assembly quality gates and renders the run report.
package qc

import (
	"fmt"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// SeqStats summarizes one consensus sequence. Percentages are 0-100.
type SeqStats struct {
	Length    int     // ungapped length in bases
	NCount    int     // number of ambiguity (N) bases
	NPercent  float64 // NCount / Length * 100
	GCPercent float64 // GC / (Length - NCount) * 100; masked bases do not dilute GC
	ATPercent float64 // AT / (Length - NCount) * 100
}

// SequenceStats computes summary statistics for a sequence. GC and AT percent
// are computed over called bases only so heavy masking does not skew them.
// IUPAC ambiguity codes other than N count toward length but neither GC nor AT.
func SequenceStats(seq []byte) SeqStats {
	var answer SeqStats
	var gc, at int
	for i := range seq {
		switch seq[i] {
		case 'G', 'C', 'g', 'c':
			gc++
		case 'A', 'T', 'a', 't':
			at++
		case 'N', 'n':
			answer.NCount++
		case '-':
			continue
		}
		answer.Length++
	}
	if answer.Length > 0 {
		answer.NPercent = float64(answer.NCount) / float64(answer.Length) * 100
	}
	if called := answer.Length - answer.NCount; called > 0 {
		answer.GCPercent = float64(gc) / float64(called) * 100
		answer.ATPercent = float64(at) / float64(called) * 100
	}
	return answer
}

// WriteStats writes the statistics file that sits alongside the QC report.
func WriteStats(filename, sample string, s SeqStats) {
	out := fileio.EasyCreate(filename)
	fmt.Fprintf(out, "sample\t%s\n", sample)
	fmt.Fprintf(out, "length\t%d\n", s.Length)
	fmt.Fprintf(out, "n_count\t%d\n", s.NCount)
	fmt.Fprintf(out, "n_percent\t%.2f\n", s.NPercent)
	fmt.Fprintf(out, "gc_percent\t%.2f\n", s.GCPercent)
	fmt.Fprintf(out, "at_percent\t%.2f\n", s.ATPercent)
	err := out.Close()
	exception.PanicOnErr(err)
}
