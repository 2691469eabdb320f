package qc

import (
	"fmt"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"strings"
	"time"
)

// Report collects everything the run learned about one sample. Render writes
// the human-readable QC report; the report is always produced once input
// validation passes, regardless of gate outcomes.
type Report struct {
	Sample    string
	R1        string
	R2        string
	Reference string

	// aligner's own summary, reproduced verbatim
	AlignmentSummary string

	MeanDepth  float64
	Breadth    float64
	MinDepth   int
	DepthChart string

	CalledVariants  int
	PassingVariants int
	FilterExpr      string

	Masked      bool
	MaskedBases int

	Stats SeqStats
	Gates []Gate

	ContamNote string
	Warnings   []string
	Files      []string
}

const divider = "----------------------------------------------------------\n"

// Render formats the full report.
func (r Report) Render() string {
	s := new(strings.Builder)
	fmt.Fprintf(s, "Mitochondrial assembly QC report\n")
	fmt.Fprintf(s, "Sample: %s\n", r.Sample)
	fmt.Fprintf(s, "Date: %s\n", time.Now().Format("2006-01-02 15:04:05"))
	s.WriteString(divider)

	fmt.Fprintf(s, "[Input]\n")
	fmt.Fprintf(s, "R1: %s\nR2: %s\nReference: %s\n", r.R1, r.R2, r.Reference)
	s.WriteString(divider)

	fmt.Fprintf(s, "[Alignment]\n")
	if r.AlignmentSummary != "" {
		s.WriteString(strings.TrimRight(r.AlignmentSummary, "\n"))
		s.WriteByte('\n')
	} else {
		fmt.Fprintf(s, "no aligner summary captured\n")
	}
	s.WriteString(divider)

	fmt.Fprintf(s, "[Coverage]\n")
	fmt.Fprintf(s, "Average depth: %.2fx\n", r.MeanDepth)
	fmt.Fprintf(s, "Breadth at >=%dx: %.2f%%\n", r.MinDepth, r.Breadth*100)
	if r.DepthChart != "" {
		s.WriteString(r.DepthChart)
		s.WriteByte('\n')
	}
	s.WriteString(divider)

	fmt.Fprintf(s, "[Variants]\n")
	fmt.Fprintf(s, "Called sites: %d\n", r.CalledVariants)
	fmt.Fprintf(s, "Passing filter: %d\n", r.PassingVariants)
	fmt.Fprintf(s, "Filter: %s\n", r.FilterExpr)
	s.WriteString(divider)

	fmt.Fprintf(s, "[Assembly validation]\n")
	for i := range r.Gates {
		fmt.Fprintf(s, "%s\t%s\t%s\n", r.Gates[i].Status(), r.Gates[i].Name, r.Gates[i].Detail)
	}
	fmt.Fprintf(s, "Length: %d bp\n", r.Stats.Length)
	fmt.Fprintf(s, "N: %d (%.2f%%)\n", r.Stats.NCount, r.Stats.NPercent)
	fmt.Fprintf(s, "GC: %.2f%%\n", r.Stats.GCPercent)
	fmt.Fprintf(s, "AT: %.2f%%\n", r.Stats.ATPercent)
	if r.Masked {
		fmt.Fprintf(s, "Masked bases (<%dx): %d\n", r.MinDepth, r.MaskedBases)
	}
	s.WriteString(divider)

	fmt.Fprintf(s, "[Contamination screening]\n")
	if r.ContamNote != "" {
		fmt.Fprintf(s, "%s\n", r.ContamNote)
	} else {
		fmt.Fprintf(s, "not performed\n")
	}
	s.WriteString(divider)

	fmt.Fprintf(s, "[Summary]\n")
	if AllPass(r.Gates) {
		fmt.Fprintf(s, "Overall: PASS\n")
	} else {
		fmt.Fprintf(s, "Overall: WARN\n")
	}
	for i := range r.Warnings {
		fmt.Fprintf(s, "WARNING: %s\n", r.Warnings[i])
	}
	s.WriteString(divider)

	fmt.Fprintf(s, "[Files]\n")
	for i := range r.Files {
		fmt.Fprintf(s, "%s\n", r.Files[i])
	}
	return s.String()
}

// Write renders the report to a file.
func (r Report) Write(filename string) {
	out := fileio.EasyCreate(filename)
	_, err := fmt.Fprint(out, r.Render())
	exception.PanicOnErr(err)
	err = out.Close()
	exception.PanicOnErr(err)
}
