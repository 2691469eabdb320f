// Package coverage computes depth-of-coverage summaries from a per-base depth
// table as emitted by samtools depth -a (chrom, 1-based position, depth).
package coverage

import (
	"github.com/guptarohit/asciigraph"
	"github.com/vertgenlab/gonomics/bed"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"golang.org/x/exp/slices"
	"gonum.org/v1/gonum/stat"
	"log"
	"strconv"
	"strings"
)

// Profile is the per-base depth across one reference, ordered by coordinate.
type Profile struct {
	Chrom  string
	Depths []int
}

// ReadProfile parses a samtools depth table. Requires the -a form where every
// reference position is reported, including zero-depth positions, so that
// len(Depths) equals the reference length.
func ReadProfile(filename string) Profile {
	file := fileio.EasyOpen(filename)
	var answer Profile
	var line string
	var col []string
	var depth int
	var done bool
	var err error
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		col = strings.Split(line, "\t")
		if len(col) < 3 {
			log.Fatalf("ERROR: malformed depth table: %s\nerror on line:\n%s\n", filename, line)
		}
		if answer.Chrom == "" {
			answer.Chrom = col[0]
		}
		depth, err = strconv.Atoi(col[2])
		exception.PanicOnErr(err)
		answer.Depths = append(answer.Depths, depth)
	}
	err = file.Close()
	exception.PanicOnErr(err)
	return answer
}

// Mean returns the average depth across all positions. Zero for an empty profile.
func (p Profile) Mean() float64 {
	if len(p.Depths) == 0 {
		return 0
	}
	vals := make([]float64, len(p.Depths))
	for i := range p.Depths {
		vals[i] = float64(p.Depths[i])
	}
	return stat.Mean(vals, nil)
}

// Max returns the highest depth observed. Zero for an empty profile.
func (p Profile) Max() int {
	if len(p.Depths) == 0 {
		return 0
	}
	return slices.Max(p.Depths)
}

// Breadth returns the fraction of positions with depth >= minDepth.
// Non-increasing in minDepth for a fixed profile.
func (p Profile) Breadth(minDepth int) float64 {
	if len(p.Depths) == 0 {
		return 0
	}
	var covered int
	for i := range p.Depths {
		if p.Depths[i] >= minDepth {
			covered++
		}
	}
	return float64(covered) / float64(len(p.Depths))
}

// LowIntervals returns merged zero-based half-open intervals covering every
// position with depth < minDepth, suitable for bedtools maskfasta.
func (p Profile) LowIntervals(minDepth int) []bed.Bed {
	var answer []bed.Bed
	var open bool
	var start int
	for i := range p.Depths {
		switch {
		case p.Depths[i] < minDepth && !open:
			start = i
			open = true
		case p.Depths[i] >= minDepth && open:
			answer = append(answer, bed.Bed{Chrom: p.Chrom, ChromStart: start, ChromEnd: i, FieldsInitialized: 3})
			open = false
		}
	}
	if open {
		answer = append(answer, bed.Bed{Chrom: p.Chrom, ChromStart: start, ChromEnd: len(p.Depths), FieldsInitialized: 3})
	}
	return answer
}

// WriteIntervals writes intervals to a BED file.
func WriteIntervals(filename string, intervals []bed.Bed) {
	out := fileio.EasyCreate(filename)
	for i := range intervals {
		bed.WriteBed(out, intervals[i])
	}
	err := out.Close()
	exception.PanicOnErr(err)
}

// AsciiChart renders the depth profile as a terminal chart for the QC report,
// binned down to width columns by averaging.
func (p Profile) AsciiChart(width, height int) string {
	if len(p.Depths) == 0 || width < 1 {
		return ""
	}
	if width > len(p.Depths) {
		width = len(p.Depths)
	}
	binned := make([]float64, width)
	binSize := float64(len(p.Depths)) / float64(width)
	for i := 0; i < width; i++ {
		lo := int(float64(i) * binSize)
		hi := int(float64(i+1) * binSize)
		if hi > len(p.Depths) {
			hi = len(p.Depths)
		}
		var sum int
		for j := lo; j < hi; j++ {
			sum += p.Depths[j]
		}
		binned[i] = float64(sum) / float64(hi-lo)
	}
	return asciigraph.Plot(binned, asciigraph.Height(height), asciigraph.Precision(0))
}
