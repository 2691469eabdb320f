package pipeline

import (
	"fmt"
	"github.com/jpralston/mitoTools/qc"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"os"
	"strings"
)

// Unknown is the sentinel for result fields that could not be recovered.
const Unknown = "Unknown"

// Result is the structured per-sample record the batch layer reads instead of
// scraping the human-readable report. Fields are pre-formatted strings so a
// missing key degrades to the Unknown sentinel rather than a parse error.
type Result struct {
	Sample       string
	Length       string
	ATPercent    string
	Coverage     string
	Completeness string
	Overall      string
}

// writeResult persists the result record as key-value TSV.
func writeResult(filename, sample string, r qc.Report) {
	overall := "PASS"
	if !qc.AllPass(r.Gates) {
		overall = "WARN"
	}
	out := fileio.EasyCreate(filename)
	fmt.Fprintf(out, "sample\t%s\n", sample)
	fmt.Fprintf(out, "length\t%d\n", r.Stats.Length)
	fmt.Fprintf(out, "at_percent\t%.2f\n", r.Stats.ATPercent)
	fmt.Fprintf(out, "coverage\t%.2f\n", r.MeanDepth)
	fmt.Fprintf(out, "completeness\t%.2f\n", r.Breadth*100)
	fmt.Fprintf(out, "overall\t%s\n", overall)
	err := out.Close()
	exception.PanicOnErr(err)
}

// ReadResult loads a result record. Any key absent from the file is reported
// as Unknown; only a missing or unreadable file is an error.
func ReadResult(filename string) (Result, error) {
	answer := Result{
		Sample:       Unknown,
		Length:       Unknown,
		ATPercent:    Unknown,
		Coverage:     Unknown,
		Completeness: Unknown,
		Overall:      Unknown,
	}
	lines, err := readLines(filename)
	if err != nil {
		return answer, err
	}
	for _, line := range lines {
		col := strings.SplitN(line, "\t", 2)
		if len(col) != 2 {
			continue
		}
		switch col[0] {
		case "sample":
			answer.Sample = col[1]
		case "length":
			answer.Length = col[1]
		case "at_percent":
			answer.ATPercent = col[1]
		case "coverage":
			answer.Coverage = col[1]
		case "completeness":
			answer.Completeness = col[1]
		case "overall":
			answer.Overall = col[1]
		}
	}
	return answer, nil
}

func readLines(filename string) ([]string, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return strings.Split(strings.TrimRight(string(data), "\n"), "\n"), nil
}
