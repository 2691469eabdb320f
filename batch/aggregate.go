package batch

import (
	"fmt"
	"github.com/jpralston/mitoTools/pipeline"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"io"
	"os"
	"path/filepath"
)

// Counts tallies row outcomes.
func Counts(results []Result) (success, failed int) {
	for i := range results {
		if results[i].Status == StatusSuccess {
			success++
		} else {
			failed++
		}
	}
	return success, failed
}

// WriteSummary writes the batch summary table. One self-identifying line per
// row; order reflects completion order.
func WriteSummary(filename string, results []Result) {
	out := fileio.EasyCreate(filename)
	fmt.Fprintf(out, "sample\tstatus\tlength\tat_percent\tcoverage\tcompleteness\n")
	for i := range results {
		r := results[i]
		if r.Status == StatusSuccess {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Row.Name, r.Status, r.Stats.Length, r.Stats.ATPercent, r.Stats.Coverage, r.Stats.Completeness)
		} else {
			fmt.Fprintf(out, "%s\t%s\t%s\t%s\t%s\t%s\n", r.Row.Name, r.Status, pipeline.Unknown, pipeline.Unknown, pipeline.Unknown, pipeline.Unknown)
		}
	}
	err := out.Close()
	exception.PanicOnErr(err)
}

// WriteFailed writes the failed-sample list with failure reasons. No file
// content beyond the header when every row succeeded.
func WriteFailed(filename string, results []Result) {
	out := fileio.EasyCreate(filename)
	fmt.Fprintf(out, "sample\treason\n")
	for i := range results {
		if results[i].Status == StatusFailed {
			fmt.Fprintf(out, "%s\t%s\n", results[i].Row.Name, results[i].Reason)
		}
	}
	err := out.Close()
	exception.PanicOnErr(err)
}

// CombineFasta concatenates every successful row's consensus into one
// combined FASTA, skipping rows whose consensus is missing.
func CombineFasta(filename, outDir string, results []Result) error {
	out, err := os.Create(filename)
	if err != nil {
		return err
	}
	defer out.Close()
	for i := range results {
		if results[i].Status != StatusSuccess {
			continue
		}
		consensus := filepath.Join(outDir, results[i].Row.Name, results[i].Row.Name+"_consensus.fa")
		in, err := os.Open(consensus)
		if err != nil {
			continue
		}
		_, err = io.Copy(out, in)
		in.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
