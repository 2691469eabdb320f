// Package batch drives the single-sample pipeline across a sample manifest,
// one isolated process per row, with bounded parallelism and per-row
// success/failure bookkeeping. Rows own disjoint output subdirectories; the
// only shared state is the append-only batch log and the final summary.
package batch

import (
	"fmt"
	"github.com/jpralston/mitoTools/pipeline"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Row is one manifest entry: sample name, paired reads, and the reference
// file name resolved against the shared reference directory.
type Row struct {
	Name string
	R1   string
	R2   string
	Ref  string
}

// Status of one processed row.
type Status string

const (
	StatusSuccess Status = "SUCCESS"
	StatusFailed  Status = "FAILED"
)

// Reason classifies a row failure.
type Reason string

const (
	ReasonNone          Reason = ""
	ReasonMissingR1     Reason = "Missing_R1"
	ReasonMissingR2     Reason = "Missing_R2"
	ReasonMissingRef    Reason = "Missing_Ref"
	ReasonNoOutput      Reason = "No_Output"
	ReasonAssemblyError Reason = "Assembly_Error"
)

// Result is the outcome of one row.
type Result struct {
	Row    Row
	Status Status
	Reason Reason
	Stats  pipeline.Result
}

// ReadManifest parses a tab-separated manifest of
// (sample, R1 path, R2 path, reference name). Blank lines and lines starting
// with # are skipped; reference names are resolved against refDir.
func ReadManifest(filename, refDir string) ([]Row, error) {
	var answer []Row
	lines := fileio.Read(filename)
	for i, line := range lines {
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		col := strings.Split(line, "\t")
		if len(col) < 4 {
			return nil, fmt.Errorf("manifest %s line %d: expected 4 tab-separated fields, got %d", filename, i+1, len(col))
		}
		answer = append(answer, Row{
			Name: col[0],
			R1:   col[1],
			R2:   col[2],
			Ref:  filepath.Join(refDir, col[3]),
		})
	}
	return answer, nil
}

// Runner holds the shared configuration broadcast to every row.
type Runner struct {
	Exe       string   // pipeline executable, usually this binary
	OutDir    string   // parent of all per-sample subdirectories
	Jobs      int      // parallel slots; 1 means strictly sequential
	ExtraArgs []string // threshold flags passed unchanged to every invocation
	LogFile   string   // shared batch log
}

// Run processes every row and returns one Result per row. Row order in the
// returned slice follows completion order under parallel execution; each
// result is self-identifying by sample name.
func (r Runner) Run(rows []Row) []Result {
	jobs := make(chan Row)
	out := make(chan Result)
	logChan := make(chan string)

	logFile := fileio.EasyCreate(r.LogFile)
	var logWg sync.WaitGroup
	logWg.Add(1)
	go func() {
		for block := range logChan {
			fmt.Fprint(logFile, block)
		}
		logWg.Done()
	}()

	go func() {
		for i := range rows {
			jobs <- rows[i]
		}
		close(jobs)
	}()

	workers := r.Jobs
	if workers < 1 {
		workers = 1
	}
	wg := new(sync.WaitGroup)
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			for row := range jobs {
				out <- r.runRow(row, logChan)
			}
			wg.Done()
		}()
	}
	go func() {
		wg.Wait()
		close(out)
	}()

	answer := make([]Result, 0, len(rows))
	for result := range out {
		log.Printf("%s\t%s%s", result.Row.Name, result.Status, reasonSuffix(result.Reason))
		answer = append(answer, result)
	}

	close(logChan)
	logWg.Wait()
	err := logFile.Close()
	exception.PanicOnErr(err)
	return answer
}

// runRow validates the row's inputs, invokes the pipeline as a separate
// process, and classifies the outcome.
func (r Runner) runRow(row Row, logChan chan<- string) Result {
	answer := Result{Row: row, Status: StatusFailed}

	sampleDir := filepath.Join(r.OutDir, row.Name)
	if err := os.MkdirAll(sampleDir, 0755); err != nil {
		answer.Reason = ReasonAssemblyError
		return answer
	}

	if answer.Reason = missingInput(row); answer.Reason != ReasonNone {
		return answer
	}

	args := []string{"assemble",
		"--r1", row.R1,
		"--r2", row.R2,
		"--ref", row.Ref,
		"--prefix", row.Name,
		"--outdir", sampleDir}
	args = append(args, r.ExtraArgs...)
	cmd := exec.Command(r.Exe, args...)
	output, err := cmd.CombinedOutput()
	logChan <- fmt.Sprintf("=== %s %s ===\n%s", time.Now().Format("2006-01-02 15:04:05"), row.Name, output)

	if err != nil {
		answer.Reason = ReasonAssemblyError
		return answer
	}

	consensus := filepath.Join(sampleDir, row.Name+"_consensus.fa")
	if _, err = os.Stat(consensus); err != nil {
		answer.Reason = ReasonNoOutput
		return answer
	}

	// best effort: absent record fields surface as Unknown in the summary
	answer.Stats, _ = pipeline.ReadResult(filepath.Join(sampleDir, row.Name+".result.tsv"))
	answer.Status = StatusSuccess
	return answer
}

// missingInput reports the first missing input file for a row.
func missingInput(row Row) Reason {
	if _, err := os.Stat(row.R1); err != nil {
		return ReasonMissingR1
	}
	if _, err := os.Stat(row.R2); err != nil {
		return ReasonMissingR2
	}
	if _, err := os.Stat(row.Ref); err != nil {
		return ReasonMissingRef
	}
	return ReasonNone
}

func reasonSuffix(reason Reason) string {
	if reason == ReasonNone {
		return ""
	}
	return "\t" + string(reason)
}
