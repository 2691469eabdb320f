package batch

import (
	"github.com/jpralston/mitoTools/pipeline"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestReadManifest(t *testing.T) {
	rows, err := ReadManifest("testdata/manifest.tsv", "/refs")
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows after skipping comment and blank, got %d", len(rows))
	}
	if rows[0].Name != "sampleA" || rows[0].R1 != "/data/a_R1.fastq.gz" {
		t.Errorf("row 0 parsed wrong: %+v", rows[0])
	}
	if rows[0].Ref != filepath.Join("/refs", "rCRS.fa") {
		t.Errorf("reference not resolved against refDir: %s", rows[0].Ref)
	}
	if rows[1].Ref != filepath.Join("/refs", "NC_005089.fa") {
		t.Errorf("row 1 reference wrong: %s", rows[1].Ref)
	}
}

func TestReadManifestMalformed(t *testing.T) {
	if _, err := ReadManifest("testdata/malformed.tsv", "/refs"); err == nil {
		t.Error("expected error for a short manifest row")
	}
}

func TestMissingInput(t *testing.T) {
	dir := t.TempDir()
	r1 := filepath.Join(dir, "r1.fq.gz")
	r2 := filepath.Join(dir, "r2.fq.gz")
	ref := filepath.Join(dir, "ref.fa")
	for _, f := range []string{r1, r2, ref} {
		if err := os.WriteFile(f, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	if reason := missingInput(Row{Name: "a", R1: r1, R2: r2, Ref: ref}); reason != ReasonNone {
		t.Errorf("all present: expected no reason, got %s", reason)
	}
	if reason := missingInput(Row{Name: "a", R1: "/nope", R2: r2, Ref: ref}); reason != ReasonMissingR1 {
		t.Errorf("expected Missing_R1, got %s", reason)
	}
	if reason := missingInput(Row{Name: "a", R1: r1, R2: "/nope", Ref: ref}); reason != ReasonMissingR2 {
		t.Errorf("expected Missing_R2, got %s", reason)
	}
	if reason := missingInput(Row{Name: "a", R1: r1, R2: r2, Ref: "/nope"}); reason != ReasonMissingRef {
		t.Errorf("expected Missing_Ref, got %s", reason)
	}
}

// Three rows: two viable, one with a missing R1. With a no-op executable the
// viable rows succeed only when their consensus already exists, giving full
// coverage of the classification paths without a real toolchain.
func TestRunClassification(t *testing.T) {
	dir := t.TempDir()
	outDir := filepath.Join(dir, "out")
	r1 := filepath.Join(dir, "r1.fq.gz")
	r2 := filepath.Join(dir, "r2.fq.gz")
	ref := filepath.Join(dir, "ref.fa")
	for _, f := range []string{r1, r2, ref} {
		if err := os.WriteFile(f, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}

	// sampleA: consensus and result record pre-staged -> SUCCESS
	aDir := filepath.Join(outDir, "sampleA")
	if err := os.MkdirAll(aDir, 0755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(aDir, "sampleA_consensus.fa"), []byte(">sampleA\nACGT\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(aDir, "sampleA.result.tsv"), []byte("sample\tsampleA\nlength\t4\n"), 0644); err != nil {
		t.Fatal(err)
	}

	rows := []Row{
		{Name: "sampleA", R1: r1, R2: r2, Ref: ref},
		{Name: "sampleB", R1: filepath.Join(dir, "absent_R1.fq.gz"), R2: r2, Ref: ref},
		{Name: "sampleC", R1: r1, R2: r2, Ref: ref}, // no consensus appears -> No_Output
	}

	runner := Runner{
		Exe:     "true",
		OutDir:  outDir,
		Jobs:    2,
		LogFile: filepath.Join(dir, "batch.log"),
	}
	results := runner.Run(rows)
	if len(results) != 3 {
		t.Fatalf("expected 3 results, got %d", len(results))
	}

	byName := make(map[string]Result)
	for _, r := range results {
		byName[r.Row.Name] = r
	}
	if r := byName["sampleA"]; r.Status != StatusSuccess || r.Stats.Length != "4" {
		t.Errorf("sampleA: expected SUCCESS with length 4, got %+v", r)
	}
	if r := byName["sampleB"]; r.Status != StatusFailed || r.Reason != ReasonMissingR1 {
		t.Errorf("sampleB: expected FAILED Missing_R1, got %+v", r)
	}
	if r := byName["sampleC"]; r.Status != StatusFailed || r.Reason != ReasonNoOutput {
		t.Errorf("sampleC: expected FAILED No_Output, got %+v", r)
	}

	success, failed := Counts(results)
	if success != 1 || failed != 2 {
		t.Errorf("expected 1 success / 2 failed, got %d / %d", success, failed)
	}

	// sampleB's subdirectory exists but stays empty
	entries, err := os.ReadDir(filepath.Join(outDir, "sampleB"))
	if err != nil {
		t.Errorf("missing-input row should still create its subdirectory: %v", err)
	} else if len(entries) != 0 {
		t.Errorf("missing-input row must not pollute its subdirectory: %v", entries)
	}

	combined := filepath.Join(dir, "combined.fa")
	if err = CombineFasta(combined, outDir, results); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(combined)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != ">sampleA\nACGT\n" {
		t.Errorf("combined FASTA should hold exactly the successful consensus, got %q", data)
	}

	summary := filepath.Join(dir, "summary.tsv")
	WriteSummary(summary, results)
	text, err := os.ReadFile(summary)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(text), "sampleA\tSUCCESS\t4") {
		t.Errorf("summary missing success line: %s", text)
	}
	if !strings.Contains(string(text), "sampleB\tFAILED\t"+pipeline.Unknown) {
		t.Errorf("summary missing failed line with Unknown fields: %s", text)
	}

	failedList := filepath.Join(dir, "failed.tsv")
	WriteFailed(failedList, results)
	text, err = os.ReadFile(failedList)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(string(text), "sampleB\tMissing_R1") || !strings.Contains(string(text), "sampleC\tNo_Output") {
		t.Errorf("failed list incomplete: %s", text)
	}
}

func TestRunAssemblyError(t *testing.T) {
	dir := t.TempDir()
	r1 := filepath.Join(dir, "r1.fq.gz")
	r2 := filepath.Join(dir, "r2.fq.gz")
	ref := filepath.Join(dir, "ref.fa")
	for _, f := range []string{r1, r2, ref} {
		if err := os.WriteFile(f, []byte("x"), 0644); err != nil {
			t.Fatal(err)
		}
	}
	runner := Runner{
		Exe:     "false",
		OutDir:  filepath.Join(dir, "out"),
		Jobs:    1,
		LogFile: filepath.Join(dir, "batch.log"),
	}
	results := runner.Run([]Row{{Name: "s", R1: r1, R2: r2, Ref: ref}})
	if len(results) != 1 || results[0].Status != StatusFailed || results[0].Reason != ReasonAssemblyError {
		t.Errorf("expected FAILED Assembly_Error, got %+v", results)
	}
}
