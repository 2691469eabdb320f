package main

import (
	"flag"
	"fmt"
	"github.com/jpralston/mitoTools/batch"
	"github.com/jpralston/mitoTools/config"
	"log"
	"os"
	"path/filepath"
)

func batchUsage(batchFlags *flag.FlagSet) {
	fmt.Print(
		"batch - run assemble across every row of a sample manifest\n\n" +
			"Usage:\n" +
			"  mitotools batch --sample-list samples.tsv --ref-dir refs/ [options]\n\n" +
			"Manifest: tab-separated rows of (sample, R1 path, R2 path, reference\n" +
			"file name relative to --ref-dir). Blank lines and # comments are skipped.\n\n" +
			"Options:\n")
	batchFlags.PrintDefaults()
}

func runBatch(args []string) {
	cfg := config.Default()
	batchFlags := assembleFlagSet("batch", &cfg)
	sampleList := batchFlags.String("sample-list", "", "Sample manifest, tab-separated.")
	refDir := batchFlags.String("ref-dir", "", "Directory holding the reference fastas named in the manifest.")
	outDir := batchFlags.String("outdir", ".", "Parent output directory; each sample gets a subdirectory.")
	jobs := batchFlags.Int("jobs", 1, "Samples to run in parallel. 1 processes the manifest sequentially.")
	batchFlags.Usage = func() { batchUsage(batchFlags) }

	if len(args) == 0 {
		batchFlags.Usage()
		return
	}
	if err := batchFlags.Parse(args); err == flag.ErrHelp {
		return
	} else if err != nil {
		errExit(err.Error())
	}

	if *sampleList == "" || *refDir == "" {
		batchFlags.Usage()
		errExit("\nERROR: must specify --sample-list and --ref-dir")
	}
	if *jobs < 1 {
		errExit("ERROR: --jobs must be >= 1")
	}
	if err := cfg.Validate(); err != nil {
		errExit("ERROR: " + err.Error())
	}

	rows, err := batch.ReadManifest(*sampleList, *refDir)
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}
	if len(rows) == 0 {
		log.Fatalf("ERROR: no samples in manifest %s", *sampleList)
	}

	exe, err := os.Executable()
	if err != nil {
		log.Fatalf("ERROR: cannot resolve own executable: %v", err)
	}
	if err = os.MkdirAll(*outDir, 0755); err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	runner := batch.Runner{
		Exe:       exe,
		OutDir:    *outDir,
		Jobs:      *jobs,
		ExtraArgs: broadcastArgs(cfg),
		LogFile:   filepath.Join(*outDir, "batch.log"),
	}
	log.Printf("batch: %d samples, %d parallel jobs", len(rows), *jobs)
	results := runner.Run(rows)

	batch.WriteSummary(filepath.Join(*outDir, "batch_summary.tsv"), results)
	batch.WriteFailed(filepath.Join(*outDir, "failed_samples.tsv"), results)
	if err = batch.CombineFasta(filepath.Join(*outDir, "combined_consensus.fa"), *outDir, results); err != nil {
		log.Fatalf("ERROR: combining consensus sequences: %v", err)
	}

	success, failed := batch.Counts(results)
	log.Printf("batch complete: %d SUCCESS, %d FAILED", success, failed)
	if failed > 0 {
		os.Exit(1)
	}
}

// broadcastArgs rebuilds the threshold flags so every per-sample invocation
// sees the batch's shared configuration.
func broadcastArgs(cfg config.Config) []string {
	return []string{
		"--threads", fmt.Sprint(cfg.Threads),
		"--sensitivity", cfg.Sensitivity,
		"--min-mapq", fmt.Sprint(cfg.MinMapQ),
		"--min-baseq", fmt.Sprint(cfg.MinBaseQ),
		"--min-depth", fmt.Sprint(cfg.MinDepth),
		"--min-af", fmt.Sprint(cfg.MinAF),
		fmt.Sprintf("--iupac=%v", cfg.IupacCodes),
		fmt.Sprintf("--mask=%v", cfg.MaskLowDepth),
		"--min-coverage", fmt.Sprint(cfg.MinCoverage),
		"--min-breadth", fmt.Sprint(cfg.MinBreadth),
		"--max-n-percent", fmt.Sprint(cfg.MaxNPercent),
		"--size-min", fmt.Sprint(cfg.SizeMin),
		"--size-max", fmt.Sprint(cfg.SizeMax),
		fmt.Sprintf("--plot=%v", cfg.Plot),
	}
}
