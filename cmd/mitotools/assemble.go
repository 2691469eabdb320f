package main

import (
	"flag"
	"fmt"
	"github.com/jpralston/mitoTools/config"
	"github.com/jpralston/mitoTools/pipeline"
	"github.com/jpralston/mitoTools/tools"
	"log"
)

func assembleUsage(assembleFlags *flag.FlagSet) {
	fmt.Print(
		"assemble - reconstruct a mitochondrial consensus from paired-end reads\n\n" +
			"Usage:\n" +
			"  mitotools assemble --r1 reads_R1.fastq.gz --r2 reads_R2.fastq.gz --ref rCRS.fa --prefix sample [options]\n\n" +
			"Options:\n")
	assembleFlags.PrintDefaults()
}

// assembleFlagSet binds every tunable threshold onto a Config. Shared with
// the batch subcommand so the two surfaces cannot drift apart.
func assembleFlagSet(name string, cfg *config.Config) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.IntVar(&cfg.Threads, "threads", cfg.Threads, "Threads for alignment and sorting.")
	fs.StringVar(&cfg.Sensitivity, "sensitivity", cfg.Sensitivity, "Aligner sensitivity preset (very-fast, fast, sensitive, very-sensitive).")
	fs.IntVar(&cfg.MinMapQ, "min-mapq", cfg.MinMapQ, "Minimum mapping quality for the pileup.")
	fs.IntVar(&cfg.MinBaseQ, "min-baseq", cfg.MinBaseQ, "Minimum base quality for the pileup.")
	fs.IntVar(&cfg.MinDepth, "min-depth", cfg.MinDepth, "Minimum depth for variant retention and masking.")
	fs.Float64Var(&cfg.MinAF, "min-af", cfg.MinAF, "Minimum alternate allele fraction for variant retention.")
	fs.BoolVar(&cfg.IupacCodes, "iupac", cfg.IupacCodes, "Render ambiguous sites as IUPAC codes in the consensus.")
	fs.BoolVar(&cfg.MaskLowDepth, "mask", cfg.MaskLowDepth, "Mask positions below --min-depth with N. Requires bedtools.")
	fs.Float64Var(&cfg.MinCoverage, "min-coverage", cfg.MinCoverage, "QC gate: minimum average depth.")
	fs.Float64Var(&cfg.MinBreadth, "min-breadth", cfg.MinBreadth, "QC gate: minimum fraction of positions at or above --min-depth.")
	fs.Float64Var(&cfg.MaxNPercent, "max-n-percent", cfg.MaxNPercent, "QC gate: maximum percent of Ns in the consensus.")
	fs.IntVar(&cfg.SizeMin, "size-min", cfg.SizeMin, "QC gate: minimum expected assembly length in bp.")
	fs.IntVar(&cfg.SizeMax, "size-max", cfg.SizeMax, "QC gate: maximum expected assembly length in bp.")
	fs.BoolVar(&cfg.Plot, "plot", cfg.Plot, "Write a coverage plot PNG next to the QC report.")
	return fs
}

func runAssemble(args []string) {
	cfg := config.Default()
	assembleFlags := assembleFlagSet("assemble", &cfg)
	r1 := assembleFlags.String("r1", "", "Forward reads, fastq or fastq.gz.")
	r2 := assembleFlags.String("r2", "", "Reverse reads, fastq or fastq.gz.")
	ref := assembleFlags.String("ref", "", "Mitochondrial reference fasta.")
	prefix := assembleFlags.String("prefix", "", "Sample identifier; names the consensus header and all outputs.")
	outDir := assembleFlags.String("outdir", ".", "Output directory.")
	assembleFlags.Usage = func() { assembleUsage(assembleFlags) }

	if len(args) == 0 {
		assembleFlags.Usage()
		return
	}
	if err := assembleFlags.Parse(args); err == flag.ErrHelp {
		return
	} else if err != nil {
		errExit(err.Error())
	}

	if *r1 == "" || *r2 == "" || *ref == "" || *prefix == "" {
		assembleFlags.Usage()
		errExit("\nERROR: must specify --r1, --r2, --ref, and --prefix")
	}
	if err := cfg.Validate(); err != nil {
		errExit("ERROR: " + err.Error())
	}

	caps, err := tools.Probe()
	if err != nil {
		log.Fatalf("ERROR: %v", err)
	}

	s := pipeline.Sample{Name: *prefix, R1: *r1, R2: *r2, Ref: *ref, OutDir: *outDir}
	if err = pipeline.Run(s, cfg, caps); err != nil {
		log.Fatalf("ERROR: %v", err)
	}
}
