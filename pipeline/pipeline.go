// Package pipeline runs the single-sample consensus assembly: align paired
// reads to a mitochondrial reference, call and filter haploid variants, build
// a consensus, optionally mask low-depth positions, and evaluate QC gates.
// Stages run strictly in order; an external tool failure aborts the run,
// while QC threshold misses only produce report warnings.
package pipeline

import (
	"errors"
	"fmt"
	"github.com/jpralston/mitoTools/align"
	"github.com/jpralston/mitoTools/config"
	"github.com/jpralston/mitoTools/coverage"
	"github.com/jpralston/mitoTools/fai"
	"github.com/jpralston/mitoTools/qc"
	"github.com/jpralston/mitoTools/tools"
	"github.com/jpralston/mitoTools/variant"
	"io"
	"log"
	"os"
	"path/filepath"
	"strings"
)

// ErrInputNotFound marks a missing read or reference file, detected before
// any stage runs.
var ErrInputNotFound = errors.New("input not found")

// Sample identifies one assembly run. Immutable once constructed.
type Sample struct {
	Name   string
	R1     string
	R2     string
	Ref    string
	OutDir string
}

// paths derives every per-sample file name from the output prefix.
type paths struct {
	unsortedBam string
	sortedBam   string
	depthTable  string
	calls       string
	normalized  string
	filtered    string
	rawFasta    string
	consensus   string
	maskBed     string
	report      string
	stats       string
	result      string
	logFile     string
	plot        string
	seqkitStats string
}

func newPaths(s Sample) paths {
	prefix := filepath.Join(s.OutDir, s.Name)
	return paths{
		unsortedBam: prefix + ".unsorted.bam",
		sortedBam:   prefix + ".sorted.bam",
		depthTable:  prefix + "_coverage.tsv",
		calls:       prefix + "_calls.vcf.gz",
		normalized:  prefix + "_norm.vcf.gz",
		filtered:    prefix + "_filtered.vcf.gz",
		rawFasta:    prefix + "_consensus_raw.fa",
		consensus:   prefix + "_consensus.fa",
		maskBed:     prefix + "_lowdepth.bed",
		report:      prefix + "_qc_report.txt",
		stats:       prefix + "_stats.tsv",
		result:      prefix + ".result.tsv",
		logFile:     prefix + ".log",
		plot:        prefix + "_coverage.png",
		seqkitStats: prefix + "_seqkit_stats.txt",
	}
}

// Run executes the full pipeline for one sample. The returned error is nil
// whenever every external stage succeeded, regardless of QC gate outcomes.
func Run(s Sample, cfg config.Config, caps tools.Capability) error {
	if err := validateInputs(s); err != nil {
		return err
	}
	if err := os.MkdirAll(s.OutDir, 0755); err != nil {
		return err
	}

	p := newPaths(s)
	logFile, err := os.Create(p.logFile)
	if err != nil {
		return err
	}
	defer logFile.Close()
	logw := io.MultiWriter(os.Stderr, logFile)
	logger := log.New(logw, "", log.LstdFlags)

	logger.Printf("sample %s: starting assembly (capabilities: %s)", s.Name, caps)

	report := qc.Report{
		Sample:    s.Name,
		R1:        s.R1,
		R2:        s.R2,
		Reference: s.Ref,
		MinDepth:  cfg.MinDepth,
	}

	// reference preparation, idempotent
	if err = align.BuildIndex(s.Ref, logw); err != nil {
		return err
	}
	if err = align.Faidx(s.Ref, logw); err != nil {
		return err
	}
	refIdx := fai.ReadIndex(s.Ref + ".fai")
	logger.Printf("reference %s: %d bp", refIdx.PrimaryName(), refIdx.TotalLen())

	// alignment
	logger.Printf("aligning %s / %s with --%s", filepath.Base(s.R1), filepath.Base(s.R2), cfg.Sensitivity)
	alnStats, err := align.AlignPaired(s.Ref, s.R1, s.R2, p.unsortedBam, cfg.Sensitivity, cfg.Threads, logw)
	if err != nil {
		return err
	}
	report.AlignmentSummary = alnStats.Raw
	logger.Printf("alignment complete: %d read pairs, %.2f%% overall alignment rate", alnStats.Reads, alnStats.OverallRatePct)

	if err = align.SortIndex(p.unsortedBam, p.sortedBam, cfg.Threads, logw); err != nil {
		return err
	}

	// depth profiling and the coverage gates; gate misses are warnings only
	if err = align.Depth(p.sortedBam, p.depthTable, logw); err != nil {
		return err
	}
	profile := coverage.ReadProfile(p.depthTable)
	report.MeanDepth = profile.Mean()
	report.Breadth = profile.Breadth(cfg.MinDepth)
	report.DepthChart = profile.AsciiChart(72, 8)

	covGate := qc.CoverageGate(report.MeanDepth, cfg.MinCoverage)
	breadthGate := qc.BreadthGate(report.Breadth, cfg.MinBreadth, cfg.MinDepth)
	for _, g := range []qc.Gate{covGate, breadthGate} {
		if !g.Pass {
			logger.Printf("WARNING: %s gate failed: %s", g.Name, g.Detail)
		}
	}

	if cfg.Plot {
		if err = profile.PlotPNG(p.plot, cfg.MinDepth); err != nil {
			return err
		}
	}

	// haploid variant calling and filtering
	filter := variant.Filter{MinQual: 30, MinDepth: cfg.MinDepth, MinAF: cfg.MinAF}
	report.FilterExpr = filter.Expression()
	logger.Printf("calling variants at ploidy 1 (mapQ>=%d baseQ>=%d)", cfg.MinMapQ, cfg.MinBaseQ)
	if err = callVariants(s.Ref, p.sortedBam, p.calls, cfg, logw); err != nil {
		return err
	}
	if err = normalizeVariants(s.Ref, p.calls, p.normalized, logw); err != nil {
		return err
	}
	if err = filterVariants(p.normalized, p.filtered, filter, logw); err != nil {
		return err
	}
	report.CalledVariants, report.PassingVariants = filter.CountRetained(p.normalized)
	logger.Printf("variants: %d called, %d passing filter", report.CalledVariants, report.PassingVariants)

	// consensus generation
	if err = consensus(s.Ref, p.filtered, p.rawFasta, cfg.IupacCodes, logw); err != nil {
		return err
	}

	// optional low-depth masking
	low := profile.LowIntervals(cfg.MinDepth)
	switch {
	case cfg.MaskLowDepth && caps.Masking:
		coverage.WriteIntervals(p.maskBed, low)
		if err = maskFasta(p.rawFasta, p.maskBed, p.consensus, logw); err != nil {
			return err
		}
		report.Masked = true
		for i := range low {
			report.MaskedBases += low[i].ChromEnd - low[i].ChromStart
		}
		logger.Printf("masked %d low-depth bases across %d intervals", report.MaskedBases, len(low))
		if err = os.Remove(p.rawFasta); err != nil {
			return err
		}
	case cfg.MaskLowDepth:
		if err = os.Rename(p.rawFasta, p.consensus); err != nil {
			return err
		}
		report.Warnings = append(report.Warnings, "masking requested but bedtools not found; consensus is unmasked")
		logger.Printf("WARNING: masking requested but bedtools not found; consensus is unmasked")
	default:
		if err = os.Rename(p.rawFasta, p.consensus); err != nil {
			return err
		}
	}

	// header normalization and statistics; line-level so that IUPAC
	// ambiguity codes from --iupac survive the rewrite
	seq, err := normalizeHeader(p.consensus, s.Name)
	if err != nil {
		return err
	}
	report.Stats = qc.SequenceStats(seq)

	report.Gates = []qc.Gate{
		covGate,
		breadthGate,
		qc.SizeGate(report.Stats.Length, cfg.SizeMin, cfg.SizeMax),
		qc.NContentGate(report.Stats.NPercent, cfg.MaxNPercent),
	}
	for _, g := range report.Gates[2:] {
		if !g.Pass {
			logger.Printf("WARNING: %s gate failed: %s", g.Name, g.Detail)
		}
	}

	if caps.EnhancedStats {
		if err = seqkitStats(p.consensus, p.seqkitStats, logw); err != nil {
			return err
		}
	}
	report.ContamNote = contamNote(caps)

	qc.WriteStats(p.stats, s.Name, report.Stats)

	// cleanup of intermediates before the manifest is written
	if err = os.Remove(p.unsortedBam); err != nil {
		return err
	}

	report.Files = manifest(p, cfg, caps)
	report.Write(p.report)
	writeResult(p.result, s.Name, report)

	logger.Printf("sample %s: assembly complete (%d bp, %.2f%% N)", s.Name, report.Stats.Length, report.Stats.NPercent)
	return nil
}

// normalizeHeader rewrites the first FASTA header line to the sample name and
// returns the first record's sequence bytes. The file is handled as text, so
// bases outside the plain ACGTN alphabet pass through untouched.
func normalizeHeader(filename, name string) ([]byte, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) == 0 || !strings.HasPrefix(lines[0], ">") {
		return nil, fmt.Errorf("consensus %s contains no sequence", filename)
	}
	lines[0] = ">" + name
	var seq []byte
	for _, line := range lines[1:] {
		if strings.HasPrefix(line, ">") {
			break
		}
		seq = append(seq, line...)
	}
	if err = os.WriteFile(filename, []byte(strings.Join(lines, "\n")+"\n"), 0644); err != nil {
		return nil, err
	}
	return seq, nil
}

func validateInputs(s Sample) error {
	for _, f := range []string{s.R1, s.R2, s.Ref} {
		if _, err := os.Stat(f); err != nil {
			return fmt.Errorf("%w: %s", ErrInputNotFound, f)
		}
	}
	return nil
}

func contamNote(caps tools.Capability) string {
	if caps.ContamScreen {
		return "kraken2 available; screening not run in this version"
	}
	return "kraken2 not found; screening skipped"
}

func manifest(p paths, cfg config.Config, caps tools.Capability) []string {
	files := []string{p.consensus, p.report, p.stats, p.result, p.depthTable, p.filtered, p.sortedBam, p.logFile}
	if cfg.MaskLowDepth && caps.Masking {
		files = append(files, p.maskBed)
	}
	if cfg.Plot {
		files = append(files, p.plot)
	}
	if caps.EnhancedStats {
		files = append(files, p.seqkitStats)
	}
	return files
}
