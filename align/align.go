// Package align drives the external alignment toolchain: bowtie2 for indexing
// and paired-end alignment, samtools for sort/index/depth/faidx. Every
// invocation streams tool output into the run log and fails on non-zero exit.
package align

import (
	"bytes"
	"fmt"
	"io"
	"os"
	"os/exec"
)

// Stats is the aligner's own summary, parsed from bowtie2 stderr. The raw
// text is retained for verbatim inclusion in the QC report.
type Stats struct {
	Reads          int     // read pairs processed
	ConcordantPct  float64 // aligned concordantly exactly 1 time
	OverallRatePct float64 // overall alignment rate
	Raw            string
}

// IndexExists reports whether a bowtie2 index is already present for ref.
func IndexExists(ref string) bool {
	_, err := os.Stat(ref + ".1.bt2")
	return err == nil
}

// BuildIndex builds a bowtie2 index for ref unless one already exists.
// Re-running against an indexed reference is a no-op.
func BuildIndex(ref string, logw io.Writer) error {
	if IndexExists(ref) {
		fmt.Fprintf(logw, "index already present for %s, skipping bowtie2-build\n", ref)
		return nil
	}
	cmd := exec.Command("bowtie2-build", ref, ref)
	cmd.Stdout = logw
	cmd.Stderr = logw
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("bowtie2-build %s: %w", ref, err)
	}
	return nil
}

// Faidx ensures a samtools fasta index is present for ref.
func Faidx(ref string, logw io.Writer) error {
	if _, err := os.Stat(ref + ".fai"); err == nil {
		return nil
	}
	cmd := exec.Command("samtools", "faidx", ref)
	cmd.Stdout = logw
	cmd.Stderr = logw
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("samtools faidx %s: %w", ref, err)
	}
	return nil
}

// AlignPaired aligns r1/r2 against the ref index with the given sensitivity
// preset, discarding unaligned pairs, and writes an unsorted BAM. The bowtie2
// summary is parsed from its stderr and also copied into the log.
func AlignPaired(ref, r1, r2, outBam, preset string, threads int, logw io.Writer) (Stats, error) {
	bowtie := exec.Command("bowtie2",
		"--"+preset,
		"-p", fmt.Sprint(threads),
		"--no-unal",
		"-x", ref,
		"-1", r1,
		"-2", r2)
	view := exec.Command("samtools", "view", "-b", "-o", outBam, "-")

	stderr := new(bytes.Buffer)
	bowtie.Stderr = io.MultiWriter(stderr, logw)
	view.Stderr = logw

	pipe, err := bowtie.StdoutPipe()
	if err != nil {
		return Stats{}, fmt.Errorf("bowtie2 stdout pipe: %w", err)
	}
	view.Stdin = pipe

	if err = bowtie.Start(); err != nil {
		return Stats{}, fmt.Errorf("bowtie2: %w", err)
	}
	if err = view.Start(); err != nil {
		pipe.Close()
		bowtie.Wait()
		return Stats{}, fmt.Errorf("samtools view: %w", err)
	}
	// wait on both even when bowtie2 fails, so samtools never outlives the call
	bowtieErr := bowtie.Wait()
	viewErr := view.Wait()
	if bowtieErr != nil {
		return Stats{}, fmt.Errorf("bowtie2: %w", bowtieErr)
	}
	if viewErr != nil {
		return Stats{}, fmt.Errorf("samtools view: %w", viewErr)
	}

	return ParseBowtieSummary(stderr.String()), nil
}

// SortIndex coordinate-sorts an alignment and indexes the result.
func SortIndex(inBam, outBam string, threads int, logw io.Writer) error {
	sort := exec.Command("samtools", "sort", "-@", fmt.Sprint(threads), "-o", outBam, inBam)
	sort.Stdout = logw
	sort.Stderr = logw
	if err := sort.Run(); err != nil {
		return fmt.Errorf("samtools sort %s: %w", inBam, err)
	}
	index := exec.Command("samtools", "index", outBam)
	index.Stdout = logw
	index.Stderr = logw
	if err := index.Run(); err != nil {
		return fmt.Errorf("samtools index %s: %w", outBam, err)
	}
	return nil
}

// Depth writes a per-base depth table for the whole reference, including
// zero-depth positions.
func Depth(sortedBam, outFile string, logw io.Writer) error {
	out, err := os.Create(outFile)
	if err != nil {
		return err
	}
	cmd := exec.Command("samtools", "depth", "-a", sortedBam)
	cmd.Stdout = out
	cmd.Stderr = logw
	err = cmd.Run()
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("samtools depth %s: %w", sortedBam, err)
	}
	return nil
}
