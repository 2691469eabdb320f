package pipeline

import (
	"fmt"
	"github.com/jpralston/mitoTools/config"
	"github.com/jpralston/mitoTools/variant"
	"io"
	"os"
	"os/exec"
)

// callVariants runs the pileup and haploid caller back to back:
// bcftools mpileup | bcftools call --ploidy 1, keeping allele depth
// annotations for the downstream filter.
func callVariants(ref, bam, out string, cfg config.Config, logw io.Writer) error {
	mpileup := exec.Command("bcftools", "mpileup",
		"-f", ref,
		"-q", fmt.Sprint(cfg.MinMapQ),
		"-Q", fmt.Sprint(cfg.MinBaseQ),
		"-a", "FORMAT/AD,FORMAT/ADF,FORMAT/ADR",
		bam)
	call := exec.Command("bcftools", "call",
		"--ploidy", "1",
		"-m", "-v",
		"-Oz", "-o", out,
		"-")
	return runPipe(mpileup, call, logw)
}

// normalizeVariants left-aligns and normalizes indel representation before
// filtering.
func normalizeVariants(ref, in, out string, logw io.Writer) error {
	return run(exec.Command("bcftools", "norm", "-f", ref, "-Oz", "-o", out, in), logw)
}

// filterVariants applies the typed predicate at the toolchain boundary and
// indexes the result for consensus generation.
func filterVariants(in, out string, filter variant.Filter, logw io.Writer) error {
	if err := run(exec.Command("bcftools", "view", "-i", filter.Expression(), "-Oz", "-o", out, in), logw); err != nil {
		return err
	}
	return run(exec.Command("bcftools", "index", "-f", out), logw)
}

// consensus applies the filtered variant set to the reference. With iupac
// enabled, ambiguous sites render as IUPAC codes instead of a forced haploid
// base.
func consensus(ref, filteredVcf, out string, iupac bool, logw io.Writer) error {
	args := []string{"consensus", "-f", ref, "-o", out}
	if iupac {
		args = append(args, "--iupac-codes")
	}
	args = append(args, filteredVcf)
	return run(exec.Command("bcftools", args...), logw)
}

// maskFasta substitutes N over the given intervals using bedtools.
func maskFasta(in, bedFile, out string, logw io.Writer) error {
	return run(exec.Command("bedtools", "maskfasta", "-fi", in, "-bed", bedFile, "-fo", out), logw)
}

// seqkitStats writes the enhanced statistics table for the final consensus.
func seqkitStats(consensusFasta, out string, logw io.Writer) error {
	f, err := os.Create(out)
	if err != nil {
		return err
	}
	cmd := exec.Command("seqkit", "stats", "-a", consensusFasta)
	cmd.Stdout = f
	cmd.Stderr = logw
	err = cmd.Run()
	if closeErr := f.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		return fmt.Errorf("seqkit stats %s: %w", consensusFasta, err)
	}
	return nil
}

// run executes a single command with output routed to the run log.
func run(cmd *exec.Cmd, logw io.Writer) error {
	cmd.Stdout = logw
	cmd.Stderr = logw
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", cmd.Args[0]+" "+cmd.Args[1], err)
	}
	return nil
}

// runPipe connects producer stdout to consumer stdin and waits on both.
func runPipe(producer, consumer *exec.Cmd, logw io.Writer) error {
	producer.Stderr = logw
	consumer.Stderr = logw
	pipe, err := producer.StdoutPipe()
	if err != nil {
		return err
	}
	consumer.Stdin = pipe
	if err = producer.Start(); err != nil {
		return fmt.Errorf("%s: %w", producer.Args[0]+" "+producer.Args[1], err)
	}
	if err = consumer.Start(); err != nil {
		pipe.Close()
		producer.Wait()
		return fmt.Errorf("%s: %w", consumer.Args[0]+" "+consumer.Args[1], err)
	}
	// wait on both even when the producer fails, so the consumer never
	// outlives the call
	producerErr := producer.Wait()
	consumerErr := consumer.Wait()
	if producerErr != nil {
		return fmt.Errorf("%s: %w", producer.Args[0]+" "+producer.Args[1], producerErr)
	}
	if consumerErr != nil {
		return fmt.Errorf("%s: %w", consumer.Args[0]+" "+consumer.Args[1], consumerErr)
	}
	return nil
}
