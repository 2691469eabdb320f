// Package tools probes the external toolchain once at startup. Required tools
// abort the run when missing; optional tools toggle capabilities that stages
// consult instead of re-probing PATH.
package tools

import (
	"fmt"
	"os/exec"
	"strings"
)

// Required binaries. The pipeline cannot produce a consensus without these.
const (
	Bowtie2      = "bowtie2"
	Bowtie2Build = "bowtie2-build"
	Samtools     = "samtools"
	Bcftools     = "bcftools"
)

// Optional binaries behind capabilities.
const (
	Bedtools = "bedtools" // low-depth masking
	Seqkit   = "seqkit"   // enhanced sequence statistics
	Kraken2  = "kraken2"  // contamination screening
)

// Capability flags computed once by Probe.
type Capability struct {
	Masking       bool
	EnhancedStats bool
	ContamScreen  bool
}

// Probe checks every required binary and returns the optional capability set.
// A missing required tool is fatal; missing optional tools only clear flags.
func Probe() (Capability, error) {
	var missing []string
	for _, tool := range []string{Bowtie2, Bowtie2Build, Samtools, Bcftools} {
		if _, err := exec.LookPath(tool); err != nil {
			missing = append(missing, tool)
		}
	}
	if len(missing) > 0 {
		return Capability{}, fmt.Errorf("required tool(s) not found in PATH: %s", strings.Join(missing, ", "))
	}
	return Capability{
		Masking:       available(Bedtools),
		EnhancedStats: available(Seqkit),
		ContamScreen:  available(Kraken2),
	}, nil
}

func available(tool string) bool {
	_, err := exec.LookPath(tool)
	return err == nil
}

// String lists the optional capabilities for the run log.
func (c Capability) String() string {
	s := new(strings.Builder)
	fmt.Fprintf(s, "masking:%v enhanced-stats:%v contamination-screen:%v", c.Masking, c.EnhancedStats, c.ContamScreen)
	return s.String()
}
