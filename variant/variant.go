// Package variant models the haploid variant filter as a typed predicate.
// The predicate is evaluated in-process for reporting and translated to a
// bcftools include expression at the toolchain boundary.
package variant

import (
	"fmt"
	"github.com/vertgenlab/gonomics/vcf"
	"strconv"
	"strings"
)

// Site is the view of one called site needed by the filter: site quality,
// allele depths, and per-strand support for the alternate allele.
type Site struct {
	Chrom      string
	Pos        int
	Ref        string
	Alt        string
	Qual       float64
	RefDepth   int
	AltDepth   int
	AltForward int // alternate allele reads on the forward strand
	AltReverse int // alternate allele reads on the reverse strand
}

// AltFraction returns AltDepth / (RefDepth + AltDepth), or 0 when no reads
// cover the site. Zero-depth sites are rejected by the depth term of the
// filter, never by a division error.
func (s Site) AltFraction() float64 {
	total := s.RefDepth + s.AltDepth
	if total == 0 {
		return 0
	}
	return float64(s.AltDepth) / float64(total)
}

// TotalDepth returns the combined ref and alt allele depth.
func (s Site) TotalDepth() int {
	return s.RefDepth + s.AltDepth
}

// Filter is the conjunction of retention thresholds for called sites.
// Strand balance (alternate allele observed on both orientations) is always
// required and has no tunable threshold.
type Filter struct {
	MinQual  float64
	MinDepth int
	MinAF    float64
}

// Keep reports whether a site passes every term of the filter.
func (f Filter) Keep(s Site) bool {
	if s.Qual < f.MinQual {
		return false
	}
	if s.TotalDepth() < f.MinDepth {
		return false
	}
	if s.AltFraction() < f.MinAF {
		return false
	}
	return s.AltForward > 0 && s.AltReverse > 0
}

// Expression renders the filter as a bcftools include expression for
// `bcftools view -i`. Depth is the AD sum rather than FORMAT/DP so that the
// expression agrees with Keep at every site. Allele depth annotations
// (AD, ADF, ADR) must have been requested at pileup time.
func (f Filter) Expression() string {
	return fmt.Sprintf("QUAL>=%s && (FORMAT/AD[0:0]+FORMAT/AD[0:1])>=%d && (FORMAT/AD[0:1])/(FORMAT/AD[0:0]+FORMAT/AD[0:1])>=%s && FORMAT/ADF[0:1]>0 && FORMAT/ADR[0:1]>0",
		trimFloat(f.MinQual), f.MinDepth, trimFloat(f.MinAF))
}

func trimFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

// SiteFromVcf extracts a Site from a VCF record carrying AD/ADF/ADR sample
// annotations. Missing annotations leave the corresponding depths at zero.
func SiteFromVcf(v vcf.Vcf) Site {
	answer := Site{
		Chrom: v.Chr,
		Pos:   v.Pos,
		Ref:   v.Ref,
		Qual:  v.Qual,
	}
	if len(v.Alt) > 0 {
		answer.Alt = v.Alt[0]
	}
	if len(v.Samples) == 0 {
		return answer
	}

	if ad := formatField(v, v.Samples[0], "AD"); ad != "" {
		answer.RefDepth, answer.AltDepth = splitAllelePair(ad)
	}
	if adf := formatField(v, v.Samples[0], "ADF"); adf != "" {
		_, answer.AltForward = splitAllelePair(adf)
	}
	if adr := formatField(v, v.Samples[0], "ADR"); adr != "" {
		_, answer.AltReverse = splitAllelePair(adr)
	}
	return answer
}

// formatField returns the sample value for the named FORMAT key, or "".
func formatField(v vcf.Vcf, s vcf.Sample, key string) string {
	for i := range v.Format {
		if v.Format[i] == key && i < len(s.FormatData) {
			return s.FormatData[i]
		}
	}
	return ""
}

// splitAllelePair parses a comma-separated ref,alt depth pair.
func splitAllelePair(field string) (ref, alt int) {
	col := strings.Split(field, ",")
	if len(col) > 0 {
		ref, _ = strconv.Atoi(col[0])
	}
	if len(col) > 1 {
		alt, _ = strconv.Atoi(col[1])
	}
	return ref, alt
}

// CountRetained streams a VCF file through the filter and returns the number
// of records seen and the number the filter keeps. The kept count mirrors what
// `bcftools view -i Expression()` retains from the same file.
func (f Filter) CountRetained(filename string) (total, kept int) {
	records, _ := vcf.GoReadToChan(filename)
	for v := range records {
		total++
		if f.Keep(SiteFromVcf(v)) {
			kept++
		}
	}
	return total, kept
}
