package variant

import (
	"github.com/vertgenlab/gonomics/vcf"
	"math"
	"strings"
	"testing"
)

var defaultFilter = Filter{MinQual: 30, MinDepth: 10, MinAF: 0.9}

func TestKeep(t *testing.T) {
	tests := []struct {
		name string
		site Site
		keep bool
	}{
		{"clean substitution", Site{Qual: 35, RefDepth: 1, AltDepth: 11, AltForward: 6, AltReverse: 5}, true},
		{"alt fraction below cutoff", Site{Qual: 35, RefDepth: 9, AltDepth: 51, AltForward: 30, AltReverse: 21}, false},
		{"low quality", Site{Qual: 29.5, RefDepth: 0, AltDepth: 40, AltForward: 20, AltReverse: 20}, false},
		{"low depth", Site{Qual: 60, RefDepth: 0, AltDepth: 9, AltForward: 5, AltReverse: 4}, false},
		{"single strand only", Site{Qual: 60, RefDepth: 0, AltDepth: 40, AltForward: 40, AltReverse: 0}, false},
		{"zero total depth", Site{Qual: 60}, false},
		{"exact thresholds", Site{Qual: 30, RefDepth: 1, AltDepth: 9, AltForward: 5, AltReverse: 4}, true},
	}
	for _, test := range tests {
		if got := defaultFilter.Keep(test.site); got != test.keep {
			t.Errorf("%s: Keep = %v, want %v", test.name, got, test.keep)
		}
	}
}

// Fraction 0.92 at depth 12 is retained; dropping the fraction to 0.85 with
// all else equal excludes the site.
func TestKeepAltFractionCutoff(t *testing.T) {
	kept := Site{Qual: 35, RefDepth: 1, AltDepth: 11, AltForward: 6, AltReverse: 5}    // af 0.917
	dropped := Site{Qual: 35, RefDepth: 2, AltDepth: 10, AltForward: 5, AltReverse: 5} // af 0.833
	if !defaultFilter.Keep(kept) {
		t.Error("site at af 0.92 should be retained")
	}
	if defaultFilter.Keep(dropped) {
		t.Error("site at af 0.85 should be excluded")
	}
}

func TestAltFraction(t *testing.T) {
	s := Site{RefDepth: 1, AltDepth: 11}
	if af := s.AltFraction(); math.Abs(af-11.0/12.0) > 1e-9 {
		t.Errorf("expected af %g, got %g", 11.0/12.0, af)
	}
	var zero Site
	if zero.AltFraction() != 0 {
		t.Error("zero-depth site must report fraction 0, not NaN")
	}
}

func TestExpression(t *testing.T) {
	expr := defaultFilter.Expression()
	for _, term := range []string{"QUAL>=30", "(FORMAT/AD[0:0]+FORMAT/AD[0:1])>=10", ">=0.9", "FORMAT/ADF[0:1]>0", "FORMAT/ADR[0:1]>0"} {
		if !strings.Contains(expr, term) {
			t.Errorf("expression missing term %q: %s", term, expr)
		}
	}
	if c := strings.Count(expr, "&&"); c != 4 {
		t.Errorf("expected 4 conjunctions, got %d: %s", c, expr)
	}
}

func TestCountRetained(t *testing.T) {
	total, kept := defaultFilter.CountRetained("testdata/called.vcf")
	if total != 3 {
		t.Errorf("expected 3 records, got %d", total)
	}
	// one clean substitution; the others fail on quality and strand balance
	if kept != 1 {
		t.Errorf("expected 1 retained record, got %d", kept)
	}
}

func TestSiteFromVcfDepths(t *testing.T) {
	records, _ := vcf.GoReadToChan("testdata/called.vcf")
	s := SiteFromVcf(<-records)
	if s.Chrom != "chrM" || s.Pos != 100 || s.Ref != "A" || s.Alt != "G" {
		t.Errorf("site fields wrong: %+v", s)
	}
	if s.RefDepth != 1 || s.AltDepth != 11 || s.AltForward != 6 || s.AltReverse != 5 {
		t.Errorf("depths wrong: %+v", s)
	}
	for range records {
	}
}

func TestSplitAllelePair(t *testing.T) {
	ref, alt := splitAllelePair("7,13")
	if ref != 7 || alt != 13 {
		t.Errorf("expected 7,13 got %d,%d", ref, alt)
	}
	ref, alt = splitAllelePair("5")
	if ref != 5 || alt != 0 {
		t.Errorf("expected 5,0 got %d,%d", ref, alt)
	}
}
