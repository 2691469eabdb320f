package align

import (
	"math"
	"testing"
)

const bowtieSummary = `10000 reads; of these:
  10000 (100.00%) were paired; of these:
    450 (4.50%) aligned concordantly 0 times
    9000 (90.00%) aligned concordantly exactly 1 time
    550 (5.50%) aligned concordantly >1 times
    ----
    450 pairs aligned concordantly 0 times; of these:
      230 (51.11%) aligned discordantly 1 time
    ----
    220 pairs aligned 0 times concordantly or discordantly; of these:
      440 mates make up the pairs; of these:
        310 (70.45%) aligned 0 times
        90 (20.45%) aligned exactly 1 time
        40 (9.09%) aligned >1 times
98.45% overall alignment rate
`

func TestParseBowtieSummary(t *testing.T) {
	s := ParseBowtieSummary(bowtieSummary)
	if s.Reads != 10000 {
		t.Errorf("expected 10000 reads, got %d", s.Reads)
	}
	if math.Abs(s.ConcordantPct-90) > 1e-9 {
		t.Errorf("expected 90%% concordant, got %g", s.ConcordantPct)
	}
	if math.Abs(s.OverallRatePct-98.45) > 1e-9 {
		t.Errorf("expected 98.45%% overall, got %g", s.OverallRatePct)
	}
	if s.Raw != bowtieSummary {
		t.Error("raw summary should be retained verbatim")
	}
}

func TestParseBowtieSummaryGarbage(t *testing.T) {
	s := ParseBowtieSummary("not a summary\n")
	if s.Reads != 0 || s.OverallRatePct != 0 {
		t.Errorf("garbage input should yield zero stats, got %+v", s)
	}
}

func TestParsePercent(t *testing.T) {
	if v := parsePercent("(90.00%)"); math.Abs(v-90) > 1e-9 {
		t.Errorf("expected 90, got %g", v)
	}
	if v := parsePercent("98.45%"); math.Abs(v-98.45) > 1e-9 {
		t.Errorf("expected 98.45, got %g", v)
	}
}
