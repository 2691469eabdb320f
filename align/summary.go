package align

import (
	"strconv"
	"strings"
)

// ParseBowtieSummary extracts headline numbers from bowtie2's stderr summary.
// Unrecognized lines are ignored so format drift degrades to partial stats
// rather than an error; the raw text is kept either way.
func ParseBowtieSummary(text string) Stats {
	answer := Stats{Raw: text}
	for _, line := range strings.Split(text, "\n") {
		fields := strings.Fields(line)
		switch {
		case strings.HasSuffix(line, "reads; of these:") && len(fields) > 0:
			answer.Reads, _ = strconv.Atoi(fields[0])
		case strings.Contains(line, "aligned concordantly exactly 1 time") && len(fields) > 1:
			answer.ConcordantPct = parsePercent(fields[1])
		case strings.HasSuffix(line, "overall alignment rate") && len(fields) > 0:
			answer.OverallRatePct = parsePercent(fields[0])
		}
	}
	return answer
}

// parsePercent handles both "(90.00%)" and "98.20%" forms.
func parsePercent(field string) float64 {
	field = strings.Trim(field, "()%")
	v, _ := strconv.ParseFloat(field, 64)
	return v
}
