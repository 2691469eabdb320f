package main

import (
	"flag"
	"fmt"
	"github.com/jpralston/mitoTools/coverage"
)

func covstatsUsage(covFlags *flag.FlagSet) {
	fmt.Print(
		"covstats - coverage summary from a samtools depth -a table\n\n" +
			"Usage:\n" +
			"  mitotools covstats -i sample_coverage.tsv [options]\n\n" +
			"Options:\n")
	covFlags.PrintDefaults()
}

func runCovstats(args []string) {
	covFlags := flag.NewFlagSet("covstats", flag.ContinueOnError)
	input := covFlags.String("i", "", "Per-base depth table from samtools depth -a.")
	minDepth := covFlags.Int("min-depth", 10, "Depth threshold for the breadth calculation.")
	chart := covFlags.Bool("chart", false, "Print a binned depth chart.")
	covFlags.Usage = func() { covstatsUsage(covFlags) }

	if len(args) == 0 {
		covFlags.Usage()
		return
	}
	if err := covFlags.Parse(args); err == flag.ErrHelp {
		return
	} else if err != nil {
		errExit(err.Error())
	}
	if *input == "" {
		covFlags.Usage()
		errExit("\nERROR: must specify a depth table with -i")
	}

	p := coverage.ReadProfile(*input)
	fmt.Printf("chrom\t%s\n", p.Chrom)
	fmt.Printf("positions\t%d\n", len(p.Depths))
	fmt.Printf("mean_depth\t%.2f\n", p.Mean())
	fmt.Printf("max_depth\t%d\n", p.Max())
	fmt.Printf("breadth_%dx\t%.4f\n", *minDepth, p.Breadth(*minDepth))
	fmt.Printf("low_depth_intervals\t%d\n", len(p.LowIntervals(*minDepth)))
	if *chart {
		fmt.Println(p.AsciiChart(72, 8))
	}
}
