package main

import (
	"flag"
	"fmt"
	"github.com/jpralston/mitoTools/qc"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"strings"
)

func statsUsage(statsFlags *flag.FlagSet) {
	fmt.Print(
		"stats - sequence statistics for each record of a fasta\n\n" +
			"Usage:\n" +
			"  mitotools stats -i consensus.fa\n\n" +
			"Options:\n")
	statsFlags.PrintDefaults()
}

func runStats(args []string) {
	statsFlags := flag.NewFlagSet("stats", flag.ContinueOnError)
	input := statsFlags.String("i", "", "Input fasta file.")
	statsFlags.Usage = func() { statsUsage(statsFlags) }

	if len(args) == 0 {
		statsFlags.Usage()
		return
	}
	if err := statsFlags.Parse(args); err == flag.ErrHelp {
		return
	} else if err != nil {
		errExit(err.Error())
	}
	if *input == "" {
		statsFlags.Usage()
		errExit("\nERROR: must specify a fasta with -i")
	}

	fmt.Printf("name\tlength\tn_count\tn_percent\tgc_percent\tat_percent\n")

	// read records line by line so IUPAC ambiguity codes are tolerated
	in := fileio.EasyOpen(*input)
	var name string
	var seq []byte
	flush := func() {
		if name == "" {
			return
		}
		s := qc.SequenceStats(seq)
		fmt.Printf("%s\t%d\t%d\t%.2f\t%.2f\t%.2f\n", name, s.Length, s.NCount, s.NPercent, s.GCPercent, s.ATPercent)
	}
	for line, done := fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		if strings.HasPrefix(line, ">") {
			flush()
			name = line[1:]
			if fields := strings.Fields(name); len(fields) > 0 {
				name = fields[0]
			}
			seq = seq[:0]
		} else {
			seq = append(seq, line...)
		}
	}
	flush()
	err := in.Close()
	exception.PanicOnErr(err)
}
