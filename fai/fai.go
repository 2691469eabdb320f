// Package fai reads samtools faidx indexes. The pipeline uses the index to
// learn reference sequence lengths without loading the FASTA itself.
package fai

import (
	"fmt"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"log"
	"strconv"
	"strings"
)

// Index holds one entry per reference sequence, in file order.
type Index struct {
	records []record
	nameMap map[string]int // maps sequence name to index in records
}

// record is one line of a fai file.
type record struct {
	name         string // name of this reference sequence
	len          int    // total length in bases
	offset       int    // byte offset of the first base in the FASTA
	basesPerLine int    // bases on each line
	bytesPerLine int    // bytes on each line, including the newline
}

// String method for record matches the on-disk fai format.
func (r record) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%d\t%d", r.name, r.len, r.offset, r.basesPerLine, r.bytesPerLine)
}

// String method for Index enables easy writing with the fmt package.
func (idx Index) String() string {
	answer := new(strings.Builder)
	for i := range idx.records {
		answer.WriteString(idx.records[i].String())
		answer.WriteByte('\n')
	}
	return answer.String()
}

// NumSeqs returns the number of sequences in the index.
func (idx Index) NumSeqs() int {
	return len(idx.records)
}

// Len returns the length in bases of the named sequence.
// Fatal if the name is not present in the index.
func (idx Index) Len(chr string) int {
	i, found := idx.nameMap[chr]
	if !found {
		log.Fatalf("ERROR: sequence %s not present in fasta index\n", chr)
	}
	return idx.records[i].len
}

// TotalLen returns the summed length of all sequences in the index.
func (idx Index) TotalLen() int {
	var total int
	for i := range idx.records {
		total += idx.records[i].len
	}
	return total
}

// PrimaryName returns the name of the first sequence in the index.
// Mitochondrial references are expected to be single-sequence, so the
// first entry is the assembly target.
func (idx Index) PrimaryName() string {
	if len(idx.records) == 0 {
		log.Fatal("ERROR: empty fasta index")
	}
	return idx.records[0].name
}

// ReadIndex reads a fai file into an Index for length lookups.
func ReadIndex(filename string) Index {
	file := fileio.EasyOpen(filename)
	var answer Index
	var curr record
	var line string
	var col []string
	var done bool
	var err error
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		col = strings.Split(line, "\t")
		if len(col) != 5 {
			log.Fatalf("ERROR: malformed index file: %s\nerror on line:\n%s\n", filename, line)
		}

		curr.name = col[0]
		curr.len, err = strconv.Atoi(col[1])
		exception.PanicOnErr(err)
		curr.offset, err = strconv.Atoi(col[2])
		exception.PanicOnErr(err)
		curr.basesPerLine, err = strconv.Atoi(col[3])
		exception.PanicOnErr(err)
		curr.bytesPerLine, err = strconv.Atoi(col[4])
		exception.PanicOnErr(err)

		answer.records = append(answer.records, curr)
	}

	err = file.Close()
	exception.PanicOnErr(err)

	answer.nameMap = make(map[string]int)
	for i := range answer.records {
		answer.nameMap[answer.records[i].name] = i
	}
	return answer
}
