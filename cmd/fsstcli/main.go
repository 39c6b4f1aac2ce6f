// Command fsstcli is a batch driver for training a symbol table against a
// sample file and reporting the compression ratio achieved encoding an
// input file, one newline-delimited string per line.
package main

import (
	"bufio"
	"flag"
	"fmt"
	"log"
	"os"

	"github.com/cheggaaa/pb/v3"
	"github.com/fatih/color"

	"github.com/gofsst/fsst"
)

func main() {
	var (
		samplePath = flag.String("sample", "", "path to a newline-delimited sample file to train on (required)")
		inputPath  = flag.String("input", "", "path to a newline-delimited input file to encode (required unless -train-only)")
		outPath    = flag.String("out", "", "path to write the trained table's dump (optional)")
		trainOnly  = flag.Bool("train-only", false, "train and (if -out is set) write the table, then exit without encoding")
	)
	flag.Parse()

	if *samplePath == "" {
		log.Fatal("fsstcli: -sample is required")
	}
	if !*trainOnly && *inputPath == "" {
		log.Fatal("fsstcli: -input is required unless -train-only is set")
	}

	sample, err := readLines(*samplePath)
	if err != nil {
		log.Fatalf("fsstcli: reading sample: %v", err)
	}

	tbl := fsst.Train(sample)
	fmt.Printf("trained table with %d symbols from %d sample lines\n", tbl.Size(), len(sample))

	if *outPath != "" {
		if err := os.WriteFile(*outPath, tbl.Dump(), 0o644); err != nil {
			log.Fatalf("fsstcli: writing table dump: %v", err)
		}
		fmt.Printf("wrote table dump to %s\n", *outPath)
	}

	if *trainOnly {
		return
	}

	input, err := readLines(*inputPath)
	if err != nil {
		log.Fatalf("fsstcli: reading input: %v", err)
	}

	bar := pb.StartNew(len(input))
	var totalIn, totalOut int
	for _, line := range input {
		comp := tbl.EncodeAll(line)
		totalIn += len(line)
		totalOut += len(comp)
		bar.Increment()
	}
	bar.Finish()

	ratio := 1.0
	if totalOut > 0 {
		ratio = float64(totalIn) / float64(totalOut)
	}

	report := fmt.Sprintf("compressed %d lines, %d -> %d bytes, ratio %.2fx", len(input), totalIn, totalOut, ratio)
	switch {
	case ratio > 1.5:
		color.Green(report)
	case ratio > 1.0:
		color.Yellow(report)
	default:
		color.Red(report)
	}
}

func readLines(path string) ([][]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var lines [][]byte
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := make([]byte, len(scanner.Bytes()))
		copy(line, scanner.Bytes())
		lines = append(lines, line)
	}
	return lines, scanner.Err()
}
