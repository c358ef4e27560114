package main

// bio-fasta-index reads FASTA on stdin and writes a samtools-faidx
// compatible index (*.fai) to stdout.

import (
	"os"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/samtext/encoding/fasta"
)

func main() {
	shutdown := grail.Init()
	defer shutdown()

	if err := fasta.GenerateIndex(os.Stdout, os.Stdin); err != nil {
		log.Fatalf("generating index: %v", err)
	}
}
