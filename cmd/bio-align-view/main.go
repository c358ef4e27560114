package main

/*
bio-align-view reads SAM-formatted text on stdin and prints the stacked
read/reference alignment of every record that carries an MD tag:

	read1
	GGACGCTCAGTA--GTGACGATAGCTGAAAACCCTGTACGATAAACC
	GGACGCTCAGTAATGTGACGATAGCTGAAAA--CTGTACGATAAACG

Records without an MD tag, unmapped records and header lines are
skipped.  Malformed records are reported and skipped unless -strict is
given.
*/

import (
	"bufio"
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/grailbio/base/grail"
	"github.com/grailbio/base/log"
	"github.com/grailbio/samtext/align"
	"github.com/grailbio/samtext/encoding/cigar"
	"github.com/grailbio/samtext/encoding/mdtag"
	"github.com/pkg/errors"
)

var strict = flag.Bool("strict", false, "Exit on the first malformed record instead of skipping it")

const maxLineBytes = 64 * 1024 * 1024

const mdPrefix = "MD:Z:"

// viewLine prints the stacked alignment for one SAM text line, or skips
// the line when it has nothing to reconcile.
func viewLine(w io.Writer, line string) error {
	if len(line) == 0 || line[0] == '@' {
		return nil
	}
	fields := strings.Split(line, "\t")
	if len(fields) < 11 {
		return errors.Errorf("truncated SAM line: %d fields", len(fields))
	}
	name, cigarText, seq := fields[0], fields[5], fields[9]
	if cigarText == "*" || seq == "*" {
		return nil
	}
	var mdText string
	for _, aux := range fields[11:] {
		if strings.HasPrefix(aux, mdPrefix) {
			mdText = aux[len(mdPrefix):]
			break
		}
	}
	if mdText == "" {
		return nil
	}
	cig, err := cigar.Parse(cigarText)
	if err != nil {
		return errors.WithMessagef(err, "record %s", name)
	}
	md, err := mdtag.Parse(mdText)
	if err != nil {
		return errors.WithMessagef(err, "record %s", name)
	}
	st, err := align.Reconcile(seq, cig, md)
	if err != nil {
		return errors.WithMessagef(err, "record %s", name)
	}
	_, err = fmt.Fprintf(w, "%s\n%s\n%s\n\n", name, st.Read, st.Ref)
	return err
}

func main() {
	shutdown := grail.Init()
	defer shutdown()

	w := bufio.NewWriter(os.Stdout)
	defer w.Flush()

	scanner := bufio.NewScanner(os.Stdin)
	scanner.Buffer(nil, maxLineBytes)
	for scanner.Scan() {
		if err := viewLine(w, scanner.Text()); err != nil {
			if *strict {
				log.Fatalf("%v", err)
			}
			log.Error.Printf("skipping record: %v", err)
		}
	}
	if err := scanner.Err(); err != nil {
		log.Fatalf("reading stdin: %v", err)
	}
}
