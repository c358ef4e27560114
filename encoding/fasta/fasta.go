// Package fasta provides in-memory and indexed random access to FASTA
// files.  FASTA files consist of named sequences wrapped across lines:
//
// >chr7
// ACGTAC
// GAGGAC
// GCG
// >chr8
// ACGT
//
// Sequence names are the stretch of characters immediately after '>' up
// to the first whitespace; any text after that is ignored, so
// ">chr1 A viral sequence" becomes "chr1".  Names must be unique within
// a file.
//
// The companion index format (samtools faidx, *.fai; see
// http://www.htslib.org/doc/faidx.html) records per-record line geometry
// so that any character range can be fetched by seeking to a computed
// byte offset instead of reading the whole record.
package fasta

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

const scanBufSize = 1024 * 1024 * 300 // 300 MB

// Typed failures.  Callers match them with errors.Is.
var (
	// ErrNoRecords means the input contained no FASTA header line at all.
	ErrNoRecords = errors.New("no FASTA records found")
	// ErrUnknownSequence means the requested name is not in the file or
	// index.
	ErrUnknownSequence = errors.New("sequence not found")
	// ErrOutOfRange means the requested range extends past the end of the
	// sequence.  Out-of-range requests fail atomically, before any read.
	ErrOutOfRange = errors.New("request out of sequence range")
	// ErrDuplicateName means one file defines the same sequence name
	// twice.  Rather than silently shadowing the earlier record, both
	// indexing and loading fail fast.
	ErrDuplicateName = errors.New("duplicate sequence name")
)

// Fasta represents FASTA-formatted data: a set of named sequences.
type Fasta interface {
	// Get returns length characters of the named sequence starting at the
	// 0-based offset start.  start+length == Len(name) is the last valid
	// span.  Get is safe for concurrent use.
	Get(seqName string, start, length uint64) (string, error)

	// Len returns the length of the named sequence.
	Len(seqName string) (uint64, error)

	// SeqNames returns the names of all sequences, in order of appearance
	// in the file.
	SeqNames() []string
}

// seqName extracts the record name from a header line: the token after
// the marker, up to the first whitespace.
func seqName(header string) string {
	name := header[1:]
	if i := strings.IndexAny(name, " \t"); i >= 0 {
		name = name[:i]
	}
	return name
}

type memFasta struct {
	seqs     map[string]string
	seqNames []string
}

// New creates a Fasta that holds all sequence data from r in memory.
func New(r io.Reader) (Fasta, error) {
	f := &memFasta{seqs: make(map[string]string)}
	scanner := bufio.NewScanner(r)
	scanner.Buffer(nil, scanBufSize)
	var (
		name string
		open bool
		seq  strings.Builder
	)
	flush := func() error {
		if _, ok := f.seqs[name]; ok {
			return errors.WithMessagef(ErrDuplicateName, "%q", name)
		}
		f.seqs[name] = seq.String()
		f.seqNames = append(f.seqNames, name)
		seq.Reset()
		return nil
	}
	for scanner.Scan() {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		if line[0] == '>' { // Start a new sequence.
			if open {
				if err := flush(); err != nil {
					return nil, err
				}
			}
			name = seqName(line)
			open = true
			continue
		}
		if !open {
			return nil, errors.Errorf("malformed FASTA: sequence data before the first header")
		}
		seq.WriteString(line)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading FASTA data")
	}
	if !open {
		return nil, errors.WithMessage(ErrNoRecords, "no header lines in input")
	}
	if err := flush(); err != nil {
		return nil, err
	}
	return f, nil
}

// Get implements Fasta.Get.
func (f *memFasta) Get(seqName string, start, length uint64) (string, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return "", errors.WithMessagef(ErrUnknownSequence, "%q", seqName)
	}
	// Phrased to avoid uint64 wraparound in start+length.
	if length > uint64(len(s)) || start > uint64(len(s))-length {
		return "", errors.WithMessagef(ErrOutOfRange,
			"[%d, +%d) of %q with length %d", start, length, seqName, len(s))
	}
	return s[start : start+length], nil
}

// Len implements Fasta.Len.
func (f *memFasta) Len(seqName string) (uint64, error) {
	s, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.WithMessagef(ErrUnknownSequence, "%q", seqName)
	}
	return uint64(len(s)), nil
}

// SeqNames implements Fasta.SeqNames.
func (f *memFasta) SeqNames() []string {
	return f.seqNames
}
