package fasta

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/grailbio/base/tsv"
	"github.com/pkg/errors"
)

// Entry describes the line geometry of one FASTA record: everything
// needed to turn a character offset into a byte offset.
type Entry struct {
	Name string
	// Length is the total number of sequence characters in the record.
	Length uint64
	// Offset is the byte offset, in the backing file, of the first
	// sequence character after the record's header line.
	Offset uint64
	// LineBases is the maximum number of sequence characters per data
	// line.  Only the final line of a record may be shorter.
	LineBases uint64
	// LineWidth is the maximum number of bytes per data line, line
	// terminator included, so LineWidth >= LineBases.
	LineWidth uint64
}

// Index is the ordered list of entries for one FASTA file, one entry per
// record in order of appearance.  It is built by a single forward scan
// and immutable thereafter.
type Index []Entry

// NewIndex scans FASTA data and builds its index.  The scan is a
// two-state machine: either no record is open, or one entry is
// accumulating; each header line (and end of input) flushes the open
// entry.  Returns ErrNoRecords when the input has no header line and
// ErrDuplicateName when two records share a name.
func NewIndex(in io.Reader) (Index, error) {
	var (
		idx  Index
		r    = bufio.NewReader(in)
		cur  Entry
		open bool
		cum  uint64 // bytes consumed so far
		seen = make(map[string]bool)
	)
	flush := func() error {
		if !open {
			return nil
		}
		if seen[cur.Name] {
			return errors.WithMessagef(ErrDuplicateName, "%q", cur.Name)
		}
		seen[cur.Name] = true
		idx = append(idx, cur)
		open = false
		return nil
	}
	for {
		fullLine, err := r.ReadBytes('\n')
		if len(fullLine) > 0 {
			line := bytes.TrimRight(fullLine, "\r\n")
			if len(line) > 0 {
				switch {
				case line[0] == '>':
					if ferr := flush(); ferr != nil {
						return nil, ferr
					}
					cur = Entry{Name: seqName(string(line)), Offset: cum + uint64(len(fullLine))}
					open = true
				case !open:
					return nil, errors.Errorf("malformed FASTA: sequence data before the first header")
				default:
					cur.Length += uint64(len(line))
					if uint64(len(line)) > cur.LineBases {
						cur.LineBases = uint64(len(line))
					}
					if uint64(len(fullLine)) > cur.LineWidth {
						cur.LineWidth = uint64(len(fullLine))
					}
				}
			}
			cum += uint64(len(fullLine))
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, errors.Wrap(err, "reading FASTA data")
		}
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if len(idx) == 0 {
		return nil, errors.WithMessage(ErrNoRecords, "no header lines in input")
	}
	return idx, nil
}

// Write writes the index in the samtools faidx text format: one line per
// record with five tab-separated fields, "<name>\t<length>\t<byte
// offset>\t<bases per line>\t<bytes per line>".
func (idx Index) Write(out io.Writer) error {
	w := tsv.NewWriter(out)
	for _, ent := range idx {
		w.WriteString(ent.Name)
		w.WriteInt64(int64(ent.Length))
		w.WriteInt64(int64(ent.Offset))
		w.WriteInt64(int64(ent.LineBases))
		w.WriteInt64(int64(ent.LineWidth))
		if err := w.EndLine(); err != nil {
			return errors.Wrapf(err, "writing index entry %q", ent.Name)
		}
	}
	return w.Flush()
}

// GenerateIndex indexes the FASTA data on in and writes the index to out
// in faidx text format.  The output can later be passed to NewIndexed
// for random access without loading the sequence data.
func GenerateIndex(out io.Writer, in io.Reader) error {
	idx, err := NewIndex(in)
	if err != nil {
		return err
	}
	return idx.Write(out)
}

// ReadIndex parses a faidx-format index.  Fields may be separated by any
// run of blanks or tabs.
func ReadIndex(in io.Reader) (Index, error) {
	var (
		idx     Index
		scanner = bufio.NewScanner(in)
		seen    = make(map[string]bool)
	)
	for scanner.Scan() {
		line := scanner.Text()
		if len(strings.TrimSpace(line)) == 0 {
			continue
		}
		fields := strings.Fields(line)
		if len(fields) != 5 {
			return nil, errors.Errorf("invalid index line %q: want 5 fields, got %d", line, len(fields))
		}
		ent := Entry{Name: fields[0]}
		for i, dst := range []*uint64{&ent.Length, &ent.Offset, &ent.LineBases, &ent.LineWidth} {
			v, err := strconv.ParseUint(fields[i+1], 10, 64)
			if err != nil {
				return nil, errors.Wrapf(err, "invalid index line %q", line)
			}
			*dst = v
		}
		if ent.LineWidth < ent.LineBases || (ent.Length > 0 && ent.LineBases == 0) {
			return nil, errors.Errorf("invalid index line %q: inconsistent line geometry", line)
		}
		if seen[ent.Name] {
			return nil, errors.WithMessagef(ErrDuplicateName, "%q in index", ent.Name)
		}
		seen[ent.Name] = true
		idx = append(idx, ent)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, "reading index")
	}
	if len(idx) == 0 {
		return nil, errors.WithMessage(ErrNoRecords, "empty index")
	}
	return idx, nil
}

// ReferenceLengths reads a faidx-format index and returns a map of
// sequence name to sequence length, without touching the FASTA itself.
func ReferenceLengths(in io.Reader) (map[string]uint64, error) {
	idx, err := ReadIndex(in)
	if err != nil {
		return nil, err
	}
	lengths := make(map[string]uint64, len(idx))
	for _, ent := range idx {
		lengths[ent.Name] = ent.Length
	}
	return lengths, nil
}
