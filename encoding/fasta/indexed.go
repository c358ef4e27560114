package fasta

import (
	"io"
	"sync"

	"github.com/pkg/errors"
)

type indexedFasta struct {
	seqs     map[string]Entry
	seqNames []string

	// reader and buf are guarded by mutex: the backing handle has a
	// single seek position, so seek+read pairs must not interleave.
	// Callers needing parallel reads should open one Fasta per handle.
	reader io.ReadSeeker
	buf    []byte
	mutex  sync.Mutex
}

// NewIndexed creates a Fasta that performs random lookups against fa
// using the faidx-format index on index, without reading the sequence
// data into memory.
func NewIndexed(fa io.ReadSeeker, index io.Reader) (Fasta, error) {
	idx, err := ReadIndex(index)
	if err != nil {
		return nil, err
	}
	return Indexed(fa, idx)
}

// Indexed is NewIndexed for an already-parsed index.
func Indexed(fa io.ReadSeeker, idx Index) (Fasta, error) {
	f := &indexedFasta{seqs: make(map[string]Entry, len(idx)), reader: fa}
	for _, ent := range idx {
		if ent.LineWidth < ent.LineBases || (ent.Length > 0 && ent.LineBases == 0) {
			return nil, errors.Errorf("index entry %q: inconsistent line geometry", ent.Name)
		}
		if _, ok := f.seqs[ent.Name]; ok {
			return nil, errors.WithMessagef(ErrDuplicateName, "%q in index", ent.Name)
		}
		f.seqs[ent.Name] = ent
		f.seqNames = append(f.seqNames, ent.Name)
	}
	return f, nil
}

func (f *indexedFasta) resize(n uint64) []byte {
	if uint64(cap(f.buf)) < n {
		f.buf = make([]byte, n)
	}
	f.buf = f.buf[:n]
	return f.buf
}

// Get implements Fasta.Get.  It seeks to the byte holding character
// start and reads the minimal span covering the request.  When the span
// lies within one data line it is returned verbatim; otherwise the read
// includes the interleaved line-terminator bytes, which are stripped
// afterwards.  The two branches keep the common short-read path free of
// whitespace scanning.
func (f *indexedFasta) Get(seqName string, start, length uint64) (string, error) {
	ent, ok := f.seqs[seqName]
	if !ok {
		return "", errors.WithMessagef(ErrUnknownSequence, "%q (not in index)", seqName)
	}
	// Phrased to avoid uint64 wraparound in start+length; the request
	// must fail before the seek below.
	if length > ent.Length || start > ent.Length-length {
		return "", errors.WithMessagef(ErrOutOfRange,
			"[%d, +%d) of %q with length %d", start, length, seqName, ent.Length)
	}
	if length == 0 {
		return "", nil
	}

	f.mutex.Lock()
	defer f.mutex.Unlock()

	// Whole wrapped lines contribute LineWidth bytes each; the partial
	// line contributes one byte per character.
	col := start % ent.LineBases
	off := ent.Offset + (start/ent.LineBases)*ent.LineWidth + col
	if _, err := f.reader.Seek(int64(off), io.SeekStart); err != nil {
		return "", errors.Wrapf(err, "seeking to byte %d of %q", off, seqName)
	}

	if length <= ent.LineBases-col {
		// The span fits in the current line: no terminator bytes inside.
		buf := f.resize(length)
		if _, err := io.ReadFull(f.reader, buf); err != nil {
			return "", errors.Wrapf(err, "reading %q [%d, %d) (stale index?)", seqName, start, start+length)
		}
		return string(buf), nil
	}

	// The span crosses line breaks.  Every break interleaves
	// LineWidth-LineBases terminator bytes; the final character read
	// needs no terminator after it, hence the ceiling division.
	breaks := (length - (ent.LineBases - col) + ent.LineBases - 1) / ent.LineBases
	buf := f.resize(length + breaks*(ent.LineWidth-ent.LineBases))
	if _, err := io.ReadFull(f.reader, buf); err != nil {
		return "", errors.Wrapf(err, "reading %q [%d, %d) (stale index?)", seqName, start, start+length)
	}
	out := buf[:0] // in-place: the filter never outruns the scan
	for _, c := range buf {
		switch c {
		case '\n', '\r', ' ', '\t':
		default:
			out = append(out, c)
		}
	}
	if uint64(len(out)) != length {
		return "", errors.Errorf("read %d characters of %q [%d, %d), want %d (stale index?)",
			len(out), seqName, start, start+length, length)
	}
	return string(out), nil
}

// Len implements Fasta.Len.
func (f *indexedFasta) Len(seqName string) (uint64, error) {
	ent, ok := f.seqs[seqName]
	if !ok {
		return 0, errors.WithMessagef(ErrUnknownSequence, "%q (not in index)", seqName)
	}
	return ent.Length, nil
}

// SeqNames implements Fasta.SeqNames.
func (f *indexedFasta) SeqNames() []string {
	return f.seqNames
}
