// Package align reconstructs base-by-base alignments between a
// sequencing read and a reference genome from the two run-length
// encodings an aligner emits: the CIGAR string (the shape of the
// alignment) and the MD:Z tag (the reference bases at mismatch and
// deletion positions).  Neither encoding alone pins down the alignment;
// reconciling the two yields a stacked pair of read and reference
// character tracks, and a stacked pair can in turn be re-encoded into
// the maximally specific CIGAR alphabet.
package align

import (
	"strings"

	"github.com/grailbio/samtext/encoding/cigar"
	"github.com/grailbio/samtext/encoding/mdtag"
	"github.com/pkg/errors"
)

var (
	// ErrDesync is wrapped by all failures where the CIGAR and MD
	// encodings do not describe the same alignment.  Disagreement is
	// always a hard failure: silently producing a plausible-looking but
	// wrong alignment is worse than refusing.
	ErrDesync = errors.New("CIGAR and MD tag are out of sync")

	// ErrUnsupportedOp is wrapped for CIGAR operations with no defined
	// stacked rendering (padding).
	ErrUnsupportedOp = errors.New("unsupported CIGAR operation")
)

const (
	// Gap marks a position present in only one track: a Gap in the read
	// track is a deletion, a Gap in the reference track an insertion.
	Gap = '-'
	// Blank fills the reference track across clipped read positions.
	Blank = ' '
	// HardClipMark stands in for hard-clipped read bases, which are not
	// present in the stored read sequence.
	HardClipMark = '*'
)

// Stacked is a pair of equal-length character tracks giving a complete
// positional view of an alignment.  Position i of Read corresponds to
// position i of Ref.  Soft-clipped read bases are lower-cased to flag
// the clipping; hard-clipped positions hold HardClipMark in the read
// track because the clipped bases themselves are gone.
type Stacked struct {
	Read string
	Ref  string
}

// Reconcile merges a read sequence, its decoded CIGAR and its decoded MD
// runs into a stacked alignment.  It walks the CIGAR left to right,
// drawing read characters from seq and reference characters from md.
// The MD runs are consumed through a shrinkable queue because a single
// match run may straddle several CIGAR operations, e.g. when it crosses
// an insertion.  After the walk the queue must be exactly exhausted;
// leftover runs mean the encodings disagree and reconciliation fails
// with ErrDesync.
func Reconcile(seq string, cig cigar.Cigar, md mdtag.Ops) (Stacked, error) {
	var (
		read, ref strings.Builder
		q         = newMDQueue(md)
		pos       int // cursor into seq
	)
	read.Grow(len(seq))
	ref.Grow(len(seq))
	for _, op := range cig {
		n := op.Len
		switch op.Kind {
		case cigar.MatchOrMismatch:
			for n > 0 {
				ent, ok := q.front()
				if !ok {
					return Stacked{}, errors.WithMessagef(ErrDesync,
						"%v needs %d more aligned bases but the MD tag is exhausted", op, n)
				}
				if ent.Kind == mdtag.Deletion {
					return Stacked{}, errors.WithMessagef(ErrDesync,
						"MD deletion run ^%s inside aligned run %v", ent.Seq, op)
				}
				take := n
				if ent.Len < take {
					take = ent.Len
				}
				if pos+take > len(seq) {
					return Stacked{}, errors.WithMessagef(ErrDesync,
						"CIGAR consumes more than the %d read characters provided", len(seq))
				}
				read.WriteString(seq[pos : pos+take])
				if ent.Kind == mdtag.Match {
					ref.WriteString(seq[pos : pos+take])
				} else {
					ref.WriteString(ent.Seq[:take])
				}
				q.consume(take)
				pos += take
				n -= take
			}
		case cigar.Insertion:
			if pos+n > len(seq) {
				return Stacked{}, errors.WithMessagef(ErrDesync,
					"CIGAR consumes more than the %d read characters provided", len(seq))
			}
			read.WriteString(seq[pos : pos+n])
			writeRepeat(&ref, Gap, n)
			pos += n
		case cigar.Deletion:
			if n == 0 {
				break
			}
			ent, ok := q.front()
			if !ok || ent.Kind != mdtag.Deletion || ent.Len != n {
				return Stacked{}, errors.WithMessagef(ErrDesync,
					"%v has no matching MD deletion run (queue head %+v)", op, ent)
			}
			writeRepeat(&read, Gap, n)
			ref.WriteString(ent.Seq)
			q.pop()
		case cigar.Skip:
			writeRepeat(&read, Gap, n)
			writeRepeat(&ref, Gap, n)
		case cigar.SoftClip:
			if pos+n > len(seq) {
				return Stacked{}, errors.WithMessagef(ErrDesync,
					"CIGAR consumes more than the %d read characters provided", len(seq))
			}
			read.WriteString(strings.ToLower(seq[pos : pos+n]))
			writeRepeat(&ref, Blank, n)
			pos += n
		case cigar.HardClip:
			// Hard-clipped bases are absent from seq; the read cursor
			// stays put.
			writeRepeat(&read, HardClipMark, n)
			writeRepeat(&ref, Blank, n)
		case cigar.Padding:
			if n == 0 {
				break
			}
			return Stacked{}, errors.WithMessagef(ErrUnsupportedOp, "%v", op)
		}
	}
	if !q.empty() {
		return Stacked{}, errors.WithMessagef(ErrDesync,
			"CIGAR exhausted with %d MD runs left over", q.remaining())
	}
	if pos != len(seq) {
		return Stacked{}, errors.WithMessagef(ErrDesync,
			"CIGAR consumes %d read characters, sequence has %d", pos, len(seq))
	}
	return Stacked{Read: read.String(), Ref: ref.String()}, nil
}

func writeRepeat(b *strings.Builder, c byte, n int) {
	for i := 0; i < n; i++ {
		b.WriteByte(c)
	}
}
