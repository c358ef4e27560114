// Package mdtag parses the SAM MD:Z auxiliary tag.  A CIGAR string
// records the shape of an alignment but not which bases differ; the MD
// tag supplies the missing reference characters at mismatch and deletion
// positions.  The grammar is "(digits | letters | '^'letters)*": digit
// runs are match lengths, letter runs are mismatched reference bases
// (one base per letter), and '^'-prefixed letter runs are reference
// bases deleted from the read.
package mdtag

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalid is wrapped by all parse failures.  Match it with errors.Is.
var ErrInvalid = errors.New("invalid MD tag")

// OpKind is the type of a single MD run.
type OpKind byte

const (
	Match    OpKind = iota // digit run
	Mismatch               // letter run
	Deletion               // '^'-prefixed letter run
)

// Op is one MD run.  Seq holds the reference bases for Mismatch and
// Deletion runs (len(Seq) == Len) and is empty for Match runs.
type Op struct {
	Kind OpKind
	Len  int
	Seq  string
}

// Ops is an ordered list of MD runs.  Concatenating, in order, the
// reference characters the list implies reproduces exactly the reference
// span covered by the aligned (non-clip, non-skip) CIGAR operations.
type Ops []Op

// RefLen returns the number of reference positions the runs cover.
func (ops Ops) RefLen() int {
	n := 0
	for _, op := range ops {
		n += op.Len
	}
	return n
}

// String renders the runs in canonical form: match counts, zero
// included, always separate and terminate the letter runs.  This is the
// form samtools calmd emits.
func (ops Ops) String() string {
	var (
		b   strings.Builder
		num bool // the last token written was a match count
	)
	for _, op := range ops {
		switch op.Kind {
		case Match:
			b.WriteString(strconv.Itoa(op.Len))
			num = true
		case Mismatch:
			if !num {
				b.WriteByte('0')
			}
			b.WriteString(op.Seq)
			num = false
		case Deletion:
			if !num {
				b.WriteByte('0')
			}
			b.WriteByte('^')
			b.WriteString(op.Seq)
			num = false
		}
	}
	if !num {
		b.WriteByte('0')
	}
	return b.String()
}

func isLetter(c byte) bool {
	return (c >= 'A' && c <= 'Z') || (c >= 'a' && c <= 'z')
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

// Parse decodes an MD:Z tag value.  Consecutive mismatch letters fold
// into one run.  Zero-length match runs are legal in the grammar
// (aligners emit them between adjacent mismatches) but carry no
// information and are not appended to the result.
func Parse(s string) (Ops, error) {
	if s == "" {
		return nil, errors.WithMessage(ErrInvalid, "empty string")
	}
	ops := make(Ops, 0, 4)
	for i := 0; i < len(s); {
		switch c := s[i]; {
		case isDigit(c):
			n := 0
			for ; i < len(s) && isDigit(s[i]); i++ {
				n = n*10 + int(s[i]-'0')
			}
			if n > 0 {
				ops = append(ops, Op{Kind: Match, Len: n})
			}
		case isLetter(c):
			j := i
			for ; j < len(s) && isLetter(s[j]); j++ {
			}
			ops = append(ops, Op{Kind: Mismatch, Len: j - i, Seq: s[i:j]})
			i = j
		case c == '^':
			j := i + 1
			for ; j < len(s) && isLetter(s[j]); j++ {
			}
			if j == i+1 {
				return nil, errors.WithMessagef(ErrInvalid, "%q: '^' at offset %d is not followed by deleted bases", s, i)
			}
			ops = append(ops, Op{Kind: Deletion, Len: j - i - 1, Seq: s[i+1 : j]})
			i = j
		default:
			return nil, errors.WithMessagef(ErrInvalid, "%q: unexpected character %q at offset %d", s, c, i)
		}
	}
	return ops, nil
}
