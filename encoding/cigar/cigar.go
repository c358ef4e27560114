// Package cigar parses and renders CIGAR strings, the run-length
// encoding of how a read's characters align against a reference.  The
// text grammar is "(digits opLetter)+" with opLetter drawn from
// "M=XIDNSHP"; see the SAM spec
// (https://samtools.github.io/hts-specs/SAMv1.pdf), section 1.4.6.
//
// The three alignment letters M, = and X all decode to MatchOrMismatch:
// the CIGAR alone does not reveal which bases differ, only the MD tag
// does (see the mdtag and align packages).
package cigar

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"
)

// ErrInvalid is wrapped by all parse failures.  Match it with errors.Is.
var ErrInvalid = errors.New("invalid CIGAR")

// OpKind is the type of a single CIGAR operation.
type OpKind byte

const (
	MatchOrMismatch OpKind = iota // M, =, X
	Insertion                     // I
	Deletion                      // D
	Skip                          // N
	SoftClip                      // S
	HardClip                      // H
	Padding                       // P
)

var kindLetter = [...]byte{'M', 'I', 'D', 'N', 'S', 'H', 'P'}

// String returns the canonical letter for the kind (M, never = or X).
func (k OpKind) String() string {
	if int(k) >= len(kindLetter) {
		return "?"
	}
	return string(kindLetter[k])
}

// Consume reports how many read characters and reference positions one
// run-length unit of an operation uses up.
type Consume struct {
	Query, Reference int
}

var consume = [...]Consume{
	MatchOrMismatch: {Query: 1, Reference: 1},
	Insertion:       {Query: 1, Reference: 0},
	Deletion:        {Query: 0, Reference: 1},
	Skip:            {Query: 0, Reference: 1},
	SoftClip:        {Query: 1, Reference: 0},
	HardClip:        {Query: 0, Reference: 0},
	Padding:         {Query: 0, Reference: 0},
}

// Consumes returns the consumption characteristics for the kind.
func (k OpKind) Consumes() Consume { return consume[k] }

// Op is one CIGAR operation: a kind and its run length.
type Op struct {
	Kind OpKind
	Len  int
}

func (o Op) String() string { return strconv.Itoa(o.Len) + o.Kind.String() }

// Cigar is an ordered list of CIGAR operations.  Order is semantically
// load-bearing: the operations consume read characters and reference
// positions left to right, not just for display.
type Cigar []Op

// String renders c using the canonical letter per kind.
func (c Cigar) String() string {
	var b strings.Builder
	for _, op := range c {
		b.WriteString(op.String())
	}
	return b.String()
}

// Lengths returns the number of reference positions and read characters
// consumed by c.
func (c Cigar) Lengths() (ref, read int) {
	for _, op := range c {
		con := op.Kind.Consumes()
		ref += op.Len * con.Reference
		read += op.Len * con.Query
	}
	return ref, read
}

func kindOf(letter byte) (OpKind, bool) {
	switch letter {
	case 'M', '=', 'X':
		return MatchOrMismatch, true
	case 'I':
		return Insertion, true
	case 'D':
		return Deletion, true
	case 'N':
		return Skip, true
	case 'S':
		return SoftClip, true
	case 'H':
		return HardClip, true
	case 'P':
		return Padding, true
	}
	return 0, false
}

// Parse decodes a CIGAR string into its operation list.  Zero-length
// runs (the "0M" some aligners emit) are kept in the list as explicit
// no-ops so that the result stays position-for-position aligned with the
// input text; callers must not assume Len >= 1.
func Parse(s string) (Cigar, error) {
	if s == "" {
		return nil, errors.WithMessage(ErrInvalid, "empty string")
	}
	ops := make(Cigar, 0, 8)
	for i := 0; i < len(s); {
		if s[i] < '0' || s[i] > '9' {
			return nil, errors.WithMessagef(ErrInvalid, "%q: operation %q at offset %d has no run length", s, s[i], i)
		}
		n := 0
		for ; i < len(s) && s[i] >= '0' && s[i] <= '9'; i++ {
			n = n*10 + int(s[i]-'0')
		}
		if i == len(s) {
			return nil, errors.WithMessagef(ErrInvalid, "%q: trailing run length with no operation", s)
		}
		kind, ok := kindOf(s[i])
		if !ok {
			return nil, errors.WithMessagef(ErrInvalid, "%q: unknown operation %q at offset %d", s, s[i], i)
		}
		i++
		ops = append(ops, Op{Kind: kind, Len: n})
	}
	return ops, nil
}
