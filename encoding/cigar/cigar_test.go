package cigar_test

import (
	"errors"
	"testing"

	"github.com/grailbio/samtext/encoding/cigar"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func op(k cigar.OpKind, n int) cigar.Op { return cigar.Op{Kind: k, Len: n} }

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want cigar.Cigar
	}{
		{"8M", cigar.Cigar{op(cigar.MatchOrMismatch, 8)}},
		{"100M", cigar.Cigar{op(cigar.MatchOrMismatch, 100)}},
		{"3=2X", cigar.Cigar{op(cigar.MatchOrMismatch, 3), op(cigar.MatchOrMismatch, 2)}},
		{"12M2D17M2I14M", cigar.Cigar{
			op(cigar.MatchOrMismatch, 12),
			op(cigar.Deletion, 2),
			op(cigar.MatchOrMismatch, 17),
			op(cigar.Insertion, 2),
			op(cigar.MatchOrMismatch, 14),
		}},
		{"2S5M3N1M2H", cigar.Cigar{
			op(cigar.SoftClip, 2),
			op(cigar.MatchOrMismatch, 5),
			op(cigar.Skip, 3),
			op(cigar.MatchOrMismatch, 1),
			op(cigar.HardClip, 2),
		}},
		{"1P", cigar.Cigar{op(cigar.Padding, 1)}},
		// Zero-length runs stay in the list as explicit no-ops.
		{"0M5I", cigar.Cigar{op(cigar.MatchOrMismatch, 0), op(cigar.Insertion, 5)}},
	}
	for _, tt := range tests {
		got, err := cigar.Parse(tt.in)
		assert.NoError(t, err, "parse %q", tt.in)
		expect.EQ(t, got, tt.want, "parse %q", tt.in)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{
		"",     // empty
		"10",   // run length with no operation
		"5M10", // trailing run length
		"M",    // operation with no run length
		"5M3Q", // Q is not in the alphabet
		"5M^3", // neither digit nor operation
	} {
		_, err := cigar.Parse(in)
		expect.True(t, errors.Is(err, cigar.ErrInvalid), "parse %q: %v", in, err)
	}
}

func TestString(t *testing.T) {
	for _, tt := range []struct{ in, want string }{
		{"12M2D17M2I14M", "12M2D17M2I14M"},
		{"2S5M3N1M2H", "2S5M3N1M2H"},
		// = and X collapse to the canonical M.
		{"3=2X", "3M2M"},
	} {
		c, err := cigar.Parse(tt.in)
		assert.NoError(t, err)
		expect.EQ(t, c.String(), tt.want)
	}
}

func TestLengths(t *testing.T) {
	tests := []struct {
		in        string
		ref, read int
	}{
		{"8M", 8, 8},
		{"12M2D17M2I14M", 45, 45},
		{"2S8M3H", 8, 10},
		{"5M3N5M", 13, 10},
		{"4M2P4M", 8, 8},
	}
	for _, tt := range tests {
		c, err := cigar.Parse(tt.in)
		assert.NoError(t, err)
		ref, read := c.Lengths()
		expect.EQ(t, ref, tt.ref, "%q reference length", tt.in)
		expect.EQ(t, read, tt.read, "%q read length", tt.in)
	}
}
