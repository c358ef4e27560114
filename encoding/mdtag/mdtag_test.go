package mdtag_test

import (
	"errors"
	"testing"

	"github.com/grailbio/samtext/encoding/mdtag"
	"github.com/grailbio/testutil/assert"
	"github.com/grailbio/testutil/expect"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want mdtag.Ops
	}{
		{"8", mdtag.Ops{{Kind: mdtag.Match, Len: 8}}},
		{"4G3", mdtag.Ops{
			{Kind: mdtag.Match, Len: 4},
			{Kind: mdtag.Mismatch, Len: 1, Seq: "G"},
			{Kind: mdtag.Match, Len: 3},
		}},
		{"12^AT30G0", mdtag.Ops{
			{Kind: mdtag.Match, Len: 12},
			{Kind: mdtag.Deletion, Len: 2, Seq: "AT"},
			{Kind: mdtag.Match, Len: 30},
			{Kind: mdtag.Mismatch, Len: 1, Seq: "G"},
		}},
		// Adjacent letters fold into one mismatch run; a zero match run
		// keeps them apart.
		{"1AC2", mdtag.Ops{
			{Kind: mdtag.Match, Len: 1},
			{Kind: mdtag.Mismatch, Len: 2, Seq: "AC"},
			{Kind: mdtag.Match, Len: 2},
		}},
		{"0A0C0", mdtag.Ops{
			{Kind: mdtag.Mismatch, Len: 1, Seq: "A"},
			{Kind: mdtag.Mismatch, Len: 1, Seq: "C"},
		}},
		{"^ACG4", mdtag.Ops{
			{Kind: mdtag.Deletion, Len: 3, Seq: "ACG"},
			{Kind: mdtag.Match, Len: 4},
		}},
	}
	for _, tt := range tests {
		got, err := mdtag.Parse(tt.in)
		assert.NoError(t, err, "parse %q", tt.in)
		expect.EQ(t, got, tt.want, "parse %q", tt.in)
	}
}

func TestParseMalformed(t *testing.T) {
	for _, in := range []string{
		"",      // empty
		"^",     // deletion with no bases
		"4^2",   // deletion with no bases
		"10+5",  // + is not digit, letter or '^'
		"4G3 5", // embedded blank
	} {
		_, err := mdtag.Parse(in)
		expect.True(t, errors.Is(err, mdtag.ErrInvalid), "parse %q: %v", in, err)
	}
}

func TestString(t *testing.T) {
	// Canonical values survive a parse/render round trip.
	for _, in := range []string{"8", "4G3", "12^AT30G0", "0A0C0", "0^ACG4", "10^A0T2"} {
		ops, err := mdtag.Parse(in)
		assert.NoError(t, err, "parse %q", in)
		expect.EQ(t, ops.String(), in)
	}
	// Non-canonical values come back canonicalized.
	for _, tt := range []struct{ in, want string }{
		{"4G3G0", "4G3G0"},
		{"^AT2", "0^AT2"},
		{"4G", "4G0"},
		{"004G003", "4G3"},
	} {
		ops, err := mdtag.Parse(tt.in)
		assert.NoError(t, err, "parse %q", tt.in)
		expect.EQ(t, ops.String(), tt.want)
	}
}

func TestRefLen(t *testing.T) {
	for _, tt := range []struct {
		in   string
		want int
	}{
		{"8", 8},
		{"4G3", 8},
		{"12^AT30G0", 45},
	} {
		ops, err := mdtag.Parse(tt.in)
		assert.NoError(t, err)
		expect.EQ(t, ops.RefLen(), tt.want, "%q", tt.in)
	}
}
