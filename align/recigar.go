package align

import (
	"strconv"
	"strings"

	"github.com/grailbio/samtext/encoding/mdtag"
	"github.com/pkg/errors"
)

// classify maps one stacked position to its specific CIGAR letter.
func classify(read, ref byte) byte {
	switch {
	case ref == Blank:
		return 'S'
	case read == Gap && ref == Gap:
		return 'N'
	case read == Gap:
		return 'D'
	case ref == Gap:
		return 'I'
	case read == ref:
		return '='
	default:
		return 'X'
	}
}

// Recigar re-encodes a stacked alignment as a CIGAR string over the
// maximally specific alphabet "=XIDNS", never emitting M.  The original
// M-vs-=/X authoring choice is unrecoverable by construction, and
// hard-clipped positions were rendered as markers so they come back as
// soft clips; round-tripping is therefore idempotent on the stacked
// form, not byte-identical to arbitrary original CIGAR text.
func Recigar(st Stacked) (string, error) {
	if len(st.Read) != len(st.Ref) {
		return "", errors.Errorf("stacked tracks differ in length: read %d, ref %d", len(st.Read), len(st.Ref))
	}
	var (
		b    strings.Builder
		last byte
		n    int
	)
	for i := 0; i < len(st.Read); i++ {
		c := classify(st.Read[i], st.Ref[i])
		if c == last {
			n++
			continue
		}
		if n > 0 {
			b.WriteString(strconv.Itoa(n))
			b.WriteByte(last)
		}
		last, n = c, 1
	}
	if n > 0 {
		b.WriteString(strconv.Itoa(n))
		b.WriteByte(last)
	}
	return b.String(), nil
}

// MDTag synthesizes the canonical MD:Z value for a stacked alignment.
// Together with Recigar this closes the loop: reconciling Recigar(st)
// and MDTag(st) against the read characters of st reproduces st exactly.
//
// Match counting continues across insertions, clips and skips, since the
// MD encoding is blind to positions that consume no aligned reference
// base; deletion and mismatch runs, in contrast, break when such a
// position intervenes so that each deletion run still faces exactly one
// CIGAR D operation.
func MDTag(st Stacked) (string, error) {
	if len(st.Read) != len(st.Ref) {
		return "", errors.Errorf("stacked tracks differ in length: read %d, ref %d", len(st.Read), len(st.Ref))
	}
	var (
		ops   mdtag.Ops
		match int
		prev  byte
	)
	for i := 0; i < len(st.Read); i++ {
		c := classify(st.Read[i], st.Ref[i])
		switch c {
		case '=':
			match++
		case 'X', 'D':
			if match > 0 {
				ops = append(ops, mdtag.Op{Kind: mdtag.Match, Len: match})
				match = 0
			}
			if c == prev && len(ops) > 0 {
				top := &ops[len(ops)-1]
				top.Len++
				top.Seq += string(st.Ref[i])
				break
			}
			kind := mdtag.Mismatch
			if c == 'D' {
				kind = mdtag.Deletion
			}
			ops = append(ops, mdtag.Op{Kind: kind, Len: 1, Seq: string(st.Ref[i])})
		}
		prev = c
	}
	if match > 0 {
		ops = append(ops, mdtag.Op{Kind: mdtag.Match, Len: match})
	}
	return ops.String(), nil
}
