package align

import (
	"github.com/grailbio/hts/sam"
	"github.com/grailbio/samtext/encoding/cigar"
	"github.com/grailbio/samtext/encoding/mdtag"
	"github.com/pkg/errors"
)

var mdTagName = []byte("MD")

// FromRecord reconciles a SAM record's sequence, CIGAR and MD tag into a
// stacked alignment.  The record must carry a string-valued MD tag.
func FromRecord(r *sam.Record) (Stacked, error) {
	aux, ok := r.Tag(mdTagName)
	if !ok {
		return Stacked{}, errors.Errorf("record %s has no MD tag", r.Name)
	}
	val, ok := aux.Value().(string)
	if !ok {
		return Stacked{}, errors.Errorf("record %s: MD tag is not a string", r.Name)
	}
	md, err := mdtag.Parse(val)
	if err != nil {
		return Stacked{}, errors.WithMessagef(err, "record %s", r.Name)
	}
	cig, err := fromSAMCigar(r.Cigar)
	if err != nil {
		return Stacked{}, errors.WithMessagef(err, "record %s", r.Name)
	}
	return Reconcile(string(r.Seq.Expand()), cig, md)
}

// fromSAMCigar converts a binary-encoded sam.Cigar to the text-codec op
// model, collapsing M, = and X into MatchOrMismatch.
func fromSAMCigar(c sam.Cigar) (cigar.Cigar, error) {
	ops := make(cigar.Cigar, 0, len(c))
	for _, co := range c {
		var kind cigar.OpKind
		switch co.Type() {
		case sam.CigarMatch, sam.CigarEqual, sam.CigarMismatch:
			kind = cigar.MatchOrMismatch
		case sam.CigarInsertion:
			kind = cigar.Insertion
		case sam.CigarDeletion:
			kind = cigar.Deletion
		case sam.CigarSkipped:
			kind = cigar.Skip
		case sam.CigarSoftClipped:
			kind = cigar.SoftClip
		case sam.CigarHardClipped:
			kind = cigar.HardClip
		case sam.CigarPadded:
			kind = cigar.Padding
		default:
			return nil, errors.WithMessagef(ErrUnsupportedOp, "%v", co.Type())
		}
		ops = append(ops, cigar.Op{Kind: kind, Len: co.Len()})
	}
	return ops, nil
}
