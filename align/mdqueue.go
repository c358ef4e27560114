package align

import "github.com/grailbio/samtext/encoding/mdtag"

// mdQueue is a shrinkable FIFO over decoded MD runs.  The reconciler may
// need only part of the front run for the current CIGAR operation:
// consume shrinks the front run in place and keeps the remainder queued,
// making "run partially consumed, remainder requeued" an explicit state
// transition rather than mutation of the caller's parsed list.
type mdQueue struct {
	ops mdtag.Ops
}

func newMDQueue(ops mdtag.Ops) *mdQueue {
	q := &mdQueue{ops: make(mdtag.Ops, len(ops))}
	copy(q.ops, ops) // the caller's list stays intact
	return q
}

func (q *mdQueue) empty() bool { return len(q.ops) == 0 }

func (q *mdQueue) remaining() int { return len(q.ops) }

// front returns the head run without consuming it.
func (q *mdQueue) front() (mdtag.Op, bool) {
	if len(q.ops) == 0 {
		return mdtag.Op{}, false
	}
	return q.ops[0], true
}

// consume removes n leading characters from the head run, dropping the
// run once fully used up.  n must not exceed the head run's length.
func (q *mdQueue) consume(n int) {
	op := &q.ops[0]
	op.Len -= n
	if op.Seq != "" {
		op.Seq = op.Seq[n:]
	}
	if op.Len == 0 {
		q.ops = q.ops[1:]
	}
}

// pop drops the head run whole.
func (q *mdQueue) pop() { q.ops = q.ops[1:] }
