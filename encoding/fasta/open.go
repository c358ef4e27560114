package fasta

import (
	"io"

	"github.com/grailbio/base/file"
	"github.com/grailbio/base/fileio"
	"github.com/grailbio/base/vcontext"
	"github.com/klauspost/compress/gzip"
)

// Open reads the FASTA file at path into memory, transparently
// decompressing gzipped files.  Gzipped data is not seekable, so random
// access into large plain-text files should go through NewIndexed
// instead.
func Open(path string) (fa Fasta, err error) {
	ctx := vcontext.Background()
	var in file.File
	if in, err = file.Open(ctx, path); err != nil {
		return nil, err
	}
	defer func() {
		if cerr := in.Close(ctx); cerr != nil && err == nil {
			err = cerr
		}
	}()
	r := io.Reader(in.Reader(ctx))
	switch fileio.DetermineType(path) {
	case fileio.Gzip:
		if r, err = gzip.NewReader(r); err != nil {
			return nil, err
		}
	}
	return New(r)
}
