package fasta_test

import (
	"bytes"
	"io/ioutil"
	"os"
	"path/filepath"
	"testing"

	"github.com/grailbio/samtext/encoding/fasta"
	"github.com/grailbio/testutil/assert"
	"github.com/klauspost/compress/gzip"
)

func TestOpen(t *testing.T) {
	dir, err := ioutil.TempDir("", "fasta")
	assert.NoError(t, err)
	defer os.RemoveAll(dir)

	check := func(f fasta.Fasta) {
		t.Helper()
		seq, err := f.Get("seq1", 0, 12)
		assert.NoError(t, err)
		assert.EQ(t, seq, "ACGTACGTACGT")
	}

	plain := filepath.Join(dir, "test.fasta")
	assert.NoError(t, ioutil.WriteFile(plain, []byte(fastaData), 0644))
	f, err := fasta.Open(plain)
	assert.NoError(t, err)
	check(f)

	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err = gz.Write([]byte(fastaData))
	assert.NoError(t, err)
	assert.NoError(t, gz.Close())
	compressed := filepath.Join(dir, "test.fasta.gz")
	assert.NoError(t, ioutil.WriteFile(compressed, buf.Bytes(), 0644))
	f, err = fasta.Open(compressed)
	assert.NoError(t, err)
	check(f)
}
