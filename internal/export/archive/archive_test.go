package archive

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readEntry(t *testing.T, zr *zip.Reader, name string) []byte {
	t.Helper()
	for _, f := range zr.File {
		if f.Name == name {
			rc, err := f.Open()
			require.NoError(t, err)
			defer rc.Close()
			data, err := io.ReadAll(rc)
			require.NoError(t, err)
			return data
		}
	}
	t.Fatalf("entry %s not found", name)
	return nil
}

func TestBuilderRoundTrip(t *testing.T) {
	binary := []byte{0x00, 0x01, 0xFF, 0xFE, 0x89, 0x50}

	b := NewBuilder()
	b.AddText("index.html", "<html></html>")
	b.AddAsset("avatar.png", binary)

	data, err := b.Bytes()
	require.NoError(t, err)

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	require.Len(t, zr.File, 2)

	assert.Equal(t, []byte("<html></html>"), readEntry(t, zr, "index.html"))
	// Binary fidelity: asset bytes survive untouched.
	assert.Equal(t, binary, readEntry(t, zr, "public/assets/avatar.png"))
}

func TestBuilderDeterministic(t *testing.T) {
	build := func() []byte {
		b := NewBuilder()
		// Insertion order deliberately differs between runs below.
		b.AddText("z.txt", "z")
		b.AddText("a.txt", "a")
		b.AddBinary("m.bin", []byte{1, 2, 3})
		data, err := b.Bytes()
		require.NoError(t, err)
		return data
	}
	buildReordered := func() []byte {
		b := NewBuilder()
		b.AddBinary("m.bin", []byte{1, 2, 3})
		b.AddText("a.txt", "a")
		b.AddText("z.txt", "z")
		data, err := b.Bytes()
		require.NoError(t, err)
		return data
	}

	assert.Equal(t, build(), build())
	assert.Equal(t, build(), buildReordered())
}

func TestBuilderCopiesBinaryInput(t *testing.T) {
	data := []byte{1, 2, 3}
	b := NewBuilder()
	b.AddBinary("x.bin", data)
	data[0] = 99

	out, err := b.Bytes()
	require.NoError(t, err)
	zr, err := zip.NewReader(bytes.NewReader(out), int64(len(out)))
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, readEntry(t, zr, "x.bin"))
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestBuilderWriteFailureSurfaces(t *testing.T) {
	b := NewBuilder()
	b.AddText("index.html", "x")
	_, err := b.WriteTo(failingWriter{})
	assert.Error(t, err)
}

func TestPathsSorted(t *testing.T) {
	b := NewBuilder()
	b.AddText("src/App.tsx", "")
	b.AddText("index.html", "")
	b.AddText("public/sw.js", "")
	assert.Equal(t, []string{"index.html", "public/sw.js", "src/App.tsx"}, b.Paths())
}
