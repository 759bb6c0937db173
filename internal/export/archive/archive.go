// Package archive assembles generated source text, binary assets and
// static boilerplate into a single deployable zip. Entries are written
// in sorted path order with a fixed timestamp so that exporting the
// same input twice yields a byte-identical archive.
package archive

import (
	"archive/zip"
	"bytes"
	"fmt"
	"io"
	"sort"
	"time"
)

// entryEpoch is the fixed modification time stamped on every entry.
var entryEpoch = time.Date(2020, 1, 1, 0, 0, 0, 0, time.UTC)

// Builder accumulates files and produces the final archive. The zero
// value is not usable; call NewBuilder.
type Builder struct {
	files    map[string][]byte
	assetDir string
}

// NewBuilder creates an empty archive builder. Assets land under
// public/assets by default (the framework-project layout).
func NewBuilder() *Builder {
	return &Builder{files: make(map[string][]byte), assetDir: "public/assets"}
}

// SetAssetDir changes where AddAsset places files (e.g. "assets" for
// the static-html layout).
func (b *Builder) SetAssetDir(dir string) { b.assetDir = dir }

// AddText adds a generated text file. Content is written as-is in UTF-8.
func (b *Builder) AddText(path, content string) {
	b.files[path] = []byte(content)
}

// AddBinary adds a binary file, preserved byte for byte.
func (b *Builder) AddBinary(path string, data []byte) {
	cp := make([]byte, len(data))
	copy(cp, data)
	b.files[path] = cp
}

// AddAsset implements the media extractor's sink, placing assets under
// the configured assets directory.
func (b *Builder) AddAsset(name string, data []byte) {
	b.AddBinary(b.assetDir+"/"+name, data)
}

// Len returns the number of files staged so far.
func (b *Builder) Len() int { return len(b.files) }

// Paths returns the staged paths in archive order.
func (b *Builder) Paths() []string {
	paths := make([]string, 0, len(b.files))
	for p := range b.files {
		paths = append(paths, p)
	}
	sort.Strings(paths)
	return paths
}

// WriteTo writes the archive to w. On any underlying error the caller
// receives a single aggregate failure and must discard whatever was
// partially written; no valid archive is produced on error.
func (b *Builder) WriteTo(w io.Writer) (int64, error) {
	counting := &countingWriter{w: w}
	zw := zip.NewWriter(counting)

	for _, path := range b.Paths() {
		header := &zip.FileHeader{
			Name:     path,
			Method:   zip.Deflate,
			Modified: entryEpoch,
		}
		fw, err := zw.CreateHeader(header)
		if err != nil {
			_ = zw.Close()
			return counting.n, fmt.Errorf("create archive entry %s: %w", path, err)
		}
		if _, err := fw.Write(b.files[path]); err != nil {
			_ = zw.Close()
			return counting.n, fmt.Errorf("write archive entry %s: %w", path, err)
		}
	}

	if err := zw.Close(); err != nil {
		return counting.n, fmt.Errorf("finalize archive: %w", err)
	}
	return counting.n, nil
}

// Bytes renders the archive in memory.
func (b *Builder) Bytes() ([]byte, error) {
	var buf bytes.Buffer
	if _, err := b.WriteTo(&buf); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

type countingWriter struct {
	w io.Writer
	n int64
}

func (c *countingWriter) Write(p []byte) (int, error) {
	n, err := c.w.Write(p)
	c.n += int64(n)
	return n, err
}
