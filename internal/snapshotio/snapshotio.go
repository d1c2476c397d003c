// Package snapshotio reads and writes document snapshot files.
// Snapshots are JSON documents, optionally xz-compressed; compression is
// selected by file extension (.json vs .json.xz).
package snapshotio

import (
	"bytes"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/ulikunitz/xz"

	"github.com/openredline/redline/core/doc"
	"github.com/openredline/redline/core/errors"
)

// Compressed reports whether a snapshot path names an xz-compressed file.
func Compressed(path string) bool {
	return strings.HasSuffix(path, ".xz")
}

// Read loads a snapshot document from a file, decompressing when the path
// ends in .xz.
func Read(path string) (*doc.Document, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewIO("open", path, err)
	}
	defer f.Close()
	return Decode(f, Compressed(path), path)
}

// Decode reads one snapshot document from r. The path is used only for
// error messages.
func Decode(r io.Reader, compressed bool, path string) (*doc.Document, error) {
	if compressed {
		xzr, err := xz.NewReader(r)
		if err != nil {
			return nil, errors.NewParse("xz", path, err.Error())
		}
		r = xzr
	}
	var d doc.Document
	dec := json.NewDecoder(r)
	if err := dec.Decode(&d); err != nil {
		return nil, errors.NewParse("JSON", path, err.Error())
	}
	return &d, nil
}

// Write stores a snapshot document to a file, compressing when the path
// ends in .xz. The write is atomic: a temp file in the same directory is
// renamed over the target.
func Write(path string, d *doc.Document) error {
	var buf bytes.Buffer
	if err := Encode(&buf, d, Compressed(path)); err != nil {
		return err
	}

	tmp, err := os.CreateTemp(filepath.Dir(path), ".snapshot-*")
	if err != nil {
		return errors.NewIO("create", path, err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(buf.Bytes()); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return errors.NewIO("write", path, err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return errors.NewIO("close", path, err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return errors.NewIO("rename", path, err)
	}
	return nil
}

// Encode writes one snapshot document to w, optionally xz-compressed.
func Encode(w io.Writer, d *doc.Document, compressed bool) error {
	if compressed {
		xzw, err := xz.NewWriter(w)
		if err != nil {
			return errors.Wrap(err, "snapshotio: xz writer")
		}
		if err := encodeJSON(xzw, d); err != nil {
			xzw.Close()
			return err
		}
		return errors.Wrap(xzw.Close(), "snapshotio: close xz stream")
	}
	return encodeJSON(w, d)
}

func encodeJSON(w io.Writer, d *doc.Document) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(d); err != nil {
		return errors.Wrap(err, "snapshotio: encode document")
	}
	return nil
}
