// Package ooxml scans WordprocessingML markup for tracked-change revision
// IDs. It reads either a bare document.xml stream or a .docx container and
// reports the highest w:id in use, so new revisions can be allocated past
// the IDs an external editor already assigned.
package ooxml

import (
	"archive/zip"
	"io"
	"strconv"

	"github.com/antchfx/xmlquery"
	"github.com/antchfx/xpath"

	"github.com/openredline/redline/core/errors"
)

// revisionQuery selects every element kind that carries a tracked-change
// w:id in WordprocessingML.
var revisionQuery = xpath.MustCompile(
	"//w:ins | //w:del | //w:moveFrom | //w:moveTo" +
		" | //w:moveFromRangeStart | //w:moveToRangeStart" +
		" | //w:pPrChange | //w:rPrChange | //w:tblPrChange" +
		" | //w:trPrChange | //w:tcPrChange" +
		" | //w:cellIns | //w:cellDel | //w:cellMerge")

// MaxRevisionID parses a document.xml stream and returns the highest
// tracked-change ID found, or 0 when the document has none.
func MaxRevisionID(r io.Reader) (int, error) {
	root, err := xmlquery.Parse(r)
	if err != nil {
		return 0, errors.NewParse("OOXML", "", err.Error())
	}
	max := 0
	for _, node := range xmlquery.QuerySelectorAll(root, revisionQuery) {
		id, ok := nodeRevisionID(node)
		if ok && id > max {
			max = id
		}
	}
	return max, nil
}

// MaxRevisionIDFromDocx opens a .docx container and scans its main document
// part.
func MaxRevisionIDFromDocx(path string) (int, error) {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return 0, errors.NewIO("open", path, err)
	}
	defer zr.Close()

	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return 0, errors.NewIO("read", path, err)
		}
		defer rc.Close()
		max, err := MaxRevisionID(rc)
		if err != nil {
			return 0, errors.Wrapf(err, "scan %s", path)
		}
		return max, nil
	}
	return 0, errors.NewParse("docx", path, "no word/document.xml part")
}

// nodeRevisionID reads the w:id attribute of one revision element.
func nodeRevisionID(node *xmlquery.Node) (int, bool) {
	for _, attr := range node.Attr {
		if attr.Name.Local != "id" {
			continue
		}
		id, err := strconv.Atoi(attr.Value)
		if err != nil {
			return 0, false
		}
		return id, true
	}
	return 0, false
}
