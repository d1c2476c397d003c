// Package report extracts flat revision records from an annotated document
// tree and renders human-readable summaries.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/openredline/redline/core/doc"
)

// RecordKind classifies one extracted revision record.
type RecordKind string

// Record kinds.
const (
	KindInsertion      RecordKind = "insertion"
	KindDeletion       RecordKind = "deletion"
	KindMoveFrom       RecordKind = "move_from"
	KindMoveTo         RecordKind = "move_to"
	KindParagraphProps RecordKind = "paragraph_properties"
	KindRunProps       RecordKind = "run_properties"
	KindTableChange    RecordKind = "table_change"
)

// Record is one flattened tracked change.
type Record struct {
	Kind       RecordKind `json:"kind"`
	ID         int        `json:"id"`
	Author     string     `json:"author,omitempty"`
	Date       string     `json:"date,omitempty"`
	Text       string     `json:"text,omitempty"`
	BlockIndex int        `json:"block_index"`
}

// Extract walks an annotated tree and returns its revision records in
// document order.
func Extract(d *doc.Document) []Record {
	var out []Record
	for bi, b := range d.Blocks {
		out = append(out, extractBlock(b, bi)...)
	}
	return out
}

func extractBlock(b doc.Block, blockIndex int) []Record {
	switch blk := b.(type) {
	case *doc.Paragraph:
		return extractParagraph(blk, blockIndex)
	case *doc.Table:
		var out []Record
		for _, row := range blk.Rows {
			if row.Change != nil {
				out = append(out, Record{
					Kind:       KindTableChange,
					ID:         row.Change.Info.ID,
					Author:     row.Change.Info.Author,
					Date:       row.Change.Info.Date,
					Text:       string(row.Change.Kind),
					BlockIndex: blockIndex,
				})
			}
			for _, cell := range row.Cells {
				if cell.Change != nil {
					out = append(out, Record{
						Kind:       KindTableChange,
						ID:         cell.Change.Info.ID,
						Author:     cell.Change.Info.Author,
						Date:       cell.Change.Info.Date,
						Text:       string(cell.Change.Kind),
						BlockIndex: blockIndex,
					})
				}
				for _, nested := range cell.Blocks {
					out = append(out, extractBlock(nested, blockIndex)...)
				}
			}
		}
		return out
	}
	return nil
}

func extractParagraph(p *doc.Paragraph, blockIndex int) []Record {
	var out []Record
	for _, ch := range p.PropertyChanges {
		out = append(out, Record{
			Kind:       KindParagraphProps,
			ID:         ch.Info.ID,
			Author:     ch.Info.Author,
			Date:       ch.Info.Date,
			BlockIndex: blockIndex,
		})
	}
	out = append(out, extractContent(p.Content, blockIndex)...)
	return out
}

func extractContent(content []doc.ParagraphContent, blockIndex int) []Record {
	var out []Record
	for _, c := range content {
		switch pc := c.(type) {
		case *doc.Run:
			for _, ch := range pc.PropertyChanges {
				out = append(out, Record{
					Kind:       KindRunProps,
					ID:         ch.Info.ID,
					Author:     ch.Info.Author,
					Date:       ch.Info.Date,
					Text:       pc.PlainText(),
					BlockIndex: blockIndex,
				})
			}
		case *doc.Insertion:
			out = append(out, wrapperRecord(KindInsertion, pc.Info, pc.Content, blockIndex))
		case *doc.Deletion:
			out = append(out, wrapperRecord(KindDeletion, pc.Info, pc.Content, blockIndex))
		case *doc.MoveFrom:
			out = append(out, wrapperRecord(KindMoveFrom, pc.Info, pc.Content, blockIndex))
		case *doc.MoveTo:
			out = append(out, wrapperRecord(KindMoveTo, pc.Info, pc.Content, blockIndex))
		}
	}
	return out
}

func wrapperRecord(kind RecordKind, info doc.TrackedChangeInfo, content []doc.ParagraphContent, blockIndex int) Record {
	var sb strings.Builder
	for _, c := range content {
		switch pc := c.(type) {
		case *doc.Run:
			sb.WriteString(pc.PlainText())
		case *doc.Hyperlink:
			for _, r := range pc.Runs {
				sb.WriteString(r.PlainText())
			}
		}
	}
	return Record{
		Kind:       kind,
		ID:         info.ID,
		Author:     info.Author,
		Date:       info.Date,
		Text:       sb.String(),
		BlockIndex: blockIndex,
	}
}

// Summary aggregates records per kind and per author.
type Summary struct {
	Total    int                `json:"total"`
	ByKind   map[RecordKind]int `json:"by_kind"`
	ByAuthor map[string]int     `json:"by_author"`
}

// Summarize builds a Summary from a record list.
func Summarize(records []Record) Summary {
	s := Summary{
		ByKind:   make(map[RecordKind]int),
		ByAuthor: make(map[string]int),
	}
	for _, r := range records {
		s.Total++
		s.ByKind[r.Kind]++
		if r.Author != "" {
			s.ByAuthor[r.Author]++
		}
	}
	return s
}

// Format renders a summary as aligned text lines.
func (s Summary) Format() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "%d tracked changes\n", s.Total)
	for _, kind := range sortedKeys(s.ByKind) {
		fmt.Fprintf(&sb, "  %-22s %d\n", kind, s.ByKind[kind])
	}
	if len(s.ByAuthor) > 0 {
		sb.WriteString("by author:\n")
		for _, author := range sortedKeys(s.ByAuthor) {
			fmt.Fprintf(&sb, "  %-22s %d\n", author, s.ByAuthor[author])
		}
	}
	return sb.String()
}

func sortedKeys[K ~string, V any](m map[K]V) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })
	return keys
}

// TextDiff renders a character-level diff of the two documents' plain text.
// Lines are prefixed with "+", "-" or " " per diff segment.
func TextDiff(previous, current *doc.Document) string {
	dmp := diffmatchpatch.New()
	diffs := dmp.DiffMain(previous.PlainText(), current.PlainText(), false)
	diffs = dmp.DiffCleanupSemantic(diffs)

	var sb strings.Builder
	for _, d := range diffs {
		prefix := " "
		switch d.Type {
		case diffmatchpatch.DiffInsert:
			prefix = "+"
		case diffmatchpatch.DiffDelete:
			prefix = "-"
		}
		for _, line := range strings.Split(d.Text, "\n") {
			if line == "" {
				continue
			}
			sb.WriteString(prefix)
			sb.WriteString(line)
			sb.WriteByte('\n')
		}
	}
	return sb.String()
}
