package revision

import (
	"strings"

	"github.com/openredline/redline/core/doc"
)

// ChunkKind classifies a diff chunk.
type ChunkKind uint8

// Chunk kind constants.
const (
	ChunkEqual ChunkKind = iota
	ChunkInsert
	ChunkDelete
)

// String returns a human-readable representation of the chunk kind.
func (k ChunkKind) String() string {
	switch k {
	case ChunkEqual:
		return "equal"
	case ChunkInsert:
		return "insert"
	case ChunkDelete:
		return "delete"
	default:
		return "unknown"
	}
}

// Chunk is a maximal contiguous diff result of one kind and one formatting.
// Equal chunks prefer the current side's formatting and additionally record
// the previous side's, so run-level formatting changes remain detectable.
type Chunk struct {
	Kind ChunkKind

	// Text is the chunk's plain text; tabs render as "\t" and breaks as
	// "\n".
	Text string

	// Formatting is the representative formatting: the owning side's for
	// insert/delete chunks, the current side's for equal chunks.
	Formatting doc.Properties

	// PrevFormatting is the previous side's formatting on equal chunks;
	// nil otherwise.
	PrevFormatting doc.Properties

	// Run is a freshly built single-run representation of the chunk.
	Run *doc.Run
}

// charToken is one character of run content with the run formatting it
// carries. Formatting is not part of the match key.
type charToken struct {
	ch     rune
	format doc.Properties
}

func flattenRuns(runs []*doc.Run) []charToken {
	var tokens []charToken
	for _, r := range runs {
		for _, c := range r.Content {
			switch ic := c.(type) {
			case *doc.Text:
				for _, ch := range ic.Value {
					tokens = append(tokens, charToken{ch: ch, format: r.Formatting})
				}
			case *doc.Tab:
				tokens = append(tokens, charToken{ch: '\t', format: r.Formatting})
			case *doc.Break:
				tokens = append(tokens, charToken{ch: '\n', format: r.Formatting})
			}
		}
	}
	return tokens
}

// charOp is one backtracked edit step before merging.
type charOp struct {
	kind       ChunkKind
	token      charToken
	prevFormat doc.Properties // equal ops only
}

// DiffRuns computes per-character diff chunks between two run sequences.
// Characters match on text alone; formatting changes force chunk boundaries
// but never break a match.
func DiffRuns(previous, current []*doc.Run) []Chunk {
	prev := flattenRuns(previous)
	curr := flattenRuns(current)

	switch {
	case len(prev) == 0 && len(curr) == 0:
		return nil
	case len(prev) == 0:
		return mergeOps(wholeSideOps(ChunkInsert, curr))
	case len(curr) == 0:
		return mergeOps(wholeSideOps(ChunkDelete, prev))
	}

	table := lcsTable(prev, curr)
	return mergeOps(backtrack(table, prev, curr))
}

// wholeSideOps covers the common one-side-empty case without building the
// O(n*m) table.
func wholeSideOps(kind ChunkKind, tokens []charToken) []charOp {
	ops := make([]charOp, len(tokens))
	for i, t := range tokens {
		ops[i] = charOp{kind: kind, token: t}
	}
	return ops
}

// lcsTable builds the (m+1)x(n+1) longest-common-subsequence count table
// over character equality.
func lcsTable(prev, curr []charToken) [][]int {
	m, n := len(prev), len(curr)
	table := make([][]int, m+1)
	for i := range table {
		table[i] = make([]int, n+1)
	}
	for i := 1; i <= m; i++ {
		for j := 1; j <= n; j++ {
			if prev[i-1].ch == curr[j-1].ch {
				table[i][j] = table[i-1][j-1] + 1
			} else if table[i-1][j] >= table[i][j-1] {
				table[i][j] = table[i-1][j]
			} else {
				table[i][j] = table[i][j-1]
			}
		}
	}
	return table
}

// backtrack walks the table from (m,n) back to the origin. On a character
// match it emits an equal op carrying both sides' formatting; otherwise it
// descends toward the larger count, ties favoring delete.
func backtrack(table [][]int, prev, curr []charToken) []charOp {
	var ops []charOp
	i, j := len(prev), len(curr)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && prev[i-1].ch == curr[j-1].ch:
			ops = append(ops, charOp{
				kind:       ChunkEqual,
				token:      curr[j-1],
				prevFormat: prev[i-1].format,
			})
			i--
			j--
		case j > 0 && (i == 0 || table[i][j-1] > table[i-1][j]):
			ops = append(ops, charOp{kind: ChunkInsert, token: curr[j-1]})
			j--
		default:
			ops = append(ops, charOp{kind: ChunkDelete, token: prev[i-1]})
			i--
		}
	}
	for l, r := 0, len(ops)-1; l < r; l, r = l+1, r-1 {
		ops[l], ops[r] = ops[r], ops[l]
	}
	return ops
}

// mergeOps merges adjacent ops of the same kind and structurally equal
// formatting into chunks. A formatting change inside a same-kind stretch
// forces a chunk boundary; empty chunks are never produced.
func mergeOps(ops []charOp) []Chunk {
	var chunks []Chunk
	var sb strings.Builder
	flush := func(op charOp) {
		if sb.Len() == 0 {
			return
		}
		text := sb.String()
		sb.Reset()
		chunk := Chunk{
			Kind:       op.kind,
			Text:       text,
			Formatting: op.token.format,
			Run:        runFromText(text, op.token.format),
		}
		if op.kind == ChunkEqual {
			chunk.PrevFormatting = op.prevFormat
		}
		chunks = append(chunks, chunk)
	}

	for i, op := range ops {
		if i > 0 && !sameChunk(ops[i-1], op) {
			flush(ops[i-1])
		}
		sb.WriteRune(op.token.ch)
	}
	if len(ops) > 0 {
		flush(ops[len(ops)-1])
	}
	return chunks
}

func sameChunk(a, b charOp) bool {
	if a.kind != b.kind {
		return false
	}
	if !a.token.format.Equal(b.token.format) {
		return false
	}
	if a.kind == ChunkEqual && !a.prevFormat.Equal(b.prevFormat) {
		return false
	}
	return true
}

// runFromText rebuilds a single run from chunk text, mapping "\t" back to a
// tab node and "\n" back to a break node.
func runFromText(text string, formatting doc.Properties) *doc.Run {
	run := &doc.Run{Formatting: formatting.Clone()}
	var sb strings.Builder
	flushText := func() {
		if sb.Len() > 0 {
			run.Content = append(run.Content, &doc.Text{Value: sb.String()})
			sb.Reset()
		}
	}
	for _, ch := range text {
		switch ch {
		case '\t':
			flushText()
			run.Content = append(run.Content, &doc.Tab{})
		case '\n':
			flushText()
			run.Content = append(run.Content, &doc.Break{})
		default:
			sb.WriteRune(ch)
		}
	}
	flushText()
	return run
}
