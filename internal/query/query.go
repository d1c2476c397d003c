// Package query implements a small filter expression language over revision
// records, used by the inspect command and the HTTP API.
//
// Examples:
//
//	kind = insertion
//	author = "alice" and id > 10
//	text contains "budget" or kind = move_from
package query

import (
	"strings"

	"github.com/alecthomas/participle/v2"

	"github.com/openredline/redline/core/errors"
	"github.com/openredline/redline/internal/report"
)

// expr is the parsed filter grammar root: or-separated conjunctions.
type expr struct {
	Or []*andExpr `parser:"@@ ( 'or' @@ )*"`
}

type andExpr struct {
	Terms []*term `parser:"@@ ( 'and' @@ )*"`
}

type term struct {
	Sub  *expr `parser:"  '(' @@ ')'"`
	Cond *cond `parser:"| @@"`
}

type cond struct {
	Field string  `parser:"@Ident"`
	Op    string  `parser:"@( '=' | '!' '=' | '>' | '<' | 'contains' )"`
	Str   *string `parser:"( @String"`
	Int   *int    `parser:"| @Int"`
	Ident *string `parser:"| @Ident )"`
}

var parser = participle.MustBuild[expr](
	participle.Unquote("String"),
)

// Filter is a compiled expression matched against records.
type Filter struct {
	root *expr
}

// Parse compiles a filter expression.
func Parse(input string) (*Filter, error) {
	if strings.TrimSpace(input) == "" {
		return &Filter{}, nil
	}
	root, err := parser.ParseString("", input)
	if err != nil {
		return nil, errors.NewParse("filter expression", "", err.Error())
	}
	if err := checkExpr(root); err != nil {
		return nil, err
	}
	return &Filter{root: root}, nil
}

var validFields = map[string]bool{
	"kind":   true,
	"author": true,
	"date":   true,
	"text":   true,
	"id":     true,
	"block":  true,
}

func checkExpr(e *expr) error {
	for _, and := range e.Or {
		for _, t := range and.Terms {
			if t.Sub != nil {
				if err := checkExpr(t.Sub); err != nil {
					return err
				}
				continue
			}
			if !validFields[t.Cond.Field] {
				return errors.NewValidation("field", "unknown field "+t.Cond.Field)
			}
		}
	}
	return nil
}

// Match reports whether one record satisfies the filter. An empty filter
// matches everything.
func (f *Filter) Match(r report.Record) bool {
	if f.root == nil {
		return true
	}
	return matchExpr(f.root, r)
}

// Apply returns the records that satisfy the filter, preserving order.
func (f *Filter) Apply(records []report.Record) []report.Record {
	if f.root == nil {
		return records
	}
	var out []report.Record
	for _, r := range records {
		if f.Match(r) {
			out = append(out, r)
		}
	}
	return out
}

func matchExpr(e *expr, r report.Record) bool {
	for _, and := range e.Or {
		if matchAnd(and, r) {
			return true
		}
	}
	return false
}

func matchAnd(a *andExpr, r report.Record) bool {
	for _, t := range a.Terms {
		if !matchTerm(t, r) {
			return false
		}
	}
	return true
}

func matchTerm(t *term, r report.Record) bool {
	if t.Sub != nil {
		return matchExpr(t.Sub, r)
	}
	return matchCond(t.Cond, r)
}

func matchCond(c *cond, r report.Record) bool {
	switch c.Field {
	case "id", "block":
		val := r.ID
		if c.Field == "block" {
			val = r.BlockIndex
		}
		if c.Int == nil {
			return false
		}
		switch c.Op {
		case "=":
			return val == *c.Int
		case "!=":
			return val != *c.Int
		case ">":
			return val > *c.Int
		case "<":
			return val < *c.Int
		}
		return false
	}

	var field string
	switch c.Field {
	case "kind":
		field = string(r.Kind)
	case "author":
		field = r.Author
	case "date":
		field = r.Date
	case "text":
		field = r.Text
	}
	want := c.stringValue()
	switch c.Op {
	case "=":
		return field == want
	case "!=":
		return field != want
	case "contains":
		return strings.Contains(field, want)
	case ">":
		return field > want
	case "<":
		return field < want
	}
	return false
}

func (c *cond) stringValue() string {
	switch {
	case c.Str != nil:
		return *c.Str
	case c.Ident != nil:
		return *c.Ident
	case c.Int != nil:
		return ""
	}
	return ""
}
