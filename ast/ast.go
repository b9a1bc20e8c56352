// Package ast defines the closed set of abstract-syntax-tree node variants
// produced by the parser and consumed by the visitor framework.
//
// The tree never shares children and carries no parent pointers: every
// node owns its subtree
// outright, so a visitor can replace a subtree by simply returning a new
// node to its caller.
package ast

import "github.com/lucenequery/lucene/token"

// Kind identifies the concrete variant of a Node.
type Kind int

const (
	KindDocument Kind = iota
	KindGroup
	KindBoolean
	KindField
	KindTerm
	KindPhrase
	KindRange
	KindRegex
	KindNot
	KindExists
	KindMissing
	KindMatchAll
	KindMultiTerm
)

func (k Kind) String() string {
	switch k {
	case KindDocument:
		return "Document"
	case KindGroup:
		return "Group"
	case KindBoolean:
		return "Boolean"
	case KindField:
		return "Field"
	case KindTerm:
		return "Term"
	case KindPhrase:
		return "Phrase"
	case KindRange:
		return "Range"
	case KindRegex:
		return "Regex"
	case KindNot:
		return "Not"
	case KindExists:
		return "Exists"
	case KindMissing:
		return "Missing"
	case KindMatchAll:
		return "MatchAll"
	case KindMultiTerm:
		return "MultiTerm"
	default:
		return "Unknown"
	}
}

// Span is the source-position envelope shared by every node. It is
// propagated from the originating token(s) and must survive every rewrite
// that preserves the node it describes.
type Span struct {
	StartOffset int
	EndOffset   int
	StartLine   int
	StartColumn int
}

// Occur is the occurrence marker of a Boolean clause.
type Occur int

const (
	Should Occur = iota // may match
	Must                // must match
	MustNot             // must not match
)

func (o Occur) String() string {
	switch o {
	case Must:
		return "Must"
	case MustNot:
		return "MustNot"
	default:
		return "Should"
	}
}

// ClauseOperator is the connector joining a clause to its predecessor.
type ClauseOperator int

const (
	Implicit ClauseOperator = iota // no explicit AND/OR; default_operator applies
	And
	Or
)

func (o ClauseOperator) String() string {
	switch o {
	case And:
		return "And"
	case Or:
		return "Or"
	default:
		return "Implicit"
	}
}

// RangeOp identifies a shorthand comparison range (field:>v, etc.).
type RangeOp int

const (
	NoRangeOp RangeOp = iota
	Gt
	Gte
	Lt
	Lte
)

func (o RangeOp) String() string {
	switch o {
	case Gt:
		return ">"
	case Gte:
		return ">="
	case Lt:
		return "<"
	case Lte:
		return "<="
	default:
		return ""
	}
}

func (o RangeOp) MinInclusive() bool { return o == Gte }
func (o RangeOp) MaxInclusive() bool { return o == Lte }

// Node is implemented by every AST variant. The unexported method keeps the
// set closed to this package.
type Node interface {
	Kind() Kind
	Span() Span
	isNode()
}

type base struct {
	span Span
}

func (b base) Span() Span { return b.span }
func (base) isNode()      {}

// SpanFromToken builds a Span covering a single token.
func SpanFromToken(t token.Token) Span {
	return Span{
		StartOffset: t.Pos.Offset,
		EndOffset:   t.End,
		StartLine:   t.Pos.Line,
		StartColumn: t.Pos.Column,
	}
}

// Join returns a span covering both a and b (assumed ordered a before b).
func Join(a, b Span) Span {
	return Span{
		StartOffset: a.StartOffset,
		EndOffset:   b.EndOffset,
		StartLine:   a.StartLine,
		StartColumn: a.StartColumn,
	}
}

// ---- Document ----

// Document is the AST root; it holds at most one top-level expression.
type Document struct {
	base
	Query Node // nil for an empty query
}

func NewDocument(span Span, query Node) *Document {
	return &Document{base: base{span}, Query: query}
}

func (*Document) Kind() Kind { return KindDocument }

// ---- Group ----

// Group is a parenthesized subexpression with an optional boost.
type Group struct {
	base
	Query Node
	Boost *float32
}

func (*Group) Kind() Kind { return KindGroup }

func NewGroup(span Span, query Node, boost *float32) *Group {
	return &Group{base: base{span}, Query: query, Boost: boost}
}

// ---- Boolean ----

// Clause is one element of a Boolean node.
type Clause struct {
	Query    Node
	Occur    Occur
	Operator ClauseOperator
}

// Boolean combines a flat list of clauses.
type Boolean struct {
	base
	Clauses []Clause
}

func (*Boolean) Kind() Kind { return KindBoolean }

func NewBoolean(span Span, clauses []Clause) *Boolean {
	return &Boolean{base: base{span}, Clauses: clauses}
}

// ---- Field ----

// Field binds a field name to an inner expression.
type Field struct {
	base
	FieldName string
	Query     Node
}

func (*Field) Kind() Kind { return KindField }

func NewField(span Span, fieldName string, query Node) *Field {
	return &Field{base: base{span}, FieldName: fieldName, Query: query}
}

// ---- Term ----

// Term is a bare or wildcarded word.
type Term struct {
	base
	RawTerm       string
	UnescapedTerm string
	IsPrefix      bool
	IsWildcard    bool
}

func (*Term) Kind() Kind { return KindTerm }

func NewTerm(span Span, raw, unescaped string, isPrefix, isWildcard bool) *Term {
	return &Term{base: base{span}, RawTerm: raw, UnescapedTerm: unescaped, IsPrefix: isPrefix, IsWildcard: isWildcard}
}

// ---- Phrase ----

// Phrase is a double-quoted sequence.
type Phrase struct {
	base
	PhraseText string // unescaped
	Boost      *float32
}

func (*Phrase) Kind() Kind { return KindPhrase }

func NewPhrase(span Span, text string, boost *float32) *Phrase {
	return &Phrase{base: base{span}, PhraseText: text, Boost: boost}
}

// ---- Range ----

// Range is a bracketed or shorthand range expression.
type Range struct {
	base
	FieldName    string
	Min          *string
	Max          *string
	MinInclusive bool
	MaxInclusive bool
	Op           RangeOp
}

func (*Range) Kind() Kind { return KindRange }

func NewRange(span Span, fieldName string, min, max *string, minIncl, maxIncl bool, op RangeOp) *Range {
	return &Range{
		base: base{span}, FieldName: fieldName, Min: min, Max: max,
		MinInclusive: minIncl, MaxInclusive: maxIncl, Op: op,
	}
}

// ---- Regex ----

// Regex is a /pattern/ literal.
type Regex struct {
	base
	Pattern string
}

func (*Regex) Kind() Kind { return KindRegex }

func NewRegex(span Span, pattern string) *Regex {
	return &Regex{base: base{span}, Pattern: pattern}
}

// ---- Not ----

// Not is a prefix NOT expression.
type Not struct {
	base
	Query Node
}

func (*Not) Kind() Kind { return KindNot }

func NewNot(span Span, query Node) *Not {
	return &Not{base: base{span}, Query: query}
}

// ---- Exists / Missing ----

// Exists is a presence check (field:*).
type Exists struct {
	base
	FieldName string
}

func (*Exists) Kind() Kind { return KindExists }

func NewExists(span Span, fieldName string) *Exists {
	return &Exists{base: base{span}, FieldName: fieldName}
}

// Missing is a negated presence check.
type Missing struct {
	base
	FieldName string
}

func (*Missing) Kind() Kind { return KindMissing }

func NewMissing(span Span, fieldName string) *Missing {
	return &Missing{base: base{span}, FieldName: fieldName}
}

// ---- MatchAll ----

// MatchAll is the single '*' query-root sentinel.
type MatchAll struct {
	base
}

func (*MatchAll) Kind() Kind { return KindMatchAll }

func NewMatchAll(span Span) *MatchAll {
	return &MatchAll{base: base{span}}
}

// ---- MultiTerm ----

// MultiTerm is a sequence of adjacent unquoted terms inside a field value.
type MultiTerm struct {
	base
	Terms []string
}

func (*MultiTerm) Kind() Kind { return KindMultiTerm }

func NewMultiTerm(span Span, terms []string) *MultiTerm {
	return &MultiTerm{base: base{span}, Terms: terms}
}
