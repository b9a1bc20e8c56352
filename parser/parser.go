// Package parser implements a recursive-descent parser that turns a token
// stream into a best-effort AST. The parser never raises for malformed
// input: on an unexpected token it records a ParseError, synthesizes a
// placeholder, and resynchronizes at the next clause boundary or closing
// delimiter, so ParseResult.Document is always a well-formed tree.
package parser

import (
	"strconv"
	"strings"

	"github.com/lucenequery/lucene/ast"
	"github.com/lucenequery/lucene/lexer"
	"github.com/lucenequery/lucene/token"
)

// DefaultOperator is the logical connector implied between two juxtaposed
// clauses that carry no explicit AND/OR.
type DefaultOperator int

const (
	Or DefaultOperator = iota
	And
)

// ParseError is a strictly informational diagnostic: it never aborts
// parsing.
type ParseError struct {
	Message string
	Offset  int
	Length  int
	Line    int
	Column  int
}

// ParseResult is the outcome of Parse: a document that is always
// structurally well-formed, plus whatever diagnostics were collected along
// the way.
type ParseResult struct {
	Document *ast.Document
	Errors   []ParseError
}

// IsSuccess reports whether parsing produced no diagnostics.
func (r ParseResult) IsSuccess() bool { return len(r.Errors) == 0 }

// Parse parses text into a ParseResult. Clauses joined without an explicit
// AND/OR are recorded with the Implicit operator whatever defaultOp is;
// defaultOp does not change the tree and is not stored on the result.
// Lexical diagnostics (unterminated literals, unrecognized characters) are
// reported in Errors after the parser's own.
func Parse(text string, defaultOp DefaultOperator) ParseResult {
	p := newParser(text)
	doc := p.parseDocument()
	errs := p.errors
	for _, le := range p.lex.Errors {
		errs = append(errs, ParseError{
			Message: le.Message, Offset: le.Pos.Offset, Length: le.Length, Line: le.Pos.Line, Column: le.Pos.Column,
		})
	}
	return ParseResult{Document: doc, Errors: errs}
}

type parser struct {
	lex    *lexer.Lexer
	cur    token.Token
	errors []ParseError
}

func newParser(text string) *parser {
	p := &parser{lex: lexer.New(text)}
	p.advance()
	return p
}

func (p *parser) advance() {
	p.cur = p.lex.NextToken()
}

func (p *parser) addError(message string, pos token.Position, length int) {
	p.errors = append(p.errors, ParseError{
		Message: message, Offset: pos.Offset, Length: length, Line: pos.Line, Column: pos.Column,
	})
}

func (p *parser) errorAtCur(message string) {
	length := p.cur.Length()
	if length <= 0 {
		length = 1
	}
	p.addError(message, p.cur.Pos, length)
}

// stopSet is the set of token types that end a clause list at the current
// nesting level: EOF always ends one, closing delimiters end the clause
// list started by their matching opener.
type stopSet map[token.Type]bool

var topLevelStop = stopSet{}
var rparenStop = stopSet{token.RParen: true}

func (p *parser) atStop(s stopSet) bool {
	return p.cur.Type == token.EOF || s[p.cur.Type]
}

func (p *parser) parseDocument() *ast.Document {
	if p.cur.Type == token.EOF {
		return ast.NewDocument(ast.Span{StartLine: 1, StartColumn: 1}, nil)
	}
	startPos := p.cur.Pos
	query := p.parseClauseList(topLevelStop)
	endOffset := p.lastEndOffset()
	span := ast.Span{StartOffset: startPos.Offset, EndOffset: endOffset, StartLine: startPos.Line, StartColumn: startPos.Column}
	if p.cur.Type != token.EOF {
		p.errorAtCur("unexpected trailing input")
	}
	return ast.NewDocument(span, query)
}

func (p *parser) lastEndOffset() int {
	return p.cur.Pos.Offset
}

// parseClauseList parses a flat clause list terminated by a token in stop
// (or EOF), applying spec's default-vs-explicit-operator rule, and
// collapses a single trivial (Should/Implicit) clause to its bare query so
// callers don't wrap every leaf in a one-element Boolean.
func (p *parser) parseClauseList(stop stopSet) ast.Node {
	var clauses []ast.Clause
	startPos := p.cur.Pos

	for !p.atStop(stop) {
		occur := ast.Should
		switch p.cur.Type {
		case token.Plus:
			occur = ast.Must
			p.advance()
		case token.Minus:
			occur = ast.MustNot
			p.advance()
		}

		operator := ast.Implicit
		if len(clauses) > 0 {
			switch p.cur.Type {
			case token.And:
				operator = ast.And
				p.advance()
			case token.Or:
				operator = ast.Or
				p.advance()
			}
		} else if p.cur.Type == token.And || p.cur.Type == token.Or {
			// A leading boolean keyword has no left operand: report and
			// skip it, then keep parsing from here.
			p.errorAtCur("unexpected boolean operator at start of expression")
			p.advance()
			continue
		}

		if p.atStop(stop) {
			p.errorAtCur("expected expression")
			clauses = append(clauses, ast.Clause{Query: p.placeholder(), Occur: occur, Operator: operator})
			break
		}

		q := p.parseUnary(stop)
		clauses = append(clauses, ast.Clause{Query: q, Occur: occur, Operator: operator})
	}

	if len(clauses) == 0 {
		return nil
	}
	if len(clauses) == 1 && clauses[0].Occur == ast.Should && clauses[0].Operator == ast.Implicit {
		return clauses[0].Query
	}
	endOffset := p.lastEndOffset()
	span := ast.Span{StartOffset: startPos.Offset, EndOffset: endOffset, StartLine: startPos.Line, StartColumn: startPos.Column}
	return ast.NewBoolean(span, clauses)
}

// placeholder synthesizes an empty term to keep the tree well-formed after
// a syntax error.
func (p *parser) placeholder() ast.Node {
	span := ast.Span{StartOffset: p.cur.Pos.Offset, EndOffset: p.cur.Pos.Offset, StartLine: p.cur.Pos.Line, StartColumn: p.cur.Pos.Column}
	return ast.NewTerm(span, "", "", false, false)
}

func (p *parser) parseUnary(stop stopSet) ast.Node {
	if p.cur.Type == token.Not {
		startPos := p.cur.Pos
		p.advance()
		if p.atStop(stop) {
			p.errorAtCur("expected expression after NOT")
			return ast.NewNot(ast.Span{StartOffset: startPos.Offset, EndOffset: p.lastEndOffset(), StartLine: startPos.Line, StartColumn: startPos.Column}, p.placeholder())
		}
		inner := p.parseUnary(stop)
		span := ast.Span{StartOffset: startPos.Offset, EndOffset: p.lastEndOffset(), StartLine: startPos.Line, StartColumn: startPos.Column}
		return ast.NewNot(span, inner)
	}
	return p.parsePrimary(stop)
}

func (p *parser) parsePrimary(stop stopSet) ast.Node {
	switch p.cur.Type {
	case token.LParen:
		return p.parseGroup()
	case token.LBracket, token.LBrace:
		return p.parseRangeLiteral("")
	case token.Gt, token.Gte, token.Lt, token.Lte:
		return p.parseShorthandRange("")
	case token.Regexp:
		tok := p.cur
		p.advance()
		return ast.NewRegex(ast.SpanFromToken(tok), tok.Value)
	case token.Phrase:
		return p.parsePhrase()
	case token.Star:
		tok := p.cur
		p.advance()
		return ast.NewMatchAll(ast.SpanFromToken(tok))
	case token.Term:
		return p.parseTermOrField(stop)
	default:
		p.errorAtCur("unexpected token")
		tok := p.cur
		p.advance()
		return ast.NewTerm(ast.SpanFromToken(tok), tok.Value, ast.Unescape(tok.Value), false, false)
	}
}

func (p *parser) parseGroup() ast.Node {
	startPos := p.cur.Pos
	p.advance() // (
	inner := p.parseClauseList(rparenStop)
	if p.cur.Type == token.RParen {
		p.advance()
	} else {
		p.errorAtCur("expected ')'")
	}
	endOffset := p.lastEndOffset()
	boost := p.tryParseBoost()
	if boost != nil {
		endOffset = p.lastEndOffset()
	}
	span := ast.Span{StartOffset: startPos.Offset, EndOffset: endOffset, StartLine: startPos.Line, StartColumn: startPos.Column}
	return ast.NewGroup(span, inner, boost)
}

func (p *parser) parsePhrase() ast.Node {
	tok := p.cur
	p.advance()
	boost := p.tryParseBoost()
	endOffset := tok.End
	if boost != nil {
		endOffset = p.lastEndOffset()
	}
	span := ast.Span{StartOffset: tok.Pos.Offset, EndOffset: endOffset, StartLine: tok.Pos.Line, StartColumn: tok.Pos.Column}
	return ast.NewPhrase(span, ast.Unescape(tok.Value), boost)
}

// tryParseBoost consumes a trailing "^number" if present, applying to
// whatever primary the caller just finished parsing.
func (p *parser) tryParseBoost() *float32 {
	if p.cur.Type != token.Caret {
		return nil
	}
	p.advance()
	if p.cur.Type != token.Term {
		p.errorAtCur("expected number after '^'")
		return nil
	}
	f, err := strconv.ParseFloat(p.cur.Value, 32)
	if err != nil {
		p.errorAtCur("invalid boost value")
		p.advance()
		return nil
	}
	p.advance()
	v := float32(f)
	return &v
}

// parseTermOrField handles the ambiguity between a bare term and a
// "field:value" binding: both start with a Term token.
func (p *parser) parseTermOrField(stop stopSet) ast.Node {
	fieldTok := p.cur
	p.advance()

	if p.cur.Type != token.Colon {
		return p.finishTerm(fieldTok)
	}
	p.advance() // :
	fieldName := ast.Unescape(fieldTok.Value)

	if strings.EqualFold(fieldName, "_missing_") {
		if p.cur.Type == token.Term {
			valTok := p.cur
			p.advance()
			span := ast.Span{StartOffset: fieldTok.Pos.Offset, EndOffset: valTok.End, StartLine: fieldTok.Pos.Line, StartColumn: fieldTok.Pos.Column}
			return ast.NewMissing(span, ast.Unescape(valTok.Value))
		}
		p.errorAtCur("expected field name after '_missing_:'")
	}

	if p.cur.Type == token.Star {
		starTok := p.cur
		p.advance()
		span := ast.Span{StartOffset: fieldTok.Pos.Offset, EndOffset: starTok.End, StartLine: fieldTok.Pos.Line, StartColumn: fieldTok.Pos.Column}
		return ast.NewExists(span, fieldName)
	}
	if p.cur.Type == token.LBracket || p.cur.Type == token.LBrace {
		return p.parseRangeLiteral(fieldName)
	}
	if p.cur.Type == token.Gt || p.cur.Type == token.Gte || p.cur.Type == token.Lt || p.cur.Type == token.Lte {
		return p.parseShorthandRange(fieldName)
	}

	value := p.parseFieldPrimaryValue(stop)
	span := ast.Span{StartOffset: fieldTok.Pos.Offset, EndOffset: p.lastEndOffset(), StartLine: fieldTok.Pos.Line, StartColumn: fieldTok.Pos.Column}
	return ast.NewField(span, fieldName, value)
}

// parseFieldPrimaryValue parses the value bound to a field, other than the
// range/exists forms already special-cased by the caller. A run of bare
// terms with no explicit connector is collapsed into a MultiTerm, per
// spec.md §3.2 (this collapsing applies only inside a field value; at the
// top level, adjacent bare terms remain separate clauses of the enclosing
// Boolean). A term followed by ':' names the next field binding and ends
// the run.
func (p *parser) parseFieldPrimaryValue(stop stopSet) ast.Node {
	switch p.cur.Type {
	case token.LParen:
		return p.parseGroup()
	case token.Regexp:
		tok := p.cur
		p.advance()
		return ast.NewRegex(ast.SpanFromToken(tok), tok.Value)
	case token.Phrase:
		return p.parsePhrase()
	case token.Term:
		return p.parseTermRun()
	default:
		p.errorAtCur("expected field value")
		tok := p.cur
		p.advance()
		return ast.NewTerm(ast.SpanFromToken(tok), tok.Value, ast.Unescape(tok.Value), false, false)
	}
}

func (p *parser) parseTermRun() ast.Node {
	// startsField reports whether p.cur is followed by ':', i.e. it begins
	// a new field binding rather than continuing this value.
	startsField := func() bool {
		probe := *p.lex
		return probe.NextToken().Type == token.Colon
	}
	first := p.cur
	p.advance()
	if p.cur.Type != token.Term || startsField() {
		return p.finishTerm(first)
	}
	terms := []string{ast.Unescape(first.Value)}
	endOffset := first.End
	for p.cur.Type == token.Term && !startsField() {
		terms = append(terms, ast.Unescape(p.cur.Value))
		endOffset = p.cur.End
		p.advance()
	}
	span := ast.Span{StartOffset: first.Pos.Offset, EndOffset: endOffset, StartLine: first.Pos.Line, StartColumn: first.Pos.Column}
	return ast.NewMultiTerm(span, terms)
}

func (p *parser) finishTerm(tok token.Token) ast.Node {
	isPrefix, isWildcard := ast.ClassifyWildcard(tok.Value)
	return ast.NewTerm(ast.SpanFromToken(tok), tok.Value, ast.Unescape(tok.Value), isPrefix, isWildcard)
}

// parseRangeLiteral parses "[min TO max]" / "{min TO max}" and mixed forms.
// The opening delimiter has not been consumed yet.
func (p *parser) parseRangeLiteral(fieldName string) ast.Node {
	startTok := p.cur
	minInclusive := p.cur.Type == token.LBracket
	p.advance()

	minVal := p.parseRangeEndpoint()

	if p.cur.Type == token.To {
		p.advance()
	} else {
		p.errorAtCur("expected 'TO' in range")
	}

	maxVal := p.parseRangeEndpoint()

	maxInclusive := true
	switch p.cur.Type {
	case token.RBracket:
		maxInclusive = true
		p.advance()
	case token.RBrace:
		maxInclusive = false
		p.advance()
	default:
		p.errorAtCur("expected ']' or '}' to close range")
	}

	span := ast.Span{StartOffset: startTok.Pos.Offset, EndOffset: p.lastEndOffset(), StartLine: startTok.Pos.Line, StartColumn: startTok.Pos.Column}
	return ast.NewRange(span, fieldName, minVal, maxVal, minInclusive, maxInclusive, ast.NoRangeOp)
}

// parseRangeEndpoint reads one bound of a bracketed range: '*' for
// unbounded, or a bare term/phrase value.
func (p *parser) parseRangeEndpoint() *string {
	switch p.cur.Type {
	case token.Star:
		p.advance()
		return nil
	case token.Term:
		v := ast.Unescape(p.cur.Value)
		p.advance()
		return &v
	case token.Phrase:
		v := ast.Unescape(p.cur.Value)
		p.advance()
		return &v
	default:
		p.errorAtCur("expected range endpoint")
		v := ""
		return &v
	}
}

func (p *parser) parseShorthandRange(fieldName string) ast.Node {
	startTok := p.cur
	var op ast.RangeOp
	switch p.cur.Type {
	case token.Gt:
		op = ast.Gt
	case token.Gte:
		op = ast.Gte
	case token.Lt:
		op = ast.Lt
	case token.Lte:
		op = ast.Lte
	}
	p.advance()

	var val *string
	switch p.cur.Type {
	case token.Term:
		v := ast.Unescape(p.cur.Value)
		p.advance()
		val = &v
	case token.Phrase:
		v := ast.Unescape(p.cur.Value)
		p.advance()
		val = &v
	default:
		p.errorAtCur("expected value after comparison operator")
		v := ""
		val = &v
	}

	span := ast.Span{StartOffset: startTok.Pos.Offset, EndOffset: p.lastEndOffset(), StartLine: startTok.Pos.Line, StartColumn: startTok.Pos.Column}
	if op == ast.Gt || op == ast.Gte {
		return ast.NewRange(span, fieldName, val, nil, op.MinInclusive(), false, op)
	}
	return ast.NewRange(span, fieldName, nil, val, false, op.MaxInclusive(), op)
}
