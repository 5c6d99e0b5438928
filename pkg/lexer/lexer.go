// Package lexer implements the nesting-aware tokenizer described in spec
// §4.1: bracket groups, string literals, if-conditions, while-headers,
// new-argument lists, and member chains each recurse into a fresh
// sub-tokenizer over the matched substring, embedding its token list into
// a carrier token.
package lexer

import (
	"strconv"
	"strings"

	"craftc/internal/diagnostics"
	"craftc/pkg/token"
)

// Tokenize lexes source into a flat token stream terminated by EOF. Every
// source line emits a trailing EOL; recursive sub-streams have their
// trailing EOL/EOF stripped before being embedded in a carrier token.
func Tokenize(source string) ([]token.Token, error) {
	l := &lexer{src: source, line: 1, column: 0}
	toks, err := l.run()
	if err != nil {
		return nil, err
	}
	if len(source) > 0 && source[len(source)-1] != '\n' {
		toks = append(toks, token.Token{Kind: token.EOL, Line: l.line, Column: l.column})
	}
	toks = append(toks, token.Token{Kind: token.EOF, Line: l.line, Column: l.column})
	return toks, nil
}

// tokenizeSub lexes a substream carved out of a larger source (bracket
// body, condition, chain, ...), then strips the trailing EOL/EOF the
// recursive call produced, per spec §4.1.
func tokenizeSub(source string, line, column int) ([]token.Token, error) {
	l := &lexer{src: source, line: line, column: column}
	toks, err := l.run()
	if err != nil {
		return nil, err
	}
	for len(toks) > 0 && (toks[len(toks)-1].Kind == token.EOL || toks[len(toks)-1].Kind == token.EOF) {
		toks = toks[:len(toks)-1]
	}
	return toks, nil
}

type lexer struct {
	src    string
	pos    int
	line   int
	column int
}

func (l *lexer) eof() bool { return l.pos >= len(l.src) }

func (l *lexer) peek() byte {
	if l.eof() {
		return 0
	}
	return l.src[l.pos]
}

func (l *lexer) peekAt(offset int) byte {
	if l.pos+offset >= len(l.src) {
		return 0
	}
	return l.src[l.pos+offset]
}

func (l *lexer) advance() byte {
	ch := l.src[l.pos]
	l.pos++
	if ch == '\n' {
		l.line++
		l.column = 0
	} else {
		l.column++
	}
	return ch
}

func (l *lexer) currentLineText() string {
	start := l.pos
	for start > 0 && l.src[start-1] != '\n' {
		start--
	}
	end := l.pos
	for end < len(l.src) && l.src[end] != '\n' {
		end++
	}
	return l.src[start:end]
}

func isDigit(ch byte) bool { return ch >= '0' && ch <= '9' }
func isAlpha(ch byte) bool {
	return ch == '_' || (ch >= 'a' && ch <= 'z') || (ch >= 'A' && ch <= 'Z')
}
func isAlphaNumeric(ch byte) bool { return isAlpha(ch) || isDigit(ch) }

var keywords = map[string]bool{
	"let": true, "const": true, "if": true, "while": true,
	"new": true, "function": true, "export": true, "import": true,
}

func (l *lexer) run() ([]token.Token, error) {
	var toks []token.Token
	for !l.eof() {
		ch := l.peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r':
			l.advance()
		case ch == '\n':
			line, col := l.line, l.column
			l.advance()
			toks = append(toks, token.Token{Kind: token.EOL, Line: line, Column: col})
		case ch == '{':
			toks = append(toks, l.simple(token.LBrace))
		case ch == '}':
			toks = append(toks, l.simple(token.RBrace))
		case ch == ';':
			toks = append(toks, l.simple(token.Semicolon))
		case ch == ',':
			toks = append(toks, l.simple(token.Comma))
		case ch == '=':
			toks = append(toks, l.compound('=', token.Equivalence, token.Assignment))
		case ch == '!':
			tok, err := l.bang()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case ch == '>':
			toks = append(toks, l.compound('=', token.GreaterThanEqual, token.GreaterThan))
		case ch == '<':
			toks = append(toks, l.compound('=', token.LessThanEqual, token.LessThan))
		case ch == '&':
			tok, err := l.twoChar('&', token.And)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case ch == '|':
			tok, err := l.twoChar('|', token.Or)
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case ch == '+':
			toks = append(toks, l.simple(token.Add))
		case ch == '-':
			toks = append(toks, l.simple(token.Subtract))
		case ch == '*':
			toks = append(toks, l.simple(token.Multiply))
		case ch == '/':
			toks = append(toks, l.simple(token.Divide))
		case ch == '%':
			toks = append(toks, l.simple(token.Modulus))
		case ch == '(':
			tok, err := l.parens()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
			if err := l.attachChain(&toks); err != nil {
				return nil, err
			}
		case ch == '[':
			tok, err := l.bracket()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case ch == '"':
			tok, err := l.quoted()
			if err != nil {
				return nil, err
			}
			toks = append(toks, tok)
		case isDigit(ch):
			toks = append(toks, l.number())
		case isAlpha(ch):
			more, err := l.word(&toks)
			if err != nil {
				return nil, err
			}
			if !more {
				continue
			}
		default:
			return nil, diagnostics.NewSyntaxError(
				"unexpected character '"+string(ch)+"'", l.currentLineText(), l.line, l.column)
		}
	}
	return toks, nil
}

func (l *lexer) simple(kind token.Kind) token.Token {
	line, col := l.line, l.column
	l.advance()
	return token.Token{Kind: kind, Line: line, Column: col}
}

// compound recognizes a one-character lookahead: base+'=' yields withEq,
// otherwise the lone base character yields alone.
func (l *lexer) compound(next byte, withEq, alone token.Kind) token.Token {
	line, col := l.line, l.column
	l.advance()
	if l.peek() == next {
		l.advance()
		return token.Token{Kind: withEq, Line: line, Column: col}
	}
	return token.Token{Kind: alone, Line: line, Column: col}
}

// twoChar requires ch immediately followed by another ch (&&, ||).
func (l *lexer) twoChar(ch byte, kind token.Kind) (token.Token, error) {
	line, col := l.line, l.column
	l.advance()
	if l.peek() != ch {
		return token.Token{}, diagnostics.NewSyntaxError(
			"expected '"+string(ch)+string(ch)+"'", l.currentLineText(), line, col)
	}
	l.advance()
	return token.Token{Kind: kind, Line: line, Column: col}, nil
}

func (l *lexer) bang() (token.Token, error) {
	line, col := l.line, l.column
	l.advance()
	if l.peek() != '=' {
		return token.Token{}, diagnostics.NewSyntaxError(
			"expected '!='", l.currentLineText(), line, col)
	}
	l.advance()
	return token.Token{Kind: token.NotEqual, Line: line, Column: col}, nil
}

func (l *lexer) number() token.Token {
	line, col := l.line, l.column
	start := l.pos
	for !l.eof() && isDigit(l.peek()) {
		l.advance()
	}
	return token.Token{Kind: token.Number, Text: l.src[start:l.pos], Line: line, Column: col}
}

func (l *lexer) quoted() (token.Token, error) {
	line, col := l.line, l.column
	l.advance() // opening quote
	var sb strings.Builder
	for {
		if l.eof() {
			return token.Token{}, diagnostics.NewSyntaxError(
				"unterminated string literal", l.currentLineText(), line, col)
		}
		ch := l.peek()
		if ch == '"' {
			l.advance()
			break
		}
		if ch == '\\' {
			l.advance()
			if l.eof() {
				return token.Token{}, diagnostics.NewSyntaxError(
					"unterminated string literal", l.currentLineText(), line, col)
			}
			sb.WriteByte(l.advance())
			continue
		}
		sb.WriteByte(l.advance())
	}
	return token.Token{Kind: token.DoubleQuote, Text: sb.String(), Line: line, Column: col}, nil
}

// readBalanced consumes from the current '(' or '[' through its matching
// close, tracking nesting depth and skipping over string literals so
// brackets inside them are not counted. Returns the body substring
// (excluding the delimiters) and the line/column of the opening delimiter
// (for sub-lexer line/column bookkeeping).
func (l *lexer) readBalanced(open, close byte) (string, int, int, error) {
	line, col := l.line, l.column
	startLine, startCol := l.line, l.column
	l.advance() // opening delimiter
	bodyStart := l.pos
	depth := 1
	for {
		if l.eof() {
			return "", 0, 0, diagnostics.NewSyntaxError(
				"unmatched '"+string(open)+"'", l.currentLineText(), line, col)
		}
		ch := l.peek()
		switch {
		case ch == '"':
			if _, err := l.quoted(); err != nil {
				return "", 0, 0, err
			}
			continue
		case ch == open:
			depth++
		case ch == close:
			depth--
			if depth == 0 {
				body := l.src[bodyStart:l.pos]
				l.advance() // closing delimiter
				return body, startLine, startCol, nil
			}
		}
		l.advance()
	}
}

func (l *lexer) parens() (token.Token, error) {
	line, col := l.line, l.column
	body, subLine, subCol, err := l.readBalanced('(', ')')
	if err != nil {
		return token.Token{}, err
	}
	sub, err := tokenizeSub(body, subLine, subCol)
	if err != nil {
		return token.Token{}, err
	}
	return token.Token{Kind: token.Parens, Tokens: sub, Line: line, Column: col}, nil
}

func (l *lexer) bracket() (token.Token, error) {
	line, col := l.line, l.column
	body, subLine, subCol, err := l.readBalanced('[', ']')
	if err != nil {
		return token.Token{}, err
	}
	sub, err := tokenizeSub(body, subLine, subCol)
	if err != nil {
		return token.Token{}, err
	}
	return token.Token{Kind: token.Bracket, Tokens: sub, Line: line, Column: col}, nil
}

// readUntilBrace scans from the current position to (but not including)
// the top-level '{' that starts a block, used for if-conditions and
// while-headers. Parens and brackets raise the depth, so a '{' nested
// inside them does not end the scan.
func (l *lexer) readUntilBrace() (string, int, int, error) {
	line, col := l.line, l.column
	start := l.pos
	depth := 0
	for {
		if l.eof() {
			return "", 0, 0, diagnostics.NewSyntaxError(
				"expected '{'", l.currentLineText(), line, col)
		}
		ch := l.peek()
		switch ch {
		case '"':
			if _, err := l.quoted(); err != nil {
				return "", 0, 0, err
			}
			continue
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		case '{':
			if depth == 0 {
				return l.src[start:l.pos], line, col, nil
			}
		}
		l.advance()
	}
}

func (l *lexer) readIdentifier() string {
	start := l.pos
	for !l.eof() && isAlphaNumeric(l.peek()) {
		l.advance()
	}
	return l.src[start:l.pos]
}

func (l *lexer) skipSpaces() {
	for !l.eof() && (l.peek() == ' ' || l.peek() == '\t') {
		l.advance()
	}
}

// word accumulates a bare identifier, dispatching to keyword handling when
// the buffer matches a keyword AND is followed by whitespace (spec §4.1:
// "Keyword detection requires a trailing space ... to disambiguate from
// identifiers"). Otherwise it is flushed as a Symbol/Bool, with member-chain
// continuation handled inline. The returned bool is false when the caller
// should simply continue its loop (tokens already appended).
func (l *lexer) word(toks *[]token.Token) (bool, error) {
	line, col := l.line, l.column
	start := l.pos
	for !l.eof() && isAlphaNumeric(l.peek()) {
		l.advance()
	}
	word := l.src[start:l.pos]

	if keywords[word] && (l.peek() == ' ' || l.peek() == '\t') {
		return false, l.keyword(word, line, col, toks)
	}

	switch word {
	case "true":
		*toks = append(*toks, token.Token{Kind: token.Bool, Bool: true, Line: line, Column: col})
		return false, nil
	case "false":
		*toks = append(*toks, token.Token{Kind: token.Bool, Bool: false, Line: line, Column: col})
		return false, nil
	}

	*toks = append(*toks, token.Token{Kind: token.Symbol, Text: word, Line: line, Column: col})
	if err := l.attachChain(toks); err != nil {
		return false, err
	}
	return false, nil
}

// attachChain appends a Period sub-stream to toks when the lexer is
// currently positioned at '.', continuing a member-access chain that
// follows a primary expression (a bare symbol or a 'new' constructor call).
func (l *lexer) attachChain(toks *[]token.Token) error {
	if l.peek() != '.' {
		return nil
	}
	chain, err := l.chain()
	if err != nil {
		return err
	}
	*toks = append(*toks, chain...)
	return nil
}

func (l *lexer) keyword(word string, line, col int, toks *[]token.Token) error {
	l.skipSpaces()
	switch word {
	case "let":
		name := l.readIdentifier()
		*toks = append(*toks, token.Token{Kind: token.Let, Text: name, Line: line, Column: col})
	case "const":
		name := l.readIdentifier()
		*toks = append(*toks, token.Token{Kind: token.Let, Text: "*" + name, Line: line, Column: col})
	case "if":
		body, subLine, subCol, err := l.readUntilBrace()
		if err != nil {
			return err
		}
		sub, err := tokenizeSub(body, subLine, subCol)
		if err != nil {
			return err
		}
		*toks = append(*toks, token.Token{Kind: token.If, Tokens: sub, Line: line, Column: col})
	case "while":
		name := l.readIdentifier()
		l.skipSpaces()
		if l.peek() != '=' || l.peekAt(1) == '=' {
			return diagnostics.NewSyntaxError(
				"expected '=' in while header", l.currentLineText(), l.line, l.column)
		}
		l.advance()
		l.skipSpaces()
		body, subLine, subCol, err := l.readUntilBrace()
		if err != nil {
			return err
		}
		sub, err := tokenizeSub(body, subLine, subCol)
		if err != nil {
			return err
		}
		*toks = append(*toks, token.Token{Kind: token.While, Name: name, Tokens: sub, Line: line, Column: col})
	case "new":
		name := l.readIdentifier()
		l.skipSpaces()
		if l.peek() != '(' {
			return diagnostics.NewSyntaxError(
				"expected '(' after new type name", l.currentLineText(), l.line, l.column)
		}
		body, subLine, subCol, err := l.readBalanced('(', ')')
		if err != nil {
			return err
		}
		sub, err := tokenizeSub(body, subLine, subCol)
		if err != nil {
			return err
		}
		*toks = append(*toks, token.Token{Kind: token.New, Name: name, Tokens: sub, Line: line, Column: col})
		if err := l.attachChain(toks); err != nil {
			return err
		}
	case "function":
		name := l.readIdentifier()
		l.skipSpaces()
		if l.peek() != '(' {
			return diagnostics.NewSyntaxError(
				"expected '(' after function name", l.currentLineText(), l.line, l.column)
		}
		body, subLine, subCol, err := l.readBalanced('(', ')')
		if err != nil {
			return err
		}
		sub, err := tokenizeSub(body, subLine, subCol)
		if err != nil {
			return err
		}
		*toks = append(*toks, token.Token{Kind: token.Function, Name: name, Tokens: sub, Line: line, Column: col})
	case "export":
		*toks = append(*toks, token.Token{Kind: token.Export, Line: line, Column: col})
	case "import":
		name := l.readIdentifier()
		*toks = append(*toks, token.Token{Kind: token.Import, Text: name, Line: line, Column: col})
	}
	return nil
}

// chainStop reports whether the given position begins one of the operators
// that terminate a member-chain capture (spec §4.1), along with its width.
// ',' ')' and ']' are treated as additional stops beyond spec's explicit
// list so chains nested inside call arguments and brackets terminate
// correctly; see DESIGN.md for this implementer decision.
func (l *lexer) chainStop() int {
	switch l.peek() {
	case '&':
		if l.peekAt(1) == '&' {
			return 2
		}
	case '|':
		if l.peekAt(1) == '|' {
			return 2
		}
	case '=':
		if l.peekAt(1) == '=' {
			return 2
		}
	case '<', '>', '+', '-', '*', '/', '%':
		return 1
	case ',', ')', ']':
		return 1
	}
	return 0
}

// chain captures a member-access chain starting at the current '.' and
// re-tokenizes it as a Period sub-stream, per spec §4.1. A trailing ';'
// found at depth 0 is re-emitted as a standalone Semicolon token following
// the Period token rather than being embedded in the sub-stream.
func (l *lexer) chain() ([]token.Token, error) {
	line, col := l.line, l.column
	l.advance() // consume the leading '.'
	start := l.pos
	depth := 0
	trailingSemicolon := false
	for {
		if l.eof() || l.peek() == '\n' {
			break
		}
		if depth == 0 && l.peek() == ';' {
			trailingSemicolon = true
			break
		}
		if depth == 0 {
			if w := l.chainStop(); w > 0 {
				break
			}
		}
		switch l.peek() {
		case '"':
			if _, err := l.quoted(); err != nil {
				return nil, err
			}
			continue
		case '(', '[':
			depth++
		case ')', ']':
			depth--
		}
		l.advance()
	}
	body := l.src[start:l.pos]
	sub, err := tokenizeSub(body, line, col)
	if err != nil {
		return nil, err
	}
	out := []token.Token{{Kind: token.Period, Tokens: sub, Line: line, Column: col}}
	if trailingSemicolon {
		semiLine, semiCol := l.line, l.column
		l.advance()
		out = append(out, token.Token{Kind: token.Semicolon, Line: semiLine, Column: semiCol})
	}
	return out, nil
}

// ParseIntLiteral converts a Number token's text to an int64, used by the
// AST builder when folding a literal node.
func ParseIntLiteral(text string) (int64, error) {
	return strconv.ParseInt(text, 10, 64)
}
