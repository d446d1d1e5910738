// Package lexer turns Drift source text into a token stream. Its shape —
// a byte-index cursor with next/peek/peekTwo and a maximal-munch switch —
// follows the teacher's Scanner in codecrafters/cmd/lexer.go.
package lexer

import (
	"strings"

	"github.com/drift-lang/drift/internal/exception"
	"github.com/drift-lang/drift/internal/token"
)

// Lexer scans a byte slice of Drift source into a Token slice.
type Lexer struct {
	src  []byte
	idx  int
	ch   byte
	line int
}

// New creates a Lexer over src, ready to Scan.
func New(src []byte) *Lexer {
	return &Lexer{src: src, idx: -1, line: 1}
}

func (l *Lexer) next() bool {
	if l.idx >= len(l.src)-1 {
		return false
	}
	l.idx++
	l.ch = l.src[l.idx]
	return true
}

func (l *Lexer) peek() byte {
	if l.idx >= len(l.src)-1 {
		return 0
	}
	return l.src[l.idx+1]
}

func (l *Lexer) peekTwo() byte {
	if l.idx >= len(l.src)-2 {
		return 0
	}
	return l.src[l.idx+2]
}

func isDigit(c byte) bool { return c >= '0' && c <= '9' }

func isAlpha(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isAlphaNumeric(c byte) bool { return isAlpha(c) || isDigit(c) }

// Scan runs the lexer to completion, returning every token (with a
// trailing EOF) and the first lexical error encountered, if any.
func (l *Lexer) Scan() ([]token.Token, error) {
	var toks []token.Token

	emit := func(kind token.Kind, lit string) {
		toks = append(toks, token.Token{Kind: kind, Literal: lit, Line: l.line})
	}

	for l.next() {
		switch l.ch {
		case ' ', '\t', '\r':
			// skip
		case '\n':
			l.line++
		case '(':
			emit(token.L_PAREN, "(")
		case ')':
			emit(token.R_PAREN, ")")
		case '{':
			emit(token.L_BRACE, "{")
		case '}':
			emit(token.R_BRACE, "}")
		case '[':
			emit(token.L_BRACKET, "[")
		case ']':
			emit(token.R_BRACKET, "]")
		case ',':
			emit(token.COMMA, ",")
		case '.':
			emit(token.DOT, ".")
		case ':':
			emit(token.COLON, ":")
		case ';':
			emit(token.SEMI, ";")
		case '&':
			emit(token.AMP, "&")
		case '|':
			emit(token.PIPE, "|")
		case '+':
			switch l.peek() {
			case '=':
				l.next()
				emit(token.PLUS_EQ, "+=")
			default:
				emit(token.PLUS, "+")
			}
		case '-':
			switch l.peek() {
			case '>':
				l.next()
				emit(token.R_ARROW, "->")
			case '=':
				l.next()
				emit(token.MINUS_EQ, "-=")
			default:
				emit(token.MINUS, "-")
			}
		case '*':
			if l.peek() == '=' {
				l.next()
				emit(token.STAR_EQ, "*=")
			} else {
				emit(token.STAR, "*")
			}
		case '%':
			if l.peek() == '=' {
				l.next()
				emit(token.PERCENT_EQ, "%=")
			} else {
				emit(token.PERCENT, "%")
			}
		case '/':
			switch l.peek() {
			case '/':
				l.lineComment()
			case '*':
				if err := l.blockComment(); err != nil {
					return toks, err
				}
			case '=':
				l.next()
				emit(token.SLASH_EQ, "/=")
			default:
				emit(token.SLASH, "/")
			}
		case '=':
			if l.peek() == '=' {
				l.next()
				emit(token.EQ_EQ, "==")
			} else {
				emit(token.EQ, "=")
			}
		case '!':
			if l.peek() == '=' {
				l.next()
				emit(token.BANG_EQ, "!=")
			} else {
				emit(token.BANG, "!")
			}
		case '<':
			switch l.peek() {
			case '=':
				l.next()
				emit(token.LESS_EQ, "<=")
			case '-':
				l.next()
				emit(token.L_ARROW, "<-")
			case '~':
				l.next()
				emit(token.L_CURVE, "<~")
			default:
				emit(token.LESS, "<")
			}
		case '>':
			if l.peek() == '=' {
				l.next()
				emit(token.GREATER_EQ, ">=")
			} else {
				emit(token.GREATER, ">")
			}
		case '"':
			str, err := l.shortString()
			if err != nil {
				return toks, err
			}
			emit(token.STRING, str)
		case '`':
			str := l.longString()
			emit(token.STRING, str)
		case '\'':
			c, err := l.charLiteral()
			if err != nil {
				return toks, err
			}
			emit(token.CHAR, string(c))
		default:
			switch {
			case isDigit(l.ch):
				lit, isFloat := l.number()
				if isFloat {
					emit(token.FLOAT, lit)
				} else {
					emit(token.NUMBER, lit)
				}
			case isAlpha(l.ch):
				ident := l.identifier()
				if kw, ok := token.Keywords[ident]; ok {
					emit(kw, ident)
				} else {
					emit(token.IDENT, ident)
				}
			default:
				return toks, exception.New(exception.UnknownSymbol,
					"unknown symbol: "+string(l.ch), l.line)
			}
		}
	}

	toks = append(toks, token.Token{Kind: token.EOF, Line: l.line + 1})
	return toks, nil
}

func (l *Lexer) lineComment() {
	for l.peek() != '\n' && l.peek() != 0 {
		l.next()
	}
}

func (l *Lexer) blockComment() error {
	for {
		if !l.next() {
			return exception.New(exception.UnknownSymbol, "unterminated block comment", l.line)
		}
		if l.ch == '\n' {
			l.line++
		}
		if l.ch == '*' && l.peek() == '/' {
			l.next()
			return nil
		}
	}
}

// shortString scans a "…" literal; a raw newline inside one is a hard
// error (message mandates backticks, per spec.md §4.1).
func (l *Lexer) shortString() (string, error) {
	start := l.idx + 1
	for {
		if !l.next() {
			return "", exception.New(exception.StringExp, "unterminated string literal", l.line)
		}
		if l.ch == '\n' {
			return "", exception.New(exception.StringExp,
				"newline in string literal, use backticks for multi-line strings", l.line)
		}
		if l.ch == '"' {
			break
		}
	}
	return string(l.src[start:l.idx]), nil
}

// longString scans a `…` literal, which may span newlines. The "\x00long"
// suffix (stripped by the parser via StripLongFlag) flags the long-string
// literal.
func (l *Lexer) longString() string {
	start := l.idx + 1
	for l.next() {
		if l.ch == '\n' {
			l.line++
		}
		if l.ch == '`' {
			break
		}
	}
	return string(l.src[start:l.idx]) + "\x00long"
}

func (l *Lexer) charLiteral() (byte, error) {
	if !l.next() || l.ch == '\'' {
		return 0, exception.New(exception.CharacterExp, "empty character literal", l.line)
	}
	c := l.ch
	if !l.next() || l.ch != '\'' {
		return 0, exception.New(exception.CharacterExp, "unterminated character literal", l.line)
	}
	return c, nil
}

func (l *Lexer) number() (string, bool) {
	start := l.idx
	isFloat := false

	for isDigit(l.peek()) {
		l.next()
	}
	if l.peek() == '.' && isDigit(l.peekTwo()) {
		isFloat = true
		l.next()
		for isDigit(l.peek()) {
			l.next()
		}
	}
	return string(l.src[start : l.idx+1]), isFloat
}

func (l *Lexer) identifier() string {
	start := l.idx
	for isAlphaNumeric(l.peek()) {
		l.next()
	}
	return string(l.src[start : l.idx+1])
}

// StripLongFlag removes the trailing long-string sentinel emitted by
// longString, returning the plain text and whether it was a long string.
func StripLongFlag(lit string) (string, bool) {
	if strings.HasSuffix(lit, "\x00long") {
		return lit[:len(lit)-len("\x00long")], true
	}
	return lit, false
}
