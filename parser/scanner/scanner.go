package scanner

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"unicode"

	"github.com/woojinnn/gluesql/parser/token"
	"github.com/woojinnn/gluesql/sql"
)

type Position struct {
	Filename string
	Line     int
	Column   int
}

func (pos Position) String() string {
	if pos.Line == 0 {
		return pos.Filename
	}
	return fmt.Sprintf("%s:%d:%d", pos.Filename, pos.Line, pos.Column)
}

// ScanCtx is one scanned token. Only the field matching Token is set.
type ScanCtx struct {
	Token      rune
	Error      error
	Identifier sql.Identifier // Identifier and Reserved
	String     string
	Bytes      []byte
	Integer    int64
	Float      float64
	Position
}

// Scanner splits SQL text into tokens, skipping white space, -- line comments and /* */
// block comments.
type Scanner struct {
	rr       io.RuneReader
	filename string
	peeked   bool
	next     rune
	err      error
	line     int
	column   int
	buf      strings.Builder
}

var escapes = map[rune]rune{
	'0': 0,
	'b': '\b',
	'f': '\f',
	'n': '\n',
	'r': '\r',
	't': '\t',
}

func (s *Scanner) Init(rr io.RuneReader, fn string) {
	s.rr = rr
	s.filename = fn
	s.line = 1
}

// peek returns the next rune without consuming it. Once the reader fails or is exhausted,
// peek keeps returning token.Error or token.EOF.
func (s *Scanner) peek() rune {
	if !s.peeked {
		r, _, err := s.rr.ReadRune()
		if err == io.EOF {
			r = token.EOF
		} else if err != nil {
			s.err = err
			r = token.Error
		}
		s.next = r
		s.peeked = true
	}
	return s.next
}

func (s *Scanner) advance() rune {
	r := s.peek()
	if r < 0 {
		return r
	}
	s.peeked = false
	if r == '\n' {
		s.line += 1
		s.column = 0
	} else {
		s.column += 1
	}
	return r
}

func (s *Scanner) Scan(sctx *ScanCtx) {
	s.buf.Reset()
	sctx.Token = s.scan(sctx)
}

func (s *Scanner) scan(sctx *ScanCtx) rune {
	for {
		for unicode.IsSpace(s.peek()) {
			s.advance()
		}
		sctx.Position = Position{Filename: s.filename, Line: s.line, Column: s.column + 1}

		r := s.advance()
		if r == '-' && s.peek() == '-' {
			for r != '\n' && r >= 0 {
				r = s.advance()
			}
			continue
		} else if r == '/' && s.peek() == '*' {
			s.advance()
			var prev rune
			for r = s.advance(); r >= 0 && !(prev == '*' && r == '/'); r = s.advance() {
				prev = r
			}
			if r < 0 {
				return s.unterminated(sctx, r, "comment")
			}
			continue
		}
		return s.token(sctx, r)
	}
}

func (s *Scanner) token(sctx *ScanCtx, r rune) rune {
	switch {
	case r == token.EOF:
		return token.EOF
	case r == token.Error:
		sctx.Error = s.err
		return token.Error
	case r == ';':
		return token.EndOfStatement
	case (r == 'x' || r == 'X') && s.peek() == '\'':
		s.advance()
		return s.scanBytes(sctx)
	case (r == 'e' || r == 'E') && s.peek() == '\'':
		s.advance()
		return s.scanString(sctx, true)
	case r == '\'':
		return s.scanString(sctx, false)
	case r == '"' || r == '`':
		return s.scanQuoted(sctx, r)
	case unicode.IsLetter(r) || r == '_':
		return s.scanIdentifier(sctx, r)
	case unicode.IsDigit(r):
		// Signs are always operators so that a-1 is a subtraction.
		return s.scanNumber(sctx, r)
	}

	if op, ok := token.Pair(r, s.peek()); ok {
		s.advance()
		return op
	} else if token.Single(r) {
		return r
	}
	sctx.Error = fmt.Errorf("scanner: unexpected character '%c'", r)
	return token.Error
}

func (s *Scanner) unterminated(sctx *ScanCtx, r rune, what string) rune {
	if r == token.Error {
		sctx.Error = s.err
	} else {
		sctx.Error = fmt.Errorf("scanner: %s not terminated", what)
	}
	return token.Error
}

func isIdentifierRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r) || r == '_' || r == '$'
}

func (s *Scanner) scanIdentifier(sctx *ScanCtx, r rune) rune {
	s.buf.WriteRune(r)
	for isIdentifierRune(s.peek()) {
		s.buf.WriteRune(s.advance())
	}

	sctx.Identifier = sql.ID(s.buf.String())
	if sctx.Identifier.IsReserved() {
		return token.Reserved
	}
	return token.Identifier
}

// scanQuoted scans an identifier quoted with " or `; a doubled delimiter stands for itself.
func (s *Scanner) scanQuoted(sctx *ScanCtx, delim rune) rune {
	for {
		r := s.advance()
		if r < 0 {
			return s.unterminated(sctx, r, "quoted identifier")
		} else if r == delim {
			if s.peek() != delim {
				break
			}
			s.advance()
		}
		s.buf.WriteRune(r)
	}

	sctx.Identifier = sql.QuotedID(s.buf.String())
	return token.Identifier
}

func (s *Scanner) digits() {
	for unicode.IsDigit(s.peek()) {
		s.buf.WriteRune(s.advance())
	}
}

func (s *Scanner) scanNumber(sctx *ScanCtx, r rune) rune {
	s.buf.WriteRune(r)
	s.digits()
	if s.peek() != '.' {
		n, err := strconv.ParseInt(s.buf.String(), 10, 64)
		if err != nil {
			sctx.Error = fmt.Errorf("scanner: %s", err)
			return token.Error
		}
		sctx.Integer = n
		return token.Integer
	}

	s.buf.WriteRune(s.advance())
	s.digits()
	f, err := strconv.ParseFloat(s.buf.String(), 64)
	if err != nil {
		sctx.Error = fmt.Errorf("scanner: %s", err)
		return token.Error
	}
	sctx.Float = f
	return token.Float
}

// scanString scans the rest of a string after the opening quote. '' is a quote. With esc,
// a backslash escapes the next rune: \b \f \n \r \t and \0 are control characters and any
// other rune stands for itself.
func (s *Scanner) scanString(sctx *ScanCtx, esc bool) rune {
	for {
		r := s.advance()
		if r < 0 {
			return s.unterminated(sctx, r, "string")
		} else if r == '\'' {
			if s.peek() != '\'' {
				break
			}
			s.advance()
		} else if r == '\\' && esc {
			r = s.advance()
			if r < 0 {
				return s.unterminated(sctx, r, "string")
			}
			if e, ok := escapes[r]; ok {
				r = e
			}
		}
		s.buf.WriteRune(r)
	}

	sctx.String = s.buf.String()
	return token.String
}

func hexDigit(r rune) (byte, bool) {
	switch {
	case r >= '0' && r <= '9':
		return byte(r - '0'), true
	case r >= 'a' && r <= 'f':
		return byte(r-'a') + 10, true
	case r >= 'A' && r <= 'F':
		return byte(r-'A') + 10, true
	}
	return 0, false
}

// scanBytes scans the hex digit pairs of a bytes literal: x'0aff'.
func (s *Scanner) scanBytes(sctx *ScanCtx) rune {
	b := []byte{}
	for {
		r := s.advance()
		if r == '\'' {
			break
		} else if r < 0 {
			return s.unterminated(sctx, r, "bytes")
		}

		hi, ok := hexDigit(r)
		if !ok {
			sctx.Error = fmt.Errorf("scanner: bytes: expected hex digit: '%c'", r)
			return token.Error
		}
		r = s.advance()
		lo, ok := hexDigit(r)
		if !ok {
			if r < 0 {
				return s.unterminated(sctx, r, "bytes")
			}
			sctx.Error = fmt.Errorf("scanner: bytes: expected hex digit: '%c'", r)
			return token.Error
		}
		b = append(b, hi<<4|lo)
	}

	sctx.Bytes = b
	return token.Bytes
}
