package token

import (
	"fmt"
	"strings"
)

// Tokens which are not a single rune of punctuation or a one rune operator are negative.
const (
	EOF rune = -(iota + 1)
	EndOfStatement
	Error
	Identifier
	Reserved
	String
	Bytes
	Integer
	Float

	BarBar
	LessLess
	LessEqual
	LessGreater
	GreaterGreater
	GreaterEqual
	EqualEqual
	BangEqual
)

const (
	Comma  = ','
	Dot    = '.'
	LParen = '('
	RParen = ')'

	Minus     = '-'
	Plus      = '+'
	Star      = '*'
	Slash     = '/'
	Percent   = '%'
	Equal     = '='
	Less      = '<'
	Greater   = '>'
	Ampersand = '&'
	Bar       = '|'
)

const singles = ",.()-+*/%=<>&|"

var (
	pairs = map[[2]rune]rune{
		{'|', '|'}: BarBar,
		{'<', '<'}: LessLess,
		{'<', '='}: LessEqual,
		{'<', '>'}: LessGreater,
		{'>', '>'}: GreaterGreater,
		{'>', '='}: GreaterEqual,
		{'=', '='}: EqualEqual,
		{'!', '='}: BangEqual,
	}

	names = map[rune]string{
		EOF:            "end of input",
		EndOfStatement: "end of statement",
		Error:          "error",
		Identifier:     "identifier",
		Reserved:       "reserved identifier",
		String:         "string",
		Bytes:          "bytes",
		Integer:        "integer",
		Float:          "float",
	}
)

func init() {
	for p, r := range pairs {
		names[r] = string(p[:])
	}
}

// Pair returns the two rune operator spelled by r0 followed by r1.
func Pair(r0, r1 rune) (rune, bool) {
	r, ok := pairs[[2]rune{r0, r1}]
	return r, ok
}

// Single is true if r is a token by itself.
func Single(r rune) bool {
	return r > 0 && strings.ContainsRune(singles, r)
}

func Format(r rune) string {
	if s, ok := names[r]; ok {
		return s
	}
	if r > 0 {
		return fmt.Sprintf("rune %c", r)
	}
	return fmt.Sprintf("token %d", r)
}
