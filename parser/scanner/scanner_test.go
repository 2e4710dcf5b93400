package scanner_test

import (
	"fmt"
	"strings"
	"testing"

	. "github.com/woojinnn/gluesql/parser/scanner"
	"github.com/woojinnn/gluesql/parser/token"
	"github.com/woojinnn/gluesql/sql"
	"github.com/woojinnn/gluesql/testutil"
)

func scanAll(src string) []ScanCtx {
	var s Scanner
	s.Init(strings.NewReader(src), "test")

	var all []ScanCtx
	for {
		var sctx ScanCtx
		s.Scan(&sctx)
		all = append(all, sctx)
		if sctx.Token == token.EOF || sctx.Token == token.Error {
			return all
		}
	}
}

func TestScanTokens(t *testing.T) {
	cases := []struct {
		s string
		r []rune
	}{
		{"", []rune{token.EOF}},
		{";", []rune{token.EndOfStatement, token.EOF}},
		{"abc select", []rune{token.Identifier, token.Reserved, token.EOF}},
		{"x 'x' x'00' e'e'", []rune{token.Identifier, token.String, token.Bytes, token.String,
			token.EOF}},
		{"`select` \"select\"", []rune{token.Identifier, token.Identifier, token.EOF}},
		{"12345 1234.5678 999.", []rune{token.Integer, token.Float, token.Float, token.EOF}},
		{"t.a, (1)", []rune{token.Identifier, token.Dot, token.Identifier, token.Comma,
			token.LParen, token.Integer, token.RParen, token.EOF}},
		{"-a +1.5", []rune{token.Minus, token.Identifier, token.Plus, token.Float, token.EOF}},
		{"a-1", []rune{token.Identifier, token.Minus, token.Integer, token.EOF}},
		{"* / % = < > & |", []rune{token.Star, token.Slash, token.Percent, token.Equal,
			token.Less, token.Greater, token.Ampersand, token.Bar, token.EOF}},
		{"|| << <= <> >> >= == !=", []rune{token.BarBar, token.LessLess, token.LessEqual,
			token.LessGreater, token.GreaterGreater, token.GreaterEqual, token.EqualEqual,
			token.BangEqual, token.EOF}},
		{">-1", []rune{token.Greater, token.Minus, token.Integer, token.EOF}},
		{"**", []rune{token.Star, token.Star, token.EOF}},
		{"=>", []rune{token.Equal, token.Greater, token.EOF}},
		{"!", []rune{token.Error}},
		{"!*", []rune{token.Error}},
		{"a ? b", []rune{token.Identifier, token.Error}},
		{"'abc", []rune{token.Error}},
		{"\"abc", []rune{token.Error}},
		{"x'0g'", []rune{token.Error}},
		{"x'0", []rune{token.Error}},
		{"/* abc", []rune{token.Error}},
		{"99999999999999999999", []rune{token.Error}},
	}

	for _, c := range cases {
		var got []rune
		for _, sctx := range scanAll(c.s) {
			got = append(got, sctx.Token)
			if sctx.Token == token.Error && sctx.Error == nil {
				t.Errorf("Scan(%q) returned Error without an error", c.s)
			}
		}
		if !testutil.DeepEqual(got, c.r) {
			t.Errorf("Scan(%q) got %v want %v", c.s, got, c.r)
		}
	}
}

func TestScanValues(t *testing.T) {
	cases := []struct {
		s    string
		sctx ScanCtx
	}{
		{s: "'abc' 123", sctx: ScanCtx{Token: token.String, String: "abc"}},
		{s: "'abc''def'", sctx: ScanCtx{Token: token.String, String: "abc'def"}},
		{s: `'a\nb'`, sctx: ScanCtx{Token: token.String, String: `a\nb`}},
		{s: `e'a\nb\tc\'d\\'`, sctx: ScanCtx{Token: token.String, String: "a\nb\tc'd\\"}},
		{s: `E'\0\q'`, sctx: ScanCtx{Token: token.String, String: "\000q"}},
		{s: "x'6263646566'",
			sctx: ScanCtx{Token: token.Bytes, Bytes: []byte{0x62, 0x63, 0x64, 0x65, 0x66}}},
		{s: "X'aBcD'", sctx: ScanCtx{Token: token.Bytes, Bytes: []byte{0xab, 0xcd}}},
		{s: "x''", sctx: ScanCtx{Token: token.Bytes, Bytes: []byte{}}},
		{s: "999zzz", sctx: ScanCtx{Token: token.Integer, Integer: 999}},
		{s: "9.99zzz", sctx: ScanCtx{Token: token.Float, Float: 9.99}},
		{s: "Abc_$1", sctx: ScanCtx{Token: token.Identifier, Identifier: sql.ID("abc_$1")}},
		{s: `"Abc"`, sctx: ScanCtx{Token: token.Identifier, Identifier: sql.QuotedID("Abc")}},
		{s: "`a``b`", sctx: ScanCtx{Token: token.Identifier, Identifier: sql.QuotedID("a`b")}},
		{s: "FROM", sctx: ScanCtx{Token: token.Reserved, Identifier: sql.FROM}},
	}

	for _, c := range cases {
		sctx := scanAll(c.s)[0]
		sctx.Position = Position{}
		var trc string
		if !testutil.DeepEqual(sctx, c.sctx, &trc) {
			t.Errorf("Scan(%q) got %+v want %+v\n%s", c.s, sctx, c.sctx, trc)
		}
	}
}

func TestScanComments(t *testing.T) {
	src := `
-- start with a comment
select -- reserved keyword
"Select" /* identifier */
'select' /* string

*/
abcd -- identifier
`
	expected := []struct {
		r    rune
		id   sql.Identifier
		s    string
		line int
		col  int
	}{
		{r: token.Reserved, id: sql.SELECT, line: 3, col: 1},
		{r: token.Identifier, id: sql.QuotedID("Select"), line: 4, col: 1},
		{r: token.String, s: "select", line: 5, col: 1},
		{r: token.Identifier, id: sql.ID("abcd"), line: 8, col: 1},
		{r: token.EOF, line: 9, col: 1},
	}

	all := scanAll(src)
	if len(all) != len(expected) {
		t.Fatalf("Scan(%q) got %d tokens want %d", src, len(all), len(expected))
	}
	for i, e := range expected {
		sctx := all[i]
		if sctx.Token != e.r {
			t.Errorf("Scan(%q)[%d] got %s want %s", src, i, token.Format(sctx.Token),
				token.Format(e.r))
		}
		if sctx.Identifier != e.id || sctx.String != e.s {
			t.Errorf("Scan(%q)[%d] got %s %q want %s %q", src, i, sctx.Identifier, sctx.String,
				e.id, e.s)
		}
		pos := fmt.Sprintf("test:%d:%d", e.line, e.col)
		if sctx.Position.String() != pos {
			t.Errorf("Scan(%q)[%d] got position %s want %s", src, i, sctx.Position, pos)
		}
	}
}
