package parser

import (
	"fmt"
	"io"
	"runtime"

	"github.com/woojinnn/gluesql/expr"
	"github.com/woojinnn/gluesql/parser/scanner"
	"github.com/woojinnn/gluesql/parser/token"
	"github.com/woojinnn/gluesql/query"
	"github.com/woojinnn/gluesql/sql"
)

type Parser interface {
	Parse() (*query.Query, error)
	ParseExpr() (expr.Expr, error)
}

type parser struct {
	scanner scanner.Scanner
	// history[0] is the most recently scanned token.
	history   [3]scanner.ScanCtx
	sctx      *scanner.ScanCtx
	unscanned int
}

func NewParser(rr io.RuneReader, fn string) Parser {
	var p parser
	p.scanner.Init(rr, fn)
	return &p
}

func (p *parser) recover(err *error) {
	if r := recover(); r != nil {
		if _, ok := r.(runtime.Error); ok {
			panic(r)
		}
		*err = r.(error)
	}
}

// Parse returns the next query, or io.EOF when there are no more queries. Queries are
// separated by semicolons. After an error, the rest of the failed query is skipped.
func (p *parser) Parse() (*query.Query, error) {
	q, err := p.parse()
	if err != nil && err != io.EOF {
		p.skipStatement()
	}
	return q, err
}

func (p *parser) parse() (q *query.Query, err error) {
	defer p.recover(&err)

	r := p.scan()
	for r == token.EndOfStatement {
		r = p.scan()
	}
	if r == token.EOF {
		return nil, io.EOF
	}
	p.unscan()

	qry := p.parseQuery()
	if p.scan() != token.EndOfStatement {
		p.unscan()
		p.expectEOF()
		p.unscan()
	}
	return qry, nil
}

func (p *parser) skipStatement() {
	defer func() {
		if r := recover(); r != nil {
			if _, ok := r.(runtime.Error); ok {
				panic(r)
			}
		}
	}()

	for p.sctx != nil && p.sctx.Token != token.EndOfStatement {
		if p.sctx.Token == token.EOF {
			p.unscan()
			return
		}
		p.scan()
	}
}

func (p *parser) ParseExpr() (e expr.Expr, err error) {
	defer p.recover(&err)

	e = p.parseExpr()
	p.expectEOF()
	return e, nil
}

func (p *parser) error(msg string) {
	panic(fmt.Errorf("parser: %s: %s", p.sctx.Position, msg))
}

func (p *parser) scan() rune {
	if p.unscanned > 0 {
		p.unscanned -= 1
		p.sctx = &p.history[p.unscanned]
		return p.sctx.Token
	}

	copy(p.history[1:], p.history[:len(p.history)-1])
	p.history[0] = scanner.ScanCtx{}
	p.scanner.Scan(&p.history[0])
	p.sctx = &p.history[0]
	if p.sctx.Token == token.Error {
		p.error(p.sctx.Error.Error())
	}
	return p.sctx.Token
}

func (p *parser) unscan() {
	p.unscanned += 1
	if p.unscanned > len(p.history) {
		panic("parser: too many tokens unscanned")
	}
}

func (p *parser) got() string {
	switch p.sctx.Token {
	case token.EOF:
		return "end of file"
	case token.EndOfStatement:
		return "end of statement (;)"
	case token.Error:
		return fmt.Sprintf("error %s", p.sctx.Error)
	case token.Identifier:
		return fmt.Sprintf("identifier %s", p.sctx.Identifier)
	case token.Reserved:
		return fmt.Sprintf("reserved identifier %s", p.sctx.Identifier)
	case token.String:
		return fmt.Sprintf("string %q", p.sctx.String)
	case token.Bytes:
		return fmt.Sprintf("bytes %v", p.sctx.Bytes)
	case token.Integer:
		return fmt.Sprintf("integer %d", p.sctx.Integer)
	case token.Float:
		return fmt.Sprintf("float %f", p.sctx.Float)
	}

	return token.Format(p.sctx.Token)
}

func (p *parser) expectReserved(ids ...sql.Identifier) sql.Identifier {
	t := p.scan()
	if t == token.Reserved {
		for _, kw := range ids {
			if kw == p.sctx.Identifier {
				return kw
			}
		}
	}

	var msg string
	if len(ids) == 1 {
		msg = ids[0].String()
	} else {
		for i, kw := range ids {
			if i == len(ids)-1 {
				msg += ", or "
			} else if i > 0 {
				msg += ", "
			}
			msg += kw.String()
		}
	}

	p.error(fmt.Sprintf("expected keyword %s got %s", msg, p.got()))
	return 0
}

func (p *parser) optionalReserved(ids ...sql.Identifier) bool {
	t := p.scan()
	if t == token.Reserved {
		for _, kw := range ids {
			if kw == p.sctx.Identifier {
				return true
			}
		}
	}

	p.unscan()
	return false
}

func (p *parser) expectIdentifier(msg string) sql.Identifier {
	t := p.scan()
	if t != token.Identifier {
		p.error(fmt.Sprintf("%s got %s", msg, p.got()))
	}
	return p.sctx.Identifier
}

func (p *parser) expectTokens(tokens ...rune) rune {
	t := p.scan()
	for _, r := range tokens {
		if t == r {
			return r
		}
	}

	var msg string
	if len(tokens) == 1 {
		msg = token.Format(tokens[0])
	} else {
		for i, r := range tokens {
			if i == len(tokens)-1 {
				msg += ", or "
			} else if i > 0 {
				msg += ", "
			}
			msg += token.Format(r)
		}
	}

	p.error(fmt.Sprintf("expected %s got %s", msg, p.got()))
	return 0
}

func (p *parser) maybeToken(mr rune) bool {
	if p.scan() == mr {
		return true
	}
	p.unscan()
	return false
}

func (p *parser) expectEOF() {
	if p.scan() != token.EOF {
		p.error(fmt.Sprintf("expected the end of the statement got %s", p.got()))
	}
}

/*
<query>:
      SELECT <select> [LIMIT <expr>] [OFFSET <expr>]
    | VALUES ( <expr> [, ...] ) [, ...] [LIMIT <expr>] [OFFSET <expr>]
*/
func (p *parser) parseQuery() *query.Query {
	var q query.Query
	switch p.expectReserved(sql.SELECT, sql.VALUES) {
	case sql.SELECT:
		q.Body = p.parseSelect()
	case sql.VALUES:
		q.Body = p.parseValues()
	}

	if p.optionalReserved(sql.LIMIT) {
		q.Limit = p.parseExpr()
	}
	if p.optionalReserved(sql.OFFSET) {
		q.Offset = p.parseExpr()
	}
	return &q
}

func (p *parser) parseValues() *query.Values {
	var v query.Values
	for {
		p.expectTokens(token.LParen)
		var row []expr.Expr
		for {
			row = append(row, p.parseExpr())
			if p.expectTokens(token.Comma, token.RParen) == token.RParen {
				break
			}
		}
		v.Rows = append(v.Rows, row)

		if !p.maybeToken(token.Comma) {
			break
		}
	}
	return &v
}

/*
<select>:
    <select-item> [, ...]
    [FROM <table-factor> [<join> ...]]
    [WHERE <expr>]
    [GROUP BY <expr> [, ...]]
    [HAVING <expr>]
    [ORDER BY <expr> [ASC | DESC] [, ...]]
<select-item>:
      *
    | <alias> . *
    | <expr> [[AS] <label>]
*/
func (p *parser) parseSelect() *query.Select {
	var s query.Select
	for {
		s.Projection = append(s.Projection, p.parseSelectItem())
		if !p.maybeToken(token.Comma) {
			break
		}
	}

	if p.optionalReserved(sql.FROM) {
		s.From = p.parseTableWithJoins()
	}
	if p.optionalReserved(sql.WHERE) {
		s.Where = p.parseExpr()
	}
	if p.optionalReserved(sql.GROUP) {
		p.expectReserved(sql.BY)
		for {
			s.GroupBy = append(s.GroupBy, p.parseExpr())
			if !p.maybeToken(token.Comma) {
				break
			}
		}
	}
	if p.optionalReserved(sql.HAVING) {
		s.Having = p.parseExpr()
	}
	if p.optionalReserved(sql.ORDER) {
		p.expectReserved(sql.BY)
		for {
			ob := query.OrderBy{Expr: p.parseExpr()}
			if p.optionalReserved(sql.DESC) {
				ob.Desc = true
			} else {
				p.optionalReserved(sql.ASC)
			}
			s.OrderBy = append(s.OrderBy, ob)
			if !p.maybeToken(token.Comma) {
				break
			}
		}
	}
	return &s
}

func (p *parser) parseSelectItem() query.SelectItem {
	if p.maybeToken(token.Star) {
		return query.Wildcard{}
	}

	if p.scan() == token.Identifier {
		alias := p.sctx.Identifier
		if p.maybeToken(token.Dot) {
			if p.maybeToken(token.Star) {
				return query.QualifiedWildcard{Alias: alias}
			}
			p.unscan()
		}
	}
	p.unscan()

	ei := query.ExprItem{Expr: p.parseExpr()}
	if p.optionalReserved(sql.AS) {
		ei.Label = p.expectIdentifier("expected a label")
	} else if p.scan() == token.Identifier {
		ei.Label = p.sctx.Identifier
	} else {
		p.unscan()
	}
	return ei
}

func (p *parser) parseTableFactor() query.TableFactor {
	tf := query.TableFactor{Name: p.expectIdentifier("expected a table")}
	if p.optionalReserved(sql.AS) {
		tf.Alias = p.expectIdentifier("expected an alias")
	} else if p.scan() == token.Identifier {
		tf.Alias = p.sctx.Identifier
	} else {
		p.unscan()
	}
	return tf
}

/*
<join>:
      , <table-factor>
    | CROSS JOIN <table-factor>
    | [INNER] JOIN <table-factor> [ON <expr>]
    | LEFT [OUTER] JOIN <table-factor> [ON <expr>]
*/
func (p *parser) parseTableWithJoins() *query.TableWithJoins {
	twj := query.TableWithJoins{Relation: p.parseTableFactor()}
	for {
		var j query.Join
		if p.maybeToken(token.Comma) {
			j.Op = query.CrossJoin
		} else if p.optionalReserved(sql.CROSS) {
			p.expectReserved(sql.JOIN)
			j.Op = query.CrossJoin
		} else if p.optionalReserved(sql.INNER) {
			p.expectReserved(sql.JOIN)
			j.Op = query.InnerJoin
		} else if p.optionalReserved(sql.JOIN) {
			j.Op = query.InnerJoin
		} else if p.optionalReserved(sql.LEFT) {
			p.optionalReserved(sql.OUTER)
			p.expectReserved(sql.JOIN)
			j.Op = query.LeftOuterJoin
		} else {
			break
		}

		j.Relation = p.parseTableFactor()
		if j.Op != query.CrossJoin && p.optionalReserved(sql.ON) {
			j.On = p.parseExpr()
		}
		twj.Joins = append(twj.Joins, j)
	}
	return &twj
}

var binaryOps = map[rune]expr.Op{
	token.Ampersand:      expr.BinaryAndOp,
	token.Bar:            expr.BinaryOrOp,
	token.BarBar:         expr.ConcatOp,
	token.Equal:          expr.EqualOp,
	token.EqualEqual:     expr.EqualOp,
	token.BangEqual:      expr.NotEqualOp,
	token.Greater:        expr.GreaterThanOp,
	token.GreaterEqual:   expr.GreaterEqualOp,
	token.GreaterGreater: expr.RShiftOp,
	token.Less:           expr.LessThanOp,
	token.LessEqual:      expr.LessEqualOp,
	token.LessGreater:    expr.NotEqualOp,
	token.LessLess:       expr.LShiftOp,
	token.Minus:          expr.SubtractOp,
	token.Percent:        expr.ModuloOp,
	token.Plus:           expr.AddOp,
	token.Slash:          expr.DivideOp,
	token.Star:           expr.MultiplyOp,
}

// IS, BETWEEN and IN bind as tightly as equality.
var predicatePrecedence = expr.EqualOp.Precedence()

/*
<expr>:
      <literal>
    | - <expr>
    | NOT <expr>
    | ( <expr> )
    | ( <query> )
    | EXISTS ( <query> )
    | <expr> <op> <expr>
    | <expr> IS [NOT] NULL
    | <expr> [NOT] BETWEEN <expr> AND <expr>
    | <expr> [NOT] IN ( <expr> [, ...] )
    | <expr> [NOT] IN ( <query> )
    | CASE [<expr>] WHEN <expr> THEN <expr> [...] [ELSE <expr>] END
    | <ref> [. <ref> ...]
    | <func> ( [<expr> [, ...]] )
    | COUNT ( * )
<op>:
      + - * / %
    | = == != <> < <= > >=
    | << >> & | ||
    | AND | OR
*/
func (p *parser) parseExpr() expr.Expr {
	return p.parseSubExpr(0)
}

// parseSubExpr parses an expression whose binary operators all have a precedence greater
// than prec.
func (p *parser) parseSubExpr(prec int) expr.Expr {
	e := p.parsePrefix()
	for {
		if prec < predicatePrecedence {
			if pe, ok := p.maybePredicate(e); ok {
				e = pe
				continue
			}
		}

		op, ok := p.maybeBinaryOp()
		if !ok {
			return e
		}
		if op.Precedence() <= prec {
			p.unscan()
			return e
		}
		e = &expr.Binary{Op: op, Left: e, Right: p.parseSubExpr(op.Precedence())}
	}
}

func (p *parser) maybeBinaryOp() (expr.Op, bool) {
	r := p.scan()
	if op, ok := binaryOps[r]; ok {
		return op, true
	}
	if r == token.Reserved {
		switch p.sctx.Identifier {
		case sql.AND:
			return expr.AndOp, true
		case sql.OR:
			return expr.OrOp, true
		}
	}
	p.unscan()
	return 0, false
}

func (p *parser) maybePredicate(e expr.Expr) (expr.Expr, bool) {
	if p.scan() != token.Reserved {
		p.unscan()
		return nil, false
	}

	switch p.sctx.Identifier {
	case sql.IS:
		not := p.optionalReserved(sql.NOT)
		p.expectReserved(sql.NULL)
		return &expr.IsNull{Expr: e, Not: not}, true
	case sql.NOT:
		if p.expectReserved(sql.BETWEEN, sql.IN) == sql.BETWEEN {
			return p.parseBetween(e, true), true
		}
		return p.parseIn(e, true), true
	case sql.BETWEEN:
		return p.parseBetween(e, false), true
	case sql.IN:
		return p.parseIn(e, false), true
	}

	p.unscan()
	return nil, false
}

func (p *parser) parseBetween(e expr.Expr, not bool) expr.Expr {
	low := p.parseSubExpr(predicatePrecedence)
	p.expectReserved(sql.AND)
	high := p.parseSubExpr(predicatePrecedence)
	return &expr.Between{Expr: e, Low: low, High: high, Not: not}
}

func (p *parser) maybeSubquery() (*query.Query, bool) {
	if p.scan() == token.Reserved &&
		(p.sctx.Identifier == sql.SELECT || p.sctx.Identifier == sql.VALUES) {

		p.unscan()
		return p.parseQuery(), true
	}
	p.unscan()
	return nil, false
}

func (p *parser) parseIn(e expr.Expr, not bool) expr.Expr {
	p.expectTokens(token.LParen)
	if q, ok := p.maybeSubquery(); ok {
		p.expectTokens(token.RParen)
		return &expr.Subquery{Op: expr.In, Expr: e, Not: not, Query: q}
	}

	il := &expr.InList{Expr: e, Not: not}
	for {
		il.List = append(il.List, p.parseExpr())
		if p.expectTokens(token.Comma, token.RParen) == token.RParen {
			break
		}
	}
	return il
}

func (p *parser) parsePrefix() expr.Expr {
	r := p.scan()
	switch r {
	case token.Reserved:
		switch p.sctx.Identifier {
		case sql.TRUE:
			return expr.True()
		case sql.FALSE:
			return expr.False()
		case sql.NULL:
			return expr.Nil()
		case sql.NOT:
			return &expr.Unary{Op: expr.NotOp, Expr: p.parseSubExpr(expr.NotOp.Precedence())}
		case sql.EXISTS:
			p.expectTokens(token.LParen)
			q, ok := p.maybeSubquery()
			if !ok {
				p.error(fmt.Sprintf("expected a query got %s", p.got()))
			}
			p.expectTokens(token.RParen)
			return &expr.Subquery{Op: expr.Exists, Query: q}
		case sql.CASE:
			return p.parseCase()
		}
		p.error(fmt.Sprintf("unexpected %s", p.got()))
	case token.String:
		return expr.StringLiteral(p.sctx.String)
	case token.Bytes:
		return expr.BytesLiteral(p.sctx.Bytes)
	case token.Integer:
		return expr.Int64Literal(p.sctx.Integer)
	case token.Float:
		return expr.Float64Literal(p.sctx.Float)
	case token.Identifier:
		id := p.sctx.Identifier
		if p.maybeToken(token.LParen) {
			return p.parseCall(id)
		}

		// <ref> [. <ref> ...]
		ref := expr.Ref{id}
		for p.maybeToken(token.Dot) {
			ref = append(ref, p.expectIdentifier("expected a reference"))
		}
		return ref
	case token.Minus:
		switch p.scan() {
		case token.Integer:
			return expr.Int64Literal(-p.sctx.Integer)
		case token.Float:
			return expr.Float64Literal(-p.sctx.Float)
		}
		p.unscan()
		return &expr.Unary{Op: expr.NegateOp, Expr: p.parseSubExpr(expr.NegateOp.Precedence())}
	case token.Plus:
		return p.parseSubExpr(expr.NegateOp.Precedence())
	case token.LParen:
		if q, ok := p.maybeSubquery(); ok {
			p.expectTokens(token.RParen)
			return &expr.Subquery{Op: expr.Scalar, Query: q}
		}
		e := p.parseExpr()
		p.expectTokens(token.RParen)
		return e
	}

	p.error(fmt.Sprintf("expected an expression got %s", p.got()))
	return nil
}

func (p *parser) parseCall(name sql.Identifier) expr.Expr {
	if name == sql.COUNT && p.maybeToken(token.Star) {
		p.expectTokens(token.RParen)
		return expr.CountAll()
	}

	var args []expr.Expr
	if !p.maybeToken(token.RParen) {
		for {
			args = append(args, p.parseExpr())
			if p.expectTokens(token.Comma, token.RParen) == token.RParen {
				break
			}
		}
	}
	return expr.NewCall(name, args...)
}

func (p *parser) parseCase() expr.Expr {
	var c expr.Case
	if !p.optionalReserved(sql.WHEN) {
		c.Operand = p.parseExpr()
		p.expectReserved(sql.WHEN)
	}

	for {
		var w expr.When
		w.Cond = p.parseExpr()
		p.expectReserved(sql.THEN)
		w.Result = p.parseExpr()
		c.When = append(c.When, w)

		if p.expectReserved(sql.WHEN, sql.ELSE, sql.END) == sql.WHEN {
			continue
		}
		if p.sctx.Identifier == sql.ELSE {
			c.Else = p.parseExpr()
			p.expectReserved(sql.END)
		}
		break
	}
	return &c
}
