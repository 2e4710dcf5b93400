package expr

import (
	"fmt"
	"strings"

	"github.com/woojinnn/gluesql/sql"
)

// Expr is a closed set of expression variants: *Literal, Ref, *Unary, *Binary, *Call,
// *Aggregate, *IsNull, *Between, *InList, *Subquery, and *Case.
type Expr interface {
	fmt.Stringer
	Equal(e Expr) bool
}

type Op int

const (
	AddOp Op = iota
	AndOp
	BinaryAndOp
	BinaryOrOp
	ConcatOp
	DivideOp
	EqualOp
	GreaterEqualOp
	GreaterThanOp
	LessEqualOp
	LessThanOp
	LShiftOp
	ModuloOp
	MultiplyOp
	NegateOp
	NoOp
	NotEqualOp
	NotOp
	OrOp
	RShiftOp
	SubtractOp
)

var ops = [...]struct {
	name       string
	precedence int
}{
	AddOp:          {"+", 7},
	AndOp:          {"AND", 2},
	BinaryAndOp:    {"&", 6},
	BinaryOrOp:     {"|", 6},
	ConcatOp:       {"||", 10},
	DivideOp:       {"/", 8},
	EqualOp:        {"=", 4},
	GreaterEqualOp: {">=", 5},
	GreaterThanOp:  {">", 5},
	LessEqualOp:    {"<=", 5},
	LessThanOp:     {"<", 5},
	LShiftOp:       {"<<", 6},
	ModuloOp:       {"%", 8},
	MultiplyOp:     {"*", 8},
	NegateOp:       {"-", 9},
	NoOp:           {"", 11},
	NotEqualOp:     {"<>", 4},
	NotOp:          {"NOT", 3},
	OrOp:           {"OR", 1},
	RShiftOp:       {">>", 6},
	SubtractOp:     {"-", 7},
}

func (op Op) Precedence() int {
	return ops[op].precedence
}

func (op Op) String() string {
	return ops[op].name
}

type Literal struct {
	Value sql.Value
}

func (l *Literal) String() string {
	return sql.Format(l.Value)
}

func (l *Literal) Equal(e Expr) bool {
	l2, ok := e.(*Literal)
	if !ok {
		return false
	}
	return sql.TypeOf(l.Value) == sql.TypeOf(l2.Value) && sql.Compare(l.Value, l2.Value) == 0
}

func Nil() *Literal {
	return &Literal{nil}
}

func True() *Literal {
	return &Literal{sql.BoolValue(true)}
}

func False() *Literal {
	return &Literal{sql.BoolValue(false)}
}

func Int64Literal(i int64) *Literal {
	return &Literal{sql.Int64Value(i)}
}

func Float64Literal(f float64) *Literal {
	return &Literal{sql.Float64Value(f)}
}

func StringLiteral(s string) *Literal {
	return &Literal{sql.StringValue(s)}
}

func BytesLiteral(b []byte) *Literal {
	return &Literal{sql.BytesValue(b)}
}

type Unary struct {
	Op   Op
	Expr Expr
}

func (u *Unary) String() string {
	if ops[u.Op].name == "" {
		return u.Expr.String()
	}
	return fmt.Sprintf("(%s %s)", ops[u.Op].name, u.Expr)
}

func (u *Unary) Equal(e Expr) bool {
	u2, ok := e.(*Unary)
	if !ok {
		return false
	}
	return u.Op == u2.Op && u.Expr.Equal(u2.Expr)
}

type Binary struct {
	Op    Op
	Left  Expr
	Right Expr
}

func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, ops[b.Op].name, b.Right)
}

func (b *Binary) Equal(e Expr) bool {
	b2, ok := e.(*Binary)
	if !ok {
		return false
	}
	return b.Op == b2.Op && b.Left.Equal(b2.Left) && b.Right.Equal(b2.Right)
}

// Ref is a column reference: column or table.column.
type Ref []sql.Identifier

func (r Ref) String() string {
	s := r[0].String()
	for i := 1; i < len(r); i++ {
		s += fmt.Sprintf(".%s", r[i])
	}
	return s
}

func (r Ref) Equal(e Expr) bool {
	r2, ok := e.(Ref)
	if !ok {
		return false
	}
	if len(r) != len(r2) {
		return false
	}
	for i := range r {
		if r[i] != r2[i] {
			return false
		}
	}
	return true
}

// Call is a scalar function call.
type Call struct {
	Name sql.Identifier
	Args []Expr
}

func (c *Call) String() string {
	s := fmt.Sprintf("%s(", c.Name)
	for i, a := range c.Args {
		if i > 0 {
			s += ", "
		}
		s += a.String()
	}
	s += ")"
	return s
}

func (c *Call) Equal(e Expr) bool {
	c2, ok := e.(*Call)
	if !ok {
		return false
	}
	if c.Name != c2.Name || len(c.Args) != len(c2.Args) {
		return false
	}
	for i := range c.Args {
		if !c.Args[i].Equal(c2.Args[i]) {
			return false
		}
	}
	return true
}

// Aggregate is an aggregate function call. A nil Arg is COUNT(*).
type Aggregate struct {
	Func sql.Identifier
	Arg  Expr
}

func (a *Aggregate) String() string {
	if a.Arg == nil {
		return fmt.Sprintf("%s(*)", a.Func)
	}
	return fmt.Sprintf("%s(%s)", a.Func, a.Arg)
}

func (a *Aggregate) Equal(e Expr) bool {
	a2, ok := e.(*Aggregate)
	if !ok {
		return false
	}
	if a.Func != a2.Func {
		return false
	}
	if a.Arg == nil || a2.Arg == nil {
		return a.Arg == nil && a2.Arg == nil
	}
	return a.Arg.Equal(a2.Arg)
}

type IsNull struct {
	Expr Expr
	Not  bool
}

func (in *IsNull) String() string {
	if in.Not {
		return fmt.Sprintf("(%s IS NOT NULL)", in.Expr)
	}
	return fmt.Sprintf("(%s IS NULL)", in.Expr)
}

func (in *IsNull) Equal(e Expr) bool {
	in2, ok := e.(*IsNull)
	if !ok {
		return false
	}
	return in.Not == in2.Not && in.Expr.Equal(in2.Expr)
}

type Between struct {
	Expr Expr
	Low  Expr
	High Expr
	Not  bool
}

func (b *Between) String() string {
	var not string
	if b.Not {
		not = "NOT "
	}
	return fmt.Sprintf("(%s %sBETWEEN %s AND %s)", b.Expr, not, b.Low, b.High)
}

func (b *Between) Equal(e Expr) bool {
	b2, ok := e.(*Between)
	if !ok {
		return false
	}
	return b.Not == b2.Not && b.Expr.Equal(b2.Expr) && b.Low.Equal(b2.Low) &&
		b.High.Equal(b2.High)
}

type InList struct {
	Expr Expr
	List []Expr
	Not  bool
}

func (il *InList) String() string {
	var buf strings.Builder
	buf.WriteString("(")
	buf.WriteString(il.Expr.String())
	if il.Not {
		buf.WriteString(" NOT")
	}
	buf.WriteString(" IN (")
	for i, e := range il.List {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(e.String())
	}
	buf.WriteString("))")
	return buf.String()
}

func (il *InList) Equal(e Expr) bool {
	il2, ok := e.(*InList)
	if !ok {
		return false
	}
	if il.Not != il2.Not || !il.Expr.Equal(il2.Expr) || len(il.List) != len(il2.List) {
		return false
	}
	for i := range il.List {
		if !il.List[i].Equal(il2.List[i]) {
			return false
		}
	}
	return true
}

// Query is a nested query; it is planned and run by the Context evaluating the expression.
type Query interface {
	fmt.Stringer
}

type SubqueryOp int

const (
	Scalar SubqueryOp = iota
	Exists
	In
)

type Subquery struct {
	Op    SubqueryOp
	Expr  Expr // only for In
	Not   bool // NOT EXISTS and NOT IN
	Query Query
}

func (s *Subquery) String() string {
	var not string
	if s.Not {
		not = "NOT "
	}

	switch s.Op {
	case Scalar:
		return fmt.Sprintf("(%s)", s.Query)
	case Exists:
		return fmt.Sprintf("(%sEXISTS (%s))", not, s.Query)
	case In:
		return fmt.Sprintf("(%s %sIN (%s))", s.Expr, not, s.Query)
	default:
		panic(fmt.Sprintf("unexpected subquery op; got %v", s.Op))
	}
}

func (s *Subquery) Equal(e Expr) bool {
	s2, ok := e.(*Subquery)
	if !ok {
		return false
	}
	if s.Op != s2.Op || s.Not != s2.Not || s.Query != s2.Query {
		return false
	}
	if s.Expr == nil || s2.Expr == nil {
		return s.Expr == nil && s2.Expr == nil
	}
	return s.Expr.Equal(s2.Expr)
}

type When struct {
	Cond   Expr
	Result Expr
}

// Case is CASE [Operand] WHEN ... THEN ... [ELSE ...] END; Operand and Else may be nil.
type Case struct {
	Operand Expr
	When    []When
	Else    Expr
}

func (c *Case) String() string {
	var buf strings.Builder
	buf.WriteString("CASE")
	if c.Operand != nil {
		buf.WriteString(" ")
		buf.WriteString(c.Operand.String())
	}
	for _, w := range c.When {
		fmt.Fprintf(&buf, " WHEN %s THEN %s", w.Cond, w.Result)
	}
	if c.Else != nil {
		fmt.Fprintf(&buf, " ELSE %s", c.Else)
	}
	buf.WriteString(" END")
	return buf.String()
}

func equalOrNil(e1, e2 Expr) bool {
	if e1 == nil || e2 == nil {
		return e1 == nil && e2 == nil
	}
	return e1.Equal(e2)
}

func (c *Case) Equal(e Expr) bool {
	c2, ok := e.(*Case)
	if !ok {
		return false
	}
	if !equalOrNil(c.Operand, c2.Operand) || !equalOrNil(c.Else, c2.Else) ||
		len(c.When) != len(c2.When) {

		return false
	}
	for i := range c.When {
		if !c.When[i].Cond.Equal(c2.When[i].Cond) || !c.When[i].Result.Equal(c2.When[i].Result) {
			return false
		}
	}
	return true
}

// Walk calls fn for e and, while fn returns true, for each of its children. The
// contents of subqueries are not walked.
func Walk(e Expr, fn func(e Expr) bool) {
	if e == nil || !fn(e) {
		return
	}

	switch e := e.(type) {
	case *Literal, Ref:
	case *Unary:
		Walk(e.Expr, fn)
	case *Binary:
		Walk(e.Left, fn)
		Walk(e.Right, fn)
	case *Call:
		for _, a := range e.Args {
			Walk(a, fn)
		}
	case *Aggregate:
		Walk(e.Arg, fn)
	case *IsNull:
		Walk(e.Expr, fn)
	case *Between:
		Walk(e.Expr, fn)
		Walk(e.Low, fn)
		Walk(e.High, fn)
	case *InList:
		Walk(e.Expr, fn)
		for _, l := range e.List {
			Walk(l, fn)
		}
	case *Subquery:
		Walk(e.Expr, fn)
	case *Case:
		Walk(e.Operand, fn)
		for _, w := range e.When {
			Walk(w.Cond, fn)
			Walk(w.Result, fn)
		}
		Walk(e.Else, fn)
	default:
		panic(fmt.Sprintf("unexpected type for expr.Expr: %T: %v", e, e))
	}
}

// Aggregates appends each aggregate call in e, not already in aggs, to aggs.
func Aggregates(e Expr, aggs []*Aggregate) []*Aggregate {
	Walk(e,
		func(e Expr) bool {
			a, ok := e.(*Aggregate)
			if !ok {
				return true
			}
			for _, a2 := range aggs {
				if a.Equal(a2) {
					return false
				}
			}
			aggs = append(aggs, a)
			return false
		})
	return aggs
}

func HasAggregate(e Expr) bool {
	return len(Aggregates(e, nil)) > 0
}
