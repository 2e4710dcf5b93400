package expr

import (
	"fmt"

	"github.com/woojinnn/gluesql/sql"
)

type Aggregator interface {
	Accumulate(vals []sql.Value) error
	Total() (sql.Value, error)
}

type MakeAggregator func() Aggregator

var aggFuncs = map[sql.Identifier]MakeAggregator{
	sql.AVG:       makeAvgAggregator,
	sql.COUNT:     makeCountAggregator,
	sql.COUNT_ALL: makeCountAllAggregator,
	sql.MAX:       makeMaxAggregator,
	sql.MIN:       makeMinAggregator,
	sql.SUM:       makeSumAggregator,
}

// IsAggregate returns true if name is an aggregate function.
func IsAggregate(name sql.Identifier) bool {
	_, ok := aggFuncs[name]
	return ok
}

// NewAggregator returns a fresh aggregator for a; the values passed to Accumulate are the
// evaluated argument of a, or a single NULL for COUNT(*).
func NewAggregator(a *Aggregate) (Aggregator, error) {
	name := a.Func
	if a.Arg == nil {
		if name != sql.COUNT {
			return nil, fmt.Errorf("expr: function \"%s\": minimum 1 arguments got 0", name)
		}
		name = sql.COUNT_ALL
	}
	maker, ok := aggFuncs[name]
	if !ok {
		return nil, fmt.Errorf("expr: aggregate function \"%s\" not found", a.Func)
	}
	return maker(), nil
}

type avgAggregator struct {
	sumAggregator
	count sql.Int64Value
}

func (aa *avgAggregator) Accumulate(vals []sql.Value) error {
	if vals[0] != nil {
		aa.count += 1
	}
	return aa.sumAggregator.Accumulate(vals)
}

func (aa *avgAggregator) Total() (sql.Value, error) {
	if aa.nonNull {
		switch s := aa.sum.(type) {
		case sql.Float64Value:
			return s / sql.Float64Value(aa.count), nil
		case sql.Int64Value:
			if s%aa.count == 0 {
				return s / aa.count, nil
			}
			return sql.Float64Value(s) / sql.Float64Value(aa.count), nil
		}
	}
	return nil, nil
}

func makeAvgAggregator() Aggregator {
	return &avgAggregator{}
}

type countAggregator struct {
	count int64
}

func (ca *countAggregator) Accumulate(vals []sql.Value) error {
	if vals[0] != nil {
		ca.count += 1
	}
	return nil
}

func (ca *countAggregator) Total() (sql.Value, error) {
	return sql.Int64Value(ca.count), nil
}

func makeCountAggregator() Aggregator {
	return &countAggregator{}
}

type countAllAggregator struct {
	count int64
}

func (caa *countAllAggregator) Accumulate(vals []sql.Value) error {
	caa.count += 1
	return nil
}

func (caa *countAllAggregator) Total() (sql.Value, error) {
	return sql.Int64Value(caa.count), nil
}

func makeCountAllAggregator() Aggregator {
	return &countAllAggregator{}
}

// extremeAggregator keeps the smallest (or largest) non-NULL value of any comparable type.
type extremeAggregator struct {
	val  sql.Value
	want int
}

func (ea *extremeAggregator) Accumulate(vals []sql.Value) error {
	if vals[0] == nil {
		return nil
	}
	if ea.val == nil {
		ea.val = vals[0]
		return nil
	}

	cmp, err := vals[0].Compare(ea.val)
	if err != nil {
		return err
	}
	if cmp == ea.want {
		ea.val = vals[0]
	}
	return nil
}

func (ea *extremeAggregator) Total() (sql.Value, error) {
	return ea.val, nil
}

func makeMaxAggregator() Aggregator {
	return &extremeAggregator{want: 1}
}

func makeMinAggregator() Aggregator {
	return &extremeAggregator{want: -1}
}

type sumAggregator struct {
	sum     sql.Value
	nonNull bool
}

func (sa *sumAggregator) add(v2 sql.Value) error {
	switch v1 := sa.sum.(type) {
	case sql.Int64Value:
		switch v2 := v2.(type) {
		case sql.Int64Value:
			s := v1 + v2
			if (s > v1) != (v2 > 0) {
				return fmt.Errorf("expr: sum aggregator integer overflow: %d %d", v1, v2)
			}
			sa.sum = s
			return nil
		case sql.Float64Value:
			sa.sum = sql.Float64Value(v1) + v2
			return nil
		}
	case sql.Float64Value:
		switch v2 := v2.(type) {
		case sql.Int64Value:
			sa.sum = v1 + sql.Float64Value(v2)
			return nil
		case sql.Float64Value:
			sa.sum = v1 + v2
			return nil
		}
	default:
		panic(fmt.Sprintf("sql.Value must be a number: %T: %v", v1, v1))
	}
	return fmt.Errorf("expr: want number got %v", v2)
}

func (sa *sumAggregator) Accumulate(vals []sql.Value) error {
	switch vals[0].(type) {
	case nil:
		return nil
	case sql.Float64Value, sql.Int64Value:
		if sa.nonNull {
			return sa.add(vals[0])
		}
		sa.sum = vals[0]
		sa.nonNull = true
		return nil
	}
	return fmt.Errorf("expr: want number got %v", vals[0])
}

func (sa *sumAggregator) Total() (sql.Value, error) {
	if sa.nonNull {
		return sa.sum, nil
	}
	return nil, nil
}

func makeSumAggregator() Aggregator {
	return &sumAggregator{}
}
