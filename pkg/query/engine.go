// Package query filters the rows of an opened table by field conditions.
// Conditions on scalar integer fields are answered from secondary indexes;
// everything else is a scan.
package query

import (
	"context"
	"fmt"
	"math"
	"sort"
	"strconv"
	"strings"

	"github.com/ssargent/wowformats/pkg/codec"
	"github.com/ssargent/wowformats/pkg/dbc"
	"github.com/ssargent/wowformats/pkg/index"
	"github.com/ssargent/wowformats/pkg/layout"
	"github.com/ssargent/wowformats/pkg/schema"
)

// rows between context checks during a scan
const scanBatch = 1024

// Engine handles query execution
type Engine struct {
	indexes *index.Manager
}

// NewEngine creates a query engine. A nil manager gets a private one.
func NewEngine(indexes *index.Manager) *Engine {
	if indexes == nil {
		indexes = index.NewManager()
	}
	return &Engine{indexes: indexes}
}

// Execute returns the positions of the rows of f matching every condition,
// in file order.
func (e *Engine) Execute(ctx context.Context, f *dbc.File, conditions ...FieldQuery) ([]int, error) {
	if len(conditions) == 0 {
		result := make([]int, f.Len())
		for i := range result {
			result[i] = i
		}
		return result, nil
	}

	var result []int
	for i, q := range conditions {
		rows, err := e.execute(ctx, f, q)
		if err != nil {
			return nil, err
		}
		if i == 0 {
			result = rows
			continue
		}
		result = intersect(result, rows)
	}
	return result, nil
}

func (e *Engine) execute(ctx context.Context, f *dbc.File, q FieldQuery) ([]int, error) {
	if err := q.Validate(); err != nil {
		return nil, fmt.Errorf("invalid query: %w", err)
	}
	lf, ok := f.Layout().Field(q.Field)
	if !ok {
		return nil, fmt.Errorf("invalid query: %s has no field %q", f.Layout(), q.Field)
	}

	if index.Indexable(f, q.Field) && q.Operator != "!=" && q.Operator != "~" {
		return e.executeIndexed(f, lf, q)
	}

	match, err := matcher(lf, q)
	if err != nil {
		return nil, err
	}
	var out []int
	for i := 0; i < f.Len(); i++ {
		if i%scanBatch == 0 {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
		}
		row, err := f.Row(i)
		if err != nil {
			return nil, err
		}
		if match(row) {
			out = append(out, i)
		}
	}
	return out, nil
}

func (e *Engine) executeIndexed(f *dbc.File, lf layout.Field, q FieldQuery) ([]int, error) {
	v, err := indexKey(lf, q.Value)
	if err != nil {
		return nil, err
	}
	idx, err := e.indexes.GetOrBuild(f, q.Field)
	if err != nil {
		return nil, err
	}

	var rows []int
	switch q.Operator {
	case "=":
		rows = idx.Search(v)
	case ">=":
		rows = idx.Above(v)
	case "<=":
		rows = idx.Below(v)
	case ">":
		if v == math.MaxInt64 {
			return nil, nil
		}
		rows = idx.Above(v + 1)
	case "<":
		if v == math.MinInt64 {
			return nil, nil
		}
		rows = idx.Below(v - 1)
	}
	sort.Ints(rows)
	return rows, nil
}

// indexKey parses a condition value as an index key. Index keys of unsigned
// fields never exceed MaxUint32, so larger values clamp to MaxInt64.
func indexKey(lf layout.Field, s string) (int64, error) {
	if lf.Kind.IsSigned() {
		v, err := strconv.ParseInt(s, 0, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid value for %s: %w", lf.Name, err)
		}
		return v, nil
	}
	v, err := strconv.ParseUint(s, 0, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid value for %s: %w", lf.Name, err)
	}
	if v > math.MaxInt64 {
		return math.MaxInt64, nil
	}
	return int64(v), nil
}

// matcher builds a row predicate for fields answered by scanning.
func matcher(lf layout.Field, q FieldQuery) (func(*codec.Row) bool, error) {
	name := q.Field
	switch {
	case lf.Count != 1:
		return nil, fmt.Errorf("invalid query: %s is an array", name)

	case lf.Kind == schema.KindStringRef || lf.Kind == schema.KindLocString:
		switch q.Operator {
		case "=":
			return func(r *codec.Row) bool { return r.String(name) == q.Value }, nil
		case "!=":
			return func(r *codec.Row) bool { return r.String(name) != q.Value }, nil
		case "~":
			needle := strings.ToLower(q.Value)
			return func(r *codec.Row) bool { return strings.Contains(strings.ToLower(r.String(name)), needle) }, nil
		}
		return nil, fmt.Errorf("invalid query: operator %s does not apply to string field %s", q.Operator, name)

	case lf.Kind == schema.KindFloat32:
		v, err := strconv.ParseFloat(q.Value, 32)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		return compare(q.Operator, func(r *codec.Row) float64 { return float64(r.Float32(name)) }, v)

	case lf.Kind.IsSigned():
		v, err := strconv.ParseInt(q.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		return compare(q.Operator, func(r *codec.Row) int64 { return r.Int(name) }, v)

	case lf.Kind.IsInteger():
		v, err := strconv.ParseUint(q.Value, 0, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid value for %s: %w", name, err)
		}
		return compare(q.Operator, func(r *codec.Row) uint64 { return r.Uint(name) }, v)
	}
	return nil, fmt.Errorf("invalid query: %s of kind %s cannot be compared", name, lf.Kind)
}

func compare[T int64 | uint64 | float64](op string, get func(*codec.Row) T, v T) (func(*codec.Row) bool, error) {
	switch op {
	case "=":
		return func(r *codec.Row) bool { return get(r) == v }, nil
	case "!=":
		return func(r *codec.Row) bool { return get(r) != v }, nil
	case ">":
		return func(r *codec.Row) bool { return get(r) > v }, nil
	case "<":
		return func(r *codec.Row) bool { return get(r) < v }, nil
	case ">=":
		return func(r *codec.Row) bool { return get(r) >= v }, nil
	case "<=":
		return func(r *codec.Row) bool { return get(r) <= v }, nil
	}
	return nil, fmt.Errorf("invalid query: operator %s does not apply to numbers", op)
}

// intersect keeps the elements of a that are also in b. Both are sorted.
func intersect(a, b []int) []int {
	out := a[:0:0]
	for i, j := 0, 0; i < len(a) && j < len(b); {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}
