package postgres

import (
	"strconv"
	"strings"
)

type predicateKind int

const (
	kindCompare predicateKind = iota
	kindEqualFold
	kindContains
	kindInArray
	kindExpr
	kindOr
)

// Predicate is one typed WHERE condition. Values only ever travel as bind
// parameters; column names and operators come from the repositories.
type Predicate struct {
	kind   predicateKind
	column string
	op     string
	args   []any
	expr   string
	alts   []Predicate
}

func Eq(column string, v any) Predicate  { return compare(column, "=", v) }
func Gte(column string, v any) Predicate { return compare(column, ">=", v) }
func Lte(column string, v any) Predicate { return compare(column, "<=", v) }

func compare(column, op string, v any) Predicate {
	return Predicate{kind: kindCompare, column: column, op: op, args: []any{v}}
}

// EqualFold matches column against s ignoring case.
func EqualFold(column, s string) Predicate {
	return Predicate{kind: kindEqualFold, column: column, args: []any{s}}
}

// Contains is a case-insensitive substring match with LIKE wildcards escaped.
func Contains(column, s string) Predicate {
	return Predicate{kind: kindContains, column: column, args: []any{"%" + EscapeLike(s) + "%"}}
}

// InArray matches rows whose array column holds v.
func InArray(column string, v any) Predicate {
	return Predicate{kind: kindInArray, column: column, args: []any{v}}
}

// Expr is a fixed SQL fragment whose ? markers become bind parameters.
func Expr(sql string, args ...any) Predicate {
	return Predicate{kind: kindExpr, expr: sql, args: args}
}

func Or(preds ...Predicate) Predicate {
	return Predicate{kind: kindOr, alts: preds}
}

func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// Query accumulates bind parameters and predicates. Placeholders are numbered
// in the order they are rendered, so callers bind select-list values first,
// then render WHERE, then bind LIMIT and OFFSET.
type Query struct {
	args  []any
	where []Predicate
}

func (q *Query) Bind(v any) string {
	q.args = append(q.args, v)
	return "$" + strconv.Itoa(len(q.args))
}

func (q *Query) Where(preds ...Predicate) {
	q.where = append(q.where, preds...)
}

func (q *Query) Args() []any { return q.args }

// WhereSQL renders every predicate joined by AND, or "" when there are none.
func (q *Query) WhereSQL() string {
	if len(q.where) == 0 {
		return ""
	}
	parts := make([]string, 0, len(q.where))
	for _, p := range q.where {
		parts = append(parts, q.render(p))
	}
	return "WHERE " + strings.Join(parts, " AND ")
}

func (q *Query) render(p Predicate) string {
	switch p.kind {
	case kindCompare:
		return p.column + " " + p.op + " " + q.Bind(p.args[0])
	case kindEqualFold:
		return "LOWER(" + p.column + ") = LOWER(" + q.Bind(p.args[0]) + ")"
	case kindContains:
		return p.column + " ILIKE " + q.Bind(p.args[0])
	case kindInArray:
		return q.Bind(p.args[0]) + " = ANY(" + p.column + ")"
	case kindExpr:
		var b strings.Builder
		n := 0
		for _, r := range p.expr {
			if r == '?' && n < len(p.args) {
				b.WriteString(q.Bind(p.args[n]))
				n++
				continue
			}
			b.WriteRune(r)
		}
		return b.String()
	case kindOr:
		parts := make([]string, 0, len(p.alts))
		for _, sub := range p.alts {
			parts = append(parts, q.render(sub))
		}
		return "(" + strings.Join(parts, " OR ") + ")"
	default:
		return "FALSE"
	}
}
