// Package querybuilder renders small Postgres statements with $n placeholders.
package querybuilder

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

var (
	errNoTable   = errors.New("querybuilder: table is required")
	errNoColumns = errors.New("querybuilder: columns are required")
)

// binder accumulates positional arguments while a statement is rendered.
type binder struct {
	sb   strings.Builder
	args []any
}

func (b *binder) bind(v any) {
	b.args = append(b.args, v)
	b.sb.WriteString("$")
	b.sb.WriteString(strconv.Itoa(len(b.args)))
}

// expr copies fragment, binding each '?' to the next arg in order.
func (b *binder) expr(fragment string, args []any) {
	next := 0
	for i := 0; i < len(fragment); i++ {
		if fragment[i] == '?' && next < len(args) {
			b.bind(args[next])
			next++
			continue
		}
		b.sb.WriteByte(fragment[i])
	}
}

func (b *binder) where(conds []Condition) {
	if len(conds) == 0 {
		return
	}
	b.sb.WriteString(" WHERE ")
	for i, c := range conds {
		if i > 0 {
			b.sb.WriteString(" AND ")
		}
		c.render(b)
	}
}

type Condition interface {
	render(b *binder)
}

type condFunc func(b *binder)

func (f condFunc) render(b *binder) { f(b) }

func Eq(column string, value any) Condition {
	return condFunc(func(b *binder) {
		b.sb.WriteString(column)
		b.sb.WriteString(" = ")
		b.bind(value)
	})
}

// In renders "1=0" for an empty set so the statement stays valid.
func In[T any](column string, values []T) Condition {
	return condFunc(func(b *binder) {
		if len(values) == 0 {
			b.sb.WriteString("1=0")
			return
		}
		b.sb.WriteString(column)
		b.sb.WriteString(" IN (")
		for i, v := range values {
			if i > 0 {
				b.sb.WriteString(", ")
			}
			b.bind(v)
		}
		b.sb.WriteString(")")
	})
}

func IsNull(column string) Condition {
	return condFunc(func(b *binder) {
		b.sb.WriteString(column)
		b.sb.WriteString(" IS NULL")
	})
}

func Expr(fragment string, args ...any) Condition {
	return condFunc(func(b *binder) { b.expr(fragment, args) })
}

type SelectBuilder struct {
	columns []string
	table   string
	where   []Condition
	orderBy []string
	limit   int
}

func Select(columns ...string) *SelectBuilder {
	return &SelectBuilder{columns: append([]string(nil), columns...)}
}

func (q *SelectBuilder) From(table string) *SelectBuilder {
	q.table = table
	return q
}

func (q *SelectBuilder) Where(conds ...Condition) *SelectBuilder {
	q.where = append(q.where, conds...)
	return q
}

func (q *SelectBuilder) OrderBy(parts ...string) *SelectBuilder {
	q.orderBy = append(q.orderBy, parts...)
	return q
}

func (q *SelectBuilder) Limit(n int) *SelectBuilder {
	q.limit = n
	return q
}

func (q *SelectBuilder) ToSQL() (string, []any, error) {
	if len(q.columns) == 0 {
		return "", nil, errNoColumns
	}
	if strings.TrimSpace(q.table) == "" {
		return "", nil, errNoTable
	}

	var b binder
	b.sb.WriteString("SELECT ")
	b.sb.WriteString(strings.Join(q.columns, ", "))
	b.sb.WriteString(" FROM ")
	b.sb.WriteString(q.table)
	b.where(q.where)
	if len(q.orderBy) > 0 {
		b.sb.WriteString(" ORDER BY ")
		b.sb.WriteString(strings.Join(q.orderBy, ", "))
	}
	if q.limit > 0 {
		b.sb.WriteString(" LIMIT ")
		b.sb.WriteString(strconv.Itoa(q.limit))
	}
	return b.sb.String(), b.args, nil
}

type InsertBuilder struct {
	table   string
	columns []string
	values  []any
	suffix  string
	args    []any
}

func InsertInto(table string) *InsertBuilder {
	return &InsertBuilder{table: table}
}

func (q *InsertBuilder) Columns(columns ...string) *InsertBuilder {
	q.columns = append([]string(nil), columns...)
	return q
}

func (q *InsertBuilder) Values(values ...any) *InsertBuilder {
	q.values = append([]any(nil), values...)
	return q
}

// Suffix appends a trailing clause such as ON CONFLICT or RETURNING.
func (q *InsertBuilder) Suffix(fragment string, args ...any) *InsertBuilder {
	q.suffix = strings.TrimSpace(fragment)
	q.args = args
	return q
}

func (q *InsertBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(q.table) == "" {
		return "", nil, errNoTable
	}
	if len(q.columns) == 0 {
		return "", nil, errNoColumns
	}
	if len(q.values) != len(q.columns) {
		return "", nil, fmt.Errorf("querybuilder: %d values for %d columns", len(q.values), len(q.columns))
	}

	var b binder
	b.sb.WriteString("INSERT INTO ")
	b.sb.WriteString(q.table)
	b.sb.WriteString(" (")
	b.sb.WriteString(strings.Join(q.columns, ", "))
	b.sb.WriteString(") VALUES (")
	for i, v := range q.values {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.bind(v)
	}
	b.sb.WriteString(")")
	if q.suffix != "" {
		b.sb.WriteString(" ")
		b.expr(q.suffix, q.args)
	}
	return b.sb.String(), b.args, nil
}

type assignment struct {
	column string
	value  any
	expr   string
	args   []any
}

type UpdateBuilder struct {
	table string
	sets  []assignment
	where []Condition
}

func Update(table string) *UpdateBuilder {
	return &UpdateBuilder{table: table}
}

func (q *UpdateBuilder) Set(column string, value any) *UpdateBuilder {
	q.sets = append(q.sets, assignment{column: column, value: value})
	return q
}

func (q *UpdateBuilder) SetExpr(column, fragment string, args ...any) *UpdateBuilder {
	q.sets = append(q.sets, assignment{column: column, expr: fragment, args: args})
	return q
}

func (q *UpdateBuilder) Where(conds ...Condition) *UpdateBuilder {
	q.where = append(q.where, conds...)
	return q
}

func (q *UpdateBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(q.table) == "" {
		return "", nil, errNoTable
	}
	if len(q.sets) == 0 {
		return "", nil, errNoColumns
	}

	var b binder
	b.sb.WriteString("UPDATE ")
	b.sb.WriteString(q.table)
	b.sb.WriteString(" SET ")
	for i, s := range q.sets {
		if i > 0 {
			b.sb.WriteString(", ")
		}
		b.sb.WriteString(s.column)
		b.sb.WriteString(" = ")
		if s.expr != "" {
			b.expr(s.expr, s.args)
			continue
		}
		b.bind(s.value)
	}
	b.where(q.where)
	return b.sb.String(), b.args, nil
}

type DeleteBuilder struct {
	table string
	where []Condition
}

func DeleteFrom(table string) *DeleteBuilder {
	return &DeleteBuilder{table: table}
}

func (q *DeleteBuilder) Where(conds ...Condition) *DeleteBuilder {
	q.where = append(q.where, conds...)
	return q
}

func (q *DeleteBuilder) ToSQL() (string, []any, error) {
	if strings.TrimSpace(q.table) == "" {
		return "", nil, errNoTable
	}
	if len(q.where) == 0 {
		return "", nil, errors.New("querybuilder: delete without where")
	}

	var b binder
	b.sb.WriteString("DELETE FROM ")
	b.sb.WriteString(q.table)
	b.where(q.where)
	return b.sb.String(), b.args, nil
}
