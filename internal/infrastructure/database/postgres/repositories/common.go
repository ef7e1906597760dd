// Package repositories provides the PostgreSQL implementation of the patent
// repository port.
package repositories

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
)

// queryExecutor abstracts sql.DB and sql.Tx
type queryExecutor interface {
	QueryContext(ctx context.Context, query string, args ...interface{}) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...interface{}) *sql.Row
	ExecContext(ctx context.Context, query string, args ...interface{}) (sql.Result, error)
}

// scanner abstracts sql.Row and sql.Rows
type scanner interface {
	Scan(dest ...interface{}) error
}

// predicateBuilder accumulates AND-ed conditions and their bind parameters.
// Placeholders are numbered in the order values are added, so the same
// builder can keep appending LIMIT/OFFSET after the WHERE clause is rendered.
type predicateBuilder struct {
	conditions []string
	args       []interface{}
}

// arg binds v and returns its placeholder.
func (b *predicateBuilder) arg(v interface{}) string {
	b.args = append(b.args, v)
	return fmt.Sprintf("$%d", len(b.args))
}

// and appends a condition built from already bound placeholders.
func (b *predicateBuilder) and(cond string) {
	b.conditions = append(b.conditions, cond)
}

// contains binds a case-insensitive substring pattern and returns
// "col ILIKE $n" for every column, OR-ed.
func (b *predicateBuilder) contains(value string, columns ...string) {
	ph := b.arg("%" + escapeLike(value) + "%")
	parts := make([]string, len(columns))
	for i, col := range columns {
		parts[i] = fmt.Sprintf(`%s ILIKE %s ESCAPE '\'`, col, ph)
	}
	if len(parts) == 1 {
		b.and(parts[0])
		return
	}
	b.and("(" + strings.Join(parts, " OR ") + ")")
}

// where renders " WHERE ..." or the empty string.
func (b *predicateBuilder) where() string {
	if len(b.conditions) == 0 {
		return ""
	}
	return " WHERE " + strings.Join(b.conditions, " AND ")
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// escapeLike makes LIKE metacharacters in s match literally.
func escapeLike(s string) string {
	return likeEscaper.Replace(s)
}

//Personal.AI order the ending
