package database

import (
	"fmt"
	"strings"
)

// QueryBuilder converts SQL queries with ? placeholders to dialect-specific format.
type QueryBuilder struct {
	dialect Dialect
}

// NewQueryBuilder creates a new QueryBuilder for the given dialect.
func NewQueryBuilder(dialect Dialect) *QueryBuilder {
	return &QueryBuilder{dialect: dialect}
}

// Build converts a query with ? placeholders to dialect-specific placeholders.
// Question marks inside single-quoted literals are left alone.
//
// Example:
//
//	input:    "SELECT room_type FROM room_info WHERE game_id = ? AND position_x = ?"
//	SQLite:   unchanged
//	Postgres: "SELECT room_type FROM room_info WHERE game_id = $1 AND position_x = $2"
func (qb *QueryBuilder) Build(query string) string {
	if _, ok := qb.dialect.(*SQLiteDialect); ok {
		return query
	}

	var result strings.Builder
	result.Grow(len(query) + 8)
	position := 1
	quoted := false

	for i := 0; i < len(query); i++ {
		switch c := query[i]; {
		case c == '\'':
			quoted = !quoted
			result.WriteByte(c)
		case c == '?' && !quoted:
			result.WriteString(qb.dialect.Placeholder(position))
			position++
		default:
			result.WriteByte(c)
		}
	}

	return result.String()
}

// BuildWithReturning appends a RETURNING clause if the dialect requires it.
// Used for INSERT statements that need the generated id.
func (qb *QueryBuilder) BuildWithReturning(query string, column string) string {
	converted := qb.Build(query)
	if !qb.dialect.SupportsLastInsertID() {
		converted = strings.TrimRight(converted, " \t\n") + qb.dialect.ReturningClause(column)
	}
	return converted
}

// BuildUpsert appends an ON CONFLICT clause to an INSERT so that a row
// colliding on the key columns has the update columns overwritten. Both
// supported databases share this syntax.
func (qb *QueryBuilder) BuildUpsert(insert string, key []string, update []string) string {
	sets := make([]string, len(update))
	for i, col := range update {
		sets[i] = fmt.Sprintf("%s = excluded.%s", col, col)
	}
	query := fmt.Sprintf("%s ON CONFLICT (%s) DO UPDATE SET %s",
		strings.TrimRight(insert, " \t\n"), strings.Join(key, ", "), strings.Join(sets, ", "))
	return qb.Build(query)
}
