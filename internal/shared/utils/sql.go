package utils

import (
	"fmt"
	"strings"
)

// JoinWithAnd joins a slice of strings with AND operator
func JoinWithAnd(clauses []string) string {
	return strings.Join(clauses, " AND ")
}

// JoinWithOr joins a slice of strings with OR operator
func JoinWithOr(clauses []string) string {
	return strings.Join(clauses, " OR ")
}

// Args accumulates positional query parameters ($1, $2, ...).
type Args struct {
	values []any
}

// Add appends v and returns its placeholder.
func (a *Args) Add(v any) string {
	a.values = append(a.values, v)
	return fmt.Sprintf("$%d", len(a.values))
}

func (a *Args) Values() []any {
	return a.values
}

func (a *Args) Len() int {
	return len(a.values)
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// EscapeLike neutralises LIKE wildcards so user input matches literally.
func EscapeLike(s string) string {
	return likeEscaper.Replace(s)
}

// ContainsPattern is the (I)LIKE pattern for a literal substring match.
func ContainsPattern(s string) string {
	return "%" + EscapeLike(s) + "%"
}
