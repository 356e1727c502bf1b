package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestArgs(t *testing.T) {
	var a Args
	assert.Equal(t, "$1", a.Add("x"))
	assert.Equal(t, "$2", a.Add(2))
	assert.Equal(t, 2, a.Len())
	assert.Equal(t, []any{"x", 2}, a.Values())
}

func TestContainsPattern(t *testing.T) {
	tests := map[string]string{
		"go":      "%go%",
		"100%":    `%100\%%`,
		"snake_c": `%snake\_c%`,
		`a\b`:     `%a\\b%`,
	}
	for in, want := range tests {
		assert.Equal(t, want, ContainsPattern(in), in)
	}
}

func TestJoin(t *testing.T) {
	assert.Equal(t, "a AND b", JoinWithAnd([]string{"a", "b"}))
	assert.Equal(t, "a OR b", JoinWithOr([]string{"a", "b"}))
	assert.Equal(t, "", JoinWithAnd(nil))
}
