package googlebooks

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestValidateQuery(t *testing.T) {
	tests := []struct {
		name  string
		query string
		want  bool
	}{
		{"simple query", "python programming", true},
		{"minimum length", "go", true},
		{"maximum length", strings.Repeat("a", 500), true},
		{"empty", "", false},
		{"whitespace only", "   ", false},
		{"single char", "a", false},
		{"single char padded", " a ", false},
		{"too long", strings.Repeat("a", 501), false},
		{"angle brackets", "dune <script>", false},
		{"closing bracket", "dune>", false},
		{"braces", "{dune}", false},
		{"backslash", `dune\`, false},
		{"backtick", "dune`", false},
		{"newline", "dune\nherbert", false},
		{"carriage return", "dune\rherbert", false},
		{"tab", "dune\therbert", false},
		{"unicode", "世界の文学", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			require.Equal(t, tt.want, ValidateQuery(tt.query))
		})
	}
}

func TestCleanISBN(t *testing.T) {
	const want = "9780132350884"

	inputs := []string{
		"9780132350884",
		"978-0-13-235088-4",
		"978 0 13 235088 4",
		"978- 0-13-235088-4",
	}
	for _, input := range inputs {
		require.Equal(t, want, CleanISBN(input), "input %q", input)
	}
}

func TestValidISBNLength(t *testing.T) {
	require.True(t, ValidISBNLength("0132350882"))
	require.True(t, ValidISBNLength("9780132350884"))
	require.False(t, ValidISBNLength("12345"))
	require.False(t, ValidISBNLength(""))
	require.False(t, ValidISBNLength("97801323508840"))
}
