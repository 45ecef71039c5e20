package rendering

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEscapeLaTeX(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", "", ""},
		{"plain", "This is normal text with no special characters", "This is normal text with no special characters"},
		{"backslash", `test\backslash`, `test\textbackslash{}backslash`},
		{"braces", "text{with}braces", `text\{with\}braces`},
		{"dollar", "cost $100", `cost \$100`},
		{"ampersand", "A & B", `A \& B`},
		{"percent", "100% complete", `100\% complete`},
		{"hash", "issue #123", `issue \#123`},
		{"caret", "x^2", `x\textasciicircum{}2`},
		{"underscore", "variable_name", `variable\_name`},
		{"tilde", "~approx", `\textasciitilde{}approx`},
		{"angle brackets", "<html>", `\textless{}html\textgreater{}`},
		{"pipe", "Go | Rust", `Go \textbar{} Rust`},
		{"all together", `${}~&%#^_\`, `\$\{\}\textasciitilde{}\&\%\#\textasciicircum{}\_\textbackslash{}`},
		{"unicode passes through", "résumé with unicode: α β γ", "résumé with unicode: α β γ"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EscapeLaTeX(tt.in))
		})
	}
}

func TestEscapeLaTeX_ResumeBullet(t *testing.T) {
	result := EscapeLaTeX("Built system handling $1M+ requests/day with 99.9% uptime")
	assert.Contains(t, result, `\$1M`)
	assert.Contains(t, result, `99.9\%`)
	assert.Contains(t, result, "requests/day")
}
