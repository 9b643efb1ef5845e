package services

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/custodia-labs/confclone/internal/core/domain"
)

// dollarGroupRef matches $1-style group references, which are rejected.
var dollarGroupRef = regexp.MustCompile(`\$\d+`)

// ValidateReplacement rejects replacements using $N group syntax.
// Only \N, \g<N> and \g<name> references are accepted.
func ValidateReplacement(replacement string) error {
	if dollarGroupRef.MatchString(replacement) {
		return fmt.Errorf("%w: %q", domain.ErrInvalidReplacement, replacement)
	}
	return nil
}

// Substitution is a compiled pattern/replacement pair applied to titles and bodies.
// A nil *Substitution applies no change.
type Substitution struct {
	re       *regexp.Regexp
	template string
}

// CompileSubstitution validates and compiles a substitution.
// It returns nil, nil when pattern is empty.
func CompileSubstitution(pattern, replacement string) (*Substitution, error) {
	if pattern == "" {
		return nil, nil
	}
	if err := ValidateReplacement(replacement); err != nil {
		return nil, err
	}
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", domain.ErrInvalidPattern, err)
	}
	return &Substitution{re: re, template: expandTemplate(replacement)}, nil
}

// Apply replaces every match of the pattern in s.
func (s *Substitution) Apply(text string) string {
	if s == nil {
		return text
	}
	return s.re.ReplaceAllString(text, s.template)
}

// expandTemplate rewrites backslash group references into regexp template syntax.
// Literal dollars are escaped so only the translated references expand.
func expandTemplate(replacement string) string {
	var b strings.Builder
	b.Grow(len(replacement) + 8)

	for i := 0; i < len(replacement); i++ {
		c := replacement[i]
		switch {
		case c == '$':
			b.WriteString("$$")
		case c == '\\' && i+1 < len(replacement):
			i += writeEscape(&b, replacement[i+1:])
		default:
			b.WriteByte(c)
		}
	}
	return b.String()
}

// writeEscape writes the expansion of the escape following a backslash
// and returns how many bytes of rest it consumed.
func writeEscape(b *strings.Builder, rest string) int {
	c := rest[0]
	switch {
	case isDigit(c):
		n := 1
		if len(rest) > 1 && isDigit(rest[1]) {
			n = 2
		}
		fmt.Fprintf(b, "${%s}", rest[:n])
		return n
	case c == 'g' && len(rest) > 1 && rest[1] == '<':
		end := strings.IndexByte(rest, '>')
		if end > 2 {
			fmt.Fprintf(b, "${%s}", rest[2:end])
			return end + 1
		}
		b.WriteString(`\g`)
		return 1
	case c == '\\':
		b.WriteByte('\\')
	case c == 'n':
		b.WriteByte('\n')
	case c == 't':
		b.WriteByte('\t')
	case c == 'r':
		b.WriteByte('\r')
	case c == '$':
		b.WriteString(`\$$`)
	default:
		b.WriteByte('\\')
		b.WriteByte(c)
	}
	return 1
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
