package mc

import (
	"fmt"
	"regexp"
	"strings"
)

var colonSpacing = regexp.MustCompile(`\s*:\s*`)

// CleanLine strips the line comment (everything from the first
// unescaped ';') and surrounding whitespace.
func CleanLine(raw string) string {
	for i := 0; i < len(raw); i++ {
		if raw[i] == ';' && (i == 0 || raw[i-1] != '\\') {
			raw = raw[:i]
			break
		}
	}
	return strings.TrimSpace(raw)
}

// SplitAssignments flattens a multi-line header block into key=value
// pairs. The format allows newlines and arbitrary spacing around '='
// and ':', so the block is joined into one line, colon spacing is
// collapsed, and the text is re-tokenized around '=' before pairing.
func SplitAssignments(lines []string) ([]string, error) {
	joined := colonSpacing.ReplaceAllString(strings.Join(lines, " "), ":")
	var tokens []string
	for _, part := range strings.Split(joined, "=") {
		tokens = append(tokens, strings.Fields(part)...)
	}
	if len(tokens)%2 != 0 {
		return nil, fmt.Errorf("%w: %d tokens cannot pair into assignments", ErrMalformedBlock, len(tokens))
	}
	pairs := make([]string, 0, len(tokens)/2)
	for i := 0; i < len(tokens); i += 2 {
		pairs = append(pairs, tokens[i]+"="+tokens[i+1])
	}
	return pairs, nil
}
