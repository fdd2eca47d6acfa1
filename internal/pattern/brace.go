package pattern

import (
	"fmt"
	"strconv"
	"strings"
)

// expandBraces expands every unescaped {a,b,c} / {1..10..2} / {a..e} group in
// raw, Cartesian-style, and returns every resulting string. A group with a
// single alternative (e.g. "{foo}") is kept as literal text, and a pattern
// with no brace groups expands to itself. Grounded on the
// brace/alternation splitting approach in doublestar's SplitPattern/AddToGlob
// family (find the matching close brace while skipping nested groups,
// recurse into the alternatives) — see other_examples' bazel-gazelle vendor
// copy of doublestar/utils.go for the reference shape.
func expandBraces(raw string) ([]string, error) {
	start := indexUnescaped(raw, '{')
	if start < 0 {
		return []string{raw}, nil
	}

	end, err := matchingBrace(raw, start)
	if err != nil {
		return nil, err
	}

	prefix := raw[:start]
	body := raw[start+1 : end]
	suffix := raw[end+1:]

	alts, err := splitAlternatives(body)
	if err != nil {
		return nil, err
	}

	// A literal group comes back unchanged; expanding prefix+group+suffix
	// again would find the same group forever, so only the suffix recurses.
	if len(alts) == 1 && alts[0] == raw[start:end+1] {
		rest, err := expandBraces(suffix)
		if err != nil {
			return nil, err
		}
		out := make([]string, len(rest))
		for i, r := range rest {
			out[i] = raw[:end+1] + r
		}
		return out, nil
	}

	var out []string
	for _, alt := range alts {
		combined := prefix + alt + suffix
		expanded, err := expandBraces(combined)
		if err != nil {
			return nil, err
		}
		out = append(out, expanded...)
	}
	return out, nil
}

// matchingBrace returns the index of the '{' at start's matching '}',
// accounting for nested groups and escaping.
func matchingBrace(s string, start int) (int, error) {
	depth := 0
	for i := start; i < len(s); i++ {
		switch s[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return i, nil
			}
		}
	}
	return 0, fmt.Errorf("unclosed brace group")
}

// splitAlternatives splits a brace body on top-level unescaped commas,
// unless it parses as a range expression, in which case it expands the
// range instead.
func splitAlternatives(body string) ([]string, error) {
	if rng, ok := parseRange(body); ok {
		return rng, nil
	}

	var parts []string
	depth := 0
	last := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '\\':
			i++
		case '{':
			depth++
		case '}':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, body[last:i])
				last = i + 1
			}
		}
	}
	parts = append(parts, body[last:])

	if len(parts) == 1 {
		// Not a real alternation (e.g. "{foo}") — treat braces as literal.
		return []string{"{" + body + "}"}, nil
	}
	return parts, nil
}

// parseRange recognizes "a..b", "a..b..step" numeric or single-letter
// ranges, per spec §6: {1..5}, {01..03}, {a..e}, {1..10..2}.
func parseRange(body string) ([]string, bool) {
	parts := strings.Split(body, "..")
	if len(parts) != 2 && len(parts) != 3 {
		return nil, false
	}

	if isAlpha(parts[0]) && isAlpha(parts[1]) && len(parts[0]) == 1 && len(parts[1]) == 1 {
		step := 1
		if len(parts) == 3 {
			n, err := strconv.Atoi(parts[2])
			if err != nil || n == 0 {
				return nil, false
			}
			step = n
		}
		return expandAlphaRange(parts[0][0], parts[1][0], step), true
	}

	start, errA := strconv.Atoi(parts[0])
	end, errB := strconv.Atoi(parts[1])
	if errA != nil || errB != nil {
		return nil, false
	}
	step := 1
	if len(parts) == 3 {
		n, err := strconv.Atoi(parts[2])
		if err != nil || n == 0 {
			return nil, false
		}
		step = n
	}
	if step < 0 {
		step = -step
	}
	width := 0
	if hasLeadingZero(parts[0]) || hasLeadingZero(parts[1]) {
		width = len(parts[0])
		if len(parts[1]) > width {
			width = len(parts[1])
		}
	}
	return expandNumRange(start, end, step, width), true
}

func isAlpha(s string) bool {
	if len(s) == 0 {
		return false
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		if !(c >= 'a' && c <= 'z') && !(c >= 'A' && c <= 'Z') {
			return false
		}
	}
	return true
}

func hasLeadingZero(s string) bool {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	return len(s) > 1 && s[0] == '0'
}

func expandAlphaRange(from, to byte, step int) []string {
	var out []string
	if from <= to {
		for c := int(from); c <= int(to); c += step {
			out = append(out, string(rune(c)))
		}
	} else {
		for c := int(from); c >= int(to); c -= step {
			out = append(out, string(rune(c)))
		}
	}
	return out
}

func expandNumRange(start, end, step, width int) []string {
	var out []string
	format := func(n int) string {
		s := strconv.Itoa(n)
		if width == 0 {
			return s
		}
		neg := strings.HasPrefix(s, "-")
		digits := s
		if neg {
			digits = s[1:]
		}
		for len(digits) < width {
			digits = "0" + digits
		}
		if neg {
			return "-" + digits
		}
		return digits
	}
	if start <= end {
		for n := start; n <= end; n += step {
			out = append(out, format(n))
		}
	} else {
		for n := start; n >= end; n -= step {
			out = append(out, format(n))
		}
	}
	return out
}

// indexUnescaped returns the index of the first unescaped occurrence of c.
func indexUnescaped(s string, c byte) int {
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' {
			i++
			continue
		}
		if s[i] == c {
			return i
		}
	}
	return -1
}
