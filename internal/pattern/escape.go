package pattern

import "strings"

const magicChars = "*?[]{}()!@+"

// HasMagic reports whether raw contains any unescaped glob metacharacter,
// per spec §4.1's hasMagic(pattern) helper. Brace groups count as magic
// only when noExt/noBrace don't disable the construct that uses them —
// callers that need option-aware detection should classify the pattern
// instead and inspect its segments. magicalBraces forces a brace group to
// report as magic even when noBrace disables expansion, per spec §3's
// magicalBraces option.
func HasMagic(raw string, noBrace, noExt, magicalBraces bool) bool {
	for i := 0; i < len(raw); i++ {
		c := raw[i]
		switch c {
		case '\\':
			i++
		case '*', '?', '[':
			return true
		case '{', '}':
			if !noBrace || magicalBraces {
				return true
			}
		case '(':
			if !noExt && i > 0 && strings.IndexByte("@+*?!", raw[i-1]) >= 0 {
				return true
			}
		}
	}
	return false
}

// Escape prepends a backslash to every glob metacharacter in s so that
// Compile treats s as a single literal path, mirroring spec §9's decision
// that Escape never escapes '{' or '}' (braces are left for the caller to
// reason about explicitly, matching minimatch's documented behavior).
// Every other magic character — including '(' and ')', per spec §4.1's
// required round-trip set "* ? [ ] ( )" — is escaped so a subsequent
// has_magic check on the escaped string reports false.
func Escape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		c := s[i]
		if strings.IndexByte(magicChars, c) >= 0 && c != '{' && c != '}' {
			b.WriteByte('\\')
		}
		b.WriteByte(c)
	}
	return b.String()
}

// Unescape removes the backslash escaping Escape or a hand-written pattern
// added before any magic character, leaving other backslashes untouched.
func Unescape(s string) string {
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '\\' && i+1 < len(s) && strings.IndexByte(magicChars, s[i+1]) >= 0 {
			i++
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
