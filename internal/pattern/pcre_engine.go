package pattern

import "go.elara.ws/pcre"

// pcreSegment wraps a compiled PCRE2 regex (via the pure-Go go.elara.ws/pcre
// engine) for the one construct RE2 cannot express: the negative-lookahead
// translation of a "!(...)" extglob. Grounded on the teacher's
// internal/matcher/pcre.go, which reaches for the same library whenever a
// pattern needs backreferences or lookaround that RE2 refuses to compile.
type pcreSegment struct {
	re *pcre.Regexp
}

func compilePCRE(body string, ignoreCase bool) (*pcreSegment, error) {
	var opts pcre.CompileOption
	if ignoreCase {
		opts |= pcre.Caseless
	}
	re, err := pcre.CompileOpts("^(?:"+body+")$", opts)
	if err != nil {
		return nil, err
	}
	return &pcreSegment{re: re}, nil
}

func (p *pcreSegment) Match(b []byte) bool {
	return p.re.Match(b)
}

func (p *pcreSegment) Close() {
	if p.re != nil {
		p.re.Close()
	}
}
