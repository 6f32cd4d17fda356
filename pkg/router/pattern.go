package router

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// segment is one "/"-separated element of a route pattern.
type segment struct {
	// literal is the text of a static segment.
	literal string

	// param is the parameter name ({name} or {name...}).
	param string

	// catchAll indicates the parameter matches the rest of the path.
	catchAll bool
}

func (s segment) isParam() bool {
	return s.param != ""
}

// pattern is a parsed route pattern such as "/bower/{component}/{filename...}".
type pattern struct {
	raw      string
	segments []segment
}

func parsePattern(raw string) (*pattern, error) {
	if !strings.HasPrefix(raw, "/") {
		return nil, fmt.Errorf("router: pattern %q must start with /", raw)
	}

	p := &pattern{raw: raw}
	seen := make(map[string]bool)
	parts := splitPath(raw)
	for i, part := range parts {
		if !strings.HasPrefix(part, "{") {
			if strings.ContainsAny(part, "{}*") {
				return nil, fmt.Errorf("router: pattern %q: malformed segment %q", raw, part)
			}
			p.segments = append(p.segments, segment{literal: part})
			continue
		}
		if !strings.HasSuffix(part, "}") {
			return nil, fmt.Errorf("router: pattern %q: unterminated parameter %q", raw, part)
		}

		name := part[1 : len(part)-1]
		seg := segment{param: name}
		if n, ok := strings.CutSuffix(name, "..."); ok {
			if i != len(parts)-1 {
				return nil, fmt.Errorf("router: pattern %q: catch-all {%s} must be last", raw, name)
			}
			seg.param, seg.catchAll = n, true
		}
		if seg.param == "" || seg.param == "*" || strings.ContainsAny(seg.param, "{}/:") {
			return nil, fmt.Errorf("router: pattern %q: invalid parameter name %q", raw, name)
		}
		if seen[seg.param] {
			return nil, fmt.Errorf("router: pattern %q: duplicate parameter %q", raw, seg.param)
		}
		seen[seg.param] = true
		p.segments = append(p.segments, seg)
	}
	return p, nil
}

// chiPattern translates the pattern to chi syntax. A catch-all becomes "*".
func (p *pattern) chiPattern() string {
	var b strings.Builder
	for _, s := range p.segments {
		b.WriteByte('/')
		switch {
		case s.catchAll:
			b.WriteByte('*')
		case s.isParam():
			b.WriteString("{" + s.param + "}")
		default:
			b.WriteString(s.literal)
		}
	}
	if b.Len() == 0 {
		return "/"
	}
	return b.String()
}

// hasParam reports whether name is one of the pattern's parameters.
func (p *pattern) hasParam(name string) bool {
	for _, s := range p.segments {
		if s.param == name {
			return true
		}
	}
	return false
}

// build substitutes values into the pattern. Each path segment is escaped;
// a catch-all keeps its slashes.
func (p *pattern) build(values Values) (string, error) {
	var b strings.Builder
	for _, s := range p.segments {
		b.WriteByte('/')
		if !s.isParam() {
			b.WriteString(s.literal)
			continue
		}

		v, ok := values[s.param]
		if !ok || v == "" {
			return "", fmt.Errorf("%w: %s", ErrMissingParam, s.param)
		}
		if !s.catchAll {
			if strings.Contains(v, "/") {
				return "", fmt.Errorf("%w: %s contains a slash", ErrInvalidParam, s.param)
			}
			b.WriteString(url.PathEscape(v))
			continue
		}
		for i, part := range strings.Split(v, "/") {
			if i > 0 {
				b.WriteByte('/')
			}
			b.WriteString(url.PathEscape(part))
		}
	}
	if b.Len() == 0 {
		return "/", nil
	}
	return b.String(), nil
}

// Request path errors.
var (
	ErrInvalidPercentEscape  = errors.New("invalid percent escape sequence")
	ErrEncodedSlashInSegment = errors.New("encoded slash (%2F) in non-catch-all segment")
)

// decodeSegment decodes a matched parameter value. Outside a catch-all an
// encoded slash is rejected: it would let one segment address two.
func decodeSegment(raw string, catchAll bool) (string, error) {
	decoded, err := url.PathUnescape(raw)
	if err != nil {
		return "", ErrInvalidPercentEscape
	}
	if !catchAll && strings.Contains(decoded, "/") {
		return "", ErrEncodedSlashInSegment
	}
	return decoded, nil
}

// CleanPrefix normalizes a mount prefix: a leading slash is added, repeated
// slashes are collapsed and the trailing slash is removed. The root prefix
// becomes "". Prefixes containing a backslash, a NUL byte, "." or ".."
// segments, or pattern syntax are rejected.
func CleanPrefix(prefix string) (string, error) {
	if strings.ContainsAny(prefix, "\\\x00{}*?#") {
		return "", fmt.Errorf("router: invalid prefix %q", prefix)
	}
	parts := splitPath(prefix)
	for _, part := range parts {
		if part == "." || part == ".." {
			return "", fmt.Errorf("router: prefix %q contains a dot segment", prefix)
		}
	}
	if len(parts) == 0 {
		return "", nil
	}
	return "/" + strings.Join(parts, "/"), nil
}

// splitPath splits a path into its non-empty segments.
func splitPath(path string) []string {
	return strings.FieldsFunc(path, func(r rune) bool { return r == '/' })
}
