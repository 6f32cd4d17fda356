package assets

import "strings"

// ValidateParameter rejects a component name or filename that could escape
// the asset root: any ".." sequence, a leading slash or backslash, a drive
// letter such as "C:", or a NUL byte.
func ValidateParameter(param string) error {
	switch {
	case strings.Contains(param, ".."),
		strings.HasPrefix(param, "/"),
		strings.HasPrefix(param, `\`),
		strings.IndexByte(param, 0) != -1,
		hasVolumeName(param):
		return pathViolation(param)
	}
	return nil
}

func hasVolumeName(p string) bool {
	if len(p) < 2 || p[1] != ':' {
		return false
	}
	c := p[0]
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
