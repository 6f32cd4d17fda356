package assets

import (
	"path"
	"strings"
)

// minMarker identifies a filename that is already minified.
const minMarker = ".min."

// MinifiedName returns the minified sibling name for filename, splitting on the
// last extension of the base name: "dist/app.js" becomes "dist/app.min.js".
// It reports false when filename already contains ".min." or has no extension.
func MinifiedName(filename string) (string, bool) {
	if strings.Contains(filename, minMarker) {
		return filename, false
	}
	dir, base := path.Split(filename)
	i := strings.LastIndexByte(base, '.')
	if i <= 0 {
		return filename, false
	}
	return dir + base[:i] + ".min" + base[i:], true
}
