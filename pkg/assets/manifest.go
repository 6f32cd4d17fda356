package assets

import (
	"errors"
	"fmt"
	"io/fs"
	"strconv"

	"github.com/ohler55/ojg/jp"
	"github.com/ohler55/ojg/oj"
)

// Manifest file names, in precedence order.
const (
	PrimaryManifest   = "bower.json"
	SecondaryManifest = "package.json"
)

var (
	versionPath = jp.C("version")
	namePath    = jp.C("name")
	mainPath    = jp.C("main")
)

// Manifest is a parsed bower.json or package.json document.
type Manifest struct {
	path string
	doc  map[string]any
}

// ParseManifest parses a manifest document. The document must be a JSON object.
func ParseManifest(name string, data []byte) (*Manifest, error) {
	v, err := oj.Parse(data)
	if err != nil {
		return nil, manifestError(name, err)
	}
	doc, ok := v.(map[string]any)
	if !ok {
		return nil, manifestError(name, fmt.Errorf("document is %T, want object", v))
	}
	return &Manifest{path: name, doc: doc}, nil
}

// LoadManifest reads and parses the manifest at name.
// A missing file returns a nil Manifest and a nil error.
func LoadManifest(fsys fs.FS, name string) (*Manifest, error) {
	data, err := fs.ReadFile(fsys, name)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, rootError(name, err)
	}
	return ParseManifest(name, data)
}

// Path returns the path the manifest was read from, relative to the asset root.
func (m *Manifest) Path() string {
	return m.path
}

// Version returns the "version" field. Numeric versions are formatted as written.
func (m *Manifest) Version() (string, bool) {
	if m == nil {
		return "", false
	}
	switch v := versionPath.First(m.doc).(type) {
	case string:
		return v, v != ""
	case int64:
		return strconv.FormatInt(v, 10), true
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64), true
	}
	return "", false
}

// Name returns the "name" field, or "".
func (m *Manifest) Name() string {
	if m == nil {
		return ""
	}
	s, _ := namePath.First(m.doc).(string)
	return s
}

// Main returns the "main" entries. Bower allows a string or a list of strings.
func (m *Manifest) Main() []string {
	if m == nil {
		return nil
	}
	switch v := mainPath.First(m.doc).(type) {
	case string:
		return []string{v}
	case []any:
		out := make([]string, 0, len(v))
		for _, e := range v {
			if s, ok := e.(string); ok {
				out = append(out, s)
			}
		}
		return out
	}
	return nil
}

// Get evaluates a JSONPath query (e.g. "$.repository.url") against the document.
func (m *Manifest) Get(query string) ([]any, error) {
	x, err := jp.ParseString(query)
	if err != nil {
		return nil, fmt.Errorf("invalid jsonpath %q: %w", query, err)
	}
	if m == nil {
		return nil, nil
	}
	return x.Get(m.doc), nil
}

// Manifests holds the manifests found for one component.
// Either field may be nil.
type Manifests struct {
	Primary   *Manifest
	Secondary *Manifest
}

// ReadManifests reads <component>/bower.json and, when it is absent or declares
// no version, <component>/package.json. Finding neither is not an error.
func ReadManifests(fsys fs.FS, component string) (Manifests, error) {
	var ms Manifests

	primary, err := LoadManifest(fsys, component+"/"+PrimaryManifest)
	if err != nil {
		return Manifests{}, err
	}
	ms.Primary = primary
	if _, ok := primary.Version(); ok {
		return ms, nil
	}

	secondary, err := LoadManifest(fsys, component+"/"+SecondaryManifest)
	if err != nil {
		return Manifests{}, err
	}
	ms.Secondary = secondary
	return ms, nil
}

// Version returns the first declared version, primary manifest first, and the
// file name it came from.
func (ms Manifests) Version() (version string, source VersionSource, ok bool) {
	if v, ok := ms.Primary.Version(); ok {
		return v, SourcePrimary, true
	}
	if v, ok := ms.Secondary.Version(); ok {
		return v, SourceSecondary, true
	}
	return "", "", false
}
