package assets

import (
	"errors"

	bowererrors "github.com/vango-dev/bower/internal/errors"
)

// Resolution errors. Returned errors wrap one of these; match with errors.Is.
var (
	// ErrPathViolation reports a component or filename that tries to leave
	// the asset root. No filesystem access happens before it is returned.
	ErrPathViolation = errors.New("path escapes asset root")

	// ErrAssetNotFound reports a missing component directory or file.
	ErrAssetNotFound = errors.New("asset not found")

	// ErrManifestParse reports a bower.json or package.json that is not a
	// valid JSON object.
	ErrManifestParse = errors.New("malformed manifest")
)

func pathViolation(param string) error {
	return bowererrors.New("B001").
		WithDetail(param).
		Wrap(ErrPathViolation)
}

func notFound(name string) error {
	return bowererrors.New("B002").
		WithDetail(name).
		Wrap(ErrAssetNotFound)
}

func manifestError(name string, err error) error {
	return bowererrors.New("B003").
		WithDetail(name + ": " + err.Error()).
		WithSuggestion("Reinstall the component to restore its manifest").
		Wrap(errors.Join(ErrManifestParse, err))
}

func rootError(name string, err error) error {
	return bowererrors.New("B004").
		WithDetail(name).
		Wrap(err)
}
