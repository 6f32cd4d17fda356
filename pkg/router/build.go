package router

import (
	"errors"
	"fmt"
	"maps"
)

// Values are the arguments of a URL build. Keys naming a pattern parameter
// fill the path; every other key becomes a query parameter.
type Values map[string]string

// Clone returns a copy of v that can be modified freely.
func (v Values) Clone() Values {
	if v == nil {
		return Values{}
	}
	return maps.Clone(v)
}

// Build failure causes. A *BuildError unwraps to one of these or to the error
// a caller wrapped in it.
var (
	ErrUnknownEndpoint = errors.New("unknown endpoint")
	ErrMissingParam    = errors.New("missing route parameter")
	ErrInvalidParam    = errors.New("invalid route parameter")
)

// BuildError reports that no URL could be built for an endpoint.
type BuildError struct {
	Endpoint string
	Values   Values
	Err      error
}

// NewBuildError returns a build error for endpoint caused by err.
func NewBuildError(endpoint string, values Values, err error) *BuildError {
	return &BuildError{Endpoint: endpoint, Values: values, Err: err}
}

func (e *BuildError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("could not build url for endpoint %q", e.Endpoint)
	}
	return fmt.Sprintf("could not build url for endpoint %q: %v", e.Endpoint, e.Err)
}

func (e *BuildError) Unwrap() error {
	return e.Err
}

// Resolution is the outcome of a Strategy: either a resolved URL or
// NotApplicable.
type Resolution struct {
	url      string
	resolved bool
}

// NotApplicable passes the build to the next strategy in the chain.
var NotApplicable = Resolution{}

// Resolved ends the chain with url.
func Resolved(url string) Resolution {
	return Resolution{url: url, resolved: true}
}

// URL returns the resolved URL and whether the resolution carries one.
func (r Resolution) URL() (string, bool) {
	return r.url, r.resolved
}

// Strategy tries to produce a URL for endpoint. A non-nil error aborts the
// whole chain and is returned from URLFor as is.
type Strategy func(endpoint string, values Values) (Resolution, error)
