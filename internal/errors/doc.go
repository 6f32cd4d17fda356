// Package errors provides structured, actionable error messages for bower.
//
// Errors carry a registered code, a category, and optional detail and hints,
// and keep the underlying cause available to errors.Is and errors.As:
//
//	err := errors.New("B002").
//	    WithDetail("jquery/dist/jquery.js does not exist").
//	    Wrap(assets.ErrAssetNotFound)
//
//	errors.Is(err, assets.ErrAssetNotFound) // true
//
// # Error Categories
//
//   - asset: path validation and asset lookup failures
//   - manifest: corrupt bower.json / package.json documents
//   - routing: URL build failures
//   - config: bower.config.json and option errors
//   - cli: command-line usage errors
//
// # Terminal Output
//
// The CLI prints errors with Format, which renders the code, message, detail,
// hint, and documentation link:
//
//	ERROR B003: Malformed package manifest
//
//	  jquery/bower.json: invalid character '}' looking for beginning of value
//
//	  Hint: Reinstall the component to restore its manifest
//
//	  Learn more: https://vango.dev/docs/bower/errors/B003
package errors
