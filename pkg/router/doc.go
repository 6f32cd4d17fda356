// Package router is a named-route HTTP router with reverse URL building.
//
// Routes are registered under an endpoint name and a pattern:
//
//	r := router.New(router.WithServerName("example.com"))
//	r.Handle("bower.serve", "/bower/{component}/{filename...}", h)
//
//	u, err := r.URLFor("bower.serve", router.Values{
//		"component": "jquery",
//		"filename":  "dist/jquery.js",
//		"version":   "2.1.3",
//	})
//	// u == "http://example.com/bower/jquery/dist/jquery.js?version=2.1.3"
//
// A pattern segment "{name}" matches one path segment and "{name...}" matches
// the rest of the path, slashes included. Dispatch is delegated to chi.
//
// # URL Resolution Chain
//
// URLFor does not only build named routes. Strategies registered with
// Intercept run before the named-route builder; strategies registered with
// OnBuildError run, in order, after it failed. Each returns a Resolution:
// Resolved(url) ends the chain, NotApplicable passes to the next strategy.
// When no strategy resolves the build, the original *BuildError is returned.
package router
