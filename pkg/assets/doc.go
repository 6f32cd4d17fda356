// Package assets resolves front-end package assets (bower or npm components)
// inside an asset root.
//
// An asset root is a directory of components, each a package directory with
// an optional bower.json or package.json manifest:
//
//	bower_components/
//	└── jquery/
//	    ├── bower.json        {"version": "2.1.3"}
//	    └── dist/
//	        ├── jquery.js
//	        └── jquery.min.js
//
// Resolve picks the concrete file a page should reference and the version
// token used for cache busting:
//
//	r := assets.NewResolver(os.DirFS("bower_components"))
//	ref, err := r.Resolve("jquery", "dist/jquery.js")
//	// ref.Filename == "dist/jquery.min.js", ref.Version == "2.1.3"
//
// Every lookup reads the filesystem again; nothing is retained between calls
// unless WithManifestCache is used. All operations are read-only and safe for
// concurrent use.
package assets
