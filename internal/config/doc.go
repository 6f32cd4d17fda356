// Package config provides configuration parsing for the bower command.
//
// The configuration is stored in bower.config.json at the project root.
// This package handles loading, saving, environment overrides and
// validation. A missing file yields the defaults.
//
// # Configuration File Structure
//
//	{
//	  "assetsRoot": "bower_components",
//	  "tryMinified": true,
//	  "querystringRevving": true,
//	  "urlPrefix": "/bower",
//	  "subdomain": "",
//	  "replaceUrlFor": false,
//	  "keepDeprecated": true,
//	  "interceptEndpoints": ["static", "bower.static"],
//	  "cacheControl": "production",
//	  "manifestCacheSize": 256,
//	  "server": {
//	    "host": "localhost",
//	    "port": 5000,
//	    "serverName": "localhost:5000",
//	    "scheme": "http",
//	    "metrics": true
//	  },
//	  "log": {
//	    "level": "info",
//	    "format": "text"
//	  }
//	}
//
// # Environment Overrides
//
// BOWER_ASSETS_ROOT, BOWER_TRY_MINIFIED, BOWER_QUERYSTRING_REVVING,
// BOWER_URL_PREFIX, BOWER_SUBDOMAIN, BOWER_REPLACE_URL_FOR,
// BOWER_KEEP_DEPRECATED, BOWER_SERVER_NAME and BOWER_PORT replace the
// corresponding file values.
//
// # Usage
//
//	cfg, err := config.Load(".")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	b, err := bower.New(cfg.Bower())
package config
