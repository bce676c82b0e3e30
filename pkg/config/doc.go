// Package config loads the optional apirewrite configuration file.
//
//	            +-------------+
//	            |   Config    |
//	            | (defaults)  |
//	            +------+------+
//	                   |
//	     +-------------+-------------+
//	     |             |             |
//	+----+----+   +----+----+   +----+----+
//	|  YAML   |   |  JSON   |   |   HCL   |
//	| Parser  |   | Parser  |   | Parser  |
//	+---------+   +---------+   +---------+
//
// Without a file every field takes the built-in value, which reproduces the
// CalisthenicsAPI -> lib/api migration. A file only needs the fields it changes:
//
//	# apirewrite.yaml
//	root: src/pages
//	api_name: AdminAPI
//	ignore:
//	  - "**/node_modules/**"
//	  - "**/*.test.js"
//
// HCL groups the client and import settings into blocks:
//
//	root = "${defaults.source_root}/pages"
//
//	client {
//	  receiver = "client"
//	  api_name = "AdminAPI"
//	}
//
//	imports {
//	  target_module = "lib/api"
//	}
package config
