// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package library contains the Starlark modules predeclared for template
expressions:

	json.encode(value, indent=0)   ordered, compact JSON text
	json.decode(text)              parsed document
	yaml.encode(value)             YAML text, keys in order
	yaml.decode(text)              parsed first YAML document
	toml.encode(value, indent=0)   TOML text of a dict or struct
	toml.decode(text)              parsed document
	version.require_at_least(v)    fails unless this binary is at least v
*/
package library
