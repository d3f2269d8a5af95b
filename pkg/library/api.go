// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package library

import (
	"github.com/k14s/starlark-go/starlark"
)

// API returns a fresh set of predeclared modules.
func API() starlark.StringDict {
	result := starlark.StringDict{}
	for _, mod := range []starlark.StringDict{JSONAPI, YAMLAPI, TOMLAPI, VersionAPI} {
		for k, v := range mod {
			result[k] = v
		}
	}
	return result
}
