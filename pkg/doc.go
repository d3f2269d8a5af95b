// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package pkg is the collection of packages that make up the implementation of vtt.

Packages are layered; each depends only on the layers below it.

	(# of dependents) => <package name> => (# of dependencies)

# Entry Point

vtt is built into two executable formats:

	./cmd/vtt          // a command-line tool
	./cmd/vtt-lambda   // an AWS Lambda function serving pkg/server

# Commands

	(2) => pkg/cmd => (8)
	(1) => pkg/cmd/render => (5)

# Serving

	(1) => pkg/server => (2)

# Conversion

A conversion reads a template from a file system, renders it with data and
optionally re-encodes the (JSON) result.

	(3) => pkg/convert => (5)

# Templating

Text templates are made of text, {{ expression }} outputs and {% tag %}
directives. Expressions are Starlark.

	(3) => pkg/texttemplate => (4)
	(2) => pkg/template/core => (1)

The validate directive renders its body, parses it as JSON and validates it
against a JSON Schema read from the template file system.

	(3) => pkg/validate => (2)

# Standard Library

Modules (json, yaml, toml, version) predeclared in every expression.

	(1) => pkg/library => (3)

# Utilities

	(3) => pkg/files => (1)
	(7) => pkg/orderedmap => (0)
	(1) => pkg/filepos => (0)
	(5) => pkg/cmd/ui => (0)
	(2) => pkg/version => (0)
*/
package pkg
