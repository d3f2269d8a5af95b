// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"fmt"
	"strings"
)

// SchemaLoadError indicates that a schema resource could not be read.
type SchemaLoadError struct {
	SchemaName string
	Err        error
}

func (e *SchemaLoadError) Error() string {
	return fmt.Sprintf("Loading schema '%s': %s", e.SchemaName, e.Err)
}

func (e *SchemaLoadError) Kind() string  { return "schema load" }
func (e *SchemaLoadError) Unwrap() error { return e.Err }

// SchemaParseError indicates that a schema resource was read but is not a
// usable JSON Schema.
type SchemaParseError struct {
	SchemaName string
	Err        error
}

func (e *SchemaParseError) Error() string {
	return fmt.Sprintf("Parsing schema '%s': %s", e.SchemaName, e.Err)
}

func (e *SchemaParseError) Kind() string  { return "schema parse" }
func (e *SchemaParseError) Unwrap() error { return e.Err }

// DocumentParseError indicates that a block body did not render to JSON.
type DocumentParseError struct {
	SchemaName string
	Content    string
	Err        error
}

const maxDocumentSnippet = 80

func (e *DocumentParseError) Error() string {
	snippet := strings.TrimSpace(e.Content)
	if len(snippet) > maxDocumentSnippet {
		snippet = snippet[:maxDocumentSnippet] + "..."
	}
	return fmt.Sprintf("Expected content validated by '%s' to be JSON: %s (content: %q)", e.SchemaName, e.Err, snippet)
}

func (e *DocumentParseError) Kind() string  { return "document parse" }
func (e *DocumentParseError) Unwrap() error { return e.Err }

// ValidationError lists every rule a document violated.
type ValidationError struct {
	SchemaName string
	Violations []string
}

func (e *ValidationError) Error() string { return strings.Join(e.Violations, ";") }

func (e *ValidationError) Kind() string { return "validation" }
