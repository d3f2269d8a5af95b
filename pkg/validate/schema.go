// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"
	"sync"

	"carvel.dev/vtt/pkg/orderedmap"
	"carvel.dev/vtt/pkg/texttemplate"
	"github.com/santhosh-tekuri/jsonschema/v5"
)

const (
	// SchemaLoaderRegister is the register under which a render pass may
	// supply its SchemaLoader.
	SchemaLoaderRegister = "schema_loader"

	schemaURLPrefix = "vtt:///"
)

var drafts = map[string]*jsonschema.Draft{
	"4":       jsonschema.Draft4,
	"6":       jsonschema.Draft6,
	"7":       jsonschema.Draft7,
	"2019-09": jsonschema.Draft2019,
	"2020-12": jsonschema.Draft2020,
}

// SupportedDrafts lists the values accepted by SchemaOpts.Draft.
func SupportedDrafts() []string {
	var result []string
	for name := range drafts {
		result = append(result, name)
	}
	sort.Strings(result)
	return result
}

type SchemaOpts struct {
	// Draft used for schemas without "$schema"; defaults to 2020-12.
	Draft string
	// AssertFormat makes the "format" keyword an assertion instead of an annotation.
	AssertFormat bool
	// Cache keeps compiled schemas by name for the lifetime of the loader.
	Cache bool
}

// Schema is a compiled JSON Schema. It is immutable and safe to share.
type Schema struct {
	Name   string
	Source string

	compiled *jsonschema.Schema
}

// Validate checks a document (as produced by orderedmap.ParseJSON) and
// returns one message per violated rule.
func (s *Schema) Validate(doc interface{}) (bool, []string) {
	err := s.compiled.Validate(orderedmap.Conversion{Object: doc}.AsUnorderedStringMaps())
	if err == nil {
		return true, nil
	}

	var validationErr *jsonschema.ValidationError
	if !errors.As(err, &validationErr) {
		return false, []string{err.Error()}
	}

	var violations []string
	collectViolations(validationErr, &violations)
	sort.Strings(violations)

	return false, violations
}

func collectViolations(err *jsonschema.ValidationError, violations *[]string) {
	if len(err.Causes) == 0 {
		*violations = append(*violations, fmt.Sprintf("%s (path '#%s')", err.Message, err.InstanceLocation))
		return
	}
	for _, cause := range err.Causes {
		collectViolations(cause, violations)
	}
}

// SchemaLoader reads and compiles schemas through a texttemplate.FileSystem.
// A loader with caching enabled must only be used with a single file system.
type SchemaLoader struct {
	opts  SchemaOpts
	draft *jsonschema.Draft

	cacheLock sync.Mutex
	cache     map[string]*Schema
}

var defaultSchemaLoader = &SchemaLoader{draft: jsonschema.Draft2020}

func NewSchemaLoader(opts SchemaOpts) (*SchemaLoader, error) {
	draft := jsonschema.Draft2020
	if len(opts.Draft) > 0 {
		var found bool
		draft, found = drafts[opts.Draft]
		if !found {
			return nil, fmt.Errorf("Unknown JSON Schema draft '%s' (supported: %s)",
				opts.Draft, strings.Join(SupportedDrafts(), ", "))
		}
	}
	return &SchemaLoader{opts: opts, draft: draft, cache: map[string]*Schema{}}, nil
}

// SchemaLoaderFor returns the SchemaLoader registered on ctx, falling back to
// an uncached loader with default options.
func SchemaLoaderFor(ctx texttemplate.Context) *SchemaLoader {
	if loader, ok := ctx.Registers()[SchemaLoaderRegister].(*SchemaLoader); ok {
		return loader
	}
	return defaultSchemaLoader
}

// LoadSchema reads and compiles a single schema without caching.
func LoadSchema(fs texttemplate.FileSystem, name string, opts SchemaOpts) (*Schema, error) {
	opts.Cache = false
	loader, err := NewSchemaLoader(opts)
	if err != nil {
		return nil, err
	}
	return loader.Load(fs, name)
}

func (l *SchemaLoader) Load(fs texttemplate.FileSystem, name string) (*Schema, error) {
	if !l.opts.Cache {
		return l.load(fs, name)
	}

	l.cacheLock.Lock()
	defer l.cacheLock.Unlock()

	if schema, found := l.cache[name]; found {
		return schema, nil
	}

	schema, err := l.load(fs, name)
	if err != nil {
		return nil, err
	}
	l.cache[name] = schema
	return schema, nil
}

func (l *SchemaLoader) load(fs texttemplate.FileSystem, name string) (*Schema, error) {
	src, err := fs.ReadTemplateFile(name)
	if err != nil {
		return nil, &SchemaLoadError{SchemaName: name, Err: err}
	}

	// Referenced schemas are read lazily during Compile; their read errors
	// are load errors as well.
	var refErr error

	compiler := jsonschema.NewCompiler()
	compiler.Draft = l.draft
	compiler.AssertFormat = l.opts.AssertFormat
	compiler.LoadURL = func(url string) (io.ReadCloser, error) {
		refName, found := l.resourceName(url)
		if !found {
			err := fmt.Errorf("Expected reference '%s' to be resolvable through the template file system", url)
			refErr = err
			return nil, err
		}
		refSrc, err := fs.ReadTemplateFile(refName)
		if err != nil {
			refErr = err
			return nil, err
		}
		return io.NopCloser(strings.NewReader(refSrc)), nil
	}

	compiled, err := l.compile(compiler, schemaURL(name), src)
	if err != nil {
		if refErr != nil {
			return nil, &SchemaLoadError{SchemaName: name, Err: refErr}
		}
		return nil, &SchemaParseError{SchemaName: name, Err: err}
	}

	return &Schema{Name: name, Source: src, compiled: compiled}, nil
}

// compile turns compiler panics (raised for resource URLs it cannot
// handle) into errors.
func (*SchemaLoader) compile(compiler *jsonschema.Compiler, resourceURL, src string) (compiled *jsonschema.Schema, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			compiled, err = nil, fmt.Errorf("Compiling schema resource '%s': %v", resourceURL, rec)
		}
	}()

	err = compiler.AddResource(resourceURL, strings.NewReader(src))
	if err != nil {
		return nil, err
	}
	return compiler.Compile(resourceURL)
}

func (*SchemaLoader) resourceName(resourceURL string) (string, bool) {
	if !strings.HasPrefix(resourceURL, schemaURLPrefix) {
		return "", false
	}
	escaped, _, _ := strings.Cut(strings.TrimPrefix(resourceURL, schemaURLPrefix), "#")
	name, err := url.PathUnescape(escaped)
	if err != nil {
		return "", false
	}
	return name, len(name) > 0
}

// schemaURL escapes every path segment of name so that names containing
// '#', '%', spaces or non-ASCII characters map back to themselves.
func schemaURL(name string) string {
	segments := strings.Split(name, "/")
	for i, segment := range segments {
		segments[i] = url.PathEscape(segment)
	}
	return schemaURLPrefix + strings.Join(segments, "/")
}
