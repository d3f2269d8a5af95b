// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"sort"
)

// DirectiveFactory builds a tag node from its name, the markup following the
// name and the remaining template tokens. Block tags consume their body from
// tokens (see TokenStream.ParseBlock).
type DirectiveFactory func(tagName, markup string, tokens *TokenStream) (Node, error)

// Registry maps tag names to directive factories.
type Registry struct {
	factories map[string]DirectiveFactory
}

// NewRegistry returns a registry holding the built-in tags.
func NewRegistry() *Registry {
	r := &Registry{factories: map[string]DirectiveFactory{}}
	r.Register("assign", NewAssign)
	r.Register("capture", NewCapture)
	r.Register("comment", NewComment)
	r.Register("if", NewIf)
	r.Register("unless", NewUnless)
	r.Register("for", NewFor)
	r.Register("include", NewInclude)
	return r
}

// NewEmptyRegistry returns a registry without any tags.
func NewEmptyRegistry() *Registry {
	return &Registry{factories: map[string]DirectiveFactory{}}
}

// Register adds or replaces the factory for tagName.
func (r *Registry) Register(tagName string, factory DirectiveFactory) {
	r.factories[tagName] = factory
}

func (r *Registry) Lookup(tagName string) (DirectiveFactory, bool) {
	factory, found := r.factories[tagName]
	return factory, found
}

func (r *Registry) Names() []string {
	var names []string
	for name := range r.factories {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

func (r *Registry) Clone() *Registry {
	result := NewEmptyRegistry()
	for name, factory := range r.factories {
		result.factories[name] = factory
	}
	return result
}
