// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"carvel.dev/vtt/pkg/texttemplate"
)

// Register adds the validate block to registry.
func Register(registry *texttemplate.Registry) {
	registry.Register(TagName, NewBlock)
}

// NewRegistry returns the built-in tags plus the validate block.
func NewRegistry() *texttemplate.Registry {
	registry := texttemplate.NewRegistry()
	Register(registry)
	return registry
}
