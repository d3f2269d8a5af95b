// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"carvel.dev/vtt/pkg/texttemplate"
)

// SchemaSink is implemented by contexts that record validated schemas.
type SchemaSink interface {
	AddValidatedSchema(schema *Schema)
}

// RenderContext is a texttemplate.Context that records, in order, every
// schema a validate block succeeded with. It belongs to a single render pass.
type RenderContext struct {
	*texttemplate.BaseContext

	validatedSchemas []*Schema
}

var _ texttemplate.Context = &RenderContext{}
var _ SchemaSink = &RenderContext{}

func NewRenderContext(opts texttemplate.ContextOpts) (*RenderContext, error) {
	baseCtx, err := texttemplate.NewContext(opts)
	if err != nil {
		return nil, err
	}
	return &RenderContext{BaseContext: baseCtx}, nil
}

// AddValidatedSchema appends schema; repeated schemas are kept. Blocks call
// it only after validating, so a failed block records nothing.
func (c *RenderContext) AddValidatedSchema(schema *Schema) {
	c.validatedSchemas = append(c.validatedSchemas, schema)
}

func (c *RenderContext) ValidatedSchemas() []*Schema {
	return append([]*Schema{}, c.validatedSchemas...)
}

// ValidatedSchemaNames returns the names of ValidatedSchemas.
func (c *RenderContext) ValidatedSchemaNames() []string {
	result := []string{}
	for _, schema := range c.validatedSchemas {
		result = append(result, schema.Name)
	}
	return result
}
