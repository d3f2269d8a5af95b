// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package validate

import (
	"bytes"
	"io"

	"carvel.dev/vtt/pkg/orderedmap"
	"carvel.dev/vtt/pkg/texttemplate"
)

// TagName is the name the block is registered under by Register.
const TagName = "validate"

// Block: {% validate 'schema-name' %}...{% endvalidate %}
type Block struct {
	SchemaName string
	Body       texttemplate.NodeList
}

var _ texttemplate.DirectiveFactory = NewBlock

func NewBlock(tagName, markup string, tokens *texttemplate.TokenStream) (texttemplate.Node, error) {
	match := texttemplate.QuotedArgSyntax.FindStringSubmatch(markup)
	if match == nil {
		return nil, texttemplate.NewSyntaxError(tokens.Position(), tagName,
			"Expected a single schema name argument, but was '%s'", markup)
	}

	schemaName := texttemplate.UnquoteArg(match[1])
	if len(schemaName) == 0 {
		return nil, texttemplate.NewSyntaxError(tokens.Position(), tagName, "Expected schema name to be non-empty")
	}

	body, err := tokens.ParseBlock(tagName)
	if err != nil {
		return nil, err
	}

	return &Block{SchemaName: schemaName, Body: body}, nil
}

func (b *Block) Render(ctx texttemplate.Context, w io.Writer) error {
	schema, err := SchemaLoaderFor(ctx).Load(texttemplate.FileSystemFor(ctx), b.SchemaName)
	if err != nil {
		return err
	}

	var buf bytes.Buffer

	err = ctx.Stack(func() error { return b.Body.Render(ctx, &buf) })
	if err != nil {
		return err
	}

	doc, err := orderedmap.ParseJSON(buf.Bytes())
	if err != nil {
		return &DocumentParseError{SchemaName: b.SchemaName, Content: buf.String(), Err: err}
	}

	valid, violations := schema.Validate(doc)
	if !valid {
		return &ValidationError{SchemaName: b.SchemaName, Violations: violations}
	}

	out, err := orderedmap.AsJSON(doc)
	if err != nil {
		return err
	}

	if sink, ok := ctx.(SchemaSink); ok {
		sink.AddValidatedSchema(schema)
	}

	_, err = w.Write(out)
	return err
}
