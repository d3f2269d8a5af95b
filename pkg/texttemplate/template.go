// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"bytes"
	"io"
)

// Template is a parsed template. It holds no render state and may be
// rendered any number of times, each time with its own Context.
type Template struct {
	name  string
	nodes NodeList
}

func Parse(name string, data []byte, registry *Registry) (*Template, error) {
	tokens, err := NewTokenStream(name, data, registry)
	if err != nil {
		return nil, err
	}

	nodes, err := tokens.ParseAll()
	if err != nil {
		return nil, err
	}

	return &Template{name: name, nodes: nodes}, nil
}

func (t *Template) Name() string { return t.name }

func (t *Template) Nodes() NodeList { return t.nodes }

func (t *Template) Render(ctx Context, w io.Writer) error {
	return t.nodes.Render(ctx, w)
}

func (t *Template) RenderString(ctx Context) (string, error) {
	var buf bytes.Buffer
	err := t.Render(ctx, &buf)
	if err != nil {
		return "", err
	}
	return buf.String(), nil
}
