// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"bytes"
	"io"
	"regexp"

	"carvel.dev/vtt/pkg/filepos"
	"github.com/k14s/starlark-go/starlark"
)

var (
	assignSyntax  = regexp.MustCompile(`^([A-Za-z_]\w*)\s*=\s*(.+?)\s*$`)
	captureSyntax = regexp.MustCompile(`^([A-Za-z_]\w*)\s*$`)
)

// Assign: {% assign name = expr %}
type Assign struct {
	Variable string
	Expr     string
	pos      *filepos.Position
}

func NewAssign(tagName, markup string, tokens *TokenStream) (Node, error) {
	match := assignSyntax.FindStringSubmatch(markup)
	if match == nil {
		return nil, NewSyntaxError(tokens.Position(), tagName, "Expected 'name = expression', but was '%s'", markup)
	}
	return &Assign{Variable: match[1], Expr: match[2], pos: tokens.Position()}, nil
}

func (a *Assign) Render(ctx Context, _ io.Writer) error {
	val, err := ctx.Eval(a.Expr, a.pos)
	if err != nil {
		return err
	}
	ctx.Set(a.Variable, val)
	return nil
}

// Capture: {% capture name %}...{% endcapture %}
type Capture struct {
	Variable string
	Body     NodeList
}

func NewCapture(tagName, markup string, tokens *TokenStream) (Node, error) {
	match := captureSyntax.FindStringSubmatch(markup)
	if match == nil {
		return nil, NewSyntaxError(tokens.Position(), tagName, "Expected a single variable name, but was '%s'", markup)
	}
	body, err := tokens.ParseBlock(tagName)
	if err != nil {
		return nil, err
	}
	return &Capture{Variable: match[1], Body: body}, nil
}

func (c *Capture) Render(ctx Context, _ io.Writer) error {
	var buf bytes.Buffer
	err := c.Body.Render(ctx, &buf)
	if err != nil {
		return err
	}
	ctx.Set(c.Variable, starlark.String(buf.String()))
	return nil
}

// Comment: {% comment %}...{% endcomment %}; the body is neither parsed nor rendered.
type Comment struct{}

func NewComment(tagName, _ string, tokens *TokenStream) (Node, error) {
	err := tokens.SkipBlock(tagName)
	if err != nil {
		return nil, err
	}
	return Comment{}, nil
}

func (Comment) Render(Context, io.Writer) error { return nil }
