// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"io"

	"carvel.dev/vtt/pkg/filepos"
)

// Node is a parsed piece of a template.
type Node interface {
	Render(ctx Context, w io.Writer) error
}

// NodeList renders its nodes in order, stopping at the first error.
type NodeList []Node

func (l NodeList) Render(ctx Context, w io.Writer) error {
	for _, node := range l {
		err := node.Render(ctx, w)
		if err != nil {
			return err
		}
	}
	return nil
}

type NodeText struct {
	Position *filepos.Position
	Content  string
}

func (n *NodeText) Render(_ Context, w io.Writer) error {
	_, err := io.WriteString(w, n.Content)
	return err
}

type NodeOutput struct {
	Position *filepos.Position
	Expr     string
}

func (n *NodeOutput) Render(ctx Context, w io.Writer) error {
	val, err := ctx.Eval(n.Expr, n.Position)
	if err != nil {
		return NewRenderError(n.Position, "", err)
	}

	str, err := OutputString(val)
	if err != nil {
		return NewRenderError(n.Position, "", err)
	}

	_, err = io.WriteString(w, str)
	return err
}

// NodeTag wraps a directive so that its failures carry the tag position.
type NodeTag struct {
	Name      string
	Position  *filepos.Position
	Directive Node
}

func (n *NodeTag) Render(ctx Context, w io.Writer) error {
	err := n.Directive.Render(ctx, w)
	if err != nil {
		return NewRenderError(n.Position, n.Name, err)
	}
	return nil
}
