// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"fmt"
	"io"
	"regexp"
)

const (
	includeDepthRegister = "include_depth"
	maxIncludeDepth      = 100
)

var (
	// QuotedArgSyntax matches exactly one argument: 'quoted', "quoted" or bare.
	QuotedArgSyntax = regexp.MustCompile(`^\s*("[^"]*"|'[^']*'|[^\s"']+)\s*$`)
)

// UnquoteArg strips one layer of enclosing quotes.
func UnquoteArg(arg string) string {
	if len(arg) >= 2 {
		first, last := arg[0], arg[len(arg)-1]
		if (first == '"' || first == '\'') && first == last {
			return arg[1 : len(arg)-1]
		}
	}
	return arg
}

// Include: {% include 'name' %} renders another template, resolved through
// the context's FileSystem, in a new variable frame.
type Include struct {
	TemplateName string
}

func NewInclude(tagName, markup string, tokens *TokenStream) (Node, error) {
	match := QuotedArgSyntax.FindStringSubmatch(markup)
	if match == nil || len(UnquoteArg(match[1])) == 0 {
		return nil, NewSyntaxError(tokens.Position(), tagName, "Expected a single template name, but was '%s'", markup)
	}
	return &Include{TemplateName: UnquoteArg(match[1])}, nil
}

func (n *Include) Render(ctx Context, w io.Writer) error {
	depth, _ := ctx.Registers()[includeDepthRegister].(int)
	if depth >= maxIncludeDepth {
		return fmt.Errorf("Exceeded maximum include depth (%d) including '%s'", maxIncludeDepth, n.TemplateName)
	}

	src, err := FileSystemFor(ctx).ReadTemplateFile(n.TemplateName)
	if err != nil {
		return err
	}

	tpl, err := Parse(n.TemplateName, []byte(src), ctx.Directives())
	if err != nil {
		return err
	}

	ctx.Registers()[includeDepthRegister] = depth + 1
	defer func() { ctx.Registers()[includeDepthRegister] = depth }()

	return ctx.Stack(func() error { return tpl.Render(ctx, w) })
}
