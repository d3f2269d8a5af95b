// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"io"
	"strings"

	"carvel.dev/vtt/pkg/filepos"
)

type condBranch struct {
	Expr   string
	Negate bool
	Body   NodeList
	pos    *filepos.Position
}

// If: {% if expr %}...{% elsif expr %}...{% else %}...{% endif %}
// (and unless/endunless). Truthiness follows Starlark.
type If struct {
	branches []condBranch
	elseBody NodeList
}

func NewIf(tagName, markup string, tokens *TokenStream) (Node, error) {
	return newConditional(tagName, markup, tokens, false)
}

func NewUnless(tagName, markup string, tokens *TokenStream) (Node, error) {
	return newConditional(tagName, markup, tokens, true)
}

func newConditional(tagName, markup string, tokens *TokenStream, negate bool) (Node, error) {
	openPos := tokens.Position()
	result := &If{}

	expr, pos := strings.TrimSpace(markup), openPos
	endTag := "end" + tagName

	for {
		if len(expr) == 0 {
			return nil, NewSyntaxError(pos, tagName, "Expected condition expression")
		}

		body, end, err := tokens.ParseUntil("elsif", "else", endTag)
		if err != nil {
			return nil, err
		}
		if end == nil {
			return nil, NewSyntaxError(openPos, tagName, "Missing closing '%s' tag", endTag)
		}

		result.branches = append(result.branches, condBranch{Expr: expr, Negate: negate, Body: body, pos: pos})
		negate = false

		switch end.Name {
		case "elsif":
			expr, pos = strings.TrimSpace(end.Markup), end.Position
			continue

		case "else":
			elseBody, elseEnd, err := tokens.ParseUntil(endTag)
			if err != nil {
				return nil, err
			}
			if elseEnd == nil {
				return nil, NewSyntaxError(openPos, tagName, "Missing closing '%s' tag", endTag)
			}
			result.elseBody = elseBody
		}

		return result, nil
	}
}

func (n *If) Render(ctx Context, w io.Writer) error {
	for _, branch := range n.branches {
		val, err := ctx.Eval(branch.Expr, branch.pos)
		if err != nil {
			return err
		}
		if bool(val.Truth()) != branch.Negate {
			return branch.Body.Render(ctx, w)
		}
	}
	return n.elseBody.Render(ctx, w)
}
