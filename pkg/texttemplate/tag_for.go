// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"fmt"
	"io"
	"regexp"

	"carvel.dev/vtt/pkg/filepos"
	"carvel.dev/vtt/pkg/orderedmap"
	"carvel.dev/vtt/pkg/template/core"
	"github.com/k14s/starlark-go/starlark"
)

var forSyntax = regexp.MustCompile(`^([A-Za-z_]\w*)\s+in\s+(.+?)\s*$`)

// For: {% for item in expr %}...{% else %}...{% endfor %}
// The body sees `forloop` (index, index0, rindex, first, last, length).
// The else body renders when the collection is empty or None.
type For struct {
	Variable string
	Expr     string
	Body     NodeList
	ElseBody NodeList
	pos      *filepos.Position
}

type iterationCounter interface {
	CountIteration() error
}

func NewFor(tagName, markup string, tokens *TokenStream) (Node, error) {
	pos := tokens.Position()

	match := forSyntax.FindStringSubmatch(markup)
	if match == nil {
		return nil, NewSyntaxError(pos, tagName, "Expected 'item in collection', but was '%s'", markup)
	}

	body, end, err := tokens.ParseUntil("else", "endfor")
	if err != nil {
		return nil, err
	}
	if end == nil {
		return nil, NewSyntaxError(pos, tagName, "Missing closing 'endfor' tag")
	}

	result := &For{Variable: match[1], Expr: match[2], Body: body, pos: pos}

	if end.Name == "else" {
		result.ElseBody, err = tokens.ParseBlock(tagName)
		if err != nil {
			return nil, err
		}
	}

	return result, nil
}

func (n *For) Render(ctx Context, w io.Writer) error {
	val, err := ctx.Eval(n.Expr, n.pos)
	if err != nil {
		return err
	}

	items, err := n.items(val)
	if err != nil {
		return err
	}

	if len(items) == 0 {
		return n.ElseBody.Render(ctx, w)
	}

	counter, _ := ctx.(iterationCounter)

	return ctx.Stack(func() error {
		for i, item := range items {
			if counter != nil {
				if err := counter.CountIteration(); err != nil {
					return err
				}
			}
			ctx.Set(n.Variable, item)
			ctx.Set("forloop", n.forloop(i, len(items)))

			err := n.Body.Render(ctx, w)
			if err != nil {
				return err
			}
		}
		return nil
	})
}

func (n *For) items(val starlark.Value) ([]starlark.Value, error) {
	if val == starlark.None {
		return nil, nil
	}

	iterable, ok := val.(starlark.Iterable)
	if !ok {
		return nil, fmt.Errorf("Expected '%s' to be iterable, but was %s", n.Expr, val.Type())
	}

	iter := iterable.Iterate()
	defer iter.Done()

	var items []starlark.Value
	var x starlark.Value
	for iter.Next(&x) {
		items = append(items, x)
	}
	return items, nil
}

func (n *For) forloop(i, length int) starlark.Value {
	data := orderedmap.NewMap()
	data.Set("index", starlark.MakeInt(i+1))
	data.Set("index0", starlark.MakeInt(i))
	data.Set("rindex", starlark.MakeInt(length-i))
	data.Set("first", starlark.Bool(i == 0))
	data.Set("last", starlark.Bool(i == length-1))
	data.Set("length", starlark.MakeInt(length))
	return core.NewStarlarkStruct(data)
}
