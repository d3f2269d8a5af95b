// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package library

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"carvel.dev/vtt/pkg/orderedmap"
	"carvel.dev/vtt/pkg/template/core"
	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/starlarkstruct"
)

var (
	// JSONAPI contains the definition of the json module
	JSONAPI = starlark.StringDict{
		"json": &starlarkstruct.Module{
			Name: "json",
			Members: starlark.StringDict{
				"encode": starlark.NewBuiltin("json.encode", core.ErrWrapper(jsonModule{}.Encode)),
				"decode": starlark.NewBuiltin("json.decode", core.ErrWrapper(jsonModule{}.Decode)),
			},
		},
	}
)

type jsonModule struct{}

// Encode is a core.StarlarkFunc that renders the provided input into a JSON formatted string.
// Keys keep dict order unless sort_keys=True.
func (b jsonModule) Encode(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if args.Len() != 1 {
		return starlark.None, fmt.Errorf("expected exactly one argument")
	}
	allowedKWArgs := map[string]struct{}{
		"indent":    {},
		"sort_keys": {},
	}
	if err := core.CheckArgNames(kwargs, allowedKWArgs); err != nil {
		return starlark.None, err
	}

	val, err := core.NewStarlarkValue(args.Index(0)).AsGoValue()
	if err != nil {
		return starlark.None, err
	}

	sortKeys, err := core.BoolArg(kwargs, "sort_keys")
	if err != nil {
		return starlark.None, err
	}

	if sortKeys {
		val, err = orderedmap.Conversion{Object: orderedmap.Conversion{Object: val}.AsUnorderedStringMaps()}.FromUnorderedMaps()
		if err != nil {
			return starlark.None, err
		}
	}

	indent, err := core.Int64Arg(kwargs, "indent")
	if err != nil {
		return starlark.None, err
	}

	if indent < 0 || indent > 8 {
		// mitigate https://cwe.mitre.org/data/definitions/409.html
		return starlark.None, fmt.Errorf("indent value must be between 0 and 8")
	}

	valBs, err := orderedmap.AsJSON(val)
	if err != nil {
		return starlark.None, err
	}

	if indent > 0 {
		var indented bytes.Buffer
		err = json.Indent(&indented, valBs, "", strings.Repeat(" ", int(indent)))
		if err != nil {
			return starlark.None, err
		}
		valBs = indented.Bytes()
	}

	return starlark.String(string(valBs)), nil
}

// Decode is a core.StarlarkFunc that parses the provided input from JSON format into structs, lists, and scalars
func (b jsonModule) Decode(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if args.Len() != 1 {
		return starlark.None, fmt.Errorf("expected exactly one argument")
	}

	valEncoded, err := core.NewStarlarkValue(args.Index(0)).AsString()
	if err != nil {
		return starlark.None, err
	}

	valDecoded, err := orderedmap.ParseJSON([]byte(valEncoded))
	if err != nil {
		return starlark.None, err
	}

	return core.NewGoValue(valDecoded).AsStarlarkValue(), nil
}
