// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"strconv"

	"carvel.dev/vtt/pkg/orderedmap"
	"carvel.dev/vtt/pkg/template/core"
	"github.com/k14s/starlark-go/starlark"
)

// OutputString converts an expression result into template output.
// Strings are written as is, None as nothing, and collections as JSON.
func OutputString(val starlark.Value) (string, error) {
	switch typedVal := val.(type) {
	case starlark.NoneType:
		return "", nil
	case starlark.String:
		return string(typedVal), nil
	case starlark.Bool:
		return strconv.FormatBool(bool(typedVal)), nil
	case starlark.Int:
		return typedVal.String(), nil
	case starlark.Float:
		return strconv.FormatFloat(float64(typedVal), 'g', -1, 64), nil
	}

	goVal, err := core.NewStarlarkValue(val).AsGoValue()
	if err != nil {
		return "", err
	}

	bs, err := orderedmap.AsJSON(goVal)
	if err != nil {
		return "", err
	}
	return string(bs), nil
}
