// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"encoding/json"
	"fmt"
	"time"

	"carvel.dev/vtt/pkg/orderedmap"
	"github.com/k14s/starlark-go/starlark"
)

type GoValueToStarlarkValueConversion interface {
	AsStarlarkValue() starlark.Value
}

// GoValue converts template data (documents made of *orderedmap.Map,
// []interface{} and scalars) into starlark values. Maps become structs so
// that templates can use both `a.b` and `a["b"]`.
type GoValue struct {
	val interface{}
}

func NewGoValue(val interface{}) GoValue {
	return GoValue{val}
}

func (e GoValue) AsStarlarkValue() starlark.Value {
	return e.asStarlarkValue(e.val)
}

func (e GoValue) asStarlarkValue(val interface{}) starlark.Value {
	if obj, ok := val.(GoValueToStarlarkValueConversion); ok {
		return obj.AsStarlarkValue()
	}

	switch typedVal := val.(type) {
	case nil:
		return starlark.None

	case starlark.Value:
		return typedVal

	case bool:
		return starlark.Bool(typedVal)

	case string:
		return starlark.String(typedVal)

	case int:
		return starlark.MakeInt(typedVal)

	case int64:
		return starlark.MakeInt64(typedVal)

	case uint64:
		return starlark.MakeUint64(typedVal)

	case float64:
		return starlark.Float(typedVal)

	case json.Number:
		if i, err := typedVal.Int64(); err == nil {
			return starlark.MakeInt64(i)
		}
		if f, err := typedVal.Float64(); err == nil {
			return starlark.Float(f)
		}
		return starlark.String(typedVal.String())

	case time.Time:
		return starlark.String(typedVal.Format(time.RFC3339Nano))

	case *orderedmap.Map:
		data := orderedmap.NewMap()
		typedVal.Iterate(func(k string, v interface{}) {
			data.Set(k, e.asStarlarkValue(v))
		})
		return NewStarlarkStruct(data)

	case []interface{}:
		return e.listAsStarlarkValue(typedVal)

	default:
		panic(fmt.Sprintf("unknown type %T for conversion to starlark value", val))
	}
}

func (e GoValue) listAsStarlarkValue(val []interface{}) *starlark.List {
	result := []starlark.Value{}
	for _, v := range val {
		result = append(result, e.asStarlarkValue(v))
	}
	return starlark.NewList(result)
}
