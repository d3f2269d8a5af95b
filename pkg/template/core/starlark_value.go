// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package core

import (
	"fmt"

	"carvel.dev/vtt/pkg/orderedmap"
	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/starlarkstruct"
)

type StarlarkValueToGoValueConversion interface {
	AsGoValue() (interface{}, error)
}

type StarlarkValue struct {
	val starlark.Value
}

func NewStarlarkValue(val starlark.Value) StarlarkValue {
	return StarlarkValue{val}
}

// AsGoValue converts to the document representation: dicts and structs
// become *orderedmap.Map, sequences become []interface{}.
func (e StarlarkValue) AsGoValue() (interface{}, error) {
	return e.asInterface(e.val)
}

func (e StarlarkValue) AsString() (string, error) {
	if typedVal, ok := e.val.(starlark.String); ok {
		return string(typedVal), nil
	}
	return "", fmt.Errorf("expected starlark.String, but was %s", e.val.Type())
}

func (e StarlarkValue) AsBool() (bool, error) {
	if typedVal, ok := e.val.(starlark.Bool); ok {
		return bool(typedVal), nil
	}
	return false, fmt.Errorf("expected starlark.Bool, but was %s", e.val.Type())
}

func (e StarlarkValue) AsInt64() (int64, error) {
	if typedVal, ok := e.val.(starlark.Int); ok {
		i1, ok := typedVal.Int64()
		if ok {
			return i1, nil
		}
		return 0, fmt.Errorf("expected int64 value")
	}
	return 0, fmt.Errorf("expected starlark.Int, but was %s", e.val.Type())
}

func (e StarlarkValue) asInterface(val starlark.Value) (interface{}, error) {
	if obj, ok := val.(StarlarkValueToGoValueConversion); ok {
		return obj.AsGoValue()
	}

	switch typedVal := val.(type) {
	case nil, starlark.NoneType:
		return nil, nil

	case starlark.Bool:
		return bool(typedVal), nil

	case starlark.String:
		return string(typedVal), nil

	case starlark.Int:
		i1, ok := typedVal.Int64()
		if ok {
			return i1, nil
		}
		i2, ok := typedVal.Uint64()
		if ok {
			return i2, nil
		}
		return nil, fmt.Errorf("integer %s does not fit into 64 bits", typedVal.String())

	case starlark.Float:
		return float64(typedVal), nil

	case *starlark.Dict:
		return e.dictAsInterface(typedVal)

	case *StarlarkStruct:
		return e.structAsInterface(typedVal)

	case *starlark.List:
		return e.iterableAsInterface(typedVal)

	case starlark.Tuple:
		return e.iterableAsInterface(typedVal)

	case *starlark.Set:
		return e.iterableAsInterface(typedVal)

	case *starlarkstruct.Struct:
		return e.nativeStructAsInterface(typedVal)

	default:
		return nil, fmt.Errorf("unable to convert value of type %s", val.Type())
	}
}

func (e StarlarkValue) dictAsInterface(val *starlark.Dict) (interface{}, error) {
	result := orderedmap.NewMap()
	for _, item := range val.Items() {
		if item.Len() != 2 {
			panic("dict item is not KV")
		}
		key, ok := item.Index(0).(starlark.String)
		if !ok {
			return nil, fmt.Errorf("expected dict key to be a string, but was %s", item.Index(0).Type())
		}
		v, err := e.asInterface(item.Index(1))
		if err != nil {
			return nil, err
		}
		result.Set(string(key), v)
	}
	return result, nil
}

func (e StarlarkValue) nativeStructAsInterface(val *starlarkstruct.Struct) (interface{}, error) {
	// struct's ToStringDict uses map, hence ordering is not deterministic
	result := orderedmap.NewMap()
	for _, key := range val.AttrNames() {
		attr, err := val.Attr(key)
		if err != nil {
			return nil, err
		}
		v, err := e.asInterface(attr)
		if err != nil {
			return nil, err
		}
		result.Set(key, v)
	}
	return result, nil
}

func (e StarlarkValue) structAsInterface(val *StarlarkStruct) (interface{}, error) {
	result := orderedmap.NewMap()
	err := val.data.IterateErr(func(k string, v interface{}) error {
		goVal, err := e.asInterface(v.(starlark.Value))
		if err != nil {
			return err
		}
		result.Set(k, goVal)
		return nil
	})
	return result, err
}

func (e StarlarkValue) iterableAsInterface(iterable starlark.Iterable) (interface{}, error) {
	iter := iterable.Iterate()
	defer iter.Done()

	result := []interface{}{}
	var x starlark.Value
	for iter.Next(&x) {
		v, err := e.asInterface(x)
		if err != nil {
			return nil, err
		}
		result = append(result, v)
	}
	return result, nil
}
