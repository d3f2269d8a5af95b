// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap

import (
	"bytes"
	"encoding/json"
	"sort"
	"strings"

	"github.com/BurntSushi/toml"
)

// ParseTOML reads a TOML document. Keys keep the order in which they first
// appear in the document.
func ParseTOML(data []byte) (interface{}, error) {
	var decoded map[string]interface{}

	md, err := toml.Decode(string(data), &decoded)
	if err != nil {
		return nil, err
	}

	order := map[string]int{}
	for i, key := range md.Keys() {
		if _, found := order[key.String()]; !found {
			order[key.String()] = i
		}
	}

	return tomlOrder{order}.convert(nil, decoded), nil
}

type tomlOrder struct {
	positions map[string]int
}

func (o tomlOrder) convert(path toml.Key, val interface{}) interface{} {
	switch typedVal := val.(type) {
	case map[string]interface{}:
		result := NewMap()
		for _, key := range o.sortedKeys(path, typedVal) {
			result.Set(key, o.convert(append(append(toml.Key{}, path...), key), typedVal[key]))
		}
		return result

	case []map[string]interface{}:
		result := []interface{}{}
		for _, item := range typedVal {
			result = append(result, o.convert(path, item))
		}
		return result

	case []interface{}:
		result := []interface{}{}
		for _, item := range typedVal {
			result = append(result, o.convert(path, item))
		}
		return result

	default:
		return typedVal
	}
}

func (o tomlOrder) sortedKeys(path toml.Key, m map[string]interface{}) []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}

	position := func(k string) int {
		if pos, found := o.positions[append(append(toml.Key{}, path...), k).String()]; found {
			return pos
		}
		return len(o.positions)
	}

	sort.SliceStable(keys, func(i, j int) bool {
		posI, posJ := position(keys[i]), position(keys[j])
		if posI != posJ {
			return posI < posJ
		}
		return keys[i] < keys[j]
	})
	return keys
}

// AsTOML writes a document (which must be an object) as TOML. The encoder
// orders keys itself.
func AsTOML(val interface{}, indent int) ([]byte, error) {
	var buf bytes.Buffer

	encoder := toml.NewEncoder(&buf)
	encoder.Indent = strings.Repeat(" ", indent)

	err := encoder.Encode(tomlValue(Conversion{val}.AsUnorderedStringMaps()))
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func tomlValue(val interface{}) interface{} {
	switch typedVal := val.(type) {
	case map[string]interface{}:
		result := map[string]interface{}{}
		for k, v := range typedVal {
			result[k] = tomlValue(v)
		}
		return result

	case []interface{}:
		result := make([]interface{}, len(typedVal))
		for i, item := range typedVal {
			result[i] = tomlValue(item)
		}
		return result

	case json.Number:
		if i, err := typedVal.Int64(); err == nil {
			return i
		}
		if f, err := typedVal.Float64(); err == nil {
			return f
		}
		return typedVal.String()

	default:
		return typedVal
	}
}
