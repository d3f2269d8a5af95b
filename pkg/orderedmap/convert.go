// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap

import (
	"fmt"
	"sort"
)

type Conversion struct {
	Object interface{}
}

// AsUnorderedStringMaps returns a copy of Object where every *Map is replaced
// by map[string]interface{}. Object itself is left untouched.
func (c Conversion) AsUnorderedStringMaps() interface{} {
	return c.asUnorderedStringMaps(c.Object)
}

func (c Conversion) asUnorderedStringMaps(object interface{}) interface{} {
	switch typedObj := object.(type) {
	case map[interface{}]interface{}:
		panic("Expected *orderedmap.Map instead of map[interface{}]interface{} in asUnorderedStringMaps")

	case map[string]interface{}:
		panic("Expected *orderedmap.Map instead of map[string]interface{} in asUnorderedStringMaps")

	case *Map:
		result := map[string]interface{}{}
		typedObj.Iterate(func(k string, v interface{}) {
			result[k] = c.asUnorderedStringMaps(v)
		})
		return result

	case []interface{}:
		result := make([]interface{}, len(typedObj))
		for i, item := range typedObj {
			result[i] = c.asUnorderedStringMaps(item)
		}
		return result

	default:
		return typedObj
	}
}

// FromUnorderedMaps converts native Go maps into *Map, ordering keys
// alphabetically since the original order is unknown.
func (c Conversion) FromUnorderedMaps() (interface{}, error) {
	return c.fromUnorderedMaps(c.Object)
}

func (c Conversion) fromUnorderedMaps(object interface{}) (interface{}, error) {
	switch typedObj := object.(type) {
	case map[interface{}]interface{}:
		strMap := map[string]interface{}{}
		for k, v := range typedObj {
			strK, ok := k.(string)
			if !ok {
				return nil, fmt.Errorf("Expected map key to be a string, but was %T", k)
			}
			strMap[strK] = v
		}
		return c.fromUnorderedMaps(strMap)

	case map[string]interface{}:
		result := NewMap()
		for _, key := range c.sortedMapKeys(typedObj) {
			val, err := c.fromUnorderedMaps(typedObj[key])
			if err != nil {
				return nil, err
			}
			result.Set(key, val)
		}
		return result, nil

	case []map[string]interface{}:
		result := make([]interface{}, 0, len(typedObj))
		for _, item := range typedObj {
			val, err := c.fromUnorderedMaps(item)
			if err != nil {
				return nil, err
			}
			result = append(result, val)
		}
		return result, nil

	case []interface{}:
		result := make([]interface{}, 0, len(typedObj))
		for _, item := range typedObj {
			val, err := c.fromUnorderedMaps(item)
			if err != nil {
				return nil, err
			}
			result = append(result, val)
		}
		return result, nil

	default:
		return typedObj, nil
	}
}

func (Conversion) sortedMapKeys(m map[string]interface{}) []string {
	var keys []string
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
