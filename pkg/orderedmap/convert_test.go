// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap_test

import (
	"reflect"
	"testing"

	"carvel.dev/vtt/pkg/orderedmap"
	"github.com/stretchr/testify/require"
)

func TestFromUnorderedMaps(t *testing.T) {
	inputA := map[string]interface{}{
		"key": []interface{}{map[string]interface{}{"nestedKey": "nestedValue"}},
	}
	inputB := map[string]interface{}{
		"key": []interface{}{map[string]interface{}{"nestedKey": "nestedValue"}},
	}

	_, err := orderedmap.Conversion{Object: inputA}.FromUnorderedMaps()
	require.NoError(t, err)

	if !reflect.DeepEqual(inputA, inputB) {
		t.Errorf("Nested object was modified. Got: %v, Expected: %v", inputA, inputB)
	}
}

func TestFromUnorderedMapsSortsKeys(t *testing.T) {
	result, err := orderedmap.Conversion{Object: map[string]interface{}{"b": 1, "a": 2, "c": 3}}.FromUnorderedMaps()
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b", "c"}, result.(*orderedmap.Map).Keys())
}

func TestFromUnorderedMapsRejectsNonStringKeys(t *testing.T) {
	_, err := orderedmap.Conversion{Object: map[interface{}]interface{}{1: "one"}}.FromUnorderedMaps()
	require.EqualError(t, err, "Expected map key to be a string, but was int")
}

func TestAsUnorderedStringMapsLeavesOriginalIntact(t *testing.T) {
	inner := orderedmap.NewMap()
	inner.Set("id", 1)
	list := []interface{}{inner}
	outer := orderedmap.NewMap()
	outer.Set("items", list)

	result := orderedmap.Conversion{Object: outer}.AsUnorderedStringMaps()

	require.Equal(t, map[string]interface{}{
		"items": []interface{}{map[string]interface{}{"id": 1}},
	}, result)
	require.IsType(t, &orderedmap.Map{}, list[0])
}
