// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"fmt"
	"path"
	"strings"

	"carvel.dev/vtt/pkg/orderedmap"
)

// LoadData parses input data by the extension of name: ".yaml"/".yml",
// ".toml", anything else is JSON. The result must be an object (or empty).
func LoadData(name string, data []byte) (*orderedmap.Map, error) {
	var doc interface{}
	var err error

	switch strings.ToLower(path.Ext(name)) {
	case ".yaml", ".yml":
		doc, err = orderedmap.ParseYAML(data)
	case ".toml":
		doc, err = orderedmap.ParseTOML(data)
	default:
		if len(strings.TrimSpace(string(data))) == 0 {
			return orderedmap.NewMap(), nil
		}
		doc, err = orderedmap.ParseJSON(data)
	}
	if err != nil {
		return nil, fmt.Errorf("Unmarshaling data '%s': %s", name, err)
	}

	switch typedDoc := doc.(type) {
	case nil:
		return orderedmap.NewMap(), nil
	case *orderedmap.Map:
		return typedDoc, nil
	default:
		return nil, fmt.Errorf("Expected data '%s' to be an object, but was %T", name, doc)
	}
}

// DataValue is a top level data override given as key=value.
type DataValue struct {
	Key   string
	Value interface{}
}

// ParseDataValue parses "key=value"; when asYAML is set the value is parsed
// as YAML (e.g. "count=3" is a number), otherwise it is a string.
func ParseDataValue(kv string, asYAML bool) (DataValue, error) {
	pieces := strings.SplitN(kv, "=", 2)
	if len(pieces) != 2 || len(pieces[0]) == 0 {
		return DataValue{}, fmt.Errorf("Expected data value '%s' to be in format 'key=value'", kv)
	}

	if !asYAML {
		return DataValue{Key: pieces[0], Value: pieces[1]}, nil
	}

	val, err := orderedmap.ParseYAML([]byte(pieces[1]))
	if err != nil {
		return DataValue{}, fmt.Errorf("Parsing data value '%s': %s", pieces[0], err)
	}
	return DataValue{Key: pieces[0], Value: val}, nil
}

// ApplyDataValues sets (or replaces, in place) top level keys of data.
func ApplyDataValues(data *orderedmap.Map, values []DataValue) {
	for _, val := range values {
		data.Set(val.Key, val.Value)
	}
}
