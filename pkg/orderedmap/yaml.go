// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package orderedmap

import (
	"encoding/json"
	"fmt"
	"strconv"

	"gopkg.in/yaml.v3"
)

// ParseYAML reads the first YAML document keeping mapping key order.
// Integers become json.Number; an empty document is nil.
func ParseYAML(data []byte) (interface{}, error) {
	var node yaml.Node

	err := yaml.Unmarshal(data, &node)
	if err != nil {
		return nil, err
	}
	if node.Kind == 0 {
		return nil, nil
	}

	return fromYAMLNode(&node)
}

func fromYAMLNode(node *yaml.Node) (interface{}, error) {
	switch node.Kind {
	case yaml.DocumentNode:
		if len(node.Content) == 0 {
			return nil, nil
		}
		return fromYAMLNode(node.Content[0])

	case yaml.MappingNode:
		result := NewMap()
		for i := 0; i+1 < len(node.Content); i += 2 {
			keyNode, valNode := node.Content[i], node.Content[i+1]
			if keyNode.Kind != yaml.ScalarNode {
				return nil, fmt.Errorf("Expected map key at line %d to be a scalar", keyNode.Line)
			}
			val, err := fromYAMLNode(valNode)
			if err != nil {
				return nil, err
			}
			result.Set(keyNode.Value, val)
		}
		return result, nil

	case yaml.SequenceNode:
		result := []interface{}{}
		for _, itemNode := range node.Content {
			item, err := fromYAMLNode(itemNode)
			if err != nil {
				return nil, err
			}
			result = append(result, item)
		}
		return result, nil

	case yaml.AliasNode:
		return fromYAMLNode(node.Alias)

	case yaml.ScalarNode:
		var val interface{}
		err := node.Decode(&val)
		if err != nil {
			return nil, fmt.Errorf("Decoding value at line %d: %s", node.Line, err)
		}
		switch typedVal := val.(type) {
		case int:
			return json.Number(strconv.Itoa(typedVal)), nil
		case int64:
			return json.Number(strconv.FormatInt(typedVal, 10)), nil
		case uint64:
			return json.Number(strconv.FormatUint(typedVal, 10)), nil
		default:
			return val, nil
		}

	default:
		return nil, fmt.Errorf("Unsupported YAML node kind %d at line %d", node.Kind, node.Line)
	}
}

// AsYAML writes a document as YAML keeping object key order.
func AsYAML(val interface{}) ([]byte, error) {
	node, err := toYAMLNode(val)
	if err != nil {
		return nil, err
	}
	return yaml.Marshal(node)
}

func toYAMLNode(val interface{}) (*yaml.Node, error) {
	switch typedVal := val.(type) {
	case *Map:
		node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
		err := typedVal.IterateErr(func(k string, v interface{}) error {
			valNode, err := toYAMLNode(v)
			if err != nil {
				return err
			}
			node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: k}, valNode)
			return nil
		})
		return node, err

	case []interface{}:
		node := &yaml.Node{Kind: yaml.SequenceNode, Tag: "!!seq"}
		for _, item := range typedVal {
			itemNode, err := toYAMLNode(item)
			if err != nil {
				return nil, err
			}
			node.Content = append(node.Content, itemNode)
		}
		return node, nil

	case json.Number:
		tag := "!!int"
		if _, err := typedVal.Int64(); err != nil {
			tag = "!!float"
		}
		return &yaml.Node{Kind: yaml.ScalarNode, Tag: tag, Value: typedVal.String()}, nil

	case map[string]interface{}:
		ordered, err := Conversion{typedVal}.FromUnorderedMaps()
		if err != nil {
			return nil, err
		}
		return toYAMLNode(ordered)

	default:
		node := &yaml.Node{}
		err := node.Encode(typedVal)
		if err != nil {
			return nil, err
		}
		return node, nil
	}
}
