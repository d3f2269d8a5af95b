// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"

	"carvel.dev/vtt/pkg/convert"
	"carvel.dev/vtt/pkg/files"
	"carvel.dev/vtt/pkg/orderedmap"
	"github.com/spf13/cobra"
)

type DataFlags struct {
	Files          []string
	KVsFromStrings []string
	KVsFromYAML    []string
}

func (s *DataFlags) Set(cmd *cobra.Command) {
	cmd.Flags().StringArrayVar(&s.Files, "data-file", nil, "Data file (JSON, YAML or TOML by extension; local path, HTTP URL, -) (can be specified multiple times)")
	cmd.Flags().StringArrayVarP(&s.KVsFromStrings, "data-value", "v", nil, "Set top level data value to given value, as string (format: key=123) (can be specified multiple times)")
	cmd.Flags().StringArrayVar(&s.KVsFromYAML, "data-value-yaml", nil, "Set top level data value to given value, parsed as YAML (format: key=true) (can be specified multiple times)")
}

// Data merges data files (later files override top level keys of earlier
// ones) and then applies data values.
func (s *DataFlags) Data() (*orderedmap.Map, error) {
	result := orderedmap.NewMap()

	dataFiles, err := files.NewFiles(s.Files, false)
	if err != nil {
		return nil, err
	}

	for _, file := range dataFiles {
		fileBytes, err := file.Bytes()
		if err != nil {
			return nil, fmt.Errorf("Reading data %s: %s", file.Description(), err)
		}

		data, err := convert.LoadData(file.RelativePath(), fileBytes)
		if err != nil {
			return nil, err
		}

		data.Iterate(func(k string, v interface{}) { result.Set(k, v) })
	}

	var values []convert.DataValue

	for _, src := range []struct {
		kvs    []string
		asYAML bool
	}{{s.KVsFromStrings, false}, {s.KVsFromYAML, true}} {
		for _, kv := range src.kvs {
			val, err := convert.ParseDataValue(kv, src.asYAML)
			if err != nil {
				return nil, err
			}
			values = append(values, val)
		}
	}

	convert.ApplyDataValues(result, values)

	return result, nil
}
