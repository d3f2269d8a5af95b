// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"time"

	"carvel.dev/vtt/pkg/cmd/ui"
	"carvel.dev/vtt/pkg/convert"
	"carvel.dev/vtt/pkg/files"
	"carvel.dev/vtt/pkg/orderedmap"
	"github.com/spf13/cobra"
)

const (
	fmtFormatJSON = "json"
	fmtFormatYAML = "yaml"
	fmtFormatTOML = "toml"
)

type FmtOptions struct {
	Files        []string
	OutputFormat string
	Debug        bool
}

func NewFmtOptions() *FmtOptions {
	return &FmtOptions{OutputFormat: fmtFormatJSON}
}

func NewFmtCmd(o *FmtOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fmt",
		Short: "Format data files (JSON, YAML or TOML) keeping key order",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run(ui.NewTTY(o.Debug)) },
	}
	cmd.Flags().StringArrayVarP(&o.Files, "file", "f", nil, "File (ie local path, HTTP URL, -) (can be specified multiple times)")
	cmd.Flags().StringVar(&o.OutputFormat, "output-format", o.OutputFormat, "Output format (one of: json, yaml, toml)")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	return cmd
}

func (o *FmtOptions) Run(ui ui.UI) error {
	t1 := time.Now()

	defer func() {
		ui.Debugf("total: %s\n", time.Now().Sub(t1))
	}()

	filesToProcess, err := files.NewFiles(o.Files, false)
	if err != nil {
		return err
	}

	for _, file := range filesToProcess {
		data, err := file.Bytes()
		if err != nil {
			return err
		}

		doc, err := convert.LoadData(file.RelativePath(), data)
		if err != nil {
			return err
		}

		formatted, err := o.format(doc)
		if err != nil {
			return fmt.Errorf("Formatting %s: %s", file.Description(), err)
		}

		ui.Printf("%s", formatted)
	}

	return nil
}

func (o *FmtOptions) format(doc *orderedmap.Map) ([]byte, error) {
	switch o.OutputFormat {
	case fmtFormatJSON:
		compact, err := orderedmap.AsJSON(doc)
		if err != nil {
			return nil, err
		}
		var indented bytes.Buffer
		err = json.Indent(&indented, compact, "", "  ")
		if err != nil {
			return nil, err
		}
		indented.WriteString("\n")
		return indented.Bytes(), nil

	case fmtFormatYAML:
		return orderedmap.AsYAML(doc)

	case fmtFormatTOML:
		return orderedmap.AsTOML(doc, 2)

	default:
		return nil, fmt.Errorf("Unknown output format '%s' (supported: json, yaml, toml)", o.OutputFormat)
	}
}
