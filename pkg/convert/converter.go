// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package convert

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"carvel.dev/vtt/pkg/cmd/ui"
	"carvel.dev/vtt/pkg/orderedmap"
	"carvel.dev/vtt/pkg/texttemplate"
	"carvel.dev/vtt/pkg/validate"
)

const (
	OutputFormatText = "text"
	OutputFormatJSON = "json"
	OutputFormatYAML = "yaml"
)

// OutputFormats lists the accepted values of Opts.OutputFormat.
var OutputFormats = []string{OutputFormatText, OutputFormatJSON, OutputFormatYAML}

type Opts struct {
	SchemaOpts validate.SchemaOpts
	// MaxIterations bounds loop iterations per render pass; 0 means unlimited.
	MaxIterations int
	// OutputFormat "json" and "yaml" require the rendered output to be JSON
	// and re-encode it (indented JSON, YAML); "text" keeps it as rendered.
	OutputFormat string
}

// Converter renders templates from a single file system. It keeps no state
// between Convert calls and may be used concurrently.
type Converter struct {
	fs       texttemplate.FileSystem
	registry *texttemplate.Registry
	opts     Opts
	ui       ui.UI
}

type Result struct {
	Output           []byte
	ValidatedSchemas []string
}

func NewConverter(fs texttemplate.FileSystem, opts Opts, ui ui.UI) (*Converter, error) {
	switch opts.OutputFormat {
	case "":
		opts.OutputFormat = OutputFormatText
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML:
	default:
		return nil, fmt.Errorf("Unknown output format '%s' (supported: %s)",
			opts.OutputFormat, strings.Join(OutputFormats, ", "))
	}

	// fail early on bad schema options
	_, err := validate.NewSchemaLoader(opts.SchemaOpts)
	if err != nil {
		return nil, err
	}

	return &Converter{fs: fs, registry: validate.NewRegistry(), opts: opts, ui: ui}, nil
}

// Convert renders templateName against data; data may be nil.
func (c *Converter) Convert(templateName string, data *orderedmap.Map) (Result, error) {
	t1 := time.Now()

	defer func() {
		c.ui.Debugf("convert %s: %s\n", templateName, time.Now().Sub(t1))
	}()

	src, err := c.fs.ReadTemplateFile(templateName)
	if err != nil {
		return Result{}, fmt.Errorf("Loading template: %s", err)
	}

	tpl, err := texttemplate.Parse(templateName, []byte(src), c.registry)
	if err != nil {
		return Result{}, err
	}

	loader, err := validate.NewSchemaLoader(c.opts.SchemaOpts)
	if err != nil {
		return Result{}, err
	}

	var ctxData interface{}
	if data != nil {
		ctxData = data
	}

	ctx, err := validate.NewRenderContext(texttemplate.ContextOpts{
		Data: ctxData,
		Registers: map[string]interface{}{
			texttemplate.FileSystemRegister: c.fs,
			validate.SchemaLoaderRegister:   loader,
		},
		Directives:    c.registry,
		MaxIterations: c.opts.MaxIterations,
	})
	if err != nil {
		return Result{}, err
	}

	var out bytes.Buffer

	err = tpl.Render(ctx, &out)
	if err != nil {
		return Result{}, err
	}

	schemaNames := ctx.ValidatedSchemaNames()
	c.ui.Debugf("validated schemas: [%s]\n", strings.Join(schemaNames, ", "))

	output, err := c.formatOutput(templateName, out.Bytes())
	if err != nil {
		return Result{}, err
	}

	return Result{Output: output, ValidatedSchemas: schemaNames}, nil
}

func (c *Converter) formatOutput(templateName string, output []byte) ([]byte, error) {
	if c.opts.OutputFormat == OutputFormatText {
		return output, nil
	}

	doc, err := orderedmap.ParseJSON(output)
	if err != nil {
		return nil, fmt.Errorf("Expected output of template '%s' to be JSON: %s", templateName, err)
	}

	if c.opts.OutputFormat == OutputFormatYAML {
		return orderedmap.AsYAML(doc)
	}

	canonical, err := orderedmap.AsJSON(doc)
	if err != nil {
		return nil, err
	}

	var indented bytes.Buffer
	err = json.Indent(&indented, canonical, "", "  ")
	if err != nil {
		return nil, err
	}
	indented.WriteString("\n")

	return indented.Bytes(), nil
}
