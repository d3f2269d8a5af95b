// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"carvel.dev/vtt/pkg/cmd/ui"
	"carvel.dev/vtt/pkg/convert"
	"carvel.dev/vtt/pkg/files"
	"carvel.dev/vtt/pkg/orderedmap"
	"carvel.dev/vtt/pkg/validate"
	"github.com/spf13/cobra"
)

type RenderOptions struct {
	Debug        bool
	PrintSchemas bool

	FilesSourceOpts FilesSourceOpts
	BulkSourceOpts  BulkSourceOpts
	DataFlags       DataFlags

	OutputFormat  string
	SchemaDraft   string
	AssertFormat  bool
	MaxIterations int
}

type RenderInput struct {
	Files     []*files.File
	Templates []string
	Data      *orderedmap.Map
}

type RenderOutput struct {
	Files []files.OutputFile
	// ValidatedSchemas per rendered template, in rendering order.
	ValidatedSchemas [][]string
	Err              error
}

func NewOptions() *RenderOptions {
	return &RenderOptions{OutputFormat: convert.OutputFormatText}
}

func NewCmd(o *RenderOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:     "render",
		Aliases: []string{"r"},
		Short:   "Render templates, validating their JSON output",
		RunE:    func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	cmd.Flags().BoolVar(&o.PrintSchemas, "print-schemas", false, "Print names of validated schemas to stderr")
	cmd.Flags().StringVar(&o.OutputFormat, "output-format", o.OutputFormat,
		fmt.Sprintf("Output format (one of: %s)", strings.Join(convert.OutputFormats, ", ")))
	cmd.Flags().StringVar(&o.SchemaDraft, "schema-draft", "",
		fmt.Sprintf("JSON Schema draft used when schemas do not declare one (one of: %s)", strings.Join(validate.SupportedDrafts(), ", ")))
	cmd.Flags().BoolVar(&o.AssertFormat, "schema-assert-format", false, "Treat JSON Schema 'format' keyword as an assertion")
	cmd.Flags().IntVar(&o.MaxIterations, "max-iterations", 0, "Maximum number of loop iterations per template (0 for unlimited)")
	o.FilesSourceOpts.Set(cmd)
	o.BulkSourceOpts.Set(cmd)
	o.DataFlags.Set(cmd)
	return cmd
}

func (o *RenderOptions) Run() error {
	return o.RunWithUI(ui.NewTTY(o.Debug))
}

func (o *RenderOptions) RunWithUI(ui ui.UI) error {
	t1 := time.Now()

	defer func() {
		ui.Debugf("total: %s\n", time.Now().Sub(t1))
	}()

	if o.BulkSourceOpts.HasInput() {
		return NewBulkSource(o.BulkSourceOpts, ui).Run(o.convertOpts())
	}

	src := NewFilesSource(o.FilesSourceOpts, ui)

	in, err := src.Input()
	if err != nil {
		return err
	}

	in.Data, err = o.DataFlags.Data()
	if err != nil {
		return err
	}

	out := o.RunWithFiles(in, ui)

	if o.PrintSchemas && out.Err == nil {
		for i, names := range out.ValidatedSchemas {
			ui.Warnf("%s: validated schemas: [%s]\n", out.Files[i].RelativePath(), strings.Join(names, ", "))
		}
	}

	return src.Output(out)
}

// RunWithFiles renders every requested template (or, when none were
// requested, every template file) from the given files.
func (o *RenderOptions) RunWithFiles(in RenderInput, ui ui.UI) RenderOutput {
	lib, err := files.NewLibrary(in.Files)
	if err != nil {
		return RenderOutput{Err: err}
	}

	converter, err := convert.NewConverter(lib, o.convertOpts(), ui)
	if err != nil {
		return RenderOutput{Err: err}
	}

	templates := in.Templates
	if len(templates) == 0 {
		for _, file := range lib.Files() {
			if file.IsTemplate() {
				templates = append(templates, file.RelativePath())
			}
		}
		sort.Strings(templates)
	}

	if len(templates) == 0 {
		return RenderOutput{Err: fmt.Errorf("Expected at least one template file (with '%s' extension)", files.TemplateExt)}
	}

	var out RenderOutput

	for _, name := range templates {
		ui.Debugf("### template %s\n", name)

		result, err := converter.Convert(name, in.Data)
		if err != nil {
			return RenderOutput{Err: err}
		}

		out.Files = append(out.Files, files.NewOutputFileForTemplate(name, o.outputExt(), result.Output))
		out.ValidatedSchemas = append(out.ValidatedSchemas, result.ValidatedSchemas)
	}

	return out
}

func (o *RenderOptions) convertOpts() convert.Opts {
	return convert.Opts{
		SchemaOpts: validate.SchemaOpts{
			Draft:        o.SchemaDraft,
			AssertFormat: o.AssertFormat,
			Cache:        true,
		},
		MaxIterations: o.MaxIterations,
		OutputFormat:  o.OutputFormat,
	}
}

func (o *RenderOptions) outputExt() string {
	if o.OutputFormat == convert.OutputFormatYAML {
		return ".yaml"
	}
	return ".json"
}
