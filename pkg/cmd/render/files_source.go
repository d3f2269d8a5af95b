// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"carvel.dev/vtt/pkg/cmd/ui"
	"carvel.dev/vtt/pkg/files"
	"github.com/spf13/cobra"
)

type FilesSourceOpts struct {
	files     []string
	templates []string
	recursive bool
	output    string
}

func (s *FilesSourceOpts) Set(cmd *cobra.Command) {
	cmd.Flags().StringSliceVarP(&s.files, "file", "f", nil, "File (ie local path, HTTP URL, -) (can be specified multiple times)")
	cmd.Flags().StringArrayVarP(&s.templates, "template", "t", nil, "Template to render, relative to given files (can be specified multiple times; defaults to all template files)")
	cmd.Flags().BoolVarP(&s.recursive, "recursive", "R", true, "Interpret file as directory")
	cmd.Flags().StringVarP(&s.output, "output", "o", "", "Directory for output")
}

type FilesSource struct {
	opts FilesSourceOpts
	ui   ui.UI
}

func NewFilesSource(opts FilesSourceOpts, ui ui.UI) *FilesSource {
	return &FilesSource{opts, ui}
}

func (s *FilesSource) Input() (RenderInput, error) {
	filesToProcess, err := files.NewFiles(s.opts.files, s.opts.recursive)
	if err != nil {
		return RenderInput{}, err
	}

	for _, file := range filesToProcess {
		s.ui.Debugf("file %s (%s)\n", file.RelativePath(), file.Description())
	}

	return RenderInput{Files: filesToProcess, Templates: s.opts.templates}, nil
}

func (s *FilesSource) Output(out RenderOutput) error {
	if out.Err != nil {
		return out.Err
	}

	if len(s.opts.output) > 0 {
		return files.NewOutputDirectory(s.opts.output, out.Files, s.ui).Write()
	}

	for i, file := range out.Files {
		if i > 0 {
			s.ui.Printf("\n")
		}
		s.ui.Debugf("### result %s\n", file.RelativePath())
		s.ui.Printf("%s", file.Bytes()) // no newline
	}

	return nil
}
