// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package render

import (
	"carvel.dev/vtt/pkg/cmd/ui"
	"carvel.dev/vtt/pkg/convert"
	"github.com/spf13/cobra"
)

type BulkSourceOpts struct {
	bulkIn string
}

func (s *BulkSourceOpts) Set(cmd *cobra.Command) {
	cmd.Flags().StringVar(&s.bulkIn, "bulk-in", "", "Accept files, template and data in bulk format, and output result in bulk format")
}

func (s *BulkSourceOpts) HasInput() bool { return len(s.bulkIn) > 0 }

type BulkSource struct {
	opts BulkSourceOpts
	ui   ui.UI
}

func NewBulkSource(opts BulkSourceOpts, ui ui.UI) *BulkSource {
	return &BulkSource{opts, ui}
}

// Run writes a bulk response; conversion errors are part of the response.
func (s *BulkSource) Run(opts convert.Opts) error {
	req, err := convert.NewBulkRequest([]byte(s.opts.bulkIn))
	if err != nil {
		return err
	}

	resultBytes, err := convert.ConvertBulk(req, opts, s.ui).AsBytes()
	if err != nil {
		return err
	}

	s.ui.Debugf("### result\n")
	s.ui.Printf("%s", resultBytes)

	return nil
}
