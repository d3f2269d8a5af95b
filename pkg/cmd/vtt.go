// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"carvel.dev/vtt/pkg/cmd/render"
	"carvel.dev/vtt/pkg/version"
	"github.com/cppforlife/cobrautil"
	"github.com/spf13/cobra"
)

type VttOptions struct{}

func NewDefaultVttOptions() *VttOptions {
	return &VttOptions{}
}

func NewDefaultVttCmd() *cobra.Command {
	return NewVttCmd(NewDefaultVttOptions())
}

func NewVttCmd(o *VttOptions) *cobra.Command {
	cmd := render.NewCmd(render.NewOptions())

	cmd.Use = "vtt"
	cmd.Aliases = nil
	cmd.Version = version.Version
	cmd.Short = "vtt renders text templates into validated JSON"
	cmd.Long = `vtt renders text templates into validated JSON.

Templates wrap the JSON they produce in validate blocks:

  {% validate 'schemas/patient.json' %}{"id": "{{ id }}"}{% endvalidate %}

The block content is rendered, parsed and validated against the named JSON Schema;
rendering fails if it does not conform.`

	// Affects children as well
	cmd.SilenceErrors = true
	cmd.SilenceUsage = true

	// Disable docs header
	cmd.DisableAutoGenTag = true

	cmd.AddCommand(NewVersionCmd(NewVersionOptions()))
	cmd.AddCommand(render.NewCmd(render.NewOptions()))
	cmd.AddCommand(NewFmtCmd(NewFmtOptions()))
	cmd.AddCommand(NewServeCmd(NewServeOptions()))

	// Reconfigure Commands
	cobrautil.VisitCommands(cmd, cobrautil.ReconfigureCmdWithSubcmd,
		cobrautil.DisallowExtraArgs, cobrautil.WrapRunEForCmd(cobrautil.ResolveFlagsForCmd))

	return cmd
}
