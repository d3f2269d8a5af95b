// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package cmd

import (
	"carvel.dev/vtt/pkg/cmd/ui"
	"carvel.dev/vtt/pkg/convert"
	"carvel.dev/vtt/pkg/server"
	"carvel.dev/vtt/pkg/validate"
	"github.com/spf13/cobra"
)

type ServeOptions struct {
	ListenAddr      string
	RedirectToHTTPS bool
	Debug           bool
	MaxIterations   int
	SchemaDraft     string
}

func NewServeOptions() *ServeOptions {
	return &ServeOptions{
		ListenAddr:    "localhost:8080",
		MaxIterations: 100000,
	}
}

func NewServeCmd(o *ServeOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Starts HTTP server converting templates",
		RunE:  func(_ *cobra.Command, _ []string) error { return o.Run() },
	}
	cmd.Flags().StringVar(&o.ListenAddr, "listen-addr", o.ListenAddr, "Listen address")
	cmd.Flags().BoolVar(&o.RedirectToHTTPS, "redirect-to-https", false, "Redirect to HTTPs address")
	cmd.Flags().BoolVar(&o.Debug, "debug", false, "Enable debug output")
	cmd.Flags().IntVar(&o.MaxIterations, "max-iterations", o.MaxIterations, "Maximum number of loop iterations per request (0 for unlimited)")
	cmd.Flags().StringVar(&o.SchemaDraft, "schema-draft", "", "JSON Schema draft used when schemas do not declare one")
	return cmd
}

func (o *ServeOptions) Server(ui ui.UI) *server.Server {
	opts := server.ServerOpts{
		ListenAddr:      o.ListenAddr,
		RedirectToHTTPS: o.RedirectToHTTPS,
		ConvertOpts: convert.Opts{
			SchemaOpts:    validate.SchemaOpts{Draft: o.SchemaDraft},
			MaxIterations: o.MaxIterations,
		},
	}
	return server.NewServer(opts, ui)
}

func (o *ServeOptions) Run() error {
	return o.Server(ui.NewTTY(o.Debug)).Run()
}
