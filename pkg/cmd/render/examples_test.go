// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package render_test

import (
	"bytes"
	"path/filepath"
	"testing"

	"carvel.dev/vtt/pkg/cmd/render"
	"carvel.dev/vtt/pkg/cmd/ui"
	"github.com/stretchr/testify/require"
)

func TestPatientBundleExample(t *testing.T) {
	exampleDir := filepath.Join("..", "..", "..", "examples", "patient-bundle")

	opts := render.NewOptions()
	cmd := render.NewCmd(opts)
	require.NoError(t, cmd.Flags().Set("file", filepath.Join(exampleDir, "config")))
	require.NoError(t, cmd.Flags().Set("template", "bundle"))
	require.NoError(t, cmd.Flags().Set("data-file", filepath.Join(exampleDir, "data.yml")))
	require.NoError(t, cmd.Flags().Set("print-schemas", "true"))

	var stdout, stderr bytes.Buffer

	err := opts.RunWithUI(ui.NewCustomWriterTTY(false, &stdout, &stderr))
	require.NoError(t, err)

	require.Equal(t, `{"resourceType":"Bundle","type":"collection","entry":[`+
		`{"resource":{"resourceType":"Patient","id":"pat-1","active":true,"name":[{"family":"Lovelace","given":["Ada","Augusta"]}],"birthDate":"1815-12-10"}},`+
		`{"resource":{"resourceType":"Patient","id":"pat-2","active":false,"name":[{"family":"Hopper","given":["Grace"]}]}}]}`, stdout.String())
	require.Equal(t, "bundle.json: validated schemas: [schemas/patient.json, schemas/patient.json, schemas/bundle.json]\n", stderr.String())

	t.Run("invalid patient", func(t *testing.T) {
		require.NoError(t, cmd.Flags().Set("data-value-yaml", `patients=[{id: "", active: true, family: X, given: []}]`))

		err := opts.RunWithUI(ui.NewNoopUI())
		require.Error(t, err)
		require.Contains(t, err.Error(), "Rendering 'validate' tag (line partials/patient:1:1): validation error: ")
		require.Contains(t, err.Error(), "(path '#/id')")
	})
}
