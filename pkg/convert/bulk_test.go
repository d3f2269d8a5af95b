// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package convert_test

import (
	"testing"

	"carvel.dev/vtt/pkg/cmd/ui"
	"carvel.dev/vtt/pkg/convert"
	"github.com/stretchr/testify/require"
)

func TestConvertBulk(t *testing.T) {
	req, err := convert.NewBulkRequest([]byte(`{
  "files": [
    {"name": "tpl.liquid", "data": "{% validate 'schema.json' %}{\"name\": \"{{ name }}\"}{% endvalidate %}"},
    {"name": "schema.json", "data": "{\"required\": [\"name\"], \"properties\": {\"name\": {\"minLength\": 2}}}"}
  ],
  "template": "tpl",
  "data": {"name": "vtt"}
}`))
	require.NoError(t, err)

	resp := convert.ConvertBulk(req, convert.Opts{}, ui.NewNoopUI())
	require.Equal(t, convert.BulkResponse{Output: `{"name":"vtt"}`, ValidatedSchemas: []string{"schema.json"}}, resp)

	respBytes, err := resp.AsBytes()
	require.NoError(t, err)
	require.Equal(t, `{"output":"{\"name\":\"vtt\"}","validated_schemas":["schema.json"]}`, string(respBytes))

	req.Data = []byte(`{"name": "v"}`)

	resp = convert.ConvertBulk(req, convert.Opts{}, ui.NewNoopUI())
	require.Empty(t, resp.Output)
	require.Contains(t, resp.Errors, "Rendering 'validate' tag (line tpl:1:1): validation error: ")

	respBytes, err = resp.AsBytes()
	require.NoError(t, err)
	require.NotContains(t, string(respBytes), "output")
}

func TestConvertBulkErrors(t *testing.T) {
	_, err := convert.NewBulkRequest([]byte(`[`))
	require.Error(t, err)

	resp := convert.ConvertBulk(convert.BulkRequest{Files: []convert.BulkFile{{Name: "a.liquid"}, {Name: "a.liquid"}}},
		convert.Opts{}, ui.NewNoopUI())
	require.Contains(t, resp.Errors, "Expected file path 'a.liquid' to be unique")

	resp = convert.ConvertBulk(convert.BulkRequest{}, convert.Opts{}, ui.NewNoopUI())
	require.Equal(t, "Expected bulk request to name a template", resp.Errors)

	resp = convert.ConvertBulk(convert.BulkRequest{Template: "missing"}, convert.Opts{}, ui.NewNoopUI())
	require.Equal(t, "Loading template: Template 'missing' not found", resp.Errors)
}
