// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package library_test

import (
	"testing"

	"carvel.dev/vtt/pkg/library"
	"carvel.dev/vtt/pkg/version"
	"github.com/k14s/starlark-go/starlark"
	"github.com/stretchr/testify/require"
)

func eval(t *testing.T, expr string) (starlark.Value, error) {
	t.Helper()
	return starlark.Eval(&starlark.Thread{Name: "test"}, "test", expr, library.API())
}

func TestJSONEncodeKeepsDictOrder(t *testing.T) {
	val, err := eval(t, `json.encode({"z": 1, "a": [True, None, "s"]})`)
	require.NoError(t, err)
	require.Equal(t, starlark.String(`{"z":1,"a":[true,null,"s"]}`), val)

	val, err = eval(t, `json.encode({"z": 1, "a": [{"y": 2, "b": 3}]}, sort_keys=True)`)
	require.NoError(t, err)
	require.Equal(t, starlark.String(`{"a":[{"b":3,"y":2}],"z":1}`), val)

	_, err = eval(t, `json.encode({"z": 1}, sort_keys=1)`)
	require.Error(t, err)
}

func TestJSONEncodeIndent(t *testing.T) {
	val, err := eval(t, `json.encode({"a": 1}, indent=2)`)
	require.NoError(t, err)
	require.Equal(t, starlark.String("{\n  \"a\": 1\n}"), val)

	_, err = eval(t, `json.encode({"a": 1}, indent=9)`)
	require.ErrorContains(t, err, "indent value must be between 0 and 8")

	_, err = eval(t, `json.encode({"a": 1}, pretty=True)`)
	require.ErrorContains(t, err, "unexpected keyword argument(s): pretty")
}

func TestJSONDecode(t *testing.T) {
	val, err := eval(t, `json.decode('{"b": {"c": 3}, "a": 1}').b.c`)
	require.NoError(t, err)
	require.Equal(t, starlark.MakeInt(3), val)

	val, err = eval(t, `json.encode(json.decode('{"b": 2, "a": 1}'))`)
	require.NoError(t, err)
	require.Equal(t, starlark.String(`{"b":2,"a":1}`), val)

	_, err = eval(t, `json.decode('{')`)
	require.Error(t, err)
}

func TestVersionRequireAtLeast(t *testing.T) {
	prev := version.Version
	defer func() { version.Version = prev }()

	version.Version = "0.5.0"

	_, err := eval(t, `version.require_at_least("0.4.1")`)
	require.NoError(t, err)

	_, err = eval(t, `version.require_at_least("1.0.0")`)
	require.ErrorContains(t, err, "vtt version 0.5.0 does not meet the minimum required version 1.0.0")

	_, err = eval(t, `version.require_at_least("not-a-version")`)
	require.Error(t, err)

	version.Version = version.DevelopVersion
	_, err = eval(t, `version.require_at_least("99.0.0")`)
	require.NoError(t, err)
}

func TestYAMLModule(t *testing.T) {
	val, err := eval(t, `yaml.decode("b: 2\na: [x, 1]\n").a[1]`)
	require.NoError(t, err)
	require.Equal(t, starlark.MakeInt(1), val)

	val, err = eval(t, `json.encode(yaml.decode("b: 2\na: [x, 1]\n"))`)
	require.NoError(t, err)
	require.Equal(t, starlark.String(`{"b":2,"a":["x",1]}`), val)

	val, err = eval(t, `yaml.encode({"b": "x", "a": True})`)
	require.NoError(t, err)
	require.Equal(t, starlark.String("b: x\na: true\n"), val)

	_, err = eval(t, `yaml.decode("a: [")`)
	require.Error(t, err)
}

func TestTOMLModule(t *testing.T) {
	val, err := eval(t, `toml.decode("id = 'p1'\n[name]\ngiven = ['Jane']\n").name.given[0]`)
	require.NoError(t, err)
	require.Equal(t, starlark.String("Jane"), val)

	val, err = eval(t, `toml.encode({"b": 2, "a": "x"})`)
	require.NoError(t, err)
	require.Equal(t, starlark.String("a = \"x\"\nb = 2\n"), val)

	_, err = eval(t, `toml.encode([1, 2])`)
	require.ErrorContains(t, err, "expected a dict or struct, but was list")

	_, err = eval(t, `toml.encode({"a": 1}, indent=10)`)
	require.ErrorContains(t, err, "indent value must be between 0 and 8")
}
