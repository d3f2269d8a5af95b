// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package convert runs render passes: it loads a root template through a
texttemplate.FileSystem, renders it against input data with a fresh
validate.RenderContext and reports which schemas were applied.

Input data is read from JSON, YAML or TOML (see LoadData) and exposed to
templates as top-level variables.
*/
package convert
