// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package texttemplate implements a Liquid-style text template engine.

Templates mix plain text with output markers (`{{ expr }}`) and tags
(`{% name markup %}`). Expressions are Starlark and are evaluated against the
variables of the current Context. Tags are built by DirectiveFactory functions
looked up in a Registry; block tags parse their bodies through the generic
TokenStream.ParseBlock routine and render them with NodeList.Render.

A `-` next to a marker (`{{-`, `-%}`) trims whitespace on that side.

Rendering is single threaded: a Context belongs to exactly one render pass.
*/
package texttemplate
