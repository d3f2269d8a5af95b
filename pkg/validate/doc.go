// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package validate provides the "validate" block directive.

	{% validate 'schemas/patient.json' %}
	{ "id": {{ patient.id }} }
	{% endvalidate %}

The block body is rendered in its own variable frame, parsed as a JSON
document and checked against the named JSON Schema. A valid document is
written in canonical (compact) form; anything else fails the render.

Schemas are read through the texttemplate.FileSystem registered on the
context. Contexts implementing SchemaSink (e.g. RenderContext) are told about
every schema a block validated against.
*/
package validate
