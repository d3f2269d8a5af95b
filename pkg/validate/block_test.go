// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package validate_test

import (
	"bytes"
	"errors"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"carvel.dev/vtt/pkg/orderedmap"
	"carvel.dev/vtt/pkg/texttemplate"
	"carvel.dev/vtt/pkg/validate"
	fuzz "github.com/google/gofuzz"
	"github.com/stretchr/testify/require"
)

const patientSchema = `{"type":"object","required":["id"]}`

type mapFileSystem map[string]string

func (fs mapFileSystem) ReadTemplateFile(name string) (string, error) {
	if src, found := fs[name]; found {
		return src, nil
	}
	return "", fmt.Errorf("Template '%s' not found", name)
}

type countingFileSystem struct {
	mapFileSystem
	reads map[string]int
}

func (fs *countingFileSystem) ReadTemplateFile(name string) (string, error) {
	fs.reads[name]++
	return fs.mapFileSystem.ReadTemplateFile(name)
}

func TestBlockMarkup(t *testing.T) {
	t.Run("accepts a single quoted or bare argument", func(t *testing.T) {
		cases := map[string]string{
			`'schemas/patient.json'`:   "schemas/patient.json",
			`"schemas/patient.json"`:   "schemas/patient.json",
			`schemas/patient.json`:     "schemas/patient.json",
			`'with space.json'`:        "with space.json",
			`"it's.json"`:              "it's.json",
			`'patient.json'          `: "patient.json",
		}
		for markup, expectedName := range cases {
			block := parseBlock(t, markup)
			require.Equal(t, expectedName, block.SchemaName, "markup %q", markup)
		}
	})

	t.Run("rejects anything else", func(t *testing.T) {
		for _, markup := range []string{``, `a b`, `'a' 'b'`, `''`, `""`, `'a`, `"a'`, `a"b`} {
			_, err := texttemplate.Parse("tpl", []byte("{% validate "+markup+" %}{}{% endvalidate %}"), validate.NewRegistry())
			require.Error(t, err, "markup %q", markup)

			var syntaxErr *texttemplate.SyntaxError
			require.True(t, errors.As(err, &syntaxErr), "markup %q", markup)
			require.Equal(t, "validate", syntaxErr.Tag)
		}
	})

	t.Run("reports the offending markup", func(t *testing.T) {
		_, err := texttemplate.Parse("tpl", []byte("\n{% validate a b %}{}{% endvalidate %}"), validate.NewRegistry())
		require.EqualError(t, err, "Syntax error in 'validate' tag (line tpl:2:1): Expected a single schema name argument, but was 'a b'")
	})

	t.Run("requires the end tag", func(t *testing.T) {
		_, err := texttemplate.Parse("tpl", []byte("{% validate 'a.json' %}{}"), validate.NewRegistry())
		require.EqualError(t, err, "Syntax error in 'validate' tag (line tpl:1:1): Missing closing 'endvalidate' tag")
	})
}

func TestBlockMarkupWithFuzzedNames(t *testing.T) {
	fuzzNames := fuzz.New().RandSource(getRandSource(t)).Funcs(func(s *string, c fuzz.Continue) {
		*s = c.RandString()
		*s = strings.NewReplacer(`'`, "", `"`, "").Replace(*s)
		if len(*s) == 0 {
			*s = strconv.Itoa(c.Intn(1000))
		}
	})

	for i := 0; i < 200; i++ {
		var name string
		fuzzNames.Fuzz(&name)

		for _, quote := range []string{`'`, `"`} {
			block, err := newBlock(quote + name + quote)
			require.NoError(t, err, "name %q", name)
			require.Equal(t, name, block.SchemaName)
		}

		if !strings.ContainsAny(name, " \t\n\f\r") {
			block, err := newBlock(name)
			require.NoError(t, err, "name %q", name)
			require.Equal(t, name, block.SchemaName)
		}

		_, err := newBlock(`'` + name + `' '` + name + `'`)
		var syntaxErr *texttemplate.SyntaxError
		require.True(t, errors.As(err, &syntaxErr), "name %q", name)
	}
}

func TestBlockRendersValidDocument(t *testing.T) {
	fs := mapFileSystem{"schemas/patient.json": patientSchema}

	out, ctx, err := renderWithContext(t, fs, "before {% validate 'schemas/patient.json' %}\n"+
		"{\"id\": {{ 40 + 2 }},\n \"name\": \"x\"}\n{% endvalidate %} after")
	require.NoError(t, err)
	require.Equal(t, `before {"id":42,"name":"x"} after`, out)
	require.Equal(t, []string{"schemas/patient.json"}, ctx.ValidatedSchemaNames())

	schemas := ctx.ValidatedSchemas()
	require.Len(t, schemas, 1)
	require.Equal(t, patientSchema, schemas[0].Source)
}

func TestBlockOutputRoundTrips(t *testing.T) {
	fs := mapFileSystem{"any.json": `{}`}

	docs := []string{
		`{"b": 1, "a": [true, null, 1.50, "<&>"], "c": {"z": {}, "y": []}}`,
		`[1, "two", {"three": 3}]`,
		`"just a string"`,
		`12345678901234567890`,
		`null`,
	}

	for _, doc := range docs {
		out, _, err := renderWithContext(t, fs, "{% validate any.json %}"+rawBody(doc)+"{% endvalidate %}")
		require.NoError(t, err, "doc %s", doc)

		expected, err := orderedmap.ParseJSON([]byte(doc))
		require.NoError(t, err)

		actual, err := orderedmap.ParseJSON([]byte(out))
		require.NoError(t, err, "output %s", out)

		require.Equal(t,
			orderedmap.Conversion{Object: expected}.AsUnorderedStringMaps(),
			orderedmap.Conversion{Object: actual}.AsUnorderedStringMaps())

		canonical, err := orderedmap.AsJSON(expected)
		require.NoError(t, err)
		require.Equal(t, string(canonical), out)
	}
}

func TestBlockFailsOnViolations(t *testing.T) {
	fs := mapFileSystem{"schemas/patient.json": patientSchema}

	tpl, err := texttemplate.Parse("tpl", []byte(`before {% validate 'schemas/patient.json' %}{"name":"x"}{% endvalidate %} after`), validate.NewRegistry())
	require.NoError(t, err)

	ctx := newRenderContext(t, fs)

	var out bytes.Buffer
	err = tpl.Render(ctx, &out)
	require.Error(t, err)
	require.Equal(t, "before ", out.String())
	require.Empty(t, ctx.ValidatedSchemas())

	var validationErr *validate.ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Equal(t, "schemas/patient.json", validationErr.SchemaName)
	require.Len(t, validationErr.Violations, 1)
	require.Contains(t, validationErr.Violations[0], "'id'")
	require.Contains(t, validationErr.Violations[0], "(path '#')")

	require.Equal(t, "Rendering 'validate' tag (line tpl:1:8): validation error: "+validationErr.Error(), err.Error())
}

func TestBlockJoinsEveryViolation(t *testing.T) {
	fs := mapFileSystem{
		"s.json": `{"type":"object","properties":{"id":{"type":"integer"},"name":{"type":"string"}}}`,
	}

	_, _, err := renderWithContext(t, fs, `{% validate 's.json' %}{"id":"x","name":1}{% endvalidate %}`)

	var validationErr *validate.ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Len(t, validationErr.Violations, 2)
	require.Equal(t, strings.Join(validationErr.Violations, ";"), validationErr.Error())
	require.Contains(t, validationErr.Violations[0], "(path '#/id')")
	require.Contains(t, validationErr.Violations[1], "(path '#/name')")
}

func TestNestedBlocks(t *testing.T) {
	fs := mapFileSystem{
		"outer.json": `{"type":"object","required":["inner"]}`,
		"inner.json": `{"type":"object","required":["id"]}`,
	}

	t.Run("records schemas in completion order", func(t *testing.T) {
		out, ctx, err := renderWithContext(t, fs,
			`{% validate 'outer.json' %}{"inner": {% validate 'inner.json' %}{"id": 1}{% endvalidate %}}{% endvalidate %}`)
		require.NoError(t, err)
		require.Equal(t, `{"inner":{"id":1}}`, out)
		require.Equal(t, []string{"inner.json", "outer.json"}, ctx.ValidatedSchemaNames())
	})

	t.Run("validates inner content against its own schema", func(t *testing.T) {
		_, ctx, err := renderWithContext(t, fs,
			"{% validate 'outer.json' %}{\"inner\":\n  {% validate 'inner.json' %}{\"inner\": 1}{% endvalidate %}}{% endvalidate %}")

		var validationErr *validate.ValidationError
		require.True(t, errors.As(err, &validationErr))
		require.Equal(t, "inner.json", validationErr.SchemaName)
		require.Contains(t, err.Error(), "(line tpl:2:3)")
		require.Empty(t, ctx.ValidatedSchemas())
	})

	t.Run("validates outer content after inner content passes", func(t *testing.T) {
		_, ctx, err := renderWithContext(t, fs,
			`{% validate 'outer.json' %}{"other": {% validate 'inner.json' %}{"id": 1}{% endvalidate %}}{% endvalidate %}`)

		var validationErr *validate.ValidationError
		require.True(t, errors.As(err, &validationErr))
		require.Equal(t, "outer.json", validationErr.SchemaName)
		require.Equal(t, []string{"inner.json"}, ctx.ValidatedSchemaNames())
	})
}

func TestSameSchemaIsRecordedOnEveryUse(t *testing.T) {
	fs := &countingFileSystem{mapFileSystem{"s.json": `{}`}, map[string]int{}}

	tpl := `{% for i in [1, 2] %}{% validate 's.json' %}{{ i }}{% endvalidate %}{% endfor %}`

	out, ctx, err := renderWithContext(t, fs, tpl)
	require.NoError(t, err)
	require.Equal(t, "12", out)
	require.Equal(t, []string{"s.json", "s.json"}, ctx.ValidatedSchemaNames())
	require.Equal(t, 2, fs.reads["s.json"])

	t.Run("with a caching loader", func(t *testing.T) {
		fs.reads = map[string]int{}

		loader, err := validate.NewSchemaLoader(validate.SchemaOpts{Cache: true})
		require.NoError(t, err)

		parsed, err := texttemplate.Parse("tpl", []byte(tpl), validate.NewRegistry())
		require.NoError(t, err)

		ctx, err := validate.NewRenderContext(texttemplate.ContextOpts{
			Directives: validate.NewRegistry(),
			Registers: map[string]interface{}{
				texttemplate.FileSystemRegister: fs,
				validate.SchemaLoaderRegister:   loader,
			},
		})
		require.NoError(t, err)

		out, err := parsed.RenderString(ctx)
		require.NoError(t, err)
		require.Equal(t, "12", out)
		require.Equal(t, 1, fs.reads["s.json"])

		schemas := ctx.ValidatedSchemas()
		require.Len(t, schemas, 2)
		require.Same(t, schemas[0], schemas[1])
	})
}

func TestBlockScopeIsolation(t *testing.T) {
	fs := mapFileSystem{"s.json": `{"type":"object"}`}

	out, ctx, err := renderWithContext(t, fs,
		`{% assign a = 1 %}{% validate 's.json' %}{% assign a = 2 %}{% assign b = 3 %}{"a": {{ a }}}{% endvalidate %}{{ a }}`)
	require.NoError(t, err)
	require.Equal(t, `{"a":2}1`, out)

	_, found := ctx.Get("b")
	require.False(t, found)
	require.Equal(t, 1, ctx.Depth())

	t.Run("on failure", func(t *testing.T) {
		_, ctx, err := renderWithContext(t, fs,
			`{% validate 's.json' %}{% assign b = 3 %}[{{ b }}]{% endvalidate %}`)
		require.Error(t, err)

		_, found := ctx.Get("b")
		require.False(t, found)
		require.Equal(t, 1, ctx.Depth())
	})
}

func TestBlockWithBaseContext(t *testing.T) {
	registry := validate.NewRegistry()

	tpl, err := texttemplate.Parse("tpl", []byte(`{% validate 's.json' %}{"id": 1}{% endvalidate %}`), registry)
	require.NoError(t, err)

	ctx, err := texttemplate.NewContext(texttemplate.ContextOpts{
		Directives: registry,
		Registers:  map[string]interface{}{texttemplate.FileSystemRegister: mapFileSystem{"s.json": patientSchema}},
	})
	require.NoError(t, err)

	out, err := tpl.RenderString(ctx)
	require.NoError(t, err)
	require.Equal(t, `{"id":1}`, out)
}

func TestBlockUsesDefaultFileSystem(t *testing.T) {
	prevFS := texttemplate.DefaultFileSystem
	texttemplate.DefaultFileSystem = mapFileSystem{"s.json": patientSchema}
	defer func() { texttemplate.DefaultFileSystem = prevFS }()

	tpl, err := texttemplate.Parse("tpl", []byte(`{% validate 's.json' %}{"id": 1}{% endvalidate %}`), validate.NewRegistry())
	require.NoError(t, err)

	ctx, err := validate.NewRenderContext(texttemplate.ContextOpts{Directives: validate.NewRegistry()})
	require.NoError(t, err)

	out, err := tpl.RenderString(ctx)
	require.NoError(t, err)
	require.Equal(t, `{"id":1}`, out)
	require.Equal(t, []string{"s.json"}, ctx.ValidatedSchemaNames())
}

func TestBlockErrors(t *testing.T) {
	t.Run("missing schema", func(t *testing.T) {
		_, ctx, err := renderWithContext(t, mapFileSystem{}, `{% validate 'missing.json' %}{}{% endvalidate %}`)
		require.EqualError(t, err, "Rendering 'validate' tag (line tpl:1:1): schema load error: "+
			"Loading schema 'missing.json': Template 'missing.json' not found")

		var loadErr *validate.SchemaLoadError
		require.True(t, errors.As(err, &loadErr))
		require.Equal(t, "missing.json", loadErr.SchemaName)
		require.Empty(t, ctx.ValidatedSchemas())
	})

	t.Run("schema that is not JSON", func(t *testing.T) {
		_, _, err := renderWithContext(t, mapFileSystem{"s.json": `{"type":`}, `{% validate 's.json' %}{}{% endvalidate %}`)

		var parseErr *validate.SchemaParseError
		require.True(t, errors.As(err, &parseErr))
		require.Contains(t, err.Error(), "schema parse error: Parsing schema 's.json': ")
	})

	t.Run("schema that is not a valid schema", func(t *testing.T) {
		_, _, err := renderWithContext(t, mapFileSystem{"s.json": `{"type": 5}`}, `{% validate 's.json' %}{}{% endvalidate %}`)

		var parseErr *validate.SchemaParseError
		require.True(t, errors.As(err, &parseErr))

		var loadErr *validate.SchemaLoadError
		require.False(t, errors.As(err, &loadErr))
	})

	t.Run("content that is not JSON", func(t *testing.T) {
		_, ctx, err := renderWithContext(t, mapFileSystem{"s.json": `{}`}, `{% validate 's.json' %}{"id": {{ "x" }}}{% endvalidate %}`)

		var docErr *validate.DocumentParseError
		require.True(t, errors.As(err, &docErr))
		require.Equal(t, `{"id": x}`, docErr.Content)
		require.Contains(t, err.Error(), "document parse error: Expected content validated by 's.json' to be JSON: ")
		require.Empty(t, ctx.ValidatedSchemas())
	})

	t.Run("content with trailing data", func(t *testing.T) {
		_, _, err := renderWithContext(t, mapFileSystem{"s.json": `{}`}, `{% validate 's.json' %}{} {}{% endvalidate %}`)

		var docErr *validate.DocumentParseError
		require.True(t, errors.As(err, &docErr))
	})

	t.Run("empty content", func(t *testing.T) {
		_, _, err := renderWithContext(t, mapFileSystem{"s.json": `{}`}, "{% validate 's.json' %}  \n{% endvalidate %}")

		var docErr *validate.DocumentParseError
		require.True(t, errors.As(err, &docErr))
	})

	t.Run("body failure is reported at its own position", func(t *testing.T) {
		_, _, err := renderWithContext(t, mapFileSystem{"s.json": `{}`}, `{% validate 's.json' %}{{ nope }}{% endvalidate %}`)
		require.Error(t, err)

		var renderErr *texttemplate.RenderError
		require.True(t, errors.As(err, &renderErr))
		require.Equal(t, "", renderErr.Tag)
		require.Equal(t, 24, renderErr.Position.Column())
	})
}

func TestSchemaReferences(t *testing.T) {
	fs := mapFileSystem{
		"schemas/a.json":      `{"type":"object","properties":{"b":{"$ref":"defs/b.json"}}}`,
		"schemas/defs/b.json": `{"type":"string"}`,
		"schemas/broken.json": `{"properties":{"b":{"$ref":"defs/missing.json"}}}`,
	}

	out, _, err := renderWithContext(t, fs, `{% validate 'schemas/a.json' %}{"b": "x"}{% endvalidate %}`)
	require.NoError(t, err)
	require.Equal(t, `{"b":"x"}`, out)

	_, _, err = renderWithContext(t, fs, `{% validate 'schemas/a.json' %}{"b": 1}{% endvalidate %}`)
	var validationErr *validate.ValidationError
	require.True(t, errors.As(err, &validationErr))
	require.Len(t, validationErr.Violations, 1)
	require.Contains(t, validationErr.Violations[0], "(path '#/b')")

	_, _, err = renderWithContext(t, fs, `{% validate 'schemas/broken.json' %}{}{% endvalidate %}`)
	var loadErr *validate.SchemaLoadError
	require.True(t, errors.As(err, &loadErr))
	require.Contains(t, loadErr.Error(), "Template 'schemas/defs/missing.json' not found")
}

func TestSchemaNamesWithURLCharacters(t *testing.T) {
	names := []string{"a#b.json", "with space.json", "ünï.json", "a%zz.json", "pct%20.json", "dir/x?.json", "my dir/a b.json"}

	for _, name := range names {
		fs := mapFileSystem{name: `{"type":"object","required":["id"]}`}

		out, ctx, err := renderWithContext(t, fs, "{% validate '"+name+"' %}{\"id\":1}{% endvalidate %}")
		require.NoError(t, err, "name %q", name)
		require.Equal(t, `{"id":1}`, out)
		require.Equal(t, []string{name}, ctx.ValidatedSchemaNames())

		_, _, err = renderWithContext(t, fs, "{% validate '"+name+"' %}{}{% endvalidate %}")
		var validationErr *validate.ValidationError
		require.True(t, errors.As(err, &validationErr), "name %q", name)
	}

	t.Run("references to escaped names", func(t *testing.T) {
		fs := mapFileSystem{
			"my dir/a b.json":   `{"properties":{"c":{"$ref":"c%23d%20%C3%A9.json"}}}`,
			"my dir/c#d é.json": `{"type":"string"}`,
		}

		out, _, err := renderWithContext(t, fs, `{% validate 'my dir/a b.json' %}{"c": "x"}{% endvalidate %}`)
		require.NoError(t, err)
		require.Equal(t, `{"c":"x"}`, out)

		_, _, err = renderWithContext(t, fs, `{% validate 'my dir/a b.json' %}{"c": 1}{% endvalidate %}`)
		var validationErr *validate.ValidationError
		require.True(t, errors.As(err, &validationErr))
	})
}

func TestBlockRejectsInvalidUTF8(t *testing.T) {
	fs := mapFileSystem{"s.json": `{}`}

	out, ctx, err := renderWithContext(t, fs, "{% validate 's.json' %}{\"id\":\"\xff\"}{% endvalidate %}")
	require.Empty(t, out)
	require.Empty(t, ctx.ValidatedSchemaNames())

	var parseErr *validate.DocumentParseError
	require.True(t, errors.As(err, &parseErr))
	require.Contains(t, err.Error(), "invalid UTF-8")
}

func TestSchemaOpts(t *testing.T) {
	fs := mapFileSystem{"email.json": `{"type":"string","format":"email"}`}

	schema, err := validate.LoadSchema(fs, "email.json", validate.SchemaOpts{})
	require.NoError(t, err)

	valid, violations := schema.Validate("not-an-email")
	require.True(t, valid)
	require.Empty(t, violations)

	schema, err = validate.LoadSchema(fs, "email.json", validate.SchemaOpts{AssertFormat: true})
	require.NoError(t, err)

	valid, violations = schema.Validate("not-an-email")
	require.False(t, valid)
	require.Len(t, violations, 1)

	valid, _ = schema.Validate("someone@example.com")
	require.True(t, valid)

	for _, draft := range validate.SupportedDrafts() {
		_, err := validate.LoadSchema(fs, "email.json", validate.SchemaOpts{Draft: draft})
		require.NoError(t, err, "draft %s", draft)
	}

	_, err = validate.NewSchemaLoader(validate.SchemaOpts{Draft: "5"})
	require.EqualError(t, err, "Unknown JSON Schema draft '5' (supported: 2019-09, 2020-12, 4, 6, 7)")
}

func parseBlock(t *testing.T, markup string) *validate.Block {
	t.Helper()

	tpl, err := texttemplate.Parse("tpl", []byte("{% validate "+markup+" %}{}{% endvalidate %}"), validate.NewRegistry())
	require.NoError(t, err, "markup %q", markup)
	require.Len(t, tpl.Nodes(), 1)

	return tpl.Nodes()[0].(*texttemplate.NodeTag).Directive.(*validate.Block)
}

func newBlock(markup string) (*validate.Block, error) {
	tokens, err := texttemplate.NewTokenStream("tpl", []byte("{}{% endvalidate %}"), validate.NewRegistry())
	if err != nil {
		return nil, err
	}
	node, err := validate.NewBlock(validate.TagName, markup, tokens)
	if err != nil {
		return nil, err
	}
	return node.(*validate.Block), nil
}

func newRenderContext(t *testing.T, fs texttemplate.FileSystem) *validate.RenderContext {
	t.Helper()

	ctx, err := validate.NewRenderContext(texttemplate.ContextOpts{
		Directives: validate.NewRegistry(),
		Registers:  map[string]interface{}{texttemplate.FileSystemRegister: fs},
	})
	require.NoError(t, err)
	return ctx
}

func renderWithContext(t *testing.T, fs texttemplate.FileSystem, src string) (string, *validate.RenderContext, error) {
	t.Helper()

	tpl, err := texttemplate.Parse("tpl", []byte(src), validate.NewRegistry())
	require.NoError(t, err)

	ctx := newRenderContext(t, fs)
	out, err := tpl.RenderString(ctx)
	return out, ctx, err
}

func rawBody(doc string) string {
	return "{% raw %}" + doc + "{% endraw %}"
}

func getRandSource(t *testing.T) rand.Source {
	var seed int64
	if os.Getenv("VTT_SEED") == "" {
		seed = time.Now().UnixNano()
	} else {
		envSeed, err := strconv.Atoi(os.Getenv("VTT_SEED"))
		require.NoError(t, err)
		seed = int64(envSeed)
	}

	t.Logf("Seed used was: [%v]. To reproduce this test failure, re-run the test with `export VTT_SEED=%v`", seed, seed)

	return rand.NewSource(seed)
}
