// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"fmt"

	"carvel.dev/vtt/pkg/filepos"
	"carvel.dev/vtt/pkg/library"
	"carvel.dev/vtt/pkg/orderedmap"
	"carvel.dev/vtt/pkg/template/core"
	"github.com/k14s/starlark-go/starlark"
)

// Context is the per render pass state given to every node. Extensions may
// implement additional interfaces on top of it; directives discover them with
// type assertions.
type Context interface {
	// Stack pushes a variable frame, runs fn, and pops the frame even if fn fails.
	Stack(fn func() error) error

	// Get looks a variable up from the innermost frame outwards.
	Get(name string) (starlark.Value, bool)
	// Set assigns a variable in the innermost frame.
	Set(name string, val starlark.Value)

	Eval(expr string, pos *filepos.Position) (starlark.Value, error)

	// Registers holds named capabilities (e.g. FileSystemRegister).
	Registers() map[string]interface{}
	Directives() *Registry
}

type ContextOpts struct {
	// Data is exposed as variables: for a map, each key becomes a variable.
	Data interface{}
	// Variables are added after Data.
	Variables starlark.StringDict

	Registers  map[string]interface{}
	Directives *Registry

	// MaxIterations bounds the total number of loop iterations; 0 means unlimited.
	MaxIterations int
}

// BaseContext is the generic Context implementation.
type BaseContext struct {
	frames      []starlark.StringDict
	registers   map[string]interface{}
	directives  *Registry
	predeclared starlark.StringDict
	thread      *starlark.Thread

	maxIterations int
	iterations    int
}

var _ Context = &BaseContext{}

func NewContext(opts ContextOpts) (*BaseContext, error) {
	globals := starlark.StringDict{}

	switch typedData := opts.Data.(type) {
	case nil:
	case *orderedmap.Map:
		typedData.Iterate(func(k string, v interface{}) {
			globals[k] = core.NewGoValue(v).AsStarlarkValue()
		})
	default:
		return nil, fmt.Errorf("Expected data to be a map, but was %T", opts.Data)
	}

	for k, v := range opts.Variables {
		globals[k] = v
	}

	registers := opts.Registers
	if registers == nil {
		registers = map[string]interface{}{}
	}

	directives := opts.Directives
	if directives == nil {
		directives = NewRegistry()
	}

	return &BaseContext{
		frames:        []starlark.StringDict{globals},
		registers:     registers,
		directives:    directives,
		predeclared:   library.API(),
		thread:        &starlark.Thread{Name: "template"},
		maxIterations: opts.MaxIterations,
	}, nil
}

func (c *BaseContext) Stack(fn func() error) error {
	c.frames = append(c.frames, starlark.StringDict{})
	defer func() { c.frames = c.frames[:len(c.frames)-1] }()

	return fn()
}

func (c *BaseContext) Get(name string) (starlark.Value, bool) {
	for i := len(c.frames) - 1; i >= 0; i-- {
		if val, found := c.frames[i][name]; found {
			return val, true
		}
	}
	return nil, false
}

func (c *BaseContext) Set(name string, val starlark.Value) {
	c.frames[len(c.frames)-1][name] = val
}

// Depth returns the number of frames currently pushed, including the global one.
func (c *BaseContext) Depth() int { return len(c.frames) }

func (c *BaseContext) Registers() map[string]interface{} { return c.registers }

func (c *BaseContext) Directives() *Registry { return c.directives }

func (c *BaseContext) Eval(expr string, pos *filepos.Position) (starlark.Value, error) {
	env := starlark.StringDict{}
	for k, v := range c.predeclared {
		env[k] = v
	}
	for _, frame := range c.frames {
		for k, v := range frame {
			env[k] = v
		}
	}

	val, err := starlark.Eval(c.thread, pos.GetFile(), expr, env)
	if err != nil {
		return nil, fmt.Errorf("Evaluating expression '%s': %s", expr, err)
	}
	return val, nil
}

// CountIteration is called by loops for every iteration.
func (c *BaseContext) CountIteration() error {
	c.iterations++
	if c.maxIterations > 0 && c.iterations > c.maxIterations {
		return fmt.Errorf("Exceeded maximum number of loop iterations (%d)", c.maxIterations)
	}
	return nil
}
