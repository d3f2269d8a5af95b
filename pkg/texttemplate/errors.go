// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"errors"
	"fmt"

	"carvel.dev/vtt/pkg/filepos"
)

// SyntaxError is returned while parsing a template, e.g. for malformed
// directive markup or unbalanced blocks.
type SyntaxError struct {
	Position *filepos.Position
	Tag      string
	Message  string
}

func NewSyntaxError(pos *filepos.Position, tag string, msg string, args ...interface{}) *SyntaxError {
	return &SyntaxError{Position: pos, Tag: tag, Message: fmt.Sprintf(msg, args...)}
}

func (e *SyntaxError) Error() string {
	if len(e.Tag) > 0 {
		return fmt.Sprintf("Syntax error in '%s' tag (%s): %s", e.Tag, e.Position.AsString(), e.Message)
	}
	return fmt.Sprintf("Syntax error (%s): %s", e.Position.AsString(), e.Message)
}

// KindedError is implemented by errors that belong to a named category
// (e.g. "schema load", "validation") so that render errors can name it.
type KindedError interface {
	error
	Kind() string
}

// RenderError marks the tag or output marker where rendering failed.
// Only the innermost failing node is recorded.
type RenderError struct {
	Position *filepos.Position
	Tag      string
	Err      error
}

func NewRenderError(pos *filepos.Position, tag string, err error) error {
	var renderErr *RenderError
	if errors.As(err, &renderErr) {
		return err
	}
	return &RenderError{Position: pos, Tag: tag, Err: err}
}

func (e *RenderError) Error() string {
	where := "output"
	if len(e.Tag) > 0 {
		where = fmt.Sprintf("'%s' tag", e.Tag)
	}
	var kinded KindedError
	if errors.As(e.Err, &kinded) {
		return fmt.Sprintf("Rendering %s (%s): %s error: %s", where, e.Position.AsString(), kinded.Kind(), e.Err)
	}
	return fmt.Sprintf("Rendering %s (%s): %s", where, e.Position.AsString(), e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }
