// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package texttemplate

import (
	"fmt"
)

// FileSystemRegister is the register under which a render pass supplies its
// FileSystem.
const FileSystemRegister = "file_system"

// FileSystem resolves named resources (included templates, schemas) to text.
type FileSystem interface {
	ReadTemplateFile(name string) (string, error)
}

// DefaultFileSystem is used when a Context does not register a FileSystem.
// It is meant to be set once during program start.
var DefaultFileSystem FileSystem = BlankFileSystem{}

// BlankFileSystem refuses every read.
type BlankFileSystem struct{}

var _ FileSystem = BlankFileSystem{}

func (BlankFileSystem) ReadTemplateFile(name string) (string, error) {
	return "", fmt.Errorf("Reading '%s': no file system is configured", name)
}

// FileSystemFor returns the FileSystem registered on ctx, falling back to
// DefaultFileSystem.
func FileSystemFor(ctx Context) FileSystem {
	if fs, ok := ctx.Registers()[FileSystemRegister].(FileSystem); ok {
		return fs
	}
	return DefaultFileSystem
}
