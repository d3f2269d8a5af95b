// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"os"
	"path/filepath"
	"strings"
)

// OutputFile is the rendered result of one template.
type OutputFile struct {
	relativePath string
	data         []byte
}

func NewOutputFile(relativePath string, data []byte) OutputFile {
	return OutputFile{relativePath, data}
}

// NewOutputFileForTemplate names the output of templatePath after it,
// replacing TemplateExt with ext (e.g. "a/b.liquid" -> "a/b.json").
func NewOutputFileForTemplate(templatePath, ext string, data []byte) OutputFile {
	return OutputFile{strings.TrimSuffix(templatePath, TemplateExt) + ext, data}
}

func (f OutputFile) RelativePath() string { return f.relativePath }
func (f OutputFile) Bytes() []byte        { return f.data }

func (f OutputFile) Path(dirPath string) string {
	return filepath.Join(dirPath, filepath.FromSlash(f.relativePath))
}

func (f OutputFile) Create(dirPath string) error {
	return WriteFile(f.Path(dirPath), f.data)
}

// WriteFile creates or truncates path, creating missing parent directories.
func WriteFile(path string, data []byte) error {
	err := os.MkdirAll(filepath.Dir(path), 0700)
	if err != nil {
		return err
	}

	fd, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0600)
	if err != nil {
		return err
	}

	defer fd.Close()

	_, err = fd.Write(data)
	return err
}
