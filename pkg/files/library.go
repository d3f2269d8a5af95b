// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"path"
	"strings"

	"carvel.dev/vtt/pkg/texttemplate"
)

// Library serves a fixed set of files by relative path. Names are cleaned
// ("./a/../b" is "b") and templates may be referred to without TemplateExt.
type Library struct {
	files   []*File
	indexed map[string]*File
}

var _ texttemplate.FileSystem = &Library{}

func NewLibrary(files []*File) (*Library, error) {
	lib := &Library{indexed: map[string]*File{}}

	for _, file := range files {
		if existing, found := lib.indexed[file.RelativePath()]; found {
			return nil, fmt.Errorf("Expected file path '%s' to be unique, but was used by %s and %s",
				file.RelativePath(), existing.Description(), file.Description())
		}
		lib.indexed[file.RelativePath()] = file
		lib.files = append(lib.files, file)
	}

	return lib, nil
}

func (l *Library) Files() []*File { return l.files }

func (l *Library) FindFile(name string) (*File, bool) {
	name = path.Clean(strings.TrimPrefix(name, "/"))

	if file, found := l.indexed[name]; found {
		return file, true
	}
	if file, found := l.indexed[name+TemplateExt]; found {
		return file, true
	}
	return nil, false
}

func (l *Library) ReadTemplateFile(name string) (string, error) {
	file, found := l.FindFile(name)
	if !found {
		return "", fmt.Errorf("Template '%s' not found", name)
	}

	bs, err := file.Bytes()
	if err != nil {
		return "", fmt.Errorf("Reading %s: %s", file.Description(), err)
	}

	return string(bs), nil
}
