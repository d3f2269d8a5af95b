// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"carvel.dev/vtt/pkg/texttemplate"
)

// LocalFileSystem reads templates lazily from a directory. Names may not
// escape the directory, neither via ".." nor via disallowed symlinks.
type LocalFileSystem struct {
	Root     string
	Symlinks SymlinkAllowOpts
}

var _ texttemplate.FileSystem = LocalFileSystem{}

func NewLocalFileSystem(root string) LocalFileSystem {
	return LocalFileSystem{Root: root}
}

func (fs LocalFileSystem) ReadTemplateFile(name string) (string, error) {
	for _, candidate := range []string{name, name + TemplateExt} {
		filePath, err := fs.path(candidate)
		if err != nil {
			return "", err
		}

		fileInfo, err := os.Lstat(filePath)
		if err != nil {
			if os.IsNotExist(err) {
				continue
			}
			return "", fmt.Errorf("Checking template '%s': %s", name, err)
		}

		if fileInfo.Mode()&os.ModeSymlink != 0 {
			err := Symlink{filePath}.IsAllowed(fs.symlinkOpts())
			if err != nil {
				return "", fmt.Errorf("Reading template '%s': %s", name, err)
			}
		}

		bs, err := os.ReadFile(filePath)
		if err != nil {
			return "", fmt.Errorf("Reading template '%s': %s", name, err)
		}
		return string(bs), nil
	}

	return "", fmt.Errorf("Template '%s' not found", name)
}

func (fs LocalFileSystem) path(name string) (string, error) {
	cleanName := filepath.Clean(filepath.FromSlash(name))

	if filepath.IsAbs(cleanName) || cleanName == ".." || strings.HasPrefix(cleanName, ".."+string(filepath.Separator)) {
		return "", fmt.Errorf("Expected template '%s' to be within directory '%s'", name, fs.Root)
	}

	return filepath.Join(fs.Root, cleanName), nil
}

func (fs LocalFileSystem) symlinkOpts() SymlinkAllowOpts {
	var allowedDstPaths []string
	for _, path := range append([]string{fs.Root}, fs.Symlinks.AllowedDstPaths...) {
		if resolvedPath, err := filepath.EvalSymlinks(path); err == nil {
			path = resolvedPath
		}
		allowedDstPaths = append(allowedDstPaths, path)
	}
	return SymlinkAllowOpts{AllowAll: fs.Symlinks.AllowAll, AllowedDstPaths: allowedDstPaths}
}
