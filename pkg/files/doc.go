// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package files provides primitives for enumerating and loading data from various
file or file-like Source's and for writing rendered output to filesystem files
and directories.

Templates and schemas are looked up by relative path through a
texttemplate.FileSystem: Library serves a fixed set of loaded files (CLI,
HTTP requests) and LocalFileSystem reads lazily from a directory.

File instances are classified by Type (extension): templates (.liquid),
and JSON, YAML or TOML data.
*/
package files
