// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package filepos provides the concept of Position: a source name (usually a
template or schema file) and line number (optionally column) within that source.

File positions are crucial when reporting template syntax and render errors to
the user.

Not all Positions point within a file (e.g. templates rendered from memory). The
zero-value of Position (can be created using NewUnknownPosition()) represents
this case.
*/
package filepos
