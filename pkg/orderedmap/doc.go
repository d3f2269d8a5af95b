// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

/*
Package orderedmap provides a map implementation where the order of keys is
maintained (unlike the native Go map), plus a JSON reader and writer built on it.

Rendered documents are parsed into this representation so that re-serializing a
validated document keeps the key order the template author wrote.
*/
package orderedmap
