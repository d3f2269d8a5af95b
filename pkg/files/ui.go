// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package files

// UI reports written output files.
type UI interface {
	Printf(string, ...interface{})
}
