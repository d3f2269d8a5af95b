// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

// Package version holds the version of this build.
package version

const DevelopVersion = "develop"

// Version is set at build time: -ldflags "-X carvel.dev/vtt/pkg/version.Version=x.y.z"
var Version = DevelopVersion
