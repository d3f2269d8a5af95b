// Copyright 2024 The Carvel Authors.
// SPDX-License-Identifier: Apache-2.0

package library

import (
	"fmt"

	"carvel.dev/vtt/pkg/template/core"
	"carvel.dev/vtt/pkg/version"
	goversion "github.com/hashicorp/go-version"
	"github.com/k14s/starlark-go/starlark"
	"github.com/k14s/starlark-go/starlarkstruct"
)

var (
	// VersionAPI contains the definition of the version module
	VersionAPI = starlark.StringDict{
		"version": &starlarkstruct.Module{
			Name: "version",
			Members: starlark.StringDict{
				"require_at_least": starlark.NewBuiltin("version.require_at_least", core.ErrWrapper(versionModule{}.RequireAtLeast)),
			},
		},
	}
)

type versionModule struct{}

// RequireAtLeast fails template rendering when the running binary is older
// than the given version. Development builds satisfy every constraint.
func (b versionModule) RequireAtLeast(thread *starlark.Thread, f *starlark.Builtin, args starlark.Tuple, kwargs []starlark.Tuple) (starlark.Value, error) {
	if args.Len() != 1 {
		return starlark.None, fmt.Errorf("expected exactly one argument")
	}

	val, err := core.NewStarlarkValue(args.Index(0)).AsString()
	if err != nil {
		return starlark.None, err
	}

	userConstraint, err := goversion.NewConstraint(">= " + val)
	if err != nil {
		return starlark.None, err
	}

	if version.Version == version.DevelopVersion {
		return starlark.None, nil
	}

	current, err := goversion.NewVersion(version.Version)
	if err != nil {
		return starlark.None, err
	}

	if !userConstraint.Check(current) {
		return starlark.None, fmt.Errorf("vtt version %s does not meet the minimum required version %s", version.Version, val)
	}

	return starlark.None, nil
}
