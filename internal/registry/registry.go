// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

// Package registry is the build context threaded through directive
// processing. It maps environment names to their parsed sources so nested
// packagelist directives (and the generated index pages) can resolve them.
// It is explicitly passed, never a package-level global, to keep it testable
// in isolation.
package registry

import (
	"fmt"

	"github.com/staranto/condadoc/internal/envfile"
	"github.com/staranto/condadoc/internal/lockfile"
	"github.com/staranto/condadoc/internal/pkgset"
)

// Environment is one registered conda environment: a display name plus an
// optional requirement set and an optional resolved set. At least one of
// the two must be present.
type Environment struct {
	Name string
	// Doc and Line locate the environment directive that registered it.
	Doc  string
	Line int

	// YamlPath and LockPath are the resolved source paths, "" if absent.
	YamlPath string
	LockPath string

	Env  *envfile.File  // nil when no yamlfile was given
	Lock *lockfile.File // nil when no lockfile was given
}

// Rows merges the environment's requirement and resolved sets with the
// given visibility options.
func (e *Environment) Rows(opts pkgset.Options) []pkgset.Row {
	var reqs []envfile.Requirement
	if e.Env != nil {
		reqs = e.Env.Requirements
	}
	var resolved []lockfile.Package
	if e.Lock != nil {
		resolved = e.Lock.Packages
	}
	return pkgset.Merge(reqs, resolved, opts)
}

// Registry holds the environments seen so far during a build, in document
// order.
type Registry struct {
	names []string
	envs  map[string]*Environment
}

func New() *Registry {
	return &Registry{envs: map[string]*Environment{}}
}

// Add registers an environment. Registering an invalid environment (no
// sources) or reusing a name is an error.
func (r *Registry) Add(env *Environment) error {
	if env.Env == nil && env.Lock == nil {
		return fmt.Errorf("environment %q has neither a yamlfile nor a lockfile", env.Name)
	}
	if _, exists := r.envs[env.Name]; exists {
		return fmt.Errorf("environment %q is already defined", env.Name)
	}
	r.names = append(r.names, env.Name)
	r.envs[env.Name] = env
	return nil
}

// Get returns the named environment.
func (r *Registry) Get(name string) (*Environment, bool) {
	env, ok := r.envs[name]
	return env, ok
}

// Names returns environment names in registration order.
func (r *Registry) Names() []string {
	return r.names
}
