// Copyright (c) 2025 Steve Taranto <staranto@gmail.com>.
// SPDX-License-Identifier: Apache-2.0

package pkgset

import (
	"github.com/staranto/condadoc/internal/envfile"
	"github.com/staranto/condadoc/internal/lockfile"
)

// UnknownVersion is the version shown for a requirement with no matching
// resolved package.
const UnknownVersion = "unknown"

// Origin classifies how a package ended up in an environment.
type Origin int

const (
	// OriginUnknown is the zero value, used before classification.
	OriginUnknown Origin = iota
	// OriginExplicit marks a package listed directly in the environment
	// file or flagged as a direct request by the resolver.
	OriginExplicit
	// OriginImplicit marks a package present only as a dependency of an
	// explicit one.
	OriginImplicit
)

func (o Origin) String() string {
	switch o {
	case OriginExplicit:
		return "explicit"
	case OriginImplicit:
		return "implicit"
	default:
		return "unknown"
	}
}

// Row is one merged package row. Origin is used for filtering only and is
// never rendered in package tables.
type Row struct {
	Name    string `attr:"name"`
	Version string `attr:"version"`
	Build   string `attr:"build"`
	Channel string `attr:"channel"`
	Origin  Origin `attr:"origin"`
}

// Options are the caller-supplied visibility filters. Both set at once is a
// degenerate but valid request that yields an empty result.
type Options struct {
	HideImplicit bool
	HideExplicit bool
}

// Merge joins the requirement set and the resolved set by package name and
// applies the visibility filter.
//
// Resolved packages come first in lockfile order, each classified explicit
// or implicit. Requirements never seen in the lockfile are appended after,
// with version "unknown". The result order is deterministic and never
// re-sorted.
func Merge(reqs []envfile.Requirement, resolved []lockfile.Package, opts Options) []Row {
	byName := make(map[string]envfile.Requirement, len(reqs))
	for _, req := range reqs {
		byName[req.Name] = req
	}

	seen := make(map[string]bool, len(resolved))

	//nolint:prealloc
	var rows []Row
	for _, pkg := range resolved {
		origin := OriginImplicit
		if _, ok := byName[pkg.Name]; ok {
			origin = OriginExplicit
		} else if pkg.Explicit != nil && *pkg.Explicit {
			// The resolver flagged it as a direct request even though the
			// environment file doesn't name it.
			origin = OriginExplicit
		}
		seen[pkg.Name] = true

		rows = append(rows, Row{
			Name:    pkg.Name,
			Version: pkg.Version,
			Build:   pkg.Build,
			Channel: pkg.Channel,
			Origin:  origin,
		})
	}

	// Guard against a requirement-only environment (no lockfile, or the
	// lockfile omits an entry). File order is preserved here too.
	for _, req := range reqs {
		if seen[req.Name] {
			continue
		}
		rows = append(rows, Row{
			Name:    req.Name,
			Version: UnknownVersion,
			Origin:  OriginExplicit,
		})
	}

	return Filter(rows, opts)
}

// Filter applies the visibility options to an already merged row set.
func Filter(rows []Row, opts Options) []Row {
	if !opts.HideImplicit && !opts.HideExplicit {
		return rows
	}

	filtered := make([]Row, 0, len(rows))
	for _, row := range rows {
		if opts.HideImplicit && row.Origin == OriginImplicit {
			continue
		}
		if opts.HideExplicit && row.Origin == OriginExplicit {
			continue
		}
		filtered = append(filtered, row)
	}
	return filtered
}
