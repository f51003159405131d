// SPDX-License-Identifier: MPL-2.0

// Package mount translates host filesystem paths into a container-safe mount
// plan. The translation is pure: it reads the filesystem only for existence
// checks and symlink resolution, and never creates directories.
package mount

import (
	"fmt"
	"os"

	"foldrun-cli/internal/backend"
	"foldrun-cli/pkg/fspath"
	"foldrun-cli/pkg/types"
)

type (
	// Bind is one host-to-container directory mapping, rendered as a
	// "--bind host:target" pair by the container command builder.
	Bind struct {
		Host   types.FilesystemPath
		Target string
	}

	// resolvedRole holds both renderings of one role's path: the normalized
	// host path and, in container mode, the container-side logical path.
	resolvedRole struct {
		host      types.FilesystemPath
		container string
	}

	// MountPlan maps each role present in a request to its resolved host path
	// and canonical container path. Bind entries keep insertion order so the
	// emitted --bind pairs are stable across identical requests.
	MountPlan struct {
		binds  []Bind
		byHost map[types.FilesystemPath]string
		taken  map[string]bool
		roles  map[backend.Role]resolvedRole
	}
)

// statFunc is swapped in tests to simulate missing paths without fixtures.
var statFunc = os.Stat

// Resolve normalizes every role path of the request and, in container mode,
// derives the bind plan. Required roles must exist on the host; optional roles
// that do not exist are silently omitted: no bind entry, no flag later.
func Resolve(req *backend.ExecutionRequest) (*MountPlan, error) {
	plan := &MountPlan{
		byHost: make(map[types.FilesystemPath]string),
		taken:  make(map[string]bool),
		roles:  make(map[backend.Role]resolvedRole),
	}

	containerized := req.Mode() == backend.ModeContainer

	for _, role := range req.Backend.Roles() {
		raw, present := req.Path(role)
		required := req.Backend.IsRequired(role)
		if !present {
			if required {
				return nil, &backend.MissingInputError{
					Backend: req.Backend.Name,
					Role:    role,
					Mode:    req.Mode(),
				}
			}
			continue
		}

		host, err := normalize(raw)
		if err != nil {
			if required {
				return nil, &backend.MissingInputError{
					Backend: req.Backend.Name,
					Role:    role,
					Path:    raw,
					Mode:    req.Mode(),
				}
			}
			continue
		}

		rr := resolvedRole{host: host}
		if containerized {
			if role.IsDir() {
				target := plan.ensureBind(host, role.ContainerTarget())
				rr.container = target
			} else {
				target := plan.ensureBind(fspath.Dir(host), role.ContainerTarget())
				rr.container = target + "/" + fspath.Base(host)
			}
		}
		plan.roles[role] = rr
	}

	return plan, nil
}

// normalize resolves a path to its absolute, symlink-free form and verifies it
// exists. Resolution happens in both modes so the invoked tool always receives
// unambiguous locations regardless of the caller's working directory.
func normalize(p types.FilesystemPath) (types.FilesystemPath, error) {
	abs, err := fspath.Abs(p)
	if err != nil {
		return "", err
	}
	if _, err := statFunc(abs.String()); err != nil {
		return "", err
	}
	resolved, err := fspath.EvalSymlinks(abs)
	if err != nil {
		return "", err
	}
	return resolved, nil
}

// ensureBind returns the container target for a host directory, reusing the
// existing bind when the directory was already planned. A preferred target
// name taken by a different host directory gets a numeric suffix (_2, _3, ...)
// so canonical names never collide.
func (p *MountPlan) ensureBind(host types.FilesystemPath, preferred string) string {
	if target, ok := p.byHost[host]; ok {
		return target
	}
	target := preferred
	for n := 2; p.taken[target]; n++ {
		target = fmt.Sprintf("%s_%d", preferred, n)
	}
	p.byHost[host] = target
	p.taken[target] = true
	p.binds = append(p.binds, Bind{Host: host, Target: target})
	return target
}

// Binds returns the bind entries in insertion order.
func (p *MountPlan) Binds() []Bind {
	out := make([]Bind, len(p.binds))
	copy(out, p.binds)
	return out
}

// Has reports whether the role survived resolution (present and existing).
func (p *MountPlan) Has(role backend.Role) bool {
	_, ok := p.roles[role]
	return ok
}

// HostPath returns the normalized host path for a role.
func (p *MountPlan) HostPath(role backend.Role) (types.FilesystemPath, bool) {
	rr, ok := p.roles[role]
	return rr.host, ok
}

// ContainerPath returns the container-side logical path for a role.
// Only meaningful for plans resolved in container mode.
func (p *MountPlan) ContainerPath(role backend.Role) (string, bool) {
	rr, ok := p.roles[role]
	if !ok || rr.container == "" {
		return "", false
	}
	return rr.container, true
}
