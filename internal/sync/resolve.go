package sync

import (
	"fmt"
	"log/slog"
)

// Policy selects how conflicts are handled for a whole run.
type Policy string

const (
	// PolicyManual surfaces conflicts and emits no operation for them.
	PolicyManual Policy = "manual"
	// PolicyPreferLocal resolves every conflict in favor of the local side.
	PolicyPreferLocal Policy = "prefer-local"
	// PolicyPreferRemote resolves every conflict in favor of the remote side.
	PolicyPreferRemote Policy = "prefer-remote"
)

// ParsePolicy validates a policy string from config or flags.
func ParsePolicy(s string) (Policy, error) {
	switch Policy(s) {
	case PolicyManual, PolicyPreferLocal, PolicyPreferRemote:
		return Policy(s), nil
	case "":
		return PolicyManual, nil
	default:
		return "", fmt.Errorf("unknown conflict policy %q", s)
	}
}

// Resolution is the outcome of combining local and remote change records.
type Resolution struct {
	// Ops are the safe operations to execute, in path order.
	Ops []*Operation
	// Conflicts are divergent paths left unresolved by the policy.
	Conflicts []*Conflict
	// Adopted are entries both sides already agree on (same content changed
	// on both sides); they enter the new base without any I/O.
	Adopted []*PathEntry
	// Cleanups are paths deleted on both sides; their base entries are dropped.
	Cleanups []string
	// Unchanged are paths with no change on either side.
	Unchanged []string
}

// Resolve combines per-path local and remote change tags into operations and
// conflicts. Both inputs are diffs against the same base, as produced by Diff.
func Resolve(localChanges, remoteChanges []Change, policy Policy) (*Resolution, error) {
	local := indexChanges(localChanges)
	remote := indexChanges(remoteChanges)

	res := &Resolution{}

	// localChanges and remoteChanges are diffs against the same base but may
	// cover different path universes (a path created on only one side shows
	// up in only one diff). Walk the union in path order.
	for _, path := range unionPaths(localChanges, remoteChanges) {
		lc, lok := local[path]
		rc, rok := remote[path]

		lkind := ChangeUnchanged
		if lok {
			lkind = lc.Kind
		}
		rkind := ChangeUnchanged
		if rok {
			rkind = rc.Kind
		}

		switch {
		case lkind == ChangeUnchanged && rkind == ChangeUnchanged:
			res.Unchanged = append(res.Unchanged, path)

		case lkind == ChangeUnchanged && isWrite(rkind):
			res.Ops = append(res.Ops, &Operation{
				Type:       OpDownload,
				Path:       path,
				TargetHash: rc.Entry.Hash,
				Local:      entryOf(lc),
				Remote:     rc.Entry,
				Base:       rc.Base,
			})

		case lkind == ChangeUnchanged && rkind == ChangeDeleted:
			res.Ops = append(res.Ops, &Operation{
				Type:  OpDeleteLocal,
				Path:  path,
				Local: entryOf(lc),
				Base:  rc.Base,
			})

		case isWrite(lkind) && rkind == ChangeUnchanged:
			res.Ops = append(res.Ops, &Operation{
				Type:       OpUpload,
				Path:       path,
				TargetHash: lc.Entry.Hash,
				Local:      lc.Entry,
				Remote:     entryOf(rc),
				Base:       lc.Base,
			})

		case lkind == ChangeDeleted && rkind == ChangeUnchanged:
			res.Ops = append(res.Ops, &Operation{
				Type:   OpDeleteRemote,
				Path:   path,
				Remote: entryOf(rc),
				Base:   lc.Base,
			})

		case lkind == ChangeDeleted && rkind == ChangeDeleted:
			res.Cleanups = append(res.Cleanups, path)

		case isWrite(lkind) && isWrite(rkind) && lc.Entry.Hash == rc.Entry.Hash:
			// Both sides converged on the same content. Adopt into base,
			// keeping the remote identity.
			adopted := *rc.Entry
			adopted.Origin = OriginSynced
			res.Adopted = append(res.Adopted, &adopted)

		default:
			// Divergent change: write/write with different hashes, or a
			// delete racing a write on the other side.
			conflict := &Conflict{
				Path:       path,
				LocalHash:  hashOf(lc),
				RemoteHash: hashOf(rc),
				Local:      entryOf(lc),
				Remote:     entryOf(rc),
				Base:       baseOf(lc, rc),
			}
			if op := applyPolicy(conflict, policy); op != nil {
				slog.Debug("conflict resolved by policy", "path", path, "policy", policy, "op", op.Type)
				res.Ops = append(res.Ops, op)
			} else {
				res.Conflicts = append(res.Conflicts, conflict)
			}
		}
	}

	return res, nil
}

// applyPolicy turns a conflict into an operation when the run policy allows
// it. PolicyManual returns nil: conflicts are never resolved silently.
func applyPolicy(c *Conflict, policy Policy) *Operation {
	switch policy {
	case PolicyPreferLocal:
		if c.Local == nil {
			// Local side deleted; remote wrote. Local wins: delete remote.
			return &Operation{Type: OpDeleteRemote, Path: c.Path, Remote: c.Remote, Base: c.Base}
		}
		return &Operation{Type: OpUpload, Path: c.Path, TargetHash: c.Local.Hash, Local: c.Local, Remote: c.Remote, Base: c.Base}
	case PolicyPreferRemote:
		if c.Remote == nil {
			return &Operation{Type: OpDeleteLocal, Path: c.Path, Local: c.Local, Base: c.Base}
		}
		return &Operation{Type: OpDownload, Path: c.Path, TargetHash: c.Remote.Hash, Local: c.Local, Remote: c.Remote, Base: c.Base}
	default:
		return nil
	}
}

func isWrite(k ChangeKind) bool {
	return k == ChangeAdded || k == ChangeModified
}

func indexChanges(changes []Change) map[string]Change {
	m := make(map[string]Change, len(changes))
	for _, c := range changes {
		m[c.Path] = c
	}
	return m
}

func unionPaths(a, b []Change) []string {
	seen := make(map[string]struct{}, len(a)+len(b))
	paths := make([]string, 0, len(a)+len(b))
	// Both inputs are path-sorted; a simple merge keeps the union sorted.
	i, j := 0, 0
	for i < len(a) || j < len(b) {
		var next string
		switch {
		case i >= len(a):
			next = b[j].Path
			j++
		case j >= len(b):
			next = a[i].Path
			i++
		case a[i].Path <= b[j].Path:
			next = a[i].Path
			i++
		default:
			next = b[j].Path
			j++
		}
		if _, dup := seen[next]; !dup {
			seen[next] = struct{}{}
			paths = append(paths, next)
		}
	}
	return paths
}

func entryOf(c Change) *PathEntry {
	return c.Entry
}

func hashOf(c Change) string {
	if c.Entry == nil {
		return ""
	}
	return c.Entry.Hash
}

func baseOf(a, b Change) *PathEntry {
	if a.Base != nil {
		return a.Base
	}
	return b.Base
}
