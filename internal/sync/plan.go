package sync

import "sort"

// Plan is an ordered sequence of operations grouped into execution phases.
// Deletions run first to free remote storage quota before new content lands,
// then uploads, then downloads, so a re-fetched remote view mid-run already
// reflects just-uploaded files. Within a phase, operations are path-sorted
// for deterministic, diffable output.
type Plan struct {
	LocalDeletes  []*Operation
	RemoteDeletes []*Operation
	Uploads       []*Operation
	Downloads     []*Operation
}

// BuildPlan orders resolved operations into phases.
func BuildPlan(ops []*Operation) *Plan {
	p := &Plan{}
	for _, op := range ops {
		switch op.Type {
		case OpDeleteLocal:
			p.LocalDeletes = append(p.LocalDeletes, op)
		case OpDeleteRemote:
			p.RemoteDeletes = append(p.RemoteDeletes, op)
		case OpUpload:
			p.Uploads = append(p.Uploads, op)
		case OpDownload:
			p.Downloads = append(p.Downloads, op)
		}
	}
	sortOps(p.LocalDeletes)
	sortOps(p.RemoteDeletes)
	sortOps(p.Uploads)
	sortOps(p.Downloads)
	return p
}

// Ordered flattens the plan into the execution order.
func (p *Plan) Ordered() []*Operation {
	ordered := make([]*Operation, 0, p.Len())
	ordered = append(ordered, p.LocalDeletes...)
	ordered = append(ordered, p.RemoteDeletes...)
	ordered = append(ordered, p.Uploads...)
	ordered = append(ordered, p.Downloads...)
	return ordered
}

func (p *Plan) Len() int {
	return len(p.LocalDeletes) + len(p.RemoteDeletes) + len(p.Uploads) + len(p.Downloads)
}

func (p *Plan) IsEmpty() bool {
	return p.Len() == 0
}

func sortOps(ops []*Operation) {
	sort.Slice(ops, func(i, j int) bool {
		return ops[i].Path < ops[j].Path
	})
}
