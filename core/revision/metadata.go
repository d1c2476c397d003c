package revision

import (
	"time"

	"github.com/openredline/redline/core/doc"
)

// revContext carries the shared mutable state of one Revisionize call: the
// allocator and the resolved options. It is passed through every recursive
// entry point, including table-cell recursion.
type revContext struct {
	alloc *Allocator
	opts  Options
}

func newRevContext(opts *Options) *revContext {
	resolved := opts.normalized()
	return &revContext{alloc: resolved.Allocator, opts: resolved}
}

// resolveInfo builds a TrackedChangeInfo with a freshly allocated ID and the
// author/date resolved from the given metadata.
func (rc *revContext) resolveInfo(meta *Metadata) doc.TrackedChangeInfo {
	return doc.TrackedChangeInfo{
		ID:     rc.alloc.Next(),
		Author: rc.resolveAuthor(meta),
		Date:   rc.resolveDate(meta),
		RSID:   rc.opts.RSID,
	}
}

func (rc *revContext) resolveAuthor(meta *Metadata) string {
	if meta != nil && meta.Author != "" {
		return meta.Author
	}
	if rc.opts.FallbackAuthor != "" {
		return rc.opts.FallbackAuthor
	}
	return DefaultAuthor
}

func (rc *revContext) resolveDate(meta *Metadata) string {
	if meta != nil && meta.Date != "" {
		return meta.Date
	}
	return rc.opts.Now().UTC().Format(time.RFC3339)
}

func (rc *revContext) insertionInfo() doc.TrackedChangeInfo {
	return rc.resolveInfo(rc.opts.InsertionMetadata)
}

func (rc *revContext) deletionInfo() doc.TrackedChangeInfo {
	return rc.resolveInfo(rc.opts.DeletionMetadata)
}
