// Package dominance answers reachability and dominance queries over the
// regions of an IR tree.
//
// Trees are built lazily, one per region, using the Cooper-Harvey-Kennedy
// iteration over a reverse post-order. Queries that span regions are first
// normalized into a single region by walking up to the ancestor that lives
// there.
//
// An Info is meant for one verification scope and is not safe for
// concurrent use. Build a fresh one per goroutine.
package dominance

import (
	"github.com/roach88/irverify/internal/ir"
)

// Info caches per-region dominator trees.
type Info struct {
	trees map[*ir.Region]*tree
}

// New returns an empty Info. Trees are computed on first use.
func New() *Info {
	return &Info{trees: make(map[*ir.Region]*tree)}
}

// IsReachableFromEntry reports whether b can be reached from the entry block
// of its region. Entry blocks, blocks of single-block regions and detached
// blocks are always reachable.
func (d *Info) IsReachableFromEntry(b *ir.Block) bool {
	region := b.Parent()
	if region == nil || region.Front() == b || region.HasOneBlock() {
		return true
	}
	return d.treeFor(region).reachable(b)
}

// Dominates reports whether a dominates b. Every block dominates itself.
func (d *Info) Dominates(a, b *ir.Block) bool {
	return a == b || d.ProperlyDominatesBlock(a, b)
}

// ProperlyDominatesBlock reports whether a dominates b and a != b. A block
// dominates every block nested in the operations it contains.
func (d *Info) ProperlyDominatesBlock(a, b *ir.Block) bool {
	if a == b {
		return false
	}
	region := a.Parent()
	if region != b.Parent() {
		if region == nil {
			return false
		}
		b = region.FindAncestorBlockInRegion(b)
		if b == nil {
			return false
		}
		if a == b {
			return true
		}
	}
	return d.treeFor(region).properlyDominates(a, b)
}

// ProperlyDominatesOp reports whether a properly dominates b. An operation
// that encloses b dominates it.
func (d *Info) ProperlyDominatesOp(a, b *ir.Operation) bool {
	return d.properlyDominatesOp(a, b, true)
}

// ProperlyDominates reports whether the definition of v properly dominates
// user. A block argument dominates everything in its block and in blocks that
// block dominates. An operation result never dominates anything nested inside
// its own defining operation, nor the defining operation itself.
func (d *Info) ProperlyDominates(v *ir.Value, user *ir.Operation) bool {
	if v.IsBlockArgument() {
		userBlock := user.Block()
		if userBlock == nil {
			return false
		}
		return d.Dominates(v.Owner(), userBlock)
	}
	return d.properlyDominatesOp(v.DefiningOp(), user, false)
}

func (d *Info) properlyDominatesOp(a, b *ir.Operation, enclosingOK bool) bool {
	aBlock, bBlock := a.Block(), b.Block()
	if aBlock == nil || bBlock == nil {
		return false
	}
	if a == b {
		return !hasSSADominance(aBlock)
	}

	region := aBlock.Parent()
	if region != bBlock.Parent() {
		if region == nil {
			return false
		}
		b = region.FindAncestorOpInRegion(b)
		if b == nil {
			return false
		}
		bBlock = b.Block()
		if a == b {
			return enclosingOK
		}
	}

	if aBlock == bBlock {
		if !hasSSADominance(aBlock) {
			return true
		}
		return a.IsBeforeInBlock(b)
	}
	return d.treeFor(region).properlyDominates(aBlock, bBlock)
}

// hasSSADominance reports whether uses in b must follow their definitions.
// Graph regions impose no order.
func hasSSADominance(b *ir.Block) bool {
	region := b.Parent()
	if region == nil {
		return true
	}
	return region.Kind() == ir.RegionKindSSACFG
}

func (d *Info) treeFor(region *ir.Region) *tree {
	if t, ok := d.trees[region]; ok {
		return t
	}
	t := build(region)
	d.trees[region] = t
	return t
}
