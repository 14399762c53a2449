package ir

// Region is an ordered list of blocks owned by an operation.
type Region struct {
	blocks []*Block
	parent *Operation
	index  int
}

// NewRegion creates a detached region with no parent operation.
func NewRegion() *Region {
	return &Region{index: -1}
}

// Blocks returns the blocks in order. Callers must not modify it.
func (r *Region) Blocks() []*Block {
	return r.blocks
}

// NumBlocks returns the block count.
func (r *Region) NumBlocks() int {
	return len(r.blocks)
}

// Empty reports whether the region has no blocks.
func (r *Region) Empty() bool {
	return len(r.blocks) == 0
}

// HasOneBlock reports whether the region has exactly one block.
func (r *Region) HasOneBlock() bool {
	return len(r.blocks) == 1
}

// Front returns the entry block, or nil.
func (r *Region) Front() *Block {
	if len(r.blocks) == 0 {
		return nil
	}
	return r.blocks[0]
}

// Block returns block i.
func (r *Region) Block(i int) *Block {
	return r.blocks[i]
}

// Append adds blocks at the end of the region.
// Panics if a block already belongs to a region.
func (r *Region) Append(blocks ...*Block) {
	for _, b := range blocks {
		if b.parent != nil {
			panic("ir: block already belongs to a region")
		}
		b.parent = r
		r.blocks = append(r.blocks, b)
	}
}

// ParentOp returns the owning operation, or nil for a detached region.
func (r *Region) ParentOp() *Operation {
	return r.parent
}

// Index returns the region's position in its parent operation, or -1.
func (r *Region) Index() int {
	if r.parent == nil {
		return -1
	}
	return r.index
}

// Kind returns the region kind declared by the parent operation.
func (r *Region) Kind() RegionKind {
	if r.parent == nil {
		return RegionKindSSACFG
	}
	return r.parent.RegionKind(r.index)
}

// Loc returns the parent operation's location, or the unknown location.
func (r *Region) Loc() Location {
	if r.parent == nil {
		return UnknownLoc()
	}
	return r.parent.Loc()
}

// ParentRegion returns the region enclosing the parent operation.
func (r *Region) ParentRegion() *Region {
	if r.parent == nil {
		return nil
	}
	return r.parent.ParentRegion()
}

// IsAncestor reports whether r is other or encloses it.
func (r *Region) IsAncestor(other *Region) bool {
	for ; other != nil; other = other.ParentRegion() {
		if other == r {
			return true
		}
	}
	return false
}

// IsProperAncestor reports whether r strictly encloses other.
func (r *Region) IsProperAncestor(other *Region) bool {
	return r != other && r.IsAncestor(other)
}

// FindAncestorOpInRegion returns the ancestor of op (possibly op itself)
// that lives directly in r, or nil if op is not nested in r.
func (r *Region) FindAncestorOpInRegion(op *Operation) *Operation {
	for cur := op; cur != nil; cur = cur.ParentOp() {
		if cur.ParentRegion() == r {
			return cur
		}
	}
	return nil
}

// FindAncestorBlockInRegion returns the ancestor of b (possibly b itself)
// that lives directly in r, or nil if b is not nested in r.
func (r *Region) FindAncestorBlockInRegion(b *Block) *Block {
	for cur := b; cur != nil; {
		if cur.parent == r {
			return cur
		}
		op := cur.ParentOp()
		if op == nil {
			return nil
		}
		cur = op.Block()
	}
	return nil
}
