package ir

import "slices"

// Block is a straight-line sequence of operations with arguments.
type Block struct {
	label  string
	ops    []*Operation
	args   []*Value
	parent *Region
	preds  []*Operation // one entry per successor use naming this block
}

// NewBlock creates a detached, empty block.
func NewBlock() *Block {
	return &Block{}
}

// Label returns the block's source label.
func (b *Block) Label() string {
	return b.label
}

// SetLabel sets the block's source label.
func (b *Block) SetLabel(label string) {
	b.label = label
}

// AddArgument appends a new argument owned by b.
func (b *Block) AddArgument(name string, loc Location) *Value {
	v := &Value{name: name, loc: loc, index: len(b.args), owner: b}
	b.args = append(b.args, v)
	return v
}

// InsertArgument splices an existing value into the argument list at index
// i without changing the value's owner.
func (b *Block) InsertArgument(i int, v *Value) {
	b.args = slices.Insert(b.args, i, v)
}

// NumArguments returns the argument count.
func (b *Block) NumArguments() int {
	return len(b.args)
}

// Argument returns argument i.
func (b *Block) Argument(i int) *Value {
	return b.args[i]
}

// Arguments returns the argument list. Callers must not modify it.
func (b *Block) Arguments() []*Value {
	return b.args
}

// Append adds op at the end of the block.
// Panics if op already belongs to a block.
func (b *Block) Append(ops ...*Operation) {
	for _, op := range ops {
		if op.block != nil {
			panic("ir: operation " + op.name + " already belongs to a block")
		}
		op.block = b
		op.order = len(b.ops)
		b.ops = append(b.ops, op)
	}
}

// Remove detaches op from the block. It is a no-op if op is elsewhere.
func (b *Block) Remove(op *Operation) {
	i := slices.Index(b.ops, op)
	if i < 0 {
		return
	}
	b.ops = slices.Delete(b.ops, i, i+1)
	op.block = nil
	b.renumber()
}

// Operations returns the operations in order. Callers must not modify it.
func (b *Block) Operations() []*Operation {
	return b.ops
}

// Len returns the number of operations.
func (b *Block) Len() int {
	return len(b.ops)
}

// Empty reports whether the block has no operations.
func (b *Block) Empty() bool {
	return len(b.ops) == 0
}

// Front returns the first operation, or nil.
func (b *Block) Front() *Operation {
	if len(b.ops) == 0 {
		return nil
	}
	return b.ops[0]
}

// Back returns the last operation, or nil.
func (b *Block) Back() *Operation {
	if len(b.ops) == 0 {
		return nil
	}
	return b.ops[len(b.ops)-1]
}

// Parent returns the enclosing region, or nil.
func (b *Block) Parent() *Region {
	return b.parent
}

// ParentOp returns the operation owning the enclosing region, or nil.
func (b *Block) ParentOp() *Operation {
	if b.parent == nil {
		return nil
	}
	return b.parent.parent
}

// Index returns the block's position within its region, or -1.
func (b *Block) Index() int {
	if b.parent == nil {
		return -1
	}
	return slices.Index(b.parent.blocks, b)
}

// IsEntryBlock reports whether b is the first block of its region.
func (b *Block) IsEntryBlock() bool {
	return b.parent != nil && b.parent.Front() == b
}

// Successors returns the successors declared by the last operation.
func (b *Block) Successors() []*Block {
	if back := b.Back(); back != nil {
		return back.successors
	}
	return nil
}

// Predecessors returns the blocks of every operation naming b as a
// successor, one entry per use. Detached operations are skipped.
func (b *Block) Predecessors() []*Block {
	preds := make([]*Block, 0, len(b.preds))
	for _, op := range b.preds {
		if op.block != nil {
			preds = append(preds, op.block)
		}
	}
	return preds
}

// HasNoPredecessors reports whether no operation names b as a successor.
func (b *Block) HasNoPredecessors() bool {
	return len(b.preds) == 0
}

func (b *Block) removePredecessorUse(op *Operation) {
	if i := slices.Index(b.preds, op); i >= 0 {
		b.preds = slices.Delete(b.preds, i, i+1)
	}
}

// renumber refreshes operation order eagerly so that verification, which may
// run concurrently, never writes to the IR.
func (b *Block) renumber() {
	for i, op := range b.ops {
		op.order = i
	}
}
