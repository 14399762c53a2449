package ir

import "fmt"

// Value is an SSA definition: either a result of an Operation or an
// argument of a Block.
type Value struct {
	name  string
	loc   Location
	index int

	// Exactly one of these is set.
	defOp *Operation
	owner *Block
}

// Name returns the value's source name, if any.
func (v *Value) Name() string {
	return v.name
}

// Index is the result number or argument number of the value.
func (v *Value) Index() int {
	return v.index
}

// IsBlockArgument reports whether v is a block argument.
func (v *Value) IsBlockArgument() bool {
	return v.defOp == nil
}

// DefiningOp returns the operation producing v, or nil for block arguments.
func (v *Value) DefiningOp() *Operation {
	return v.defOp
}

// Owner returns the block that owns a block argument, or nil for results.
func (v *Value) Owner() *Block {
	return v.owner
}

// SetOwner re-parents a block argument. It does not touch any block's
// argument list; use it together with Block.InsertArgument when moving
// arguments between blocks.
func (v *Value) SetOwner(b *Block) {
	v.owner = b
}

// ParentBlock returns the block in which v is defined.
func (v *Value) ParentBlock() *Block {
	if v.defOp != nil {
		return v.defOp.Block()
	}
	return v.owner
}

// Loc returns the defining location. Results report their operation's
// location.
func (v *Value) Loc() Location {
	if v.defOp != nil {
		return v.defOp.Loc()
	}
	return v.loc
}

// String renders the value as an SSA name.
func (v *Value) String() string {
	if v == nil {
		return "<<NULL VALUE>>"
	}
	if v.name != "" {
		return "%" + v.name
	}
	if v.defOp == nil {
		return fmt.Sprintf("%%arg%d", v.index)
	}
	return fmt.Sprintf("%%%s#%d", v.defOp.Name(), v.index)
}
