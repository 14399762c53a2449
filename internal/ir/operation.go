package ir

import (
	"slices"
	"strings"
)

// NamedAttribute is a discardable attribute attached to an operation.
type NamedAttribute struct {
	Name  string
	Value any
}

// DialectNamespace returns the namespace prefix of the attribute name, or ""
// if the name has no '.'.
func (a NamedAttribute) DialectNamespace() string {
	return DialectNamespace(a.Name)
}

// OperationState collects everything needed to create an Operation.
type OperationState struct {
	Name       string
	Loc        Location
	Operands   []*Value
	NumResults int

	// ResultNames optionally names results. If longer than NumResults it
	// determines the result count.
	ResultNames []string

	Attributes []NamedAttribute
	NumRegions int
	Successors []*Block
}

// Operation is a single IR instruction.
type Operation struct {
	ctx        *Context
	name       string
	info       *OpInfo
	loc        Location
	operands   []*Value
	results    []*Value
	attrs      []NamedAttribute
	regions    []*Region
	successors []*Block

	block *Block
	order int // position in block
}

// NewOperation creates a detached operation. The registered info is resolved
// once, at creation, from the context.
func (c *Context) NewOperation(state OperationState) *Operation {
	op := &Operation{
		ctx:      c,
		name:     state.Name,
		info:     c.LookupOperation(state.Name),
		loc:      state.Loc,
		operands: slices.Clone(state.Operands),
	}

	numResults := max(state.NumResults, len(state.ResultNames))
	op.results = make([]*Value, numResults)
	for i := range op.results {
		v := &Value{defOp: op, index: i}
		if i < len(state.ResultNames) {
			v.name = state.ResultNames[i]
		}
		op.results[i] = v
	}

	for _, attr := range state.Attributes {
		op.SetAttr(attr.Name, attr.Value)
	}

	op.regions = make([]*Region, state.NumRegions)
	for i := range op.regions {
		op.regions[i] = &Region{parent: op, index: i}
	}

	op.SetSuccessors(state.Successors...)
	return op
}

// Context returns the context the operation was created in.
func (o *Operation) Context() *Context {
	return o.ctx
}

// Name returns the full operation name, e.g. "func.return".
func (o *Operation) Name() string {
	return o.name
}

// DialectNamespace returns the namespace part of the operation name.
func (o *Operation) DialectNamespace() string {
	return DialectNamespace(o.name)
}

// Dialect resolves the operation's dialect, or nil if it is not loaded.
func (o *Operation) Dialect() Dialect {
	ns := o.DialectNamespace()
	if ns == "" {
		return nil
	}
	return o.ctx.LookupDialect(ns)
}

// Info returns the registered operation info, or nil when unregistered.
func (o *Operation) Info() *OpInfo {
	return o.info
}

// IsRegistered reports whether the operation had registered info at creation.
func (o *Operation) IsRegistered() bool {
	return o.info != nil
}

// Loc returns the operation's location.
func (o *Operation) Loc() Location {
	return o.loc
}

// SetLoc replaces the operation's location.
func (o *Operation) SetLoc(loc Location) {
	o.loc = loc
}

// HasTrait reports whether the operation is registered with trait t.
func (o *Operation) HasTrait(t Trait) bool {
	return o.info != nil && o.info.Traits.Has(t)
}

// MightHaveTrait is HasTrait, except that unregistered operations might
// carry any trait and therefore always report true.
func (o *Operation) MightHaveTrait(t Trait) bool {
	return o.info == nil || o.info.Traits.Has(t)
}

// RegionKind returns the kind of region index, consulting the registered
// region-kind provider when there is one.
func (o *Operation) RegionKind(index int) RegionKind {
	if o.info != nil && o.info.RegionKind != nil {
		return o.info.RegionKind(o, index)
	}
	return RegionKindSSACFG
}

// NumOperands returns the operand count.
func (o *Operation) NumOperands() int {
	return len(o.operands)
}

// Operand returns operand i. It may be nil.
func (o *Operation) Operand(i int) *Value {
	return o.operands[i]
}

// Operands returns the operand list. Callers must not modify it.
func (o *Operation) Operands() []*Value {
	return o.operands
}

// SetOperand replaces operand i.
func (o *Operation) SetOperand(i int, v *Value) {
	o.operands[i] = v
}

// AddOperand appends an operand.
func (o *Operation) AddOperand(v *Value) {
	o.operands = append(o.operands, v)
}

// NumResults returns the result count.
func (o *Operation) NumResults() int {
	return len(o.results)
}

// Result returns result i.
func (o *Operation) Result(i int) *Value {
	return o.results[i]
}

// Results returns the result list. Callers must not modify it.
func (o *Operation) Results() []*Value {
	return o.results
}

// Attrs returns the attributes sorted by name. Callers must not modify it.
func (o *Operation) Attrs() []NamedAttribute {
	return o.attrs
}

// Attr looks up an attribute by name.
func (o *Operation) Attr(name string) (any, bool) {
	i, found := slices.BinarySearchFunc(o.attrs, name, compareAttrName)
	if !found {
		return nil, false
	}
	return o.attrs[i].Value, true
}

// SetAttr sets or replaces an attribute, keeping names unique and sorted.
func (o *Operation) SetAttr(name string, value any) {
	i, found := slices.BinarySearchFunc(o.attrs, name, compareAttrName)
	if found {
		o.attrs[i].Value = value
		return
	}
	o.attrs = slices.Insert(o.attrs, i, NamedAttribute{Name: name, Value: value})
}

func compareAttrName(a NamedAttribute, name string) int {
	return strings.Compare(a.Name, name)
}

// NumRegions returns the region count.
func (o *Operation) NumRegions() int {
	return len(o.regions)
}

// Region returns region i.
func (o *Operation) Region(i int) *Region {
	return o.regions[i]
}

// Regions returns the region list. Callers must not modify it.
func (o *Operation) Regions() []*Region {
	return o.regions
}

// NumSuccessors returns the successor count.
func (o *Operation) NumSuccessors() int {
	return len(o.successors)
}

// Successor returns successor i.
func (o *Operation) Successor(i int) *Block {
	return o.successors[i]
}

// Successors returns the successor list. Callers must not modify it.
func (o *Operation) Successors() []*Block {
	return o.successors
}

// SetSuccessors replaces the successor list and keeps every affected
// block's predecessor uses current.
func (o *Operation) SetSuccessors(blocks ...*Block) {
	for _, old := range o.successors {
		old.removePredecessorUse(o)
	}
	o.successors = slices.Clone(blocks)
	for _, b := range o.successors {
		b.preds = append(b.preds, o)
	}
}

// Block returns the block containing the operation, or nil if detached.
func (o *Operation) Block() *Block {
	return o.block
}

// ParentRegion returns the region containing the operation's block.
func (o *Operation) ParentRegion() *Region {
	if o.block == nil {
		return nil
	}
	return o.block.parent
}

// ParentOp returns the operation owning the enclosing region.
func (o *Operation) ParentOp() *Operation {
	if r := o.ParentRegion(); r != nil {
		return r.parent
	}
	return nil
}

// IsProperAncestor reports whether other is nested somewhere inside o.
func (o *Operation) IsProperAncestor(other *Operation) bool {
	for p := other.ParentOp(); p != nil; p = p.ParentOp() {
		if p == o {
			return true
		}
	}
	return false
}

// IsBeforeInBlock reports whether o comes before other. Both operations must
// be in the same block.
func (o *Operation) IsBeforeInBlock(other *Operation) bool {
	return o.order < other.order
}
