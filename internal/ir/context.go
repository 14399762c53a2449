package ir

import (
	"fmt"
	"strings"
	"sync"

	"github.com/roach88/irverify/internal/parallel"
)

// RegionKind describes the control-flow semantics of a region.
type RegionKind int

const (
	// RegionKindSSACFG regions have arbitrary control flow between blocks and
	// obey SSA dominance.
	RegionKindSSACFG RegionKind = iota

	// RegionKindGraph regions have no control-flow ordering. A registered
	// operation may give a graph region at most one block.
	RegionKindGraph
)

// String returns the lower-case kind name.
func (k RegionKind) String() string {
	switch k {
	case RegionKindSSACFG:
		return "ssacfg"
	case RegionKindGraph:
		return "graph"
	default:
		return fmt.Sprintf("RegionKind(%d)", int(k))
	}
}

// Trait is a set of declared operation properties.
type Trait uint32

const (
	// TraitTerminator marks an operation that may end a block.
	TraitTerminator Trait = 1 << iota

	// TraitNoTerminator marks an operation whose single-block regions do not
	// need a terminator.
	TraitNoTerminator

	// TraitIsolatedFromAbove marks an operation whose regions never reference
	// values defined outside them.
	TraitIsolatedFromAbove
)

var traitNames = []struct {
	trait Trait
	name  string
}{
	{TraitTerminator, "terminator"},
	{TraitNoTerminator, "no_terminator"},
	{TraitIsolatedFromAbove, "isolated_from_above"},
}

// Has reports whether every trait in o is present in t.
func (t Trait) Has(o Trait) bool {
	return t&o == o
}

// String lists the trait names joined by "|".
func (t Trait) String() string {
	var names []string
	for _, tn := range traitNames {
		if t.Has(tn.trait) {
			names = append(names, tn.name)
		}
	}
	if len(names) == 0 {
		return "none"
	}
	return strings.Join(names, "|")
}

// ParseTrait maps a trait name (as printed by String) to its flag.
func ParseTrait(name string) (Trait, error) {
	for _, tn := range traitNames {
		if tn.name == name {
			return tn.trait, nil
		}
	}
	return 0, fmt.Errorf("unknown trait %q", name)
}

// ParseRegionKind maps "ssacfg" or "graph" to a RegionKind.
func ParseRegionKind(name string) (RegionKind, error) {
	switch name {
	case "ssacfg", "":
		return RegionKindSSACFG, nil
	case "graph":
		return RegionKindGraph, nil
	default:
		return 0, fmt.Errorf("unknown region kind %q", name)
	}
}

// Dialect groups operations and attributes under a namespace.
type Dialect interface {
	// Namespace is the prefix before the first '.' in operation names.
	Namespace() string

	// AllowsUnknownOperations reports whether operations in this namespace
	// that were never registered are acceptable.
	AllowsUnknownOperations() bool
}

// AttributeVerifier is an optional Dialect capability. It is consulted for
// every discardable attribute whose name is prefixed with the dialect's
// namespace.
type AttributeVerifier interface {
	VerifyOperationAttribute(op *Operation, attr NamedAttribute) error
}

// OpInfo describes a registered operation. Every hook is optional.
type OpInfo struct {
	Name   string
	Traits Trait

	// Verify checks operation-local invariants before nested regions are
	// visited.
	Verify func(op *Operation) error

	// VerifyRegions checks invariants that depend on nested regions. It runs
	// after the regions have been verified.
	VerifyRegions func(op *Operation) error

	// RegionKind reports the kind of the region at index. Nil means every
	// region is SSACFG.
	RegionKind func(op *Operation, index int) RegionKind
}

// Context owns the dialect and operation registries plus the settings the
// verifier consults. Register everything before verifying; verification only
// reads.
type Context struct {
	mu                sync.RWMutex
	dialects          map[string]Dialect
	ops               map[string]*OpInfo
	allowUnregistered bool
	threading         parallel.Config
}

// NewContext creates an empty context with multithreading enabled.
func NewContext() *Context {
	return &Context{
		dialects:  make(map[string]Dialect),
		ops:       make(map[string]*OpInfo),
		threading: parallel.DefaultConfig(),
	}
}

// SetAllowUnregisteredDialects controls whether operations from unknown
// dialects are accepted.
func (c *Context) SetAllowUnregisteredDialects(allow bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.allowUnregistered = allow
}

// AllowsUnregisteredDialects reports the unregistered-dialect policy.
func (c *Context) AllowsUnregisteredDialects() bool {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.allowUnregistered
}

// SetThreading sets the fan-out configuration used for isolated regions.
func (c *Context) SetThreading(cfg parallel.Config) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.threading = cfg
}

// Threading returns the fan-out configuration.
func (c *Context) Threading() parallel.Config {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.threading
}

// RegisterDialect adds d to the registry.
// Returns an error if the namespace is empty or already taken.
func (c *Context) RegisterDialect(d Dialect) error {
	ns := d.Namespace()
	if ns == "" {
		return fmt.Errorf("register dialect: empty namespace")
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, exists := c.dialects[ns]; exists {
		return fmt.Errorf("register dialect: %q already registered", ns)
	}
	c.dialects[ns] = d
	return nil
}

// LookupDialect returns the dialect for ns, or nil.
func (c *Context) LookupDialect(ns string) Dialect {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.dialects[ns]
}

// RegisterOperation registers info. The operation's dialect must already be
// registered, and the name must be unique.
func (c *Context) RegisterOperation(info OpInfo) error {
	ns := DialectNamespace(info.Name)

	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.dialects[ns]; !ok {
		return fmt.Errorf("register operation %q: dialect %q not registered", info.Name, ns)
	}
	if _, exists := c.ops[info.Name]; exists {
		return fmt.Errorf("register operation %q: already registered", info.Name)
	}
	registered := info
	c.ops[info.Name] = &registered
	return nil
}

// LookupOperation returns the registered info for name, or nil.
func (c *Context) LookupOperation(name string) *OpInfo {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.ops[name]
}

// DialectNamespace returns the part of name before the first '.'.
// Names without a '.' have no dialect.
func DialectNamespace(name string) string {
	if i := strings.IndexByte(name, '.'); i > 0 {
		return name[:i]
	}
	return ""
}
